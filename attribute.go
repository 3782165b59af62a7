// Part of the tn3270emu project. Licensed under the MIT license. See
// LICENSE in the project root for license information.

package tn3270

// Display is the tri-state visibility of a field: normal, intensified, or
// hidden (non-display). Hidden fields still store their bytes; only the
// renderer sink's echo is suppressed (§4.1 invariant d).
type Display int

const (
	DisplayNormal Display = iota
	DisplayIntensified
	DisplayHidden
)

// Attribute is the decoded form of a 3270 Start-Field attribute byte: it
// carries protected/numeric flags, the display tri-state, and the
// Modified-Data-Tag. Layout is MSB-first per §6: reserved(2) protected(1)
// numeric(1) display(2) reserved(1) MDT(1).
type Attribute struct {
	Protected bool
	Numeric   bool
	Display   Display
	MDT       bool
}

// DecodeAttribute unpacks a raw SF attribute byte.
func DecodeAttribute(b byte) Attribute {
	return Attribute{
		Protected: b&0x20 != 0,
		Numeric:   b&0x10 != 0,
		Display:   Display((b >> 2) & 0x03),
		MDT:       b&0x01 != 0,
	}
}

// Encode packs an Attribute back into its wire byte, filling the unused
// "reserved" bits with zero.
func (a Attribute) Encode() byte {
	var b byte
	if a.Protected {
		b |= 0x20
	}
	if a.Numeric {
		b |= 0x10
	}
	b |= byte(a.Display&0x03) << 2
	if a.MDT {
		b |= 0x01
	}
	return b
}

// Highlight is the extended highlighting value for a cell or field.
type Highlight int

const (
	HighlightNone Highlight = iota
	HighlightBlink
	HighlightReverse
	HighlightUnderline
)

// ExtendedAttribute carries the optional per-cell/per-field overrides set
// by SFE/SA/MF: foreground/background color, highlighting, and character
// set. Presence of each field is tracked independently (zero value means
// "not set", so a zero ExtendedAttribute is indistinguishable from "no
// extended attributes present" -- presence is tracked separately: a nil
// Field.Extended pointer, and the bool returned by
// PresentationSpace.ReadCell).
type ExtendedAttribute struct {
	Foreground  byte
	Background  byte
	Highlight   Highlight
	CharacterSet byte
}

// Structured-field/Set-Attribute "type" bytes used by SFE, SA, and MF
// (type, value) pairs, per the 3270 Data Stream reference.
const (
	attrTypeFieldAttr     byte = 0xC0
	attrTypeForeground    byte = 0x42
	attrTypeBackground    byte = 0x45
	attrTypeHighlight     byte = 0x41
	attrTypeCharSet       byte = 0x43
	attrTypeTransparency  byte = 0x46
)

// applyExtendedPair applies one (type, value) pair from an SFE/SA/MF
// argument list to ext, returning the updated value. Unknown type bytes
// are ignored (forward-compatible with vendor extensions we don't model).
func applyExtendedPair(ext ExtendedAttribute, typ, val byte) ExtendedAttribute {
	switch typ {
	case attrTypeForeground:
		ext.Foreground = val
	case attrTypeBackground:
		ext.Background = val
	case attrTypeCharSet:
		ext.CharacterSet = val
	case attrTypeHighlight:
		switch val {
		case 0xF1:
			ext.Highlight = HighlightBlink
		case 0xF2:
			ext.Highlight = HighlightReverse
		case 0xF4:
			ext.Highlight = HighlightUnderline
		default:
			ext.Highlight = HighlightNone
		}
	}
	return ext
}
