// Part of the tn3270emu project. Licensed under the MIT license. See
// LICENSE in the project root for license information.

package tn3270

import "sort"

// Field is one entry in the Field Model: the Start-Field attribute byte at
// Start, plus any extended attributes from SFE. Field content is never
// stored here -- it is a view over the owning PresentationSpace's cells
// from Start+1 up to the next field's Start (wrapping), per §3 "Field".
type Field struct {
	Start int
	Attribute
	Extended *ExtendedAttribute
}

// FieldTable is the ordered field list described in §4.2: fields keyed by
// start address, supporting search, tab navigation, and MDT bookkeeping.
// It never holds a reference back to the PresentationSpace's cell slice;
// the only link between a field and its content is the Start address,
// per §9 "no pointer cycles".
type FieldTable struct {
	ps     *PresentationSpace
	fields []*Field // kept sorted by Start
}

func newFieldTable(ps *PresentationSpace) *FieldTable {
	return &FieldTable{ps: ps}
}

// Len returns the number of fields currently defined.
func (ft *FieldTable) Len() int {
	return len(ft.fields)
}

// All returns the fields in ascending Start order. The returned slice is
// owned by the caller but the *Field values are shared with the table;
// callers must not mutate Start through it.
func (ft *FieldTable) All() []*Field {
	out := make([]*Field, len(ft.fields))
	copy(out, ft.fields)
	return out
}

func (ft *FieldTable) indexOf(start int) (int, bool) {
	i := sort.Search(len(ft.fields), func(i int) bool {
		return ft.fields[i].Start >= start
	})
	if i < len(ft.fields) && ft.fields[i].Start == start {
		return i, true
	}
	return i, false
}

// Add inserts a field starting at start with the given attribute. If a
// field already begins at start, its attribute (and any extended
// attributes) is replaced in place and its MDT is preserved only if
// keepMDT is true; otherwise the field takes the MDT bit of attr. The
// interpreter's SF and SFE handling both pass keepMDT=false.
func (ft *FieldTable) Add(start int, attr Attribute, ext *ExtendedAttribute, keepMDT bool) *Field {
	i, exists := ft.indexOf(start)
	if exists {
		f := ft.fields[i]
		mdt := f.MDT
		f.Attribute = attr
		f.Extended = ext
		if keepMDT {
			f.MDT = mdt
		}
		return f
	}

	f := &Field{Start: start, Attribute: attr, Extended: ext}
	ft.fields = append(ft.fields, nil)
	copy(ft.fields[i+1:], ft.fields[i:])
	ft.fields[i] = f
	return f
}

// removeAll clears every field, used by PresentationSpace.Clear().
func (ft *FieldTable) removeAll() {
	ft.fields = nil
}

// find returns the field containing addr: the field whose Start is the
// largest Start <= addr, wrapping around to the last field if addr is
// before every field's Start (§4.2 find()). It returns nil if no field is
// defined.
func (ft *FieldTable) find(addr int) *Field {
	if len(ft.fields) == 0 {
		return nil
	}
	i, exact := ft.indexOf(addr)
	if exact {
		return ft.fields[i]
	}
	if i == 0 {
		// addr is before the first field's Start: wrap to the last field,
		// whose span continues through the end of the space and back to
		// its own Start.
		return ft.fields[len(ft.fields)-1]
	}
	return ft.fields[i-1]
}

// Find is the exported form of find.
func (ft *FieldTable) Find(addr int) *Field {
	return ft.find(addr)
}

// length returns the field's content length: the distance from f.Start+1
// to the next field's Start, wrapping at the end of the space. With a
// single field, the length is Size()-1 (every other cell in the space).
func (ft *FieldTable) length(f *Field) int {
	size := ft.ps.Size()
	i, _ := ft.indexOf(f.Start)
	var nextStart int
	if len(ft.fields) == 1 {
		nextStart = f.Start
	} else if i == len(ft.fields)-1 {
		nextStart = ft.fields[0].Start
	} else {
		nextStart = ft.fields[i+1].Start
	}
	length := nextStart - (f.Start + 1)
	if length < 0 {
		length += size
	}
	return length
}

// Content returns the field's current bytes (EBCDIC, raw) as stored in
// the presentation space, per the content-is-a-view rule in §3.
func (ft *FieldTable) Content(f *Field) []byte {
	length := ft.length(f)
	if length == 0 {
		return nil
	}
	b, _ := ft.ps.BufferSpan(f.Start+1, length)
	return b
}

// NextUnprotected returns the address of the first unprotected field's
// content start, searching forward (direction > 0) or backward
// (direction < 0) from fromAddr, wrapping around the field list when
// nothing is found after/before fromAddr. It returns (0, false) if no
// unprotected field exists at all (§4.2 next_unprotected).
func (ft *FieldTable) NextUnprotected(fromAddr int, direction int) (int, bool) {
	n := len(ft.fields)
	if n == 0 {
		return 0, false
	}

	start, _ := ft.indexOf(fromAddr)
	if direction >= 0 {
		for step := 0; step < n; step++ {
			idx := (start + step) % n
			f := ft.fields[idx]
			if !f.Protected {
				return (f.Start + 1) % ft.ps.Size(), true
			}
		}
	} else {
		for step := 0; step < n; step++ {
			idx := ((start-1-step)%n + n) % n
			f := ft.fields[idx]
			if !f.Protected {
				return (f.Start + 1) % ft.ps.Size(), true
			}
		}
	}
	return 0, false
}

// SetMDT sets f's Modified-Data-Tag.
func (ft *FieldTable) SetMDT(f *Field, value bool) {
	f.MDT = value
}

// ClearAllMDTs clears MDT on every field, used for WCC.ResetMDT and EAU.
func (ft *FieldTable) ClearAllMDTs() {
	for _, f := range ft.fields {
		f.MDT = false
	}
}

// IterModified calls visit for each field with MDT set, in ascending
// address order, stopping early if visit returns false.
func (ft *FieldTable) IterModified(visit func(f *Field, content []byte) bool) {
	for _, f := range ft.fields {
		if !f.MDT {
			continue
		}
		if !visit(f, ft.Content(f)) {
			return
		}
	}
}
