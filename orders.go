// Part of the tn3270emu project. Licensed under the MIT license. See
// LICENSE in the project root for license information.

package tn3270

// Command is a 3270 command code, the first byte of a data-stream record.
type Command byte

// Command codes, per §4.3.
const (
	CmdWrite               Command = 0x01
	CmdEraseWrite          Command = 0x05
	CmdEraseWriteAlternate Command = 0x0D
	CmdEraseAllUnprotected Command = 0x0F
	CmdReadBuffer          Command = 0x02
	CmdReadModified        Command = 0x06
	CmdReadModifiedAll     Command = 0x6E
	CmdWriteStructuredField Command = 0x11
)

// order is a single-byte 3270 order opcode. Byte values >= 0x40 that don't
// match a known order are treated as data, not orders (§4.3 "Ordering,
// tie-breaks, edge cases").
type order byte

const (
	orderSBA order = 0x11
	orderSF  order = 0x1D
	orderSFE order = 0x29
	orderSA  order = 0x28
	orderMF  order = 0x2C
	orderIC  order = 0x13
	orderPT  order = 0x05
	orderRA  order = 0x3C
	orderEUA order = 0x12
	orderGE  order = 0x08
)

// Structured-field IDs recognized by the interpreter and response builder
// (§4.3 WSF, §4.6 Query Reply).
const (
	sfidReadPartition     byte = 0x01
	sfidOutbound3270DS    byte = 0x40
	sfidQueryReply        byte = 0x81
)

// Query Reply sub-types, used by ResponseBuilder.QueryReply (§4.6).
const (
	qrUsableArea        byte = 0x80
	qrCharacterSets     byte = 0x83
	qrColor             byte = 0x85
	qrHighlighting      byte = 0x86
	qrReplyModes        byte = 0x87
	qrImplicitPartition byte = 0x88
	qrAuxiliaryDevice   byte = 0x94
)
