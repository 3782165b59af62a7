// Part of the tn3270emu project. Licensed under the MIT license. See
// LICENSE in the project root for license information.

package tn3270

// spaceByte is the EBCDIC encoding of a blank cell under every codepage
// this package supports (0x40 is "space" in every EBCDIC codepage we ship,
// including CP037).
const spaceByte = 0x40

// PresentationSpace is the character+attribute grid a Session maintains:
// fixed rows x cols, a parallel extended-attribute map, a field index, a
// cursor, a keyboard-locked flag, and a monotonic generation counter that
// renderers use for change detection (§4.1).
type PresentationSpace struct {
	Rows, Cols int

	cells    []byte
	extended map[int]ExtendedAttribute

	Fields *FieldTable

	cursor  int
	generation uint64
	keyboardLocked bool
}

// NewPresentationSpace builds a rows x cols presentation space, filled
// with EBCDIC spaces, cursor at 0, generation 0, no fields, keyboard
// locked (a Session unlocks it once the first server command completes
// with WCC.KeyboardRestore set, per §4.7).
func NewPresentationSpace(rows, cols int) *PresentationSpace {
	ps := &PresentationSpace{Rows: rows, Cols: cols}
	ps.Fields = newFieldTable(ps)
	ps.initCells()
	ps.keyboardLocked = true
	return ps
}

func (ps *PresentationSpace) initCells() {
	ps.cells = make([]byte, ps.Rows*ps.Cols)
	for i := range ps.cells {
		ps.cells[i] = spaceByte
	}
	ps.extended = make(map[int]ExtendedAttribute)
}

// Size returns rows*cols, the total number of addressable cells.
func (ps *PresentationSpace) Size() int {
	return ps.Rows * ps.Cols
}

// Generation returns the current mutation counter. It increases by at
// least 1 on every successful mutation (§8 "Generation strictly
// increases").
func (ps *PresentationSpace) Generation() uint64 {
	return ps.generation
}

func (ps *PresentationSpace) bump() {
	ps.generation++
}

// Cursor returns the current cursor address.
func (ps *PresentationSpace) Cursor() int {
	return ps.cursor
}

// KeyboardLocked reports whether operator input is currently inhibited.
func (ps *PresentationSpace) KeyboardLocked() bool {
	return ps.keyboardLocked
}

// SetKeyboardLocked sets the locked flag directly; used by Session on
// bind, after interpreting WCC.KeyboardRestore, and after sending an AID.
func (ps *PresentationSpace) SetKeyboardLocked(locked bool) {
	ps.keyboardLocked = locked
}

// validAddr reports whether addr is within [0, Size()).
func (ps *PresentationSpace) validAddr(addr int) bool {
	return addr >= 0 && addr < ps.Size()
}

// SetCursor moves the cursor to addr. It returns an out_of_bounds Error if
// addr is outside the presentation space.
func (ps *PresentationSpace) SetCursor(addr int) error {
	if !ps.validAddr(addr) {
		return newError(ErrOutOfBounds, "cursor address %d outside space of size %d", addr, ps.Size())
	}
	ps.cursor = addr
	return nil
}

// ReadCell returns the raw EBCDIC byte stored at addr and whether an
// extended attribute is present for that cell.
func (ps *PresentationSpace) ReadCell(addr int) (byte, ExtendedAttribute, bool) {
	ext, ok := ps.extended[addr]
	return ps.cells[addr], ext, ok
}

// WriteCell stores ch (an EBCDIC byte) at addr, optionally setting an
// extended attribute override, sets the enclosing field's MDT if addr
// falls inside a field, and bumps the generation counter (§4.1
// write_cell). This is the operator-input path: typing a character sets
// MDT. Host-originated data-stream writes use writeDataRaw instead, which
// does not touch MDT (only the operator, not the host painting a screen,
// marks a field modified).
func (ps *PresentationSpace) WriteCell(addr int, ch byte, ext *ExtendedAttribute) error {
	if !ps.validAddr(addr) {
		return newError(ErrOutOfBounds, "write address %d outside space of size %d", addr, ps.Size())
	}
	ps.writeDataRaw(addr, ch, ext)
	if f := ps.Fields.find(addr); f != nil {
		f.MDT = true
	}
	return nil
}

// writeDataRaw stores ch at addr without touching MDT, used by the
// interpreter when applying host-originated data-stream bytes (§4.3).
func (ps *PresentationSpace) writeDataRaw(addr int, ch byte, ext *ExtendedAttribute) {
	ps.cells[addr] = ch
	if ext != nil {
		ps.extended[addr] = *ext
	} else {
		delete(ps.extended, addr)
	}
	ps.bump()
}

// writeAttributeRaw stores a Start-Field attribute byte at addr without
// touching the field table's MDT bookkeeping (the attribute cell itself is
// never "inside" a field). Used by SF/SFE handling in the interpreter.
func (ps *PresentationSpace) writeAttributeRaw(addr int, wire byte) {
	ps.cells[addr] = wire
	delete(ps.extended, addr)
	ps.bump()
}

// Clear fills every cell with EBCDIC space, resets the cursor to 0,
// removes every field, and bumps the generation counter (§4.1 clear(),
// invariant c).
func (ps *PresentationSpace) Clear() {
	ps.initCells()
	ps.cursor = 0
	ps.Fields.removeAll()
	ps.bump()
}

// BufferSpan returns the len cells starting at start, wrapping at the end
// of the presentation space, as a slice of raw EBCDIC bytes in address
// order (§4.1 buffer_span). The returned addresses (same order) are also
// provided for callers that need to know where each byte came from.
func (ps *PresentationSpace) BufferSpan(start, length int) (bytes []byte, addrs []int) {
	size := ps.Size()
	bytes = make([]byte, length)
	addrs = make([]int, length)
	for i := 0; i < length; i++ {
		a := (start + i) % size
		bytes[i] = ps.cells[a]
		addrs[i] = a
	}
	return bytes, addrs
}

// advance moves addr forward by one cell, wrapping from the last cell to
// cell 0 (§4.3 "Cursor advances after each written data byte").
func (ps *PresentationSpace) advance(addr int) int {
	addr++
	if addr >= ps.Size() {
		addr = 0
	}
	return addr
}
