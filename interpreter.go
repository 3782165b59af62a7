// Part of the tn3270emu project. Licensed under the MIT license. See
// LICENSE in the project root for license information.

package tn3270

// CommandResult summarizes what a single Execute call did, for the
// Session to act on: whether the command carried a WCC (Write-family
// commands do; Read-family commands don't), and whether it was a
// read request that the Session must now service with a
// ResponseBuilder-constructed reply (§4.3 "Read Buffer / Read Modified /
// Read Modified All — inbound-only requests; recorded as 'pending read'").
type CommandResult struct {
	Command     Command
	HasWCC      bool
	WCC         WCC
	PendingRead bool
	ReadAll     bool // true for Read Modified All
}

// Interpreter executes 3270 command records against a PresentationSpace.
// It holds no state of its own between calls other than the
// TN3270ENegotiated flag and the AltRows/AltCols alternate screen size;
// everything else lives in the PresentationSpace and FieldTable it is
// given, so one Interpreter can serve any number of presentation spaces
// sequentially (§4.3 "Pure function over a byte slice + mutable
// presentation space").
type Interpreter struct {
	// TN3270ENegotiated records whether the Session completed TN3270E
	// negotiation; it gates the EWA alternate-size Open Question
	// (resolved in SPEC_FULL.md: ignore the alternate-size request when
	// false).
	TN3270ENegotiated bool

	// AltRows, AltCols describe the alternate screen size to switch to on
	// EWA when TN3270ENegotiated is true. Zero means "no alternate size
	// configured", in which case EWA behaves like EW.
	AltRows, AltCols int
}

// NewInterpreter returns an Interpreter with no alternate screen
// configured.
func NewInterpreter() *Interpreter {
	return &Interpreter{}
}

// Execute runs one complete 3270 record (as delivered by a Framer) against
// ps. It never rolls back mutations already applied before a protocol
// violation is detected partway through the order stream (§4.3 "no
// partial effects are rolled back"); the returned error's Position/Byte
// pinpoint where processing stopped.
func (ip *Interpreter) Execute(record []byte, ps *PresentationSpace) (CommandResult, error) {
	var result CommandResult
	if len(record) == 0 {
		return result, newError(ErrUnknownCommand, "empty record")
	}

	cmd := Command(record[0])
	result.Command = cmd
	pos := 1

	switch cmd {
	case CmdReadBuffer:
		result.PendingRead = true
		return result, nil
	case CmdReadModified:
		result.PendingRead = true
		return result, nil
	case CmdReadModifiedAll:
		result.PendingRead = true
		result.ReadAll = true
		return result, nil

	case CmdWrite, CmdEraseWrite, CmdEraseWriteAlternate, CmdEraseAllUnprotected:
		// Fall through to WCC/orders handling below (EAU has no WCC byte
		// of its own in some implementations, but per §4.3 "After the
		// command byte, if not a Read, the next byte is the WCC" -- EAU
		// is a Write-family, non-Read command, so it too carries a WCC).
	case CmdWriteStructuredField:
		return ip.executeWSF(record, ps)

	default:
		return result, &Error{Kind: ErrUnknownCommand, Position: 0, Byte: record[0]}
	}

	if pos >= len(record) {
		return result, newError(ErrTruncatedOrderArguments, "command %#02x missing WCC byte", byte(cmd))
	}
	wcc := DecodeWCC(record[pos])
	result.HasWCC = true
	result.WCC = wcc
	pos++

	switch cmd {
	case CmdEraseWrite:
		ps.Clear()
	case CmdEraseWriteAlternate:
		if ip.TN3270ENegotiated && ip.AltRows > 0 && ip.AltCols > 0 {
			ps.Rows, ps.Cols = ip.AltRows, ip.AltCols
		}
		ps.Clear()
	case CmdEraseAllUnprotected:
		ip.eraseAllUnprotected(ps)
	}

	if wcc.ResetMDT {
		ps.Fields.ClearAllMDTs()
	}

	err := ip.runOrders(record[pos:], pos, ps)
	return result, err
}

// eraseAllUnprotected resets the content of every unprotected field to
// space, clears MDT everywhere, and moves the cursor to the first
// unprotected field (§4.3 "0F Erase All Unprotected").
func (ip *Interpreter) eraseAllUnprotected(ps *PresentationSpace) {
	for _, f := range ps.Fields.All() {
		if f.Protected {
			continue
		}
		length := ps.Fields.length(f)
		for i := 0; i < length; i++ {
			addr := (f.Start + 1 + i) % ps.Size()
			ps.cells[addr] = spaceByte
			delete(ps.extended, addr)
		}
		f.MDT = false
	}
	ps.bump()
	if addr, ok := ps.Fields.NextUnprotected(0, 1); ok {
		ps.cursor = addr
	} else {
		ps.cursor = 0
	}
}

// runOrders processes the order/data byte stream of a Write-family
// command sequentially, per §4.3 "Orders" and "Ordering, tie-breaks, edge
// cases". baseOffset is added to positions reported in errors so they
// reflect the offset within the whole record.
func (ip *Interpreter) runOrders(data []byte, baseOffset int, ps *PresentationSpace) error {
	var currentAttr ExtendedAttribute
	i := 0

	need := func(n int) error {
		if i+n > len(data) {
			return &Error{Kind: ErrTruncatedOrderArguments, Position: baseOffset + i - 1, Byte: data[i-1]}
		}
		return nil
	}

	for i < len(data) {
		b := data[i]
		i++

		switch order(b) {
		case orderSBA:
			if err := need(2); err != nil {
				return err
			}
			addr, err := DecodeAddress([2]byte{data[i], data[i+1]})
			if err != nil {
				return &Error{Kind: ErrAddressOutOfRange, Position: baseOffset + i - 1, Byte: data[i]}
			}
			i += 2
			if addr >= ps.Size() {
				return &Error{Kind: ErrAddressOutOfRange, Position: baseOffset + i - 1, Byte: data[i-1]}
			}
			ps.cursor = addr
			ps.bump()

		case orderSF:
			if err := need(1); err != nil {
				return err
			}
			attr := DecodeAttribute(data[i])
			ps.writeAttributeRaw(ps.cursor, data[i])
			ps.Fields.Add(ps.cursor, attr, nil, false)
			ps.cursor = ps.advance(ps.cursor)
			i++
			currentAttr = ExtendedAttribute{}

		case orderSFE:
			if err := need(1); err != nil {
				return err
			}
			n := int(data[i])
			i++
			var attr Attribute
			var ext ExtendedAttribute
			for p := 0; p < n; p++ {
				if err := need(2); err != nil {
					return err
				}
				typ, val := data[i], data[i+1]
				i += 2
				if typ == attrTypeFieldAttr {
					attr = DecodeAttribute(val)
				} else {
					ext = applyExtendedPair(ext, typ, val)
				}
			}
			ps.writeAttributeRaw(ps.cursor, attr.Encode())
			hasExt := ext != (ExtendedAttribute{})
			var extPtr *ExtendedAttribute
			if hasExt {
				extPtr = &ext
			}
			ps.Fields.Add(ps.cursor, attr, extPtr, false)
			ps.cursor = ps.advance(ps.cursor)
			currentAttr = ExtendedAttribute{}

		case orderSA:
			if err := need(2); err != nil {
				return err
			}
			currentAttr = applyExtendedPair(currentAttr, data[i], data[i+1])
			i += 2

		case orderMF:
			if err := need(1); err != nil {
				return err
			}
			n := int(data[i])
			i++
			f := ps.Fields.find(ps.cursor)
			for p := 0; p < n; p++ {
				if err := need(2); err != nil {
					return err
				}
				typ, val := data[i], data[i+1]
				i += 2
				if f == nil {
					continue
				}
				if typ == attrTypeFieldAttr {
					f.Attribute = DecodeAttribute(val)
				} else {
					ext := ExtendedAttribute{}
					if f.Extended != nil {
						ext = *f.Extended
					}
					ext = applyExtendedPair(ext, typ, val)
					f.Extended = &ext
				}
			}

		case orderIC:
			// Insert Cursor: ps.cursor is already the write position;
			// nothing more to do than note that the presentation cursor
			// == buffer address at this point, which it already is.

		case orderPT:
			next, ok := ps.Fields.NextUnprotected(ps.cursor, 1)
			if ok {
				ip.clearToFieldEnd(ps, ps.cursor)
				ps.cursor = next
			}

		case orderRA:
			if err := need(3); err != nil {
				return err
			}
			stopAddr, err := DecodeAddress([2]byte{data[i], data[i+1]})
			if err != nil {
				return &Error{Kind: ErrAddressOutOfRange, Position: baseOffset + i - 1, Byte: data[i]}
			}
			if stopAddr >= ps.Size() {
				return &Error{Kind: ErrAddressOutOfRange, Position: baseOffset + i - 1, Byte: data[i]}
			}
			ch := data[i+2]
			i += 3
			ip.repeatToAddress(ps, stopAddr, ch)

		case orderEUA:
			if err := need(2); err != nil {
				return err
			}
			stopAddr, err := DecodeAddress([2]byte{data[i], data[i+1]})
			if err != nil {
				return &Error{Kind: ErrAddressOutOfRange, Position: baseOffset + i - 1, Byte: data[i]}
			}
			if stopAddr >= ps.Size() {
				return &Error{Kind: ErrAddressOutOfRange, Position: baseOffset + i - 1, Byte: data[i]}
			}
			i += 2
			ip.eraseUnprotectedToAddress(ps, stopAddr)

		case orderGE:
			if err := need(1); err != nil {
				return err
			}
			ch := data[i]
			i++
			ps.writeDataRaw(ps.cursor, ch, attrOrNil(currentAttr))
			ps.cursor = ps.advance(ps.cursor)

		default:
			if b < 0x40 {
				return &Error{Kind: ErrUnknownOrder, Position: baseOffset + i - 1, Byte: b}
			}
			// Data byte: write and advance, wrapping (§4.3).
			ps.writeDataRaw(ps.cursor, b, attrOrNil(currentAttr))
			ps.cursor = ps.advance(ps.cursor)
		}
	}

	return nil
}

func attrOrNil(ext ExtendedAttribute) *ExtendedAttribute {
	if ext == (ExtendedAttribute{}) {
		return nil
	}
	return &ext
}

// clearToFieldEnd blanks cells from addr (exclusive) to the end of the
// field containing addr, used by PT's "clearing intervening cells"
// behavior (§4.3 "05 PT").
func (ip *Interpreter) clearToFieldEnd(ps *PresentationSpace, addr int) {
	f := ps.Fields.find(addr)
	if f == nil {
		return
	}
	length := ps.Fields.length(f)
	end := (f.Start + 1 + length) % ps.Size()
	a := ps.advance(addr)
	for a != end {
		ps.cells[a] = spaceByte
		delete(ps.extended, a)
		a = ps.advance(a)
		if a == addr {
			break
		}
	}
	ps.bump()
}

// repeatToAddress fills cells from the current cursor through stopAddr
// (exclusive) with ch, wrapping at the end of the space. When stopAddr
// equals the current address, the chosen policy (documented in
// SPEC_FULL.md/GLOSSARY) is "fill the entire screen": every cell is
// written exactly once (§8 "RA with stop-addr equal to current addr").
func (ip *Interpreter) repeatToAddress(ps *PresentationSpace, stopAddr int, ch byte) {
	addr := ps.cursor
	for {
		ps.writeDataRaw(addr, ch, nil)
		addr = ps.advance(addr)
		if addr == stopAddr {
			break
		}
	}
	ps.cursor = stopAddr
}

// eraseUnprotectedToAddress blanks unprotected cells from the current
// cursor through stopAddr (exclusive), wrapping (§4.3 "12 EUA").
func (ip *Interpreter) eraseUnprotectedToAddress(ps *PresentationSpace, stopAddr int) {
	addr := ps.cursor
	for addr != stopAddr {
		if f := ps.Fields.find(addr); f == nil || !f.Protected {
			ps.cells[addr] = spaceByte
			delete(ps.extended, addr)
		}
		addr = ps.advance(addr)
	}
	ps.cursor = stopAddr
	ps.bump()
}

// executeWSF handles a Write Structured Field command: the payload is one
// or more length-prefixed structured fields. We recognize Read Partition
// and Outbound 3270DS explicitly and skip unknown structured fields
// (§4.3 "11 Write Structured Field").
func (ip *Interpreter) executeWSF(record []byte, ps *PresentationSpace) (CommandResult, error) {
	var result CommandResult
	result.Command = CmdWriteStructuredField

	i := 1
	for i < len(record) {
		if i+2 > len(record) {
			return result, &Error{Kind: ErrTruncatedOrderArguments, Position: i, Byte: record[i]}
		}
		length := int(record[i])<<8 | int(record[i+1])
		if length < 2 || i+length > len(record) {
			return result, &Error{Kind: ErrTruncatedOrderArguments, Position: i, Byte: record[i]}
		}
		sfid := record[i+2]
		body := record[i+3 : i+length]

		switch sfid {
		case sfidReadPartition:
			if len(body) >= 2 && body[1] == 0x02 { // QUERY type
				result.PendingRead = true
			}
		case sfidOutbound3270DS:
			if err := ip.runOrders(body, i+3, ps); err != nil {
				return result, err
			}
		default:
			// Unknown structured field: recognize + skip.
		}

		i += length
	}

	return result, nil
}
