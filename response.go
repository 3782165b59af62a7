// Part of the tn3270emu project. Licensed under the MIT license. See
// LICENSE in the project root for license information.

package tn3270

// ResponseBuilder constructs the byte payloads a Session sends back to the
// host in answer to a Read Buffer / Read Modified / Read Modified All
// request, a Clear/PA/PF key press, or a Query Reply structured field
// (§4.6). It is stateless: every method takes the PresentationSpace it
// operates on and returns a freshly built []byte. Callers pass the result
// through EncodeRecord before writing it to the transport.
type ResponseBuilder struct{}

// NewResponseBuilder returns a ResponseBuilder. It carries no state; the
// constructor exists for symmetry with Interpreter and Negotiator.
func NewResponseBuilder() *ResponseBuilder { return &ResponseBuilder{} }

// BuildClear returns the minimal response to an AID_CLEAR key press: the
// AID byte alone, cursor implicitly at 0, no field data (§4.6 "Clear-AID
// handling").
func (rb *ResponseBuilder) BuildClear() []byte {
	return []byte{byte(AIDClear)}
}

// BuildShortRead returns the AID byte plus the encoded cursor address and
// nothing else: the response real 3270 hardware sends for a PA key, which
// carries no data of its own and so never includes field content (§4.6,
// §4.7 "on operator AID, build response via §4.6" -- PA1/PA2/PA3 use this
// short form rather than a full Read-Modified-All).
func (rb *ResponseBuilder) BuildShortRead(aid AID, ps *PresentationSpace) []byte {
	cur := EncodeAddress(ps.Cursor())
	return []byte{byte(aid), cur[0], cur[1]}
}

// BuildReadModified returns the AID byte, the encoded cursor address, and
// then one SBA + field-content block per field whose MDT is set, in
// ascending address order (§4.6 "Read Modified"). Unmodified fields
// contribute nothing to the response. Trailing fill bytes in each field's
// content are suppressed (see trimTrailingFill).
func (rb *ResponseBuilder) BuildReadModified(aid AID, ps *PresentationSpace) []byte {
	out := make([]byte, 0, 64)
	out = append(out, byte(aid))
	cur := EncodeAddress(ps.Cursor())
	out = append(out, cur[0], cur[1])

	ps.Fields.IterModified(func(f *Field, content []byte) bool {
		addr := EncodeAddress((f.Start + 1) % ps.Size())
		out = append(out, byte(orderSBA), addr[0], addr[1])
		out = append(out, trimTrailingFill(content)...)
		return true
	})

	return out
}

// BuildReadModifiedAll is like BuildReadModified but ignores MDT and
// includes every field's content, unconditionally (§4.6 "Read Modified
// All"). It is the reply format for the host-issued CmdReadModifiedAll
// (0x6E) command, where the host wants the whole screen back regardless
// of what the operator actually changed; Session records that command as
// a pending read and does not build or send this reply itself.
// Session.SendAID routes PA1/PA2/PA3 through BuildShortRead instead --
// PA keys carry no field data of their own.
func (rb *ResponseBuilder) BuildReadModifiedAll(aid AID, ps *PresentationSpace) []byte {
	out := make([]byte, 0, 128)
	out = append(out, byte(aid))
	cur := EncodeAddress(ps.Cursor())
	out = append(out, cur[0], cur[1])

	for _, f := range ps.Fields.All() {
		addr := EncodeAddress((f.Start + 1) % ps.Size())
		out = append(out, byte(orderSBA), addr[0], addr[1])
		out = append(out, trimTrailingFill(ps.Fields.Content(f))...)
	}

	return out
}

// trimTrailingFill drops the trailing run of unwritten-fill bytes from a
// field's content before it goes out on a Read Modified response. Real
// 3270 hardware initializes unprotected field storage to X'00' and
// suppresses trailing nulls on the read; this engine instead fills unset
// cells with EBCDIC space (spaceByte, see presentation.go), so both fill
// bytes are treated as trimmable. Interior fill bytes (between two
// non-fill bytes) are preserved -- only the trailing run is cut.
func trimTrailingFill(content []byte) []byte {
	end := len(content)
	for end > 0 && (content[end-1] == spaceByte || content[end-1] == 0x00) {
		end--
	}
	return content[:end]
}

// BuildReadBuffer returns the two-byte encoded cursor address followed by
// the entire presentation space contents, cell by cell starting at
// address 0, with each field's attribute cell emitted as the SF order byte
// plus the encoded attribute (§4.6 "Read Buffer"). No SBA orders are
// emitted.
func (rb *ResponseBuilder) BuildReadBuffer(ps *PresentationSpace) []byte {
	out := make([]byte, 0, ps.Size()+ps.Fields.Len()*4)
	cur := EncodeAddress(ps.Cursor())
	out = append(out, cur[0], cur[1])

	size := ps.Size()
	for addr := 0; addr < size; addr++ {
		if f := ps.Fields.Find(addr); f != nil && f.Start == addr {
			out = append(out, byte(orderSF), f.Attribute.Encode())
			continue
		}
		b, _, _ := ps.ReadCell(addr)
		out = append(out, b)
	}

	return out
}

// QueryReply builds the Write Structured Field payload a Session sends in
// response to a Read Partition Query (§4.6, SPEC_FULL.md "Supplemented
// Features: Query Reply minimum set"). It emits one structured field per
// entry in replyTypes, each framed as length(2) + SFID(0x81) + type +
// body. The result carries no leading AID or command byte, and no
// Session method calls QueryReply.
func (rb *ResponseBuilder) QueryReply(ps *PresentationSpace, replyTypes []byte) []byte {
	var out []byte
	for _, t := range replyTypes {
		body := rb.queryReplyBody(ps, t)
		sf := make([]byte, 0, len(body)+3)
		sf = append(sf, 0, 0) // length placeholder
		sf = append(sf, sfidQueryReply, t)
		sf = append(sf, body...)
		length := len(sf)
		sf[0] = byte(length >> 8)
		sf[1] = byte(length)
		out = append(out, sf...)
	}
	return out
}

func (rb *ResponseBuilder) queryReplyBody(ps *PresentationSpace, t byte) []byte {
	switch t {
	case qrUsableArea:
		rows, cols := ps.Rows, ps.Cols
		return []byte{
			0x01, 0x00, // 12/14-bit address mode, no partitions
			byte(cols >> 8), byte(cols), byte(rows >> 8), byte(rows),
			0x01, 0x00, 0x00, 0x00, 0x00, 0x00,
		}
	case qrCharacterSets:
		return []byte{0x00, 0x00, 0x00, 0x00, 0x00}
	case qrColor:
		return []byte{0x00, 0x08} // 8 colors supported, default only
	case qrHighlighting:
		return []byte{0x03, 0xf0, 0x00, 0xf1, 0x01, 0xf2, 0x02}
	case qrReplyModes:
		return []byte{0x00, 0x01, 0x02} // field, extended-field, character
	case qrImplicitPartition:
		rows, cols := ps.Rows, ps.Cols
		return []byte{
			0x00, 0x0b,
			0x01, byte(cols >> 8), byte(cols), byte(rows >> 8), byte(rows),
			byte(cols >> 8), byte(cols), byte(rows >> 8), byte(rows),
		}
	case qrAuxiliaryDevice:
		return []byte{0x00}
	default:
		return nil
	}
}
