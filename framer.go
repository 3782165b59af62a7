// Part of the tn3270emu project. Licensed under the MIT license. See
// LICENSE in the project root for license information.

package tn3270

// defaultRingSize is the Framer's initial record buffer capacity.
const defaultRingSize = 4096

// MaxRecordSize bounds a single 3270 record; exceeding it is a fatal
// record_too_large framing error (§7).
const MaxRecordSize = 1 << 20

type framerState int

const (
	framerData framerState = iota
	framerIAC
	framerOpt
	framerSubneg
	framerSubnegIAC
)

// Framer splits a raw telnet octet stream into whole 3270 records: it
// strips telnet IAC escapes (§4.4) and delivers each IAC-EOR-terminated
// record as a contiguous byte slice to the Interpreter. The returned
// slice is only valid until the next call to Feed -- per §3 "the
// Interpreter must not retain references past the call", callers must
// copy if they need to keep the bytes past their own call into Feed.
type Framer struct {
	state  framerState
	record []byte
}

// NewFramer returns an empty Framer.
func NewFramer() *Framer {
	return &Framer{record: make([]byte, 0, defaultRingSize)}
}

// Feed appends raw bytes read from the transport and returns every
// complete record now available, in order. A record is complete when an
// IAC EOR has been seen (§4.4); incomplete trailing bytes remain buffered
// for the next Feed call -- a recoverable buffer underrun (§4.3 Failure
// semantics: "Buffer-underrun on a command boundary is recoverable").
func (f *Framer) Feed(b []byte) ([][]byte, error) {
	var records [][]byte

	for _, c := range b {
		switch f.state {
		case framerData:
			if c == tnIAC {
				f.state = framerIAC
				continue
			}
			f.record = append(f.record, c)
			if len(f.record) > MaxRecordSize {
				f.record = f.record[:0]
				return records, newError(ErrRecordTooLarge, "record exceeded %d bytes", MaxRecordSize)
			}

		case framerIAC:
			switch c {
			case tnIAC:
				f.record = append(f.record, tnIAC)
				f.state = framerData
			case tnEOR:
				rec := f.record
				f.record = make([]byte, 0, defaultRingSize)
				records = append(records, rec)
				f.state = framerData
			case tnSB:
				f.state = framerSubneg
			case tnWILL, tnWONT, tnDO, tnDONT:
				f.state = framerOpt
			default:
				// Other 2-byte telnet commands (NOP, AYT, ...): consumed,
				// not part of the record.
				f.state = framerData
			}

		case framerOpt:
			// Option byte of a WILL/WONT/DO/DONT arriving interleaved
			// with bound data. The Framer only strips telnet framing; it
			// never replies (that's the Negotiator's job), so the byte
			// is simply discarded.
			f.state = framerData

		case framerSubneg:
			if c == tnIAC {
				f.state = framerSubnegIAC
			}
			// Subnegotiation payload bytes are discarded: nothing in the
			// 3270 data stream itself needs mid-session subnegotiation
			// content once bound.

		case framerSubnegIAC:
			switch c {
			case tnSE:
				f.state = framerData
			case tnIAC:
				// Escaped 0xFF within the subnegotiation payload.
				f.state = framerSubneg
			default:
				// Malformed, but recoverable: treat as still inside the
				// subnegotiation.
				f.state = framerSubneg
			}
		}
	}

	return records, nil
}

// Reset discards any partially-accumulated record and returns the framer
// to its initial state. Used by Session after a fatal framing error.
func (f *Framer) Reset() {
	f.state = framerData
	f.record = f.record[:0]
}

// EncodeRecord is the outbound counterpart to Feed: it escapes any literal
// 0xFF bytes in data as IAC IAC and appends the IAC EOR record terminator,
// producing the exact bytes a Session should write to the transport for an
// operator response (§4.6).
func EncodeRecord(data []byte) []byte {
	out := make([]byte, 0, len(data)+2)
	for _, b := range data {
		out = append(out, b)
		if b == tnIAC {
			out = append(out, tnIAC)
		}
	}
	out = append(out, tnIAC, tnEOR)
	return out
}
