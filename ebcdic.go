// Part of the tn3270emu project. Licensed under the MIT license. See
// LICENSE in the project root for license information.

package tn3270

import "github.com/go3270/tn3270emu/internal/codepage"

// Codepage translates between EBCDIC wire bytes and UTF-8, for the
// renderer sink and for any field content a caller wants as a Go string.
// The presentation space itself always stores raw EBCDIC bytes; Codepage
// is a pure, total, table-driven helper, never required to interpret a
// data stream (§6 EBCDIC).
type Codepage interface {
	Decode(e []byte) string
	Encode(s string) []byte
	ID() string
}

// DefaultCodepage is CP037, the baseline required by §6.
func DefaultCodepage() Codepage { return codepage.CP037 }
