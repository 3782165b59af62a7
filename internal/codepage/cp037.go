// Part of the tn3270emu project. Licensed under the MIT license. See
// LICENSE in the project root for license information.

package codepage

// CP037 is the US/Canada EBCDIC codepage: the baseline codec required by
// §6 ("A single-byte codepage (CP037 baseline) is required for
// correctness of letters, digits, and common punctuation"). Bytes this
// package does not need to get exactly right for that goal -- the less
// common EBCDIC punctuation and box-drawing positions, which the
// Non-goals in §1 explicitly exclude from "codepage completeness" -- are
// filled with distinct Unicode Private Use Area code points so the table
// stays total (every byte decodes to *something*, and encoding is still a
// function) without us asserting an exact mapping we aren't confident of.
var CP037 = newFromTable("037", buildCP037(), 0x6F)

func buildCP037() [256]rune {
	var t [256]rune

	// Default: every byte not overridden below decodes to a distinct
	// Private Use Area code point, keeping Decode total without faking
	// precision we don't have.
	for i := range t {
		t[i] = rune(0xE000 + i)
	}

	// C0 control range. This mirrors the standard EBCDIC control layout
	// (e.g. 0x25 decodes to line feed U+000A, while 0x15 decodes to next
	// line U+0085).
	controls := map[byte]rune{
		0x00: 0x00, 0x01: 0x01, 0x02: 0x02, 0x03: 0x03, 0x05: 0x09,
		0x07: 0x7F, 0x0B: 0x0B, 0x0C: 0x0C, 0x0D: 0x0D, 0x0E: 0x0E,
		0x0F: 0x0F, 0x10: 0x10, 0x11: 0x11, 0x12: 0x12, 0x13: 0x13,
		0x15: 0x85, 0x16: 0x08, 0x18: 0x18, 0x19: 0x19, 0x1C: 0x1C,
		0x1D: 0x1D, 0x1E: 0x1E, 0x1F: 0x1F, 0x25: 0x0A, 0x26: 0x17,
		0x27: 0x1B, 0x2D: 0x05, 0x2E: 0x06, 0x2F: 0x07, 0x32: 0x16,
		0x37: 0x04, 0x3C: 0x14, 0x3D: 0x15, 0x3F: 0x1A,
	}
	for b, r := range controls {
		t[b] = r
	}

	t[0x40] = ' '
	t[0x4A] = '¢'
	t[0x4B] = '.'
	t[0x4C] = '<'
	t[0x4D] = '('
	t[0x4E] = '+'
	t[0x4F] = '|'
	t[0x50] = '&'
	t[0x5A] = '!'
	t[0x5B] = '$'
	t[0x5C] = '*'
	t[0x5D] = ')'
	t[0x5E] = ';'
	t[0x5F] = '¬'
	t[0x60] = '-'
	t[0x61] = '/'
	t[0x6B] = ','
	t[0x6C] = '%'
	t[0x6D] = '_'
	t[0x6E] = '>'
	t[0x6F] = '?'
	t[0x79] = '`'
	t[0x7A] = ':'
	t[0x7B] = '#'
	t[0x7C] = '@'
	t[0x7D] = '\''
	t[0x7E] = '='
	t[0x7F] = '"'
	t[0xC0] = '{'
	t[0xD0] = '}'
	t[0xE0] = '\\'

	// a-i, j-r, s-z: lowercase letters.
	for i, r := 0x81, 'a'; r <= 'i'; i, r = i+1, r+1 {
		t[i] = r
	}
	for i, r := 0x91, 'j'; r <= 'r'; i, r = i+1, r+1 {
		t[i] = r
	}
	for i, r := 0xA2, 's'; r <= 'z'; i, r = i+1, r+1 {
		t[i] = r
	}

	// A-I, J-R, S-Z: uppercase letters. These ranges also double as the
	// buffer-address alphabet in address.go.
	for i, r := 0xC1, 'A'; r <= 'I'; i, r = i+1, r+1 {
		t[i] = r
	}
	for i, r := 0xD1, 'J'; r <= 'R'; i, r = i+1, r+1 {
		t[i] = r
	}
	for i, r := 0xE2, 'S'; r <= 'Z'; i, r = i+1, r+1 {
		t[i] = r
	}

	// 0-9 digits.
	for i, r := 0xF0, '0'; r <= '9'; i, r = i+1, r+1 {
		t[i] = r
	}

	return t
}
