// Part of the tn3270emu project. Licensed under the MIT license. See
// LICENSE in the project root for license information.

package tn3270

import "fmt"

// addressCodes is the 6-bit-per-byte "SBA alphabet" used to encode a 12-bit
// buffer address across two wire bytes. Index i (0-63) maps to the byte
// value sent on the wire; decoding is the inverse lookup. This is the
// standard 3270 buffer-address alphabet from GA23-0059, and not coincidentally
// shares its layout with the printable range of CP037 (see
// internal/codepage): both the address alphabet and EBCDIC give letters and
// digits the same byte ranges.
var addressCodes = [64]byte{
	0x40, 0xc1, 0xc2, 0xc3, 0xc4, 0xc5, 0xc6, 0xc7, 0xc8, 0xc9, 0x4a, 0x4b,
	0x4c, 0x4d, 0x4e, 0x4f, 0x50, 0xd1, 0xd2, 0xd3, 0xd4, 0xd5, 0xd6, 0xd7,
	0xd8, 0xd9, 0x5a, 0x5b, 0x5c, 0x5d, 0x5e, 0x5f, 0x60, 0x61, 0xe2, 0xe3,
	0xe4, 0xe5, 0xe6, 0xe7, 0xe8, 0xe9, 0x6a, 0x6b, 0x6c, 0x6d, 0x6e, 0x6f,
	0xf0, 0xf1, 0xf2, 0xf3, 0xf4, 0xf5, 0xf6, 0xf7, 0xf8, 0xf9, 0x7a, 0x7b,
	0x7c, 0x7d, 0x7e, 0x7f,
}

// addressDecode is the inverse of addressCodes: wire byte -> 6-bit payload.
// A value of 0xff means "not a valid address byte".
var addressDecode [256]byte

func init() {
	for i := range addressDecode {
		addressDecode[i] = 0xff
	}
	for payload, wire := range addressCodes {
		addressDecode[wire] = byte(payload)
	}
}

// EncodeAddress encodes a linear buffer address into its two-byte wire form
// using the 12-bit SBA alphabet. addr must be in [0, 4095]; addresses used
// by this package are always < rows*cols, which is well under that range
// for every screen model in Config.ScreenModel.
func EncodeAddress(addr int) [2]byte {
	hi := (addr >> 6) & 0x3f
	lo := addr & 0x3f
	return [2]byte{addressCodes[hi], addressCodes[lo]}
}

// DecodeAddress inverts EncodeAddress. It also accepts the 14-bit binary
// form (both high bits of each byte are 0), which some hosts use on screens
// too large for the 12-bit alphabet.
func DecodeAddress(raw [2]byte) (int, error) {
	if raw[0]&0xc0 == 0 && raw[1]&0xc0 == 0 {
		// 14-bit binary form.
		return int(raw[0]&0x3f)<<8 | int(raw[1]), nil
	}

	hi := addressDecode[raw[0]]
	lo := addressDecode[raw[1]]
	if hi == 0xff || lo == 0xff {
		return 0, fmt.Errorf("tn3270: invalid buffer address bytes %#02x %#02x", raw[0], raw[1])
	}
	return int(hi)<<6 | int(lo), nil
}
