// Part of the tn3270emu project. Licensed under the MIT license. See
// LICENSE in the project root for license information.

package tn3270

// WCC is the decoded Write Control Character: the second byte of a
// Write-family command. Bit values: 0x40 reset, 0x20/0x10 printer-related
// (not decoded), 0x08 start-printer, 0x04 sound-alarm, 0x02
// keyboard-restore, 0x01 reset-MDT; the top bit 0x80 is not decoded.
type WCC struct {
	ResetPartition bool
	StartPrinter   bool
	SoundAlarm     bool
	KeyboardRestore bool
	ResetMDT       bool
}

// DecodeWCC unpacks a raw WCC byte.
func DecodeWCC(b byte) WCC {
	return WCC{
		ResetPartition:  b&0x40 != 0,
		StartPrinter:    b&0x08 != 0,
		SoundAlarm:      b&0x04 != 0,
		KeyboardRestore: b&0x02 != 0,
		ResetMDT:        b&0x01 != 0,
	}
}
