// Part of the tn3270emu project. Licensed under the MIT license. See
// LICENSE in the project root for license information.

package tn3270

// AID is an Attention Identifier: the single byte sent at the head of a
// Read-Modified response identifying which key the operator pressed.
type AID byte

// Attention identifiers, per §6.
const (
	AIDNone   AID = 0x60
	AIDEnter  AID = 0x7D
	AIDSysReq AID = 0xF0
	AIDPA1    AID = 0x6C
	AIDPA2    AID = 0x6E
	AIDPA3    AID = 0x6B
	AIDClear  AID = 0x6D
	AIDPF1    AID = 0xF1
	AIDPF2    AID = 0xF2
	AIDPF3    AID = 0xF3
	AIDPF4    AID = 0xF4
	AIDPF5    AID = 0xF5
	AIDPF6    AID = 0xF6
	AIDPF7    AID = 0xF7
	AIDPF8    AID = 0xF8
	AIDPF9    AID = 0xF9
	AIDPF10   AID = 0x7A
	AIDPF11   AID = 0x7B
	AIDPF12   AID = 0x7C
	AIDPF13   AID = 0xC1
	AIDPF14   AID = 0xC2
	AIDPF15   AID = 0xC3
	AIDPF16   AID = 0xC4
	AIDPF17   AID = 0xC5
	AIDPF18   AID = 0xC6
	AIDPF19   AID = 0xC7
	AIDPF20   AID = 0xC8
	AIDPF21   AID = 0xC9
	AIDPF22   AID = 0x4A
	AIDPF23   AID = 0x4B
	AIDPF24   AID = 0x4C
)

// String returns a human-readable name for aid, used in log fields and
// error messages.
func (aid AID) String() string {
	switch aid {
	case AIDNone:
		return "[none]"
	case AIDEnter:
		return "Enter"
	case AIDSysReq:
		return "SysReq"
	case AIDPA1:
		return "PA1"
	case AIDPA2:
		return "PA2"
	case AIDPA3:
		return "PA3"
	case AIDClear:
		return "Clear"
	case AIDPF1:
		return "PF1"
	case AIDPF2:
		return "PF2"
	case AIDPF3:
		return "PF3"
	case AIDPF4:
		return "PF4"
	case AIDPF5:
		return "PF5"
	case AIDPF6:
		return "PF6"
	case AIDPF7:
		return "PF7"
	case AIDPF8:
		return "PF8"
	case AIDPF9:
		return "PF9"
	case AIDPF10:
		return "PF10"
	case AIDPF11:
		return "PF11"
	case AIDPF12:
		return "PF12"
	case AIDPF13:
		return "PF13"
	case AIDPF14:
		return "PF14"
	case AIDPF15:
		return "PF15"
	case AIDPF16:
		return "PF16"
	case AIDPF17:
		return "PF17"
	case AIDPF18:
		return "PF18"
	case AIDPF19:
		return "PF19"
	case AIDPF20:
		return "PF20"
	case AIDPF21:
		return "PF21"
	case AIDPF22:
		return "PF22"
	case AIDPF23:
		return "PF23"
	case AIDPF24:
		return "PF24"
	default:
		return "[unknown]"
	}
}

// isAIDByte reports whether b falls in one of the AID value ranges, i.e.
// whether it could be the first byte of an operator response on the wire.
// Neither the Framer nor the Session calls it.
func isAIDByte(b byte) bool {
	switch {
	case b == byte(AIDNone), b == byte(AIDSysReq):
		return true
	case b >= 0x6b && b <= 0x6e:
		return true
	case b >= 0x7a && b <= 0x7d:
		return true
	case b >= 0x4a && b <= 0x4c:
		return true
	case b >= 0xf1 && b <= 0xf9:
		return true
	case b >= 0xc1 && b <= 0xc9:
		return true
	}
	return false
}
