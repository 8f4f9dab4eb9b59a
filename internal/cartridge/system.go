// Package cartridge parses cartridge headers and classifies a raw ROM image
// by system, shared by both cores (§6).
package cartridge

// System identifies which core a ROM image belongs to.
type System int

const (
	SystemUnknown System = iota
	SystemGBA
	SystemDMG
	SystemCGB
)

func (s System) String() string {
	switch s {
	case SystemGBA:
		return "GBA"
	case SystemDMG:
		return "DMG"
	case SystemCGB:
		return "CGB"
	default:
		return "unknown"
	}
}

// gbaSignature is the fixed entry-point-adjacent byte sequence at 0x04..0x07
// of a GBA ROM.
var gbaSignature = [4]byte{0x24, 0xFF, 0xAE, 0x51}

// gbLogoSignature is the first four bytes of the Nintendo logo bitmap at
// 0x104..0x107 of a Game Boy ROM.
var gbLogoSignature = [4]byte{0xCE, 0xED, 0x66, 0x66}

// Detect classifies a raw ROM by inspecting its signature bytes (§6
// System-type detection), treating a CGB-aware-but-not-CGB-only title as
// DMG. It never fails: a ROM matching neither signature classifies as
// SystemUnknown, which the caller should treat as a fatal-at-load condition
// (§7.1) since no core can run it.
func Detect(rom []byte) System {
	return DetectPreferCGB(rom, false)
}

// DetectPreferCGB is Detect but lets the caller choose DMG vs CGB for a
// CGB-aware (0x80), not CGB-only (0xC0), cartridge. CGB-only titles are
// always classified CGB regardless of preferCGB.
func DetectPreferCGB(rom []byte, preferCGB bool) System {
	if len(rom) >= 0x08 && rom[0x04] == gbaSignature[0] && rom[0x05] == gbaSignature[1] &&
		rom[0x06] == gbaSignature[2] && rom[0x07] == gbaSignature[3] {
		return SystemGBA
	}
	if len(rom) >= 0x108 && rom[0x104] == gbLogoSignature[0] && rom[0x105] == gbLogoSignature[1] &&
		rom[0x106] == gbLogoSignature[2] && rom[0x107] == gbLogoSignature[3] {
		if len(rom) > 0x143 {
			switch rom[0x143] {
			case 0xC0:
				return SystemCGB
			case 0x80:
				if preferCGB {
					return SystemCGB
				}
				return SystemDMG
			}
		}
		return SystemDMG
	}
	return SystemUnknown
}
