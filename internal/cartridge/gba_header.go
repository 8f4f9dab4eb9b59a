package cartridge

import (
	"fmt"

	"github.com/LJS360d/goba/internal/dbg"
)

// GBAHeaderSize is the fixed 192-byte GBA cartridge header.
const GBAHeaderSize = 192

// GBAHeader holds the fields the core actually consumes from the 192-byte
// GBA cartridge header (§6 Cartridge input).
type GBAHeader struct {
	EntryBranch uint32
	Title       string // 12-byte ASCII at 0xA0
	GameCode    string // 4-byte ASCII at 0xAC
	FixedValue  byte   // must be 0x96 at 0xB2
	Checksum    byte   // at 0xBD
	ChecksumOK  bool
}

// ParseGBAHeader reads the 192-byte GBA header out of rom. rom must be at
// least GBAHeaderSize bytes; a shorter slice panics. CheckROM does not
// check this minimum.
func ParseGBAHeader(rom []byte) GBAHeader {
	h := GBAHeader{
		EntryBranch: uint32(rom[0]) | uint32(rom[1])<<8 | uint32(rom[2])<<16 | uint32(rom[3])<<24,
		Title:       trimASCII(rom[0xA0:0xAC]),
		GameCode:    trimASCII(rom[0xAC:0xB0]),
		FixedValue:  rom[0xB2],
		Checksum:    rom[0xBD],
	}
	h.ChecksumOK = h.Checksum == computeGBAHeaderChecksum(rom)
	if !h.ChecksumOK {
		dbg.Printf("cartridge: GBA header checksum mismatch (got %02X, want %02X)\n", h.Checksum, computeGBAHeaderChecksum(rom))
	}
	if h.FixedValue != 0x96 {
		dbg.Printf("cartridge: GBA header fixed value at 0xB2 is %02X, expected 0x96\n", h.FixedValue)
	}
	return h
}

// computeGBAHeaderChecksum implements ((-sum(rom[0xA0:0xBD])) - 0x19) & 0xFF
// (§6 header checksum formula).
func computeGBAHeaderChecksum(rom []byte) byte {
	var sum int32
	for i := 0xA0; i <= 0xBC; i++ {
		sum += int32(rom[i])
	}
	return byte((-sum - 0x19) & 0xFF)
}

func trimASCII(b []byte) string {
	n := len(b)
	for n > 0 && b[n-1] == 0 {
		n--
	}
	return string(b[:n])
}

// String renders the header for debug logging.
func (h GBAHeader) String() string {
	return fmt.Sprintf("GBA title=%q code=%q entry=%08X checksumOK=%t", h.Title, h.GameCode, h.EntryBranch, h.ChecksumOK)
}
