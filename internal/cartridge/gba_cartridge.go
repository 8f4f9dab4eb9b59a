package cartridge

// GBA SRAM is a strictly 8-bit, 64KiB region mirrored every 64KiB (§3.3).
const GBASRAMSize = 64 * 1024

// GBACartridge owns a GBA game pak's ROM bytes and its battery-backed SRAM.
// Adapted from the teacher's Cartridge type, generalized to the full
// ≤32MiB ROM window and 64KiB SRAM size named in §3.3's region table.
type GBACartridge struct {
	ROM    []byte
	SRAM   [GBASRAMSize]byte
	Header GBAHeader
}

// NewGBACartridge wraps romData (already validated by CheckROM) and parses
// its header.
func NewGBACartridge(romData []byte) *GBACartridge {
	return &GBACartridge{
		ROM:    romData,
		Header: ParseGBAHeader(romData),
	}
}

// ReadROM8 reads a byte from ROM space, mirrored to the ROM's actual size
// (§3.3 ROM mirroring).
func (c *GBACartridge) ReadROM8(addr uint32) uint8 {
	if len(c.ROM) == 0 {
		return 0
	}
	return c.ROM[int(addr)%len(c.ROM)]
}

// ReadSRAM8 reads a byte from SRAM, mirrored every 64KiB.
func (c *GBACartridge) ReadSRAM8(addr uint32) uint8 {
	return c.SRAM[addr%GBASRAMSize]
}

// WriteSRAM8 writes a byte to SRAM, mirrored every 64KiB.
func (c *GBACartridge) WriteSRAM8(addr uint32, value uint8) {
	c.SRAM[addr%GBASRAMSize] = value
}
