package mbc

// MBC5 widens the ROM-bank register to 9 bits, split across two write
// ranges, and uses a plain 4-bit RAM bank register. Unlike MBC1/MBC3, a
// written ROM bank of 0 is used as-is: bank 0 is addressable at
// 0x4000-0x7FFF (§4.4).
type MBC5 struct {
	base
	romBankHi uint8 // bit 8 of the ROM bank
}

// NewMBC5 constructs an MBC5 controller over rom with ramSize bytes of
// external RAM (0 if the cartridge has none).
func NewMBC5(rom []byte, ramSize int) *MBC5 {
	m := &MBC5{}
	m.rom = rom
	m.ram = make([]byte, ramSize)
	m.romBank = 1
	return m
}

func (m *MBC5) effectiveROMBank() int {
	return (int(m.romBankHi) << 8) | (m.romBank & 0xFF)
}

func (m *MBC5) ROMOffset(addr uint16) int {
	if addr < 0x4000 {
		return int(addr)
	}
	return m.romBankOffset(m.effectiveROMBank()) + int(addr-0x4000)
}

func (m *MBC5) ReadROM(addr uint16) uint8 {
	return m.romByte(m.ROMOffset(addr))
}

func (m *MBC5) WriteROM(addr uint16, value uint8) {
	switch {
	case addr < 0x2000:
		m.ramOn = value&0x0F == 0x0A
	case addr < 0x3000:
		m.romBank = int(value)
	case addr < 0x4000:
		m.romBankHi = value & 0x01
	case addr < 0x6000:
		m.ramBank = int(value & 0x0F)
	}
}

func (m *MBC5) ReadRAM(addr uint16) uint8 {
	if !m.ramOn || len(m.ram) == 0 {
		return 0xFF
	}
	off := m.ramOffset(addr)
	if off < 0 {
		return 0xFF
	}
	return m.ram[off]
}

func (m *MBC5) WriteRAM(addr uint16, value uint8) {
	if !m.ramOn || len(m.ram) == 0 {
		return
	}
	off := m.ramOffset(addr)
	if off < 0 {
		return
	}
	m.ram[off] = value
}
