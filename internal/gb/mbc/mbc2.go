package mbc

// MBC2 has a 4-bit ROM bank register and 512x4-bit built-in RAM; there is
// no RAM-bank register. The enable-vs-bank-select write is chosen by
// address bit 8 rather than a separate address range (§4.4 family).
type MBC2 struct {
	rom     []byte
	ram     [512]byte // low nibble significant; upper nibble undefined (reads as 1s)
	ramOn   bool
	romBank int
}

// NewMBC2 constructs an MBC2 controller. MBC2 RAM is fixed at 512x4 bits
// and is built into the cartridge IC, so ramSize is not a parameter.
func NewMBC2(rom []byte) *MBC2 {
	return &MBC2{rom: rom, romBank: 1}
}

func (m *MBC2) ROMOffset(addr uint16) int {
	if addr < 0x4000 {
		return int(addr)
	}
	bank := m.romBank & 0x0F
	if bank == 0 {
		bank = 1
	}
	return bank*0x4000 + int(addr-0x4000)
}

func (m *MBC2) ReadROM(addr uint16) uint8 {
	off := m.ROMOffset(addr)
	if off < 0 || off >= len(m.rom) {
		return 0xFF
	}
	return m.rom[off]
}

func (m *MBC2) WriteROM(addr uint16, value uint8) {
	if addr >= 0x4000 {
		return
	}
	if addr&0x0100 == 0 {
		m.ramOn = value&0x0F == 0x0A
	} else {
		bank := int(value & 0x0F)
		if bank == 0 {
			bank = 1
		}
		m.romBank = bank
	}
}

func (m *MBC2) ReadRAM(addr uint16) uint8 {
	if !m.ramOn {
		return 0xFF
	}
	return m.ram[int(addr-0xA000)%len(m.ram)] | 0xF0
}

func (m *MBC2) WriteRAM(addr uint16, value uint8) {
	if !m.ramOn {
		return
	}
	m.ram[int(addr-0xA000)%len(m.ram)] = value & 0x0F
}
