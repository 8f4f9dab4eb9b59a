// Package bus implements the Game Boy's single 16-bit address space:
// fixed ROM bank 0, switchable ROM bank and external RAM routed through
// an MBC, VRAM, work RAM with its echo mirror, OAM, I/O registers, HRAM
// and the IE register (§4.3, §3.3).
package bus

import (
	"github.com/LJS360d/goba/internal/gb/mbc"
	"github.com/LJS360d/goba/internal/gb/timer"
	"github.com/LJS360d/goba/internal/input"
)

const (
	vramSize = 0x2000
	wramSize = 0x2000
	oamSize  = 0xA0
	hramSize = 0x7F
)

// PPU is the subset of PPU behavior the bus must drive: I/O register
// access for the LCD/STAT/palette registers it owns.
type PPU interface {
	ReadIO(addr uint16) uint8
	WriteIO(addr uint16, value uint8)
	ReadVRAM(addr uint16) uint8
	WriteVRAM(addr uint16, value uint8)
	ReadOAM(addr uint16) uint8
	WriteOAM(addr uint16, value uint8)
}

// Bus wires cartridge ROM/RAM (via an MBC), work RAM, OAM, HRAM and I/O
// register dispatch into the GB's flat 16-bit address space.
type Bus struct {
	MBC   mbc.MBC
	PPU   PPU
	Timer *timer.Timer
	Input *input.Keypad

	wram [wramSize]byte
	hram [hramSize]byte
	io   [0x80]byte

	IE uint8
	IF uint8

	joypSelectButtons    bool
	joypSelectDirections bool
}

// New constructs a Bus. ppu and keypad may be installed after construction
// via the exported fields when wiring a full system.
func New(m mbc.MBC) *Bus {
	return &Bus{MBC: m}
}

func (b *Bus) Read8(addr uint16) uint8 {
	switch {
	case addr < 0x8000:
		return b.MBC.ReadROM(addr)
	case addr < 0xA000:
		return b.PPU.ReadVRAM(addr - 0x8000)
	case addr < 0xC000:
		return b.MBC.ReadRAM(addr)
	case addr < 0xE000:
		return b.wram[(addr-0xC000)%wramSize]
	case addr < 0xFE00:
		return b.wram[(addr-0xE000)%wramSize]
	case addr < 0xFEA0:
		return b.PPU.ReadOAM(addr - 0xFE00)
	case addr < 0xFF00:
		return 0xFF // unusable region
	case addr < 0xFF80:
		return b.readIO(addr)
	case addr < 0xFFFF:
		return b.hram[addr-0xFF80]
	default:
		return b.IE
	}
}

func (b *Bus) Write8(addr uint16, value uint8) {
	switch {
	case addr < 0x8000:
		b.MBC.WriteROM(addr, value)
	case addr < 0xA000:
		b.PPU.WriteVRAM(addr-0x8000, value)
	case addr < 0xC000:
		b.MBC.WriteRAM(addr, value)
	case addr < 0xE000:
		b.wram[(addr-0xC000)%wramSize] = value
	case addr < 0xFE00:
		b.wram[(addr-0xE000)%wramSize] = value
	case addr < 0xFEA0:
		b.PPU.WriteOAM(addr-0xFE00, value)
	case addr < 0xFF00:
		// unusable region, dropped
	case addr < 0xFF80:
		b.writeIO(addr, value)
	case addr < 0xFFFF:
		b.hram[addr-0xFF80] = value
	default:
		b.IE = value
	}
}

func (b *Bus) Read16(addr uint16) uint16 {
	lo := uint16(b.Read8(addr))
	hi := uint16(b.Read8(addr + 1))
	return lo | hi<<8
}

func (b *Bus) Write16(addr uint16, value uint16) {
	b.Write8(addr, uint8(value))
	b.Write8(addr+1, uint8(value>>8))
}

const (
	regJOYP = 0xFF00
	regIF   = 0xFF0F
)

func (b *Bus) readIO(addr uint16) uint8 {
	switch addr {
	case regJOYP:
		return b.readJOYP()
	case regIF:
		return b.IF
	default:
		if timer.IsTimerIORegister(addr) {
			return b.Timer.ReadIO(addr)
		}
		if IsPPUIORegister(addr) {
			return b.PPU.ReadIO(addr)
		}
		return b.io[addr-0xFF00]
	}
}

func (b *Bus) writeIO(addr uint16, value uint8) {
	switch addr {
	case regJOYP:
		b.joypSelectButtons = value&0x20 == 0
		b.joypSelectDirections = value&0x10 == 0
	case regIF:
		b.IF = value & 0x1F
	default:
		if timer.IsTimerIORegister(addr) {
			b.Timer.WriteIO(addr, value)
			return
		}
		if IsPPUIORegister(addr) {
			b.PPU.WriteIO(addr, value)
			return
		}
		b.io[addr-0xFF00] = value
	}
}

// readJOYP derives the JOYP nibble from whichever of the button/direction
// groups is selected; a set bit means released.
func (b *Bus) readJOYP() uint8 {
	result := uint8(0xCF)
	if b.Input == nil {
		return result
	}
	if b.joypSelectDirections {
		result = (result &^ 0x0F) | (b.Input.GBDirectionNibble() & 0x0F)
	}
	if b.joypSelectButtons {
		result = (result &^ 0x0F) | (b.Input.GBActionNibble() & 0x0F)
	}
	return result
}

// RequestInterrupt sets the corresponding IF bit (bit indices match the
// VBlank/LCD-STAT/Timer/Serial/Joypad priority order).
func (b *Bus) RequestInterrupt(bit uint8) {
	b.IF |= 1 << bit
}

// IsPPUIORegister reports whether addr (0xFF00-0xFF7F range) is one of
// the LCD/STAT/palette registers the PPU owns.
func IsPPUIORegister(addr uint16) bool {
	switch addr {
	case 0xFF40, 0xFF41, 0xFF42, 0xFF43, 0xFF44, 0xFF45, 0xFF47, 0xFF48, 0xFF49, 0xFF4A, 0xFF4B:
		return true
	default:
		return false
	}
}
