package mbc

import "github.com/LJS360d/goba/internal/cartridge"

// New builds the MBC implementation matching the cartridge's detected
// banking type.
func New(typ cartridge.GBMBCType, rom []byte, ramSize int) MBC {
	switch typ {
	case cartridge.MBC1:
		return NewMBC1(rom, ramSize)
	case cartridge.MBC2:
		return NewMBC2(rom)
	case cartridge.MBC3:
		return NewMBC3(rom, ramSize)
	case cartridge.MBC5:
		return NewMBC5(rom, ramSize)
	default:
		return NewNone(rom, ramSize)
	}
}
