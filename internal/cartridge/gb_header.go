package cartridge

// GBMBCType identifies the memory-bank-controller behavior selected by the
// cartridge type byte at header offset 0x147 (§4.4).
type GBMBCType int

const (
	MBCNone GBMBCType = iota
	MBC1
	MBC2
	MBC3
	MBC5
)

func (t GBMBCType) String() string {
	switch t {
	case MBC1:
		return "MBC1"
	case MBC2:
		return "MBC2"
	case MBC3:
		return "MBC3"
	case MBC5:
		return "MBC5"
	default:
		return "None"
	}
}

// mbcTypeTable maps the cartridge type byte to an MBC behavior. Values not
// present default to MBCNone (ROM only).
var mbcTypeTable = map[byte]GBMBCType{
	0x00: MBCNone,
	0x01: MBC1, 0x02: MBC1, 0x03: MBC1,
	0x05: MBC2, 0x06: MBC2,
	0x0F: MBC3, 0x10: MBC3, 0x11: MBC3, 0x12: MBC3, 0x13: MBC3,
	0x19: MBC5, 0x1A: MBC5, 0x1B: MBC5, 0x1C: MBC5, 0x1D: MBC5, 0x1E: MBC5,
}

// ramSizeTable maps the RAM-size code at header offset 0x149 to a byte
// count (§6).
var ramSizeTable = [...]int{
	0: 0,
	1: 2 * 1024,
	2: 8 * 1024,
	3: 32 * 1024,
	4: 128 * 1024,
	5: 64 * 1024,
}

// GBHeader holds the fields the core consumes from the 16-byte-title Game
// Boy cartridge header.
type GBHeader struct {
	Title       string
	CartType    byte
	MBC         GBMBCType
	ROMSizeCode byte
	RAMSizeCode byte
	RAMSize     int
}

// ParseGBHeader reads the Game Boy cartridge header fields out of rom.
func ParseGBHeader(rom []byte) GBHeader {
	h := GBHeader{
		Title: trimASCII(rom[0x134:0x144]),
	}
	if len(rom) > 0x147 {
		h.CartType = rom[0x147]
		h.MBC = mbcTypeTable[h.CartType]
	}
	if len(rom) > 0x148 {
		h.ROMSizeCode = rom[0x148]
	}
	if len(rom) > 0x149 {
		h.RAMSizeCode = rom[0x149]
		if int(h.RAMSizeCode) < len(ramSizeTable) {
			h.RAMSize = ramSizeTable[h.RAMSizeCode]
		}
	}
	return h
}
