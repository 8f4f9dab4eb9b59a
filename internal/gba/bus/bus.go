// Package bus implements the GBA's region-decoded 32-bit address space:
// per-region bus widths, waitstate timing, mirroring, open-bus reads, and
// the MMIO register block (§4.3).
package bus

import (
	"github.com/LJS360d/goba/internal/cartridge"
	"github.com/LJS360d/goba/internal/input"
)

// Sizes of the fixed-layout regions (§3.3).
const (
	ewramSize   = 256 * 1024
	iwramSize   = 32 * 1024
	paletteSize = 1024
	vramSize    = 96 * 1024
	vramWindow  = 128 * 1024
	oamSize     = 1024
)

// PPU is the bus's view of the video unit: register and memory-region
// access routed through to it rather than owned by the bus directly.
type PPU interface {
	ReadIO(addr uint32) uint8
	WriteIO(addr uint32, value uint8)
	ReadVRAM(offset uint32) uint8
	WriteVRAM(offset uint32, value uint8)
	ReadOAM(offset uint32) uint8
	WriteOAM(offset uint32, value uint8)
	ReadPalette(offset uint32) uint8
	WritePalette(offset uint32, value uint8)
	IsIORegister(addr uint32) bool
	// BGMode reports DISPCNT's video mode (0-5), needed to decide whether
	// an 8-bit VRAM write targets the tiled-BG area (dropped) or a bitmap
	// (broadcast) (§4.3 Unusual widths).
	BGMode() int
}

// Haltable lets HALTCNT (§6 I/O registers) stop CPU execution without the
// bus importing the cpu package.
type Haltable interface {
	SetHalted(bool)
}

const postBootIdle = 0xE129F000

// Bus is the GBA memory arena plus MMIO dispatch: BIOS/EWRAM/IWRAM owned
// buffers, a cartridge borrow, a PPU borrow, and the interrupt/waitstate
// registers (§3.3, §4.3, §6).
type Bus struct {
	BIOS  []byte
	EWRAM [ewramSize]byte
	IWRAM [iwramSize]byte

	Cart  *cartridge.GBACartridge
	PPU   PPU
	Input *input.Keypad
	CPU   Haltable

	IE      uint16
	IF      uint16
	IME     bool
	WAITCNT uint16
	POSTFLG uint8

	// WaitstateOverride, when non-zero, replaces the WAITCNT-derived
	// N-cycle cost for ROM wait-state bank 0 (0x08-0x09) (§10.2, config's
	// WaitstateOverride field).
	WaitstateOverride int

	currentPC    uint32
	lastBIOSWord uint32
	openBus      uint32

	// lastRegion/lastAccessEnd track the previous access for sequential-
	// access detection (§4.3 Timing: "compares each access's start address
	// against the previous one's end and requires the same region tag").
	lastRegion    uint32
	lastAccessEnd uint32
}

// New wires a bus over the given BIOS image (may be nil/empty for a
// BIOS-less boot), cartridge, PPU and keypad.
func New(bios []byte, cart *cartridge.GBACartridge, ppu PPU, kp *input.Keypad) *Bus {
	return &Bus{
		BIOS:         bios,
		Cart:         cart,
		PPU:          ppu,
		Input:        kp,
		lastBIOSWord: postBootIdle,
		openBus:      postBootIdle,
	}
}

// SetCPUPC lets the CPU report its current PC so BIOS reads can apply the
// "PC < 0x4000" protection gate (§4.3 BIOS protection). Called once per
// fetch.
func (b *Bus) SetCPUPC(pc uint32) { b.currentPC = pc }

// region tags, derived from address bits 27-24 (§4.3 Region decode).
const (
	regionBIOS    = 0x0
	regionEWRAM   = 0x2
	regionIWRAM   = 0x3
	regionIO      = 0x4
	regionPalette = 0x5
	regionVRAM    = 0x6
	regionOAM     = 0x7
)

func regionOf(addr uint32) uint32 { return (addr >> 24) & 0xF }

// romWaitN/romWaitS are WAITCNT's per-bank N-cycle/S-cycle wait-state
// tables (§4.3 Timing: "ROM defaults differ across three wait-state
// banks ... dynamically reconfigured by WAITCNT").
var romWaitN = [4]int{4, 3, 2, 8}
var romWaitS = [3][2]int{
	{2, 1}, // bank 0: 0x08-0x09
	{4, 1}, // bank 1: 0x0A-0x0B
	{8, 1}, // bank 2: 0x0C-0x0D
}

// romTiming returns the WAITCNT bit position of the N-cycle field, the
// S-cycle bit, and the wait-state bank index covering addr.
func romTiming(addr uint32) (nShift, sBit uint, bank int) {
	switch (addr >> 24) & 0xE {
	case 0x8:
		return 2, 4, 0
	case 0xA:
		return 5, 7, 1
	default: // 0xC/0xD
		return 8, 10, 2
	}
}

// romCycles computes one ROM access's cycle cost from WAITCNT, honoring
// WaitstateOverride for bank 0 and charging a 32-bit access as a
// non-sequential (or sequential) half-word transfer immediately followed
// by a sequential one (§4.3 Timing).
func (b *Bus) romCycles(addr uint32, width uint32, sequential bool) int {
	nShift, sBit, bank := romTiming(addr)
	n := romWaitN[(b.WAITCNT>>nShift)&0x3] + 1
	if bank == 0 && b.WaitstateOverride != 0 {
		n = b.WaitstateOverride
	}
	s := romWaitS[bank][(b.WAITCNT>>sBit)&1] + 1

	cost := n
	if sequential {
		cost = s
	}
	if width == 4 {
		cost += s
	}
	return cost
}

// regionCycles implements the region/width cost table (§4.3 Timing):
// BIOS/IWRAM/IO/OAM = 1, EWRAM = 3, Palette/VRAM = 1 for 8/16-bit and 2
// for 32-bit, ROM per romCycles, everything else (SRAM, open bus) = 1.
func (b *Bus) regionCycles(addr uint32, width uint32, sequential bool) int {
	switch regionOf(addr) {
	case regionBIOS, regionIWRAM, regionIO, regionOAM:
		return 1
	case regionEWRAM:
		return 3
	case regionPalette, regionVRAM:
		if width == 4 {
			return 2
		}
		return 1
	case 0x8, 0x9, 0xA, 0xB, 0xC, 0xD:
		return b.romCycles(addr, width, sequential)
	default:
		return 1
	}
}

// accessCycles computes one access's cycle cost and updates the
// sequential-access tracking state (§4.3 Timing).
func (b *Bus) accessCycles(addr uint32, width uint32) int {
	region := regionOf(addr)
	sequential := region == b.lastRegion && addr == b.lastAccessEnd
	cost := b.regionCycles(addr, width, sequential)
	b.lastRegion = region
	b.lastAccessEnd = addr + width
	return cost
}

// Read8 dispatches a byte read by region, applying mirroring and open-bus
// fallback for unmapped space (§4.3), and reports the access's cycle cost.
func (b *Bus) Read8(addr uint32) (uint8, int) {
	return b.readByteValue(addr), b.accessCycles(addr, 1)
}

func (b *Bus) readByteValue(addr uint32) uint8 {
	switch regionOf(addr) {
	case regionBIOS:
		return b.readBIOS8(addr)
	case regionEWRAM:
		return b.EWRAM[addr%ewramSize]
	case regionIWRAM:
		return b.IWRAM[addr%iwramSize]
	case regionIO:
		return b.readIO8(addr)
	case regionPalette:
		return b.PPU.ReadPalette(paletteOffset(addr))
	case regionVRAM:
		return b.PPU.ReadVRAM(vramOffset(addr))
	case regionOAM:
		return b.PPU.ReadOAM(addr % oamSize)
	case 0x8, 0x9, 0xA, 0xB, 0xC, 0xD:
		return b.Cart.ReadROM8(addr & 0x01FFFFFF)
	case 0xE, 0xF:
		return b.Cart.ReadSRAM8(addr)
	default:
		return uint8(b.openBus >> ((addr & 3) * 8))
	}
}

func (b *Bus) readBIOS8(addr uint32) uint8 {
	if b.currentPC < 0x4000 && int(addr) < len(b.BIOS) {
		word := uint32(b.BIOS[addr&^3]) | uint32(b.safeBIOS(addr&^3+1))<<8 |
			uint32(b.safeBIOS(addr&^3+2))<<16 | uint32(b.safeBIOS(addr&^3+3))<<24
		b.lastBIOSWord = word
	}
	return uint8(b.lastBIOSWord >> ((addr & 3) * 8))
}

func (b *Bus) safeBIOS(addr uint32) uint8 {
	if int(addr) < len(b.BIOS) {
		return b.BIOS[addr]
	}
	return 0
}

func paletteOffset(addr uint32) uint32 { return addr % paletteSize }

// vramOffset applies VRAM's 96KiB-in-128KiB mirroring quirk: the window
// repeats every 128KiB, and within each window the upper 32KiB alias the
// lower 32KiB of the 96KiB region (§3.3, §4.3 Mirroring).
func vramOffset(addr uint32) uint32 {
	off := addr % vramWindow
	if off >= vramSize {
		off -= 0x8000
	}
	return off
}

// Write8 dispatches a byte write by region, applying the 8-bit write
// quirks named in §4.3: palette/bitmap-VRAM broadcast, tile-VRAM-BG and
// OAM drops. Returns the access's cycle cost.
func (b *Bus) Write8(addr uint32, v uint8) int {
	b.writeByteValue(addr, v)
	return b.accessCycles(addr, 1)
}

func (b *Bus) writeByteValue(addr uint32, v uint8) {
	switch regionOf(addr) {
	case regionBIOS:
		// read-only
	case regionEWRAM:
		b.EWRAM[addr%ewramSize] = v
	case regionIWRAM:
		b.IWRAM[addr%iwramSize] = v
	case regionIO:
		b.writeIO8(addr, v)
	case regionPalette:
		b.writeBroadcast16(func(off uint32, val uint16) {
			b.PPU.WritePalette(off, uint8(val))
			b.PPU.WritePalette(off+1, uint8(val>>8))
		}, paletteOffset(addr), v)
	case regionVRAM:
		off := vramOffset(addr)
		bitmapMode := b.PPU.BGMode() >= 3
		bgArea := off < 0x10000
		if !bitmapMode && bgArea {
			return // tile-mode BG area: 8-bit writes dropped
		}
		b.writeBroadcast16(func(o uint32, val uint16) {
			b.PPU.WriteVRAM(o, uint8(val))
			b.PPU.WriteVRAM(o+1, uint8(val>>8))
		}, off, v)
	case regionOAM:
		// 8-bit writes to OAM are dropped (§4.3 Unusual widths)
	case 0x8, 0x9, 0xA, 0xB, 0xC, 0xD:
		// ROM: read-only
	case 0xE, 0xF:
		b.Cart.WriteSRAM8(addr, v)
	}
}

// writeBroadcast16 implements "8-bit writes ... broadcast the byte into
// both halves of the halfword at the aligned address" by writing the same
// byte value to both bytes of the aligned halfword.
func (b *Bus) writeBroadcast16(write func(off uint32, val uint16), off uint32, v uint8) {
	aligned := off &^ 1
	word := uint16(v) | uint16(v)<<8
	write(aligned, word)
}

// Read16 composes two byte reads. Native-width regions behave identically
// since value correctness does not depend on the physical bus width, only
// access timing does (§4.3).
func (b *Bus) Read16(addr uint32) (uint16, int) {
	aligned := addr &^ 1
	return b.readHalfValue(aligned), b.accessCycles(aligned, 2)
}

func (b *Bus) readHalfValue(aligned uint32) uint16 {
	return uint16(b.readByteValue(aligned)) | uint16(b.readByteValue(aligned+1))<<8
}

// Write16 writes both bytes of an aligned halfword directly, bypassing
// Write8's broadcast/drop quirks (those model what an 8-bit access does,
// not a native 16-bit one). Returns the access's cycle cost.
func (b *Bus) Write16(addr uint32, v uint16) int {
	aligned := addr &^ 1
	b.writeHalfValue(aligned, v)
	return b.accessCycles(aligned, 2)
}

func (b *Bus) writeHalfValue(aligned uint32, v uint16) {
	switch regionOf(aligned) {
	case regionBIOS:
	case regionEWRAM:
		b.EWRAM[aligned%ewramSize] = uint8(v)
		b.EWRAM[(aligned+1)%ewramSize] = uint8(v >> 8)
	case regionIWRAM:
		b.IWRAM[aligned%iwramSize] = uint8(v)
		b.IWRAM[(aligned+1)%iwramSize] = uint8(v >> 8)
	case regionIO:
		b.writeIO8(aligned, uint8(v))
		b.writeIO8(aligned+1, uint8(v>>8))
	case regionPalette:
		off := paletteOffset(aligned)
		b.PPU.WritePalette(off, uint8(v))
		b.PPU.WritePalette(off+1, uint8(v>>8))
	case regionVRAM:
		off := vramOffset(aligned)
		b.PPU.WriteVRAM(off, uint8(v))
		b.PPU.WriteVRAM(off+1, uint8(v>>8))
	case regionOAM:
		off := aligned % oamSize
		b.PPU.WriteOAM(off, uint8(v))
		b.PPU.WriteOAM(off+1, uint8(v>>8))
	case 0xE, 0xF:
		b.Cart.WriteSRAM8(aligned, uint8(v))
	}
}

// Read32 composes two halfword reads and reports the combined access's
// cycle cost (a single 32-bit transaction, not two independent 16-bit
// ones — see romCycles for ROM's sequential-second-half modeling).
func (b *Bus) Read32(addr uint32) (uint32, int) {
	aligned := addr &^ 3
	return b.readWordValue(aligned), b.accessCycles(aligned, 4)
}

func (b *Bus) readWordValue(aligned uint32) uint32 {
	return uint32(b.readHalfValue(aligned)) | uint32(b.readHalfValue(aligned+2))<<16
}

// Write32 writes all four bytes of an aligned word directly and reports
// the combined access's cycle cost.
func (b *Bus) Write32(addr uint32, v uint32) int {
	aligned := addr &^ 3
	b.writeHalfValue(aligned, uint16(v))
	b.writeHalfValue(aligned+2, uint16(v>>16))
	return b.accessCycles(aligned, 4)
}

// RecordOpcodeFetch updates the open-bus shadow after a successful
// instruction fetch (§4.3 Open bus): the fetch path is responsible for
// this, not individual reads.
func (b *Bus) RecordOpcodeFetch(word uint32) {
	b.openBus = word
}
