package bus

import (
	"testing"

	"github.com/LJS360d/goba/internal/cartridge"
	"github.com/LJS360d/goba/internal/input"
	"github.com/stretchr/testify/assert"
)

type stubPPU struct {
	vram    [0x18000]byte
	oam     [1024]byte
	palette [1024]byte
	io      map[uint32]uint8
	mode    int
}

func newStubPPU() *stubPPU { return &stubPPU{io: map[uint32]uint8{}} }

func (p *stubPPU) ReadIO(addr uint32) uint8    { return p.io[addr] }
func (p *stubPPU) WriteIO(addr uint32, v uint8) { p.io[addr] = v }
func (p *stubPPU) ReadVRAM(off uint32) uint8    { return p.vram[off] }
func (p *stubPPU) WriteVRAM(off uint32, v uint8) { p.vram[off] = v }
func (p *stubPPU) ReadOAM(off uint32) uint8     { return p.oam[off] }
func (p *stubPPU) WriteOAM(off uint32, v uint8)  { p.oam[off] = v }
func (p *stubPPU) ReadPalette(off uint32) uint8  { return p.palette[off] }
func (p *stubPPU) WritePalette(off uint32, v uint8) { p.palette[off] = v }
func (p *stubPPU) IsIORegister(addr uint32) bool {
	return addr >= 0x04000000 && addr < 0x04000060
}
func (p *stubPPU) BGMode() int { return p.mode }

func newTestBus() (*Bus, *stubPPU) {
	ppu := newStubPPU()
	cart := cartridge.NewGBACartridge(make([]byte, 0x1000))
	b := New(make([]byte, cartridge.GBABIOSSize), cart, ppu, input.NewKeypad())
	return b, ppu
}

func TestEWRAMMirrorsEvery256KiB(t *testing.T) {
	b, _ := newTestBus()
	b.Write8(0x02000010, 0x42)
	v, _ := b.Read8(0x02000010 + ewramSize)
	assert.Equal(t, uint8(0x42), v)
}

func TestIWRAMMirrorsEvery32KiB(t *testing.T) {
	b, _ := newTestBus()
	b.Write8(0x03000010, 0x99)
	v, _ := b.Read8(0x03000010 + iwramSize)
	assert.Equal(t, uint8(0x99), v)
}

func TestVRAMUpperHalfAliasesLowerWithin128KiBWindow(t *testing.T) {
	b, _ := newTestBus()
	b.PPU.(*stubPPU).mode = 3 // bitmap mode so the write isn't dropped
	b.Write16(0x06010000, 0xABCD)
	v, _ := b.Read16(0x06018000)
	assert.Equal(t, uint16(0xABCD), v)
}

func TestPaletteByteWriteBroadcastsToHalfword(t *testing.T) {
	b, _ := newTestBus()
	b.Write8(0x05000000, 0x7A)
	v, _ := b.Read16(0x05000000)
	assert.Equal(t, uint16(0x7A7A), v)
}

func Test8BitWriteToTileModeVRAMBGAreaDropped(t *testing.T) {
	b, _ := newTestBus()
	b.PPU.(*stubPPU).mode = 0
	b.Write8(0x06000000, 0xFF)
	v, _ := b.Read16(0x06000000)
	assert.Equal(t, uint16(0), v)
}

func Test8BitWriteToOAMDropped(t *testing.T) {
	b, _ := newTestBus()
	b.Write8(0x07000000, 0xFF)
	v, _ := b.Read16(0x07000000)
	assert.Equal(t, uint16(0), v)
}

func TestIFWriteOneToClear(t *testing.T) {
	b, _ := newTestBus()
	b.IF = 0b0101
	b.Write8(0x04000202, 0b0001)
	assert.Equal(t, uint16(0b0100), b.IF)
}

func TestIMERegisterRoundTrip(t *testing.T) {
	b, _ := newTestBus()
	b.Write8(0x04000208, 1)
	assert.False(t, b.IRQPending()) // IME set but IE&IF still zero
	v, _ := b.Read8(0x04000208)
	assert.Equal(t, uint8(1), v)
}

func TestBIOSReadGatedByPC(t *testing.T) {
	b, _ := newTestBus()
	b.BIOS[0] = 0x11
	b.BIOS[1] = 0x22
	b.BIOS[2] = 0x33
	b.BIOS[3] = 0x44

	b.SetCPUPC(0x00000000)
	v, _ := b.Read8(0x00000000)
	assert.Equal(t, uint8(0x11), v)

	b.SetCPUPC(0x08000100) // beyond the 0x4000 gate
	v, _ = b.Read8(0x00000000)
	assert.Equal(t, uint8(0x11), v, "returns the cached word, not fresh BIOS contents")
}

func TestKeypadReflectsInWord(t *testing.T) {
	b, _ := newTestBus()
	b.Input.Press(input.A)
	word, _ := b.Read16(0x04000130)
	assert.False(t, word&1 != 0, "A bit is active-low and should read 0 when pressed")
}

func TestRequestInterruptSetsIFBit(t *testing.T) {
	b, _ := newTestBus()
	b.RequestInterrupt(3)
	assert.Equal(t, uint16(1<<3), b.IF)
}
