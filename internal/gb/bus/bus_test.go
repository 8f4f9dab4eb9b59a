package bus

import (
	"testing"

	"github.com/LJS360d/goba/internal/gb/mbc"
	"github.com/LJS360d/goba/internal/gb/timer"
	"github.com/LJS360d/goba/internal/input"
	"github.com/stretchr/testify/assert"
)

type stubPPU struct {
	vram [0x2000]byte
	oam  [0xA0]byte
	io   map[uint16]uint8
}

func newStubPPU() *stubPPU { return &stubPPU{io: map[uint16]uint8{}} }

func (p *stubPPU) ReadIO(addr uint16) uint8         { return p.io[addr] }
func (p *stubPPU) WriteIO(addr uint16, value uint8) { p.io[addr] = value }
func (p *stubPPU) ReadVRAM(addr uint16) uint8       { return p.vram[addr] }
func (p *stubPPU) WriteVRAM(addr uint16, value uint8) { p.vram[addr] = value }
func (p *stubPPU) ReadOAM(addr uint16) uint8        { return p.oam[addr] }
func (p *stubPPU) WriteOAM(addr uint16, value uint8) { p.oam[addr] = value }

func newTestBus() *Bus {
	rom := make([]byte, 0x8000)
	b := New(mbc.NewNone(rom, 0))
	b.PPU = newStubPPU()
	b.Timer = timer.New()
	b.Input = input.NewKeypad()
	return b
}

func TestWRAMEchoMirrorsWRAM(t *testing.T) {
	b := newTestBus()
	b.Write8(0xC010, 0x77)
	assert.Equal(t, uint8(0x77), b.Read8(0xE010))
}

func TestHRAMReadWrite(t *testing.T) {
	b := newTestBus()
	b.Write8(0xFF90, 0x5A)
	assert.Equal(t, uint8(0x5A), b.Read8(0xFF90))
}

func TestIERegisterAtTopOfSpace(t *testing.T) {
	b := newTestBus()
	b.Write8(0xFFFF, 0x1F)
	assert.Equal(t, uint8(0x1F), b.Read8(0xFFFF))
}

func TestIFWriteMasksToFiveBits(t *testing.T) {
	b := newTestBus()
	b.Write8(0xFF0F, 0xFF)
	assert.Equal(t, uint8(0x1F), b.Read8(0xFF0F))
}

func TestRequestInterruptSetsIFBit(t *testing.T) {
	b := newTestBus()
	b.RequestInterrupt(0)
	assert.Equal(t, uint8(0x01), b.IF)
}

func TestJOYPAllReleasedReadsOnes(t *testing.T) {
	b := newTestBus()
	b.Write8(0xFF00, 0x10) // select action buttons
	assert.Equal(t, uint8(0x0F), b.Read8(0xFF00)&0x0F)
}

func TestJOYPReflectsPressedButton(t *testing.T) {
	b := newTestBus()
	b.Input.Press(input.A)
	b.Write8(0xFF00, 0x10) // select action buttons (bit 5 low)
	assert.Equal(t, uint8(0), b.Read8(0xFF00)&0x01)
}

func TestVRAMRoutesToPPU(t *testing.T) {
	b := newTestBus()
	b.Write8(0x8010, 0x99)
	assert.Equal(t, uint8(0x99), b.Read8(0x8010))
}

func TestOAMRoutesToPPU(t *testing.T) {
	b := newTestBus()
	b.Write8(0xFE00, 0x42)
	assert.Equal(t, uint8(0x42), b.Read8(0xFE00))
}

func TestUnusableRegionReadsFF(t *testing.T) {
	b := newTestBus()
	assert.Equal(t, uint8(0xFF), b.Read8(0xFEA0))
}
