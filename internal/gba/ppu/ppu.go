// Package ppu implements the GBA's scanline picture processor: the
// 228-line/1232-cycle-per-line timing state machine, video modes 0/3/4,
// and the object (sprite) layer (§3.4, §4.6).
package ppu

import (
	"github.com/LJS360d/goba/internal/video"
)

const (
	ScreenWidth  = 240
	ScreenHeight = 160

	visibleCycles = 960
	cyclesPerLine = 1232
	linesPerFrame = 228
	vblankLine    = 160
)

// DISPCNT bits (§6 I/O registers, §4.6 Scanline compositing).
const (
	dispcntModeMask  = 0x0007
	dispcntFrame     = 1 << 4
	dispcntOBJ1D     = 1 << 6
	dispcntForceBlank = 1 << 7
	dispcntBG0       = 1 << 8
	dispcntBG1       = 1 << 9
	dispcntBG2       = 1 << 10
	dispcntBG3       = 1 << 11
	dispcntOBJ       = 1 << 12
)

// DISPSTAT bits.
const (
	dispstatVBlank       = 1 << 0
	dispstatHBlank       = 1 << 1
	dispstatVCount       = 1 << 2
	dispstatVBlankIRQ    = 1 << 3
	dispstatHBlankIRQ    = 1 << 4
	dispstatVCountIRQ    = 1 << 5
)

// Interrupter lets the PPU raise VBlank/HBlank/VCOUNT-match IRQ bits
// without depending on the bus package (§6 Interrupts).
type Interrupter interface {
	RequestInterrupt(bit uint)
}

const (
	irqVBlank  = 0
	irqHBlank  = 1
	irqVCount  = 2
)

// bgLayer holds one tiled background's control/scroll state (§3.4 Layers).
type bgLayer struct {
	cnt        uint16
	hofs, vofs uint16
}

// PPU owns VRAM/OAM/palette, the DISPCNT/DISPSTAT/VCOUNT register block,
// the four background descriptors, and the framebuffer it composites
// scanlines into.
type PPU struct {
	vram    [98304]byte // 96KiB, §3.3
	oam     [1024]byte
	palette [1024]byte

	dispcnt  uint16
	dispstat uint16
	vcount   uint16

	bg [4]bgLayer

	cycleInLine int
	frameReady  bool

	FB  *video.Framebuffer
	IRQ Interrupter
}

func New() *PPU {
	return &PPU{FB: video.New(ScreenWidth, ScreenHeight)}
}

// Tick advances the PPU by cycles (1 GBA cycle each), driving the
// 228-line x 1232-cycle scanline state machine (§4.6 State machine).
func (p *PPU) Tick(cycles int) {
	for i := 0; i < cycles; i++ {
		p.step()
	}
}

func (p *PPU) step() {
	p.cycleInLine++

	if p.cycleInLine == visibleCycles {
		p.renderScanline()
		p.dispstat |= dispstatHBlank
		if p.dispstat&dispstatHBlankIRQ != 0 && p.IRQ != nil {
			p.IRQ.RequestInterrupt(irqHBlank)
		}
	}

	if p.cycleInLine >= cyclesPerLine {
		p.cycleInLine = 0
		p.dispstat &^= dispstatHBlank
		p.vcount++

		if p.vcount == vblankLine {
			p.dispstat |= dispstatVBlank
			p.frameReady = true
			if p.dispstat&dispstatVBlankIRQ != 0 && p.IRQ != nil {
				p.IRQ.RequestInterrupt(irqVBlank)
			}
		}
		if p.vcount >= linesPerFrame {
			p.vcount = 0
			p.dispstat &^= dispstatVBlank
		}
		p.checkVCount()
	}
}

func (p *PPU) checkVCount() {
	target := (p.dispstat >> 8) & 0xFF
	if p.vcount == target {
		p.dispstat |= dispstatVCount
		if p.dispstat&dispstatVCountIRQ != 0 && p.IRQ != nil {
			p.IRQ.RequestInterrupt(irqVCount)
		}
	} else {
		p.dispstat &^= dispstatVCount
	}
}

func (p *PPU) IsFrameReady() bool { return p.frameReady }
func (p *PPU) ResetFrameReady()   { p.frameReady = false }

// BGMode implements bus.PPU: DISPCNT bits 0-2 name the video mode (§3.4
// Invariants).
func (p *PPU) BGMode() int { return int(p.dispcnt & dispcntModeMask) }

// renderScanline composites the current visible line (vcount < 160; a
// no-op during VBlank per §3.4 Invariants) into the framebuffer.
func (p *PPU) renderScanline() {
	if int(p.vcount) >= ScreenHeight {
		return
	}
	y := int(p.vcount)
	if p.dispcnt&dispcntForceBlank != 0 {
		for x := 0; x < ScreenWidth; x++ {
			p.FB.Set(x, y, 0x7FFF)
		}
		return
	}

	var line [ScreenWidth]video.Pixel
	var priority [ScreenWidth]uint8
	for i := range priority {
		priority[i] = 4 // lower than any real BG/sprite priority (0-3)
	}
	backdrop := p.readPalette16(0)
	for x := range line {
		line[x] = backdrop
	}

	switch p.BGMode() {
	case 0:
		p.renderMode0(y, &line, &priority)
	case 3:
		p.renderMode3(y, &line)
	case 4:
		p.renderMode4(y, &line)
	}

	if p.dispcnt&dispcntOBJ != 0 {
		p.renderObjects(y, &line, &priority)
	}

	for x := 0; x < ScreenWidth; x++ {
		p.FB.Set(x, y, line[x])
	}
}

func (p *PPU) readPalette16(index int) video.Pixel {
	off := index * 2
	return video.Pixel(uint16(p.palette[off]) | uint16(p.palette[off+1])<<8)
}

// renderMode3 draws the 240x160 direct BGR555 bitmap at VRAM row
// y*480+2x (§4.6 Mode 3).
func (p *PPU) renderMode3(y int, line *[ScreenWidth]video.Pixel) {
	base := y * 480
	for x := 0; x < ScreenWidth; x++ {
		off := base + 2*x
		line[x] = video.Pixel(uint16(p.vram[off]) | uint16(p.vram[off+1])<<8)
	}
}

// renderMode4 draws the 240x160 palette-indexed bitmap, selecting the
// frame buffer base via DISPCNT.frame_select (§4.6 Mode 4).
func (p *PPU) renderMode4(y int, line *[ScreenWidth]video.Pixel) {
	base := 0
	if p.dispcnt&dispcntFrame != 0 {
		base = 0xA000
	}
	rowBase := base + y*ScreenWidth
	for x := 0; x < ScreenWidth; x++ {
		idx := p.vram[rowBase+x]
		line[x] = p.readPalette16(int(idx))
	}
}
