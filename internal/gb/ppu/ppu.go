// Package ppu implements the Game Boy's tile-based picture processor: the
// OAM-search/Drawing/HBlank/VBlank scanline state machine, background and
// window layers with scroll and signed/unsigned tile addressing, and an
// OAM-ordered sprite layer (§3.4, §4.4 region "VRAM"/"OAM" tables in §3.3,
// scanline description referenced from §4 PPU bullets).
package ppu

import (
	"github.com/LJS360d/goba/internal/video"
)

const (
	ScreenWidth  = 160
	ScreenHeight = 144

	dotsOAMSearch = 80
	dotsDrawing   = 172
	dotsHBlank    = 204
	dotsPerLine   = dotsOAMSearch + dotsDrawing + dotsHBlank // 456
	linesPerFrame = 154
	vblankStartLn = 144
)

// Mode is one of the four LCD states named by STAT bits 0-1.
type Mode uint8

const (
	ModeHBlank Mode = iota
	ModeVBlank
	ModeOAMSearch
	ModeDrawing
)

// LCDC bits.
const (
	lcdcBGWindowEnable = 1 << 0
	lcdcOBJEnable      = 1 << 1
	lcdcOBJSize        = 1 << 2
	lcdcBGTileMap      = 1 << 3
	lcdcBGWindowTiles  = 1 << 4
	lcdcWindowEnable   = 1 << 5
	lcdcWindowTileMap  = 1 << 6
	lcdcDisplayEnable  = 1 << 7
)

// STAT bits.
const (
	statLYCInterrupt    = 1 << 6
	statOAMInterrupt    = 1 << 5
	statVBlankInterrupt = 1 << 4
	statHBlankInterrupt = 1 << 3
	statLYCCoincident   = 1 << 2
)

// Interrupter lets the PPU raise the VBlank/LCD-STAT bits it owns without
// depending on the bus package directly.
type Interrupter interface {
	RequestInterrupt(bit uint8)
}

const (
	irqVBlank  = 0
	irqLCDSTAT = 1
)

type oamEntry struct {
	y, x, tile, attr uint8
}

// PPU holds VRAM, OAM, the LCD/STAT/palette registers and the framebuffer
// it renders into, plus internal scanline timing state.
type PPU struct {
	vram [0x2000]byte
	oam  [0xA0]byte

	lcdc, stat       uint8
	scy, scx         uint8
	ly, lyc          uint8
	bgp, obp0, obp1  uint8
	wy, wx           uint8
	windowLineCount  int
	windowWasVisible bool

	dot        int
	mode       Mode
	frameReady bool

	FB  *video.Framebuffer
	IRQ Interrupter
}

func New() *PPU {
	return &PPU{FB: video.New(ScreenWidth, ScreenHeight), mode: ModeOAMSearch}
}

// Tick advances the PPU by cycles dots (1 dot per T-cycle at GB speed).
func (p *PPU) Tick(cycles int) {
	if p.lcdc&lcdcDisplayEnable == 0 {
		return
	}
	for i := 0; i < cycles; i++ {
		p.step()
	}
}

func (p *PPU) step() {
	p.dot++
	switch p.mode {
	case ModeOAMSearch:
		if p.dot >= dotsOAMSearch {
			p.dot = 0
			p.setMode(ModeDrawing)
		}
	case ModeDrawing:
		if p.dot >= dotsDrawing {
			p.dot = 0
			p.renderScanline()
			p.setMode(ModeHBlank)
		}
	case ModeHBlank:
		if p.dot >= dotsHBlank {
			p.dot = 0
			p.ly++
			p.checkLYC()
			if int(p.ly) >= vblankStartLn {
				p.setMode(ModeVBlank)
				p.frameReady = true
				p.windowLineCount = 0
				if p.IRQ != nil {
					p.IRQ.RequestInterrupt(irqVBlank)
				}
			} else {
				p.setMode(ModeOAMSearch)
			}
		}
	case ModeVBlank:
		if p.dot >= dotsPerLine {
			p.dot = 0
			p.ly++
			if int(p.ly) >= linesPerFrame {
				p.ly = 0
				p.setMode(ModeOAMSearch)
			}
			p.checkLYC()
		}
	}
}

func (p *PPU) setMode(m Mode) {
	p.mode = m
	p.stat = (p.stat &^ 0x03) | uint8(m)
	if p.IRQ == nil {
		return
	}
	fire := false
	switch m {
	case ModeHBlank:
		fire = p.stat&statHBlankInterrupt != 0
	case ModeVBlank:
		fire = p.stat&statVBlankInterrupt != 0
	case ModeOAMSearch:
		fire = p.stat&statOAMInterrupt != 0
	}
	if fire {
		p.IRQ.RequestInterrupt(irqLCDSTAT)
	}
}

func (p *PPU) checkLYC() {
	if p.ly == p.lyc {
		p.stat |= statLYCCoincident
		if p.IRQ != nil && p.stat&statLYCInterrupt != 0 {
			p.IRQ.RequestInterrupt(irqLCDSTAT)
		}
	} else {
		p.stat &^= statLYCCoincident
	}
}

func (p *PPU) IsFrameReady() bool { return p.frameReady }
func (p *PPU) ResetFrameReady()   { p.frameReady = false }

// ReadIO/WriteIO handle the LCDC/STAT/scroll/palette register block
// (0xFF40-0xFF4B) the bus routes here.
func (p *PPU) ReadIO(addr uint16) uint8 {
	switch addr {
	case 0xFF40:
		return p.lcdc
	case 0xFF41:
		return p.stat | 0x80
	case 0xFF42:
		return p.scy
	case 0xFF43:
		return p.scx
	case 0xFF44:
		return p.ly
	case 0xFF45:
		return p.lyc
	case 0xFF47:
		return p.bgp
	case 0xFF48:
		return p.obp0
	case 0xFF49:
		return p.obp1
	case 0xFF4A:
		return p.wy
	case 0xFF4B:
		return p.wx
	default:
		return 0xFF
	}
}

func (p *PPU) WriteIO(addr uint16, value uint8) {
	switch addr {
	case 0xFF40:
		wasEnabled := p.lcdc&lcdcDisplayEnable != 0
		p.lcdc = value
		if wasEnabled && value&lcdcDisplayEnable == 0 {
			p.ly = 0
			p.dot = 0
			p.setMode(ModeHBlank)
		}
	case 0xFF41:
		p.stat = (p.stat & 0x07) | (value &^ 0x07)
	case 0xFF42:
		p.scy = value
	case 0xFF43:
		p.scx = value
	case 0xFF45:
		p.lyc = value
		p.checkLYC()
	case 0xFF47:
		p.bgp = value
	case 0xFF48:
		p.obp0 = value
	case 0xFF49:
		p.obp1 = value
	case 0xFF4A:
		p.wy = value
	case 0xFF4B:
		p.wx = value
	}
}

func (p *PPU) ReadVRAM(addr uint16) uint8 { return p.vram[addr] }
func (p *PPU) WriteVRAM(addr uint16, value uint8) {
	p.vram[addr] = value
}

func (p *PPU) ReadOAM(addr uint16) uint8 { return p.oam[addr] }
func (p *PPU) WriteOAM(addr uint16, value uint8) {
	p.oam[addr] = value
}

// shade maps a 2-bit color index through a palette register to one of
// four BGR555 grays.
func shade(palette uint8, index uint8) video.Pixel {
	v := (palette >> (index * 2)) & 0x03
	var gray uint8
	switch v {
	case 0:
		gray = 31
	case 1:
		gray = 21
	case 2:
		gray = 10
	default:
		gray = 0
	}
	return video.PackBGR555(gray, gray, gray)
}

func (p *PPU) renderScanline() {
	line := int(p.ly)
	if line >= ScreenHeight {
		return
	}
	var bgIndex [ScreenWidth]uint8
	if p.lcdc&lcdcBGWindowEnable != 0 {
		p.renderBackground(line, &bgIndex)
		p.renderWindow(line, &bgIndex)
	}
	if p.lcdc&lcdcOBJEnable != 0 {
		p.renderSprites(line, &bgIndex)
	}
}

func (p *PPU) bgTileDataAddr(tileID uint8) int {
	if p.lcdc&lcdcBGWindowTiles != 0 {
		return int(tileID) * 16
	}
	return 0x1000 + int(int8(tileID))*16
}

func (p *PPU) renderBackground(line int, bgIndex *[ScreenWidth]uint8) {
	mapBase := 0x1800
	if p.lcdc&lcdcBGTileMap != 0 {
		mapBase = 0x1C00
	}
	y := (line + int(p.scy)) & 0xFF
	tileRow := y / 8
	fineY := y % 8
	for x := 0; x < ScreenWidth; x++ {
		sx := (x + int(p.scx)) & 0xFF
		tileCol := sx / 8
		fineX := sx % 8
		tileID := p.vram[mapBase+tileRow*32+tileCol]
		lo := p.vram[p.bgTileDataAddr(tileID)+fineY*2]
		hi := p.vram[p.bgTileDataAddr(tileID)+fineY*2+1]
		bit := 7 - fineX
		colorIdx := ((hi>>bit)&1)<<1 | (lo>>bit)&1
		bgIndex[x] = colorIdx
		p.FB.Set(x, line, shade(p.bgp, colorIdx))
	}
}

func (p *PPU) renderWindow(line int, bgIndex *[ScreenWidth]uint8) {
	if p.lcdc&lcdcWindowEnable == 0 || line < int(p.wy) {
		p.windowWasVisible = false
		return
	}
	wx := int(p.wx) - 7
	if wx >= ScreenWidth {
		return
	}
	mapBase := 0x1800
	if p.lcdc&lcdcWindowTileMap != 0 {
		mapBase = 0x1C00
	}
	if !p.windowWasVisible {
		p.windowWasVisible = true
	}
	y := p.windowLineCount
	tileRow := y / 8
	fineY := y % 8
	rendered := false
	for x := 0; x < ScreenWidth; x++ {
		sx := x - wx
		if sx < 0 {
			continue
		}
		rendered = true
		tileCol := sx / 8
		fineX := sx % 8
		tileID := p.vram[mapBase+tileRow*32+tileCol]
		lo := p.vram[p.bgTileDataAddr(tileID)+fineY*2]
		hi := p.vram[p.bgTileDataAddr(tileID)+fineY*2+1]
		bit := 7 - fineX
		colorIdx := ((hi>>bit)&1)<<1 | (lo>>bit)&1
		bgIndex[x] = colorIdx
		p.FB.Set(x, line, shade(p.bgp, colorIdx))
	}
	if rendered {
		p.windowLineCount++
	}
}

func (p *PPU) renderSprites(line int, bgIndex *[ScreenWidth]uint8) {
	height := 8
	if p.lcdc&lcdcOBJSize != 0 {
		height = 16
	}
	var entries []oamEntry
	for i := 0; i < 40 && len(entries) < 10; i++ {
		e := oamEntry{
			y:    p.oam[i*4+0],
			x:    p.oam[i*4+1],
			tile: p.oam[i*4+2],
			attr: p.oam[i*4+3],
		}
		sy := int(e.y) - 16
		if line < sy || line >= sy+height {
			continue
		}
		entries = append(entries, e)
	}
	// Lower OAM index wins on overlap: entries are visited in OAM order and
	// the first sprite to claim a column keeps it.
	var priority [ScreenWidth]bool
	for i := 0; i < len(entries); i++ {
		e := entries[i]
		sy := int(e.y) - 16
		sx := int(e.x) - 8
		row := line - sy
		flipY := e.attr&0x40 != 0
		flipX := e.attr&0x20 != 0
		tile := e.tile
		if height == 16 {
			tile &^= 0x01
		}
		r := row
		if flipY {
			r = height - 1 - row
		}
		tileOff := int(tile)*16 + (r%8)*2
		if height == 16 && r >= 8 {
			tileOff = int(tile|0x01)*16 + (r%8)*2
		}
		lo := p.vram[tileOff]
		hi := p.vram[tileOff+1]
		palette := p.obp0
		if e.attr&0x10 != 0 {
			palette = p.obp1
		}
		behindBG := e.attr&0x80 != 0
		for col := 0; col < 8; col++ {
			x := sx + col
			if x < 0 || x >= ScreenWidth {
				continue
			}
			bit := col
			if !flipX {
				bit = 7 - col
			}
			colorIdx := ((hi>>bit)&1)<<1 | (lo>>bit)&1
			if colorIdx == 0 {
				continue
			}
			if behindBG && bgIndex[x] != 0 {
				continue
			}
			if priority[x] {
				continue
			}
			priority[x] = true
			p.FB.Set(x, line, shade(palette, colorIdx))
		}
	}
}
