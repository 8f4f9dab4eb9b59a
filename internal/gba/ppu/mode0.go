package ppu

import "github.com/LJS360d/goba/internal/video"

// bgCnt field accessors (BGxCNT layout, §6 BG0-3CNT).
func (l bgLayer) priority() int    { return int(l.cnt & 0x3) }
func (l bgLayer) tileBase() int    { return int((l.cnt>>2)&0x3) * 0x4000 }
func (l bgLayer) mapBase() int     { return int((l.cnt>>8)&0x1F) * 0x800 }
func (l bgLayer) is8bpp() bool     { return l.cnt&0x80 != 0 }
func (l bgLayer) screenSize() int  { return int((l.cnt >> 14) & 0x3) }

// bgDimensions returns the background's pixel width/height for the four
// text-mode screen sizes (256x256, 512x256, 256x512, 512x512).
func (l bgLayer) bgDimensions() (int, int) {
	switch l.screenSize() {
	case 1:
		return 512, 256
	case 2:
		return 256, 512
	case 3:
		return 512, 512
	default:
		return 256, 256
	}
}

// renderMode0 composites up to four tiled text backgrounds, lowest
// priority first so higher-priority layers overwrite, ties broken by
// layer index (§4.6 Mode 0).
func (p *PPU) renderMode0(y int, line *[ScreenWidth]video.Pixel, prio *[ScreenWidth]uint8) {
	enabled := [4]bool{
		p.dispcnt&dispcntBG0 != 0,
		p.dispcnt&dispcntBG1 != 0,
		p.dispcnt&dispcntBG2 != 0,
		p.dispcnt&dispcntBG3 != 0,
	}

	// Render priority 3 (lowest) through 0 (highest) so later writes win;
	// within equal priority, layers run from 3 down to 0, so the lower layer
	// index is drawn later and wins via the `<=` compare.
	for pr := 3; pr >= 0; pr-- {
		for layer := 3; layer >= 0; layer-- {
			if !enabled[layer] || p.bg[layer].priority() != pr {
				continue
			}
			p.renderBGLine(layer, y, line, prio)
		}
	}
}

func (p *PPU) renderBGLine(layer int, y int, line *[ScreenWidth]video.Pixel, prio *[ScreenWidth]uint8) {
	bg := p.bg[layer]
	bgW, bgH := bg.bgDimensions()
	pr := uint8(bg.priority())

	bgY := (y + int(bg.vofs)) % bgH
	tileRow := bgY / 8
	pxRow := bgY % 8

	for x := 0; x < ScreenWidth; x++ {
		bgX := (x + int(bg.hofs)) % bgW
		tileCol := bgX / 8
		pxCol := bgX % 8

		mapOff := bg.mapBase() + screenBlockOffset(bg, tileCol, tileRow, bgW)
		entry := uint16(p.vram[mapOff]) | uint16(p.vram[mapOff+1])<<8
		tileNum := int(entry & 0x3FF)
		flipX := entry&0x0400 != 0
		flipY := entry&0x0800 != 0
		paletteBank := int((entry >> 12) & 0xF)

		col := pxCol
		row := pxRow
		if flipX {
			col = 7 - col
		}
		if flipY {
			row = 7 - row
		}

		var idx uint8
		if bg.is8bpp() {
			tileOff := bg.tileBase() + tileNum*64 + row*8 + col
			idx = p.vram[tileOff]
		} else {
			tileOff := bg.tileBase() + tileNum*32 + row*4 + col/2
			b := p.vram[tileOff]
			if col%2 == 0 {
				idx = b & 0xF
			} else {
				idx = b >> 4
			}
		}
		if idx == 0 {
			continue // palette index 0 is transparent
		}

		var palIndex int
		if bg.is8bpp() {
			palIndex = int(idx)
		} else {
			palIndex = paletteBank*16 + int(idx)
		}

		if pr <= prio[x] {
			line[x] = p.readPalette16(palIndex)
			prio[x] = pr
		}
	}
}

// screenBlockOffset computes the map-entry byte offset for a 512-wide/tall
// layout's screen-block layout (§4.6 Tile-map lookup).
func screenBlockOffset(bg bgLayer, tileCol, tileRow, bgW int) int {
	blockCol := tileCol / 32
	blockRow := tileRow / 32
	blocksWide := bgW / 256
	block := blockRow*blocksWide + blockCol
	localCol := tileCol % 32
	localRow := tileRow % 32
	return block*0x800 + (localRow*32+localCol)*2
}
