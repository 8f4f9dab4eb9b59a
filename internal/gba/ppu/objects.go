package ppu

import "github.com/LJS360d/goba/internal/video"

const (
	objCharBase  = 0x10000
	paletteHalf  = 256 // sprite palettes occupy the second half of palette RAM
)

// objAttrs holds one OAM sprite descriptor's decoded fields (§3.4 Object
// table).
type objAttrs struct {
	y, x          int
	shape, size   int
	tile          int
	priority      int
	paletteBank   int
	flipX, flipY  bool
	is8bpp        bool
	disabled      bool
	mode          int
}

// objSizeTable maps (shape, size) to pixel (width, height), the 12
// standard GBA sprite dimensions.
var objSizeTable = [3][4][2]int{
	{{8, 8}, {16, 16}, {32, 32}, {64, 64}},   // square
	{{16, 8}, {32, 8}, {32, 16}, {64, 32}},   // horizontal
	{{8, 16}, {8, 32}, {16, 32}, {32, 64}},   // vertical
}

func readObj(oam []byte, i int) objAttrs {
	base := i * 8
	a0 := uint16(oam[base]) | uint16(oam[base+1])<<8
	a1 := uint16(oam[base+2]) | uint16(oam[base+3])<<8
	a2 := uint16(oam[base+4]) | uint16(oam[base+5])<<8

	var o objAttrs
	o.y = int(a0 & 0xFF)
	o.mode = int((a0 >> 10) & 0x3)
	// attr0 bit9 ("disable") only applies when bit8 (rotation/scaling) is
	// clear; mode 3 ("forbidden") is the other documented hidden state.
	o.disabled = (a0>>8)&1 == 0 && (a0>>9)&1 != 0
	o.shape = int((a0 >> 14) & 0x3)

	o.x = int(a1 & 0x1FF)
	if o.x >= 240 {
		o.x -= 512 // sign-extend the 9-bit X coordinate
	}
	o.flipX = (a1>>12)&1 != 0
	o.flipY = (a1>>13)&1 != 0
	o.size = int((a1 >> 14) & 0x3)

	o.tile = int(a2 & 0x3FF)
	o.priority = int((a2 >> 10) & 0x3)
	o.paletteBank = int((a2 >> 12) & 0xF)
	o.is8bpp = (a0>>13)&1 != 0
	return o
}

// renderObjects composites the object layer: 128 OAM entries considered in
// reverse index order, each drawn only where its priority beats the
// existing column priority (§4.6 Sprites).
func (p *PPU) renderObjects(y int, line *[ScreenWidth]video.Pixel, prio *[ScreenWidth]uint8) {
	for i := 127; i >= 0; i-- {
		o := readObj(p.oam[:], i)
		if o.disabled || o.shape == 3 || o.mode == 3 {
			continue
		}
		w, h := objSizeTable[o.shape][o.size][0], objSizeTable[o.shape][o.size][1]
		// OAM Y is an 8-bit coordinate that wraps near the bottom of the
		// attribute space; a sprite's row is whichever value is in range.
		rowInSprite := y - o.y
		if rowInSprite < 0 {
			rowInSprite += 256
		}
		if rowInSprite >= h {
			continue
		}

		tileRow := rowInSprite / 8
		pxRow := rowInSprite % 8
		if o.flipY {
			tileRow = h/8 - 1 - tileRow
			pxRow = 7 - pxRow
		}

		tilesWide := w / 8
		for sx := 0; sx < w; sx++ {
			screenX := o.x + sx
			if screenX < 0 || screenX >= ScreenWidth {
				continue
			}
			col := sx
			tileCol := col / 8
			pxCol := col % 8
			if o.flipX {
				tileCol = tilesWide - 1 - tileCol
				pxCol = 7 - pxCol
			}

			var tileIndex int
			if p.dispcnt&dispcntOBJ1D != 0 {
				tileIndex = o.tile + tileRow*tilesWide + tileCol
			} else {
				mapWidth := 32
				if o.is8bpp {
					mapWidth = 16
				}
				tileIndex = o.tile + tileRow*mapWidth + tileCol
			}

			var idx uint8
			if o.is8bpp {
				off := objCharBase + tileIndex*64 + pxRow*8 + pxCol
				idx = p.vram[off]
			} else {
				off := objCharBase + tileIndex*32 + pxRow*4 + pxCol/2
				b := p.vram[off]
				if pxCol%2 == 0 {
					idx = b & 0xF
				} else {
					idx = b >> 4
				}
			}
			if idx == 0 {
				continue
			}

			if uint8(o.priority) < prio[screenX] {
				var palIndex int
				if o.is8bpp {
					palIndex = paletteHalf + int(idx)
				} else {
					palIndex = paletteHalf + o.paletteBank*16 + int(idx)
				}
				line[screenX] = p.readPalette16(palIndex)
				prio[screenX] = uint8(o.priority)
			}
		}
	}
}
