package ppu

// background holds the tile fetch latches and the 16 bit shift registers
// that feed background pixels. The high byte of each shifter is the tile
// being drawn, the low byte the tile fetched next.
type background struct {
	nextTileID     uint8
	nextTileAttrib uint8
	nextTileLsb    uint8
	nextTileMsb    uint8

	shifterPatternLo uint16
	shifterPatternHi uint16
	shifterAttribLo  uint16
	shifterAttribHi  uint16
}

func (p *PPU) fetchTileID() {
	p.background.nextTileID = p.read(0x2000 | p.vramAddr.Get()&0x0FFF)
}

// fetchTileAttribute reads the attribute byte covering the current tile and
// keeps the two bits for its 16x16 quadrant.
func (p *PPU) fetchTileAttribute() {
	v := p.vramAddr
	attrib := p.read(0x23C0 |
		v.NametableY()<<11 |
		v.NametableX()<<10 |
		(v.CoarseY()>>2)<<3 |
		v.CoarseX()>>2)

	if v.CoarseY()&0x02 != 0 {
		attrib >>= 4
	}
	if v.CoarseX()&0x02 != 0 {
		attrib >>= 2
	}
	p.background.nextTileAttrib = attrib & 0x03
}

// fetchTilePattern reads one bit plane of the next tile row: plane 0 at
// offset 0, plane 1 at offset 8.
func (p *PPU) fetchTilePattern(plane uint16) {
	address := p.control.PatternBackground()<<12 +
		uint16(p.background.nextTileID)<<4 +
		p.vramAddr.FineY() + plane
	if plane == 0 {
		p.background.nextTileLsb = p.read(address)
	} else {
		p.background.nextTileMsb = p.read(address)
	}
}

func (p *PPU) loadBackgroundShifters() {
	bg := &p.background
	bg.shifterPatternLo = bg.shifterPatternLo&0xFF00 | uint16(bg.nextTileLsb)
	bg.shifterPatternHi = bg.shifterPatternHi&0xFF00 | uint16(bg.nextTileMsb)

	bg.shifterAttribLo &= 0xFF00
	if bg.nextTileAttrib&0x01 != 0 {
		bg.shifterAttribLo |= 0x00FF
	}
	bg.shifterAttribHi &= 0xFF00
	if bg.nextTileAttrib&0x02 != 0 {
		bg.shifterAttribHi |= 0x00FF
	}
}

func (p *PPU) updateShifters() {
	if p.mask.RenderBackground() {
		bg := &p.background
		bg.shifterPatternLo <<= 1
		bg.shifterPatternHi <<= 1
		bg.shifterAttribLo <<= 1
		bg.shifterAttribHi <<= 1
	}

	if p.mask.RenderSprites() && p.cycle >= 1 && p.cycle < 258 {
		p.sprites.shift()
	}
}

// backgroundPixel returns the 2 bit pixel and palette under the fine X
// scroll position.
func (p *PPU) backgroundPixel() (pixel, palette uint8) {
	if !p.mask.RenderBackground() {
		return 0, 0
	}
	if !p.mask.RenderBackgroundLeft() && p.cycle < 9 {
		return 0, 0
	}

	bg := &p.background
	mux := uint16(0x8000) >> p.fineX

	pixel = bit(bg.shifterPatternHi&mux != 0)<<1 | bit(bg.shifterPatternLo&mux != 0)
	palette = bit(bg.shifterAttribHi&mux != 0)<<1 | bit(bg.shifterAttribLo&mux != 0)
	return pixel, palette
}

// incrementScrollX moves v one tile right, wrapping into the horizontally
// adjacent nametable.
func (p *PPU) incrementScrollX() {
	if !p.mask.Rendering() {
		return
	}
	if p.vramAddr.CoarseX() == 31 {
		p.vramAddr.SetCoarseX(0)
		p.vramAddr.SetNametableX(^p.vramAddr.NametableX())
	} else {
		p.vramAddr.SetCoarseX(p.vramAddr.CoarseX() + 1)
	}
}

// incrementScrollY moves v one pixel row down. Row 29 is the last tile row
// of a nametable; rows 30 and 31 hold attributes and wrap without switching.
func (p *PPU) incrementScrollY() {
	if !p.mask.Rendering() {
		return
	}
	if p.vramAddr.FineY() < 7 {
		p.vramAddr.SetFineY(p.vramAddr.FineY() + 1)
		return
	}

	p.vramAddr.SetFineY(0)
	switch p.vramAddr.CoarseY() {
	case 29:
		p.vramAddr.SetCoarseY(0)
		p.vramAddr.SetNametableY(^p.vramAddr.NametableY())
	case 31:
		p.vramAddr.SetCoarseY(0)
	default:
		p.vramAddr.SetCoarseY(p.vramAddr.CoarseY() + 1)
	}
}

func (p *PPU) transferAddressX() {
	if !p.mask.Rendering() {
		return
	}
	p.vramAddr.SetNametableX(p.tramAddr.NametableX())
	p.vramAddr.SetCoarseX(p.tramAddr.CoarseX())
}

func (p *PPU) transferAddressY() {
	if !p.mask.Rendering() {
		return
	}
	p.vramAddr.SetFineY(p.tramAddr.FineY())
	p.vramAddr.SetNametableY(p.tramAddr.NametableY())
	p.vramAddr.SetCoarseY(p.tramAddr.CoarseY())
}

func bit(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
