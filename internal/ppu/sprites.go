package ppu

// ObjectAttribute is one OAM entry.
type ObjectAttribute struct {
	Y         uint8 // top of the sprite, less one
	ID        uint8 // tile index
	Attribute uint8 // palette, priority and flips
	X         uint8 // left edge
}

// Attribute bits
const (
	attrPalette  = 0x03
	attrPriority = 0x20 // set: behind background
	attrFlipH    = 0x40
	attrFlipV    = 0x80
)

const maxSpritesPerLine = 8

// spriteUnit is the per-scanline sprite working set and its shifters.
type spriteUnit struct {
	scanline [maxSpritesPerLine]ObjectAttribute
	count    int

	shifterPatternLo [maxSpritesPerLine]uint8
	shifterPatternHi [maxSpritesPerLine]uint8

	zeroHitPossible bool
}

// clear empties the working set and the shifters.
func (s *spriteUnit) clear() {
	s.count = 0
	s.shifterPatternLo = [maxSpritesPerLine]uint8{}
	s.shifterPatternHi = [maxSpritesPerLine]uint8{}
}

// shift counts each sprite's X down to zero, then shifts its pattern out.
func (s *spriteUnit) shift() {
	for i := 0; i < s.count; i++ {
		if s.scanline[i].X > 0 {
			s.scanline[i].X--
		} else {
			s.shifterPatternLo[i] <<= 1
			s.shifterPatternHi[i] <<= 1
		}
	}
}

// ReadOAM reads OAM as the 256 byte table the CPU sees.
func (p *PPU) ReadOAM(address uint8) uint8 {
	entry := &p.oam[address>>2]
	switch address & 0x03 {
	case 0:
		return entry.Y
	case 1:
		return entry.ID
	case 2:
		return entry.Attribute
	default:
		return entry.X
	}
}

// WriteOAM writes OAM as the 256 byte table the CPU sees.
func (p *PPU) WriteOAM(address uint8, value uint8) {
	entry := &p.oam[address>>2]
	switch address & 0x03 {
	case 0:
		entry.Y = value
	case 1:
		entry.ID = value
	case 2:
		entry.Attribute = value
	default:
		entry.X = value
	}
}

// OAM returns a copy of object attribute memory.
func (p *PPU) OAM() [64]ObjectAttribute {
	return p.oam
}

// OAMAddress returns the OAMADDR register.
func (p *PPU) OAMAddress() uint8 {
	return p.oamAddr
}

func (p *PPU) spriteHeight() int {
	if p.control.SpriteSize() {
		return 16
	}
	return 8
}

// evaluateSprites selects the sprites that cover the next scanline. The
// first eight matches are kept in OAM order; a ninth sets sprite overflow.
func (p *PPU) evaluateSprites() {
	s := &p.sprites
	s.clear()
	s.zeroHitPossible = false

	height := p.spriteHeight()
	for i := range p.oam {
		diff := p.scanline - int(p.oam[i].Y)
		if diff < 0 || diff >= height {
			continue
		}
		if s.count == maxSpritesPerLine {
			p.status.SetSpriteOverflow(true)
			break
		}
		if i == 0 {
			s.zeroHitPossible = true
		}
		s.scanline[s.count] = p.oam[i]
		s.count++
	}
}

// fetchSpritePatterns loads the pattern row of every selected sprite into
// its shifters.
func (p *PPU) fetchSpritePatterns() {
	s := &p.sprites
	for i := 0; i < s.count; i++ {
		address := p.spritePatternAddress(s.scanline[i])

		lo := p.read(address)
		hi := p.read(address + 8)
		if s.scanline[i].Attribute&attrFlipH != 0 {
			lo = flipByte(lo)
			hi = flipByte(hi)
		}
		s.shifterPatternLo[i] = lo
		s.shifterPatternHi[i] = hi
	}
}

// spritePatternAddress returns the address of the low plane of the row of
// sprite that lies on the current scanline.
func (p *PPU) spritePatternAddress(sprite ObjectAttribute) uint16 {
	row := uint16(p.scanline-int(sprite.Y)) & 0x0F
	flipped := sprite.Attribute&attrFlipV != 0

	if !p.control.SpriteSize() {
		// 8x8: table from PPUCTRL
		row &= 0x07
		if flipped {
			row = 7 - row
		}
		return p.control.PatternSprite()<<12 | uint16(sprite.ID)<<4 | row
	}

	// 8x16: table from bit 0 of the tile id, tiles paired top and bottom.
	// Flipping mirrors the whole 16 row sprite, swapping the halves.
	if flipped {
		row = 15 - row
	}
	tile := uint16(sprite.ID & 0xFE)
	if row >= 8 {
		tile++
	}
	return uint16(sprite.ID&0x01)<<12 | tile<<4 | row&0x07
}

// spritePixel returns the first opaque sprite pixel at the current dot.
func (p *PPU) spritePixel() (pixel, palette uint8, priority, spriteZero bool) {
	if !p.mask.RenderSprites() {
		return 0, 0, false, false
	}
	if !p.mask.RenderSpritesLeft() && p.cycle < 9 {
		return 0, 0, false, false
	}

	s := &p.sprites
	for i := 0; i < s.count; i++ {
		if s.scanline[i].X != 0 {
			continue
		}
		pixel = bit(s.shifterPatternHi[i]&0x80 != 0)<<1 | bit(s.shifterPatternLo[i]&0x80 != 0)
		if pixel == 0 {
			continue
		}
		palette = s.scanline[i].Attribute&attrPalette + 0x04
		priority = s.scanline[i].Attribute&attrPriority == 0
		return pixel, palette, priority, i == 0
	}
	return 0, 0, false, false
}

// flipByte reverses the bit order of b.
func flipByte(b uint8) uint8 {
	b = (b&0xF0)>>4 | (b&0x0F)<<4
	b = (b&0xCC)>>2 | (b&0x33)<<2
	b = (b&0xAA)>>1 | (b&0x55)<<1
	return b
}
