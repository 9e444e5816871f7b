package ppu

// Control is PPUCTRL ($2000).
//
//	7  bit  0
//	VPHB SINN
//	|||| ||++- base nametable (X, Y)
//	|||| |+--- VRAM increment (0: +1 across, 1: +32 down)
//	|||| +---- sprite pattern table for 8x8 sprites
//	|||+------ background pattern table
//	||+------- sprite size (0: 8x8, 1: 8x16)
//	|+-------- master/slave select
//	+--------- NMI at start of vertical blank
type Control uint8

// Get returns the packed register value.
func (c Control) Get() uint8 { return uint8(c) }

// Set replaces the packed register value.
func (c *Control) Set(v uint8) { *c = Control(v) }

// NametableX and NametableY return the base nametable select bits.
func (c Control) NametableX() uint8 { return uint8(c) & 0x01 }
func (c Control) NametableY() uint8 { return uint8(c) >> 1 & 0x01 }

// IncrementMode reports whether PPUDATA accesses step the address by 32.
func (c Control) IncrementMode() bool { return c&0x04 != 0 }

// PatternSprite and PatternBackground return the pattern table, 0 or 1,
// used by 8x8 sprites and by the background.
func (c Control) PatternSprite() uint16     { return uint16(c) >> 3 & 0x01 }
func (c Control) PatternBackground() uint16 { return uint16(c) >> 4 & 0x01 }

// SpriteSize reports whether sprites are 8x16.
func (c Control) SpriteSize() bool { return c&0x20 != 0 }

// SlaveMode reports the EXT pin direction; EnableNMI reports whether the
// start of vertical blank raises an NMI.
func (c Control) SlaveMode() bool { return c&0x40 != 0 }
func (c Control) EnableNMI() bool { return c&0x80 != 0 }

// Mask is PPUMASK ($2001).
//
//	7  bit  0
//	BGRs bMmG
//	|||| |||+- greyscale
//	|||| ||+-- show background in leftmost 8 pixels
//	|||| |+--- show sprites in leftmost 8 pixels
//	|||| +---- show background
//	|||+------ show sprites
//	+++------- emphasise red, green, blue
type Mask uint8

// Get returns the packed register value.
func (m Mask) Get() uint8 { return uint8(m) }

// Set replaces the packed register value.
func (m *Mask) Set(v uint8) { *m = Mask(v) }

// Rendering switches, one accessor per bit from bit 0 upwards.
func (m Mask) Greyscale() bool            { return m&0x01 != 0 }
func (m Mask) RenderBackgroundLeft() bool { return m&0x02 != 0 }
func (m Mask) RenderSpritesLeft() bool    { return m&0x04 != 0 }
func (m Mask) RenderBackground() bool     { return m&0x08 != 0 }
func (m Mask) RenderSprites() bool        { return m&0x10 != 0 }
func (m Mask) EnhanceRed() bool           { return m&0x20 != 0 }
func (m Mask) EnhanceGreen() bool         { return m&0x40 != 0 }
func (m Mask) EnhanceBlue() bool          { return m&0x80 != 0 }

// Rendering reports whether either layer is enabled.
func (m Mask) Rendering() bool { return m&0x18 != 0 }

// Status is PPUSTATUS ($2002). The low five bits are unused and read back
// whatever was last left on the PPU data bus.
type Status uint8

const (
	statusSpriteOverflow Status = 0x20
	statusSpriteZeroHit  Status = 0x40
	statusVerticalBlank  Status = 0x80
)

// Get returns the packed register value.
func (s Status) Get() uint8 { return uint8(s) }

// Set replaces the packed register value.
func (s *Status) Set(v uint8) { *s = Status(v) }

// Status flags, read by the CPU through $2002.
func (s Status) SpriteOverflow() bool { return s&statusSpriteOverflow != 0 }
func (s Status) SpriteZeroHit() bool  { return s&statusSpriteZeroHit != 0 }
func (s Status) VerticalBlank() bool  { return s&statusVerticalBlank != 0 }

// Setters for the status flags, used by the rendering pipeline.
func (s *Status) SetSpriteOverflow(v bool) { s.set(statusSpriteOverflow, v) }
func (s *Status) SetSpriteZeroHit(v bool)  { s.set(statusSpriteZeroHit, v) }
func (s *Status) SetVerticalBlank(v bool)  { s.set(statusVerticalBlank, v) }

func (s *Status) set(bit Status, v bool) {
	if v {
		*s |= bit
	} else {
		*s &^= bit
	}
}

// Loopy is an internal VRAM address register (v or t).
//
//	yyy NN YYYYY XXXXX
//	||| || ||||| +++++- coarse X scroll
//	||| || +++++------- coarse Y scroll
//	||| ++------------- nametable select (X, Y)
//	+++---------------- fine Y scroll
//
// Bit 15 is unused but kept, so Get(Set(v)) == v for every 16 bit value.
type Loopy uint16

// Get returns the packed register value.
func (l Loopy) Get() uint16 { return uint16(l) }

// Set replaces the packed register value.
func (l *Loopy) Set(v uint16) { *l = Loopy(v) }

// Field accessors, each returning the unshifted field value.
func (l Loopy) CoarseX() uint16    { return uint16(l) & 0x1F }
func (l Loopy) CoarseY() uint16    { return uint16(l) >> 5 & 0x1F }
func (l Loopy) NametableX() uint16 { return uint16(l) >> 10 & 0x01 }
func (l Loopy) NametableY() uint16 { return uint16(l) >> 11 & 0x01 }
func (l Loopy) FineY() uint16      { return uint16(l) >> 12 & 0x07 }

// Field setters. Values wider than the field are truncated, so flipping a
// nametable bit with SetNametableX(^NametableX()) is safe.
func (l *Loopy) SetCoarseX(v uint16)    { l.field(0, 0x1F, v) }
func (l *Loopy) SetCoarseY(v uint16)    { l.field(5, 0x1F, v) }
func (l *Loopy) SetNametableX(v uint16) { l.field(10, 0x01, v) }
func (l *Loopy) SetNametableY(v uint16) { l.field(11, 0x01, v) }
func (l *Loopy) SetFineY(v uint16)      { l.field(12, 0x07, v) }

// field stores v, masked to width, at shift.
func (l *Loopy) field(shift uint, mask, v uint16) {
	*l = Loopy(uint16(*l)&^(mask<<shift) | (v&mask)<<shift)
}
