package ppu

import (
	"image"
	"image/color"
)

// PatternTableSize is the width and height in pixels of a rendered pattern
// table: 16x16 tiles of 8x8 pixels.
const PatternTableSize = 128

// PatternTable renders pattern table i (0 or 1) with the given palette
// (0-7). Reading goes through the PPU bus, so the cartridge decides what is
// visible.
func (p *PPU) PatternTable(i int, palette uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, PatternTableSize, PatternTableSize))
	base := uint16(i&1) * 0x1000

	for tileY := 0; tileY < 16; tileY++ {
		for tileX := 0; tileX < 16; tileX++ {
			offset := uint16(tileY*256 + tileX*16)

			for row := 0; row < 8; row++ {
				lsb := p.read(base + offset + uint16(row))
				msb := p.read(base + offset + uint16(row) + 8)

				for col := 0; col < 8; col++ {
					pixel := (msb&0x01)<<1 | lsb&0x01
					lsb >>= 1
					msb >>= 1

					img.SetRGBA(tileX*8+(7-col), tileY*8+row, rgba(p.PaletteColour(palette, pixel)))
				}
			}
		}
	}
	return img
}

// Image copies the frame into an RGBA image.
func (f *Frame) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	for i, c := range f {
		img.SetRGBA(i%Width, i/Width, rgba(c))
	}
	return img
}

func rgba(c uint32) color.RGBA {
	return color.RGBA{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c), A: 0xFF}
}
