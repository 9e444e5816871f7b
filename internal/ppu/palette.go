package ppu

// masterPalette holds the 64 colours the 2C02 can output, as 0xRRGGBB.
var masterPalette = [64]uint32{
	// 0x00-0x0F
	0x545454, 0x001E74, 0x081090, 0x300088, 0x440064, 0x5C0030, 0x540400, 0x3C1800,
	0x202A00, 0x083A00, 0x004000, 0x003C00, 0x00323C, 0x000000, 0x000000, 0x000000,
	// 0x10-0x1F
	0x989698, 0x084CC4, 0x3032EC, 0x5C1EE4, 0x8814B0, 0xA01464, 0x982220, 0x783C00,
	0x545A00, 0x287200, 0x087C00, 0x007628, 0x006678, 0x000000, 0x000000, 0x000000,
	// 0x20-0x2F
	0xECEEEC, 0x4C9AEC, 0x787CEC, 0xB062EC, 0xE454EC, 0xEC58B4, 0xEC6A64, 0xD48820,
	0xA0AA00, 0x74C400, 0x4CD020, 0x38CC6C, 0x38B4CC, 0x3C3C3C, 0x000000, 0x000000,
	// 0x30-0x3F
	0xECEEEC, 0xA8CCEC, 0xBCBCEC, 0xD4B2EC, 0xECAEEC, 0xECAED4, 0xECB4B0, 0xE4C490,
	0xCCD278, 0xB4DE78, 0xA8E290, 0x98E2B4, 0xA0D6E4, 0xA0A2A0, 0x000000, 0x000000,
}

// NESColorToRGB converts a NES color index to RGB value
func NESColorToRGB(colorIndex uint8) uint32 {
	return masterPalette[colorIndex&0x3F]
}

// PaletteColour returns the RGB colour of pixel (0-3) in palette (0-7).
// Palettes 0-3 are background palettes, 4-7 sprite palettes.
func (p *PPU) PaletteColour(palette, pixel uint8) uint32 {
	index := p.read(0x3F00 + uint16(palette&0x07)<<2 + uint16(pixel&0x03))
	return masterPalette[index&0x3F]
}
