package cartridge

// ROMBuilder assembles iNES images in memory. It is used by tests across the
// module and by the headless runner's self test.
type ROMBuilder struct {
	prgBanks uint8
	chrBanks uint8
	mapperID uint8
	mirror   Mirror
	trainer  []uint8
	program  []uint8
	origin   uint16
	data     map[uint16]uint8
	chr      map[uint16]uint8

	resetVector uint16
	nmiVector   uint16
	irqVector   uint16
}

// NewROMBuilder returns a builder for a 16KB PRG, 8KB CHR, mapper 0 image
// with all vectors pointing at 0x8000.
func NewROMBuilder() *ROMBuilder {
	return &ROMBuilder{
		prgBanks:    1,
		chrBanks:    1,
		origin:      0x8000,
		data:        make(map[uint16]uint8),
		chr:         make(map[uint16]uint8),
		resetVector: 0x8000,
		nmiVector:   0x8000,
		irqVector:   0x8000,
	}
}

// WithPRGBanks sets the PRG size in 16KB units.
func (b *ROMBuilder) WithPRGBanks(n uint8) *ROMBuilder {
	b.prgBanks = n
	return b
}

// WithCHRBanks sets the CHR size in 8KB units. Zero selects CHR RAM.
func (b *ROMBuilder) WithCHRBanks(n uint8) *ROMBuilder {
	b.chrBanks = n
	return b
}

// WithMapper sets the mapper id written into flags 6 and 7.
func (b *ROMBuilder) WithMapper(id uint8) *ROMBuilder {
	b.mapperID = id
	return b
}

// WithMirror sets the nametable mirroring bit.
func (b *ROMBuilder) WithMirror(m Mirror) *ROMBuilder {
	b.mirror = m
	return b
}

// WithTrainer adds a 512 byte trainer. Shorter data is zero padded.
func (b *ROMBuilder) WithTrainer(data []uint8) *ROMBuilder {
	b.trainer = make([]uint8, TrainerSize)
	copy(b.trainer, data)
	return b
}

// WithProgram places code at origin, a CPU address in 0x8000-0xFFFF.
func (b *ROMBuilder) WithProgram(origin uint16, code ...uint8) *ROMBuilder {
	b.origin = origin
	b.program = append([]uint8(nil), code...)
	return b
}

// WithByte stores a single PRG byte at a CPU address.
func (b *ROMBuilder) WithByte(addr uint16, v uint8) *ROMBuilder {
	b.data[addr] = v
	return b
}

// WithCHRByte stores a single pattern byte at a PPU address.
func (b *ROMBuilder) WithCHRByte(addr uint16, v uint8) *ROMBuilder {
	b.chr[addr] = v
	return b
}

// WithVectors sets the NMI, reset and IRQ vectors.
func (b *ROMBuilder) WithVectors(nmi, reset, irq uint16) *ROMBuilder {
	b.nmiVector = nmi
	b.resetVector = reset
	b.irqVector = irq
	return b
}

// WithResetVector sets only the reset vector.
func (b *ROMBuilder) WithResetVector(addr uint16) *ROMBuilder {
	b.resetVector = addr
	return b
}

// prgOffset converts a CPU address into a PRG offset using the NROM layout.
func (b *ROMBuilder) prgOffset(addr uint16, size int) int {
	if size == 0 {
		return -1
	}
	return int(addr-0x8000) % size
}

// Build returns the encoded image.
func (b *ROMBuilder) Build() []uint8 {
	header := make([]uint8, HeaderSize)
	copy(header, Magic[:])
	header[4] = b.prgBanks
	header[5] = b.chrBanks
	header[6] = (b.mapperID << 4)
	if b.mirror == MirrorVertical {
		header[6] |= 0x01
	}
	if b.trainer != nil {
		header[6] |= 0x04
	}
	header[7] = b.mapperID & 0xF0

	prgSize := int(b.prgBanks) * PRGBankSize
	prg := make([]uint8, prgSize)
	put := func(addr uint16, v uint8) {
		if addr < 0x8000 {
			return
		}
		if off := b.prgOffset(addr, prgSize); off >= 0 {
			prg[off] = v
		}
	}
	for i, v := range b.program {
		put(b.origin+uint16(i), v)
	}
	for addr, v := range b.data {
		put(addr, v)
	}
	put(0xFFFA, uint8(b.nmiVector))
	put(0xFFFB, uint8(b.nmiVector>>8))
	put(0xFFFC, uint8(b.resetVector))
	put(0xFFFD, uint8(b.resetVector>>8))
	put(0xFFFE, uint8(b.irqVector))
	put(0xFFFF, uint8(b.irqVector>>8))

	rom := append(header, b.trainer...)
	rom = append(rom, prg...)
	if b.chrBanks > 0 {
		chr := make([]uint8, int(b.chrBanks)*CHRBankSize)
		for addr, v := range b.chr {
			if int(addr) < len(chr) {
				chr[addr] = v
			}
		}
		rom = append(rom, chr...)
	}
	return rom
}

// Cartridge builds and loads the image. It panics if the image is rejected,
// which only happens for unsupported mapper ids.
func (b *ROMBuilder) Cartridge() *Cartridge {
	cart := New()
	if err := cart.Load(b.Build()); err != nil {
		panic(err)
	}
	return cart
}
