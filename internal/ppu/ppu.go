// Package ppu implements the Picture Processing Unit for the NES.
//
// The PPU is clocked once per dot. Each frame is 262 scanlines (-1 to 260)
// of 341 cycles; scanlines 0-239 are visible and vertical blank begins at
// scanline 241.
package ppu

import (
	"nescore/internal/memory"
)

// Screen dimensions
const (
	Width  = 256
	Height = 240

	cyclesPerScanline = 341
	lastScanline      = 260
)

// Frame is a finished picture, one 0xRRGGBB value per pixel, row major.
type Frame [Width * Height]uint32

// FrameObserver receives each completed frame. The frame is owned by the
// PPU and is overwritten as the next frame renders.
type FrameObserver func(frame *Frame)

// Option configures a PPU at construction.
type Option func(*PPU)

// WithFrameObserver registers a frame-complete observer.
func WithFrameObserver(o FrameObserver) Option {
	return func(p *PPU) {
		p.frameCompleteCallback = o
	}
}

// PPU represents the NES Picture Processing Unit (2C02)
type PPU struct {
	// CPU-visible registers
	control Control
	mask    Mask
	status  Status
	oamAddr uint8

	// Loopy registers
	vramAddr Loopy // v
	tramAddr Loopy // t
	fineX    uint8
	latch    bool // second write of a $2005/$2006 pair

	dataBuffer uint8

	memory *memory.PPUMemory

	// Rendering state
	scanline      int
	cycle         int
	oddFrame      bool
	frameComplete bool
	frameCount    uint64
	cycleCount    uint64
	nmi           bool

	background background
	sprites    spriteUnit
	oam        [64]ObjectAttribute

	frameBuffer Frame

	frameCompleteCallback FrameObserver
}

// New creates a new PPU instance
func New(opts ...Option) *PPU {
	p := &PPU{scanline: -1}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Reset returns the PPU to its power-up state. OAM and the frame buffer
// keep their contents.
func (p *PPU) Reset() {
	p.control = 0
	p.mask = 0
	p.status = 0
	p.oamAddr = 0

	p.vramAddr = 0
	p.tramAddr = 0
	p.fineX = 0
	p.latch = false
	p.dataBuffer = 0

	p.scanline = -1
	p.cycle = 0
	p.oddFrame = false
	p.frameComplete = false
	p.nmi = false

	p.background = background{}
	p.sprites = spriteUnit{}
}

// SetMemory sets the PPU memory interface
func (p *PPU) SetMemory(memory *memory.PPUMemory) {
	p.memory = memory
}

// SetFrameCompleteCallback sets the frame complete callback
func (p *PPU) SetFrameCompleteCallback(callback FrameObserver) {
	p.frameCompleteCallback = callback
}

func (p *PPU) read(address uint16) uint8 {
	if p.memory == nil {
		return 0
	}
	address &= 0x3FFF
	value := p.memory.Read(address)
	if address >= 0x3F00 {
		if p.mask.Greyscale() {
			return value & 0x30
		}
		return value & 0x3F
	}
	return value
}

func (p *PPU) write(address uint16, value uint8) {
	if p.memory == nil {
		return
	}
	p.memory.Write(address&0x3FFF, value)
}

// ReadRegister reads from a PPU register (CPU $2000-$2007)
func (p *PPU) ReadRegister(address uint16) uint8 {
	switch address & 0x0007 {
	case 0x0002: // PPUSTATUS
		data := p.status.Get()&0xE0 | p.dataBuffer&0x1F
		p.status.SetVerticalBlank(false)
		p.latch = false
		return data
	case 0x0004: // OAMDATA
		return p.ReadOAM(p.oamAddr)
	case 0x0007: // PPUDATA
		data := p.dataBuffer
		p.dataBuffer = p.read(p.vramAddr.Get())
		if p.vramAddr.Get()&0x3FFF >= 0x3F00 {
			// Palette reads are not delayed
			data = p.dataBuffer
		}
		p.incrementAddress()
		return data
	default:
		// Write-only registers
		return 0
	}
}

// WriteRegister writes to a PPU register (CPU $2000-$2007)
func (p *PPU) WriteRegister(address uint16, value uint8) {
	switch address & 0x0007 {
	case 0x0000: // PPUCTRL
		p.control.Set(value)
		p.tramAddr.SetNametableX(uint16(p.control.NametableX()))
		p.tramAddr.SetNametableY(uint16(p.control.NametableY()))
	case 0x0001: // PPUMASK
		p.mask.Set(value)
	case 0x0002: // PPUSTATUS - read only
	case 0x0003: // OAMADDR
		p.oamAddr = value
	case 0x0004: // OAMDATA
		p.WriteOAM(p.oamAddr, value)
		p.oamAddr++
	case 0x0005: // PPUSCROLL
		if !p.latch {
			p.fineX = value & 0x07
			p.tramAddr.SetCoarseX(uint16(value >> 3))
		} else {
			p.tramAddr.SetFineY(uint16(value & 0x07))
			p.tramAddr.SetCoarseY(uint16(value >> 3))
		}
		p.latch = !p.latch
	case 0x0006: // PPUADDR
		if !p.latch {
			p.tramAddr.Set(uint16(value&0x3F)<<8 | p.tramAddr.Get()&0x00FF)
		} else {
			p.tramAddr.Set(p.tramAddr.Get()&0xFF00 | uint16(value))
			p.vramAddr = p.tramAddr
		}
		p.latch = !p.latch
	case 0x0007: // PPUDATA
		p.write(p.vramAddr.Get(), value)
		p.incrementAddress()
	}
}

func (p *PPU) incrementAddress() {
	if p.control.IncrementMode() {
		p.vramAddr.Set(p.vramAddr.Get() + 32)
	} else {
		p.vramAddr.Set(p.vramAddr.Get() + 1)
	}
}

// Clock advances the PPU by one cycle
func (p *PPU) Clock() {
	p.cycleCount++

	if p.scanline >= -1 && p.scanline < 240 {
		if p.scanline == 0 && p.cycle == 0 && p.oddFrame && p.mask.Rendering() {
			// Odd frames skip the first idle cycle
			p.cycle = 1
		}

		if p.scanline == -1 && p.cycle == 1 {
			p.status.SetVerticalBlank(false)
			p.status.SetSpriteOverflow(false)
			p.status.SetSpriteZeroHit(false)
			p.sprites.clear()
		}

		if (p.cycle >= 2 && p.cycle < 258) || (p.cycle >= 321 && p.cycle < 338) {
			p.updateShifters()

			switch (p.cycle - 1) % 8 {
			case 0:
				p.loadBackgroundShifters()
				p.fetchTileID()
			case 2:
				p.fetchTileAttribute()
			case 4:
				p.fetchTilePattern(0)
			case 6:
				p.fetchTilePattern(8)
			case 7:
				p.incrementScrollX()
			}
		}

		if p.cycle == 256 {
			p.incrementScrollY()
		}

		if p.cycle == 257 {
			p.loadBackgroundShifters()
			p.transferAddressX()
		}

		// Unused nametable fetches at the end of the line
		if p.cycle == 338 || p.cycle == 340 {
			p.fetchTileID()
		}

		if p.scanline == -1 && p.cycle >= 280 && p.cycle < 305 {
			p.transferAddressY()
		}

		if p.cycle == 257 && p.scanline >= 0 {
			p.evaluateSprites()
		}

		if p.cycle == 340 {
			p.fetchSpritePatterns()
		}
	}

	if p.scanline == 241 && p.cycle == 1 {
		p.status.SetVerticalBlank(true)
		if p.control.EnableNMI() {
			p.nmi = true
		}
	}

	p.composePixel()

	p.cycle++
	if p.cycle >= cyclesPerScanline {
		p.cycle = 0
		p.scanline++
		if p.scanline > lastScanline {
			p.scanline = -1
			p.frameComplete = true
			p.frameCount++
			p.oddFrame = !p.oddFrame
			if p.frameCompleteCallback != nil {
				p.frameCompleteCallback(&p.frameBuffer)
			}
		}
	}
}

// composePixel combines the background and sprite outputs for the current
// dot and writes the result into the frame buffer.
func (p *PPU) composePixel() {
	bgPixel, bgPalette := p.backgroundPixel()
	fgPixel, fgPalette, fgPriority, spriteZero := p.spritePixel()

	var pixel, palette uint8
	switch {
	case bgPixel == 0 && fgPixel == 0:
		// Backdrop colour
	case bgPixel == 0:
		pixel, palette = fgPixel, fgPalette
	case fgPixel == 0:
		pixel, palette = bgPixel, bgPalette
	default:
		if fgPriority {
			pixel, palette = fgPixel, fgPalette
		} else {
			pixel, palette = bgPixel, bgPalette
		}

		if spriteZero && p.sprites.zeroHitPossible && p.mask.RenderBackground() && p.mask.RenderSprites() {
			first := 1
			if !p.mask.RenderBackgroundLeft() || !p.mask.RenderSpritesLeft() {
				first = 9
			}
			if p.cycle >= first && p.cycle < 258 {
				p.status.SetSpriteZeroHit(true)
			}
		}
	}

	x, y := p.cycle-1, p.scanline
	if x >= 0 && x < Width && y >= 0 && y < Height {
		p.frameBuffer[y*Width+x] = p.PaletteColour(palette, pixel)
	}
}

// PollNMI reports whether an NMI has been raised since the last poll, and
// clears the request.
func (p *PPU) PollNMI() bool {
	if p.nmi {
		p.nmi = false
		return true
	}
	return false
}

// NMIPending reports whether an NMI request is waiting.
func (p *PPU) NMIPending() bool {
	return p.nmi
}

// FrameComplete reports whether a frame has finished since the flag was last
// cleared.
func (p *PPU) FrameComplete() bool {
	return p.frameComplete
}

// ClearFrameComplete resets the frame-complete flag.
func (p *PPU) ClearFrameComplete() {
	p.frameComplete = false
}

// Screen returns the frame buffer being rendered into.
func (p *PPU) Screen() *Frame {
	return &p.frameBuffer
}

// GetFrameBuffer returns a copy of the current frame buffer
func (p *PPU) GetFrameBuffer() Frame {
	return p.frameBuffer
}

// GetFrameCount returns the number of completed frames
func (p *PPU) GetFrameCount() uint64 {
	return p.frameCount
}

// GetScanline returns the current scanline
func (p *PPU) GetScanline() int {
	return p.scanline
}

// GetCycle returns the current cycle
func (p *PPU) GetCycle() int {
	return p.cycle
}

// GetCycleCount returns the total PPU cycle count
func (p *PPU) GetCycleCount() uint64 {
	return p.cycleCount
}

// IsRenderingEnabled returns true if rendering is enabled
func (p *PPU) IsRenderingEnabled() bool {
	return p.mask.Rendering()
}

// IsVBlank returns true if the vertical blank flag is set
func (p *PPU) IsVBlank() bool {
	return p.status.VerticalBlank()
}

// IsOddFrame reports whether the frame being rendered is odd.
func (p *PPU) IsOddFrame() bool {
	return p.oddFrame
}

// Control returns the PPUCTRL register.
func (p *PPU) Control() Control { return p.control }

// Mask returns the PPUMASK register.
func (p *PPU) Mask() Mask { return p.mask }

// Status returns PPUSTATUS without the side effects of a CPU read.
func (p *PPU) Status() Status { return p.status }

// VRAMAddress returns the working loopy register v.
func (p *PPU) VRAMAddress() Loopy { return p.vramAddr }

// TempAddress returns the temporary loopy register t.
func (p *PPU) TempAddress() Loopy { return p.tramAddr }

// FineX returns the fine X scroll.
func (p *PPU) FineX() uint8 { return p.fineX }
