// Package bus implements the system bus for communication between NES components.
package bus

import (
	"fmt"

	"nescore/internal/cartridge"
	"nescore/internal/cpu"
	"nescore/internal/logger"
	"nescore/internal/memory"
	"nescore/internal/ppu"
)

// NTSC timing
const (
	// PPU dots per frame on an even frame (262 scanlines of 341 dots).
	CyclesPerFrame = 89342

	// PPU dots per CPU cycle.
	ppuCyclesPerCPUCycle = 3
)

// Option configures a Bus at construction.
type Option func(*Bus)

// WithCPUObserver registers an observer called after every CPU instruction.
func WithCPUObserver(o cpu.Observer) Option {
	return func(b *Bus) {
		b.cpuOptions = append(b.cpuOptions, cpu.WithObserver(o))
	}
}

// WithFrameObserver registers an observer called with every finished frame.
func WithFrameObserver(o ppu.FrameObserver) Option {
	return func(b *Bus) {
		b.ppuOptions = append(b.ppuOptions, ppu.WithFrameObserver(o))
	}
}

// Bus connects all NES components together. The CPU sees the bus as its
// memory; the PPU sees the cartridge and its own VRAM through PPU memory.
type Bus struct {
	// Core components
	CPU    *cpu.CPU
	PPU    *ppu.PPU
	Memory *memory.Memory

	ppuMemory *memory.PPUMemory
	cart      *cartridge.Cartridge

	// PPU dots since the last reset
	clockCount uint64

	dma dmaTransfer

	cpuOptions []cpu.Option
	ppuOptions []ppu.Option
}

// dmaTransfer is an OAM DMA in progress. The CPU is suspended while it runs:
// one or two alignment cycles, then 256 read/write pairs.
type dmaTransfer struct {
	active bool
	dummy  bool
	page   uint8
	offset uint8
	data   uint8
}

// New creates a new system bus with all components and no cartridge.
func New(opts ...Option) *Bus {
	b := &Bus{}
	for _, opt := range opts {
		opt(b)
	}

	b.PPU = ppu.New(b.ppuOptions...)
	b.Memory = memory.New(b.PPU, nil)
	b.Memory.SetDMACallback(b.startDMA)
	b.ppuMemory = memory.NewPPUMemory(nil, memory.MirrorHorizontal)
	b.PPU.SetMemory(b.ppuMemory)
	b.CPU = cpu.New(b, b.cpuOptions...)

	return b
}

// Read reads a byte from the CPU address space.
func (b *Bus) Read(address uint16) uint8 {
	return b.Memory.Read(address)
}

// Write writes a byte to the CPU address space.
func (b *Bus) Write(address uint16, value uint8) {
	b.Memory.Write(address, value)
}

// InsertCartridge connects cart to both address spaces. A nil cartridge
// removes the current one. The system is not reset.
func (b *Bus) InsertCartridge(cart *cartridge.Cartridge) {
	b.cart = cart
	if cart == nil {
		b.Memory.SetCartridge(nil)
		b.ppuMemory.SetCartridge(nil, memory.MirrorHorizontal)
		return
	}
	b.Memory.SetCartridge(cart)
	b.ppuMemory.SetCartridge(cart, mirrorMode(cart.Mirror()))
}

// Cartridge returns the inserted cartridge, or nil.
func (b *Bus) Cartridge() *cartridge.Cartridge {
	return b.cart
}

// Load parses an iNES image, inserts it and resets the system. On error the
// previous cartridge stays in place.
func (b *Bus) Load(rom []byte) error {
	cart := cartridge.New()
	if err := cart.Load(rom); err != nil {
		return fmt.Errorf("load cartridge: %w", err)
	}
	b.InsertCartridge(cart)
	b.Reset()
	return nil
}

// Reset resets the cartridge, CPU and PPU and the clock counter. RAM keeps
// its contents, as on hardware.
func (b *Bus) Reset() {
	if b.cart != nil {
		b.cart.Reset()
	}
	b.CPU.Reset()
	b.PPU.Reset()
	b.clockCount = 0
	b.dma = dmaTransfer{}

	logger.Logf(logger.Allow, "bus", "reset, PC=$%04X", b.CPU.PC)
}

// Clock advances the system by one PPU dot. The CPU, or a DMA transfer in
// its place, runs on every third dot.
func (b *Bus) Clock() {
	b.PPU.Clock()

	if b.clockCount%ppuCyclesPerCPUCycle == 0 {
		if b.dma.active {
			b.clockDMA()
		} else {
			b.CPU.Clock()
		}
	}

	if b.PPU.PollNMI() {
		b.CPU.NMI()
	}

	b.clockCount++
}

// startDMA is called on a write to $4014.
func (b *Bus) startDMA(page uint8) {
	b.dma = dmaTransfer{active: true, dummy: true, page: page}
	logger.Logf(logger.Allow, "bus", "OAM DMA from $%02X00", page)
}

// clockDMA runs one CPU cycle of an OAM DMA. Reads happen on even cycles and
// writes on odd ones, so the transfer waits for an odd cycle to start.
func (b *Bus) clockDMA() {
	odd := (b.clockCount/ppuCyclesPerCPUCycle)%2 == 1

	if b.dma.dummy {
		if odd {
			b.dma.dummy = false
		}
		return
	}

	if !odd {
		b.dma.data = b.Read(uint16(b.dma.page)<<8 | uint16(b.dma.offset))
		return
	}

	b.PPU.WriteOAM(b.PPU.OAMAddress()+b.dma.offset, b.dma.data)
	b.dma.offset++
	if b.dma.offset == 0 {
		b.dma = dmaTransfer{}
	}
}

// DMAActive reports whether an OAM DMA is suspending the CPU.
func (b *Bus) DMAActive() bool {
	return b.dma.active
}

// Step runs the system until the CPU has completed one instruction, and
// returns the number of dots clocked.
func (b *Bus) Step() uint64 {
	start := b.clockCount
	for b.CPU.Complete() {
		b.Clock()
	}
	for !b.CPU.Complete() {
		b.Clock()
	}
	return b.clockCount - start
}

// Frame runs the system until the PPU finishes the frame in progress and
// returns it.
func (b *Bus) Frame() *ppu.Frame {
	b.PPU.ClearFrameComplete()
	for !b.PPU.FrameComplete() {
		b.Clock()
	}
	b.PPU.ClearFrameComplete()
	return b.PPU.Screen()
}

// RunFrames runs n complete frames.
func (b *Bus) RunFrames(n int) {
	for i := 0; i < n; i++ {
		b.Frame()
	}
}

// Screen returns the PPU frame buffer.
func (b *Bus) Screen() *ppu.Frame {
	return b.PPU.Screen()
}

// ClockCount returns the number of PPU dots since the last reset.
func (b *Bus) ClockCount() uint64 {
	return b.clockCount
}

// GetFrameCount returns the number of frames the PPU has completed.
func (b *Bus) GetFrameCount() uint64 {
	return b.PPU.GetFrameCount()
}

func mirrorMode(m cartridge.Mirror) memory.MirrorMode {
	if m == cartridge.MirrorVertical {
		return memory.MirrorVertical
	}
	return memory.MirrorHorizontal
}
