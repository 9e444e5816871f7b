// Package memory implements the CPU and PPU address spaces of the console.
package memory

// Memory decodes the CPU address space. The cartridge gets first refusal on
// every access, then internal RAM and the PPU registers are tried in turn.
// Anything left unclaimed reads as 0 and drops writes.
type Memory struct {
	// Internal RAM (2KB, mirrored to 8KB)
	ram [0x800]uint8

	// PPU registers (mirrored every 8 bytes)
	ppuRegisters PPUInterface

	cartridge CartridgeInterface

	// Called with the page number written to 0x4014.
	dmaCallback func(uint8)
}

// PPUMemory decodes the PPU address space: pattern tables live on the
// cartridge, nametables in 2KB of internal VRAM, palettes in 32 bytes of
// palette RAM.
type PPUMemory struct {
	vram       [0x800]uint8
	paletteRAM [32]uint8
	cartridge  CartridgeInterface
	mirroring  MirrorMode
}

// MirrorMode represents nametable mirroring mode
type MirrorMode uint8

const (
	MirrorHorizontal MirrorMode = iota
	MirrorVertical
)

// PPUInterface defines the interface for PPU register access
type PPUInterface interface {
	ReadRegister(address uint16) uint8
	WriteRegister(address uint16, value uint8)
}

// CartridgeInterface is the claim-based cartridge contract. A false result
// from a read or write means the cartridge ignored the address.
type CartridgeInterface interface {
	CPURead(address uint16) (uint8, bool)
	CPUWrite(address uint16, value uint8) bool
	PPURead(address uint16) (uint8, bool)
	PPUWrite(address uint16, value uint8) bool
}

// OAMDMAPort is the CPU address that starts an OAM DMA transfer.
const OAMDMAPort = 0x4014

// New creates a CPU address space with RAM cleared.
func New(ppu PPUInterface, cart CartridgeInterface) *Memory {
	return &Memory{
		ppuRegisters: ppu,
		cartridge:    cart,
	}
}

// SetCartridge inserts or removes (nil) a cartridge.
func (m *Memory) SetCartridge(cart CartridgeInterface) {
	m.cartridge = cart
}

// SetDMACallback sets the function invoked on writes to OAMDMAPort.
func (m *Memory) SetDMACallback(callback func(uint8)) {
	m.dmaCallback = callback
}

// ClearRAM zeroes internal RAM.
func (m *Memory) ClearRAM() {
	m.ram = [0x800]uint8{}
}

// Read reads a byte from the given address
func (m *Memory) Read(address uint16) uint8 {
	if m.cartridge != nil {
		if value, ok := m.cartridge.CPURead(address); ok {
			return value
		}
	}

	switch {
	case address < 0x2000:
		return m.ram[address&0x07FF]

	case address < 0x4000:
		if m.ppuRegisters != nil {
			return m.ppuRegisters.ReadRegister(0x2000 + (address & 0x0007))
		}
	}

	return 0
}

// Write writes a byte to the given address
func (m *Memory) Write(address uint16, value uint8) {
	if m.cartridge != nil && m.cartridge.CPUWrite(address, value) {
		return
	}

	switch {
	case address < 0x2000:
		m.ram[address&0x07FF] = value

	case address < 0x4000:
		if m.ppuRegisters != nil {
			m.ppuRegisters.WriteRegister(0x2000+(address&0x0007), value)
		}

	case address == OAMDMAPort:
		if m.dmaCallback != nil {
			m.dmaCallback(value)
		}
	}
}

// NewPPUMemory creates a new PPU memory instance
func NewPPUMemory(cart CartridgeInterface, mirroring MirrorMode) *PPUMemory {
	return &PPUMemory{
		cartridge: cart,
		mirroring: mirroring,
	}
}

// SetCartridge replaces the pattern memory source and mirroring mode.
func (pm *PPUMemory) SetCartridge(cart CartridgeInterface, mirroring MirrorMode) {
	pm.cartridge = cart
	pm.mirroring = mirroring
}

// Mirroring returns the current nametable mirroring mode.
func (pm *PPUMemory) Mirroring() MirrorMode {
	return pm.mirroring
}

// Read reads from PPU memory space ($0000-$3FFF)
func (pm *PPUMemory) Read(address uint16) uint8 {
	address &= 0x3FFF

	if pm.cartridge != nil {
		if value, ok := pm.cartridge.PPURead(address); ok {
			return value
		}
	}

	switch {
	case address < 0x2000:
		// Pattern tables not claimed by a cartridge
		return 0

	case address < 0x3F00:
		return pm.vram[pm.nametableIndex(address)]

	default:
		return pm.paletteRAM[paletteIndex(address)]
	}
}

// Write writes to PPU memory space ($0000-$3FFF)
func (pm *PPUMemory) Write(address uint16, value uint8) {
	address &= 0x3FFF

	if pm.cartridge != nil && pm.cartridge.PPUWrite(address, value) {
		return
	}

	switch {
	case address < 0x2000:
		// Writes to CHR ROM are dropped

	case address < 0x3F00:
		pm.vram[pm.nametableIndex(address)] = value

	default:
		pm.paletteRAM[paletteIndex(address)] = value
	}
}

// nametableIndex maps 0x2000-0x3EFF onto the 2KB of VRAM.
//
//	Vertical:   tables 0,1,2,3 -> 0,1,0,1
//	Horizontal: tables 0,1,2,3 -> 0,0,1,1
func (pm *PPUMemory) nametableIndex(address uint16) uint16 {
	address &= 0x0FFF
	nametable := address >> 10
	offset := address & 0x3FF

	switch pm.mirroring {
	case MirrorVertical:
		return (nametable&1)*0x400 + offset
	default:
		return (nametable>>1)*0x400 + offset
	}
}

// paletteIndex folds the 32 byte palette window. Entries 0x10, 0x14, 0x18
// and 0x1C alias the background entries below them.
func paletteIndex(address uint16) uint16 {
	index := address & 0x1F
	if index&0x13 == 0x10 {
		index &= 0x0F
	}
	return index
}
