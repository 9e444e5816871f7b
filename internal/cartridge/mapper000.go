package cartridge

// Mapper000 implements NROM (mapper 0), the simplest board with no bank
// switching:
//   - 16KB PRG ROM mirrored across 0x8000-0xFFFF, or 32KB mapped directly
//   - 8KB CHR ROM, or 8KB CHR RAM when the header declares no CHR banks
type Mapper000 struct {
	prgBanks uint8
	chrBanks uint8
}

// NewMapper000 creates an NROM mapper for the given bank counts.
func NewMapper000(prgBanks, chrBanks uint8) *Mapper000 {
	return &Mapper000{
		prgBanks: prgBanks,
		chrBanks: chrBanks,
	}
}

func (m *Mapper000) prgMask() uint16 {
	if m.prgBanks > 1 {
		return 0x7FFF
	}
	return 0x3FFF
}

// CPUMapRead maps 0x8000-0xFFFF onto PRG ROM.
//
//	16KB: 0x8000-0xBFFF -> 0x0000-0x3FFF, 0xC000-0xFFFF mirrors it
//	32KB: 0x8000-0xFFFF -> 0x0000-0x7FFF
func (m *Mapper000) CPUMapRead(addr uint16) (uint32, bool) {
	if addr >= 0x8000 {
		return uint32(addr & m.prgMask()), true
	}
	return 0, false
}

// CPUMapWrite uses the same mapping as CPUMapRead.
func (m *Mapper000) CPUMapWrite(addr uint16) (uint32, bool) {
	if addr >= 0x8000 {
		return uint32(addr & m.prgMask()), true
	}
	return 0, false
}

// PPUMapRead maps 0x0000-0x1FFF straight onto CHR memory.
func (m *Mapper000) PPUMapRead(addr uint16) (uint32, bool) {
	if addr <= 0x1FFF {
		return uint32(addr), true
	}
	return 0, false
}

// PPUMapWrite only claims pattern addresses when CHR is RAM.
func (m *Mapper000) PPUMapWrite(addr uint16) (uint32, bool) {
	if addr <= 0x1FFF && m.chrBanks == 0 {
		return uint32(addr), true
	}
	return 0, false
}

// Reset is a no-op; NROM has no registers.
func (m *Mapper000) Reset() {}
