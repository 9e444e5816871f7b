package cartridge

// Mapper translates CPU and PPU bus addresses into offsets within the
// cartridge's PRG and CHR memory. A false second result means the address is
// not claimed by the cartridge.
type Mapper interface {
	CPUMapRead(addr uint16) (uint32, bool)
	CPUMapWrite(addr uint16) (uint32, bool)
	PPUMapRead(addr uint16) (uint32, bool)
	PPUMapWrite(addr uint16) (uint32, bool)
	Reset()
}

// newMapper selects the mapper implementation for id.
func newMapper(id uint8, prgBanks, chrBanks uint8) (Mapper, error) {
	switch id {
	case 0:
		return NewMapper000(prgBanks, chrBanks), nil
	default:
		return nil, &UnsupportedMapperError{ID: id}
	}
}
