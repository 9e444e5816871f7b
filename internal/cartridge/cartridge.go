// Package cartridge implements iNES ROM parsing and cartridge address mapping.
package cartridge

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"nescore/internal/logger"
)

// Bank sizes in bytes.
const (
	PRGBankSize = 16384
	CHRBankSize = 8192
	TrainerSize = 512
	HeaderSize  = 16
)

// Magic is the iNES file signature "NES" followed by MS-DOS end-of-file.
var Magic = [4]uint8{0x4E, 0x45, 0x53, 0x1A}

var (
	// ErrInvalidMagic is returned when the image does not start with Magic.
	ErrInvalidMagic = errors.New("invalid iNES signature")

	// ErrTruncated is returned when the image is shorter than its header claims.
	ErrTruncated = errors.New("truncated iNES image")
)

// UnsupportedMapperError is returned when the header names a mapper with no
// implementation.
type UnsupportedMapperError struct {
	ID uint8
}

func (e *UnsupportedMapperError) Error() string {
	return fmt.Sprintf("unsupported mapper %d", e.ID)
}

// Mirror is the nametable mirroring arrangement wired on the cartridge.
type Mirror uint8

const (
	MirrorHorizontal Mirror = iota
	MirrorVertical
)

func (m Mirror) String() string {
	if m == MirrorVertical {
		return "vertical"
	}
	return "horizontal"
}

// Header is the fixed 16 byte iNES header.
type Header struct {
	Magic    [4]uint8
	PRGBanks uint8 // 16KB units
	CHRBanks uint8 // 8KB units, 0 means CHR RAM
	Flags6   uint8
	Flags7   uint8
	PRGRAM   uint8
	TV1      uint8
	TV2      uint8
	Unused   [5]uint8
}

// MapperID combines the high nibbles of flags 7 and 6.
func (h Header) MapperID() uint8 {
	return (h.Flags7 & 0xF0) | (h.Flags6 >> 4)
}

// HasTrainer reports whether a 512 byte trainer follows the header.
func (h Header) HasTrainer() bool {
	return h.Flags6&0x04 != 0
}

// Mirror returns the mirroring arrangement from bit 0 of flags 6.
func (h Header) Mirror() Mirror {
	if h.Flags6&0x01 != 0 {
		return MirrorVertical
	}
	return MirrorHorizontal
}

// Cartridge owns the PRG and CHR memory of a loaded ROM and delegates all
// address translation to its Mapper.
type Cartridge struct {
	header  Header
	trainer []uint8
	prg     []uint8
	chr     []uint8

	mapperID uint8
	mapper   Mapper
	mirror   Mirror

	valid  bool
	chrRAM bool
}

// New returns an empty cartridge. It claims no addresses until Load succeeds.
func New() *Cartridge {
	return &Cartridge{}
}

// LoadFromFile reads and parses an iNES file.
func LoadFromFile(filename string) (*Cartridge, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	cart := New()
	if err := cart.Load(data); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return cart, nil
}

// LoadFromReader parses an iNES image from r.
func LoadFromReader(r io.Reader) (*Cartridge, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	cart := New()
	if err := cart.Load(data); err != nil {
		return nil, err
	}
	return cart, nil
}

// Load parses a complete iNES image. On any error the cartridge is left
// invalid and its banks are not populated.
func (c *Cartridge) Load(rom []byte) error {
	*c = Cartridge{}

	// The signature is checked first so that short non-iNES files are not
	// reported as truncated
	if !bytes.HasPrefix(rom, Magic[:]) {
		return ErrInvalidMagic
	}

	r := bytes.NewReader(rom)
	var header Header
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return ErrTruncated
	}

	var trainer []uint8
	if header.HasTrainer() {
		trainer = make([]uint8, TrainerSize)
		if _, err := io.ReadFull(r, trainer); err != nil {
			return fmt.Errorf("trainer: %w", ErrTruncated)
		}
	}

	mapper, err := newMapper(header.MapperID(), header.PRGBanks, header.CHRBanks)
	if err != nil {
		return err
	}

	prg := make([]uint8, int(header.PRGBanks)*PRGBankSize)
	if _, err := io.ReadFull(r, prg); err != nil {
		return fmt.Errorf("PRG ROM: %w", ErrTruncated)
	}

	chrRAM := header.CHRBanks == 0
	var chr []uint8
	if chrRAM {
		chr = make([]uint8, CHRBankSize)
	} else {
		chr = make([]uint8, int(header.CHRBanks)*CHRBankSize)
		if _, err := io.ReadFull(r, chr); err != nil {
			return fmt.Errorf("CHR ROM: %w", ErrTruncated)
		}
	}

	c.header = header
	c.trainer = trainer
	c.prg = prg
	c.chr = chr
	c.mapperID = header.MapperID()
	c.mapper = mapper
	c.mirror = header.Mirror()
	c.chrRAM = chrRAM
	c.valid = true

	logger.Logf(logger.Allow, "cartridge", "mapper %d, %d PRG bank(s), %d CHR bank(s), %s mirroring",
		c.mapperID, header.PRGBanks, header.CHRBanks, c.mirror)

	return nil
}

// Valid reports whether Load completed successfully.
func (c *Cartridge) Valid() bool { return c.valid }

// Header returns the parsed header.
func (c *Cartridge) Header() Header { return c.header }

// MapperID returns the mapper number declared in the header.
func (c *Cartridge) MapperID() uint8 { return c.mapperID }

// Mirror returns the nametable mirroring arrangement.
func (c *Cartridge) Mirror() Mirror { return c.mirror }

// HasCHRRAM reports whether pattern memory is writable.
func (c *Cartridge) HasCHRRAM() bool { return c.chrRAM }

// Trainer returns the trainer block, or nil if the image had none.
func (c *Cartridge) Trainer() []uint8 { return c.trainer }

// PRGSize returns the size of PRG memory in bytes.
func (c *Cartridge) PRGSize() int { return len(c.prg) }

// CHRSize returns the size of CHR memory in bytes.
func (c *Cartridge) CHRSize() int { return len(c.chr) }

// Reset resets the mapper. Bank contents are left untouched.
func (c *Cartridge) Reset() {
	if c.mapper != nil {
		c.mapper.Reset()
	}
}

// CPURead reads from the cartridge if the mapper claims addr.
func (c *Cartridge) CPURead(addr uint16) (uint8, bool) {
	if !c.valid {
		return 0, false
	}
	offset, ok := c.mapper.CPUMapRead(addr)
	if !ok || int(offset) >= len(c.prg) {
		return 0, false
	}
	return c.prg[offset], true
}

// CPUWrite writes to the cartridge if the mapper claims addr.
func (c *Cartridge) CPUWrite(addr uint16, data uint8) bool {
	if !c.valid {
		return false
	}
	offset, ok := c.mapper.CPUMapWrite(addr)
	if !ok || int(offset) >= len(c.prg) {
		return false
	}
	c.prg[offset] = data
	return true
}

// PPURead reads pattern memory if the mapper claims addr.
func (c *Cartridge) PPURead(addr uint16) (uint8, bool) {
	if !c.valid {
		return 0, false
	}
	offset, ok := c.mapper.PPUMapRead(addr)
	if !ok || int(offset) >= len(c.chr) {
		return 0, false
	}
	return c.chr[offset], true
}

// PPUWrite writes pattern memory if the mapper claims addr.
func (c *Cartridge) PPUWrite(addr uint16, data uint8) bool {
	if !c.valid {
		return false
	}
	offset, ok := c.mapper.PPUMapWrite(addr)
	if !ok || int(offset) >= len(c.chr) {
		return false
	}
	c.chr[offset] = data
	return true
}
