package ppu

import (
	"testing"

	"nescore/internal/memory"
)

// MockCartridge provides 8KB of CHR RAM and ignores the CPU side.
type MockCartridge struct {
	chr [0x2000]uint8
}

func (m *MockCartridge) CPURead(address uint16) (uint8, bool)      { return 0, false }
func (m *MockCartridge) CPUWrite(address uint16, value uint8) bool { return false }

func (m *MockCartridge) PPURead(address uint16) (uint8, bool) {
	if address < 0x2000 {
		return m.chr[address], true
	}
	return 0, false
}

func (m *MockCartridge) PPUWrite(address uint16, value uint8) bool {
	if address < 0x2000 {
		m.chr[address] = value
		return true
	}
	return false
}

func newTestPPU() (*PPU, *MockCartridge) {
	cart := &MockCartridge{}
	p := New()
	p.SetMemory(memory.NewPPUMemory(cart, memory.MirrorVertical))
	return p, cart
}

// setAddress points v at address through $2006.
func setAddress(p *PPU, address uint16) {
	p.WriteRegister(0x2006, uint8(address>>8))
	p.WriteRegister(0x2006, uint8(address))
}

func TestPPUCreation(t *testing.T) {
	p := New()
	if p.GetScanline() != -1 || p.GetCycle() != 0 {
		t.Errorf("start position = (%d, %d), want (-1, 0)", p.GetScanline(), p.GetCycle())
	}
	if p.GetFrameCount() != 0 || p.IsOddFrame() {
		t.Error("new PPU should be on even frame 0")
	}
}

func TestPPUReset(t *testing.T) {
	p, _ := newTestPPU()
	p.WriteRegister(0x2000, 0xFF)
	p.WriteRegister(0x2001, 0xFF)
	p.WriteRegister(0x2003, 0x80)
	p.WriteRegister(0x2005, 0x17)
	for i := 0; i < 1000; i++ {
		p.Clock()
	}

	p.Reset()

	if p.Control() != 0 || p.Mask() != 0 || p.Status() != 0 || p.OAMAddress() != 0 {
		t.Errorf("registers not cleared: ctrl %02X mask %02X status %02X oam %02X",
			p.Control(), p.Mask(), p.Status(), p.OAMAddress())
	}
	if p.VRAMAddress() != 0 || p.TempAddress() != 0 || p.FineX() != 0 {
		t.Error("loopy registers not cleared")
	}
	if p.GetScanline() != -1 || p.GetCycle() != 0 {
		t.Errorf("position = (%d, %d), want (-1, 0)", p.GetScanline(), p.GetCycle())
	}

	// The latch was reset too: the next $2005 write is an X write
	p.WriteRegister(0x2005, 0x0D)
	if p.FineX() != 5 || p.TempAddress().CoarseX() != 1 {
		t.Errorf("scroll after reset: fine x %d, coarse x %d", p.FineX(), p.TempAddress().CoarseX())
	}
}

func TestPPUStatusRead(t *testing.T) {
	p, _ := newTestPPU()

	// Leave 0x15 in the read buffer
	setAddress(p, 0x2000)
	p.WriteRegister(0x2007, 0x15)
	setAddress(p, 0x2000)
	p.ReadRegister(0x2007)

	p.status.SetVerticalBlank(true)
	p.status.SetSpriteZeroHit(true)
	p.WriteRegister(0x2006, 0x21) // leaves the latch set

	got := p.ReadRegister(0x2002)
	if got != 0xC0|0x15 {
		t.Errorf("status read = %02X, want %02X", got, 0xC0|0x15)
	}
	if p.IsVBlank() {
		t.Error("reading status should clear vertical blank")
	}
	if !p.Status().SpriteZeroHit() {
		t.Error("reading status should leave sprite zero hit")
	}

	// Latch reset: the next $2006 write is the high byte again
	setAddress(p, 0x2345)
	if p.VRAMAddress().Get() != 0x2345 {
		t.Errorf("v = %04X, want 2345", p.VRAMAddress().Get())
	}
}

func TestPPUControlWriteSetsNametable(t *testing.T) {
	p, _ := newTestPPU()
	p.WriteRegister(0x2000, 0x03)
	if p.TempAddress().NametableX() != 1 || p.TempAddress().NametableY() != 1 {
		t.Errorf("t = %04X, want nametable bits set", p.TempAddress().Get())
	}
	p.WriteRegister(0x2000, 0x00)
	if p.TempAddress().Get() != 0 {
		t.Errorf("t = %04X, want 0000", p.TempAddress().Get())
	}
}

func TestPPUScrollWrite(t *testing.T) {
	p, _ := newTestPPU()

	p.WriteRegister(0x2005, 0x7D) // coarse X 15, fine X 5
	p.WriteRegister(0x2005, 0x5E) // coarse Y 11, fine Y 6

	tram := p.TempAddress()
	if tram.CoarseX() != 15 || p.FineX() != 5 {
		t.Errorf("x scroll: coarse %d fine %d, want 15 5", tram.CoarseX(), p.FineX())
	}
	if tram.CoarseY() != 11 || tram.FineY() != 6 {
		t.Errorf("y scroll: coarse %d fine %d, want 11 6", tram.CoarseY(), tram.FineY())
	}
	if p.VRAMAddress().Get() != 0 {
		t.Error("scroll writes should not touch v")
	}
}

func TestPPUAddressWrite(t *testing.T) {
	p, _ := newTestPPU()

	p.WriteRegister(0x2006, 0xFF) // top two bits dropped
	if p.VRAMAddress().Get() != 0 {
		t.Error("first $2006 write should not update v")
	}
	p.WriteRegister(0x2006, 0x42)

	if p.TempAddress().Get() != 0x3F42 || p.VRAMAddress().Get() != 0x3F42 {
		t.Errorf("t %04X v %04X, want 3F42", p.TempAddress().Get(), p.VRAMAddress().Get())
	}
}

func TestPPUDataBufferedRead(t *testing.T) {
	p, _ := newTestPPU()

	setAddress(p, 0x2000)
	p.WriteRegister(0x2007, 0xAB)
	p.WriteRegister(0x2007, 0xCD)

	setAddress(p, 0x2000)
	if got := p.ReadRegister(0x2007); got != 0x00 {
		t.Errorf("first read = %02X, want stale 00", got)
	}
	if got := p.ReadRegister(0x2007); got != 0xAB {
		t.Errorf("second read = %02X, want AB", got)
	}
	if got := p.ReadRegister(0x2007); got != 0xCD {
		t.Errorf("third read = %02X, want CD", got)
	}
}

func TestPPUDataPaletteRead(t *testing.T) {
	p, _ := newTestPPU()

	setAddress(p, 0x3F01)
	p.WriteRegister(0x2007, 0x2A)

	setAddress(p, 0x3F01)
	if got := p.ReadRegister(0x2007); got != 0x2A {
		t.Errorf("palette read = %02X, want 2A without delay", got)
	}

	p.WriteRegister(0x2001, 0x01)
	setAddress(p, 0x3F01)
	if got := p.ReadRegister(0x2007); got != 0x20 {
		t.Errorf("greyscale palette read = %02X, want 20", got)
	}
}

func TestPPUDataIncrement(t *testing.T) {
	tests := []struct {
		name    string
		control uint8
		want    uint16
	}{
		{"across", 0x00, 0x2002},
		{"down", 0x04, 0x2040},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p, _ := newTestPPU()
			p.WriteRegister(0x2000, test.control)
			setAddress(p, 0x2000)
			p.WriteRegister(0x2007, 0x01)
			p.ReadRegister(0x2007)
			if p.VRAMAddress().Get() != test.want {
				t.Errorf("v = %04X, want %04X", p.VRAMAddress().Get(), test.want)
			}
		})
	}
}

func TestPPURegisterMirroring(t *testing.T) {
	p, _ := newTestPPU()
	p.WriteRegister(0x3FF9, 0x18) // $2001
	if p.Mask().Get() != 0x18 {
		t.Errorf("mask = %02X, want 18", p.Mask().Get())
	}
	if got := p.ReadRegister(0x2000); got != 0 {
		t.Errorf("write-only register read = %02X, want 00", got)
	}
}

func TestPPUOAMAccess(t *testing.T) {
	p, _ := newTestPPU()

	p.WriteRegister(0x2003, 0x10)
	for _, v := range []uint8{0x30, 0x42, 0x23, 0x80} {
		p.WriteRegister(0x2004, v)
	}

	if p.OAMAddress() != 0x14 {
		t.Errorf("OAMADDR = %02X, want 14 after four writes", p.OAMAddress())
	}
	want := ObjectAttribute{Y: 0x30, ID: 0x42, Attribute: 0x23, X: 0x80}
	if got := p.OAM()[4]; got != want {
		t.Errorf("OAM[4] = %+v, want %+v", got, want)
	}

	p.WriteRegister(0x2003, 0x12)
	if got := p.ReadRegister(0x2004); got != 0x23 {
		t.Errorf("OAMDATA read = %02X, want 23", got)
	}
	if p.OAMAddress() != 0x12 {
		t.Error("OAMDATA read should not increment OAMADDR")
	}
}

func TestPPUFrameTiming(t *testing.T) {
	tests := []struct {
		name   string
		mask   uint8
		cycles []int
	}{
		{"rendering off", 0x00, []int{89342, 89342, 89342}},
		{"rendering on", 0x08, []int{89342, 89341, 89342}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p, _ := newTestPPU()
			p.WriteRegister(0x2001, test.mask)

			for frame, want := range test.cycles {
				n := 0
				for !p.FrameComplete() {
					p.Clock()
					n++
				}
				p.ClearFrameComplete()
				if n != want {
					t.Errorf("frame %d took %d cycles, want %d", frame, n, want)
				}
			}
			if p.GetFrameCount() != uint64(len(test.cycles)) {
				t.Errorf("frame count = %d", p.GetFrameCount())
			}
		})
	}
}

func TestPPUVerticalBlankAndNMI(t *testing.T) {
	p := New()
	p.WriteRegister(0x2000, 0x80)

	// Scanline 241 cycle 1 is the 82524th dot of the frame
	for i := 0; i < 82523; i++ {
		p.Clock()
	}
	if p.IsVBlank() || p.NMIPending() {
		t.Fatal("vertical blank raised early")
	}

	p.Clock()
	if !p.IsVBlank() {
		t.Fatal("vertical blank not set at (241, 1)")
	}
	if !p.PollNMI() {
		t.Fatal("NMI not requested")
	}
	if p.PollNMI() {
		t.Error("PollNMI should clear the request")
	}

	// Cleared again at (-1, 1)
	for p.GetScanline() != -1 || p.GetCycle() != 2 {
		p.Clock()
	}
	if p.IsVBlank() {
		t.Error("vertical blank still set on pre-render line")
	}
}

func TestPPUNoNMIWhenDisabled(t *testing.T) {
	p := New()
	for i := 0; i < 89342; i++ {
		p.Clock()
	}
	if p.PollNMI() {
		t.Error("NMI raised with PPUCTRL bit 7 clear")
	}
}

func TestPPUFrameObserver(t *testing.T) {
	var frames []*Frame
	p := New(WithFrameObserver(func(f *Frame) {
		frames = append(frames, f)
	}))

	for i := 0; i < 2*89342; i++ {
		p.Clock()
	}

	if len(frames) != 2 {
		t.Fatalf("observer called %d times, want 2", len(frames))
	}
	if frames[0] != p.Screen() {
		t.Error("observer should receive the PPU's frame buffer")
	}
}

func TestPPUPaletteColour(t *testing.T) {
	p, _ := newTestPPU()

	setAddress(p, 0x3F00)
	p.WriteRegister(0x2007, 0x0F) // backdrop
	setAddress(p, 0x3F15)
	p.WriteRegister(0x2007, 0x16)

	if got := p.PaletteColour(5, 1); got != NESColorToRGB(0x16) {
		t.Errorf("PaletteColour(5, 1) = %06X, want %06X", got, NESColorToRGB(0x16))
	}
	// $3F10 aliases the backdrop
	if got := p.PaletteColour(4, 0); got != NESColorToRGB(0x0F) {
		t.Errorf("PaletteColour(4, 0) = %06X, want backdrop", got)
	}
}

func TestPPUBackdropFill(t *testing.T) {
	p, _ := newTestPPU()
	setAddress(p, 0x3F00)
	p.WriteRegister(0x2007, 0x21)

	for !p.FrameComplete() {
		p.Clock()
	}

	want := NESColorToRGB(0x21)
	screen := p.Screen()
	for _, i := range []int{0, Width - 1, Width * (Height - 1), len(screen) - 1} {
		if screen[i] != want {
			t.Errorf("pixel %d = %06X, want %06X", i, screen[i], want)
		}
	}
}

func TestComposePixelSpriteZeroHit(t *testing.T) {
	tests := []struct {
		name  string
		mask  uint8
		cycle int
		hit   bool
	}{
		{"visible", 0x1E, 100, true},
		{"left edge shown", 0x1E, 5, true},
		{"left edge clipped", 0x18, 5, false},
		{"left edge clipped past column 8", 0x18, 9, true},
		{"past window", 0x1E, 258, false},
		{"sprites off", 0x0E, 100, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p, _ := newTestPPU()
			p.mask.Set(test.mask)
			p.scanline = 10
			p.cycle = test.cycle

			p.background.shifterPatternLo = 0x8000
			p.sprites.count = 1
			p.sprites.scanline[0] = ObjectAttribute{}
			p.sprites.shifterPatternLo[0] = 0x80
			p.sprites.zeroHitPossible = true

			p.composePixel()

			if p.Status().SpriteZeroHit() != test.hit {
				t.Errorf("sprite zero hit = %v, want %v", p.Status().SpriteZeroHit(), test.hit)
			}
		})
	}
}

func TestComposePixelPriority(t *testing.T) {
	tests := []struct {
		name      string
		attribute uint8
		bgPixel   bool
		want      uint8 // palette entry index
	}{
		{"sprite in front", 0x00, true, 0x11},
		{"sprite behind", 0x20, true, 0x01},
		{"sprite behind transparent background", 0x20, false, 0x11},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p, _ := newTestPPU()
			for i := uint16(0); i < 32; i++ {
				setAddress(p, 0x3F00+i)
				p.WriteRegister(0x2007, uint8(i))
			}
			p.mask.Set(0x1E)
			p.scanline = 0
			p.cycle = 1

			if test.bgPixel {
				p.background.shifterPatternLo = 0x8000
			}
			p.sprites.count = 1
			p.sprites.scanline[0] = ObjectAttribute{Attribute: test.attribute}
			p.sprites.shifterPatternLo[0] = 0x80

			p.composePixel()

			if got := p.Screen()[0]; got != NESColorToRGB(test.want) {
				t.Errorf("pixel = %06X, want colour %02X (%06X)", got, test.want, NESColorToRGB(test.want))
			}
		})
	}
}
