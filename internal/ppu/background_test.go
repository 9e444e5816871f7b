package ppu

import "testing"

func loopyAt(ntX, ntY, coarseX, coarseY, fineY uint16) Loopy {
	var l Loopy
	l.SetNametableX(ntX)
	l.SetNametableY(ntY)
	l.SetCoarseX(coarseX)
	l.SetCoarseY(coarseY)
	l.SetFineY(fineY)
	return l
}

func TestIncrementScrollY(t *testing.T) {
	tests := []struct {
		name string
		mask uint8
		from Loopy
		want Loopy
	}{
		{"fine y", 0x08, loopyAt(0, 0, 3, 4, 2), loopyAt(0, 0, 3, 4, 3)},
		{"fine y carry", 0x08, loopyAt(0, 0, 3, 4, 7), loopyAt(0, 0, 3, 5, 0)},
		{"last tile row", 0x08, loopyAt(1, 0, 3, 29, 7), loopyAt(1, 1, 3, 0, 0)},
		{"last tile row back", 0x10, loopyAt(0, 1, 3, 29, 7), loopyAt(0, 0, 3, 0, 0)},
		{"attribute row 30", 0x08, loopyAt(0, 0, 3, 30, 7), loopyAt(0, 0, 3, 31, 0)},
		{"attribute row 31", 0x08, loopyAt(0, 1, 3, 31, 7), loopyAt(0, 1, 3, 0, 0)},
		{"rendering off", 0x00, loopyAt(0, 0, 3, 29, 7), loopyAt(0, 0, 3, 29, 7)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p, _ := newTestPPU()
			p.mask.Set(test.mask)
			p.vramAddr = test.from

			p.incrementScrollY()

			if p.vramAddr != test.want {
				t.Errorf("v = %04X, want %04X", p.vramAddr.Get(), test.want.Get())
			}
		})
	}
}

func TestIncrementScrollX(t *testing.T) {
	tests := []struct {
		name string
		mask uint8
		from Loopy
		want Loopy
	}{
		{"next column", 0x08, loopyAt(0, 1, 4, 9, 5), loopyAt(0, 1, 5, 9, 5)},
		{"last column", 0x08, loopyAt(0, 1, 31, 9, 5), loopyAt(1, 1, 0, 9, 5)},
		{"last column back", 0x08, loopyAt(1, 0, 31, 9, 5), loopyAt(0, 0, 0, 9, 5)},
		{"rendering off", 0x00, loopyAt(0, 0, 31, 9, 5), loopyAt(0, 0, 31, 9, 5)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p, _ := newTestPPU()
			p.mask.Set(test.mask)
			p.vramAddr = test.from

			p.incrementScrollX()

			if p.vramAddr != test.want {
				t.Errorf("v = %04X, want %04X", p.vramAddr.Get(), test.want.Get())
			}
		})
	}
}

func TestTransferAddress(t *testing.T) {
	v := loopyAt(0, 0, 7, 11, 2)
	tram := loopyAt(1, 1, 20, 25, 6)

	p, _ := newTestPPU()
	p.mask.Set(0x08)
	p.vramAddr, p.tramAddr = v, tram

	p.transferAddressX()
	if want := loopyAt(1, 0, 20, 11, 2); p.vramAddr != want {
		t.Errorf("after X transfer v = %04X, want %04X", p.vramAddr.Get(), want.Get())
	}

	p.transferAddressY()
	if p.vramAddr != tram {
		t.Errorf("after Y transfer v = %04X, want %04X", p.vramAddr.Get(), tram.Get())
	}

	p.mask.Set(0x00)
	p.vramAddr = v
	p.transferAddressX()
	p.transferAddressY()
	if p.vramAddr != v {
		t.Errorf("transfer with rendering off changed v to %04X", p.vramAddr.Get())
	}
}

func TestFetchTileAttribute(t *testing.T) {
	p, _ := newTestPPU()
	for address, value := range map[uint16]uint8{
		0x23C0: 0xE4, // 11 10 01 00
		0x23C9: 0x1B, // 00 01 10 11
		0x27C0: 0x39, // 00 11 10 01
	} {
		setAddress(p, address)
		p.WriteRegister(0x2007, value)
	}

	tests := []struct {
		name             string
		ntX              uint16
		coarseX, coarseY uint16
		want             uint8
	}{
		{"top left", 0, 0, 0, 0},
		{"top right", 0, 2, 0, 1},
		{"bottom left", 0, 0, 2, 2},
		{"bottom right", 0, 3, 3, 3},
		{"second block", 0, 5, 4, 3},
		{"second block top right", 0, 6, 4, 2},
		{"second block bottom right", 0, 6, 6, 0},
		{"right nametable", 1, 1, 1, 1},
		{"right nametable top right", 1, 2, 1, 2},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p.vramAddr = loopyAt(test.ntX, 0, test.coarseX, test.coarseY, 0)
			p.fetchTileAttribute()
			if got := p.background.nextTileAttrib; got != test.want {
				t.Errorf("attribute = %d, want %d", got, test.want)
			}
		})
	}
}

// TestBackgroundFineScroll draws column 0 of the right nametable with a
// horizontal scroll of 250, i.e. coarse X 31 and fine X 2. The left
// nametable is blank, so the solid tile lands on screen columns 6..13.
func TestBackgroundFineScroll(t *testing.T) {
	tests := []struct {
		name  string
		mask  uint8
		solid [2]int // first and last column drawn with the tile
	}{
		{"left column shown", 0x0A, [2]int{6, 13}},
		{"left column clipped", 0x08, [2]int{8, 13}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p, cart := newTestPPU()

			// Tile 1 uses colour 3 everywhere
			for i := 0x10; i < 0x20; i++ {
				cart.chr[i] = 0xFF
			}
			for row := uint16(0); row < 30; row++ {
				setAddress(p, 0x2400+row*32)
				p.WriteRegister(0x2007, 0x01)
			}
			setAddress(p, 0x3F00)
			p.WriteRegister(0x2007, 0x0F)
			setAddress(p, 0x3F03)
			p.WriteRegister(0x2007, 0x16)

			p.WriteRegister(0x2000, 0x00)
			p.WriteRegister(0x2005, 250)
			p.WriteRegister(0x2005, 0)
			p.WriteRegister(0x2001, test.mask)

			for !p.FrameComplete() {
				p.Clock()
			}

			backdrop, solid := NESColorToRGB(0x0F), NESColorToRGB(0x16)
			screen := p.Screen()
			for _, y := range []int{0, 100, Height - 1} {
				for x := 0; x < 24; x++ {
					want := backdrop
					if x >= test.solid[0] && x <= test.solid[1] {
						want = solid
					}
					if got := screen[y*Width+x]; got != want {
						t.Errorf("pixel (%d, %d) = %06X, want %06X", x, y, got, want)
					}
				}
			}
		})
	}
}
