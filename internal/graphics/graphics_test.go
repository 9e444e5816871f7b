package graphics

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nescore/internal/ppu"
)

func testFrame() *ppu.Frame {
	var f ppu.Frame
	for y := 0; y < ppu.Height; y++ {
		for x := 0; x < ppu.Width; x++ {
			if x < ppu.Width/2 {
				f[y*ppu.Width+x] = 0xFF0000
			} else {
				f[y*ppu.Width+x] = 0x0000FF
			}
		}
	}
	return &f
}

func TestCreateBackend(t *testing.T) {
	tests := []struct {
		backend  BackendType
		name     string
		headless bool
	}{
		{BackendHeadless, "Headless", true},
		{BackendTerminal, "Terminal", false},
	}

	for _, test := range tests {
		t.Run(string(test.backend), func(t *testing.T) {
			b, err := CreateBackend(test.backend)
			if err != nil {
				t.Fatalf("CreateBackend() error = %v", err)
			}
			if b.GetName() != test.name || b.IsHeadless() != test.headless {
				t.Errorf("got %s headless=%v", b.GetName(), b.IsHeadless())
			}
		})
	}

	if _, err := CreateBackend("sdl2"); err == nil {
		t.Error("CreateBackend(sdl2) should fail")
	}
}

func TestBackendLifecycle(t *testing.T) {
	b := NewHeadlessBackend()

	if _, err := b.CreateWindow("x", ppu.Width, ppu.Height); err == nil {
		t.Error("CreateWindow before Initialize should fail")
	}
	if err := b.Initialize(Config{}); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if err := b.Initialize(Config{}); err == nil {
		t.Error("second Initialize should fail")
	}
	if err := b.Cleanup(); err != nil {
		t.Errorf("Cleanup() error = %v", err)
	}
}

func TestHeadlessWindowDumpsFrames(t *testing.T) {
	dir := t.TempDir()
	b := NewHeadlessBackend()
	if err := b.Initialize(Config{OutputDir: dir, DumpFrames: []int{2}}); err != nil {
		t.Fatal(err)
	}
	w, err := b.CreateWindow("test", ppu.Width*2, ppu.Height*2)
	if err != nil {
		t.Fatal(err)
	}

	frame := testFrame()
	for i := 0; i < 3; i++ {
		if err := w.RenderFrame(frame); err != nil {
			t.Fatalf("RenderFrame() error = %v", err)
		}
	}

	hw := w.(*HeadlessWindow)
	if hw.GetFrameCount() != 3 {
		t.Errorf("frame count = %d, want 3", hw.GetFrameCount())
	}
	if len(hw.Saved()) != 1 || filepath.Base(hw.Saved()[0]) != "frame_0002.png" {
		t.Fatalf("saved = %v, want frame_0002.png only", hw.Saved())
	}

	f, err := os.Open(hw.Saved()[0])
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != ppu.Width*2 || b.Dy() != ppu.Height*2 {
		t.Errorf("saved size = %v, want 512x480", b)
	}
	if r, _, _, _ := img.At(0, 0).RGBA(); r>>8 != 0xFF {
		t.Errorf("left pixel red = %02X, want FF", r>>8)
	}

	w.Cleanup()
	if !w.ShouldClose() {
		t.Error("ShouldClose() false after Cleanup")
	}
}

func TestScale(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.SetRGBA(0, 0, color.RGBA{R: 0xFF, A: 0xFF})
	src.SetRGBA(1, 0, color.RGBA{B: 0xFF, A: 0xFF})

	dst := Scale(src, 3, "nearest")
	if b := dst.Bounds(); b.Dx() != 6 || b.Dy() != 3 {
		t.Fatalf("bounds = %v, want 6x3", b)
	}
	if got := dst.RGBAAt(2, 2); got != (color.RGBA{R: 0xFF, A: 0xFF}) {
		t.Errorf("pixel (2, 2) = %v, want red", got)
	}
	if got := dst.RGBAAt(3, 0); got != (color.RGBA{B: 0xFF, A: 0xFF}) {
		t.Errorf("pixel (3, 0) = %v, want blue", got)
	}

	if b := Scale(src, 0, "nearest").Bounds(); b.Dx() != 2 {
		t.Errorf("factor 0 should be treated as 1, got %v", b)
	}
}

func TestSavePNGCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "out.png")
	if err := SavePNG(path, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("SavePNG() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("file not written: %v", err)
	}
}

func TestTerminalWindowRender(t *testing.T) {
	var out bytes.Buffer
	b := NewTerminalBackendWriter(&out)
	if err := b.Initialize(Config{}); err != nil {
		t.Fatal(err)
	}
	w, err := b.CreateWindow("test", 16, 100)
	if err != nil {
		t.Fatal(err)
	}

	// Height is limited to keep the aspect ratio: 16 * 240 / 256 / 2
	if cols, rows := w.GetSize(); cols != 16 || rows != 7 {
		t.Fatalf("size = %dx%d, want 16x7", cols, rows)
	}

	if err := w.RenderFrame(testFrame()); err != nil {
		t.Fatalf("RenderFrame() error = %v", err)
	}

	s := out.String()
	if !strings.HasPrefix(s, "\033[H") {
		t.Error("frame should start with cursor home")
	}
	if n := strings.Count(s, "\n"); n != 7 {
		t.Errorf("drew %d lines, want 7", n)
	}
	if n := strings.Count(s, "▀"); n != 16*7 {
		t.Errorf("drew %d cells, want %d", n, 16*7)
	}
	if !strings.Contains(s, "\033[38;2;255;0;0m") || !strings.Contains(s, "\033[48;2;0;0;255m") {
		t.Error("expected red and blue cells")
	}
}

func TestVideoProcessor(t *testing.T) {
	frame := testFrame()

	vp := NewVideoProcessor(1, 1, 1)
	if vp.ProcessFrame(frame) != frame {
		t.Error("identity settings should return the input frame")
	}

	vp.SetBrightness(0.5)
	out := vp.ProcessFrame(frame)
	if out == frame {
		t.Fatal("ProcessFrame should not modify its input")
	}
	if got := out[0]; got != 0x800000 {
		t.Errorf("half brightness red = %06X, want 800000", got)
	}
	if frame[0] != 0xFF0000 {
		t.Error("input frame modified")
	}

	vp.SetBrightness(1)
	vp.SetSaturation(0)
	out = vp.ProcessFrame(frame)
	if r, g, b := out[0]>>16&0xFF, out[0]>>8&0xFF, out[0]&0xFF; r != g || g != b {
		t.Errorf("desaturated pixel = %06X, want grey", out[0])
	}
}
