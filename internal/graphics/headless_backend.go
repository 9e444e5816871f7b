package graphics

import (
	"fmt"
	"path/filepath"

	"nescore/internal/logger"
	"nescore/internal/ppu"
)

// HeadlessBackend implements the Backend interface for running without a
// display. Selected frames are written out as PNG files.
type HeadlessBackend struct {
	initialized bool
	config      Config
}

// HeadlessWindow implements the Window interface for headless operation
type HeadlessWindow struct {
	title      string
	width      int
	height     int
	running    bool
	frameCount int
	outputDir  string
	filter     string
	dumpFrames map[int]bool

	// Paths written so far, oldest first
	saved []string
}

// NewHeadlessBackend creates a new headless graphics backend
func NewHeadlessBackend() Backend {
	return &HeadlessBackend{}
}

// Initialize initializes the headless backend
func (b *HeadlessBackend) Initialize(config Config) error {
	if b.initialized {
		return fmt.Errorf("headless backend already initialized")
	}

	b.config = config
	b.initialized = true

	return nil
}

// CreateWindow creates a headless "window". width and height set the size
// of saved frames.
func (b *HeadlessBackend) CreateWindow(title string, width, height int) (Window, error) {
	if !b.initialized {
		return nil, fmt.Errorf("backend not initialized")
	}

	outputDir := b.config.OutputDir
	if outputDir == "" {
		outputDir = "."
	}

	dump := make(map[int]bool, len(b.config.DumpFrames))
	for _, n := range b.config.DumpFrames {
		dump[n] = true
	}

	return &HeadlessWindow{
		title:      title,
		width:      width,
		height:     height,
		running:    true,
		outputDir:  outputDir,
		filter:     b.config.Filter,
		dumpFrames: dump,
	}, nil
}

// Cleanup releases all headless resources
func (b *HeadlessBackend) Cleanup() error {
	b.initialized = false
	return nil
}

// IsHeadless returns true (this is a headless backend)
func (b *HeadlessBackend) IsHeadless() bool {
	return true
}

// GetName returns the backend name
func (b *HeadlessBackend) GetName() string {
	return "Headless"
}

// SetTitle sets the window title
func (w *HeadlessWindow) SetTitle(title string) {
	w.title = title
}

// GetSize returns the size of saved frames
func (w *HeadlessWindow) GetSize() (width, height int) {
	return w.width, w.height
}

// ShouldClose returns true once Cleanup has been called
func (w *HeadlessWindow) ShouldClose() bool {
	return !w.running
}

// PollEvents returns nothing; there is no input in headless mode
func (w *HeadlessWindow) PollEvents() []InputEvent {
	return nil
}

// RenderFrame counts frames and saves the ones selected for dumping. Frame
// numbers start at 1.
func (w *HeadlessWindow) RenderFrame(frame *ppu.Frame) error {
	w.frameCount++

	if !w.dumpFrames[w.frameCount] {
		return nil
	}
	return w.SaveFrame(frame, fmt.Sprintf("frame_%04d.png", w.frameCount))
}

// SaveFrame writes frame to name inside the output directory, scaled to the
// window size.
func (w *HeadlessWindow) SaveFrame(frame *ppu.Frame, name string) error {
	img := frame.Image()
	if w.width > 0 && w.height > 0 && (w.width != ppu.Width || w.height != ppu.Height) {
		img = Resize(img, w.width, w.height, w.filter)
	}

	path := filepath.Join(w.outputDir, name)
	if err := SavePNG(path, img); err != nil {
		return err
	}
	w.saved = append(w.saved, path)
	logger.Logf(logger.Allow, "headless", "saved %s", path)
	return nil
}

// Cleanup releases window resources
func (w *HeadlessWindow) Cleanup() error {
	w.running = false
	return nil
}

// SetOutputDir sets the directory frames are written to
func (w *HeadlessWindow) SetOutputDir(dir string) {
	w.outputDir = dir
}

// OutputDir returns the directory frames are written to
func (w *HeadlessWindow) OutputDir() string {
	return w.outputDir
}

// GetFrameCount returns the number of frames rendered
func (w *HeadlessWindow) GetFrameCount() int {
	return w.frameCount
}

// Saved returns the paths of the files written so far
func (w *HeadlessWindow) Saved() []string {
	return w.saved
}
