package graphics

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"os"

	"golang.org/x/term"

	"nescore/internal/ppu"
)

// Fallback size, in character cells, when the output is not a terminal.
const (
	defaultTerminalColumns = 128
	defaultTerminalRows    = 60
)

// TerminalBackend implements the Backend interface by drawing frames as
// 24 bit colour half-block characters.
type TerminalBackend struct {
	initialized bool
	config      Config
	out         io.Writer
	fd          int
}

// TerminalWindow implements the Window interface for terminal rendering
type TerminalWindow struct {
	title   string
	columns int
	rows    int
	running bool
	out     io.Writer
	filter  string
}

// NewTerminalBackend creates a terminal backend writing to standard output
func NewTerminalBackend() Backend {
	return &TerminalBackend{out: os.Stdout, fd: int(os.Stdout.Fd())}
}

// NewTerminalBackendWriter creates a terminal backend writing to w. Its size
// is taken from the window dimensions rather than the terminal.
func NewTerminalBackendWriter(w io.Writer) *TerminalBackend {
	return &TerminalBackend{out: w, fd: -1}
}

// Initialize initializes the terminal backend
func (b *TerminalBackend) Initialize(config Config) error {
	if b.initialized {
		return fmt.Errorf("terminal backend already initialized")
	}

	b.config = config
	b.initialized = true

	return nil
}

// CreateWindow creates a terminal "window". width and height are in
// character cells; zero means fit the terminal.
func (b *TerminalBackend) CreateWindow(title string, width, height int) (Window, error) {
	if !b.initialized {
		return nil, fmt.Errorf("backend not initialized")
	}

	if width <= 0 || height <= 0 {
		width, height = b.terminalSize()
	}

	// Each cell shows two pixel rows; keep the picture's aspect ratio
	if rows := width * ppu.Height / ppu.Width / 2; rows < height {
		height = rows
	}

	return &TerminalWindow{
		title:   title,
		columns: width,
		rows:    height,
		running: true,
		out:     b.out,
		filter:  b.config.Filter,
	}, nil
}

func (b *TerminalBackend) terminalSize() (int, int) {
	if b.fd >= 0 && term.IsTerminal(b.fd) {
		if w, h, err := term.GetSize(b.fd); err == nil && w > 0 && h > 1 {
			return w, h - 1 // leave a line for the cursor
		}
	}
	return defaultTerminalColumns, defaultTerminalRows
}

// Cleanup releases all terminal resources
func (b *TerminalBackend) Cleanup() error {
	b.initialized = false
	return nil
}

// IsHeadless returns false (terminal has basic output)
func (b *TerminalBackend) IsHeadless() bool {
	return false
}

// GetName returns the backend name
func (b *TerminalBackend) GetName() string {
	return "Terminal"
}

// SetTitle sets the terminal title
func (w *TerminalWindow) SetTitle(title string) {
	w.title = title
	fmt.Fprintf(w.out, "\033]0;%s\007", title)
}

// GetSize returns the size in character cells
func (w *TerminalWindow) GetSize() (width, height int) {
	return w.columns, w.rows
}

// ShouldClose returns true once Cleanup has been called
func (w *TerminalWindow) ShouldClose() bool {
	return !w.running
}

// PollEvents returns nothing; the terminal is output only
func (w *TerminalWindow) PollEvents() []InputEvent {
	return nil
}

// RenderFrame redraws the frame from the top left corner of the terminal
func (w *TerminalWindow) RenderFrame(frame *ppu.Frame) error {
	img := Resize(frame.Image(), w.columns, w.rows*2, w.filter)

	bw := bufio.NewWriter(w.out)
	bw.WriteString("\033[H")
	writeHalfBlocks(bw, img)
	return bw.Flush()
}

// writeHalfBlocks draws img two pixel rows per line: the upper half block
// takes the top pixel as foreground and the bottom pixel as background.
func writeHalfBlocks(w *bufio.Writer, img *image.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y+1 < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x++ {
			top := img.RGBAAt(x, y)
			bottom := img.RGBAAt(x, y+1)
			fmt.Fprintf(w, "\033[38;2;%d;%d;%dm\033[48;2;%d;%d;%dm▀",
				top.R, top.G, top.B, bottom.R, bottom.G, bottom.B)
		}
		w.WriteString("\033[0m\n")
	}
}

// Cleanup restores the terminal colours
func (w *TerminalWindow) Cleanup() error {
	w.running = false
	_, err := fmt.Fprint(w.out, "\033[0m")
	return err
}
