// Package graphics provides an abstraction layer for different rendering backends
package graphics

import (
	"fmt"

	"nescore/internal/ppu"
)

// Backend represents a graphics rendering backend
type Backend interface {
	// Initialize initializes the graphics backend
	Initialize(config Config) error

	// CreateWindow creates a window for rendering
	CreateWindow(title string, width, height int) (Window, error)

	// Cleanup releases all resources
	Cleanup() error

	// IsHeadless returns true if the backend never opens a window
	IsHeadless() bool

	// GetName returns the backend name for identification
	GetName() string
}

// Window represents a rendering target
type Window interface {
	SetTitle(title string)
	GetSize() (width, height int)

	// ShouldClose returns true if window should close
	ShouldClose() bool

	// PollEvents returns the input events seen since the last call
	PollEvents() []InputEvent

	// RenderFrame presents a finished frame
	RenderFrame(frame *ppu.Frame) error

	// Cleanup releases window resources
	Cleanup() error
}

// Runner is implemented by windows that own the main loop. Update is called
// once per host frame until it returns an error or the window closes.
type Runner interface {
	Run(update func() error) error
}

// Config contains configuration for graphics backends
type Config struct {
	WindowTitle  string
	WindowWidth  int
	WindowHeight int
	Fullscreen   bool
	VSync        bool

	// "nearest" or "linear"
	Filter string

	// Headless output
	OutputDir  string
	DumpFrames []int

	Debug bool
}

// InputEvent represents an input event from the window
type InputEvent struct {
	Type    InputEventType
	Key     Key
	Pressed bool
}

// InputEventType represents the type of input event
type InputEventType int

const (
	InputEventTypeKey InputEventType = iota
	InputEventTypeQuit
)

// Key represents the host keys the front end reacts to
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyP   // dump pattern tables
	KeyR   // reset
	KeyF12 // screenshot
	KeySpace
)

func (k Key) String() string {
	switch k {
	case KeyEscape:
		return "Escape"
	case KeyP:
		return "P"
	case KeyR:
		return "R"
	case KeyF12:
		return "F12"
	case KeySpace:
		return "Space"
	}
	return "Unknown"
}

// BackendType represents different graphics backend types
type BackendType string

const (
	BackendEbitengine BackendType = "ebitengine"
	BackendHeadless   BackendType = "headless"
	BackendTerminal   BackendType = "terminal"
)

// CreateBackend creates a graphics backend of the specified type
func CreateBackend(backendType BackendType) (Backend, error) {
	switch backendType {
	case BackendEbitengine:
		return NewEbitengineBackend(), nil
	case BackendHeadless:
		return NewHeadlessBackend(), nil
	case BackendTerminal:
		return NewTerminalBackend(), nil
	default:
		return nil, fmt.Errorf("unknown graphics backend %q", backendType)
	}
}
