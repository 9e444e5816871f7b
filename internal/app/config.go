// Package app wires the emulated console to a graphics backend and drives it
// from a JSON configuration.
package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"nescore/internal/ppu"
	"nescore/internal/statsview"
)

// Config holds all application configuration
type Config struct {
	Window    WindowConfig    `json:"window"`
	Video     VideoConfig     `json:"video"`
	Emulation EmulationConfig `json:"emulation"`
	Debug     DebugConfig     `json:"debug"`
	Paths     PathsConfig     `json:"paths"`

	// Internal state
	configPath string
	loaded     bool
}

// WindowConfig contains window-related configuration
type WindowConfig struct {
	Title      string `json:"title"`
	Scale      int    `json:"scale"` // multiple of 256x240
	Fullscreen bool   `json:"fullscreen"`
}

// VideoConfig contains video rendering configuration
type VideoConfig struct {
	Backend    string  `json:"backend"` // "ebitengine", "headless", "terminal"
	Filter     string  `json:"filter"`  // "nearest", "linear"
	VSync      bool    `json:"vsync"`
	Brightness float64 `json:"brightness"`
	Contrast   float64 `json:"contrast"`
	Saturation float64 `json:"saturation"`
}

// EmulationConfig contains emulation-specific settings
type EmulationConfig struct {
	FrameRate float64 `json:"frame_rate"`

	// Frames to run before stopping. Zero runs until the window closes.
	Frames int `json:"frames"`
}

// DebugConfig contains debugging and development options
type DebugConfig struct {
	CPUTrace   bool   `json:"cpu_trace"`
	LogEcho    bool   `json:"log_echo"`
	Statsview  bool   `json:"statsview"`
	DumpDir    string `json:"dump_dir"`
	DumpFrames []int  `json:"dump_frames"`

	// host:port for the stats server
	StatsviewAddr string `json:"statsview_addr"`
}

// PathsConfig contains file and directory paths
type PathsConfig struct {
	ROMs        string `json:"roms"`
	Screenshots string `json:"screenshots"`
}

var (
	errNotPositive = errors.New("must be positive")
	errUnknown     = errors.New("unknown value")
)

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Title: "nescore",
			Scale: 2, // 512x480
		},
		Video: VideoConfig{
			Backend:    "ebitengine",
			Filter:     "nearest",
			VSync:      true,
			Brightness: 1.0,
			Contrast:   1.0,
			Saturation: 1.0,
		},
		Emulation: EmulationConfig{
			FrameRate: 60.0988,
		},
		Debug: DebugConfig{
			DumpDir:       "./frames",
			StatsviewAddr: statsview.DefaultAddress,
		},
		Paths: PathsConfig{
			ROMs:        "./roms",
			Screenshots: "./screenshots",
		},
	}
}

// LoadFromFile loads configuration from a JSON file. A missing file is
// created with the current values.
func (c *Config) LoadFromFile(path string) error {
	c.configPath = path

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c.SaveToFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := c.validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	c.loaded = true
	return nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	c.configPath = path
	return nil
}

// Save saves the configuration to the file it was loaded from
func (c *Config) Save() error {
	if c.configPath == "" {
		return fmt.Errorf("no config file path set")
	}
	return c.SaveToFile(c.configPath)
}

// validate clamps out of range values and rejects ones that cannot be
// repaired.
func (c *Config) validate() error {
	switch c.Video.Backend {
	case "ebitengine", "headless", "terminal":
	default:
		return &ConfigError{Field: "video.backend", Value: c.Video.Backend, Err: errUnknown}
	}

	if c.Emulation.Frames < 0 {
		return &ConfigError{Field: "emulation.frames", Value: c.Emulation.Frames, Err: errNotPositive}
	}

	if c.Debug.StatsviewAddr == "" {
		c.Debug.StatsviewAddr = statsview.DefaultAddress
	}
	if _, _, err := net.SplitHostPort(c.Debug.StatsviewAddr); err != nil {
		return &ConfigError{Field: "debug.statsview_addr", Value: c.Debug.StatsviewAddr, Err: err}
	}

	if c.Window.Scale <= 0 {
		c.Window.Scale = 1
	}
	if c.Window.Scale > 8 {
		c.Window.Scale = 8
	}

	if c.Video.Filter != "nearest" && c.Video.Filter != "linear" {
		c.Video.Filter = "nearest"
	}

	if c.Video.Brightness < 0.1 || c.Video.Brightness > 3.0 {
		c.Video.Brightness = 1.0
	}
	if c.Video.Contrast < 0.1 || c.Video.Contrast > 3.0 {
		c.Video.Contrast = 1.0
	}
	if c.Video.Saturation < 0.0 || c.Video.Saturation > 3.0 {
		c.Video.Saturation = 1.0
	}

	if c.Emulation.FrameRate <= 0 {
		c.Emulation.FrameRate = 60.0988
	}

	return nil
}

// Validate checks and clamps the configuration. It is called by
// LoadFromFile and should be called again after flags override values.
func (c *Config) Validate() error {
	return c.validate()
}

// GetWindowResolution returns the window resolution based on scale
func (c *Config) GetWindowResolution() (int, int) {
	return ppu.Width * c.Window.Scale, ppu.Height * c.Window.Scale
}

// IsLoaded returns whether the configuration was loaded from file
func (c *Config) IsLoaded() bool {
	return c.loaded
}

// GetConfigPath returns the path to the config file
func (c *Config) GetConfigPath() string {
	return c.configPath
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	clone := *c
	clone.Debug.DumpFrames = append([]int(nil), c.Debug.DumpFrames...)
	return &clone
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() string {
	return "./config/nescore.json"
}

// ConfigError represents configuration-related errors
type ConfigError struct {
	Field string
	Value interface{}
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in field '%s' with value '%v': %v", e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }
