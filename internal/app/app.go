package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"nescore/internal/bus"
	"nescore/internal/cartridge"
	"nescore/internal/cpu"
	"nescore/internal/graphics"
	"nescore/internal/logger"
	"nescore/internal/ppu"
)

// Application owns the console, the emulation loop and the graphics window
type Application struct {
	bus      *bus.Bus
	emulator *Emulator
	config   *Config

	backend        graphics.Backend
	window         graphics.Window
	videoProcessor *graphics.VideoProcessor

	running     bool
	paused      bool
	initialized bool

	romPath     string
	screenshots int

	// instructions formatted for the trace log
	traced uint64
}

// ApplicationError represents application-specific errors
type ApplicationError struct {
	Component string
	Operation string
	Err       error
}

func (e *ApplicationError) Error() string {
	return fmt.Sprintf("application %s error during %s: %v", e.Component, e.Operation, e.Err)
}

func (e *ApplicationError) Unwrap() error { return e.Err }

// NewApplication creates an application from config. The graphics backend
// named in the configuration is started; if Ebitengine is unavailable the
// headless backend is used instead.
func NewApplication(config *Config) (*Application, error) {
	if config == nil {
		config = NewConfig()
	}
	if err := config.validate(); err != nil {
		return nil, &ApplicationError{Component: "config", Operation: "validate", Err: err}
	}

	app := &Application{config: config}

	var opts []bus.Option
	if config.Debug.CPUTrace {
		opts = append(opts, bus.WithCPUObserver(app.traceInstruction))
	}
	app.bus = bus.New(opts...)
	app.emulator = NewEmulator(app.bus, config)

	if err := app.initializeGraphicsBackend(); err != nil {
		return nil, &ApplicationError{Component: "graphics", Operation: "initialize", Err: err}
	}

	app.initialized = true
	return app, nil
}

// traceInstruction writes one executed instruction to the central log,
// which keeps the most recent lines for post mortem output.
func (app *Application) traceInstruction(t cpu.Trace) {
	app.traced++
	logger.Log(logger.Allow, "cpu", t.String())
}

func (app *Application) initializeGraphicsBackend() error {
	backendType := graphics.BackendType(app.config.Video.Backend)

	var err error
	app.backend, err = graphics.CreateBackend(backendType)
	if err != nil {
		return err
	}

	width, height := app.config.GetWindowResolution()
	if backendType == graphics.BackendTerminal {
		width, height = 0, 0 // fit the terminal
	}

	graphicsConfig := graphics.Config{
		WindowTitle:  app.config.Window.Title,
		WindowWidth:  width,
		WindowHeight: height,
		Fullscreen:   app.config.Window.Fullscreen,
		VSync:        app.config.Video.VSync,
		Filter:       app.config.Video.Filter,
		OutputDir:    app.config.Debug.DumpDir,
		DumpFrames:   app.config.Debug.DumpFrames,
	}

	if err := app.backend.Initialize(graphicsConfig); err != nil {
		if backendType != graphics.BackendEbitengine {
			return err
		}
		logger.Logf(logger.Allow, "app", "Ebitengine unavailable (%v), falling back to headless", err)
		app.backend = graphics.NewHeadlessBackend()
		if err := app.backend.Initialize(graphicsConfig); err != nil {
			return fmt.Errorf("failed to initialize fallback headless backend: %w", err)
		}
	}

	app.window, err = app.backend.CreateWindow(graphicsConfig.WindowTitle, width, height)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}

	app.videoProcessor = graphics.NewVideoProcessor(
		app.config.Video.Brightness,
		app.config.Video.Contrast,
		app.config.Video.Saturation,
	)

	logger.Logf(logger.Allow, "app", "%s backend, %dx%d", app.backend.GetName(), width, height)
	return nil
}

// LoadROM loads an iNES file and resets the console
func (app *Application) LoadROM(romPath string) error {
	if !app.initialized {
		return errors.New("application not initialized")
	}

	cart, err := cartridge.LoadFromFile(romPath)
	if err != nil {
		return &ApplicationError{Component: "cartridge", Operation: "load ROM", Err: err}
	}

	app.bus.InsertCartridge(cart)
	app.bus.Reset()
	app.emulator.Reset()
	app.romPath = romPath

	app.window.SetTitle(fmt.Sprintf("%s - %s", app.config.Window.Title, filepath.Base(romPath)))
	app.emulator.Start()

	return nil
}

// LoadROMData loads an iNES image from memory and resets the console
func (app *Application) LoadROMData(name string, rom []byte) error {
	if err := app.bus.Load(rom); err != nil {
		return &ApplicationError{Component: "cartridge", Operation: "load ROM", Err: err}
	}
	app.emulator.Reset()
	app.romPath = name
	app.emulator.Start()
	return nil
}

// Run drives the emulator until the window closes, Stop is called or the
// configured number of frames has been run. Windows that own the main loop
// call back into the application once per host frame; for the others the
// loop is paced here, except for the headless backend which runs flat out.
func (app *Application) Run() error {
	if !app.initialized {
		return errors.New("application not initialized")
	}
	if app.bus.Cartridge() == nil {
		return &ApplicationError{Component: "emulator", Operation: "run", Err: errNoCartridge}
	}
	if app.backend.IsHeadless() && app.config.Emulation.Frames == 0 {
		return &ApplicationError{Component: "emulator", Operation: "run",
			Err: errors.New("headless backend needs a frame limit")}
	}

	app.running = true
	logger.Logf(logger.Allow, "app", "running %s", app.romPath)

	if runner, ok := app.window.(graphics.Runner); ok {
		return runner.Run(func() error {
			if err := app.tick(); err != nil {
				return err
			}
			if !app.running {
				return app.window.Cleanup()
			}
			return nil
		})
	}

	pace := !app.backend.IsHeadless()
	for app.running {
		start := time.Now()
		if err := app.tick(); err != nil {
			return err
		}
		if pace {
			if rest := app.emulator.GetTargetFrameTime() - time.Since(start); rest > 0 {
				time.Sleep(rest)
			}
		}
	}
	return nil
}

// tick handles input, runs one frame and presents it
func (app *Application) tick() error {
	if err := app.processInput(); err != nil {
		return err
	}
	if !app.running {
		return nil
	}

	if !app.paused {
		if err := app.emulator.Update(); err != nil {
			return &ApplicationError{Component: "emulator", Operation: "update", Err: err}
		}
	}

	if err := app.render(); err != nil {
		return &ApplicationError{Component: "graphics", Operation: "render", Err: err}
	}

	if n := app.config.Emulation.Frames; n > 0 && app.emulator.GetFrameCount() >= uint64(n) {
		app.Stop()
	}
	if app.window.ShouldClose() {
		app.Stop()
	}
	return nil
}

// processInput reacts to the front end keys
func (app *Application) processInput() error {
	for _, event := range app.window.PollEvents() {
		if event.Type == graphics.InputEventTypeQuit {
			app.Stop()
			continue
		}
		if !event.Pressed {
			continue
		}

		switch event.Key {
		case graphics.KeyEscape:
			app.Stop()
		case graphics.KeySpace:
			app.TogglePause()
		case graphics.KeyR:
			app.Reset()
		case graphics.KeyF12:
			if _, err := app.Screenshot(); err != nil {
				return &ApplicationError{Component: "graphics", Operation: "screenshot", Err: err}
			}
		case graphics.KeyP:
			if _, err := app.DumpPatternTables(); err != nil {
				return &ApplicationError{Component: "graphics", Operation: "pattern tables", Err: err}
			}
		}
	}
	return nil
}

func (app *Application) render() error {
	return app.window.RenderFrame(app.videoProcessor.ProcessFrame(app.bus.Screen()))
}

// Screenshot writes the current frame, scaled like the window, to the
// screenshots directory and returns its path.
func (app *Application) Screenshot() (string, error) {
	app.screenshots++
	path := filepath.Join(app.config.Paths.Screenshots,
		fmt.Sprintf("%s_%03d.png", app.romName(), app.screenshots))

	frame := app.videoProcessor.ProcessFrame(app.bus.Screen())
	img := graphics.Scale(frame.Image(), app.config.Window.Scale, app.config.Video.Filter)
	if err := graphics.SavePNG(path, img); err != nil {
		return "", err
	}

	logger.Logf(logger.Allow, "app", "screenshot %s", path)
	return path, nil
}

// patternSheetScale enlarges the 128x128 pattern sheets to something legible
const patternSheetScale = 4

// DumpPatternTables writes both pattern tables, drawn with background
// palette 0, to the screenshots directory.
func (app *Application) DumpPatternTables() ([]string, error) {
	var paths []string
	for i := 0; i < 2; i++ {
		path := filepath.Join(app.config.Paths.Screenshots,
			fmt.Sprintf("%s_pattern%d.png", app.romName(), i))
		img := graphics.Scale(app.bus.PPU.PatternTable(i, 0), patternSheetScale, "nearest")
		if err := graphics.SavePNG(path, img); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	logger.Logf(logger.Allow, "app", "pattern tables %s", strings.Join(paths, ", "))
	return paths, nil
}

func (app *Application) romName() string {
	if app.romPath == "" {
		return "nescore"
	}
	return strings.TrimSuffix(filepath.Base(app.romPath), filepath.Ext(app.romPath))
}

// Stop stops the application
func (app *Application) Stop() {
	app.running = false
	app.emulator.Stop()
}

// Pause pauses the emulator
func (app *Application) Pause() {
	app.paused = true
}

// Resume resumes the emulator
func (app *Application) Resume() {
	app.paused = false
}

// TogglePause toggles pause state
func (app *Application) TogglePause() {
	app.paused = !app.paused
}

// Reset resets the console
func (app *Application) Reset() {
	app.bus.Reset()
}

// IsRunning returns whether the application is running
func (app *Application) IsRunning() bool {
	return app.running
}

// IsPaused returns whether the emulator is paused
func (app *Application) IsPaused() bool {
	return app.paused
}

// GetBus returns the bus for direct access
func (app *Application) GetBus() *bus.Bus {
	return app.bus
}

// GetEmulator returns the emulation loop
func (app *Application) GetEmulator() *Emulator {
	return app.emulator
}

// GetWindow returns the graphics window
func (app *Application) GetWindow() graphics.Window {
	return app.window
}

// GetConfig returns the application configuration
func (app *Application) GetConfig() *Config {
	return app.config
}

// GetROMPath returns the currently loaded ROM path
func (app *Application) GetROMPath() string {
	return app.romPath
}

// Screen returns the most recent frame
func (app *Application) Screen() *ppu.Frame {
	return app.bus.Screen()
}

// Cleanup releases all resources and shuts down the application
func (app *Application) Cleanup() error {
	var lastErr error

	if app.window != nil {
		if err := app.window.Cleanup(); err != nil {
			lastErr = err
			logger.Logf(logger.Allow, "app", "window cleanup error: %v", err)
		}
	}

	if app.backend != nil {
		if err := app.backend.Cleanup(); err != nil {
			lastErr = err
			logger.Logf(logger.Allow, "app", "backend cleanup error: %v", err)
		}
	}

	app.initialized = false
	return lastErr
}
