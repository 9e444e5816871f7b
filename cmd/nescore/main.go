// Command nescore runs an NROM cartridge on the emulated console, in a
// window, in the terminal or headless with PNG frame dumps.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"nescore/internal/app"
	"nescore/internal/logger"
	"nescore/internal/statsview"
	"nescore/internal/version"
)

// log entries written to stderr when the emulator fails
const postMortemEntries = 32

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	rom         string
	configPath  string
	backend     string
	frames      int
	scale       int
	filter      string
	trace       bool
	echo        bool
	statsview   bool
	statsAddr   string
	dumpDir     string
	dumpFrames  string
	showVersion bool
}

func parseFlags(args []string, stderr io.Writer) (*options, map[string]bool, error) {
	opts := &options{}

	fs := flag.NewFlagSet("nescore", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: nescore [options] <rom.nes>")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "keys: Escape quit, Space pause, R reset, F12 screenshot, P pattern tables")
		fmt.Fprintln(stderr)
		fs.PrintDefaults()
	}

	fs.StringVar(&opts.configPath, "config", app.GetDefaultConfigPath(), "path to configuration file")
	fs.StringVar(&opts.backend, "backend", "", "graphics backend: ebitengine, terminal or headless")
	fs.IntVar(&opts.frames, "frames", 0, "number of frames to run, 0 for no limit")
	fs.IntVar(&opts.scale, "scale", 0, "window scale factor")
	fs.StringVar(&opts.filter, "filter", "", "scaling filter: nearest or linear")
	fs.BoolVar(&opts.trace, "trace", false, "log every CPU instruction")
	fs.BoolVar(&opts.echo, "log", false, "echo log entries to stderr")
	fs.BoolVar(&opts.statsview, "statsview", false, "serve runtime statistics over HTTP")
	fs.StringVar(&opts.statsAddr, "statsview-addr", "", "stats server address (default "+statsview.DefaultAddress+")")
	fs.StringVar(&opts.dumpDir, "dump-dir", "", "directory for headless frame dumps")
	fs.StringVar(&opts.dumpFrames, "dump", "", "comma separated frame numbers to save in headless mode")
	fs.BoolVar(&opts.showVersion, "version", false, "show version information")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if opts.showVersion {
		return opts, nil, nil
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, nil, fmt.Errorf("expected one ROM file, got %d arguments", fs.NArg())
	}

	opts.rom = fs.Arg(0)

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return opts, set, nil
}

// apply overrides config values with the flags given on the command line
func (opts *options) apply(c *app.Config, set map[string]bool) error {
	if set["backend"] {
		c.Video.Backend = opts.backend
	}
	if set["frames"] {
		c.Emulation.Frames = opts.frames
	}
	if set["scale"] {
		c.Window.Scale = opts.scale
	}
	if set["filter"] {
		c.Video.Filter = opts.filter
	}
	if set["trace"] {
		c.Debug.CPUTrace = opts.trace
	}
	if set["log"] {
		c.Debug.LogEcho = opts.echo
	}
	if set["statsview"] {
		c.Debug.Statsview = opts.statsview
	}
	if set["statsview-addr"] {
		c.Debug.StatsviewAddr = opts.statsAddr
	}
	if set["dump-dir"] {
		c.Debug.DumpDir = opts.dumpDir
	}
	if set["dump"] {
		frames, err := parseFrameList(opts.dumpFrames)
		if err != nil {
			return err
		}
		c.Debug.DumpFrames = frames
	}
	return c.Validate()
}

func parseFrameList(s string) ([]int, error) {
	var frames []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid frame number %q", field)
		}
		frames = append(frames, n)
	}
	return frames, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, set, err := parseFlags(args, stderr)
	if err == flag.ErrHelp {
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if opts.showVersion {
		version.WriteBuildInfo(stdout)
		return 0
	}

	config := app.NewConfig()
	if err := config.LoadFromFile(opts.configPath); err != nil {
		fmt.Fprintf(stderr, "could not load config from %s, using defaults: %v\n", opts.configPath, err)
		config = app.NewConfig()
	}
	if err := opts.apply(config, set); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	if config.Debug.LogEcho {
		logger.SetEcho(stderr)
	}
	logger.Log(logger.Allow, "nescore", version.GetBuildInfo().Detailed())

	if config.Debug.Statsview {
		if err := statsview.Launch(config.Debug.StatsviewAddr, stdout); err != nil {
			fmt.Fprintln(stderr, err)
		}
	}

	application, err := app.NewApplication(config)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer application.Cleanup()

	stop := handleInterrupt(stderr, os.Exit)
	defer stop()

	if err := application.LoadROM(opts.rom); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	if err := application.Run(); err != nil {
		fmt.Fprintln(stderr, err)
		logger.Tail(stderr, postMortemEntries)
		return 1
	}

	stats := application.GetEmulator().GetPerformanceStats()
	fmt.Fprintf(stdout, "%d frames in %v (%.1fx real time)\n",
		stats.FrameCount, stats.Uptime.Round(time.Millisecond), stats.EmulationSpeed)
	return 0
}

// handleInterrupt prints the most recent log entries and exits on SIGINT or
// SIGTERM. The returned function removes the handler and waits for its
// goroutine to finish.
func handleInterrupt(stderr io.Writer, exit func(code int)) (stop func()) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		select {
		case <-c:
			fmt.Fprintln(stderr, "interrupted")
			logger.Tail(stderr, postMortemEntries)
			exit(130)
		case <-done:
		}
	}()

	return func() {
		signal.Stop(c)
		close(done)
		<-finished
	}
}
