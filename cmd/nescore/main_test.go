package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"syscall"
	"testing"
	"time"

	"nescore/internal/app"
	"nescore/internal/cartridge"
)

func TestParseFrameList(t *testing.T) {
	tests := []struct {
		in      string
		want    []int
		wantErr bool
	}{
		{"", nil, false},
		{"1", []int{1}, false},
		{"1, 60,120", []int{1, 60, 120}, false},
		{"1,,2", []int{1, 2}, false},
		{"0", nil, true},
		{"x", nil, true},
	}

	for _, test := range tests {
		got, err := parseFrameList(test.in)
		if (err != nil) != test.wantErr {
			t.Errorf("parseFrameList(%q) error = %v", test.in, err)
			continue
		}
		if !test.wantErr && !reflect.DeepEqual(got, test.want) {
			t.Errorf("parseFrameList(%q) = %v, want %v", test.in, got, test.want)
		}
	}
}

func TestFlagsOverrideConfig(t *testing.T) {
	opts, set, err := parseFlags([]string{"-backend", "headless", "-frames", "5", "-dump", "2,4", "game.nes"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if opts.rom != "game.nes" {
		t.Errorf("rom = %q", opts.rom)
	}

	c := app.NewConfig()
	c.Window.Scale = 3
	if err := opts.apply(c, set); err != nil {
		t.Fatal(err)
	}

	if c.Video.Backend != "headless" || c.Emulation.Frames != 5 {
		t.Errorf("flags not applied: %+v %+v", c.Video, c.Emulation)
	}
	if !reflect.DeepEqual(c.Debug.DumpFrames, []int{2, 4}) {
		t.Errorf("dump frames = %v", c.Debug.DumpFrames)
	}
	if c.Window.Scale != 3 {
		t.Errorf("unset flag overrode scale: %d", c.Window.Scale)
	}
}

func TestFlagErrors(t *testing.T) {
	if _, _, err := parseFlags(nil, io.Discard); err == nil {
		t.Error("missing ROM should fail")
	}

	for _, args := range [][]string{
		{"-backend", "sdl2", "x.nes"},
		{"-statsview-addr", "12600", "x.nes"},
	} {
		opts, set, err := parseFlags(args, io.Discard)
		if err != nil {
			t.Fatal(err)
		}
		if err := opts.apply(app.NewConfig(), set); err == nil {
			t.Errorf("%v should fail validation", args)
		}
	}
}

func TestStatsviewAddressFlag(t *testing.T) {
	opts, set, err := parseFlags([]string{"-statsview", "-statsview-addr", "127.0.0.1:9000", "x.nes"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	c := app.NewConfig()
	if err := opts.apply(c, set); err != nil {
		t.Fatal(err)
	}
	if !c.Debug.Statsview || c.Debug.StatsviewAddr != "127.0.0.1:9000" {
		t.Errorf("debug config = %+v", c.Debug)
	}
}

func TestRunVersion(t *testing.T) {
	var stdout bytes.Buffer
	if code := run([]string{"-version"}, &stdout, io.Discard); code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.HasPrefix(stdout.String(), "nescore") {
		t.Errorf("output = %q", stdout.String())
	}
}

func TestRunHeadless(t *testing.T) {
	dir := t.TempDir()
	rom := filepath.Join(dir, "loop.nes")
	data := cartridge.NewROMBuilder().
		WithProgram(0x8000, 0x4C, 0x00, 0x80). // JMP $8000
		WithResetVector(0x8000).
		Build()
	if err := os.WriteFile(rom, data, 0644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	code := run([]string{
		"-config", filepath.Join(dir, "nescore.json"),
		"-backend", "headless",
		"-frames", "2",
		"-dump", "2",
		"-dump-dir", filepath.Join(dir, "frames"),
		rom,
	}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr:\n%s", code, stderr.String())
	}

	if !strings.HasPrefix(stdout.String(), "2 frames") {
		t.Errorf("stdout = %q", stdout.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "frames", "frame_0002.png")); err != nil {
		t.Errorf("frame not dumped: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "nescore.json")); err != nil {
		t.Errorf("config not created: %v", err)
	}
}

func TestInterruptHandlerStops(t *testing.T) {
	exited := false
	stop := handleInterrupt(io.Discard, func(int) { exited = true })

	stopped := make(chan struct{})
	go func() {
		stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("stop() did not return")
	}
	if exited {
		t.Error("handler exited without a signal")
	}
}

func TestInterruptHandlerSignal(t *testing.T) {
	codes := make(chan int, 1)
	var stderr bytes.Buffer
	stop := handleInterrupt(&stderr, func(code int) { codes <- code })
	defer stop()

	self, err := os.FindProcess(os.Getpid())
	if err != nil {
		t.Fatal(err)
	}
	if err := self.Signal(syscall.SIGTERM); err != nil {
		t.Skipf("cannot signal own process: %v", err)
	}

	select {
	case code := <-codes:
		if code != 130 {
			t.Errorf("exit code = %d, want 130", code)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("signal not handled")
	}
	if !strings.HasPrefix(stderr.String(), "interrupted") {
		t.Errorf("stderr = %q", stderr.String())
	}
}
