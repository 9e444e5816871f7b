package app

import (
	"errors"
	"sync"
	"time"

	"nescore/internal/bus"
	"nescore/internal/ppu"
)

var errNoCartridge = errors.New("no cartridge inserted")

// Emulator runs the console one frame at a time and keeps timing figures
type Emulator struct {
	bus *bus.Bus

	targetFrameTime time.Duration
	frameTimes      *CircularTimingBuffer

	isRunning     bool
	frameCount    uint64
	emulationTime time.Duration
	startTime     time.Time
}

// EmulatorStats is a snapshot of emulator performance
type EmulatorStats struct {
	FrameCount       uint64
	ClockCount       uint64
	TargetFrameTime  time.Duration
	AverageFrameTime time.Duration
	FrameTimeJitter  time.Duration
	EmulationSpeed   float64
	Uptime           time.Duration
}

// NewEmulator creates an emulator driving b at the configured frame rate
func NewEmulator(b *bus.Bus, config *Config) *Emulator {
	e := &Emulator{
		bus:        b,
		frameTimes: NewCircularTimingBuffer(120), // two seconds
	}
	e.SetTargetFrameRate(config.Emulation.FrameRate)
	e.Reset()
	return e
}

// Reset clears the timing figures
func (e *Emulator) Reset() {
	e.frameCount = 0
	e.emulationTime = 0
	e.startTime = time.Now()
	e.frameTimes.Reset()
}

// Start starts the emulator
func (e *Emulator) Start() {
	e.isRunning = true
	e.startTime = time.Now()
}

// Stop stops the emulator
func (e *Emulator) Stop() {
	e.isRunning = false
}

// IsRunning returns whether the emulator is running
func (e *Emulator) IsRunning() bool {
	return e.isRunning
}

// Update runs one frame if the emulator is running
func (e *Emulator) Update() error {
	if !e.isRunning {
		return nil
	}
	return e.StepFrame()
}

// StepFrame runs the console until the PPU completes a frame
func (e *Emulator) StepFrame() error {
	if e.bus.Cartridge() == nil {
		return errNoCartridge
	}

	start := time.Now()
	e.bus.Frame()
	e.emulationTime = time.Since(start)
	e.frameTimes.Add(e.emulationTime)
	e.frameCount++

	return nil
}

// StepInstruction executes one CPU instruction
func (e *Emulator) StepInstruction() error {
	if e.bus.Cartridge() == nil {
		return errNoCartridge
	}
	e.bus.Step()
	return nil
}

// Screen returns the most recent frame
func (e *Emulator) Screen() *ppu.Frame {
	return e.bus.Screen()
}

// SetTargetFrameRate sets the host frame rate used for pacing
func (e *Emulator) SetTargetFrameRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	e.targetFrameTime = time.Duration(float64(time.Second) / fps)
}

// GetFrameCount returns the frames run since the last reset
func (e *Emulator) GetFrameCount() uint64 {
	return e.frameCount
}

// GetTargetFrameTime returns the time budget of one frame
func (e *Emulator) GetTargetFrameTime() time.Duration {
	return e.targetFrameTime
}

// GetEmulationTime returns how long the last frame took to emulate
func (e *Emulator) GetEmulationTime() time.Duration {
	return e.emulationTime
}

// GetEmulationSpeed returns how many times faster than real time frames are
// emulated, averaged over recent frames.
func (e *Emulator) GetEmulationSpeed() float64 {
	avg := e.frameTimes.GetAverage()
	if avg == 0 {
		return 0
	}
	return float64(e.targetFrameTime) / float64(avg)
}

// GetPerformanceStats returns a snapshot of the timing figures
func (e *Emulator) GetPerformanceStats() EmulatorStats {
	return EmulatorStats{
		FrameCount:       e.frameCount,
		ClockCount:       e.bus.ClockCount(),
		TargetFrameTime:  e.targetFrameTime,
		AverageFrameTime: e.frameTimes.GetAverage(),
		FrameTimeJitter:  e.frameTimes.GetVariance(),
		EmulationSpeed:   e.GetEmulationSpeed(),
		Uptime:           time.Since(e.startTime),
	}
}

// CircularTimingBuffer keeps the most recent durations
type CircularTimingBuffer struct {
	mu       sync.RWMutex
	buffer   []time.Duration
	capacity int
	index    int
	size     int
}

// NewCircularTimingBuffer creates a new circular timing buffer
func NewCircularTimingBuffer(capacity int) *CircularTimingBuffer {
	return &CircularTimingBuffer{
		buffer:   make([]time.Duration, capacity),
		capacity: capacity,
	}
}

// Add adds a timing measurement to the buffer
func (ctb *CircularTimingBuffer) Add(duration time.Duration) {
	ctb.mu.Lock()
	defer ctb.mu.Unlock()

	ctb.buffer[ctb.index] = duration
	ctb.index = (ctb.index + 1) % ctb.capacity

	if ctb.size < ctb.capacity {
		ctb.size++
	}
}

// Len returns the number of stored durations
func (ctb *CircularTimingBuffer) Len() int {
	ctb.mu.RLock()
	defer ctb.mu.RUnlock()
	return ctb.size
}

// GetAverage calculates the average of stored durations
func (ctb *CircularTimingBuffer) GetAverage() time.Duration {
	ctb.mu.RLock()
	defer ctb.mu.RUnlock()
	return ctb.average()
}

func (ctb *CircularTimingBuffer) average() time.Duration {
	if ctb.size == 0 {
		return 0
	}

	var total time.Duration
	for i := 0; i < ctb.size; i++ {
		total += ctb.buffer[i]
	}
	return total / time.Duration(ctb.size)
}

// GetVariance returns the mean absolute deviation of stored durations
func (ctb *CircularTimingBuffer) GetVariance() time.Duration {
	ctb.mu.RLock()
	defer ctb.mu.RUnlock()

	if ctb.size < 2 {
		return 0
	}

	avg := ctb.average()
	var total time.Duration
	for i := 0; i < ctb.size; i++ {
		diff := ctb.buffer[i] - avg
		if diff < 0 {
			diff = -diff
		}
		total += diff
	}
	return total / time.Duration(ctb.size)
}

// Reset clears the buffer
func (ctb *CircularTimingBuffer) Reset() {
	ctb.mu.Lock()
	defer ctb.mu.Unlock()
	ctb.index = 0
	ctb.size = 0
}
