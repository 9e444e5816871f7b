// Package cpu implements the 6502 CPU emulation for the NES.
//
// The CPU is clocked one cycle at a time. On the first cycle of an
// instruction the whole instruction is fetched, decoded and executed, and the
// remaining cycles are then counted down so that the CPU stays in step with
// the PPU on the shared bus.
package cpu

// Flag is a bit of the status register.
type Flag uint8

// Status register bits
const (
	FlagC Flag = 1 << iota // Carry
	FlagZ                  // Zero
	FlagI                  // Interrupt disable
	FlagD                  // Decimal mode (no effect on the NES)
	FlagB                  // Break
	FlagU                  // Unused, always reads as 1
	FlagV                  // Overflow
	FlagN                  // Negative
)

const (
	stackBase = 0x0100

	nmiVector   = 0xFFFA
	resetVector = 0xFFFC
	irqVector   = 0xFFFE

	resetCycles = 8
	irqCycles   = 7
	nmiCycles   = 8
)

// MemoryInterface defines the interface for CPU memory access
type MemoryInterface interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// Trace describes an instruction that has just been executed. Registers hold
// their values after execution.
type Trace struct {
	PC          uint16
	Opcode      uint8
	Instruction Instruction
	A, X, Y, SP uint8
	Status      uint8
	Cycles      uint8 // total cycles the instruction will take
	ClockCount  uint64
}

// Observer is called synchronously after each instruction executes.
type Observer func(Trace)

// Option configures a CPU at construction.
type Option func(*CPU)

// WithObserver registers an instruction observer.
func WithObserver(o Observer) Option {
	return func(cpu *CPU) {
		cpu.observer = o
	}
}

// CPU represents the 6502 processor used in the NES
type CPU struct {
	// Registers
	A      uint8  // Accumulator
	X      uint8  // X register
	Y      uint8  // Y register
	SP     uint8  // Stack pointer
	PC     uint16 // Program counter
	Status uint8  // Processor status

	memory MemoryInterface

	// Working state of the current instruction
	fetched uint8
	addrAbs uint16
	addrRel uint16
	opcode  uint8

	// Cycles left before the next instruction is fetched
	cycles uint8

	clockCount uint64

	observer Observer
}

// New creates a new CPU instance. Reset must be called once a cartridge is
// present to load the program counter.
func New(memory MemoryInterface, opts ...Option) *CPU {
	cpu := &CPU{
		memory: memory,
		SP:     0xFD,
		Status: uint8(FlagU),
	}
	for _, opt := range opts {
		opt(cpu)
	}
	return cpu
}

// SetObserver replaces the instruction observer. Passing nil disables it.
func (cpu *CPU) SetObserver(o Observer) {
	cpu.observer = o
}

func (cpu *CPU) read(address uint16) uint8 {
	return cpu.memory.Read(address)
}

func (cpu *CPU) write(address uint16, value uint8) {
	cpu.memory.Write(address, value)
}

func (cpu *CPU) readWord(address uint16) uint16 {
	lo := uint16(cpu.read(address))
	hi := uint16(cpu.read(address + 1))
	return hi<<8 | lo
}

// GetFlag reports whether f is set.
func (cpu *CPU) GetFlag(f Flag) bool {
	return cpu.Status&uint8(f) != 0
}

// SetFlag sets or clears f.
func (cpu *CPU) SetFlag(f Flag, v bool) {
	if v {
		cpu.Status |= uint8(f)
	} else {
		cpu.Status &^= uint8(f)
	}
}

func (cpu *CPU) carry() uint16 {
	return uint16(cpu.Status & uint8(FlagC))
}

// setZN sets Zero and Negative flags based on value
func (cpu *CPU) setZN(value uint8) {
	cpu.SetFlag(FlagZ, value == 0)
	cpu.SetFlag(FlagN, value&0x80 != 0)
}

func (cpu *CPU) push(value uint8) {
	cpu.write(stackBase+uint16(cpu.SP), value)
	cpu.SP--
}

func (cpu *CPU) pop() uint8 {
	cpu.SP++
	return cpu.read(stackBase + uint16(cpu.SP))
}

func (cpu *CPU) pushWord(value uint16) {
	cpu.push(uint8(value >> 8))
	cpu.push(uint8(value))
}

func (cpu *CPU) popWord() uint16 {
	lo := uint16(cpu.pop())
	hi := uint16(cpu.pop())
	return hi<<8 | lo
}

// Reset loads the program counter from the reset vector and returns the
// registers to their power-up state. The reset sequence takes 8 cycles.
func (cpu *CPU) Reset() {
	cpu.PC = cpu.readWord(resetVector)

	cpu.A = 0
	cpu.X = 0
	cpu.Y = 0
	cpu.SP = 0xFD
	cpu.Status = uint8(FlagU)

	cpu.addrRel = 0
	cpu.addrAbs = 0
	cpu.fetched = 0

	cpu.cycles = resetCycles
}

// interrupt pushes the return state and jumps through vector.
func (cpu *CPU) interrupt(vector uint16, cycles uint8) {
	cpu.pushWord(cpu.PC)

	cpu.SetFlag(FlagB, false)
	cpu.SetFlag(FlagU, true)
	cpu.SetFlag(FlagI, true)
	cpu.push(cpu.Status)

	cpu.PC = cpu.readWord(vector)
	cpu.cycles = cycles
}

// IRQ requests a maskable interrupt. It is ignored while the I flag is set.
func (cpu *CPU) IRQ() {
	if cpu.GetFlag(FlagI) {
		return
	}
	cpu.interrupt(irqVector, irqCycles)
}

// NMI requests a non-maskable interrupt.
func (cpu *CPU) NMI() {
	cpu.interrupt(nmiVector, nmiCycles)
}

// Clock advances the CPU by one cycle.
func (cpu *CPU) Clock() {
	if cpu.cycles == 0 {
		pc := cpu.PC
		cpu.opcode = cpu.read(cpu.PC)
		cpu.SetFlag(FlagU, true)
		cpu.PC++

		instruction := Instructions[cpu.opcode]
		cpu.cycles = instruction.Cycles

		modeExtra := cpu.address(instruction.Mode)
		opExtra := cpu.execute(instruction)
		cpu.cycles += modeExtra & opExtra

		cpu.SetFlag(FlagU, true)

		if cpu.observer != nil {
			cpu.observer(Trace{
				PC:          pc,
				Opcode:      cpu.opcode,
				Instruction: instruction,
				A:           cpu.A,
				X:           cpu.X,
				Y:           cpu.Y,
				SP:          cpu.SP,
				Status:      cpu.Status,
				Cycles:      cpu.cycles,
				ClockCount:  cpu.clockCount,
			})
		}
	}

	cpu.clockCount++
	cpu.cycles--
}

// Complete reports whether the current instruction has used all its cycles.
func (cpu *CPU) Complete() bool {
	return cpu.cycles == 0
}

// ClockCount returns the number of cycles clocked since construction.
func (cpu *CPU) ClockCount() uint64 {
	return cpu.clockCount
}

// Step finishes any instruction or interrupt in progress, then executes one
// whole instruction and returns the cycles it took.
func (cpu *CPU) Step() uint64 {
	for !cpu.Complete() {
		cpu.Clock()
	}
	start := cpu.clockCount
	cpu.Clock()
	for !cpu.Complete() {
		cpu.Clock()
	}
	return cpu.clockCount - start
}
