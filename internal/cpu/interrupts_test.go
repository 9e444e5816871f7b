package cpu

import "testing"

func TestIRQ(t *testing.T) {
	h := NewCPUTestHelper()
	h.SetupResetVector(0x8123)
	h.SetVector(irqVector, 0x9000)
	h.CPU.SetFlag(FlagC, true)

	h.CPU.IRQ()

	h.AssertRegisters(t, "IRQ", 0, 0, 0, 0xFA, 0x9000)
	if hi, lo := h.Memory.data[0x01FD], h.Memory.data[0x01FC]; hi != 0x81 || lo != 0x23 {
		t.Errorf("pushed PC 0x%02X%02X, want 0x8123", hi, lo)
	}
	if got := h.Memory.data[0x01FB]; got != 0x25 {
		t.Errorf("pushed status 0x%02X, want 0x25 (C, I, U; B clear)", got)
	}
	if !h.CPU.GetFlag(FlagI) {
		t.Error("I flag not set")
	}
	if n := h.Drain(); n != 7 {
		t.Errorf("IRQ took %d cycles, want 7", n)
	}
}

func TestIRQMasked(t *testing.T) {
	h := NewCPUTestHelper()
	h.SetupResetVector(0x8000)
	h.SetVector(irqVector, 0x9000)
	h.CPU.SetFlag(FlagI, true)

	h.CPU.IRQ()

	h.AssertRegisters(t, "masked IRQ", 0, 0, 0, 0xFD, 0x8000)
	if !h.CPU.Complete() {
		t.Error("masked IRQ scheduled cycles")
	}
}

func TestNMI(t *testing.T) {
	h := NewCPUTestHelper()
	h.SetupResetVector(0x8000)
	h.SetVector(nmiVector, 0xA000)
	h.CPU.SetFlag(FlagI, true)

	h.CPU.NMI()

	h.AssertRegisters(t, "NMI", 0, 0, 0, 0xFA, 0xA000)
	if got := h.Memory.data[0x01FB]; got&uint8(FlagB) != 0 {
		t.Errorf("pushed status 0x%02X has B set", got)
	}
	if n := h.Drain(); n != 8 {
		t.Errorf("NMI took %d cycles, want 8", n)
	}
}

func TestBRK(t *testing.T) {
	h := NewCPUTestHelper()
	h.SetupResetVector(0x8000)
	h.SetVector(irqVector, 0x9000)
	h.LoadProgram(0x8000, 0x00, 0xEA)

	cycles := h.CPU.Step()

	if cycles != 7 {
		t.Errorf("BRK took %d cycles, want 7", cycles)
	}
	h.AssertRegisters(t, "BRK", 0, 0, 0, 0xFA, 0x9000)
	// Return address skips the padding byte.
	if hi, lo := h.Memory.data[0x01FD], h.Memory.data[0x01FC]; hi != 0x80 || lo != 0x02 {
		t.Errorf("pushed PC 0x%02X%02X, want 0x8002", hi, lo)
	}
	if got := h.Memory.data[0x01FB]; got != 0x30 {
		t.Errorf("pushed status 0x%02X, want 0x30 (B and U)", got)
	}
	if !h.CPU.GetFlag(FlagI) || h.CPU.GetFlag(FlagB) {
		t.Errorf("status after BRK = 0x%02X", h.CPU.Status)
	}
}

func TestRTIAfterIRQ(t *testing.T) {
	h := NewCPUTestHelper()
	h.SetupResetVector(0x8123)
	h.SetVector(irqVector, 0x9000)
	h.LoadProgram(0x9000, 0x40)
	h.CPU.SetFlag(FlagC, true)

	h.CPU.IRQ()
	cycles := h.CPU.Step()

	if cycles != 6 {
		t.Errorf("RTI took %d cycles, want 6", cycles)
	}
	h.AssertRegisters(t, "RTI", 0, 0, 0, 0xFD, 0x8123)
	if h.CPU.Status != 0x25 {
		t.Errorf("Status = 0x%02X, want 0x25", h.CPU.Status)
	}
}

func TestBRKThenRTI(t *testing.T) {
	h := NewCPUTestHelper()
	h.SetupResetVector(0x8000)
	h.SetVector(irqVector, 0x9000)
	h.LoadProgram(0x8000, 0x00, 0xFF, 0xE8) // BRK, padding, INX
	h.LoadProgram(0x9000, 0x40)             // RTI

	h.CPU.Step()
	h.CPU.Step()
	h.CPU.Step()

	if h.CPU.X != 1 || h.CPU.PC != 0x8003 {
		t.Errorf("X = %d, PC = 0x%04X; want 1, 0x8003", h.CPU.X, h.CPU.PC)
	}
	if h.CPU.GetFlag(FlagB) {
		t.Error("B flag survived RTI")
	}
}
