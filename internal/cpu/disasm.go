package cpu

import "fmt"

// Disassemble decodes the instruction at addr and returns its text and the
// address of the following instruction. Operand bytes are read through mem,
// so it should only be pointed at side-effect free memory such as PRG ROM.
func Disassemble(mem MemoryInterface, addr uint16) (string, uint16) {
	opcode := mem.Read(addr)
	ins := Instructions[opcode]
	next := addr + ins.Bytes()

	var lo, hi uint8
	if ins.Bytes() > 1 {
		lo = mem.Read(addr + 1)
	}
	if ins.Bytes() > 2 {
		hi = mem.Read(addr + 2)
	}
	word := uint16(hi)<<8 | uint16(lo)

	var operand string
	switch ins.Mode {
	case IMP:
		operand = ""
	case IMM:
		operand = fmt.Sprintf("#$%02X", lo)
	case ZP0:
		operand = fmt.Sprintf("$%02X", lo)
	case ZPX:
		operand = fmt.Sprintf("$%02X,X", lo)
	case ZPY:
		operand = fmt.Sprintf("$%02X,Y", lo)
	case REL:
		operand = fmt.Sprintf("$%04X", next+uint16(int8(lo)))
	case ABS:
		operand = fmt.Sprintf("$%04X", word)
	case ABX:
		operand = fmt.Sprintf("$%04X,X", word)
	case ABY:
		operand = fmt.Sprintf("$%04X,Y", word)
	case IND:
		operand = fmt.Sprintf("($%04X)", word)
	case IZX:
		operand = fmt.Sprintf("($%02X,X)", lo)
	case IZY:
		operand = fmt.Sprintf("($%02X),Y", lo)
	}

	text := fmt.Sprintf("$%04X: %s", addr, ins.Name)
	if operand != "" {
		text += " " + operand
	}
	return text + " {" + ins.Mode.String() + "}", next
}

// String formats the trace in a single line, flags shown as NV-BDIZC with
// lower case for clear bits.
func (t Trace) String() string {
	const names = "CZIDBUVN"
	flags := []byte("nv-bdizc")
	for i := 0; i < 8; i++ {
		if t.Status&(1<<i) != 0 {
			flags[7-i] = names[i]
		}
	}
	flags[2] = '-'
	return fmt.Sprintf("%04X  %02X  %-4s %s  A:%02X X:%02X Y:%02X SP:%02X P:%s CYC:%d",
		t.PC, t.Opcode, t.Instruction.Name, t.Instruction.Mode, t.A, t.X, t.Y, t.SP, flags, t.ClockCount)
}
