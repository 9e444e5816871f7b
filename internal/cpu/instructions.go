package cpu

// execute performs the operation of ins. It returns 1 when the operation
// takes the extra cycle that its addressing mode may report.
func (cpu *CPU) execute(ins Instruction) uint8 {
	mode := ins.Mode

	switch ins.Operation {
	// Arithmetic
	case ADC:
		cpu.add(uint16(cpu.fetch(mode)))
		return 1
	case SBC:
		// Subtraction is addition of the one's complement.
		cpu.add(uint16(cpu.fetch(mode)) ^ 0x00FF)
		return 1

	// Logical
	case AND:
		cpu.A &= cpu.fetch(mode)
		cpu.setZN(cpu.A)
		return 1
	case ORA:
		cpu.A |= cpu.fetch(mode)
		cpu.setZN(cpu.A)
		return 1
	case EOR:
		cpu.A ^= cpu.fetch(mode)
		cpu.setZN(cpu.A)
		return 1
	case BIT:
		value := cpu.fetch(mode)
		cpu.SetFlag(FlagZ, cpu.A&value == 0)
		cpu.SetFlag(FlagN, value&0x80 != 0)
		cpu.SetFlag(FlagV, value&0x40 != 0)
		return 0

	// Shifts and rotates
	case ASL:
		value := cpu.fetch(mode)
		cpu.SetFlag(FlagC, value&0x80 != 0)
		cpu.storeShift(mode, value<<1)
		return 0
	case LSR:
		value := cpu.fetch(mode)
		cpu.SetFlag(FlagC, value&0x01 != 0)
		cpu.storeShift(mode, value>>1)
		return 0
	case ROL:
		value := cpu.fetch(mode)
		result := value<<1 | uint8(cpu.carry())
		cpu.SetFlag(FlagC, value&0x80 != 0)
		cpu.storeShift(mode, result)
		return 0
	case ROR:
		value := cpu.fetch(mode)
		result := value>>1 | uint8(cpu.carry())<<7
		cpu.SetFlag(FlagC, value&0x01 != 0)
		cpu.storeShift(mode, result)
		return 0

	// Compares
	case CMP:
		cpu.compare(cpu.A, cpu.fetch(mode))
		return 1
	case CPX:
		cpu.compare(cpu.X, cpu.fetch(mode))
		return 0
	case CPY:
		cpu.compare(cpu.Y, cpu.fetch(mode))
		return 0

	// Increments and decrements
	case INC:
		value := cpu.fetch(mode) + 1
		cpu.write(cpu.addrAbs, value)
		cpu.setZN(value)
		return 0
	case DEC:
		value := cpu.fetch(mode) - 1
		cpu.write(cpu.addrAbs, value)
		cpu.setZN(value)
		return 0
	case INX:
		cpu.X++
		cpu.setZN(cpu.X)
		return 0
	case INY:
		cpu.Y++
		cpu.setZN(cpu.Y)
		return 0
	case DEX:
		cpu.X--
		cpu.setZN(cpu.X)
		return 0
	case DEY:
		cpu.Y--
		cpu.setZN(cpu.Y)
		return 0

	// Loads and stores
	case LDA:
		cpu.A = cpu.fetch(mode)
		cpu.setZN(cpu.A)
		return 1
	case LDX:
		cpu.X = cpu.fetch(mode)
		cpu.setZN(cpu.X)
		return 1
	case LDY:
		cpu.Y = cpu.fetch(mode)
		cpu.setZN(cpu.Y)
		return 1
	case STA:
		cpu.write(cpu.addrAbs, cpu.A)
		return 0
	case STX:
		cpu.write(cpu.addrAbs, cpu.X)
		return 0
	case STY:
		cpu.write(cpu.addrAbs, cpu.Y)
		return 0

	// Transfers
	case TAX:
		cpu.X = cpu.A
		cpu.setZN(cpu.X)
		return 0
	case TAY:
		cpu.Y = cpu.A
		cpu.setZN(cpu.Y)
		return 0
	case TXA:
		cpu.A = cpu.X
		cpu.setZN(cpu.A)
		return 0
	case TYA:
		cpu.A = cpu.Y
		cpu.setZN(cpu.A)
		return 0
	case TSX:
		cpu.X = cpu.SP
		cpu.setZN(cpu.X)
		return 0
	case TXS:
		cpu.SP = cpu.X
		return 0

	// Stack
	case PHA:
		cpu.push(cpu.A)
		return 0
	case PHP:
		cpu.push(cpu.Status | uint8(FlagB) | uint8(FlagU))
		cpu.SetFlag(FlagB, false)
		cpu.SetFlag(FlagU, false)
		return 0
	case PLA:
		cpu.A = cpu.pop()
		cpu.setZN(cpu.A)
		return 0
	case PLP:
		cpu.Status = cpu.pop()
		cpu.SetFlag(FlagU, true)
		return 0

	// Jumps and subroutines
	case JMP:
		cpu.PC = cpu.addrAbs
		return 0
	case JSR:
		cpu.pushWord(cpu.PC - 1)
		cpu.PC = cpu.addrAbs
		return 0
	case RTS:
		cpu.PC = cpu.popWord() + 1
		return 0
	case RTI:
		cpu.Status = cpu.pop()
		cpu.Status &^= uint8(FlagB)
		cpu.Status &^= uint8(FlagU)
		cpu.PC = cpu.popWord()
		return 0
	case BRK:
		// PC already points past the padding byte.
		cpu.pushWord(cpu.PC)
		cpu.push(cpu.Status | uint8(FlagB) | uint8(FlagU))
		cpu.SetFlag(FlagI, true)
		cpu.PC = cpu.readWord(irqVector)
		return 0

	// Branches
	case BCC:
		cpu.branch(!cpu.GetFlag(FlagC))
		return 0
	case BCS:
		cpu.branch(cpu.GetFlag(FlagC))
		return 0
	case BNE:
		cpu.branch(!cpu.GetFlag(FlagZ))
		return 0
	case BEQ:
		cpu.branch(cpu.GetFlag(FlagZ))
		return 0
	case BPL:
		cpu.branch(!cpu.GetFlag(FlagN))
		return 0
	case BMI:
		cpu.branch(cpu.GetFlag(FlagN))
		return 0
	case BVC:
		cpu.branch(!cpu.GetFlag(FlagV))
		return 0
	case BVS:
		cpu.branch(cpu.GetFlag(FlagV))
		return 0

	// Flags
	case CLC:
		cpu.SetFlag(FlagC, false)
		return 0
	case SEC:
		cpu.SetFlag(FlagC, true)
		return 0
	case CLI:
		cpu.SetFlag(FlagI, false)
		return 0
	case SEI:
		cpu.SetFlag(FlagI, true)
		return 0
	case CLD:
		cpu.SetFlag(FlagD, false)
		return 0
	case SED:
		cpu.SetFlag(FlagD, true)
		return 0
	case CLV:
		cpu.SetFlag(FlagV, false)
		return 0

	case NOP:
		switch cpu.opcode {
		case 0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC:
			return 1
		}
		return 0
	}

	// Illegal opcodes do nothing for their base cycle count.
	return 0
}

// add implements ADC on an already complemented operand for SBC.
func (cpu *CPU) add(value uint16) {
	a := uint16(cpu.A)
	result := a + value + cpu.carry()

	cpu.SetFlag(FlagC, result > 0xFF)
	cpu.SetFlag(FlagV, (^(a^value)&(a^result))&0x0080 != 0)
	cpu.A = uint8(result)
	cpu.setZN(cpu.A)
}

func (cpu *CPU) compare(register, value uint8) {
	cpu.SetFlag(FlagC, register >= value)
	cpu.setZN(register - value)
}

// storeShift writes a shift or rotate result back to A or memory.
func (cpu *CPU) storeShift(mode AddressingMode, value uint8) {
	cpu.setZN(value)
	if mode == IMP {
		cpu.A = value
	} else {
		cpu.write(cpu.addrAbs, value)
	}
}

// branch jumps to PC+addrRel when taken. A taken branch costs a cycle, and
// another if the target lies on a different page.
func (cpu *CPU) branch(taken bool) {
	if !taken {
		return
	}
	cpu.cycles++
	cpu.addrAbs = cpu.PC + cpu.addrRel
	if cpu.addrAbs&0xFF00 != cpu.PC&0xFF00 {
		cpu.cycles++
	}
	cpu.PC = cpu.addrAbs
}
