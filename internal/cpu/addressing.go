package cpu

// address resolves the operand location for mode, advancing PC past the
// operand bytes. It returns 1 when the mode may add a cycle because indexing
// crossed a page boundary.
func (cpu *CPU) address(mode AddressingMode) uint8 {
	switch mode {
	case IMP:
		cpu.fetched = cpu.A
		return 0

	case IMM:
		cpu.addrAbs = cpu.PC
		cpu.PC++
		return 0

	case ZP0:
		cpu.addrAbs = uint16(cpu.read(cpu.PC))
		cpu.PC++
		return 0

	case ZPX:
		cpu.addrAbs = uint16(cpu.read(cpu.PC) + cpu.X)
		cpu.PC++
		return 0

	case ZPY:
		cpu.addrAbs = uint16(cpu.read(cpu.PC) + cpu.Y)
		cpu.PC++
		return 0

	case REL:
		cpu.addrRel = uint16(cpu.read(cpu.PC))
		cpu.PC++
		if cpu.addrRel&0x80 != 0 {
			cpu.addrRel |= 0xFF00
		}
		return 0

	case ABS:
		cpu.addrAbs = cpu.readWord(cpu.PC)
		cpu.PC += 2
		return 0

	case ABX:
		return cpu.indexed(cpu.X)

	case ABY:
		return cpu.indexed(cpu.Y)

	case IND:
		ptr := cpu.readWord(cpu.PC)
		cpu.PC += 2
		hiAddr := ptr + 1
		if ptr&0x00FF == 0x00FF {
			// The high byte is fetched without carrying into the page.
			hiAddr = ptr & 0xFF00
		}
		cpu.addrAbs = uint16(cpu.read(hiAddr))<<8 | uint16(cpu.read(ptr))
		return 0

	case IZX:
		t := cpu.read(cpu.PC)
		cpu.PC++
		lo := uint16(cpu.read(uint16(t + cpu.X)))
		hi := uint16(cpu.read(uint16(t + cpu.X + 1)))
		cpu.addrAbs = hi<<8 | lo
		return 0

	case IZY:
		t := cpu.read(cpu.PC)
		cpu.PC++
		lo := uint16(cpu.read(uint16(t)))
		hi := uint16(cpu.read(uint16(t + 1)))
		base := hi<<8 | lo
		cpu.addrAbs = base + uint16(cpu.Y)
		if cpu.addrAbs&0xFF00 != base&0xFF00 {
			return 1
		}
		return 0
	}

	return 0
}

func (cpu *CPU) indexed(index uint8) uint8 {
	base := cpu.readWord(cpu.PC)
	cpu.PC += 2
	cpu.addrAbs = base + uint16(index)
	if cpu.addrAbs&0xFF00 != base&0xFF00 {
		return 1
	}
	return 0
}

// fetch loads the operand into fetched. Implied mode already holds A.
func (cpu *CPU) fetch(mode AddressingMode) uint8 {
	if mode != IMP {
		cpu.fetched = cpu.read(cpu.addrAbs)
	}
	return cpu.fetched
}
