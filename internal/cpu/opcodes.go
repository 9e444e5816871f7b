package cpu

// AddressingMode identifies how an instruction locates its operand.
type AddressingMode uint8

// Addressing modes
const (
	IMP AddressingMode = iota // implied, operand is the accumulator
	IMM                       // immediate
	ZP0                       // zero page
	ZPX                       // zero page,X
	ZPY                       // zero page,Y
	REL                       // relative, branches only
	ABS                       // absolute
	ABX                       // absolute,X
	ABY                       // absolute,Y
	IND                       // indirect, JMP only
	IZX                       // (zero page,X)
	IZY                       // (zero page),Y
)

var modeNames = [...]string{"IMP", "IMM", "ZP0", "ZPX", "ZPY", "REL", "ABS", "ABX", "ABY", "IND", "IZX", "IZY"}

func (m AddressingMode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "???"
}

// Operation identifies the behaviour of an instruction.
type Operation uint8

// Operations. XXX covers every illegal opcode.
const (
	XXX Operation = iota
	ADC
	AND
	ASL
	BCC
	BCS
	BEQ
	BIT
	BMI
	BNE
	BPL
	BRK
	BVC
	BVS
	CLC
	CLD
	CLI
	CLV
	CMP
	CPX
	CPY
	DEC
	DEX
	DEY
	EOR
	INC
	INX
	INY
	JMP
	JSR
	LDA
	LDX
	LDY
	LSR
	NOP
	ORA
	PHA
	PHP
	PLA
	PLP
	ROL
	ROR
	RTI
	RTS
	SBC
	SEC
	SED
	SEI
	STA
	STX
	STY
	TAX
	TAY
	TSX
	TXA
	TXS
	TYA
)

// Instruction is one entry of the opcode table.
type Instruction struct {
	Name      string
	Operation Operation
	Mode      AddressingMode
	Cycles    uint8
}

// Bytes returns the encoded length of the instruction.
func (i Instruction) Bytes() uint16 {
	switch i.Mode {
	case IMP:
		return 1
	case ABS, ABX, ABY, IND:
		return 3
	default:
		return 2
	}
}

// Instructions is the opcode table, indexed by opcode. Unofficial opcodes are
// prefixed with '*'; those that have no defined behaviour are named "???".
var Instructions = [256]Instruction{
	{"BRK", BRK, IMM, 7}, {"ORA", ORA, IZX, 6}, {"???", XXX, IMP, 2}, {"???", XXX, IMP, 8}, // 00
	{"*NOP", NOP, ZP0, 3}, {"ORA", ORA, ZP0, 3}, {"ASL", ASL, ZP0, 5}, {"???", XXX, IMP, 5}, // 04
	{"PHP", PHP, IMP, 3}, {"ORA", ORA, IMM, 2}, {"ASL", ASL, IMP, 2}, {"???", XXX, IMP, 2}, // 08
	{"*NOP", NOP, ABS, 4}, {"ORA", ORA, ABS, 4}, {"ASL", ASL, ABS, 6}, {"???", XXX, IMP, 6}, // 0C
	{"BPL", BPL, REL, 2}, {"ORA", ORA, IZY, 5}, {"???", XXX, IMP, 2}, {"???", XXX, IMP, 8}, // 10
	{"*NOP", NOP, ZPX, 4}, {"ORA", ORA, ZPX, 4}, {"ASL", ASL, ZPX, 6}, {"???", XXX, IMP, 6}, // 14
	{"CLC", CLC, IMP, 2}, {"ORA", ORA, ABY, 4}, {"*NOP", NOP, IMP, 2}, {"???", XXX, IMP, 7}, // 18
	{"*NOP", NOP, ABX, 4}, {"ORA", ORA, ABX, 4}, {"ASL", ASL, ABX, 7}, {"???", XXX, IMP, 7}, // 1C
	{"JSR", JSR, ABS, 6}, {"AND", AND, IZX, 6}, {"???", XXX, IMP, 2}, {"???", XXX, IMP, 8}, // 20
	{"BIT", BIT, ZP0, 3}, {"AND", AND, ZP0, 3}, {"ROL", ROL, ZP0, 5}, {"???", XXX, IMP, 5}, // 24
	{"PLP", PLP, IMP, 4}, {"AND", AND, IMM, 2}, {"ROL", ROL, IMP, 2}, {"???", XXX, IMP, 2}, // 28
	{"BIT", BIT, ABS, 4}, {"AND", AND, ABS, 4}, {"ROL", ROL, ABS, 6}, {"???", XXX, IMP, 6}, // 2C
	{"BMI", BMI, REL, 2}, {"AND", AND, IZY, 5}, {"???", XXX, IMP, 2}, {"???", XXX, IMP, 8}, // 30
	{"*NOP", NOP, ZPX, 4}, {"AND", AND, ZPX, 4}, {"ROL", ROL, ZPX, 6}, {"???", XXX, IMP, 6}, // 34
	{"SEC", SEC, IMP, 2}, {"AND", AND, ABY, 4}, {"*NOP", NOP, IMP, 2}, {"???", XXX, IMP, 7}, // 38
	{"*NOP", NOP, ABX, 4}, {"AND", AND, ABX, 4}, {"ROL", ROL, ABX, 7}, {"???", XXX, IMP, 7}, // 3C
	{"RTI", RTI, IMP, 6}, {"EOR", EOR, IZX, 6}, {"???", XXX, IMP, 2}, {"???", XXX, IMP, 8}, // 40
	{"*NOP", NOP, ZP0, 3}, {"EOR", EOR, ZP0, 3}, {"LSR", LSR, ZP0, 5}, {"???", XXX, IMP, 5}, // 44
	{"PHA", PHA, IMP, 3}, {"EOR", EOR, IMM, 2}, {"LSR", LSR, IMP, 2}, {"???", XXX, IMP, 2}, // 48
	{"JMP", JMP, ABS, 3}, {"EOR", EOR, ABS, 4}, {"LSR", LSR, ABS, 6}, {"???", XXX, IMP, 6}, // 4C
	{"BVC", BVC, REL, 2}, {"EOR", EOR, IZY, 5}, {"???", XXX, IMP, 2}, {"???", XXX, IMP, 8}, // 50
	{"*NOP", NOP, ZPX, 4}, {"EOR", EOR, ZPX, 4}, {"LSR", LSR, ZPX, 6}, {"???", XXX, IMP, 6}, // 54
	{"CLI", CLI, IMP, 2}, {"EOR", EOR, ABY, 4}, {"*NOP", NOP, IMP, 2}, {"???", XXX, IMP, 7}, // 58
	{"*NOP", NOP, ABX, 4}, {"EOR", EOR, ABX, 4}, {"LSR", LSR, ABX, 7}, {"???", XXX, IMP, 7}, // 5C
	{"RTS", RTS, IMP, 6}, {"ADC", ADC, IZX, 6}, {"???", XXX, IMP, 2}, {"???", XXX, IMP, 8}, // 60
	{"*NOP", NOP, ZP0, 3}, {"ADC", ADC, ZP0, 3}, {"ROR", ROR, ZP0, 5}, {"???", XXX, IMP, 5}, // 64
	{"PLA", PLA, IMP, 4}, {"ADC", ADC, IMM, 2}, {"ROR", ROR, IMP, 2}, {"???", XXX, IMP, 2}, // 68
	{"JMP", JMP, IND, 5}, {"ADC", ADC, ABS, 4}, {"ROR", ROR, ABS, 6}, {"???", XXX, IMP, 6}, // 6C
	{"BVS", BVS, REL, 2}, {"ADC", ADC, IZY, 5}, {"???", XXX, IMP, 2}, {"???", XXX, IMP, 8}, // 70
	{"*NOP", NOP, ZPX, 4}, {"ADC", ADC, ZPX, 4}, {"ROR", ROR, ZPX, 6}, {"???", XXX, IMP, 6}, // 74
	{"SEI", SEI, IMP, 2}, {"ADC", ADC, ABY, 4}, {"*NOP", NOP, IMP, 2}, {"???", XXX, IMP, 7}, // 78
	{"*NOP", NOP, ABX, 4}, {"ADC", ADC, ABX, 4}, {"ROR", ROR, ABX, 7}, {"???", XXX, IMP, 7}, // 7C
	{"*NOP", NOP, IMM, 2}, {"STA", STA, IZX, 6}, {"*NOP", NOP, IMM, 2}, {"???", XXX, IMP, 6}, // 80
	{"STY", STY, ZP0, 3}, {"STA", STA, ZP0, 3}, {"STX", STX, ZP0, 3}, {"???", XXX, IMP, 3}, // 84
	{"DEY", DEY, IMP, 2}, {"*NOP", NOP, IMM, 2}, {"TXA", TXA, IMP, 2}, {"???", XXX, IMP, 2}, // 88
	{"STY", STY, ABS, 4}, {"STA", STA, ABS, 4}, {"STX", STX, ABS, 4}, {"???", XXX, IMP, 4}, // 8C
	{"BCC", BCC, REL, 2}, {"STA", STA, IZY, 6}, {"???", XXX, IMP, 2}, {"???", XXX, IMP, 6}, // 90
	{"STY", STY, ZPX, 4}, {"STA", STA, ZPX, 4}, {"STX", STX, ZPY, 4}, {"???", XXX, IMP, 4}, // 94
	{"TYA", TYA, IMP, 2}, {"STA", STA, ABY, 5}, {"TXS", TXS, IMP, 2}, {"???", XXX, IMP, 5}, // 98
	{"*NOP", NOP, ABX, 5}, {"STA", STA, ABX, 5}, {"???", XXX, IMP, 5}, {"???", XXX, IMP, 5}, // 9C
	{"LDY", LDY, IMM, 2}, {"LDA", LDA, IZX, 6}, {"LDX", LDX, IMM, 2}, {"???", XXX, IMP, 6}, // A0
	{"LDY", LDY, ZP0, 3}, {"LDA", LDA, ZP0, 3}, {"LDX", LDX, ZP0, 3}, {"???", XXX, IMP, 3}, // A4
	{"TAY", TAY, IMP, 2}, {"LDA", LDA, IMM, 2}, {"TAX", TAX, IMP, 2}, {"???", XXX, IMP, 2}, // A8
	{"LDY", LDY, ABS, 4}, {"LDA", LDA, ABS, 4}, {"LDX", LDX, ABS, 4}, {"???", XXX, IMP, 4}, // AC
	{"BCS", BCS, REL, 2}, {"LDA", LDA, IZY, 5}, {"???", XXX, IMP, 2}, {"???", XXX, IMP, 5}, // B0
	{"LDY", LDY, ZPX, 4}, {"LDA", LDA, ZPX, 4}, {"LDX", LDX, ZPY, 4}, {"???", XXX, IMP, 4}, // B4
	{"CLV", CLV, IMP, 2}, {"LDA", LDA, ABY, 4}, {"TSX", TSX, IMP, 2}, {"???", XXX, IMP, 4}, // B8
	{"LDY", LDY, ABX, 4}, {"LDA", LDA, ABX, 4}, {"LDX", LDX, ABY, 4}, {"???", XXX, IMP, 4}, // BC
	{"CPY", CPY, IMM, 2}, {"CMP", CMP, IZX, 6}, {"*NOP", NOP, IMM, 2}, {"???", XXX, IMP, 8}, // C0
	{"CPY", CPY, ZP0, 3}, {"CMP", CMP, ZP0, 3}, {"DEC", DEC, ZP0, 5}, {"???", XXX, IMP, 5}, // C4
	{"INY", INY, IMP, 2}, {"CMP", CMP, IMM, 2}, {"DEX", DEX, IMP, 2}, {"???", XXX, IMP, 2}, // C8
	{"CPY", CPY, ABS, 4}, {"CMP", CMP, ABS, 4}, {"DEC", DEC, ABS, 6}, {"???", XXX, IMP, 6}, // CC
	{"BNE", BNE, REL, 2}, {"CMP", CMP, IZY, 5}, {"???", XXX, IMP, 2}, {"???", XXX, IMP, 8}, // D0
	{"*NOP", NOP, ZPX, 4}, {"CMP", CMP, ZPX, 4}, {"DEC", DEC, ZPX, 6}, {"???", XXX, IMP, 6}, // D4
	{"CLD", CLD, IMP, 2}, {"CMP", CMP, ABY, 4}, {"*NOP", NOP, IMP, 2}, {"???", XXX, IMP, 7}, // D8
	{"*NOP", NOP, ABX, 4}, {"CMP", CMP, ABX, 4}, {"DEC", DEC, ABX, 7}, {"???", XXX, IMP, 7}, // DC
	{"CPX", CPX, IMM, 2}, {"SBC", SBC, IZX, 6}, {"*NOP", NOP, IMM, 2}, {"???", XXX, IMP, 8}, // E0
	{"CPX", CPX, ZP0, 3}, {"SBC", SBC, ZP0, 3}, {"INC", INC, ZP0, 5}, {"???", XXX, IMP, 5}, // E4
	{"INX", INX, IMP, 2}, {"SBC", SBC, IMM, 2}, {"NOP", NOP, IMP, 2}, {"*SBC", SBC, IMM, 2}, // E8
	{"CPX", CPX, ABS, 4}, {"SBC", SBC, ABS, 4}, {"INC", INC, ABS, 6}, {"???", XXX, IMP, 6}, // EC
	{"BEQ", BEQ, REL, 2}, {"SBC", SBC, IZY, 5}, {"???", XXX, IMP, 2}, {"???", XXX, IMP, 8}, // F0
	{"*NOP", NOP, ZPX, 4}, {"SBC", SBC, ZPX, 4}, {"INC", INC, ZPX, 6}, {"???", XXX, IMP, 6}, // F4
	{"SED", SED, IMP, 2}, {"SBC", SBC, ABY, 4}, {"*NOP", NOP, IMP, 2}, {"???", XXX, IMP, 7}, // F8
	{"*NOP", NOP, ABX, 4}, {"SBC", SBC, ABX, 4}, {"INC", INC, ABX, 7}, {"???", XXX, IMP, 7}, // FC
}
