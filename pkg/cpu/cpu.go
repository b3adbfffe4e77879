package cpu

import "fmt"

// Opcodes. Each instruction occupies one 16-bit word; LDI is followed by
// a second word holding the immediate.
const (
	OpHLT  uint16 = 0x00
	OpNOP  uint16 = 0x01
	OpLDI  uint16 = 0x02
	OpMOV  uint16 = 0x03
	OpPUSH uint16 = 0x04
	OpPOP  uint16 = 0x05
	OpADD  uint16 = 0x06
	OpSUB  uint16 = 0x07
	OpNEG  uint16 = 0x08
	OpMUL  uint16 = 0x09
	OpXCHG uint16 = 0x0A
	OpSXT  uint16 = 0x0B
	OpDIVW uint16 = 0x0C
)

// Register indices. R0 is the accumulator, R1 the secondary scratch
// register. R2 is the fixed high half of the wide dividend pair R2:R0
// used by SXT/DIVW.
const (
	RegA uint16 = 0
	RegB uint16 = 1
	RegC uint16 = 2
	RegD uint16 = 3
)

// CPU is a small 16-bit register machine. The evaluation stack for
// compiled expressions lives in Memory and grows down through SP.
type CPU struct {
	Regs [4]uint16

	PC uint16
	SP uint16

	Z bool
	N bool
	C bool

	Halted bool
	// Fault is set together with Halted when an instruction cannot
	// complete, e.g. division by zero or an unknown opcode.
	Fault bool

	Memory [65536]byte
}

func New() *CPU {
	return &CPU{}
}

// Reset clears registers, flags and the halt state. SP starts at 0 so
// the first push wraps around to the top word of memory.
func (c *CPU) Reset() {
	c.Regs = [4]uint16{}
	c.PC = 0
	c.SP = 0
	c.Z, c.N, c.C = false, false, false
	c.Halted = false
	c.Fault = false
}

// LoadProgram resets the CPU and copies code to address 0.
func (c *CPU) LoadProgram(code []byte) error {
	if len(code) > len(c.Memory) {
		return fmt.Errorf("program of %d bytes does not fit in %d bytes of memory", len(code), len(c.Memory))
	}
	c.Reset()
	c.Memory = [65536]byte{}
	copy(c.Memory[:], code)
	return nil
}

func (c *CPU) reg(idx uint16) *uint16 {
	return &c.Regs[idx&3]
}

func (c *CPU) updateFlags(result uint16) {
	c.Z = result == 0
	c.N = result&0x8000 != 0
}

// Read16 reads a little-endian word from memory.
func (c *CPU) Read16(addr uint16) uint16 {
	lo := uint16(c.Memory[addr])
	hi := uint16(c.Memory[addr+1])
	return lo | hi<<8
}

// Write16 writes a little-endian word to memory.
func (c *CPU) Write16(addr uint16, val uint16) {
	c.Memory[addr] = byte(val & 0xFF)
	c.Memory[addr+1] = byte(val >> 8)
}

// EncodeInstruction packs an opcode and two register operands into one
// instruction word.
func EncodeInstruction(opcode, regA, regB uint16) uint16 {
	return opcode<<10 | (regA&0x07)<<7 | (regB&0x07)<<4
}

// Step fetches, decodes and executes a single instruction. It is a
// no-op once the CPU has halted.
func (c *CPU) Step() {
	if c.Halted {
		return
	}

	instr := c.Read16(c.PC)
	c.PC += 2

	opcode := (instr >> 10) & 0x3F
	regA := (instr >> 7) & 0x07
	regB := (instr >> 4) & 0x07

	switch opcode {
	case OpHLT:
		c.Halted = true

	case OpNOP:
		// No operation.

	case OpLDI:
		imm := c.Read16(c.PC)
		c.PC += 2
		*c.reg(regA) = imm

	case OpMOV:
		*c.reg(regA) = *c.reg(regB)

	case OpPUSH:
		c.SP -= 2
		c.Write16(c.SP, *c.reg(regA))

	case OpPOP:
		*c.reg(regA) = c.Read16(c.SP)
		c.SP += 2

	case OpADD:
		valA := uint32(*c.reg(regA))
		valB := uint32(*c.reg(regB))
		res32 := valA + valB
		result := uint16(res32)
		c.C = res32 > 0xFFFF
		*c.reg(regA) = result
		c.updateFlags(result)

	case OpSUB:
		valA := *c.reg(regA)
		valB := *c.reg(regB)
		result := valA - valB
		c.C = valA < valB
		*c.reg(regA) = result
		c.updateFlags(result)

	case OpNEG:
		result := -*c.reg(regA)
		*c.reg(regA) = result
		c.updateFlags(result)

	case OpMUL:
		result := *c.reg(regA) * *c.reg(regB)
		*c.reg(regA) = result
		c.updateFlags(result)

	case OpXCHG:
		a, b := c.reg(regA), c.reg(regB)
		*a, *b = *b, *a

	case OpSXT:
		// regA receives the sign fill of regB, making regA:regB a
		// sign-extended 32-bit value.
		if int16(*c.reg(regB)) < 0 {
			*c.reg(regA) = 0xFFFF
		} else {
			*c.reg(regA) = 0
		}

	case OpDIVW:
		// Signed 32/16 division of the pair R2:regA by regB.
		// Quotient goes to regA, remainder to R2.
		divisor := int16(*c.reg(regB))
		if divisor == 0 {
			*c.reg(regA) = 0
			c.Fault = true
			c.Halted = true
			return
		}
		dividend := int32(uint32(c.Regs[RegC])<<16 | uint32(*c.reg(regA)))
		quotient := dividend / int32(divisor)
		remainder := dividend % int32(divisor)
		*c.reg(regA) = uint16(quotient)
		c.Regs[RegC] = uint16(remainder)
		c.updateFlags(uint16(quotient))

	default:
		c.Fault = true
		c.Halted = true
	}
}

// Run steps the CPU until it halts or limit instructions have executed,
// and returns the number of instructions executed.
func (c *CPU) Run(limit int) int {
	steps := 0
	for !c.Halted && steps < limit {
		c.Step()
		steps++
	}
	return steps
}
