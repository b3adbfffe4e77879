// Package asm translates textual machine instructions into binary code
// for the exprcpu register machine. The instruction set is straight-line
// (no jumps), so assembly is a single pass with no label table.
package asm

import (
	"fmt"
	"strconv"
	"strings"

	"exprcpu/pkg/cpu"
)

var zeroOperandOps = map[string]uint16{
	"HLT": cpu.OpHLT,
	"NOP": cpu.OpNOP,
}

var oneRegisterOps = map[string]uint16{
	"PUSH": cpu.OpPUSH,
	"POP":  cpu.OpPOP,
	"NEG":  cpu.OpNEG,
}

var twoRegisterOps = map[string]uint16{
	"MOV":  cpu.OpMOV,
	"ADD":  cpu.OpADD,
	"SUB":  cpu.OpSUB,
	"MUL":  cpu.OpMUL,
	"XCHG": cpu.OpXCHG,
	"SXT":  cpu.OpSXT,
	"DIVW": cpu.OpDIVW,
}

var regAndImmediateOps = map[string]uint16{
	"LDI": cpu.OpLDI,
}

type parsedLine struct {
	lineNo   int
	mnemonic string
	operands []string
}

// parseLine splits one raw source line into mnemonic and operands.
// Comments start with ';' and run to end of line. A blank or
// comment-only line yields an empty mnemonic.
func parseLine(raw string, lineNo int) parsedLine {
	p := parsedLine{lineNo: lineNo}

	line := raw
	if idx := strings.Index(line, ";"); idx != -1 {
		line = line[:idx]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return p
	}

	fields := strings.Fields(line)
	p.mnemonic = strings.ToUpper(fields[0])
	rest := strings.TrimSpace(line[len(fields[0]):])
	if rest != "" {
		for _, op := range strings.Split(rest, ",") {
			p.operands = append(p.operands, strings.TrimSpace(op))
		}
	}
	return p
}

func parseRegister(s string, lineNo int) (uint16, error) {
	up := strings.ToUpper(s)
	if len(up) == 2 && up[0] == 'R' && up[1] >= '0' && up[1] <= '3' {
		return uint16(up[1] - '0'), nil
	}
	return 0, fmt.Errorf("invalid register %q on line %d", s, lineNo)
}

// parseImmediate accepts decimal or 0x-prefixed hex, signed values
// included, as long as the result fits in one machine word.
func parseImmediate(s string, lineNo int) (uint16, error) {
	val, err := strconv.ParseInt(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid immediate %q on line %d", s, lineNo)
	}
	if val < -32768 || val > 65535 {
		return 0, fmt.Errorf("immediate %q out of range on line %d", s, lineNo)
	}
	return uint16(val), nil
}

func emitWord(program []byte, word uint16) []byte {
	return append(program, byte(word&0xFF), byte(word>>8))
}

// Assemble converts assembly source into little-endian machine code.
// It also returns a source map from byte offset of each encoded
// instruction to its 1-based source line.
func Assemble(code string) ([]byte, map[uint16]int, error) {
	program := make([]byte, 0)
	sourceMap := make(map[uint16]int)

	for i, raw := range strings.Split(code, "\n") {
		lineNo := i + 1
		p := parseLine(raw, lineNo)
		if p.mnemonic == "" {
			continue
		}

		sourceMap[uint16(len(program))] = lineNo

		if opcode, ok := zeroOperandOps[p.mnemonic]; ok {
			if len(p.operands) != 0 {
				return nil, nil, fmt.Errorf("%s expects 0 operands on line %d", p.mnemonic, lineNo)
			}
			program = emitWord(program, cpu.EncodeInstruction(opcode, 0, 0))
			continue
		}

		if opcode, ok := oneRegisterOps[p.mnemonic]; ok {
			if len(p.operands) != 1 {
				return nil, nil, fmt.Errorf("%s expects 1 operand on line %d", p.mnemonic, lineNo)
			}
			regA, err := parseRegister(p.operands[0], lineNo)
			if err != nil {
				return nil, nil, err
			}
			program = emitWord(program, cpu.EncodeInstruction(opcode, regA, 0))
			continue
		}

		if opcode, ok := twoRegisterOps[p.mnemonic]; ok {
			if len(p.operands) != 2 {
				return nil, nil, fmt.Errorf("%s expects 2 operands on line %d", p.mnemonic, lineNo)
			}
			regA, err := parseRegister(p.operands[0], lineNo)
			if err != nil {
				return nil, nil, err
			}
			regB, err := parseRegister(p.operands[1], lineNo)
			if err != nil {
				return nil, nil, err
			}
			program = emitWord(program, cpu.EncodeInstruction(opcode, regA, regB))
			continue
		}

		if opcode, ok := regAndImmediateOps[p.mnemonic]; ok {
			if len(p.operands) != 2 {
				return nil, nil, fmt.Errorf("%s expects 2 operands on line %d", p.mnemonic, lineNo)
			}
			regA, err := parseRegister(p.operands[0], lineNo)
			if err != nil {
				return nil, nil, err
			}
			imm, err := parseImmediate(p.operands[1], lineNo)
			if err != nil {
				return nil, nil, err
			}
			program = emitWord(program, cpu.EncodeInstruction(opcode, regA, 0))
			program = emitWord(program, imm)
			continue
		}

		return nil, nil, fmt.Errorf("unknown instruction on line %d: %s", lineNo, p.mnemonic)
	}

	return program, sourceMap, nil
}
