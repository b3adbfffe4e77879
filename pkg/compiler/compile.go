package compiler

import (
	"fmt"
	"strings"

	"exprcpu/pkg/asm"
)

// Translate parses a single expression from src and returns the
// generated assembly, terminated with HLT so it runs as a complete
// program. On a syntax error the text emitted up to that point is
// returned alongside the error; one-pass emission has no rollback.
func Translate(src string) (string, error) {
	cg := newCodeGen()
	cg.comment("compiled from %q", strings.TrimRight(src, "\r\n"))

	p := NewParser(src, cg)
	if err := p.Expression(); err != nil {
		return cg.String(), err
	}
	if err := p.endOfInput(); err != nil {
		return cg.String(), err
	}

	cg.line("    HLT")
	return cg.String(), nil
}

// Compile translates src and assembles the result, returning both the
// assembly text and the machine code.
func Compile(src string) (string, []byte, error) {
	assembly, err := Translate(src)
	if err != nil {
		return assembly, nil, err
	}

	code, _, err := asm.Assemble(assembly)
	if err != nil {
		return assembly, nil, fmt.Errorf("assemble: %w", err)
	}

	return assembly, code, nil
}
