package compiler

import (
	"fmt"
	"strings"
)

// CodeGen collects emitted assembly text. The recognizer calls line
// once per instruction as each production is recognized; output order
// is emission order and nothing is retained beyond the text itself.
type CodeGen struct {
	out strings.Builder
}

func newCodeGen() *CodeGen {
	return &CodeGen{}
}

func (cg *CodeGen) line(format string, args ...any) {
	fmt.Fprintf(&cg.out, format+"\n", args...)
}

func (cg *CodeGen) comment(format string, args ...any) {
	cg.line("; "+format, args...)
}

func (cg *CodeGen) String() string {
	return cg.out.String()
}
