package compiler

import "fmt"

// SyntaxError reports the first input byte that does not fit the
// expression grammar. There is no recovery: the parse stops where the
// error was raised, and instructions emitted before it stay emitted.
type SyntaxError struct {
	Expected string // what the grammar required, e.g. "')'" or "number"
	Found    byte   // the offending lookahead byte; unset when EOF
	EOF      bool
}

func (e *SyntaxError) Error() string {
	if e.EOF {
		return fmt.Sprintf("expected %s but found end of input", e.Expected)
	}
	return fmt.Sprintf("expected %s but found %q", e.Expected, e.Found)
}
