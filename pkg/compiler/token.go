package compiler

// Character classifiers. Tokens are single bytes, classified on demand
// against the current lookahead; there is no separate lexing pass.

// isAlpha reports whether c is an ASCII letter.
func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// isDigit reports whether c is a decimal digit.
func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// isAddop reports whether c is an additive operator.
func isAddop(c byte) bool {
	return c == '+' || c == '-'
}

// isMulop reports whether c is a multiplicative operator.
func isMulop(c byte) bool {
	return c == '*' || c == '/'
}
