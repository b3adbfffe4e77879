package compiler

// Parser holds the whole translation state: the input cursor and the
// single lookahead byte. There is no token stream and no AST; each
// grammar method recognizes its production and emits instructions
// through cg in the same pass.
//
// Grammar:
//
//	expression = [addop] term (addop term)*
//	term       = factor (mulop factor)*
//	factor     = DIGIT | "(" expression ")"
//
// Every grammar method starts with the lookahead on the first byte of
// its production and leaves it on the first byte after it, with the
// computed value in R0. Intermediate left operands survive on the
// runtime stack of the generated program, never in the parser.
type Parser struct {
	src  []byte
	pos  int  // index of the next byte to consume
	look byte // current lookahead; 0 once eof is set
	eof  bool

	cg *CodeGen
}

// NewParser primes the lookahead with the first input byte.
func NewParser(src string, cg *CodeGen) *Parser {
	p := &Parser{src: []byte(src), cg: cg}
	p.advance()
	return p
}

// advance moves the next input byte into the lookahead. Only match,
// getNum and getName call it once parsing has begun, so the lookahead
// never holds an already consumed byte.
func (p *Parser) advance() {
	if p.pos >= len(p.src) {
		p.look = 0
		p.eof = true
		return
	}
	p.look = p.src[p.pos]
	p.pos++
}

func (p *Parser) syntaxError(expected string) *SyntaxError {
	return &SyntaxError{Expected: expected, Found: p.look, EOF: p.eof}
}

// match consumes the expected byte or fails.
func (p *Parser) match(expected byte) error {
	if p.eof || p.look != expected {
		return p.syntaxError("'" + string(expected) + "'")
	}
	p.advance()
	return nil
}

// getNum consumes and returns a single digit.
func (p *Parser) getNum() (byte, error) {
	if p.eof || !isDigit(p.look) {
		return 0, p.syntaxError("number")
	}
	d := p.look
	p.advance()
	return d, nil
}

// getName consumes and returns a single letter, uppercased. The
// expression grammar has no identifiers yet; this is the matcher half
// of that future production.
func (p *Parser) getName() (byte, error) {
	if p.eof || !isAlpha(p.look) {
		return 0, p.syntaxError("name")
	}
	n := p.look
	if n >= 'a' && n <= 'z' {
		n = n - 'a' + 'A'
	}
	p.advance()
	return n, nil
}

// factor handles a parenthesized sub-expression or a single digit.
func (p *Parser) factor() error {
	if p.look == '(' {
		if err := p.match('('); err != nil {
			return err
		}
		if err := p.Expression(); err != nil {
			return err
		}
		return p.match(')')
	}

	d, err := p.getNum()
	if err != nil {
		return err
	}
	p.cg.line("    LDI R0, %c", d)
	return nil
}

// multiply handles "* factor" with the left operand on the stack.
func (p *Parser) multiply() error {
	if err := p.match('*'); err != nil {
		return err
	}
	if err := p.factor(); err != nil {
		return err
	}
	p.cg.line("    POP R1")
	p.cg.line("    MUL R0, R1")
	return nil
}

// divide handles "/ factor" with the left operand on the stack. The
// dividend has to end up in R0 before the divide, so the popped left
// operand and the right operand in R0 are exchanged first, then R0 is
// sign-extended into the wide pair R2:R0 for the 32/16 division.
func (p *Parser) divide() error {
	if err := p.match('/'); err != nil {
		return err
	}
	if err := p.factor(); err != nil {
		return err
	}
	p.cg.line("    POP R1")
	p.cg.line("    XCHG R0, R1")
	p.cg.line("    SXT R2, R0")
	p.cg.line("    DIVW R0, R1")
	return nil
}

// term binds tighter than expression: all mulops are resolved into R0
// here before any addop is applied to the result.
func (p *Parser) term() error {
	if err := p.factor(); err != nil {
		return err
	}
	for !p.eof && isMulop(p.look) {
		p.cg.line("    PUSH R0")
		switch p.look {
		case '*':
			if err := p.multiply(); err != nil {
				return err
			}
		case '/':
			if err := p.divide(); err != nil {
				return err
			}
		}
	}
	return nil
}

// add handles "+ term" with the left operand on the stack.
func (p *Parser) add() error {
	if err := p.match('+'); err != nil {
		return err
	}
	if err := p.term(); err != nil {
		return err
	}
	p.cg.line("    POP R1")
	p.cg.line("    ADD R0, R1")
	return nil
}

// subtract handles "- term" with the left operand on the stack. After
// the pop the operands sit reversed (left in R1, right in R0), so it
// computes right-left and negates to get left-right.
func (p *Parser) subtract() error {
	if err := p.match('-'); err != nil {
		return err
	}
	if err := p.term(); err != nil {
		return err
	}
	p.cg.line("    POP R1")
	p.cg.line("    SUB R0, R1")
	p.cg.line("    NEG R0")
	return nil
}

// Expression recognizes one full expression and leaves its value in
// R0. A leading addop stands for a zero first term, so "-2" compiles
// as "0-2".
func (p *Parser) Expression() error {
	if !p.eof && isAddop(p.look) {
		p.cg.line("    LDI R0, 0")
	} else {
		if err := p.term(); err != nil {
			return err
		}
	}
	for !p.eof && isAddop(p.look) {
		p.cg.line("    PUSH R0")
		switch p.look {
		case '+':
			if err := p.add(); err != nil {
				return err
			}
		case '-':
			if err := p.subtract(); err != nil {
				return err
			}
		}
	}
	return nil
}

// endOfInput verifies nothing follows the expression but an optional
// trailing newline.
func (p *Parser) endOfInput() error {
	if p.look == '\r' {
		p.advance()
	}
	if p.look == '\n' {
		p.advance()
	}
	if !p.eof {
		return p.syntaxError("end of input")
	}
	return nil
}
