package compiler

import (
	"regexp"
	"strings"
	"testing"

	"github.com/renstrom/dedent"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/require"
)

var reNL = regexp.MustCompile(`(?m)^`)

func diff(l, r string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(l, r, false)
	pretty := dmp.DiffPrettyText(diffs)
	return reNL.ReplaceAllLiteralString(pretty, "\t")
}

func TestTranslate_Golden(t *testing.T) {
	type testrow struct {
		Source   string
		Expected string
	}

	data := []testrow{
		{
			Source: "7",
			Expected: `
			; compiled from "7"
			    LDI R0, 7
			    HLT
			`,
		},
		{
			Source: "2+3",
			Expected: `
			; compiled from "2+3"
			    LDI R0, 2
			    PUSH R0
			    LDI R0, 3
			    POP R1
			    ADD R0, R1
			    HLT
			`,
		},
		{
			Source: "9-3",
			Expected: `
			; compiled from "9-3"
			    LDI R0, 9
			    PUSH R0
			    LDI R0, 3
			    POP R1
			    SUB R0, R1
			    NEG R0
			    HLT
			`,
		},
		{
			Source: "2*3",
			Expected: `
			; compiled from "2*3"
			    LDI R0, 2
			    PUSH R0
			    LDI R0, 3
			    POP R1
			    MUL R0, R1
			    HLT
			`,
		},
		{
			Source: "8/2",
			Expected: `
			; compiled from "8/2"
			    LDI R0, 8
			    PUSH R0
			    LDI R0, 2
			    POP R1
			    XCHG R0, R1
			    SXT R2, R0
			    DIVW R0, R1
			    HLT
			`,
		},
		{
			// Multiplication must fully resolve into R0 before the
			// addition starts.
			Source: "2*3+4",
			Expected: `
			; compiled from "2*3+4"
			    LDI R0, 2
			    PUSH R0
			    LDI R0, 3
			    POP R1
			    MUL R0, R1
			    PUSH R0
			    LDI R0, 4
			    POP R1
			    ADD R0, R1
			    HLT
			`,
		},
		{
			// The parenthesized sum is completed before it becomes the
			// left operand of the multiply.
			Source: "(2+3)*4",
			Expected: `
			; compiled from "(2+3)*4"
			    LDI R0, 2
			    PUSH R0
			    LDI R0, 3
			    POP R1
			    ADD R0, R1
			    PUSH R0
			    LDI R0, 4
			    POP R1
			    MUL R0, R1
			    HLT
			`,
		},
		{
			// Left associativity: the SUB/NEG pattern appears twice in
			// left-to-right order, computing (9-3)-2.
			Source: "9-3-2",
			Expected: `
			; compiled from "9-3-2"
			    LDI R0, 9
			    PUSH R0
			    LDI R0, 3
			    POP R1
			    SUB R0, R1
			    NEG R0
			    PUSH R0
			    LDI R0, 2
			    POP R1
			    SUB R0, R1
			    NEG R0
			    HLT
			`,
		},
		{
			// A leading addop stands for a zero first term.
			Source: "-2",
			Expected: `
			; compiled from "-2"
			    LDI R0, 0
			    PUSH R0
			    LDI R0, 2
			    POP R1
			    SUB R0, R1
			    NEG R0
			    HLT
			`,
		},
	}

	for i, row := range data {
		actual, err := Translate(row.Source)
		if err != nil {
			t.Errorf("%s/%03d: error: %v", t.Name(), i, err)
			continue
		}
		expected := dedent.Dedent(row.Expected)[1:]
		if actual != expected {
			t.Errorf("%s/%03d: wrong output:\n%s", t.Name(), i, diff(expected, actual))
		}
	}
}

func TestTranslate_SingleDigits(t *testing.T) {
	for d := byte('0'); d <= '9'; d++ {
		asmText, err := Translate(string(d))
		require.NoError(t, err)
		require.Equal(t, 1, strings.Count(asmText, "LDI"), "source %q", d)
		require.Contains(t, asmText, "LDI R0, "+string(d))
		require.NotContains(t, asmText, "PUSH")
		require.NotContains(t, asmText, "POP")
	}
}

func TestTranslate_PushPopBalance(t *testing.T) {
	for _, src := range []string{"1+2", "5-3", "2*4", "8/2", "2*3+4", "(2+3)*4", "9-3-2", "1+2*3-4/2"} {
		asmText, err := Translate(src)
		require.NoError(t, err)
		pushes := strings.Count(asmText, "PUSH")
		pops := strings.Count(asmText, "POP")
		require.Equal(t, pushes, pops, "source %q:\n%s", src, asmText)

		// LIFO balance: scanning in emission order, a pop must never
		// outnumber the pushes before it.
		depth := 0
		for _, line := range strings.Split(asmText, "\n") {
			if strings.Contains(line, "PUSH") {
				depth++
			}
			if strings.Contains(line, "POP") {
				depth--
				require.GreaterOrEqual(t, depth, 0, "unbalanced pop in %q:\n%s", src, asmText)
			}
		}
		require.Equal(t, 0, depth, "source %q", src)
	}
}

func TestTranslate_TrailingNewlineAccepted(t *testing.T) {
	for _, src := range []string{"1+2", "1+2\n", "1+2\r\n"} {
		_, err := Translate(src)
		require.NoError(t, err, "source %q", src)
	}
}

func TestTranslate_SyntaxErrors(t *testing.T) {
	tests := []struct {
		src     string
		message string
	}{
		{"*3", `expected number but found '*'`},
		{"", "expected number but found end of input"},
		{"(2+3", `expected ')' but found end of input`},
		{"2+", "expected number but found end of input"},
		{"2+a", `expected number but found 'a'`},
		{"(2+3))", `expected end of input but found ')'`},
		{"1+2x", `expected end of input but found 'x'`},
		{"1 + 2", `expected end of input but found ' '`},
	}
	for _, tc := range tests {
		asmText, err := Translate(tc.src)
		require.Error(t, err, "source %q", tc.src)
		var serr *SyntaxError
		require.ErrorAs(t, err, &serr, "source %q", tc.src)
		require.EqualError(t, err, tc.message, "source %q", tc.src)

		// The failure point bounds the output: nothing the failed
		// production would emit may appear.
		if tc.src == "*3" {
			require.NotContains(t, asmText, "MUL")
			require.NotContains(t, asmText, "PUSH")
		}
	}
}

func TestTranslate_UnbalancedParenKeepsEmittedOutput(t *testing.T) {
	// The inner expression is fully parsed and emitted before the
	// missing ')' is noticed; one-pass emission has no rollback.
	asmText, err := Translate("(2+3")
	require.Error(t, err)
	require.Contains(t, asmText, "ADD R0, R1")
	require.NotContains(t, asmText, "HLT")
}

func TestGetName(t *testing.T) {
	p := NewParser("x", newCodeGen())
	n, err := p.getName()
	require.NoError(t, err)
	require.Equal(t, byte('X'), n)

	p = NewParser("5", newCodeGen())
	_, err = p.getName()
	require.EqualError(t, err, `expected name but found '5'`)
}
