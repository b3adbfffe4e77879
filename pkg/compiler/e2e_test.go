package compiler

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"exprcpu/pkg/cpu"
)

const runLimit = 10000

// runExpr compiles an expression, executes it on the CPU and returns
// the accumulator.
func runExpr(t *testing.T, expr string) int16 {
	t.Helper()
	_, code, err := Compile(expr)
	require.NoError(t, err, "source %q", expr)

	vm := cpu.New()
	require.NoError(t, vm.LoadProgram(code))
	vm.Run(runLimit)
	require.True(t, vm.Halted, "program for %q did not halt", expr)
	require.False(t, vm.Fault, "program for %q faulted", expr)
	return int16(vm.Regs[cpu.RegA])
}

func TestExpressions_E2E(t *testing.T) {
	tests := []struct {
		expr     string
		expected int16
	}{
		{"0", 0},
		{"9", 9},
		{"2+3", 5},
		{"9-3", 6},
		{"3-9", -6},
		{"6*7", 42},
		{"8/2", 4},
		{"7/2", 3},
		{"2*3+4", 10},
		{"2+3*4", 14},
		{"(2+3)*4", 20},
		{"9-3-2", 4},
		{"8/4/2", 1},
		{"1+2*3-4/2", 5},
		{"-2", -2},
		{"-2+5", 3},
		{"-7/2", -3},
		{"(0-7)/2", -3},
		{"((((5))))", 5},
		{"(1+2)*(3+4)", 21},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			if got := runExpr(t, tt.expr); got != tt.expected {
				t.Errorf("%s: expected %d, got %d", tt.expr, tt.expected, got)
			}
		})
	}
}

func TestSingleDigits_E2E(t *testing.T) {
	for d := 0; d <= 9; d++ {
		expr := fmt.Sprintf("%d", d)
		if got := runExpr(t, expr); got != int16(d) {
			t.Errorf("%s: expected %d, got %d", expr, d, got)
		}
	}
}

func TestDivisionByZero_E2E(t *testing.T) {
	// Compiles fine; the fault happens at runtime.
	_, code, err := Compile("5/0")
	require.NoError(t, err)

	vm := cpu.New()
	require.NoError(t, vm.LoadProgram(code))
	vm.Run(runLimit)
	require.True(t, vm.Fault)
	require.True(t, vm.Halted)
}

func TestStackRestored_E2E(t *testing.T) {
	// Every push is matched by a pop, so SP is back where it started
	// once the program halts.
	_, code, err := Compile("(1+2)*(3+4)-5/5")
	require.NoError(t, err)

	vm := cpu.New()
	require.NoError(t, vm.LoadProgram(code))
	vm.Run(runLimit)
	require.True(t, vm.Halted)
	require.Equal(t, uint16(0), vm.SP)
}
