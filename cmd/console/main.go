// console compiles an expression, runs it on the virtual CPU and
// prints the result from the accumulator.
package main

import (
	"fmt"
	"log"
	"os"

	"exprcpu/pkg/compiler"
	"exprcpu/pkg/cpu"
)

const runLimit = 10000

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: console <expression> [--show-asm]")
		os.Exit(2)
	}
	expr := os.Args[1]
	showAsm := false
	for _, arg := range os.Args[2:] {
		showAsm = arg == "--show-asm"
	}

	assembly, code, err := compiler.Compile(expr)
	if err != nil {
		if assembly != "" {
			log.Print("emitted before failure:\n", assembly)
		}
		log.Fatalf("compilation failed: %v", err)
	}

	if showAsm {
		fmt.Print("Generated Assembly:\n", assembly, "\n")
	}

	vm := cpu.New()
	if err := vm.LoadProgram(code); err != nil {
		log.Fatalf("load failed: %v", err)
	}
	vm.Run(runLimit)
	if vm.Fault {
		log.Fatalf("CPU fault at PC=%04X (division by zero?)", vm.PC)
	}
	if !vm.Halted {
		log.Fatalf("program did not halt within %d steps", runLimit)
	}

	fmt.Printf("%s = %d\n", expr, int16(vm.Regs[cpu.RegA]))
}
