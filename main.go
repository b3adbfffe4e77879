//go:build !js

package main

import (
	"flag"
	"fmt"
	"os"

	"exprcpu/pkg/compiler"
	"exprcpu/pkg/cpu"
)

const runLimit = 10000

func main() {
	outPath := flag.String("out", "", "write the machine code to this file")
	showAsm := flag.Bool("asm", false, "print the generated assembly")
	noRun := flag.Bool("norun", false, "compile only, do not execute")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: exprcpu [-asm] [-norun] [-out file.bin] <expression>")
		os.Exit(2)
	}
	expr := flag.Arg(0)

	assembly, code, err := compiler.Compile(expr)
	if err != nil {
		if assembly != "" {
			fmt.Fprint(os.Stderr, assembly)
		}
		fmt.Fprintf(os.Stderr, "compilation failed: %v\n", err)
		os.Exit(1)
	}

	if *showAsm {
		fmt.Print(assembly)
	}

	if *outPath != "" {
		if err := os.WriteFile(*outPath, code, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write %q: %v\n", *outPath, err)
			os.Exit(1)
		}
	}

	if *noRun {
		return
	}

	vm := cpu.New()
	if err := vm.LoadProgram(code); err != nil {
		fmt.Fprintf(os.Stderr, "load failed: %v\n", err)
		os.Exit(1)
	}
	vm.Run(runLimit)
	if vm.Fault {
		fmt.Fprintf(os.Stderr, "CPU fault at PC=%04X\n", vm.PC)
		os.Exit(1)
	}

	fmt.Printf("%s = %d\n", expr, int16(vm.Regs[cpu.RegA]))
}
