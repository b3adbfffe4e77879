// exprc prints each stage of the translation: source, emitted
// assembly, machine code. Useful when poking at the code generator.
package main

import (
	"bufio"
	"fmt"
	"os"

	"exprcpu/pkg/compiler"
)

const demoExpression = "(2+3)*4"

func main() {
	src := demoExpression
	if len(os.Args) > 1 {
		src = os.Args[1]
	} else if stat, err := os.Stdin.Stat(); err == nil && stat.Mode()&os.ModeCharDevice == 0 {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(os.Stderr, "read error:", err)
			os.Exit(1)
		}
		src = line
	}

	fmt.Printf("Source: %q\n\n", src)

	assembly, code, err := compiler.Compile(src)
	if err != nil {
		if assembly != "" {
			fmt.Fprintln(os.Stderr, "emitted before failure:")
			fmt.Fprint(os.Stderr, assembly)
		}
		fmt.Fprintln(os.Stderr, "compile error:", err)
		os.Exit(1)
	}

	fmt.Println("Generated Assembly")
	fmt.Print(assembly)
	fmt.Println()

	fmt.Printf("Machine Code (%d bytes)\n", len(code))
	for i := 0; i < len(code); i += 2 {
		word := uint16(code[i]) | uint16(code[i+1])<<8
		fmt.Printf("  %04X: %04X\n", i, word)
	}
}
