// desktop is a graphical front panel for the virtual CPU: it steps
// through the compiled expression and shows registers, flags and the
// evaluation stack, with the current line highlighted in the listing.
//
// Keys: space toggles run/pause, S steps one instruction while paused,
// R reloads the program from the start.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"exprcpu/pkg/asm"
	"exprcpu/pkg/compiler"
	"exprcpu/pkg/cpu"
)

const (
	screenWidth  = 480
	screenHeight = 360

	// Slow enough to watch the stack discipline happen.
	stepsPerFrame = 1
	framesPerStep = 30
)

type Game struct {
	vm      *cpu.CPU
	code    []byte
	listing []string
	srcMap  map[uint16]int

	running    bool
	frameCount int
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.running = !g.running
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) && !g.running {
		g.vm.Step()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.vm.LoadProgram(g.code); err != nil {
			return err
		}
		g.running = false
	}

	if g.running && !g.vm.Halted {
		g.frameCount++
		if g.frameCount >= framesPerStep {
			g.frameCount = 0
			for i := 0; i < stepsPerFrame; i++ {
				g.vm.Step()
			}
		}
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	vm := g.vm

	status := "paused (space: run, s: step, r: reset)"
	if g.running {
		status = "running (space: pause)"
	}
	if vm.Halted {
		status = fmt.Sprintf("halted, result = %d", int16(vm.Regs[cpu.RegA]))
		if vm.Fault {
			status = "fault (division by zero?)"
		}
	}
	ebitenutil.DebugPrintAt(screen, status, 8, 8)

	regs := fmt.Sprintf("R0=%04X R1=%04X R2=%04X R3=%04X\nPC=%04X SP=%04X  Z=%v N=%v C=%v",
		vm.Regs[0], vm.Regs[1], vm.Regs[2], vm.Regs[3], vm.PC, vm.SP, vm.Z, vm.N, vm.C)
	ebitenutil.DebugPrintAt(screen, regs, 8, 32)

	ebitenutil.DebugPrintAt(screen, "stack:\n"+g.stackText(), 320, 72)
	ebitenutil.DebugPrintAt(screen, g.listingText(), 8, 72)
}

// stackText renders the live words of the evaluation stack, top first.
// SP grows down from the top of memory, so an empty stack is SP=0.
func (g *Game) stackText() string {
	var b strings.Builder
	depth := int(-g.vm.SP) / 2
	for i := 0; i < depth && i < 8; i++ {
		addr := g.vm.SP + uint16(2*i)
		fmt.Fprintf(&b, "%04X: %d\n", addr, int16(g.vm.Read16(addr)))
	}
	if depth == 0 {
		b.WriteString("(empty)\n")
	}
	return b.String()
}

// listingText marks the line the CPU will execute next.
func (g *Game) listingText() string {
	current, ok := g.srcMap[g.vm.PC]
	var b strings.Builder
	for i, line := range g.listing {
		marker := "  "
		if ok && i+1 == current && !g.vm.Halted {
			marker = "> "
		}
		b.WriteString(marker + line + "\n")
	}
	return b.String()
}

func main() {
	expr := "(2+3)*4-6/2"
	if len(os.Args) > 1 {
		expr = os.Args[1]
	}

	assembly, err := compiler.Translate(expr)
	if err != nil {
		log.Fatalf("compilation failed: %v", err)
	}
	code, srcMap, err := asm.Assemble(assembly)
	if err != nil {
		log.Fatalf("assembly failed: %v", err)
	}

	vm := cpu.New()
	if err := vm.LoadProgram(code); err != nil {
		log.Fatalf("load failed: %v", err)
	}

	game := &Game{
		vm:      vm,
		code:    code,
		listing: strings.Split(strings.TrimRight(assembly, "\n"), "\n"),
		srcMap:  srcMap,
	}

	ebiten.SetWindowSize(screenWidth*2, screenHeight*2)
	ebiten.SetWindowTitle("exprcpu - " + expr)
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}
