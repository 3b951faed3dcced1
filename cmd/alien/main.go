// Command alien is Alien's primary entry point: it compiles and runs
// exactly one source file. Exit codes follow BSD sysexits: 64 for a
// usage error, 69 when the file cannot be opened, 0 otherwise — parse,
// compile and runtime errors print a diagnostic to stderr but still
// exit 0, per the language's error-handling contract.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"alien-vm/internal/chunk"
	"alien-vm/internal/compiler"
	"alien-vm/internal/config"
	"alien-vm/internal/diagnostics"
	"alien-vm/internal/heap"
	"alien-vm/internal/lexer"
	"alien-vm/internal/parser"
	"alien-vm/internal/vm"
)

const (
	exitUsage   = 64
	exitNoInput = 69
	exitOK      = 0
	alienYAML   = "alien.yaml"
)

func main() {
	cfg, cfgErr := config.Load(alienYAML)
	if cfgErr != nil {
		fmt.Fprintf(os.Stderr, "alien: %s\n", cfgErr)
		os.Exit(exitUsage)
	}

	disassemble := flag.Bool("disassemble", cfg.Disassemble, "print the compiled chunk tree before running")
	traceGC := flag.Bool("trace-gc", cfg.TraceGC, "log each garbage collection to stderr")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: alien [options] <source-file>\n\nOptions:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(exitUsage)
	}

	path := flag.Arg(0)
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "alien: %s\n", err)
		os.Exit(exitNoInput)
	}

	os.Exit(run(string(source), cfg, *disassemble, *traceGC))
}

func run(source string, cfg config.Config, disassemble, traceGC bool) int {
	p := parser.New(lexer.New(source))
	program := p.ParseProgram()
	if p.HadError() {
		diagnostics.Report(os.Stderr, p.Errors())
		return exitOK
	}

	h := heap.New()
	h.NextGC = cfg.GCInitialThreshold
	if traceGC {
		h.Trace = func(before, after int) {
			fmt.Fprintf(os.Stderr, "alien: gc: %s -> %s objects\n", humanize.Comma(int64(before)), humanize.Comma(int64(after)))
		}
	}

	c := compiler.New(h)
	script := c.Compile(program)
	if c.HadError() {
		diagnostics.Report(os.Stderr, c.Errors())
		return exitOK
	}

	if disassemble {
		disassembleTree(script)
	}

	machine := vm.New(h)
	if err := machine.Run(script); err != nil {
		diagnostics.ReportOne(os.Stderr, err)
		return exitOK
	}
	return exitOK
}

// disassembleTree prints the script chunk and then, recursively, the
// chunk of every Function/Class-method reachable from its constant
// pool, so --disassemble shows the whole compiled program rather than
// only its top-level chunk.
func disassembleTree(fn *heap.Function) {
	ch, ok := fn.Chunk.(*chunk.Chunk)
	if !ok {
		return
	}
	ch.Disassemble(fn.Name)
	for _, constVal := range ch.Constants {
		if !constVal.IsObj() {
			continue
		}
		switch obj := constVal.AsObj().(type) {
		case *heap.Function:
			fmt.Println()
			disassembleTree(obj)
		case *heap.Class:
			for _, method := range obj.Methods {
				fmt.Println()
				disassembleTree(method)
			}
		}
	}
}
