// Command alien-repl is a supplemental interactive shell over a
// persistent VM: each line is parsed, compiled and run against the
// same heap and globals as every line before it. It is not part of the
// primary CLI's one-argument contract (cmd/alien) — a separate binary
// entirely, grounded in the teacher's own startREPL loop.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mattn/go-isatty"

	"alien-vm/internal/ast"
	"alien-vm/internal/compiler"
	"alien-vm/internal/diagnostics"
	"alien-vm/internal/heap"
	"alien-vm/internal/lexer"
	"alien-vm/internal/parser"
	"alien-vm/internal/vm"
)

const version = "0.1.0"

func main() {
	fmt.Printf("Alien REPL %s\n", version)
	fmt.Println("Type 'exit' to quit.")

	prompt := ">>> "
	continuePrompt := "... "
	if isatty.IsTerminal(os.Stdout.Fd()) {
		prompt = "\033[36m>>> \033[0m"
		continuePrompt = "\033[36m... \033[0m"
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:      prompt,
		HistoryFile: "",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "alien-repl: %s\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	h := heap.New()
	machine := vm.New(h)

	var buffer strings.Builder
	for {
		if buffer.Len() == 0 {
			rl.SetPrompt(prompt)
		} else {
			rl.SetPrompt(continuePrompt)
		}

		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "alien-repl: %s\n", err)
			return
		}

		if strings.TrimSpace(line) == "exit" {
			return
		}
		if strings.TrimSpace(line) == "" && buffer.Len() == 0 {
			continue
		}

		if buffer.Len() > 0 {
			buffer.WriteByte('\n')
		}
		buffer.WriteString(line)

		p := parser.New(lexer.New(buffer.String()))
		program := p.ParseREPLProgram()
		if p.HadError() {
			if incompleteInput(p.Errors()) {
				continue
			}
			diagnostics.Report(os.Stderr, p.Errors())
			buffer.Reset()
			continue
		}
		buffer.Reset()

		echoBareExpression(program)

		c := compiler.New(h)
		fn := c.CompileREPL(program.Statements)
		if c.HadError() {
			diagnostics.Report(os.Stderr, c.Errors())
			continue
		}

		if err := machine.Run(fn); err != nil {
			diagnostics.ReportOne(os.Stderr, err)
		}
	}
}

// incompleteInput reports whether p's errors look like the input
// simply ended early (an unterminated block or statement) rather than
// being genuinely malformed, so the REPL can keep reading lines.
func incompleteInput(errs []string) bool {
	for _, msg := range errs {
		if strings.Contains(msg, "found EOF") {
			return true
		}
	}
	return false
}

// echoBareExpression mimics an interactive shell: a single bare
// expression statement ("1 + 1") is rewritten as a print of itself so
// evaluating it shows a result, matching the teacher REPL's own
// "wrap a lone expression in print" convention.
func echoBareExpression(program *ast.Program) {
	if len(program.Statements) != 1 {
		return
	}
	exprStmt, ok := program.Statements[0].(*ast.ExprStmt)
	if !ok {
		return
	}
	program.Statements[0] = &ast.PrintStmt{Token: exprStmt.Token, Value: exprStmt.Expression}
}
