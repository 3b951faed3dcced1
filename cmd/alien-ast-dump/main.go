// Command alien-ast-dump is the diagnostic AST-to-JSON tool: it parses
// a source file and writes its syntax tree as JSON to a second path.
// It never compiles or runs anything, and its exit codes are not
// pinned to the primary CLI's sysexits contract, so it is built as a
// subcommands.Command rather than with bare flag/os.Exit.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"alien-vm/internal/astjson"
	"alien-vm/internal/diagnostics"
	"alien-vm/internal/lexer"
	"alien-vm/internal/parser"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&dumpCmd{}, "")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}

type dumpCmd struct{}

func (*dumpCmd) Name() string     { return "dump" }
func (*dumpCmd) Synopsis() string { return "parse a source file and write its AST as JSON" }
func (*dumpCmd) Usage() string {
	return "dump <source-file> <output.json>\n"
}
func (*dumpCmd) SetFlags(*flag.FlagSet) {}

func (*dumpCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "alien-ast-dump: expected <source-file> <output.json>")
		return subcommands.ExitUsageError
	}

	source, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "alien-ast-dump: %s\n", err)
		return subcommands.ExitFailure
	}

	p := parser.New(lexer.New(string(source)))
	program := p.ParseProgram()
	if p.HadError() {
		diagnostics.Report(os.Stderr, p.Errors())
		return subcommands.ExitFailure
	}

	doc, err := astjson.Marshal(program)
	if err != nil {
		fmt.Fprintf(os.Stderr, "alien-ast-dump: %s\n", err)
		return subcommands.ExitFailure
	}

	if err := os.WriteFile(args[1], doc, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "alien-ast-dump: %s\n", err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
