// Package diagnostics defines a Result enum naming how a pipeline run
// ended and the single-line stderr format every stage writes its errors
// in. The CLI, the REPL and the AST-dump tool use Report and ReportOne;
// none of them returns or inspects a Result.
package diagnostics

import (
	"fmt"
	"io"
)

// Result classifies how a pipeline run ended: OK or one of the three
// error kinds. No stage of the pipeline produces a Result; the parser
// and compiler expose their errors as strings and the VM as an error
// value, and callers report every message they are given.
type Result int

const (
	OK Result = iota
	ParseError
	CompileError
	RuntimeError
)

func (r Result) String() string {
	switch r {
	case OK:
		return "ok"
	case ParseError:
		return "parse error"
	case CompileError:
		return "compile error"
	case RuntimeError:
		return "runtime error"
	default:
		return "unknown result"
	}
}

// Report writes each message as a single "alien: <message>" line to w.
// Parser and compiler messages already carry their own "line N:" or
// "[line N]" prefix; Report does not reformat them, it only tags the
// program name onto the front.
func Report(w io.Writer, messages []string) {
	for _, msg := range messages {
		fmt.Fprintf(w, "alien: %s\n", msg)
	}
}

// ReportOne writes a single error (typically a *vm.RuntimeError) the
// same way Report writes a batch.
func ReportOne(w io.Writer, err error) {
	fmt.Fprintf(w, "alien: %s\n", err)
}
