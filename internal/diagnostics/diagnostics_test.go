package diagnostics

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultString(t *testing.T) {
	assert.Equal(t, "ok", OK.String())
	assert.Equal(t, "parse error", ParseError.String())
	assert.Equal(t, "compile error", CompileError.String())
	assert.Equal(t, "runtime error", RuntimeError.String())
}

func TestReportPrefixesEachMessage(t *testing.T) {
	var buf bytes.Buffer
	Report(&buf, []string{"line 1: bad token", "line 2: also bad"})
	assert.Equal(t, "alien: line 1: bad token\nalien: line 2: also bad\n", buf.String())
}

func TestReportOnePrefixesError(t *testing.T) {
	var buf bytes.Buffer
	ReportOne(&buf, errors.New("line 3: undefined variable 'x'"))
	assert.Equal(t, "alien: line 3: undefined variable 'x'\n", buf.String())
}
