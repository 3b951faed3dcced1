package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alien-vm/internal/ast"
	"alien-vm/internal/chunk"
	"alien-vm/internal/heap"
	"alien-vm/internal/lexer"
	"alien-vm/internal/parser"
)

func compileSource(t *testing.T, src string) *heap.Function {
	t.Helper()
	p := parser.New(lexer.New(src))
	program := p.ParseProgram()
	require.Empty(t, p.Errors())

	c := New(heap.New())
	fn := c.Compile(program)
	require.Empty(t, c.Errors())
	return fn
}

func opcodesOf(fn *heap.Function) []chunk.OpCode {
	ch := fn.Chunk.(*chunk.Chunk)
	var ops []chunk.OpCode
	for i := 0; i < len(ch.Code); {
		op := chunk.OpCode(ch.Code[i])
		ops = append(ops, op)
		switch op {
		case chunk.OP_CONSTANT, chunk.OP_GET_GLOBAL, chunk.OP_SET_GLOBAL,
			chunk.OP_DEFINE_GLOBAL, chunk.OP_GET_PROPERTY, chunk.OP_SET_PROPERTY,
			chunk.OP_GET_LOCAL, chunk.OP_SET_LOCAL, chunk.OP_CALL:
			i += 2
		case chunk.OP_JUMP, chunk.OP_JUMP_IF_FALSE, chunk.OP_JUMP_IF_TRUE, chunk.OP_LOOP:
			i += 3
		default:
			i++
		}
	}
	return ops
}

func TestCompileGlobalVarDefinesGlobal(t *testing.T) {
	fn := compileSource(t, `var x = 1 + 2;`)
	ops := opcodesOf(fn)
	assert.Contains(t, ops, chunk.OP_DEFINE_GLOBAL)
	assert.Contains(t, ops, chunk.OP_ADD)
}

func TestCompileBinaryLoweringForNeqGteLte(t *testing.T) {
	fn := compileSource(t, `var a = 1 != 2; var b = 1 >= 2; var c = 1 <= 2;`)
	ops := opcodesOf(fn)

	count := func(op chunk.OpCode) int {
		n := 0
		for _, o := range ops {
			if o == op {
				n++
			}
		}
		return n
	}
	assert.Equal(t, 1, count(chunk.OP_EQUAL))   // from !=
	assert.Equal(t, 1, count(chunk.OP_LESS))    // from >=
	assert.Equal(t, 1, count(chunk.OP_GREATER)) // from <=
	assert.Equal(t, 3, count(chunk.OP_NOT))
}

func TestCompileFuncDeclRegistersFunctionInHeap(t *testing.T) {
	h := heap.New()
	p := parser.New(lexer.New(`func add(a, b) { return a + b; }`))
	program := p.ParseProgram()
	require.Empty(t, p.Errors())

	c := New(h)
	c.Compile(program)
	require.Empty(t, c.Errors())

	found := false
	for _, obj := range h.Objects {
		if fn, ok := obj.(*heap.Function); ok && fn.Name == "add" {
			found = true
			assert.Equal(t, 2, fn.Arity)
		}
	}
	assert.True(t, found, "expected add function registered in heap")
}

func TestCompileClassRegistersMethodsOnClass(t *testing.T) {
	h := heap.New()
	p := parser.New(lexer.New(`
class Counter {
  func init(start) { this.count = start; }
  func next() { return this.count; }
}`))
	program := p.ParseProgram()
	require.Empty(t, p.Errors())

	c := New(h)
	c.Compile(program)
	require.Empty(t, c.Errors())

	var class *heap.Class
	for _, obj := range h.Objects {
		if cl, ok := obj.(*heap.Class); ok && cl.Name == "Counter" {
			class = cl
		}
	}
	require.NotNil(t, class)
	assert.Len(t, class.Methods, 2)
	_, ok := class.FindMethod("init")
	assert.True(t, ok)
}

func TestCompileReturnValueInInitIsCompileError(t *testing.T) {
	p := parser.New(lexer.New(`
class Bad {
  func init() { return 5; }
}`))
	program := p.ParseProgram()
	require.Empty(t, p.Errors())

	c := New(heap.New())
	c.Compile(program)
	require.NotEmpty(t, c.Errors())
}

func TestCompileBlockScopePopsLocalsOnExit(t *testing.T) {
	fn := compileSource(t, `func main() { { var a = 1; var b = 2; } print 0; }`)
	// The block's two locals are popped when it closes; main's own
	// synthetic return emits no further POP.
	assert.NotNil(t, fn)

	var mainFn *heap.Function
	for _, k := range fn.Chunk.(*chunk.Chunk).Constants {
		if f, ok := k.AsObj().(*heap.Function); k.IsObj() && ok && f.Name == "main" {
			mainFn = f
		}
	}
	require.NotNil(t, mainFn)

	pops := 0
	for _, op := range opcodesOf(mainFn) {
		if op == chunk.OP_POP {
			pops++
		}
	}
	assert.Equal(t, 2, pops)
}

func TestCompileInvalidAssignmentTargetIsCompileError(t *testing.T) {
	p := parser.New(lexer.New(`func main() { 1 + 1 = 2; }`))
	program := p.ParseProgram()
	require.Empty(t, p.Errors(), "assignment-target validity is a compiler concern, not a parser one")

	c := New(heap.New())
	c.Compile(program)
	assert.NotEmpty(t, c.Errors())
}

func TestCompileAssignExpressionChain(t *testing.T) {
	// a = b = 3 parses as right-associative nested Assign.
	p := parser.New(lexer.New(`var a; var b; func main() { a = b = 3; }`))
	program := p.ParseProgram()
	require.Empty(t, p.Errors())

	stmts := program.Statements
	require.Len(t, stmts, 3)
	_, ok := stmts[0].(*ast.VarStmt)
	assert.True(t, ok)

	mainFn, ok := stmts[2].(*ast.FuncStmt)
	require.True(t, ok)
	require.Len(t, mainFn.Body, 1)
	exprStmt, ok := mainFn.Body[0].(*ast.ExprStmt)
	require.True(t, ok)
	outer, ok := exprStmt.Expression.(*ast.Assign)
	require.True(t, ok)
	_, ok = outer.Value.(*ast.Assign)
	assert.True(t, ok)
}
