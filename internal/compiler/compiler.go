// Package compiler lowers an AST into bytecode chunks. It resolves
// lexical scope (locals vs. globals), patches jumps for control flow,
// and allocates Function/Class heap objects, registering each with the
// VM's heap immediately so a collection mid-compile can never reclaim
// one out from under its own construction.
package compiler

import (
	"fmt"

	"alien-vm/internal/ast"
	"alien-vm/internal/chunk"
	"alien-vm/internal/heap"
	"alien-vm/internal/token"
	"alien-vm/internal/value"
)

type local struct {
	name  string
	depth int
}

// Compiler compiles one function body (or the top-level script) into
// its own chunk. Each nested function declaration gets a fresh
// Compiler; since Alien has no closures, a name unresolved in the
// current Compiler's locals is simply a global — there is no search
// into an enclosing Compiler's locals.
type Compiler struct {
	chunk      *chunk.Chunk
	locals     []local
	scopeDepth int
	class      *heap.Class // non-nil while compiling a class's methods
	isInit     bool        // compiling the class's "init" method

	heap   *heap.Heap
	errors []string
}

// New creates the top-level compiler for a script. Physical stack slot
// 0 of the top-level frame holds the script Function itself (vm.Run
// pushes it before calling), so — exactly like newFunctionCompiler —
// locals must start at index 1; a reserved slot-0 entry here keeps a
// top-level 'var' declared inside a block/for/while from being handed
// index 0 and colliding with that slot at runtime.
func New(h *heap.Heap) *Compiler {
	c := &Compiler{chunk: chunk.New(), heap: h}
	// "" can never be a resolveLocal lookup key — the lexer never
	// produces an empty identifier lexeme — so this reserved slot
	// cannot collide with any user-declared top-level name.
	c.locals = append(c.locals, local{name: "", depth: 0})
	return c
}

func newFunctionCompiler(parent *Compiler, slot0Name string, class *heap.Class, isInit bool) *Compiler {
	c := &Compiler{
		chunk:      chunk.New(),
		scopeDepth: 1,
		class:      class,
		isInit:     isInit,
		heap:       parent.heap,
	}
	c.locals = append(c.locals, local{name: slot0Name, depth: 1})
	return c
}

func (c *Compiler) Errors() []string { return c.errors }
func (c *Compiler) HadError() bool   { return len(c.errors) > 0 }

func (c *Compiler) errorf(line int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	c.errors = append(c.errors, fmt.Sprintf("[line %d] %s", line, msg))
}

// Compile lowers the whole program into the "script" Function: every
// top-level declaration runs in order, then main() is invoked.
func (c *Compiler) Compile(program *ast.Program) *heap.Function {
	for _, stmt := range program.Statements {
		c.compileStmt(stmt)
	}

	mainIdx := c.chunk.AddConstant(value.NewString("main"))
	c.emitBytes(chunk.OP_GET_GLOBAL, byte(mainIdx), 0)
	c.emitBytes(chunk.OP_CALL, 0, 0)
	c.emitOp(chunk.OP_NIL, 0)
	c.emitOp(chunk.OP_RETURN, 0)

	fn := heap.NewFunction("script", 0, c.chunk)
	c.heap.Register(fn)
	return fn
}

// CompileREPL lowers a single REPL-submitted batch of statements into
// its own throwaway Function, without the "call main" epilogue Compile
// appends for whole programs — the REPL runs each line for its side
// effects (global definitions, prints) rather than treating it as an
// entry point.
func (c *Compiler) CompileREPL(stmts []ast.Stmt) *heap.Function {
	for _, stmt := range stmts {
		c.compileStmt(stmt)
	}
	c.emitOp(chunk.OP_NIL, 0)
	c.emitOp(chunk.OP_RETURN, 0)

	fn := heap.NewFunction("repl-line", 0, c.chunk)
	c.heap.Register(fn)
	return fn
}

// --- statements ---

func (c *Compiler) compileStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.VarStmt:
		c.compileVarStmt(s)
	case *ast.FuncStmt:
		c.compileFuncStmt(s)
	case *ast.ClassStmt:
		c.compileClassStmt(s)
	case *ast.BlockStmt:
		c.beginScope()
		for _, inner := range s.Statements {
			c.compileStmt(inner)
		}
		c.endScope()
	case *ast.IfStmt:
		c.compileIfStmt(s)
	case *ast.WhileStmt:
		c.compileWhileStmt(s)
	case *ast.ForStmt:
		c.compileForStmt(s)
	case *ast.PrintStmt:
		line := s.Token.Line
		c.compileExpr(s.Value)
		c.emitOp(chunk.OP_PRINT, line)
	case *ast.ReturnStmt:
		c.compileReturnStmt(s)
	case *ast.ExprStmt:
		line := s.Token.Line
		c.compileExpr(s.Expression)
		c.emitOp(chunk.OP_POP, line)
	case *ast.ConstStmt:
		// reserved extension point: no lowering exists for it.
	default:
		panic(fmt.Sprintf("compiler: unhandled statement %T", stmt))
	}
}

func (c *Compiler) compileVarStmt(s *ast.VarStmt) {
	line := s.Token.Line
	if s.Value != nil {
		c.compileExpr(s.Value)
	} else {
		c.emitOp(chunk.OP_NIL, line)
	}

	if c.scopeDepth > 0 {
		c.addLocal(s.Name)
		return
	}
	nameIdx := c.chunk.AddConstant(value.NewString(s.Name))
	c.emitBytes(chunk.OP_DEFINE_GLOBAL, byte(nameIdx), line)
}

func (c *Compiler) compileFuncStmt(s *ast.FuncStmt) {
	slot0 := s.Name
	isInit := false
	if c.class != nil {
		slot0 = "this"
		isInit = s.Name == "init"
	}

	fnCompiler := newFunctionCompiler(c, slot0, c.class, isInit)
	for _, param := range s.Params {
		fnCompiler.addLocal(param)
	}
	for _, bodyStmt := range s.Body {
		fnCompiler.compileStmt(bodyStmt)
	}
	c.errors = append(c.errors, fnCompiler.errors...)

	line := s.Token.Line
	if isInit {
		fnCompiler.emitBytes(chunk.OP_GET_LOCAL, 0, line)
	} else {
		fnCompiler.emitOp(chunk.OP_NIL, line)
	}
	fnCompiler.emitOp(chunk.OP_RETURN, line)

	fn := heap.NewFunction(s.Name, len(s.Params), fnCompiler.chunk)
	c.heap.Register(fn)

	if c.class != nil {
		c.class.Methods[s.Name] = fn
		return
	}

	fnIdx := c.chunk.AddConstant(value.NewObj(fn))
	c.emitBytes(chunk.OP_CONSTANT, byte(fnIdx), line)
	nameIdx := c.chunk.AddConstant(value.NewString(s.Name))
	c.emitBytes(chunk.OP_DEFINE_GLOBAL, byte(nameIdx), line)
}

func (c *Compiler) compileClassStmt(s *ast.ClassStmt) {
	class := heap.NewClass(s.Name)
	c.heap.Register(class)

	saved := c.class
	c.class = class
	for _, method := range s.Methods {
		c.compileFuncStmt(method)
	}
	c.class = saved

	line := s.Token.Line
	classIdx := c.chunk.AddConstant(value.NewObj(class))
	c.emitBytes(chunk.OP_CONSTANT, byte(classIdx), line)
	nameIdx := c.chunk.AddConstant(value.NewString(s.Name))
	c.emitBytes(chunk.OP_DEFINE_GLOBAL, byte(nameIdx), line)
}

func (c *Compiler) compileIfStmt(s *ast.IfStmt) {
	line := s.Token.Line
	c.compileExpr(s.Condition)
	thenJump := c.emitJump(chunk.OP_JUMP_IF_FALSE, line)
	c.emitOp(chunk.OP_POP, line)
	c.compileStmt(s.Then)
	elseJump := c.emitJump(chunk.OP_JUMP, line)
	c.patchJump(thenJump)
	c.emitOp(chunk.OP_POP, line)
	if s.Else != nil {
		c.compileStmt(s.Else)
	}
	c.patchJump(elseJump)
}

func (c *Compiler) compileWhileStmt(s *ast.WhileStmt) {
	line := s.Token.Line
	loopStart := len(c.chunk.Code)
	c.compileExpr(s.Condition)
	exitJump := c.emitJump(chunk.OP_JUMP_IF_FALSE, line)
	c.emitOp(chunk.OP_POP, line)
	c.compileStmt(s.Body)
	c.emitLoop(loopStart, line)
	c.patchJump(exitJump)
	c.emitOp(chunk.OP_POP, line)
}

func (c *Compiler) compileForStmt(s *ast.ForStmt) {
	line := s.Token.Line
	c.beginScope()
	if s.Init != nil {
		c.compileStmt(s.Init)
	}

	loopStart := len(c.chunk.Code)
	exitJump := -1
	if s.Condition != nil {
		c.compileExpr(s.Condition)
		exitJump = c.emitJump(chunk.OP_JUMP_IF_FALSE, line)
		c.emitOp(chunk.OP_POP, line)
	}

	c.compileStmt(s.Body)

	if s.Update != nil {
		c.compileExpr(s.Update)
		c.emitOp(chunk.OP_POP, line)
	}
	c.emitLoop(loopStart, line)

	if exitJump != -1 {
		c.patchJump(exitJump)
		c.emitOp(chunk.OP_POP, line)
	}
	c.endScope()
}

func (c *Compiler) compileReturnStmt(s *ast.ReturnStmt) {
	line := s.Token.Line
	if c.isInit {
		if s.Value != nil {
			c.errorf(line, "Can't return a value from an initializer.")
		}
		c.emitBytes(chunk.OP_GET_LOCAL, 0, line)
		c.emitOp(chunk.OP_RETURN, line)
		return
	}
	if s.Value != nil {
		c.compileExpr(s.Value)
	} else {
		c.emitOp(chunk.OP_NIL, line)
	}
	c.emitOp(chunk.OP_RETURN, line)
}

// --- expressions ---

func (c *Compiler) compileExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Assign:
		c.compileAssign(e)
	case *ast.Binary:
		c.compileBinary(e)
	case *ast.Logical:
		c.compileLogical(e)
	case *ast.Unary:
		line := e.Token.Line
		c.compileExpr(e.Right)
		if e.Op == token.BANG {
			c.emitOp(chunk.OP_NOT, line)
		} else {
			c.emitOp(chunk.OP_NEGATE, line)
		}
	case *ast.Call:
		c.compileCall(e)
	case *ast.Get:
		line := e.Token.Line
		c.compileExpr(e.Object)
		nameIdx := c.chunk.AddConstant(value.NewString(e.Name))
		c.emitBytes(chunk.OP_GET_PROPERTY, byte(nameIdx), line)
	case *ast.Grouping:
		c.compileExpr(e.Inner)
	case *ast.Variable:
		c.compileVariableRead(e)
	case *ast.This:
		c.emitBytes(chunk.OP_GET_LOCAL, 0, e.Token.Line)
	case *ast.Number:
		c.emitConstant(value.NewNumber(e.Value), e.Token.Line)
	case *ast.String:
		c.emitConstant(value.NewString(e.Value), e.Token.Line)
	case *ast.Literal:
		c.compileLiteral(e)
	default:
		panic(fmt.Sprintf("compiler: unhandled expression %T", expr))
	}
}

func (c *Compiler) compileAssign(e *ast.Assign) {
	line := e.Token.Line
	switch target := e.Target.(type) {
	case *ast.Variable:
		c.compileExpr(e.Value)
		if idx, ok := c.resolveLocal(target.Name); ok {
			c.emitBytes(chunk.OP_SET_LOCAL, byte(idx), line)
		} else {
			nameIdx := c.chunk.AddConstant(value.NewString(target.Name))
			c.emitBytes(chunk.OP_SET_GLOBAL, byte(nameIdx), line)
		}
	case *ast.Get:
		c.compileExpr(target.Object)
		c.compileExpr(e.Value)
		nameIdx := c.chunk.AddConstant(value.NewString(target.Name))
		c.emitBytes(chunk.OP_SET_PROPERTY, byte(nameIdx), line)
	default:
		c.errorf(line, "Invalid assignment target.")
	}
}

func (c *Compiler) compileBinary(e *ast.Binary) {
	line := e.Token.Line
	c.compileExpr(e.Left)
	c.compileExpr(e.Right)
	switch e.Op {
	case token.PLUS:
		c.emitOp(chunk.OP_ADD, line)
	case token.MINUS:
		c.emitOp(chunk.OP_SUBTRACT, line)
	case token.STAR:
		c.emitOp(chunk.OP_MULTIPLY, line)
	case token.SLASH:
		c.emitOp(chunk.OP_DIVIDE, line)
	case token.EQ:
		c.emitOp(chunk.OP_EQUAL, line)
	case token.NEQ:
		c.emitOp(chunk.OP_EQUAL, line)
		c.emitOp(chunk.OP_NOT, line)
	case token.GT:
		c.emitOp(chunk.OP_GREATER, line)
	case token.GTE:
		c.emitOp(chunk.OP_LESS, line)
		c.emitOp(chunk.OP_NOT, line)
	case token.LT:
		c.emitOp(chunk.OP_LESS, line)
	case token.LTE:
		c.emitOp(chunk.OP_GREATER, line)
		c.emitOp(chunk.OP_NOT, line)
	default:
		panic(fmt.Sprintf("compiler: unhandled binary operator %s", e.Op))
	}
}

// compileLogical lowers 'and'/'or' as short-circuit jumps, leaving the
// unconsumed left value as the expression's result when it decides the
// outcome.
func (c *Compiler) compileLogical(e *ast.Logical) {
	line := e.Token.Line
	c.compileExpr(e.Left)
	var jump int
	if e.Op == token.AND {
		jump = c.emitJump(chunk.OP_JUMP_IF_FALSE, line)
	} else {
		jump = c.emitJump(chunk.OP_JUMP_IF_TRUE, line)
	}
	c.emitOp(chunk.OP_POP, line)
	c.compileExpr(e.Right)
	c.patchJump(jump)
}

func (c *Compiler) compileCall(e *ast.Call) {
	line := e.Token.Line
	c.compileExpr(e.Callee)
	for _, arg := range e.Args {
		c.compileExpr(arg)
	}
	c.emitBytes(chunk.OP_CALL, byte(len(e.Args)), line)
}

func (c *Compiler) compileVariableRead(e *ast.Variable) {
	line := e.Token.Line
	if idx, ok := c.resolveLocal(e.Name); ok {
		c.emitBytes(chunk.OP_GET_LOCAL, byte(idx), line)
		return
	}
	nameIdx := c.chunk.AddConstant(value.NewString(e.Name))
	c.emitBytes(chunk.OP_GET_GLOBAL, byte(nameIdx), line)
}

func (c *Compiler) compileLiteral(e *ast.Literal) {
	line := e.Token.Line
	switch e.Kind {
	case ast.LiteralTrue:
		c.emitOp(chunk.OP_TRUE, line)
	case ast.LiteralFalse:
		c.emitOp(chunk.OP_FALSE, line)
	case ast.LiteralNil:
		c.emitOp(chunk.OP_NIL, line)
	}
}

// --- scope & locals ---

func (c *Compiler) beginScope() { c.scopeDepth++ }

func (c *Compiler) endScope() {
	c.scopeDepth--
	line := 0
	if n := len(c.chunk.Lines); n > 0 {
		line = c.chunk.Lines[n-1]
	}
	for len(c.locals) > 0 && c.locals[len(c.locals)-1].depth > c.scopeDepth {
		c.emitOp(chunk.OP_POP, line)
		c.locals = c.locals[:len(c.locals)-1]
	}
}

func (c *Compiler) addLocal(name string) {
	c.locals = append(c.locals, local{name: name, depth: c.scopeDepth})
}

func (c *Compiler) resolveLocal(name string) (int, bool) {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].name == name {
			return i, true
		}
	}
	return -1, false
}

// --- bytecode emission ---

func (c *Compiler) emitOp(op chunk.OpCode, line int) {
	c.chunk.WriteOp(op, line)
}

func (c *Compiler) emitBytes(op chunk.OpCode, operand byte, line int) {
	c.chunk.WriteOp(op, line)
	c.chunk.Write(operand, line)
}

// emitJump writes op followed by a 2-byte placeholder and returns the
// offset of the placeholder's first byte, for patchJump to fill in once
// the jump target is known.
func (c *Compiler) emitJump(op chunk.OpCode, line int) int {
	c.chunk.WriteOp(op, line)
	c.chunk.Write(0xff, line)
	c.chunk.Write(0xff, line)
	return len(c.chunk.Code) - 2
}

func (c *Compiler) patchJump(offset int) {
	jump := len(c.chunk.Code) - offset - 2
	if jump > 0xffff {
		c.errorf(0, "jump target too far to encode")
		return
	}
	c.chunk.Code[offset] = byte((jump >> 8) & 0xff)
	c.chunk.Code[offset+1] = byte(jump & 0xff)
}

// emitLoop writes OP_LOOP with a 2-byte backward offset from just past
// its own operand to loopStart.
func (c *Compiler) emitLoop(loopStart int, line int) {
	c.chunk.WriteOp(chunk.OP_LOOP, line)
	offset := len(c.chunk.Code) - loopStart + 2
	if offset > 0xffff {
		c.errorf(line, "loop body too large to encode")
		offset = 0
	}
	c.chunk.Write(byte((offset>>8)&0xff), line)
	c.chunk.Write(byte(offset&0xff), line)
}

func (c *Compiler) emitConstant(v value.Value, line int) {
	idx := c.chunk.AddConstant(v)
	c.emitBytes(chunk.OP_CONSTANT, byte(idx), line)
}
