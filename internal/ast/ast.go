// Package ast defines the syntax tree the parser produces and the
// compiler consumes. Node kinds are a tagged set of concrete structs —
// dispatch happens via a type switch in each pass, not through a shared
// virtual method set.
package ast

import "alien-vm/internal/token"

type Node interface {
	node()
}

type Stmt interface {
	Node
	stmtNode()
}

type Expr interface {
	Node
	exprNode()
}

// Program is the root node: a flat list of top-level declarations.
type Program struct {
	Statements []Stmt
}

func (*Program) node() {}

// --- Declarations & statements ---

// VarStmt declares a variable, optionally with an initializer.
type VarStmt struct {
	Token token.Token // the 'var' token
	Name  string
	Value Expr // nil if no initializer
}

func (*VarStmt) node()     {}
func (*VarStmt) stmtNode() {}

// FuncStmt declares a named function (or, inside a ClassStmt, a method).
type FuncStmt struct {
	Token  token.Token // the 'func' token
	Name   string
	Params []string
	Body   []Stmt
}

func (*FuncStmt) node()     {}
func (*FuncStmt) stmtNode() {}

// ClassStmt declares a class and its methods.
type ClassStmt struct {
	Token   token.Token // the 'class' token
	Name    string
	Methods []*FuncStmt
}

func (*ClassStmt) node()     {}
func (*ClassStmt) stmtNode() {}

// ConstStmt is a reserved extension point: it appears in the grammar
// but has no parser production and no compiler lowering.
type ConstStmt struct {
	Token token.Token
	Name  string
	Value Expr
}

func (*ConstStmt) node()     {}
func (*ConstStmt) stmtNode() {}

type BlockStmt struct {
	Token      token.Token // the '{' token
	Statements []Stmt
}

func (*BlockStmt) node()     {}
func (*BlockStmt) stmtNode() {}

type IfStmt struct {
	Token     token.Token // the 'if' token
	Condition Expr
	Then      *BlockStmt
	Else      Stmt // *BlockStmt, *IfStmt (else-if), or nil
}

func (*IfStmt) node()     {}
func (*IfStmt) stmtNode() {}

type WhileStmt struct {
	Token     token.Token // the 'while' token
	Condition Expr
	Body      *BlockStmt
}

func (*WhileStmt) node()     {}
func (*WhileStmt) stmtNode() {}

type ForStmt struct {
	Token     token.Token // the 'for' token
	Init      Stmt        // *VarStmt or *ExprStmt, may be nil
	Condition Expr        // may be nil
	Update    Expr        // may be nil
	Body      *BlockStmt
}

func (*ForStmt) node()     {}
func (*ForStmt) stmtNode() {}

type PrintStmt struct {
	Token token.Token // the 'print' token
	Value Expr
}

func (*PrintStmt) node()     {}
func (*PrintStmt) stmtNode() {}

type ReturnStmt struct {
	Token token.Token // the 'return' token
	Value Expr        // nil for a bare 'return;'
}

func (*ReturnStmt) node()     {}
func (*ReturnStmt) stmtNode() {}

type ExprStmt struct {
	Token      token.Token
	Expression Expr
}

func (*ExprStmt) node()     {}
func (*ExprStmt) stmtNode() {}

// --- Expressions ---

// Assign covers both plain-variable and property assignment; the
// compiler distinguishes the two by the concrete type of Target.
type Assign struct {
	Token  token.Token // the '=' token
	Target Expr
	Value  Expr
}

func (*Assign) node()     {}
func (*Assign) exprNode() {}

type Binary struct {
	Token token.Token // the operator token
	Left  Expr
	Op    token.Type
	Right Expr
}

func (*Binary) node()     {}
func (*Binary) exprNode() {}

// Logical is 'and'/'or' — lowered with short-circuit jumps, never a
// plain binary opcode.
type Logical struct {
	Token token.Token
	Left  Expr
	Op    token.Type
	Right Expr
}

func (*Logical) node()     {}
func (*Logical) exprNode() {}

type Unary struct {
	Token token.Token // the operator token
	Op    token.Type
	Right Expr
}

func (*Unary) node()     {}
func (*Unary) exprNode() {}

type Call struct {
	Token  token.Token // the '(' token
	Callee Expr
	Args   []Expr
}

func (*Call) node()     {}
func (*Call) exprNode() {}

// Get reads a property off an object: obj.name
type Get struct {
	Token  token.Token // the '.' token
	Object Expr
	Name   string
}

func (*Get) node()     {}
func (*Get) exprNode() {}

type Grouping struct {
	Token token.Token
	Inner Expr
}

func (*Grouping) node()     {}
func (*Grouping) exprNode() {}

type Variable struct {
	Token token.Token
	Name  string
}

func (*Variable) node()     {}
func (*Variable) exprNode() {}

type This struct {
	Token token.Token
}

func (*This) node()     {}
func (*This) exprNode() {}

type Number struct {
	Token token.Token
	Value float64
}

func (*Number) node()     {}
func (*Number) exprNode() {}

type String struct {
	Token token.Token
	Value string
}

func (*String) node()     {}
func (*String) exprNode() {}

// LiteralKind distinguishes the three keyword literals.
type LiteralKind int

const (
	LiteralTrue LiteralKind = iota
	LiteralFalse
	LiteralNil
)

type Literal struct {
	Token token.Token
	Kind  LiteralKind
}

func (*Literal) node()     {}
func (*Literal) exprNode() {}
