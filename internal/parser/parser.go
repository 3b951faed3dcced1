// Package parser turns a token stream into an AST using recursive
// descent for statements and a precedence-climbing scheme for
// expressions. Parse errors synchronize to the next statement boundary
// (panic-mode recovery) rather than aborting on the first mistake.
package parser

import (
	"fmt"

	"alien-vm/internal/ast"
	"alien-vm/internal/lexer"
	"alien-vm/internal/token"
)

// precedence levels, lowest to highest.
const (
	precNone = iota
	precAssignment
	precOr
	precAnd
	precEquality
	precComparison
	precTerm
	precFactor
	precUnary
	precCall
)

var precedences = map[token.Type]int{
	token.ASSIGN: precAssignment,
	token.OR:     precOr,
	token.AND:    precAnd,
	token.EQ:     precEquality,
	token.NEQ:    precEquality,
	token.LT:     precComparison,
	token.LTE:    precComparison,
	token.GT:     precComparison,
	token.GTE:    precComparison,
	token.PLUS:   precTerm,
	token.MINUS:  precTerm,
	token.STAR:   precFactor,
	token.SLASH:  precFactor,
	token.LPAREN: precCall,
	token.DOT:    precCall,
}

type Parser struct {
	l *lexer.Lexer

	curToken  token.Token
	peekToken token.Token

	errors []string
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) Errors() []string { return p.errors }
func (p *Parser) HadError() bool   { return len(p.errors) > 0 }

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curIs(t token.Type) bool  { return p.curToken.Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peekToken.Type == t }

func (p *Parser) expect(t token.Type) bool {
	if p.peekIs(t) {
		p.nextToken()
		return true
	}
	p.errorf("line %d: expected %s, found %s", p.peekToken.Line, t, p.peekToken.Type)
	return false
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

// synchronize discards tokens until a likely statement boundary, so a
// single mistake doesn't cascade into a wall of spurious errors. It
// stops with curToken on the last token of the bad statement (a ';', or
// the token before a statement keyword), so the caller's own advance
// lands on the next statement.
func (p *Parser) synchronize() {
	for !p.curIs(token.EOF) {
		if p.curToken.Type == token.SEMI {
			return
		}
		switch p.peekToken.Type {
		case token.CLASS, token.FUNC, token.VAR, token.FOR, token.IF,
			token.WHILE, token.PRINT, token.RETURN:
			return
		}
		p.nextToken()
	}
}

// ParseProgram parses the whole token stream into a Program node.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	for !p.curIs(token.EOF) {
		stmt := p.parseDeclaration()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.nextToken()
	}
	return program
}

// parseDeclaration handles the three forms only legal at top level:
// var/func/class. Bare statements (if/while/for/block/print/expr) are
// not top-level declarations — they only appear inside a function
// body, via parseBlockDeclaration.
func (p *Parser) parseDeclaration() ast.Stmt {
	before := len(p.errors)
	var stmt ast.Stmt
	switch p.curToken.Type {
	case token.VAR:
		stmt = p.parseVarStmt()
	case token.FUNC:
		stmt = p.parseFuncStmt()
	case token.CLASS:
		stmt = p.parseClassStmt()
	default:
		p.errorf("line %d: expected a declaration ('var', 'func' or 'class'), found %s", p.curToken.Line, p.curToken.Type)
	}
	if len(p.errors) > before {
		p.synchronize()
		return nil
	}
	return stmt
}

// ParseREPLProgram parses one REPL line (or a pasted block) under a
// more permissive top-level grammar than ParseProgram: a bare
// statement is legal directly at top level, alongside var/func/class,
// since a REPL line runs for its own effect rather than contributing
// to a program's static top-level structure.
func (p *Parser) ParseREPLProgram() *ast.Program {
	program := &ast.Program{}
	for !p.curIs(token.EOF) {
		stmt := p.parseREPLLine()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.nextToken()
	}
	return program
}

func (p *Parser) parseREPLLine() ast.Stmt {
	before := len(p.errors)
	var stmt ast.Stmt
	switch p.curToken.Type {
	case token.VAR:
		stmt = p.parseVarStmt()
	case token.FUNC:
		stmt = p.parseFuncStmt()
	case token.CLASS:
		stmt = p.parseClassStmt()
	default:
		stmt = p.parseStatement()
	}
	if len(p.errors) > before {
		p.synchronize()
		return nil
	}
	return stmt
}

// parseBlockDeclaration is the production used inside a block body:
// 'var' declarations are permitted, but 'func' and 'class' are not —
// those only appear as top-level declarations.
func (p *Parser) parseBlockDeclaration() ast.Stmt {
	before := len(p.errors)
	var stmt ast.Stmt
	if p.curIs(token.VAR) {
		stmt = p.parseVarStmt()
	} else {
		stmt = p.parseStatement()
	}
	if len(p.errors) > before {
		p.synchronize()
		return nil
	}
	return stmt
}

func (p *Parser) parseVarStmt() *ast.VarStmt {
	tok := p.curToken
	if !p.expect(token.IDENTIFIER) {
		return nil
	}
	name := p.curToken.Lexeme

	var value ast.Expr
	if p.peekIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		value = p.parseExpression(precAssignment)
	}
	if !p.expect(token.SEMI) {
		return nil
	}
	return &ast.VarStmt{Token: tok, Name: name, Value: value}
}

func (p *Parser) parseFuncStmt() *ast.FuncStmt {
	tok := p.curToken
	if !p.expect(token.IDENTIFIER) {
		return nil
	}
	name := p.curToken.Lexeme

	if !p.expect(token.LPAREN) {
		return nil
	}
	var params []string
	if !p.peekIs(token.RPAREN) {
		p.nextToken()
		params = append(params, p.curToken.Lexeme)
		for p.peekIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			params = append(params, p.curToken.Lexeme)
		}
	}
	if !p.expect(token.RPAREN) {
		return nil
	}
	if !p.expect(token.LBRACE) {
		return nil
	}
	body := p.parseBlockBody()
	return &ast.FuncStmt{Token: tok, Name: name, Params: params, Body: body}
}

func (p *Parser) parseClassStmt() *ast.ClassStmt {
	tok := p.curToken
	if !p.expect(token.IDENTIFIER) {
		return nil
	}
	name := p.curToken.Lexeme
	if !p.expect(token.LBRACE) {
		return nil
	}
	var methods []*ast.FuncStmt
	for !p.peekIs(token.RBRACE) && !p.peekIs(token.EOF) {
		p.nextToken()
		if !p.curIs(token.FUNC) {
			p.errorf("line %d: expected method, found %s", p.curToken.Line, p.curToken.Type)
			return nil
		}
		if m := p.parseFuncStmt(); m != nil {
			methods = append(methods, m)
		}
	}
	if !p.expect(token.RBRACE) {
		return nil
	}
	return &ast.ClassStmt{Token: tok, Name: name, Methods: methods}
}

func (p *Parser) parseStatement() ast.Stmt {
	switch p.curToken.Type {
	case token.IF:
		return p.parseIfStmt()
	case token.WHILE:
		return p.parseWhileStmt()
	case token.FOR:
		return p.parseForStmt()
	case token.PRINT:
		return p.parsePrintStmt()
	case token.RETURN:
		return p.parseReturnStmt()
	case token.LBRACE:
		return p.parseBlockStmt()
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseBlockStmt() *ast.BlockStmt {
	tok := p.curToken
	stmts := p.parseBlockBody()
	return &ast.BlockStmt{Token: tok, Statements: stmts}
}

// parseBlockBody consumes statements until the matching '}', which it
// also consumes. The caller has already consumed the opening '{'.
func (p *Parser) parseBlockBody() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.peekIs(token.RBRACE) && !p.peekIs(token.EOF) {
		p.nextToken()
		if stmt := p.parseBlockDeclaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	p.expect(token.RBRACE)
	return stmts
}

func (p *Parser) parseIfStmt() *ast.IfStmt {
	tok := p.curToken
	if !p.expect(token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(precAssignment)
	if !p.expect(token.RPAREN) {
		return nil
	}
	if !p.expect(token.LBRACE) {
		return nil
	}
	then := p.parseBlockStmt()

	var elseStmt ast.Stmt
	if p.peekIs(token.ELSE) {
		p.nextToken()
		if p.peekIs(token.IF) {
			p.nextToken()
			elseStmt = p.parseIfStmt()
		} else if p.expect(token.LBRACE) {
			elseStmt = p.parseBlockStmt()
		}
	}
	return &ast.IfStmt{Token: tok, Condition: cond, Then: then, Else: elseStmt}
}

func (p *Parser) parseWhileStmt() *ast.WhileStmt {
	tok := p.curToken
	if !p.expect(token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(precAssignment)
	if !p.expect(token.RPAREN) {
		return nil
	}
	if !p.expect(token.LBRACE) {
		return nil
	}
	body := p.parseBlockStmt()
	return &ast.WhileStmt{Token: tok, Condition: cond, Body: body}
}

func (p *Parser) parseForStmt() *ast.ForStmt {
	tok := p.curToken
	if !p.expect(token.LPAREN) {
		return nil
	}

	var init ast.Stmt
	if p.peekIs(token.SEMI) {
		p.nextToken()
	} else {
		p.nextToken()
		if p.curIs(token.VAR) {
			init = p.parseVarStmt()
		} else {
			init = p.parseExprStmt()
		}
	}

	var cond ast.Expr
	if !p.peekIs(token.SEMI) {
		p.nextToken()
		cond = p.parseExpression(precAssignment)
	}
	if !p.expect(token.SEMI) {
		return nil
	}

	var update ast.Expr
	if !p.peekIs(token.RPAREN) {
		p.nextToken()
		update = p.parseExpression(precAssignment)
	}
	if !p.expect(token.RPAREN) {
		return nil
	}
	if !p.expect(token.LBRACE) {
		return nil
	}
	body := p.parseBlockStmt()
	return &ast.ForStmt{Token: tok, Init: init, Condition: cond, Update: update, Body: body}
}

func (p *Parser) parsePrintStmt() *ast.PrintStmt {
	tok := p.curToken
	p.nextToken()
	value := p.parseExpression(precAssignment)
	if !p.expect(token.SEMI) {
		return nil
	}
	return &ast.PrintStmt{Token: tok, Value: value}
}

func (p *Parser) parseReturnStmt() *ast.ReturnStmt {
	tok := p.curToken
	var value ast.Expr
	if !p.peekIs(token.SEMI) {
		p.nextToken()
		value = p.parseExpression(precAssignment)
	}
	if !p.expect(token.SEMI) {
		return nil
	}
	return &ast.ReturnStmt{Token: tok, Value: value}
}

func (p *Parser) parseExprStmt() *ast.ExprStmt {
	tok := p.curToken
	expr := p.parseExpression(precAssignment)
	if !p.expect(token.SEMI) {
		return nil
	}
	return &ast.ExprStmt{Token: tok, Expression: expr}
}

// --- expressions ---

func (p *Parser) parseExpression(precedence int) ast.Expr {
	left := p.parsePrefix()
	if left == nil {
		return nil
	}

	for !p.peekIs(token.SEMI) && precedence <= precedences[p.peekToken.Type] {
		switch p.peekToken.Type {
		case token.ASSIGN:
			if precedence > precAssignment {
				return left
			}
			p.nextToken()
			left = p.parseAssign(left)
		case token.OR, token.AND:
			p.nextToken()
			left = p.parseLogical(left)
		case token.EQ, token.NEQ, token.LT, token.LTE, token.GT, token.GTE,
			token.PLUS, token.MINUS, token.STAR, token.SLASH:
			p.nextToken()
			left = p.parseBinary(left)
		case token.LPAREN:
			p.nextToken()
			left = p.parseCall(left)
		case token.DOT:
			p.nextToken()
			left = p.parseGet(left)
		default:
			return left
		}
	}
	return left
}

func (p *Parser) parsePrefix() ast.Expr {
	switch p.curToken.Type {
	case token.IDENTIFIER:
		return &ast.Variable{Token: p.curToken, Name: p.curToken.Lexeme}
	case token.THIS:
		return &ast.This{Token: p.curToken}
	case token.NUMBER:
		return p.parseNumber()
	case token.STRING:
		return &ast.String{Token: p.curToken, Value: p.curToken.Lexeme}
	case token.TRUE:
		return &ast.Literal{Token: p.curToken, Kind: ast.LiteralTrue}
	case token.FALSE:
		return &ast.Literal{Token: p.curToken, Kind: ast.LiteralFalse}
	case token.NIL:
		return &ast.Literal{Token: p.curToken, Kind: ast.LiteralNil}
	case token.BANG, token.MINUS:
		return p.parseUnary()
	case token.LPAREN:
		return p.parseGrouping()
	default:
		p.errorf("line %d: unexpected token %s", p.curToken.Line, p.curToken.Type)
		return nil
	}
}

func (p *Parser) parseNumber() ast.Expr {
	var v float64
	if _, err := fmt.Sscanf(p.curToken.Lexeme, "%g", &v); err != nil {
		p.errorf("line %d: invalid number %q", p.curToken.Line, p.curToken.Lexeme)
	}
	return &ast.Number{Token: p.curToken, Value: v}
}

func (p *Parser) parseUnary() ast.Expr {
	tok := p.curToken
	op := p.curToken.Type
	p.nextToken()
	right := p.parseExpression(precUnary)
	return &ast.Unary{Token: tok, Op: op, Right: right}
}

func (p *Parser) parseGrouping() ast.Expr {
	tok := p.curToken
	p.nextToken()
	inner := p.parseExpression(precAssignment)
	if !p.expect(token.RPAREN) {
		return nil
	}
	return &ast.Grouping{Token: tok, Inner: inner}
}

func (p *Parser) parseBinary(left ast.Expr) ast.Expr {
	tok := p.curToken
	op := p.curToken.Type
	prec := precedences[op]
	p.nextToken()
	right := p.parseExpression(prec + 1)
	return &ast.Binary{Token: tok, Left: left, Op: op, Right: right}
}

func (p *Parser) parseLogical(left ast.Expr) ast.Expr {
	tok := p.curToken
	op := p.curToken.Type
	prec := precedences[op]
	p.nextToken()
	right := p.parseExpression(prec + 1)
	return &ast.Logical{Token: tok, Left: left, Op: op, Right: right}
}

// parseAssign builds an Assign node for any '<expr> = <expr>' it sees;
// it does not check that the left side is a valid assignment target
// (a bare variable or a property get) — that is a semantic rule, not a
// grammar rule, so the compiler rejects it instead (compileAssign's
// default branch), surfacing as a compile error rather than a parse
// error.
func (p *Parser) parseAssign(left ast.Expr) ast.Expr {
	tok := p.curToken
	p.nextToken()
	value := p.parseExpression(precAssignment)
	return &ast.Assign{Token: tok, Target: left, Value: value}
}

func (p *Parser) parseCall(callee ast.Expr) ast.Expr {
	tok := p.curToken
	var args []ast.Expr
	if !p.peekIs(token.RPAREN) {
		p.nextToken()
		args = append(args, p.parseExpression(precAssignment))
		for p.peekIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			args = append(args, p.parseExpression(precAssignment))
		}
	}
	if !p.expect(token.RPAREN) {
		return nil
	}
	return &ast.Call{Token: tok, Callee: callee, Args: args}
}

func (p *Parser) parseGet(object ast.Expr) ast.Expr {
	tok := p.curToken
	if !p.expect(token.IDENTIFIER) {
		return nil
	}
	return &ast.Get{Token: tok, Object: object, Name: p.curToken.Lexeme}
}
