package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"alien-vm/internal/token"
)

func TestNextToken_Punctuation(t *testing.T) {
	input := `(){},;.=+-*/`
	want := []token.Type{
		token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE,
		token.COMMA, token.SEMI, token.DOT, token.ASSIGN,
		token.PLUS, token.MINUS, token.STAR, token.SLASH, token.EOF,
	}

	l := New(input)
	for i, tt := range want {
		tok := l.NextToken()
		assert.Equalf(t, tt, tok.Type, "token %d", i)
	}
}

func TestNextToken_TwoCharOperators(t *testing.T) {
	l := New("== != <= >= < >")
	want := []token.Type{token.EQ, token.NEQ, token.LTE, token.GTE, token.LT, token.GT, token.EOF}
	for i, tt := range want {
		tok := l.NextToken()
		assert.Equalf(t, tt, tok.Type, "token %d", i)
	}
}

func TestNextToken_KeywordsAndIdentifiers(t *testing.T) {
	l := New("func main class this and or print return var if else while for true false nil x1")
	want := []token.Type{
		token.FUNC, token.IDENTIFIER, token.CLASS, token.THIS, token.AND, token.OR,
		token.PRINT, token.RETURN, token.VAR, token.IF, token.ELSE, token.WHILE,
		token.FOR, token.TRUE, token.FALSE, token.NIL, token.IDENTIFIER, token.EOF,
	}
	for i, tt := range want {
		tok := l.NextToken()
		assert.Equalf(t, tt, tok.Type, "token %d", i)
	}
}

func TestNextToken_NumberAndString(t *testing.T) {
	l := New(`123 4.5 "hello world"`)

	tok := l.NextToken()
	assert.Equal(t, token.NUMBER, tok.Type)
	assert.Equal(t, "123", tok.Lexeme)

	tok = l.NextToken()
	assert.Equal(t, token.NUMBER, tok.Type)
	assert.Equal(t, "4.5", tok.Lexeme)

	tok = l.NextToken()
	assert.Equal(t, token.STRING, tok.Type)
	assert.Equal(t, "hello world", tok.Lexeme)
}

func TestNextToken_LineTracking(t *testing.T) {
	l := New("var a = 1;\nvar b = 2;")
	var lastLine int
	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			lastLine = tok.Line
			break
		}
	}
	assert.Equal(t, 2, lastLine)
}
