package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/sipforge/sip/internal/token"
)

func TestNextTokenPunctuationAndOperators(t *testing.T) {
	src := `x = 1 + 2 * 3 - 4 / 5 % 6; y <= z >= w == v != u ++ -- .. ? & # and or`
	l := New([]byte(src), "t.sip")

	want := []token.Kind{
		token.IDENT, token.ASSIGN, token.INT, token.PLUS, token.INT, token.STAR,
		token.INT, token.MINUS, token.INT, token.SLASH, token.INT, token.PERCENT,
		token.INT, token.SEMI, token.IDENT, token.LE, token.IDENT, token.GE,
		token.IDENT, token.EQ, token.IDENT, token.NEQ, token.IDENT, token.INC,
		token.DEC, token.DOTDOT, token.QUESTION, token.AMP, token.HASH,
		token.AND, token.OR, token.EOF,
	}

	for i, k := range want {
		tok := l.NextToken()
		assert.Equalf(t, k, tok.Kind, "token %d: literal %q", i, tok.Literal)
	}
}

func TestNextTokenKeywords(t *testing.T) {
	src := "var if else while for by return output error input alloc null true false of"
	l := New([]byte(src), "t.sip")

	want := []token.Kind{
		token.VAR, token.IF, token.ELSE, token.WHILE, token.FOR, token.BY,
		token.RETURN, token.OUTPUT, token.ERROR, token.INPUT, token.ALLOC,
		token.NULL, token.TRUE, token.FALSE, token.MAIN_OF, token.EOF,
	}
	for _, k := range want {
		tok := l.NextToken()
		assert.Equal(t, k, tok.Kind)
	}
}

func TestNextTokenTracksLineAndColumn(t *testing.T) {
	src := "x\ny"
	l := New([]byte(src), "t.sip")

	first := l.NextToken()
	assert.Equal(t, 1, first.Pos.Line)

	second := l.NextToken()
	assert.Equal(t, 2, second.Pos.Line)
}

func TestNextTokenSkipsLineComments(t *testing.T) {
	src := "x // this is ignored\n= 1"
	l := New([]byte(src), "t.sip")

	assert.Equal(t, token.IDENT, l.NextToken().Kind)
	assert.Equal(t, token.ASSIGN, l.NextToken().Kind)
	assert.Equal(t, token.INT, l.NextToken().Kind)
}
