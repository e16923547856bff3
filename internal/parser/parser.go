// Package parser implements a recursive-descent parser that turns a SIP
// token stream into an internal/ast.Program.
package parser

import (
	"github.com/sipforge/sip/internal/ast"
	"github.com/sipforge/sip/internal/lexer"
	"github.com/sipforge/sip/internal/token"
)

// Parser holds the token cursor and the running list of syntax errors.
type Parser struct {
	l *lexer.Lexer

	cur  token.Token
	peek token.Token

	errs []error
}

// New creates a Parser over a lexer; it primes the two-token lookahead.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.next()
	p.next()
	return p
}

// ParseProgram parses a complete source file into a Program. All accumulated
// syntax errors are returned together, not just the first.
func ParseProgram(src []byte, filename string) (*ast.Program, []error) {
	p := New(lexer.New(src, filename))
	prog := p.parseProgram()
	return prog, p.errs
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

// expect consumes the current token if it matches k, reporting a structured
// PAR001 error and leaving the cursor in place otherwise.
func (p *Parser) expect(k token.Kind) token.Token {
	if p.cur.Kind != k {
		p.report("PAR001", "insert or correct the expected token",
			"expected %s, got %s %q", k, p.cur.Kind, p.cur.Literal)
		return p.cur
	}
	t := p.cur
	p.next()
	return t
}

// synchronize advances past tokens until a likely statement boundary, so one
// syntax error does not cascade into a wall of follow-on errors.
func (p *Parser) synchronize() {
	for p.cur.Kind != token.EOF {
		if p.cur.Kind == token.SEMI {
			p.next()
			return
		}
		if p.cur.Kind == token.RBRACE {
			return
		}
		p.next()
	}
}

func (p *Parser) parseProgram() *ast.Program {
	prog := &ast.Program{}
	for p.cur.Kind != token.EOF {
		before := len(p.errs)
		prog.Funcs = append(prog.Funcs, p.parseFuncDecl())
		if len(p.errs) > before {
			p.synchronize()
		}
	}
	return prog
}

func (p *Parser) parseFuncDecl() *ast.FuncDecl {
	pos := p.cur.Pos
	name := p.expect(token.IDENT).Literal

	f := &ast.FuncDecl{Name: name, Pos: pos}

	p.expect(token.LPAREN)
	for p.cur.Kind != token.RPAREN && p.cur.Kind != token.EOF {
		fp := p.cur.Pos
		if p.cur.Kind != token.IDENT {
			p.expect(token.IDENT)
			break
		}
		pname := p.expect(token.IDENT).Literal
		f.Formals = append(f.Formals, &ast.Decl{Name: pname, Pos: fp})
		if p.cur.Kind == token.COMMA {
			p.next()
		}
	}
	p.expect(token.RPAREN)

	p.expect(token.LBRACE)
	for p.cur.Kind != token.RBRACE && p.cur.Kind != token.EOF {
		f.Body = append(f.Body, p.parseStmt())
	}
	p.expect(token.RBRACE)

	return f
}
