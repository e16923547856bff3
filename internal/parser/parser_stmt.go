package parser

import (
	"github.com/sipforge/sip/internal/ast"
	"github.com/sipforge/sip/internal/token"
)

func (p *Parser) parseStmt() ast.Stmt {
	switch p.cur.Kind {
	case token.VAR:
		return p.parseDeclStmt()
	case token.LBRACE:
		return p.parseBlockStmt()
	case token.IF:
		return p.parseIfStmt()
	case token.WHILE:
		return p.parseWhileStmt()
	case token.FOR:
		return p.parseForStmt()
	case token.OUTPUT:
		return p.parseOutputStmt()
	case token.ERROR:
		return p.parseErrorStmt()
	case token.RETURN:
		return p.parseReturnStmt()
	default:
		return p.parseSimpleStmt()
	}
}

func (p *Parser) parseDeclStmt() ast.Stmt {
	pos := p.cur.Pos
	p.next() // 'var'
	d := &ast.DeclStmt{Pos: pos}
	for {
		np := p.cur.Pos
		name := p.expect(token.IDENT).Literal
		d.Decls = append(d.Decls, &ast.Decl{Name: name, Pos: np})
		if p.cur.Kind != token.COMMA {
			break
		}
		p.next()
	}
	p.expect(token.SEMI)
	return d
}

func (p *Parser) parseBlockStmt() *ast.BlockStmt {
	pos := p.cur.Pos
	p.expect(token.LBRACE)
	b := &ast.BlockStmt{Pos: pos}
	for p.cur.Kind != token.RBRACE && p.cur.Kind != token.EOF {
		b.Stmts = append(b.Stmts, p.parseStmt())
	}
	p.expect(token.RBRACE)
	return b
}

func (p *Parser) parseIfStmt() ast.Stmt {
	pos := p.cur.Pos
	p.next()
	p.expect(token.LPAREN)
	cond := p.parseExpr()
	p.expect(token.RPAREN)
	then := p.parseStmt()
	s := &ast.IfStmt{Cond: cond, Then: then, Pos: pos}
	if p.cur.Kind == token.ELSE {
		p.next()
		s.Else = p.parseStmt()
	}
	return s
}

func (p *Parser) parseWhileStmt() ast.Stmt {
	pos := p.cur.Pos
	p.next()
	p.expect(token.LPAREN)
	cond := p.parseExpr()
	p.expect(token.RPAREN)
	body := p.parseStmt()
	return &ast.WhileStmt{Cond: cond, Body: body, Pos: pos}
}

// parseForStmt parses both loop forms that share the "for (Var : ..." prefix:
// a bounded range "for (i : lo .. hi [by step])" and an array iterator
// "for (x : arr)", disambiguated by whether ".." follows the first operand.
func (p *Parser) parseForStmt() ast.Stmt {
	pos := p.cur.Pos
	p.next()
	p.expect(token.LPAREN)
	vp := p.cur.Pos
	vname := p.expect(token.IDENT).Literal
	vdecl := &ast.Decl{Name: vname, Pos: vp}
	p.expect(token.COLON)

	first := p.parseExpr()
	if p.cur.Kind == token.DOTDOT {
		p.next()
		high := p.parseExpr()
		var step ast.Expr
		if p.cur.Kind == token.BY {
			p.next()
			step = p.parseExpr()
		}
		p.expect(token.RPAREN)
		body := p.parseStmt()
		return &ast.ForRangeStmt{Var: vdecl, Low: first, High: high, Step: step, Body: body, Pos: pos}
	}

	p.expect(token.RPAREN)
	body := p.parseStmt()
	return &ast.ForIterStmt{Var: vdecl, Array: first, Body: body, Pos: pos}
}

func (p *Parser) parseOutputStmt() ast.Stmt {
	pos := p.cur.Pos
	p.next()
	arg := p.parseExpr()
	p.expect(token.SEMI)
	return &ast.OutputStmt{Arg: arg, Pos: pos}
}

func (p *Parser) parseErrorStmt() ast.Stmt {
	pos := p.cur.Pos
	p.next()
	arg := p.parseExpr()
	p.expect(token.SEMI)
	return &ast.ErrorStmt{Arg: arg, Pos: pos}
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	pos := p.cur.Pos
	p.next()
	arg := p.parseExpr()
	p.expect(token.SEMI)
	return &ast.ReturnStmt{Arg: arg, Pos: pos}
}

// parseSimpleStmt handles "LHS = RHS;" and bare expression statements,
// disambiguated by whether an '=' follows the parsed expression.
func (p *Parser) parseSimpleStmt() ast.Stmt {
	pos := p.cur.Pos
	e := p.parseExpr()
	if p.cur.Kind == token.ASSIGN {
		p.next()
		rhs := p.parseExpr()
		p.expect(token.SEMI)
		return &ast.AssignStmt{LHS: e, RHS: rhs, Pos: pos}
	}
	p.expect(token.SEMI)
	return &ast.ExprStmt{Expr: e, Pos: pos}
}
