package parser

import (
	"strconv"

	"github.com/sipforge/sip/internal/ast"
	"github.com/sipforge/sip/internal/token"
)

// Expression grammar, lowest to highest precedence:
//
//	ternary        := logicOr ('?' ternary ':' ternary)?
//	logicOr        := logicAnd ('or' logicAnd)*
//	logicAnd       := equality ('and' equality)*
//	equality       := relational (('==' | '!=') relational)*
//	relational     := additive (('<' | '<=' | '>' | '>=') additive)*
//	additive       := multiplicative (('+' | '-') multiplicative)*
//	multiplicative := unary (('*' | '/' | '%') unary)*
//	unary          := ('-' | '!' | '#' | '&' | '*' | '++' | '--' | 'alloc') unary | postfix
//	postfix        := primary ('.' IDENT | '[' expr ']' | '(' args ')' | '++' | '--')*
//	primary        := literals, parenthesized expr, record/array literals
func (p *Parser) parseExpr() ast.Expr { return p.parseTernary() }

func (p *Parser) parseTernary() ast.Expr {
	cond := p.parseLogicOr()
	if p.cur.Kind == token.QUESTION {
		pos := p.cur.Pos
		p.next()
		then := p.parseTernary()
		p.expect(token.COLON)
		els := p.parseTernary()
		return &ast.TernaryExpr{Cond: cond, Then: then, Else: els, Pos: pos}
	}
	return cond
}

func (p *Parser) parseLogicOr() ast.Expr {
	left := p.parseLogicAnd()
	for p.cur.Kind == token.OR {
		pos := p.cur.Pos
		p.next()
		right := p.parseLogicAnd()
		left = &ast.BinaryExpr{Op: "or", Left: left, Right: right, Pos: pos}
	}
	return left
}

func (p *Parser) parseLogicAnd() ast.Expr {
	left := p.parseEquality()
	for p.cur.Kind == token.AND {
		pos := p.cur.Pos
		p.next()
		right := p.parseEquality()
		left = &ast.BinaryExpr{Op: "and", Left: left, Right: right, Pos: pos}
	}
	return left
}

func (p *Parser) parseEquality() ast.Expr {
	left := p.parseRelational()
	for p.cur.Kind == token.EQ || p.cur.Kind == token.NEQ {
		op, pos := p.cur.Literal, p.cur.Pos
		p.next()
		right := p.parseRelational()
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right, Pos: pos}
	}
	return left
}

func (p *Parser) parseRelational() ast.Expr {
	left := p.parseAdditive()
	for p.cur.Kind == token.LT || p.cur.Kind == token.LE || p.cur.Kind == token.GT || p.cur.Kind == token.GE {
		op, pos := p.cur.Literal, p.cur.Pos
		p.next()
		right := p.parseAdditive()
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right, Pos: pos}
	}
	return left
}

func (p *Parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for p.cur.Kind == token.PLUS || p.cur.Kind == token.MINUS {
		op, pos := p.cur.Literal, p.cur.Pos
		p.next()
		right := p.parseMultiplicative()
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right, Pos: pos}
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expr {
	left := p.parseUnary()
	for p.cur.Kind == token.STAR || p.cur.Kind == token.SLASH || p.cur.Kind == token.PERCENT {
		op, pos := p.cur.Literal, p.cur.Pos
		p.next()
		right := p.parseUnary()
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right, Pos: pos}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	switch p.cur.Kind {
	case token.MINUS:
		pos := p.cur.Pos
		p.next()
		return &ast.UnaryExpr{Op: "-", Expr: p.parseUnary(), Pos: pos}
	case token.NOT:
		pos := p.cur.Pos
		p.next()
		return &ast.UnaryExpr{Op: "!", Expr: p.parseUnary(), Pos: pos}
	case token.HASH:
		pos := p.cur.Pos
		p.next()
		return &ast.UnaryExpr{Op: "#", Expr: p.parseUnary(), Pos: pos}
	case token.AMP:
		pos := p.cur.Pos
		p.next()
		return &ast.RefExpr{Var: p.parseUnary(), Pos: pos}
	case token.STAR:
		pos := p.cur.Pos
		p.next()
		return &ast.DeRefExpr{Ptr: p.parseUnary(), Pos: pos}
	case token.INC, token.DEC:
		op, pos := p.cur.Literal, p.cur.Pos
		p.next()
		return &ast.UnaryExpr{Op: op, Expr: p.parseUnary(), Post: false, Pos: pos}
	case token.ALLOC:
		pos := p.cur.Pos
		p.next()
		return &ast.AllocExpr{Init: p.parseUnary(), Pos: pos}
	default:
		return p.parsePostfix()
	}
}

func (p *Parser) parsePostfix() ast.Expr {
	e := p.parsePrimary()
	for {
		switch p.cur.Kind {
		case token.DOT:
			p.next()
			fp := p.cur.Pos
			field := p.expect(token.IDENT).Literal
			e = &ast.AccessExpr{Record: e, Field: field, Pos: fp}
		case token.LBRACKET:
			pos := p.cur.Pos
			p.next()
			idx := p.parseExpr()
			p.expect(token.RBRACKET)
			e = &ast.ArrayRefExpr{Array: e, Index: idx, Pos: pos}
		case token.LPAREN:
			pos := p.cur.Pos
			p.next()
			var args []ast.Expr
			for p.cur.Kind != token.RPAREN && p.cur.Kind != token.EOF {
				args = append(args, p.parseExpr())
				if p.cur.Kind == token.COMMA {
					p.next()
				}
			}
			p.expect(token.RPAREN)
			e = &ast.FunAppExpr{Func: e, Args: args, Pos: pos}
		case token.INC, token.DEC:
			op, pos := p.cur.Literal, p.cur.Pos
			p.next()
			e = &ast.UnaryExpr{Op: op, Expr: e, Post: true, Pos: pos}
		default:
			return e
		}
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	switch p.cur.Kind {
	case token.INT:
		pos, lit := p.cur.Pos, p.cur.Literal
		p.next()
		v, err := strconv.ParseInt(lit, 10, 64)
		if err != nil {
			p.report("PAR002", "use a literal that fits in a 64-bit integer",
				"invalid integer literal %q", lit)
		}
		return &ast.NumberExpr{Value: v, Pos: pos}
	case token.TRUE:
		pos := p.cur.Pos
		p.next()
		return &ast.BooleanExpr{Value: true, Pos: pos}
	case token.FALSE:
		pos := p.cur.Pos
		p.next()
		return &ast.BooleanExpr{Value: false, Pos: pos}
	case token.NULL:
		pos := p.cur.Pos
		p.next()
		return &ast.NullExpr{Pos: pos}
	case token.INPUT:
		pos := p.cur.Pos
		p.next()
		return &ast.InputExpr{Pos: pos}
	case token.IDENT:
		pos, name := p.cur.Pos, p.cur.Literal
		p.next()
		return &ast.VariableExpr{Name: name, Pos: pos}
	case token.LPAREN:
		p.next()
		e := p.parseExpr()
		p.expect(token.RPAREN)
		return e
	case token.LBRACE:
		return p.parseRecordExpr()
	case token.LBRACKET:
		return p.parseArrayExpr()
	default:
		tok := p.cur
		p.report("PAR003", "this token cannot start an expression",
			"unexpected token %s %q in expression", tok.Kind, tok.Literal)
		p.next()
		return &ast.NumberExpr{Value: 0, Pos: tok.Pos}
	}
}

func (p *Parser) parseRecordExpr() ast.Expr {
	pos := p.cur.Pos
	p.expect(token.LBRACE)
	r := &ast.RecordExpr{Pos: pos}
	for p.cur.Kind != token.RBRACE && p.cur.Kind != token.EOF {
		fp := p.cur.Pos
		name := p.expect(token.IDENT).Literal
		p.expect(token.COLON)
		init := p.parseExpr()
		r.Fields = append(r.Fields, &ast.RecordField{Name: name, Init: init, Pos: fp})
		if p.cur.Kind == token.COMMA {
			p.next()
		}
	}
	p.expect(token.RBRACE)
	return r
}

// parseArrayExpr parses both "[e1, e2, ...]" element lists and the
// "[length of value]" fill form, disambiguated by the keyword after the
// first element.
func (p *Parser) parseArrayExpr() ast.Expr {
	pos := p.cur.Pos
	p.expect(token.LBRACKET)
	if p.cur.Kind == token.RBRACKET {
		p.next()
		return &ast.ArrayExpr{Pos: pos}
	}
	first := p.parseExpr()
	if p.cur.Kind == token.MAIN_OF {
		p.next()
		val := p.parseExpr()
		p.expect(token.RBRACKET)
		return &ast.ArrayOfExpr{Length: first, Value: val, Pos: pos}
	}
	a := &ast.ArrayExpr{Elements: []ast.Expr{first}, Pos: pos}
	for p.cur.Kind == token.COMMA {
		p.next()
		a.Elements = append(a.Elements, p.parseExpr())
	}
	p.expect(token.RBRACKET)
	return a
}
