package parser

import (
	"github.com/leapstack-labs/psyrepl/pkg/core"
	"github.com/leapstack-labs/psyrepl/pkg/token"
)

// Operator precedence levels, lowest first.
const (
	precLowest     = iota
	precOr         // or
	precXor        // xor
	precAnd        // and
	precAssign     // = += -= ... (right associative)
	precTernary    // ? :
	precCoalesce   // ?? (right associative)
	precBoolOr     // ||
	precBoolAnd    // &&
	precBitOr      // |
	precBitXor     // ^
	precBitAnd     // &
	precEquality   // == != === !== <=>
	precCompare    // < <= > >=
	precConcat     // .
	precShift      // << >>
	precAdditive   // + -
	precMultiply   // * / %
	precNot        // !
	precInstanceof // instanceof
	precUnary      // ++ -- ~ (cast) @ unary + -
	precPow        // ** (right associative)
)

// infixPrecedence returns the precedence of a binary operator token, or
// precLowest if the token is not one.
func infixPrecedence(t token.TokenType) int {
	switch t {
	case token.OR:
		return precOr
	case token.XOR:
		return precXor
	case token.AND:
		return precAnd
	case token.QUESTION:
		return precTernary
	case token.COALESCE:
		return precCoalesce
	case token.BOOL_OR:
		return precBoolOr
	case token.BOOL_AND:
		return precBoolAnd
	case token.PIPE:
		return precBitOr
	case token.CARET:
		return precBitXor
	case token.AMP:
		return precBitAnd
	case token.EQ, token.NE, token.IDENTICAL, token.NOT_IDENTICAL, token.SPACESHIP:
		return precEquality
	case token.LT, token.LE, token.GT, token.GE:
		return precCompare
	case token.DOT:
		return precConcat
	case token.SHL, token.SHR:
		return precShift
	case token.PLUS, token.MINUS:
		return precAdditive
	case token.STAR, token.SLASH, token.PERCENT:
		return precMultiply
	case token.INSTANCEOF:
		return precInstanceof
	case token.POW:
		return precPow
	}
	return precLowest
}

// parseExpr parses an expression whose binary operators all bind tighter
// than minPrec.
//
//	expr → unary (binop unary)*
func (p *Parser) parseExpr(minPrec int) core.Expr {
	left := p.parseUnary()

	for {
		prec := infixPrecedence(p.token.Type)
		if prec == precLowest || prec <= minPrec {
			return left
		}

		switch p.token.Type {
		case token.QUESTION:
			left = p.parseTernary(left)
		case token.INSTANCEOF:
			left = p.parseInstanceof(left)
		default:
			info := core.At(left.Pos())
			op := p.token.Type
			p.nextToken()

			// Right associative operators recurse at one level lower.
			rhsPrec := prec
			if op == token.POW || op == token.COALESCE {
				rhsPrec--
			}
			left = &core.Binary{NodeInfo: info, X: left, Op: op, Y: p.parseExpr(rhsPrec)}
		}
	}
}

// parseTernary parses cond ? [then] : else.
func (p *Parser) parseTernary(cond core.Expr) core.Expr {
	expr := &core.Ternary{NodeInfo: core.At(cond.Pos()), Cond: cond}
	p.expect(token.QUESTION)
	if !p.check(token.COLON) {
		expr.Then = p.parseExpr(precAssign)
	}
	p.expect(token.COLON)
	expr.Else = p.parseExpr(precTernary)
	return expr
}

// parseInstanceof parses x instanceof (name | expr).
func (p *Parser) parseInstanceof(x core.Expr) core.Expr {
	expr := &core.Instanceof{NodeInfo: core.At(x.Pos()), X: x}
	p.expect(token.INSTANCEOF)
	if p.isNameStart() {
		expr.Class = p.parseName()
	} else {
		expr.ClassExpr = p.parsePostfix(p.parsePrimary(), false)
	}
	return expr
}

// parseUnary parses prefix operators.
//
//	unary → (! | - | + | ~ | @ | cast) unary | (++ | --) unary
//	      | include expr | yield | postfix
func (p *Parser) parseUnary() core.Expr {
	info := p.pos()

	switch p.token.Type {
	case token.NOT:
		p.nextToken()
		return &core.Unary{NodeInfo: info, Op: token.NOT, X: p.parseExpr(precNot)}
	case token.MINUS, token.PLUS, token.TILDE, token.AT:
		op := p.token.Type
		p.nextToken()
		return &core.Unary{NodeInfo: info, Op: op, X: p.parseExpr(precUnary)}
	case token.INC, token.DEC:
		op := p.token.Type
		p.nextToken()
		return &core.IncDec{NodeInfo: info, Op: op, Prefix: true, X: p.parseExpr(precUnary)}
	case token.CAST:
		typ := p.token.Literal
		p.nextToken()
		return &core.Cast{NodeInfo: info, Type: typ, X: p.parseExpr(precUnary)}
	case token.PRINT:
		p.nextToken()
		return &core.Print{NodeInfo: info, X: p.parseExpr(precAnd)}
	case token.CLONE:
		p.nextToken()
		return &core.Clone{NodeInfo: info, X: p.parseExpr(precPow)}
	case token.INCLUDE, token.INCLUDE_ONCE, token.REQUIRE, token.REQUIRE_ONCE:
		kind := p.token.Type
		p.nextToken()
		return &core.Include{NodeInfo: info, Kind: kind, X: p.parseExpr(precLowest)}
	case token.YIELD:
		return p.parseYield()
	}

	return p.parseAssignment(p.parsePostfix(p.parsePrimary(), true))
}

// parseYield parses:
//
//	yield → YIELD [expr [=> expr]] | YIELD FROM expr
func (p *Parser) parseYield() core.Expr {
	info := p.pos()
	p.expect(token.YIELD)
	if p.isSoft("from") {
		p.nextToken()
		return &core.YieldFrom{NodeInfo: info, X: p.parseExpr(precAnd)}
	}

	expr := &core.Yield{NodeInfo: info}
	switch p.token.Type {
	case token.SEMICOLON, token.RPAREN, token.RBRACKET, token.RBRACE, token.COMMA, token.EOF:
		return expr
	}
	expr.Value = p.parseExpr(precAnd)
	if p.match(token.DOUBLE_ARROW) {
		expr.Key = expr.Value
		expr.Value = p.parseExpr(precAnd)
	}
	return expr
}

// isAssignable reports whether x may appear on the left of an assignment.
func isAssignable(x core.Expr) bool {
	switch x.(type) {
	case *core.Variable, *core.ArrayDimFetch, *core.PropertyFetch,
		*core.StaticPropertyFetch, *core.ListExpr, *core.ArrayLit:
		return true
	}
	return false
}

// parseAssignment parses an assignment whose target is x, if an
// assignment operator follows.
//
//	assign → target (= [&] | op=) expr
func (p *Parser) parseAssignment(x core.Expr) core.Expr {
	if !token.IsAssign(p.token.Type) {
		return x
	}
	if !isAssignable(x) {
		return x
	}
	if _, ok := x.(*core.ListExpr); ok && !p.check(token.ASSIGN) {
		p.unexpected(`"="`)
	}
	if arr, ok := x.(*core.ArrayLit); ok && (!arr.Short || !p.check(token.ASSIGN)) {
		return x
	}

	expr := &core.Assign{NodeInfo: core.At(x.Pos()), Target: x, Op: p.token.Type}
	p.nextToken()
	if expr.Op == token.ASSIGN && p.check(token.AMP) {
		p.nextToken()
		expr.ByRef = true
	}
	expr.Value = p.parseExpr(precAssign - 1)
	return expr
}
