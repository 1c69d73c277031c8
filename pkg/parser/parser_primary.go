package parser

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/psyrepl/pkg/core"
	"github.com/leapstack-labs/psyrepl/pkg/token"
)

// parsePrimary parses an operand.
//
//	primary → variable | literal | name | array | list | closure | arrow
//	        | match | new | isset | empty | exit | ( expr )
func (p *Parser) parsePrimary() core.Expr {
	info := p.pos()

	switch p.token.Type {
	case token.VARIABLE, token.DOLLAR:
		return p.parseSimpleVariable()
	case token.INT:
		lit := p.token.Literal
		p.nextToken()
		return &core.IntLit{NodeInfo: info, Raw: lit}
	case token.FLOAT:
		lit := p.token.Literal
		p.nextToken()
		return &core.FloatLit{NodeInfo: info, Raw: lit}
	case token.STRING, token.TEMPLATE, token.HEREDOC, token.SHELL:
		return p.parseString()
	case token.ARRAY:
		p.nextToken()
		p.expect(token.LPAREN)
		return &core.ArrayLit{NodeInfo: info, Items: p.parseArrayItems(token.RPAREN)}
	case token.LBRACKET:
		p.nextToken()
		return &core.ArrayLit{NodeInfo: info, Items: p.parseArrayItems(token.RBRACKET), Short: true}
	case token.LIST:
		p.nextToken()
		p.expect(token.LPAREN)
		return &core.ListExpr{NodeInfo: info, Items: p.parseArrayItems(token.RPAREN)}
	case token.ISSET:
		return p.parseIsset()
	case token.EMPTY:
		p.nextToken()
		p.expect(token.LPAREN)
		x := p.parseExpr(precLowest)
		p.expect(token.RPAREN)
		return &core.Empty{NodeInfo: info, X: x}
	case token.EXIT, token.DIE:
		return p.parseExit()
	case token.NEW:
		return p.parseNew()
	case token.FUNCTION:
		return p.parseClosure(false)
	case token.FN:
		return p.parseArrowFunc(false)
	case token.MATCH:
		return p.parseMatch()
	case token.STATIC:
		if p.checkPeek(token.FUNCTION) {
			p.nextToken()
			closure := p.parseClosure(true)
			closure.NodeInfo = info
			return closure
		}
		if p.checkPeek(token.FN) {
			p.nextToken()
			fn := p.parseArrowFunc(true)
			fn.NodeInfo = info
			return fn
		}
		if p.checkPeek(token.DOUBLE_COLON) {
			name := &core.Name{NodeInfo: info, Parts: []string{p.token.Literal}}
			p.nextToken()
			return p.parseStaticMember(info, name, nil)
		}
	case token.LPAREN:
		p.nextToken()
		x := p.parseExpr(precLowest)
		p.expect(token.RPAREN)
		return &core.ParenExpr{NodeInfo: info, X: x}
	}

	if p.isNameStart() {
		name := p.parseName()
		switch {
		case p.check(token.LPAREN):
			return &core.FuncCall{NodeInfo: info, Name: name, Args: p.parseArgs()}
		case p.check(token.DOUBLE_COLON):
			return p.parseStaticMember(info, name, nil)
		}
		return &core.ConstFetch{NodeInfo: info, Name: name}
	}

	p.unexpected("")
	return nil
}

// parsePostfix parses member access, calls, indexing and postfix
// increments following x. Calls on a computed callee are only accepted
// when allowCall is set.
func (p *Parser) parsePostfix(x core.Expr, allowCall bool) core.Expr {
	for {
		info := core.At(x.Pos())

		switch p.token.Type {
		case token.LBRACKET:
			p.nextToken()
			dim := &core.ArrayDimFetch{NodeInfo: info, Var: x}
			if !p.check(token.RBRACKET) {
				dim.Dim = p.parseExpr(precLowest)
			}
			p.expect(token.RBRACKET)
			x = dim
		case token.ARROW, token.NULLSAFE_ARROW:
			x = p.parseMemberAccess(info, x, allowCall)
		case token.DOUBLE_COLON:
			x = p.parseStaticMember(info, nil, x)
		case token.LPAREN:
			if !allowCall {
				return x
			}
			x = &core.FuncCall{NodeInfo: info, Callee: x, Args: p.parseArgs()}
		case token.INC, token.DEC:
			op := p.token.Type
			p.nextToken()
			return &core.IncDec{NodeInfo: info, Op: op, X: x}
		default:
			return x
		}
	}
}

// parseMemberAccess parses -> or ?-> followed by a property or method.
func (p *Parser) parseMemberAccess(info core.NodeInfo, x core.Expr, allowCall bool) core.Expr {
	nullSafe := p.check(token.NULLSAFE_ARROW)
	p.nextToken()

	var name string
	var nameExpr core.Expr
	switch p.token.Type {
	case token.VARIABLE:
		nameExpr = p.parseSimpleVariable()
	case token.LBRACE:
		p.nextToken()
		nameExpr = p.parseExpr(precLowest)
		p.expect(token.RBRACE)
	default:
		name = p.parseIdentifier()
	}

	if allowCall && p.check(token.LPAREN) {
		return &core.MethodCall{NodeInfo: info, Var: x, Name: name, NameExpr: nameExpr, Args: p.parseArgs(), NullSafe: nullSafe}
	}
	return &core.PropertyFetch{NodeInfo: info, Var: x, Name: name, NameExpr: nameExpr, NullSafe: nullSafe}
}

// parseStaticMember parses :: followed by a method, property or constant.
// Exactly one of class and classExpr is set.
func (p *Parser) parseStaticMember(info core.NodeInfo, class *core.Name, classExpr core.Expr) core.Expr {
	p.expect(token.DOUBLE_COLON)

	switch p.token.Type {
	case token.VARIABLE:
		name := p.token.Literal
		varInfo := p.pos()
		p.nextToken()
		if p.check(token.LPAREN) {
			callee := &core.Variable{NodeInfo: varInfo, Name: name}
			return &core.StaticCall{NodeInfo: info, Class: class, ClassExpr: classExpr, NameExpr: callee, Args: p.parseArgs()}
		}
		return &core.StaticPropertyFetch{NodeInfo: info, Class: class, ClassExpr: classExpr, Name: name}
	case token.LBRACE:
		p.nextToken()
		nameExpr := p.parseExpr(precLowest)
		p.expect(token.RBRACE)
		return &core.StaticCall{NodeInfo: info, Class: class, ClassExpr: classExpr, NameExpr: nameExpr, Args: p.parseArgs()}
	}

	name := p.parseIdentifier()
	if p.check(token.LPAREN) {
		return &core.StaticCall{NodeInfo: info, Class: class, ClassExpr: classExpr, Name: name, Args: p.parseArgs()}
	}
	return &core.ClassConstFetch{NodeInfo: info, Class: class, ClassExpr: classExpr, Name: name}
}

// parseArgs parses ( [arg {, arg}] ). A trailing comma is not accepted.
//
//	arg → [...] expr
func (p *Parser) parseArgs() []*core.Arg {
	p.expect(token.LPAREN)
	args := []*core.Arg{}
	if p.match(token.RPAREN) {
		return args
	}
	for {
		arg := &core.Arg{NodeInfo: p.pos()}
		arg.Unpack = p.match(token.ELLIPSIS)
		arg.Value = p.parseExpr(precLowest)
		args = append(args, arg)
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	return args
}

// parseArrayItems parses array or list() items up to end. Empty slots
// are kept as items with a nil Value.
//
//	item → [expr =>] [&] expr | ... expr | <empty>
func (p *Parser) parseArrayItems(end token.TokenType) []*core.ArrayItem {
	items := []*core.ArrayItem{}
	for !p.check(end) {
		item := &core.ArrayItem{NodeInfo: p.pos()}
		switch {
		case p.check(token.COMMA):
		case p.match(token.ELLIPSIS):
			item.Unpack = true
			item.Value = p.parseExpr(precLowest)
		case p.match(token.AMP):
			item.ByRef = true
			item.Value = p.parseExpr(precLowest)
		default:
			value := p.parseExpr(precLowest)
			if p.match(token.DOUBLE_ARROW) {
				item.Key = value
				item.ByRef = p.match(token.AMP)
				value = p.parseExpr(precLowest)
			}
			item.Value = value
		}
		items = append(items, item)
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(end)
	return items
}

// parseIsset parses ISSET ( expr {, expr} ).
func (p *Parser) parseIsset() core.Expr {
	expr := &core.Isset{NodeInfo: p.pos()}
	p.expect(token.ISSET)
	p.expect(token.LPAREN)
	for {
		expr.Vars = append(expr.Vars, p.parseExpr(precLowest))
		if !p.match(token.COMMA) || p.check(token.RPAREN) {
			break
		}
	}
	p.expect(token.RPAREN)
	return expr
}

// parseExit parses (EXIT | DIE) [( [expr] )].
func (p *Parser) parseExit() core.Expr {
	expr := &core.Exit{NodeInfo: p.pos(), Keyword: strings.ToLower(p.token.Literal)}
	p.nextToken()
	if p.match(token.LPAREN) {
		expr.HasParens = true
		if !p.check(token.RPAREN) {
			expr.X = p.parseExpr(precLowest)
		}
		p.expect(token.RPAREN)
	}
	return expr
}

// parseNew parses NEW (name | static | variable) [args] and anonymous
// classes.
func (p *Parser) parseNew() core.Expr {
	expr := &core.New{NodeInfo: p.pos()}
	p.expect(token.NEW)

	switch {
	case p.check(token.CLASS):
		p.parseAnonClass(expr)
		return expr
	case p.check(token.STATIC):
		expr.Class = &core.Name{NodeInfo: p.pos(), Parts: []string{p.token.Literal}}
		p.nextToken()
	case p.isNameStart():
		expr.Class = p.parseName()
	case p.check(token.VARIABLE), p.check(token.DOLLAR):
		expr.ClassExpr = p.parsePostfix(p.parseSimpleVariable(), false)
	default:
		p.unexpected("")
	}

	if p.check(token.LPAREN) {
		expr.HasArgs = true
		expr.Args = p.parseArgs()
	}
	return expr
}

// parseAnonClass parses:
//
//	anon → CLASS [args] [EXTENDS name] [IMPLEMENTS name {, name}] { member* }
func (p *Parser) parseAnonClass(expr *core.New) {
	decl := &core.ClassDecl{NodeInfo: p.pos()}
	p.expect(token.CLASS)
	if p.check(token.LPAREN) {
		expr.HasArgs = true
		expr.Args = p.parseArgs()
	}
	p.parseClassHeader(decl)
	p.parseClassBody(decl)
	expr.Anon = decl
}

// parseArrowFunc parses:
//
//	arrow → FN [&] ( params ) [: type] => expr
func (p *Parser) parseArrowFunc(static bool) *core.ArrowFunc {
	expr := &core.ArrowFunc{NodeInfo: p.pos(), Static: static}
	p.expect(token.FN)
	expr.ByRef = p.match(token.AMP)
	expr.Params = p.parseParams()
	expr.ReturnType = p.parseReturnType()
	p.expect(token.DOUBLE_ARROW)
	expr.Expr = p.parseExpr(precLowest)
	return expr
}

// parseMatch parses:
//
//	match → MATCH ( expr ) { [arm {, arm} [,]] }
//	arm   → (DEFAULT | expr {, expr} [,]) => expr
func (p *Parser) parseMatch() core.Expr {
	expr := &core.Match{NodeInfo: p.pos()}
	p.expect(token.MATCH)
	expr.Cond = p.parseParenCond()
	p.expect(token.LBRACE)

	expr.Arms = []*core.MatchArm{}
	for !p.check(token.RBRACE) {
		arm := &core.MatchArm{NodeInfo: p.pos()}
		if !p.match(token.DEFAULT) {
			for {
				arm.Conds = append(arm.Conds, p.parseExpr(precLowest))
				if !p.match(token.COMMA) || p.check(token.DOUBLE_ARROW) {
					break
				}
			}
		}
		p.expect(token.DOUBLE_ARROW)
		arm.Body = p.parseExpr(precLowest)
		expr.Arms = append(expr.Arms, arm)
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE)
	return expr
}

// parseClosure parses:
//
//	closure → FUNCTION [&] ( params ) [USE ( [&]$var {, [&]$var} )] [: type] block
func (p *Parser) parseClosure(static bool) *core.Closure {
	expr := &core.Closure{NodeInfo: p.pos(), Static: static}
	p.expect(token.FUNCTION)
	expr.ByRef = p.match(token.AMP)
	expr.Params = p.parseParams()

	if p.match(token.USE) {
		p.expect(token.LPAREN)
		for !p.check(token.RPAREN) {
			use := &core.ClosureUse{NodeInfo: p.pos()}
			use.ByRef = p.match(token.AMP)
			tok := p.expect(token.VARIABLE)
			use.Var = &core.Variable{NodeInfo: core.At(tok.Pos), Name: tok.Literal}
			expr.Uses = append(expr.Uses, use)
			if !p.match(token.COMMA) {
				break
			}
		}
		p.expect(token.RPAREN)
	}

	expr.ReturnType = p.parseReturnType()
	expr.Body = p.parseBlock()
	return expr
}

// ---------- Variables ----------

// parseSimpleVariable parses $name, $$var or ${expr}.
func (p *Parser) parseSimpleVariable() core.Expr {
	info := p.pos()
	if p.check(token.VARIABLE) {
		name := p.token.Literal
		p.nextToken()
		return &core.Variable{NodeInfo: info, Name: name}
	}

	p.expect(token.DOLLAR)
	if p.match(token.LBRACE) {
		x := p.parseExpr(precLowest)
		p.expect(token.RBRACE)
		return &core.Variable{NodeInfo: info, NameExpr: x, Braced: true}
	}
	if !p.check(token.VARIABLE) && !p.check(token.DOLLAR) {
		p.unexpected("variable")
	}
	return &core.Variable{NodeInfo: info, NameExpr: p.parseSimpleVariable()}
}

// ---------- Names ----------

// isNameStart reports whether the current token starts a name.
func (p *Parser) isNameStart() bool {
	switch p.token.Type {
	case token.IDENT, token.BACKSLASH:
		return true
	case token.NAMESPACE:
		return p.checkPeek(token.BACKSLASH)
	}
	return false
}

// parseName parses a possibly qualified name.
//
//	name → [\ | namespace\] ident {\ ident}
func (p *Parser) parseName() *core.Name {
	name := &core.Name{NodeInfo: p.pos()}
	switch {
	case p.match(token.BACKSLASH):
		name.Kind = core.NameFullyQualified
	case p.check(token.NAMESPACE) && p.checkPeek(token.BACKSLASH):
		p.nextToken()
		p.nextToken()
		name.Kind = core.NameRelative
	}

	if name.Kind == core.NameNormal {
		name.Parts = append(name.Parts, p.expect(token.IDENT).Literal)
	} else {
		name.Parts = append(name.Parts, p.parseIdentifier())
	}
	for p.check(token.BACKSLASH) && (p.checkPeek(token.IDENT) || token.IsKeyword(p.peek.Type)) {
		p.nextToken()
		name.Parts = append(name.Parts, p.token.Literal)
		p.nextToken()
	}
	return name
}

// parseIdentifier parses an identifier where reserved words are allowed,
// such as member and constant names.
func (p *Parser) parseIdentifier() string {
	if p.check(token.IDENT) || token.IsKeyword(p.token.Type) {
		lit := p.token.Literal
		p.nextToken()
		return lit
	}
	p.unexpected("identifier")
	return ""
}

// ---------- Strings ----------

// parseString parses a string literal. A literal that runs to the end of
// input is an end-of-input error here, where a value is expected.
func (p *Parser) parseString() core.Expr {
	tok := p.token
	info := p.pos()
	if tok.Unterminated {
		p.failEOF(fmt.Sprintf(ErrUnterminatedString, tok.Pos.Line))
	}
	p.nextToken()

	switch tok.Type {
	case token.TEMPLATE:
		parts := p.interpolatedParts(tok.Literal, 1, len(tok.Literal)-1, tok.Pos)
		return &core.InterpolatedString{NodeInfo: info, Raw: tok.Literal, Parts: parts}
	case token.SHELL:
		parts := p.interpolatedParts(tok.Literal, 1, len(tok.Literal)-1, tok.Pos)
		return &core.ShellExec{NodeInfo: info, Raw: tok.Literal, Parts: parts}
	case token.HEREDOC:
		if parts := p.heredocParts(tok); len(parts) > 0 {
			return &core.InterpolatedString{NodeInfo: info, Raw: tok.Literal, Parts: parts}
		}
	}
	return &core.StringLit{NodeInfo: info, Raw: tok.Literal}
}

// heredocParts returns the variables and expressions embedded in a heredoc
// body. Nowdocs never interpolate.
func (p *Parser) heredocParts(tok token.Token) []core.Expr {
	opener := strings.TrimLeft(tok.Literal[3:], " \t")
	if strings.HasPrefix(opener, "'") {
		return nil
	}
	nl := strings.IndexByte(tok.Literal, '\n')
	if nl < 0 {
		return nil
	}
	return p.interpolatedParts(tok.Literal, nl+1, len(tok.Literal), tok.Pos)
}

// interpolatedParts parses what lit[from:to], the body of an interpolating
// string, embeds: "$name" variables, "{$expr}" expressions and "${...}"
// variables. start is the position of the literal's first character.
func (p *Parser) interpolatedParts(lit string, from, to int, start token.Position) []core.Expr {
	var parts []core.Expr
	line := start.Line + strings.Count(lit[:from], "\n")
	lineStart := strings.LastIndexByte(lit[:from], '\n') + 1

	at := func(i int) token.Position {
		column := i - lineStart + 1
		if line == start.Line {
			column = start.Column + i
		}
		return token.Position{Line: line, Column: column, Offset: start.Offset + i}
	}
	skip := func(i, end int) int {
		for k := i; k < end; k++ {
			if lit[k] == '\n' {
				line++
				lineStart = k + 1
			}
		}
		return end - 1
	}

	body := lit[:to]
	for i := from; i < to; i++ {
		switch lit[i] {
		case '\n':
			line++
			lineStart = i + 1
		case '\\':
			if i+1 < to && lit[i+1] == '\n' {
				line++
				lineStart = i + 2
			}
			i++
		case '{':
			if i+1 >= to || lit[i+1] != '$' {
				continue
			}
			end := embeddedEnd(body, i+1)
			if end < 0 {
				return parts
			}
			parts = append(parts, p.parseEmbedded(lit[i+1:end-1], at(i+1)))
			i = skip(i, end)
		case '$':
			if i+1 < to && lit[i+1] == '{' {
				end := embeddedEnd(body, i+2)
				if end < 0 {
					return parts
				}
				parts = append(parts, p.parseBracedVariable(lit[i+2:end-1], at(i), at(i+2)))
				i = skip(i, end)
				continue
			}
			if i+1 >= to || !isIdentStart(lit[i+1]) {
				continue
			}
			k := i + 1
			for k < to && isIdentChar(lit[k]) {
				k++
			}
			parts = append(parts, &core.Variable{NodeInfo: core.At(at(i)), Name: lit[i+1 : k]})
			i = k - 1
		}
	}
	return parts
}

// parseBracedVariable parses the body of "${...}": a variable name, a name
// with an offset, or an expression that evaluates to a variable name.
func (p *Parser) parseBracedVariable(src string, dollar, body token.Position) core.Expr {
	if isIdentifier(src) {
		return &core.Variable{NodeInfo: core.At(dollar), Name: src}
	}
	x := p.parseEmbedded(src, body)
	if dim, ok := x.(*core.ArrayDimFetch); ok {
		if c, ok := dim.Var.(*core.ConstFetch); ok && c.Name.Kind == core.NameNormal && len(c.Name.Parts) == 1 {
			dim.Var = &core.Variable{NodeInfo: core.At(dollar), Name: c.Name.Parts[0]}
			return dim
		}
	}
	return &core.Variable{NodeInfo: core.At(dollar), NameExpr: x, Braced: true}
}

// parseEmbedded parses an expression embedded in a string literal,
// starting at pos. The enclosing string is complete, so a failure here is
// never an end-of-input error.
func (p *Parser) parseEmbedded(src string, pos token.Position) core.Expr {
	sub := &Parser{lexer: newLexerAt(src, pos)}
	sub.nextToken()
	sub.nextToken()
	sub.nextToken()

	x, err := sub.parseFragment()
	if err != nil {
		err.EOF = false
		p.fail(err)
	}
	return x
}

// parseFragment parses a single expression that must span the whole input.
func (p *Parser) parseFragment() (x core.Expr, err *ParseError) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			x, err = nil, p.err
		}
	}()

	x = p.parseExpr(precLowest)
	if !p.check(token.EOF) {
		p.unexpected(`"}"`)
	}
	return x, nil
}

func isIdentifier(s string) bool {
	if s == "" || !isIdentStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentChar(s[i]) {
			return false
		}
	}
	return true
}
