package parser

import (
	"strings"

	"github.com/leapstack-labs/psyrepl/pkg/core"
	"github.com/leapstack-labs/psyrepl/pkg/token"
)

// parseTopLevel parses statements until EOF. Statements following a
// semicolon-form namespace declaration become its body.
//
//	file → statement*
func (p *Parser) parseTopLevel() []core.Stmt {
	var stmts []core.Stmt
	var open *core.NamespaceStmt

	for !p.check(token.EOF) {
		stmt := p.parseStatement()
		if stmt == nil {
			continue
		}
		if ns, ok := stmt.(*core.NamespaceStmt); ok {
			stmts = append(stmts, ns)
			open = nil
			if !ns.Braced {
				open = ns
			}
			continue
		}
		if open != nil {
			open.Stmts = append(open.Stmts, stmt)
			continue
		}
		stmts = append(stmts, stmt)
	}
	return stmts
}

// parseStatementList parses statements until one of the given terminators.
func (p *Parser) parseStatementList(end ...token.TokenType) []core.Stmt {
	stmts := []core.Stmt{}
	for {
		for _, t := range end {
			if p.check(t) {
				return stmts
			}
		}
		if p.check(token.EOF) {
			p.unexpected("")
		}
		if stmt := p.parseStatement(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
}

// parseBlock parses { statement* }.
func (p *Parser) parseBlock() []core.Stmt {
	p.expect(token.LBRACE)
	p.depth++
	stmts := p.parseStatementList(token.RBRACE)
	p.depth--
	p.expect(token.RBRACE)
	return stmts
}

// parseBody parses a loop or branch body: a block or a single statement.
func (p *Parser) parseBody() []core.Stmt {
	if p.check(token.LBRACE) {
		return p.parseBlock()
	}
	p.depth++
	defer func() { p.depth-- }()
	if stmt := p.parseStatement(); stmt != nil {
		return []core.Stmt{stmt}
	}
	return []core.Stmt{}
}

// parseStatement parses a single statement. It returns nil for an empty
// statement.
func (p *Parser) parseStatement() core.Stmt {
	switch p.token.Type {
	case token.SEMICOLON:
		p.nextToken()
		return nil
	case token.LBRACE:
		info := p.pos()
		return &core.BlockStmt{NodeInfo: info, Stmts: p.parseBlock()}
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.DO:
		return p.parseDoWhile()
	case token.FOR:
		return p.parseFor()
	case token.FOREACH:
		return p.parseForeach()
	case token.SWITCH:
		return p.parseSwitch()
	case token.BREAK, token.CONTINUE:
		return p.parseBreakContinue()
	case token.RETURN:
		return p.parseReturn()
	case token.ECHO:
		return p.parseEcho()
	case token.GLOBAL:
		return p.parseGlobal()
	case token.UNSET:
		return p.parseUnset()
	case token.THROW:
		return p.parseThrow()
	case token.TRY:
		return p.parseTry()
	case token.CONST:
		return p.parseConst()
	case token.USE:
		return p.parseUse()
	case token.NAMESPACE:
		if !p.checkPeek(token.BACKSLASH) {
			return p.parseNamespace()
		}
	case token.FUNCTION:
		if p.checkPeek(token.IDENT) || p.checkPeek(token.AMP) && p.peek2.Type == token.IDENT {
			return p.parseFuncDecl()
		}
	case token.ABSTRACT, token.FINAL, token.CLASS, token.INTERFACE, token.TRAIT:
		return p.parseClass()
	case token.STATIC:
		if p.checkPeek(token.VARIABLE) {
			return p.parseStaticVars()
		}
	case token.DECLARE:
		return p.parseDeclare()
	case token.GOTO:
		stmt := &core.GotoStmt{NodeInfo: p.pos()}
		p.nextToken()
		stmt.Label = p.expect(token.IDENT).Literal
		p.expectSemi()
		return stmt
	case token.IDENT:
		if p.checkPeek(token.COLON) {
			stmt := &core.LabelStmt{NodeInfo: p.pos(), Name: p.token.Literal}
			p.nextToken()
			p.nextToken()
			return stmt
		}
		if p.isSoft("enum") && p.checkPeek(token.IDENT) {
			return p.parseClass()
		}
	}

	info := p.pos()
	x := p.parseExpr(precLowest)
	p.expectSemi()
	return &core.ExprStmt{NodeInfo: info, X: x}
}

// parseParenCond parses ( expr ).
func (p *Parser) parseParenCond() core.Expr {
	p.expect(token.LPAREN)
	x := p.parseExpr(precLowest)
	p.expect(token.RPAREN)
	return x
}

// parseIf parses:
//
//	if → IF ( expr ) body {ELSEIF ( expr ) body} [ELSE body]
func (p *Parser) parseIf() core.Stmt {
	stmt := &core.IfStmt{NodeInfo: p.pos()}
	p.expect(token.IF)
	stmt.Cond = p.parseParenCond()
	stmt.Then = p.parseBody()

	for p.check(token.ELSEIF) {
		elseIf := &core.ElseIf{NodeInfo: p.pos()}
		p.nextToken()
		elseIf.Cond = p.parseParenCond()
		elseIf.Body = p.parseBody()
		stmt.ElseIfs = append(stmt.ElseIfs, elseIf)
	}
	if p.match(token.ELSE) {
		stmt.HasElse = true
		stmt.Else = p.parseBody()
	}
	return stmt
}

// parseWhile parses WHILE ( expr ) body.
func (p *Parser) parseWhile() core.Stmt {
	stmt := &core.WhileStmt{NodeInfo: p.pos()}
	p.expect(token.WHILE)
	stmt.Cond = p.parseParenCond()
	stmt.Body = p.parseBody()
	return stmt
}

// parseDoWhile parses DO body WHILE ( expr ) ;.
func (p *Parser) parseDoWhile() core.Stmt {
	stmt := &core.DoWhileStmt{NodeInfo: p.pos()}
	p.expect(token.DO)
	stmt.Body = p.parseBody()
	p.expect(token.WHILE)
	stmt.Cond = p.parseParenCond()
	p.expectSemi()
	return stmt
}

// parseFor parses FOR ( exprs ; exprs ; exprs ) body.
func (p *Parser) parseFor() core.Stmt {
	stmt := &core.ForStmt{NodeInfo: p.pos()}
	p.expect(token.FOR)
	p.expect(token.LPAREN)
	stmt.Init = p.parseExprListUntil(token.SEMICOLON)
	p.expect(token.SEMICOLON)
	stmt.Cond = p.parseExprListUntil(token.SEMICOLON)
	p.expect(token.SEMICOLON)
	stmt.Loop = p.parseExprListUntil(token.RPAREN)
	p.expect(token.RPAREN)
	stmt.Body = p.parseBody()
	return stmt
}

// parseExprListUntil parses a possibly empty comma separated expression
// list ending before end.
func (p *Parser) parseExprListUntil(end token.TokenType) []core.Expr {
	var exprs []core.Expr
	if p.check(end) {
		return exprs
	}
	for {
		exprs = append(exprs, p.parseExpr(precLowest))
		if !p.match(token.COMMA) {
			return exprs
		}
	}
}

// parseForeach parses:
//
//	foreach → FOREACH ( expr AS [expr =>] [&] expr ) body
func (p *Parser) parseForeach() core.Stmt {
	stmt := &core.ForeachStmt{NodeInfo: p.pos()}
	p.expect(token.FOREACH)
	p.expect(token.LPAREN)
	stmt.X = p.parseExpr(precLowest)
	p.expect(token.AS)

	byRef := p.match(token.AMP)
	value := p.parseForeachTarget()
	if !byRef && p.match(token.DOUBLE_ARROW) {
		stmt.Key = value
		byRef = p.match(token.AMP)
		value = p.parseForeachTarget()
	}
	stmt.Value = value
	stmt.ByRef = byRef

	p.expect(token.RPAREN)
	stmt.Body = p.parseBody()
	return stmt
}

// parseForeachTarget parses a key or value target. Assignment is not
// allowed here, so the target stops before "=>".
func (p *Parser) parseForeachTarget() core.Expr {
	return p.parseExpr(precCoalesce)
}

// parseSwitch parses:
//
//	switch → SWITCH ( expr ) { {CASE expr (:|;) stmts | DEFAULT (:|;) stmts} }
func (p *Parser) parseSwitch() core.Stmt {
	stmt := &core.SwitchStmt{NodeInfo: p.pos()}
	p.expect(token.SWITCH)
	stmt.Cond = p.parseParenCond()
	p.expect(token.LBRACE)
	p.depth++

	for !p.check(token.RBRACE) {
		c := &core.Case{NodeInfo: p.pos()}
		switch {
		case p.match(token.CASE):
			c.Cond = p.parseExpr(precLowest)
		case p.match(token.DEFAULT):
		default:
			p.unexpected(`"case"`)
		}
		if !p.match(token.COLON) {
			p.expectSemi()
		}
		c.Body = p.parseStatementList(token.CASE, token.DEFAULT, token.RBRACE)
		stmt.Cases = append(stmt.Cases, c)
	}

	p.depth--
	p.expect(token.RBRACE)
	return stmt
}

// parseBreakContinue parses BREAK [expr] ; and CONTINUE [expr] ;.
func (p *Parser) parseBreakContinue() core.Stmt {
	info := p.pos()
	isBreak := p.check(token.BREAK)
	p.nextToken()

	var num core.Expr
	if !p.check(token.SEMICOLON) {
		num = p.parseExpr(precLowest)
	}
	p.expectSemi()

	if isBreak {
		return &core.BreakStmt{NodeInfo: info, Num: num}
	}
	return &core.ContinueStmt{NodeInfo: info, Num: num}
}

// parseReturn parses RETURN [expr] ;.
func (p *Parser) parseReturn() core.Stmt {
	stmt := &core.ReturnStmt{NodeInfo: p.pos()}
	p.expect(token.RETURN)
	if !p.check(token.SEMICOLON) {
		stmt.Result = p.parseExpr(precLowest)
	}
	p.expectSemi()
	return stmt
}

// parseEcho parses ECHO expr {, expr} ;.
func (p *Parser) parseEcho() core.Stmt {
	stmt := &core.EchoStmt{NodeInfo: p.pos()}
	p.expect(token.ECHO)
	stmt.Exprs = p.parseExprListUntil(token.SEMICOLON)
	if len(stmt.Exprs) == 0 {
		p.unexpected("")
	}
	p.expectSemi()
	return stmt
}

// parseGlobal parses GLOBAL var {, var} ;.
func (p *Parser) parseGlobal() core.Stmt {
	stmt := &core.GlobalStmt{NodeInfo: p.pos()}
	p.expect(token.GLOBAL)
	for {
		stmt.Vars = append(stmt.Vars, p.parseSimpleVariable())
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expectSemi()
	return stmt
}

// parseStaticVars parses STATIC $var [= expr] {, $var [= expr]} ;.
func (p *Parser) parseStaticVars() core.Stmt {
	stmt := &core.StaticStmt{NodeInfo: p.pos()}
	p.expect(token.STATIC)
	for {
		sv := &core.StaticVar{NodeInfo: p.pos()}
		tok := p.expect(token.VARIABLE)
		sv.Var = &core.Variable{NodeInfo: core.At(tok.Pos), Name: tok.Literal}
		if p.match(token.ASSIGN) {
			sv.Default = p.parseExpr(precAssign)
		}
		stmt.Vars = append(stmt.Vars, sv)
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expectSemi()
	return stmt
}

// parseUnset parses UNSET ( expr {, expr} [,] ) ;.
func (p *Parser) parseUnset() core.Stmt {
	stmt := &core.UnsetStmt{NodeInfo: p.pos()}
	p.expect(token.UNSET)
	p.expect(token.LPAREN)
	for !p.check(token.RPAREN) {
		stmt.Vars = append(stmt.Vars, p.parseExpr(precLowest))
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	p.expectSemi()
	return stmt
}

// parseThrow parses THROW expr ;.
func (p *Parser) parseThrow() core.Stmt {
	stmt := &core.ThrowStmt{NodeInfo: p.pos()}
	p.expect(token.THROW)
	stmt.X = p.parseExpr(precLowest)
	p.expectSemi()
	return stmt
}

// parseTry parses:
//
//	try → TRY block {CATCH ( name {| name} [$var] ) block} [FINALLY block]
func (p *Parser) parseTry() core.Stmt {
	stmt := &core.TryStmt{NodeInfo: p.pos()}
	p.expect(token.TRY)
	stmt.Body = p.parseBlock()

	for p.check(token.CATCH) {
		c := &core.Catch{NodeInfo: p.pos()}
		p.nextToken()
		p.expect(token.LPAREN)
		for {
			c.Types = append(c.Types, p.parseName())
			if !p.match(token.PIPE) {
				break
			}
		}
		if p.check(token.VARIABLE) {
			c.Var = &core.Variable{NodeInfo: p.pos(), Name: p.token.Literal}
			p.nextToken()
		}
		p.expect(token.RPAREN)
		c.Body = p.parseBlock()
		stmt.Catches = append(stmt.Catches, c)
	}

	if p.match(token.FINALLY) {
		stmt.HasFinally = true
		stmt.Finally = p.parseBlock()
	}
	if len(stmt.Catches) == 0 && !stmt.HasFinally {
		p.unexpected(`"catch"`)
	}
	return stmt
}

// parseConst parses CONST name = expr {, name = expr} ;.
func (p *Parser) parseConst() core.Stmt {
	stmt := &core.ConstStmt{NodeInfo: p.pos()}
	p.expect(token.CONST)
	stmt.Consts = p.parseConstElems()
	p.expectSemi()
	return stmt
}

func (p *Parser) parseConstElems() []*core.ConstElem {
	var elems []*core.ConstElem
	for {
		elem := &core.ConstElem{NodeInfo: p.pos()}
		elem.Name = p.parseIdentifier()
		p.expect(token.ASSIGN)
		elem.Value = p.parseExpr(precAssign)
		elems = append(elems, elem)
		if !p.match(token.COMMA) {
			return elems
		}
	}
}

// parseUse parses:
//
//	use → USE [FUNCTION | CONST] name [AS ident] {, name [AS ident]} ;
func (p *Parser) parseUse() core.Stmt {
	stmt := &core.UseStmt{NodeInfo: p.pos()}
	p.expect(token.USE)
	switch {
	case p.match(token.FUNCTION):
		stmt.Kind = "function"
	case p.match(token.CONST):
		stmt.Kind = "const"
	}
	for {
		clause := &core.UseClause{NodeInfo: p.pos()}
		clause.Name = p.parseName()
		if p.match(token.AS) {
			clause.Alias = p.parseIdentifier()
		}
		stmt.Uses = append(stmt.Uses, clause)
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expectSemi()
	return stmt
}

// parseNamespace parses:
//
//	namespace → NAMESPACE name ; | NAMESPACE [name] { statement* }
func (p *Parser) parseNamespace() core.Stmt {
	if p.depth > 0 {
		p.fail(&ParseError{Pos: p.token.Pos, Message: ErrNestedNamespace})
	}
	stmt := &core.NamespaceStmt{NodeInfo: p.pos()}
	p.expect(token.NAMESPACE)

	if !p.check(token.LBRACE) {
		stmt.Name = p.parseName()
	}
	if p.check(token.LBRACE) {
		stmt.Braced = true
		stmt.Stmts = p.parseBlock()
		return stmt
	}
	if stmt.Name == nil {
		p.unexpected(`"{"`)
	}
	p.expectSemi()
	return stmt
}

// parseDeclare parses DECLARE ( name = expr {, name = expr} ) (; | block).
func (p *Parser) parseDeclare() core.Stmt {
	stmt := &core.DeclareStmt{NodeInfo: p.pos()}
	p.expect(token.DECLARE)
	p.expect(token.LPAREN)
	stmt.Directives = p.parseConstElems()
	p.expect(token.RPAREN)
	if p.check(token.LBRACE) {
		stmt.HasBody = true
		stmt.Body = p.parseBlock()
		return stmt
	}
	p.expectSemi()
	return stmt
}

// isSoft reports whether the current token is the contextual keyword
// word, such as enum or readonly, which PHP still accepts as a name.
func (p *Parser) isSoft(word string) bool {
	return p.check(token.IDENT) && strings.EqualFold(p.token.Literal, word)
}

// ---------- Declarations ----------

// parseFuncDecl parses:
//
//	function → FUNCTION [&] ident ( params ) [: type] block
func (p *Parser) parseFuncDecl() core.Stmt {
	decl := &core.FuncDecl{NodeInfo: p.pos()}
	p.expect(token.FUNCTION)
	decl.ByRef = p.match(token.AMP)
	decl.Name = p.expect(token.IDENT).Literal
	decl.Params = p.parseParams()
	decl.ReturnType = p.parseReturnType()
	decl.Body = p.parseBlock()
	return decl
}

// parseParams parses ( [param {, param} [,]] ).
//
//	param → {modifier} [type] [&] [...] $var [= expr]
func (p *Parser) parseParams() []*core.Param {
	p.expect(token.LPAREN)
	params := []*core.Param{}
	for !p.check(token.RPAREN) {
		param := &core.Param{NodeInfo: p.pos()}
		for p.check(token.PUBLIC) || p.check(token.PROTECTED) || p.check(token.PRIVATE) || p.isSoft("readonly") {
			param.Modifiers = append(param.Modifiers, strings.ToLower(p.token.Literal))
			p.nextToken()
		}
		if !p.check(token.VARIABLE) && !p.check(token.AMP) && !p.check(token.ELLIPSIS) {
			param.Type = p.parseType()
		}
		param.ByRef = p.match(token.AMP)
		param.Variadic = p.match(token.ELLIPSIS)
		param.Name = p.expect(token.VARIABLE).Literal
		if p.match(token.ASSIGN) {
			param.Default = p.parseExpr(precAssign)
		}
		params = append(params, param)
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	return params
}

// parseType parses [?] name, where array and static are accepted as names.
func (p *Parser) parseType() *core.TypeRef {
	ref := &core.TypeRef{NodeInfo: p.pos()}
	ref.Nullable = p.match(token.QUESTION)
	switch p.token.Type {
	case token.ARRAY, token.STATIC:
		ref.Name = &core.Name{NodeInfo: p.pos(), Parts: []string{p.token.Literal}}
		p.nextToken()
	default:
		ref.Name = p.parseName()
	}
	return ref
}

// parseReturnType parses an optional : type.
func (p *Parser) parseReturnType() *core.TypeRef {
	if !p.match(token.COLON) {
		return nil
	}
	return p.parseType()
}

// parseClass parses:
//
//	class → [ABSTRACT | FINAL] (CLASS | INTERFACE | TRAIT | ENUM) ident
//	        [: type] [EXTENDS name {, name}] [IMPLEMENTS name {, name}]
//	        { member* }
func (p *Parser) parseClass() core.Stmt {
	decl := &core.ClassDecl{NodeInfo: p.pos()}
	for {
		if p.match(token.ABSTRACT) {
			decl.Abstract = true
			continue
		}
		if p.match(token.FINAL) {
			decl.Final = true
			continue
		}
		break
	}

	switch {
	case p.match(token.CLASS):
	case p.match(token.INTERFACE):
		decl.Kind = core.KindInterface
	case p.match(token.TRAIT):
		decl.Kind = core.KindTrait
	case p.isSoft("enum"):
		p.nextToken()
		decl.Kind = core.KindEnum
	default:
		p.unexpected(`"class"`)
	}
	decl.Name = p.expect(token.IDENT).Literal
	if decl.Kind == core.KindEnum && p.match(token.COLON) {
		decl.BackingType = p.parseType()
	}

	p.parseClassHeader(decl)
	p.parseClassBody(decl)
	return decl
}

// parseClassHeader parses the extends and implements clauses. An
// interface extends a list of interfaces and implements none.
func (p *Parser) parseClassHeader(decl *core.ClassDecl) {
	if p.match(token.EXTENDS) {
		if decl.Kind == core.KindInterface {
			decl.Implements = p.parseNameList()
		} else {
			decl.Extends = p.parseName()
		}
	}
	if decl.Kind != core.KindInterface && p.match(token.IMPLEMENTS) {
		decl.Implements = p.parseNameList()
	}
}

func (p *Parser) parseNameList() []*core.Name {
	var names []*core.Name
	for {
		names = append(names, p.parseName())
		if !p.match(token.COMMA) {
			return names
		}
	}
}

// parseClassBody parses { member* }.
func (p *Parser) parseClassBody(decl *core.ClassDecl) {
	p.expect(token.LBRACE)
	p.depth++
	decl.Members = []core.Stmt{}
	for !p.check(token.RBRACE) {
		decl.Members = append(decl.Members, p.parseMember())
	}
	p.depth--
	p.expect(token.RBRACE)
}

// isModifier reports whether t is a class member modifier.
func isModifier(t token.TokenType) bool {
	switch t {
	case token.PUBLIC, token.PROTECTED, token.PRIVATE, token.STATIC,
		token.ABSTRACT, token.FINAL, token.VAR:
		return true
	}
	return false
}

// parseMember parses a class constant, property, method, trait use or
// enum case.
func (p *Parser) parseMember() core.Stmt {
	info := p.pos()
	switch p.token.Type {
	case token.USE:
		p.nextToken()
		use := &core.TraitUse{NodeInfo: info, Traits: p.parseNameList()}
		p.expectSemi()
		return use
	case token.CASE:
		p.nextToken()
		c := &core.EnumCase{NodeInfo: info, Name: p.parseIdentifier()}
		if p.match(token.ASSIGN) {
			c.Value = p.parseExpr(precAssign)
		}
		p.expectSemi()
		return c
	}

	var mods []string
	for isModifier(p.token.Type) || p.isSoft("readonly") {
		mods = append(mods, strings.ToLower(p.token.Literal))
		p.nextToken()
	}

	switch p.token.Type {
	case token.CONST:
		p.nextToken()
		decl := &core.ClassConstDecl{NodeInfo: info, Modifiers: mods, Consts: p.parseConstElems()}
		p.expectSemi()
		return decl
	case token.FUNCTION:
		return p.parseMethod(info, mods)
	case token.VARIABLE:
		return p.parseProperties(info, mods, nil)
	}
	if len(mods) > 0 {
		return p.parseProperties(info, mods, p.parseType())
	}
	p.unexpected(`"function"`)
	return nil
}

// parseMethod parses FUNCTION [&] name ( params ) [: type] (block | ;).
func (p *Parser) parseMethod(info core.NodeInfo, mods []string) core.Stmt {
	decl := &core.MethodDecl{NodeInfo: info, Modifiers: mods}
	p.expect(token.FUNCTION)
	decl.ByRef = p.match(token.AMP)
	decl.Name = p.parseIdentifier()
	decl.Params = p.parseParams()
	decl.ReturnType = p.parseReturnType()
	if p.match(token.SEMICOLON) {
		return decl
	}
	decl.Body = p.parseBlock()
	return decl
}

// parseProperties parses $name [= expr] {, $name [= expr]} ;.
func (p *Parser) parseProperties(info core.NodeInfo, mods []string, typ *core.TypeRef) core.Stmt {
	decl := &core.PropertyDecl{NodeInfo: info, Modifiers: mods, Type: typ}
	for {
		prop := &core.PropertyElem{NodeInfo: p.pos()}
		prop.Name = p.expect(token.VARIABLE).Literal
		if p.match(token.ASSIGN) {
			prop.Default = p.parseExpr(precAssign)
		}
		decl.Props = append(decl.Props, prop)
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expectSemi()
	return decl
}
