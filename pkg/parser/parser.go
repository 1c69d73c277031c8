// Package parser provides PHP parsing for the shell's code cleaner.
//
// # Usage
//
//	file, err := parser.Parse("<?php echo 1;")
//	if err != nil {
//	    if parser.IsEOF(err) {
//	        // input ended early, ask for more
//	    }
//	}
//
// # Grammar Overview
//
// The parser implements a recursive descent parser for a subset of PHP,
// with Pratt-style precedence climbing for binary operators:
//
//	file       → statement*
//	statement  → block | if | while | do | for | foreach | switch
//	           | function | class | namespace | use | const | global
//	           | static | echo | unset | throw | try | return
//	           | break | continue | expr ";" | ";"
//	expr       → unary (binop unary)*
//	unary      → prefix-op unary | postfix
//	postfix    → primary ("[" expr "]" | "->" name | "::" name | args | "++" | "--")*
//
// See each file for detailed grammar rules for that section.
//
// Parsing stops at the first error. Errors caused by input ending early
// are flagged with ParseError.EOF so callers can ask for more input
// instead of rejecting it.
package parser

import (
	"fmt"

	"github.com/leapstack-labs/psyrepl/pkg/core"
	"github.com/leapstack-labs/psyrepl/pkg/token"
)

// Parser parses PHP source into an AST.
type Parser struct {
	lexer *Lexer
	token token.Token // current token
	peek  token.Token // lookahead token
	peek2 token.Token // second lookahead token
	err   *ParseError

	// depth counts enclosing blocks; namespace declarations are only
	// allowed at depth zero.
	depth int
}

// bailout unwinds the recursive descent after the first error.
type bailout struct{}

// NewParser creates a new parser for the given PHP input.
func NewParser(src string) *Parser {
	p := &Parser{
		lexer: NewLexer(src),
	}
	// Read three tokens to initialize current, peek, and peek2
	p.nextToken()
	p.nextToken()
	p.nextToken()
	return p
}

// Parse parses PHP source, optionally starting with an open tag, and
// returns the file. The returned error, if any, is a *ParseError.
func Parse(src string) (*core.File, error) {
	return NewParser(src).ParseFile()
}

// ParseFile parses the whole input.
func (p *Parser) ParseFile() (file *core.File, err error) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			file, err = nil, p.err
		}
	}()

	stmts := p.parseTopLevel()
	if p.token.Unterminated {
		p.failEOF(fmt.Sprintf(ErrUnterminatedComment, p.openCommentLine()))
	}
	return &core.File{Stmts: stmts, Comments: p.lexer.Comments}, nil
}

// ---------- Token Helpers ----------

// nextToken advances to the next token.
func (p *Parser) nextToken() {
	p.token = p.peek
	p.peek = p.peek2
	p.peek2 = p.lexer.NextToken()
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t token.TokenType) bool {
	return p.token.Type == t
}

// checkPeek returns true if the peek token is of the given type.
func (p *Parser) checkPeek(t token.TokenType) bool {
	return p.peek.Type == t
}

// match consumes the current token if it matches and returns true.
func (p *Parser) match(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	return false
}

// expect consumes the current token if it matches, otherwise fails.
func (p *Parser) expect(t token.TokenType) token.Token {
	tok := p.token
	if !p.check(t) {
		p.unexpected(fmt.Sprintf("%q", t.String()))
	}
	p.nextToken()
	return tok
}

// expectSemi consumes the statement terminator.
func (p *Parser) expectSemi() {
	p.expect(token.SEMICOLON)
}

// ---------- Errors ----------

// fail records err and unwinds to ParseFile.
func (p *Parser) fail(err *ParseError) {
	p.err = err
	panic(bailout{})
}

// failEOF fails with an end-of-input error at the current token.
func (p *Parser) failEOF(msg string) {
	p.fail(&ParseError{Pos: p.token.Pos, Message: msg, EOF: true})
}

// unexpected fails on the current token. An EOF token always makes the
// error EOF-class.
func (p *Parser) unexpected(expecting string) {
	msg := fmt.Sprintf(ErrUnexpected, describe(p.token))
	if expecting != "" {
		msg = fmt.Sprintf(ErrUnexpectedExpecting, describe(p.token), expecting)
	}
	p.fail(&ParseError{Pos: p.token.Pos, Message: msg, EOF: p.check(token.EOF)})
}

// openCommentLine returns the line of the unterminated comment, if any.
func (p *Parser) openCommentLine() int {
	for i := len(p.lexer.Comments) - 1; i >= 0; i-- {
		if c := p.lexer.Comments[i]; c.Unterminated {
			return c.Span.Start.Line
		}
	}
	return p.token.Pos.Line
}

// describe renders a token for error messages.
func describe(tok token.Token) string {
	const maxLen = 20
	lit := tok.Literal
	if len(lit) > maxLen {
		lit = lit[:maxLen] + "..."
	}
	switch tok.Type {
	case token.EOF:
		return "end of file"
	case token.VARIABLE:
		return fmt.Sprintf("variable \"$%s\"", lit)
	case token.IDENT:
		return fmt.Sprintf("identifier %q", lit)
	case token.INT:
		return fmt.Sprintf("integer %q", lit)
	case token.FLOAT:
		return fmt.Sprintf("floating-point number %q", lit)
	case token.STRING, token.TEMPLATE, token.HEREDOC, token.SHELL:
		return fmt.Sprintf("string content %q", lit)
	case token.CAST:
		return fmt.Sprintf("token \"(%s)\"", lit)
	case token.ILLEGAL:
		return fmt.Sprintf("character %q", lit)
	default:
		return fmt.Sprintf("token %q", lit)
	}
}

// pos returns a NodeInfo at the current token.
func (p *Parser) pos() core.NodeInfo {
	return core.At(p.token.Pos)
}
