// Package token defines the token types for PHP parsing.
//
// Only the subset of PHP the shell understands is covered. Keywords are
// matched case-insensitively, as PHP does.
package token

import "fmt"

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Literals
	VARIABLE // $name
	IDENT    // foo, Foo, true, null
	INT      // 123, 0x1F, 0b101, 017
	FLOAT    // 1.5, 1e10
	STRING   // 'single' or "double" without interpolation
	TEMPLATE // "double with $vars"
	HEREDOC  // <<<EOS ... EOS and <<<'EOS' ... EOS
	SHELL    // `command`
	CAST     // (int), (string), ...

	// Operators and punctuation
	PLUS         // +
	MINUS        // -
	STAR         // *
	SLASH        // /
	PERCENT      // %
	POW          // **
	DOT          // .
	ASSIGN       // =
	PLUS_ASSIGN  // +=
	MINUS_ASSIGN // -=
	MUL_ASSIGN   // *=
	DIV_ASSIGN   // /=
	CONCAT_ASSIGN
	MOD_ASSIGN
	POW_ASSIGN
	COALESCE_ASSIGN // ??=
	AND_ASSIGN      // &=
	OR_ASSIGN       // |=
	XOR_ASSIGN      // ^=
	SHL_ASSIGN      // <<=
	SHR_ASSIGN      // >>=
	EQ              // ==
	NE              // != or <>
	IDENTICAL       // ===
	NOT_IDENTICAL   // !==
	LT              // <
	GT              // >
	LE              // <=
	GE              // >=
	SPACESHIP       // <=>
	BOOL_AND        // &&
	BOOL_OR         // ||
	NOT             // !
	AMP             // &
	PIPE            // |
	CARET           // ^
	TILDE           // ~
	SHL             // <<
	SHR             // >>
	INC             // ++
	DEC             // --
	ARROW           // ->
	NULLSAFE_ARROW  // ?->
	DOUBLE_COLON    // ::
	DOUBLE_ARROW    // =>
	QUESTION        // ?
	COLON           // :
	COALESCE        // ??
	AT              // @
	DOLLAR          // $ (variable variables)
	ELLIPSIS        // ...
	BACKSLASH       // \
	COMMA           // ,
	SEMICOLON       // ;
	LPAREN          // (
	RPAREN          // )
	LBRACKET        // [
	RBRACKET        // ]
	LBRACE          // {
	RBRACE          // }

	// Keywords (alphabetical)
	ABSTRACT
	AND // and
	ARRAY
	AS
	BREAK
	CASE
	CATCH
	CLASS
	CLONE
	CONST
	CONTINUE
	DECLARE
	DEFAULT
	DIE
	DO
	ECHO
	ELSE
	ELSEIF
	EMPTY
	EXIT
	EXTENDS
	FINAL
	FINALLY
	FN
	FOR
	FOREACH
	FUNCTION
	GLOBAL
	GOTO
	IF
	IMPLEMENTS
	INCLUDE
	INCLUDE_ONCE
	INSTANCEOF
	INTERFACE
	ISSET
	LIST
	MATCH
	NAMESPACE
	NEW
	OR // or
	PRINT
	PRIVATE
	PROTECTED
	PUBLIC
	REQUIRE
	REQUIRE_ONCE
	RETURN
	STATIC
	SWITCH
	THROW
	TRAIT
	TRY
	UNSET
	USE
	VAR
	WHILE
	XOR // xor
	YIELD
)

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

var tokenNames = map[TokenType]string{
	EOF:      "EOF",
	ILLEGAL:  "ILLEGAL",
	VARIABLE: "VARIABLE",
	IDENT:    "IDENT",
	INT:      "INT",
	FLOAT:    "FLOAT",
	STRING:   "STRING",
	TEMPLATE: "TEMPLATE",
	HEREDOC:  "HEREDOC",
	SHELL:    "SHELL",
	CAST:     "CAST",

	PLUS:            "+",
	MINUS:           "-",
	STAR:            "*",
	SLASH:           "/",
	PERCENT:         "%",
	POW:             "**",
	DOT:             ".",
	ASSIGN:          "=",
	PLUS_ASSIGN:     "+=",
	MINUS_ASSIGN:    "-=",
	MUL_ASSIGN:      "*=",
	DIV_ASSIGN:      "/=",
	CONCAT_ASSIGN:   ".=",
	MOD_ASSIGN:      "%=",
	POW_ASSIGN:      "**=",
	COALESCE_ASSIGN: "??=",
	AND_ASSIGN:      "&=",
	OR_ASSIGN:       "|=",
	XOR_ASSIGN:      "^=",
	SHL_ASSIGN:      "<<=",
	SHR_ASSIGN:      ">>=",
	EQ:              "==",
	NE:              "!=",
	IDENTICAL:       "===",
	NOT_IDENTICAL:   "!==",
	LT:              "<",
	GT:              ">",
	LE:              "<=",
	GE:              ">=",
	SPACESHIP:       "<=>",
	BOOL_AND:        "&&",
	BOOL_OR:         "||",
	NOT:             "!",
	AMP:             "&",
	PIPE:            "|",
	CARET:           "^",
	TILDE:           "~",
	SHL:             "<<",
	SHR:             ">>",
	INC:             "++",
	DEC:             "--",
	ARROW:           "->",
	NULLSAFE_ARROW:  "?->",
	DOUBLE_COLON:    "::",
	DOUBLE_ARROW:    "=>",
	QUESTION:        "?",
	COLON:           ":",
	COALESCE:        "??",
	AT:              "@",
	DOLLAR:          "$",
	ELLIPSIS:        "...",
	BACKSLASH:       "\\",
	COMMA:           ",",
	SEMICOLON:       ";",
	LPAREN:          "(",
	RPAREN:          ")",
	LBRACKET:        "[",
	RBRACKET:        "]",
	LBRACE:          "{",
	RBRACE:          "}",

	ABSTRACT:     "abstract",
	AND:          "and",
	ARRAY:        "array",
	AS:           "as",
	BREAK:        "break",
	CASE:         "case",
	CATCH:        "catch",
	CLASS:        "class",
	CLONE:        "clone",
	CONST:        "const",
	CONTINUE:     "continue",
	DECLARE:      "declare",
	DEFAULT:      "default",
	DIE:          "die",
	DO:           "do",
	ECHO:         "echo",
	ELSE:         "else",
	ELSEIF:       "elseif",
	EMPTY:        "empty",
	EXIT:         "exit",
	EXTENDS:      "extends",
	FINAL:        "final",
	FINALLY:      "finally",
	FN:           "fn",
	FOR:          "for",
	FOREACH:      "foreach",
	FUNCTION:     "function",
	GLOBAL:       "global",
	GOTO:         "goto",
	IF:           "if",
	IMPLEMENTS:   "implements",
	INCLUDE:      "include",
	INCLUDE_ONCE: "include_once",
	INSTANCEOF:   "instanceof",
	INTERFACE:    "interface",
	ISSET:        "isset",
	LIST:         "list",
	MATCH:        "match",
	NAMESPACE:    "namespace",
	NEW:          "new",
	OR:           "or",
	PRINT:        "print",
	PRIVATE:      "private",
	PROTECTED:    "protected",
	PUBLIC:       "public",
	REQUIRE:      "require",
	REQUIRE_ONCE: "require_once",
	RETURN:       "return",
	STATIC:       "static",
	SWITCH:       "switch",
	THROW:        "throw",
	TRAIT:        "trait",
	TRY:          "try",
	UNSET:        "unset",
	USE:          "use",
	VAR:          "var",
	WHILE:        "while",
	XOR:          "xor",
	YIELD:        "yield",
}

// keywords maps lowercase keyword strings to their token types.
var keywords = map[string]TokenType{}

func init() {
	for t := ABSTRACT; t <= YIELD; t++ {
		keywords[tokenNames[t]] = t
	}
}

// LookupIdent returns the token type for the given lowercase identifier.
// If the identifier is a keyword, the keyword token type is returned.
// Otherwise, IDENT is returned.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword returns true if the token type is a keyword.
func IsKeyword(t TokenType) bool {
	return t >= ABSTRACT && t <= YIELD
}

// IsOperator returns true if the token type is an operator or punctuation.
func IsOperator(t TokenType) bool {
	return t >= PLUS && t <= RBRACE
}

// IsAssign returns true for = and every compound assignment operator.
func IsAssign(t TokenType) bool {
	return t >= ASSIGN && t <= SHR_ASSIGN
}

// Token represents a lexical token with position information.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position

	// Unterminated is set on STRING, TEMPLATE and HEREDOC tokens that ran
	// to the end of input, and on the EOF token when a block comment was
	// still open.
	Unterminated bool
}
