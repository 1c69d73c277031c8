package parser

import (
	"strings"

	"github.com/leapstack-labs/psyrepl/pkg/token"
)

// castTypes lists the words accepted inside a (type) cast.
var castTypes = map[string]bool{
	"int": true, "integer": true,
	"bool": true, "boolean": true,
	"float": true, "double": true, "real": true,
	"string": true, "binary": true,
	"array": true, "object": true, "unset": true,
}

// Lexer tokenizes PHP input.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)
	base    int  // offset of input within the enclosing source

	// openComment is set when a block comment ran to the end of input.
	openComment bool

	// Comments collected during lexing
	Comments []*token.Comment
}

// NewLexer creates a new Lexer for the given input. A leading <?php open
// tag is skipped.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
	}
	l.readChar()
	l.skipOpenTag()
	return l
}

// newLexerAt creates a Lexer for a fragment of a larger source, such as an
// expression embedded in a string, that starts at pos.
func newLexerAt(input string, pos token.Position) *Lexer {
	l := &Lexer{
		input: input,
		line:  pos.Line,
		col:   pos.Column - 1,
		base:  pos.Offset,
	}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	if l.pos < len(l.input) && l.pos < l.readPos && l.input[l.pos] == '\n' {
		l.line++
		l.col = 0
	}
	l.pos = l.readPos
	l.readPos++
	l.col++
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// peekCharN returns the character n positions after the current one.
func (l *Lexer) peekCharN(n int) byte {
	i := l.pos + n
	if i >= len(l.input) {
		return 0
	}
	return l.input[i]
}

// atEOF reports whether the whole input has been consumed.
func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

// currentPos returns the current position.
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.base + l.pos,
	}
}

func (l *Lexer) skipOpenTag() {
	if !strings.HasPrefix(l.input, "<?php") {
		return
	}
	rest := l.input[len("<?php"):]
	if rest != "" && !isSpace(rest[0]) {
		return
	}
	for range len("<?php") {
		l.readChar()
	}
}

// NextToken returns the next token.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	pos := l.currentPos()

	if l.atEOF() {
		return token.Token{Type: token.EOF, Pos: pos, Unterminated: l.openComment}
	}

	switch {
	case l.ch == '$':
		if isIdentStart(l.peekChar()) {
			l.readChar()
			return token.Token{Type: token.VARIABLE, Literal: l.readIdentifier(), Pos: pos}
		}
		return l.single(token.DOLLAR, pos)
	case isIdentStart(l.ch):
		ident := l.readIdentifier()
		return token.Token{Type: token.LookupIdent(strings.ToLower(ident)), Literal: ident, Pos: pos}
	case isDigit(l.ch), l.ch == '.' && isDigit(l.peekChar()):
		return l.readNumber(pos)
	case l.ch == '\'':
		return l.readSingleQuoted(pos)
	case l.ch == '"':
		return l.readInterpolated(pos, token.STRING, token.TEMPLATE)
	case l.ch == '`':
		return l.readInterpolated(pos, token.SHELL, token.SHELL)
	case l.ch == '<' && l.peekChar() == '<' && l.peekCharN(2) == '<':
		return l.readHeredoc(pos)
	case l.ch == '(':
		if tok, ok := l.readCast(pos); ok {
			return tok
		}
	}

	return l.readOperator(pos)
}

func (l *Lexer) single(t token.TokenType, pos token.Position) token.Token {
	lit := string(l.ch)
	l.readChar()
	return token.Token{Type: t, Literal: lit, Pos: pos}
}

// operators lists the multi-character operators, longest first within each
// leading character.
var operators = []struct {
	text string
	typ  token.TokenType
}{
	{"<=>", token.SPACESHIP}, {"<<=", token.SHL_ASSIGN}, {"<=", token.LE}, {"<>", token.NE}, {"<<", token.SHL}, {"<", token.LT},
	{">>=", token.SHR_ASSIGN}, {">=", token.GE}, {">>", token.SHR}, {">", token.GT},
	{"===", token.IDENTICAL}, {"==", token.EQ}, {"=>", token.DOUBLE_ARROW}, {"=", token.ASSIGN},
	{"!==", token.NOT_IDENTICAL}, {"!=", token.NE}, {"!", token.NOT},
	{"**=", token.POW_ASSIGN}, {"**", token.POW}, {"*=", token.MUL_ASSIGN}, {"*", token.STAR},
	{"??=", token.COALESCE_ASSIGN}, {"?->", token.NULLSAFE_ARROW}, {"??", token.COALESCE}, {"?", token.QUESTION},
	{"...", token.ELLIPSIS}, {".=", token.CONCAT_ASSIGN}, {".", token.DOT},
	{"++", token.INC}, {"+=", token.PLUS_ASSIGN}, {"+", token.PLUS},
	{"--", token.DEC}, {"-=", token.MINUS_ASSIGN}, {"->", token.ARROW}, {"-", token.MINUS},
	{"/=", token.DIV_ASSIGN}, {"/", token.SLASH},
	{"%=", token.MOD_ASSIGN}, {"%", token.PERCENT},
	{"&&", token.BOOL_AND}, {"&=", token.AND_ASSIGN}, {"&", token.AMP},
	{"||", token.BOOL_OR}, {"|=", token.OR_ASSIGN}, {"|", token.PIPE},
	{"^=", token.XOR_ASSIGN}, {"^", token.CARET},
	{"::", token.DOUBLE_COLON}, {":", token.COLON},
	{"~", token.TILDE}, {"@", token.AT}, {"\\", token.BACKSLASH},
	{",", token.COMMA}, {";", token.SEMICOLON},
	{"(", token.LPAREN}, {")", token.RPAREN},
	{"[", token.LBRACKET}, {"]", token.RBRACKET},
	{"{", token.LBRACE}, {"}", token.RBRACE},
}

func (l *Lexer) readOperator(pos token.Position) token.Token {
	rest := l.input[l.pos:]
	for _, op := range operators {
		if strings.HasPrefix(rest, op.text) {
			for range len(op.text) {
				l.readChar()
			}
			return token.Token{Type: op.typ, Literal: op.text, Pos: pos}
		}
	}
	return l.single(token.ILLEGAL, pos)
}

// ---------- Whitespace & comments ----------

func (l *Lexer) skipWhitespaceAndComments() {
	for !l.atEOF() {
		switch {
		case isSpace(l.ch):
			l.readChar()
		case l.ch == '#', l.ch == '/' && l.peekChar() == '/':
			l.readLineComment()
		case l.ch == '/' && l.peekChar() == '*':
			l.readBlockComment()
		default:
			return
		}
	}
}

func (l *Lexer) readLineComment() {
	start := l.currentPos()
	begin := l.pos
	for !l.atEOF() && l.ch != '\n' {
		l.readChar()
	}
	l.Comments = append(l.Comments, &token.Comment{
		Kind: token.LineComment,
		Text: l.input[begin:l.pos],
		Span: token.Span{Start: start, End: l.currentPos()},
	})
}

func (l *Lexer) readBlockComment() {
	start := l.currentPos()
	begin := l.pos
	kind := token.BlockComment
	if l.peekCharN(2) == '*' && l.peekCharN(3) != '/' {
		kind = token.DocComment
	}
	l.readChar() // /
	l.readChar() // *

	closed := false
	for !l.atEOF() {
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			closed = true
			break
		}
		l.readChar()
	}
	if !closed {
		l.openComment = true
	}
	l.Comments = append(l.Comments, &token.Comment{
		Kind:         kind,
		Text:         l.input[begin:l.pos],
		Span:         token.Span{Start: start, End: l.currentPos()},
		Unterminated: !closed,
	})
}

// ---------- Identifiers & numbers ----------

func (l *Lexer) readIdentifier() string {
	begin := l.pos
	for isIdentChar(l.ch) && !l.atEOF() {
		l.readChar()
	}
	return l.input[begin:l.pos]
}

func (l *Lexer) readNumber(pos token.Position) token.Token {
	begin := l.pos

	if l.ch == '0' {
		switch l.peekChar() {
		case 'x', 'X':
			l.readChar()
			l.readChar()
			l.readWhile(isHexDigit)
			return token.Token{Type: token.INT, Literal: l.input[begin:l.pos], Pos: pos}
		case 'b', 'B', 'o', 'O':
			l.readChar()
			l.readChar()
			l.readWhile(isDigit)
			return token.Token{Type: token.INT, Literal: l.input[begin:l.pos], Pos: pos}
		}
	}

	typ := token.INT
	l.readWhile(isDigit)
	if l.ch == '.' && isDigit(l.peekChar()) {
		typ = token.FLOAT
		l.readChar()
		l.readWhile(isDigit)
	}
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || (next == '+' || next == '-') && isDigit(l.peekCharN(2)) {
			typ = token.FLOAT
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			l.readWhile(isDigit)
		}
	}
	return token.Token{Type: typ, Literal: l.input[begin:l.pos], Pos: pos}
}

func (l *Lexer) readWhile(accept func(byte) bool) {
	for !l.atEOF() && (accept(l.ch) || l.ch == '_') {
		l.readChar()
	}
}

// ---------- Strings ----------

func (l *Lexer) readSingleQuoted(pos token.Position) token.Token {
	begin := l.pos
	l.readChar() // opening '
	for !l.atEOF() {
		switch l.ch {
		case '\\':
			l.readChar()
			if !l.atEOF() {
				l.readChar()
			}
		case '\'':
			l.readChar()
			return token.Token{Type: token.STRING, Literal: l.input[begin:l.pos], Pos: pos}
		default:
			l.readChar()
		}
	}
	return token.Token{Type: token.STRING, Literal: l.input[begin:], Pos: pos, Unterminated: true}
}

// readInterpolated reads a double quoted or backtick string. The token is
// interp when the body embeds variables or expressions, plain otherwise.
func (l *Lexer) readInterpolated(pos token.Position, plain, interp token.TokenType) token.Token {
	begin := l.pos
	quote := l.ch
	typ := plain
	l.readChar() // opening quote
	for !l.atEOF() {
		switch {
		case l.ch == '\\':
			l.readChar()
			if !l.atEOF() {
				l.readChar()
			}
		case l.ch == quote:
			l.readChar()
			return token.Token{Type: typ, Literal: l.input[begin:l.pos], Pos: pos}
		case l.ch == '{' && l.peekChar() == '$', l.ch == '$' && l.peekChar() == '{':
			typ = interp
			body := l.pos + 1
			if l.ch == '$' {
				body++
			}
			end := embeddedEnd(l.input, body)
			if end < 0 {
				end = len(l.input)
			}
			for l.pos < end {
				l.readChar()
			}
		case l.ch == '$' && isIdentStart(l.peekChar()):
			typ = interp
			l.readChar()
		default:
			l.readChar()
		}
	}
	return token.Token{Type: typ, Literal: l.input[begin:], Pos: pos, Unterminated: true}
}

// embeddedEnd returns the index just past the "}" that closes an
// expression embedded in a string, whose body starts at s[i], or -1 if s
// ends first. Braces inside quoted strings in the expression do not count.
func embeddedEnd(s string, i int) int {
	depth := 1
	for i < len(s) {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		case '\'', '"':
			i = quotedEnd(s, i)
			if i < 0 {
				return -1
			}
			continue
		}
		i++
	}
	return -1
}

// quotedEnd returns the index just past the string literal opening at
// s[i], or -1 if it is unterminated.
func quotedEnd(s string, i int) int {
	quote := s[i]
	for i++; i < len(s); i++ {
		switch {
		case s[i] == '\\':
			i++
		case s[i] == quote:
			return i + 1
		case quote == '"' && i+1 < len(s) && (s[i] == '{' && s[i+1] == '$' || s[i] == '$' && s[i+1] == '{'):
			body := i + 1
			if s[i] == '$' {
				body++
			}
			end := embeddedEnd(s, body)
			if end < 0 {
				return -1
			}
			i = end - 1
		}
	}
	return -1
}

// readHeredoc reads a heredoc or nowdoc, from <<< through the closing label.
// The literal is kept verbatim, including the body's indentation.
func (l *Lexer) readHeredoc(pos token.Position) token.Token {
	begin := l.pos
	for range 3 {
		l.readChar()
	}
	for l.ch == ' ' || l.ch == '\t' {
		l.readChar()
	}

	quote := byte(0)
	if l.ch == '\'' || l.ch == '"' {
		quote = l.ch
		l.readChar()
	}
	if !isIdentStart(l.ch) {
		return l.heredocFailure(begin, pos)
	}
	label := l.readIdentifier()
	if quote != 0 {
		if l.ch != quote {
			return l.heredocFailure(begin, pos)
		}
		l.readChar()
	}
	if l.ch == '\r' {
		l.readChar()
	}
	if l.atEOF() {
		return token.Token{Type: token.HEREDOC, Literal: l.input[begin:], Pos: pos, Unterminated: true}
	}
	if l.ch != '\n' {
		return l.heredocFailure(begin, pos)
	}
	l.readChar()

	for {
		// Candidate closing label: optional indentation, label, non-identifier.
		offset := 0
		for c := l.peekCharN(offset); c == ' ' || c == '\t'; c = l.peekCharN(offset) {
			offset++
		}
		if strings.HasPrefix(l.input[l.pos+offset:], label) && !isIdentChar(l.peekCharN(offset+len(label))) {
			for range offset + len(label) {
				l.readChar()
			}
			return token.Token{Type: token.HEREDOC, Literal: l.input[begin:l.pos], Pos: pos}
		}

		for !l.atEOF() && l.ch != '\n' {
			l.readChar()
		}
		if l.atEOF() {
			return token.Token{Type: token.HEREDOC, Literal: l.input[begin:], Pos: pos, Unterminated: true}
		}
		l.readChar()
	}
}

// heredocFailure reports a malformed heredoc opener as an illegal token.
func (l *Lexer) heredocFailure(begin int, pos token.Position) token.Token {
	return token.Token{Type: token.ILLEGAL, Literal: l.input[begin:l.pos], Pos: pos}
}

// readCast recognizes (type) casts. It returns false, without consuming
// anything, when the parenthesis does not open a cast.
func (l *Lexer) readCast(pos token.Position) (token.Token, bool) {
	i := l.pos + 1
	for i < len(l.input) && (l.input[i] == ' ' || l.input[i] == '\t') {
		i++
	}
	start := i
	for i < len(l.input) && isLetter(l.input[i]) {
		i++
	}
	word := strings.ToLower(l.input[start:i])
	for i < len(l.input) && (l.input[i] == ' ' || l.input[i] == '\t') {
		i++
	}
	if !castTypes[word] || i >= len(l.input) || l.input[i] != ')' {
		return token.Token{}, false
	}
	for l.pos <= i {
		l.readChar()
	}
	return token.Token{Type: token.CAST, Literal: word, Pos: pos}, true
}

// ---------- Character classes ----------

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\v' || ch == '\f'
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || 'a' <= ch && ch <= 'f' || 'A' <= ch && ch <= 'F'
}

func isIdentStart(ch byte) bool {
	return isLetter(ch) || ch == '_' || ch >= 0x80
}

func isIdentChar(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
