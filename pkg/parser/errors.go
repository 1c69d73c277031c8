package parser

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/psyrepl/pkg/token"
)

// ParseError represents a parsing error with position information.
type ParseError struct {
	Pos     token.Position
	Message string

	// EOF is set when parsing failed because input ended before a
	// construct was closed: a missing token at end of input, a string or
	// heredoc that runs to the end where a value was expected, or an open
	// block comment.
	EOF bool
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// IsEOF reports whether err is a ParseError caused by premature end of input.
func IsEOF(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe) && pe.EOF
}

// Common error messages
const (
	ErrUnexpected          = "syntax error, unexpected %s"
	ErrUnexpectedExpecting = "syntax error, unexpected %s, expecting %s"
	ErrUnterminatedString  = "syntax error, unterminated string starting on line %d"
	ErrUnterminatedComment = "unterminated comment starting line %d"
	ErrNestedNamespace     = "namespace declaration statement has to be the very first statement or after any declare call in the script"
)
