package cleaner

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/psyrepl/pkg/core"
	"github.com/leapstack-labs/psyrepl/pkg/parser"
)

const (
	// openTag starts every buffer so the parser is in code mode.
	openTag = "<?php "
	// retrySuffix terminates a trailing statement. The line break keeps a
	// trailing line comment from swallowing the semicolon.
	retrySuffix = "\n;"
)

// parseBuffer parses buffered code. It returns incomplete when the buffer
// ran out before a construct closed; any other failure is a *Error of
// ParseErrorKind.
func parseBuffer(code string) (file *core.File, incomplete bool, err error) {
	src := openTag + code
	file, err = parser.Parse(src)
	if err == nil {
		return file, false, nil
	}
	if !parser.IsEOF(err) {
		return nil, false, parseFailure(err)
	}

	file, retryErr := parser.Parse(src + retrySuffix)
	if retryErr == nil {
		return file, false, nil
	}
	if parser.IsEOF(retryErr) || inSuffix(retryErr, len(src)) {
		return nil, true, nil
	}
	return nil, false, parseFailure(retryErr)
}

// inSuffix reports whether a parse error points into the appended
// terminator, meaning the buffer itself simply stopped early.
func inSuffix(err error, srcLen int) bool {
	var perr *parser.ParseError
	return errors.As(err, &perr) && perr.Pos.Offset >= srcLen
}

// parseFailure converts a parser error into a rejection, with the column
// relative to the user's buffer rather than the open tag.
func parseFailure(err error) *Error {
	var perr *parser.ParseError
	if !errors.As(err, &perr) {
		return &Error{Kind: ParseErrorKind, Message: fmt.Sprintf("failed to parse: %v", err)}
	}
	return &Error{
		Kind:    ParseErrorKind,
		Message: perr.Message,
		Line:    perr.Pos.Line,
		Column:  bufferColumn(perr.Pos.Line, perr.Pos.Column),
	}
}
