package cleaner

import (
	"errors"
	"fmt"
)

// ErrCodePending is returned by Controller.AddLine while cleaned code is
// waiting for Complete.
var ErrCodePending = errors.New("cleaned code is pending execution")

// Kind classifies why a buffer could not be cleaned.
type Kind int

// Error kinds.
const (
	// ParseErrorKind is a hard syntax error.
	ParseErrorKind Kind = iota + 1
	// FatalPreventedKind is a call that would end the evaluator with an
	// uncatchable fatal error.
	FatalPreventedKind
	// ProtectedStateViolationKind is a reference to the shell's reserved
	// variable.
	ProtectedStateViolationKind
	// IncompleteInputKind signals that the buffer needs more lines. It is
	// never carried by a Rejected result.
	IncompleteInputKind
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case ParseErrorKind:
		return "parse error"
	case FatalPreventedKind:
		return "fatal error"
	case ProtectedStateViolationKind:
		return "protected state violation"
	case IncompleteInputKind:
		return "incomplete input"
	default:
		return "unknown"
	}
}

// Fatal reports whether the kind belongs to the fatal class.
func (k Kind) Fatal() bool {
	return k == FatalPreventedKind
}

// label is the prefix PHP uses when reporting the kind.
func (k Kind) label() string {
	switch k {
	case ParseErrorKind:
		return "PHP Parse error"
	case FatalPreventedKind:
		return "PHP Fatal error"
	default:
		return "PHP error"
	}
}

// Error describes a rejected buffer.
type Error struct {
	Kind    Kind
	Message string
	Name    string // offending name, when the kind has one
	Line    int    // 1-based line in the buffer, 0 if unknown
	Column  int    // 1-based column in the buffer, 0 if unknown
}

// Error implements error.
func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: %s on line %d", e.Kind.label(), e.Message, e.Line)
	}
	return fmt.Sprintf("%s: %s", e.Kind.label(), e.Message)
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
