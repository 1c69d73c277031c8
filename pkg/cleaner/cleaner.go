// Package cleaner turns buffered REPL input into code that is safe to hand
// to the evaluator.
//
// A buffer goes through four stages: parsing with a single end-of-input
// retry, semantic validation, the AST transform (implicit return and
// namespace wrapping) and printing. The outcome is always exactly one
// Result: Ready with code, Incomplete, or Rejected with an *Error.
package cleaner

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/psyrepl/pkg/format"
	"github.com/leapstack-labs/psyrepl/pkg/lint"
)

// Resolver answers whether a callable exists in the execution environment.
type Resolver = lint.Resolver

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc = lint.ResolverFunc

// Env is the environment a buffer is cleaned against.
type Env struct {
	// Namespace is the active namespace path; empty means global.
	Namespace []string
	// Resolver knows the callables outside the buffer.
	Resolver Resolver
}

// Status is the variant of a Result.
type Status int

// Result statuses.
const (
	StatusIncomplete Status = iota
	StatusReady
	StatusRejected
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusIncomplete:
		return "incomplete"
	case StatusReady:
		return "ready"
	case StatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Result is the outcome of cleaning one buffer. Code is set only when
// Ready, Err only when Rejected.
type Result struct {
	Status Status
	Code   string
	Err    *Error
}

// Ready returns a Ready result.
func Ready(code string) Result {
	return Result{Status: StatusReady, Code: code}
}

// Incomplete returns an Incomplete result.
func Incomplete() Result {
	return Result{Status: StatusIncomplete}
}

// Rejected returns a Rejected result.
func Rejected(err *Error) Result {
	return Result{Status: StatusRejected, Err: err}
}

// IsReady reports whether the result carries code.
func (r Result) IsReady() bool { return r.Status == StatusReady }

// String describes the result for logs.
func (r Result) String() string {
	switch r.Status {
	case StatusReady:
		return fmt.Sprintf("ready(%q)", r.Code)
	case StatusRejected:
		return fmt.Sprintf("rejected(%s)", r.Err)
	default:
		return r.Status.String()
	}
}

// Config holds cleaner configuration.
type Config struct {
	// DisabledRules lists lint rule IDs or names to skip.
	DisabledRules []string
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Cleaner runs the cleaning pipeline. It holds no per-buffer state and is
// safe for concurrent use.
type Cleaner struct {
	analyzer *lint.Analyzer
	logger   *slog.Logger
}

// New creates a Cleaner.
func New(cfg Config) *Cleaner {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Cleaner{
		analyzer: lint.NewAnalyzer(lint.NewConfig().Disable(cfg.DisabledRules...)),
		logger:   logger,
	}
}

var defaultCleaner = New(Config{})

// Clean cleans lines with the default Cleaner.
func Clean(lines []string, env Env) Result {
	return defaultCleaner.Clean(lines, env)
}

// Clean joins lines with line breaks and runs the pipeline over them.
func (c *Cleaner) Clean(lines []string, env Env) Result {
	code := strings.Join(lines, "\n")

	file, incomplete, err := parseBuffer(code)
	if incomplete {
		c.logger.Debug("buffer incomplete", "lines", len(lines))
		return Incomplete()
	}
	if err != nil {
		return c.reject(err)
	}

	if err := c.analyzer.Validate(file, lint.Env{Namespace: env.Namespace, Resolver: env.Resolver}); err != nil {
		return c.reject(err)
	}

	out := format.Stmts(transform(file, env.Namespace))
	c.logger.Debug("buffer ready", "lines", len(lines), "bytes", len(out))
	return Ready(out)
}

func (c *Cleaner) reject(err error) Result {
	e := toError(err)
	c.logger.Debug("buffer rejected", "kind", e.Kind.String(), "line", e.Line, "error", e.Message)
	return Rejected(e)
}

// toError maps stage failures onto the Error taxonomy.
func toError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	var v *lint.Violation
	if errors.As(err, &v) {
		kind := FatalPreventedKind
		if v.RuleID == lint.RuleProtectedVariable {
			kind = ProtectedStateViolationKind
		}
		return &Error{
			Kind:    kind,
			Message: v.Message,
			Name:    v.Name,
			Line:    v.Pos.Line,
			Column:  bufferColumn(v.Pos.Line, v.Pos.Column),
		}
	}
	return &Error{Kind: ParseErrorKind, Message: err.Error()}
}

func bufferColumn(line, column int) int {
	if line == 1 && column > len(openTag) {
		return column - len(openTag)
	}
	return column
}
