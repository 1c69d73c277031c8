// Package evaluator runs cleaned code. The shell never executes PHP itself;
// it hands Ready code to an Evaluator and records what comes back.
package evaluator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/leapstack-labs/psyrepl/internal/scope"
)

// Evaluator names accepted by New.
const (
	NameAuto  = "auto"
	NamePHP   = "php"
	NamePrint = "print"
)

// ErrUnknownEvaluator is returned by New for unsupported names.
var ErrUnknownEvaluator = errors.New("unknown evaluator")

// Evaluator executes cleaned code against the current scope variables.
type Evaluator interface {
	Evaluate(ctx context.Context, code string, vars []scope.Variable) (*Result, error)
}

// Result is what a successful execution produced.
type Result struct {
	// Value is the returned value decoded from JSON; nil for null.
	Value any
	// Output is everything the code printed.
	Output string
	// Vars are the variables defined after execution, in order.
	Vars []scope.Variable
	// NoValue is set by evaluators that cannot report a return value.
	NoValue bool
}

// Warning is a non-fatal execution error, such as a PHP warning promoted to
// an exception.
type Warning struct {
	Message string
	Line    int
}

// Error implements error.
func (w *Warning) Error() string {
	if w.Line > 0 {
		return fmt.Sprintf("PHP Warning:  %s on line %d", w.Message, w.Line)
	}
	return "PHP Warning:  " + w.Message
}

// ExecError is an exception thrown by the executed code.
type ExecError struct {
	Class   string
	Message string
	Line    int
}

// Error implements error.
func (e *ExecError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: %s on line %d", e.Class, e.Message, e.Line)
	}
	return fmt.Sprintf("%s: %s", e.Class, e.Message)
}

// Config holds evaluator configuration.
type Config struct {
	// Name selects the evaluator: auto, php or print
	Name string
	// Binary is the PHP CLI to run (default: php)
	Binary string
	// Timeout bounds a single execution (default: 30s)
	Timeout time.Duration
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// DefaultTimeout is used when Config.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// New creates the configured evaluator. The auto evaluator uses PHP when
// the binary can be found and falls back to printing.
func New(cfg Config) (Evaluator, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Binary == "" {
		cfg.Binary = "php"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	switch cfg.Name {
	case "", NameAuto:
		path, err := exec.LookPath(cfg.Binary)
		if err != nil {
			logger.Warn("php binary not found, printing code instead", "binary", cfg.Binary, "error", err)
			return NewPrint(), nil
		}
		return NewPHP(path, cfg.Timeout, logger), nil
	case NamePHP:
		path, err := exec.LookPath(cfg.Binary)
		if err != nil {
			return nil, fmt.Errorf("failed to find php binary %q: %w", cfg.Binary, err)
		}
		return NewPHP(path, cfg.Timeout, logger), nil
	case NamePrint:
		return NewPrint(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownEvaluator, cfg.Name)
	}
}
