package lint

import (
	"fmt"

	"github.com/leapstack-labs/psyrepl/pkg/token"
)

// Violation is a lint finding that prevents a buffer from executing.
type Violation struct {
	RuleID  string
	Message string
	Name    string // offending name as written
	Pos     token.Position
}

// Error implements error.
func (v *Violation) Error() string {
	return v.Message
}

// String includes the rule ID and position.
func (v *Violation) String() string {
	return fmt.Sprintf("%s [%s] %s", v.Pos, v.RuleID, v.Message)
}

// Resolver answers whether a callable name exists in the execution
// environment. Lookups are expected to be case-insensitive.
type Resolver interface {
	IsKnownCallable(name string) bool
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(name string) bool

// IsKnownCallable calls f(name).
func (f ResolverFunc) IsKnownCallable(name string) bool {
	return f(name)
}

// Env is the environment a buffer is validated against.
type Env struct {
	// Namespace is the active namespace path; empty means global.
	Namespace []string
	// Resolver knows the callables outside the buffer. A nil Resolver
	// knows none.
	Resolver Resolver
}
