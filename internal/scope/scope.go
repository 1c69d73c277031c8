// Package scope holds the variables that persist between executions.
package scope

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/psyrepl/pkg/lint"
)

// ErrUnknownVariable is returned by Get for names that are not bound.
var ErrUnknownVariable = errors.New("Unknown variable")

// Variable is a single binding.
type Variable struct {
	Name  string `json:"name" yaml:"name"`
	Value any    `json:"value" yaml:"value"`
}

// Variables is an insertion-ordered set of bindings. The shell's reserved
// variable is never stored.
type Variables struct {
	names  []string
	values map[string]any
}

// New creates an empty set.
func New() *Variables {
	return &Variables{values: make(map[string]any)}
}

func normalize(name string) string {
	return strings.TrimPrefix(strings.TrimSpace(name), "$")
}

// Set binds name to value. Rebinding keeps the original position.
func (v *Variables) Set(name string, value any) {
	name = normalize(name)
	if name == "" || name == lint.ProtectedVariable {
		return
	}
	if _, exists := v.values[name]; !exists {
		v.names = append(v.names, name)
	}
	v.values[name] = value
}

// Get returns the value bound to name.
func (v *Variables) Get(name string) (any, error) {
	name = normalize(name)
	value, ok := v.values[name]
	if !ok {
		return nil, fmt.Errorf("%w: $%s", ErrUnknownVariable, name)
	}
	return value, nil
}

// Names returns the bound names in insertion order.
func (v *Variables) Names() []string {
	out := make([]string, len(v.names))
	copy(out, v.names)
	return out
}

// All returns every binding in insertion order.
func (v *Variables) All() []Variable {
	out := make([]Variable, 0, len(v.names))
	for _, name := range v.names {
		out = append(out, Variable{Name: name, Value: v.values[name]})
	}
	return out
}

// Replace discards all bindings and stores vars in order.
func (v *Variables) Replace(vars []Variable) {
	v.names = nil
	v.values = make(map[string]any, len(vars))
	for _, variable := range vars {
		v.Set(variable.Name, variable.Value)
	}
}

// Len returns the number of bindings.
func (v *Variables) Len() int {
	return len(v.names)
}
