package evaluator

import (
	"context"

	"github.com/leapstack-labs/psyrepl/internal/scope"
)

// Print is an evaluator that does not execute anything: it echoes the
// cleaned code as output and keeps the variables unchanged.
type Print struct{}

// NewPrint creates a Print evaluator.
func NewPrint() *Print {
	return &Print{}
}

// Evaluate implements Evaluator.
func (*Print) Evaluate(ctx context.Context, code string, vars []scope.Variable) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]scope.Variable, len(vars))
	copy(out, vars)
	return &Result{Output: code + "\n", Vars: out, NoValue: true}, nil
}
