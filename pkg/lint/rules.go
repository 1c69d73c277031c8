package lint

import (
	"fmt"

	"github.com/leapstack-labs/psyrepl/pkg/core"
)

// ProtectedVariable is the binding the shell reserves for its own state.
const ProtectedVariable = "__psysh__"

// Built-in rule IDs.
const (
	RuleProtectedVariable = "PS01"
	RuleUndefinedFunction = "PS02"
)

func init() {
	Register(protectedVariableRule{})
	Register(undefinedFunctionRule{})
}

// protectedVariableRule rejects reads and writes of $__psysh__, including
// parameters, closure bindings and interpolated strings.
type protectedVariableRule struct{}

func (protectedVariableRule) ID() string   { return RuleProtectedVariable }
func (protectedVariableRule) Name() string { return "protected-variable" }
func (protectedVariableRule) Description() string {
	return "The $" + ProtectedVariable + " variable is reserved for the shell"
}

func (r protectedVariableRule) Check(node any, _ *Context) *Violation {
	var pos core.NodeInfo
	switch n := node.(type) {
	case *core.Variable:
		if !n.IsLiteral() || n.Name != ProtectedVariable {
			return nil
		}
		pos = n.NodeInfo
	case *core.Param:
		if n.Name != ProtectedVariable {
			return nil
		}
		pos = n.NodeInfo
	default:
		return nil
	}
	return &Violation{
		RuleID:  r.ID(),
		Message: "Don't mess with $" + ProtectedVariable + ". Bad things will happen.",
		Name:    ProtectedVariable,
		Pos:     pos.Pos(),
	}
}

// undefinedFunctionRule rejects calls to literal function names that
// neither the buffer nor the resolver knows.
type undefinedFunctionRule struct{}

func (undefinedFunctionRule) ID() string   { return RuleUndefinedFunction }
func (undefinedFunctionRule) Name() string { return "undefined-function" }
func (undefinedFunctionRule) Description() string {
	return "Calls to undefined functions would end the session with a fatal error"
}

func (r undefinedFunctionRule) Check(node any, ctx *Context) *Violation {
	call, ok := node.(*core.FuncCall)
	if !ok || !call.IsStatic() {
		return nil
	}
	if ctx.IsKnownFunction(call.Name) {
		return nil
	}
	name := call.Name.String()
	return &Violation{
		RuleID:  r.ID(),
		Message: fmt.Sprintf("Call to undefined function %s()", name),
		Name:    name,
		Pos:     call.Pos(),
	}
}
