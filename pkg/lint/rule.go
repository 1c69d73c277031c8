package lint

// Rule is the interface all lint rules implement.
type Rule interface {
	// ID returns the unique identifier, e.g., "PS01"
	ID() string

	// Name returns the human-readable name, e.g., "protected-variable"
	Name() string

	// Description returns a human-readable description
	Description() string

	// Check inspects a single node. The node is any value produced by the
	// AST walker; rules ignore node types they are not interested in.
	Check(node any, ctx *Context) *Violation
}

// RuleInfo provides metadata about a rule for documentation/tooling.
type RuleInfo struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// GetRuleInfo extracts metadata from a Rule for documentation/tooling.
func GetRuleInfo(r Rule) RuleInfo {
	return RuleInfo{
		ID:          r.ID(),
		Name:        r.Name(),
		Description: r.Description(),
	}
}
