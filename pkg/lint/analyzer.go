package lint

import (
	"github.com/leapstack-labs/psyrepl/pkg/core"
	"github.com/leapstack-labs/psyrepl/pkg/lint/internal/ast"
)

// Analyzer runs lint rules against a parsed buffer.
type Analyzer struct {
	config *Config
}

// NewAnalyzer creates a new analyzer with optional configuration.
func NewAnalyzer(config *Config) *Analyzer {
	if config == nil {
		config = NewConfig()
	}
	return &Analyzer{config: config}
}

// Rules returns the registered rules this analyzer runs.
func (a *Analyzer) Rules() []Rule {
	var rules []Rule
	for _, rule := range AllRules() {
		if !a.config.IsDisabled(rule.ID()) {
			rules = append(rules, rule)
		}
	}
	return rules
}

// Analyze runs every enabled rule over the whole buffer, one rule at a
// time, and returns all violations.
func (a *Analyzer) Analyze(file *core.File, env Env) []*Violation {
	if file == nil {
		return nil
	}

	segs := splitSegments(file, env.Namespace)
	ctx := &Context{
		resolver: env.Resolver,
		declared: declaredFunctions(segs),
	}

	var violations []*Violation
	for _, rule := range a.Rules() {
		for _, seg := range segs {
			ctx.Namespace = seg.namespace
			ctx.imports = seg.imports
			ast.WalkStmts(seg.stmts, func(node any) bool {
				if v := rule.Check(node, ctx); v != nil {
					violations = append(violations, v)
				}
				return true
			})
		}
	}
	return violations
}

// Validate returns the first violation Analyze would report, or nil.
func (a *Analyzer) Validate(file *core.File, env Env) error {
	violations := a.Analyze(file, env)
	if len(violations) == 0 {
		return nil
	}
	return violations[0]
}
