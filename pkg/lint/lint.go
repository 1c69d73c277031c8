package lint

import (
	"strings"

	"github.com/leapstack-labs/psyrepl/pkg/core"
	"github.com/leapstack-labs/psyrepl/pkg/lint/internal/ast"
)

// Validate runs all enabled default rules and returns the first violation,
// or nil when the buffer may execute.
func Validate(file *core.File, env Env) error {
	return NewAnalyzer(nil).Validate(file, env)
}

// Context carries what rules need to know about the node being checked.
type Context struct {
	// Namespace is the namespace path in effect for the current node.
	Namespace []string

	resolver Resolver
	declared map[string]bool   // lower-cased fully qualified names
	imports  map[string]string // lower-cased alias -> imported function
}

// segment is a run of top-level statements sharing one namespace.
type segment struct {
	namespace []string
	imports   map[string]string
	stmts     []core.Stmt
	declared  bool // comes from a namespace statement in the buffer
}

// splitSegments groups top-level statements by the namespace that governs
// them. A namespace declared in the buffer replaces the active path.
func splitSegments(file *core.File, active []string) []segment {
	var segs []segment
	for _, stmt := range file.Stmts {
		ns, ok := stmt.(*core.NamespaceStmt)
		if ok {
			var path []string
			if ns.Name != nil {
				path = ns.Name.Parts
			}
			segs = append(segs, segment{namespace: path, stmts: ns.Stmts, declared: true})
			continue
		}
		if n := len(segs); n > 0 && !segs[n-1].declared {
			segs[n-1].stmts = append(segs[n-1].stmts, stmt)
			continue
		}
		segs = append(segs, segment{namespace: active, stmts: []core.Stmt{stmt}})
	}
	for i := range segs {
		segs[i].imports = functionImports(segs[i].stmts)
	}
	return segs
}

// functionImports collects `use function` aliases at segment level.
func functionImports(stmts []core.Stmt) map[string]string {
	imports := make(map[string]string)
	for _, stmt := range stmts {
		use, ok := stmt.(*core.UseStmt)
		if !ok || use.Kind != "function" {
			continue
		}
		for _, clause := range use.Uses {
			alias := clause.Alias
			if alias == "" {
				alias = clause.Name.Last()
			}
			imports[strings.ToLower(alias)] = clause.Name.Join()
		}
	}
	return imports
}

// declaredFunctions collects every function declared anywhere in the
// buffer, qualified by the namespace of its segment.
func declaredFunctions(segs []segment) map[string]bool {
	declared := make(map[string]bool)
	for _, seg := range segs {
		ast.WalkStmts(seg.stmts, func(node any) bool {
			if fn, ok := node.(*core.FuncDecl); ok {
				declared[strings.ToLower(qualify(seg.namespace, fn.Name))] = true
			}
			return true
		})
	}
	return declared
}

func qualify(namespace []string, parts ...string) string {
	full := make([]string, 0, len(namespace)+len(parts))
	full = append(full, namespace...)
	full = append(full, parts...)
	return strings.Join(full, `\`)
}

// IsKnownFunction reports whether a literal call target resolves, either
// as written or qualified by the current namespace.
func (c *Context) IsKnownFunction(name *core.Name) bool {
	short := name.Join()
	if name.Kind == core.NameNormal && len(name.Parts) == 1 {
		if target, ok := c.imports[strings.ToLower(short)]; ok {
			return c.isKnown(target)
		}
	}
	full := short
	if name.Kind != core.NameFullyQualified {
		full = qualify(c.Namespace, name.Parts...)
	}
	return c.isKnown(short) || c.isKnown(full)
}

func (c *Context) isKnown(name string) bool {
	if c.declared[strings.ToLower(name)] {
		return true
	}
	return c.resolver != nil && c.resolver.IsKnownCallable(name)
}
