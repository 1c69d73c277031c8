package cleaner

import (
	"github.com/leapstack-labs/psyrepl/pkg/core"
)

// transform applies the implicit return and namespace wrapping to a
// validated file. The input file is not modified.
func transform(file *core.File, namespace []string) []core.Stmt {
	stmts := implicitReturn(file.Stmts)
	if len(namespace) == 0 || len(stmts) == 0 || declaresNamespace(stmts) {
		return stmts
	}

	// declare() directives must precede the namespace block.
	head := 0
	for head < len(stmts) {
		d, ok := stmts[head].(*core.DeclareStmt)
		if !ok || d.HasBody {
			break
		}
		head++
	}
	if head == len(stmts) {
		return stmts
	}

	parts := make([]string, len(namespace))
	copy(parts, namespace)
	body := stmts[head:]
	out := make([]core.Stmt, head, head+1)
	copy(out, stmts[:head])
	return append(out, &core.NamespaceStmt{
		NodeInfo: core.At(body[0].Pos()),
		Name:     &core.Name{NodeInfo: core.At(body[0].Pos()), Parts: parts},
		Stmts:    body,
		Braced:   true,
	})
}

// implicitReturn turns a trailing expression statement into a return of
// the same expression. A trailing unbraced namespace is searched in turn,
// since the statements after it belong to it.
func implicitReturn(stmts []core.Stmt) []core.Stmt {
	n := len(stmts)
	if n == 0 {
		return stmts
	}

	var last core.Stmt
	switch s := stmts[n-1].(type) {
	case *core.ExprStmt:
		last = &core.ReturnStmt{NodeInfo: s.NodeInfo, Result: s.X}
	case *core.NamespaceStmt:
		if s.Braced {
			return stmts
		}
		ns := *s
		ns.Stmts = implicitReturn(s.Stmts)
		last = &ns
	default:
		return stmts
	}

	out := make([]core.Stmt, n)
	copy(out, stmts)
	out[n-1] = last
	return out
}

func declaresNamespace(stmts []core.Stmt) bool {
	for _, stmt := range stmts {
		if _, ok := stmt.(*core.NamespaceStmt); ok {
			return true
		}
	}
	return false
}
