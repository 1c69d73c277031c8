package format

import "github.com/leapstack-labs/psyrepl/pkg/core"

// File prints the statements of a parsed file, without an open tag.
func File(f *core.File) string {
	return Stmts(f.Stmts)
}

// Stmts prints a statement list, one statement per line.
func Stmts(stmts []core.Stmt) string {
	p := newPrinter()
	p.formatStmtList(stmts)
	return p.String()
}

// Expr prints a single expression.
func Expr(x core.Expr) string {
	p := newPrinter()
	p.formatExpr(x)
	return p.String()
}
