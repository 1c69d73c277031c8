// Package ast provides AST traversal utilities for lint rules.
package ast

import (
	"github.com/leapstack-labs/psyrepl/pkg/core"
)

// Walk traverses an AST depth-first and calls fn for each node.
// If fn returns false, the node's children are skipped.
//
// Besides statements and expressions, fn receives *core.Param nodes and the
// *core.Variable nodes bound by closures, catch clauses and static
// declarations.
func Walk(node any, fn func(node any) bool) {
	if node == nil {
		return
	}
	if !fn(node) {
		return
	}
	walkNode(node, fn)
}

// WalkStmts walks each statement of a list.
func WalkStmts(stmts []core.Stmt, fn func(node any) bool) {
	for _, stmt := range stmts {
		Walk(stmt, fn)
	}
}

func walkExprs(exprs []core.Expr, fn func(node any) bool) {
	for _, x := range exprs {
		walkExpr(x, fn)
	}
}

func walkExpr(x core.Expr, fn func(node any) bool) {
	if x != nil {
		Walk(x, fn)
	}
}

func walkVariable(v *core.Variable, fn func(node any) bool) {
	if v != nil {
		Walk(v, fn)
	}
}

func walkParams(params []*core.Param, fn func(node any) bool) {
	for _, param := range params {
		Walk(param, fn)
	}
}

func walkArgs(args []*core.Arg, fn func(node any) bool) {
	for _, arg := range args {
		walkExpr(arg.Value, fn)
	}
}

func walkItems(items []*core.ArrayItem, fn func(node any) bool) {
	for _, item := range items {
		walkExpr(item.Key, fn)
		walkExpr(item.Value, fn)
	}
}

func walkNode(node any, fn func(node any) bool) {
	switch n := node.(type) {
	// ---------- Statements ----------
	case *core.ExprStmt:
		walkExpr(n.X, fn)
	case *core.EchoStmt:
		walkExprs(n.Exprs, fn)
	case *core.ReturnStmt:
		walkExpr(n.Result, fn)
	case *core.IfStmt:
		walkExpr(n.Cond, fn)
		WalkStmts(n.Then, fn)
		for _, elseIf := range n.ElseIfs {
			walkExpr(elseIf.Cond, fn)
			WalkStmts(elseIf.Body, fn)
		}
		WalkStmts(n.Else, fn)
	case *core.WhileStmt:
		walkExpr(n.Cond, fn)
		WalkStmts(n.Body, fn)
	case *core.DoWhileStmt:
		WalkStmts(n.Body, fn)
		walkExpr(n.Cond, fn)
	case *core.ForStmt:
		walkExprs(n.Init, fn)
		walkExprs(n.Cond, fn)
		walkExprs(n.Loop, fn)
		WalkStmts(n.Body, fn)
	case *core.ForeachStmt:
		walkExpr(n.X, fn)
		walkExpr(n.Key, fn)
		walkExpr(n.Value, fn)
		WalkStmts(n.Body, fn)
	case *core.SwitchStmt:
		walkExpr(n.Cond, fn)
		for _, c := range n.Cases {
			walkExpr(c.Cond, fn)
			WalkStmts(c.Body, fn)
		}
	case *core.BreakStmt:
		walkExpr(n.Num, fn)
	case *core.ContinueStmt:
		walkExpr(n.Num, fn)
	case *core.FuncDecl:
		walkParams(n.Params, fn)
		WalkStmts(n.Body, fn)
	case *core.ClassDecl:
		WalkStmts(n.Members, fn)
	case *core.ClassConstDecl:
		for _, c := range n.Consts {
			walkExpr(c.Value, fn)
		}
	case *core.EnumCase:
		walkExpr(n.Value, fn)
	case *core.DeclareStmt:
		for _, d := range n.Directives {
			walkExpr(d.Value, fn)
		}
		WalkStmts(n.Body, fn)
	case *core.PropertyDecl:
		for _, prop := range n.Props {
			walkExpr(prop.Default, fn)
		}
	case *core.MethodDecl:
		walkParams(n.Params, fn)
		WalkStmts(n.Body, fn)
	case *core.ConstStmt:
		for _, c := range n.Consts {
			walkExpr(c.Value, fn)
		}
	case *core.NamespaceStmt:
		WalkStmts(n.Stmts, fn)
	case *core.GlobalStmt:
		walkExprs(n.Vars, fn)
	case *core.StaticStmt:
		for _, sv := range n.Vars {
			walkVariable(sv.Var, fn)
			walkExpr(sv.Default, fn)
		}
	case *core.UnsetStmt:
		walkExprs(n.Vars, fn)
	case *core.ThrowStmt:
		walkExpr(n.X, fn)
	case *core.TryStmt:
		WalkStmts(n.Body, fn)
		for _, c := range n.Catches {
			walkVariable(c.Var, fn)
			WalkStmts(c.Body, fn)
		}
		WalkStmts(n.Finally, fn)
	case *core.BlockStmt:
		WalkStmts(n.Stmts, fn)

	// ---------- Expressions ----------
	case *core.Variable:
		walkExpr(n.NameExpr, fn)
	case *core.InterpolatedString:
		walkExprs(n.Parts, fn)
	case *core.ArrayLit:
		walkItems(n.Items, fn)
	case *core.ListExpr:
		walkItems(n.Items, fn)
	case *core.FuncCall:
		walkExpr(n.Callee, fn)
		walkArgs(n.Args, fn)
	case *core.MethodCall:
		walkExpr(n.Var, fn)
		walkExpr(n.NameExpr, fn)
		walkArgs(n.Args, fn)
	case *core.PropertyFetch:
		walkExpr(n.Var, fn)
		walkExpr(n.NameExpr, fn)
	case *core.StaticCall:
		walkExpr(n.ClassExpr, fn)
		walkExpr(n.NameExpr, fn)
		walkArgs(n.Args, fn)
	case *core.StaticPropertyFetch:
		walkExpr(n.ClassExpr, fn)
	case *core.ClassConstFetch:
		walkExpr(n.ClassExpr, fn)
	case *core.ArrayDimFetch:
		walkExpr(n.Var, fn)
		walkExpr(n.Dim, fn)
	case *core.New:
		walkExpr(n.ClassExpr, fn)
		walkArgs(n.Args, fn)
		if n.Anon != nil {
			Walk(n.Anon, fn)
		}
	case *core.Closure:
		walkParams(n.Params, fn)
		for _, use := range n.Uses {
			walkVariable(use.Var, fn)
		}
		WalkStmts(n.Body, fn)
	case *core.ArrowFunc:
		walkParams(n.Params, fn)
		walkExpr(n.Expr, fn)
	case *core.Match:
		walkExpr(n.Cond, fn)
		for _, arm := range n.Arms {
			walkExprs(arm.Conds, fn)
			walkExpr(arm.Body, fn)
		}
	case *core.Yield:
		walkExpr(n.Key, fn)
		walkExpr(n.Value, fn)
	case *core.YieldFrom:
		walkExpr(n.X, fn)
	case *core.Include:
		walkExpr(n.X, fn)
	case *core.ShellExec:
		walkExprs(n.Parts, fn)
	case *core.Unary:
		walkExpr(n.X, fn)
	case *core.IncDec:
		walkExpr(n.X, fn)
	case *core.Binary:
		walkExpr(n.X, fn)
		walkExpr(n.Y, fn)
	case *core.Instanceof:
		walkExpr(n.X, fn)
		walkExpr(n.ClassExpr, fn)
	case *core.Assign:
		walkExpr(n.Target, fn)
		walkExpr(n.Value, fn)
	case *core.Ternary:
		walkExpr(n.Cond, fn)
		walkExpr(n.Then, fn)
		walkExpr(n.Else, fn)
	case *core.Cast:
		walkExpr(n.X, fn)
	case *core.Isset:
		walkExprs(n.Vars, fn)
	case *core.Empty:
		walkExpr(n.X, fn)
	case *core.Exit:
		walkExpr(n.X, fn)
	case *core.Print:
		walkExpr(n.X, fn)
	case *core.Clone:
		walkExpr(n.X, fn)
	case *core.ParenExpr:
		walkExpr(n.X, fn)

	case *core.Param:
		walkExpr(n.Default, fn)
	}
}
