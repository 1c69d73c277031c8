package ast

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/psyrepl/pkg/core"
	"github.com/leapstack-labs/psyrepl/pkg/parser"
)

func nodeTypes(t *testing.T, src string) []string {
	t.Helper()
	file, err := parser.Parse("<?php " + src)
	require.NoError(t, err)

	var types []string
	WalkStmts(file.Stmts, func(node any) bool {
		types = append(types, fmt.Sprintf("%T", node))
		return true
	})
	return types
}

func TestWalk_Order(t *testing.T) {
	got := nodeTypes(t, "$a = foo(1);")
	assert.Equal(t, []string{
		"*core.ExprStmt",
		"*core.Assign",
		"*core.Variable",
		"*core.FuncCall",
		"*core.IntLit",
	}, got)
}

func TestWalk_Bindings(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"param", "function f($x = 1) {}", "*core.Param"},
		{"closure use", "function () use ($x) {};", "*core.Variable"},
		{"catch var", "try {} catch (E $e) {}", "*core.Variable"},
		{"static var", "static $s = 1;", "*core.Variable"},
		{"interpolated", `"$x";`, "*core.Variable"},
		{"class member", "class A { const B = 1; }", "*core.IntLit"},
		{"namespace body", "namespace A { echo 1; }", "*core.IntLit"},
		{"embedded expression", `"{$a->b(1)}";`, "*core.IntLit"},
		{"arrow param", "fn($x) => 1;", "*core.Param"},
		{"arrow body", "fn() => 1;", "*core.IntLit"},
		{"match arm", "match ($a) { default => 1 };", "*core.IntLit"},
		{"yield value", "function g() { yield 1; }", "*core.IntLit"},
		{"include path", "include 'a' . 1;", "*core.IntLit"},
		{"anonymous class", "new class { const B = 1; };", "*core.IntLit"},
		{"enum case", "enum E: int { case A = 1; }", "*core.IntLit"},
		{"declare block", "declare(ticks=1) { echo 2; }", "*core.IntLit"},
		{"shell command", "`ls {$a[1]}`;", "*core.IntLit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, nodeTypes(t, tt.src), tt.want)
		})
	}
}

func TestWalk_SkipChildren(t *testing.T) {
	file, err := parser.Parse("<?php function f() { foo(); } bar();")
	require.NoError(t, err)

	var calls []string
	WalkStmts(file.Stmts, func(node any) bool {
		switch n := node.(type) {
		case *core.FuncDecl:
			return false
		case *core.FuncCall:
			calls = append(calls, n.Name.Join())
		}
		return true
	})
	assert.Equal(t, []string{"bar"}, calls)
}

func TestWalk_Nil(t *testing.T) {
	called := false
	Walk(nil, func(any) bool {
		called = true
		return true
	})
	assert.False(t, called)
}
