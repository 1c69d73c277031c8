package core

import (
	"testing"

	"github.com/leapstack-labs/psyrepl/pkg/token"
	"github.com/stretchr/testify/assert"
)

func TestName_String(t *testing.T) {
	tests := []struct {
		name     string
		input    *Name
		expected string
		last     string
	}{
		{"simple", &Name{Parts: []string{"strlen"}}, "strlen", "strlen"},
		{"qualified", &Name{Parts: []string{"Foo", "bar"}}, `Foo\bar`, "bar"},
		{"fully qualified", &Name{Parts: []string{"Foo", "bar"}, Kind: NameFullyQualified}, `\Foo\bar`, "bar"},
		{"relative", &Name{Parts: []string{"bar"}, Kind: NameRelative}, `namespace\bar`, "bar"},
		{"empty", &Name{}, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.input.String())
			assert.Equal(t, tt.last, tt.input.Last())
		})
	}
}

func TestNodeInfo(t *testing.T) {
	pos := token.Position{Line: 3, Column: 5, Offset: 20}
	stmt := &ExprStmt{NodeInfo: At(pos)}

	var s Stmt = stmt
	assert.Equal(t, pos, s.Pos())
	assert.Equal(t, 3, stmt.Line())
}

func TestFuncCall_IsStatic(t *testing.T) {
	named := &FuncCall{Name: &Name{Parts: []string{"foo"}}}
	computed := &FuncCall{Callee: &Variable{Name: "fn"}}

	assert.True(t, named.IsStatic())
	assert.False(t, computed.IsStatic())
	assert.True(t, (&Variable{Name: "a"}).IsLiteral())
	assert.False(t, (&Variable{NameExpr: &Variable{Name: "a"}}).IsLiteral())
}

func TestClassKind_String(t *testing.T) {
	assert.Equal(t, "class", KindClass.String())
	assert.Equal(t, "interface", KindInterface.String())
	assert.Equal(t, "trait", KindTrait.String())
	assert.Equal(t, "enum", KindEnum.String())
}
