package cleaner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/psyrepl/pkg/core"
	"github.com/leapstack-labs/psyrepl/pkg/format"
	"github.com/leapstack-labs/psyrepl/pkg/parser"
)

func parseFile(t *testing.T, src string) *core.File {
	t.Helper()
	file, err := parser.Parse(openTag + src)
	require.NoError(t, err)
	return file
}

func TestTransform(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		namespace []string
		expected  string
	}{
		{"trailing expression", "$a; $b;", nil, "$a;\nreturn $b;"},
		{"trailing statement", "$a; echo $b;", nil, "$a;\necho $b;"},
		{"empty", "", nil, ""},
		{"empty with namespace", "", []string{"App"}, ""},
		{"wrap", "$a;", []string{"App", "Sub"}, "namespace App\\Sub {\n    return $a;\n}"},
		{"semicolon namespace", "namespace A; $a;", nil, "namespace A;\nreturn $a;"},
		{"braced namespace", "namespace A { $a; }", nil, "namespace A {\n    $a;\n}"},
		{"declared namespace not wrapped", "namespace A { $a; }", []string{"B"}, "namespace A {\n    $a;\n}"},
		{"return in block untouched", "if (1) { $a; }", nil, "if (1) {\n    $a;\n}"},
		{"declare before namespace", "declare(strict_types=1); $a;", []string{"App"}, "declare(strict_types=1);\nnamespace App {\n    return $a;\n}"},
		{"only declare", "declare(strict_types=1);", []string{"App"}, "declare(strict_types=1);"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts := transform(parseFile(t, tt.src), tt.namespace)
			assert.Equal(t, tt.expected, format.Stmts(stmts))
		})
	}
}

func TestTransform_KeepsPosition(t *testing.T) {
	file := parseFile(t, "$a;\n\n  $b;")
	stmts := transform(file, nil)

	ret, ok := stmts[1].(*core.ReturnStmt)
	require.True(t, ok)
	assert.Equal(t, 3, ret.Line())
	assert.Equal(t, file.Stmts[1].Pos(), ret.Pos())
}

func TestTransform_DoesNotModifyInput(t *testing.T) {
	file := parseFile(t, "namespace A; $a;")
	transform(file, []string{"B"})

	ns := file.Stmts[0].(*core.NamespaceStmt)
	_, isExpr := ns.Stmts[0].(*core.ExprStmt)
	assert.True(t, isExpr)
}

func TestTransform_NamespaceCopied(t *testing.T) {
	path := []string{"App"}
	stmts := transform(parseFile(t, "$a;"), path)
	path[0] = "Changed"

	ns := stmts[0].(*core.NamespaceStmt)
	assert.Equal(t, []string{"App"}, ns.Name.Parts)
}

func TestParseBuffer(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		incomplete bool
		wantErr    bool
	}{
		{name: "complete", code: "1;"},
		{name: "needs terminator", code: "1"},
		{name: "line comment", code: "1 // c"},
		{name: "open block", code: "{", incomplete: true},
		{name: "error in terminator", code: "foo(1,", incomplete: true},
		{name: "hard error", code: "echo }", wantErr: true},
		{name: "hard error after retry", code: "foo(1,)", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, incomplete, err := parseBuffer(tt.code)
			assert.Equal(t, tt.incomplete, incomplete)
			if tt.wantErr {
				assert.True(t, IsKind(err, ParseErrorKind))
				assert.Nil(t, file)
				return
			}
			assert.NoError(t, err)
			if !tt.incomplete {
				assert.NotNil(t, file)
			}
		})
	}
}
