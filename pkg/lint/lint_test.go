package lint_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/psyrepl/pkg/core"
	"github.com/leapstack-labs/psyrepl/pkg/lint"
	"github.com/leapstack-labs/psyrepl/pkg/parser"
)

// knownFuncs is a case-insensitive resolver for tests.
func knownFuncs(names ...string) lint.Resolver {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[strings.ToLower(name)] = true
	}
	return lint.ResolverFunc(func(name string) bool {
		return set[strings.ToLower(strings.TrimPrefix(name, `\`))]
	})
}

func parse(t *testing.T, src string) *core.File {
	t.Helper()
	file, err := parser.Parse("<?php " + src)
	require.NoError(t, err)
	return file
}

func TestValidate(t *testing.T) {
	resolver := knownFuncs("strlen", "var_dump", `App\known`)

	tests := []struct {
		name      string
		src       string
		namespace []string
		wantRule  string
		wantName  string
	}{
		{name: "builtin", src: "strlen('a');"},
		{name: "builtin other case", src: "STRLEN('a');"},
		{name: "fully qualified builtin", src: `\strlen('a');`},
		{name: "builtin from namespace", src: "strlen('a');", namespace: []string{"App"}},
		{name: "namespaced function", src: "known();", namespace: []string{"App"}},
		{name: "namespaced function outside namespace", src: "known();", wantRule: lint.RuleUndefinedFunction, wantName: "known"},
		{name: "undefined", src: "foo();", wantRule: lint.RuleUndefinedFunction, wantName: "foo"},
		{name: "undefined fully qualified", src: `\foo();`, wantRule: lint.RuleUndefinedFunction, wantName: `\foo`},
		{name: "undefined qualified", src: `Foo\bar();`, wantRule: lint.RuleUndefinedFunction, wantName: `Foo\bar`},
		{name: "computed callee", src: "$f = 'foo'; $f();"},
		{name: "computed callee result", src: "$f()();"},
		{name: "method calls ignored", src: "$a->foo(); A::bar();"},
		{name: "declared in buffer", src: "function foo() {} foo();"},
		{name: "declared after use", src: "foo(); function foo() {}"},
		{name: "declared conditionally", src: "if (1) { function foo() {} } foo();"},
		{name: "declared in buffer namespace", src: "namespace Foo; function bar() {} bar();"},
		{name: "declared in active namespace", src: "function bar() {} bar();", namespace: []string{"Foo"}},
		{name: "buffer namespace replaces active", src: "namespace Other; known();", namespace: []string{"App"}, wantRule: lint.RuleUndefinedFunction, wantName: "known"},
		{name: "buffer namespace resolves", src: "namespace App { known(); }"},
		{name: "use function alias", src: `use function App\known as k; k();`},
		{name: "use function", src: `use function App\known; known();`},
		{name: "nested in block", src: "if (1) { while (0) { foo(); } }", wantRule: lint.RuleUndefinedFunction, wantName: "foo"},
		{name: "nested in closure", src: "$a = function () { return foo(); };", wantRule: lint.RuleUndefinedFunction, wantName: "foo"},
		{name: "nested in method", src: "class A { function b() { foo(); } }", wantRule: lint.RuleUndefinedFunction, wantName: "foo"},
		{name: "nested in argument", src: "var_dump(foo());", wantRule: lint.RuleUndefinedFunction, wantName: "foo"},
		{name: "protected assign", src: "$__psysh__ = 1;", wantRule: lint.RuleProtectedVariable, wantName: "__psysh__"},
		{name: "protected read", src: "var_dump($__psysh__);", wantRule: lint.RuleProtectedVariable, wantName: "__psysh__"},
		{name: "protected interpolated", src: `"a $__psysh__";`, wantRule: lint.RuleProtectedVariable, wantName: "__psysh__"},
		{name: "protected global", src: "global $__psysh__;", wantRule: lint.RuleProtectedVariable, wantName: "__psysh__"},
		{name: "protected param", src: "function f($__psysh__) {}", wantRule: lint.RuleProtectedVariable, wantName: "__psysh__"},
		{name: "protected closure use", src: "$a = function () use ($__psysh__) {};", wantRule: lint.RuleProtectedVariable, wantName: "__psysh__"},
		{name: "protected variable variable", src: "$$__psysh__;", wantRule: lint.RuleProtectedVariable, wantName: "__psysh__"},
		{name: "protected name is case sensitive", src: "$__PSYSH__;"},
		{name: "protected property name allowed", src: "$a->__psysh__;"},
		{name: "protected checked before calls", src: "foo($__psysh__);", wantRule: lint.RuleProtectedVariable, wantName: "__psysh__"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := lint.Validate(parse(t, tt.src), lint.Env{
				Namespace: tt.namespace,
				Resolver:  resolver,
			})
			if tt.wantRule == "" {
				assert.NoError(t, err)
				return
			}

			var v *lint.Violation
			require.ErrorAs(t, err, &v)
			assert.Equal(t, tt.wantRule, v.RuleID)
			assert.Equal(t, tt.wantName, v.Name)
		})
	}
}

func TestValidate_Messages(t *testing.T) {
	err := lint.Validate(parse(t, `\Foo\bar();`), lint.Env{})
	require.Error(t, err)
	assert.Equal(t, `Call to undefined function \Foo\bar()`, err.Error())

	err = lint.Validate(parse(t, "$__psysh__;"), lint.Env{})
	require.Error(t, err)
	assert.Equal(t, "Don't mess with $__psysh__. Bad things will happen.", err.Error())
}

func TestValidate_Line(t *testing.T) {
	err := lint.Validate(parse(t, "$a = 1;\n\nfoo();"), lint.Env{})

	var v *lint.Violation
	require.ErrorAs(t, err, &v)
	assert.Equal(t, 3, v.Pos.Line)
}

func TestValidate_NilResolver(t *testing.T) {
	assert.Error(t, lint.Validate(parse(t, "strlen('a');"), lint.Env{}))
	assert.NoError(t, lint.Validate(parse(t, "function strlen() {} strlen();"), lint.Env{}))
}

func TestAnalyzer_AllViolations(t *testing.T) {
	file := parse(t, "foo(); bar($__psysh__); baz();")
	violations := lint.NewAnalyzer(nil).Analyze(file, lint.Env{})

	require.Len(t, violations, 4)
	assert.Equal(t, lint.RuleProtectedVariable, violations[0].RuleID)
	assert.Equal(t, "foo", violations[1].Name)
	assert.Equal(t, "bar", violations[2].Name)
	assert.Equal(t, "baz", violations[3].Name)
}

func TestAnalyzer_DisabledRules(t *testing.T) {
	file := parse(t, "foo($__psysh__);")

	byName := lint.NewAnalyzer(lint.NewConfig().Disable("undefined-function"))
	violations := byName.Analyze(file, lint.Env{})
	require.Len(t, violations, 1)
	assert.Equal(t, lint.RuleProtectedVariable, violations[0].RuleID)

	byID := lint.NewAnalyzer(lint.NewConfig().Disable(lint.RuleProtectedVariable, lint.RuleUndefinedFunction))
	assert.NoError(t, byID.Validate(file, lint.Env{}))
}

func TestAnalyzer_NilFile(t *testing.T) {
	assert.Empty(t, lint.NewAnalyzer(nil).Analyze(nil, lint.Env{}))
}

func TestRegistry(t *testing.T) {
	rules := lint.AllRules()
	require.Len(t, rules, 2)
	assert.Equal(t, lint.RuleProtectedVariable, rules[0].ID())
	assert.Equal(t, lint.RuleUndefinedFunction, rules[1].ID())

	rule, ok := lint.GetByID(lint.RuleUndefinedFunction)
	require.True(t, ok)
	info := lint.GetRuleInfo(rule)
	assert.Equal(t, "undefined-function", info.Name)
	assert.NotEmpty(t, info.Description)

	_, ok = lint.GetByID("XX99")
	assert.False(t, ok)
}
