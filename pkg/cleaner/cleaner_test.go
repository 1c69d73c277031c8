package cleaner_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/psyrepl/pkg/cleaner"
	"github.com/leapstack-labs/psyrepl/pkg/format"
	"github.com/leapstack-labs/psyrepl/pkg/parser"
)

func resolver(names ...string) cleaner.Resolver {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[strings.ToLower(name)] = true
	}
	return cleaner.ResolverFunc(func(name string) bool {
		return set[strings.ToLower(strings.TrimPrefix(name, `\`))]
	})
}

var testEnv = cleaner.Env{Resolver: resolver("var_dump", "strlen", "printf", `App\known`)}

func TestClean_Ready(t *testing.T) {
	tests := []struct {
		name      string
		lines     []string
		namespace []string
		expected  string
	}{
		{name: "bare expression", lines: []string{"true"}, expected: "return true;"},
		{name: "terminated expression", lines: []string{"true;"}, expected: "return true;"},
		{name: "only trailing expression returns", lines: []string{`echo "foo";`, "true"}, expected: "echo \"foo\";\nreturn true;"},
		{name: "closed block", lines: []string{"if (1) {", "}"}, expected: "if (1) {\n}"},
		{name: "completed call", lines: []string{"var_dump(1, 2,", "3)"}, expected: "return var_dump(1, 2, 3);"},
		{name: "statement not returned", lines: []string{"$a = 1; echo $a;"}, expected: "$a = 1;\necho $a;"},
		{name: "comment only", lines: []string{"// closed comment"}, expected: ""},
		{name: "trailing line comment", lines: []string{"echo 1 // note"}, expected: "echo 1;"},
		{name: "trailing hash comment", lines: []string{"strlen('a') # note"}, expected: "return strlen('a');"},
		{name: "closed string", lines: []string{`echo "`, `"`}, expected: "echo \"\n\";"},
		{name: "closed comment", lines: []string{"/* open", "*/ 1"}, expected: "return 1;"},
		{name: "heredoc", lines: []string{"<<<EOS", "  text", "  EOS"}, expected: "return <<<EOS\n  text\n  EOS;"},
		{name: "assignment returned", lines: []string{"$a = [1, 2]"}, expected: "return $a = [1, 2];"},
		{name: "function then call", lines: []string{"function foo() { return 1; }", "foo()"}, expected: "function foo() {\n    return 1;\n}\nreturn foo();"},
		{name: "namespace wraps", lines: []string{"known()"}, namespace: []string{"App"}, expected: "namespace App {\n    return known();\n}"},
		{name: "namespace wraps statements", lines: []string{"$a = 1;", "$a"}, namespace: []string{"App", "Sub"}, expected: "namespace App\\Sub {\n    $a = 1;\n    return $a;\n}"},
		{name: "buffer namespace not wrapped", lines: []string{"namespace Foo;", "strlen('a')"}, namespace: []string{"App"}, expected: "namespace Foo;\nreturn strlen('a');"},
		{name: "braced buffer namespace", lines: []string{"namespace App { known(); }"}, expected: "namespace App {\n    known();\n}"},
		{name: "computed callee allowed", lines: []string{"$f = 'nope';", "$f()"}, expected: "$f = 'nope';\nreturn $f();"},
		{name: "arrow function", lines: []string{"$f = fn($x) => strlen($x)"}, expected: "return $f = fn ($x) => strlen($x);"},
		{name: "match", lines: []string{"match (1) {", "1, 2 => 'a',", "default => 'b' }"}, expected: "return match (1) {\n    1, 2 => 'a',\n    default => 'b',\n};"},
		{name: "require", lines: []string{"require_once 'vendor/autoload.php'"}, expected: "return require_once 'vendor/autoload.php';"},
		{name: "interface", lines: []string{"interface I extends A, B {", "public function f(): int;", "}"}, expected: "interface I extends A, B {\n    public function f(): int;\n}"},
		{name: "strict types", lines: []string{"declare(strict_types=1);", "1"}, namespace: []string{"App"}, expected: "declare(strict_types=1);\nnamespace App {\n    return 1;\n}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := testEnv
			env.Namespace = tt.namespace
			result := cleaner.Clean(tt.lines, env)
			require.Equal(t, cleaner.StatusReady, result.Status, "result: %s", result)
			assert.Equal(t, tt.expected, result.Code)
			assert.Nil(t, result.Err)
		})
	}
}

func TestClean_Incomplete(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
	}{
		{"open block", []string{"if (1) {"}},
		{"open double quote", []string{`echo "`}},
		{"open single quote", []string{"'"}},
		{"open block comment", []string{"/* "}},
		{"open doc comment", []string{"/** "}},
		{"heredoc opener", []string{"<<<EOS"}},
		{"nowdoc opener", []string{"<<<'EOS'"}},
		{"open call", []string{"var_dump(1, 2,"}},
		{"open binary", []string{"1 +"}},
		{"open array", []string{"$a = ["}},
		{"open function", []string{"function foo() {", "return 1;"}},
		{"try awaiting catch", []string{"try { }"}},
		{"open class", []string{"class A {", "public $a;"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := cleaner.Clean(tt.lines, testEnv)
			assert.Equal(t, cleaner.StatusIncomplete, result.Status, "result: %s", result)
			assert.Empty(t, result.Code)
			assert.Nil(t, result.Err)
		})
	}
}

func TestClean_ParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		line  int
	}{
		{"mismatched brace", []string{"echo }"}, 1},
		{"function string", []string{`function "what`}, 1},
		{"echo open brace", []string{"echo {"}, 1},
		{"if close brace", []string{"if (1) }"}, 1},
		{"triple quote", []string{`echo """`}, 1},
		{"string after variable", []string{`$foo "bar`}, 1},
		{"trailing comma", []string{"var_dump(1,2,)"}, 1},
		{"error on later line", []string{"if (1) {", "echo }"}, 2},
		{"try followed by statement", []string{"try { }", "echo 1;"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := cleaner.Clean(tt.lines, testEnv)
			require.Equal(t, cleaner.StatusRejected, result.Status, "result: %s", result)
			require.NotNil(t, result.Err)
			assert.Equal(t, cleaner.ParseErrorKind, result.Err.Kind)
			assert.Equal(t, tt.line, result.Err.Line)
			assert.NotEmpty(t, result.Err.Message)
			assert.Empty(t, result.Code)
		})
	}
}

func TestClean_ParseErrorDetails(t *testing.T) {
	result := cleaner.Clean([]string{"echo }"}, testEnv)
	require.NotNil(t, result.Err)

	assert.Equal(t, `syntax error, unexpected token "}"`, result.Err.Message)
	assert.Equal(t, 1, result.Err.Line)
	assert.Equal(t, 6, result.Err.Column)
	assert.Equal(t, `PHP Parse error: syntax error, unexpected token "}" on line 1`, result.Err.Error())
	assert.False(t, result.Err.Kind.Fatal())
}

func TestClean_FatalPrevented(t *testing.T) {
	env := cleaner.Env{
		Namespace: []string{"App", "Sub"},
		Resolver:  resolver("strlen"),
	}
	result := cleaner.Clean([]string{"foo()"}, env)

	require.Equal(t, cleaner.StatusRejected, result.Status)
	require.NotNil(t, result.Err)
	assert.Equal(t, cleaner.FatalPreventedKind, result.Err.Kind)
	assert.Equal(t, "foo", result.Err.Name)
	assert.Equal(t, 1, result.Err.Line)
	assert.Equal(t, "Call to undefined function foo()", result.Err.Message)
	assert.True(t, result.Err.Kind.Fatal())
	assert.True(t, cleaner.IsKind(result.Err, cleaner.FatalPreventedKind))
}

func TestClean_FatalPreventedLine(t *testing.T) {
	result := cleaner.Clean([]string{"$a = 1;", "if ($a) {", "  nope();", "}"}, testEnv)

	require.NotNil(t, result.Err)
	assert.Equal(t, cleaner.FatalPreventedKind, result.Err.Kind)
	assert.Equal(t, 3, result.Err.Line)
	assert.Equal(t, 3, result.Err.Column)
}

func TestClean_FatalPreventedInString(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		line  int
	}{
		{"method argument", []string{`echo "{$a->b(nope())}";`}, 1},
		{"dollar brace", []string{`echo "${nope()}";`}, 1},
		{"heredoc", []string{"echo <<<EOS", "{$a[nope()]}", "EOS;"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := cleaner.Clean(tt.lines, cleaner.Env{Resolver: resolver("strlen")})

			require.Equal(t, cleaner.StatusRejected, result.Status)
			assert.Equal(t, cleaner.FatalPreventedKind, result.Err.Kind)
			assert.Equal(t, "nope", result.Err.Name)
			assert.Equal(t, tt.line, result.Err.Line)
		})
	}

	result := cleaner.Clean([]string{`echo "{$a->b(strlen('x'))} $c";`}, cleaner.Env{Resolver: resolver("strlen")})
	require.Equal(t, cleaner.StatusReady, result.Status)
	assert.Contains(t, result.Code, `"{$a->b(strlen('x'))} $c"`)
}

func TestClean_FatalPreventedInNestedCode(t *testing.T) {
	inputs := []string{
		"$f = fn() => nope();",
		"echo match (1) { default => nope() };",
		"$o = new class { public function f() { nope(); } };",
		"function g() { yield nope(); }",
		"include nope();",
		"echo `ls {$a[nope()]}`;",
	}

	for _, src := range inputs {
		t.Run(src, func(t *testing.T) {
			result := cleaner.Clean([]string{src}, testEnv)
			require.Equal(t, cleaner.StatusRejected, result.Status)
			assert.Equal(t, cleaner.FatalPreventedKind, result.Err.Kind)
			assert.Equal(t, "nope", result.Err.Name)
		})
	}
}

func TestClean_ProtectedState(t *testing.T) {
	buffers := []string{
		"$__psysh__",
		"$__psysh__ = 1",
		`"value: $__psysh__"`,
		"global $__psysh__;",
		"function f() { return $__psysh__; }",
		"$f = function () use ($__psysh__) {};",
		"$__psysh__['err'] = 'boom'",
		"unset($__psysh__['vars'])",
		`"{$__psysh__['in']}"`,
		`"${__psysh__}"`,
	}
	namespaces := [][]string{nil, {"App"}, {"App", "Sub"}}

	for _, src := range buffers {
		for _, ns := range namespaces {
			t.Run(src+"/"+strings.Join(ns, `\`), func(t *testing.T) {
				env := testEnv
				env.Namespace = ns
				result := cleaner.Clean([]string{src}, env)
				require.Equal(t, cleaner.StatusRejected, result.Status)
				assert.Equal(t, cleaner.ProtectedStateViolationKind, result.Err.Kind)
				assert.False(t, result.Err.Kind.Fatal())
				assert.Equal(t, "Don't mess with $__psysh__. Bad things will happen.", result.Err.Message)
			})
		}
	}
}

func TestClean_ResultIsExclusive(t *testing.T) {
	inputs := [][]string{{"true"}, {"if (1) {"}, {"echo }"}, {"nope()"}}
	for _, lines := range inputs {
		result := cleaner.Clean(lines, testEnv)
		switch result.Status {
		case cleaner.StatusReady:
			assert.Nil(t, result.Err)
		case cleaner.StatusIncomplete:
			assert.Nil(t, result.Err)
			assert.Empty(t, result.Code)
		case cleaner.StatusRejected:
			assert.NotNil(t, result.Err)
			assert.Empty(t, result.Code)
		}
	}
}

// TestClean_RoundTrip checks that Ready code parses without a retry and
// prints back to itself.
func TestClean_RoundTrip(t *testing.T) {
	buffers := [][]string{
		{"true"},
		{`echo "foo";`, "true"},
		{"if (1) {", "}"},
		{"$a = [1, 'b' => 2]", ""},
		{"foreach ([1, 2] as $k => $v) {", "echo $k, $v;", "}"},
		{"$f = function ($x) use (&$y) { return $x * $y; };", "$f(2)"},
		{"class A { const B = 1; public static function c() { return static::B; } }", "A::c()"},
		{"namespace Foo;", "function bar() { return 1; }", "bar()"},
		{"$s = <<<EOS", "  hi $name", "  EOS"},
		{"- -1"},
		{"known()"},
		{"try { throw new Exception('x'); } catch (Exception $e) { $e->getMessage(); } finally { }"},
	}

	for _, lines := range buffers {
		t.Run(strings.Join(lines, " "), func(t *testing.T) {
			env := testEnv
			env.Namespace = []string{"App"}
			result := cleaner.Clean(lines, env)
			require.Equal(t, cleaner.StatusReady, result.Status, "result: %s", result)

			file, err := parser.Parse("<?php " + result.Code)
			require.NoError(t, err)
			assert.Equal(t, result.Code, format.File(file))
		})
	}
}

func TestCleaner_DisabledRules(t *testing.T) {
	c := cleaner.New(cleaner.Config{DisabledRules: []string{"undefined-function"}})

	result := c.Clean([]string{"nope()"}, cleaner.Env{})
	require.Equal(t, cleaner.StatusReady, result.Status)
	assert.Equal(t, "return nope();", result.Code)

	result = c.Clean([]string{"$__psysh__"}, cleaner.Env{})
	assert.Equal(t, cleaner.StatusRejected, result.Status)
}

func TestResult_String(t *testing.T) {
	assert.Equal(t, `ready("return 1;")`, cleaner.Ready("return 1;").String())
	assert.Equal(t, "incomplete", cleaner.Incomplete().String())
	rejected := cleaner.Rejected(&cleaner.Error{Kind: cleaner.FatalPreventedKind, Message: "boom"})
	assert.Equal(t, "rejected(PHP Fatal error: boom)", rejected.String())
}
