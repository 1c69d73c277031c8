package parser_test

import (
	"errors"
	"testing"

	"github.com/leapstack-labs/psyrepl/pkg/core"
	"github.com/leapstack-labs/psyrepl/pkg/parser"
	"github.com/leapstack-labs/psyrepl/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *core.File {
	t.Helper()
	file, err := parser.Parse("<?php " + src)
	require.NoError(t, err)
	return file
}

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		count int
	}{
		{"empty", "", 0},
		{"comment only", "// closed comment", 0},
		{"empty statements", ";;", 0},
		{"echo", `echo "foo", 'bar';`, 1},
		{"assignment chain", "$a = $b = 1;", 1},
		{"compound assignment", "$a .= 'x'; $b ??= 2; $c **= 3;", 3},
		{"by reference", "$a = &$b;", 1},
		{"destructuring", "[$a, , $b] = [1, 2, 3]; list('k' => $c) = $d;", 2},
		{"if elseif else", "if ($a) { echo 1; } elseif ($b) echo 2; else { echo 3; }", 1},
		{"loops", "while ($i--) {} do { $i++; } while ($i < 3); for ($i = 0, $j = 1; $i < 10; $i++) {}", 3},
		{"foreach", "foreach ($xs as $k => &$v) {} foreach ($xs as [$a, $b]) {}", 2},
		{"switch", "switch ($a) { case 1: case 2; echo 'x'; break; default: break 1; }", 1},
		{"function", "function &foo(?int $a, array $b = [], Foo ...$rest): ?string { return null; }", 1},
		{"class", `abstract class Foo extends \Bar implements Baz, Qux { const A = 1, B = 2; public static $x = 1, $y; abstract protected function f(); public function list() { return static::class; } }`, 1},
		{"namespace braced", "namespace Foo { function bar() {} } namespace { bar(); }", 2},
		{"use", "use Foo\\Bar as Baz, Qux; use function Foo\\f; use const Foo\\C;", 3},
		{"const global static unset", "const X = 1; global $a, $$b; static $c = 1, $d; unset($a, $b[1]);", 4},
		{"try", "try { throw new Exception('x'); } catch (A|B $e) { } catch (C) { } finally { }", 1},
		{"closure", "$f = static function ($x) use (&$y, $z): int { return $x; };", 1},
		{"calls", `foo(); \foo\bar(...$args); namespace\baz(); $f(1)(2); $o->m()?->n; A::b(); $c::$d; A::{'e'}(); A::C;`, 9},
		{"new", "new Foo; new Foo(1); new $cls(); new static;", 4},
		{"operators", "$a = !$b instanceof C && -$c ** 2 + (int) '1' <=> $d ?: $e ?? $f and $g or $h xor $i;", 1},
		{"ternary", "$a ? $b : ($c ? $d : $e);", 1},
		{"isset empty exit", "isset($a, $b[1]); empty($c); exit; die(1); exit();", 5},
		{"misc expressions", "@foo(); clone $a; print 'x'; ~$a; ++$a; $a--; $a[] = 1; ${'b'} = 2;", 8},
		{"heredoc", "$a = <<<EOS\n  hello $name\n  EOS;\n$b = <<<'EOS'\nraw $x\nEOS;", 2},
		{"comment at end", "echo 1; /* closed */", 1},
		{"block", "{ echo 1; }", 1},
		{"include require", "include 'a.php'; include_once $f; require __DIR__ . '/b.php'; require_once('c.php');", 4},
		{"interface", `interface I extends A, \B { const X = 1; public function f(int $a): void; }`, 1},
		{"trait", "trait T { use U, V; private ?int $n = null; public function t() {} } class C { use T; }", 2},
		{"enum", "enum Suit: string implements HasLabel { case Hearts = 'H'; case Spades = 'S'; public function label(): string { return ucfirst($this->name); } } enum Unit { case A; }", 2},
		{"enum as a name", "enum(); $enum = Enum::A;", 2},
		{"arrow functions", "$f = fn($x) => $x * 2; $g = static fn&(array $a): array => $a; $h = fn() => fn($y) => $y;", 3},
		{"match", "$r = match ($a) { 1, 2, => 'low', default => 'high', }; echo match (true) {};", 2},
		{"yield", "function g() { yield; yield 1; $x = yield 'k' => 2; yield from h(); }", 1},
		{"anonymous class", "$o = new class(1) extends Base implements I { public function __construct(private readonly int $n) {} };", 1},
		{"declare", "declare(strict_types=1); declare(ticks=1) { tick(); }", 2},
		{"shell command", "$out = `ls -la $dir`;", 1},
		{"goto", "goto end; echo 1; end: echo 2;", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := parse(t, tt.src)
			assert.Len(t, file.Stmts, tt.count)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		eof  bool
	}{
		// Input ended before a construct was closed.
		{"missing semicolon", "true", true},
		{"open brace", "if (1) {", true},
		{"open paren", "foo(", true},
		{"trailing comma at end", "var_dump(1, 2,", true},
		{"dangling operator", "$a = 1 +", true},
		{"unterminated double quote", `echo "`, true},
		{"unterminated single quote", "echo '", true},
		{"unterminated template", `echo "foo $bar`, true},
		{"open block comment", "/* unclosed", true},
		{"open doc comment", "function foo() { /**", true},
		{"open comment after statement", "echo 1; /* unclosed", true},
		{"heredoc opener", "$a = <<<EOS", true},
		{"nowdoc opener", "$a = <<<'EOS'", true},
		{"heredoc body", "$a = <<<EOS\nfoo", true},
		{"try awaiting catch", "try { }", true},
		{"open match", "$r = match ($a) {", true},
		{"arrow without body", "$f = fn($x) =>", true},
		{"unterminated shell command", "echo `ls", true},
		{"open interface", "interface I {", true},

		// Hard syntax errors.
		{"close brace", "echo }", false},
		{"open brace in expression", "echo {", false},
		{"stray close brace", "if (1) }", false},
		{"string as function name", `function "what`, false},
		{"unterminated string after value", `echo """`, false},
		{"string after variable", `$foo "bar`, false},
		{"trailing comma in call", "var_dump(1,2,)", false},
		{"illegal character", "echo \x01;", false},
		{"match arm without arrow", "match ($a) { 1 };", false},
		{"trait adaptation block", "class A { use T { f as g; } }", false},
		{"nested namespace", "if (1) { namespace Foo; }", false},
		{"not assignable", "1 = 2;", false},
		{"try followed by statement", "try { } echo 1;", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse("<?php " + tt.src)
			require.Error(t, err)

			var pe *parser.ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.eof, pe.EOF, pe.Message)
			assert.Equal(t, tt.eof, parser.IsEOF(err))
		})
	}
}

func TestParse_ErrorMessage(t *testing.T) {
	_, err := parser.Parse("<?php echo }")
	require.Error(t, err)

	var pe *parser.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, `syntax error, unexpected token "}"`, pe.Message)
	assert.Equal(t, 1, pe.Pos.Line)
	assert.Contains(t, err.Error(), "line 1")

	_, err = parser.Parse("<?php $a = 1\n$b")
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, `syntax error, unexpected variable "$b", expecting ";"`, pe.Message)
	assert.Equal(t, 2, pe.Pos.Line)
}

func TestParse_FuncCallShapes(t *testing.T) {
	file := parse(t, `foo(); \A\b(); namespace\c(); $f();`)
	require.Len(t, file.Stmts, 4)

	call := func(i int) *core.FuncCall {
		stmt, ok := file.Stmts[i].(*core.ExprStmt)
		require.True(t, ok)
		c, ok := stmt.X.(*core.FuncCall)
		require.True(t, ok)
		return c
	}

	assert.Equal(t, "foo", call(0).Name.String())
	assert.Equal(t, core.NameNormal, call(0).Name.Kind)
	assert.Equal(t, `\A\b`, call(1).Name.String())
	assert.Equal(t, core.NameFullyQualified, call(1).Name.Kind)
	assert.Equal(t, core.NameRelative, call(2).Name.Kind)
	assert.False(t, call(3).IsStatic())
	assert.IsType(t, &core.Variable{}, call(3).Callee)
}

func TestParse_Precedence(t *testing.T) {
	file := parse(t, "$a = 1 + 2 * 3 and $b;")
	require.Len(t, file.Stmts, 1)

	and, ok := file.Stmts[0].(*core.ExprStmt).X.(*core.Binary)
	require.True(t, ok)
	assert.Equal(t, token.AND, and.Op)

	assign, ok := and.X.(*core.Assign)
	require.True(t, ok)
	sum, ok := assign.Value.(*core.Binary)
	require.True(t, ok)
	assert.Equal(t, token.PLUS, sum.Op)
	assert.IsType(t, &core.Binary{}, sum.Y)
}

func TestParse_ModernShapes(t *testing.T) {
	expr := func(t *testing.T, src string) core.Expr {
		t.Helper()
		file := parse(t, src)
		require.Len(t, file.Stmts, 1)
		stmt, ok := file.Stmts[0].(*core.ExprStmt)
		require.True(t, ok)
		return stmt.X
	}

	t.Run("arrow function", func(t *testing.T) {
		fn, ok := expr(t, "static fn(int $x): int => $x + 1;").(*core.ArrowFunc)
		require.True(t, ok)
		assert.True(t, fn.Static)
		require.Len(t, fn.Params, 1)
		assert.Equal(t, "int", fn.ReturnType.Name.String())
		assert.IsType(t, &core.Binary{}, fn.Expr)
	})

	t.Run("match", func(t *testing.T) {
		m, ok := expr(t, "match ($a) { 1, 2 => 'x', default => 'y' };").(*core.Match)
		require.True(t, ok)
		require.Len(t, m.Arms, 2)
		assert.Len(t, m.Arms[0].Conds, 2)
		assert.Nil(t, m.Arms[1].Conds)
	})

	t.Run("yield pair", func(t *testing.T) {
		assign, ok := expr(t, "$x = yield 'k' => $v;").(*core.Assign)
		require.True(t, ok)
		y, ok := assign.Value.(*core.Yield)
		require.True(t, ok)
		assert.IsType(t, &core.StringLit{}, y.Key)
		assert.IsType(t, &core.Variable{}, y.Value)
	})

	t.Run("yield from", func(t *testing.T) {
		assert.IsType(t, &core.YieldFrom{}, expr(t, "yield from gen();"))
	})

	t.Run("include binds loosely", func(t *testing.T) {
		inc, ok := expr(t, "require_once $dir . '/x.php';").(*core.Include)
		require.True(t, ok)
		assert.Equal(t, token.REQUIRE_ONCE, inc.Kind)
		assert.IsType(t, &core.Binary{}, inc.X)
	})

	t.Run("anonymous class", func(t *testing.T) {
		n, ok := expr(t, "new class($a) implements I { use T; };").(*core.New)
		require.True(t, ok)
		require.NotNil(t, n.Anon)
		assert.True(t, n.HasArgs)
		assert.Empty(t, n.Anon.Name)
		assert.Len(t, n.Anon.Implements, 1)
		assert.IsType(t, &core.TraitUse{}, n.Anon.Members[0])
	})

	t.Run("class kinds", func(t *testing.T) {
		file := parse(t, "interface I extends A, B {} trait T {} enum E: int { case One = 1; }")
		require.Len(t, file.Stmts, 3)
		i := file.Stmts[0].(*core.ClassDecl)
		assert.Equal(t, core.KindInterface, i.Kind)
		assert.Nil(t, i.Extends)
		assert.Len(t, i.Implements, 2)
		assert.Equal(t, core.KindTrait, file.Stmts[1].(*core.ClassDecl).Kind)
		e := file.Stmts[2].(*core.ClassDecl)
		assert.Equal(t, core.KindEnum, e.Kind)
		assert.Equal(t, "int", e.BackingType.Name.String())
		assert.IsType(t, &core.EnumCase{}, e.Members[0])
	})
}

func TestParse_NamespaceSemicolonForm(t *testing.T) {
	file := parse(t, "namespace A; foo(); namespace B; bar(); baz();")
	require.Len(t, file.Stmts, 2)

	a := file.Stmts[0].(*core.NamespaceStmt)
	assert.False(t, a.Braced)
	assert.Equal(t, "A", a.Name.String())
	assert.Len(t, a.Stmts, 1)

	b := file.Stmts[1].(*core.NamespaceStmt)
	assert.Equal(t, "B", b.Name.String())
	assert.Len(t, b.Stmts, 2)
}

func TestParse_InterpolatedVars(t *testing.T) {
	file := parse(t, `echo "a $b {$c->d} ${e} \$f";`)
	echo := file.Stmts[0].(*core.EchoStmt)
	str, ok := echo.Exprs[0].(*core.InterpolatedString)
	require.True(t, ok)
	require.Len(t, str.Parts, 3)

	assert.Equal(t, "b", str.Parts[0].(*core.Variable).Name)
	fetch, ok := str.Parts[1].(*core.PropertyFetch)
	require.True(t, ok)
	assert.Equal(t, "c", fetch.Var.(*core.Variable).Name)
	assert.Equal(t, "d", fetch.Name)
	assert.Equal(t, "e", str.Parts[2].(*core.Variable).Name)
}

func TestParse_InterpolatedExpressions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, part core.Expr)
	}{
		{
			name:  "call inside braces",
			input: `"{$a->b(nope())}"`,
			check: func(t *testing.T, part core.Expr) {
				call, ok := part.(*core.MethodCall)
				require.True(t, ok)
				require.Len(t, call.Args, 1)
				inner, ok := call.Args[0].Value.(*core.FuncCall)
				require.True(t, ok)
				assert.Equal(t, "nope", inner.Name.String())
				assert.Equal(t, 20, inner.Pos().Column)
			},
		},
		{
			name:  "nested quotes and braces",
			input: `"{$a["}"]}"`,
			check: func(t *testing.T, part core.Expr) {
				dim, ok := part.(*core.ArrayDimFetch)
				require.True(t, ok)
				assert.Equal(t, `"}"`, dim.Dim.(*core.StringLit).Raw)
			},
		},
		{
			name:  "dollar brace with offset",
			input: `"${a['k']}"`,
			check: func(t *testing.T, part core.Expr) {
				dim, ok := part.(*core.ArrayDimFetch)
				require.True(t, ok)
				assert.Equal(t, "a", dim.Var.(*core.Variable).Name)
			},
		},
		{
			name:  "dollar brace expression",
			input: `"${f()}"`,
			check: func(t *testing.T, part core.Expr) {
				v, ok := part.(*core.Variable)
				require.True(t, ok)
				assert.True(t, v.Braced)
				assert.IsType(t, &core.FuncCall{}, v.NameExpr)
			},
		},
		{
			name:  "heredoc line numbers",
			input: "<<<EOS\nx\n{$y(z())}\nEOS",
			check: func(t *testing.T, part core.Expr) {
				call, ok := part.(*core.FuncCall)
				require.True(t, ok)
				assert.Equal(t, 3, call.Line())
				assert.Equal(t, 3, call.Args[0].Value.(*core.FuncCall).Line())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := parse(t, "echo "+tt.input+";")
			str, ok := file.Stmts[0].(*core.EchoStmt).Exprs[0].(*core.InterpolatedString)
			require.True(t, ok)
			assert.Equal(t, tt.input, str.Raw)
			require.Len(t, str.Parts, 1)
			tt.check(t, str.Parts[0])
		})
	}
}

func TestParse_InterpolationErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		eof   bool
	}{
		{"bad embedded expression", `echo "{$a +}";`, false},
		{"empty dollar brace", `echo "${}";`, false},
		{"open embedded call", `echo "{$a->b(`, true},
		{"open string after braces", `echo "{$a}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse("<?php " + tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.eof, parser.IsEOF(err))
		})
	}
}

func TestParse_HeredocVars(t *testing.T) {
	file := parse(t, "echo <<<EOS\nline\n$x\nEOS;\necho <<<'EOS'\n$y\nEOS;")
	require.Len(t, file.Stmts, 2)

	heredoc, ok := file.Stmts[0].(*core.EchoStmt).Exprs[0].(*core.InterpolatedString)
	require.True(t, ok)
	require.Len(t, heredoc.Parts, 1)
	x := heredoc.Parts[0].(*core.Variable)
	assert.Equal(t, "x", x.Name)
	assert.Equal(t, 3, x.Line())

	assert.IsType(t, &core.StringLit{}, file.Stmts[1].(*core.EchoStmt).Exprs[0])
}

func TestParse_Lines(t *testing.T) {
	file := parse(t, "echo 1;\n\nfoo();")
	require.Len(t, file.Stmts, 2)
	assert.Equal(t, 1, file.Stmts[0].Pos().Line)
	assert.Equal(t, 3, file.Stmts[1].Pos().Line)
}
