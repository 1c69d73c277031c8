package shell

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/psyrepl/internal/cli/output"
	"github.com/leapstack-labs/psyrepl/internal/evaluator"
	"github.com/leapstack-labs/psyrepl/internal/journal"
	"github.com/leapstack-labs/psyrepl/internal/scope"
	"github.com/leapstack-labs/psyrepl/internal/symbols"
	"github.com/leapstack-labs/psyrepl/internal/testutil"
	"github.com/leapstack-labs/psyrepl/pkg/cleaner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEvaluator records executed code and answers with fn, or returns the
// variables unchanged.
type fakeEvaluator struct {
	codes []string
	fn    func(code string, vars []scope.Variable) (*evaluator.Result, error)
}

func (f *fakeEvaluator) Evaluate(_ context.Context, code string, vars []scope.Variable) (*evaluator.Result, error) {
	f.codes = append(f.codes, code)
	if f.fn != nil {
		return f.fn(code, vars)
	}
	return &evaluator.Result{Vars: vars}, nil
}

// scriptReader replays lines; "^C" simulates an interrupt.
type scriptReader struct {
	lines   []string
	prompts []string
}

func (r *scriptReader) Readline() (string, error) {
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	if line == "^C" {
		return "", readline.ErrInterrupt
	}
	return line, nil
}

func (r *scriptReader) SetPrompt(prompt string) { r.prompts = append(r.prompts, prompt) }

func (r *scriptReader) Close() error { return nil }

func newTestShell(t *testing.T, eval evaluator.Evaluator) (*Shell, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	s := New(Config{
		Resolver:  symbols.Builtins(),
		Evaluator: eval,
		Renderer:  output.NewRenderer(&out, &out, output.ColorNever),
		Logger:    testutil.NewTestLogger(t),
	})
	return s, &out
}

func TestShell_ExecutesReadyCode(t *testing.T) {
	eval := &fakeEvaluator{fn: func(_ string, _ []scope.Variable) (*evaluator.Result, error) {
		return &evaluator.Result{
			Value: json.Number("1"),
			Vars:  []scope.Variable{{Name: "a", Value: json.Number("1")}, {Name: "__psysh__", Value: true}},
		}, nil
	}}
	s, out := newTestShell(t, eval)

	require.NoError(t, s.HandleLine(context.Background(), "$a = 1"))

	assert.Equal(t, []string{"return $a = 1;"}, eval.codes)
	assert.Equal(t, "=> 1\n", out.String())
	assert.Equal(t, []string{"a"}, s.Scope().Names())
	assert.Equal(t, cleaner.StateEmpty, s.Controller().State())
}

func TestShell_PassesScopeToEvaluator(t *testing.T) {
	var seen []scope.Variable
	eval := &fakeEvaluator{fn: func(_ string, vars []scope.Variable) (*evaluator.Result, error) {
		seen = vars
		return &evaluator.Result{Vars: vars}, nil
	}}
	s, _ := newTestShell(t, eval)
	s.Scope().Set("x", 42)

	require.NoError(t, s.HandleLine(context.Background(), "$x"))
	assert.Equal(t, []scope.Variable{{Name: "x", Value: 42}}, seen)
}

func TestShell_MultiLineBuffer(t *testing.T) {
	eval := &fakeEvaluator{}
	s, _ := newTestShell(t, eval)
	ctx := context.Background()

	assert.Equal(t, DefaultPrompt, s.Prompt())
	require.NoError(t, s.HandleLine(ctx, "if (1) {"))
	assert.Equal(t, DefaultBufferPrompt, s.Prompt())
	assert.Empty(t, eval.codes)

	require.NoError(t, s.HandleLine(ctx, ""))
	assert.Equal(t, []string{"if (1) {", ""}, s.Controller().Buffer(), "blank lines are kept inside a buffer")

	require.NoError(t, s.HandleLine(ctx, "}"))
	assert.Equal(t, []string{"if (1) {\n}"}, eval.codes)
	assert.Equal(t, DefaultPrompt, s.Prompt())
}

func TestShell_SkipsEmptyLines(t *testing.T) {
	eval := &fakeEvaluator{}
	s, out := newTestShell(t, eval)

	require.NoError(t, s.HandleLine(context.Background(), "   "))
	assert.Empty(t, eval.codes)
	assert.Empty(t, out.String())
	assert.Equal(t, cleaner.StateEmpty, s.Controller().State())
}

func TestShell_RejectedInput(t *testing.T) {
	eval := &fakeEvaluator{}
	s, out := newTestShell(t, eval)

	require.NoError(t, s.HandleLine(context.Background(), "echo }"))

	assert.Empty(t, eval.codes)
	assert.Contains(t, out.String(), "PHP Parse error")
	assert.Equal(t, 1, s.Exceptions().Len())
	assert.True(t, cleaner.IsKind(s.Exceptions().Last(), cleaner.ParseErrorKind))
	assert.Equal(t, cleaner.StateEmpty, s.Controller().State())
}

func TestShell_FatalPrevented(t *testing.T) {
	eval := &fakeEvaluator{}
	s, out := newTestShell(t, eval)

	require.NoError(t, s.HandleLine(context.Background(), "no_such_function()"))

	assert.Empty(t, eval.codes)
	assert.Contains(t, out.String(), "PHP Fatal error: Call to undefined function no_such_function()")
}

func TestShell_ExecutionErrors(t *testing.T) {
	tests := []struct {
		name     string
		result   *evaluator.Result
		err      error
		expected string
	}{
		{
			name:     "exception",
			err:      &evaluator.ExecError{Class: "Exception", Message: "boom", Line: 1},
			expected: "Exception: boom on line 1\n",
		},
		{
			name:     "warning keeps output",
			result:   &evaluator.Result{Output: "partial"},
			err:      &evaluator.Warning{Message: "Undefined variable $b", Line: 1},
			expected: "partial\nPHP Warning:  Undefined variable $b on line 1\n",
		},
		{
			name:     "wrapped failure",
			err:      errors.New("failed to run php: exit status 255"),
			expected: "failed to run php: exit status 255\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval := &fakeEvaluator{fn: func(string, []scope.Variable) (*evaluator.Result, error) {
				return tt.result, tt.err
			}}
			s, out := newTestShell(t, eval)

			require.NoError(t, s.HandleLine(context.Background(), "strlen('a');"))

			assert.Equal(t, tt.expected, out.String())
			assert.Equal(t, 1, s.Exceptions().Len())
			assert.Same(t, tt.err, s.Exceptions().Last())
			assert.Equal(t, cleaner.StateEmpty, s.Controller().State())
		})
	}
}

func TestShell_NoValueEvaluator(t *testing.T) {
	s, out := newTestShell(t, evaluator.NewPrint())

	require.NoError(t, s.HandleLine(context.Background(), "1 + 1"))
	assert.Equal(t, "return 1 + 1;\n", out.String())
}

func TestShell_Run(t *testing.T) {
	eval := &fakeEvaluator{fn: func(string, []scope.Variable) (*evaluator.Result, error) {
		return &evaluator.Result{Value: json.Number("2")}, nil
	}}
	s, out := newTestShell(t, eval)
	reader := &scriptReader{lines: []string{"if (1) {", "^C", "1 + 1", "exit", "never read"}}

	require.NoError(t, s.Run(context.Background(), reader))

	assert.Equal(t, []string{"return 1 + 1;"}, eval.codes)
	assert.Equal(t, "=> 2\nGoodbye.\n", out.String())
	assert.Equal(t, []string{">>> ", "... ", ">>> ", ">>> "}, reader.prompts)
	assert.Equal(t, []string{"never read"}, reader.lines)
}

func TestShell_RunEndsOnEOF(t *testing.T) {
	s, _ := newTestShell(t, &fakeEvaluator{})
	assert.NoError(t, s.Run(context.Background(), &scriptReader{}))
}

func TestShell_RunCancelled(t *testing.T) {
	s, _ := newTestShell(t, &fakeEvaluator{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Run(ctx, &scriptReader{lines: []string{"1"}}), context.Canceled)
}

func TestShell_AddInputReplays(t *testing.T) {
	eval := &fakeEvaluator{fn: func(string, []scope.Variable) (*evaluator.Result, error) {
		return &evaluator.Result{Value: "hi"}, nil
	}}
	s, out := newTestShell(t, eval)
	s.AddInput("'hi'")

	require.NoError(t, s.Run(context.Background(), &scriptReader{}))

	assert.Equal(t, "--> 'hi'\n=> \"hi\"\n", out.String())
}

func TestShell_Journal(t *testing.T) {
	ctx := context.Background()
	store := journal.NewStore(testutil.NewTestLogger(t))
	require.NoError(t, store.Open(":memory:"))
	defer func() { _ = store.Close() }()

	var out bytes.Buffer
	s := New(Config{
		Resolver:  symbols.Builtins(),
		Namespace: []string{"App"},
		Evaluator: &fakeEvaluator{},
		Journal:   store,
		Renderer:  output.NewRenderer(&out, &out, output.ColorNever),
	})
	reader := &scriptReader{lines: []string{"$a = [", "1]", "echo }", "strlen('x')"}}
	require.NoError(t, s.Run(ctx, reader))

	sessions, err := store.ListSessions(ctx, 0)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "App", sessions[0].Namespace)
	assert.Equal(t, 2, sessions[0].Entries)
	assert.Equal(t, 1, sessions[0].Failures)
	assert.NotNil(t, sessions[0].EndedAt)

	entries, err := store.ListEntries(ctx, sessions[0].ID, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "$a = [\n1]", entries[0].Input)
	assert.Equal(t, "null", entries[0].Value)

	failures, err := store.ListFailures(ctx, sessions[0].ID)
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, "echo }", failures[0].Input)
	assert.Equal(t, cleaner.ParseErrorKind.String(), failures[0].Kind)
}

func TestExceptionLog(t *testing.T) {
	var log ExceptionLog
	assert.Nil(t, log.Last())
	assert.Equal(t, 0, log.Len())

	first, second := errors.New("first"), errors.New("second")
	log.Append(first)
	log.Append(nil)
	log.Append(second)

	assert.Equal(t, 2, log.Len())
	assert.Same(t, second, log.Last())

	all := log.All()
	assert.Equal(t, []error{first, second}, all)
	all[0] = nil
	assert.Same(t, first, log.All()[0], "All returns a copy")
}

func TestCompleter(t *testing.T) {
	s, _ := newTestShell(t, &fakeEvaluator{})
	s.Scope().Set("apple", 1)
	s.Scope().Set("apricot", 2)
	s.Scope().Set("banana", 3)
	c := s.Completer()

	tests := []struct {
		name       string
		line       string
		wantSuffix []string
		wantLength int
	}{
		{"variable", "echo $ap", []string{"ple", "ricot"}, 3},
		{"all variables", "$", []string{"apple", "apricot", "banana"}, 1},
		{"command at start", "bu", []string{"f", "ffer"}, 2},
		{"command after spaces", "  ex", []string{"it"}, 2},
		{"no completion mid-line", "echo ex", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := []rune(tt.line)
			got, length := c.Do(line, len(line))
			var suffixes []string
			for _, g := range got {
				suffixes = append(suffixes, string(g))
			}
			assert.Equal(t, tt.wantSuffix, suffixes)
			assert.Equal(t, tt.wantLength, length)
		})
	}
}

func TestScanReader(t *testing.T) {
	r := NewScanReader(bytes.NewBufferString("a\nb\n"))
	r.SetPrompt(">>> ")

	line, err := r.Readline()
	require.NoError(t, err)
	assert.Equal(t, "a", line)

	line, err = r.Readline()
	require.NoError(t, err)
	assert.Equal(t, "b", line)

	_, err = r.Readline()
	assert.ErrorIs(t, err, io.EOF)
	assert.NoError(t, r.Close())
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{"null", nil, "null"},
		{"bool", true, "true"},
		{"number", json.Number("1.5"), "1.5"},
		{"string", "<b>", `"<b>"`},
		{"list", []any{json.Number("1"), "a"}, "[\n  1,\n  \"a\"\n]"},
		{"map", map[string]any{"k": nil}, "{\n  \"k\": null\n}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatValue(tt.value))
		})
	}
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "int", typeName(json.Number("3")))
	assert.Equal(t, "float", typeName(json.Number("3.0")))
	assert.Equal(t, "array", typeName(map[string]any{}))
	assert.Equal(t, "null", typeName(nil))
	assert.Equal(t, "string", typeName("s"))
}
