// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/psyrepl/internal/cli/config"
	"github.com/leapstack-labs/psyrepl/internal/cli/output"
	"github.com/spf13/cobra"
)

// SetupTestConfig isolates the test from the user's configuration and
// loads yamlContent as ./psyrepl.yaml. An empty yamlContent loads the
// defaults. It returns the working directory.
func SetupTestConfig(t *testing.T, yamlContent string) string {
	t.Helper()

	dir := IsolateConfig(t)
	if yamlContent != "" {
		path := filepath.Join(dir, "psyrepl.yaml")
		if err := os.WriteFile(path, []byte(yamlContent), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
	}

	if _, err := config.LoadConfig("", nil); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	return dir
}

// IsolateConfig resets loaded configuration and points the user config
// directory and working directory at a fresh temp dir.
func IsolateConfig(t *testing.T) string {
	t.Helper()

	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, ".config"))
	t.Chdir(dir)
	return dir
}

// TestRenderer wraps a Renderer writing to buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a renderer without colors.
func NewTestRenderer() *TestRenderer {
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	return &TestRenderer{
		Renderer: output.NewRenderer(out, errOut, output.ColorNever),
		Out:      out,
		ErrOut:   errOut,
	}
}

// Output returns the captured standard output.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the captured error output.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// Result is the captured outcome of a command run.
type Result struct {
	Out    string
	ErrOut string
	Err    error
}

// ExecuteCommand runs cmd with args, feeding stdin, and captures its
// output. Usage and error printing are silenced as they are under the
// root command.
func ExecuteCommand(t *testing.T, cmd *cobra.Command, stdin string, args ...string) Result {
	t.Helper()

	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetIn(io.NopCloser(strings.NewReader(stdin)))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return Result{Out: out.String(), ErrOut: errOut.String(), Err: err}
}

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// AssertNoANSI fails if s contains ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiRegex.MatchString(s) {
		t.Errorf("output contains ANSI codes: %q", s)
	}
}

// WriteFile writes content to name under dir and returns the path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
