package shell

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chzyer/readline"
)

// LineReader reads one line of input at a time.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
	Close() error
}

// ReaderConfig configures an interactive reader.
type ReaderConfig struct {
	Prompt      string
	HistoryFile string
	Completer   readline.AutoCompleter
	Stdin       io.ReadCloser
	Stdout      io.Writer
}

// NewReadline creates a line-editing reader with history and completion.
func NewReadline(cfg ReaderConfig) (LineReader, error) {
	if cfg.HistoryFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.HistoryFile), 0750); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          cfg.Prompt,
		HistoryFile:     cfg.HistoryFile,
		AutoComplete:    cfg.Completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdin:           cfg.Stdin,
		Stdout:          cfg.Stdout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize readline: %w", err)
	}
	return rl, nil
}

// scanReader reads lines from a non-interactive input without prompting.
type scanReader struct {
	scanner *bufio.Scanner
}

// NewScanReader creates a reader for piped input. Prompts are not shown.
func NewScanReader(r io.Reader) LineReader {
	sr := &scanReader{scanner: bufio.NewScanner(r)}
	sr.scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return sr
}

func (r *scanReader) Readline() (string, error) {
	if r.scanner.Scan() {
		return r.scanner.Text(), nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (r *scanReader) SetPrompt(string) {}

// Close is a no-op; the underlying reader belongs to the caller.
func (r *scanReader) Close() error { return nil }
