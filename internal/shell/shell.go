// Package shell runs the interactive read-clean-execute loop.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/psyrepl/internal/cli/output"
	"github.com/leapstack-labs/psyrepl/internal/evaluator"
	"github.com/leapstack-labs/psyrepl/internal/journal"
	"github.com/leapstack-labs/psyrepl/internal/scope"
	"github.com/leapstack-labs/psyrepl/pkg/cleaner"
	"github.com/spf13/cobra"
)

// ErrExit is returned by HandleLine when the user asked to leave.
var ErrExit = errors.New("exit")

// Default prompts.
const (
	DefaultPrompt       = ">>> "
	DefaultBufferPrompt = "... "
	ReplayPrompt        = "--> "
	ReturnMarker        = "=> "
)

// Config holds shell configuration.
type Config struct {
	// Cleaner runs the cleaning pipeline (optional, uses the default if nil)
	Cleaner *cleaner.Cleaner
	// Resolver knows the callables of the execution environment
	Resolver cleaner.Resolver
	// Namespace is the initial namespace path
	Namespace []string
	// Evaluator executes cleaned code
	Evaluator evaluator.Evaluator
	// Journal records executions (optional)
	Journal *journal.Store
	// Renderer writes styled output (optional, plain stdout/stderr if nil)
	Renderer *output.Renderer
	// Prompt and BufferPrompt override the default prompts
	Prompt       string
	BufferPrompt string
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Shell is an interactive session.
type Shell struct {
	controller   *cleaner.Controller
	evaluator    evaluator.Evaluator
	journal      *journal.Store
	session      *journal.Session
	renderer     *output.Renderer
	scope        *scope.Variables
	exceptions   *ExceptionLog
	queue        []string
	prompt       string
	bufferPrompt string
	logger       *slog.Logger
}

// New creates a shell. A nil evaluator prints cleaned code instead of
// running it.
func New(cfg Config) *Shell {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	renderer := cfg.Renderer
	if renderer == nil {
		renderer = output.NewRenderer(io.Discard, io.Discard, output.ColorNever)
	}
	eval := cfg.Evaluator
	if eval == nil {
		eval = evaluator.NewPrint()
	}

	s := &Shell{
		controller: cleaner.NewController(cleaner.ControllerConfig{
			Cleaner:   cfg.Cleaner,
			Resolver:  cfg.Resolver,
			Namespace: cfg.Namespace,
		}),
		evaluator:    eval,
		journal:      cfg.Journal,
		renderer:     renderer,
		scope:        scope.New(),
		exceptions:   &ExceptionLog{},
		prompt:       cfg.Prompt,
		bufferPrompt: cfg.BufferPrompt,
		logger:       logger,
	}
	if s.prompt == "" {
		s.prompt = DefaultPrompt
	}
	if s.bufferPrompt == "" {
		s.bufferPrompt = DefaultBufferPrompt
	}
	return s
}

// Controller returns the loop controller.
func (s *Shell) Controller() *cleaner.Controller { return s.controller }

// Scope returns the scope variables.
func (s *Shell) Scope() *scope.Variables { return s.scope }

// Exceptions returns the exception log.
func (s *Shell) Exceptions() *ExceptionLog { return s.exceptions }

// Commands returns a fresh meta-command tree, e.g. for generating help.
func (s *Shell) Commands() *cobra.Command { return s.newCommands() }

// Completer returns a readline completer for this shell.
func (s *Shell) Completer() readline.AutoCompleter {
	return &completer{shell: s}
}

// AddInput queues lines that are handled before reading new input.
func (s *Shell) AddInput(lines ...string) {
	s.queue = append(s.queue, lines...)
}

// Prompt returns the prompt for the next line.
func (s *Shell) Prompt() string {
	if s.controller.State() == cleaner.StateBuffering {
		return s.bufferPrompt
	}
	return s.prompt
}

// Run reads and handles lines until end of input or exit. Ctrl-C discards
// the current buffer.
func (s *Shell) Run(ctx context.Context, reader LineReader) error {
	s.startSession(ctx)
	defer s.endSession(ctx)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var line string
		if len(s.queue) > 0 {
			line, s.queue = s.queue[0], s.queue[1:]
			_, _ = fmt.Fprintln(s.renderer.Writer(), ReplayPrompt+line)
		} else {
			reader.SetPrompt(s.Prompt())
			var err error
			line, err = reader.Readline()
			if errors.Is(err, readline.ErrInterrupt) {
				s.controller.Reset()
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
		}

		if err := s.HandleLine(ctx, line); err != nil {
			if errors.Is(err, ErrExit) {
				return nil
			}
			return err
		}
	}
}

// HandleLine dispatches a meta-command or feeds the line to the controller
// and executes the buffer once it is ready. It returns ErrExit when the
// loop should end; execution failures are reported, not returned.
func (s *Shell) HandleLine(ctx context.Context, line string) error {
	if strings.TrimSpace(line) == "" && s.controller.State() == cleaner.StateEmpty {
		return nil
	}
	if args := strings.Fields(line); len(args) > 0 && s.isCommand(args[0]) {
		return s.runCommand(ctx, args)
	}

	input := strings.Join(append(s.controller.Buffer(), line), "\n")
	outcome := s.controller.AddLine(line)
	if outcome.Err != nil {
		s.logger.Debug("line refused", slog.String("error", outcome.Err.Error()))
	}

	switch outcome.State {
	case cleaner.StateReady:
		return s.execute(ctx, input, outcome.Code())
	case cleaner.StateRejected:
		s.reject(ctx, input, outcome.Result.Err)
	}
	return nil
}

func (s *Shell) execute(ctx context.Context, input, code string) error {
	defer s.controller.Complete()

	s.logger.Debug("executing", slog.String("code", code))
	result, err := s.evaluator.Evaluate(ctx, code, s.scope.All())

	entry := &journal.Entry{Input: input, Code: code, Status: journal.StatusOK}
	if result != nil {
		s.writeOutput(result.Output)
		s.scope.Replace(result.Vars)
		entry.Output = result.Output
	}

	if err != nil {
		s.writeException(err)
		s.exceptions.Append(err)
		entry.Status = journal.StatusError
		entry.Error = err.Error()
		s.recordEntry(ctx, entry)
		return nil
	}

	if result != nil && !result.NoValue {
		value := formatValue(result.Value)
		_, _ = fmt.Fprintln(s.renderer.Writer(), s.renderer.Styles().Return.Render(ReturnMarker)+value)
		entry.Value = value
	}
	s.recordEntry(ctx, entry)
	return nil
}

func (s *Shell) reject(ctx context.Context, input string, err *cleaner.Error) {
	s.writeException(err)
	s.exceptions.Append(err)

	if s.session == nil {
		return
	}
	failure := &journal.Failure{
		SessionID: s.session.ID,
		Input:     input,
		Kind:      err.Kind.String(),
		Message:   err.Message,
		Line:      err.Line,
	}
	if jerr := s.journal.RecordFailure(ctx, failure); jerr != nil {
		s.logger.Warn("failed to journal rejected input", slog.String("error", jerr.Error()))
	}
}

// writeOutput prints captured output, ending it with a line break.
func (s *Shell) writeOutput(out string) {
	if out == "" {
		return
	}
	w := s.renderer.Writer()
	_, _ = io.WriteString(w, out)
	if !strings.HasSuffix(out, "\n") {
		_, _ = io.WriteString(w, "\n")
	}
}

func (s *Shell) writeException(err error) {
	styles := s.renderer.Styles()
	style := styles.Error
	var warning *evaluator.Warning
	if errors.As(err, &warning) {
		style = styles.Warning
	}
	_, _ = fmt.Fprintln(s.renderer.ErrWriter(), style.Render(err.Error()))
}

func (s *Shell) startSession(ctx context.Context) {
	if s.journal == nil {
		return
	}
	session, err := s.journal.StartSession(ctx, s.controller.NamespaceString())
	if err != nil {
		s.logger.Warn("failed to start journal session", slog.String("error", err.Error()))
		return
	}
	s.session = session
}

func (s *Shell) endSession(ctx context.Context) {
	if s.session == nil {
		return
	}
	if err := s.journal.EndSession(context.WithoutCancel(ctx), s.session.ID); err != nil {
		s.logger.Warn("failed to end journal session", slog.String("error", err.Error()))
	}
	s.session = nil
}

func (s *Shell) recordEntry(ctx context.Context, entry *journal.Entry) {
	if s.session == nil {
		return
	}
	entry.SessionID = s.session.ID
	if err := s.journal.RecordEntry(ctx, entry); err != nil {
		s.logger.Warn("failed to journal entry", slog.String("error", err.Error()))
	}
}
