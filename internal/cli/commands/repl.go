package commands

import (
	"fmt"

	"github.com/leapstack-labs/psyrepl/internal/cli/output"
	"github.com/leapstack-labs/psyrepl/internal/shell"
	"github.com/leapstack-labs/psyrepl/pkg/cleaner"
	"github.com/spf13/cobra"
)

// ReplOptions holds options for the repl command.
type ReplOptions struct {
	Exec []string // Lines to run before reading input
}

// NewReplCommand creates the repl command.
func NewReplCommand(version string) *cobra.Command {
	opts := &ReplOptions{}
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive PHP shell",
		Long: `Start an interactive PHP shell.

Each line is added to a buffer that is cleaned before it runs: the code is
parsed, checked for mistakes that would crash the session, given an
implicit return and wrapped in the current namespace. Incomplete input
keeps buffering under the continuation prompt.

When input is not a terminal, lines are read without prompts, which lets
the shell run scripts from a pipe.`,
		Example: `  # Start the shell
  psyrepl repl

  # Start inside a namespace
  psyrepl repl --namespace 'App\Models'

  # Run piped input
  echo '$a = 1 + 2' | psyrepl repl --evaluator print`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRepl(cmd, version, opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Exec, "exec", "e", nil, "Run a line before reading input (repeatable)")

	return cmd
}

func runRepl(cmd *cobra.Command, version string, opts *ReplOptions) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	eval, err := cmdCtx.NewEvaluator()
	if err != nil {
		return err
	}

	store, err := cmdCtx.OpenJournal()
	if err != nil {
		return err
	}
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	sh := shell.New(shell.Config{
		Cleaner:      cmdCtx.NewCleaner(),
		Resolver:     cmdCtx.NewResolver(),
		Namespace:    cleaner.ParseNamespace(cfg.Namespace),
		Evaluator:    eval,
		Journal:      store,
		Renderer:     r,
		Prompt:       cfg.Prompt,
		BufferPrompt: cfg.BufferPrompt,
		Logger:       cmdCtx.Logger,
	})
	sh.AddInput(opts.Exec...)

	var reader shell.LineReader
	if output.IsTerminal(cmd.InOrStdin()) && output.IsTerminal(cmd.OutOrStdout()) {
		reader, err = shell.NewReadline(shell.ReaderConfig{
			Prompt:      sh.Prompt(),
			HistoryFile: cfg.HistoryFile,
			Completer:   sh.Completer(),
		})
		if err != nil {
			return fmt.Errorf("failed to start line editor: %w", err)
		}
		printBanner(r, version, cfg.Evaluator)
	} else {
		reader = shell.NewScanReader(cmd.InOrStdin())
	}
	defer func() { _ = reader.Close() }()

	return sh.Run(cmd.Context(), reader)
}

func printBanner(r *output.Renderer, version, evaluatorName string) {
	styles := r.Styles()
	r.Println(styles.Header1.Render("psyrepl v" + version))
	r.Println(styles.Muted.Render(fmt.Sprintf("Evaluator: %s. Type 'help' for commands, 'exit' to quit.", evaluatorName)))
}
