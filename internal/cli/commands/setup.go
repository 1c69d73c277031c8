package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/psyrepl/internal/cli/config"
	"github.com/leapstack-labs/psyrepl/internal/cli/output"
	"github.com/leapstack-labs/psyrepl/internal/evaluator"
	"github.com/leapstack-labs/psyrepl/internal/journal"
	"github.com/leapstack-labs/psyrepl/internal/symbols"
	"github.com/leapstack-labs/psyrepl/pkg/cleaner"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the loaded configuration.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.ColorMode(cfg.Color)),
	}
}

// getConfig returns the current configuration, or the defaults when none
// was loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}

// NewResolver returns the callables known outside the buffer: PHP's
// built-ins plus the configured extra functions.
func (c *CommandContext) NewResolver() *symbols.Table {
	table := symbols.Builtins()
	table.Add(c.Cfg.Functions...)
	return table
}

// NewCleaner returns a cleaner honouring the disabled rules.
func (c *CommandContext) NewCleaner() *cleaner.Cleaner {
	return cleaner.New(cleaner.Config{
		DisabledRules: c.Cfg.DisabledRules,
		Logger:        c.Logger,
	})
}

// NewEvaluator returns the configured evaluator.
func (c *CommandContext) NewEvaluator() (evaluator.Evaluator, error) {
	return evaluator.New(evaluator.Config{
		Name:    c.Cfg.Evaluator,
		Binary:  c.Cfg.PHP.Binary,
		Timeout: c.Cfg.PHP.Timeout,
		Logger:  c.Logger,
	})
}

// OpenJournal opens the journal database, creating its directory. It
// returns nil when the journal is disabled.
func (c *CommandContext) OpenJournal() (*journal.Store, error) {
	path := c.Cfg.Journal.Path
	if path == "" {
		return nil, nil
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" && path != ":memory:" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
	}

	store := journal.NewStore(c.Logger)
	if err := store.Open(path); err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	return store, nil
}
