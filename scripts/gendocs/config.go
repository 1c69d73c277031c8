package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/psyrepl/internal/cli/config"
)

// ConfigField represents a configuration key.
type ConfigField struct {
	Name        string
	Type        string
	Default     string
	Flag        string
	Description string
}

// getConfigSchema returns the configuration keys.
// This is based on internal/cli/config/types.go.
func getConfigSchema() []ConfigField {
	return []ConfigField{
		{Name: "namespace", Type: "string", Flag: "--namespace", Description: `Namespace code runs in, e.g. App\Models`},
		{Name: "prompt", Type: "string", Default: config.DefaultPrompt, Description: "Prompt shown for a new buffer"},
		{Name: "buffer_prompt", Type: "string", Default: config.DefaultBufferPrompt, Description: "Prompt shown while a buffer is incomplete"},
		{Name: "history_file", Type: "string", Default: "<user config dir>/psyrepl/history", Flag: "--history", Description: "Line editor history file"},
		{Name: "evaluator", Type: "string", Default: config.DefaultEvaluator, Flag: "--evaluator", Description: "Evaluator: " + strings.Join(config.ValidEvaluators, ", ")},
		{Name: "php.binary", Type: "string", Default: config.DefaultPHPBinary, Flag: "--php", Description: "PHP binary used by the php evaluator"},
		{Name: "php.timeout", Type: "duration", Default: config.DefaultPHPTimeout.String(), Flag: "--php-timeout", Description: "Time limit for one evaluation"},
		{Name: "journal.path", Type: "string", Flag: "--journal", Description: "Journal database; empty disables the journal"},
		{Name: "functions", Type: "list", Flag: "--functions", Description: "Extra function names to treat as defined"},
		{Name: "disabled_rules", Type: "list", Flag: "--disable", Description: "Lint rules to skip, by ID or name"},
		{Name: "color", Type: "string", Default: config.DefaultColor, Flag: "--color", Description: "Color output: " + strings.Join(config.ValidColors, ", ")},
		{Name: "verbose", Type: "bool", Default: "false", Flag: "--verbose", Description: "Debug logging on stderr"},
	}
}

// envName returns the environment variable for a config key.
func envName(key string) string {
	return "PSYREPL_" + strings.ToUpper(strings.ReplaceAll(key, ".", "__"))
}

// generateConfigDocs generates the configuration reference page.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating config docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()
	w.Frontmatter("Configuration", "psyrepl configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph("psyrepl reads `psyrepl.yaml` (or `psyrepl.yml`) from the working directory, " +
		"falling back to `config.yaml` in the user config directory. `--config` names a file explicitly.")

	w.Header(2, "Keys")
	headers := []string{"Key", "Type", "Default", "Flag", "Description"}
	var rows [][]string
	for _, f := range getConfigSchema() {
		defVal := "-"
		if f.Default != "" {
			defVal = InlineCode(f.Default)
		}
		flagName := "-"
		if f.Flag != "" {
			flagName = InlineCode(f.Flag)
		}
		rows = append(rows, []string{InlineCode(f.Name), f.Type, defVal, flagName, f.Description})
	}
	w.Table(headers, rows)

	w.Header(2, "Precedence")
	w.BulletList([]string{
		"Command-line flags",
		"Environment variables (" + InlineCode(envName("php.timeout")) + " sets " + InlineCode("php.timeout") + ")",
		"Config file",
		"Defaults",
	})

	w.Header(2, "Example")
	w.CodeBlock("yaml", `# psyrepl.yaml
namespace: App
evaluator: php

php:
  binary: /usr/local/bin/php
  timeout: 10s

journal:
  path: .psyrepl/journal.db

functions:
  - app_helper
  - config

disabled_rules:
  - undefined-function`)

	return os.WriteFile(filepath.Join(outDir, "configuration.md"), w.Bytes(), 0600)
}
