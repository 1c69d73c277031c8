package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/psyrepl/pkg/lint"
)

// generateLintDocs generates the lint rule reference page.
func generateLintDocs(outDir string) error {
	log.Printf("Generating lint docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	rules := lint.AllRules()

	w := NewMarkdownWriter()
	w.Frontmatter("Lint Rules", "Checks run on every buffer before it is executed")
	w.GeneratedMarker()

	w.Header(1, "Lint Rules")
	w.Paragraph("Before a buffer runs, psyrepl checks it for mistakes that would end the PHP " +
		"process or corrupt the session. A buffer that fails a check is rejected and never executed.")
	w.Paragraph("Rules can be turned off with `--disable` or the `disabled_rules` key, by ID or by name.")

	headers := []string{"ID", "Name", "Description"}
	var rows [][]string
	for _, rule := range rules {
		rows = append(rows, []string{
			fmt.Sprintf("[%s](#%s)", rule.ID(), rule.ID()),
			InlineCode(rule.Name()),
			cleanDescription(rule.Description()),
		})
	}
	w.Table(headers, rows)

	for _, rule := range rules {
		writeRuleDoc(w, rule)
	}
	log.Printf("  Documented %d rules", len(rules))

	return os.WriteFile(filepath.Join(outDir, "lint-rules.md"), w.Bytes(), 0600)
}

// writeRuleDoc writes detailed documentation for a single rule.
func writeRuleDoc(w *MarkdownWriter, rule lint.Rule) {
	// Rule header with anchor: ## PS01 - protected-variable {#PS01}
	w.Line(fmt.Sprintf("## %s - %s {#%s}", rule.ID(), rule.Name(), rule.ID()))
	w.Newline()
	w.Paragraph(cleanDescription(rule.Description()) + ".")
	w.Line("---")
	w.Newline()
}
