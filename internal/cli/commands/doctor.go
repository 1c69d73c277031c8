package commands

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/psyrepl/internal/cli/config"
	"github.com/leapstack-labs/psyrepl/internal/cli/output"
	"github.com/leapstack-labs/psyrepl/internal/evaluator"
	"github.com/spf13/cobra"
)

// Check statuses.
const (
	StatusPass  = "pass"
	StatusWarn  = "warn"
	StatusError = "error"
)

// DoctorOptions holds options for the doctor command.
type DoctorOptions struct {
	Format string // Output format: text, json
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	opts := &DoctorOptions{}
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the shell's environment",
		Long: `Check that everything the shell relies on is in place:

- Configuration file and effective settings
- Evaluator selection and the PHP binary
- Journal database and its schema version
- History file location
- Known function symbols`,
		Example: `  # Run the checks
  psyrepl doctor

  # Output as JSON
  psyrepl doctor --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "text", "Output format: text, json")

	return cmd
}

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	Checks     []HealthCheck `json:"checks"`
	Score      int           `json:"score"`
	IssueCount int           `json:"issue_count"`
}

// HealthCheck represents a single check result.
type HealthCheck struct {
	Group   string `json:"group"`
	Name    string `json:"name"`
	Status  string `json:"status"`
	Details string `json:"details,omitempty"`
}

func runDoctor(cmd *cobra.Command, opts *DoctorOptions) error {
	if opts.Format != "text" && opts.Format != "json" {
		return fmt.Errorf("unknown format %q", opts.Format)
	}

	cmdCtx := NewCommandContext(cmd)
	checks := []HealthCheck{checkConfigFile()}
	checks = append(checks, checkEvaluator(cmdCtx.Cfg))
	checks = append(checks, checkJournal(cmdCtx))
	checks = append(checks, checkHistory(cmdCtx.Cfg))
	checks = append(checks, checkSymbols(cmdCtx))

	out := buildDoctorOutput(checks)
	if opts.Format == "json" {
		return cmdCtx.Renderer.JSON(out)
	}
	renderDoctorText(cmdCtx.Renderer, out)
	return nil
}

func buildDoctorOutput(checks []HealthCheck) *DoctorOutput {
	issues := 0
	for _, check := range checks {
		if check.Status != StatusPass {
			issues++
		}
	}
	return &DoctorOutput{
		Checks:     checks,
		Score:      calculateHealthScore(checks),
		IssueCount: issues,
	}
}

// calculateHealthScore computes a score from 0-100. Errors cost twice as
// much as warnings.
func calculateHealthScore(checks []HealthCheck) int {
	score := 100
	for _, check := range checks {
		switch check.Status {
		case StatusError:
			score -= 30
		case StatusWarn:
			score -= 15
		}
	}
	return max(score, 0)
}

func checkConfigFile() HealthCheck {
	check := HealthCheck{Group: "configuration", Name: "config file", Status: StatusPass}
	if path := config.GetConfigFileUsed(); path != "" {
		check.Details = path
	} else {
		check.Details = "none found, using defaults"
	}
	return check
}

func checkEvaluator(cfg *config.Config) HealthCheck {
	check := HealthCheck{Group: "evaluator", Name: cfg.Evaluator, Status: StatusPass}
	if cfg.Evaluator == evaluator.NamePrint {
		check.Details = "code is printed, not run"
		return check
	}

	path, err := exec.LookPath(cfg.PHP.Binary)
	switch {
	case err == nil:
		check.Details = path
	case cfg.Evaluator == evaluator.NamePHP:
		check.Status = StatusError
		check.Details = fmt.Sprintf("php binary %q not found", cfg.PHP.Binary)
	default:
		check.Status = StatusWarn
		check.Details = fmt.Sprintf("php binary %q not found, code will be printed", cfg.PHP.Binary)
	}
	return check
}

func checkJournal(cmdCtx *CommandContext) HealthCheck {
	check := HealthCheck{Group: "journal", Name: "database", Status: StatusPass}
	store, err := cmdCtx.OpenJournal()
	if err != nil {
		check.Status = StatusError
		check.Details = err.Error()
		return check
	}
	if store == nil {
		check.Status = StatusWarn
		check.Details = "disabled"
		return check
	}
	defer func() { _ = store.Close() }()

	version, err := store.MigrationVersion()
	if err != nil {
		check.Status = StatusError
		check.Details = err.Error()
		return check
	}
	check.Details = fmt.Sprintf("%s (schema v%d)", cmdCtx.Cfg.Journal.Path, version)
	return check
}

func checkHistory(cfg *config.Config) HealthCheck {
	check := HealthCheck{Group: "history", Name: "history file", Status: StatusPass}
	if cfg.HistoryFile == "" {
		check.Status = StatusWarn
		check.Details = "disabled"
		return check
	}

	dir := filepath.Dir(cfg.HistoryFile)
	info, err := os.Stat(dir)
	switch {
	case err == nil && info.IsDir():
		check.Details = cfg.HistoryFile
	case err == nil:
		check.Status = StatusError
		check.Details = dir + " is not a directory"
	case os.IsNotExist(err):
		check.Details = cfg.HistoryFile + " (directory will be created)"
	default:
		check.Status = StatusError
		check.Details = err.Error()
	}
	return check
}

func checkSymbols(cmdCtx *CommandContext) HealthCheck {
	resolver := cmdCtx.NewResolver()
	check := HealthCheck{
		Group:   "symbols",
		Name:    "known functions",
		Status:  StatusPass,
		Details: fmt.Sprintf("%d functions", resolver.Len()),
	}
	if len(cmdCtx.Cfg.Functions) > 0 {
		check.Details += fmt.Sprintf(", %d configured", len(cmdCtx.Cfg.Functions))
	}
	return check
}

func renderDoctorText(r *output.Renderer, out *DoctorOutput) {
	styles := r.Styles()

	r.Println(styles.Header1.Render("psyrepl Health Report"))
	r.Println(styles.Muted.Render(strings.Repeat("=", 40)))

	checks := slices.Clone(out.Checks)
	slices.SortStableFunc(checks, func(a, b HealthCheck) int {
		return strings.Compare(a.Group, b.Group)
	})

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range checks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println("")
			r.Println(styles.Bold.Render("   " + titleCaser.String(currentGroup)))
		}

		icon := styles.StatusSuccess.String()
		switch check.Status {
		case StatusWarn:
			icon = styles.Warning.Render("!")
		case StatusError:
			icon = styles.StatusFailed.String()
		}

		line := fmt.Sprintf("   %s %s", icon, check.Name)
		if check.Details != "" {
			line += styles.Muted.Render(": " + check.Details)
		}
		r.Println(line)
	}
	r.Println("")

	r.Println(styles.Muted.Render(strings.Repeat("=", 40)))
	scoreStyle := styles.Success
	if out.Score < 70 {
		scoreStyle = styles.Warning
	}
	if out.Score < 50 {
		scoreStyle = styles.Error
	}
	r.Printf("   Health Score: %s\n", scoreStyle.Render(fmt.Sprintf("%d/100", out.Score)))
}
