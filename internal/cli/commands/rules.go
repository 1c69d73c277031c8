package commands

import (
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/psyrepl/internal/cli/output"
	"github.com/leapstack-labs/psyrepl/pkg/lint"
	"github.com/spf13/cobra"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Format string // Output format: text, json
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List the checks run on each buffer",
		Long: `List the checks the cleaner runs before code is executed.

Each rule rejects a buffer that would otherwise crash or corrupt the
session. Rules can be turned off with --disable or the disabled_rules
config key, by ID or by name.`,
		Example: `  # List all rules
  psyrepl rules

  # Show one rule
  psyrepl rules PS02
  psyrepl rules undefined-function

  # Output as JSON
  psyrepl rules --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showRule(cmd, args[0], opts)
			}
			return listRules(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "text", "Output format: text, json")

	return cmd
}

// RuleStatus is a rule with its enabled state.
type RuleStatus struct {
	lint.RuleInfo
	Enabled bool `json:"enabled"`
}

// RulesJSONOutput is the JSON output structure for rules listing.
type RulesJSONOutput struct {
	Rules []RuleStatus `json:"rules"`
	Count int          `json:"count"`
}

func ruleStatuses(disabled []string) []RuleStatus {
	cfg := lint.NewConfig().Disable(disabled...)
	rules := lint.AllRules()
	statuses := make([]RuleStatus, 0, len(rules))
	for _, rule := range rules {
		statuses = append(statuses, RuleStatus{
			RuleInfo: lint.GetRuleInfo(rule),
			Enabled:  !cfg.IsDisabled(rule.ID()),
		})
	}
	slices.SortFunc(statuses, func(a, b RuleStatus) int {
		return strings.Compare(a.ID, b.ID)
	})
	return statuses
}

func listRules(cmd *cobra.Command, opts *RulesOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer
	rules := ruleStatuses(cmdCtx.Cfg.DisabledRules)

	switch opts.Format {
	case "json":
		return r.JSON(RulesJSONOutput{Rules: rules, Count: len(rules)})
	case "text":
		listRulesText(r, rules)
		return nil
	default:
		return fmt.Errorf("unknown format %q", opts.Format)
	}
}

func showRule(cmd *cobra.Command, idOrName string, opts *RulesOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	var rule *RuleStatus
	for _, rs := range ruleStatuses(cmdCtx.Cfg.DisabledRules) {
		if rs.ID == idOrName || rs.Name == idOrName {
			rule = &rs
			break
		}
	}
	if rule == nil {
		return fmt.Errorf("rule %q not found", idOrName)
	}

	switch opts.Format {
	case "json":
		return r.JSON(rule)
	case "text":
		showRuleText(r, rule)
		return nil
	default:
		return fmt.Errorf("unknown format %q", opts.Format)
	}
}

// listRulesText outputs rules in styled text format.
func listRulesText(r *output.Renderer, rules []RuleStatus) {
	styles := r.Styles()

	r.Println(styles.Header1.Render(fmt.Sprintf("Lint Rules (%d)", len(rules))))
	r.Println("")
	for _, rule := range rules {
		r.Printf("  %s  %s - %s\n",
			styles.Muted.Render(rule.ID),
			rule.Name,
			enabledLabel(styles, rule.Enabled),
		)
		r.Println(styles.Muted.Render("      " + rule.Description))
	}
	r.Println("")
	r.Println(styles.Muted.Render("Use 'psyrepl rules <rule-id>' for a single rule"))
}

// showRuleText displays one rule in text format.
func showRuleText(r *output.Renderer, rule *RuleStatus) {
	styles := r.Styles()

	r.Println(styles.Header1.Render(fmt.Sprintf("%s - %s", rule.ID, rule.Name)))
	r.Println("")
	r.Printf("  %s: %s\n", styles.Bold.Render("Status"), enabledLabel(styles, rule.Enabled))
	r.Println("")
	r.Println(styles.Bold.Render("Description"))
	r.Println("  " + rule.Description)
}

func enabledLabel(styles *output.Styles, enabled bool) string {
	if enabled {
		return styles.Success.Render("enabled")
	}
	return styles.Warning.Render("disabled")
}
