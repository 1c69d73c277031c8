package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/leapstack-labs/psyrepl/internal/cli/output"
	"github.com/leapstack-labs/psyrepl/internal/journal"
	"github.com/spf13/cobra"
)

// JournalOptions holds options for the journal command.
type JournalOptions struct {
	Session string // Show one session
	Limit   int    // Maximum rows
	Format  string // Output format: text, json
}

// NewJournalCommand creates the journal command.
func NewJournalCommand() *cobra.Command {
	opts := &JournalOptions{}
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Show recorded shell sessions",
		Long: `Show the sessions, executions and rejected buffers recorded in the
journal database.

Without --session the most recent sessions are listed. With --session the
executions and failures of that session are shown.`,
		Example: `  # List recent sessions
  psyrepl journal

  # Show one session
  psyrepl journal --session 3f2a...

  # Output as JSON
  psyrepl journal --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runJournal(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Session, "session", "s", "", "Show the entries of one session")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "l", 20, "Maximum number of rows (0 for all)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "text", "Output format: text, json")

	return cmd
}

// SessionDetail is the JSON output for a single session.
type SessionDetail struct {
	Entries  []journal.Entry   `json:"entries"`
	Failures []journal.Failure `json:"failures"`
}

func runJournal(cmd *cobra.Command, opts *JournalOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	if opts.Format != "text" && opts.Format != "json" {
		return fmt.Errorf("unknown format %q", opts.Format)
	}

	store, err := cmdCtx.OpenJournal()
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("journal is disabled; set journal.path to enable it")
	}
	defer func() { _ = store.Close() }()

	ctx := cmd.Context()
	if opts.Session == "" {
		sessions, err := store.ListSessions(ctx, opts.Limit)
		if err != nil {
			return err
		}
		if opts.Format == "json" {
			return r.JSON(sessions)
		}
		renderSessions(r, sessions)
		return nil
	}

	entries, err := store.ListEntries(ctx, opts.Session, opts.Limit)
	if err != nil {
		return err
	}
	failures, err := store.ListFailures(ctx, opts.Session)
	if err != nil {
		return err
	}
	if len(entries) == 0 && len(failures) == 0 {
		return fmt.Errorf("%w: %s", journal.ErrSessionNotFound, opts.Session)
	}
	if opts.Format == "json" {
		return r.JSON(SessionDetail{Entries: entries, Failures: failures})
	}
	renderSessionDetail(r, entries, failures)
	return nil
}

func renderSessions(r *output.Renderer, sessions []journal.Session) {
	if len(sessions) == 0 {
		r.Println(r.Styles().Muted.Render("No sessions recorded"))
		return
	}

	t := output.NewTable(r.Writer(), "ID", "Namespace", "Started", "Ended", "Entries", "Failures")
	for _, s := range sessions {
		ended := "-"
		if s.EndedAt != nil {
			ended = formatTime(*s.EndedAt)
		}
		ns := s.Namespace
		if ns == "" {
			ns = "(global)"
		}
		t.AppendRow([]any{s.ID, ns, formatTime(s.StartedAt), ended, s.Entries, s.Failures})
	}
	t.Render()
}

func renderSessionDetail(r *output.Renderer, entries []journal.Entry, failures []journal.Failure) {
	styles := r.Styles()

	r.Println(styles.Header2.Render(fmt.Sprintf("Executions (%d)", len(entries))))
	if len(entries) > 0 {
		t := output.NewTable(r.Writer(), "#", "Input", "Status", "Result")
		for _, e := range entries {
			result := e.Value
			if e.Status == journal.StatusError {
				result = e.Error
			}
			t.AppendRow([]any{e.Seq, oneLine(e.Input), e.Status, oneLine(result)})
		}
		t.Render()
	}

	if len(failures) > 0 {
		r.Println("")
		r.Println(styles.Header2.Render(fmt.Sprintf("Rejected (%d)", len(failures))))
		t := output.NewTable(r.Writer(), "Input", "Kind", "Message", "Line")
		for _, f := range failures {
			t.AppendRow([]any{oneLine(f.Input), f.Kind, f.Message, f.Line})
		}
		t.Render()
	}
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}

// oneLine collapses a multi-line buffer for table display.
func oneLine(s string) string {
	runes := []rune(strings.Join(strings.Fields(s), " "))
	if len(runes) > 60 {
		return string(runes[:57]) + "..."
	}
	return string(runes)
}
