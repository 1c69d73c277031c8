package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/psyrepl/internal/cli/output"
	"github.com/leapstack-labs/psyrepl/internal/scope"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// newCommands builds the meta-command tree. A fresh tree is built for every
// dispatch so flag values never leak between invocations.
func (s *Shell) newCommands() *cobra.Command {
	root := &cobra.Command{
		Use:           "shell",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(s.renderer.Writer())
	root.SetErr(s.renderer.ErrWriter())

	root.SetHelpCommand(s.newHelpCommand(root))
	root.AddCommand(
		s.newExitCommand(),
		s.newBufferCommand(),
		s.newWtfCommand(),
		s.newLsCommand(),
		s.newNamespaceCommand(),
	)
	root.InitDefaultHelpCmd()
	return root
}

// commandNames returns the names and aliases of every meta-command.
func (s *Shell) commandNames() []string {
	var names []string
	for _, cmd := range s.newCommands().Commands() {
		names = append(names, cmd.Name())
		names = append(names, cmd.Aliases...)
	}
	sort.Strings(names)
	return names
}

func (s *Shell) isCommand(word string) bool {
	for _, name := range s.commandNames() {
		if name == word {
			return true
		}
	}
	return false
}

func (s *Shell) runCommand(ctx context.Context, args []string) error {
	root := s.newCommands()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil || errors.Is(err, ErrExit) {
		return err
	}
	s.writeException(err)
	return nil
}

func (s *Shell) newHelpCommand(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "help [command]",
		Short: "Show a list of commands, or help for one of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				target, _, err := root.Find(args)
				if err != nil || target == root {
					return fmt.Errorf("unknown command: %s", args[0])
				}
				return target.Help()
			}

			styles := s.renderer.Styles()
			w := cmd.OutOrStdout()
			for _, c := range root.Commands() {
				_, _ = fmt.Fprintf(w, "  %s %s\n", styles.Bold.Render(fmt.Sprintf("%-10s", c.Name())), c.Short)
				if len(c.Aliases) > 0 {
					_, _ = fmt.Fprintf(w, "  %-10s %s\n", "", styles.Muted.Render(fmt.Sprintf("Aliases: %v", c.Aliases)))
				}
			}
			return nil
		},
	}
}

func (s *Shell) newExitCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "exit",
		Aliases: []string{"quit", "q"},
		Short:   "End the current session",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), s.renderer.Styles().Info.Render("Goodbye."))
			return ErrExit
		},
	}
}

func (s *Shell) newBufferCommand() *cobra.Command {
	var clearBuffer bool
	cmd := &cobra.Command{
		Use:     "buffer",
		Aliases: []string{"buf"},
		Short:   "Show (or clear) the contents of the code input buffer",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			styles := s.renderer.Styles()
			for _, line := range s.controller.Buffer() {
				_, _ = fmt.Fprintln(w, styles.Muted.Render(line))
			}
			if clearBuffer {
				s.controller.Reset()
				_, _ = fmt.Fprintln(w, styles.Info.Render("Buffer cleared."))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&clearBuffer, "clear", "c", false, "Clear the current buffer")
	return cmd
}

func (s *Shell) newWtfCommand() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:     "wtf",
		Aliases: []string{"last"},
		Short:   "Show the last error",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			errs := s.exceptions.All()
			if len(errs) == 0 {
				return errors.New("no last exception")
			}
			w := cmd.OutOrStdout()
			if !all {
				_, _ = fmt.Fprintln(w, errs[len(errs)-1].Error())
				return nil
			}
			for i, err := range errs {
				_, _ = fmt.Fprintf(w, "%d. %s\n", i+1, err.Error())
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Show every logged error")
	return cmd
}

func (s *Shell) newLsCommand() *cobra.Command {
	var asYAML bool
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List local variables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			vars := s.scope.All()
			w := cmd.OutOrStdout()
			if asYAML {
				return writeVariablesYAML(w, vars)
			}
			if len(vars) == 0 {
				_, _ = fmt.Fprintln(w, s.renderer.Styles().Muted.Render("(no variables)"))
				return nil
			}
			t := output.NewTable(w, "Name", "Type", "Value")
			for _, v := range vars {
				t.AppendRow(table.Row{"$" + v.Name, typeName(v.Value), formatValue(v.Value)})
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print variables as YAML")
	return cmd
}

func writeVariablesYAML(w io.Writer, vars []scope.Variable) error {
	plain := make([]scope.Variable, len(vars))
	for i, v := range vars {
		plain[i] = scope.Variable{Name: v.Name, Value: plainValue(v.Value)}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(plain); err != nil {
		return fmt.Errorf("failed to encode variables: %w", err)
	}
	return enc.Close()
}

func (s *Shell) newNamespaceCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "namespace [name]",
		Aliases: []string{"ns"},
		Short:   "Show or set the namespace code is cleaned in",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				s.controller.SetNamespace(args[0])
			}
			ns := s.controller.NamespaceString()
			if ns == "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Namespace: (global)")
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), `Namespace: \`+ns)
			return nil
		},
	}
}
