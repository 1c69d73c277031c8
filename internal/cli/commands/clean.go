package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/psyrepl/pkg/cleaner"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// ErrCleanFailed is returned when at least one buffer was rejected.
var ErrCleanFailed = errors.New("clean failed")

// stdinName names standard input in diagnostics.
const stdinName = "<stdin>"

// watchDebounce is how long a burst of file events is coalesced.
const watchDebounce = 100 * time.Millisecond

// CleanOptions holds options for the clean command.
type CleanOptions struct {
	Watch bool // Re-clean files when they change
}

// NewCleanCommand creates the clean command.
func NewCleanCommand() *cobra.Command {
	opts := &CleanOptions{}
	cmd := &cobra.Command{
		Use:   "clean [files...]",
		Short: "Clean PHP input without running it",
		Long: `Feed input through the shell's cleaning pipeline and print the code
that would be executed.

Input is read line by line, exactly as the shell would receive it. Each time
the buffer becomes runnable its cleaned code is printed and a new buffer
starts. Rejected buffers are reported on stderr as file:line: message.

With no files, standard input is read.`,
		Example: `  # Clean a snippet
  echo 'foo()' | psyrepl clean --functions foo

  # Clean files inside a namespace
  psyrepl clean --namespace App a.php b.php

  # Re-clean whenever the files change
  psyrepl clean --watch scratch.php`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Watch && len(args) == 0 {
				return errors.New("--watch requires at least one file")
			}
			if !opts.Watch {
				return runClean(cmd, args)
			}
			cleanAndLog(cmd, args)
			return watchClean(cmd, args)
		},
	}

	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-clean files when they change")

	return cmd
}

// cleanReport is the cleaned code and diagnostics of one input.
type cleanReport struct {
	Name   string
	Chunks []string
	Errors []string
}

func runClean(cmd *cobra.Command, paths []string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	c := cmdCtx.NewCleaner()
	resolver := cmdCtx.NewResolver()
	namespace := cleaner.ParseNamespace(cmdCtx.Cfg.Namespace)

	newController := func() *cleaner.Controller {
		return cleaner.NewController(cleaner.ControllerConfig{
			Cleaner:   c,
			Resolver:  resolver,
			Namespace: namespace,
		})
	}

	var reports []*cleanReport
	if len(paths) == 0 {
		report, err := cleanReader(newController(), stdinName, cmd.InOrStdin())
		if err != nil {
			return err
		}
		reports = append(reports, report)
	} else {
		reports = make([]*cleanReport, len(paths))
		g, _ := errgroup.WithContext(cmd.Context())
		for i, path := range paths {
			g.Go(func() error {
				report, err := cleanFile(newController(), path)
				if err != nil {
					return err
				}
				reports[i] = report
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}

	failed := 0
	for _, report := range reports {
		if len(reports) > 1 {
			r.Println(r.Styles().Muted.Render("# " + report.Name))
		}
		for _, chunk := range report.Chunks {
			r.Println(chunk)
		}
		for _, msg := range report.Errors {
			r.Errorln(msg)
		}
		failed += len(report.Errors)
	}

	cmdCtx.Logger.Debug("clean finished", "inputs", len(reports), "rejected", failed)
	if failed > 0 {
		return fmt.Errorf("%w: %d buffer(s) rejected", ErrCleanFailed, failed)
	}
	return nil
}

func cleanFile(ctrl *cleaner.Controller, path string) (*cleanReport, error) {
	f, err := os.Open(path) //nolint:gosec // path is a user-supplied input file
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return cleanReader(ctrl, path, f)
}

// cleanReader feeds r to the controller one line at a time, collecting
// every runnable chunk and every rejection.
func cleanReader(ctrl *cleaner.Controller, name string, r io.Reader) (*cleanReport, error) {
	report := &cleanReport{Name: name}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	start := 1
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if ctrl.State() == cleaner.StateEmpty {
			if strings.TrimSpace(line) == "" {
				continue
			}
			start = lineNo
		}

		outcome := ctrl.AddLine(line)
		switch outcome.State {
		case cleaner.StateReady:
			report.Chunks = append(report.Chunks, outcome.Code())
			ctrl.Complete()
		case cleaner.StateRejected:
			e := outcome.Result.Err
			at := start
			if e.Line > 0 {
				at = start + e.Line - 1
			}
			report.Errors = append(report.Errors, fmt.Sprintf("%s:%d: %s", name, at, e))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	if ctrl.State() == cleaner.StateBuffering {
		report.Errors = append(report.Errors, fmt.Sprintf("%s:%d: unexpected end of input", name, lineNo))
		ctrl.Reset()
	}
	return report, nil
}

// watchClean re-cleans paths after they change until the command's
// context is cancelled.
func watchClean(cmd *cobra.Command, paths []string) error {
	logger := NewCommandContext(cmd).Logger

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Editors often replace files, so watch the parent directories.
	targets := make([]string, 0, len(paths))
	var dirs []string
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		targets = append(targets, abs)
		if dir := filepath.Dir(abs); !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	return watchLoop(cmd.Context(), watcher, targets, logger.Debug, func() {
		cleanAndLog(cmd, paths)
	})
}

// cleanAndLog runs one watch-mode pass. Rejections are already printed,
// so a failed pass is logged and watching continues.
func cleanAndLog(cmd *cobra.Command, paths []string) {
	if err := runClean(cmd, paths); err != nil {
		NewCommandContext(cmd).Logger.Warn("clean failed", "error", err)
	}
}

// watchLoop calls fn once per burst of write or create events on targets.
func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, targets []string, logf func(string, ...any), fn func()) error {
	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !slices.Contains(targets, abs) {
				continue
			}
			logf("file changed", "file", event.Name)
			debounce = time.After(watchDebounce)

		case <-debounce:
			debounce = nil
			fn()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logf("watcher error", "error", err)
		}
	}
}
