// Package cli provides the command-line interface for git-agenda.
package cli

import (
	"fmt"

	"github.com/runoshun/git-agenda/internal/app"
	"github.com/runoshun/git-agenda/internal/domain"
	"github.com/spf13/cobra"
)

// Command group IDs.
const (
	groupSetup  = "setup"
	groupTask   = "task"
	groupAgenda = "agenda"
)

// launchTUIFunc is a function variable for launching the TUI, allowing it to be mocked in tests.
var launchTUIFunc = launchTUI

// NewRootCommand creates the root command for git-agenda.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	var global GlobalOptions

	root := &cobra.Command{
		Use:   "agenda",
		Short: "Calendar and kanban agenda over a markdown outliner graph",
		Long: `git-agenda schedules the TODO blocks of a Logseq-style graph.

Tasks are blocks in pages/ and journals/. Their placement is kept in the
SCHEDULED and DEADLINE timestamps, time logs in the :LOGBOOK: drawer.
Run without arguments to open the terminal agenda.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip if container is nil (e.g. in tests)
			if c == nil {
				return nil
			}
			for _, w := range c.AppConfig.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
			if skipsInitCheck(cmd) {
				return nil
			}
			if !c.StoreInitializer.IsInitialized() {
				return domain.ErrNotInitialized
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return launchTUIFunc(cmd, c)
		},
	}

	// Parsed before the container is built, see ParseGlobalOptions.
	root.PersistentFlags().StringVarP(&global.GraphDir, "graph", "g", "", "Graph directory (default: detected from the current directory)")
	root.PersistentFlags().BoolVar(&global.Verbose, "verbose", false, "Print log entries to stderr")

	root.AddGroup(
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
		&cobra.Group{ID: groupTask, Title: "Task Management:"},
		&cobra.Group{ID: groupAgenda, Title: "Agenda Views:"},
	)

	for _, sub := range []struct {
		cmd   *cobra.Command
		group string
	}{
		{newInitCommand(c), groupSetup},
		{newConfigCommand(c), groupSetup},
		{newNewCommand(c), groupTask},
		{newEditCommand(c), groupTask},
		{newShowCommand(c), groupTask},
		{newRmCommand(c), groupTask},
		{newDoneCommand(c), groupTask},
		{newUndoCommand(c), groupTask},
		{newPlaceCommand(c), groupTask},
		{newUntimeCommand(c), groupTask},
		{newLogCommand(c), groupTask},
		{newListCommand(c), groupAgenda},
		{newCalendarCommand(c), groupAgenda},
		{newFilterCommand(c), groupAgenda},
		{newViewCommand(c), groupAgenda},
		{newTUICommand(c), groupAgenda},
	} {
		sub.cmd.GroupID = sub.group
		root.AddCommand(sub.cmd)
	}

	return root
}

// skipsInitCheck reports whether cmd works on a graph that was never initialized.
func skipsInitCheck(cmd *cobra.Command) bool {
	for p := cmd; p != nil; p = p.Parent() {
		switch p.Name() {
		case "init", "config", "help", "completion":
			return true
		}
	}
	return false
}
