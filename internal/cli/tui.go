package cli

import (
	"github.com/runoshun/git-agenda/internal/app"
	"github.com/runoshun/git-agenda/internal/tui"
	"github.com/spf13/cobra"
)

// newTUICommand creates the tui command.
func newTUICommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the terminal agenda",
		Long: `Open the interactive agenda: a kanban board of open tasks and a
week or month calendar. Press ? inside for the key bindings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return launchTUIFunc(cmd, c)
		},
	}
}

// launchTUI runs the terminal agenda until the user quits.
func launchTUI(cmd *cobra.Command, c *app.Container) error {
	return tui.Run(cmd.Context(), c)
}
