package cli

import (
	"fmt"

	"github.com/runoshun/git-agenda/internal/app"
	"github.com/runoshun/git-agenda/internal/usecase"
	"github.com/spf13/cobra"
)

// newInitCommand creates the init command.
func newInitCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Prepare a graph for git-agenda",
		Long: `Prepare the graph for git-agenda.

Creates pages/, journals/ and logseq/config.edn when missing, plus the
.agenda directory holding config.toml, filters.yaml, state and logs.
Running it on an initialized graph is safe.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.InitGraphUseCase().Execute(cmd.Context(), usecase.InitGraphInput{
				AgendaDir: c.Config.AgendaDir,
				GraphDir:  c.Config.GraphDir,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out.AlreadyInitialized {
				_, _ = fmt.Fprintf(w, "Graph already initialized: %s\n", c.Config.GraphDir)
			} else {
				_, _ = fmt.Fprintf(w, "Initialized graph: %s\n", c.Config.GraphDir)
			}
			if out.GitignoreNeedsAdd {
				_, _ = fmt.Fprintln(w)
				_, _ = fmt.Fprintln(w, "Consider adding the agenda logs and state to .gitignore:")
				_, _ = fmt.Fprintln(w, "  .agenda/logs/")
				_, _ = fmt.Fprintln(w, "  .agenda/state.json")
				_, _ = fmt.Fprintln(w, "  .agenda/*.lock")
			}
			return nil
		},
	}
}
