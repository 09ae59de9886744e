package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/runoshun/git-agenda/internal/app"
	"github.com/runoshun/git-agenda/internal/domain"
	"github.com/runoshun/git-agenda/internal/usecase"
	"github.com/spf13/cobra"
)

// newFilterCommand creates the filter command.
func newFilterCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "List and select filters",
		Long: `Filters are defined in .agenda/filters.yaml. Selected filters hide the
tasks that match none of them and become the kanban categories.`,
	}

	cmd.AddCommand(newFilterListCommand(c))
	cmd.AddCommand(newFilterSelectCommand(c))

	return cmd
}

// newFilterListCommand creates the filter list subcommand.
func newFilterListCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the defined filters",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ListFiltersUseCase().Execute(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(out.Filters) == 0 {
				_, _ = fmt.Fprintf(w, "No filters defined. Add them to %s/%s\n", c.Config.AgendaDir, domain.FiltersFileName)
				return nil
			}
			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "\tID\tNAME\tQUERY")
			for _, f := range out.Filters {
				mark := " "
				if f.Selected {
					mark = "*"
				}
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", mark, f.ID, f.Name, f.Query)
			}
			return tw.Flush()
		},
	}
}

// newFilterSelectCommand creates the filter select subcommand.
func newFilterSelectCommand(c *app.Container) *cobra.Command {
	var add, remove, clearAll bool

	cmd := &cobra.Command{
		Use:   "select [id...]",
		Short: "Choose the active filters",
		Long: `Choose the active filters. By default the given ids replace the
selection; --add and --remove change it, --clear empties it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := usecase.SelectFiltersInput{Mode: usecase.SelectReplace}
			switch {
			case clearAll:
				if len(args) > 0 || add || remove {
					return errors.New("--clear takes no ids")
				}
			case add && remove:
				return errors.New("--add and --remove cannot be combined")
			case len(args) == 0:
				return errors.New("no filter ids given (use --clear to deselect all)")
			case add:
				in.Mode = usecase.SelectAdd
			case remove:
				in.Mode = usecase.SelectRemove
			}
			for _, a := range args {
				in.IDs = append(in.IDs, domain.FilterID(a))
			}

			out, err := c.SelectFiltersUseCase().Execute(cmd.Context(), in)
			if err != nil {
				return err
			}
			if err := c.ReloadSettings(); err != nil {
				return err
			}
			if len(out.Selected) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No filters selected")
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Selected filters: %v\n", out.Selected)
			return nil
		},
	}

	cmd.Flags().BoolVar(&add, "add", false, "Add to the selection")
	cmd.Flags().BoolVar(&remove, "remove", false, "Remove from the selection")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "Deselect all filters")

	return cmd
}

// newViewCommand creates the view command.
func newViewCommand(c *app.Container) *cobra.Command {
	var calendar string

	cmd := &cobra.Command{
		Use:   "view [tasks|calendar]",
		Short: "Show or set the saved agenda view",
		Long: `Show or set the view the terminal agenda opens with and the
calendar layout used by 'agenda calendar'.

Examples:
  agenda view
  agenda view calendar --calendar month`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in usecase.SetViewInput
			if len(args) == 1 {
				v, err := domain.ParseView(args[0])
				if err != nil {
					return err
				}
				in.View = &v
			}
			if calendar != "" {
				cv, err := domain.ParseCalendarView(calendar)
				if err != nil {
					return err
				}
				in.CalendarView = &cv
			}

			var st *domain.AppState
			if in.View == nil && in.CalendarView == nil {
				loaded, err := c.State.Load()
				if err != nil {
					return err
				}
				st = loaded
			} else {
				out, err := c.SetViewUseCase().Execute(cmd.Context(), in)
				if err != nil {
					return err
				}
				st = out.State
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "view: %s\ncalendar: %s\n", st.View, calendarName(st.CalendarView))
			return nil
		},
	}

	cmd.Flags().StringVar(&calendar, "calendar", "", "Calendar layout: week or month")

	return cmd
}

func calendarName(v domain.CalendarView) string {
	if v == domain.ViewMonth {
		return "month"
	}
	return "week"
}
