package cli

import (
	"fmt"

	"github.com/runoshun/git-agenda/internal/app"
	"github.com/runoshun/git-agenda/internal/domain"
	"github.com/runoshun/git-agenda/internal/usecase"
	"github.com/spf13/cobra"
)

// newPlaceCommand creates the place command.
func newPlaceCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Mode  string
		Start string
		End   string
		Time  string
	}

	cmd := &cobra.Command{
		Use:   "place <id>",
		Short: "Change where a task sits on the calendar",
		Long: `Switch a task between the placement modes.

  all-day-single  one date, no time
  timed-single    one date at a time of day (--time)
  date-range      from --start to --end (one day when --end is omitted)

The start date is kept unless --start is given.

Examples:
  agenda place 6f1c --mode timed-single --time 10:00
  agenda place 6f1c --mode date-range --end 2024-01-12
  agenda place 6f1c --mode all-day-single --start tomorrow`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := domain.ParsePlacementMode(opts.Mode)
			if err != nil {
				return err
			}
			at := now(c)
			var fields domain.PlacementFields
			if opts.Start != "" {
				day, err := parseDay(opts.Start, at)
				if err != nil {
					return err
				}
				fields.Start = &day
			}
			if opts.End != "" {
				day, err := parseDay(opts.End, at)
				if err != nil {
					return err
				}
				fields.End = &day
			}
			if opts.Time != "" {
				tod, err := domain.ParseTimeOfDay(opts.Time)
				if err != nil {
					return err
				}
				fields.Time = &tod
			}

			id, err := resolveTaskID(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}
			out, err := c.ChangePlacementUseCase().Execute(cmd.Context(), usecase.ChangePlacementInput{
				TaskID: id,
				Mode:   mode,
				Fields: fields,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task %s: %s\n", shortID(id), domain.PlacementOf(out.Task).Format())
			printNotice(cmd, out.Visibility)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Mode, "mode", "m", "", "Placement mode: all-day-single, timed-single or date-range")
	cmd.Flags().StringVar(&opts.Start, "start", "", "New start date")
	cmd.Flags().StringVar(&opts.End, "end", "", "Range end date")
	cmd.Flags().StringVarP(&opts.Time, "time", "t", "", "Time of day HH:MM")
	_ = cmd.MarkFlagRequired("mode")

	return cmd
}

// newUntimeCommand creates the untime command.
func newUntimeCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "untime <id>",
		Short: "Remove a task from the timebox",
		Long: `Make a timed task all-day on its start date. A range end and the
estimated time are kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}
			out, err := c.ChangePlacementUseCase().RemoveTime(cmd.Context(), usecase.RemoveTimeInput{TaskID: id})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task %s: %s\n", shortID(id), domain.PlacementOf(out.Task).Format())
			return nil
		},
	}
}
