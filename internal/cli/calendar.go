package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/runoshun/git-agenda/internal/app"
	"github.com/runoshun/git-agenda/internal/domain"
	"github.com/runoshun/git-agenda/internal/usecase"
	"github.com/spf13/cobra"
)

// newCalendarCommand creates the calendar command.
func newCalendarCommand(c *app.Container) *cobra.Command {
	var opts struct {
		View      string
		Date      string
		WeekStart string
		HideDone  bool
	}

	cmd := &cobra.Command{
		Use:     "calendar [prev|next|today] [count]",
		Aliases: []string{"cal"},
		Short:   "Show scheduled tasks by day",
		Long: `Show the scheduled tasks of a week or month.

The view defaults to the one saved with 'agenda view --calendar'.
prev and next move by whole periods from --date (default: today).

Examples:
  agenda calendar
  agenda calendar next
  agenda calendar prev 2 --view month
  agenda calendar --date 2024-03-01 --view month`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			at := now(c)
			in := usecase.ListAgendaInput{Anchor: at, HideDone: opts.HideDone}

			if opts.View != "" {
				view, err := domain.ParseCalendarView(opts.View)
				if err != nil {
					return err
				}
				in.View = view
			} else {
				state, err := c.State.Load()
				if err != nil {
					return err
				}
				in.View = state.CalendarView
			}
			if opts.Date != "" {
				day, err := parseDay(opts.Date, at)
				if err != nil {
					return err
				}
				in.Anchor = day
			}
			if opts.WeekStart != "" {
				ws, err := domain.ParseWeekday(opts.WeekStart)
				if err != nil {
					return err
				}
				in.WeekStart = &ws
			}
			if err := parseNavigation(args, &in); err != nil {
				return err
			}

			out, err := c.ListAgendaUseCase().Execute(cmd.Context(), in)
			if err != nil {
				return err
			}
			printAgenda(cmd.OutOrStdout(), out, at)
			if out.Hidden > 0 {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Note: %d task(s) hidden by the active filters\n", out.Hidden)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.View, "view", "", "Calendar view: week or month")
	cmd.Flags().StringVarP(&opts.Date, "date", "d", "", "Any date inside the period to show")
	cmd.Flags().StringVar(&opts.WeekStart, "week-start", "", "First day of the week (default from config)")
	cmd.Flags().BoolVar(&opts.HideDone, "hide-done", false, "Hide done tasks")

	return cmd
}

// parseNavigation reads the optional [prev|next|today] [count] arguments.
func parseNavigation(args []string, in *usecase.ListAgendaInput) error {
	if len(args) == 0 {
		return nil
	}
	count := 1
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid count %q", args[1])
		}
		count = n
	}
	switch strings.ToLower(args[0]) {
	case "prev", "previous":
		in.Step = -count
	case "next":
		in.Step = count
	case "today":
		if len(args) == 2 {
			return fmt.Errorf("today takes no count")
		}
		in.Today = true
	default:
		return fmt.Errorf("unknown navigation %q: want prev, next or today", args[0])
	}
	return nil
}

// printAgenda lists the events under every day of the window they cover.
func printAgenda(w io.Writer, out *usecase.ListAgendaOutput, at time.Time) {
	last := out.End.AddDate(0, 0, -1)
	_, _ = fmt.Fprintf(w, "%s - %s\n", out.Start.Format("Mon 2006-01-02"), last.Format("Mon 2006-01-02"))

	today := domain.DateOf(at)
	for _, day := range out.Days {
		next := day.AddDate(0, 0, 1)
		var lines []string
		for _, ev := range out.Events {
			if !ev.Start.Before(next) || !ev.End.After(day) {
				continue
			}
			if !ev.AllDay && domain.DateOf(ev.Start).Before(day) {
				continue
			}
			lines = append(lines, formatEvent(ev))
		}
		if len(lines) == 0 && len(out.Days) > 7 {
			continue
		}

		header := day.Format("Mon 2006-01-02")
		if day.Equal(today) {
			header += "  (today)"
		} else if domain.IsWeekend(day) {
			header += "  ·"
		}
		_, _ = fmt.Fprintf(w, "\n%s\n", header)
		if len(lines) == 0 {
			_, _ = fmt.Fprintln(w, "  -")
		}
		for _, l := range lines {
			_, _ = fmt.Fprintf(w, "  %s\n", l)
		}
	}
}

func formatEvent(ev domain.CalendarEvent) string {
	when := ev.TimeText()
	if ev.AllDay {
		when = "all day"
	}
	box := "[ ]"
	if ev.Done {
		box = "[x]"
	}
	title := ev.Title
	if ev.Task != nil && ev.Task.RecurringPast {
		title += " (past occurrence)"
	}
	return fmt.Sprintf("%s %-13s  %s  %s", box, when, title, shortID(ev.ID))
}
