package cli

import (
	"fmt"
	"strconv"

	"github.com/runoshun/git-agenda/internal/app"
	"github.com/runoshun/git-agenda/internal/domain"
	"github.com/runoshun/git-agenda/internal/usecase"
	"github.com/spf13/cobra"
)

// newLogCommand creates the log command for time logs.
func newLogCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Manage the time logs of a task",
		Long: `Manage the CLOCK entries in the :LOGBOOK: of a task.

Time logs are addressed by their index as shown by 'agenda show'.`,
	}

	cmd.AddCommand(newLogAddCommand(c))
	cmd.AddCommand(newLogUpdateCommand(c))
	cmd.AddCommand(newLogRmCommand(c))

	return cmd
}

// newLogAddCommand creates the log add subcommand.
func newLogAddCommand(c *app.Container) *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "add <id>",
		Short: "Add a time log",
		Long: `Add a time log to a task.

Without --start and --end the log is placed after the last one (or at the
task's start) and spans the configured default duration.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			at := now(c)
			in := usecase.AddTimeLogInput{}
			if start != "" {
				t, err := parseInstant(start, at)
				if err != nil {
					return err
				}
				in.Start = &t
			}
			if end != "" {
				t, err := parseInstant(end, at)
				if err != nil {
					return err
				}
				in.End = &t
			}
			id, err := resolveTaskID(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}
			in.TaskID = id

			out, err := c.AddTimeLogUseCase().Execute(cmd.Context(), in)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged %s on task %s (%s - %s), total %s\n",
				out.Log.Amount, shortID(id),
				out.Log.Start.Format(domain.DateTimeFormat), out.Log.End.Format(domain.DateTimeFormat),
				out.Task.ActualTime())
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", `Start "YYYY-MM-DD HH:MM" or HH:MM`)
	cmd.Flags().StringVar(&end, "end", "", `End "YYYY-MM-DD HH:MM" or HH:MM`)

	return cmd
}

// newLogUpdateCommand creates the log update subcommand.
func newLogUpdateCommand(c *app.Container) *cobra.Command {
	var start, end, amount string

	cmd := &cobra.Command{
		Use:   "update <id> <index>",
		Short: "Replace a time log",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid index %q: %w", args[1], domain.ErrIndexOutOfRange)
			}
			id, err := resolveTaskID(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}
			shown, err := c.ShowTaskUseCase().Execute(cmd.Context(), usecase.ShowTaskInput{TaskID: id})
			if err != nil {
				return err
			}
			if index < 0 || index >= len(shown.Task.TimeLogs) {
				return fmt.Errorf("index %d: %w", index, domain.ErrIndexOutOfRange)
			}

			cur := shown.Task.TimeLogs[index]
			at := now(c)
			in := usecase.UpdateTimeLogInput{TaskID: id, Index: index, Start: cur.Start, End: cur.End}
			if start != "" {
				if in.Start, err = parseInstant(start, at); err != nil {
					return err
				}
			}
			if end != "" {
				if in.End, err = parseInstant(end, at); err != nil {
					return err
				}
			}
			if amount != "" {
				m, err := parseEstimate(amount)
				if err != nil {
					return err
				}
				in.Amount = &m
			}

			out, err := c.UpdateTimeLogUseCase().Execute(cmd.Context(), in)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated time log %d of task %s, total %s\n", index, shortID(id), out.Task.ActualTime())
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "New start")
	cmd.Flags().StringVar(&end, "end", "", "New end")
	cmd.Flags().StringVar(&amount, "amount", "", "Logged minutes when they differ from end - start")

	return cmd
}

// newLogRmCommand creates the log rm subcommand.
func newLogRmCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id> <index>",
		Short: "Delete a time log",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid index %q: %w", args[1], domain.ErrIndexOutOfRange)
			}
			id, err := resolveTaskID(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}
			out, err := c.RemoveTimeLogUseCase().Execute(cmd.Context(), usecase.RemoveTimeLogInput{TaskID: id, Index: index})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed time log %d of task %s, total %s\n", index, shortID(id), out.Task.ActualTime())
			return nil
		},
	}
}
