package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/runoshun/git-agenda/internal/app"
	"github.com/runoshun/git-agenda/internal/domain"
	"github.com/runoshun/git-agenda/internal/usecase"
	"github.com/spf13/cobra"
)

// clearValue resets an optional field in edit flags.
const clearValue = "none"

// taskFlags are the form fields shared by new and edit.
type taskFlags struct {
	Title    string
	Page     string
	Date     string
	End      string
	Time     string
	Estimate string
	Repeat   string
}

func (f *taskFlags) register(cmd *cobra.Command, edit bool) {
	clearHint := ""
	if edit {
		clearHint = fmt.Sprintf(" (%q clears)", clearValue)
	}
	cmd.Flags().StringVar(&f.Title, "title", "", "Task title; #Page and #[[Page Name]] link pages")
	cmd.Flags().StringVarP(&f.Page, "page", "p", "", "Page the task belongs to (default: journal of its date)")
	cmd.Flags().StringVarP(&f.Date, "date", "d", "", "Start date: YYYY-MM-DD, today, tomorrow"+clearHint)
	cmd.Flags().StringVar(&f.End, "end", "", "Last date of a date range"+clearHint)
	cmd.Flags().StringVarP(&f.Time, "time", "t", "", "Start time HH:MM; omitted means all-day"+clearHint)
	cmd.Flags().StringVarP(&f.Estimate, "estimate", "e", "", "Estimated time in minutes or as 1h30m (0 clears)")
	cmd.Flags().StringVar(&f.Repeat, "repeat", "", `Repeater such as ".+1d", "++1w" or "+2m" (empty clears)`)
}

// apply copies the changed flags into form.
func (f *taskFlags) apply(cmd *cobra.Command, form *domain.FormData, at time.Time) error {
	changed := cmd.Flags().Changed
	if changed("title") {
		form.Title = f.Title
	}
	if changed("page") {
		form.ProjectID = strings.TrimSpace(f.Page)
	}
	if changed("date") {
		if strings.EqualFold(f.Date, clearValue) {
			form.StartDate, form.StartTime, form.EndDate = nil, nil, nil
		} else {
			day, err := parseDay(f.Date, at)
			if err != nil {
				return err
			}
			form.StartDate = &day
		}
	}
	if changed("end") {
		if strings.EqualFold(f.End, clearValue) {
			form.EndDate = nil
		} else {
			day, err := parseDay(f.End, at)
			if err != nil {
				return err
			}
			form.EndDate = &day
		}
	}
	if changed("time") {
		if strings.EqualFold(f.Time, clearValue) {
			form.StartTime = nil
		} else {
			tod, err := domain.ParseTimeOfDay(f.Time)
			if err != nil {
				return err
			}
			form.StartTime = &tod
			if form.StartDate == nil {
				today := domain.DateOf(at)
				form.StartDate = &today
			}
		}
	}
	if changed("estimate") {
		est, err := parseEstimate(f.Estimate)
		if err != nil {
			return err
		}
		if est == 0 {
			form.EstimatedTime = nil
		} else {
			form.EstimatedTime = &est
		}
	}
	if changed("repeat") {
		if strings.TrimSpace(f.Repeat) == "" {
			form.Advanced = nil
		} else {
			form.Advanced = &domain.AdvancedFields{Repeat: f.Repeat}
		}
	}
	return nil
}

// newNewCommand creates the new command for creating tasks.
func newNewCommand(c *app.Container) *cobra.Command {
	var flags taskFlags

	cmd := &cobra.Command{
		Use:   "new [title...]",
		Short: "Create a new task",
		Long: `Create a TODO block.

The block is appended to --page, or to the journal of its start date
(today's journal when unscheduled).

Examples:
  # Unscheduled task in today's journal
  agenda new "Call the plumber"

  # All-day task on a page
  agenda new --page Home --date tomorrow "Water plants"

  # Timed task with an estimate
  agenda new -d 2024-01-05 -t 09:30 -e 45 "Review #[[Budget 2024]]"

  # Date range
  agenda new --date 2024-01-08 --end 2024-01-12 "Conference"

  # Recurring task
  agenda new --date today --repeat .+1w "Weekly review"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("title") && len(args) > 0 {
				flags.Title = strings.Join(args, " ")
				_ = cmd.Flags().Set("title", flags.Title)
			}
			form := domain.NewFormData(domain.CreateForm{})
			if err := flags.apply(cmd, &form, now(c)); err != nil {
				return err
			}

			out, err := c.CreateTaskUseCase().Execute(cmd.Context(), usecase.CreateTaskInput{Form: form})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created task %s: %s\n", shortID(out.Task.ID), out.Task.Title)
			printNotice(cmd, out.Visibility)
			return nil
		},
	}

	flags.register(cmd, false)

	return cmd
}

// newEditCommand creates the edit command.
func newEditCommand(c *app.Container) *cobra.Command {
	var flags taskFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a task",
		Long: `Edit the fields of a task. Only the given flags change.

The dates, time logs and status of a recurring task are read-only here;
change its SCHEDULED repeater in the graph instead.

Examples:
  agenda edit 6f1c --time 14:00
  agenda edit 6f1c --date none
  agenda edit 6f1c --title "Call the plumber again" --estimate 1h`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().NFlag() == 0 {
				return domain.ErrNoFieldsToUpdate
			}
			id, err := resolveTaskID(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}
			shown, err := c.ShowTaskUseCase().Execute(cmd.Context(), usecase.ShowTaskInput{TaskID: id})
			if err != nil {
				return err
			}
			form := domain.FormDataFromTask(shown.Task)
			if err := flags.apply(cmd, &form, now(c)); err != nil {
				return err
			}

			out, err := c.EditTaskUseCase().Execute(cmd.Context(), usecase.EditTaskInput{TaskID: id, Form: form})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s\n", shortID(out.Task.ID))
			printNotice(cmd, out.Visibility)
			return nil
		},
	}

	flags.register(cmd, true)

	return cmd
}

// newShowCommand creates the show command.
func newShowCommand(c *app.Container) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show task details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}
			out, err := c.ShowTaskUseCase().Execute(cmd.Context(), usecase.ShowTaskInput{TaskID: id})
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), toTaskJSON(out.Task))
			}
			printTaskDetails(cmd.OutOrStdout(), out)
			printNotice(cmd, out.Visibility)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

func printTaskDetails(w io.Writer, out *usecase.ShowTaskOutput) {
	t := out.Task
	_, _ = fmt.Fprintf(w, "%s %s\n\n", statusBox(t), t.Title)
	_, _ = fmt.Fprintf(w, "ID:        %s\n", t.ID)
	_, _ = fmt.Fprintf(w, "Page:      %s\n", t.Project.OriginalName)
	_, _ = fmt.Fprintf(w, "Status:    %s\n", t.Status.Display())
	placement := out.Placement
	if placement == "" {
		placement = "(unscheduled)"
	}
	_, _ = fmt.Fprintf(w, "Schedule:  %s\n", placement)
	if t.RRule != nil {
		_, _ = fmt.Fprintf(w, "Repeat:    %s (schedule locked)\n", t.RRule)
	}
	if t.EstimatedTime != nil {
		_, _ = fmt.Fprintf(w, "Estimate:  %s\n", *t.EstimatedTime)
	}
	_, _ = fmt.Fprintf(w, "Actual:    %s\n", out.ActualTime)
	if len(t.Filters) > 0 {
		ids := make([]string, len(t.Filters))
		for i, f := range t.Filters {
			ids[i] = string(f)
		}
		_, _ = fmt.Fprintf(w, "Filters:   %s\n", strings.Join(ids, ", "))
	}
	if len(t.TimeLogs) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "Time logs:")
		for i, l := range t.TimeLogs {
			_, _ = fmt.Fprintf(w, "  [%d] %s - %s  %s\n", i, l.Start.Format(domain.DateTimeFormat), l.End.Format(domain.DateTimeFormat), l.Amount)
		}
	}
}

// newRmCommand creates the rm command.
func newRmCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task block and its children",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}
			if err := c.DeleteTaskUseCase().Execute(cmd.Context(), usecase.DeleteTaskInput{TaskID: id}); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", shortID(id))
			return nil
		},
	}
}

// newDoneCommand creates the done command.
func newDoneCommand(c *app.Container) *cobra.Command {
	return newStatusCommand(c, "done <id>", "Mark a task as done", domain.StatusDone)
}

// newUndoCommand creates the undo command.
func newUndoCommand(c *app.Container) *cobra.Command {
	return newStatusCommand(c, "undo <id>", "Reopen a done task", domain.StatusTodo)
}

func newStatusCommand(c *app.Container, use, short string, status domain.Status) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}
			out, err := c.SetStatusUseCase().Execute(cmd.Context(), usecase.SetStatusInput{TaskID: id, Status: status})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if !out.Changed {
				_, _ = fmt.Fprintf(w, "Task %s is already %s\n", shortID(id), status.Display())
				return nil
			}
			_, _ = fmt.Fprintf(w, "Task %s: %s\n", shortID(id), status.Display())
			return nil
		},
	}
}

// newListCommand creates the list command.
func newListCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Group  string
		All    bool
		AsJSON bool
	}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks as kanban columns",
		Long: `List tasks grouped into columns.

--group day puts one column per start date and unscheduled tasks last.
--group category uses the active filters as columns, or pages (favorites
first) when no filter is selected.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			group, err := usecase.ParseColumnGrouping(opts.Group)
			if err != nil {
				return err
			}
			out, err := c.ListTasksUseCase().Execute(cmd.Context(), usecase.ListTasksInput{
				Group:       group,
				IncludeDone: opts.All,
			})
			if err != nil {
				return err
			}

			if opts.AsJSON {
				return writeJSON(cmd.OutOrStdout(), toColumnsJSON(out))
			}
			printColumns(cmd.OutOrStdout(), out)
			if out.Hidden > 0 {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Note: %d task(s) hidden by the active filters\n", out.Hidden)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Group, "group", "day", "Column grouping: day or category")
	cmd.Flags().BoolVarP(&opts.All, "all", "a", false, "Include done tasks")
	cmd.Flags().BoolVar(&opts.AsJSON, "json", false, "Output as JSON")

	return cmd
}

func printColumns(w io.Writer, out *usecase.ListTasksOutput) {
	if len(out.Columns) == 0 {
		_, _ = fmt.Fprintln(w, "No tasks found.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, col := range out.Columns {
		if i > 0 {
			_, _ = fmt.Fprintln(tw)
		}
		_, _ = fmt.Fprintf(tw, "== %s (%d)\n", col.Title, len(col.Tasks))
		for _, t := range col.Tasks {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				statusBox(t), shortID(t.ID), domain.PlacementOf(t).Format(), t.Title, t.Project.OriginalName)
		}
	}
	_ = tw.Flush()
}

func statusBox(t *domain.Task) string {
	if t.IsDone() {
		return "[x]"
	}
	return "[ ]"
}

// taskJSON is the JSON form of a task.
type taskJSON struct {
	Start     *time.Time        `json:"start,omitempty"`
	End       *time.Time        `json:"end,omitempty"`
	Estimate  *domain.Minutes   `json:"estimatedMinutes,omitempty"`
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Page      string            `json:"page"`
	Status    domain.Status     `json:"status"`
	Repeat    string            `json:"repeat,omitempty"`
	Filters   []domain.FilterID `json:"filters,omitempty"`
	TimeLogs  []domain.TimeLog  `json:"timeLogs,omitempty"`
	Actual    domain.Minutes    `json:"actualMinutes"`
	AllDay    bool              `json:"allDay"`
	Recurring bool              `json:"recurring"`
}

func toTaskJSON(t *domain.Task) taskJSON {
	out := taskJSON{
		Start:     t.Start,
		End:       t.End,
		Estimate:  t.EstimatedTime,
		ID:        t.ID,
		Title:     t.Title,
		Page:      t.ProjectID,
		Status:    t.Status,
		Filters:   t.Filters,
		TimeLogs:  t.TimeLogs,
		Actual:    t.ActualTime(),
		AllDay:    t.AllDay,
		Recurring: t.RRule != nil,
	}
	if t.RRule != nil {
		out.Repeat = t.RRule.String()
	}
	return out
}

type columnJSON struct {
	Key   string     `json:"key"`
	Title string     `json:"title"`
	Tasks []taskJSON `json:"tasks"`
}

func toColumnsJSON(out *usecase.ListTasksOutput) []columnJSON {
	cols := make([]columnJSON, 0, len(out.Columns))
	for _, col := range out.Columns {
		c := columnJSON{Key: col.Key, Title: col.Title, Tasks: make([]taskJSON, 0, len(col.Tasks))}
		for _, t := range col.Tasks {
			c.Tasks = append(c.Tasks, toTaskJSON(t))
		}
		cols = append(cols, c)
	}
	return cols
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
