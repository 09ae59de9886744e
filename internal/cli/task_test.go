package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/runoshun/git-agenda/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCommand_TimedTaskOnPage(t *testing.T) {
	c := newTestGraph(t)

	out := mustExecute(t, c, "new", "--page", "Home", "-d", "2024-01-05", "-t", "09:30", "-e", "45", "Water plants")

	assert.Contains(t, out, "Created task ")
	assert.Contains(t, out, ": Water plants")
	content := readGraphFile(t, c, "pages/Home.md")
	assert.Contains(t, content, "- TODO Water plants\n")
	assert.Contains(t, content, "SCHEDULED: <2024-01-05 Fri 09:30>")
	assert.Contains(t, content, "estimated:: 45")
}

func TestNewCommand_DatedTaskGoesToJournal(t *testing.T) {
	c := newTestGraph(t)

	createTask(t, c, "--date", "tomorrow", "Dentist")

	content := readGraphFile(t, c, "journals/2024_01_04.md")
	assert.Contains(t, content, "- TODO Dentist\n")
	assert.Contains(t, content, "SCHEDULED: <2024-01-04 Thu>")
}

func TestNewCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"empty title", []string{"new", "--page", "Home"}, domain.ErrEmptyTitle},
		{"end before start", []string{"new", "-d", "2024-01-05", "--end", "2024-01-01", "x"}, domain.ErrInvalidInterval},
		{"repeat without date", []string{"new", "--repeat", "+1w", "x"}, domain.ErrInvalidRecurrence},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestGraph(t)

			_, _, err := execute(t, c, tt.args...)

			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewCommand_InvalidFlagValues(t *testing.T) {
	c := newTestGraph(t)

	_, _, err := execute(t, c, "new", "-d", "someday", "x")
	assert.ErrorContains(t, err, "invalid date")

	_, _, err = execute(t, c, "new", "-t", "25:00", "x")
	assert.ErrorContains(t, err, "invalid hour")

	_, _, err = execute(t, c, "new", "-e", "soon", "x")
	assert.ErrorContains(t, err, "invalid estimate")
}

func TestEditCommand(t *testing.T) {
	c := newTestGraph(t)
	id := createTask(t, c, "--page", "Work", "-d", "2024-01-05", "-t", "09:00", "Plan sprint")

	out := mustExecute(t, c, "edit", id, "--time", "14:00", "--estimate", "1h30m")
	assert.Contains(t, out, "Updated task "+id)

	shown := mustExecute(t, c, "show", id)
	assert.Contains(t, shown, "Schedule:  2024-01-05 14:00")
	assert.Contains(t, shown, "Estimate:  1h30m")

	mustExecute(t, c, "edit", id, "--date", "none", "--estimate", "0")
	shown = mustExecute(t, c, "show", id)
	assert.Contains(t, shown, "Schedule:  (unscheduled)")
	assert.NotContains(t, shown, "Estimate:")
	assert.NotContains(t, readGraphFile(t, c, "pages/Work.md"), "SCHEDULED")
}

func TestEditCommand_NoFlags(t *testing.T) {
	c := newTestGraph(t)
	id := createTask(t, c, "--page", "Work", "x")

	_, _, err := execute(t, c, "edit", id)

	assert.ErrorIs(t, err, domain.ErrNoFieldsToUpdate)
}

func TestEditCommand_RecurringTaskLocked(t *testing.T) {
	c := newTestGraph(t)
	writeGraphFile(t, c, "pages/Team.md", "- TODO Standup\n  id:: standup-1\n  SCHEDULED: <2024-01-01 Mon 09:00 .+1d>\n")

	_, _, err := execute(t, c, "edit", "standup-1", "--time", "10:00")
	require.ErrorIs(t, err, domain.ErrEditLocked)
	assert.Contains(t, FormatError(err), "Hint:")

	// Non-schedule fields stay editable.
	mustExecute(t, c, "edit", "standup-1", "--title", "Daily standup")
	assert.Contains(t, readGraphFile(t, c, "pages/Team.md"), "- TODO Daily standup\n")
}

func TestShowCommand_JSON(t *testing.T) {
	c := newTestGraph(t)
	id := createTask(t, c, "--page", "Home", "-d", "2024-01-05", "-e", "20", "Laundry")

	out := mustExecute(t, c, "show", id, "--json")

	var got taskJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, strings.HasPrefix(got.ID, id))
	assert.Equal(t, "Laundry", got.Title)
	assert.Equal(t, "home", got.Page)
	assert.True(t, got.AllDay)
	require.NotNil(t, got.Estimate)
	assert.Equal(t, domain.Minutes(20), *got.Estimate)
}

func TestShowCommand_UnknownID(t *testing.T) {
	c := newTestGraph(t)

	_, _, err := execute(t, c, "show", "nope")

	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestDoneAndUndoCommands(t *testing.T) {
	c := newTestGraph(t)
	id := createTask(t, c, "--page", "Home", "Dishes")

	assert.Contains(t, mustExecute(t, c, "done", id), "Done")
	assert.Contains(t, readGraphFile(t, c, "pages/Home.md"), "- DONE Dishes")
	assert.Contains(t, mustExecute(t, c, "done", id), "already Done")

	assert.Contains(t, mustExecute(t, c, "undo", id), "To Do")
	assert.Contains(t, readGraphFile(t, c, "pages/Home.md"), "- TODO Dishes")
}

func TestRmCommand(t *testing.T) {
	c := newTestGraph(t)
	id := createTask(t, c, "--page", "Home", "Old task")

	assert.Contains(t, mustExecute(t, c, "rm", id), "Deleted task")

	assert.NotContains(t, readGraphFile(t, c, "pages/Home.md"), "Old task")
	_, _, err := execute(t, c, "show", id)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestListCommand(t *testing.T) {
	c := newTestGraph(t)
	createTask(t, c, "--page", "Home", "-d", "2024-01-05", "Later task")
	createTask(t, c, "--page", "Home", "-d", "2024-01-04", "Sooner task")
	createTask(t, c, "--page", "Home", "Someday task")
	doneID := createTask(t, c, "--page", "Home", "-d", "2024-01-04", "Finished task")
	mustExecute(t, c, "done", doneID)

	out := mustExecute(t, c, "list")

	assert.NotContains(t, out, "Finished task")
	sooner := strings.Index(out, "Sooner task")
	later := strings.Index(out, "Later task")
	someday := strings.Index(out, "Someday task")
	require.True(t, sooner >= 0 && later >= 0 && someday >= 0, out)
	assert.Less(t, sooner, later)
	assert.Less(t, later, someday)

	assert.Contains(t, mustExecute(t, c, "list", "--all"), "Finished task")
}

func TestListCommand_JSONByCategory(t *testing.T) {
	c := newTestGraph(t)
	createTask(t, c, "--page", "Home", "a")
	createTask(t, c, "--page", "Work", "b")

	out := mustExecute(t, c, "list", "--group", "category", "--json")

	var cols []columnJSON
	require.NoError(t, json.Unmarshal([]byte(out), &cols))
	require.Len(t, cols, 2)
	var titles []string
	for _, col := range cols {
		titles = append(titles, col.Title)
	}
	assert.ElementsMatch(t, []string{"Home", "Work"}, titles)
}

func TestListCommand_Empty(t *testing.T) {
	c := newTestGraph(t)

	assert.Contains(t, mustExecute(t, c, "list"), "No tasks found.")
}

func TestResolveTaskID_Ambiguous(t *testing.T) {
	c := newTestGraph(t)
	writeGraphFile(t, c, "pages/P.md", "- TODO a\n  id:: abc-1\n- TODO b\n  id:: abc-2\n")

	_, _, err := execute(t, c, "show", "abc")
	assert.ErrorContains(t, err, "ambiguous")

	out := mustExecute(t, c, "show", "abc-2")
	assert.Contains(t, out, "[ ] b")
}
