package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/runoshun/git-agenda/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedBoard(f *fixture) {
	f.store.AddPage("Home")
	f.store.Favorites = []string{"home"}
	f.addBlock("a", "TODO", "Plan week", "work", "2024-01-02")
	f.addBlock("b", "TODO", "Call bank", "home", "2024-01-01 10:00")
	f.addBlock("c", "DONE", "Pay rent", "home", "2024-01-01")
	f.addBlock("d", "LATER", "Read book", "work", "")
	f.addBlock("e", "TODO", "Early call", "work", "2024-01-01")
}

func keys(cols []TaskColumn) []string {
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		out = append(out, c.Key)
	}
	return out
}

func titles(tasks []*domain.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Title)
	}
	return out
}

func TestListTasks_Execute_ByDay(t *testing.T) {
	// Setup
	f := newFixture()
	seedBoard(f)
	uc := NewListTasks(f.store, f.transformer, f.settings)

	// Execute
	out, err := uc.Execute(context.Background(), ListTasksInput{Group: ColumnsByDay})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-01", "2024-01-02", UnscheduledColumn}, keys(out.Columns))
	assert.Equal(t, []string{"Early call", "Call bank"}, titles(out.Columns[0].Tasks), "all-day first")
	assert.Equal(t, "Mon, Jan 1", out.Columns[0].Title)
	assert.Equal(t, []string{"Read book"}, titles(out.Columns[2].Tasks))
	assert.Equal(t, domain.GroupByProject, out.Grouping)
}

func TestListTasks_Execute_IncludeDone(t *testing.T) {
	f := newFixture()
	seedBoard(f)
	uc := NewListTasks(f.store, f.transformer, f.settings)

	out, err := uc.Execute(context.Background(), ListTasksInput{Group: ColumnsByDay, IncludeDone: true})

	require.NoError(t, err)
	assert.Contains(t, titles(out.Columns[0].Tasks), "Pay rent")
}

func TestListTasks_Execute_ByProject(t *testing.T) {
	f := newFixture()
	seedBoard(f)
	f.addBlock("j", "TODO", "Journal note", "2024_01_05", "")
	uc := NewListTasks(f.store, f.transformer, f.settings)

	out, err := uc.Execute(context.Background(), ListTasksInput{Group: ColumnsByCategory})

	require.NoError(t, err)
	assert.Equal(t, []string{"home", "work", "2024_01_05"}, keys(out.Columns), "favorites first, journals last")
	assert.Equal(t, "Home", out.Columns[0].Title)
	assert.Equal(t, []string{"Early call", "Plan week", "Read book"}, titles(out.Columns[1].Tasks))
}

func TestListTasks_Execute_ByFilter(t *testing.T) {
	f := newFixture().withFilters("F2", "F1")
	seedBoard(f)
	f.store.Matches["F1"] = []string{"a", "b"}
	f.store.Matches["F2"] = []string{"b"}
	uc := NewListTasks(f.store, f.transformer, f.settings)

	out, err := uc.Execute(context.Background(), ListTasksInput{Group: ColumnsByCategory})

	require.NoError(t, err)
	assert.Equal(t, domain.GroupByFilter, out.Grouping)
	assert.Equal(t, []string{"F1", "F2"}, keys(out.Columns), "definition order")
	assert.Equal(t, []string{"Call bank", "Plan week"}, titles(out.Columns[0].Tasks))
	assert.Equal(t, []string{"Call bank"}, titles(out.Columns[1].Tasks))
	assert.Equal(t, 3, out.Hidden)
	assert.Equal(t, 1, f.store.FilterCalls, "filters are evaluated once per listing")
}

func TestListTasks_Execute_ListError(t *testing.T) {
	f := newFixture()
	f.store.ListErr = errors.New("unreadable graph")
	uc := NewListTasks(f.store, f.transformer, f.settings)

	_, err := uc.Execute(context.Background(), ListTasksInput{})

	assert.ErrorIs(t, err, f.store.ListErr)
}

func TestParseColumnGrouping(t *testing.T) {
	g, err := ParseColumnGrouping("")
	require.NoError(t, err)
	assert.Equal(t, ColumnsByDay, g)

	g, err = ParseColumnGrouping("project")
	require.NoError(t, err)
	assert.Equal(t, ColumnsByCategory, g)

	_, err = ParseColumnGrouping("week")
	assert.Error(t, err)
}

func TestListAgenda_Execute_Week(t *testing.T) {
	// Setup: now is Monday 2024-01-01 12:00
	f := newFixture()
	seedBoard(f)
	f.addBlock("x", "TODO", "Next week", "work", "2024-01-08")
	uc := NewListAgenda(f.store, f.transformer, f.settings, 0, f.clock)

	// Execute
	out, err := uc.Execute(context.Background(), ListAgendaInput{View: domain.ViewWeek})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, at("2023-12-31 00:00"), out.Start)
	assert.Equal(t, at("2024-01-07 00:00"), out.End)
	assert.Len(t, out.Days, 7)

	var got []string
	for _, ev := range out.Events {
		got = append(got, ev.Title)
	}
	assert.Equal(t, []string{"Early call", "Pay rent", "Call bank", "Plan week"}, got)

	call := out.Events[2]
	assert.Equal(t, at("2024-01-01 10:30"), call.End, "default duration")
	assert.True(t, call.ShowTimeText)
	assert.True(t, out.Events[1].Done)
}

func TestListAgenda_Execute_Navigation(t *testing.T) {
	f := newFixture()
	f.addBlock("x", "TODO", "Next week", "work", "2024-01-08")
	uc := NewListAgenda(f.store, f.transformer, f.settings, 0, f.clock)

	out, err := uc.Execute(context.Background(), ListAgendaInput{View: domain.ViewWeek, Step: 1})
	require.NoError(t, err)
	require.Len(t, out.Events, 1)
	assert.Equal(t, "Next week", out.Events[0].Title)

	out, err = uc.Execute(context.Background(), ListAgendaInput{View: domain.ViewWeek, Anchor: out.Anchor, Today: true})
	require.NoError(t, err)
	assert.Empty(t, out.Events)
	assert.Equal(t, at("2024-01-01 00:00"), out.Anchor)
}

func TestListAgenda_Execute_RecurringOccurrences(t *testing.T) {
	f := newFixture()
	raw := f.addBlock("r", "TODO", "Standup", "work", "2023-12-25 09:00")
	raw.Properties["repeat"] = "+1d"
	uc := NewListAgenda(f.store, f.transformer, f.settings, 0, f.clock)

	out, err := uc.Execute(context.Background(), ListAgendaInput{View: domain.ViewWeek})

	require.NoError(t, err)
	require.Len(t, out.Events, 7)
	assert.Equal(t, at("2023-12-31 09:00"), out.Events[0].Start)
	assert.True(t, out.Events[0].Task.RecurringPast)
	assert.False(t, out.Events[2].Task.RecurringPast, "Jan 2 is in the future")
}

func TestListAgenda_Execute_FiltersAndDone(t *testing.T) {
	f := newFixture().withFilters("F1")
	seedBoard(f)
	f.store.Matches["F1"] = []string{"a", "c"}
	uc := NewListAgenda(f.store, f.transformer, f.settings, 0, f.clock)

	out, err := uc.Execute(context.Background(), ListAgendaInput{View: domain.ViewWeek, HideDone: true})

	require.NoError(t, err)
	require.Len(t, out.Events, 1)
	assert.Equal(t, "Plan week", out.Events[0].Title)
	assert.Equal(t, 2, out.Hidden, "unscheduled tasks are not counted")
}

func TestListAgenda_Execute_HiddenCountsOnlyWindow(t *testing.T) {
	f := newFixture().withFilters("F1")
	f.addBlock("in", "TODO", "This week", "work", "2024-01-03")
	f.addBlock("later", "TODO", "Next month", "work", "2024-02-14")
	f.addBlock("before", "TODO", "Last month", "work", "2023-12-01 09:00")
	standup := f.addBlock("daily", "TODO", "Standup", "work", "2023-06-01 09:00")
	standup.Properties["repeat"] = "+1d"
	uc := NewListAgenda(f.store, f.transformer, f.settings, 0, f.clock)

	out, err := uc.Execute(context.Background(), ListAgendaInput{View: domain.ViewWeek})

	require.NoError(t, err)
	assert.Empty(t, out.Events)
	assert.Equal(t, 2, out.Hidden, "this week's task and the recurring one")
}

func TestListAgenda_Execute_MonthWithMondayStart(t *testing.T) {
	f := newFixture()
	uc := NewListAgenda(f.store, f.transformer, f.settings, 0, f.clock)
	monday := time.Monday

	out, err := uc.Execute(context.Background(), ListAgendaInput{View: domain.ViewMonth, WeekStart: &monday})

	require.NoError(t, err)
	assert.Equal(t, at("2024-01-01 00:00"), out.Start)
	assert.Equal(t, at("2024-02-05 00:00"), out.End)
	assert.Len(t, out.Days, 35)
}
