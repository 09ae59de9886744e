package tui

import (
	"regexp"
	"testing"
	"time"

	"github.com/runoshun/git-agenda/internal/domain"
	"github.com/runoshun/git-agenda/internal/usecase"
	"github.com/stretchr/testify/assert"
)

func TestView_Board(t *testing.T) {
	m, _ := newTestModel(t)

	view := m.View()

	assert.Contains(t, view, "Tasks")
	assert.Contains(t, view, "2 task(s) by day")
	assert.Contains(t, view, "Wed, Jan 3 (1)")
	assert.Contains(t, view, "Unscheduled (1)")
	assert.Contains(t, view, "Write report")
	assert.Contains(t, view, "2024-01-03 10:00")
	assert.Contains(t, view, "unscheduled")
	assert.Contains(t, view, "1/2")
}

func TestView_EmptyBoard(t *testing.T) {
	m, _ := newTestModel(t, "pages/empty.md", "title:: Empty\n")

	assert.Contains(t, m.View(), "No tasks. Press n to create one.")
}

func TestView_CalendarWeek(t *testing.T) {
	m, _ := newTestModel(t)
	press(t, m, "tab")

	view := m.View()

	assert.Contains(t, view, "Calendar")
	assert.Contains(t, view, "Sun 2023-12-31 - Sat 2024-01-06")
	assert.Contains(t, view, "Wed 01/03 •")
	assert.Contains(t, view, "Thu 01/04")
	assert.Contains(t, view, "10:00 - 10:30")
	assert.Contains(t, view, "calendar:week")
}

func TestView_CalendarMonth(t *testing.T) {
	m, _ := newTestModel(t)
	press(t, m, "tab", "m")

	view := m.View()

	assert.Contains(t, view, "Sun 2023-12-31 - Sat 2024-02-03")
	assert.Contains(t, view, "10:00 Write")
	assert.Contains(t, view, "calendar:month")
}

func TestView_DayOverflow(t *testing.T) {
	m, _ := newTestModel(t)
	press(t, m, "tab")
	day := time.Date(2024, 1, 5, 0, 0, 0, 0, time.Local)
	for i := range 5 {
		start := day.Add(time.Duration(8+i) * time.Hour)
		m.agenda.Events = append(m.agenda.Events, domain.CalendarEvent{
			Start: start,
			End:   start.Add(30 * time.Minute),
			Title: "Busy",
		})
	}

	out := m.viewDay(day, domain.DateOf(testNow), 20, 4, false)

	assert.Contains(t, out, "Fri 01/05")
	assert.Contains(t, out, "+3 more")
}

func TestCardMeta(t *testing.T) {
	start := time.Date(2024, 1, 3, 10, 0, 0, 0, time.Local)
	est := domain.Minutes(45)
	rule, err := domain.ParseRecurrenceRule(".+1d")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		task *domain.Task
		want string
	}{
		{
			name: "unscheduled",
			task: &domain.Task{},
			want: "unscheduled",
		},
		{
			name: "journal page is not shown",
			task: &domain.Task{Project: domain.Project{OriginalName: "Jan 3rd, 2024", IsJournal: true}},
			want: "unscheduled",
		},
		{
			name: "all fields",
			task: &domain.Task{
				Start:         &start,
				EstimatedTime: &est,
				Project:       domain.Project{OriginalName: "Work"},
				TimeLogs:      []domain.TimeLog{{Start: start, End: start.Add(time.Hour), Amount: 60}},
			},
			want: "2024-01-03 10:00 · est 45m · 1h logged · Work",
		},
		{
			name: "recurring",
			task: &domain.Task{Start: &start, RRule: rule},
			want: "2024-01-03 10:00 · ↻ .+1d",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cardMeta(tt.task))
		})
	}
}

func TestClip(t *testing.T) {
	assert.Equal(t, "abc…", clip("abcdef", 4))
	assert.Equal(t, "ab", clip("ab", 4))
	assert.Empty(t, clip("abc", 0))
}

func TestBlockSource(t *testing.T) {
	raw := domain.RawBlock{
		Marker:     domain.MarkerTodo,
		Content:    "Write report",
		Scheduled:  "2024-01-03 Wed 10:00",
		Deadline:   "2024-01-05 Fri",
		Properties: map[string]string{"id": "r1", "estimated": "45"},
		Logbook:    []string{"CLOCK: [2024-01-03 Wed 10:00:00]--[2024-01-03 Wed 10:30:00] =>  00:30:00"},
	}

	want := "- TODO Write report\n" +
		"  SCHEDULED: <2024-01-03 Wed 10:00>\n" +
		"  DEADLINE: <2024-01-05 Fri>\n" +
		"  estimated:: 45\n" +
		"  id:: r1\n" +
		"  :LOGBOOK:\n" +
		"  CLOCK: [2024-01-03 Wed 10:00:00]--[2024-01-03 Wed 10:30:00] =>  00:30:00\n" +
		"  :END:\n"
	assert.Equal(t, want, blockSource(raw))
}

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func TestHighlightBlock(t *testing.T) {
	src := "- TODO Write report\n  SCHEDULED: <2024-01-03 Wed 10:00>\n"

	out := highlightBlock(src)

	assert.NotEqual(t, src, out, "output is colored")
	assert.Contains(t, ansi.ReplaceAllString(out, ""), "SCHEDULED")
}

func TestRenderDetail(t *testing.T) {
	start := time.Date(2024, 1, 3, 10, 0, 0, 0, time.Local)
	out := &usecase.ShowTaskOutput{
		Task: &domain.Task{
			ID:      "r1",
			Title:   "Write report",
			Status:  domain.StatusDone,
			Start:   &start,
			Project: domain.Project{OriginalName: "Work"},
			TimeLogs: []domain.TimeLog{
				{Start: start, End: start.Add(30 * time.Minute), Amount: 30},
			},
			RawBlock: domain.RawBlock{Marker: domain.MarkerDone, Content: "Write report"},
		},
		Placement:  "2024-01-03 10:00",
		ActualTime: 30,
		Locked:     true,
		Visibility: domain.Visibility{Hidden: true},
	}

	text := ansi.ReplaceAllString(renderDetail(DefaultStyles(), out), "")

	assert.Contains(t, text, "✓ Done")
	assert.Contains(t, text, "Work")
	assert.Contains(t, text, "2024-01-03 10:00 (recurring, read-only)")
	assert.Contains(t, text, "[0] 2024-01-03 10:00 - 2024-01-03 10:30  30m")
	assert.Contains(t, text, "task is hidden")
	assert.Contains(t, text, "Block")
}
