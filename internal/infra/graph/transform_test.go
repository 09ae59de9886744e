package graph

import (
	"testing"
	"time"

	"github.com/runoshun/git-agenda/internal/domain"
	"github.com/runoshun/git-agenda/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var utcSettings = domain.Settings{Location: time.UTC}

func TestTransformer_TimedRangeWithLogs(t *testing.T) {
	// Setup
	raw := &domain.RawBlock{
		UUID:      "b1",
		Marker:    domain.MarkerDoing,
		Content:   "Write report",
		Page:      "work",
		Scheduled: "2024-01-01 Mon 09:00",
		Deadline:  "2024-01-01 Mon 11:00",
		Properties: map[string]string{
			"estimated": "1h30m",
		},
		Logbook: []string{
			"[2024-01-01 Mon 09:00:00]--[2024-01-01 Mon 09:30:00] =>  00:30:00",
			"[2024-01-01 Mon 10:00:00]",
		},
	}
	page := &domain.PageInfo{Name: "work", OriginalName: "Work"}

	// Execute
	task, err := NewTransformer(nil).TransformBlockToTask(raw, page, []string{"work"}, utcSettings)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "b1", task.ID)
	assert.Equal(t, domain.StatusTodo, task.Status)
	assert.False(t, task.AllDay)
	assert.Equal(t, at("2024-01-01 09:00"), *task.Start)
	assert.Equal(t, at("2024-01-01 11:00"), *task.End)
	assert.Equal(t, domain.Minutes(90), *task.EstimatedTime)
	require.Len(t, task.TimeLogs, 1, "running clock skipped")
	assert.Equal(t, domain.Minutes(30), task.ActualTime())
	assert.Equal(t, "work", task.ProjectID)
	assert.True(t, task.Project.IsFavorite)
	assert.Equal(t, *raw, task.RawBlock)
}

func TestTransformer_AllDayRecurring(t *testing.T) {
	raw := &domain.RawBlock{UUID: "r", Marker: domain.MarkerDone, Content: "Backup", Scheduled: "2024-01-01 Mon ++1w"}

	task, err := NewTransformer(nil).TransformBlockToTask(raw, &domain.PageInfo{Name: "2024_01_01", IsJournal: true, JournalDay: 20240101}, nil, utcSettings)

	require.NoError(t, err)
	assert.True(t, task.AllDay)
	assert.Equal(t, domain.StatusDone, task.Status)
	require.NotNil(t, task.RRule)
	assert.Equal(t, "++1w", task.RRule.String())
	assert.True(t, task.IsScheduleLocked())
	assert.True(t, task.Project.IsJournal)
	assert.False(t, task.Project.IsFavorite)
}

func TestTransformer_DeadlineOnly(t *testing.T) {
	raw := &domain.RawBlock{UUID: "d", Marker: domain.MarkerTodo, Deadline: "2024-01-05 Fri"}

	task, err := NewTransformer(nil).TransformBlockToTask(raw, &domain.PageInfo{Name: "x"}, nil, utcSettings)

	require.NoError(t, err)
	assert.Equal(t, at("2024-01-05 00:00"), *task.Start)
	assert.Nil(t, task.End)
	assert.True(t, task.AllDay)
}

func TestTransformer_MalformedFieldsAreSkipped(t *testing.T) {
	logger := &testutil.MockLogger{}
	raw := &domain.RawBlock{
		UUID:       "m",
		Marker:     domain.MarkerTodo,
		Scheduled:  "someday",
		Properties: map[string]string{"estimated": "a while"},
	}

	task, err := NewTransformer(logger).TransformBlockToTask(raw, &domain.PageInfo{Name: "x"}, nil, utcSettings)

	require.NoError(t, err)
	assert.Nil(t, task.Start)
	assert.Nil(t, task.EstimatedTime)
	assert.Equal(t, []string{"WARN", "WARN"}, logger.Levels())
}

func TestTransformer_DeadlineBeforeStartIgnored(t *testing.T) {
	raw := &domain.RawBlock{UUID: "x", Marker: domain.MarkerTodo, Scheduled: "2024-01-05 Fri", Deadline: "2024-01-01 Mon"}

	task, err := NewTransformer(nil).TransformBlockToTask(raw, &domain.PageInfo{Name: "x"}, nil, utcSettings)

	require.NoError(t, err)
	assert.Nil(t, task.End)
}

func TestTransformer_MissingPage(t *testing.T) {
	_, err := NewTransformer(nil).TransformBlockToTask(&domain.RawBlock{Page: "gone"}, nil, nil, utcSettings)

	assert.ErrorIs(t, err, domain.ErrPageLookupFailed)
}
