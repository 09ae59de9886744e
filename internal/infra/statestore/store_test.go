package statestore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/runoshun/git-agenda/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), ".agenda", "state.json"))
}

func TestStore_Load_Default(t *testing.T) {
	s := newTestStore(t)

	state, err := s.Load()

	require.NoError(t, err)
	assert.Equal(t, domain.NewDefaultAppState(), state)
	assert.NoFileExists(t, s.path, "loading does not create the file")
}

func TestStore_SaveAndLoad(t *testing.T) {
	s := newTestStore(t)
	want := &domain.AppState{
		View:            domain.ViewCalendar,
		CalendarView:    domain.ViewMonth,
		SelectedFilters: []domain.FilterID{"work", "errands"},
	}

	require.NoError(t, s.Save(want))
	got, err := s.Load()

	require.NoError(t, err)
	assert.Equal(t, want, got)

	content, err := os.ReadFile(s.path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"calendarView": "dayGridMonth"`)
	assert.Contains(t, string(content), `"version": 1`)
}

func TestStore_Load_FillsMissingFields(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.path), 0o750))
	require.NoError(t, os.WriteFile(s.path, []byte(`{"state":{"selectedFilters":["a"]}}`), 0o600))

	got, err := s.Load()

	require.NoError(t, err)
	assert.Equal(t, domain.ViewTasks, got.View)
	assert.Equal(t, domain.ViewWeek, got.CalendarView)
	assert.Equal(t, []domain.FilterID{"a"}, got.SelectedFilters)
}

func TestStore_Load_Corrupt(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.path), 0o750))
	require.NoError(t, os.WriteFile(s.path, []byte("{"), 0o600))

	_, err := s.Load()

	assert.ErrorContains(t, err, "parse state file")
}

func TestStore_Save_Nil(t *testing.T) {
	assert.Error(t, newTestStore(t).Save(nil))
}
