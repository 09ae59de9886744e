package graph

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/runoshun/git-agenda/internal/domain"
	"github.com/runoshun/git-agenda/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type historyCall struct {
	message string
	paths   []string
}

type recordingHistory struct {
	err   error
	calls []historyCall
}

func (h *recordingHistory) Record(_ context.Context, paths []string, message string) error {
	h.calls = append(h.calls, historyCall{message: message, paths: paths})
	return h.err
}

func newTestStore(t *testing.T) (*Store, *recordingHistory) {
	t.Helper()
	n := 0
	history := &recordingHistory{}
	s := New(t.TempDir(), Options{
		Location: time.UTC,
		Clock:    &testutil.MockClock{NowTime: at("2024-01-01 12:00")},
		History:  history,
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	})
	require.NoError(t, s.Initialize())
	history.calls = nil
	return s, history
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func ptrTo[T any](v T) *T { return &v }

func TestStore_Initialize(t *testing.T) {
	s := New(t.TempDir(), Options{})
	assert.False(t, s.IsInitialized())

	require.NoError(t, s.Initialize())
	assert.True(t, s.IsInitialized())
	assert.FileExists(t, filepath.Join(s.Dir(), "logseq", "config.edn"))

	writeFile(t, filepath.Join(s.Dir(), "logseq", "config.edn"), `{:favorites ["mine"]}`)
	require.NoError(t, s.Initialize())
	favs, err := s.GetFavorites(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"mine"}, favs, "existing config is kept")
}

func TestStore_CreateBlock_OnPage(t *testing.T) {
	// Setup
	s, history := newTestStore(t)
	start := at("2024-01-01 09:00")
	draft := domain.BlockDraft{
		Title:         "Write proposal",
		ProjectID:     "Work",
		Marker:        domain.MarkerTodo,
		Placement:     domain.Placement{Start: &start},
		EstimatedTime: ptrTo(domain.Minutes(60)),
		TimeLogs:      []domain.TimeLog{{Start: at("2024-01-01 09:00"), End: at("2024-01-01 09:30"), Amount: 30}},
	}

	// Execute
	raw, err := s.CreateBlock(context.Background(), draft)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "id-1", raw.UUID)
	assert.Equal(t, "work", raw.Page)
	assert.Equal(t, "2024-01-01 Mon 09:00", raw.Scheduled)
	assert.Equal(t, "60", raw.Properties["estimated"])
	assert.Equal(t, "title:: Work\n"+
		"- TODO Write proposal\n"+
		"  estimated:: 60\n"+
		"  id:: id-1\n"+
		"  SCHEDULED: <2024-01-01 Mon 09:00>\n"+
		"  :LOGBOOK:\n"+
		"  CLOCK: [2024-01-01 Mon 09:00:00]--[2024-01-01 Mon 09:30:00] =>  00:30:00\n"+
		"  :END:\n", readFile(t, filepath.Join(s.Dir(), "pages", "Work.md")))
	require.Len(t, history.calls, 1)
	assert.Equal(t, []string{"pages/Work.md"}, history.calls[0].paths)
	assert.Equal(t, "Add TODO Write proposal", history.calls[0].message)

	got, err := s.GetBlock(context.Background(), "id-1")
	require.NoError(t, err)
	assert.Equal(t, raw, got)
}

func TestStore_CreateBlock_Journal(t *testing.T) {
	s, _ := newTestStore(t)

	unscheduled, err := s.CreateBlock(context.Background(), domain.BlockDraft{Title: "Inbox"})
	require.NoError(t, err)
	start := at("2024-02-03 00:00")
	dated, err := s.CreateBlock(context.Background(), domain.BlockDraft{Title: "Dated", Placement: domain.Placement{Start: &start, AllDay: true}})
	require.NoError(t, err)

	assert.Equal(t, "2024_01_01", unscheduled.Page, "today's journal")
	assert.Equal(t, domain.MarkerTodo, unscheduled.Marker)
	assert.Equal(t, "2024_02_03", dated.Page)
	assert.Equal(t, "2024-02-03 Sat", dated.Scheduled)
	assert.FileExists(t, filepath.Join(s.Dir(), "journals", "2024_02_03.md"))
}

func TestStore_CreateBlock_RepeaterNeedsDate(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.CreateBlock(context.Background(), domain.BlockDraft{Title: "Loose", RRule: &domain.RecurrenceRule{Kind: domain.RepeatCumulate, Interval: 1, Unit: domain.UnitDay}})

	assert.ErrorIs(t, err, domain.ErrInvalidRecurrence)
}

func TestStore_UpdateBlock(t *testing.T) {
	s, history := newTestStore(t)
	start := at("2024-01-01 00:00")
	raw, err := s.CreateBlock(context.Background(), domain.BlockDraft{
		Title:         "Review",
		ProjectID:     "work",
		Placement:     domain.Placement{Start: &start, AllDay: true},
		EstimatedTime: ptrTo(domain.Minutes(30)),
		RRule:         &domain.RecurrenceRule{Kind: domain.RepeatRestart, Interval: 1, Unit: domain.UnitWeek},
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01 Mon .+1w", raw.Scheduled)

	t.Run("placement keeps the repeater", func(t *testing.T) {
		s2, e2 := at("2024-01-02 10:00"), at("2024-01-02 11:30")
		got, err := s.UpdateBlock(context.Background(), raw.UUID, domain.BlockDelta{
			Placement: &domain.Placement{Start: &s2, End: &e2},
		})
		require.NoError(t, err)
		assert.Equal(t, "2024-01-02 Tue 10:00 .+1w", got.Scheduled)
		assert.Equal(t, "2024-01-02 Tue 11:30", got.Deadline)
	})

	t.Run("clear repeater and estimate", func(t *testing.T) {
		got, err := s.UpdateBlock(context.Background(), raw.UUID, domain.BlockDelta{
			ClearRRule:    true,
			EstimatedTime: ptrTo(domain.Minutes(0)),
		})
		require.NoError(t, err)
		assert.Equal(t, "2024-01-02 Tue 10:00", got.Scheduled)
		assert.NotContains(t, got.Properties, "estimated")
	})

	t.Run("title marker and logs", func(t *testing.T) {
		done := domain.MarkerDone
		logs := []domain.TimeLog{{Start: at("2024-01-02 10:00"), End: at("2024-01-02 10:20"), Amount: 20}}
		got, err := s.UpdateBlock(context.Background(), raw.UUID, domain.BlockDelta{
			Title:    ptrTo("Review PR"),
			Marker:   &done,
			TimeLogs: &logs,
		})
		require.NoError(t, err)
		assert.Equal(t, "Review PR", got.Content)
		assert.Equal(t, domain.MarkerDone, got.Marker)
		assert.Len(t, got.Logbook, 1)
	})

	t.Run("unschedule", func(t *testing.T) {
		got, err := s.UpdateBlock(context.Background(), raw.UUID, domain.BlockDelta{Placement: &domain.Placement{AllDay: true}})
		require.NoError(t, err)
		assert.Empty(t, got.Scheduled)
		assert.Empty(t, got.Deadline)
	})

	content := readFile(t, filepath.Join(s.Dir(), "pages", "work.md"))
	assert.Contains(t, content, "- DONE Review PR\n")
	assert.NotContains(t, content, "SCHEDULED")
	assert.Len(t, history.calls, 5)
}

func TestStore_UpdateBlock_MoveProject(t *testing.T) {
	s, history := newTestStore(t)
	writeFile(t, filepath.Join(s.Dir(), "pages", "home.md"), "- TODO Paint fence\n  id:: p1\n\t- TODO Buy paint\n\t  id:: p2\n- Other note\n")

	got, err := s.UpdateBlock(context.Background(), "p1", domain.BlockDelta{ProjectID: ptrTo("Garden")})

	require.NoError(t, err)
	assert.Equal(t, "garden", got.Page)
	assert.Equal(t, "- Other note\n", readFile(t, filepath.Join(s.Dir(), "pages", "home.md")))
	assert.Equal(t, "title:: Garden\n- TODO Paint fence\n  id:: p1\n\t- TODO Buy paint\n\t  id:: p2\n",
		readFile(t, filepath.Join(s.Dir(), "pages", "Garden.md")))
	child, err := s.GetBlock(context.Background(), "p2")
	require.NoError(t, err)
	assert.Equal(t, "garden", child.Page)
	assert.ElementsMatch(t, []string{"pages/home.md", "pages/Garden.md"}, history.calls[0].paths)
}

func TestStore_UpdateBlock_NotFound(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.UpdateBlock(context.Background(), "nope", domain.BlockDelta{Title: ptrTo("x")})

	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestStore_DeleteBlock(t *testing.T) {
	s, history := newTestStore(t)
	path := filepath.Join(s.Dir(), "pages", "home.md")
	writeFile(t, path, "- TODO Paint fence\n  id:: p1\n  - TODO Buy paint\n    id:: p2\n- LATER Rest\n  id:: p3\n")

	require.NoError(t, s.DeleteBlock(context.Background(), "p1"))
	require.NoError(t, s.DeleteBlock(context.Background(), "p1"), "idempotent")

	assert.Equal(t, "- LATER Rest\n  id:: p3\n", readFile(t, path))
	got, err := s.GetBlock(context.Background(), "p2")
	require.NoError(t, err)
	assert.Nil(t, got, "children are removed with the block")
	assert.Len(t, history.calls, 1)
}

func TestStore_ListBlocks_AssignsIDs(t *testing.T) {
	s, history := newTestStore(t)
	path := filepath.Join(s.Dir(), "journals", "2024_01_05.md")
	writeFile(t, path, "- TODO One\n- plain\n- DONE Two\n  id:: keep\n- NOW Three\n")

	blocks, err := s.ListBlocks(context.Background())
	require.NoError(t, err)

	require.Len(t, blocks, 3)
	var ids []string
	for _, b := range blocks {
		ids = append(ids, b.UUID)
		assert.Equal(t, "2024_01_05", b.Page)
	}
	assert.Equal(t, []string{"id-2", "keep", "id-1"}, ids, "assigned bottom-up")
	assert.Equal(t, "- TODO One\n  id:: id-2\n- plain\n- DONE Two\n  id:: keep\n- NOW Three\n  id:: id-1\n", readFile(t, path))
	require.Len(t, history.calls, 1)
	assert.Equal(t, "Assign block ids", history.calls[0].message)

	again, err := s.ListBlocks(context.Background())
	require.NoError(t, err)
	assert.Len(t, again, 3)
	assert.Len(t, history.calls, 1, "nothing left to assign")
}

func TestStore_Pages(t *testing.T) {
	s, _ := newTestStore(t)
	writeFile(t, filepath.Join(s.Dir(), "pages", "proj___alpha.md"), "- TODO A\n  id:: a\n")
	writeFile(t, filepath.Join(s.Dir(), "pages", "misc.md"), "title:: Odds & Ends\n\n- TODO B\n  id:: b\n")
	ctx := context.Background()

	ns, err := s.GetPage(ctx, "Proj/Alpha")
	require.NoError(t, err)
	require.NotNil(t, ns)
	assert.Equal(t, "proj/alpha", ns.Name)

	titled, err := s.GetPage(ctx, "odds & ends")
	require.NoError(t, err)
	require.NotNil(t, titled)
	assert.Equal(t, "Odds & Ends", titled.OriginalName)
	b, err := s.GetBlock(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "odds & ends", b.Page)

	journal, err := s.GetPage(ctx, "2024_03_02")
	require.NoError(t, err)
	require.NotNil(t, journal)
	assert.True(t, journal.IsJournal)
	assert.Equal(t, 20240302, journal.JournalDay)
	assert.Equal(t, "Mar 2nd, 2024", journal.OriginalName)

	missing, err := s.GetPage(ctx, "nowhere")
	require.NoError(t, err)
	assert.Nil(t, missing)

	created, err := s.CreatePage(ctx, "Garden")
	require.NoError(t, err)
	assert.Equal(t, "garden", created.Name)
	again, err := s.CreatePage(ctx, "garden")
	require.NoError(t, err)
	assert.Equal(t, "Garden", again.OriginalName)
	assert.FileExists(t, filepath.Join(s.Dir(), "pages", "Garden.md"))
}

func TestStore_RetrieveFilteredBlocks(t *testing.T) {
	s, _ := newTestStore(t)
	writeFile(t, filepath.Join(s.Dir(), "pages", "work.md"), "- TODO Call bank #finance\n  id:: w1\n- DONE File taxes #finance\n  id:: w2\n")
	writeFile(t, filepath.Join(s.Dir(), "pages", "home.md"), "- TODO Water plants\n  id:: h1\n")
	filters := []domain.Filter{
		{ID: "F1", Query: "tag:finance -marker:DONE"},
		{ID: "F2", Query: "page:home"},
		{ID: "F3", Query: "plants page:work"},
	}

	matches, err := s.RetrieveFilteredBlocks(context.Background(), filters)

	require.NoError(t, err)
	assert.Equal(t, []string{"w1"}, matches["F1"])
	assert.Equal(t, []string{"h1"}, matches["F2"])
	assert.Empty(t, matches["F3"])

	_, err = s.RetrieveFilteredBlocks(context.Background(), []domain.Filter{{ID: "bad", Query: "nope:x"}})
	assert.ErrorIs(t, err, domain.ErrInvalidQuery)
}

func TestStore_HistoryFailureDoesNotFailWrite(t *testing.T) {
	s, history := newTestStore(t)
	history.err = errors.New("not a git repository")
	logger := &testutil.MockLogger{}
	s.opts.Logger = logger

	raw, err := s.CreateBlock(context.Background(), domain.BlockDraft{Title: "Still saved", ProjectID: "work"})

	require.NoError(t, err)
	got, err := s.GetBlock(context.Background(), raw.UUID)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, []string{"WARN"}, logger.Levels())
}

func TestStore_CanceledContext(t *testing.T) {
	s, _ := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ListBlocks(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}
