package usecase

import (
	"time"

	"github.com/runoshun/git-agenda/internal/domain"
	"github.com/runoshun/git-agenda/internal/testutil"
)

// fixture bundles the doubles most use case tests need.
type fixture struct {
	store       *testutil.MockBlockStore
	transformer *testutil.MockTransformer
	clock       *testutil.MockClock
	logger      *testutil.MockLogger
	settings    domain.Settings
}

func newFixture() *fixture {
	store := testutil.NewMockBlockStore()
	store.AddPage("Work")
	return &fixture{
		store:       store,
		transformer: &testutil.MockTransformer{},
		clock:       &testutil.MockClock{NowTime: at("2024-01-01 12:00")},
		logger:      &testutil.MockLogger{},
		settings: domain.Settings{
			Location:             time.UTC,
			DefaultEventDuration: domain.DefaultEventDuration,
		},
	}
}

// withFilters defines filters and selects the given ones.
func (f *fixture) withFilters(selected ...domain.FilterID) *fixture {
	f.settings.Filters = []domain.Filter{
		{ID: "F1", Name: "Focus"},
		{ID: "F2", Name: "Errands"},
		{ID: "F3", Name: "Someday"},
	}
	f.settings.SelectedFilters = selected
	return f
}

// addBlock stores a block directly. scheduled uses the mock store's layouts.
func (f *fixture) addBlock(id, marker, title, page, scheduled string) *domain.RawBlock {
	raw := &domain.RawBlock{
		UUID:       id,
		Marker:     domain.Marker(marker),
		Content:    title,
		Page:       page,
		Scheduled:  scheduled,
		Properties: map[string]string{},
	}
	f.store.Blocks[id] = raw
	return raw
}

func at(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr[T any](v T) *T { return &v }

func logAt(start, end string) domain.TimeLog {
	l, err := domain.NewTimeLog(at(start), at(end))
	if err != nil {
		panic(err)
	}
	return l
}
