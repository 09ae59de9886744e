// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/runoshun/git-agenda/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// MockBlockStore is an in-memory test double for domain.BlockStore.
// Blocks are kept as given; drafts and deltas are applied with the same field
// mapping the markdown graph store uses.
// Fields are ordered to minimize memory padding.
type MockBlockStore struct {
	Blocks      map[string]*domain.RawBlock
	Pages       map[string]*domain.PageInfo
	Matches     domain.FilterMatches
	CreateErr   error
	UpdateErr   error
	DeleteErr   error
	GetErr      error
	ListErr     error
	PageErr     error
	FavErr      error
	FilterErr   error
	Favorites   []string
	Deleted     []string
	Updates     []domain.BlockDelta
	Drafts      []domain.BlockDraft
	FilterCalls int
	NextIDN     int
	// BeforeReturn runs after a mutation is applied and before it returns.
	BeforeReturn func()
	mu           sync.Mutex
}

// NewMockBlockStore creates a new MockBlockStore with initialized maps.
func NewMockBlockStore() *MockBlockStore {
	return &MockBlockStore{
		Blocks:  make(map[string]*domain.RawBlock),
		Pages:   make(map[string]*domain.PageInfo),
		Matches: make(domain.FilterMatches),
		NextIDN: 1,
	}
}

// AddPage registers a page under its lower-cased name.
func (m *MockBlockStore) AddPage(name string) *domain.PageInfo {
	p := &domain.PageInfo{Name: strings.ToLower(name), OriginalName: name}
	m.Pages[p.Name] = p
	return p
}

// CreateBlock stores a block built from the draft.
func (m *MockBlockStore) CreateBlock(_ context.Context, draft domain.BlockDraft) (*domain.RawBlock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	m.Drafts = append(m.Drafts, draft)
	id := fmt.Sprintf("block-%d", m.NextIDN)
	m.NextIDN++
	raw := &domain.RawBlock{
		UUID:       id,
		Marker:     draft.Marker,
		Content:    draft.Title,
		Page:       strings.ToLower(draft.ProjectID),
		Properties: make(map[string]string),
	}
	if raw.Page == "" {
		day := time.Now()
		if draft.Placement.Start != nil {
			day = *draft.Placement.Start
		}
		raw.Page = day.Format("2006_01_02")
	}
	applyPlacement(raw, draft.Placement)
	if draft.EstimatedTime != nil {
		raw.Properties["estimated"] = fmt.Sprint(int(*draft.EstimatedTime))
	}
	raw.Logbook = logbookOf(draft.TimeLogs)
	if draft.RRule != nil {
		raw.Properties["repeat"] = draft.RRule.String()
	}
	m.Blocks[id] = raw
	m.beforeReturn()
	out := raw.Clone()
	return &out, nil
}

// UpdateBlock applies the delta to a stored block.
func (m *MockBlockStore) UpdateBlock(_ context.Context, id string, delta domain.BlockDelta) (*domain.RawBlock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	raw, ok := m.Blocks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	m.Updates = append(m.Updates, delta)
	if delta.Title != nil {
		raw.Content = *delta.Title
	}
	if delta.Marker != nil {
		raw.Marker = *delta.Marker
	}
	if delta.Placement != nil {
		applyPlacement(raw, *delta.Placement)
	}
	if delta.EstimatedTime != nil {
		if *delta.EstimatedTime == 0 {
			delete(raw.Properties, "estimated")
		} else {
			raw.Properties["estimated"] = fmt.Sprint(int(*delta.EstimatedTime))
		}
	}
	if delta.ProjectID != nil {
		raw.Page = strings.ToLower(*delta.ProjectID)
	}
	if delta.TimeLogs != nil {
		raw.Logbook = logbookOf(*delta.TimeLogs)
	}
	if delta.RRule != nil {
		raw.Properties["repeat"] = delta.RRule.String()
	}
	if delta.ClearRRule {
		delete(raw.Properties, "repeat")
	}
	m.beforeReturn()
	out := raw.Clone()
	return &out, nil
}

// DeleteBlock removes a block; missing blocks are ignored.
func (m *MockBlockStore) DeleteBlock(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.Deleted = append(m.Deleted, id)
	delete(m.Blocks, id)
	return nil
}

// GetBlock returns a copy of a block, or nil.
func (m *MockBlockStore) GetBlock(_ context.Context, id string) (*domain.RawBlock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	raw, ok := m.Blocks[id]
	if !ok {
		return nil, nil
	}
	out := raw.Clone()
	return &out, nil
}

// ListBlocks returns copies of all blocks ordered by id.
func (m *MockBlockStore) ListBlocks(_ context.Context) ([]*domain.RawBlock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	ids := make([]string, 0, len(m.Blocks))
	for id := range m.Blocks {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]*domain.RawBlock, 0, len(ids))
	for _, id := range ids {
		raw := m.Blocks[id].Clone()
		out = append(out, &raw)
	}
	return out, nil
}

// GetPage returns a registered page. Journal pages are synthesized.
func (m *MockBlockStore) GetPage(_ context.Context, name string) (*domain.PageInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PageErr != nil {
		return nil, m.PageErr
	}
	if p, ok := m.Pages[strings.ToLower(name)]; ok {
		return p, nil
	}
	if day, err := time.Parse("2006_01_02", name); err == nil {
		return &domain.PageInfo{
			Name:         name,
			OriginalName: domain.JournalTitle(day),
			JournalDay:   domain.JournalDayOf(day),
			IsJournal:    true,
		}, nil
	}
	return nil, nil
}

// CreatePage registers a page.
func (m *MockBlockStore) CreatePage(_ context.Context, name string) (*domain.PageInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PageErr != nil {
		return nil, m.PageErr
	}
	if p, ok := m.Pages[strings.ToLower(name)]; ok {
		return p, nil
	}
	return m.AddPage(name), nil
}

// GetFavorites returns the configured favorites.
func (m *MockBlockStore) GetFavorites(_ context.Context) ([]string, error) {
	if m.FavErr != nil {
		return nil, m.FavErr
	}
	return m.Favorites, nil
}

// RetrieveFilteredBlocks returns the configured matches restricted to filters.
func (m *MockBlockStore) RetrieveFilteredBlocks(_ context.Context, filters []domain.Filter) (domain.FilterMatches, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FilterCalls++
	if m.FilterErr != nil {
		return nil, m.FilterErr
	}
	out := make(domain.FilterMatches, len(filters))
	for _, f := range filters {
		out[f.ID] = slices.Clone(m.Matches[f.ID])
	}
	return out, nil
}

func (m *MockBlockStore) beforeReturn() {
	if m.BeforeReturn != nil {
		m.BeforeReturn()
	}
}

func applyPlacement(raw *domain.RawBlock, p domain.Placement) {
	raw.Scheduled, raw.Deadline = "", ""
	layout := "2006-01-02 15:04"
	if p.AllDay {
		layout = "2006-01-02"
	}
	if p.Start != nil {
		raw.Scheduled = p.Start.Format(layout)
	}
	if p.End != nil {
		raw.Deadline = p.End.Format(layout)
	}
}

func logbookOf(logs []domain.TimeLog) []string {
	out := make([]string, 0, len(logs))
	for _, l := range logs {
		out = append(out, fmt.Sprintf("%s--%s=%d", l.Start.Format(time.RFC3339), l.End.Format(time.RFC3339), l.Amount))
	}
	return out
}

// MockTransformer is a test double for domain.TaskTransformer that decodes the
// field mapping written by MockBlockStore.
type MockTransformer struct {
	Err   error
	Calls int
}

// TransformBlockToTask converts a raw block written by MockBlockStore.
func (m *MockTransformer) TransformBlockToTask(raw *domain.RawBlock, page *domain.PageInfo, favorites []string, settings domain.Settings) (*domain.Task, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	loc := settings.Location
	if loc == nil {
		loc = time.UTC
	}
	t := &domain.Task{
		ID:       raw.UUID,
		Title:    raw.Content,
		Status:   raw.Marker.Status(),
		AllDay:   true,
		RawBlock: raw.Clone(),
	}
	if page != nil {
		t.ProjectID = page.Name
		t.Project = domain.Project{
			ID:           page.Name,
			OriginalName: page.OriginalName,
			JournalDay:   page.JournalDay,
			IsJournal:    page.IsJournal,
			IsFavorite:   slices.Contains(favorites, page.Name),
		}
	}
	if raw.Scheduled != "" {
		start, allDay, err := parseStamp(raw.Scheduled, loc)
		if err != nil {
			return nil, err
		}
		t.Start, t.AllDay = &start, allDay
	}
	if raw.Deadline != "" {
		end, _, err := parseStamp(raw.Deadline, loc)
		if err != nil {
			return nil, err
		}
		t.End = &end
	}
	if est, ok := raw.Properties["estimated"]; ok {
		var n int
		if _, err := fmt.Sscan(est, &n); err == nil {
			e := domain.Minutes(n)
			t.EstimatedTime = &e
		}
	}
	if rep, ok := raw.Properties["repeat"]; ok {
		rule, err := domain.ParseRecurrenceRule(rep)
		if err != nil {
			return nil, err
		}
		t.RRule = rule
	}
	for _, line := range raw.Logbook {
		parts := splitLog(line)
		if len(parts) != 3 {
			continue
		}
		var amount int
		if _, err := fmt.Sscan(parts[2], &amount); err != nil {
			continue
		}
		s, err1 := time.Parse(time.RFC3339, parts[0])
		e, err2 := time.Parse(time.RFC3339, parts[1])
		if err1 != nil || err2 != nil {
			continue
		}
		t.TimeLogs = append(t.TimeLogs, domain.TimeLog{Start: s.In(loc), End: e.In(loc), Amount: domain.Minutes(amount)})
	}
	return t, nil
}

func parseStamp(s string, loc *time.Location) (time.Time, bool, error) {
	if t, err := time.ParseInLocation("2006-01-02 15:04", s, loc); err == nil {
		return t, false, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	return t, true, err
}

func splitLog(line string) []string {
	startEnd, amount, ok := strings.Cut(line, "=")
	if !ok {
		return nil
	}
	start, end, ok := strings.Cut(startEnd, "--")
	if !ok {
		return nil
	}
	return []string{start, end, amount}
}

// MockAppStateRepository is an in-memory domain.AppStateRepository.
type MockAppStateRepository struct {
	State   *domain.AppState
	LoadErr error
	SaveErr error
	Saves   int
}

// Load returns the stored state or the default state.
func (m *MockAppStateRepository) Load() (*domain.AppState, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.State == nil {
		return domain.NewDefaultAppState(), nil
	}
	s := *m.State
	s.SelectedFilters = slices.Clone(m.State.SelectedFilters)
	return &s, nil
}

// Save stores the state.
func (m *MockAppStateRepository) Save(state *domain.AppState) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	s := *state
	s.SelectedFilters = slices.Clone(state.SelectedFilters)
	m.State = &s
	m.Saves++
	return nil
}

// MockStoreInitializer is a test double for domain.StoreInitializer.
type MockStoreInitializer struct {
	InitErr     error
	Initialized bool
}

// Initialize marks the store as initialized.
func (m *MockStoreInitializer) Initialize() error {
	if m.InitErr != nil {
		return m.InitErr
	}
	m.Initialized = true
	return nil
}

// IsInitialized reports whether Initialize succeeded.
func (m *MockStoreInitializer) IsInitialized() bool {
	return m.Initialized
}

// MockConfigManager is a test double for domain.ConfigManager.
// Fields are ordered to minimize memory padding.
type MockConfigManager struct {
	InitGraphErr     error
	InitGlobalErr    error
	GraphConfigInfo  domain.ConfigInfo
	GlobalConfigInfo domain.ConfigInfo
	InitGraphCalled  bool
	InitGlobalCalled bool
}

// NewMockConfigManager creates a MockConfigManager with default paths.
func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{
		GraphConfigInfo:  domain.ConfigInfo{Path: "/graph/.agenda/config.toml"},
		GlobalConfigInfo: domain.ConfigInfo{Path: "/home/user/.config/git-agenda/config.toml"},
	}
}

// GetGraphConfigInfo returns the configured graph config info.
func (m *MockConfigManager) GetGraphConfigInfo() domain.ConfigInfo {
	return m.GraphConfigInfo
}

// GetGlobalConfigInfo returns the configured global config info.
func (m *MockConfigManager) GetGlobalConfigInfo() domain.ConfigInfo {
	return m.GlobalConfigInfo
}

// InitGraphConfig records the call.
func (m *MockConfigManager) InitGraphConfig(_ *domain.Config) error {
	m.InitGraphCalled = true
	return m.InitGraphErr
}

// InitGlobalConfig records the call.
func (m *MockConfigManager) InitGlobalConfig(_ *domain.Config) error {
	m.InitGlobalCalled = true
	return m.InitGlobalErr
}

// MockConfigLoader is a test double for domain.ConfigLoader.
// Fields are ordered to minimize memory padding.
type MockConfigLoader struct {
	Config     *domain.Config
	Global     *domain.Config
	LoadErr    error
	FiltersErr error
	Filters    []domain.Filter
}

// NewMockConfigLoader creates a MockConfigLoader returning the default config.
func NewMockConfigLoader() *MockConfigLoader {
	return &MockConfigLoader{Config: domain.NewDefaultConfig()}
}

// Load returns the configured config.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Config, nil
}

// LoadGlobal returns the configured global config.
func (m *MockConfigLoader) LoadGlobal() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.Global == nil {
		return domain.NewDefaultConfig(), nil
	}
	return m.Global, nil
}

// LoadFilters returns the configured filters.
func (m *MockConfigLoader) LoadFilters() ([]domain.Filter, error) {
	if m.FiltersErr != nil {
		return nil, m.FiltersErr
	}
	return m.Filters, nil
}

// LogEntry is a message recorded by MockLogger.
type LogEntry struct {
	Level    string
	TaskID   string
	Category string
	Msg      string
}

// MockLogger records log calls.
type MockLogger struct {
	Entries []LogEntry
	mu      sync.Mutex
}

func (m *MockLogger) record(level, taskID, category, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, LogEntry{Level: level, TaskID: taskID, Category: category, Msg: msg})
}

// Debug records a debug entry.
func (m *MockLogger) Debug(taskID, category, msg string) { m.record("DEBUG", taskID, category, msg) }

// Info records an info entry.
func (m *MockLogger) Info(taskID, category, msg string) { m.record("INFO", taskID, category, msg) }

// Warn records a warn entry.
func (m *MockLogger) Warn(taskID, category, msg string) { m.record("WARN", taskID, category, msg) }

// Error records an error entry.
func (m *MockLogger) Error(taskID, category, msg string) { m.record("ERROR", taskID, category, msg) }

// Levels returns the recorded levels in order.
func (m *MockLogger) Levels() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.Entries))
	for _, e := range m.Entries {
		out = append(out, e.Level)
	}
	return out
}
