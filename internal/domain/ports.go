package domain

import (
	"context"
	"time"
)

// StoreInitializer initializes a data store.
type StoreInitializer interface {
	// Initialize creates the store if it doesn't exist.
	Initialize() error

	// IsInitialized reports whether the store already exists.
	IsInitialized() bool
}

// BlockStore is the outliner graph holding task blocks.
type BlockStore interface {
	// CreateBlock appends a new task block and returns it as stored.
	CreateBlock(ctx context.Context, draft BlockDraft) (*RawBlock, error)

	// UpdateBlock applies delta to the block with the given id.
	UpdateBlock(ctx context.Context, id string, delta BlockDelta) (*RawBlock, error)

	// DeleteBlock removes a block. Deleting a missing block is not an error.
	DeleteBlock(ctx context.Context, id string) error

	// GetBlock retrieves a block by id. Returns nil if not found.
	GetBlock(ctx context.Context, id string) (*RawBlock, error)

	// ListBlocks returns every task block of the graph.
	ListBlocks(ctx context.Context) ([]*RawBlock, error)

	// GetPage resolves a page by name. Returns nil if not found.
	GetPage(ctx context.Context, name string) (*PageInfo, error)

	// CreatePage creates an empty page, or returns the existing one.
	CreatePage(ctx context.Context, name string) (*PageInfo, error)

	// GetFavorites returns the names of the favorite pages.
	GetFavorites(ctx context.Context) ([]string, error)

	// RetrieveFilteredBlocks evaluates filters and returns the matching block ids per filter.
	RetrieveFilteredBlocks(ctx context.Context, filters []Filter) (FilterMatches, error)
}

// History records graph mutations, e.g. as git commits.
type History interface {
	// Record commits the given graph-relative paths with message.
	Record(ctx context.Context, paths []string, message string) error
}

// TaskTransformer derives a structured Task from a raw block.
type TaskTransformer interface {
	TransformBlockToTask(raw *RawBlock, page *PageInfo, favorites []string, settings Settings) (*Task, error)
}

// AppStateRepository persists UI state between runs.
type AppStateRepository interface {
	// Load returns the saved state, or the default state if none was saved.
	Load() (*AppState, error)

	// Save stores the state.
	Save(state *AppState) error
}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (graph + global).
	Load() (*Config, error)

	// LoadGlobal returns only the global configuration.
	LoadGlobal() (*Config, error)

	// LoadFilters returns the filter definitions.
	LoadFilters() ([]Filter, error)
}

// ConfigManager inspects and creates configuration files.
type ConfigManager interface {
	GetGraphConfigInfo() ConfigInfo
	GetGlobalConfigInfo() ConfigInfo
	InitGraphConfig(cfg *Config) error
	InitGlobalConfig(cfg *Config) error
}

// Logger writes operational logs. An empty taskID logs globally.
type Logger interface {
	Debug(taskID, category, msg string)
	Info(taskID, category, msg string)
	Warn(taskID, category, msg string)
	Error(taskID, category, msg string)
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(_, _, _ string) {}
func (NopLogger) Info(_, _, _ string)  {}
func (NopLogger) Warn(_, _, _ string)  {}
func (NopLogger) Error(_, _, _ string) {}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
