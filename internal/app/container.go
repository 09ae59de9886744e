// Package app provides the dependency injection container for the application.
package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/runoshun/git-agenda/internal/domain"
	"github.com/runoshun/git-agenda/internal/infra/config"
	"github.com/runoshun/git-agenda/internal/infra/git"
	"github.com/runoshun/git-agenda/internal/infra/graph"
	"github.com/runoshun/git-agenda/internal/infra/logging"
	"github.com/runoshun/git-agenda/internal/infra/statestore"
	"github.com/runoshun/git-agenda/internal/usecase"
)

// Config holds the application paths.
type Config struct {
	GraphDir      string // Root directory of the graph
	AgendaDir     string // Path to <graph>/.agenda
	StatePath     string // Path to state.json
	GlobalConfDir string // Path to the global config directory
}

// newConfig derives the paths of a graph.
func newConfig(graphDir, globalConfDir string) Config {
	agendaDir := domain.GraphAgendaDir(graphDir)
	return Config{
		GraphDir:      graphDir,
		AgendaDir:     agendaDir,
		StatePath:     filepath.Join(agendaDir, domain.StateFileName),
		GlobalConfDir: globalConfDir,
	}
}

// Options select the graph and diagnostics of a Container.
type Options struct {
	Verbose       io.Writer // Receives a copy of every log entry; nil disables
	GraphDir      string    // Explicit graph root (--graph); empty = detect
	GlobalConfDir string    // Empty = $XDG_CONFIG_HOME/git-agenda
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Blocks           domain.BlockStore
	StoreInitializer domain.StoreInitializer
	Transformer      domain.TaskTransformer
	State            domain.AppStateRepository
	Clock            domain.Clock
	ConfigLoader     domain.ConfigLoader
	ConfigManager    domain.ConfigManager
	Logger           domain.Logger

	// Loaded configuration
	AppConfig *domain.Config
	Filters   []domain.Filter
	Settings  domain.Settings

	closer io.Closer

	// Configuration
	Config Config
}

// New creates a Container for the graph found from dir.
func New(dir string, opts Options) (*Container, error) {
	globalDir := opts.GlobalConfDir
	if globalDir == "" {
		globalDir = config.DefaultGlobalConfigDir()
	}

	graphDir, err := resolveGraphDir(dir, opts.GraphDir, globalDir)
	if err != nil {
		return nil, err
	}
	cfg := newConfig(graphDir, globalDir)

	configLoader := config.NewLoaderWithGlobalDir(cfg.AgendaDir, globalDir)
	appConfig, err := configLoader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	filters, err := configLoader.LoadFilters()
	if err == nil {
		err = graph.ValidateFilters(filters)
	}
	if err != nil {
		return nil, fmt.Errorf("load filters: %w", err)
	}

	var logOpts []logging.Option
	if opts.Verbose != nil {
		logOpts = append(logOpts, logging.WithMirror(opts.Verbose))
	}
	logger := logging.New(cfg.AgendaDir, logging.ParseLevel(appConfig.Log.Level), logOpts...)
	for _, w := range appConfig.Warnings {
		logger.Warn("", "config", w)
	}

	clock := domain.RealClock{}
	storeOpts := graph.Options{Clock: clock, Logger: logger}
	if appConfig.Graph.AutoCommit {
		history, err := git.NewHistory(graphDir)
		switch {
		case errors.Is(err, domain.ErrNotGitRepository):
			logger.Warn("", "history", "auto_commit is on but the graph is not in a git repository")
		case err != nil:
			return nil, err
		default:
			storeOpts.History = history
		}
	}
	store := graph.New(graphDir, storeOpts)

	c := &Container{
		Blocks:           store,
		StoreInitializer: store,
		Transformer:      graph.NewTransformer(logger),
		State:            statestore.New(cfg.StatePath),
		Clock:            clock,
		ConfigLoader:     configLoader,
		ConfigManager:    config.NewManagerWithGlobalDir(cfg.AgendaDir, globalDir),
		Logger:           logger,
		AppConfig:        appConfig,
		Filters:          filters,
		closer:           logger,
		Config:           cfg,
	}
	if err := c.ReloadSettings(); err != nil {
		return nil, err
	}
	return c, nil
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(cfg Config, blocks domain.BlockStore, storeInit domain.StoreInitializer, transformer domain.TaskTransformer, state domain.AppStateRepository, clock domain.Clock, settings domain.Settings) *Container {
	return &Container{
		Blocks:           blocks,
		StoreInitializer: storeInit,
		Transformer:      transformer,
		State:            state,
		Clock:            clock,
		Logger:           domain.NopLogger{},
		AppConfig:        domain.NewDefaultConfig(),
		Filters:          settings.Filters,
		Settings:         settings,
		Config:           cfg,
	}
}

// resolveGraphDir picks the graph root: the explicit flag, the global
// [graph] path, the nearest ancestor of dir holding a graph, or dir itself.
func resolveGraphDir(dir, explicit, globalDir string) (string, error) {
	if explicit != "" {
		return filepath.Abs(explicit)
	}
	global, err := config.NewLoaderWithGlobalDir("", globalDir).LoadGlobal()
	if err == nil && global.Graph.Path != "" {
		return filepath.Abs(global.Graph.Path)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve directory: %w", err)
	}
	for d := abs; ; {
		if isGraphRoot(d) {
			return d, nil
		}
		parent := filepath.Dir(d)
		if parent == d {
			return abs, nil
		}
		d = parent
	}
}

func isGraphRoot(dir string) bool {
	for _, marker := range []string{domain.AgendaDirName, "logseq", "journals"} {
		if fi, err := os.Stat(filepath.Join(dir, marker)); err == nil && fi.IsDir() {
			return true
		}
	}
	return false
}

// ReloadSettings rebuilds Settings from the config, the filter definitions
// and the saved filter selection.
func (c *Container) ReloadSettings() error {
	state, err := c.State.Load()
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	c.Settings = domain.Settings{
		Location:             time.Local,
		Filters:              c.Filters,
		SelectedFilters:      state.SelectedFilters,
		DefaultEventDuration: c.AppConfig.Calendar.DefaultDuration,
	}
	return nil
}

// Close releases the log files.
func (c *Container) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

// Ledger returns the time log ledger configured for the graph.
func (c *Container) Ledger() domain.Ledger {
	return domain.NewLedger(c.AppConfig.TimeLog.DefaultDuration)
}

// UseCase factory methods

// InitGraphUseCase returns a new InitGraph use case.
func (c *Container) InitGraphUseCase() *usecase.InitGraph {
	return usecase.NewInitGraph(c.StoreInitializer)
}

// CreateTaskUseCase returns a new CreateTask use case.
func (c *Container) CreateTaskUseCase() *usecase.CreateTask {
	return usecase.NewCreateTask(c.Blocks, c.Transformer, c.Settings, c.Logger)
}

// EditTaskUseCase returns a new EditTask use case.
func (c *Container) EditTaskUseCase() *usecase.EditTask {
	return usecase.NewEditTask(c.Blocks, c.Transformer, c.Settings, c.Logger)
}

// DeleteTaskUseCase returns a new DeleteTask use case.
func (c *Container) DeleteTaskUseCase() *usecase.DeleteTask {
	return usecase.NewDeleteTask(c.Blocks, c.Logger)
}

// SetStatusUseCase returns a new SetStatus use case.
func (c *Container) SetStatusUseCase() *usecase.SetStatus {
	return usecase.NewSetStatus(c.Blocks, c.Transformer, c.Settings, c.Logger)
}

// ShowTaskUseCase returns a new ShowTask use case.
func (c *Container) ShowTaskUseCase() *usecase.ShowTask {
	return usecase.NewShowTask(c.Blocks, c.Transformer, c.Settings)
}

// ChangePlacementUseCase returns a new ChangePlacement use case.
func (c *Container) ChangePlacementUseCase() *usecase.ChangePlacement {
	return usecase.NewChangePlacement(c.Blocks, c.Transformer, c.Settings, c.Clock, c.Logger)
}

// AddTimeLogUseCase returns a new AddTimeLog use case.
func (c *Container) AddTimeLogUseCase() *usecase.AddTimeLog {
	return usecase.NewAddTimeLog(c.Blocks, c.Transformer, c.Settings, c.Ledger(), c.Clock, c.Logger)
}

// UpdateTimeLogUseCase returns a new UpdateTimeLog use case.
func (c *Container) UpdateTimeLogUseCase() *usecase.UpdateTimeLog {
	return usecase.NewUpdateTimeLog(c.Blocks, c.Transformer, c.Settings, c.Logger)
}

// RemoveTimeLogUseCase returns a new RemoveTimeLog use case.
func (c *Container) RemoveTimeLogUseCase() *usecase.RemoveTimeLog {
	return usecase.NewRemoveTimeLog(c.Blocks, c.Transformer, c.Settings, c.Logger)
}

// ListTasksUseCase returns a new ListTasks use case.
func (c *Container) ListTasksUseCase() *usecase.ListTasks {
	return usecase.NewListTasks(c.Blocks, c.Transformer, c.Settings)
}

// ListAgendaUseCase returns a new ListAgenda use case.
func (c *Container) ListAgendaUseCase() *usecase.ListAgenda {
	return usecase.NewListAgenda(c.Blocks, c.Transformer, c.Settings, c.AppConfig.Calendar.WeekStart, c.Clock)
}

// CreatePageUseCase returns a new CreatePage use case.
func (c *Container) CreatePageUseCase() *usecase.CreatePage {
	return usecase.NewCreatePage(c.Blocks, c.Logger)
}

// ListFiltersUseCase returns a new ListFilters use case.
func (c *Container) ListFiltersUseCase() *usecase.ListFilters {
	return usecase.NewListFilters(c.State, c.Filters)
}

// SelectFiltersUseCase returns a new SelectFilters use case.
func (c *Container) SelectFiltersUseCase() *usecase.SelectFilters {
	return usecase.NewSelectFilters(c.State, c.Filters, c.Logger)
}

// SetViewUseCase returns a new SetView use case.
func (c *Container) SetViewUseCase() *usecase.SetView {
	return usecase.NewSetView(c.State)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.ConfigLoader)
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}

// NewSession opens a create or edit session wired to the container's use cases.
func (c *Container) NewSession(form domain.TaskForm) *usecase.Session {
	return usecase.NewSession(form, usecase.SessionDeps{
		Create: c.CreateTaskUseCase(),
		Edit:   c.EditTaskUseCase(),
		Pages:  c.CreatePageUseCase(),
		Clock:  c.Clock,
		Ledger: c.Ledger(),
	})
}
