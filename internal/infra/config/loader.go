// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/runoshun/git-agenda/internal/domain"
	"gopkg.in/yaml.v3"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from TOML files and filters from YAML.
type Loader struct {
	agendaDir     string // Path to <graph>/.agenda
	globalConfDir string // Path to global config directory (e.g., ~/.config/git-agenda)
}

// NewLoader creates a new Loader.
func NewLoader(agendaDir string) *Loader {
	return &Loader{
		agendaDir:     agendaDir,
		globalConfDir: DefaultGlobalConfigDir(),
	}
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config directory.
// This is useful for testing.
func NewLoaderWithGlobalDir(agendaDir, globalConfDir string) *Loader {
	return &Loader{
		agendaDir:     agendaDir,
		globalConfDir: globalConfDir,
	}
}

// DefaultGlobalConfigDir returns the default global config directory.
func DefaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalAgendaDir(configHome)
}

// Load returns the merged configuration.
// Merge order is default <- global <- graph (later takes precedence).
func (l *Loader) Load() (*domain.Config, error) {
	global, err := l.loadGlobalLayer()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	graph, err := l.loadFile(filepath.Join(l.agendaDir, domain.ConfigFileName))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	cfg := domain.NewDefaultConfig()
	for _, ly := range []*layer{global, graph} {
		if ly != nil {
			ly.applyTo(cfg)
		}
	}
	return cfg, nil
}

// LoadGlobal returns the defaults overridden by the global configuration.
func (l *Loader) LoadGlobal() (*domain.Config, error) {
	global, err := l.loadGlobalLayer()
	if err != nil {
		return nil, err
	}
	cfg := domain.NewDefaultConfig()
	global.applyTo(cfg)
	return cfg, nil
}

func (l *Loader) loadGlobalLayer() (*layer, error) {
	if l.globalConfDir == "" {
		return nil, os.ErrNotExist
	}
	return l.loadFile(filepath.Join(l.globalConfDir, domain.ConfigFileName))
}

// filtersFile is the structure of filters.yaml.
type filtersFile struct {
	Filters []domain.Filter `yaml:"filters"`
}

// LoadFilters returns the filter definitions of the graph, falling back to
// the global filters.yaml. A missing file yields no filters.
func (l *Loader) LoadFilters() ([]domain.Filter, error) {
	paths := []string{filepath.Join(l.agendaDir, domain.FiltersFileName)}
	if l.globalConfDir != "" {
		paths = append(paths, filepath.Join(l.globalConfDir, domain.FiltersFileName))
	}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read filters: %w", err)
		}
		return parseFilters(path, data)
	}
	return nil, nil
}

func parseFilters(path string, data []byte) ([]domain.Filter, error) {
	var file filtersFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	seen := make(map[domain.FilterID]bool, len(file.Filters))
	for i, f := range file.Filters {
		if f.ID == "" {
			return nil, fmt.Errorf("%s: filter #%d has no id", path, i+1)
		}
		if seen[f.ID] {
			return nil, fmt.Errorf("%s: duplicate filter id %q", path, f.ID)
		}
		seen[f.ID] = true
		if f.Query == "" {
			return nil, fmt.Errorf("%s: filter %q has no query", path, f.ID)
		}
		if f.Name == "" {
			file.Filters[i].Name = string(f.ID)
		}
	}
	return file.Filters, nil
}

// layer holds the values one config file sets. Nil means unset.
type layer struct {
	graphPath       *string
	autoCommit      *bool
	timeLogDuration *domain.Minutes
	eventDuration   *domain.Minutes
	weekStart       *time.Weekday
	logLevel        *string
	warnings        []string
}

// loadFile loads one configuration file.
func (l *Loader) loadFile(path string) (*layer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return convertRaw(raw), nil
}

// convertRaw converts the raw map to a layer and collects warnings.
func convertRaw(raw map[string]any) *layer {
	res := &layer{}
	var warnings []string
	warn := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	for section, value := range raw {
		m, ok := value.(map[string]any)
		if !ok {
			warn("unknown key: %s", section)
			continue
		}
		for k, v := range m {
			switch section + "." + k {
			case "graph.path":
				if s, ok := v.(string); ok {
					res.graphPath = &s
				}
			case "graph.auto_commit":
				if b, ok := v.(bool); ok {
					res.autoCommit = &b
				}
			case "timelog.default_duration":
				if d, ok := minutes(v); ok {
					res.timeLogDuration = &d
				} else {
					warn("invalid value in [timelog]: default_duration = %v", v)
				}
			case "calendar.default_duration":
				if d, ok := minutes(v); ok {
					res.eventDuration = &d
				} else {
					warn("invalid value in [calendar]: default_duration = %v", v)
				}
			case "calendar.week_start":
				day, err := domain.ParseWeekday(fmt.Sprint(v))
				if err != nil {
					warn("invalid value in [calendar]: week_start = %v", v)
					continue
				}
				res.weekStart = &day
			case "log.level":
				if s, ok := v.(string); ok {
					res.logLevel = &s
				}
			default:
				switch section {
				case "graph", "timelog", "calendar", "log":
					warn("unknown key in [%s]: %s", section, k)
				default:
					warn("unknown section: %s", section)
				}
			}
		}
	}

	sort.Strings(warnings)
	res.warnings = slices.Compact(warnings)
	return res
}

// minutes accepts a positive TOML integer.
func minutes(v any) (domain.Minutes, bool) {
	n, ok := v.(int64)
	if !ok || n <= 0 {
		return 0, false
	}
	return domain.Minutes(n), true
}

// applyTo overrides cfg with the values this layer sets.
func (ly *layer) applyTo(cfg *domain.Config) {
	if ly.graphPath != nil {
		cfg.Graph.Path = *ly.graphPath
	}
	if ly.autoCommit != nil {
		cfg.Graph.AutoCommit = *ly.autoCommit
	}
	if ly.timeLogDuration != nil {
		cfg.TimeLog.DefaultDuration = *ly.timeLogDuration
	}
	if ly.eventDuration != nil {
		cfg.Calendar.DefaultDuration = *ly.eventDuration
	}
	if ly.weekStart != nil {
		cfg.Calendar.WeekStart = *ly.weekStart
	}
	if ly.logLevel != nil {
		cfg.Log.Level = *ly.logLevel
	}
	cfg.Warnings = append(cfg.Warnings, ly.warnings...)
}
