package domain

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// Config represents the application configuration.
type Config struct {
	Warnings []string       `toml:"-"`
	Graph    GraphConfig    `toml:"graph"`
	Log      LogConfig      `toml:"log"`
	TimeLog  TimeLogConfig  `toml:"timelog"`
	Calendar CalendarConfig `toml:"calendar"`
}

// GraphConfig holds settings from the [graph] section.
type GraphConfig struct {
	Path       string `toml:"path"`        // Graph directory (default: current directory)
	AutoCommit bool   `toml:"auto_commit"` // Commit every mutation with git
}

// TimeLogConfig holds settings from the [timelog] section.
type TimeLogConfig struct {
	DefaultDuration Minutes `toml:"default_duration"` // Span of a default time log
}

// CalendarConfig holds settings from the [calendar] section.
type CalendarConfig struct {
	DefaultDuration Minutes      `toml:"default_duration"` // Length of timed events without estimate
	WeekStart       time.Weekday `toml:"week_start"`       // 0 = Sunday
}

// LogConfig holds logging settings from the [log] section.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// Default configuration values.
const (
	DefaultLogLevel              = "info"
	DefaultEventDuration Minutes = 30
	AgendaDirName                = ".agenda"
	ConfigFileName               = "config.toml"
	FiltersFileName              = "filters.yaml"
	StateFileName                = "state.json"
	GlobalConfigDirName          = "git-agenda"
)

// NewDefaultConfig returns a Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		TimeLog:  TimeLogConfig{DefaultDuration: DefaultTimeLogDuration},
		Calendar: CalendarConfig{DefaultDuration: DefaultEventDuration, WeekStart: time.Sunday},
		Log:      LogConfig{Level: DefaultLogLevel},
	}
}

// Settings are the values the task transformer and use cases read from
// configuration and UI state.
type Settings struct {
	Location             *time.Location
	Filters              []Filter
	SelectedFilters      []FilterID
	DefaultEventDuration Minutes
}

// ActiveFilters returns the definitions of the selected filters.
func (s Settings) ActiveFilters() []Filter {
	return SelectFilters(s.Filters, s.SelectedFilters)
}

// ActiveFilterIDs returns the selected filters that have a definition.
func (s Settings) ActiveFilterIDs() []FilterID {
	var ids []FilterID
	for _, f := range s.ActiveFilters() {
		ids = append(ids, f.ID)
	}
	return ids
}

// HasFilter reports whether a filter with id is defined.
func (s Settings) HasFilter(id FilterID) bool {
	return slices.ContainsFunc(s.Filters, func(f Filter) bool { return f.ID == id })
}

// GraphAgendaDir returns the agenda state directory inside a graph.
func GraphAgendaDir(graphDir string) string {
	return filepath.Join(graphDir, AgendaDirName)
}

// GlobalAgendaDir returns the global config directory.
// configHome is typically XDG_CONFIG_HOME or ~/.config (resolved by caller).
func GlobalAgendaDir(configHome string) string {
	return filepath.Join(configHome, GlobalConfigDirName)
}

// GlobalLogPath returns the path of the global log file.
func GlobalLogPath(agendaDir string) string {
	return filepath.Join(agendaDir, "logs", "agenda.log")
}

// TaskLogPath returns the path of a task's log file.
func TaskLogPath(agendaDir, taskID string) string {
	return filepath.Join(agendaDir, "logs", "task-"+taskID+".log")
}

// ConfigInfo describes a configuration file on disk.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}

// ParseWeekday accepts an English weekday name ("monday", "Mon") or its number (0 = Sunday).
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] || s == fmt.Sprint(int(d)) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("invalid weekday %q", s)
}

// RenderConfigTemplate renders a commented config file holding cfg's values.
func RenderConfigTemplate(cfg *Config) string {
	var b strings.Builder
	b.WriteString("# git-agenda configuration\n\n")
	b.WriteString("[graph]\n")
	b.WriteString("# Graph directory; empty means the current directory.\n")
	fmt.Fprintf(&b, "# path = %q\n", cfg.Graph.Path)
	b.WriteString("# Commit every change to the graph with git.\n")
	fmt.Fprintf(&b, "auto_commit = %t\n\n", cfg.Graph.AutoCommit)
	b.WriteString("[timelog]\n")
	b.WriteString("# Minutes covered by a time log added without explicit bounds.\n")
	fmt.Fprintf(&b, "default_duration = %d\n\n", cfg.TimeLog.DefaultDuration)
	b.WriteString("[calendar]\n")
	b.WriteString("# Minutes shown for timed tasks without an end or estimate.\n")
	fmt.Fprintf(&b, "default_duration = %d\n", cfg.Calendar.DefaultDuration)
	fmt.Fprintf(&b, "week_start = %q\n\n", strings.ToLower(cfg.Calendar.WeekStart.String()))
	b.WriteString("[log]\n")
	b.WriteString("# debug, info, warn, error\n")
	fmt.Fprintf(&b, "level = %q\n", cfg.Log.Level)
	return b.String()
}
