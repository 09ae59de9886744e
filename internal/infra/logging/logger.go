// Package logging provides file-based logging for git-agenda.
// Entries go to <graph>/.agenda/logs/agenda.log and, when they concern a
// task, also to logs/task-<block id>.log.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/runoshun/git-agenda/internal/domain"
)

// Ensure Logger implements domain.Logger interface.
var _ domain.Logger = (*Logger)(nil)

// Logger writes leveled log lines to files.
// Fields are ordered to minimize memory padding.
type Logger struct {
	globalFile *os.File
	mirror     io.Writer
	now        func() time.Time
	taskFiles  map[string]*os.File
	agendaDir  string
	mu         sync.Mutex
	level      slog.Level
}

// Option configures a Logger.
type Option func(*Logger)

// WithMirror also writes every entry to w (e.g. stderr for --verbose).
func WithMirror(w io.Writer) Option {
	return func(l *Logger) { l.mirror = w }
}

// WithClock sets the time source of log entries.
func WithClock(now func() time.Time) Option {
	return func(l *Logger) { l.now = now }
}

// New creates a Logger writing below agendaDir/logs.
// If agendaDir is empty, only the mirror (if any) receives entries.
func New(agendaDir string, level slog.Level, opts ...Option) *Logger {
	l := &Logger{
		agendaDir: agendaDir,
		level:     level,
		now:       time.Now,
		taskFiles: make(map[string]*os.File),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ParseLevel parses a log level string into slog.Level. Unknown values mean info.
func ParseLevel(levelStr string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(levelStr))); err != nil {
		return slog.LevelInfo
	}
	return level
}

func (l *Logger) openFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create logs directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640) //nolint:gosec // Log file readable by owner and group
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// files returns the files an entry for taskID is appended to. Caller holds mu.
func (l *Logger) files(taskID string) []io.Writer {
	var out []io.Writer
	if l.globalFile == nil {
		if f, err := l.openFile(domain.GlobalLogPath(l.agendaDir)); err == nil {
			l.globalFile = f
		}
	}
	if l.globalFile != nil {
		out = append(out, l.globalFile)
	}
	if taskID == "" {
		return out
	}
	f, ok := l.taskFiles[taskID]
	if !ok {
		var err error
		if f, err = l.openFile(domain.TaskLogPath(l.agendaDir, safeID(taskID))); err != nil {
			return out
		}
		l.taskFiles[taskID] = f
	}
	return append(out, f)
}

// safeID keeps a block id usable as a file name.
func safeID(id string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, id)
}

// Close closes all open log files.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var lastErr error
	if l.globalFile != nil {
		if err := l.globalFile.Close(); err != nil {
			lastErr = err
		}
		l.globalFile = nil
	}
	for id, f := range l.taskFiles {
		if err := f.Close(); err != nil {
			lastErr = err
		}
		delete(l.taskFiles, id)
	}
	return lastErr
}

// formatLog formats one entry.
// Format: [2025-12-30 09:32:51] [INFO] [task-<id>] [category] message
func formatLog(t time.Time, level slog.Level, taskID, category, msg string) string {
	taskStr := "global"
	if taskID != "" {
		taskStr = "task-" + taskID
	}
	return fmt.Sprintf("[%s] [%s] [%s] [%s] %s\n",
		t.Format("2006-01-02 15:04:05"),
		level.String(),
		taskStr,
		category,
		msg,
	)
}

func (l *Logger) log(level slog.Level, taskID, category, msg string) {
	if level < l.level {
		return
	}
	if l.agendaDir == "" && l.mirror == nil {
		return
	}

	entry := formatLog(l.now(), level, taskID, category, msg)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.mirror != nil {
		_, _ = io.WriteString(l.mirror, entry)
	}
	if l.agendaDir == "" {
		return
	}
	for _, w := range l.files(taskID) {
		_, _ = io.WriteString(w, entry)
	}
}

// Debug logs a debug message.
func (l *Logger) Debug(taskID, category, msg string) {
	l.log(slog.LevelDebug, taskID, category, msg)
}

// Info logs an info message.
func (l *Logger) Info(taskID, category, msg string) {
	l.log(slog.LevelInfo, taskID, category, msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(taskID, category, msg string) {
	l.log(slog.LevelWarn, taskID, category, msg)
}

// Error logs an error message.
func (l *Logger) Error(taskID, category, msg string) {
	l.log(slog.LevelError, taskID, category, msg)
}
