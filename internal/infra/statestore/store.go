// Package statestore persists the agenda UI state in a JSON file.
package statestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/runoshun/git-agenda/internal/domain"
)

// stateFile is the JSON file structure.
type stateFile struct {
	State   domain.AppState `json:"state"`
	Version int             `json:"version"`
}

const stateVersion = 1

// Store implements domain.AppStateRepository using a JSON file.
type Store struct {
	path     string
	lockPath string
}

// New creates a new Store for the given file path.
// The file does not need to exist; it will be created on first save.
func New(path string) *Store {
	return &Store{
		path:     path,
		lockPath: path + ".lock",
	}
}

// Load returns the saved state. A missing file yields the default state and
// unset fields are filled with their defaults.
func (s *Store) Load() (*domain.AppState, error) {
	var state *domain.AppState
	err := s.withLock(syscall.LOCK_SH, func() error {
		data, err := s.read()
		if err != nil {
			return err
		}
		state = &data.State
		return nil
	})
	if err != nil {
		return nil, err
	}
	def := domain.NewDefaultAppState()
	if state.View == "" {
		state.View = def.View
	}
	if state.CalendarView == "" {
		state.CalendarView = def.CalendarView
	}
	return state, nil
}

// Save stores the state.
func (s *Store) Save(state *domain.AppState) error {
	if state == nil {
		return fmt.Errorf("save state: nil state")
	}
	return s.withLock(syscall.LOCK_EX, func() error {
		return s.write(&stateFile{State: *state, Version: stateVersion})
	})
}

func (s *Store) withLock(lockType int, fn func() error) error {
	lock, err := s.acquireLock(lockType)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)
	return fn()
}

func (s *Store) acquireLock(lockType int) (*os.File, error) {
	dir := filepath.Dir(s.lockPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	return lock, nil
}

func (s *Store) releaseLock(lock *os.File) {
	_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
	_ = lock.Close()
}

func (s *Store) read() (*stateFile, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &stateFile{State: *domain.NewDefaultAppState(), Version: stateVersion}, nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var data stateFile
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("parse state file: %w", err)
	}
	return &data, nil
}

func (s *Store) write(data *stateFile) error {
	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	// Write to temp file first, then rename for atomicity
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}

// Ensure Store implements domain.AppStateRepository.
var _ domain.AppStateRepository = (*Store)(nil)
