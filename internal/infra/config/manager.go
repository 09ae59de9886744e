package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/runoshun/git-agenda/internal/domain"
)

// Ensure Manager implements domain.ConfigManager.
var _ domain.ConfigManager = (*Manager)(nil)

// Manager inspects and creates configuration files.
type Manager struct {
	agendaDir     string // Path to <graph>/.agenda
	globalConfDir string // Path to global config directory (e.g., ~/.config/git-agenda)
}

// NewManager creates a new Manager.
func NewManager(agendaDir string) *Manager {
	return &Manager{
		agendaDir:     agendaDir,
		globalConfDir: DefaultGlobalConfigDir(),
	}
}

// NewManagerWithGlobalDir creates a new Manager with a custom global config directory.
// This is useful for testing.
func NewManagerWithGlobalDir(agendaDir, globalConfDir string) *Manager {
	return &Manager{
		agendaDir:     agendaDir,
		globalConfDir: globalConfDir,
	}
}

// GetGraphConfigInfo returns information about the graph config file.
func (m *Manager) GetGraphConfigInfo() domain.ConfigInfo {
	return configInfo(filepath.Join(m.agendaDir, domain.ConfigFileName))
}

// GetGlobalConfigInfo returns information about the global config file.
func (m *Manager) GetGlobalConfigInfo() domain.ConfigInfo {
	if m.globalConfDir == "" {
		return domain.ConfigInfo{}
	}
	return configInfo(filepath.Join(m.globalConfDir, domain.ConfigFileName))
}

func configInfo(path string) domain.ConfigInfo {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.ConfigInfo{Path: path}
	}
	return domain.ConfigInfo{
		Path:    path,
		Content: string(content),
		Exists:  true,
	}
}

// InitGraphConfig writes the graph config file rendered from cfg.
func (m *Manager) InitGraphConfig(cfg *domain.Config) error {
	return writeTemplate(m.agendaDir, cfg)
}

// InitGlobalConfig writes the global config file rendered from cfg.
func (m *Manager) InitGlobalConfig(cfg *domain.Config) error {
	if m.globalConfDir == "" {
		return errors.New("global config directory not available")
	}
	return writeTemplate(m.globalConfDir, cfg)
}

// writeTemplate creates dir/config.toml unless it exists.
func writeTemplate(dir string, cfg *domain.Config) error {
	path := filepath.Join(dir, domain.ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return domain.ErrConfigExists
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, []byte(domain.RenderConfigTemplate(cfg)), 0o600)
}
