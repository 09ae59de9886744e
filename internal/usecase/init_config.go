package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/git-agenda/internal/domain"
)

// InitConfigInput contains the input for the InitConfig use case.
type InitConfigInput struct {
	Global bool // Write the global config instead of the graph config
}

// InitConfigOutput contains the output of the InitConfig use case.
type InitConfigOutput struct {
	Path string // Path to the created config file
}

// InitConfig writes a config file template holding the default values.
type InitConfig struct {
	configManager domain.ConfigManager
}

// NewInitConfig creates a new InitConfig use case.
func NewInitConfig(configManager domain.ConfigManager) *InitConfig {
	return &InitConfig{configManager: configManager}
}

// Execute creates the file. An existing file is left alone and domain.ErrConfigExists returned.
func (uc *InitConfig) Execute(_ context.Context, in InitConfigInput) (*InitConfigOutput, error) {
	cfg := domain.NewDefaultConfig()
	if in.Global {
		path := uc.configManager.GetGlobalConfigInfo().Path
		if err := uc.configManager.InitGlobalConfig(cfg); err != nil {
			return nil, fmt.Errorf("init global config: %w", err)
		}
		return &InitConfigOutput{Path: path}, nil
	}
	path := uc.configManager.GetGraphConfigInfo().Path
	if err := uc.configManager.InitGraphConfig(cfg); err != nil {
		return nil, fmt.Errorf("init graph config: %w", err)
	}
	return &InitConfigOutput{Path: path}, nil
}
