package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/git-agenda/internal/domain"
)

// ShowConfigOutput contains the config files and the merged result.
// Fields are ordered to minimize memory padding.
type ShowConfigOutput struct {
	Effective    *domain.Config    // default <- global <- graph
	Filters      []domain.Filter   // Definitions from filters.yaml
	GlobalConfig domain.ConfigInfo // Global config file info
	GraphConfig  domain.ConfigInfo // Graph config file info
}

// ShowConfig reports where configuration comes from and what it resolves to.
type ShowConfig struct {
	configManager domain.ConfigManager
	loader        domain.ConfigLoader
}

// NewShowConfig creates a new ShowConfig use case.
func NewShowConfig(configManager domain.ConfigManager, loader domain.ConfigLoader) *ShowConfig {
	return &ShowConfig{configManager: configManager, loader: loader}
}

// Execute loads the configuration files.
func (uc *ShowConfig) Execute(_ context.Context) (*ShowConfigOutput, error) {
	cfg, err := uc.loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	filters, err := uc.loader.LoadFilters()
	if err != nil {
		return nil, fmt.Errorf("load filters: %w", err)
	}
	return &ShowConfigOutput{
		Effective:    cfg,
		Filters:      filters,
		GlobalConfig: uc.configManager.GetGlobalConfigInfo(),
		GraphConfig:  uc.configManager.GetGraphConfigInfo(),
	}, nil
}
