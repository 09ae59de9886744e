package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/git-agenda/internal/domain"
)

// CreatePageInput contains the parameters for creating a page.
type CreatePageInput struct {
	Name string
}

// CreatePageOutput contains the created or existing page.
type CreatePageOutput struct {
	Page *domain.PageInfo
}

// CreatePage is the use case for creating the page behind a new tag.
type CreatePage struct {
	store  domain.BlockStore
	logger domain.Logger
}

// NewCreatePage creates a new CreatePage use case.
func NewCreatePage(store domain.BlockStore, logger domain.Logger) *CreatePage {
	return &CreatePage{store: store, logger: logger}
}

// Execute creates the page unless it already exists.
func (uc *CreatePage) Execute(ctx context.Context, in CreatePageInput) (*CreatePageOutput, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("page name: %w", domain.ErrEmptyTitle)
	}
	page, err := uc.store.CreatePage(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("create page %q: %w", name, err)
	}
	if uc.logger != nil {
		uc.logger.Debug("", "page", fmt.Sprintf("ensured page %q", page.OriginalName))
	}
	return &CreatePageOutput{Page: page}, nil
}
