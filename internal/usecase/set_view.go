package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/git-agenda/internal/domain"
)

// SetViewInput contains the parameters for switching the persisted view.
// Nil fields keep the current value.
type SetViewInput struct {
	View         *domain.View
	CalendarView *domain.CalendarView
}

// SetViewOutput contains the saved state.
type SetViewOutput struct {
	State *domain.AppState
}

// SetView is the use case for persisting the main and calendar view.
type SetView struct {
	state domain.AppStateRepository
}

// NewSetView creates a new SetView use case.
func NewSetView(state domain.AppStateRepository) *SetView {
	return &SetView{state: state}
}

// Execute stores the view selection.
func (uc *SetView) Execute(_ context.Context, in SetViewInput) (*SetViewOutput, error) {
	st, err := uc.state.Load()
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	if in.View != nil {
		st.View = *in.View
	}
	if in.CalendarView != nil {
		st.CalendarView = *in.CalendarView
	}
	if err := uc.state.Save(st); err != nil {
		return nil, fmt.Errorf("save state: %w", err)
	}
	return &SetViewOutput{State: st}, nil
}
