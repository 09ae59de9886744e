package tui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/runoshun/git-agenda/internal/domain"
	"github.com/stretchr/testify/assert"
)

// forceColor renders styles with true color for the rest of the test.
func forceColor(t *testing.T) {
	t.Helper()
	prev := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.TrueColor)
	t.Cleanup(func() { lipgloss.SetColorProfile(prev) })
}

func TestStatusStyle(t *testing.T) {
	forceColor(t)
	s := DefaultStyles()

	todo := s.StatusStyle(domain.StatusTodo).Render("x")
	done := s.StatusStyle(domain.StatusDone).Render("x")

	assert.NotEqual(t, todo, done)
	assert.Contains(t, done, "x")
	assert.Equal(t, s.StatusTodo.Render("x"), s.StatusStyle("unknown").Render("x"))
}

func TestStatusIcon(t *testing.T) {
	assert.Equal(t, "○", StatusIcon(domain.StatusTodo))
	assert.Equal(t, "✓", StatusIcon(domain.StatusDone))
	assert.Equal(t, "?", StatusIcon("unknown"))
}

func TestCardRendering_SelectedIsHighlighted(t *testing.T) {
	forceColor(t)
	m, _ := newTestModel(t)
	task := m.board.Columns[0].Tasks[0]

	plain := m.viewCard(task, 30, false)
	selected := m.viewCard(task, 30, true)

	assert.NotEqual(t, plain, selected)
	assert.Contains(t, selected, "> ")
	assert.LessOrEqual(t, lipgloss.Width(selected), 30)
}

func TestMode(t *testing.T) {
	tests := []struct {
		mode  Mode
		name  string
		input bool
	}{
		{ModeNormal, "normal", false},
		{ModeForm, "form", true},
		{ModeConfirm, "confirm", false},
		{ModeFilters, "filters", false},
		{ModeHelp, "help", false},
		{ModeDetail, "detail", false},
		{Mode(99), "unknown", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.mode.String())
			assert.Equal(t, tt.input, tt.mode.IsInputMode())
		})
	}
	assert.Equal(t, "delete", ConfirmDelete.String())
	assert.Empty(t, ConfirmNone.String())
}
