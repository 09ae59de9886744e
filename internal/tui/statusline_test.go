package tui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestStatusLine_Render(t *testing.T) {
	styles := DefaultStyles()
	line := NewStatusLine(60, &styles)

	out := line.Render(StatusLineInfo{
		Label:    "tasks",
		Position: "1/3",
		KeyHints: []KeyHint{{Key: "n", Desc: "new"}, {Key: "q", Desc: "quit"}},
	})

	assert.Contains(t, out, "n new  q quit")
	assert.Contains(t, out, "1/3  tasks")
	assert.Equal(t, 60, lipgloss.Width(out))
}

func TestStatusLine_Truncates(t *testing.T) {
	styles := DefaultStyles()
	line := NewStatusLine(30, &styles)
	hints := make([]KeyHint, 0, 10)
	for range 10 {
		hints = append(hints, KeyHint{Key: "k", Desc: "something"})
	}

	out := line.Render(StatusLineInfo{Label: "calendar:week", KeyHints: hints})

	assert.Contains(t, out, "...")
	assert.Contains(t, out, "calendar:week")
	assert.Equal(t, 30, lipgloss.Width(out))

	line.SetWidth(200)
	assert.NotContains(t, line.Render(StatusLineInfo{Label: "x", KeyHints: hints}), "...")
}

func TestModel_GetStatusInfo(t *testing.T) {
	m, _ := newTestModel(t)

	info := m.GetStatusInfo()
	assert.Equal(t, "tasks", info.Label)
	assert.Equal(t, "1/2", info.Position)

	press(t, m, "tab")
	info = m.GetStatusInfo()
	assert.Equal(t, "calendar:week", info.Label)
	assert.Empty(t, info.Position)
	assert.Contains(t, info.KeyHints, KeyHint{Key: "[/]", Desc: "period"})

	press(t, m, "n")
	assert.Equal(t, "form", m.GetStatusInfo().Label)
}
