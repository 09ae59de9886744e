package tui

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/runoshun/git-agenda/internal/app"
	"github.com/runoshun/git-agenda/internal/testutil"
	"github.com/runoshun/git-agenda/internal/usecase"
	"github.com/stretchr/testify/require"
)

// testNow is Wednesday 2024-01-03 12:00 local time.
var testNow = time.Date(2024, 1, 3, 12, 0, 0, 0, time.Local)

const workPage = `title:: Work
- TODO Write report
  id:: r1
  SCHEDULED: <2024-01-03 Wed 10:00>
- TODO Review
  id:: r2
`

// newTestContainer creates an initialized graph with a fixed clock.
// Files are path/content pairs relative to the graph root.
func newTestContainer(t *testing.T, files ...string) *app.Container {
	t.Helper()
	dir := t.TempDir()
	require.Zero(t, len(files)%2, "files are path/content pairs")
	for i := 0; i < len(files); i += 2 {
		path := filepath.Join(dir, files[i])
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(files[i+1]), 0o600))
	}
	c, err := app.New(dir, app.Options{GraphDir: dir, GlobalConfDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	c.Clock = &testutil.MockClock{NowTime: testNow}
	_, err = c.InitGraphUseCase().Execute(context.Background(), usecase.InitGraphInput{
		AgendaDir: c.Config.AgendaDir,
		GraphDir:  c.Config.GraphDir,
	})
	require.NoError(t, err)
	return c
}

// newTestModel returns a sized model over the work page, with its
// initial data loaded.
func newTestModel(t *testing.T, files ...string) (*Model, *app.Container) {
	t.Helper()
	if len(files) == 0 {
		files = []string{"pages/work.md", workPage}
	}
	c := newTestContainer(t, files...)
	m := New(context.Background(), c)
	m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	run(t, m, m.Init())
	return m, c
}

// run executes cmd and feeds every resulting message back into the model
// until no command is left.
func run(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 100, "command loop did not settle")
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case nil, tea.QuitMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			_, cmd := m.Update(msg)
			queue = append(queue, cmd)
		}
	}
}

// press sends a key and runs the command it returns.
func press(t *testing.T, m *Model, keys ...string) {
	t.Helper()
	for _, k := range keys {
		_, cmd := m.Update(keyMsg(k))
		run(t, m, cmd)
	}
}

// typeText sends runes one by one. Commands are dropped: text inputs only
// return cursor blink ticks.
func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+p":
		return tea.KeyMsg{Type: tea.KeyCtrlP}
	case "ctrl+l":
		return tea.KeyMsg{Type: tea.KeyCtrlL}
	case "ctrl+d":
		return tea.KeyMsg{Type: tea.KeyCtrlD}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func readGraphFile(t *testing.T, c *app.Container, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(c.Config.GraphDir, rel))
	require.NoError(t, err)
	return string(data)
}
