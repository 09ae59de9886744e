package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/runoshun/git-agenda/internal/app"
	"github.com/runoshun/git-agenda/internal/domain"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUninitialized(t *testing.T) *app.Container {
	t.Helper()
	dir := t.TempDir()
	c, err := app.New(dir, app.Options{GraphDir: dir, GlobalConfDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRoot_RequiresInit(t *testing.T) {
	c := newUninitialized(t)

	_, _, err := execute(t, c, "list")

	require.ErrorIs(t, err, domain.ErrNotInitialized)
	assert.Contains(t, FormatError(err), "Hint: run 'agenda init'")
}

func TestInitCommand(t *testing.T) {
	c := newUninitialized(t)

	out := mustExecute(t, c, "init")
	assert.Contains(t, out, "Initialized graph: "+c.Config.GraphDir)
	assert.Contains(t, out, ".agenda/logs/")
	assert.DirExists(t, filepath.Join(c.Config.GraphDir, "journals"))
	assert.FileExists(t, filepath.Join(c.Config.AgendaDir, domain.FiltersFileName))

	require.NoError(t, os.WriteFile(filepath.Join(c.Config.GraphDir, ".gitignore"), []byte(".agenda/\n"), 0o600))
	out = mustExecute(t, c, "init")
	assert.Contains(t, out, "Graph already initialized")
	assert.NotContains(t, out, ".gitignore")

	// The generated filters file loads cleanly.
	reopened, err := app.New(c.Config.GraphDir, app.Options{GraphDir: c.Config.GraphDir, GlobalConfDir: t.TempDir()})
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()
	assert.Empty(t, reopened.Filters)
	assert.Contains(t, mustExecute(t, reopened, "list"), "No tasks found.")
}

func TestRoot_LaunchesTUIWithoutArgs(t *testing.T) {
	c := newTestGraph(t)
	var launched bool
	orig := launchTUIFunc
	launchTUIFunc = func(_ *cobra.Command, got *app.Container) error {
		launched = got == c
		return nil
	}
	t.Cleanup(func() { launchTUIFunc = orig })

	mustExecute(t, c)

	assert.True(t, launched)
}

func TestRoot_TUIError(t *testing.T) {
	c := newTestGraph(t)
	orig := launchTUIFunc
	launchTUIFunc = func(*cobra.Command, *app.Container) error { return errors.New("no terminal") }
	t.Cleanup(func() { launchTUIFunc = orig })

	_, _, err := execute(t, c, "tui")

	assert.EqualError(t, err, "no terminal")
}

func TestRoot_PrintsConfigWarnings(t *testing.T) {
	c := newTestGraph(t, ".agenda/config.toml", "[calendar]\ncolour = \"blue\"\n")

	_, stderr, err := execute(t, c, "view")

	require.NoError(t, err)
	assert.Contains(t, stderr, "Warning: unknown key in [calendar]: colour")
}

func TestRoot_NilContainer(t *testing.T) {
	root := NewRootCommand(nil, "1.2.3")
	root.SetArgs([]string{"--version"})
	var out bytes.Buffer
	root.SetOut(&out)

	require.NoError(t, root.ExecuteContext(context.Background()))

	assert.Contains(t, out.String(), "1.2.3")
}

func TestConfigCommands(t *testing.T) {
	c := newTestGraph(t, ".agenda/config.toml", "[calendar]\nweek_start = 1\n")

	out := mustExecute(t, c, "config", "show")
	assert.Contains(t, out, "[Loaded from]")
	assert.Contains(t, out, filepath.Join(c.Config.AgendaDir, domain.ConfigFileName))
	assert.Contains(t, out, "(not found)")
	assert.Contains(t, out, "week_start = 1")
	assert.Contains(t, out, "[Filters]\n(none)")

	assert.Contains(t, mustExecute(t, c, "config", "template"), "[calendar]")

	_, _, err := execute(t, c, "config", "init")
	assert.ErrorIs(t, err, domain.ErrConfigExists)

	out = mustExecute(t, c, "config", "init", "--global")
	assert.Contains(t, out, "Created config file: "+filepath.Join(c.Config.GlobalConfDir, domain.ConfigFileName))
}

func TestFormatError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantHint bool
	}{
		{"locked", domain.ErrEditLocked, true},
		{"not found", domain.ErrTaskNotFound, true},
		{"plain", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatError(tt.err)

			assert.Contains(t, got, "Error: "+tt.err.Error())
			assert.Equal(t, tt.wantHint, strings.Contains(got, "\nHint: "))
		})
	}
}
