package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/runoshun/git-agenda/internal/app"
	"github.com/runoshun/git-agenda/internal/testutil"
	"github.com/runoshun/git-agenda/internal/usecase"
	"github.com/stretchr/testify/require"
)

// testNow is Wednesday 2024-01-03 12:00 local time.
var testNow = time.Date(2024, 1, 3, 12, 0, 0, 0, time.Local)

// newTestGraph creates an initialized graph in a temp dir with a fixed clock.
// Files are written relative to the graph before the container loads it.
func newTestGraph(t *testing.T, files ...string) *app.Container {
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

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, c *app.Container, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCommand(c, "test")
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// mustExecute runs args and fails the test on error.
func mustExecute(t *testing.T, c *app.Container, args ...string) string {
	t.Helper()
	out, stderr, err := execute(t, c, args...)
	require.NoError(t, err, "stderr: %s", stderr)
	return out
}

// createTask runs "new" and returns the short id it printed.
func createTask(t *testing.T, c *app.Container, args ...string) string {
	t.Helper()
	out := mustExecute(t, c, append([]string{"new"}, args...)...)
	fields := strings.Fields(out)
	require.GreaterOrEqual(t, len(fields), 3, out)
	return strings.TrimSuffix(fields[2], ":")
}

func writeGraphFile(t *testing.T, c *app.Container, rel, content string) {
	t.Helper()
	path := filepath.Join(c.Config.GraphDir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func readGraphFile(t *testing.T, c *app.Container, rel string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(c.Config.GraphDir, rel))
	require.NoError(t, err)
	return string(content)
}
