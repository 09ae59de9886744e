package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/runoshun/git-agenda/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupGitRepo creates a repository whose graph lives in the notes/ subdirectory.
func setupGitRepo(t *testing.T) (repoDir, graphDir string, repo *gogit.Repository) {
	t.Helper()

	repoDir = t.TempDir()
	repo, err := gogit.PlainInit(repoDir, false)
	require.NoError(t, err)

	cfg, err := repo.Config()
	require.NoError(t, err)
	cfg.User.Name = "Test User"
	cfg.User.Email = "test@example.com"
	require.NoError(t, repo.SetConfig(cfg))

	graphDir = filepath.Join(repoDir, "notes")
	require.NoError(t, os.MkdirAll(filepath.Join(graphDir, "pages"), 0o750))
	return repoDir, graphDir, repo
}

func headCommit(t *testing.T, repo *gogit.Repository) *object.Commit {
	t.Helper()
	ref, err := repo.Head()
	require.NoError(t, err)
	commit, err := repo.CommitObject(ref.Hash())
	require.NoError(t, err)
	return commit
}

func TestNewHistory_NotGitRepo(t *testing.T) {
	_, err := NewHistory(t.TempDir())

	assert.ErrorIs(t, err, domain.ErrNotGitRepository)
}

func TestHistory_Record(t *testing.T) {
	// Setup
	repoDir, graphDir, repo := setupGitRepo(t)
	h, err := NewHistory(graphDir)
	require.NoError(t, err)
	h.now = func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) }
	require.NoError(t, os.WriteFile(filepath.Join(graphDir, "pages", "work.md"), []byte("- TODO A\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(repoDir, "unrelated.txt"), []byte("x"), 0o644))

	// Execute
	err = h.Record(context.Background(), []string{"pages/work.md"}, "Add TODO A")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, repoDir, h.RepoRoot())
	commit := headCommit(t, repo)
	assert.Equal(t, "Add TODO A", commit.Message)
	assert.Equal(t, "Test User", commit.Author.Name)
	file, err := commit.File("notes/pages/work.md")
	require.NoError(t, err)
	content, err := file.Contents()
	require.NoError(t, err)
	assert.Equal(t, "- TODO A\n", content)
	_, err = commit.File("unrelated.txt")
	assert.Error(t, err, "only the given paths are committed")
}

func TestHistory_Record_NoChange(t *testing.T) {
	_, graphDir, repo := setupGitRepo(t)
	h, err := NewHistory(graphDir)
	require.NoError(t, err)
	path := filepath.Join(graphDir, "pages", "work.md")
	require.NoError(t, os.WriteFile(path, []byte("- TODO A\n"), 0o644))
	require.NoError(t, h.Record(context.Background(), []string{"pages/work.md"}, "first"))
	first := headCommit(t, repo).Hash

	require.NoError(t, h.Record(context.Background(), []string{"pages/work.md"}, "second"))

	assert.Equal(t, first, headCommit(t, repo).Hash)
}

func TestHistory_Record_Canceled(t *testing.T) {
	_, graphDir, _ := setupGitRepo(t)
	h, err := NewHistory(graphDir)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, h.Record(ctx, nil, "x"), context.Canceled)
}
