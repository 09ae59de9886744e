// Package git records graph mutations as commits in the repository holding the graph.
package git

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/runoshun/git-agenda/internal/domain"
)

// Default commit identity when the repository config has none.
const (
	defaultAuthorName  = "git-agenda"
	defaultAuthorEmail = "git-agenda@localhost"
)

// History implements domain.History with go-git.
// Fields are ordered to minimize memory padding.
type History struct {
	repo     *gogit.Repository
	now      func() time.Time
	graphDir string // Absolute graph root
	repoRoot string // Worktree root
	mu       sync.Mutex
}

// NewHistory opens the repository containing graphDir.
// Returns domain.ErrNotGitRepository if there is none.
func NewHistory(graphDir string) (*History, error) {
	abs, err := filepath.Abs(graphDir)
	if err != nil {
		return nil, fmt.Errorf("resolve graph dir: %w", err)
	}
	repo, err := gogit.PlainOpenWithOptions(abs, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%s: %w", abs, domain.ErrNotGitRepository)
		}
		return nil, fmt.Errorf("open git repository: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("open worktree: %w", err)
	}
	return &History{
		repo:     repo,
		now:      time.Now,
		graphDir: abs,
		repoRoot: wt.Filesystem.Root(),
	}, nil
}

// RepoRoot returns the worktree root of the repository.
func (h *History) RepoRoot() string {
	return h.repoRoot
}

// Record stages the graph-relative paths and commits them. Nothing is
// committed when the paths carry no change.
func (h *History) Record(ctx context.Context, paths []string, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	wt, err := h.repo.Worktree()
	if err != nil {
		return fmt.Errorf("open worktree: %w", err)
	}
	staged := false
	for _, p := range paths {
		rel, err := filepath.Rel(h.repoRoot, filepath.Join(h.graphDir, filepath.FromSlash(p)))
		if err != nil {
			return fmt.Errorf("resolve %s: %w", p, err)
		}
		rel = filepath.ToSlash(rel)
		if _, err := wt.Add(rel); err != nil {
			return fmt.Errorf("stage %s: %w", rel, err)
		}
		changed, err := isStaged(wt, rel)
		if err != nil {
			return err
		}
		staged = staged || changed
	}
	if !staged {
		return nil
	}

	if _, err := wt.Commit(message, &gogit.CommitOptions{Author: h.signature()}); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func isStaged(wt *gogit.Worktree, rel string) (bool, error) {
	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("worktree status: %w", err)
	}
	fs, ok := status[rel]
	if !ok {
		return false, nil
	}
	return fs.Staging != gogit.Unmodified && fs.Staging != gogit.Untracked, nil
}

// signature uses the configured user, falling back to a fixed identity.
func (h *History) signature() *object.Signature {
	sig := &object.Signature{Name: defaultAuthorName, Email: defaultAuthorEmail, When: h.now()}
	cfg, err := h.repo.ConfigScoped(config.SystemScope)
	if err != nil {
		return sig
	}
	if cfg.User.Name != "" {
		sig.Name = cfg.User.Name
	}
	if cfg.User.Email != "" {
		sig.Email = cfg.User.Email
	}
	return sig
}

// Ensure History implements domain.History.
var _ domain.History = (*History)(nil)
