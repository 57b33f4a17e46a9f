package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// GitRepo is a throwaway repository with a deterministic commit clock.
// Every commit is one hour after the previous one, starting 2024-01-01 09:00 UTC.
type GitRepo struct {
	Dir   string
	Repo  *git.Repository
	Clock time.Time

	t  *testing.T
	wt *git.Worktree
	n  int
}

// NewGitRepo initializes an empty repository in a test temp directory.
func NewGitRepo(t *testing.T) *GitRepo {
	t.Helper()
	return NewGitRepoAt(t, t.TempDir())
}

// NewGitRepoAt initializes an empty repository in dir.
func NewGitRepoAt(t *testing.T, dir string) *GitRepo {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	return &GitRepo{
		Dir:   dir,
		Repo:  repo,
		Clock: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		t:     t,
		wt:    wt,
	}
}

func (r *GitRepo) signature(when time.Time) *object.Signature {
	return &object.Signature{Name: "Test", Email: "test@example.com", When: when}
}

// Commit records a change to a tracked file with msg. Parents default to HEAD;
// passing two or more creates a merge commit.
func (r *GitRepo) Commit(msg string, parents ...plumbing.Hash) plumbing.Hash {
	r.t.Helper()
	r.n++
	r.Clock = r.Clock.Add(time.Hour)

	require.NoError(r.t, os.WriteFile(filepath.Join(r.Dir, "file.txt"), []byte(fmt.Sprintf("%d\n", r.n)), 0o644))
	_, err := r.wt.Add("file.txt")
	require.NoError(r.t, err)

	h, err := r.wt.Commit(msg, &git.CommitOptions{
		Author:    r.signature(r.Clock),
		Committer: r.signature(r.Clock),
		Parents:   parents,
	})
	require.NoError(r.t, err)
	return h
}

// Tag creates a lightweight tag.
func (r *GitRepo) Tag(name string, h plumbing.Hash) {
	r.t.Helper()
	_, err := r.Repo.CreateTag(name, h, nil)
	require.NoError(r.t, err)
}

// AnnotatedTag creates an annotated tag with the given tagger date.
func (r *GitRepo) AnnotatedTag(name string, h plumbing.Hash, when time.Time) {
	r.t.Helper()
	_, err := r.Repo.CreateTag(name, h, &git.CreateTagOptions{
		Tagger:  r.signature(when),
		Message: "release " + name,
	})
	require.NoError(r.t, err)
}

// WriteFile writes an untracked file into the work tree, creating parent
// directories, and returns its path.
func (r *GitRepo) WriteFile(name, content string) string {
	r.t.Helper()
	path := filepath.Join(r.Dir, name)
	require.NoError(r.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(r.t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
