// Package git provides the commit and tag sources for convlog. It uses the
// go-git library to read history and tags from the local repository, so the
// git CLI is not required and no network access is ever performed.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ariel-frischer/convlog/internal/commit"
	"github.com/ariel-frischer/convlog/internal/release"
	"github.com/ariel-frischer/convlog/internal/semver"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// shortHashLen matches git's default abbreviated object name length.
const shortHashLen = 7

var (
	// ErrNotRepository is returned when no repository is found at the path.
	ErrNotRepository = errors.New("not a git repository")
	// ErrInvalidRange is matched by every RangeError.
	ErrInvalidRange = errors.New("invalid revision range")
)

// RangeError reports a range bound that does not resolve to a commit.
// It is distinct from an empty range, which is not an error.
type RangeError struct {
	Ref string
	Err error
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: unknown revision %q: %v", ErrInvalidRange, e.Ref, e.Err)
}

// Unwrap returns the underlying go-git error.
func (e *RangeError) Unwrap() error { return e.Err }

// Is allows errors.Is(err, ErrInvalidRange).
func (e *RangeError) Is(target error) bool { return target == ErrInvalidRange }

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging. The logger function should format
// and output the message (similar to log.Printf signature).
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

// logDebug logs a debug message if the debug logger is set.
func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// Repository reads commits and tags from a local git repository.
type Repository struct {
	repo *git.Repository
	root string

	// SkipMerges leaves merge commits out of commit ranges.
	SkipMerges bool
}

// Open opens the repository containing path, walking up the directory tree
// to find the .git directory. If path is empty, the current working
// directory is used.
func Open(path string) (*Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotRepository, path)
		}
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	root := path
	if wt, err := repo.Worktree(); err == nil {
		root = wt.Filesystem.Root()
	}

	logDebug("[git] repository opened at %s", root)
	return &Repository{repo: repo, root: root}, nil
}

// Root returns the repository's working tree root.
func (r *Repository) Root() string {
	return r.root
}

// GitDir returns the repository's .git directory.
func (r *Repository) GitDir() string {
	if fs, ok := r.repo.Storer.(*filesystem.Storage); ok {
		return fs.Filesystem().Root()
	}
	return filepath.Join(r.root, ".git")
}

// Commits returns the commits reachable from to but not from from, newest
// first. An empty from means the whole history of to; an empty to means HEAD.
// A bound that does not resolve yields a *RangeError; an empty range yields
// no commits and no error.
func (r *Repository) Commits(ctx context.Context, from, to string) ([]commit.Raw, error) {
	if to == "" {
		to = release.HeadRef
	}

	toHash, err := r.resolve(to)
	if err != nil {
		return nil, err
	}

	var fromHash plumbing.Hash
	if from != "" {
		if fromHash, err = r.resolve(from); err != nil {
			return nil, err
		}
	}

	walked, err := newRangeWalk(r.repo).run(ctx, toHash, fromHash)
	if err != nil {
		return nil, fmt.Errorf("walking commits in %s..%s: %w", from, to, err)
	}

	raws := make([]commit.Raw, 0, len(walked))
	for _, c := range walked {
		if r.SkipMerges && c.NumParents() > 1 {
			logDebug("[git] skipping merge commit %s", shortHash(c.Hash))
			continue
		}
		raws = append(raws, toRaw(c))
	}

	logDebug("[git] Commits(%q, %q): %d commits", from, to, len(raws))
	return raws, nil
}

// resolve turns a tag, branch, HEAD or hash into a commit hash. Annotated
// tags are peeled to the commit they point at.
func (r *Repository) resolve(ref string) (plumbing.Hash, error) {
	h, err := r.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return plumbing.ZeroHash, &RangeError{Ref: ref, Err: err}
	}
	return *h, nil
}

func toRaw(c *object.Commit) commit.Raw {
	return commit.Raw{
		Hash:      shortHash(c.Hash),
		Message:   foldSubject(c.Message),
		Timestamp: c.Committer.When.Format(time.RFC3339),
	}
}

// foldSubject joins the lines of the first paragraph with single spaces, the
// way git's %s placeholder does, and leaves body and footer untouched.
func foldSubject(message string) string {
	message = strings.ReplaceAll(message, "\r\n", "\n")
	message = strings.TrimRight(strings.TrimLeft(message, "\n"), "\n")

	subject, rest, hasRest := strings.Cut(message, "\n\n")
	lines := strings.Split(subject, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	subject = strings.Join(lines, " ")

	if !hasRest {
		return subject
	}
	return subject + "\n\n" + rest
}

func shortHash(h plumbing.Hash) string {
	return h.String()[:shortHashLen]
}

// Tags returns every tag in the repository sorted newest-first by version.
// Annotated tags are dated by their tagger, lightweight tags by the commit
// they point at. Tags that are not versions sort after all version tags.
func (r *Repository) Tags(ctx context.Context) ([]release.Tag, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer iter.Close()

	var tags []release.Tag
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		date, target, err := r.tagTarget(ref.Hash())
		if err != nil {
			logDebug("[git] skipping tag %s: %v", ref.Name().Short(), err)
			return nil
		}

		tags = append(tags, release.Tag{
			Name: ref.Name().Short(),
			Date: date,
			Hash: shortHash(target),
		})
		return nil
	})
	if err != nil && !errors.Is(err, storer.ErrStop) {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}

	SortTags(tags)
	logDebug("[git] Tags: found %d tags", len(tags))
	return tags, nil
}

// tagTarget returns the date and commit hash a tag reference points at.
func (r *Repository) tagTarget(h plumbing.Hash) (time.Time, plumbing.Hash, error) {
	if tagObj, err := r.repo.TagObject(h); err == nil {
		c, err := tagObj.Commit()
		if err != nil {
			return time.Time{}, plumbing.ZeroHash, fmt.Errorf("annotated tag does not point at a commit: %w", err)
		}
		return tagObj.Tagger.When, c.Hash, nil
	}

	c, err := r.repo.CommitObject(h)
	if err != nil {
		return time.Time{}, plumbing.ZeroHash, fmt.Errorf("tag does not point at a commit: %w", err)
	}
	return c.Committer.When, c.Hash, nil
}

// SortTags orders tags newest-first the way `git tag --sort=-v:refname`
// does: version tags by descending version, then other tags by descending name.
func SortTags(tags []release.Tag) {
	sort.SliceStable(tags, func(i, j int) bool {
		vi, errI := semver.Parse(tags[i].Name)
		vj, errJ := semver.Parse(tags[j].Name)

		switch {
		case errI == nil && errJ == nil:
			if c := vi.Compare(vj); c != 0 {
				return c > 0
			}
			return tags[i].Name > tags[j].Name
		case errI == nil:
			return true
		case errJ == nil:
			return false
		default:
			return tags[i].Name > tags[j].Name
		}
	})
}
