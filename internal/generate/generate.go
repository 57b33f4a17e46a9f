// Package generate wires the commit and tag sources to the parser, the
// version rules, the release partitioner and the renderer. It backs the
// single-release and multi-release paths of the generate command and the
// next command.
package generate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ariel-frischer/convlog/internal/changelog"
	"github.com/ariel-frischer/convlog/internal/commit"
	"github.com/ariel-frischer/convlog/internal/release"
	"github.com/ariel-frischer/convlog/internal/semver"
)

var (
	// ErrNoCommits is returned by Single when the range holds no commits.
	ErrNoCommits = errors.New("no commits found in the specified range")
	// ErrNoReleases is returned by Multi when every window is empty.
	ErrNoReleases = errors.New("no releases found in the specified range")
)

// debugLogger is a function that logs debug messages when debug mode is enabled.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for generation.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// TagSource lists repository tags, newest first.
type TagSource interface {
	Tags(ctx context.Context) ([]release.Tag, error)
}

// Generator produces changelogs from a repository's history.
type Generator struct {
	Commits release.CommitSource
	Tags    TagSource
	Options changelog.Options

	// InitialVersion is the base version when no version tag exists.
	InitialVersion semver.Version
	// Concurrency bounds window fetches in multi-release mode.
	Concurrency int
	// Now dates the single-release document and the unreleased window.
	// Defaults to time.Now.
	Now func() time.Time
}

// New returns a Generator with default options.
func New(commits release.CommitSource, tags TagSource) *Generator {
	return &Generator{
		Commits:        commits,
		Tags:           tags,
		Options:        changelog.DefaultOptions(),
		InitialVersion: semver.DefaultInitial,
		Concurrency:    release.DefaultConcurrency,
		Now:            time.Now,
	}
}

// SingleRequest describes one release built from a commit range.
type SingleRequest struct {
	From string
	To   string
	// Release overrides the computed version label when set.
	Release string
}

// MultiRequest describes a tag-partitioned changelog over a range.
type MultiRequest struct {
	From string
	To   string
}

// Result is a rendered changelog.
type Result struct {
	// Version is the release label of a single-release document.
	Version string
	// FromInitial is set when no version tag existed and the computed
	// version was based on the initial version.
	FromInitial bool
	Markdown    string
	Releases    []changelog.Release
}

// VersionResult is the outcome of a next-version computation.
type VersionResult struct {
	Current     semver.Version
	Next        semver.Version
	Bump        semver.Bump
	FromInitial bool
	Commits     int
}

func (g *Generator) now() time.Time {
	if g.Now == nil {
		return time.Now()
	}
	return g.Now()
}

// Single renders one release from the commits in req's range. The whole
// batch is rejected if any commit is malformed.
func (g *Generator) Single(ctx context.Context, req SingleRequest) (*Result, error) {
	commits, err := g.parsedCommits(ctx, req.From, req.To)
	if err != nil {
		return nil, err
	}
	if len(commits) == 0 {
		return nil, ErrNoCommits
	}

	result := &Result{Version: req.Release}
	if result.Version == "" {
		vr, err := g.nextVersion(ctx, commits)
		if err != nil {
			return nil, err
		}
		result.Version = vr.Next.String()
		result.FromInitial = vr.FromInitial
	}

	rel := changelog.Release{Version: result.Version, Date: g.now(), Commits: commits}
	md, err := changelog.RenderString(rel, g.Options)
	if err != nil {
		return nil, fmt.Errorf("rendering release %s: %w", rel.Version, err)
	}

	result.Markdown = md
	result.Releases = []changelog.Release{rel}
	logDebug("[generate] single release %s: %d commits", result.Version, len(commits))
	return result, nil
}

// Multi renders one section per tagged release in req's range, newest
// first, with commits after the newest tag under the unreleased label.
func (g *Generator) Multi(ctx context.Context, req MultiRequest) (*Result, error) {
	tags, err := g.Tags.Tags(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}

	windows := release.Partition(tags, req.From, req.To, g.now())
	logDebug("[generate] %d windows from %d tags", len(windows), len(tags))

	buckets, err := release.Collect(ctx, g.Commits, windows, g.Concurrency)
	if err != nil {
		return nil, err
	}
	if len(buckets) == 0 {
		return nil, ErrNoReleases
	}

	releases := make([]changelog.Release, 0, len(buckets))
	for _, b := range buckets {
		commits, err := commit.ParseAll(b.Commits)
		if err != nil {
			return nil, fmt.Errorf("release %s: %w", b.Window.Label, err)
		}
		releases = append(releases, changelog.Release{
			Version: b.Window.Label,
			Date:    b.Window.Date,
			Commits: commits,
		})
	}

	md, err := changelog.RenderManyString(releases, g.Options)
	if err != nil {
		return nil, fmt.Errorf("rendering releases: %w", err)
	}

	return &Result{Markdown: md, Releases: releases}, nil
}

// NextVersion computes the version that follows the latest version tag
// given the commits in the range. An empty range leaves the version unchanged.
func (g *Generator) NextVersion(ctx context.Context, from, to string) (*VersionResult, error) {
	commits, err := g.parsedCommits(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return g.nextVersion(ctx, commits)
}

func (g *Generator) nextVersion(ctx context.Context, commits []commit.Commit) (*VersionResult, error) {
	current, fromInitial, err := g.currentVersion(ctx)
	if err != nil {
		return nil, err
	}

	bump := semver.Classify(commits)
	return &VersionResult{
		Current:     current,
		Next:        current.Apply(bump),
		Bump:        bump,
		FromInitial: fromInitial,
		Commits:     len(commits),
	}, nil
}

// LatestTag returns the name of the newest version tag, or "" when the
// repository has none.
func (g *Generator) LatestTag(ctx context.Context) (string, error) {
	tags, err := g.Tags.Tags(ctx)
	if err != nil {
		return "", fmt.Errorf("listing tags: %w", err)
	}

	var (
		name   string
		latest semver.Version
	)
	for _, t := range release.FilterVersionTags(tags) {
		v, err := semver.Parse(t.Name)
		if err != nil {
			continue
		}
		if name == "" || v.Compare(latest) > 0 {
			name, latest = t.Name, v
		}
	}
	return name, nil
}

// currentVersion returns the latest version tag, or the initial version
// when the repository has none.
func (g *Generator) currentVersion(ctx context.Context) (semver.Version, bool, error) {
	tags, err := g.Tags.Tags(ctx)
	if err != nil {
		return semver.Version{}, false, fmt.Errorf("listing tags: %w", err)
	}

	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}

	if v, ok := semver.Latest(names); ok {
		logDebug("[generate] latest version tag: %s", v)
		return v, false, nil
	}

	logDebug("[generate] no version tags, starting from %s", g.InitialVersion)
	return g.InitialVersion, true, nil
}

func (g *Generator) parsedCommits(ctx context.Context, from, to string) ([]commit.Commit, error) {
	raws, err := g.Commits.Commits(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("reading commits: %w", err)
	}
	if len(raws) == 0 {
		return nil, nil
	}
	return commit.ParseAll(raws)
}
