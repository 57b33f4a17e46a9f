package changelog

import (
	"fmt"
	"io"
	"strings"

	"github.com/ariel-frischer/convlog/internal/commit"
)

const breakingHeader = "### 💥 Breaking Changes"

// Render writes a single release to w in the format selected by opts.
func Render(w io.Writer, r Release, opts Options) error {
	var b strings.Builder
	if err := renderRelease(&b, r, opts); err != nil {
		return err
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderString is a convenience function that renders a release to a string.
func RenderString(r Release, opts Options) (string, error) {
	var b strings.Builder
	if err := renderRelease(&b, r, opts); err != nil {
		return "", err
	}
	return b.String(), nil
}

// RenderMany writes every release in the given order, each rendered
// independently and followed by a blank line.
func RenderMany(w io.Writer, releases []Release, opts Options) error {
	var b strings.Builder
	for _, r := range releases {
		if err := renderRelease(&b, r, opts); err != nil {
			return fmt.Errorf("rendering release %s: %w", r.Version, err)
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderManyString is a convenience function that renders releases to a string.
func RenderManyString(releases []Release, opts Options) (string, error) {
	var b strings.Builder
	if err := RenderMany(&b, releases, opts); err != nil {
		return "", err
	}
	return b.String(), nil
}

func renderRelease(b *strings.Builder, r Release, opts Options) error {
	switch opts.Format {
	case FormatMarkdown:
		renderMarkdown(b, r, opts)
		return nil
	default:
		return fmt.Errorf("unsupported output format %d", opts.Format)
	}
}

// renderMarkdown writes the header, one section per recognized type and the
// optional Breaking Changes section.
func renderMarkdown(b *strings.Builder, r Release, opts Options) {
	fmt.Fprintf(b, "## %s - %s\n\n", r.Version, r.Date.Format("2006-01-02"))

	for _, g := range groupByType(r.Commits, opts.Types) {
		b.WriteString(sectionHeader(g.commitType))
		for _, c := range g.commits {
			b.WriteString(formatEntry(c))
		}
		b.WriteString("\n")
	}

	if opts.ShowBreaking && r.HasBreakingChanges() {
		b.WriteString(breakingHeader + "\n")
		for _, c := range r.BreakingChanges() {
			fmt.Fprintf(b, "- %s (commit: %s)\n", c.Description(), c.Hash())
		}
	}
}

func sectionHeader(commitType string) string {
	if icon := Icon(commitType); icon != "" {
		return fmt.Sprintf("### %s %s\n", icon, commitType)
	}
	return fmt.Sprintf("### %s\n", commitType)
}

func formatEntry(c commit.Commit) string {
	scope := ""
	if c.HasScope() {
		scope = fmt.Sprintf("**%s:** ", c.Scope())
	}
	return fmt.Sprintf("- %s%s (commit: %s)\n", scope, c.Description(), c.Hash())
}

// typeGroup holds the surviving commits of one type.
type typeGroup struct {
	commitType string
	commits    []commit.Commit
}

// groupByType groups recognized commits by type in first-seen order and
// drops later commits repeating a (scope, description) pair within a type.
func groupByType(commits []commit.Commit, types []string) []typeGroup {
	recognized := make(map[string]bool, len(types))
	for _, t := range types {
		recognized[t] = true
	}

	var groups []typeGroup
	index := make(map[string]int)
	seen := make(map[string]map[string]bool)

	for _, c := range commits {
		if !recognized[c.Type()] {
			continue
		}

		i, ok := index[c.Type()]
		if !ok {
			i = len(groups)
			index[c.Type()] = i
			groups = append(groups, typeGroup{commitType: c.Type()})
			seen[c.Type()] = make(map[string]bool)
		}

		key := c.Scope() + "\x00" + c.Description()
		if seen[c.Type()][key] {
			continue
		}
		seen[c.Type()][key] = true
		groups[i].commits = append(groups[i].commits, c)
	}

	return groups
}
