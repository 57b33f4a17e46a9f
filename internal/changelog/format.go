package changelog

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
)

// defaultWidth is the wrap width when the caller does not know the terminal width.
const defaultWidth = 80

// FormatOptions controls the terminal preview of a rendered changelog.
type FormatOptions struct {
	Plain    bool // Write the Markdown verbatim (no styling)
	MaxWidth int  // Maximum line width, usually the width of w (0 = 80 columns)
}

// FormatTerminal writes a rendered Markdown changelog to w for reading in a
// terminal. Plain mode writes the document unchanged.
func FormatTerminal(markdown string, w io.Writer, opts FormatOptions) error {
	if opts.Plain {
		_, err := io.WriteString(w, markdown)
		return err
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(resolveWidth(opts.MaxWidth)),
		glamour.WithEmoji(),
	)
	if err != nil {
		return fmt.Errorf("creating terminal renderer: %w", err)
	}

	styled, err := renderer.Render(markdown)
	if err != nil {
		return fmt.Errorf("styling changelog: %w", err)
	}

	_, err = io.WriteString(w, styled)
	return err
}

func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	return defaultWidth
}
