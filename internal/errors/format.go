package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Colors are dropped by fatih/color when NO_COLOR is set or stdout is not a terminal.
var (
	errorLabel  = color.New(color.FgRed, color.Bold).SprintFunc()
	errorMsg    = color.New(color.FgRed).SprintFunc()
	categoryFmt = color.New(color.FgYellow).SprintFunc()
	detailLabel = color.New(color.Bold).SprintFunc()
	fixLabel    = color.New(color.FgGreen, color.Bold).SprintFunc()
	bullet      = color.New(color.FgGreen).SprintFunc()
)

// Format renders err as a block: the category and message, the offending
// commit and the correct usage when known, then the remediation steps.
func Format(err *CLIError) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%s]: %s\n", errorLabel("Error"), categoryFmt(err.Category.String()), errorMsg(err.Message))

	if err.Commit != "" {
		fmt.Fprintf(&sb, "\n%s %s\n", detailLabel("Commit:"), err.Commit)
	}
	if err.Usage != "" {
		fmt.Fprintf(&sb, "\n%s %s\n", detailLabel("Usage:"), err.Usage)
	}

	if len(err.Remediation) > 0 {
		fmt.Fprintf(&sb, "\n%s\n", fixLabel("To fix this:"))
		for _, step := range err.Remediation {
			fmt.Fprintf(&sb, "  %s %s\n", bullet("•"), step)
		}
	}

	return sb.String()
}

// FprintError writes the formatted err to w. A nil err writes nothing.
func FprintError(w io.Writer, err *CLIError) {
	if err == nil {
		return
	}
	fmt.Fprint(w, Format(err))
}
