package progress

import (
	"io"
	"os"

	"golang.org/x/term"
)

// fdWriter is an output backed by a file descriptor, such as *os.File.
type fdWriter interface {
	io.Writer
	Fd() uintptr
}

// DetectFor reports what w can display. Writers without a file descriptor,
// pipes and TERM=dumb terminals get plain status lines only. NO_COLOR turns
// color off; CONVLOG_ASCII=1 swaps the Unicode glyphs for ASCII.
func DetectFor(w io.Writer) TerminalCapabilities {
	f, ok := w.(fdWriter)
	if !ok || !term.IsTerminal(int(f.Fd())) || os.Getenv("TERM") == "dumb" {
		return TerminalCapabilities{}
	}

	caps := TerminalCapabilities{
		IsTTY:           true,
		SupportsColor:   os.Getenv("NO_COLOR") == "",
		SupportsUnicode: os.Getenv("CONVLOG_ASCII") != "1",
	}
	if width, _, err := term.GetSize(int(f.Fd())); err == nil {
		caps.Width = width
	}
	return caps
}

var (
	unicodeSymbols = ProgressSymbols{Checkmark: "✓", Failure: "✗", SpinnerSet: 14}
	asciiSymbols   = ProgressSymbols{Checkmark: "[OK]", Failure: "[FAIL]", SpinnerSet: 9}
)

// SelectSymbols returns the braille spinner with ✓/✗ for Unicode terminals
// and the |/-\ spinner with [OK]/[FAIL] everywhere else.
func SelectSymbols(caps TerminalCapabilities) ProgressSymbols {
	if caps.SupportsUnicode {
		return unicodeSymbols
	}
	return asciiSymbols
}
