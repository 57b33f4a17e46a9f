// Package progress shows a spinner on terminals while convlog reads
// repository history and prints a status line when the work finishes.
package progress

// TerminalCapabilities describes what the output terminal can display.
type TerminalCapabilities struct {
	IsTTY           bool
	SupportsColor   bool
	SupportsUnicode bool
	Width           int
}

// ProgressSymbols are the status glyphs for a terminal.
type ProgressSymbols struct {
	Checkmark  string
	Failure    string
	SpinnerSet int // Index into spinner.CharSets
}
