package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

const spinnerInterval = 100 * time.Millisecond

// Indicator reports the progress of one long-running step. On a terminal it
// animates a spinner; elsewhere it only prints the final status line.
type Indicator struct {
	w       io.Writer
	caps    TerminalCapabilities
	symbols ProgressSymbols

	mu      sync.Mutex
	spinner *spinner.Spinner
}

// NewIndicator creates an indicator writing to w with the given capabilities.
func NewIndicator(w io.Writer, caps TerminalCapabilities) *Indicator {
	return &Indicator{w: w, caps: caps, symbols: SelectSymbols(caps)}
}

// Start begins a step. Calling Start while a step is running replaces its message.
func (i *Indicator) Start(message string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.caps.IsTTY {
		return
	}
	if i.spinner != nil {
		i.spinner.Suffix = " " + message
		return
	}

	s := spinner.New(spinner.CharSets[i.symbols.SpinnerSet], spinnerInterval, spinner.WithWriter(i.w))
	s.Suffix = " " + message
	if !i.caps.SupportsColor {
		_ = s.Color("reset")
	}
	s.Start()
	i.spinner = s
}

// Succeed ends the step with a success line.
func (i *Indicator) Succeed(message string) {
	i.finish(i.symbols.Checkmark, color.FgGreen, message)
}

// Fail ends the step with a failure line.
func (i *Indicator) Fail(message string) {
	i.finish(i.symbols.Failure, color.FgRed, message)
}

// Stop ends the step without printing anything.
func (i *Indicator) Stop() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.stopLocked()
}

func (i *Indicator) stopLocked() {
	if i.spinner != nil {
		i.spinner.Stop()
		i.spinner = nil
	}
}

func (i *Indicator) finish(symbol string, attr color.Attribute, message string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.stopLocked()

	if i.caps.SupportsColor {
		symbol = color.New(attr).Sprint(symbol)
	}
	fmt.Fprintf(i.w, "%s %s\n", symbol, message)
}
