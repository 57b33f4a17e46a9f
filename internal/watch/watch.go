// Package watch re-runs changelog generation when repository refs move.
// It uses fsnotify on the git directory: HEAD, packed-refs and the refs tree.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events a single git command emits.
const DefaultDebounce = 300 * time.Millisecond

// debugLogger is a function that logs debug messages when debug mode is enabled.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for the ref watcher.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// RefWatcher reports ref changes in a git directory.
type RefWatcher struct {
	gitDir   string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	closed   bool
}

// New creates a RefWatcher for gitDir (the .git directory, not the work tree).
// A debounce of zero uses DefaultDebounce.
func New(gitDir string, debounce time.Duration) (*RefWatcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	w := &RefWatcher{gitDir: gitDir, debounce: debounce, watcher: watcher}
	if err := w.addTree(); err != nil {
		watcher.Close()
		return nil, err
	}
	return w, nil
}

// addTree watches the git directory itself and every directory under refs/.
func (w *RefWatcher) addTree() error {
	if err := w.watcher.Add(w.gitDir); err != nil {
		return fmt.Errorf("watching %s: %w", w.gitDir, err)
	}

	refs := filepath.Join(w.gitDir, "refs")
	if _, err := os.Stat(refs); err != nil {
		return nil
	}
	return filepath.WalkDir(refs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := w.watcher.Add(path); err != nil {
				return fmt.Errorf("watching %s: %w", path, err)
			}
		}
		return nil
	})
}

// Run calls onChange after every burst of ref changes until ctx is done.
// It returns nil on cancellation and the first error from onChange or the
// underlying watcher otherwise.
func (w *RefWatcher) Run(ctx context.Context, onChange func(context.Context) error) error {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			logDebug("[watch] %s %s", event.Op, event.Name)
			w.watchNewDir(event)

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			if err := onChange(ctx); err != nil {
				return err
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

// relevant keeps events on HEAD, packed-refs and anything under refs/,
// ignoring git's lock files.
func (w *RefWatcher) relevant(event fsnotify.Event) bool {
	if strings.HasSuffix(event.Name, ".lock") {
		return false
	}
	rel, err := filepath.Rel(w.gitDir, event.Name)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	return rel == "HEAD" || rel == "packed-refs" || rel == "refs" || strings.HasPrefix(rel, "refs/")
}

// watchNewDir starts watching directories created under refs/, such as a
// new tag namespace.
func (w *RefWatcher) watchNewDir(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) {
		return
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.watcher.Add(event.Name); err != nil {
		logDebug("[watch] cannot watch %s: %v", event.Name, err)
	}
}

// Close stops the watcher. It is safe to call more than once.
func (w *RefWatcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	return w.watcher.Close()
}
