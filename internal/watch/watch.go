// Package watch triggers rebuilds when files under the content directories
// change.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// DefaultDebounce is the quiet period waited after the last event.
const DefaultDebounce = 500 * time.Millisecond

// ChangeFunc runs once per burst of filesystem events.
type ChangeFunc func(ctx context.Context, changed []string) error

// Watcher watches directory trees recursively.
type Watcher struct {
	roots    []string
	onChange ChangeFunc
	debounce time.Duration
	logger   interfaces.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides the quiet period. Non-positive values are ignored.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the watcher logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// New constructs a Watcher for roots.
func New(roots []string, onChange ChangeFunc, opts ...Option) *Watcher {
	w := &Watcher{
		roots:    append([]string(nil), roots...),
		onChange: onChange,
		debounce: DefaultDebounce,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w
}

// Run blocks until ctx is done. Change callbacks run on the Run goroutine,
// so rebuilds never overlap.
func (w *Watcher) Run(ctx context.Context) error {
	if w.onChange == nil {
		return errors.New("watch: change callback is required")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	watched := 0
	for _, root := range w.roots {
		if _, statErr := os.Stat(root); errors.Is(statErr, fs.ErrNotExist) {
			w.logger.Warn("watch.root.missing", "path", root)
			continue
		}
		watched += w.addTree(watcher, root)
	}
	if watched == 0 {
		return errors.New("watch: no directories to watch")
	}
	w.logger.Info("watch.started", "directories", watched, "debounce", w.debounce)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := map[string]struct{}{}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				w.addTree(watcher, event.Name)
			}
			pending[event.Name] = struct{}{}
			timer.Reset(w.debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch.error", "error", err)
		case <-timer.C:
			changed := drain(pending)
			w.logger.Debug("watch.changed", "files", len(changed))
			if err := w.onChange(ctx, changed); err != nil {
				w.logger.Error("watch.rebuild.failed", "error", err)
			}
		}
	}
}

func (w *Watcher) addTree(watcher *fsnotify.Watcher, root string) int {
	added := 0
	_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			w.logger.Warn("watch.walk.failed", "path", p, "error", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := watcher.Add(p); err != nil {
			w.logger.Warn("watch.add.failed", "path", p, "error", err)
			return nil
		}
		added++
		return nil
	})
	return added
}

func relevant(event fsnotify.Event) bool {
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

func drain(pending map[string]struct{}) []string {
	changed := make([]string, 0, len(pending))
	for name := range pending {
		changed = append(changed, name)
		delete(pending, name)
	}
	return changed
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
