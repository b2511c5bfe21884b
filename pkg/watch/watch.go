// Package watch re-runs a function when any of a set of files changes.
//
// Parent directories are watched rather than the files themselves, so files
// replaced by editors (write to temp, rename over) keep being tracked.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/macropower/adcheck/pkg/log"
)

// DefaultDebounce is the quiet period after the last event before the
// function runs.
const DefaultDebounce = 100 * time.Millisecond

var ErrNoPaths = errors.New("no paths to watch")

// Watcher watches a fixed set of files.
type Watcher struct {
	watcher *fsnotify.Watcher

	// Track watched files.
	// Events for other files in a watched directory are ignored.
	files map[string]struct{}
	dirs  map[string]struct{}

	debounce time.Duration
}

// Opt configures a [Watcher].
type Opt func(*Watcher)

// WithDebounce sets the quiet period between the last event and the run.
func WithDebounce(d time.Duration) Opt {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// New creates a [Watcher] for the given file paths.
func New(paths []string, opts ...Opt) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, ErrNoPaths
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		watcher:  fw,
		files:    make(map[string]struct{}),
		dirs:     make(map[string]struct{}),
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("resolve %q: %w", p, err)
		}

		dir := filepath.Dir(abs)
		if _, ok := w.dirs[dir]; !ok {
			err = fw.Add(dir)
			if err != nil {
				_ = fw.Close()
				return nil, fmt.Errorf("add path to watcher: %w", err)
			}

			w.dirs[dir] = struct{}{}
		}

		w.files[abs] = struct{}{}
	}

	return w, nil
}

// Files returns the absolute paths of the watched files, sorted.
func (w *Watcher) Files() []string {
	files := make([]string, 0, len(w.files))
	for f := range w.files {
		files = append(files, f)
	}

	slices.Sort(files)

	return files
}

// Run blocks until ctx is done, calling fn after each burst of changes to
// the watched files. Errors returned by fn are logged and do not stop the
// loop. Run closes the underlying watcher before returning.
func (w *Watcher) Run(ctx context.Context, fn func(context.Context) error) error {
	defer w.Close()

	logger := log.WithContext(ctx)
	logger.DebugContext(ctx, "added file watchers",
		slog.Int("files", len(w.files)),
		slog.Int("dirs", len(w.dirs)),
	)

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

		case evt, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}

			if !w.isWatched(evt.Name) {
				continue
			}

			if !ContentChanged(evt) {
				continue
			}

			logger.DebugContext(ctx, "file event", slog.String("event", evt.String()))

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}

			fire = timer.C

		case <-fire:
			fire = nil

			err := fn(ctx)
			if err != nil {
				logger.ErrorContext(ctx, "run on change", slog.Any("err", err))
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}

			logger.ErrorContext(ctx, "watch files", slog.Any("err", err))
		}
	}
}

// Close releases the underlying watcher.
func (w *Watcher) Close() {
	err := w.watcher.Close()
	if err != nil {
		slog.Error("close watcher", slog.Any("err", err))
	}
}

// ContentChanged reports whether evt may have changed a file's content.
// Events that only change permissions do not.
func ContentChanged(evt fsnotify.Event) bool {
	return evt.Op != fsnotify.Chmod
}

func (w *Watcher) isWatched(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}

	_, ok := w.files[abs]

	return ok
}
