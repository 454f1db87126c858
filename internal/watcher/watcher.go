// Package watcher logs on-disk changes to the served file.
//
// It watches the file's parent directory rather than the file itself, so
// editors that save by writing a temp file and renaming it over the original
// are still seen. Events are debounced per file. The watcher is purely
// observational: responses never depend on it.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robbyt/go-supervisor/supervisor"
)

const defaultDebounce = 50 * time.Millisecond

var _ supervisor.Runnable = (*Watcher)(nil)

// ChangeKind describes what happened to the watched file.
type ChangeKind string

const (
	ChangeWritten ChangeKind = "written"
	ChangeRemoved ChangeKind = "removed"
)

// Watcher reports changes to a single file.
type Watcher struct {
	path     string
	dir      string
	base     string
	debounce time.Duration
	logger   *slog.Logger
	onChange func(ChangeKind)

	mu       sync.Mutex
	fw       *fsnotify.Watcher
	done     chan struct{}
	stopOnce sync.Once
}

type Option func(*Watcher)

// WithLogHandler sets a custom slog handler for the Watcher instance.
func WithLogHandler(handler slog.Handler) Option {
	return func(w *Watcher) {
		if handler != nil {
			w.logger = slog.New(handler).WithGroup("watcher")
		}
	}
}

// WithDebounce sets the window in which repeated events are collapsed.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithCallback registers a function called after each reported change.
func WithCallback(fn func(ChangeKind)) Option {
	return func(w *Watcher) {
		w.onChange = fn
	}
}

// New creates a Watcher for path. The fsnotify handle is opened in Run, so a
// Watcher that never runs holds no file descriptors.
func New(path string, options ...Option) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	w := &Watcher{
		path:     absPath,
		dir:      filepath.Dir(absPath),
		base:     filepath.Base(absPath),
		debounce: defaultDebounce,
		logger:   slog.Default().WithGroup("watcher"),
		done:     make(chan struct{}),
	}
	for _, option := range options {
		option(w)
	}
	return w, nil
}

// String returns a unique identifier for this watcher
func (w *Watcher) String() string {
	return fmt.Sprintf("Watcher[%s]", w.path)
}

// Run watches until ctx is cancelled or Stop is called.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := w.open()
	if err != nil {
		return err
	}
	if fw == nil {
		// stopped before Run got going
		return nil
	}

	if err := fw.Add(w.dir); err != nil {
		select {
		case <-w.done:
			return nil
		default:
		}
		w.Stop()
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.logger.Debug("Watching served file", "path", w.path)

	last := make(map[ChangeKind]time.Time)
	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			kind, relevant := w.classify(event)
			if !relevant {
				continue
			}
			now := time.Now()
			if prev, seen := last[kind]; seen && now.Sub(prev) < w.debounce {
				continue
			}
			last[kind] = now
			w.report(kind)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("File watcher error", "error", err)

		case <-ctx.Done():
			w.Stop()
			return nil

		case <-w.done:
			return nil
		}
	}
}

// open creates the fsnotify handle. It returns nil without error when the
// Watcher was stopped first.
func (w *Watcher) open() (*fsnotify.Watcher, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	select {
	case <-w.done:
		return nil, nil
	default:
	}

	if w.fw == nil {
		fw, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
		}
		w.fw = fw
	}
	return w.fw, nil
}

// Stop ends watching and releases the fsnotify handle, if Run opened one.
// Safe to call multiple times, and before Run.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		w.mu.Lock()
		defer w.mu.Unlock()

		close(w.done)
		if w.fw == nil {
			return
		}
		if err := w.fw.Close(); err != nil {
			w.logger.Debug("Failed to close fsnotify watcher", "error", err)
		}
	})
}

// classify maps an fsnotify event on the parent directory to a change of the served file.
func (w *Watcher) classify(event fsnotify.Event) (ChangeKind, bool) {
	if filepath.Base(event.Name) != w.base {
		return "", false
	}
	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return ChangeRemoved, true
	case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
		return ChangeWritten, true
	}
	return "", false
}

func (w *Watcher) report(kind ChangeKind) {
	switch kind {
	case ChangeRemoved:
		w.logger.Warn("Served file is gone, requests will fail until it is restored", "path", w.path)
	default:
		w.logger.Info("Served file changed", "path", w.path)
	}
	if w.onChange != nil {
		w.onChange(kind)
	}
}
