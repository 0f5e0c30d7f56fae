package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/TFMV/cigraph/models"
)

// DefaultDebounce coalesces the burst of events editors emit on save.
const DefaultDebounce = 200 * time.Millisecond

// ErrFileRemoved is reported when the watched file disappears.
var ErrFileRemoved = errors.New("watched file was removed")

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the debounce duration.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithOnError sets the callback invoked on load and watch errors.
func WithOnError(fn func(error)) WatcherOption {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.log = l
	}
}

// Watcher reloads a payload file whenever it is written and hands the new
// payload to a callback.
type Watcher struct {
	path     string
	debounce time.Duration
	onChange func(*models.GraphPayload)
	onError  func(error)
	log      *slog.Logger

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher creates a watcher for path. onChange receives every payload
// that decodes successfully.
func NewWatcher(path string, onChange func(*models.GraphPayload), opts ...WatcherOption) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if _, err := GetProcessor(FormatFromPath(absPath)); err != nil {
		return nil, err
	}
	w := &Watcher{
		path:     absPath,
		debounce: DefaultDebounce,
		onChange: onChange,
		onError:  func(error) {},
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the watched file path.
func (w *Watcher) Path() string {
	return w.path
}

// Run watches until ctx is cancelled. The directory is watched rather than
// the file so that atomic renames are seen.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}
	w.log.Info("watching payload file", "path", w.path)

	target := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != target {
				continue
			}
			switch {
			case event.Op&fsnotify.Remove != 0:
				w.onError(ErrFileRemoved)
			case event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0:
				w.trigger()
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.onError(err)
		}
	}
}

func (w *Watcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *Watcher) reload() {
	payload, err := LoadFile(w.path)
	if err != nil {
		w.log.Warn("payload reload failed", "path", w.path, "err", err)
		w.onError(err)
		return
	}
	w.log.Info("payload reloaded", "path", w.path, "nodes", len(payload.Nodes), "edges", len(payload.Edges))
	w.onChange(payload)
}
