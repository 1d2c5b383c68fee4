package watch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Change types.
const (
	ChangeCreate = "create"
	ChangeWrite  = "write"
	ChangeRemove = "remove"
	ChangeRename = "rename"
)

// ChangeEvent represents a filesystem change.
type ChangeEvent struct {
	Path       string
	ChangeType string
}

// FSWatcher watches directories for changes to the files passing its filter.
// Changes are debounced per file; onChange receives the last change of a
// quiet file and may run concurrently for different files.
type FSWatcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	filter   *PatternFilter
	onChange func(ChangeEvent)

	mu   sync.Mutex
	last map[string]ChangeEvent
}

// NewFSWatcher creates a new filesystem watcher. A nil filter accepts every file.
func NewFSWatcher(debounce time.Duration, filter *PatternFilter, onChange func(ChangeEvent)) (*FSWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if debounce == 0 {
		debounce = 500 * time.Millisecond
	}
	if filter == nil {
		filter = NewPatternFilter(nil, nil)
	}
	return &FSWatcher{
		watcher:  w,
		debounce: debounce,
		filter:   filter,
		onChange: onChange,
		last:     make(map[string]ChangeEvent),
	}, nil
}

// Watch adds dir to the watcher. Subdirectories are not watched.
func (w *FSWatcher) Watch(dir string) error {
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	return nil
}

// Run starts the event loop. It blocks until the context is cancelled.
func (w *FSWatcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	debouncer := NewDebouncer(w.debounce, w.fire)
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			changeType := opToChangeType(event.Op)
			if changeType == "" || !w.filter.Matches(event.Name) {
				continue
			}

			w.mu.Lock()
			w.last[event.Name] = ChangeEvent{Path: event.Name, ChangeType: changeType}
			w.mu.Unlock()
			debouncer.Trigger(event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

func (w *FSWatcher) fire(path string) {
	w.mu.Lock()
	change, ok := w.last[path]
	delete(w.last, path)
	w.mu.Unlock()

	if ok && w.onChange != nil {
		w.onChange(change)
	}
}

func opToChangeType(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Create):
		return ChangeCreate
	case op.Has(fsnotify.Write):
		return ChangeWrite
	case op.Has(fsnotify.Remove):
		return ChangeRemove
	case op.Has(fsnotify.Rename):
		return ChangeRename
	default:
		return ""
	}
}
