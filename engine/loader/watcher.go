package loader

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 200 * time.Millisecond

// watcher is the implementation of the Watcher interface.
type watcher struct {
	mu sync.Mutex

	fs       *fsnotify.Watcher
	debounce time.Duration

	// files maps a cleaned file path to the model ids that depend on it.
	files  map[string]map[string]struct{}
	dirs   map[string]int
	timers map[string]*time.Timer

	changes chan string
	done    chan struct{}
	closed  bool
}

// Watcher reports model ids whose source files changed on disk.
// Directories are watched rather than files so editors that save by rename keep triggering.
// Bursts of events for one id within the debounce window collapse into a single change.
type Watcher interface {
	// Watch starts watching files on behalf of a model id. Calling Watch again for the
	// same id adds paths.
	//
	// Parameters:
	//   - id: the model id reported on Changes
	//   - paths: the files the model is built from
	//
	// Returns:
	//   - error: an error if a directory cannot be watched
	Watch(id string, paths ...string) error

	// Changes returns the channel of changed model ids.
	//
	// Returns:
	//   - <-chan string: debounced model ids
	Changes() <-chan string

	// Close stops watching. No ids are sent on Changes afterwards; the channel is left open.
	//
	// Returns:
	//   - error: an error from the underlying file watcher
	Close() error
}

var _ Watcher = &watcher{}

// WatcherOption is a functional option for configuring a Watcher via NewWatcher.
type WatcherOption func(*watcher)

// WithDebounce sets how long a file must be quiet before its model id is reported.
//
// Parameters:
//   - d: the debounce window
//
// Returns:
//   - WatcherOption: a function that applies the debounce option to a watcher
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *watcher) {
		w.debounce = d
	}
}

// NewWatcher creates a Watcher and starts its event loop.
//
// Parameters:
//   - options: a variadic list of WatcherOption functions
//
// Returns:
//   - Watcher: the running watcher
//   - error: an error if the platform file watcher cannot be created
func NewWatcher(options ...WatcherOption) (Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("loader: failed to create file watcher: %w", err)
	}

	w := &watcher{
		fs:       fs,
		debounce: defaultDebounce,
		files:    make(map[string]map[string]struct{}),
		dirs:     make(map[string]int),
		timers:   make(map[string]*time.Timer),
		changes:  make(chan string, 16),
		done:     make(chan struct{}),
	}
	for _, opt := range options {
		opt(w)
	}

	go w.run()
	return w, nil
}

func (w *watcher) Watch(id string, paths ...string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return fmt.Errorf("loader: watcher closed")
	}

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("loader: cannot watch %s: %w", p, err)
		}
		abs = filepath.Clean(abs)

		dir := filepath.Dir(abs)
		if w.dirs[dir] == 0 {
			if err := w.fs.Add(dir); err != nil {
				return fmt.Errorf("loader: cannot watch %s: %w", dir, err)
			}
		}

		if w.files[abs] == nil {
			w.files[abs] = make(map[string]struct{})
			w.dirs[dir]++
		}
		w.files[abs][id] = struct{}{}
	}
	return nil
}

func (w *watcher) Changes() <-chan string {
	return w.changes
}

func (w *watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for id, t := range w.timers {
		t.Stop()
		delete(w.timers, id)
	}
	close(w.done)
	w.mu.Unlock()

	return w.fs.Close()
}

// run dispatches file events until Close.
func (w *watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule(filepath.Clean(event.Name))
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Printf("[Watcher] file watch error: %v", err)
		}
	}
}

// schedule (re)arms the debounce timer of every id that depends on path.
func (w *watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	for id := range w.files[path] {
		if t, ok := w.timers[id]; ok {
			t.Reset(w.debounce)
			continue
		}
		w.timers[id] = time.AfterFunc(w.debounce, func() {
			w.emit(id)
		})
	}
}

// emit publishes a debounced id, giving up if the watcher closes first.
func (w *watcher) emit(id string) {
	w.mu.Lock()
	delete(w.timers, id)
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return
	}

	select {
	case w.changes <- id:
	case <-w.done:
	}
}
