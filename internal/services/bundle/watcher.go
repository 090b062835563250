// Package bundle watches the model bundle file for replacement.
package bundle

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/j-veylop/prediksi-dashboard-tui/internal/logger"
)

// EventType defines the type of bundle event.
type EventType int

const (
	// EventChanged means the bundle file was written or replaced.
	EventChanged EventType = iota
	// EventRemoved means the bundle file was removed or renamed away.
	EventRemoved
	// EventError carries a watcher failure.
	EventError
)

// Event represents a bundle watcher event.
type Event struct {
	Type  EventType
	Path  string
	Error error
}

// DefaultDebounce is used when New is given a non-positive interval.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reports changes to a single bundle file. It watches the parent
// directory so that atomic replacement by rename is noticed too.
type Watcher struct {
	mu            sync.Mutex
	path          string
	debounce      time.Duration
	watcher       *fsnotify.Watcher
	eventChan     chan Event
	stopChan      chan struct{}
	closeOnce     sync.Once
	debounceTimer *time.Timer
	pending       EventType
}

// New starts watching path. The parent directory must exist.
func New(path string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve bundle path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	dir := filepath.Dir(abs)
	if err := fw.Add(dir); err != nil {
		if closeErr := fw.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w := &Watcher{
		path:      abs,
		debounce:  debounce,
		watcher:   fw,
		eventChan: make(chan Event, 16),
		stopChan:  make(chan struct{}),
	}
	go w.watchLoop()
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Events returns the event channel.
func (w *Watcher) Events() <-chan Event {
	return w.eventChan
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// Only care about the bundle file
			if filepath.Clean(event.Name) != w.path {
				continue
			}

			switch {
			case event.Op&(fsnotify.Write|fsnotify.Create) != 0:
				w.schedule(EventChanged)
			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				w.schedule(EventRemoved)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.sendEvent(Event{Type: EventError, Path: w.path, Error: err})

		case <-w.stopChan:
			return
		}
	}
}

// schedule debounces bursts of writes into a single event. The last kind
// seen wins, except that a file that exists again counts as changed.
func (w *Watcher) schedule(kind EventType) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending = kind
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounce, w.fire)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	kind := w.pending
	w.mu.Unlock()

	if kind == EventRemoved {
		if _, err := os.Stat(w.path); err == nil {
			kind = EventChanged
		}
	}

	logger.Debug("bundle file event", "path", w.path, "type", kind)
	w.sendEvent(Event{Type: kind, Path: w.path})
}

func (w *Watcher) sendEvent(event Event) {
	select {
	case <-w.stopChan:
		return
	default:
	}

	select {
	case w.eventChan <- event:
	default:
		// Channel full, drop oldest event
		select {
		case <-w.eventChan:
		default:
		}
		select {
		case w.eventChan <- event:
		default:
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.stopChan)

		w.mu.Lock()
		if w.debounceTimer != nil {
			w.debounceTimer.Stop()
		}
		w.mu.Unlock()

		err = w.watcher.Close()
	})
	return err
}
