// Package watch delivers debounced change notifications for a single
// database file.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// редакторы сохраняют сериями (temp + rename), серия схлопывается
// в одно уведомление
const settle = 200 * time.Millisecond

// Event is one settled change of the watched file.
type Event struct {
	Path    string // absolute path of the database file
	Removed bool   // file no longer exists after the change
}

// Watcher monitors one database file through its parent directory, so
// atomic saves (write to a temp file, rename over) are still observed.
type Watcher struct {
	// Events delivers settled changes. Closed by Stop.
	Events <-chan Event

	path   string
	events chan Event
	done   chan struct{}
	fw     *fsnotify.Watcher
}

// New prepares a watcher for the given file. Start must be called
// before any events are delivered.
func New(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ch := make(chan Event, 16)
	return &Watcher{
		Events: ch,
		path:   abs,
		events: ch,
		done:   make(chan struct{}),
		fw:     fw,
	}, nil
}

// Start begins delivery. The loop exits when ctx is cancelled or Stop
// is called.
func (w *Watcher) Start(ctx context.Context) error {
	// следим за каталогом: inotify на самом файле теряется после rename
	if err := w.fw.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	go w.loop(ctx)
	return nil
}

// Stop closes the watcher and the Events channel. Must be called at
// most once.
func (w *Watcher) Stop() {
	_ = w.fw.Close()
	<-w.done
	close(w.events)
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)

	var pendingAt time.Time
	pending := false
	ticker := time.NewTicker(settle)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !w.isTarget(event) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				pending = true
				pendingAt = time.Now()
			}

		case <-ticker.C:
			if pending && time.Since(pendingAt) >= settle {
				pending = false
				w.emit()
			}

		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			// ошибки слежения не фатальны, ждём дальше
		}
	}
}

// isTarget отбрасывает события соседних файлов в каталоге
func (w *Watcher) isTarget(event fsnotify.Event) bool {
	name, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return name == w.path
}

func (w *Watcher) emit() {
	_, err := os.Stat(w.path)
	w.events <- Event{Path: w.path, Removed: os.IsNotExist(err)}
}
