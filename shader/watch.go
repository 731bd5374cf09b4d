package shader

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/gogpu/shaderview"
)

// Watcher reports writes to shader files.
//
// Directories are watched rather than files so that editors which save by
// rename keep being observed.
type Watcher struct {
	w      *fsnotify.Watcher
	events chan string
	done   chan struct{}

	mu    sync.Mutex
	files map[string]bool
	dirs  map[string]bool

	closeOnce sync.Once
	log       *slog.Logger
}

// NewWatcher starts a watcher. Changed paths are delivered on Events.
func NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("shader: watcher: %w", err)
	}
	w := &Watcher{
		w:      fw,
		events: make(chan string, 16),
		done:   make(chan struct{}),
		files:  make(map[string]bool),
		dirs:   make(map[string]bool),
		log:    shaderview.ComponentLogger("shader"),
	}
	go w.run()
	return w, nil
}

// Add starts watching path. Builtin paths are ignored.
func (w *Watcher) Add(path string) error {
	if strings.HasPrefix(path, BuiltinPrefix) {
		return nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[abs] = true
	if w.dirs[dir] {
		return nil
	}
	if err := w.w.Add(dir); err != nil {
		return fmt.Errorf("shader: watch %s: %w", dir, err)
	}
	w.dirs[dir] = true
	return nil
}

// Events returns the channel of changed absolute paths.
func (w *Watcher) Events() <-chan string { return w.events }

// Close stops the watcher. Events is closed once the watcher goroutine
// exits.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.w.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.events)
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.w.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			name := filepath.Clean(event.Name)
			w.mu.Lock()
			tracked := w.files[name]
			w.mu.Unlock()
			if !tracked {
				continue
			}
			select {
			case w.events <- name:
			case <-w.done:
				return
			}
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			w.log.Warn("shader watcher", "err", err)
		}
	}
}
