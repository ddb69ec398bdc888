package session

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// dirWatcher reports changes to a single directory and can be moved to
// another one as the user navigates. The events channel is never closed.
type dirWatcher struct {
	watcher *fsnotify.Watcher
	events  chan Event
	done    chan struct{}

	mu  sync.Mutex
	dir string
}

func newDirWatcher(dir string) (*dirWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}

	dw := &dirWatcher{
		watcher: w,
		events:  make(chan Event, 8),
		done:    make(chan struct{}),
		dir:     dir,
	}
	go dw.run()
	return dw, nil
}

// Events delivers directory changes; changes are dropped while the flow
// is behind
func (w *dirWatcher) Events() <-chan Event {
	return w.events
}

// Follow moves the watch to dir
func (w *dirWatcher) Follow(dir string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if dir == w.dir {
		return
	}
	if err := w.watcher.Remove(w.dir); err != nil {
		logrus.Debugf("session: unwatch %s: %v", w.dir, err)
	}
	if err := w.watcher.Add(dir); err != nil {
		logrus.Warnf("session: watch %s: %v", dir, err)
	}
	w.dir = dir
}

// Close stops the watcher
func (w *dirWatcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}

func (w *dirWatcher) run() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Write) {
				continue
			}
			changed := DirectoryChanged{Path: filepath.Dir(ev.Name)}
			select {
			case w.events <- changed:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logrus.Warnf("session: watcher: %v", err)
		}
	}
}
