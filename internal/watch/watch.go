// Package watch triggers atlas reloads when map sources change on disk.
package watch

import (
	"io/fs"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Watcher observes a set of directory trees and invokes a callback after
// changes settle. Editors produce bursts of writes, so events are debounced
// and the callback runs at most once per quiet period.
type Watcher struct {
	fsw  *fsnotify.Watcher
	log  *logrus.Logger
	done chan struct{}
}

// New starts watching the given directory trees. The callback runs on the
// watcher's own goroutine once no event has arrived for the debounce
// interval.
func New(dirs []string, debounce time.Duration, log *logrus.Logger, fn func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{fsw: fsw, log: log, done: make(chan struct{})}
	for _, dir := range dirs {
		if err := w.addTree(dir); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	go w.run(debounce, fn)
	return w, nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.fsw.Add(path)
		}
		return nil
	})
}

func (w *Watcher) run(debounce time.Duration, fn func()) {
	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			// New subdirectories join the watch so later writes in
			// them are seen too.
			if ev.Op.Has(fsnotify.Create) {
				if err := w.addTree(ev.Name); err == nil {
					w.log.WithField("path", ev.Name).Debug("watching new entry")
				}
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					<-timer.C
				}
				timer.Reset(debounce)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Warn("file watcher error")
		case <-fire:
			timer = nil
			fire = nil
			fn()
		case <-w.done:
			return
		}
	}
}

// Close stops the watcher. A pending debounced callback is dropped.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
