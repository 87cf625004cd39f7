package main

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 100 * time.Millisecond

// TuningWatcher reports changes to one tuning file. Editors often replace
// files instead of writing them, so the parent directory is watched.
type TuningWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	Events  chan string
	Errors  chan error
}

// NewTuningWatcher starts watching path
func NewTuningWatcher(path string) (*TuningWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, err
	}
	return &TuningWatcher{
		watcher: w,
		path:    abs,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
	}, nil
}

// Run forwards debounced change events until ctx is done, then closes the
// watcher and both channels.
func (w *TuningWatcher) Run(ctx context.Context) error {
	defer func() {
		_ = w.watcher.Close()
		close(w.Events)
		close(w.Errors)
	}()

	var last time.Time
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			now := time.Now()
			if now.Sub(last) < reloadDebounce {
				continue
			}
			last = now
			select {
			case w.Events <- event.Name:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// reloadTuning restarts the session whenever the tuning file changes to a
// valid configuration. Invalid edits are logged and ignored.
func reloadTuning(ctx context.Context, w *TuningWatcher, sess *Session) error {
	for {
		select {
		case name, ok := <-w.Events:
			if !ok {
				return nil
			}
			// Let the writer finish before reading
			time.Sleep(reloadDebounce)
			t, err := LoadTuning(name)
			if err != nil {
				log.Printf("config: reload skipped: %v", err)
				continue
			}
			log.Printf("config: %s changed, restarting round", filepath.Base(name))
			sess.Restart(t)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("config: watch error: %v", err)
		case <-ctx.Done():
			return nil
		}
	}
}
