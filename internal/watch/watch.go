// Package watch implements the CLI's -watch mode: a single goroutine
// running an fsnotify event loop that triggers a recompilation of one
// source file, shaped after the teacher's FSNotifyWatcher.
package watch

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a single file's directory and reports a Write event
// whenever that file changes.
type Watcher struct {
	w      *fsnotify.Watcher
	target string
	evC    chan struct{}
	erC    chan error
}

// New creates a Watcher on file's containing directory.
func New(file string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, err
	}
	watcher := &Watcher{w: w, target: abs, evC: make(chan struct{}, 1), erC: make(chan error, 1)}
	go watcher.loop()
	return watcher, nil
}

func (watcher *Watcher) loop() {
	for {
		select {
		case ev, ok := <-watcher.w.Events:
			if !ok {
				return
			}
			path, err := filepath.Abs(ev.Name)
			if err != nil || path != watcher.target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				select {
				case watcher.evC <- struct{}{}:
				default:
					// a recompile is already pending; coalesce
				}
			}
		case err, ok := <-watcher.w.Errors:
			if !ok {
				return
			}
			watcher.erC <- err
		}
	}
}

// Changed fires after a write to (or re-creation of) the watched file.
// Changes observed while a signal is still pending are merged into it.
func (watcher *Watcher) Changed() <-chan struct{} { return watcher.evC }

// Errors surfaces any fsnotify-level error.
func (watcher *Watcher) Errors() <-chan error { return watcher.erC }

// Close stops the watcher's goroutine.
func (watcher *Watcher) Close() error { return watcher.w.Close() }
