// Package watcher watches a single file and invokes a callback when it is
// written, created or removed. The worker uses it to hot-reload the content
// catalog.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// debounceWindow coalesces editor write bursts into one callback.
const debounceWindow = 250 * time.Millisecond

// Watcher watches one file for changes.
type Watcher struct {
	path     string
	onChange func()
	fsw      *fsnotify.Watcher
	done     chan struct{}
	stopOnce sync.Once
}

// New creates a watcher for the given file. onChange runs on the watcher
// goroutine; keep it short or hand off to another goroutine.
func New(path string, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	return &Watcher{
		path:     filepath.Clean(path),
		onChange: onChange,
		fsw:      fsw,
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching. The parent directory is watched rather than the
// file itself so atomic replace (write temp, rename over) is still seen.
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.path)
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	go w.loop()
	return nil
}

func (w *Watcher) loop() {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			log.Debug().Str("path", w.path).Str("op", event.Op.String()).Msg("File change detected")
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceWindow, w.onChange)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Str("path", w.path).Msg("File watcher error")

		case <-w.done:
			return
		}
	}
}

// Stop stops watching and releases the underlying watcher.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fsw.Close()
	})
	return err
}
