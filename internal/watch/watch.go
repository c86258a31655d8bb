// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package watch re-ingests the PDF directory when its contents change.
package watch

import (
	"context"
	"io/fs"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce batches bursts of file events into one re-ingest. A bulk
// copy into the watched directory fires one event per file; reacting to
// each would rebuild the index dozens of times.
const DefaultDebounce = 2 * time.Second

// Watcher triggers a callback when PDFs appear or change in a directory
// tree. Events are debounced.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	onChange func() error
}

// New creates a watcher over dir and its subdirectories. onChange runs
// after each debounced batch of PDF events.
func New(dir string, debounce time.Duration, onChange func() error) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &Watcher{fs: fs, debounce: debounce, onChange: onChange}
	if err := w.addRecursive(dir); err != nil {
		fs.Close()
		return nil, err
	}
	return w, nil
}

// addRecursive registers dir and all nested directories. fsnotify watches
// are not recursive on their own.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.fs.Add(path)
		}
		return nil
	})
}

// Run processes events until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !relevant(event) {
				continue
			}
			// New subdirectories must be added before PDFs land in them.
			if event.Op.Has(fsnotify.Create) && filepath.Ext(event.Name) == "" {
				w.fs.Add(event.Name)
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if err := w.onChange(); err != nil {
				log.Printf("watch: re-ingest failed: %v", err)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Printf("watch: %v", err)
		}
	}
}

// Close releases the underlying watcher.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// relevant reports whether the event should trigger a re-ingest: PDF
// creation, modification or rename, or a new directory that might receive
// PDFs.
func relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(event.Name))
	return ext == ".pdf" || ext == ""
}
