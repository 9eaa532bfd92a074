// Package watch aggregates filesystem change notifications from a set of
// monitored roots into a single stream of "something changed" stimuli.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Aggregator subscribes one fsnotify feed per monitored root and collapses
// modify/create/delete/rename events into calls to a single onChange
// callback. The specific event kind is deliberately dropped: the consumer
// only cares that a change occurred.
type Aggregator struct {
	roots    []string
	onChange func()

	mu       sync.Mutex
	stop     chan struct{}
	stopped  bool
	watchers []*fsnotify.Watcher
	wg       sync.WaitGroup
}

// New returns an Aggregator for the given roots. onChange is invoked from
// watcher goroutines, potentially concurrently; the callback must be safe
// for that.
func New(roots []string, onChange func()) *Aggregator {
	return &Aggregator{
		roots:    roots,
		onChange: onChange,
		stop:     make(chan struct{}),
	}
}

// Start begins watching every root recursively. Each root gets its own
// fsnotify watcher and goroutine. An unreadable root fails Start; watch
// errors after startup are non-fatal.
func (a *Aggregator) Start() error {
	for _, root := range a.roots {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			a.Stop()
			return fmt.Errorf("starting watcher for %s: %w", root, err)
		}

		if err := addRecursive(w, root); err != nil {
			w.Close()
			a.Stop()
			return fmt.Errorf("watching %s: %w", root, err)
		}

		a.mu.Lock()
		a.watchers = append(a.watchers, w)
		a.mu.Unlock()

		a.wg.Add(1)
		go a.watchRoot(w)
	}
	return nil
}

// Stop signals all watcher goroutines to exit and blocks until they have
// joined. Safe to call more than once and safe to call concurrently with
// event delivery.
func (a *Aggregator) Stop() {
	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		a.wg.Wait()
		return
	}
	a.stopped = true
	close(a.stop)
	watchers := a.watchers
	a.watchers = nil
	a.mu.Unlock()

	for _, w := range watchers {
		w.Close()
	}
	a.wg.Wait()
}

// watchRoot consumes one root's event feed until stop or feed closure.
func (a *Aggregator) watchRoot(w *fsnotify.Watcher) {
	defer a.wg.Done()

	for {
		select {
		case <-a.stop:
			return

		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			// If a new directory appeared, watch it too.
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.Add(event.Name)
				}
			}
			a.onChange()

		case _, ok := <-w.Errors:
			if !ok {
				return
			}
			// Watcher errors are non-fatal; continue watching.
		}
	}
}

// addRecursive walks root and adds a watch for every subdirectory.
func addRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
