// Package watch rebuilds the site when source files change.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period after the last event before a
// rebuild runs.
const DefaultDebounce = 500 * time.Millisecond

// Watcher calls a rebuild function after changes under a set of
// directories settle. Rebuilds never overlap: changes that settle while one
// is running trigger a single follow-up run once it returns.
type Watcher struct {
	fsw      *fsnotify.Watcher
	rebuild  func()
	debounce time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	timer   *time.Timer
	running bool // a rebuild is in progress
	dirty   bool // changes arrived while running
	closed  bool

	done     chan struct{}
	wg       sync.WaitGroup
	rebuilds sync.WaitGroup
}

// New watches every directory under each root. Missing roots are skipped.
func New(roots []string, debounce time.Duration, rebuild func(), logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	w := &Watcher{
		fsw:      fsw,
		rebuild:  rebuild,
		debounce: debounce,
		logger:   logger,
		done:     make(chan struct{}),
	}

	for _, root := range roots {
		if _, err := os.Stat(root); os.IsNotExist(err) {
			logger.Info("Directory not found, not watching", zap.String("dir", root))
			continue
		}
		if err := w.addTree(root); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			w.logger.Warn("Error walking directory", zap.String("path", path), zap.Error(err))
			return nil
		}
		if d.IsDir() {
			if err := w.fsw.Add(path); err != nil {
				return fmt.Errorf("failed to watch %s: %w", path, err)
			}
		}
		return nil
	})
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("Change detected", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				if err := w.addTree(event.Name); err != nil {
					w.logger.Warn("Error adding new directory to watcher", zap.String("dir", event.Name), zap.Error(err))
				}
			}
			w.schedule()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	if w.running {
		w.dirty = true
		w.mu.Unlock()
		return
	}
	w.running = true
	w.rebuilds.Add(1)
	w.mu.Unlock()
	defer w.rebuilds.Done()

	for {
		w.rebuild()

		w.mu.Lock()
		if !w.dirty || w.closed {
			w.running = false
			w.dirty = false
			w.mu.Unlock()
			return
		}
		w.dirty = false
		w.mu.Unlock()
	}
}

// Close stops watching and cancels a pending rebuild. A rebuild that has
// already started is not interrupted; Close waits for it to return.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.fsw.Close()
	w.wg.Wait()
	w.mu.Lock()
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	w.rebuilds.Wait()
	return err
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
