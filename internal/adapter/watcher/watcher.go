// Package watcher reloads a skin when its file changes on disk.
package watcher

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tejashwikalptaru/skinamp/internal/domain"
	"github.com/tejashwikalptaru/skinamp/internal/ports"
)

// DefaultDebounce is the quiet period after the last write before a reload fires.
const DefaultDebounce = 250 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	Debounce time.Duration
}

// Watcher watches a single skin file. Editors usually replace files by
// renaming, so the parent directory is watched and events are filtered by name.
//
// Thread-safety: Watch, Unwatch and Close may be called from any goroutine.
// onChange runs on the watcher goroutine and should not block.
type Watcher struct {
	// Dependencies (injected)
	logger   *slog.Logger
	bus      ports.EventBus
	onChange func(path string)
	debounce time.Duration

	fsw *fsnotify.Watcher

	mu   sync.Mutex
	path string
	dir  string

	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New starts a watcher. bus and onChange may be nil.
func New(logger *slog.Logger, bus ports.EventBus, onChange func(path string), opts Options) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	w := &Watcher{
		logger:   logger,
		bus:      bus,
		onChange: onChange,
		debounce: opts.Debounce,
		fsw:      fsw,
		done:     make(chan struct{}),
	}

	w.wg.Add(1)
	go w.run()

	return w, nil
}

// Watch replaces the watched file with path.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	dir := filepath.Dir(abs)
	if info, err := os.Stat(dir); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	} else if !info.IsDir() {
		return fmt.Errorf("watch %s: %s is not a directory", path, dir)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if dir != w.dir {
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		if w.dir != "" {
			_ = w.fsw.Remove(w.dir)
		}
		w.dir = dir
	}
	w.path = abs

	w.logger.Debug("watching skin file", slog.String("path", abs))
	return nil
}

// Unwatch stops watching the current file.
func (w *Watcher) Unwatch() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.dir != "" {
		_ = w.fsw.Remove(w.dir)
	}
	w.dir = ""
	w.path = ""
}

// Path returns the watched file, or "" when idle.
func (w *Watcher) Path() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.path
}

// Close stops the watcher goroutine and releases the fsnotify handle.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		w.wg.Wait()
		err = w.fsw.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending string
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.done:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			path, ok := w.matches(ev)
			if !ok {
				continue
			}
			pending = path
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", slog.Any("error", err))

		case <-timerC:
			timerC = nil
			w.fire(pending)
		}
	}
}

// matches reports whether ev touches the watched file with a content change.
func (w *Watcher) matches(ev fsnotify.Event) (string, bool) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return "", false
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.path == "" || filepath.Clean(ev.Name) != w.path {
		return "", false
	}
	return w.path, true
}

func (w *Watcher) fire(path string) {
	// The file may have been unwatched during the quiet period.
	if w.Path() != path {
		return
	}

	w.logger.Info("skin file changed", slog.String("path", path))
	if w.bus != nil {
		w.bus.Publish(domain.NewSkinFileChangedEvent(path))
	}
	if w.onChange != nil {
		w.onChange(path)
	}
}
