package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	tt "github.com/gnolang/ifnest/internal/types"
)

var ErrAlreadyWatching = errors.New("already watching")

const (
	defaultDebounce = 100 * time.Millisecond
	cacheMaxAge     = 10 * time.Minute
)

// ReportFunc receives the issues of a file that changed.
type ReportFunc func(filename string, issues []tt.Issue)

// Watcher re-lints Python files when they are written.
type Watcher struct {
	engine   *Engine
	logger   *zap.Logger
	report   ReportFunc
	debounce time.Duration
	cache    *resultCache
	inflight sync.WaitGroup

	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	pending  map[string]*time.Timer
	done     chan struct{}
	watching bool
}

func NewWatcher(engine *Engine, logger *zap.Logger, report ReportFunc) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		engine:   engine,
		logger:   logger,
		report:   report,
		debounce: defaultDebounce,
		cache:    newResultCache(cacheMaxAge),
		pending:  make(map[string]*time.Timer),
	}
}

// Start adds every directory below dirs to the watch list and handles
// events until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context, dirs ...string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watching {
		return ErrAlreadyWatching
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating watcher: %w", err)
	}

	for _, dir := range dirs {
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return fw.Add(path)
			}
			return nil
		})
		if err != nil {
			fw.Close()
			return fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}

	w.watcher = fw
	w.done = make(chan struct{})
	w.watching = true
	go w.watchLoop(ctx)
	return nil
}

// Wait blocks until the watch loop has stopped.
func (w *Watcher) Wait() {
	w.mu.Lock()
	done := w.done
	w.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (w *Watcher) watchLoop(ctx context.Context) {
	defer w.stop()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFileEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", zap.Error(err))
		}
	}
}

// stop cancels pending lints and returns once the running ones have
// reported.
func (w *Watcher) stop() {
	w.mu.Lock()
	for name, timer := range w.pending {
		timer.Stop()
		delete(w.pending, name)
	}
	w.watching = false
	fw, done := w.watcher, w.done
	w.mu.Unlock()

	w.inflight.Wait()
	if err := fw.Close(); err != nil {
		w.logger.Error("Error closing watcher", zap.Error(err))
	}
	close(done)
}

func (w *Watcher) handleFileEvent(event fsnotify.Event) {
	if !isPythonFile(event.Name) {
		return
	}
	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		w.cache.Invalidate(event.Name)
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	// several writes in a row are linted once
	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.pending[event.Name]; ok {
		timer.Stop()
	}
	name := event.Name
	w.pending[name] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, name)
		if !w.watching {
			w.mu.Unlock()
			return
		}
		w.inflight.Add(1)
		w.mu.Unlock()

		defer w.inflight.Done()
		w.lintFile(name)
	})
}

// lintFile lints filename and reports the result. Content that did not
// change since the last report is skipped.
func (w *Watcher) lintFile(filename string) {
	if w.engine.isIgnoredPath(filename) {
		return
	}
	source, err := os.ReadFile(filename)
	if err != nil {
		w.logger.Error("Error reading file", zap.String("file", filename), zap.Error(err))
		return
	}
	if _, ok := w.cache.Get(filename, source); ok {
		w.logger.Debug("File unchanged", zap.String("file", filename))
		return
	}

	issues, err := w.engine.run(filename, source)
	if err != nil {
		w.logger.Error("Error linting file", zap.String("file", filename), zap.Error(err))
		return
	}
	w.cache.Set(filename, source, issues)
	w.logger.Debug("File re-linted", zap.String("file", filename), zap.Int("issues", len(issues)))
	if w.report != nil {
		w.report(filename, issues)
	}
}

func isPythonFile(name string) bool {
	return strings.HasSuffix(name, ".py") || strings.HasSuffix(name, ".pyi")
}
