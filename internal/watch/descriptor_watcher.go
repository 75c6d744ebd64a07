// Package watch reloads a transform descriptor whenever its file changes on
// disk, adapted from the teacher's fsnotify-based .mg file watcher: the same
// debounce-then-validate shape, aimed at a single JSON descriptor instead of
// a directory of Mangle rule files.
package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Casheeew/lesen-tan/internal/descriptor"
)

// Stats tracks watcher activity, mirroring the counters the teacher's
// MangleWatcher exposes for diagnostics.
type Stats struct {
	Reloads       int
	ReloadErrors  int
	LastEventTime time.Time
	LastError     error
}

// DescriptorWatcher watches one descriptor file and recompiles it on every
// write, handing the newest successfully-compiled result to OnReload. A
// compile failure is logged and counted but never replaces the last good
// descriptor: callers keep serving the previous compiled state until a
// valid file appears (§7's "no partial application" guarantee extended to
// hot reload).
type DescriptorWatcher struct {
	mu          sync.RWMutex
	watcher     *fsnotify.Watcher
	path        string
	logger      *zap.Logger
	debounceDur time.Duration
	onReload    func(*descriptor.Compiled)

	started bool
	stopCh  chan struct{}
	doneCh  chan struct{}
	stats   Stats
}

// New builds a DescriptorWatcher for path. onReload is invoked from the
// watcher's goroutine every time path recompiles successfully; it must not
// block for long.
func New(path string, logger *zap.Logger, onReload func(*descriptor.Compiled)) (*DescriptorWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: new fsnotify watcher: %w", err)
	}
	return &DescriptorWatcher{
		watcher:     w,
		path:        path,
		logger:      logger,
		debounceDur: 300 * time.Millisecond,
		onReload:    onReload,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start adds path itself to the watch list and begins the event loop
// in a goroutine. It is non-blocking.
func (w *DescriptorWatcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(w.path); err != nil {
		return fmt.Errorf("watch: add %s: %w", w.path, err)
	}
	w.mu.Lock()
	w.started = true
	w.mu.Unlock()
	go w.run(ctx)
	return nil
}

// Stop halts the event loop, if running, and releases the underlying
// fsnotify watcher. Calling Stop without a prior Start is valid: it just
// releases the handle.
func (w *DescriptorWatcher) Stop() {
	w.mu.RLock()
	started := w.started
	w.mu.RUnlock()
	if started {
		close(w.stopCh)
		<-w.doneCh
	}
	_ = w.watcher.Close()
}

func (w *DescriptorWatcher) run(ctx context.Context) {
	defer close(w.doneCh)

	var pending bool
	debounce := time.NewTimer(0)
	if !debounce.Stop() {
		<-debounce.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			pending = true
			debounce.Reset(w.debounceDur)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.recordError(err)
		case <-debounce.C:
			if pending {
				pending = false
				w.reload()
			}
		}
	}
}

func (w *DescriptorWatcher) reload() {
	raw, err := os.ReadFile(w.path)
	if err != nil {
		w.recordError(fmt.Errorf("read %s: %w", w.path, err))
		return
	}

	var doc descriptor.RawDescriptor
	if err := json.Unmarshal(raw, &doc); err != nil {
		w.recordError(fmt.Errorf("parse %s: %w", w.path, err))
		return
	}
	compiled, err := descriptor.Compile(&doc)
	if err != nil {
		w.recordError(fmt.Errorf("compile %s: %w", w.path, err))
		return
	}

	w.mu.Lock()
	w.stats.Reloads++
	w.stats.LastEventTime = time.Now()
	w.mu.Unlock()

	if w.logger != nil {
		w.logger.Info("descriptor reloaded", zap.String("path", w.path), zap.Int("rules", len(compiled.Rules)))
	}
	if w.onReload != nil {
		w.onReload(compiled)
	}
}

func (w *DescriptorWatcher) recordError(err error) {
	w.mu.Lock()
	w.stats.ReloadErrors++
	w.stats.LastError = err
	w.mu.Unlock()
	if w.logger != nil {
		w.logger.Warn("descriptor reload failed", zap.Error(err))
	}
}

// Stats returns a snapshot of the watcher's activity counters.
func (w *DescriptorWatcher) Stats() Stats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}
