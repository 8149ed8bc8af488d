package watch

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/gridfall/desktop-organizer/internal/debounce"
	"github.com/gridfall/desktop-organizer/internal/domain"
	"go.uber.org/zap"
)

// Watcher observes a single directory (non-recursive) and feeds create and
// rename events into the debouncer. Writes, chmods, removes and anything
// concerning a subdirectory are ignored.
type Watcher struct {
	dir       string
	debouncer *debounce.Debouncer
	logger    *zap.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a watcher for dir. The directory must exist when Start is
// called.
func New(dir string, debouncer *debounce.Debouncer, logger *zap.Logger) *Watcher {
	return &Watcher{
		dir:       dir,
		debouncer: debouncer,
		logger:    logger,
	}
}

// Start begins watching. It returns once the watch is registered; events are
// delivered on a background goroutine until Stop or context cancellation.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return domain.ErrAlreadyRunning
	}

	info, err := os.Stat(w.dir)
	if err != nil {
		return fmt.Errorf("watch directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch directory %s: %w", w.dir, domain.ErrInvalidInput)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(w.dir); err != nil {
		fw.Close()
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.running = true

	w.wg.Add(1)
	go w.loop(runCtx, fw)

	w.logger.Info("watching directory", zap.String("dir", w.dir))
	return nil
}

// Stop detaches from the filesystem and waits for the event loop to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return domain.ErrNotRunning
	}
	w.running = false
	cancel := w.cancel
	w.mu.Unlock()

	cancel()
	w.wg.Wait()
	w.logger.Info("watcher stopped", zap.String("dir", w.dir))
	return nil
}

// Running reports whether the watch is active.
func (w *Watcher) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher) {
	defer w.wg.Done()
	defer fw.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			w.handle(ev)

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))
		}
	}
}

// handle maps a raw fsnotify event to an operation kind. A rename appears as
// a Rename on the old path and a Create on the new one; the stale old-path
// operation is dropped later when the worker finds the file gone.
func (w *Watcher) handle(ev fsnotify.Event) {
	var kind domain.OperationKind
	switch {
	case ev.Has(fsnotify.Create):
		kind = domain.OpCreated
	case ev.Has(fsnotify.Rename):
		kind = domain.OpMoved
	default:
		return
	}

	if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
		return
	}

	w.logger.Debug("filesystem event",
		zap.String("path", ev.Name),
		zap.String("kind", string(kind)),
	)
	w.debouncer.Notify(ev.Name, kind)
}
