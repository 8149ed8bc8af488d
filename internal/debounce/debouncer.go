package debounce

import (
	"sync"
	"time"

	"github.com/gridfall/desktop-organizer/internal/domain"
	"go.uber.org/zap"
)

// DefaultWindow is how long a path must stay quiet before its latest event is
// forwarded.
const DefaultWindow = 2 * time.Second

// Sink receives the single settled operation per path that survives
// debouncing.
type Sink func(op *domain.PendingOperation)

type pending struct {
	kind  domain.OperationKind
	timer *time.Timer
}

// Debouncer coalesces bursts of filesystem events per path. Every
// notification restarts the path's quiet-window timer, so only the last event
// of a burst reaches the sink (last-write-wins per path, no ordering across
// paths).
type Debouncer struct {
	window time.Duration
	sink   Sink
	logger *zap.Logger

	mu      sync.Mutex
	pending map[string]*pending
	stopped bool
}

// New creates a debouncer forwarding settled events to sink. A non-positive
// window falls back to DefaultWindow.
func New(window time.Duration, sink Sink, logger *zap.Logger) *Debouncer {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Debouncer{
		window:  window,
		sink:    sink,
		logger:  logger,
		pending: make(map[string]*pending),
	}
}

// Notify records an event for path. If an event for the same path is already
// waiting, its kind is superseded and its timer restarted.
func (d *Debouncer) Notify(path string, kind domain.OperationKind) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if p, ok := d.pending[path]; ok {
		p.kind = kind
		p.timer.Reset(d.window)
		d.logger.Debug("event superseded", zap.String("path", path), zap.String("kind", string(kind)))
		return
	}

	p := &pending{kind: kind}
	p.timer = time.AfterFunc(d.window, func() {
		d.fire(path)
	})
	d.pending[path] = p
}

// fire forwards the settled event for path unless a newer notification
// restarted the timer in the meantime.
func (d *Debouncer) fire(path string) {
	d.mu.Lock()
	p, ok := d.pending[path]
	if !ok || d.stopped {
		d.mu.Unlock()
		return
	}
	delete(d.pending, path)
	kind := p.kind
	d.mu.Unlock()

	d.sink(domain.NewPendingOperation(path, kind))
}

// Stop cancels all outstanding timers. Events notified after Stop are
// discarded.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	for path, p := range d.pending {
		p.timer.Stop()
		delete(d.pending, path)
	}
}

// PendingCount returns how many paths are waiting out their quiet window.
func (d *Debouncer) PendingCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}
