package debounce

import (
	"sync"
	"testing"
	"time"

	"github.com/gridfall/desktop-organizer/internal/domain"
	"go.uber.org/zap"
)

// collector gathers settled operations for assertions.
type collector struct {
	mu  sync.Mutex
	ops []*domain.PendingOperation
}

func (c *collector) sink(op *domain.PendingOperation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ops = append(c.ops, op)
}

func (c *collector) snapshot() []*domain.PendingOperation {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*domain.PendingOperation, len(c.ops))
	copy(out, c.ops)
	return out
}

func TestDebouncer_BurstCoalescesToLatestKind(t *testing.T) {
	c := &collector{}
	d := New(30*time.Millisecond, c.sink, zap.NewNop())
	defer d.Stop()

	d.Notify("/desk/a.pdf", domain.OpCreated)
	d.Notify("/desk/a.pdf", domain.OpCreated)
	d.Notify("/desk/a.pdf", domain.OpMoved)

	time.Sleep(100 * time.Millisecond)

	ops := c.snapshot()
	if len(ops) != 1 {
		t.Fatalf("got %d settled operations, want 1", len(ops))
	}
	if ops[0].Kind != domain.OpMoved {
		t.Errorf("settled kind = %v, want moved (last write wins)", ops[0].Kind)
	}
	if ops[0].Path != "/desk/a.pdf" {
		t.Errorf("settled path = %q", ops[0].Path)
	}
}

func TestDebouncer_ResetExtendsQuietWindow(t *testing.T) {
	c := &collector{}
	d := New(50*time.Millisecond, c.sink, zap.NewNop())
	defer d.Stop()

	d.Notify("/desk/a.pdf", domain.OpCreated)
	time.Sleep(30 * time.Millisecond)
	// Still inside the window; this must restart it.
	d.Notify("/desk/a.pdf", domain.OpCreated)
	time.Sleep(30 * time.Millisecond)

	if got := len(c.snapshot()); got != 0 {
		t.Fatalf("event settled %d times before the window elapsed, want 0", got)
	}

	time.Sleep(60 * time.Millisecond)
	if got := len(c.snapshot()); got != 1 {
		t.Errorf("got %d settled operations, want 1", got)
	}
}

func TestDebouncer_PathsAreIndependent(t *testing.T) {
	c := &collector{}
	d := New(30*time.Millisecond, c.sink, zap.NewNop())
	defer d.Stop()

	d.Notify("/desk/a.pdf", domain.OpCreated)
	d.Notify("/desk/b.jpg", domain.OpMoved)

	time.Sleep(100 * time.Millisecond)

	ops := c.snapshot()
	if len(ops) != 2 {
		t.Fatalf("got %d settled operations, want 2", len(ops))
	}

	kinds := make(map[string]domain.OperationKind)
	for _, op := range ops {
		kinds[op.Path] = op.Kind
	}
	if kinds["/desk/a.pdf"] != domain.OpCreated {
		t.Errorf("a.pdf kind = %v, want created", kinds["/desk/a.pdf"])
	}
	if kinds["/desk/b.jpg"] != domain.OpMoved {
		t.Errorf("b.jpg kind = %v, want moved", kinds["/desk/b.jpg"])
	}
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	c := &collector{}
	d := New(20*time.Millisecond, c.sink, zap.NewNop())

	d.Notify("/desk/a.pdf", domain.OpCreated)
	d.Stop()

	time.Sleep(60 * time.Millisecond)
	if got := len(c.snapshot()); got != 0 {
		t.Errorf("got %d settled operations after Stop, want 0", got)
	}
	if d.PendingCount() != 0 {
		t.Errorf("PendingCount() = %d after Stop, want 0", d.PendingCount())
	}

	// Notifications after Stop are discarded.
	d.Notify("/desk/b.pdf", domain.OpCreated)
	time.Sleep(40 * time.Millisecond)
	if got := len(c.snapshot()); got != 0 {
		t.Errorf("got %d settled operations after post-Stop notify, want 0", got)
	}
}
