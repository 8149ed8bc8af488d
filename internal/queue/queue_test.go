package queue

import (
	"testing"
	"time"

	"github.com/gridfall/desktop-organizer/internal/domain"
)

func TestQueue_FIFOOrder(t *testing.T) {
	q := New()
	defer q.Close()

	paths := []string{"/desk/a.pdf", "/desk/b.jpg", "/desk/c.exe"}
	for _, p := range paths {
		q.Enqueue(domain.NewPendingOperation(p, domain.OpCreated))
	}

	if q.Len() != len(paths) {
		t.Fatalf("Len() = %d, want %d", q.Len(), len(paths))
	}

	for i, want := range paths {
		op, ok := q.Dequeue()
		if !ok {
			t.Fatalf("Dequeue() #%d empty, want %q", i, want)
		}
		if op.Path != want {
			t.Errorf("Dequeue() #%d = %q, want %q", i, op.Path, want)
		}
	}

	if _, ok := q.Dequeue(); ok {
		t.Error("Dequeue() on drained queue returned an operation")
	}
}

func TestQueue_EnqueueAfter(t *testing.T) {
	q := New()
	defer q.Close()

	op := domain.NewPendingOperation("/desk/a.pdf", domain.OpCreated)
	q.EnqueueAfter(op, 30*time.Millisecond)

	// Waiting retries count toward the pending depth but are not dequeuable.
	if q.Len() != 1 {
		t.Errorf("Len() = %d during backoff, want 1", q.Len())
	}
	if _, ok := q.Dequeue(); ok {
		t.Error("Dequeue() returned operation before its deadline")
	}

	deadline := time.Now().Add(time.Second)
	for {
		if got, ok := q.Dequeue(); ok {
			if got.ID != op.ID {
				t.Errorf("Dequeue() = %q, want %q", got.ID, op.ID)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("operation never re-entered the queue")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestQueue_DelayedEntersBehindNewWork(t *testing.T) {
	q := New()
	defer q.Close()

	retry := domain.NewPendingOperation("/desk/retry.pdf", domain.OpCreated)
	q.EnqueueAfter(retry, 20*time.Millisecond)
	q.Enqueue(domain.NewPendingOperation("/desk/fresh.pdf", domain.OpCreated))

	op, ok := q.Dequeue()
	if !ok || op.Path != "/desk/fresh.pdf" {
		t.Fatalf("first Dequeue() = %v, %v; want fresh.pdf", op, ok)
	}
}

func TestQueue_Close(t *testing.T) {
	q := New()
	q.Enqueue(domain.NewPendingOperation("/desk/a.pdf", domain.OpCreated))
	q.EnqueueAfter(domain.NewPendingOperation("/desk/b.pdf", domain.OpCreated), 10*time.Millisecond)

	q.Close()

	if q.Len() != 0 {
		t.Errorf("Len() = %d after Close, want 0", q.Len())
	}
	if _, ok := q.Dequeue(); ok {
		t.Error("Dequeue() returned work after Close")
	}

	q.Enqueue(domain.NewPendingOperation("/desk/c.pdf", domain.OpCreated))
	time.Sleep(30 * time.Millisecond)
	if q.Len() != 0 {
		t.Errorf("Len() = %d after post-Close enqueue, want 0", q.Len())
	}
}
