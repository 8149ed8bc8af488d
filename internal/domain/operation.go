package domain

import (
	"time"

	"github.com/google/uuid"
)

// OperationKind identifies what produced a pending operation.
type OperationKind string

// Operation kinds
const (
	OpCreated  OperationKind = "created"
	OpMoved    OperationKind = "moved"
	OpOrganize OperationKind = "organize"
)

// DefaultMaxRetries is how many times a failed placement is re-attempted
// before the operation is abandoned.
const DefaultMaxRetries = 3

// PendingOperation is a settled filesystem event waiting to be executed by
// the queue worker. It is destroyed on terminal success or retry exhaustion.
type PendingOperation struct {
	ID         string
	Path       string
	Kind       OperationKind
	EnqueuedAt time.Time
	Retries    int
	MaxRetries int
}

// NewPendingOperation creates an operation for the given path and event kind.
func NewPendingOperation(path string, kind OperationKind) *PendingOperation {
	return &PendingOperation{
		ID:         uuid.NewString(),
		Path:       path,
		Kind:       kind,
		EnqueuedAt: time.Now(),
		MaxRetries: DefaultMaxRetries,
	}
}

// CanRetry reports whether the operation has retry budget left.
func (op *PendingOperation) CanRetry() bool {
	return op.Retries < op.MaxRetries
}
