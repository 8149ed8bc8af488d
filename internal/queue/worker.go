package queue

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/gridfall/desktop-organizer/internal/domain"
	"github.com/gridfall/desktop-organizer/internal/domain/event"
	"github.com/gridfall/desktop-organizer/internal/placement"
	"github.com/gridfall/desktop-organizer/internal/rules"
	"go.uber.org/zap"
)

// Worker defaults
const (
	DefaultPollInterval = 500 * time.Millisecond
	DefaultBackoffBase  = time.Second
)

// Worker drains the queue on a single goroutine: match, place, count, retry
// with exponential backoff. Terminal outcomes are published as domain events;
// the metrics handler subscribed to them backs the engine statistics.
type Worker struct {
	queue   *Queue
	matcher *rules.Matcher
	placer  *placement.Engine
	events  event.EventDispatcher
	logger  *zap.Logger

	pollInterval time.Duration
	backoffBase  time.Duration
}

// NewWorker creates a worker over the given queue and collaborators.
// Non-positive intervals fall back to the defaults.
func NewWorker(
	q *Queue,
	matcher *rules.Matcher,
	placer *placement.Engine,
	events event.EventDispatcher,
	logger *zap.Logger,
	pollInterval time.Duration,
	backoffBase time.Duration,
) *Worker {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	if backoffBase <= 0 {
		backoffBase = DefaultBackoffBase
	}
	return &Worker{
		queue:        q,
		matcher:      matcher,
		placer:       placer,
		events:       events,
		logger:       logger,
		pollInterval: pollInterval,
		backoffBase:  backoffBase,
	}
}

// Run processes operations until the context is cancelled. An in-flight
// operation is allowed to finish; cancellation is only observed between
// operations.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("operation worker started")
	defer w.logger.Info("operation worker stopped")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		op, ok := w.queue.Dequeue()
		if !ok {
			select {
			case <-ctx.Done():
				return
			case <-time.After(w.pollInterval):
			}
			continue
		}

		w.process(op)
	}
}

// process executes a single operation to a terminal outcome or a scheduled
// retry.
func (w *Worker) process(op *domain.PendingOperation) {
	rule, err := w.resolve(op)
	if err != nil {
		if !domain.IsSkippable(err) {
			w.logger.Error("operation failed",
				zap.String("path", op.Path),
				zap.Error(err),
			)
		}
		w.events.Dispatch(event.NewOperationDropped(op.Path, err.Error()))
		return
	}

	filename := filepath.Base(op.Path)
	cell, err := w.placer.Place(filename, rule.TargetRegion)
	if err == nil {
		w.events.Dispatch(event.NewIconPlaced(filename, rule.TargetRegion, rule.Name, cell.X, cell.Y, op.Retries))
		return
	}

	canRetry := domain.IsRetryable(err) && op.CanRetry()
	w.events.Dispatch(event.NewPlacementFailed(filename, rule.TargetRegion, err.Error(), op.Retries, canRetry))

	if !canRetry {
		w.logger.Error("operation abandoned",
			zap.String("path", op.Path),
			zap.Int("retries", op.Retries),
			zap.Error(err),
		)
		return
	}

	delay := w.backoffBase << op.Retries
	op.Retries++
	w.logger.Warn("placement failed, retry scheduled",
		zap.String("path", op.Path),
		zap.Int("attempt", op.Retries),
		zap.Int("max_retries", op.MaxRetries),
		zap.Duration("delay", delay),
	)
	w.queue.EnqueueAfter(op, delay)
}

// resolve finds the rule governing the operation's file. Every failure here
// is skippable: the operation is dropped, never retried.
func (w *Worker) resolve(op *domain.PendingOperation) (*domain.Rule, error) {
	if _, err := os.Stat(op.Path); os.IsNotExist(err) {
		return nil, domain.NewSkippableError(domain.ErrFileVanished, "")
	}

	rule, err := w.matcher.Match(op.Path)
	if err != nil {
		w.logger.Warn("match failed",
			zap.String("path", op.Path),
			zap.Error(err),
		)
		return nil, domain.NewSkippableError(err, "match error")
	}
	if rule == nil {
		return nil, domain.NewSkippableError(nil, "no matching rule")
	}
	return rule, nil
}
