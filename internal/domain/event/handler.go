package event

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// LoggingHandler logs all events
type LoggingHandler struct {
	logger *zap.Logger
}

// NewLoggingHandler creates a new LoggingHandler
func NewLoggingHandler(logger *zap.Logger) *LoggingHandler {
	return &LoggingHandler{logger: logger}
}

// Handle logs the event
func (h *LoggingHandler) Handle(event DomainEvent) error {
	switch e := event.(type) {
	case IconPlaced:
		h.logger.Info("icon placed",
			zap.String("filename", e.Filename),
			zap.String("region", e.RegionID),
			zap.String("rule", e.RuleName),
			zap.Int("x", e.X),
			zap.Int("y", e.Y),
			zap.Int("retries", e.Retries),
		)
	case PlacementFailed:
		h.logger.Warn("placement failed",
			zap.String("filename", e.Filename),
			zap.String("region", e.RegionID),
			zap.String("error", e.Error),
			zap.Int("retries", e.Retries),
			zap.Bool("can_retry", e.CanRetry),
		)
	case OperationDropped:
		h.logger.Debug("operation dropped",
			zap.String("path", e.Path),
			zap.String("reason", e.Reason),
		)
	case RulesLoaded:
		h.logger.Info("rule set loaded",
			zap.String("version", e.Version),
			zap.Int("rules", e.RuleCount),
			zap.Float64("confidence", e.Confidence),
		)
	case OrganizeCompleted:
		h.logger.Info("organize pass completed",
			zap.Int("total", e.TotalFiles),
			zap.Int("organized", e.Organized),
			zap.Int("failed", e.Failed),
			zap.Int("skipped", e.Skipped),
			zap.Duration("duration", e.Duration),
		)
	case CorrectionRecorded:
		h.logger.Info("user correction recorded",
			zap.String("filename", e.Filename),
			zap.String("from_region", e.FromRegion),
			zap.String("to_region", e.ToRegion),
		)
	default:
		h.logger.Debug("domain event",
			zap.String("event", event.EventName()),
			zap.Time("occurred_at", event.OccurredAt()),
		)
	}
	return nil
}

// HandledEvents returns the events this handler handles
func (h *LoggingHandler) HandledEvents() []string {
	return []string{"*"} // Handle all events
}

// MetricsHandler aggregates pipeline counters from events. Counters are
// atomic so statistics reads never contend with the worker.
type MetricsHandler struct {
	processed   atomic.Int64
	placed      atomic.Int64
	failed      atomic.Int64
	dropped     atomic.Int64
	retried     atomic.Int64
	corrections atomic.Int64
}

// NewMetricsHandler creates a new MetricsHandler
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// Handle updates counters based on the event
func (h *MetricsHandler) Handle(event DomainEvent) error {
	switch e := event.(type) {
	case IconPlaced:
		h.processed.Add(1)
		h.placed.Add(1)
	case PlacementFailed:
		h.processed.Add(1)
		if e.CanRetry {
			h.retried.Add(1)
		} else {
			h.failed.Add(1)
		}
	case OperationDropped:
		h.processed.Add(1)
		h.dropped.Add(1)
	case CorrectionRecorded:
		h.corrections.Add(1)
	}
	return nil
}

// HandledEvents returns the events this handler handles
func (h *MetricsHandler) HandledEvents() []string {
	return []string{
		"icon.placed",
		"placement.failed",
		"operation.dropped",
		"correction.recorded",
	}
}

// Counters is a point-in-time snapshot of the pipeline counters.
type Counters struct {
	Processed   int64
	Placed      int64
	Failed      int64
	Dropped     int64
	Retried     int64
	Corrections int64
}

// Snapshot returns the current counter values.
func (h *MetricsHandler) Snapshot() Counters {
	return Counters{
		Processed:   h.processed.Load(),
		Placed:      h.placed.Load(),
		Failed:      h.failed.Load(),
		Dropped:     h.dropped.Load(),
		Retried:     h.retried.Load(),
		Corrections: h.corrections.Load(),
	}
}
