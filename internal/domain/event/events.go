package event

import (
	"time"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	// EventName returns the name of the event
	EventName() string
	// OccurredAt returns when the event occurred
	OccurredAt() time.Time
}

// BaseEvent provides common fields for all events
type BaseEvent struct {
	Timestamp time.Time
}

// OccurredAt returns when the event occurred
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// IconPlaced is raised when an icon is committed to a grid cell.
type IconPlaced struct {
	BaseEvent
	Filename string
	RegionID string
	RuleName string
	X        int
	Y        int
	Retries  int
}

// EventName returns the event name
func (e IconPlaced) EventName() string {
	return "icon.placed"
}

// NewIconPlaced creates a new IconPlaced event
func NewIconPlaced(filename, regionID, ruleName string, x, y, retries int) IconPlaced {
	return IconPlaced{
		BaseEvent: BaseEvent{Timestamp: time.Now()},
		Filename:  filename,
		RegionID:  regionID,
		RuleName:  ruleName,
		X:         x,
		Y:         y,
		Retries:   retries,
	}
}

// PlacementFailed is raised when a placement attempt fails. CanRetry tells
// whether the operation was re-enqueued or abandoned.
type PlacementFailed struct {
	BaseEvent
	Filename string
	RegionID string
	Error    string
	Retries  int
	CanRetry bool
}

// EventName returns the event name
func (e PlacementFailed) EventName() string {
	return "placement.failed"
}

// NewPlacementFailed creates a new PlacementFailed event
func NewPlacementFailed(filename, regionID, errMsg string, retries int, canRetry bool) PlacementFailed {
	return PlacementFailed{
		BaseEvent: BaseEvent{Timestamp: time.Now()},
		Filename:  filename,
		RegionID:  regionID,
		Error:     errMsg,
		Retries:   retries,
		CanRetry:  canRetry,
	}
}

// OperationDropped is raised when an operation leaves the queue without a
// placement attempt (file vanished, or no rule matched).
type OperationDropped struct {
	BaseEvent
	Path   string
	Reason string
}

// EventName returns the event name
func (e OperationDropped) EventName() string {
	return "operation.dropped"
}

// NewOperationDropped creates a new OperationDropped event
func NewOperationDropped(path, reason string) OperationDropped {
	return OperationDropped{
		BaseEvent: BaseEvent{Timestamp: time.Now()},
		Path:      path,
		Reason:    reason,
	}
}

// RulesLoaded is raised when a rule set replaces the active one.
type RulesLoaded struct {
	BaseEvent
	Version    string
	RuleCount  int
	Confidence float64
}

// EventName returns the event name
func (e RulesLoaded) EventName() string {
	return "rules.loaded"
}

// NewRulesLoaded creates a new RulesLoaded event
func NewRulesLoaded(version string, ruleCount int, confidence float64) RulesLoaded {
	return RulesLoaded{
		BaseEvent:  BaseEvent{Timestamp: time.Now()},
		Version:    version,
		RuleCount:  ruleCount,
		Confidence: confidence,
	}
}

// OrganizeCompleted is raised after a bulk organize pass over the watched
// directory.
type OrganizeCompleted struct {
	BaseEvent
	TotalFiles int
	Organized  int
	Failed     int
	Skipped    int
	Duration   time.Duration
}

// EventName returns the event name
func (e OrganizeCompleted) EventName() string {
	return "organize.completed"
}

// NewOrganizeCompleted creates a new OrganizeCompleted event
func NewOrganizeCompleted(total, organized, failed, skipped int, duration time.Duration) OrganizeCompleted {
	return OrganizeCompleted{
		BaseEvent:  BaseEvent{Timestamp: time.Now()},
		TotalFiles: total,
		Organized:  organized,
		Failed:     failed,
		Skipped:    skipped,
		Duration:   duration,
	}
}

// CorrectionRecorded is raised when a user moves an icon out of the region a
// rule chose for it.
type CorrectionRecorded struct {
	BaseEvent
	Filename   string
	FromRegion string
	ToRegion   string
}

// EventName returns the event name
func (e CorrectionRecorded) EventName() string {
	return "correction.recorded"
}

// NewCorrectionRecorded creates a new CorrectionRecorded event
func NewCorrectionRecorded(filename, fromRegion, toRegion string) CorrectionRecorded {
	return CorrectionRecorded{
		BaseEvent:  BaseEvent{Timestamp: time.Now()},
		Filename:   filename,
		FromRegion: fromRegion,
		ToRegion:   toRegion,
	}
}
