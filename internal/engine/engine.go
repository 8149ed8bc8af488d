package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gridfall/desktop-organizer/internal/debounce"
	"github.com/gridfall/desktop-organizer/internal/domain"
	"github.com/gridfall/desktop-organizer/internal/domain/event"
	"github.com/gridfall/desktop-organizer/internal/placement"
	"github.com/gridfall/desktop-organizer/internal/port"
	"github.com/gridfall/desktop-organizer/internal/queue"
	"github.com/gridfall/desktop-organizer/internal/regions"
	"github.com/gridfall/desktop-organizer/internal/rules"
	"github.com/gridfall/desktop-organizer/internal/watch"
	"go.uber.org/zap"
)

// State names the engine lifecycle phases.
type State string

// Engine states
const (
	StateStopped  State = "stopped"
	StateStarting State = "starting"
	StateRunning  State = "running"
	StateStopping State = "stopping"
)

// Config contains engine configuration
type Config struct {
	WatchDir        string
	DebounceWindow  time.Duration
	PollInterval    time.Duration
	BackoffBase     time.Duration
	MaxRetries      int
	ShutdownTimeout time.Duration
}

// DefaultConfig returns default engine configuration
func DefaultConfig() *Config {
	return &Config{
		DebounceWindow:  debounce.DefaultWindow,
		PollInterval:    queue.DefaultPollInterval,
		BackoffBase:     queue.DefaultBackoffBase,
		MaxRetries:      domain.DefaultMaxRetries,
		ShutdownTimeout: 30 * time.Second,
	}
}

// Engine runs the organizer pipeline: watcher into debouncer into queue into
// worker. It owns the pipeline lifecycle; rule loading and bulk organizing
// work whether or not the pipeline is running.
type Engine struct {
	config  *Config
	catalog *regions.Catalog
	matcher *rules.Matcher
	placer  *placement.Engine
	store   port.Store
	events  event.EventDispatcher
	metrics *event.MetricsHandler
	logger  *zap.Logger

	mu        sync.Mutex
	state     State
	queue     *queue.Queue
	debouncer *debounce.Debouncer
	watcher   *watch.Watcher
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	startedAt time.Time
}

// New creates an Engine. The metrics handler must already be subscribed to
// the dispatcher; the engine reads it for statistics.
func New(
	cfg *Config,
	catalog *regions.Catalog,
	matcher *rules.Matcher,
	placer *placement.Engine,
	store port.Store,
	events event.EventDispatcher,
	metrics *event.MetricsHandler,
	logger *zap.Logger,
) *Engine {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Engine{
		config:  cfg,
		catalog: catalog,
		matcher: matcher,
		placer:  placer,
		store:   store,
		events:  events,
		metrics: metrics,
		logger:  logger,
		state:   StateStopped,
	}
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Start brings up the pipeline. It fails if the engine is not stopped or the
// watch directory cannot be observed.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateStopped {
		return domain.ErrAlreadyRunning
	}
	e.state = StateStarting

	runCtx, cancel := context.WithCancel(ctx)

	q := queue.New()
	sink := func(op *domain.PendingOperation) {
		op.MaxRetries = e.config.MaxRetries
		q.Enqueue(op)
	}
	d := debounce.New(e.config.DebounceWindow, sink, e.logger)
	w := watch.New(e.config.WatchDir, d, e.logger)

	if err := w.Start(runCtx); err != nil {
		cancel()
		d.Stop()
		q.Close()
		e.state = StateStopped
		return err
	}

	worker := queue.NewWorker(q, e.matcher, e.placer, e.events, e.logger,
		e.config.PollInterval, e.config.BackoffBase)
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		worker.Run(runCtx)
	}()

	e.queue = q
	e.debouncer = d
	e.watcher = w
	e.cancel = cancel
	e.startedAt = time.Now()
	e.state = StateRunning

	e.logger.Info("engine running",
		zap.String("watch_dir", e.config.WatchDir),
		zap.Duration("debounce_window", e.config.DebounceWindow),
	)
	return nil
}

// Stop tears the pipeline down: the watcher detaches, pending debounce timers
// are cancelled, and the worker is waited for up to the shutdown timeout.
// Queued work that has not been executed is discarded.
func (e *Engine) Stop() error {
	e.mu.Lock()
	if e.state != StateRunning {
		e.mu.Unlock()
		return domain.ErrNotRunning
	}
	e.state = StateStopping
	watcher, debouncer, q, cancel := e.watcher, e.debouncer, e.queue, e.cancel
	e.mu.Unlock()

	if err := watcher.Stop(); err != nil && !errors.Is(err, domain.ErrNotRunning) {
		e.logger.Warn("watcher stop failed", zap.Error(err))
	}
	debouncer.Stop()
	cancel()

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	var waitErr error
	select {
	case <-done:
	case <-time.After(e.config.ShutdownTimeout):
		waitErr = domain.ErrUncleanShutdown
		e.logger.Error("worker did not stop within timeout",
			zap.Duration("timeout", e.config.ShutdownTimeout))
	}

	q.Close()

	e.mu.Lock()
	e.queue = nil
	e.debouncer = nil
	e.watcher = nil
	e.cancel = nil
	e.state = StateStopped
	e.mu.Unlock()

	if waitErr == nil {
		e.logger.Info("engine stopped")
	}
	return waitErr
}

// LoadRules validates a rule set, makes it active, and persists it as the
// latest. Returns ErrNoRulesLoaded when validation rejects every rule.
func (e *Engine) LoadRules(rs *domain.RuleSet) error {
	if rs == nil {
		return domain.ErrInvalidInput
	}

	valid := rules.ValidateRuleSet(rs, e.catalog.KnownIDs(), e.logger)
	if len(valid.Rules) == 0 {
		return domain.ErrNoRulesLoaded
	}

	e.matcher.Load(valid)
	if err := e.store.SaveRuleSet(valid); err != nil {
		e.logger.Error("failed to persist rule set",
			zap.String("version", valid.Version),
			zap.Error(err),
		)
	}

	e.events.Dispatch(event.NewRulesLoaded(valid.Version, len(valid.Rules), valid.ConfidenceScore))
	return nil
}

// RestoreRules reactivates the most recently persisted rule set, if any.
// Called at startup so rules survive restarts.
func (e *Engine) RestoreRules() error {
	rs, err := e.store.LatestRuleSet()
	if err != nil {
		return err
	}
	if rs == nil {
		e.logger.Info("no persisted rule set to restore")
		return nil
	}

	valid := rules.ValidateRuleSet(rs, e.catalog.KnownIDs(), e.logger)
	if len(valid.Rules) == 0 {
		e.logger.Warn("persisted rule set has no valid rules",
			zap.String("version", rs.Version))
		return nil
	}

	e.matcher.Load(valid)
	e.logger.Info("restored persisted rule set",
		zap.String("version", valid.Version),
		zap.Int("rules", len(valid.Rules)),
	)
	return nil
}

// ActiveRules returns the active rule set, or nil when none is loaded.
func (e *Engine) ActiveRules() *domain.RuleSet {
	return e.matcher.Active()
}

// OrganizeResult aggregates one bulk organize pass.
type OrganizeResult struct {
	TotalFiles   int            `json:"total_files"`
	Organized    int            `json:"organized"`
	Failed       int            `json:"failed"`
	Skipped      int            `json:"skipped"`
	RulesApplied map[string]int `json:"rules_applied"`
	Duration     time.Duration  `json:"duration"`
}

// OrganizeAll synchronously places every file in the watched directory.
// Files with no matching rule, and files whose icon already sits inside the
// matching rule's region, are skipped. Failures are counted, not retried.
func (e *Engine) OrganizeAll(ctx context.Context) (*OrganizeResult, error) {
	if e.matcher.Active() == nil {
		return nil, domain.ErrNoRulesLoaded
	}

	entries, err := os.ReadDir(e.config.WatchDir)
	if err != nil {
		return nil, err
	}

	positions, err := e.store.GetAll()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result := &OrganizeResult{RulesApplied: make(map[string]int)}

	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if entry.IsDir() {
			continue
		}
		result.TotalFiles++

		path := filepath.Join(e.config.WatchDir, entry.Name())
		rule, err := e.matcher.Match(path)
		if err != nil || rule == nil {
			result.Skipped++
			continue
		}

		if e.alreadyPlaced(positions, entry.Name(), rule.TargetRegion) {
			result.Skipped++
			continue
		}

		cell, err := e.placer.Place(entry.Name(), rule.TargetRegion)
		if err != nil {
			result.Failed++
			e.events.Dispatch(event.NewPlacementFailed(entry.Name(), rule.TargetRegion, err.Error(), 0, false))
			continue
		}

		result.Organized++
		result.RulesApplied[rule.Name]++
		e.events.Dispatch(event.NewIconPlaced(entry.Name(), rule.TargetRegion, rule.Name, cell.X, cell.Y, 0))
	}

	result.Duration = time.Since(start)
	e.events.Dispatch(event.NewOrganizeCompleted(
		result.TotalFiles, result.Organized, result.Failed, result.Skipped, result.Duration))
	return result, nil
}

// alreadyPlaced reports whether the icon's current position falls inside its
// target region, making a move pointless.
func (e *Engine) alreadyPlaced(positions map[string]domain.IconPosition, filename, regionID string) bool {
	pos, ok := positions[filename]
	if !ok {
		return false
	}
	region, err := e.catalog.Get(regionID)
	if err != nil {
		return false
	}
	return region.Contains(pos.X, pos.Y)
}

// RecordCorrection stores a user's override of a rule placement and announces
// it.
func (e *Engine) RecordCorrection(filename, fromRegion, toRegion string) error {
	if filename == "" || toRegion == "" {
		return domain.ErrInvalidInput
	}
	if !e.catalog.Has(toRegion) {
		return domain.ErrRegionNotFound
	}

	c := domain.NewCorrection(filename, fromRegion, toRegion)
	if err := e.store.RecordCorrection(c); err != nil {
		return err
	}
	e.events.Dispatch(event.NewCorrectionRecorded(filename, fromRegion, toRegion))
	return nil
}

// Statistics is a point-in-time report of pipeline health.
type Statistics struct {
	State          State   `json:"state"`
	Watching       bool    `json:"watching"`
	UptimeSeconds  float64 `json:"uptime_seconds"`
	Processed      int64   `json:"processed"`
	Placed         int64   `json:"placed"`
	Failed         int64   `json:"failed"`
	Dropped        int64   `json:"dropped"`
	Retried        int64   `json:"retried"`
	Corrections    int64   `json:"corrections"`
	SuccessRate    float64 `json:"success_rate"`
	PendingDepth   int     `json:"pending_depth"`
	RuleVersion    string  `json:"rule_version,omitempty"`
	RuleCount      int     `json:"rule_count"`
}

// Stats assembles current statistics from the metrics counters and pipeline
// state.
func (e *Engine) Stats() Statistics {
	e.mu.Lock()
	state := e.state
	q := e.queue
	w := e.watcher
	startedAt := e.startedAt
	e.mu.Unlock()

	c := e.metrics.Snapshot()
	stats := Statistics{
		State:       state,
		Processed:   c.Processed,
		Placed:      c.Placed,
		Failed:      c.Failed,
		Dropped:     c.Dropped,
		Retried:     c.Retried,
		Corrections: c.Corrections,
	}

	if c.Processed > 0 {
		stats.SuccessRate = float64(c.Placed) / float64(c.Processed)
	}
	if q != nil {
		stats.PendingDepth = q.Len()
	}
	if w != nil {
		stats.Watching = w.Running()
	}
	if state == StateRunning {
		stats.UptimeSeconds = time.Since(startedAt).Seconds()
	}
	if rs := e.matcher.Active(); rs != nil {
		stats.RuleVersion = rs.Version
		stats.RuleCount = len(rs.Rules)
	}

	return stats
}
