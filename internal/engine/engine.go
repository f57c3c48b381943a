package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ingestkit/wayfind/internal/driver"
	"github.com/ingestkit/wayfind/internal/model"
	"github.com/ingestkit/wayfind/internal/navigator"
)

// Engine drives the navigator/driver feedback loop and exposes the
// results as a lazy sequence. One Engine serves exactly one run; it is
// exhausted once Next reports false and cannot be restarted.
//
// Next is not safe for concurrent callers. In worker-pool mode the
// engine fans fetches out internally, but the caller still pulls results
// one at a time.
type Engine struct {
	nav     navigator.Navigator
	drivers []driver.Driver
	logger  *slog.Logger

	// workers is the number of concurrent fetches. 1 selects the
	// single-threaded cooperative mode.
	workers int

	// maxResults caps how many results the run may yield. 0 is unlimited.
	maxResults int

	runID     string
	strategy  model.Strategy
	seed      string
	startedAt time.Time

	started bool
	done    bool

	// out carries results from the coordinator in worker-pool mode.
	out     chan model.Result
	runOnce sync.Once

	// mu guards the counters and the stats snapshot, which Summary may
	// read while the worker-pool coordinator is still writing them.
	mu        sync.Mutex
	succeeded int
	failed    int
	yielded   int
	duration  time.Duration
	stats     model.FrontierStats
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers enables worker-pool mode with up to n concurrent fetches.
// Values below 2 keep the default single-threaded mode.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 1 {
			e.workers = n
		}
	}
}

// WithMaxResults caps the number of results the run yields. Zero means
// the run ends only on frontier exhaustion.
func WithMaxResults(n int) Option {
	return func(e *Engine) {
		e.maxResults = n
	}
}

// WithLogger sets a custom logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an Engine over the given navigator and drivers.
//
// The driver table is fixed here: each task is matched against it in
// registration order, once, with no reflection involved. A nil navigator,
// an empty driver table, or a negative result cap are construction
// errors since they cannot be attributed to any single task.
func New(nav navigator.Navigator, drivers []driver.Driver, opts ...Option) (*Engine, error) {
	if nav == nil {
		return nil, fmt.Errorf("engine: nil navigator")
	}
	if len(drivers) == 0 {
		return nil, fmt.Errorf("engine: no drivers registered")
	}

	e := &Engine{
		nav:     nav,
		drivers: drivers,
		workers: 1,
		runID:   uuid.NewString(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.maxResults < 0 {
		return nil, fmt.Errorf("engine: negative result cap %d", e.maxResults)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e, nil
}

// Next yields the next result of the run. The second return value is
// false when the sequence has ended: frontier exhaustion, the result cap,
// or cancellation. Once false, every subsequent call returns false.
func (e *Engine) Next(ctx context.Context) (model.Result, bool) {
	if e.done {
		return model.Result{}, false
	}
	if !e.started {
		e.started = true
		e.startedAt = time.Now()
		e.logger.Info("run started", "run_id", e.runID, "workers", e.workers)
	}

	if e.workers > 1 {
		return e.nextPooled(ctx)
	}
	return e.nextSerial(ctx)
}

// All drains the sequence and returns every yielded result. The error is
// non-nil only when the run ended early due to context cancellation.
func (e *Engine) All(ctx context.Context) ([]model.Result, error) {
	results := make([]model.Result, 0)
	for {
		res, ok := e.Next(ctx)
		if !ok {
			break
		}
		results = append(results, res)
	}
	return results, ctx.Err()
}

// Summary returns the run record: identifiers, counts, and the final
// frontier counters. Meaningful once the sequence has ended; before that
// it is a best-effort snapshot.
func (e *Engine) Summary() *model.RunSummary {
	e.mu.Lock()
	defer e.mu.Unlock()

	return &model.RunSummary{
		RunID:     e.runID,
		Strategy:  e.strategy,
		Seed:      e.seed,
		StartedAt: e.startedAt,
		Duration:  e.duration,
		Succeeded: e.succeeded,
		Failed:    e.failed,
		Frontier:  e.stats,
	}
}

// nextSerial is the single-threaded cooperative loop: one dispatch, one
// feedback, one yield per pull, in that order.
func (e *Engine) nextSerial(ctx context.Context) (model.Result, bool) {
	for {
		if ctx.Err() != nil {
			e.finish()
			return model.Result{}, false
		}
		if e.capReached() {
			e.finish()
			return model.Result{}, false
		}

		task, ok := e.nav.Next()
		if !ok {
			e.finish()
			return model.Result{}, false
		}
		e.noteSeed(task)

		drv := e.driverFor(task)
		if drv == nil {
			// Unsupported strategy: an engine-level failure that never
			// reaches a driver or the navigator's feedback.
			res := e.unsupported(task)
			e.record(res)
			return res, true
		}

		res := drv.Fetch(ctx, task)
		if ctx.Err() != nil {
			// Aborted fetch: the partial result is dropped, not yielded.
			e.finish()
			return model.Result{}, false
		}

		e.nav.Feedback(res)
		e.snapshotStats()

		if res.Discovery {
			continue
		}

		e.record(res)
		return res, true
	}
}

// driverFor returns the first registered driver supporting the task.
func (e *Engine) driverFor(task model.Task) driver.Driver {
	for _, d := range e.drivers {
		if d.Supports(task) {
			return d
		}
	}
	return nil
}

// unsupported builds the engine-level failure for a task no driver claims.
func (e *Engine) unsupported(task model.Task) model.Result {
	e.logger.Warn("no driver for task",
		"run_id", e.runID,
		"task_id", task.ID,
		"strategy", task.Strategy,
	)
	return model.Failed(task,
		model.Fetchf(model.KindUnsupportedStrategy, "no driver registered for strategy %q", task.Strategy))
}

// noteSeed captures run metadata from the first dispatched task.
func (e *Engine) noteSeed(task model.Task) {
	if e.seed == "" && task.Depth == 0 {
		e.mu.Lock()
		e.seed = task.Target
		e.strategy = task.Strategy
		e.mu.Unlock()
	}
}

// record counts a yielded result.
func (e *Engine) record(res model.Result) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.yielded++
	if res.Success {
		e.succeeded++
	} else {
		e.failed++
	}
}

// capReached reports whether the result cap has been hit.
func (e *Engine) capReached() bool {
	if e.maxResults == 0 {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.yielded >= e.maxResults
}

// snapshotStats copies the frontier counters for Summary readers.
func (e *Engine) snapshotStats() {
	stats := e.nav.Stats()
	e.mu.Lock()
	e.stats = stats
	e.mu.Unlock()
}

// finish marks the sequence ended and fixes the run duration. In
// worker-pool mode the frontier belongs to the coordinator, which may
// still be mid-feedback when a cancelled caller lands here, so only the
// serial mode snapshots stats from this side.
func (e *Engine) finish() {
	if e.done {
		return
	}
	e.done = true
	if e.out == nil {
		e.snapshotStats()
	}

	e.mu.Lock()
	if e.started {
		e.duration = time.Since(e.startedAt)
	}
	succeeded, failed := e.succeeded, e.failed
	e.mu.Unlock()

	e.logger.Info("run finished",
		"run_id", e.runID,
		"succeeded", succeeded,
		"failed", failed,
		"duration", e.duration,
	)
}
