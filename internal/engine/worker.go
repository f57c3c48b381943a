package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ingestkit/wayfind/internal/model"
)

// nextPooled pulls from the worker-pool coordinator, starting it on the
// first call. The context of that first call governs the whole run.
func (e *Engine) nextPooled(ctx context.Context) (model.Result, bool) {
	e.runOnce.Do(func() {
		e.out = make(chan model.Result)
		go e.coordinate(ctx)
	})

	select {
	case res, ok := <-e.out:
		if !ok {
			e.finish()
			return model.Result{}, false
		}
		return res, true
	case <-ctx.Done():
		e.finish()
		return model.Result{}, false
	}
}

// coordinate is the single goroutine that owns the frontier in
// worker-pool mode. It keeps up to e.workers fetches in flight on an
// errgroup while serializing every nav.Next and nav.Feedback call on
// itself, so the frontier has exactly one writer no matter how many
// fetches run concurrently.
//
// Results are forwarded to the caller in completion order. An aborted
// run (context cancelled) forwards nothing further; in-flight fetches
// exit through the same context threaded into the driver call.
func (e *Engine) coordinate(ctx context.Context) {
	defer close(e.out)

	// The coordinator owns the frontier, so it takes the final stats
	// snapshot itself; finish never touches nav in pooled mode.
	defer e.snapshotStats()

	// Buffered to the pool size so a fetch can always hand off its result
	// even if the coordinator is already gone.
	results := make(chan model.Result, e.workers)

	var group errgroup.Group
	group.SetLimit(e.workers)
	defer func() { _ = group.Wait() }()

	inflight := 0
	for {
		if ctx.Err() != nil || e.capReached() {
			return
		}

		// Fill the free fetch slots from the frontier.
		for inflight < e.workers {
			task, ok := e.nav.Next()
			if !ok {
				break
			}
			e.noteSeed(task)

			drv := e.driverFor(task)
			if drv == nil {
				res := e.unsupported(task)
				e.record(res)
				if !e.emit(ctx, res) {
					return
				}
				continue
			}

			inflight++
			group.Go(func() error {
				res := drv.Fetch(ctx, task)
				select {
				case results <- res:
				case <-ctx.Done():
					// Aborted fetch: dropped, the coordinator is gone.
				}
				return nil
			})
		}

		if inflight == 0 {
			// Frontier exhausted and nothing left in flight.
			return
		}

		select {
		case <-ctx.Done():
			return
		case res := <-results:
			inflight--
			e.nav.Feedback(res)
			e.snapshotStats()

			if res.Discovery {
				continue
			}
			e.record(res)
			if !e.emit(ctx, res) {
				return
			}
		}
	}
}

// emit hands one result to the pulling caller. Returns false when the
// run was cancelled instead.
func (e *Engine) emit(ctx context.Context, res model.Result) bool {
	select {
	case e.out <- res:
		return true
	case <-ctx.Done():
		return false
	}
}
