package driver

import (
	"context"

	"github.com/ingestkit/wayfind/internal/model"
)

// Driver executes a single task and produces a result.
//
// Implementations must be safe for concurrent Fetch calls: in worker-pool
// mode the engine dispatches several fetches at once against the same
// driver instance. Any state a driver shares across fetches (such as the
// HTTP driver's per-host politeness timestamps) must be guarded
// internally.
type Driver interface {
	// Supports reports whether this driver handles the task's strategy.
	// The engine selects the first registered driver that returns true.
	Supports(task model.Task) bool

	// Fetch performs the I/O for one task. It must never panic or return
	// failures out of band: every error is captured into the Result with
	// Success=false and a kind-tagged Err. The context carries
	// cancellation and the per-fetch deadline.
	Fetch(ctx context.Context, task model.Task) model.Result
}
