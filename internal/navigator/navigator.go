package navigator

import (
	"github.com/ingestkit/wayfind/internal/model"
)

// Navigator decides what the next task should be and incorporates newly
// discovered leads. Implementations hold all traversal state (frontier,
// visited set, depth counters) and are never safe for concurrent use;
// the engine serializes Next and Feedback on a single goroutine.
//
// A Navigator instance belongs to exactly one engine run. It is
// constructed fresh from its seed and discarded when the run completes;
// no state survives across runs.
type Navigator interface {
	// Next pops and returns the next task to execute, respecting the
	// configured ordering and depth limit. The second return value is
	// false when the frontier is exhausted, which ends the run.
	Next() (model.Task, bool)

	// Feedback extracts leads from a completed result, normalizes and
	// filters them per strategy rules, and enqueues a new task one hop
	// deeper for each lead that survives. Leads that are malformed,
	// already visited, rejected by a filter, or beyond the depth limit
	// are dropped with a counter increment, never an error.
	Feedback(result model.Result)

	// Stats returns a snapshot of the frontier counters.
	Stats() model.FrontierStats
}
