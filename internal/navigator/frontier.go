package navigator

import (
	"github.com/ingestkit/wayfind/internal/model"
)

// Order selects how the frontier hands out pending tasks.
type Order string

// Frontier orderings.
const (
	// OrderBFS pops oldest-first (a queue), giving breadth-first traversal.
	OrderBFS Order = "bfs"

	// OrderDFS pops newest-first (a stack), giving depth-first traversal.
	OrderDFS Order = "dfs"
)

// Valid reports whether o is a supported ordering.
func (o Order) Valid() bool {
	return o == OrderBFS || o == OrderDFS
}

// Frontier is the navigator's live work state: the pending task queue and
// the visited-target ledger, plus the counters that feed termination
// decisions and run summaries.
//
// Design decision: The pending queue is a plain slice used as either a
// queue or a stack depending on the configured order. Frontiers are
// bounded by the visited set (every enqueued key is unique), so the
// slice never grows past the number of distinct targets discovered.
//
// A Frontier is owned by exactly one navigator and is mutated only through
// that navigator's Next/Feedback calls. It is not safe for concurrent use.
type Frontier struct {
	order   Order
	pending []model.Task
	visited map[string]bool
	stats   model.FrontierStats
}

// NewFrontier creates an empty frontier with the given pop order.
func NewFrontier(order Order) *Frontier {
	if !order.Valid() {
		order = OrderBFS
	}
	return &Frontier{
		order:   order,
		pending: make([]model.Task, 0),
		visited: make(map[string]bool),
	}
}

// Push enqueues a task under the given normalized key. The key is marked
// visited immediately, so a duplicate lead discovered before this task is
// even dispatched is still dropped. Returns false without enqueueing when
// the key was already visited.
func (f *Frontier) Push(key string, task model.Task) bool {
	if f.visited[key] {
		f.stats.Duplicate++
		return false
	}
	f.visited[key] = true
	f.pending = append(f.pending, task)
	f.stats.Enqueued++
	return true
}

// Pop removes and returns the next task per the configured order.
// The second return value is false when the frontier is empty.
func (f *Frontier) Pop() (model.Task, bool) {
	if len(f.pending) == 0 {
		return model.Task{}, false
	}

	var task model.Task
	if f.order == OrderDFS {
		last := len(f.pending) - 1
		task = f.pending[last]
		f.pending = f.pending[:last]
	} else {
		task = f.pending[0]
		f.pending = f.pending[1:]
	}

	f.stats.Dispatched++
	return task, true
}

// Seen reports whether the normalized key has been enqueued or dispatched.
func (f *Frontier) Seen(key string) bool {
	return f.visited[key]
}

// Len returns the number of pending tasks.
func (f *Frontier) Len() int {
	return len(f.pending)
}

// NoteFiltered records a lead dropped by a strategy filter rule.
func (f *Frontier) NoteFiltered() {
	f.stats.Filtered++
}

// NoteDepthExceeded records a lead dropped by the depth limit.
func (f *Frontier) NoteDepthExceeded() {
	f.stats.DepthExceeded++
}

// NoteMalformed records a lead that could not be parsed.
func (f *Frontier) NoteMalformed() {
	f.stats.Malformed++
}

// NoteDuplicate records a lead dropped as already visited before Push.
// Push records duplicates itself; this exists for strategies that check
// Seen explicitly to avoid building a task they would throw away.
func (f *Frontier) NoteDuplicate() {
	f.stats.Duplicate++
}

// Stats returns a copy of the frontier counters.
func (f *Frontier) Stats() model.FrontierStats {
	return f.stats
}
