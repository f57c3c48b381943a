package model

import (
	"github.com/google/uuid"
)

// Strategy identifies which navigator/driver pair handles a task.
//
// Design decision: We use a closed set of string constants rather than a
// duck-typed "which component claims this tag" lookup. The engine resolves
// the strategy to a driver exactly once per task against a table built at
// construction time, so adding a strategy means adding a constant here and
// registering the matching components.
type Strategy string

// Supported retrieval strategies.
const (
	// StrategyPathWalk traverses a local directory tree. Directory tasks
	// produce child-entry leads; file tasks are terminal.
	StrategyPathWalk Strategy = "path_walk"

	// StrategyLinkFrontier crawls a web link graph from a seed URL.
	// Leads are hyperlinks extracted from fetched pages.
	StrategyLinkFrontier Strategy = "link_frontier"

	// StrategyPagination pages through a tabular source with offset/limit
	// queries. The only lead is the synthetic "next page" cursor.
	StrategyPagination Strategy = "pagination"
)

// Valid reports whether s is one of the supported strategies.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyPathWalk, StrategyLinkFrontier, StrategyPagination:
		return true
	}
	return false
}

// String returns the strategy tag as a plain string.
func (s Strategy) String() string {
	return string(s)
}

// Params carries strategy-specific task parameters.
//
// Only the fields relevant to the task's strategy are populated:
// pagination tasks carry Query/Offset/Limit, other strategies leave the
// struct zero-valued. Filter rules (regex, extensions, globs) are navigator
// configuration, not per-task state, so they do not appear here.
type Params struct {
	// Query is the base query text for pagination tasks, without any
	// LIMIT/OFFSET clause. The query driver appends paging itself.
	Query string `json:"query,omitempty"`

	// Offset is the row offset for pagination tasks.
	Offset int `json:"offset,omitempty"`

	// Limit is the page size for pagination tasks.
	Limit int `json:"limit,omitempty"`
}

// Task is an immutable description of one unit of retrieval work.
//
// Tasks are created either as seeds when a navigator is initialized, or by
// the navigator's feedback step when a result carries new leads. Once
// created a task is never mutated; retry is a driver-internal concern and
// never re-creates or re-queues a task.
type Task struct {
	// ID is an opaque unique identifier used for deduplication bookkeeping
	// and tracing. It is a UUIDv4 string.
	ID string `json:"id"`

	// Target is the strategy-specific addressable key: an absolute file
	// path, an absolute URL, or a data source name for paginated queries.
	Target string `json:"target"`

	// Strategy selects which navigator/driver pair handles this task.
	Strategy Strategy `json:"strategy"`

	// Depth is the number of discovery hops from the seed. Seed tasks are
	// depth 0; a task spawned from feedback is always parent depth + 1.
	Depth int `json:"depth"`

	// ParentID references the task whose result produced this one.
	// It is provenance only: a lookup relation, never ownership. Empty
	// for seed tasks.
	ParentID string `json:"parent_id,omitempty"`

	// Params holds strategy-specific parameters for this task.
	Params Params `json:"params,omitempty"`
}

// NewSeedTask creates a depth-0 task for the given strategy and target.
func NewSeedTask(strategy Strategy, target string) Task {
	return Task{
		ID:       uuid.NewString(),
		Target:   target,
		Strategy: strategy,
		Depth:    0,
	}
}

// Child creates a task one hop deeper than t, targeting the given lead.
// The child inherits t's strategy and records t.ID as its parent.
//
// This is the only way feedback-discovered tasks are constructed, which
// keeps the depth invariant (child depth == parent depth + 1) in one place.
func (t Task) Child(target string) Task {
	return Task{
		ID:       uuid.NewString(),
		Target:   target,
		Strategy: t.Strategy,
		Depth:    t.Depth + 1,
		ParentID: t.ID,
	}
}

// ChildWithParams is Child with explicit strategy parameters, used by the
// pagination navigator to advance the offset on the synthetic next-page task.
func (t Task) ChildWithParams(target string, params Params) Task {
	child := t.Child(target)
	child.Params = params
	return child
}
