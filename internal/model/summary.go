package model

import "time"

// FrontierStats holds the counters a navigator's frontier maintains while
// a run is in progress. The counters feed termination decisions and the
// run summary; they are never consulted for dedup (the visited set is).
type FrontierStats struct {
	// Dispatched is the number of tasks handed to the engine via next().
	Dispatched int `json:"dispatched"`

	// Enqueued is the number of tasks ever added to the pending queue,
	// seeds included.
	Enqueued int `json:"enqueued"`

	// DepthExceeded counts leads dropped because their depth would have
	// exceeded the configured maximum.
	DepthExceeded int `json:"depth_exceeded"`

	// Filtered counts leads dropped by strategy filter rules
	// (extension allow-list, name glob, link regex, same-host lock).
	Filtered int `json:"filtered"`

	// Duplicate counts leads dropped because their normalized key was
	// already in the visited set.
	Duplicate int `json:"duplicate"`

	// Malformed counts leads dropped because they could not be parsed.
	Malformed int `json:"malformed"`
}

// RunSummary is the condensed record of one completed engine run,
// consumed by the report writers and persisted by the result store.
type RunSummary struct {
	// RunID identifies the run. It is a UUIDv4 string.
	RunID string `json:"run_id"`

	// Strategy is the strategy the run was configured with.
	Strategy Strategy `json:"strategy"`

	// Seed is the starting target.
	Seed string `json:"seed"`

	// StartedAt is when the engine began dispatching.
	StartedAt time.Time `json:"started_at"`

	// Duration is the wall-clock length of the run.
	Duration time.Duration `json:"duration"`

	// Succeeded is the number of successful results yielded.
	Succeeded int `json:"succeeded"`

	// Failed is the number of failed results yielded.
	Failed int `json:"failed"`

	// Frontier holds the final frontier counters for the run.
	Frontier FrontierStats `json:"frontier"`
}

// Total returns the total number of results the run yielded.
func (s *RunSummary) Total() int {
	return s.Succeeded + s.Failed
}
