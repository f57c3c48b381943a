package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Using errors.New() here rather than fmt.Errorf()
// because we don't need to include dynamic values in these messages.
var (
	// ErrNoSeed is returned when no seed is specified.
	// Every run needs a starting URL, directory, or database file.
	ErrNoSeed = errors.New("no seed specified: provide a URL, directory, or database path")

	// ErrInvalidStrategy is returned when the strategy is not one of
	// link_frontier, path_walk, or pagination.
	ErrInvalidStrategy = errors.New("invalid strategy: must be link_frontier, path_walk, or pagination")

	// ErrInvalidMaxDepth is returned when the max depth is negative.
	// Use 0 to fetch only the seed.
	ErrInvalidMaxDepth = errors.New("invalid max depth: must be non-negative")

	// ErrInvalidOrder is returned when the traversal order is neither
	// "bfs" nor "dfs".
	ErrInvalidOrder = errors.New("invalid order: must be bfs or dfs")

	// ErrInvalidMaxPages is returned when the result cap is negative.
	// Use 0 to disable the cap.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be non-negative")

	// ErrNoQuery is returned when the pagination strategy is selected
	// without a SQL query to page through.
	ErrNoQuery = errors.New("no query specified: pagination requires --query")

	// ErrInvalidPageSize is returned when the page size is not positive.
	// A zero page size would dispatch empty pages forever.
	ErrInvalidPageSize = errors.New("invalid page size: must be positive")

	// ErrInvalidPolitenessInterval is returned when the per-host request
	// spacing is negative. Use 0 for no spacing.
	ErrInvalidPolitenessInterval = errors.New("invalid politeness interval: must be non-negative")

	// ErrInvalidMaxRetries is returned when the retry budget is negative.
	// Use 0 to disable retries.
	ErrInvalidMaxRetries = errors.New("invalid max retries: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// A negative body size is invalid; use 0 to use the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidWorkers is returned when the worker count is not positive.
	// A worker count of zero would mean no fetching at all.
	ErrInvalidWorkers = errors.New("invalid workers: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
