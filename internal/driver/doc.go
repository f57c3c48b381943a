// Package driver implements work execution for the retrieval engine.
//
// A Driver executes exactly one task against one concrete source kind and
// reports the outcome as a Result. Three drivers are provided:
//   - FileDriver: reads files and lists directories on the local filesystem
//   - HTTPDriver: issues HTTP requests with per-host politeness, bounded
//     retries with exponential backoff, optional robots.txt enforcement,
//     and hyperlink extraction for link-frontier tasks
//   - QueryDriver: pages through a SQLite source with offset/limit queries
//
// Drivers never let a failure escape their boundary: every error is
// captured into the Result with a kind tag, so a single bad target can
// never halt an engine run. Retry of transient failures is likewise a
// driver-internal concern, bounded within a single Fetch call; the engine
// never replays a task.
package driver
