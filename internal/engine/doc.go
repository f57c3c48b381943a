// Package engine couples one navigator with one or more drivers into a
// single lazy, pull-based sequence of results.
//
// Each pull asks the navigator for the next task, dispatches it to the
// first driver that supports its strategy, feeds the result back into the
// navigator (which may extend the frontier), and yields the result to the
// caller. The sequence is finite whenever the navigator guarantees
// eventual frontier exhaustion and is never restartable: a new run means
// a fresh engine and navigator built from the original seed.
//
// Two scheduling modes exist. The default is single-threaded cooperative
// pull: no task is dispatched before the previous result's feedback has
// completed, which makes frontier mutation race-free by construction and
// yields results in strict dispatch order. The optional worker-pool mode
// runs up to N fetches concurrently while next/feedback stay serialized
// on the one coordinator goroutine that owns the frontier; results then
// arrive in completion order, so callers needing BFS level order must use
// the default mode.
package engine
