// Package navigator implements work discovery for the retrieval engine.
//
// A Navigator decides what to fetch next. It owns a Frontier (the pending
// task queue plus the visited-target ledger) and accepts feedback from
// completed results to extend that frontier with newly discovered leads.
//
// Three strategies are provided:
//   - PathWalk: traverses a local directory tree, filtering files by
//     extension allow-list and name glob
//   - LinkFrontier: crawls a web link graph breadth-first or depth-first,
//     filtering links by regex and an optional same-host lock
//   - Pagination: pages through a tabular source until a short page
//     signals the end of the data
//
// Navigator operations are always non-blocking and in-memory. All I/O
// happens in drivers; the navigator only interprets the opaque lead
// strings drivers report back.
//
// Design decision: Feedback is an explicit queue mutation consumed by one
// coordinating loop, never a recursive call chain. This bounds stack depth
// regardless of how large the frontier grows.
package navigator
