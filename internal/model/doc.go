// Package model defines the core data structures used throughout Wayfind.
//
// This package contains the following main types:
//   - Task: One unit of retrieval work (what to fetch, at what depth)
//   - Result: The outcome of executing a Task, including discovered leads
//   - FetchError: A kind-tagged error produced by a driver
//   - FrontierStats: Counters maintained by a navigator's frontier
//   - RunSummary: A summarized view of a completed engine run
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (navigator, driver, engine, report) need to
// use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
