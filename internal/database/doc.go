// Package database provides SQLite-based storage for wayfind.
//
// This package implements the ResultDB, which stores:
//   - One row per navigation run with its frontier accounting
//   - One row per yielded result with status, error kind, and payload hash
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
package database
