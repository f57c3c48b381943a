package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/ingestkit/wayfind/internal/model"
)

// ResultDB provides SQLite-based storage for navigation runs and the
// results they yield. It manages connection pooling and provides methods
// for CRUD operations.
//
// Design decision: We use a single database file for all runs rather
// than one file per run. This simplifies cross-run queries (has this
// target been fetched before, how did error rates change) and
// backup/restore operations.
type ResultDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures ResultDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a ResultDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*ResultDB, error) {
	dbPath := filepath.Join(dbDir, "wayfind.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to prevent creating new files and
	// mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; a single connection avoids
	// SQLITE_BUSY churn during result streaming.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &ResultDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Close closes the database connection.
func (rdb *ResultDB) Close() error {
	return rdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (rdb *ResultDB) createTables() error {
	schema := `
	-- Runs store one row per navigation run with its frontier accounting
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		strategy TEXT NOT NULL,
		seed TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		duration_ms INTEGER DEFAULT 0,
		succeeded INTEGER DEFAULT 0,
		failed INTEGER DEFAULT 0,
		dispatched INTEGER DEFAULT 0,
		enqueued INTEGER DEFAULT 0,
		depth_exceeded INTEGER DEFAULT 0,
		filtered INTEGER DEFAULT 0,
		duplicate INTEGER DEFAULT 0,
		malformed INTEGER DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_runs_seed ON runs(seed);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	-- Results store one row per yielded result
	CREATE TABLE IF NOT EXISTS results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		task_id TEXT NOT NULL,
		target TEXT NOT NULL,
		strategy TEXT NOT NULL,
		depth INTEGER NOT NULL,
		parent_id TEXT,
		success INTEGER NOT NULL,
		status_code INTEGER,
		content_type TEXT,
		title TEXT,
		error_kind TEXT,
		error_message TEXT,
		attempts INTEGER DEFAULT 0,
		payload_hash TEXT,
		payload_size INTEGER DEFAULT 0,
		row_count INTEGER DEFAULT 0,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(run_id, task_id)
	);

	CREATE INDEX IF NOT EXISTS idx_results_run ON results(run_id);
	CREATE INDEX IF NOT EXISTS idx_results_target ON results(target);
	CREATE INDEX IF NOT EXISTS idx_results_error ON results(error_kind);
	`

	_, err := rdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun inserts or updates the summary row for a run.
// Uses UPSERT so the row can be written once at run start and finalized
// at run end.
func (rdb *ResultDB) SaveRun(ctx context.Context, summary model.RunSummary) error {
	query := `
	INSERT INTO runs (id, strategy, seed, started_at, duration_ms, succeeded, failed,
		dispatched, enqueued, depth_exceeded, filtered, duplicate, malformed)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		duration_ms = excluded.duration_ms,
		succeeded = excluded.succeeded,
		failed = excluded.failed,
		dispatched = excluded.dispatched,
		enqueued = excluded.enqueued,
		depth_exceeded = excluded.depth_exceeded,
		filtered = excluded.filtered,
		duplicate = excluded.duplicate,
		malformed = excluded.malformed
	`

	_, err := rdb.db.ExecContext(ctx, query,
		summary.RunID,
		string(summary.Strategy),
		summary.Seed,
		summary.StartedAt.UTC().Format("2006-01-02 15:04:05"),
		summary.Duration.Milliseconds(),
		summary.Succeeded,
		summary.Failed,
		summary.Frontier.Dispatched,
		summary.Frontier.Enqueued,
		summary.Frontier.DepthExceeded,
		summary.Frontier.Filtered,
		summary.Frontier.Duplicate,
		summary.Frontier.Malformed,
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	return nil
}

// SaveResult inserts a result row for the given run.
// Uses UPSERT to keep re-saved results idempotent on (run, task).
func (rdb *ResultDB) SaveResult(ctx context.Context, runID string, res model.Result) error {
	var (
		errorKind    string
		errorMessage string
		attempts     int
	)
	if res.Err != nil {
		errorKind = string(res.Err.Kind)
		errorMessage = res.Err.Message
		attempts = res.Err.Attempts
	}

	var payloadHash string
	if len(res.Payload) > 0 {
		payloadHash = res.PayloadHash()
	}

	query := `
	INSERT INTO results (run_id, task_id, target, strategy, depth, parent_id, success,
		status_code, content_type, title, error_kind, error_message, attempts,
		payload_hash, payload_size, row_count)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(run_id, task_id) DO UPDATE SET
		success = excluded.success,
		status_code = excluded.status_code,
		content_type = excluded.content_type,
		title = excluded.title,
		error_kind = excluded.error_kind,
		error_message = excluded.error_message,
		attempts = excluded.attempts,
		payload_hash = excluded.payload_hash,
		payload_size = excluded.payload_size,
		row_count = excluded.row_count,
		timestamp = CURRENT_TIMESTAMP
	`

	_, err := rdb.db.ExecContext(ctx, query,
		runID,
		res.Task.ID,
		res.Task.Target,
		string(res.Task.Strategy),
		res.Task.Depth,
		res.Task.ParentID,
		res.Success,
		res.StatusCode,
		res.ContentType,
		res.Title,
		errorKind,
		errorMessage,
		attempts,
		payloadHash,
		len(res.Payload),
		len(res.Rows),
	)
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}

	return nil
}

// ResultRecord is a stored result row.
type ResultRecord struct {
	ID           int64
	RunID        string
	TaskID       string
	Target       string
	Strategy     string
	Depth        int
	ParentID     string
	Success      bool
	StatusCode   int
	ContentType  string
	Title        string
	ErrorKind    string
	ErrorMessage string
	Attempts     int
	PayloadHash  string
	PayloadSize  int64
	RowCount     int
	Timestamp    time.Time
}

const resultColumns = `id, run_id, task_id, target, strategy, depth, parent_id, success,
	status_code, content_type, title, error_kind, error_message, attempts,
	payload_hash, payload_size, row_count, timestamp`

func scanResultRecord(rows *sql.Rows) (ResultRecord, error) {
	var (
		rec       ResultRecord
		parentID  sql.NullString
		timestamp string
	)
	err := rows.Scan(
		&rec.ID,
		&rec.RunID,
		&rec.TaskID,
		&rec.Target,
		&rec.Strategy,
		&rec.Depth,
		&parentID,
		&rec.Success,
		&rec.StatusCode,
		&rec.ContentType,
		&rec.Title,
		&rec.ErrorKind,
		&rec.ErrorMessage,
		&rec.Attempts,
		&rec.PayloadHash,
		&rec.PayloadSize,
		&rec.RowCount,
		&timestamp,
	)
	if err != nil {
		return ResultRecord{}, fmt.Errorf("failed to scan result: %w", err)
	}
	rec.ParentID = parentID.String
	rec.Timestamp = parseTimestamp(timestamp)
	return rec, nil
}

// ListResults returns all stored results for a run in insertion order.
func (rdb *ResultDB) ListResults(ctx context.Context, runID string) ([]ResultRecord, error) {
	query := `SELECT ` + resultColumns + ` FROM results WHERE run_id = ? ORDER BY id`

	rows, err := rdb.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer rows.Close()

	var records []ResultRecord
	for rows.Next() {
		rec, err := scanResultRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// ListFailures returns failed results for a run, optionally filtered by
// error kind. An empty kind matches all failures.
func (rdb *ResultDB) ListFailures(ctx context.Context, runID, kind string) ([]ResultRecord, error) {
	query := `SELECT ` + resultColumns + ` FROM results WHERE run_id = ? AND success = 0`
	args := []any{runID}

	if kind != "" {
		query += " AND error_kind = ?"
		args = append(args, kind)
	}
	query += " ORDER BY id"

	rows, err := rdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list failures: %w", err)
	}
	defer rows.Close()

	var records []ResultRecord
	for rows.Next() {
		rec, err := scanResultRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// HasRecentFetch checks if a target was fetched successfully within the
// specified duration, across all runs.
func (rdb *ResultDB) HasRecentFetch(ctx context.Context, target string, duration time.Duration) (bool, error) {
	query := `
	SELECT COUNT(*) FROM results
	WHERE target = ? AND success = 1 AND timestamp > datetime('now', ?)
	`

	// SQLite datetime modifier format
	modifier := fmt.Sprintf("-%d seconds", int(duration.Seconds()))

	var count int
	if err := rdb.db.QueryRowContext(ctx, query, target, modifier).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check recent fetch: %w", err)
	}

	return count > 0, nil
}

// RunMetadata contains summary information about a stored run.
// This is used for displaying run history without loading every result.
type RunMetadata struct {
	// RunID is the unique identifier of the run.
	RunID string

	// Strategy is the navigation strategy the run used.
	Strategy string

	// Seed is the run's starting target.
	Seed string

	// StartedAt is when the run began.
	StartedAt time.Time

	// Duration is the wall-clock length of the run.
	Duration time.Duration

	// Succeeded and Failed count the yielded results.
	Succeeded int
	Failed    int
}

// ListRuns returns metadata for all stored runs, newest first.
func (rdb *ResultDB) ListRuns(ctx context.Context) ([]RunMetadata, error) {
	query := `
	SELECT id, strategy, seed, started_at, duration_ms, succeeded, failed
	FROM runs
	ORDER BY started_at DESC
	`

	rows, err := rdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunMetadata
	for rows.Next() {
		var (
			meta       RunMetadata
			startedAt  string
			durationMS int64
		)
		if err := rows.Scan(&meta.RunID, &meta.Strategy, &meta.Seed, &startedAt, &durationMS, &meta.Succeeded, &meta.Failed); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		meta.StartedAt = parseTimestamp(startedAt)
		meta.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, meta)
	}

	return runs, rows.Err()
}

// GetRun retrieves a single run's metadata by ID.
// Returns nil when the run does not exist.
func (rdb *ResultDB) GetRun(ctx context.Context, runID string) (*RunMetadata, error) {
	query := `
	SELECT id, strategy, seed, started_at, duration_ms, succeeded, failed
	FROM runs
	WHERE id = ?
	`

	var (
		meta       RunMetadata
		startedAt  string
		durationMS int64
	)
	err := rdb.db.QueryRowContext(ctx, query, runID).Scan(
		&meta.RunID, &meta.Strategy, &meta.Seed, &startedAt, &durationMS, &meta.Succeeded, &meta.Failed,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	meta.StartedAt = parseTimestamp(startedAt)
	meta.Duration = time.Duration(durationMS) * time.Millisecond
	return &meta, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
