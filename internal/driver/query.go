package driver

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"sync"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/ingestkit/wayfind/internal/model"
	"github.com/ingestkit/wayfind/internal/navigator"
)

// QueryDriver executes paginated queries against SQLite sources.
//
// The task target is the database file path; the base query and the
// offset/limit window travel in the task params. The driver reads one row
// past the requested page so it can tell whether a next page exists
// without a guaranteed-empty extra round trip: a full page emits a single
// "offset=N" lead, a short page emits none and the pagination ends.
type QueryDriver struct {
	// mu guards the connection cache; fetches may run concurrently in
	// worker-pool mode.
	mu  sync.Mutex
	dbs map[string]*sql.DB
}

// NewQueryDriver creates a QueryDriver with an empty connection cache.
func NewQueryDriver() *QueryDriver {
	return &QueryDriver{dbs: make(map[string]*sql.DB)}
}

// Supports implements Driver.
func (d *QueryDriver) Supports(task model.Task) bool {
	return task.Strategy == model.StrategyPagination
}

// Fetch implements Driver.
func (d *QueryDriver) Fetch(ctx context.Context, task model.Task) model.Result {
	params := task.Params
	if params.Query == "" || params.Limit <= 0 {
		return model.Failed(task,
			model.Fetchf(model.KindMalformedTarget, "pagination task %s has no query or page size", task.ID))
	}

	db, err := d.open(task.Target)
	if err != nil {
		return model.Failed(task, model.AsFetchError(err))
	}

	// Peek one row past the page to learn whether a next page exists.
	paged := params.Query + " LIMIT ? OFFSET ?"
	rows, err := db.QueryContext(ctx, paged, params.Limit+1, params.Offset)
	if err != nil {
		if ctx.Err() != nil {
			return model.Failed(task, model.NewFetchError(model.KindTransient, err))
		}
		return model.Failed(task, model.NewFetchError(model.KindPermanent, err))
	}
	defer rows.Close() //nolint:errcheck // fully iterated below

	records, err := scanRows(rows)
	if err != nil {
		return model.Failed(task, model.NewFetchError(model.KindDecode, err))
	}

	res := model.Result{Task: task, Success: true}
	if len(records) > params.Limit {
		records = records[:params.Limit]
		res.Leads = []string{navigator.CursorPrefix + strconv.Itoa(params.Offset+params.Limit)}
	}
	res.Rows = records
	return res
}

// Close closes every cached connection. Safe to call once after a run.
func (d *QueryDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var firstErr error
	for dsn, db := range d.dbs {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close %s: %w", dsn, err)
		}
		delete(d.dbs, dsn)
	}
	return firstErr
}

// open returns a cached connection for the database path, opening it
// read-only on first use.
func (d *QueryDriver) open(path string) (*sql.DB, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if db, ok := d.dbs[path]; ok {
		return db, nil
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, model.NewFetchError(model.KindNotFound, err)
		}
		return nil, model.NewFetchError(model.KindPermission, err)
	}

	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return nil, model.NewFetchError(model.KindPermanent, err)
	}

	// SQLite serializes writers anyway, and this driver only reads.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	d.dbs[path] = db
	return db, nil
}

// scanRows converts sql rows into column-name-keyed maps.
func scanRows(rows *sql.Rows) ([]map[string]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	records := make([]map[string]any, 0)
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		record := make(map[string]any, len(cols))
		for i, col := range cols {
			// Normalize []byte columns to string so records marshal
			// cleanly to JSON.
			if b, ok := values[i].([]byte); ok {
				record[col] = string(b)
			} else {
				record[col] = values[i]
			}
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
