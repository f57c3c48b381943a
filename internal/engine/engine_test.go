package engine

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ingestkit/wayfind/internal/driver"
	"github.com/ingestkit/wayfind/internal/model"
	"github.com/ingestkit/wayfind/internal/navigator"
)

// graphDriver is a fake link-frontier driver serving a synthetic link
// graph from memory. It records how often each target was fetched so
// tests can assert at-most-once dispatch.
type graphDriver struct {
	mu      sync.Mutex
	pages   map[string][]string
	fetched map[string]int
}

func newGraphDriver(pages map[string][]string) *graphDriver {
	return &graphDriver{pages: pages, fetched: make(map[string]int)}
}

func (d *graphDriver) Supports(task model.Task) bool {
	return task.Strategy == model.StrategyLinkFrontier
}

func (d *graphDriver) Fetch(_ context.Context, task model.Task) model.Result {
	d.mu.Lock()
	d.fetched[task.Target]++
	d.mu.Unlock()

	res := model.Succeeded(task, []byte("page"))
	res.Leads = d.pages[task.Target]
	return res
}

func (d *graphDriver) fetchCounts() map[string]int {
	d.mu.Lock()
	defer d.mu.Unlock()
	counts := make(map[string]int, len(d.fetched))
	for k, v := range d.fetched {
		counts[k] = v
	}
	return counts
}

// diamondGraph is a small cyclic link graph: the seed links to a and b,
// both link to shared, shared links back to the seed.
func diamondGraph() map[string][]string {
	return map[string][]string{
		"http://g.test/":       {"http://g.test/a", "http://g.test/b"},
		"http://g.test/a":      {"http://g.test/shared"},
		"http://g.test/b":      {"http://g.test/shared"},
		"http://g.test/shared": {"http://g.test/"},
	}
}

func newLinkEngine(t *testing.T, d driver.Driver, navOpts []navigator.LinkFrontierOption, engOpts ...Option) *Engine {
	t.Helper()

	nav, err := navigator.NewLinkFrontier("http://g.test/", navOpts...)
	if err != nil {
		t.Fatalf("failed to build navigator: %v", err)
	}
	eng, err := New(nav, []driver.Driver{d}, engOpts...)
	if err != nil {
		t.Fatalf("failed to build engine: %v", err)
	}
	return eng
}

// TestNew tests construction validation.
func TestNew(t *testing.T) {
	t.Parallel()

	nav, err := navigator.NewLinkFrontier("http://g.test/")
	if err != nil {
		t.Fatal(err)
	}

	t.Run("nil navigator is rejected", func(t *testing.T) {
		t.Parallel()

		if _, err := New(nil, []driver.Driver{newGraphDriver(nil)}); err == nil {
			t.Error("expected error for nil navigator")
		}
	})

	t.Run("empty driver table is rejected", func(t *testing.T) {
		t.Parallel()

		if _, err := New(nav, nil); err == nil {
			t.Error("expected error for empty driver table")
		}
	})

	t.Run("negative result cap is rejected", func(t *testing.T) {
		t.Parallel()

		if _, err := New(nav, []driver.Driver{newGraphDriver(nil)}, WithMaxResults(-1)); err == nil {
			t.Error("expected error for negative result cap")
		}
	})
}

// TestAtMostOnceDispatch tests that no target is fetched more than once,
// even in a cyclic graph.
func TestAtMostOnceDispatch(t *testing.T) {
	t.Parallel()

	d := newGraphDriver(diamondGraph())
	eng := newLinkEngine(t, d, nil)

	results, err := eng.All(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 4 {
		t.Fatalf("expected 4 results for 4 distinct pages, got %d", len(results))
	}
	for target, n := range d.fetchCounts() {
		if n != 1 {
			t.Errorf("target %q fetched %d times, want 1", target, n)
		}
	}

	stats := eng.Summary().Frontier
	if stats.Dispatched != len(d.fetchCounts()) {
		t.Errorf("dispatched %d != distinct fetched %d", stats.Dispatched, len(d.fetchCounts()))
	}
}

// TestDepthMonotonicity tests that every result's task sits exactly one
// hop below its parent and never beyond the depth limit.
func TestDepthMonotonicity(t *testing.T) {
	t.Parallel()

	const maxDepth = 2
	d := newGraphDriver(diamondGraph())
	eng := newLinkEngine(t, d, []navigator.LinkFrontierOption{
		navigator.WithCrawlMaxDepth(maxDepth),
	})

	results, err := eng.All(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	depths := make(map[string]int)
	for _, res := range results {
		depths[res.Task.ID] = res.Task.Depth
	}
	for _, res := range results {
		task := res.Task
		if task.Depth > maxDepth {
			t.Errorf("task %q exceeds max depth: %d", task.Target, task.Depth)
		}
		if task.ParentID == "" {
			continue
		}
		parentDepth, ok := depths[task.ParentID]
		if !ok {
			t.Errorf("task %q has unknown parent %q", task.Target, task.ParentID)
			continue
		}
		if task.Depth != parentDepth+1 {
			t.Errorf("task %q depth %d, parent depth %d", task.Target, task.Depth, parentDepth)
		}
	}
}

// TestBFSLevelOrder tests that single-threaded bfs yields results in
// non-decreasing depth order over a depth-3 graph.
func TestBFSLevelOrder(t *testing.T) {
	t.Parallel()

	pages := map[string][]string{
		"http://g.test/":     {"http://g.test/1a", "http://g.test/1b"},
		"http://g.test/1a":   {"http://g.test/2a"},
		"http://g.test/1b":   {"http://g.test/2b"},
		"http://g.test/2a":   {"http://g.test/3a"},
		"http://g.test/2b":   {"http://g.test/3b"},
		"http://g.test/3a":   nil,
		"http://g.test/3b":   nil,
	}

	eng := newLinkEngine(t, newGraphDriver(pages), []navigator.LinkFrontierOption{
		navigator.WithCrawlOrder(navigator.OrderBFS),
		navigator.WithCrawlMaxDepth(3),
	})

	results, err := eng.All(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 7 {
		t.Fatalf("expected 7 results, got %d", len(results))
	}

	prev := 0
	for _, res := range results {
		if res.Task.Depth < prev {
			t.Errorf("depth regressed from %d to %d at %q", prev, res.Task.Depth, res.Task.Target)
		}
		prev = res.Task.Depth
	}
}

// TestPathWalkScenario tests the directory-tree walk end to end:
// tree /root/a.md, /root/sub/b.md, /root/sub/c.txt with a *.md filter
// yields exactly the two markdown files and then terminates.
func TestPathWalkScenario(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	sub := filepath.Join(root, "sub")
	if err := os.Mkdir(sub, 0750); err != nil {
		t.Fatal(err)
	}
	for path, body := range map[string]string{
		filepath.Join(root, "a.md"):  "# a",
		filepath.Join(sub, "b.md"):   "# b",
		filepath.Join(sub, "c.txt"):  "c",
	} {
		if err := os.WriteFile(path, []byte(body), 0600); err != nil {
			t.Fatal(err)
		}
	}

	nav, err := navigator.NewPathWalk(root,
		navigator.WithExtensions([]string{".md"}),
		navigator.WithWalkMaxDepth(5),
	)
	if err != nil {
		t.Fatal(err)
	}
	eng, err := New(nav, []driver.Driver{driver.NewFileDriver()})
	if err != nil {
		t.Fatal(err)
	}

	results, err := eng.All(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected exactly 2 results, got %d", len(results))
	}
	got := map[string]bool{}
	for _, res := range results {
		if !res.Success {
			t.Errorf("unexpected failure for %q: %v", res.Task.Target, res.Err)
		}
		got[filepath.Base(res.Task.Target)] = true
	}
	if !got["a.md"] || !got["b.md"] {
		t.Errorf("expected a.md and b.md, got %v", got)
	}

	stats := eng.Summary().Frontier
	if stats.Filtered != 1 {
		t.Errorf("expected c.txt filtered exactly once, got %d", stats.Filtered)
	}

	// The sequence is not restartable.
	if _, ok := eng.Next(context.Background()); ok {
		t.Error("expected exhausted engine to stay exhausted")
	}
}

// TestPaginationTermination tests that a 30-row source with page size 10
// yields exactly 3 results and never dispatches a 4th page.
func TestPaginationTermination(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "docs.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`CREATE TABLE docs (id INTEGER PRIMARY KEY, body TEXT)`); err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= 30; i++ {
		if _, err := db.Exec(`INSERT INTO docs (id, body) VALUES (?, ?)`, i, fmt.Sprintf("doc %d", i)); err != nil {
			t.Fatal(err)
		}
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	nav, err := navigator.NewPagination(path, "SELECT id, body FROM docs ORDER BY id", 10)
	if err != nil {
		t.Fatal(err)
	}
	qd := driver.NewQueryDriver()
	defer qd.Close() //nolint:errcheck // test cleanup

	eng, err := New(nav, []driver.Driver{qd})
	if err != nil {
		t.Fatal(err)
	}

	results, err := eng.All(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("expected exactly 3 page results, got %d", len(results))
	}
	for i, res := range results {
		if !res.Success {
			t.Errorf("page %d failed: %v", i, res.Err)
		}
		if len(res.Rows) != 10 {
			t.Errorf("page %d: expected 10 rows, got %d", i, len(res.Rows))
		}
	}
	if got := eng.Summary().Frontier.Dispatched; got != 3 {
		t.Errorf("expected exactly 3 dispatches, got %d", got)
	}
}

// TestUnsupportedStrategy tests the engine-level failure path when no
// driver claims a task.
func TestUnsupportedStrategy(t *testing.T) {
	t.Parallel()

	nav, err := navigator.NewPathWalk("/data")
	if err != nil {
		t.Fatal(err)
	}
	// Only a link-frontier driver is registered; path_walk tasks have no
	// matching driver.
	eng, err := New(nav, []driver.Driver{newGraphDriver(nil)})
	if err != nil {
		t.Fatal(err)
	}

	res, ok := eng.Next(context.Background())
	if !ok {
		t.Fatal("expected one result")
	}
	if res.Success {
		t.Error("expected failure")
	}
	if res.ErrorKind() != model.KindUnsupportedStrategy {
		t.Errorf("expected %q, got %q", model.KindUnsupportedStrategy, res.ErrorKind())
	}

	if _, ok := eng.Next(context.Background()); ok {
		t.Error("expected exhaustion after the only seed task failed")
	}
}

// TestCancellation tests that a cancelled context stops the run before
// the next dispatch.
func TestCancellation(t *testing.T) {
	t.Parallel()

	eng := newLinkEngine(t, newGraphDriver(diamondGraph()), nil)

	ctx, cancel := context.WithCancel(context.Background())
	if _, ok := eng.Next(ctx); !ok {
		t.Fatal("expected first result")
	}
	cancel()

	if _, ok := eng.Next(ctx); ok {
		t.Error("expected no results after cancellation")
	}
}

// TestMaxResults tests the result cap.
func TestMaxResults(t *testing.T) {
	t.Parallel()

	eng := newLinkEngine(t, newGraphDriver(diamondGraph()), nil, WithMaxResults(2))

	results, err := eng.All(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected the cap of 2 results, got %d", len(results))
	}
}

// TestWorkerPool tests worker-pool mode: same result set as serial mode,
// still at-most-once per target.
func TestWorkerPool(t *testing.T) {
	t.Parallel()

	d := newGraphDriver(diamondGraph())
	eng := newLinkEngine(t, d, nil, WithWorkers(4))

	results, err := eng.All(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for target, n := range d.fetchCounts() {
		if n != 1 {
			t.Errorf("target %q fetched %d times, want 1", target, n)
		}
	}

	summary := eng.Summary()
	if summary.Succeeded != 4 {
		t.Errorf("expected 4 successes, got %d", summary.Succeeded)
	}
}

// slowGraphDriver delays every fetch so a cancel lands while feedback
// is still flowing through the coordinator.
type slowGraphDriver struct {
	*graphDriver
	delay time.Duration
}

func (d *slowGraphDriver) Fetch(ctx context.Context, task model.Task) model.Result {
	select {
	case <-time.After(d.delay):
	case <-ctx.Done():
	}
	return d.graphDriver.Fetch(ctx, task)
}

// TestWorkerPoolCancelMidFlight tests cancelling a pooled run while
// fetches are still in flight. The caller's shutdown must leave the
// frontier to the coordinator, and the summary must stay readable.
// Iterated so the race detector gets many shots at the window between
// the caller's cancel and the coordinator's last feedback.
func TestWorkerPoolCancelMidFlight(t *testing.T) {
	t.Parallel()

	pages := map[string][]string{"http://g.test/": nil}
	for i := 0; i < 32; i++ {
		child := fmt.Sprintf("http://g.test/c%d", i)
		pages["http://g.test/"] = append(pages["http://g.test/"], child)
		pages[child] = []string{fmt.Sprintf("http://g.test/c%d/leaf", i)}
	}

	for i := 0; i < 25; i++ {
		d := &slowGraphDriver{graphDriver: newGraphDriver(pages), delay: time.Millisecond}
		eng := newLinkEngine(t, d, nil, WithWorkers(4))

		ctx, cancel := context.WithCancel(context.Background())
		if _, ok := eng.Next(ctx); !ok {
			cancel()
			t.Fatal("expected the seed result before cancelling")
		}
		cancel()

		for {
			if _, ok := eng.Next(ctx); !ok {
				break
			}
		}

		summary := eng.Summary()
		if summary.Frontier.Dispatched < 1 {
			t.Errorf("expected at least the seed dispatch, got %d", summary.Frontier.Dispatched)
		}
		if _, ok := eng.Next(context.Background()); ok {
			t.Error("expected a cancelled engine to stay exhausted")
		}
	}
}
