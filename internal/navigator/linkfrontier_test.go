package navigator

import (
	"regexp"
	"testing"

	"github.com/ingestkit/wayfind/internal/model"
)

// TestNewLinkFrontier tests seed URL validation.
func TestNewLinkFrontier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		seed    string
		wantErr bool
	}{
		{"valid http seed", "http://example.test/", false},
		{"valid https seed", "https://example.test/docs", false},
		{"ftp scheme rejected", "ftp://example.test/", true},
		{"relative URL rejected", "/docs/index.html", true},
		{"empty seed rejected", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewLinkFrontier(tt.seed)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewLinkFrontier(%q) error = %v, wantErr %v", tt.seed, err, tt.wantErr)
			}
		})
	}
}

// TestLinkFrontierFeedback tests link normalization and filtering.
func TestLinkFrontierFeedback(t *testing.T) {
	t.Parallel()

	newNav := func(t *testing.T, opts ...LinkFrontierOption) (*LinkFrontier, model.Task) {
		t.Helper()
		nav, err := NewLinkFrontier("http://example.test/", opts...)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		seed, ok := nav.Next()
		if !ok {
			t.Fatal("expected seed task")
		}
		return nav, seed
	}

	t.Run("same-host lock filters foreign hosts", func(t *testing.T) {
		t.Parallel()

		nav, seed := newNav(t)
		res := model.Succeeded(seed, []byte("<html/>"))
		res.Leads = []string{
			"http://example.test/about",
			"http://other.test/page",
		}
		nav.Feedback(res)

		task, ok := nav.Next()
		if !ok {
			t.Fatal("expected one surviving link")
		}
		if task.Target != "http://example.test/about" {
			t.Errorf("unexpected target %q", task.Target)
		}
		if _, ok := nav.Next(); ok {
			t.Error("foreign-host link should have been filtered")
		}
		if got := nav.Stats().Filtered; got != 1 {
			t.Errorf("expected 1 filtered, got %d", got)
		}
	})

	t.Run("fragments and case dedupe to one key", func(t *testing.T) {
		t.Parallel()

		nav, seed := newNav(t)
		res := model.Succeeded(seed, nil)
		res.Leads = []string{
			"http://example.test/a#top",
			"http://EXAMPLE.test/a#bottom",
			"HTTP://example.test/a",
		}
		nav.Feedback(res)

		if _, ok := nav.Next(); !ok {
			t.Fatal("expected one task")
		}
		if _, ok := nav.Next(); ok {
			t.Error("expected variants to dedupe to a single task")
		}
		if got := nav.Stats().Duplicate; got != 2 {
			t.Errorf("expected 2 duplicates, got %d", got)
		}
	})

	t.Run("link pattern filters non-matching URLs", func(t *testing.T) {
		t.Parallel()

		nav, seed := newNav(t, WithLinkPattern(regexp.MustCompile(`/docs/`)))
		res := model.Succeeded(seed, nil)
		res.Leads = []string{
			"http://example.test/docs/intro",
			"http://example.test/blog/post",
		}
		nav.Feedback(res)

		task, ok := nav.Next()
		if !ok {
			t.Fatal("expected one surviving link")
		}
		if task.Target != "http://example.test/docs/intro" {
			t.Errorf("unexpected target %q", task.Target)
		}
	})

	t.Run("ignore patterns skip matching paths", func(t *testing.T) {
		t.Parallel()

		nav, seed := newNav(t, WithIgnorePatterns([]string{"/admin/*", "*.pdf"}))
		res := model.Succeeded(seed, nil)
		res.Leads = []string{
			"http://example.test/admin/users",
			"http://example.test/docs/manual.pdf",
			"http://example.test/docs/intro",
		}
		nav.Feedback(res)

		task, ok := nav.Next()
		if !ok {
			t.Fatal("expected one surviving link")
		}
		if task.Target != "http://example.test/docs/intro" {
			t.Errorf("unexpected target %q", task.Target)
		}
		if got := nav.Stats().Filtered; got != 2 {
			t.Errorf("expected 2 filtered, got %d", got)
		}
	})

	t.Run("follow patterns restrict to matching paths", func(t *testing.T) {
		t.Parallel()

		nav, seed := newNav(t, WithFollowPatterns([]string{"/docs/*"}))
		res := model.Succeeded(seed, nil)
		res.Leads = []string{
			"http://example.test/docs/intro",
			"http://example.test/blog/post",
		}
		nav.Feedback(res)

		task, ok := nav.Next()
		if !ok {
			t.Fatal("expected one surviving link")
		}
		if task.Target != "http://example.test/docs/intro" {
			t.Errorf("unexpected target %q", task.Target)
		}
		if _, ok := nav.Next(); ok {
			t.Error("non-matching link should have been filtered")
		}
	})

	t.Run("depth limit is enforced per hop", func(t *testing.T) {
		t.Parallel()

		nav, seed := newNav(t, WithCrawlMaxDepth(1))
		res := model.Succeeded(seed, nil)
		res.Leads = []string{"http://example.test/a"}
		nav.Feedback(res)

		depth1, ok := nav.Next()
		if !ok {
			t.Fatal("expected the depth-1 task")
		}

		res = model.Succeeded(depth1, nil)
		res.Leads = []string{"http://example.test/b"}
		nav.Feedback(res)

		if _, ok := nav.Next(); ok {
			t.Error("expected no tasks beyond max depth 1")
		}
		if got := nav.Stats().DepthExceeded; got != 1 {
			t.Errorf("expected 1 depth-exceeded, got %d", got)
		}
	})

	t.Run("unparsable leads count as malformed", func(t *testing.T) {
		t.Parallel()

		nav, seed := newNav(t)
		res := model.Succeeded(seed, nil)
		res.Leads = []string{"://bad", "mailto:user@example.test", "http://example.test/ok"}
		nav.Feedback(res)

		stats := nav.Stats()
		if stats.Malformed != 2 {
			t.Errorf("expected 2 malformed, got %d", stats.Malformed)
		}

		task, ok := nav.Next()
		if !ok || task.Target != "http://example.test/ok" {
			t.Errorf("expected the valid link to survive, got %v (ok=%v)", task.Target, ok)
		}
	})

	t.Run("dfs order pops newest first", func(t *testing.T) {
		t.Parallel()

		nav, seed := newNav(t, WithCrawlOrder(OrderDFS))
		res := model.Succeeded(seed, nil)
		res.Leads = []string{"http://example.test/a", "http://example.test/b"}
		nav.Feedback(res)

		task, _ := nav.Next()
		if task.Target != "http://example.test/b" {
			t.Errorf("expected newest link first in DFS, got %q", task.Target)
		}
	})
}
