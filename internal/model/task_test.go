package model

import "testing"

// TestStrategyValid tests strategy tag validation.
func TestStrategyValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		strategy Strategy
		want     bool
	}{
		{"path_walk is valid", StrategyPathWalk, true},
		{"link_frontier is valid", StrategyLinkFrontier, true},
		{"pagination is valid", StrategyPagination, true},
		{"empty is invalid", Strategy(""), false},
		{"unknown tag is invalid", Strategy("teleport"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.strategy.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestNewSeedTask tests seed task construction.
func TestNewSeedTask(t *testing.T) {
	t.Parallel()

	task := NewSeedTask(StrategyPathWalk, "/data/docs")

	if task.ID == "" {
		t.Error("expected non-empty task ID")
	}
	if task.Depth != 0 {
		t.Errorf("expected seed depth 0, got %d", task.Depth)
	}
	if task.ParentID != "" {
		t.Errorf("expected empty parent ID for seed, got %q", task.ParentID)
	}
	if task.Target != "/data/docs" {
		t.Errorf("expected target /data/docs, got %q", task.Target)
	}
}

// TestTaskChild tests that child tasks maintain the depth invariant.
func TestTaskChild(t *testing.T) {
	t.Parallel()

	t.Run("child is one hop deeper and references parent", func(t *testing.T) {
		t.Parallel()

		parent := NewSeedTask(StrategyLinkFrontier, "http://example.test/")
		child := parent.Child("http://example.test/about")

		if child.Depth != parent.Depth+1 {
			t.Errorf("expected child depth %d, got %d", parent.Depth+1, child.Depth)
		}
		if child.ParentID != parent.ID {
			t.Errorf("expected parent ID %q, got %q", parent.ID, child.ParentID)
		}
		if child.Strategy != parent.Strategy {
			t.Errorf("expected strategy %q, got %q", parent.Strategy, child.Strategy)
		}
		if child.ID == parent.ID {
			t.Error("child must have its own ID")
		}
	})

	t.Run("grandchild depth accumulates", func(t *testing.T) {
		t.Parallel()

		seed := NewSeedTask(StrategyLinkFrontier, "http://example.test/")
		grandchild := seed.Child("http://example.test/a").Child("http://example.test/a/b")

		if grandchild.Depth != 2 {
			t.Errorf("expected depth 2, got %d", grandchild.Depth)
		}
	})

	t.Run("child with params carries pagination cursor", func(t *testing.T) {
		t.Parallel()

		seed := NewSeedTask(StrategyPagination, "app.db")
		seed.Params = Params{Query: "SELECT * FROM docs", Offset: 0, Limit: 10}

		next := seed.ChildWithParams("app.db", Params{
			Query:  seed.Params.Query,
			Offset: 10,
			Limit:  10,
		})

		if next.Params.Offset != 10 {
			t.Errorf("expected offset 10, got %d", next.Params.Offset)
		}
		if next.Depth != 1 {
			t.Errorf("expected depth 1, got %d", next.Depth)
		}
	})
}
