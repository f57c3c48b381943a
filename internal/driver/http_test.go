package driver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ingestkit/wayfind/internal/model"
)

// newTestDriver creates a driver tuned for fast tests: no politeness
// delay, millisecond backoff.
func newTestDriver(opts ...HTTPOption) *HTTPDriver {
	base := []HTTPOption{
		WithPolitenessInterval(0),
		WithBackoffBase(time.Millisecond),
	}
	return NewHTTPDriver(&http.Client{}, append(base, opts...)...)
}

// TestHTTPDriverFetch tests the basic fetch path.
func TestHTTPDriverFetch(t *testing.T) {
	t.Parallel()

	t.Run("successful fetch extracts links for link-frontier tasks", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(`<html><head><title>Home</title></head><body>
				<a href="/about">About</a>
				<a href="docs/intro">Docs</a>
				<a href="mailto:hi@example.test">Mail</a>
			</body></html>`))
		}))
		defer srv.Close()

		d := newTestDriver()
		res := d.Fetch(context.Background(), model.NewSeedTask(model.StrategyLinkFrontier, srv.URL+"/"))

		if !res.Success {
			t.Fatalf("unexpected failure: %v", res.Err)
		}
		if res.Title != "Home" {
			t.Errorf("expected title Home, got %q", res.Title)
		}
		if len(res.Leads) != 2 {
			t.Fatalf("expected 2 leads, got %d: %v", len(res.Leads), res.Leads)
		}
		if res.Leads[0] != srv.URL+"/about" {
			t.Errorf("expected absolute /about link, got %q", res.Leads[0])
		}
		if res.Leads[1] != srv.URL+"/docs/intro" {
			t.Errorf("expected resolved relative link, got %q", res.Leads[1])
		}
	})

	t.Run("malformed target fails without a request", func(t *testing.T) {
		t.Parallel()

		d := newTestDriver()
		res := d.Fetch(context.Background(), model.NewSeedTask(model.StrategyLinkFrontier, "not a url"))

		if res.Success {
			t.Fatal("expected failure")
		}
		if res.ErrorKind() != model.KindMalformedTarget {
			t.Errorf("expected %q, got %q", model.KindMalformedTarget, res.ErrorKind())
		}
	})
}

// TestHTTPDriverRetry tests the transient retry policy.
func TestHTTPDriverRetry(t *testing.T) {
	t.Parallel()

	t.Run("503 twice then 200 succeeds within two retries", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if hits.Add(1) <= 2 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte("ok"))
		}))
		defer srv.Close()

		d := newTestDriver(WithMaxRetries(2))
		res := d.Fetch(context.Background(), model.NewSeedTask(model.StrategyLinkFrontier, srv.URL+"/"))

		if !res.Success {
			t.Fatalf("expected success after retries, got %v", res.Err)
		}
		if got := hits.Load(); got != 3 {
			t.Errorf("expected 3 attempts (2 retries), got %d", got)
		}
	})

	t.Run("persistent 503 exhausts the retry budget", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		d := newTestDriver(WithMaxRetries(2))
		res := d.Fetch(context.Background(), model.NewSeedTask(model.StrategyLinkFrontier, srv.URL+"/"))

		if res.Success {
			t.Fatal("expected failure")
		}
		if res.ErrorKind() != model.KindTransient {
			t.Errorf("expected %q, got %q", model.KindTransient, res.ErrorKind())
		}
		if res.Err.Attempts != 3 {
			t.Errorf("expected 3 recorded attempts, got %d", res.Err.Attempts)
		}
		if got := hits.Load(); got != 3 {
			t.Errorf("expected 3 requests, got %d", got)
		}
	})

	t.Run("404 fails immediately without retry", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		d := newTestDriver(WithMaxRetries(5))
		res := d.Fetch(context.Background(), model.NewSeedTask(model.StrategyLinkFrontier, srv.URL+"/gone"))

		if res.Success {
			t.Fatal("expected failure")
		}
		if res.ErrorKind() != model.KindNotFound {
			t.Errorf("expected %q, got %q", model.KindNotFound, res.ErrorKind())
		}
		if got := hits.Load(); got != 1 {
			t.Errorf("expected exactly 1 request, got %d", got)
		}
	})

	t.Run("429 is retried", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if hits.Add(1) == 1 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			_, _ = w.Write([]byte("ok"))
		}))
		defer srv.Close()

		d := newTestDriver(WithMaxRetries(1))
		res := d.Fetch(context.Background(), model.NewSeedTask(model.StrategyLinkFrontier, srv.URL+"/"))

		if !res.Success {
			t.Fatalf("expected success, got %v", res.Err)
		}
		if got := hits.Load(); got != 2 {
			t.Errorf("expected 2 requests, got %d", got)
		}
	})
}

// TestHTTPDriverPoliteness tests the per-host minimum interval.
func TestHTTPDriverPoliteness(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	interval := 50 * time.Millisecond
	d := NewHTTPDriver(&http.Client{}, WithPolitenessInterval(interval))

	start := time.Now()
	for range 3 {
		res := d.Fetch(context.Background(), model.NewSeedTask(model.StrategyLinkFrontier, srv.URL+"/"))
		if !res.Success {
			t.Fatalf("unexpected failure: %v", res.Err)
		}
	}

	// First request is immediate, the next two wait out the interval.
	if elapsed := time.Since(start); elapsed < 2*interval {
		t.Errorf("expected at least %v between 3 same-host requests, took %v", 2*interval, elapsed)
	}
}

// TestHTTPDriverRobots tests robots.txt enforcement.
func TestHTTPDriverRobots(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /private\n"))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	d := newTestDriver(WithRobotsPolicy(true))

	res := d.Fetch(context.Background(), model.NewSeedTask(model.StrategyLinkFrontier, srv.URL+"/private/data"))
	if res.Success {
		t.Fatal("expected robots denial")
	}
	if res.ErrorKind() != model.KindRobotsDenied {
		t.Errorf("expected %q, got %q", model.KindRobotsDenied, res.ErrorKind())
	}

	res = d.Fetch(context.Background(), model.NewSeedTask(model.StrategyLinkFrontier, srv.URL+"/public"))
	if !res.Success {
		t.Fatalf("expected allowed path to succeed, got %v", res.Err)
	}
}
