package driver

import (
	"net/url"
	"strings"
	"testing"
)

// TestExtractPage tests HTML title and link extraction.
func TestExtractPage(t *testing.T) {
	t.Parallel()

	base, err := url.Parse("http://example.test/docs/")
	if err != nil {
		t.Fatal(err)
	}

	t.Run("extracts title and resolves relative links", func(t *testing.T) {
		t.Parallel()

		page := `<html><head><title> Guide </title></head><body>
			<a href="intro">Intro</a>
			<a href="/top">Top</a>
			<a href="http://other.test/x">Other</a>
		</body></html>`

		info, err := extractPage(strings.NewReader(page), base)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if info.title != "Guide" {
			t.Errorf("expected trimmed title Guide, got %q", info.title)
		}

		want := []string{
			"http://example.test/docs/intro",
			"http://example.test/top",
			"http://other.test/x",
		}
		if len(info.links) != len(want) {
			t.Fatalf("expected %d links, got %d: %v", len(want), len(info.links), info.links)
		}
		for i, link := range want {
			if info.links[i] != link {
				t.Errorf("link %d: expected %q, got %q", i, link, info.links[i])
			}
		}
	})

	t.Run("skips non-http schemes and fragments", func(t *testing.T) {
		t.Parallel()

		page := `<body>
			<a href="mailto:user@example.test">mail</a>
			<a href="javascript:void(0)">js</a>
			<a href="#section">anchor</a>
			<a href="ftp://example.test/file">ftp</a>
		</body>`

		info, err := extractPage(strings.NewReader(page), base)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(info.links) != 0 {
			t.Errorf("expected no links, got %v", info.links)
		}
	})

	t.Run("dedupes repeated links preserving order", func(t *testing.T) {
		t.Parallel()

		page := `<body>
			<a href="/a">one</a>
			<a href="/b">two</a>
			<a href="/a">one again</a>
		</body>`

		info, err := extractPage(strings.NewReader(page), base)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(info.links) != 2 {
			t.Fatalf("expected 2 links, got %v", info.links)
		}
		if info.links[0] != "http://example.test/a" || info.links[1] != "http://example.test/b" {
			t.Errorf("unexpected order: %v", info.links)
		}
	})

	t.Run("tolerates malformed HTML", func(t *testing.T) {
		t.Parallel()

		page := `<html><body><a href="/ok">unclosed<div><a href="/also-ok">`
		info, err := extractPage(strings.NewReader(page), base)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(info.links) != 2 {
			t.Errorf("expected 2 links from malformed HTML, got %v", info.links)
		}
	})
}
