package navigator

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/ingestkit/wayfind/internal/model"
)

// LinkFrontier crawls a web link graph from a seed URL.
//
// Leads are the hyperlinks drivers extract from fetched pages. Each lead
// is normalized for deduplication, checked against the same-host lock,
// the link regex, and the per-source path globs, and enqueued one hop
// deeper when it survives. Traversal is breadth-first by default;
// depth-first is a configuration choice.
type LinkFrontier struct {
	frontier *Frontier

	// seedHost is the host of the seed URL, used for the same-host lock.
	seedHost string

	// maxDepth limits how many hops from the seed are followed.
	maxDepth int

	// linkPattern filters candidate links. Applied to the absolute URL;
	// nil allows everything.
	linkPattern *regexp.Regexp

	// pathFilter applies per-source ignore/follow globs to the URL path.
	pathFilter globFilter

	// sameHostOnly restricts the crawl to the seed's host.
	sameHostOnly bool
}

// LinkFrontierOption configures a LinkFrontier navigator.
type LinkFrontierOption func(*LinkFrontier)

// WithCrawlOrder selects breadth-first or depth-first traversal.
func WithCrawlOrder(order Order) LinkFrontierOption {
	return func(l *LinkFrontier) {
		l.frontier = NewFrontier(order)
	}
}

// WithCrawlMaxDepth sets the maximum number of hops from the seed.
func WithCrawlMaxDepth(depth int) LinkFrontierOption {
	return func(l *LinkFrontier) {
		l.maxDepth = depth
	}
}

// WithLinkPattern sets the regex candidate links must match. The pattern
// is applied to the absolute URL.
func WithLinkPattern(re *regexp.Regexp) LinkFrontierOption {
	return func(l *LinkFrontier) {
		l.linkPattern = re
	}
}

// WithSameHostOnly controls the same-host lock. Enabled by default; when
// disabled the crawl follows links to any host the pattern allows.
func WithSameHostOnly(same bool) LinkFrontierOption {
	return func(l *LinkFrontier) {
		l.sameHostOnly = same
	}
}

// WithIgnorePatterns sets URL path globs to skip (e.g. "/admin/*",
// "*.pdf"). Links matching any pattern are filtered.
func WithIgnorePatterns(patterns []string) LinkFrontierOption {
	return func(l *LinkFrontier) {
		l.pathFilter.ignore = patterns
	}
}

// WithFollowPatterns sets URL path globs to follow (e.g. "/docs/*").
// When set, only links matching at least one pattern are enqueued.
func WithFollowPatterns(patterns []string) LinkFrontierOption {
	return func(l *LinkFrontier) {
		l.pathFilter.follow = patterns
	}
}

// DefaultCrawlDepth is the default hop limit for link crawls.
const DefaultCrawlDepth = 3

// NewLinkFrontier creates a link-frontier navigator seeded with the given
// URL. The seed must parse as an absolute http(s) URL; anything else is a
// construction error.
func NewLinkFrontier(seed string, opts ...LinkFrontierOption) (*LinkFrontier, error) {
	u, err := url.Parse(seed)
	if err != nil {
		return nil, fmt.Errorf("link frontier: invalid seed URL %q: %w", seed, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("link frontier: seed URL %q must be http or https", seed)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("link frontier: seed URL %q has no host", seed)
	}

	l := &LinkFrontier{
		frontier:     NewFrontier(OrderBFS),
		seedHost:     strings.ToLower(u.Host),
		maxDepth:     DefaultCrawlDepth,
		sameHostOnly: true,
	}
	for _, opt := range opts {
		opt(l)
	}

	if l.maxDepth < 0 {
		return nil, fmt.Errorf("link frontier: negative max depth %d", l.maxDepth)
	}

	normalized := normalizeURL(u)
	task := model.NewSeedTask(model.StrategyLinkFrontier, normalized)
	l.frontier.Push(normalized, task)
	return l, nil
}

// Next implements Navigator.
func (l *LinkFrontier) Next() (model.Task, bool) {
	return l.frontier.Pop()
}

// Feedback implements Navigator. Extracted hyperlinks become new tasks
// one hop deeper; malformed, filtered, duplicate, and too-deep links are
// dropped with a counter increment.
func (l *LinkFrontier) Feedback(result model.Result) {
	if !result.Success {
		return
	}

	for _, lead := range result.Leads {
		u, err := url.Parse(lead)
		if err != nil || u.Host == "" {
			l.frontier.NoteMalformed()
			continue
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			l.frontier.NoteFiltered()
			continue
		}

		if l.sameHostOnly && !strings.EqualFold(u.Host, l.seedHost) {
			l.frontier.NoteFiltered()
			continue
		}

		normalized := normalizeURL(u)
		if l.linkPattern != nil && !l.linkPattern.MatchString(normalized) {
			l.frontier.NoteFiltered()
			continue
		}

		if !l.pathFilter.empty() {
			path := u.Path
			if path == "" {
				path = "/"
			}
			if !l.pathFilter.allows(path) {
				l.frontier.NoteFiltered()
				continue
			}
		}

		if l.frontier.Seen(normalized) {
			l.frontier.NoteDuplicate()
			continue
		}

		if result.Task.Depth+1 > l.maxDepth {
			l.frontier.NoteDepthExceeded()
			continue
		}

		l.frontier.Push(normalized, result.Task.Child(normalized))
	}
}

// Stats implements Navigator.
func (l *LinkFrontier) Stats() model.FrontierStats {
	return l.frontier.Stats()
}

// normalizeURL normalizes a URL for deduplication.
//
// Design decision: The fragment is dropped (anchors never change content),
// scheme and host are lowercased, and an empty path becomes "/" so that
// http://example.test and http://example.test/ dedupe to the same key.
func normalizeURL(u *url.URL) string {
	c := *u
	c.Fragment = ""
	c.Scheme = strings.ToLower(c.Scheme)
	c.Host = strings.ToLower(c.Host)
	if c.Path == "" {
		c.Path = "/"
	}
	return c.String()
}
