package driver

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

// robotsRules holds the Disallow prefixes parsed from one host's
// robots.txt for the wildcard user-agent. Matching is prefix-based on the
// URL path, following common crawler practice: "Disallow: /search"
// forbids /search, /search.json, /search/authors and so on.
type robotsRules struct {
	disallowPrefixes []string
}

// allowed reports whether the URL path is permitted by the rules.
// Nil rules or an empty rule set allow everything.
func (r *robotsRules) allowed(path string) bool {
	if r == nil || len(r.disallowPrefixes) == 0 {
		return true
	}
	if path == "" {
		path = "/"
	}
	if path[0] != '/' {
		path = "/" + path
	}
	for _, prefix := range r.disallowPrefixes {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return true
}

// parseRobots parses robots.txt content, collecting Disallow rules from
// every User-agent: * group. Unknown directives are ignored; an empty
// Disallow value (meaning "allow all") is skipped.
func parseRobots(content io.Reader) *robotsRules {
	rules := &robotsRules{}
	scanner := bufio.NewScanner(content)

	applies := false
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		directive, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		directive = strings.ToLower(strings.TrimSpace(directive))
		value = strings.TrimSpace(value)

		switch directive {
		case "user-agent":
			applies = value == "*"
		case "disallow":
			if applies && value != "" {
				rules.disallowPrefixes = append(rules.disallowPrefixes, value)
			}
		}
	}

	return rules
}

// robotsCache fetches and caches robots.txt rules per host.
//
// A host whose robots.txt cannot be fetched or parsed is treated as
// allowing everything; robots enforcement is politeness, not security,
// and an unreachable robots.txt must not fail the crawl.
type robotsCache struct {
	mu     sync.Mutex
	client *http.Client
	agent  string
	rules  map[string]*robotsRules
}

// newRobotsCache creates an empty cache using the given client.
func newRobotsCache(client *http.Client, userAgent string) *robotsCache {
	return &robotsCache{
		client: client,
		agent:  userAgent,
		rules:  make(map[string]*robotsRules),
	}
}

// allowed reports whether the given URL may be fetched per its host's
// robots.txt, fetching and caching the rules on first use of the host.
func (c *robotsCache) allowed(ctx context.Context, u *url.URL) bool {
	host := strings.ToLower(u.Host)

	c.mu.Lock()
	rules, ok := c.rules[host]
	c.mu.Unlock()

	if !ok {
		rules = c.fetch(ctx, u.Scheme, host)
		c.mu.Lock()
		c.rules[host] = rules
		c.mu.Unlock()
	}

	return rules.allowed(u.Path)
}

// fetch retrieves and parses robots.txt for a host. Any failure yields
// permissive rules.
func (c *robotsCache) fetch(ctx context.Context, scheme, host string) *robotsRules {
	robotsURL := scheme + "://" + host + "/robots.txt"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return &robotsRules{}
	}
	req.Header.Set("User-Agent", c.agent)

	resp, err := c.client.Do(req)
	if err != nil {
		return &robotsRules{}
	}
	defer resp.Body.Close() //nolint:errcheck // drained below

	if resp.StatusCode != http.StatusOK {
		return &robotsRules{}
	}

	// robots.txt files are small; a 512KB cap is generous.
	return parseRobots(io.LimitReader(resp.Body, 512*1024))
}
