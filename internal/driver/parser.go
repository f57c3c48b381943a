package driver

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// pageInfo is what the HTTP driver extracts from an HTML response:
// the page title and the absolute hyperlinks found on it.
type pageInfo struct {
	title string
	links []string
}

// extractPage parses HTML content and collects the title and all anchor
// hrefs, resolved against the page URL.
//
// Design decision: We use golang.org/x/net/html rather than regex because
// it correctly handles the malformed HTML common on the web and gives a
// proper node tree to walk. Relative links are resolved to absolute URLs
// here so the navigator only ever sees opaque absolute targets.
func extractPage(content io.Reader, base *url.URL) (*pageInfo, error) {
	doc, err := html.Parse(content)
	if err != nil {
		return nil, err
	}

	info := &pageInfo{links: make([]string, 0)}
	seen := make(map[string]bool)

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if info.title == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					info.title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "a":
				if link, ok := resolveHref(n, base); ok && !seen[link] {
					seen[link] = true
					info.links = append(info.links, link)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return info, nil
}

// resolveHref resolves an anchor's href attribute against the base URL.
// Only http(s) results are kept; javascript:, mailto: and malformed hrefs
// are skipped here so they never reach the navigator as leads.
func resolveHref(n *html.Node, base *url.URL) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key != "href" {
			continue
		}

		href := strings.TrimSpace(attr.Val)
		if href == "" || strings.HasPrefix(href, "#") {
			return "", false
		}

		ref, err := url.Parse(href)
		if err != nil {
			return "", false
		}

		abs := base.ResolveReference(ref)
		if abs.Scheme != "http" && abs.Scheme != "https" {
			return "", false
		}
		return abs.String(), true
	}
	return "", false
}
