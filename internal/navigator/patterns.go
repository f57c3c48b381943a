package navigator

import (
	"path/filepath"
	"strings"
)

// globFilter applies ignore and follow glob lists to a target path.
//
// A path is rejected when it matches any ignore pattern. When follow
// patterns are set, the path must additionally match at least one of
// them; an empty follow list allows everything that was not ignored.
type globFilter struct {
	ignore []string
	follow []string
}

func (g globFilter) empty() bool {
	return len(g.ignore) == 0 && len(g.follow) == 0
}

func (g globFilter) allows(path string) bool {
	for _, pattern := range g.ignore {
		if matchGlob(pattern, path) {
			return false
		}
	}

	if len(g.follow) > 0 {
		for _, pattern := range g.follow {
			if matchGlob(pattern, path) {
				return true
			}
		}
		return false
	}

	return true
}

// matchGlob checks a path against a glob pattern. "*" matches within one
// segment and "?" matches one character, as in filepath.Match; two common
// shapes get prefix/suffix handling on top:
//
//   - "/admin/*" matches "/admin" and everything below it
//   - "*.pdf" matches any path ending in ".pdf", regardless of depth
func matchGlob(pattern, path string) bool {
	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}

	if strings.HasPrefix(pattern, "*.") {
		if strings.HasSuffix(path, strings.TrimPrefix(pattern, "*")) {
			return true
		}
	}

	if matched, err := filepath.Match(pattern, path); err == nil && matched {
		return true
	}

	// Slash-free wildcard patterns also match against the base name, so
	// "*-draft?" works without spelling out the directory.
	if strings.Contains(pattern, "*") && !strings.Contains(pattern, "/") {
		if matched, err := filepath.Match(pattern, filepath.Base(path)); err == nil && matched {
			return true
		}
	}

	return false
}
