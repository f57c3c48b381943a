package navigator

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ingestkit/wayfind/internal/model"
)

// PathWalk traverses a local directory tree starting from a seed root.
//
// Directory tasks produce child-entry leads (reported by the file driver
// with a trailing separator for subdirectories); file leads must pass the
// extension allow-list and name glob before they are enqueued. File tasks
// are terminal and never produce leads.
type PathWalk struct {
	frontier *Frontier

	// maxDepth limits how many hops below the seed are traversed.
	// The seed is depth 0, its entries depth 1, and so on.
	maxDepth int

	// extensions is the lowercase extension allow-list (e.g. ".md").
	// Empty means all extensions are allowed.
	extensions map[string]bool

	// namePattern is a glob applied to file base names. "*" allows all.
	namePattern string

	// pathFilter applies per-source ignore/follow globs to full paths.
	pathFilter globFilter
}

// PathWalkOption configures a PathWalk navigator.
type PathWalkOption func(*PathWalk)

// WithWalkMaxDepth sets the maximum traversal depth below the seed.
func WithWalkMaxDepth(depth int) PathWalkOption {
	return func(p *PathWalk) {
		p.maxDepth = depth
	}
}

// WithExtensions sets the file extension allow-list. Extensions are
// matched case-insensitively and should include the leading dot.
func WithExtensions(exts []string) PathWalkOption {
	return func(p *PathWalk) {
		p.extensions = make(map[string]bool, len(exts))
		for _, ext := range exts {
			p.extensions[strings.ToLower(ext)] = true
		}
	}
}

// WithNamePattern sets the glob pattern applied to file base names
// (e.g. "*report*", "*.md").
func WithNamePattern(pattern string) PathWalkOption {
	return func(p *PathWalk) {
		p.namePattern = pattern
	}
}

// WithWalkIgnorePatterns sets path globs to skip (e.g. "*.bak",
// "/srv/docs/drafts/*"). Files matching any pattern are filtered.
func WithWalkIgnorePatterns(patterns []string) PathWalkOption {
	return func(p *PathWalk) {
		p.pathFilter.ignore = patterns
	}
}

// WithWalkFollowPatterns sets path globs to follow. When set, only files
// matching at least one pattern are enqueued.
func WithWalkFollowPatterns(patterns []string) PathWalkOption {
	return func(p *PathWalk) {
		p.pathFilter.follow = patterns
	}
}

// NewPathWalk creates a path-walk navigator seeded with the given root
// directory. The root is cleaned to an absolute path; an empty root is a
// construction error because it cannot be attributed to any single task.
func NewPathWalk(root string, opts ...PathWalkOption) (*PathWalk, error) {
	if root == "" {
		return nil, fmt.Errorf("path walk: empty seed root")
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("path walk: invalid seed root %q: %w", root, err)
	}

	p := &PathWalk{
		frontier:    NewFrontier(OrderBFS),
		maxDepth:    DefaultWalkDepth,
		namePattern: "*",
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.maxDepth < 0 {
		return nil, fmt.Errorf("path walk: negative max depth %d", p.maxDepth)
	}

	seed := model.NewSeedTask(model.StrategyPathWalk, abs)
	p.frontier.Push(p.key(abs), seed)
	return p, nil
}

// DefaultWalkDepth is the default traversal depth for path walks.
// Deep enough for typical document trees without risking symlink cycles
// running unbounded.
const DefaultWalkDepth = 32

// Next implements Navigator.
func (p *PathWalk) Next() (model.Task, bool) {
	return p.frontier.Pop()
}

// Feedback implements Navigator. Leads are the child entries of a fetched
// directory; subdirectories recurse, files are enqueued only when they
// pass the filters.
func (p *PathWalk) Feedback(result model.Result) {
	if !result.Success {
		return
	}

	for _, lead := range result.Leads {
		if lead == "" {
			p.frontier.NoteMalformed()
			continue
		}

		isDir := strings.HasSuffix(lead, model.DirLeadSuffix)
		path := strings.TrimSuffix(lead, model.DirLeadSuffix)
		if !filepath.IsAbs(path) {
			p.frontier.NoteMalformed()
			continue
		}

		if !isDir && !p.wantFile(filepath.Base(path)) {
			p.frontier.NoteFiltered()
			continue
		}

		if !isDir && !p.pathFilter.empty() && !p.pathFilter.allows(path) {
			p.frontier.NoteFiltered()
			continue
		}

		if p.frontier.Seen(p.key(path)) {
			p.frontier.NoteDuplicate()
			continue
		}

		if result.Task.Depth+1 > p.maxDepth {
			p.frontier.NoteDepthExceeded()
			continue
		}

		p.frontier.Push(p.key(path), result.Task.Child(path))
	}
}

// Stats implements Navigator.
func (p *PathWalk) Stats() model.FrontierStats {
	return p.frontier.Stats()
}

// key normalizes a path into a visited-set key.
func (p *PathWalk) key(path string) string {
	return filepath.Clean(path)
}

// wantFile checks a file base name against the extension allow-list and
// the name glob.
func (p *PathWalk) wantFile(name string) bool {
	if len(p.extensions) > 0 {
		ext := strings.ToLower(filepath.Ext(name))
		if !p.extensions[ext] {
			return false
		}
	}

	if p.namePattern != "" && p.namePattern != "*" {
		matched, err := filepath.Match(p.namePattern, name)
		if err != nil || !matched {
			return false
		}
	}

	return true
}
