package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/ingestkit/wayfind/internal/model"
)

// Default configuration values.
// These defaults favor polite, bounded runs; aggressive settings must be
// opted into explicitly via CLI flags.
const (
	// DefaultMaxDepth bounds link-frontier crawls. Depth 0 means only the
	// seed page is fetched. Three hops reaches most of a site's reachable
	// surface without runaway expansion.
	DefaultMaxDepth = 3

	// DefaultWalkDepth bounds directory walks. Deep enough for typical
	// document trees while still terminating on pathological nesting.
	DefaultWalkDepth = 32

	// DefaultMaxPages is the maximum number of results a single run may
	// yield. Zero disables the cap entirely.
	DefaultMaxPages = 1000

	// DefaultPageSize is the row count per page for pagination runs.
	DefaultPageSize = 100

	// DefaultPolitenessInterval is the minimum spacing between HTTP
	// requests to the same host. 1 second is conservative and respectful
	// of server resources.
	DefaultPolitenessInterval = 1 * time.Second

	// DefaultMaxRetries is the number of retries after the first failed
	// attempt for transient HTTP errors.
	DefaultMaxRetries = 2

	// DefaultBackoffBase is the delay before the first retry; subsequent
	// retries double it.
	DefaultBackoffBase = 500 * time.Millisecond

	// DefaultMaxBodySize limits the response body size read per page.
	// 5MB is sufficient for most HTML pages while preventing memory
	// exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultWorkers of 1 keeps runs single-threaded and strictly
	// ordered. Concurrency is opt-in via --workers.
	DefaultWorkers = 1

	// AppName is the application name used for XDG directory paths.
	AppName = "wayfind"
)

// Config holds all configuration options for a wayfind run.
// It is populated from CLI flags and passed through the application via
// dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// per strategy. Every strategy reads only the fields it understands, and
// Validate rejects combinations that make no sense for the selected
// strategy. Nesting would add complexity without significant benefit.
type Config struct {
	// Seed is the starting point of the run: an absolute URL for
	// link_frontier, a directory path for path_walk, or a database file
	// path for pagination.
	Seed string

	// Strategy selects the navigation strategy for the run.
	Strategy model.Strategy

	// MaxDepth is the maximum traversal depth. Depth 0 means only the
	// seed is fetched. If zero-valued at construction, the per-strategy
	// default applies.
	MaxDepth int

	// Order selects the traversal order for link_frontier runs:
	// "bfs" (default) or "dfs". path_walk is always breadth-first and
	// pagination is inherently linear.
	Order string

	// MaxPages caps the number of results a run may yield.
	// Zero disables the cap.
	MaxPages int

	// LinkPattern is a regular expression matched against the absolute
	// URL of discovered links during link_frontier runs. Empty means
	// follow everything.
	LinkPattern string

	// SameHostOnly restricts link_frontier runs to the seed's host.
	SameHostOnly bool

	// IgnorePatterns are per-source globs for targets to skip, matched
	// against URL paths (link_frontier) or file paths (path_walk).
	IgnorePatterns []string

	// FollowPatterns are per-source globs restricting which targets are
	// visited. Empty means everything not ignored.
	FollowPatterns []string

	// Extensions restricts path_walk runs to files with the given
	// extensions (e.g. ".md", ".txt"). Empty means all files.
	Extensions []string

	// NamePattern is a glob matched against file base names during
	// path_walk runs. Empty means "*".
	NamePattern string

	// Query is the SQL statement paged through during pagination runs.
	// Required when Strategy is pagination.
	Query string

	// PageSize is the row count per page for pagination runs.
	PageSize int

	// PolitenessInterval is the minimum spacing between HTTP requests to
	// the same host.
	PolitenessInterval time.Duration

	// MaxRetries is the retry budget for transient HTTP errors.
	MaxRetries int

	// BackoffBase is the delay before the first retry.
	BackoffBase time.Duration

	// UserAgent is the User-Agent header sent with HTTP requests.
	// A descriptive User-Agent helps operators identify crawler traffic.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Responses larger than this are truncated.
	MaxBodySize int64

	// RespectRobots enables robots.txt checking for link_frontier runs.
	RespectRobots bool

	// Workers is the fetch concurrency. 1 means single-threaded with
	// strict traversal ordering.
	Workers int

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .wayfind in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// SourceConfigs holds per-source overrides loaded from the config
	// file, keyed by host or path prefix.
	SourceConfigs *File

	// JSONReport enables JSON report output instead of the human-readable
	// format. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of the
	// human-readable format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// DBDir is the directory path for storing the SQLite results
	// database. When empty, results are not persisted.
	DBDir string

	// SaveToDB indicates whether to save run results to the database.
	// Automatically set to true when DBDir is configured.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults; users override specific
// values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero. This also serves as
// documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Strategy:           model.StrategyLinkFrontier,
		MaxDepth:           DefaultMaxDepth,
		Order:              "bfs",
		MaxPages:           DefaultMaxPages,
		PageSize:           DefaultPageSize,
		PolitenessInterval: DefaultPolitenessInterval,
		MaxRetries:         DefaultMaxRetries,
		BackoffBase:        DefaultBackoffBase,
		MaxBodySize:        DefaultMaxBodySize,
		Workers:            DefaultWorkers,
	}
}

// XDGDataDir returns the XDG data directory for wayfind.
// On Linux: ~/.local/share/wayfind
// On macOS: ~/Library/Application Support/wayfind
// On Windows: %LOCALAPPDATA%\wayfind
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for wayfind.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for wayfind.
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any traversal begins.
// We return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if c.Seed == "" {
		return ErrNoSeed
	}

	if !c.Strategy.Valid() {
		return ErrInvalidStrategy
	}

	if c.MaxDepth < 0 {
		return ErrInvalidMaxDepth
	}

	if c.Order != "bfs" && c.Order != "dfs" {
		return ErrInvalidOrder
	}

	if c.MaxPages < 0 {
		return ErrInvalidMaxPages
	}

	if c.Strategy == model.StrategyPagination {
		if c.Query == "" {
			return ErrNoQuery
		}
		if c.PageSize <= 0 {
			return ErrInvalidPageSize
		}
	}

	if c.PolitenessInterval < 0 {
		return ErrInvalidPolitenessInterval
	}

	if c.MaxRetries < 0 {
		return ErrInvalidMaxRetries
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}
