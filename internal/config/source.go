package config

// SourceConfig holds per-source configuration for a single host or
// path prefix. This allows customizing traversal behavior per source.
type SourceConfig struct {
	// Headers are custom HTTP headers to include in requests to this source.
	Headers map[string]string `yaml:"headers,omitempty"`

	// Depth overrides the global max depth for this source.
	// If zero, the global MaxDepth is used.
	Depth int `yaml:"depth,omitempty"`

	// IgnorePatterns are target patterns to skip during traversal.
	// Patterns are matched against the URL path or file name using glob syntax.
	IgnorePatterns []string `yaml:"ignorePatterns,omitempty"`

	// FollowPatterns are target patterns to follow during traversal.
	// If specified, only targets matching these patterns are visited.
	FollowPatterns []string `yaml:"followPatterns,omitempty"`

	// PolitenessInterval overrides the global per-host request spacing,
	// expressed as a Go duration string (e.g. "500ms").
	PolitenessInterval string `yaml:"politenessInterval,omitempty"`
}

// File represents the structure of the .wayfind configuration file.
type File struct {
	// Sources maps hosts or path prefixes to their per-source
	// configurations. Keys are matched against the task target's host
	// (link_frontier) or leading path component (path_walk).
	Sources map[string]SourceConfig `yaml:"sources,omitempty"`

	// Defaults contains default source configuration applied to all
	// sources unless overridden in the source-specific configuration.
	Defaults SourceConfig `yaml:"defaults,omitempty"`
}

// GetSourceConfig returns the configuration for a specific source key.
// It merges the source-specific configuration with defaults.
func (cf *File) GetSourceConfig(source string) SourceConfig {
	// Start with defaults
	result := cf.Defaults

	// Override with source-specific configuration if present
	if sc, ok := cf.Sources[source]; ok {
		if sc.Depth != 0 {
			result.Depth = sc.Depth
		}
		if sc.PolitenessInterval != "" {
			result.PolitenessInterval = sc.PolitenessInterval
		}
		if len(sc.Headers) > 0 {
			if result.Headers == nil {
				result.Headers = make(map[string]string)
			}
			for k, v := range sc.Headers {
				result.Headers[k] = v
			}
		}
		if len(sc.IgnorePatterns) > 0 {
			result.IgnorePatterns = sc.IgnorePatterns
		}
		if len(sc.FollowPatterns) > 0 {
			result.FollowPatterns = sc.FollowPatterns
		}
	}

	return result
}
