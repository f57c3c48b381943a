package navigator

import "testing"

// TestMatchGlob tests the glob shapes the per-source filters accept.
func TestMatchGlob(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
		path    string
		want    bool
	}{
		{"directory wildcard matches below", "/admin/*", "/admin/users", true},
		{"directory wildcard matches the directory itself", "/admin/*", "/admin", true},
		{"directory wildcard ignores siblings", "/admin/*", "/administrator", false},
		{"extension pattern matches any depth", "*.pdf", "/docs/deep/manual.pdf", true},
		{"extension pattern needs the suffix", "*.pdf", "/docs/manual.pdfx", false},
		{"question mark matches one character", "/api/v?", "/api/v2", true},
		{"question mark rejects two characters", "/api/v?", "/api/v10", false},
		{"slash-free wildcard matches the base name", "*-draft", "/docs/notes-draft", true},
		{"literal pattern matches exactly", "/index.html", "/index.html", true},
		{"literal pattern rejects others", "/index.html", "/about.html", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := matchGlob(tt.pattern, tt.path); got != tt.want {
				t.Errorf("matchGlob(%q, %q) = %v, want %v", tt.pattern, tt.path, got, tt.want)
			}
		})
	}
}

// TestGlobFilter tests ignore/follow precedence.
func TestGlobFilter(t *testing.T) {
	t.Parallel()

	t.Run("empty filter allows everything", func(t *testing.T) {
		t.Parallel()

		f := globFilter{}
		if !f.empty() {
			t.Error("expected empty filter")
		}
		if !f.allows("/anything") {
			t.Error("empty filter should allow all paths")
		}
	})

	t.Run("ignore wins over follow", func(t *testing.T) {
		t.Parallel()

		f := globFilter{ignore: []string{"/docs/internal/*"}, follow: []string{"/docs/*"}}
		if f.allows("/docs/internal/secrets") {
			t.Error("ignored path should be rejected even when a follow pattern matches")
		}
		if !f.allows("/docs/intro") {
			t.Error("followed path should be allowed")
		}
		if f.allows("/blog/post") {
			t.Error("path outside the follow list should be rejected")
		}
	})
}
