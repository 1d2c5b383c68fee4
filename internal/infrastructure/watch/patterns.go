package watch

import (
	"path/filepath"
	"strings"
)

// PatternFilter filters file names with include and exclude glob patterns.
// Patterns are matched against the base name and against the full path.
type PatternFilter struct {
	Include []string
	Exclude []string
	// IgnoreHidden rejects names starting with a dot.
	IgnoreHidden bool
}

// NewPatternFilter creates a new pattern filter.
func NewPatternFilter(include, exclude []string) *PatternFilter {
	return &PatternFilter{
		Include: include,
		Exclude: exclude,
	}
}

// NewTranscriptFilter accepts files matching pattern and skips hidden files
// and the temporary files editors and copy tools leave behind.
func NewTranscriptFilter(pattern string) *PatternFilter {
	if pattern == "" {
		pattern = "*.json"
	}
	return &PatternFilter{
		Include:      []string{pattern},
		Exclude:      []string{"*.tmp", "*.swp", "*.part", "*~"},
		IgnoreHidden: true,
	}
}

// Matches returns true if the path passes the filter. Excludes win over
// includes; no include patterns means everything not excluded passes.
func (f *PatternFilter) Matches(path string) bool {
	base := filepath.Base(path)
	if f.IgnoreHidden && strings.HasPrefix(base, ".") {
		return false
	}
	if matchAny(f.Exclude, base, path) {
		return false
	}
	return len(f.Include) == 0 || matchAny(f.Include, base, path)
}

func matchAny(patterns []string, base, path string) bool {
	for _, pattern := range patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, path); matched {
			return true
		}
	}
	return false
}
