package installer

import (
	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
)

// DefaultIgnore lists source-relative globs that are never installed:
// version control metadata, OS and Python droppings, and Claude Code
// specific files.
var DefaultIgnore = []string{
	".git/**",
	"**/.git/**",
	"**/.DS_Store",
	"**/__pycache__/**",
	"**/*.pyc",
	"**/.claude/**",
	"**/.claude-plugin/**",
	"hooks/hooks.json",
}

// IgnorePolicy matches source-relative, slash separated paths.
type IgnorePolicy struct {
	patterns []string
}

// NewIgnorePolicy combines DefaultIgnore with extra patterns.
func NewIgnorePolicy(extra ...string) (*IgnorePolicy, error) {
	patterns := append([]string{}, DefaultIgnore...)
	for _, p := range extra {
		if !doublestar.ValidatePattern(p) {
			return nil, errors.Errorf("invalid ignore pattern %q", p)
		}
		patterns = append(patterns, p)
	}
	return &IgnorePolicy{patterns: patterns}, nil
}

// Match reports whether rel should be skipped.
func (p *IgnorePolicy) Match(rel string) bool {
	for _, pattern := range p.patterns {
		if doublestar.MatchUnvalidated(pattern, rel) {
			return true
		}
	}
	return false
}
