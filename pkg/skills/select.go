package skills

import (
	"strings"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"
)

// Select narrows all down to the skills named by patterns, keeping
// discovery order. A pattern is an exact name or a glob such as "pdf-*".
// No patterns selects everything. Any pattern matching nothing is an error.
func Select(all []*Source, patterns []string) ([]*Source, error) {
	if len(patterns) == 0 {
		return all, nil
	}

	type matcher struct {
		pattern string
		match   func(string) bool
		hit     bool
	}

	matchers := make([]*matcher, 0, len(patterns))
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}

		m := &matcher{pattern: pattern}
		if strings.ContainsAny(pattern, "*?[{") {
			g, err := glob.Compile(pattern)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid skill pattern %q", pattern)
			}
			m.match = g.Match
		} else {
			name := pattern
			m.match = func(s string) bool { return s == name }
		}
		matchers = append(matchers, m)
	}

	var selected []*Source
	for _, src := range all {
		picked := false
		for _, m := range matchers {
			if m.match(src.Name) {
				m.hit = true
				picked = true
			}
		}
		if picked {
			selected = append(selected, src)
		}
	}

	var missing []string
	for _, m := range matchers {
		if !m.hit {
			missing = append(missing, m.pattern)
		}
	}
	if len(missing) > 0 {
		return nil, &NotFoundError{Names: missing, Available: Names(all)}
	}

	return selected, nil
}

// Names returns the names of srcs in order.
func Names(srcs []*Source) []string {
	names := make([]string, 0, len(srcs))
	for _, src := range srcs {
		names = append(names, src.Name)
	}
	return names
}
