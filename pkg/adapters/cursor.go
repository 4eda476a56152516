package adapters

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/jingkaihe/skillxfer/pkg/manifest"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	cursorMaxDescription = 200
	cursorDefaultGlob    = "**/*"
)

// cursorGlobKeys are front-matter keys that may scope a Cursor rule, in
// order of preference.
var cursorGlobKeys = []string{"globs", "files", "patterns"}

// Cursor turns a skill into a project rule: <name>.mdc with an MDC header
// of description, globs and alwaysApply.
type Cursor struct {
	base
}

// NewCursor creates the Cursor adapter.
func NewCursor() *Cursor {
	return &Cursor{base{
		name:        "cursor",
		displayName: "Cursor",
		installPath: ".cursor/rules",
		dirMap: map[string]string{
			"templates": "assets",
			"docs":      "references",
		},
		binaries:    []string{"cursor", "cursor-agent"},
		detectPaths: []string{"~/.cursor"},
		notes:       "The rule is attached to files matching its globs; scripts are not run automatically.",
	}}
}

func (c *Cursor) ManifestFileName(skill string) string {
	return skill + ".mdc"
}

func (c *Cursor) Transform(m *manifest.Manifest, skill string) ([]byte, error) {
	description := cursorDescription(m, skill)
	globs := cursorGlobs(m)
	m.Clear()

	manifest.EnsureSection(m, c.usageHeading(), c.usageSection(skill))

	quoted, err := yamlInline(description)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString("---\n")
	sb.WriteString("description: " + quoted + "\n")
	sb.WriteString("globs: " + strings.Join(globs, ", ") + "\n")
	sb.WriteString("alwaysApply: false\n")
	sb.WriteString("---\n\n")
	sb.WriteString(m.Body)
	return []byte(sb.String()), nil
}

// cursorDescription prefers the front-matter description, then the first
// heading, then the skill name.
func cursorDescription(m *manifest.Manifest, skill string) string {
	description, _ := m.Get("description")
	description = strings.Join(strings.Fields(description), " ")
	if description == "" {
		description = manifest.FirstHeading(m.Body)
	}
	if description == "" {
		description = skill
	}

	runes := []rune(description)
	if len(runes) > cursorMaxDescription {
		description = strings.TrimSpace(string(runes[:cursorMaxDescription]))
	}
	return description
}

// cursorGlobs reads the first glob key present, dropping patterns that are
// not valid globs.
func cursorGlobs(m *manifest.Manifest) []string {
	for _, key := range cursorGlobKeys {
		if !m.Has(key) {
			continue
		}

		var globs []string
		for _, g := range m.GetStrings(key) {
			if doublestar.ValidatePattern(g) {
				globs = append(globs, g)
			}
		}
		if len(globs) > 0 {
			return globs
		}
	}
	return []string{cursorDefaultGlob}
}

// yamlInline renders s as a single-line YAML string scalar, quoted when a
// plain scalar would read back as another type or not parse at all.
func yamlInline(s string) (string, error) {
	out, err := yaml.Marshal(&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s})
	if err != nil {
		return "", errors.Wrap(err, "failed to encode description")
	}

	// The encoder folds long scalars at spaces; a folded line break reads
	// back as one space.
	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.Join(lines, " "), nil
}

func init() { Register(NewCursor()) }
