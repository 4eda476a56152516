package adapters

import (
	"strings"

	"github.com/jingkaihe/skillxfer/pkg/manifest"
)

// Codex follows the Agent Skills layout but calls templates "assets" and
// docs "references". Body references are rewritten to match.
type Codex struct {
	base
}

// NewCodex creates the Codex CLI adapter.
func NewCodex() *Codex {
	return &Codex{base{
		name:        "codex",
		displayName: "Codex CLI",
		installPath: ".codex/skills",
		dirMap: map[string]string{
			"templates": "assets",
			"docs":      "references",
		},
		binaries:    []string{"codex"},
		detectPaths: []string{"~/.codex"},
		notes:       "Start Codex with `codex --enable skills` to load it. Templates live in `assets/` and docs in `references/`.",
		keys:        keyPolicy{allow: []string{"name", "description", "metadata"}, requireName: true},
	}}
}

var codexBodyRefs = strings.NewReplacer(
	"templates/", "assets/",
	"docs/", "references/",
	"`templates`", "`assets`",
	"`docs`", "`references`",
)

func (c *Codex) Transform(m *manifest.Manifest, skill string) ([]byte, error) {
	m.Body = codexBodyRefs.Replace(m.Body)
	return c.base.Transform(m, skill)
}

func init() { Register(NewCodex()) }
