// Package skills locates Claude Code style skills inside a repository.
// A skill is a directory holding a SKILL.md manifest plus supporting files
// (scripts, templates, references), laid out in one of three known shapes.
package skills

import (
	"path/filepath"

	"github.com/jingkaihe/skillxfer/pkg/manifest"
)

// Layout is the directory arrangement a skill was found in.
type Layout string

const (
	// LayoutDirect is <skill>/SKILL.md with assets beside it.
	LayoutDirect Layout = "direct"
	// LayoutNested is <skill>/skills/SKILL.md with assets under skills/.
	LayoutNested Layout = "nested"
	// LayoutHooks is a direct layout whose scripts live under hooks/.
	LayoutHooks Layout = "hooks"
)

// Source is one discovered skill.
type Source struct {
	Name         string // Directory name of the candidate, used as the install name
	Dir          string // Full path to the candidate directory
	AssetRoot    string // Directory whose relative structure is copied
	ManifestPath string // Full path to SKILL.md
	Layout       Layout
	// Root bounds the files a skill may pull in through symlinks. It is
	// the scan root, or the repository root when the caller sets it.
	Root string
}

// ManifestRel is the manifest path relative to the asset root.
func (s *Source) ManifestRel() string {
	rel, err := filepath.Rel(s.AssetRoot, s.ManifestPath)
	if err != nil {
		return manifest.FileName
	}
	return filepath.ToSlash(rel)
}

// Metadata is the subset of front-matter shown when listing skills.
type Metadata struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}
