// Package adapters holds one policy per target CLI: where its skills live,
// what its manifest file is called, and how a manifest is rewritten into
// its dialect. Adapters are stateless and register themselves on init.
package adapters

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jingkaihe/skillxfer/pkg/manifest"
	"github.com/pkg/errors"
)

// Adapter is the policy for one target CLI.
type Adapter interface {
	// Name is the identifier used on the command line, e.g. "cursor".
	Name() string
	DisplayName() string
	// DefaultInstallRoot is the absolute directory skills are installed
	// under when no target root is given.
	DefaultInstallRoot(env Env) string
	// RelativeInstallPath is joined to a caller supplied target root.
	RelativeInstallPath() string
	ManifestFileName(skill string) string
	// DirectoryMap renames top-level asset directories, e.g. templates
	// to assets.
	DirectoryMap() map[string]string
	// Transform renders m, already stripped of Claude Code only keys,
	// in the target dialect.
	Transform(m *manifest.Manifest, skill string) ([]byte, error)
	// Detect reports whether the CLI appears to be installed.
	Detect(env Env) bool
}

// Env is the host context adapters resolve paths against.
type Env struct {
	WorkDir  string
	HomeDir  string
	LookPath func(file string) (string, error)
	// Overrides maps adapter names to configured install roots.
	Overrides map[string]string
}

// DefaultEnv builds an Env from the current process.
func DefaultEnv() (Env, error) {
	wd, err := os.Getwd()
	if err != nil {
		return Env{}, errors.Wrap(err, "failed to get working directory")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return Env{}, errors.Wrap(err, "failed to get user home directory")
	}
	return Env{WorkDir: wd, HomeDir: home, LookPath: exec.LookPath}, nil
}

// Expand resolves "~" against HomeDir and relative paths against WorkDir.
func (e Env) Expand(path string) string {
	switch {
	case path == "~":
		return e.HomeDir
	case strings.HasPrefix(path, "~/"):
		return filepath.Join(e.HomeDir, path[2:])
	case filepath.IsAbs(path):
		return filepath.Clean(path)
	default:
		return filepath.Join(e.WorkDir, path)
	}
}

func (e Env) hasBinary(name string) bool {
	if e.LookPath == nil {
		return false
	}
	_, err := e.LookPath(name)
	return err == nil
}

func (e Env) exists(path string) bool {
	_, err := os.Stat(e.Expand(path))
	return err == nil
}

// InstallRoot is the configured install root for a, falling back to its
// default.
func InstallRoot(a Adapter, env Env) string {
	if override := env.Overrides[a.Name()]; override != "" {
		return env.Expand(override)
	}
	return a.DefaultInstallRoot(env)
}

// base carries the behaviour shared by adapters that keep the SKILL.md
// format and only append a usage section.
type base struct {
	name        string
	displayName string
	installPath string // relative to the working directory, or home if global
	global      bool
	dirMap      map[string]string
	binaries    []string
	detectPaths []string
	notes       string
	keys        keyPolicy
}

// keyPolicy is an adapter's front-matter table, applied after the Claude
// Code only keys are gone.
type keyPolicy struct {
	// allow lists the keys the target understands. Nil keeps every key.
	allow       []string
	// requireName fills in a missing name with the skill directory name.
	requireName bool
}

// agentSkillsKeys are the front-matter keys of the Agent Skills format.
var agentSkillsKeys = []string{"name", "description", "license", "compatibility", "metadata"}

func (p keyPolicy) apply(m *manifest.Manifest, skill string) {
	if p.allow != nil {
		for _, key := range m.Keys() {
			if !slices.Contains(p.allow, key) {
				m.Delete(key)
			}
		}
	}
	if p.requireName && !m.Has("name") {
		m.Set("name", skill)
	}
}

func (b *base) Name() string { return b.name }

func (b *base) DisplayName() string { return b.displayName }

func (b *base) RelativeInstallPath() string { return b.installPath }

func (b *base) DefaultInstallRoot(env Env) string {
	if b.global {
		return filepath.Join(env.HomeDir, b.installPath)
	}
	return filepath.Join(env.WorkDir, b.installPath)
}

func (b *base) ManifestFileName(string) string { return manifest.FileName }

func (b *base) DirectoryMap() map[string]string {
	m := make(map[string]string, len(b.dirMap))
	for k, v := range b.dirMap {
		m[k] = v
	}
	return m
}

func (b *base) Detect(env Env) bool {
	for _, bin := range b.binaries {
		if env.hasBinary(bin) {
			return true
		}
	}
	for _, p := range b.detectPaths {
		if env.exists(p) {
			return true
		}
	}
	return false
}

func (b *base) Transform(m *manifest.Manifest, skill string) ([]byte, error) {
	b.keys.apply(m, skill)
	manifest.EnsureSection(m, b.usageHeading(), b.usageSection(skill))
	return m.Render()
}

func (b *base) usageHeading() string {
	return fmt.Sprintf("## %s Usage", b.displayName)
}

func (b *base) skillLocation(skill string) string {
	loc := b.installPath + "/" + skill
	if b.global {
		loc = "~/" + loc
	}
	return loc
}

func (b *base) usageSection(skill string) string {
	loc := b.skillLocation(skill)

	var sb strings.Builder
	sb.WriteString(b.usageHeading() + "\n\n")
	fmt.Fprintf(&sb, "This skill is installed for %s under `%s/`.", b.displayName, loc)
	if b.notes != "" {
		sb.WriteString(" " + b.notes)
	}
	sb.WriteString("\n\nBundled scripts can be run by hand:\n\n")
	fmt.Fprintf(&sb, "```bash\ncd %s/scripts\n```\n\n", loc)
	sb.WriteString("See `scripts/README.md` for what each script does.\n")
	return sb.String()
}
