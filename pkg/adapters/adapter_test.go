package adapters

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/jingkaihe/skillxfer/pkg/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnv(t *testing.T, binaries ...string) Env {
	t.Helper()
	onPath := make(map[string]bool)
	for _, b := range binaries {
		onPath[b] = true
	}
	return Env{
		WorkDir: t.TempDir(),
		HomeDir: t.TempDir(),
		LookPath: func(file string) (string, error) {
			if onPath[file] {
				return "/usr/bin/" + file, nil
			}
			return "", exec.ErrNotFound
		},
	}
}

func TestEnv_Expand(t *testing.T) {
	env := Env{WorkDir: "/work", HomeDir: "/home/me"}

	assert.Equal(t, "/home/me", env.Expand("~"))
	assert.Equal(t, "/home/me/.gemini/skills", env.Expand("~/.gemini/skills"))
	assert.Equal(t, "/srv/skills", env.Expand("/srv//skills/"))
	assert.Equal(t, "/work/out/rules", env.Expand("out/rules"))
}

func TestDefaultInstallRoots(t *testing.T) {
	env := testEnv(t)

	tests := []struct {
		adapter  string
		root     string
		relative string
	}{
		{"antigravity", filepath.Join(env.WorkDir, ".agent", "skills"), ".agent/skills"},
		{"codex", filepath.Join(env.WorkDir, ".codex", "skills"), ".codex/skills"},
		{"cursor", filepath.Join(env.WorkDir, ".cursor", "rules"), ".cursor/rules"},
		{"droid", filepath.Join(env.WorkDir, ".factory", "skills"), ".factory/skills"},
		{"gemini", filepath.Join(env.HomeDir, ".gemini", "skills"), ".gemini/skills"},
		{"opencode", filepath.Join(env.WorkDir, ".opencode", "skill"), ".opencode/skill"},
	}

	for _, tt := range tests {
		t.Run(tt.adapter, func(t *testing.T) {
			a, err := Get(tt.adapter)
			require.NoError(t, err)
			assert.Equal(t, tt.root, a.DefaultInstallRoot(env))
			assert.Equal(t, tt.root, InstallRoot(a, env))
			assert.Equal(t, tt.relative, a.RelativeInstallPath())
		})
	}
}

func TestOpenCode_PrefersExistingClaudeSkills(t *testing.T) {
	env := testEnv(t)
	claudeSkills := filepath.Join(env.WorkDir, ".claude", "skills")
	require.NoError(t, os.MkdirAll(claudeSkills, 0o755))

	assert.Equal(t, claudeSkills, NewOpenCode().DefaultInstallRoot(env))
}

func TestInstallRoot_Override(t *testing.T) {
	env := testEnv(t)
	env.Overrides = map[string]string{
		"gemini": "~/custom/gemini",
		"cursor": "rules",
	}

	assert.Equal(t, filepath.Join(env.HomeDir, "custom", "gemini"), InstallRoot(NewGemini(), env))
	assert.Equal(t, filepath.Join(env.WorkDir, "rules"), InstallRoot(NewCursor(), env))
	assert.Equal(t, filepath.Join(env.WorkDir, ".codex", "skills"), InstallRoot(NewCodex(), env))
}

func TestManifestFileName(t *testing.T) {
	assert.Equal(t, "SKILL.md", NewGemini().ManifestFileName("pdf"))
	assert.Equal(t, "SKILL.md", NewCodex().ManifestFileName("pdf"))
	assert.Equal(t, "pdf.mdc", NewCursor().ManifestFileName("pdf"))
}

func TestDirectoryMap(t *testing.T) {
	assert.Empty(t, NewGemini().DirectoryMap())
	assert.Equal(t, map[string]string{"templates": "assets", "docs": "references"}, NewCodex().DirectoryMap())
	assert.Equal(t, "resources/references", NewAntigravity().DirectoryMap()["references"])

	m := NewCodex().DirectoryMap()
	m["templates"] = "mutated"
	assert.Equal(t, "assets", NewCodex().DirectoryMap()["templates"])
}

func TestDetect(t *testing.T) {
	t.Run("binary on PATH", func(t *testing.T) {
		env := testEnv(t, "codex", "cursor-agent")
		assert.Equal(t, []string{"codex", "cursor"}, names(Detected(env)))
	})

	t.Run("config directories", func(t *testing.T) {
		env := testEnv(t)
		require.NoError(t, os.MkdirAll(filepath.Join(env.HomeDir, ".gemini", "antigravity"), 0o755))
		require.NoError(t, os.MkdirAll(filepath.Join(env.HomeDir, ".factory"), 0o755))

		assert.Equal(t, []string{"antigravity", "droid", "gemini"}, names(Detected(env)))
	})

	t.Run("workspace marker", func(t *testing.T) {
		env := testEnv(t)
		require.NoError(t, os.MkdirAll(filepath.Join(env.WorkDir, ".agent"), 0o755))

		assert.Equal(t, []string{"antigravity"}, names(Detected(env)))
	})

	t.Run("nothing installed", func(t *testing.T) {
		env := testEnv(t)
		env.LookPath = nil
		assert.Empty(t, Detected(env))
	})
}

func names(as []Adapter) []string {
	out := make([]string, 0, len(as))
	for _, a := range as {
		out = append(out, a.Name())
	}
	return out
}

func TestBaseTransform_AppendsUsageOnce(t *testing.T) {
	m, err := manifest.Parse([]byte("---\nname: pdf\ndescription: PDF tools\n---\n\n# PDF\n\nUse it.\n"))
	require.NoError(t, err)

	out, err := NewGemini().Transform(m, "pdf")
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "---\nname: pdf\ndescription: PDF tools\n---\n\n# PDF\n\nUse it.\n\n## Gemini CLI Usage\n")
	assert.Contains(t, s, "`~/.gemini/skills/pdf/`")
	assert.Contains(t, s, "cd ~/.gemini/skills/pdf/scripts")

	again, err := manifest.Parse(out)
	require.NoError(t, err)
	second, err := NewGemini().Transform(again, "pdf")
	require.NoError(t, err)
	assert.Equal(t, s, string(second))
}

func TestCodexTransform_RewritesDirectoryReferences(t *testing.T) {
	m, err := manifest.Parse([]byte("---\nname: gen\n---\n\nCopy templates/base.md and read docs/guide.md.\nThe `templates` and `docs` folders.\n"))
	require.NoError(t, err)

	out, err := NewCodex().Transform(m, "gen")
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "Copy assets/base.md and read references/guide.md.\nThe `assets` and `references` folders.\n")
	assert.Contains(t, s, "## Codex CLI Usage")
	assert.Contains(t, s, "cd .codex/skills/gen/scripts")
}

func TestTransform_DifferentAdaptersDifferentOutputs(t *testing.T) {
	content := []byte("---\nname: example\ndescription: Example skill\n---\n\n# Example\n")

	outputs := make(map[string]string)
	for _, a := range All() {
		m, err := manifest.Parse(content)
		require.NoError(t, err)
		out, err := a.Transform(m, "example")
		require.NoError(t, err)
		outputs[a.Name()] = string(out)
	}

	assert.NotEqual(t, outputs["cursor"], outputs["gemini"])
	assert.NotEqual(t, outputs["codex"], outputs["opencode"])
	assert.Contains(t, outputs["opencode"], "## OpenCode Usage")
	assert.Contains(t, outputs["droid"], "## Droid CLI Usage")
	assert.Contains(t, outputs["antigravity"], "## Antigravity Usage")
}

func TestKeyPolicies(t *testing.T) {
	const content = "---\ndescription: Does things\nlicense: MIT\nversion: 2\nmetadata:\n  owner: team\n---\n\nBody\n"

	tests := []struct {
		adapter string
		keys    []string
	}{
		{"antigravity", []string{"description", "license", "metadata", "name"}},
		{"codex", []string{"description", "metadata", "name"}},
		{"droid", []string{"description", "license", "version", "metadata", "name"}},
		{"gemini", []string{"description", "license", "metadata", "name"}},
		{"opencode", []string{"description", "license", "metadata", "name"}},
	}

	for _, tt := range tests {
		t.Run(tt.adapter, func(t *testing.T) {
			a, err := Get(tt.adapter)
			require.NoError(t, err)

			m, err := manifest.Parse([]byte(content))
			require.NoError(t, err)
			out, err := a.Transform(m, "example")
			require.NoError(t, err)

			rendered, err := manifest.Parse(out)
			require.NoError(t, err)
			assert.Equal(t, tt.keys, rendered.Keys())
			name, _ := rendered.Get("name")
			assert.Equal(t, "example", name)
		})
	}
}

func TestKeyPolicy_KeepsExistingName(t *testing.T) {
	m, err := manifest.Parse([]byte("---\nname: pdf-tools\nextra: x\n---\nBody\n"))
	require.NoError(t, err)

	keyPolicy{allow: agentSkillsKeys, requireName: true}.apply(m, "pdf")
	assert.Equal(t, []string{"name"}, m.Keys())
	name, _ := m.Get("name")
	assert.Equal(t, "pdf-tools", name)
}
