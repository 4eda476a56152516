package adapters

import (
	"os"
	"path/filepath"
)

// OpenCode installs into .opencode/skill, or into .claude/skills when the
// project already has one since OpenCode reads that directory too.
type OpenCode struct {
	base
}

// NewOpenCode creates the OpenCode adapter.
func NewOpenCode() *OpenCode {
	return &OpenCode{base{
		name:        "opencode",
		displayName: "OpenCode",
		installPath: ".opencode/skill",
		binaries:    []string{"opencode"},
		detectPaths: []string{"~/.opencode", "~/.config/opencode"},
		notes:       "OpenCode discovers it automatically and offers it in conversations.",
		keys:        keyPolicy{allow: agentSkillsKeys, requireName: true},
	}}
}

func (o *OpenCode) DefaultInstallRoot(env Env) string {
	claudeSkills := filepath.Join(env.WorkDir, ".claude", "skills")
	if info, err := os.Stat(claudeSkills); err == nil && info.IsDir() {
		return claudeSkills
	}
	return o.base.DefaultInstallRoot(env)
}

func init() { Register(NewOpenCode()) }
