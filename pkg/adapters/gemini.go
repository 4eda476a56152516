package adapters

// Gemini installs user-wide under ~/.gemini/skills.
type Gemini struct {
	base
}

// NewGemini creates the Gemini CLI adapter.
func NewGemini() *Gemini {
	return &Gemini{base{
		name:        "gemini",
		displayName: "Gemini CLI",
		installPath: ".gemini/skills",
		global:      true,
		binaries:    []string{"gemini"},
		detectPaths: []string{"~/.gemini"},
		notes:       "Restart Gemini CLI to pick up newly installed skills.",
		keys:        keyPolicy{allow: agentSkillsKeys, requireName: true},
	}}
}

func init() { Register(NewGemini()) }
