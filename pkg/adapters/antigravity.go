package adapters

// Antigravity keeps templates and references together under resources/.
type Antigravity struct {
	base
}

// NewAntigravity creates the Google Antigravity adapter.
func NewAntigravity() *Antigravity {
	return &Antigravity{base{
		name:        "antigravity",
		displayName: "Antigravity",
		installPath: ".agent/skills",
		dirMap: map[string]string{
			"templates":  "resources/templates",
			"docs":       "resources/references",
			"references": "resources/references",
			"assets":     "resources/assets",
		},
		detectPaths: []string{".agent", "~/.gemini/antigravity"},
		notes:       "Templates and references are under `resources/`.",
		keys:        keyPolicy{allow: agentSkillsKeys, requireName: true},
	}}
}

func init() { Register(NewAntigravity()) }
