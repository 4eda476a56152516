package adapters

// Droid is Factory's CLI; it reads Claude Code style skills from
// .factory/skills.
type Droid struct {
	base
}

// NewDroid creates the Droid adapter.
func NewDroid() *Droid {
	return &Droid{base{
		name:        "droid",
		displayName: "Droid CLI",
		installPath: ".factory/skills",
		binaries:    []string{"droid"},
		detectPaths: []string{"~/.factory"},
		notes:       "Droid discovers it automatically; use `/skills` to manage installed skills.",
		keys:        keyPolicy{requireName: true},
	}}
}

func init() { Register(NewDroid()) }
