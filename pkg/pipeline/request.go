package pipeline

import (
	"github.com/pkg/errors"
)

// ErrNoAdaptersDetected is returned when adapter detection finds no
// installed CLI.
var ErrNoAdaptersDetected = errors.New("no supported CLIs detected on this system")

// Request describes one run.
type Request struct {
	Repo      string
	SubDir    string
	Ref       string
	KeepClone bool

	// Exactly one of CLIs, DetectCLIs and AllCLIs selects the adapters.
	CLIs       []string
	DetectCLIs bool
	AllCLIs    bool

	// Exactly one of Skills and AllSkills selects the skills. Skills may
	// hold glob patterns.
	Skills    []string
	AllSkills bool

	// Target replaces each adapter's default install root with
	// Target/<relative install path> when set.
	Target string

	// ListOnly stops after discovery and describes the skills found.
	ListOnly bool
}

// Validate checks that the selection flags are consistent.
func (r Request) Validate() error {
	if r.Repo == "" {
		return errors.New("repository is required")
	}
	if r.ListOnly {
		return nil
	}

	selected := 0
	for _, set := range []bool{len(r.CLIs) > 0, r.DetectCLIs, r.AllCLIs} {
		if set {
			selected++
		}
	}
	switch {
	case selected == 0:
		return errors.New("one of --cli, --detect or --all-clis is required")
	case selected > 1:
		return errors.New("--cli, --detect and --all-clis are mutually exclusive")
	}

	switch {
	case len(r.Skills) == 0 && !r.AllSkills:
		return errors.New("either --skills or --all is required")
	case len(r.Skills) > 0 && r.AllSkills:
		return errors.New("--skills and --all are mutually exclusive")
	}
	return nil
}
