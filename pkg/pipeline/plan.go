package pipeline

import (
	"github.com/jingkaihe/skillxfer/pkg/adapters"
	"github.com/jingkaihe/skillxfer/pkg/skills"
	"github.com/jingkaihe/skillxfer/pkg/transform"
)

// Step installs one skill for one adapter.
type Step struct {
	Skill       *skills.Source
	Adapter     adapters.Adapter
	Destination string
}

// Plan is every selected skill for every selected adapter, adapter-major,
// in the order both were selected.
type Plan struct {
	Steps []Step
}

// BuildPlan computes the destination of each (skill, adapter) pair. It does
// not touch the filesystem.
func BuildPlan(srcs []*skills.Source, targets []adapters.Adapter, env adapters.Env, targetRoot string) *Plan {
	plan := &Plan{Steps: make([]Step, 0, len(srcs)*len(targets))}
	for _, a := range targets {
		for _, src := range srcs {
			plan.Steps = append(plan.Steps, Step{
				Skill:       src,
				Adapter:     a,
				Destination: transform.Destination(a, env, src.Name, targetRoot),
			})
		}
	}
	return plan
}
