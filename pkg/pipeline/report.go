package pipeline

import (
	"github.com/jingkaihe/skillxfer/pkg/installer"
	"github.com/jingkaihe/skillxfer/pkg/skills"
	"github.com/jingkaihe/skillxfer/pkg/source"
)

// Result is the outcome of one Step. Err is nil when every file of the
// skill was written.
type Result struct {
	Step
	Install     *installer.Result
	RemovedKeys []string
	Err         error
}

// OK reports whether the step succeeded.
func (r *Result) OK() bool {
	return r.Err == nil
}

// SkillInfo is a discovered skill with the metadata shown when listing.
type SkillInfo struct {
	Source   *skills.Source
	Metadata skills.Metadata
}

// Report is what a run did. Repository is already closed when the report
// is returned; only its paths remain meaningful.
type Report struct {
	Repository *source.Repository
	Skills     []SkillInfo
	Plan       *Plan
	Results    []*Result
}

// Succeeded returns the results of the steps that succeeded.
func (r *Report) Succeeded() []*Result {
	var ok []*Result
	for _, res := range r.Results {
		if res.OK() {
			ok = append(ok, res)
		}
	}
	return ok
}

// Failed returns the results of the steps that failed.
func (r *Report) Failed() []*Result {
	var failed []*Result
	for _, res := range r.Results {
		if !res.OK() {
			failed = append(failed, res)
		}
	}
	return failed
}

// OK reports whether every planned step ran and succeeded.
func (r *Report) OK() bool {
	if r.Plan == nil {
		return true
	}
	return len(r.Results) == len(r.Plan.Steps) && len(r.Failed()) == 0
}
