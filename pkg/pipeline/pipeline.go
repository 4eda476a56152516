// Package pipeline runs skillxfer end to end: resolve the repository,
// discover and select skills, pick the target CLIs, then transform and
// install each (skill, CLI) pair in order.
package pipeline

import (
	"context"

	"github.com/jingkaihe/skillxfer/pkg/adapters"
	"github.com/jingkaihe/skillxfer/pkg/installer"
	"github.com/jingkaihe/skillxfer/pkg/logger"
	"github.com/jingkaihe/skillxfer/pkg/skills"
	"github.com/jingkaihe/skillxfer/pkg/source"
	"github.com/jingkaihe/skillxfer/pkg/transform"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Runner executes Requests.
type Runner struct {
	env        adapters.Env
	installer  *installer.Installer
	discovery  *skills.Discovery
	sourceOpts []source.Option
}

// Option configures a Runner instance
type Option func(*Runner) error

// WithEnv sets the host environment adapters resolve paths against.
func WithEnv(env adapters.Env) Option {
	return func(r *Runner) error {
		r.env = env
		return nil
	}
}

// WithInstaller sets the installer used for every step.
func WithInstaller(i *installer.Installer) Option {
	return func(r *Runner) error {
		r.installer = i
		return nil
	}
}

// WithDiscovery sets the skill discovery settings.
func WithDiscovery(d *skills.Discovery) Option {
	return func(r *Runner) error {
		r.discovery = d
		return nil
	}
}

// WithSourceOptions adds options applied to every repository resolution,
// such as clone timeouts.
func WithSourceOptions(opts ...source.Option) Option {
	return func(r *Runner) error {
		r.sourceOpts = append(r.sourceOpts, opts...)
		return nil
	}
}

// NewRunner creates a Runner, defaulting to the current process
// environment.
func NewRunner(opts ...Option) (*Runner, error) {
	r := &Runner{}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	if r.env.WorkDir == "" {
		env, err := adapters.DefaultEnv()
		if err != nil {
			return nil, err
		}
		env.Overrides = r.env.Overrides
		r.env = env
	}
	if r.installer == nil {
		inst, err := installer.NewInstaller()
		if err != nil {
			return nil, err
		}
		r.installer = inst
	}
	if r.discovery == nil {
		d, err := skills.NewDiscovery()
		if err != nil {
			return nil, err
		}
		r.discovery = d
	}
	return r, nil
}

// Run executes req. Errors that leave nothing to iterate over (bad request,
// unknown CLI, unresolvable repository, no skills, unknown skill names) are
// returned before anything is written. Failures of individual steps are
// recorded in the report instead. Cancelling ctx stops the remaining steps
// and returns the partial report with ctx's error.
func (r *Runner) Run(ctx context.Context, req Request) (*Report, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	log := logger.G(ctx).WithField("repo", req.Repo)

	var targets []adapters.Adapter
	if !req.ListOnly {
		var err error
		if targets, err = r.selectAdapters(req); err != nil {
			return nil, err
		}
	}

	opts := append([]source.Option{}, r.sourceOpts...)
	opts = append(opts,
		source.WithSubDir(req.SubDir),
		source.WithRef(req.Ref),
		source.WithKeepClone(req.KeepClone),
	)
	repo, err := source.Resolve(ctx, req.Repo, opts...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.WithError(err).Warn("failed to clean up repository")
		}
	}()

	report := &Report{Repository: repo}

	found, err := r.discovery.Discover(ctx, repo.Path)
	if err != nil {
		return report, err
	}
	for _, src := range found {
		src.Root = repo.Root
	}

	if req.ListOnly {
		report.Skills = describeAll(ctx, found)
		return report, nil
	}

	selected := found
	if !req.AllSkills {
		if selected, err = skills.Select(found, req.Skills); err != nil {
			return report, err
		}
	}
	for _, src := range selected {
		report.Skills = append(report.Skills, SkillInfo{Source: src})
	}

	report.Plan = BuildPlan(selected, targets, r.env, req.Target)
	log.WithField("steps", len(report.Plan.Steps)).Debug("built install plan")

	for _, step := range report.Plan.Steps {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Results = append(report.Results, r.execute(ctx, step))
	}
	return report, nil
}

func (r *Runner) selectAdapters(req Request) ([]adapters.Adapter, error) {
	switch {
	case req.AllCLIs:
		return adapters.All(), nil
	case req.DetectCLIs:
		detected := adapters.Detected(r.env)
		if len(detected) == 0 {
			return nil, ErrNoAdaptersDetected
		}
		return detected, nil
	default:
		return adapters.Resolve(req.CLIs)
	}
}

func (r *Runner) execute(ctx context.Context, step Step) *Result {
	ctx = logger.WithFields(ctx, logrus.Fields{
		"skill":   step.Skill.Name,
		"adapter": step.Adapter.Name(),
	})
	log := logger.G(ctx)
	result := &Result{Step: step}

	out, err := transform.Transform(ctx, step.Skill, step.Adapter)
	if err != nil {
		log.WithError(err).Warn("failed to transform skill")
		result.Err = err
		return result
	}
	result.RemovedKeys = out.RemovedKeys

	unlock, err := installer.Lock(step.Destination)
	if err != nil {
		result.Err = err
		return result
	}
	defer unlock()

	result.Install, err = r.installer.Install(ctx, out, step.Destination)
	if err != nil {
		result.Err = errors.Wrapf(err, "failed to install %s for %s", step.Skill.Name, step.Adapter.DisplayName())
		return result
	}

	log.WithField("path", step.Destination).Info("installed skill")
	return result
}

func describeAll(ctx context.Context, srcs []*skills.Source) []SkillInfo {
	infos := make([]SkillInfo, 0, len(srcs))
	for _, src := range srcs {
		meta, err := skills.Describe(src)
		if err != nil {
			logger.G(ctx).WithError(err).WithField("skill", src.Name).Warn("failed to read skill metadata")
			meta = skills.Metadata{Name: src.Name}
		}
		infos = append(infos, SkillInfo{Source: src, Metadata: meta})
	}
	return infos
}
