package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/jingkaihe/skillxfer/pkg/adapters"
	"github.com/jingkaihe/skillxfer/pkg/config"
	"github.com/jingkaihe/skillxfer/pkg/installer"
	"github.com/jingkaihe/skillxfer/pkg/pipeline"
	"github.com/jingkaihe/skillxfer/pkg/presenter"
	"github.com/jingkaihe/skillxfer/pkg/source"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type InstallConfig struct {
	Repo      string
	SubDir    string
	Ref       string
	CLIs      []string
	Detect    bool
	AllCLIs   bool
	Skills    []string
	AllSkills bool
	Target    string
	KeepClone bool
	Clean     bool
}

func NewInstallConfig() *InstallConfig {
	return &InstallConfig{
		CLIs:   []string{},
		Skills: []string{},
	}
}

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install skills for one or more target CLIs",
	Long: `Install skills from a repository for one or more target CLIs.

Examples:
  # From a GitHub repository
  skillxfer install --repo https://github.com/user/claude-skills --cli cursor --all
  skillxfer install --repo https://github.com/user/claude-skills --cli gemini --skills pdf-tools

  # Skills kept in a subdirectory
  skillxfer install --repo https://github.com/user/repo --sub-dir parent-dir/skills --cli cursor --all

  # From a local checkout, for every CLI installed on this machine
  skillxfer install --repo /path/to/skills --detect --all

  # Several CLIs and glob patterns, under a custom root
  skillxfer install --repo /path/to/skills --cli codex,droid --skills 'pdf-*' --target ./out`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		installConfig := getInstallConfigFromFlags(cmd)

		ctx, cancel := commandContext()
		defer cancel()

		report, err := runInstall(ctx, installConfig)
		if report != nil && len(report.Results) > 0 {
			printReport(report)
		}
		if err != nil {
			return err
		}
		if !report.OK() {
			return errors.Errorf("%d of %d installations failed", len(report.Failed()), len(report.Plan.Steps))
		}
		return nil
	},
}

func init() {
	addInstallFlags(installCmd)

	viper.BindPFlag("target", installCmd.Flags().Lookup("target"))
	viper.BindPFlag("keep_clone", installCmd.Flags().Lookup("keep-clone"))
}

func addInstallFlags(cmd *cobra.Command) {
	defaults := NewInstallConfig()
	cmd.Flags().String("repo", defaults.Repo, "Git repository URL or local path")
	cmd.Flags().String("sub-dir", defaults.SubDir, "Path to the skills root inside the repository")
	cmd.Flags().String("ref", defaults.Ref, "Branch or tag to clone")
	cmd.Flags().StringSlice("cli", defaults.CLIs, fmt.Sprintf("Target CLIs (%s)", strings.Join(adapters.Names(), ", ")))
	cmd.Flags().Bool("detect", defaults.Detect, "Install for every supported CLI found on this machine")
	cmd.Flags().Bool("all-clis", defaults.AllCLIs, "Install for every supported CLI")
	cmd.Flags().StringSlice("skills", defaults.Skills, "Skill names or glob patterns to install")
	cmd.Flags().Bool("all", defaults.AllSkills, "Install every skill in the repository")
	cmd.Flags().String("target", defaults.Target, "Install under this root instead of each CLI's default location")
	cmd.Flags().Bool("keep-clone", defaults.KeepClone, "Keep the temporary clone of a remote repository")
	cmd.Flags().Bool("clean", defaults.Clean, "Remove each destination before installing")
	cmd.MarkFlagRequired("repo")
	cmd.MarkFlagsMutuallyExclusive("cli", "detect", "all-clis")
	cmd.MarkFlagsMutuallyExclusive("skills", "all")
}

func getInstallConfigFromFlags(cmd *cobra.Command) *InstallConfig {
	config := NewInstallConfig()
	if repo, err := cmd.Flags().GetString("repo"); err == nil {
		config.Repo = repo
	}
	if subDir, err := cmd.Flags().GetString("sub-dir"); err == nil {
		config.SubDir = subDir
	}
	if ref, err := cmd.Flags().GetString("ref"); err == nil {
		config.Ref = ref
	}
	if clis, err := cmd.Flags().GetStringSlice("cli"); err == nil {
		config.CLIs = clis
	}
	if detect, err := cmd.Flags().GetBool("detect"); err == nil {
		config.Detect = detect
	}
	if allCLIs, err := cmd.Flags().GetBool("all-clis"); err == nil {
		config.AllCLIs = allCLIs
	}
	if skills, err := cmd.Flags().GetStringSlice("skills"); err == nil {
		config.Skills = skills
	}
	if all, err := cmd.Flags().GetBool("all"); err == nil {
		config.AllSkills = all
	}
	if target, err := cmd.Flags().GetString("target"); err == nil {
		config.Target = target
	}
	if keepClone, err := cmd.Flags().GetBool("keep-clone"); err == nil {
		config.KeepClone = keepClone
	}
	if clean, err := cmd.Flags().GetBool("clean"); err == nil {
		config.Clean = clean
	}
	return config
}

// newRunner builds a pipeline runner from the loaded configuration.
func newRunner(clean bool) (*pipeline.Runner, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	env, err := adapters.DefaultEnv()
	if err != nil {
		return nil, err
	}
	env.Overrides = cfg.InstallOverrides()

	inst, err := installer.NewInstaller(
		installer.WithClean(clean),
		installer.WithIgnore(cfg.Ignore...),
	)
	if err != nil {
		return nil, err
	}

	return pipeline.NewRunner(
		pipeline.WithEnv(env),
		pipeline.WithInstaller(inst),
		pipeline.WithSourceOptions(
			source.WithTimeout(cfg.Clone.Timeout),
			source.WithAttempts(cfg.Clone.Attempts),
			source.WithDepth(*cfg.Clone.Depth),
		),
	)
}

func runInstall(ctx context.Context, installConfig *InstallConfig) (*pipeline.Report, error) {
	runner, err := newRunner(installConfig.Clean)
	if err != nil {
		return nil, err
	}

	req := installConfig.request()
	// unset flags fall back to the config file and environment
	if req.Target == "" {
		req.Target = viper.GetString("target")
	}
	if !req.KeepClone {
		req.KeepClone = viper.GetBool("keep_clone")
	}

	return runner.Run(ctx, req)
}

func (c *InstallConfig) request() pipeline.Request {
	return pipeline.Request{
		Repo:       c.Repo,
		SubDir:     c.SubDir,
		Ref:        c.Ref,
		KeepClone:  c.KeepClone,
		CLIs:       c.CLIs,
		DetectCLIs: c.Detect,
		AllCLIs:    c.AllCLIs,
		Skills:     c.Skills,
		AllSkills:  c.AllSkills,
		Target:     c.Target,
	}
}

func printReport(report *pipeline.Report) {
	presenter.Section("Installation summary")
	presenter.Table(reportTable(report))

	failed := report.Failed()
	if len(failed) > 0 {
		presenter.Separator()
	}
	for _, res := range failed {
		presenter.Error(res.Err, fmt.Sprintf("%s for %s", res.Skill.Name, res.Adapter.DisplayName()))
	}

	succeeded := len(report.Succeeded())
	total := len(report.Plan.Steps)
	switch {
	case report.OK():
		presenter.Success(fmt.Sprintf("Installed %d of %d", succeeded, total))
	case succeeded > 0:
		presenter.Warning(fmt.Sprintf("Installed %d of %d; some installations failed", succeeded, total))
	default:
		presenter.Warning("No skills were installed")
	}

	if report.Repository != nil && report.Repository.Kept() {
		presenter.Info(fmt.Sprintf("Cloned repository kept at: %s", report.Repository.Root))
	}
}

func reportTable(report *pipeline.Report) ([]string, [][]string) {
	rows := make([][]string, 0, len(report.Results))
	for _, res := range report.Results {
		status := "ok"
		if !res.OK() {
			status = "failed"
		}
		files := ""
		if res.Install != nil {
			files = fmt.Sprintf("%d", len(res.Install.Written))
		}
		rows = append(rows, []string{res.Skill.Name, res.Adapter.Name(), status, files, res.Destination})
	}
	return []string{"SKILL", "CLI", "STATUS", "FILES", "DESTINATION"}, rows
}
