package main

import (
	"context"
	"fmt"

	"github.com/jingkaihe/skillxfer/pkg/pipeline"
	"github.com/jingkaihe/skillxfer/pkg/presenter"
	"github.com/spf13/cobra"
)

const maxListDescription = 72

type ListConfig struct {
	Repo   string
	SubDir string
	Ref    string
}

func NewListConfig() *ListConfig {
	return &ListConfig{}
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the skills in a repository",
	Long: `List the skills found in a repository with their layout and description.

Examples:
  skillxfer list --repo https://github.com/user/claude-skills
  skillxfer list --repo /path/to/repo --sub-dir parent-dir/skills`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		listConfig := getListConfigFromFlags(cmd)

		ctx, cancel := commandContext()
		defer cancel()

		report, err := runList(ctx, listConfig)
		if err != nil {
			return err
		}

		presenter.Table(skillsTable(report))
		return nil
	},
}

func init() {
	addListFlags(listCmd)
}

func addListFlags(cmd *cobra.Command) {
	defaults := NewListConfig()
	cmd.Flags().String("repo", defaults.Repo, "Git repository URL or local path")
	cmd.Flags().String("sub-dir", defaults.SubDir, "Path to the skills root inside the repository")
	cmd.Flags().String("ref", defaults.Ref, "Branch or tag to clone")
	cmd.MarkFlagRequired("repo")
}

func getListConfigFromFlags(cmd *cobra.Command) *ListConfig {
	config := NewListConfig()
	if repo, err := cmd.Flags().GetString("repo"); err == nil {
		config.Repo = repo
	}
	if subDir, err := cmd.Flags().GetString("sub-dir"); err == nil {
		config.SubDir = subDir
	}
	if ref, err := cmd.Flags().GetString("ref"); err == nil {
		config.Ref = ref
	}
	return config
}

func runList(ctx context.Context, listConfig *ListConfig) (*pipeline.Report, error) {
	runner, err := newRunner(false)
	if err != nil {
		return nil, err
	}
	return runner.Run(ctx, pipeline.Request{
		Repo:     listConfig.Repo,
		SubDir:   listConfig.SubDir,
		Ref:      listConfig.Ref,
		ListOnly: true,
	})
}

func skillsTable(report *pipeline.Report) ([]string, [][]string) {
	rows := make([][]string, 0, len(report.Skills))
	for _, s := range report.Skills {
		rows = append(rows, []string{s.Source.Name, string(s.Source.Layout), truncate(s.Metadata.Description, maxListDescription)})
	}
	return []string{"SKILL", "LAYOUT", "DESCRIPTION"}, rows
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return fmt.Sprintf("%s...", string(runes[:n-3]))
}
