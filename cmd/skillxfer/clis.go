package main

import (
	"github.com/jingkaihe/skillxfer/pkg/adapters"
	"github.com/jingkaihe/skillxfer/pkg/config"
	"github.com/jingkaihe/skillxfer/pkg/presenter"
	"github.com/spf13/cobra"
)

var clisCmd = &cobra.Command{
	Use:   "clis",
	Short: "List supported target CLIs",
	Long:  `List every supported target CLI with its install root and whether it appears to be installed on this machine.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		env, err := adapters.DefaultEnv()
		if err != nil {
			return err
		}
		env.Overrides = cfg.InstallOverrides()

		presenter.Table(clisTable(env))
		return nil
	},
}

func clisTable(env adapters.Env) ([]string, [][]string) {
	var rows [][]string
	for _, a := range adapters.All() {
		detected := "no"
		if a.Detect(env) {
			detected = "yes"
		}
		rows = append(rows, []string{a.Name(), a.DisplayName(), adapters.InstallRoot(a, env), detected})
	}
	return []string{"NAME", "CLI", "INSTALL ROOT", "DETECTED"}, rows
}
