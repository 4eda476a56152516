package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/jingkaihe/skillxfer/pkg/config"
	"github.com/jingkaihe/skillxfer/pkg/logger"
	"github.com/jingkaihe/skillxfer/pkg/presenter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "skillxfer",
	Short: "Convert Claude Code skills for other agentic coding CLIs",
	Long: `skillxfer converts skills written for Claude Code (a SKILL.md manifest plus
scripts, templates and references) into the layouts used by OpenCode, Codex CLI,
Gemini CLI, Droid, Cursor and Antigravity.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		configFile, _ := cmd.Flags().GetString("config")
		if err := config.Init(configFile); err != nil {
			return err
		}
		return setupOutput(cmd)
	},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

// commandContext is cancelled on SIGINT or SIGTERM so deferred cleanup,
// such as removing a temporary clone, still runs.
func commandContext() (context.Context, context.CancelFunc) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	ctx = logger.WithFields(ctx, logrus.Fields{"run_id": uuid.New().String()})
	return ctx, cancel
}

// setupOutput applies the quiet and logging settings. Quiet mode also
// raises the log level to error unless --log-level is given.
func setupOutput(cmd *cobra.Command) error {
	presenter.SetQuiet(viper.GetBool("quiet"))
	logger.SetLogOutput(cmd.ErrOrStderr())

	level := viper.GetString("log_level")
	if presenter.IsQuiet() && !cmd.Flags().Changed("log-level") {
		level = "error"
	}
	return logger.Configure(level, viper.GetString("log_format"))
}

// normalizeFlagName accepts config-style spellings such as --keep_clone.
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

func init() {
	rootCmd.SetGlobalNormalizationFunc(normalizeFlagName)
	rootCmd.PersistentFlags().String("config", "", "Path to a config file (default $HOME/.skillxfer/config.yaml or ./config.yaml)")
	rootCmd.PersistentFlags().String("log-level", config.DefaultLogLevel, "Log level (panic, fatal, error, warn, info, debug, trace)")
	rootCmd.PersistentFlags().String("log-format", config.DefaultLogFormat, "Log format (fmt or json)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Only print tables and errors")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))

	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(clisCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		presenter.Error(err, "")
		os.Exit(1)
	}
}
