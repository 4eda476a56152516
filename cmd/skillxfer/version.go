package main

import (
	"fmt"
	"os"

	"github.com/jingkaihe/skillxfer/pkg/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Long:  `Print the version information of skillxfer in JSON format, or on one line with --text.`,
	Run: func(cmd *cobra.Command, _ []string) {
		info := version.Get()
		if text, _ := cmd.Flags().GetBool("text"); text {
			fmt.Println(info.String())
			return
		}
		json, err := info.JSON()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting version info: %s\n", err)
			os.Exit(1)
		}
		fmt.Println(json)
	},
}

func init() {
	versionCmd.Flags().Bool("text", false, "Print a single line instead of JSON")
}
