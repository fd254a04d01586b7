package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/modlevel/pkg/core/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Shows version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), version.Get("modlevel"))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
