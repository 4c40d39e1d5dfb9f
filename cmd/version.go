package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odyssey/cronctl/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   versionCmdStr,
	Short: "Print the cronctl version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s version %s\n", cronctlCmdStr, version.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
