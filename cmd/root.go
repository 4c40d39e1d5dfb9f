package cmd

import (
	"github.com/mieubrisse/stacktrace"
	"github.com/spf13/cobra"

	"github.com/odyssey/cronctl/internal/config"
)

var cronctlDirpath string

var rootCmd = &cobra.Command{
	Use:   cronctlCmdStr,
	Short: "cronctl — schedule and dispatch cron events",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dirpath, err := config.GetCronctlDirpath()
		if err != nil {
			return stacktrace.Propagate(err, "failed to get cronctl directory path")
		}
		cronctlDirpath = dirpath

		if err := config.EnsureDirStructure(cronctlDirpath); err != nil {
			return stacktrace.Propagate(err, "failed to ensure directory structure")
		}

		if !isUnderDaemonCmd(cmd) {
			checkDispatcherVersion(cronctlDirpath)
		}

		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// GetRootCmd exposes the root command for documentation generation.
func GetRootCmd() *cobra.Command {
	return rootCmd
}
