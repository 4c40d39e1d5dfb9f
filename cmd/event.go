package cmd

import (
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   eventCmdStr,
	Short: "Manage scheduled cron events",
}

func init() {
	rootCmd.AddCommand(eventCmd)
}
