package cmd

import (
	"github.com/spf13/cobra"
)

var scheduleCmd = &cobra.Command{
	Use:   scheduleCmdStr,
	Short: "Manage recurrence schedules",
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
}
