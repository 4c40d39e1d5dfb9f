package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var daemonRestartCmd = &cobra.Command{
	Use:   restartCmdStr,
	Short: "Restart the dispatcher daemon",
	RunE:  runDaemonRestart,
}

func init() {
	daemonCmd.AddCommand(daemonRestartCmd)
}

func runDaemonRestart(cmd *cobra.Command, args []string) error {
	if err := runDaemonStop(cmd, args); err != nil {
		fmt.Println("Dispatcher was not running; starting fresh.")
	}
	return runDaemonStart(cmd, args)
}
