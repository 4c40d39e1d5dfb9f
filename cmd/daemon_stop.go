package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odyssey/cronctl/internal/config"
	"github.com/odyssey/cronctl/internal/server"
)

var daemonStopCmd = &cobra.Command{
	Use:   stopCmdStr,
	Short: "Stop the dispatcher daemon",
	RunE:  runDaemonStop,
}

func init() {
	daemonCmd.AddCommand(daemonStopCmd)
}

func runDaemonStop(cmd *cobra.Command, args []string) error {
	pidFilepath := config.GetDispatcherPIDFilepath(cronctlDirpath)

	pid, err := server.ReadPID(pidFilepath)
	if err != nil {
		return err
	}

	if pid == 0 || !server.IsProcessRunning(pid) {
		fmt.Println("Dispatcher is not running.")
		return nil
	}

	if err := server.StopDispatcher(pidFilepath); err != nil {
		return err
	}

	fmt.Println("Dispatcher stopped.")
	return nil
}
