package cmd

import (
	"fmt"
	"time"

	"github.com/mieubrisse/stacktrace"
	"github.com/spf13/cobra"

	"github.com/odyssey/cronctl/internal/config"
	"github.com/odyssey/cronctl/internal/interval"
	"github.com/odyssey/cronctl/internal/server"
)

var daemonStatusCmd = &cobra.Command{
	Use:   statusCmdStr,
	Short: "Show dispatcher status and event queue stats",
	RunE:  runDaemonStatus,
}

func init() {
	daemonCmd.AddCommand(daemonStatusCmd)
}

func runDaemonStatus(cmd *cobra.Command, args []string) error {
	pidFilepath := config.GetDispatcherPIDFilepath(cronctlDirpath)
	logFilepath := config.GetDispatcherLogFilepath(cronctlDirpath)

	pid, err := server.ReadPID(pidFilepath)
	if err != nil {
		return stacktrace.Propagate(err, "failed to read dispatcher PID")
	}

	if pid > 0 && server.IsProcessRunning(pid) {
		fmt.Printf("Dispatcher: %s (PID %d)\n", colorize(ansiGreen, "running"), pid)

		client := server.NewClient(config.GetDispatcherSocketFilepath(cronctlDirpath))
		if health, err := client.Health(); err == nil {
			fmt.Printf("Version:    %s\n", health.Version)
			fmt.Printf("Uptime:     %s\n", interval.Format(health.UptimeSeconds))
		}
	} else {
		fmt.Printf("Dispatcher: %s\n", colorize(ansiYellow, "stopped"))
	}

	fmt.Printf("Log file:   %s\n", logFilepath)

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	events, err := db.ListEvents()
	if err != nil {
		return stacktrace.Propagate(err, "failed to list events")
	}

	fmt.Printf("Events:     %d scheduled\n", len(events))
	if len(events) > 0 {
		next := events[0]
		fmt.Printf("Next run:   %s (%s) for hook '%s'\n",
			next.NextRunAt.Local().Format("2006-01-02 15:04:05"),
			interval.Format(int64(time.Until(next.NextRunAt)/time.Second)),
			next.Hook)
	}

	return nil
}
