package cmd

import (
	"fmt"

	"github.com/mieubrisse/stacktrace"
	"github.com/spf13/cobra"

	"github.com/odyssey/cronctl/internal/config"
	"github.com/odyssey/cronctl/internal/interval"
	"github.com/odyssey/cronctl/internal/server"
)

var testCmd = &cobra.Command{
	Use:   testCmdStr,
	Short: "Check that the dispatcher is running and can fire events",
	Long: `Check that the dispatcher daemon is reachable and able to fire events.

The check connects to the dispatcher's socket and asks it to evaluate the
event queue without firing anything, proving the full dispatch path works.
`,
	RunE: runTest,
}

func init() {
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	pidFilepath := config.GetDispatcherPIDFilepath(cronctlDirpath)
	if !server.IsRunning(pidFilepath) {
		return stacktrace.NewError("dispatcher is not running; start it with '%s %s %s'",
			cronctlCmdStr, daemonCmdStr, startCmdStr)
	}

	client := server.NewClient(config.GetDispatcherSocketFilepath(cronctlDirpath))

	health, err := client.Health()
	if err != nil {
		return stacktrace.Propagate(err, "dispatcher process is alive but not responding on its socket")
	}

	result, err := client.Spawn(true)
	if err != nil {
		return stacktrace.Propagate(err, "dispatcher responded but could not evaluate the event queue")
	}

	fmt.Printf("%s dispatcher %s is up (running for %s)\n",
		colorize(ansiGreen, "Success:"), health.Version, interval.Format(health.UptimeSeconds))
	fmt.Printf("%d %s currently due\n",
		result.Due, interval.Pluralize(int64(result.Due), "event", "events"))

	return nil
}
