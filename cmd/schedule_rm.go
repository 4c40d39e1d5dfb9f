package cmd

import (
	"fmt"

	"github.com/mieubrisse/stacktrace"
	"github.com/spf13/cobra"

	"github.com/odyssey/cronctl/internal/config"
)

var scheduleRmCmd = &cobra.Command{
	Use:   rmCmdStr + " <name>",
	Short: "Remove a custom recurrence schedule from config",
	Args:  cobra.ExactArgs(1),
	RunE:  runScheduleRm,
}

func init() {
	scheduleCmd.AddCommand(scheduleRmCmd)
}

func runScheduleRm(cmd *cobra.Command, args []string) error {
	name := args[0]

	cfg, cm, err := readConfigWithComments()
	if err != nil {
		return err
	}

	if _, exists := cfg.Schedules[name]; !exists {
		return stacktrace.NewError("no custom schedule named '%s'; built-in schedules cannot be removed", name)
	}

	delete(cfg.Schedules, name)

	if err := config.WriteCronctlConfig(cronctlDirpath, cfg, cm); err != nil {
		return stacktrace.Propagate(err, "failed to write config")
	}

	fmt.Printf("Removed schedule '%s'\n", name)
	return nil
}
