package cmd

import (
	"fmt"

	"github.com/mieubrisse/stacktrace"
	"github.com/spf13/cobra"

	"github.com/odyssey/cronctl/internal/config"
	"github.com/odyssey/cronctl/internal/interval"
	"github.com/odyssey/cronctl/internal/schedule"
)

var (
	scheduleAddIntervalFlag string
	scheduleAddDisplayFlag  string
)

var scheduleAddCmd = &cobra.Command{
	Use:   addCmdStr + " <name>",
	Short: "Add a custom recurrence schedule to config",
	Long: `Add a custom recurrence schedule to config.yml.

The interval accepts a Go duration ("4h", "90m") or a bare second count.

Example:
  cronctl schedule add every4h --interval 4h --display "Every 4 Hours"
`,
	Args: cobra.ExactArgs(1),
	RunE: runScheduleAdd,
}

func init() {
	scheduleAddCmd.Flags().StringVar(&scheduleAddIntervalFlag, intervalFlagName, "", "recurrence interval (required)")
	scheduleAddCmd.Flags().StringVar(&scheduleAddDisplayFlag, displayFlagName, "", "human-readable display name")
	scheduleAddCmd.MarkFlagRequired(intervalFlagName)
	scheduleCmd.AddCommand(scheduleAddCmd)
}

func runScheduleAdd(cmd *cobra.Command, args []string) error {
	name := args[0]
	if err := config.ValidateName(name); err != nil {
		return stacktrace.Propagate(err, "invalid schedule name")
	}

	cfg, cm, err := readConfigWithComments()
	if err != nil {
		return err
	}

	if _, exists := cfg.Schedules[name]; exists {
		return stacktrace.NewError("schedule '%s' already exists", name)
	}
	if _, builtin := schedule.Builtin(name); builtin {
		return stacktrace.NewError("'%s' is a built-in schedule and cannot be redefined", name)
	}

	schedCfg := config.ScheduleConfig{
		Interval: scheduleAddIntervalFlag,
		Display:  scheduleAddDisplayFlag,
	}
	seconds, err := schedCfg.IntervalSeconds()
	if err != nil {
		return err
	}

	if cfg.Schedules == nil {
		cfg.Schedules = make(map[string]config.ScheduleConfig)
	}
	cfg.Schedules[name] = schedCfg

	if err := config.WriteCronctlConfig(cronctlDirpath, cfg, cm); err != nil {
		return stacktrace.Propagate(err, "failed to write config")
	}

	fmt.Printf("Added schedule '%s' (every %s)\n", name, interval.Format(seconds))
	return nil
}
