package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/odyssey/cronctl/internal/config"
	"github.com/odyssey/cronctl/internal/output"
	"github.com/odyssey/cronctl/internal/schedule"
	"github.com/odyssey/cronctl/internal/server"
)

var scheduleLsFormatFlag string

var scheduleLsCmd = &cobra.Command{
	Use:   lsCmdStr,
	Short: "List available recurrence schedules",
	RunE:  runScheduleLs,
}

func init() {
	scheduleLsCmd.Flags().StringVar(&scheduleLsFormatFlag, formatFlagName, "", "output format: table, json, csv, or ids")
	scheduleCmd.AddCommand(scheduleLsCmd)
}

func runScheduleLs(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(scheduleLsFormatFlag)
	if err != nil {
		return err
	}

	schedules, err := listSchedules()
	if err != nil {
		return err
	}

	return output.RenderSchedules(os.Stdout, format, output.ToScheduleRows(schedules))
}

// listSchedules prefers the running dispatcher's registry, since that is the
// set due events actually resolve against; with no dispatcher up it falls
// back to building the registry from config directly.
func listSchedules() ([]schedule.Schedule, error) {
	if server.IsRunning(config.GetDispatcherPIDFilepath(cronctlDirpath)) {
		client := server.NewClient(config.GetDispatcherSocketFilepath(cronctlDirpath))
		if schedules, err := client.ListSchedules(); err == nil {
			return schedules, nil
		}
	}

	registry, err := buildRegistry()
	if err != nil {
		return nil, err
	}
	return registry.Ordered(), nil
}
