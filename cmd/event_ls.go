package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/odyssey/cronctl/internal/database"
	"github.com/odyssey/cronctl/internal/output"
)

var (
	eventLsFormatFlag string
	eventLsHookFlag   string
	eventLsDueNowFlag bool
)

var eventLsCmd = &cobra.Command{
	Use:   lsCmdStr,
	Short: "List scheduled cron events",
	RunE:  runEventLs,
}

func init() {
	eventLsCmd.Flags().StringVar(&eventLsFormatFlag, formatFlagName, "", "output format: table, json, csv, or ids")
	eventLsCmd.Flags().StringVar(&eventLsHookFlag, hookFlagName, "", "only list events for this hook")
	eventLsCmd.Flags().BoolVar(&eventLsDueNowFlag, dueNowFlagName, false, "only list events that are currently due")
	eventCmd.AddCommand(eventLsCmd)
}

func runEventLs(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(eventLsFormatFlag)
	if err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	now := time.Now()

	var events []*database.Event
	switch {
	case eventLsDueNowFlag:
		events, err = db.DueEvents(now)
	case eventLsHookFlag != "":
		events, err = db.GetEventsByHook(eventLsHookFlag)
	default:
		events, err = db.ListEvents()
	}
	if err != nil {
		return err
	}

	return output.RenderEvents(os.Stdout, format, output.ToEventRows(events, now))
}
