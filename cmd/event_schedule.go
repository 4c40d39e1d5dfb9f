package cmd

import (
	"fmt"
	"time"

	"github.com/mieubrisse/stacktrace"
	"github.com/spf13/cobra"

	"github.com/odyssey/cronctl/internal/config"
	"github.com/odyssey/cronctl/internal/database"
	"github.com/odyssey/cronctl/internal/interval"
	"github.com/odyssey/cronctl/internal/timeparse"
)

// duplicateWindow is how close together two events with the same hook and
// args may be scheduled before the second is rejected as a duplicate.
const duplicateWindow = 10 * time.Minute

var (
	eventScheduleScheduleFlag string
	eventScheduleArgFlags     []string
)

var eventScheduleCmd = &cobra.Command{
	Use:   scheduleCmdStr + " <hook> [next-run]",
	Short: "Schedule a new cron event",
	Long: `Schedule a new cron event for a hook.

Without --schedule the event fires once and is removed. With --schedule it
recurs at the schedule's interval. The first run defaults to now; next-run
accepts 'now', a relative offset like '+30m' or '2d', a unix timestamp,
RFC3339, or 'YYYY-MM-DD HH:MM'.

Example:
  cronctl event schedule nightly-backup +2h --schedule daily
  cronctl event schedule ping-site "2026-09-01 03:00" --arg host=example.com
`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runEventSchedule,
}

func init() {
	eventScheduleCmd.Flags().StringVar(&eventScheduleScheduleFlag, scheduleFlagName, "", "recurrence schedule name (omit for a one-off event)")
	eventScheduleCmd.Flags().StringArrayVar(&eventScheduleArgFlags, argFlagName, nil, "hook argument as key=value (repeatable)")
	eventCmd.AddCommand(eventScheduleCmd)
}

func runEventSchedule(cmd *cobra.Command, args []string) error {
	hook := args[0]
	if err := config.ValidateName(hook); err != nil {
		return stacktrace.Propagate(err, "invalid hook name")
	}

	eventArgs, err := parseArgPairs(eventScheduleArgFlags)
	if err != nil {
		return err
	}

	now := time.Now()
	nextRunInput := ""
	if len(args) > 1 {
		nextRunInput = args[1]
	}
	nextRun, err := timeparse.Parse(nextRunInput, now)
	if err != nil {
		return err
	}

	var intervalSeconds int64
	if eventScheduleScheduleFlag != "" {
		registry, err := buildRegistry()
		if err != nil {
			return err
		}
		sched, ok := registry.Get(eventScheduleScheduleFlag)
		if !ok {
			return stacktrace.NewError("unknown schedule '%s'; run '%s %s %s' to see available schedules",
				eventScheduleScheduleFlag, cronctlCmdStr, scheduleCmdStr, lsCmdStr)
		}
		intervalSeconds = sched.IntervalSeconds
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	dup, err := db.FindDuplicateEvent(hook, eventArgs, nextRun, duplicateWindow)
	if err != nil {
		return err
	}
	if dup != nil {
		return stacktrace.NewError("an event for hook '%s' with the same arguments is already scheduled within %v (id %s)",
			hook, duplicateWindow, dup.ShortID)
	}

	event, err := db.CreateEvent(database.CreateEventParams{
		Hook:            hook,
		Args:            eventArgs,
		Schedule:        eventScheduleScheduleFlag,
		IntervalSeconds: intervalSeconds,
		NextRunAt:       nextRun,
	})
	if err != nil {
		return stacktrace.Propagate(err, "failed to create event")
	}

	relative := interval.Format(int64(time.Until(event.NextRunAt) / time.Second))
	if event.IsRecurring() {
		fmt.Printf("Scheduled event %s for hook '%s': first run %s (%s), then every %s\n",
			event.ShortID, event.Hook, event.NextRunAt.Local().Format("2006-01-02 15:04:05"),
			relative, interval.Format(event.IntervalSeconds))
	} else {
		fmt.Printf("Scheduled one-off event %s for hook '%s': runs %s (%s)\n",
			event.ShortID, event.Hook, event.NextRunAt.Local().Format("2006-01-02 15:04:05"), relative)
	}

	return nil
}
