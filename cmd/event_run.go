package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/mieubrisse/stacktrace"
	"github.com/spf13/cobra"

	"github.com/odyssey/cronctl/internal/config"
	"github.com/odyssey/cronctl/internal/database"
)

var (
	eventRunDueNowFlag bool
	eventRunAllFlag    bool
)

var eventRunCmd = &cobra.Command{
	Use:   runCmdStr + " [hook]...",
	Short: "Run cron events immediately in the foreground",
	Long: `Run cron events' hook commands immediately, in the foreground, with their
output on this terminal.

Select events by hook name, or use --due-now for everything currently due,
or --all for every scheduled event. After each run, a recurring event is
advanced to its next occurrence and a one-off event is removed, exactly as
if the dispatcher had fired it.

Example:
  cronctl event run nightly-backup
  cronctl event run --due-now
`,
	RunE: runEventRun,
}

func init() {
	eventRunCmd.Flags().BoolVar(&eventRunDueNowFlag, dueNowFlagName, false, "run every event that is currently due")
	eventRunCmd.Flags().BoolVar(&eventRunAllFlag, allFlagName, false, "run every scheduled event")
	eventCmd.AddCommand(eventRunCmd)
}

func runEventRun(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !eventRunDueNowFlag && !eventRunAllFlag {
		return stacktrace.NewError("specify one or more hooks, or use --%s or --%s",
			dueNowFlagName, allFlagName)
	}
	if len(args) > 0 && (eventRunDueNowFlag || eventRunAllFlag) {
		return stacktrace.NewError("hook names cannot be combined with --%s or --%s",
			dueNowFlagName, allFlagName)
	}

	cfg, err := readConfig()
	if err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	var events []*database.Event
	switch {
	case eventRunAllFlag:
		events, err = db.ListEvents()
	case eventRunDueNowFlag:
		events, err = db.DueEvents(time.Now())
	default:
		for _, hook := range args {
			hookEvents, hookErr := db.GetEventsByHook(hook)
			if hookErr != nil {
				return hookErr
			}
			if len(hookEvents) == 0 {
				return stacktrace.NewError("no events scheduled for hook '%s'", hook)
			}
			events = append(events, hookEvents...)
		}
	}
	if err != nil {
		return err
	}

	if len(events) == 0 {
		fmt.Println("No matching events.")
		return nil
	}

	failures := 0
	for _, event := range events {
		if err := runEventForeground(cfg, db, event); err != nil {
			failures++
		}
	}

	fmt.Printf("Executed %d of %d events successfully.\n", len(events)-failures, len(events))
	if failures > 0 {
		return stacktrace.NewError("%d events failed", failures)
	}
	return nil
}

// runEventForeground executes one event's hook command with output on this
// terminal, then advances a recurring event or removes a one-off.
func runEventForeground(cfg *config.CronctlConfig, db *database.DB, event *database.Event) error {
	hookCfg, ok := cfg.Hooks[event.Hook]
	if !ok {
		fmt.Printf("Event %s skipped: no hook named '%s' is configured in %s\n",
			event.ShortID, event.Hook, config.GetConfigFilepath(cronctlDirpath))
		return stacktrace.NewError("no hook named '%s' is configured", event.Hook)
	}

	runCtx, cancel := context.WithTimeout(context.Background(), hookCfg.GetTimeout())
	defer cancel()

	execCmd := exec.CommandContext(runCtx, "/bin/sh", "-c", hookCfg.Command)
	execCmd.Stdout = os.Stdout
	execCmd.Stderr = os.Stderr
	execCmd.Env = append(os.Environ(),
		"CRONCTL_HOOK="+event.Hook,
		"CRONCTL_EVENT_ID="+event.ID,
	)
	for key, value := range event.Args {
		execCmd.Env = append(execCmd.Env, "CRONCTL_ARG_"+key+"="+value)
	}

	fmt.Printf("Running event %s (hook '%s')...\n", event.ShortID, event.Hook)

	start := time.Now()
	runErr := execCmd.Run()
	elapsed := time.Since(start).Round(time.Second)

	if runErr != nil {
		fmt.Printf("Event %s failed after %v: %v\n", event.ShortID, elapsed, runErr)
	} else {
		fmt.Printf("Event %s completed in %v\n", event.ShortID, elapsed)
	}

	if event.IsRecurring() {
		if err := db.RescheduleEvent(event, time.Now()); err != nil {
			return stacktrace.Propagate(err, "hook ran but the event could not be rescheduled")
		}
		fmt.Printf("Next run: %s\n", event.NextRunAt.Local().Format("2006-01-02 15:04:05"))
	} else {
		if _, err := db.DeleteEvent(event.ID); err != nil {
			return stacktrace.Propagate(err, "hook ran but the one-off event could not be removed")
		}
	}

	return runErr
}
