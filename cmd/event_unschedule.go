package cmd

import (
	"fmt"

	"github.com/mieubrisse/stacktrace"
	"github.com/spf13/cobra"

	"github.com/odyssey/cronctl/internal/config"
	"github.com/odyssey/cronctl/internal/database"
	"github.com/odyssey/cronctl/internal/server"
)

var eventUnscheduleCmd = &cobra.Command{
	Use:   unscheduleCmdStr + " <event-id>",
	Short: "Remove one specific cron event by ID",
	Args:  cobra.ExactArgs(1),
	RunE:  runEventUnschedule,
}

func init() {
	eventCmd.AddCommand(eventUnscheduleCmd)
}

func runEventUnschedule(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	event, err := resolveEventArg(db, args[0])
	if err != nil {
		return err
	}

	if err := removeEvent(db, event); err != nil {
		return stacktrace.Propagate(err, "failed to remove event '%s'", event.ShortID)
	}

	fmt.Printf("Removed event %s for hook '%s'\n", event.ShortID, event.Hook)
	return nil
}

// removeEvent deletes the event through the running dispatcher so the removal
// lands in its log, falling back to the store directly when no dispatcher is
// up.
func removeEvent(db *database.DB, event *database.Event) error {
	if server.IsRunning(config.GetDispatcherPIDFilepath(cronctlDirpath)) {
		client := server.NewClient(config.GetDispatcherSocketFilepath(cronctlDirpath))
		if err := client.DeleteEvent(event.ID); err == nil {
			return nil
		}
	}

	_, err := db.DeleteEvent(event.ID)
	return err
}
