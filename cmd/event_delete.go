package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/mieubrisse/stacktrace"
	"github.com/spf13/cobra"

	"github.com/odyssey/cronctl/internal/interval"
)

var eventDeleteYesFlag bool

var eventDeleteCmd = &cobra.Command{
	Use:   deleteCmdStr + " <hook>",
	Short: "Delete all cron events for a hook",
	Args:  cobra.ExactArgs(1),
	RunE:  runEventDelete,
}

func init() {
	eventDeleteCmd.Flags().BoolVarP(&eventDeleteYesFlag, yesFlagName, "y", false, "skip the confirmation prompt")
	eventCmd.AddCommand(eventDeleteCmd)
}

func runEventDelete(cmd *cobra.Command, args []string) error {
	hook := args[0]

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	events, err := db.GetEventsByHook(hook)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Printf("No events scheduled for hook '%s'.\n", hook)
		return nil
	}

	if !eventDeleteYesFlag && isatty.IsTerminal(os.Stdin.Fd()) {
		fmt.Printf("Delete %d %s for hook '%s'? [y/N] ",
			len(events), interval.Pluralize(int64(len(events)), "event", "events"), hook)

		input, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return stacktrace.Propagate(err, "failed to read input")
		}
		answer := strings.ToLower(strings.TrimSpace(input))
		if answer != "y" && answer != "yes" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	deleted, err := db.DeleteEventsByHook(hook)
	if err != nil {
		return stacktrace.Propagate(err, "failed to delete events for hook '%s'", hook)
	}

	fmt.Printf("Deleted %d %s for hook '%s'\n",
		deleted, interval.Pluralize(deleted, "event", "events"), hook)
	return nil
}
