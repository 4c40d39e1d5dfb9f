package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"

	"github.com/odyssey/cronctl/internal/config"
	"github.com/odyssey/cronctl/internal/server"
	"github.com/odyssey/cronctl/internal/version"
)

// checkDispatcherVersion compares the running dispatcher's version against
// the CLI version. If the CLI is newer by semver, it gracefully restarts the
// dispatcher. If versions differ but can't be compared by semver, it prints a
// warning. All errors are silently ignored so this check never blocks CLI
// commands.
func checkDispatcherVersion(cronctlDirpath string) {
	pidFilepath := config.GetDispatcherPIDFilepath(cronctlDirpath)

	pid, err := server.ReadPID(pidFilepath)
	if err != nil || pid == 0 || !server.IsProcessRunning(pid) {
		return
	}

	versionFilepath := config.GetDispatcherVersionFilepath(cronctlDirpath)
	raw, err := os.ReadFile(versionFilepath)
	if err != nil {
		return
	}
	dispatcherVersion := strings.TrimSpace(string(raw))

	cliVersion := version.Version
	if dispatcherVersion == cliVersion {
		return
	}

	if semver.IsValid(cliVersion) && semver.IsValid(dispatcherVersion) {
		if semver.Compare(cliVersion, dispatcherVersion) > 0 {
			restartDispatcher(cronctlDirpath, dispatcherVersion, cliVersion)
		}
		return
	}

	fmt.Fprintf(os.Stderr, "Warning: dispatcher version (%s) does not match CLI version (%s). "+
		"Run '%s %s %s' to restart the dispatcher.\n",
		dispatcherVersion, cliVersion, cronctlCmdStr, daemonCmdStr, restartCmdStr)
}

// restartDispatcher stops the running dispatcher and starts a new one,
// printing a notice to stderr.
func restartDispatcher(cronctlDirpath string, oldVersion string, newVersion string) {
	pidFilepath := config.GetDispatcherPIDFilepath(cronctlDirpath)
	logFilepath := config.GetDispatcherLogFilepath(cronctlDirpath)

	if err := server.StopDispatcher(pidFilepath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to stop dispatcher for upgrade: %v\n", err)
		return
	}

	if err := server.ForkDispatcher(logFilepath, pidFilepath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to start dispatcher after upgrade: %v\n", err)
		return
	}

	fmt.Fprintf(os.Stderr, "Dispatcher restarted: %s -> %s\n", oldVersion, newVersion)
}

// isUnderDaemonCmd returns true if cmd is the daemon command or any of its
// subcommands.
func isUnderDaemonCmd(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c == daemonCmd {
			return true
		}
	}
	return false
}
