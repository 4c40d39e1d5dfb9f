package cmd

// Centralized command name strings for all CLI commands and subcommands.
// Use these constants in Cobra Use fields and user-facing messages (error
// text, help text, remediation suggestions) so that command names are
// defined in exactly one place.

const (
	// Root command
	cronctlCmdStr = "cronctl"

	// Top-level commands
	eventCmdStr    = "event"
	scheduleCmdStr = "schedule"
	testCmdStr     = "test"
	daemonCmdStr   = "daemon"
	versionCmdStr  = "version"

	// Subcommands shared across multiple parent commands
	lsCmdStr  = "ls"
	addCmdStr = "add"
	rmCmdStr  = "rm"

	// Event subcommands
	runCmdStr        = "run"
	deleteCmdStr     = "delete"
	unscheduleCmdStr = "unschedule"

	// Daemon subcommands
	startCmdStr   = "start"
	stopCmdStr    = "stop"
	restartCmdStr = "restart"
	statusCmdStr  = "status"
)

// Shared flag names.
const (
	formatFlagName   = "format"
	hookFlagName     = "hook"
	scheduleFlagName = "schedule"
	argFlagName      = "arg"
	dueNowFlagName   = "due-now"
	allFlagName      = "all"
	yesFlagName      = "yes"
	intervalFlagName = "interval"
	displayFlagName  = "display"
)
