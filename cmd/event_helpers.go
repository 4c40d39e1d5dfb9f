package cmd

import (
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mieubrisse/stacktrace"

	"github.com/odyssey/cronctl/internal/config"
	"github.com/odyssey/cronctl/internal/database"
	"github.com/odyssey/cronctl/internal/schedule"
)

// readConfig centralizes the config reading boilerplate. It returns the config
// only; use readConfigWithComments when the comment map is needed for write-back.
func readConfig() (*config.CronctlConfig, error) {
	cfg, _, err := config.ReadCronctlConfig(cronctlDirpath)
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to read config")
	}
	return cfg, nil
}

// readConfigWithComments reads the config and returns the comment map needed
// for write-back operations that preserve YAML comments.
func readConfigWithComments() (*config.CronctlConfig, yaml.CommentMap, error) {
	cfg, cm, err := config.ReadCronctlConfig(cronctlDirpath)
	if err != nil {
		return nil, nil, stacktrace.Propagate(err, "failed to read config")
	}
	return cfg, cm, nil
}

// openDB opens the events database in the cronctl directory.
func openDB() (*database.DB, error) {
	db, err := database.Open(config.GetDatabaseFilepath(cronctlDirpath))
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to open events database")
	}
	return db, nil
}

// buildRegistry assembles the schedule registry from builtins plus the
// custom schedules in config.
func buildRegistry() (*schedule.Registry, error) {
	cfg, err := readConfig()
	if err != nil {
		return nil, err
	}
	registry, err := schedule.NewRegistry(cfg)
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to build schedule registry")
	}
	return registry, nil
}

// resolveEventArg looks up an event by full or short ID, erroring if no
// event matches.
func resolveEventArg(db *database.DB, id string) (*database.Event, error) {
	event, err := db.GetEvent(id)
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to look up event '%s'", id)
	}
	if event == nil {
		event, err = db.GetEventByShortID(id)
		if err != nil {
			return nil, stacktrace.Propagate(err, "failed to look up event '%s'", id)
		}
	}
	if event == nil {
		return nil, stacktrace.NewError("no event with ID '%s'; run '%s %s %s' to see scheduled events",
			id, cronctlCmdStr, eventCmdStr, lsCmdStr)
	}
	return event, nil
}

// parseArgPairs turns repeated key=value flag values into an args map.
func parseArgPairs(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	args := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, stacktrace.NewError("invalid argument '%s'; expected key=value", pair)
		}
		args[key] = value
	}
	return args, nil
}
