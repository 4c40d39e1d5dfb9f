package config

import (
	"os"
	"path/filepath"

	"github.com/mieubrisse/stacktrace"
)

const (
	cronctlDirpathEnvVar  = "CRONCTL_DIRPATH"
	defaultCronctlDirname = ".cronctl"

	DispatcherDirname         = "dispatcher"
	DispatcherPIDFilename     = "dispatcher.pid"
	DispatcherLogFilename     = "dispatcher.log"
	DispatcherSocketFilename  = "dispatcher.sock"
	DispatcherVersionFilename = "dispatcher.version"
	ConfigFilename            = "config.yml"
	DatabaseFilename          = "events.db"
)

// GetCronctlDirpath returns the cronctl state directory path, reading from
// the CRONCTL_DIRPATH environment variable or defaulting to ~/.cronctl.
func GetCronctlDirpath() (string, error) {
	if envVal := os.Getenv(cronctlDirpathEnvVar); envVal != "" {
		return envVal, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", stacktrace.Propagate(err, "failed to determine home directory")
	}
	return filepath.Join(homeDir, defaultCronctlDirname), nil
}

// EnsureDirStructure creates the required cronctl directory structure if it
// doesn't already exist.
func EnsureDirStructure(cronctlDirpath string) error {
	dirs := []string{
		cronctlDirpath,
		filepath.Join(cronctlDirpath, DispatcherDirname),
	}
	for _, dirpath := range dirs {
		if err := os.MkdirAll(dirpath, 0755); err != nil {
			return stacktrace.Propagate(err, "failed to create directory '%s'", dirpath)
		}
	}

	if err := EnsureConfigFile(cronctlDirpath); err != nil {
		return stacktrace.Propagate(err, "failed to seed config file")
	}

	return nil
}

// GetConfigFilepath returns the path to config.yml.
func GetConfigFilepath(cronctlDirpath string) string {
	return filepath.Join(cronctlDirpath, ConfigFilename)
}

// GetDatabaseFilepath returns the path to the events database.
func GetDatabaseFilepath(cronctlDirpath string) string {
	return filepath.Join(cronctlDirpath, DatabaseFilename)
}

// GetDispatcherPIDFilepath returns the path to the dispatcher PID file.
func GetDispatcherPIDFilepath(cronctlDirpath string) string {
	return filepath.Join(cronctlDirpath, DispatcherDirname, DispatcherPIDFilename)
}

// GetDispatcherLogFilepath returns the path to the dispatcher log file.
func GetDispatcherLogFilepath(cronctlDirpath string) string {
	return filepath.Join(cronctlDirpath, DispatcherDirname, DispatcherLogFilename)
}

// GetDispatcherSocketFilepath returns the path to the dispatcher unix socket.
func GetDispatcherSocketFilepath(cronctlDirpath string) string {
	return filepath.Join(cronctlDirpath, DispatcherDirname, DispatcherSocketFilename)
}

// GetDispatcherVersionFilepath returns the path to the file where the
// running dispatcher records its version.
func GetDispatcherVersionFilepath(cronctlDirpath string) string {
	return filepath.Join(cronctlDirpath, DispatcherDirname, DispatcherVersionFilename)
}
