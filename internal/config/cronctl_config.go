package config

import (
	"os"
	"regexp"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/mieubrisse/stacktrace"
)

// DefaultDispatchTick is how often the dispatcher checks for due events.
const DefaultDispatchTick = 60 * time.Second

// DefaultHookTimeout is the default timeout for a hook command run.
const DefaultHookTimeout = 1 * time.Hour

// DefaultMaxConcurrentRuns caps how many hook commands the dispatcher runs at once.
const DefaultMaxConcurrentRuns = 10

// ScheduleConfig represents a custom recurrence schedule in config.yml.
type ScheduleConfig struct {
	Interval string `yaml:"interval"`          // Fixed interval (e.g., "4h", "90m", or plain seconds)
	Display  string `yaml:"display,omitempty"` // Human-readable display name
}

// IntervalSeconds returns the parsed interval in seconds, or an error if the
// interval is missing or non-positive. Both Go duration syntax ("4h30m") and
// a bare integer second count are accepted.
func (s ScheduleConfig) IntervalSeconds() (int64, error) {
	if s.Interval == "" {
		return 0, stacktrace.NewError("schedule interval is required")
	}
	if secondsRegex.MatchString(s.Interval) {
		d, err := time.ParseDuration(s.Interval + "s")
		if err != nil {
			return 0, stacktrace.Propagate(err, "invalid schedule interval '%s'", s.Interval)
		}
		return validIntervalSeconds(d)
	}
	d, err := time.ParseDuration(s.Interval)
	if err != nil {
		return 0, stacktrace.Propagate(err, "invalid schedule interval '%s'", s.Interval)
	}
	return validIntervalSeconds(d)
}

func validIntervalSeconds(d time.Duration) (int64, error) {
	seconds := int64(d / time.Second)
	if seconds <= 0 {
		return 0, stacktrace.NewError("schedule interval must be at least 1 second, got %v", d)
	}
	return seconds, nil
}

// HookConfig represents a hook entry in config.yml: the command the
// dispatcher executes when an event for this hook fires.
type HookConfig struct {
	Command string `yaml:"command"`           // Shell command to execute
	Timeout string `yaml:"timeout,omitempty"` // Max runtime (e.g., "1h", "30m")
}

// GetTimeout returns the parsed timeout duration, or the default if not set
// or invalid.
func (h *HookConfig) GetTimeout() time.Duration {
	if h.Timeout == "" {
		return DefaultHookTimeout
	}
	d, err := time.ParseDuration(h.Timeout)
	if err != nil {
		return DefaultHookTimeout
	}
	return d
}

// DispatcherConfig holds dispatcher tuning knobs.
type DispatcherConfig struct {
	Tick              string `yaml:"tick,omitempty"`              // How often to check for due events
	MaxConcurrentRuns int    `yaml:"maxConcurrentRuns,omitempty"` // Cap on simultaneous hook runs
}

// CronctlConfig is the parsed contents of config.yml.
type CronctlConfig struct {
	Schedules  map[string]ScheduleConfig `yaml:"schedules,omitempty"`
	Hooks      map[string]HookConfig     `yaml:"hooks,omitempty"`
	Dispatcher DispatcherConfig          `yaml:"dispatcher,omitempty"`
}

// GetDispatchTick returns the dispatcher tick interval, defaulting when the
// config omits or mangles it.
func (c *CronctlConfig) GetDispatchTick() time.Duration {
	if c.Dispatcher.Tick == "" {
		return DefaultDispatchTick
	}
	d, err := time.ParseDuration(c.Dispatcher.Tick)
	if err != nil || d <= 0 {
		return DefaultDispatchTick
	}
	return d
}

// GetMaxConcurrentRuns returns the cap on simultaneous hook runs.
func (c *CronctlConfig) GetMaxConcurrentRuns() int {
	if c.Dispatcher.MaxConcurrentRuns <= 0 {
		return DefaultMaxConcurrentRuns
	}
	return c.Dispatcher.MaxConcurrentRuns
}

// nameRegex matches valid hook and schedule names: must start with a letter,
// then alphanumeric, hyphens, underscores.
var nameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// secondsRegex matches a bare integer second count used as an interval.
var secondsRegex = regexp.MustCompile(`^[0-9]+$`)

// ValidateName validates a hook or schedule name.
func ValidateName(name string) error {
	if name == "" {
		return stacktrace.NewError("name cannot be empty")
	}
	if !nameRegex.MatchString(name) {
		return stacktrace.NewError(
			"invalid name '%s': must start with a letter and contain only letters, numbers, hyphens, and underscores",
			name,
		)
	}
	return nil
}

// ReadCronctlConfig reads and validates config.yml. A missing file yields an
// empty config. The returned CommentMap preserves user comments across a
// read-modify-write cycle.
func ReadCronctlConfig(cronctlDirpath string) (*CronctlConfig, yaml.CommentMap, error) {
	configFilepath := GetConfigFilepath(cronctlDirpath)

	data, err := os.ReadFile(configFilepath)
	if err != nil {
		if os.IsNotExist(err) {
			return &CronctlConfig{}, nil, nil
		}
		return nil, nil, stacktrace.Propagate(err, "failed to read config file '%s'", configFilepath)
	}

	var cfg CronctlConfig
	cm := yaml.CommentMap{}
	if err := yaml.UnmarshalWithOptions(data, &cfg, yaml.CommentToMap(cm)); err != nil {
		return nil, nil, stacktrace.Propagate(err, "failed to parse config file '%s'", configFilepath)
	}

	if cfg.Schedules == nil {
		cfg.Schedules = make(map[string]ScheduleConfig)
	}
	for name, schedCfg := range cfg.Schedules {
		if err := ValidateName(name); err != nil {
			return nil, nil, stacktrace.Propagate(err, "invalid schedule name in %s", configFilepath)
		}
		if _, err := schedCfg.IntervalSeconds(); err != nil {
			return nil, nil, stacktrace.Propagate(err, "invalid schedule '%s' in %s", name, configFilepath)
		}
	}

	if cfg.Hooks == nil {
		cfg.Hooks = make(map[string]HookConfig)
	}
	for name, hookCfg := range cfg.Hooks {
		if err := ValidateName(name); err != nil {
			return nil, nil, stacktrace.Propagate(err, "invalid hook name in %s", configFilepath)
		}
		if hookCfg.Command == "" {
			return nil, nil, stacktrace.NewError("hook '%s' in %s has no command", name, configFilepath)
		}
	}

	return &cfg, cm, nil
}

// WriteCronctlConfig writes config.yml, preserving comments when a
// CommentMap from a prior read is supplied.
func WriteCronctlConfig(cronctlDirpath string, cfg *CronctlConfig, cm yaml.CommentMap) error {
	configFilepath := GetConfigFilepath(cronctlDirpath)

	var (
		data []byte
		err  error
	)
	if cm != nil {
		data, err = yaml.MarshalWithOptions(cfg, yaml.WithComment(cm))
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return stacktrace.Propagate(err, "failed to marshal config")
	}

	if err := os.WriteFile(configFilepath, data, 0644); err != nil {
		return stacktrace.Propagate(err, "failed to write config file '%s'", configFilepath)
	}

	return nil
}

// EnsureConfigFile creates config.yml with a minimal empty configuration if
// it does not already exist.
func EnsureConfigFile(cronctlDirpath string) error {
	configFilepath := GetConfigFilepath(cronctlDirpath)

	if _, err := os.Stat(configFilepath); err == nil {
		return nil
	}

	if err := os.WriteFile(configFilepath, []byte("{}\n"), 0644); err != nil {
		return stacktrace.Propagate(err, "failed to create config file '%s'", configFilepath)
	}

	return nil
}
