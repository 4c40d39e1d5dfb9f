// Package schedule maintains the registry of named recurrence schedules: the
// built-in set plus any custom schedules defined in config.yml. A schedule is
// a fixed interval with a display name, nothing more.
package schedule

import (
	"sort"

	"github.com/mieubrisse/stacktrace"

	"github.com/odyssey/cronctl/internal/config"
)

// Schedule is a named recurrence interval.
type Schedule struct {
	Name            string `json:"name"`
	Display         string `json:"display"`
	IntervalSeconds int64  `json:"interval"`
}

// builtins are the schedules every installation knows about.
var builtins = []Schedule{
	{Name: "hourly", Display: "Once Hourly", IntervalSeconds: 3600},
	{Name: "twicedaily", Display: "Twice Daily", IntervalSeconds: 43200},
	{Name: "daily", Display: "Once Daily", IntervalSeconds: 86400},
	{Name: "weekly", Display: "Once Weekly", IntervalSeconds: 604800},
}

// Builtin looks up a built-in schedule by name.
func Builtin(name string) (Schedule, bool) {
	for _, s := range builtins {
		if s.Name == name {
			return s, true
		}
	}
	return Schedule{}, false
}

// Registry resolves schedule names to intervals.
type Registry struct {
	schedules map[string]Schedule
}

// NewRegistry builds a registry from the built-in schedules merged with the
// custom schedules in cfg. A custom schedule wins on name collision.
func NewRegistry(cfg *config.CronctlConfig) (*Registry, error) {
	schedules := make(map[string]Schedule, len(builtins)+len(cfg.Schedules))
	for _, s := range builtins {
		schedules[s.Name] = s
	}

	for name, schedCfg := range cfg.Schedules {
		seconds, err := schedCfg.IntervalSeconds()
		if err != nil {
			return nil, stacktrace.Propagate(err, "invalid custom schedule '%s'", name)
		}
		display := schedCfg.Display
		if display == "" {
			display = name
		}
		schedules[name] = Schedule{
			Name:            name,
			Display:         display,
			IntervalSeconds: seconds,
		}
	}

	return &Registry{schedules: schedules}, nil
}

// Get looks up a schedule by name.
func (r *Registry) Get(name string) (Schedule, bool) {
	s, ok := r.schedules[name]
	return s, ok
}

// Ordered returns all schedules sorted by interval ascending, ties broken by
// name, so listings are deterministic.
func (r *Registry) Ordered() []Schedule {
	result := make([]Schedule, 0, len(r.schedules))
	for _, s := range r.schedules {
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].IntervalSeconds != result[j].IntervalSeconds {
			return result[i].IntervalSeconds < result[j].IntervalSeconds
		}
		return result[i].Name < result[j].Name
	})
	return result
}
