package schedule

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/overtime"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/schedule"
	"gopkg.in/yaml.v3"
)

// Resolver answers which standard window applies to a date.
type Resolver struct {
	policy schedule.Policy
}

func NewResolver(policy schedule.Policy) *Resolver {
	p := make(schedule.Policy, len(policy))
	for day, w := range policy {
		p[day] = w
	}
	return &Resolver{policy: p}
}

// NewDefaultResolver uses Monday-Friday 07:00-16:30, Saturday 07:30-13:00, Sunday none.
func NewDefaultResolver() *Resolver {
	return NewResolver(schedule.DefaultPolicy())
}

// StandardWindow returns the window of date, or false when the date has none.
func (r *Resolver) StandardWindow(date overtime.Date) (schedule.Window, bool) {
	w, ok := r.policy[date.Weekday()]
	return w, ok
}

// Policy returns a copy of the weekday policy.
func (r *Resolver) Policy() schedule.Policy {
	p := make(schedule.Policy, len(r.policy))
	for day, w := range r.policy {
		p[day] = w
	}
	return p
}

type policyFile struct {
	Windows map[string]windowEntry `yaml:"windows"`
}

type windowEntry struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday accepts English weekday names in any case.
func ParseWeekday(s string) (time.Weekday, error) {
	day, ok := weekdayNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", schedule.ErrUnknownWeekday, s)
	}
	return day, nil
}

// ParsePolicy decodes a YAML policy document. Weekdays left out of the
// document get no standard window.
func ParsePolicy(data []byte) (schedule.Policy, error) {
	var f policyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse schedule policy: %w", err)
	}

	policy := make(schedule.Policy, len(f.Windows))
	for name, entry := range f.Windows {
		day, err := ParseWeekday(name)
		if err != nil {
			return nil, err
		}
		start, err := schedule.ParseTimeOfDay(entry.Start)
		if err != nil {
			return nil, fmt.Errorf("%s start: %w", name, err)
		}
		end, err := schedule.ParseTimeOfDay(entry.End)
		if err != nil {
			return nil, fmt.Errorf("%s end: %w", name, err)
		}
		w := schedule.Window{Start: start, End: end}
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		policy[day] = w
	}
	return policy, nil
}

// LoadPolicy reads a policy file. An empty path yields the default policy.
func LoadPolicy(path string) (schedule.Policy, error) {
	if path == "" {
		return schedule.DefaultPolicy(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schedule policy: %w", err)
	}
	return ParsePolicy(data)
}
