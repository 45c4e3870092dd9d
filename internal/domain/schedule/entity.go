package schedule

import (
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock offset from midnight in whole seconds.
type TimeOfDay int64

// ParseTimeOfDay parses "HH:MM" or "HH:MM:SS".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDay(t.Hour()*3600 + t.Minute()*60 + t.Second()), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
}

func At(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*3600 + minute*60)
}

func (t TimeOfDay) String() string {
	s := int64(t)
	if s%60 != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60)
	}
	return fmt.Sprintf("%02d:%02d", s/3600, (s%3600)/60)
}

// Window is the standard working interval [Start, End) of one day.
type Window struct {
	Start TimeOfDay
	End   TimeOfDay
}

func (w Window) Validate() error {
	if w.Start < 0 || w.End > TimeOfDay(24*3600) {
		return fmt.Errorf("%w: %s-%s", ErrWindowOutOfDay, w.Start, w.End)
	}
	if w.End <= w.Start {
		return fmt.Errorf("%w: %s-%s", ErrEmptyWindow, w.Start, w.End)
	}
	return nil
}

// Policy maps a weekday to its standard window. Weekdays without an entry
// have no standard window.
type Policy map[time.Weekday]Window

// DefaultPolicy is Monday-Friday 07:00-16:30 and Saturday 07:30-13:00.
func DefaultPolicy() Policy {
	weekday := Window{Start: At(7, 0), End: At(16, 30)}
	return Policy{
		time.Monday:    weekday,
		time.Tuesday:   weekday,
		time.Wednesday: weekday,
		time.Thursday:  weekday,
		time.Friday:    weekday,
		time.Saturday:  {Start: At(7, 30), End: At(13, 0)},
	}
}
