package overtime

import (
	"fmt"
	"time"
)

// Date is a civil calendar date with no location attached.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a date in YYYY-MM-DD format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// At returns the wall-clock time offset seconds past midnight of d in loc.
func (d Date) At(offset int64, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, int(offset), 0, loc)
}

func (d Date) Midnight(loc *time.Location) time.Time {
	return d.At(0, loc)
}

func (d Date) Weekday() time.Weekday {
	return d.Midnight(time.UTC).Weekday()
}

func (d Date) AddDays(n int) Date {
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC))
}

func (d Date) Before(u Date) bool {
	if d.Year != u.Year {
		return d.Year < u.Year
	}
	if d.Month != u.Month {
		return d.Month < u.Month
	}
	return d.Day < u.Day
}

func (d Date) After(u Date) bool {
	return u.Before(d)
}

// WeekStart returns the first date of the 7-day bucket containing d.
func (d Date) WeekStart(start time.Weekday) Date {
	back := (int(d.Weekday()) - int(start) + 7) % 7
	return d.AddDays(-back)
}

// Session is one matched ENTRY/EXIT pair on a single calendar date.
// End is always after Start and both share the same date.
type Session struct {
	PersonID string
	Start    time.Time
	End      time.Time
}

func (s Session) Date() Date {
	return DateOf(s.Start)
}

// Seconds is the whole-second duration of the session.
func (s Session) Seconds() int64 {
	return s.End.Unix() - s.Start.Unix()
}

// Split divides worked seconds into normal and overtime.
type Split struct {
	NormalSeconds   int64
	OvertimeSeconds int64
}

func (s Split) Add(o Split) Split {
	return Split{
		NormalSeconds:   s.NormalSeconds + o.NormalSeconds,
		OvertimeSeconds: s.OvertimeSeconds + o.OvertimeSeconds,
	}
}

func (s Split) Total() int64 {
	return s.NormalSeconds + s.OvertimeSeconds
}

// FormatHM renders seconds as H:MM, dropping leftover seconds.
func FormatHM(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/3600, (seconds%3600)/60)
}

// Accounted is a session together with its split.
type Accounted struct {
	Session Session
	Split   Split
}

// DayTotal is the aggregate of one calendar date.
type DayTotal struct {
	Date     Date
	Sessions int
	Split
}

// RangeTotal is a per-day breakdown of a half-open date range plus its total.
type RangeTotal struct {
	From  Date
	To    Date // exclusive
	Days  map[Date]DayTotal
	Total Split
}

// SortedDays returns the days of r in calendar order.
func (r RangeTotal) SortedDays() []DayTotal {
	out := make([]DayTotal, 0, len(r.Days))
	for d := r.From; d.Before(r.To); d = d.AddDays(1) {
		if day, ok := r.Days[d]; ok {
			out = append(out, day)
		}
	}
	return out
}
