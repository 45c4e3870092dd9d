package overtime

import (
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/overtime"
)

// Total sums every split.
func Total(items []overtime.Accounted) overtime.Split {
	var total overtime.Split
	for _, it := range items {
		total = total.Add(it.Split)
	}
	return total
}

// ByDay groups splits by the session date.
func ByDay(items []overtime.Accounted) map[overtime.Date]overtime.DayTotal {
	days := make(map[overtime.Date]overtime.DayTotal)
	for _, it := range items {
		d := it.Session.Date()
		day := days[d]
		day.Date = d
		day.Sessions++
		day.Split = day.Split.Add(it.Split)
		days[d] = day
	}
	return days
}

// ByWeek groups splits into 7-day buckets keyed by the first date of the week.
func ByWeek(items []overtime.Accounted, weekStart time.Weekday) map[overtime.Date]overtime.Split {
	weeks := make(map[overtime.Date]overtime.Split)
	for _, it := range items {
		key := it.Session.Date().WeekStart(weekStart)
		weeks[key] = weeks[key].Add(it.Split)
	}
	return weeks
}

// ByRange keeps the sessions dated from <= date < to and groups them by day.
// An empty or inverted range yields no days.
func ByRange(items []overtime.Accounted, from, to overtime.Date) overtime.RangeTotal {
	inRange := make([]overtime.Accounted, 0, len(items))
	for _, it := range items {
		d := it.Session.Date()
		if d.Before(from) || !d.Before(to) {
			continue
		}
		inRange = append(inRange, it)
	}
	return overtime.RangeTotal{
		From:  from,
		To:    to,
		Days:  ByDay(inRange),
		Total: Total(inRange),
	}
}

// ByPerson partitions items by person, preserving order.
func ByPerson(items []overtime.Accounted) map[string][]overtime.Accounted {
	people := make(map[string][]overtime.Accounted)
	for _, it := range items {
		people[it.Session.PersonID] = append(people[it.Session.PersonID], it)
	}
	return people
}
