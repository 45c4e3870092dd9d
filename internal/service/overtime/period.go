package overtime

import (
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/overtime"
)

// WeekOf returns the half-open week [from, to) containing now.
func WeekOf(now time.Time, weekStart time.Weekday) (overtime.Date, overtime.Date) {
	from := overtime.DateOf(now).WeekStart(weekStart)
	return from, from.AddDays(7)
}

// MonthOf returns the calendar month containing now.
func MonthOf(now time.Time) (overtime.Date, overtime.Date) {
	from := overtime.Date{Year: now.Year(), Month: now.Month(), Day: 1}
	to := overtime.DateOf(time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, time.UTC))
	return from, to
}

// TwoMonthWindow covers the previous and the current calendar month of now.
func TwoMonthWindow(now time.Time) (overtime.Date, overtime.Date) {
	from := overtime.DateOf(time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, time.UTC))
	_, to := MonthOf(now)
	return from, to
}
