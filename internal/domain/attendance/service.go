package attendance

import (
	"context"
)

// AttendanceService defines business logic for clock events and worked hours
type AttendanceService interface {
	// ClockIn records an ENTRY event after the geofence check
	ClockIn(ctx context.Context, req ClockRequest) (EventResponse, error)

	// ClockOut records an EXIT event after the geofence check
	ClockOut(ctx context.Context, req ClockRequest) (EventResponse, error)

	// MyHours returns normal/overtime totals for the whole log, the current week and the two-month window
	MyHours(ctx context.Context, personID string) (HoursResponse, error)

	// WeekSummary returns the per-day breakdown of the week containing the requested date
	WeekSummary(ctx context.Context, req WeekRequest) (PeriodResponse, error)

	// RangeReport returns the per-day breakdown of a half-open date range
	RangeReport(ctx context.Context, req RangeRequest) (PeriodResponse, error)
}
