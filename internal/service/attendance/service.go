package attendance

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	domainOvertime "github.com/cmlabs-hris/presence-backend-go/internal/domain/overtime"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/utils"
	"github.com/cmlabs-hris/presence-backend-go/internal/service/overtime"
)

const timestampFormat = "2006-01-02 15:04:05"

// SSE event names published on every recorded clock event.
const (
	EventClockIn  = "attendance.clock_in"
	EventClockOut = "attendance.clock_out"
)

// Geofence is the office a clock event must be recorded from.
type Geofence struct {
	Enabled      bool
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
}

type AttendanceServiceImpl struct {
	events attendance.EventRepository
	engine *overtime.Engine
	loc    *time.Location
	office Geofence
	hub    *sse.Hub
	now    func() time.Time

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// lockPerson serializes appends of one person and returns the unlock func.
func (a *AttendanceServiceImpl) lockPerson(personID string) func() {
	a.locksMu.Lock()
	mu, ok := a.locks[personID]
	if !ok {
		mu = &sync.Mutex{}
		a.locks[personID] = mu
	}
	a.locksMu.Unlock()

	mu.Lock()
	return mu.Unlock
}

// ClockIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockIn(ctx context.Context, req attendance.ClockRequest) (attendance.EventResponse, error) {
	return a.record(ctx, req, attendance.KindEntry)
}

// ClockOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockOut(ctx context.Context, req attendance.ClockRequest) (attendance.EventResponse, error) {
	return a.record(ctx, req, attendance.KindExit)
}

func (a *AttendanceServiceImpl) record(ctx context.Context, req attendance.ClockRequest, kind attendance.Kind) (attendance.EventResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.EventResponse{}, err
	}

	var distance *float64
	if a.office.Enabled {
		d := utils.CalculateHaversineDistance(req.Latitude, req.Longitude, a.office.Latitude, a.office.Longitude)
		if d > a.office.RadiusMeters {
			return attendance.EventResponse{}, &attendance.RadiusError{
				DistanceMeters: d,
				RadiusMeters:   a.office.RadiusMeters,
			}
		}
		distance = &d
	}

	unlock := a.lockPerson(req.PersonID)
	defer unlock()

	lat, lon := req.Latitude, req.Longitude
	event, err := a.events.Append(ctx, attendance.Event{
		PersonID:   req.PersonID,
		PersonName: req.PersonName,
		Kind:       kind,
		Timestamp:  a.now().In(a.loc).Truncate(time.Second),
		Latitude:   &lat,
		Longitude:  &lon,
	})
	if err != nil {
		return attendance.EventResponse{}, fmt.Errorf("failed to record %s event: %w", strings.ToLower(string(kind)), err)
	}

	resp := mapEventToResponse(event)
	resp.DistanceMeters = distance

	if a.hub != nil {
		name := EventClockIn
		if kind == attendance.KindExit {
			name = EventClockOut
		}
		a.hub.Publish(event.PersonID, sse.Event{
			PersonID: event.PersonID,
			Event:    name,
			Data:     resp,
		})
	}

	return resp, nil
}

// MyHours implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) MyHours(ctx context.Context, personID string) (attendance.HoursResponse, error) {
	if personID == "" {
		return attendance.HoursResponse{}, attendance.ErrPersonRequired
	}

	events, err := a.events.FetchEvents(ctx, personID, time.Time{}, time.Time{})
	if err != nil {
		return attendance.HoursResponse{}, fmt.Errorf("failed to fetch events: %w", err)
	}

	now := a.now().In(a.loc)
	items := a.engine.Compute(events)
	twoFrom, twoTo := overtime.TwoMonthWindow(now)

	return attendance.HoursResponse{
		PersonID:    personID,
		AllTime:     MapSplit(overtime.Total(items)),
		CurrentWeek: MapPeriod(personID, a.engine.Week(items, now)),
		TwoMonths:   MapPeriod(personID, overtime.ByRange(items, twoFrom, twoTo)),
	}, nil
}

// WeekSummary implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) WeekSummary(ctx context.Context, req attendance.WeekRequest) (attendance.PeriodResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.PeriodResponse{}, err
	}

	day := domainOvertime.DateOf(a.now().In(a.loc))
	if req.Date != nil && *req.Date != "" {
		parsed, err := domainOvertime.ParseDate(*req.Date)
		if err != nil {
			return attendance.PeriodResponse{}, fmt.Errorf("invalid date %q: %w", *req.Date, err)
		}
		day = parsed
	}

	from, to := overtime.WeekOf(day.Midnight(a.loc), a.engine.WeekStart())
	return a.period(ctx, req.PersonID, from, to)
}

// RangeReport implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) RangeReport(ctx context.Context, req attendance.RangeRequest) (attendance.PeriodResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.PeriodResponse{}, err
	}

	from, err := domainOvertime.ParseDate(req.StartDate)
	if err != nil {
		return attendance.PeriodResponse{}, fmt.Errorf("invalid start_date: %w", err)
	}
	to, err := domainOvertime.ParseDate(req.EndDate)
	if err != nil {
		return attendance.PeriodResponse{}, fmt.Errorf("invalid end_date: %w", err)
	}
	if !from.Before(to) {
		return attendance.PeriodResponse{}, attendance.ErrInvalidRange
	}

	return a.period(ctx, req.PersonID, from, to)
}

// period loads only the events inside [from, to). Sessions never span
// midnight, so pairing the bounded slice yields the same sessions for
// those dates as pairing the whole log.
func (a *AttendanceServiceImpl) period(ctx context.Context, personID string, from, to domainOvertime.Date) (attendance.PeriodResponse, error) {
	events, err := a.events.FetchEvents(ctx, personID, from.Midnight(a.loc), to.Midnight(a.loc))
	if err != nil {
		return attendance.PeriodResponse{}, fmt.Errorf("failed to fetch events: %w", err)
	}

	items := a.engine.Compute(events)
	return MapPeriod(personID, overtime.ByRange(items, from, to)), nil
}

func mapEventToResponse(ev attendance.Event) attendance.EventResponse {
	return attendance.EventResponse{
		ID:         ev.ID,
		PersonID:   ev.PersonID,
		PersonName: ev.PersonName,
		Kind:       string(ev.Kind),
		Timestamp:  ev.Timestamp.Format(timestampFormat),
		Latitude:   ev.Latitude,
		Longitude:  ev.Longitude,
	}
}

// MapSplit converts a split into its response form.
func MapSplit(s domainOvertime.Split) attendance.SplitResponse {
	return attendance.SplitResponse{
		NormalSeconds:   s.NormalSeconds,
		OvertimeSeconds: s.OvertimeSeconds,
		Normal:          domainOvertime.FormatHM(s.NormalSeconds),
		Overtime:        domainOvertime.FormatHM(s.OvertimeSeconds),
	}
}

// MapPeriod converts a range total into its response form, days in calendar order.
func MapPeriod(personID string, rt domainOvertime.RangeTotal) attendance.PeriodResponse {
	days := make([]attendance.DayResponse, 0, len(rt.Days))
	for _, d := range rt.SortedDays() {
		days = append(days, attendance.DayResponse{
			Date:          d.Date.String(),
			DayOfWeek:     d.Date.Weekday().String(),
			Sessions:      d.Sessions,
			SplitResponse: MapSplit(d.Split),
		})
	}

	return attendance.PeriodResponse{
		PersonID:  personID,
		StartDate: rt.From.String(),
		EndDate:   rt.To.String(),
		Days:      days,
		Total:     MapSplit(rt.Total),
	}
}

func NewAttendanceService(
	events attendance.EventRepository,
	engine *overtime.Engine,
	loc *time.Location,
	office Geofence,
	hub *sse.Hub,
) attendance.AttendanceService {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceServiceImpl{
		events: events,
		engine: engine,
		loc:    loc,
		office: office,
		hub:    hub,
		now:    time.Now,
		locks:  make(map[string]*sync.Mutex),
	}
}
