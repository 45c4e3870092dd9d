package overtime

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/overtime"
	scheduleService "github.com/cmlabs-hris/presence-backend-go/internal/service/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monthOfEvents(t *testing.T) []attendance.Event {
	t.Helper()
	var events []attendance.Event
	base := ts(t, "2024-02-26 00:00:00")
	for i := 0; i < 28; i++ {
		day := base.AddDate(0, 0, i)
		events = append(events,
			attendance.Event{PersonID: "p1", Kind: attendance.KindEntry, Timestamp: day.Add(6*time.Hour + 45*time.Minute)},
			attendance.Event{PersonID: "p1", Kind: attendance.KindExit, Timestamp: day.Add(12 * time.Hour)},
			attendance.Event{PersonID: "p1", Kind: attendance.KindEntry, Timestamp: day.Add(13 * time.Hour)},
			attendance.Event{PersonID: "p1", Kind: attendance.KindExit, Timestamp: day.Add(17*time.Hour + 10*time.Minute)},
		)
	}
	return events
}

func TestByDay(t *testing.T) {
	items := computeOne(t,
		entry(t, "2024-03-04 06:30:00"),
		exit(t, "2024-03-04 12:00:00"),
		entry(t, "2024-03-04 13:00:00"),
		exit(t, "2024-03-04 17:00:00"),
		entry(t, "2024-03-05 08:00:00"),
		exit(t, "2024-03-05 09:00:00"),
	)

	days := ByDay(items)
	require.Len(t, days, 2)

	monday := days[overtime.Date{Year: 2024, Month: time.March, Day: 4}]
	assert.Equal(t, 2, monday.Sessions)
	assert.Equal(t, int64(5*3600+3*3600+30*60), monday.NormalSeconds)
	assert.Equal(t, int64(1800+1800), monday.OvertimeSeconds)

	tuesday := days[overtime.Date{Year: 2024, Month: time.March, Day: 5}]
	assert.Equal(t, 1, tuesday.Sessions)
	assert.Equal(t, overtime.Split{NormalSeconds: 3600}, tuesday.Split)
}

func TestByWeek_EqualsSumOfDays(t *testing.T) {
	items := computeOne(t, monthOfEvents(t)...)
	days := ByDay(items)
	weeks := ByWeek(items, time.Monday)

	require.Len(t, weeks, 4)
	for weekStart, weekSplit := range weeks {
		assert.Equal(t, time.Monday, weekStart.Weekday())
		var sum overtime.Split
		for i := 0; i < 7; i++ {
			sum = sum.Add(days[weekStart.AddDays(i)].Split)
		}
		assert.Equal(t, sum, weekSplit, "week %s", weekStart)
	}
}

func TestByWeek_SundayStart(t *testing.T) {
	items := computeOne(t,
		entry(t, "2024-03-10 08:00:00"),
		exit(t, "2024-03-10 09:00:00"),
		entry(t, "2024-03-11 08:00:00"),
		exit(t, "2024-03-11 09:00:00"),
	)

	weeks := ByWeek(items, time.Sunday)
	require.Len(t, weeks, 1)
	split := weeks[overtime.Date{Year: 2024, Month: time.March, Day: 10}]
	assert.Equal(t, overtime.Split{NormalSeconds: 3600, OvertimeSeconds: 3600}, split)
}

func TestByRange_HalfOpen(t *testing.T) {
	items := computeOne(t, monthOfEvents(t)...)
	from := overtime.Date{Year: 2024, Month: time.March, Day: 4}
	to := overtime.Date{Year: 2024, Month: time.March, Day: 11}

	r := ByRange(items, from, to)
	assert.Len(t, r.Days, 7)
	_, hasTo := r.Days[to]
	assert.False(t, hasTo, "range end is exclusive")
	_, hasFrom := r.Days[from]
	assert.True(t, hasFrom, "range start is inclusive")

	var sum overtime.Split
	for _, d := range r.Days {
		sum = sum.Add(d.Split)
	}
	assert.Equal(t, sum, r.Total)
	assert.Equal(t, ByWeek(items, time.Monday)[from], r.Total)

	sorted := r.SortedDays()
	require.Len(t, sorted, 7)
	assert.Equal(t, from, sorted[0].Date)
	assert.Equal(t, from.AddDays(6), sorted[6].Date)
}

func TestByRange_EmptyAndInverted(t *testing.T) {
	items := computeOne(t, monthOfEvents(t)...)
	d := overtime.Date{Year: 2024, Month: time.March, Day: 4}

	assert.Empty(t, ByRange(items, d, d).Days)
	assert.Equal(t, overtime.Split{}, ByRange(items, d.AddDays(3), d).Total)
}

func TestByPerson(t *testing.T) {
	items := []overtime.Accounted{
		{Session: overtime.Session{PersonID: "a"}},
		{Session: overtime.Session{PersonID: "b"}},
		{Session: overtime.Session{PersonID: "a"}},
	}

	people := ByPerson(items)
	assert.Len(t, people["a"], 2)
	assert.Len(t, people["b"], 1)
}

func TestCompute_Idempotent(t *testing.T) {
	engine := NewEngine(scheduleService.NewDefaultResolver())
	events := monthOfEvents(t)

	first := engine.Compute(events)
	second := engine.Compute(events)

	assert.Equal(t, first, second)
	assert.Equal(t, ByDay(first), ByDay(second))
	assert.Equal(t, ByWeek(first, time.Monday), ByWeek(second, time.Monday))
	assert.Equal(t, Total(first), Total(second))
}

func TestComputeAll_IsolatesPeople(t *testing.T) {
	engine := NewEngine(scheduleService.NewDefaultResolver())
	a := []attendance.Event{
		{PersonID: "a", Kind: attendance.KindEntry, Timestamp: ts(t, "2024-03-04 08:00:00")},
	}
	b := []attendance.Event{
		{PersonID: "b", Kind: attendance.KindExit, Timestamp: ts(t, "2024-03-04 10:00:00")},
	}

	out := engine.ComputeAll(map[string][]attendance.Event{"a": a, "b": b})
	assert.Empty(t, out["a"])
	assert.Empty(t, out["b"])
}

func TestEngine_ObserverAndWeek(t *testing.T) {
	var reasons []DiscardReason
	engine := NewEngine(scheduleService.NewDefaultResolver(),
		WithWeekStart(time.Sunday),
		WithObserver(func(ev attendance.Event, reason DiscardReason) {
			reasons = append(reasons, reason)
		}),
	)
	assert.Equal(t, time.Sunday, engine.WeekStart())

	items := engine.Compute([]attendance.Event{
		exit(t, "2024-03-09 07:00:00"),
		entry(t, "2024-03-10 08:00:00"),
		exit(t, "2024-03-10 09:00:00"),
	})
	assert.Equal(t, []DiscardReason{ReasonOrphanExit}, reasons)

	week := engine.Week(items, ts(t, "2024-03-13 12:00:00"))
	assert.Equal(t, overtime.Date{Year: 2024, Month: time.March, Day: 10}, week.From)
	assert.Equal(t, overtime.Split{OvertimeSeconds: 3600}, week.Total)
}

func TestPeriods(t *testing.T) {
	now := ts(t, "2024-03-13 12:00:00")

	from, to := WeekOf(now, time.Monday)
	assert.Equal(t, "2024-03-11", from.String())
	assert.Equal(t, "2024-03-18", to.String())

	from, to = MonthOf(now)
	assert.Equal(t, "2024-03-01", from.String())
	assert.Equal(t, "2024-04-01", to.String())

	from, to = TwoMonthWindow(now)
	assert.Equal(t, "2024-02-01", from.String())
	assert.Equal(t, "2024-04-01", to.String())

	from, to = TwoMonthWindow(ts(t, "2024-01-31 12:00:00"))
	assert.Equal(t, "2023-12-01", from.String())
	assert.Equal(t, "2024-02-01", to.String())
}

func TestFormatHM(t *testing.T) {
	assert.Equal(t, "0:00", overtime.FormatHM(0))
	assert.Equal(t, "9:30", overtime.FormatHM(34200))
	assert.Equal(t, "1:00", overtime.FormatHM(3659))
	assert.Equal(t, "26:05", overtime.FormatHM(26*3600+5*60))
	assert.Equal(t, "0:00", overtime.FormatHM(-10))
}
