package overtime

import (
	"log/slog"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/overtime"
)

// Engine bundles the pairing and splitting policy. It holds no mutable
// state and may be shared between goroutines.
type Engine struct {
	resolver  WindowResolver
	weekStart time.Weekday
	observer  PairObserver
}

type Option func(*Engine)

// WithObserver reports discarded events to fn.
func WithObserver(fn PairObserver) Option {
	return func(e *Engine) {
		e.observer = fn
	}
}

// WithWeekStart changes the first day of weekly buckets (Monday by default).
func WithWeekStart(day time.Weekday) Option {
	return func(e *Engine) {
		e.weekStart = day
	}
}

func NewEngine(resolver WindowResolver, opts ...Option) *Engine {
	e := &Engine{
		resolver:  resolver,
		weekStart: time.Monday,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) WeekStart() time.Weekday {
	return e.weekStart
}

// Compute pairs one person's events and splits every session.
func (e *Engine) Compute(events []attendance.Event) []overtime.Accounted {
	return Account(PairWithObserver(events, e.observer), e.resolver)
}

// ComputeAll runs Compute for each person's events independently.
func (e *Engine) ComputeAll(eventsByPerson map[string][]attendance.Event) map[string][]overtime.Accounted {
	out := make(map[string][]overtime.Accounted, len(eventsByPerson))
	for personID, events := range eventsByPerson {
		out[personID] = e.Compute(events)
	}
	return out
}

// Week aggregates items over the week containing now.
func (e *Engine) Week(items []overtime.Accounted, now time.Time) overtime.RangeTotal {
	from, to := WeekOf(now, e.weekStart)
	return ByRange(items, from, to)
}

// LogDiscards returns an observer that logs each dropped event at debug level.
func LogDiscards(logger *slog.Logger) PairObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ev attendance.Event, reason DiscardReason) {
		logger.Debug("attendance event discarded",
			"event_id", ev.ID,
			"person_id", ev.PersonID,
			"kind", string(ev.Kind),
			"timestamp", ev.Timestamp,
			"reason", string(reason),
		)
	}
}
