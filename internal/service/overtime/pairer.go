package overtime

import (
	"cmp"
	"slices"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/overtime"
)

// DiscardReason says why an event produced no session.
type DiscardReason string

const (
	ReasonReplacedEntry  DiscardReason = "replaced_entry"
	ReasonOrphanExit     DiscardReason = "orphan_exit"
	ReasonCrossMidnight  DiscardReason = "cross_midnight"
	ReasonNonPositive    DiscardReason = "non_positive"
	ReasonUnmatchedEntry DiscardReason = "unmatched_entry"
	ReasonUnknownKind    DiscardReason = "unknown_kind"
)

// PairObserver is told about every event the pairer drops.
type PairObserver func(event attendance.Event, reason DiscardReason)

type pairState int

const (
	stateIdle pairState = iota
	stateAwaitingExit
)

// Pair turns one person's event log into work sessions. Malformed sequences
// are dropped silently.
func Pair(events []attendance.Event) []overtime.Session {
	return PairWithObserver(events, nil)
}

// PairWithObserver is Pair with a hook for discarded events.
//
// Events are taken in timestamp order, ties in log order (Seq).
// Only one entry can be open at a time: a second ENTRY replaces the first,
// an EXIT without an open entry is dropped, and a pair is dropped when the
// EXIT falls on another calendar date or is not after the ENTRY. An entry
// still open at the end of the input produces nothing.
func PairWithObserver(events []attendance.Event, observe PairObserver) []overtime.Session {
	discard := func(ev attendance.Event, reason DiscardReason) {
		if observe != nil {
			observe(ev, reason)
		}
	}

	ordered := slices.Clone(events)
	slices.SortStableFunc(ordered, func(a, b attendance.Event) int {
		if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
			return c
		}
		return cmp.Compare(a.Seq, b.Seq)
	})

	var (
		state    = stateIdle
		open     attendance.Event
		sessions []overtime.Session
	)

	for _, ev := range ordered {
		ev.Timestamp = ev.Timestamp.Truncate(time.Second)

		switch ev.Kind {
		case attendance.KindEntry:
			if state == stateAwaitingExit {
				discard(open, ReasonReplacedEntry)
			}
			open = ev
			state = stateAwaitingExit

		case attendance.KindExit:
			if state == stateIdle {
				discard(ev, ReasonOrphanExit)
				continue
			}
			state = stateIdle

			exitAt := ev.Timestamp.In(open.Timestamp.Location())
			switch {
			case overtime.DateOf(exitAt) != overtime.DateOf(open.Timestamp):
				discard(ev, ReasonCrossMidnight)
			case !exitAt.After(open.Timestamp):
				discard(ev, ReasonNonPositive)
			default:
				sessions = append(sessions, overtime.Session{
					PersonID: open.PersonID,
					Start:    open.Timestamp,
					End:      exitAt,
				})
			}

		default:
			discard(ev, ReasonUnknownKind)
		}
	}

	if state == stateAwaitingExit {
		discard(open, ReasonUnmatchedEntry)
	}

	return sessions
}
