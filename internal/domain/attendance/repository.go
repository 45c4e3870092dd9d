package attendance

import (
	"context"
	"time"
)

// EventRepository is the append-only event log.
// Fetch methods return events ordered by timestamp, then by insertion order.
type EventRepository interface {
	// Append stores a new event and returns it with ID and Seq populated
	Append(ctx context.Context, event Event) (Event, error)

	// FetchEvents returns the events of one person with from <= timestamp < to.
	// A zero from or to leaves that side of the range open.
	FetchEvents(ctx context.Context, personID string, from, to time.Time) ([]Event, error)

	// FetchPeople returns every distinct person that has at least one event
	FetchPeople(ctx context.Context) ([]Person, error)

	// FetchAll returns the whole log in insertion order, used for raw exports
	FetchAll(ctx context.Context) ([]Event, error)
}
