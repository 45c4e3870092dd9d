package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type eventRepository struct {
	db  *database.DB
	loc *time.Location
}

// NewEventRepository stores occurred_at as wall-clock time in loc.
func NewEventRepository(db *database.DB, loc *time.Location) attendance.EventRepository {
	if loc == nil {
		loc = time.UTC
	}
	return &eventRepository{db: db, loc: loc}
}

// Append implements attendance.EventRepository.
func (e *eventRepository) Append(ctx context.Context, event attendance.Event) (attendance.Event, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Event{}, fmt.Errorf("failed to generate event id: %w", err)
	}
	event.ID = id.String()
	event.Timestamp = event.Timestamp.In(e.loc).Truncate(time.Second)

	err = WithTransaction(ctx, e.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, e.db)

		_, err := q.Exec(ctx, `
			INSERT INTO people (id, name)
			VALUES ($1, $2)
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, updated_at = NOW()
		`, event.PersonID, event.PersonName)
		if err != nil {
			return fmt.Errorf("failed to upsert person: %w", err)
		}

		return q.QueryRow(ctx, `
			INSERT INTO attendance_events (id, person_id, kind, occurred_at, latitude, longitude)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING seq
		`,
			event.ID,
			event.PersonID,
			string(event.Kind),
			event.Timestamp,
			event.Latitude,
			event.Longitude,
		).Scan(&event.Seq)
	})
	if err != nil {
		return attendance.Event{}, fmt.Errorf("failed to append event: %w", err)
	}

	return event, nil
}

// FetchEvents implements attendance.EventRepository.
func (e *eventRepository) FetchEvents(ctx context.Context, personID string, from, to time.Time) ([]attendance.Event, error) {
	q := GetQuerier(ctx, e.db)

	where := "ev.person_id = $1"
	args := []interface{}{personID}
	argIdx := 2

	if !from.IsZero() {
		where += fmt.Sprintf(" AND ev.occurred_at >= $%d", argIdx)
		args = append(args, from.In(e.loc))
		argIdx++
	}
	if !to.IsZero() {
		where += fmt.Sprintf(" AND ev.occurred_at < $%d", argIdx)
		args = append(args, to.In(e.loc))
	}

	query := fmt.Sprintf(`
		SELECT ev.seq, ev.id, ev.person_id, p.name, ev.kind, ev.occurred_at, ev.latitude, ev.longitude
		FROM attendance_events ev
		JOIN people p ON p.id = ev.person_id
		WHERE %s
		ORDER BY ev.occurred_at ASC, ev.seq ASC
	`, where)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}
	defer rows.Close()

	return e.scanEvents(rows)
}

// FetchPeople implements attendance.EventRepository.
func (e *eventRepository) FetchPeople(ctx context.Context) ([]attendance.Person, error) {
	q := GetQuerier(ctx, e.db)

	rows, err := q.Query(ctx, `
		SELECT p.id, p.name
		FROM people p
		WHERE EXISTS (SELECT 1 FROM attendance_events ev WHERE ev.person_id = p.id)
		ORDER BY p.name ASC, p.id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch people: %w", err)
	}
	defer rows.Close()

	var people []attendance.Person
	for rows.Next() {
		var p attendance.Person
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		people = append(people, p)
	}
	return people, rows.Err()
}

// FetchAll implements attendance.EventRepository.
func (e *eventRepository) FetchAll(ctx context.Context) ([]attendance.Event, error) {
	q := GetQuerier(ctx, e.db)

	rows, err := q.Query(ctx, `
		SELECT ev.seq, ev.id, ev.person_id, p.name, ev.kind, ev.occurred_at, ev.latitude, ev.longitude
		FROM attendance_events ev
		JOIN people p ON p.id = ev.person_id
		ORDER BY ev.seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}
	defer rows.Close()

	return e.scanEvents(rows)
}

func (e *eventRepository) scanEvents(rows pgx.Rows) ([]attendance.Event, error) {
	var events []attendance.Event
	for rows.Next() {
		var (
			ev         attendance.Event
			kind       string
			occurredAt time.Time
		)
		if err := rows.Scan(&ev.Seq, &ev.ID, &ev.PersonID, &ev.PersonName, &kind, &occurredAt, &ev.Latitude, &ev.Longitude); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}

		parsed, ok := attendance.ParseKind(kind)
		if !ok {
			return nil, &attendance.MalformedEventError{
				EventID: ev.ID,
				Field:   "kind",
				Value:   kind,
				Err:     fmt.Errorf("expected one of %s", strings.Join(attendance.KindValues, ", ")),
			}
		}
		ev.Kind = parsed

		// occurred_at has no zone; re-read its wall clock in the configured location
		ev.Timestamp = time.Date(
			occurredAt.Year(), occurredAt.Month(), occurredAt.Day(),
			occurredAt.Hour(), occurredAt.Minute(), occurredAt.Second(), 0,
			e.loc,
		)
		events = append(events, ev)
	}
	return events, rows.Err()
}
