package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/database"
)

// TimestampLayout is how presenze stores local wall-clock timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

// legacy action names written to the azione column
var storedKind = map[attendance.Kind]string{
	attendance.KindEntry: "ENTRATA",
	attendance.KindExit:  "USCITA",
}

type eventRepository struct {
	db  *database.SQLiteDB
	loc *time.Location
}

// NewEventRepository stores timestamps as wall-clock text in loc.
func NewEventRepository(db *database.SQLiteDB, loc *time.Location) attendance.EventRepository {
	if loc == nil {
		loc = time.UTC
	}
	return &eventRepository{db: db, loc: loc}
}

// Append implements attendance.EventRepository.
func (r *eventRepository) Append(ctx context.Context, event attendance.Event) (attendance.Event, error) {
	kind, ok := storedKind[event.Kind]
	if !ok {
		return attendance.Event{}, fmt.Errorf("append event: unknown kind %q", event.Kind)
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO presenze (user_id, nome, azione, timestamp, lat, lon)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		event.PersonID,
		event.PersonName,
		kind,
		event.Timestamp.In(r.loc).Format(TimestampLayout),
		event.Latitude,
		event.Longitude,
	)
	if err != nil {
		return attendance.Event{}, fmt.Errorf("failed to append event: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return attendance.Event{}, fmt.Errorf("failed to read event id: %w", err)
	}

	event.Seq = id
	event.ID = strconv.FormatInt(id, 10)
	event.Timestamp = event.Timestamp.In(r.loc).Truncate(time.Second)
	return event, nil
}

// FetchEvents implements attendance.EventRepository.
func (r *eventRepository) FetchEvents(ctx context.Context, personID string, from, to time.Time) ([]attendance.Event, error) {
	where := []string{"user_id = ?"}
	args := []interface{}{personID}

	if !from.IsZero() {
		where = append(where, "timestamp >= ?")
		args = append(args, from.In(r.loc).Format(TimestampLayout))
	}
	if !to.IsZero() {
		where = append(where, "timestamp < ?")
		args = append(args, to.In(r.loc).Format(TimestampLayout))
	}

	query := fmt.Sprintf(`
		SELECT id, user_id, nome, azione, timestamp, lat, lon
		FROM presenze
		WHERE %s
		ORDER BY timestamp ASC, id ASC
	`, strings.Join(where, " AND "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}
	defer rows.Close()

	return r.scanEvents(rows)
}

// FetchPeople implements attendance.EventRepository.
func (r *eventRepository) FetchPeople(ctx context.Context) ([]attendance.Person, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.user_id, COALESCE(p.nome, '')
		FROM presenze p
		WHERE p.id = (SELECT MAX(id) FROM presenze WHERE user_id = p.user_id)
		ORDER BY p.nome ASC, p.user_id ASC
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
func (r *eventRepository) FetchAll(ctx context.Context) ([]attendance.Event, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, nome, azione, timestamp, lat, lon
		FROM presenze
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}
	defer rows.Close()

	return r.scanEvents(rows)
}

func (r *eventRepository) scanEvents(rows *sql.Rows) ([]attendance.Event, error) {
	var events []attendance.Event
	for rows.Next() {
		var (
			seq       int64
			personID  string
			name      sql.NullString
			action    string
			timestamp string
			lat, lon  sql.NullFloat64
		)
		if err := rows.Scan(&seq, &personID, &name, &action, &timestamp, &lat, &lon); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}

		id := strconv.FormatInt(seq, 10)
		kind, ok := attendance.ParseKind(action)
		if !ok {
			return nil, &attendance.MalformedEventError{
				EventID: id,
				Field:   "kind",
				Value:   action,
				Err:     fmt.Errorf("expected one of %s", strings.Join(attendance.KindValues, ", ")),
			}
		}

		ts, err := time.ParseInLocation(TimestampLayout, timestamp, r.loc)
		if err != nil {
			return nil, &attendance.MalformedEventError{
				EventID: id,
				Field:   "timestamp",
				Value:   timestamp,
				Err:     err,
			}
		}

		ev := attendance.Event{
			ID:         id,
			Seq:        seq,
			PersonID:   personID,
			PersonName: name.String,
			Kind:       kind,
			Timestamp:  ts,
		}
		if lat.Valid {
			ev.Latitude = &lat.Float64
		}
		if lon.Valid {
			ev.Longitude = &lon.Float64
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
