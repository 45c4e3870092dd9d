package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLoc = time.FixedZone("CET", 3600)

func newTestRepo(t *testing.T) (*database.SQLiteDB, attendance.EventRepository) {
	t.Helper()
	db, err := database.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, NewEventRepository(db, testLoc)
}

func at(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.ParseInLocation(TimestampLayout, s, testLoc)
	require.NoError(t, err)
	return v
}

func appendEvent(t *testing.T, repo attendance.EventRepository, personID, name string, kind attendance.Kind, ts string) attendance.Event {
	t.Helper()
	lat, lon := 41.86, 12.84
	ev, err := repo.Append(context.Background(), attendance.Event{
		PersonID:   personID,
		PersonName: name,
		Kind:       kind,
		Timestamp:  at(t, ts),
		Latitude:   &lat,
		Longitude:  &lon,
	})
	require.NoError(t, err)
	return ev
}

func TestEventRepository_AppendAndFetch(t *testing.T) {
	ctx := context.Background()
	_, repo := newTestRepo(t)

	first := appendEvent(t, repo, "42", "Mario Rossi", attendance.KindEntry, "2024-03-04 06:30:00")
	appendEvent(t, repo, "42", "Mario Rossi", attendance.KindExit, "2024-03-04 17:00:00")
	appendEvent(t, repo, "7", "Anna Bianchi", attendance.KindEntry, "2024-03-04 08:00:00")

	assert.Equal(t, "1", first.ID)
	assert.Equal(t, int64(1), first.Seq)

	events, err := repo.FetchEvents(ctx, "42", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, attendance.KindEntry, events[0].Kind)
	assert.Equal(t, attendance.KindExit, events[1].Kind)
	assert.True(t, events[0].Timestamp.Equal(at(t, "2024-03-04 06:30:00")))
	assert.Equal(t, "Mario Rossi", events[0].PersonName)
	require.NotNil(t, events[0].Latitude)
	assert.InDelta(t, 41.86, *events[0].Latitude, 1e-9)
}

func TestEventRepository_FetchEventsRange(t *testing.T) {
	ctx := context.Background()
	_, repo := newTestRepo(t)

	appendEvent(t, repo, "42", "Mario", attendance.KindEntry, "2024-03-03 08:00:00")
	appendEvent(t, repo, "42", "Mario", attendance.KindEntry, "2024-03-04 00:00:00")
	appendEvent(t, repo, "42", "Mario", attendance.KindExit, "2024-03-04 23:59:59")
	appendEvent(t, repo, "42", "Mario", attendance.KindEntry, "2024-03-05 00:00:00")

	events, err := repo.FetchEvents(ctx, "42", at(t, "2024-03-04 00:00:00"), at(t, "2024-03-05 00:00:00"))
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "2", events[0].ID)
	assert.Equal(t, "3", events[1].ID)

	events, err = repo.FetchEvents(ctx, "42", at(t, "2024-03-04 12:00:00"), time.Time{})
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestEventRepository_TiesKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()
	_, repo := newTestRepo(t)

	appendEvent(t, repo, "42", "Mario", attendance.KindExit, "2024-03-04 12:00:00")
	appendEvent(t, repo, "42", "Mario", attendance.KindEntry, "2024-03-04 12:00:00")

	events, err := repo.FetchEvents(ctx, "42", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, attendance.KindExit, events[0].Kind)
	assert.Equal(t, attendance.KindEntry, events[1].Kind)
}

func TestEventRepository_FetchPeople(t *testing.T) {
	ctx := context.Background()
	_, repo := newTestRepo(t)

	appendEvent(t, repo, "42", "Mario", attendance.KindEntry, "2024-03-04 08:00:00")
	appendEvent(t, repo, "7", "Anna", attendance.KindEntry, "2024-03-04 08:00:00")
	appendEvent(t, repo, "42", "Mario Rossi", attendance.KindExit, "2024-03-04 12:00:00")

	people, err := repo.FetchPeople(ctx)
	require.NoError(t, err)
	assert.Equal(t, []attendance.Person{
		{ID: "7", Name: "Anna"},
		{ID: "42", Name: "Mario Rossi"},
	}, people)
}

func TestEventRepository_FetchAll(t *testing.T) {
	ctx := context.Background()
	_, repo := newTestRepo(t)

	appendEvent(t, repo, "42", "Mario", attendance.KindEntry, "2024-03-05 08:00:00")
	appendEvent(t, repo, "7", "Anna", attendance.KindEntry, "2024-03-04 08:00:00")

	events, err := repo.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "42", events[0].PersonID)
	assert.Equal(t, "7", events[1].PersonID)
}

func TestEventRepository_ReadsLegacyRows(t *testing.T) {
	ctx := context.Background()
	db, repo := newTestRepo(t)

	_, err := db.Exec(`INSERT INTO presenze (user_id, nome, azione, timestamp, lat, lon) VALUES (123456, 'Luca', 'ENTRATA', '2024-03-04 07:00:00', NULL, NULL)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO presenze (user_id, nome, azione, timestamp, lat, lon) VALUES (123456, 'Luca', 'EXIT', '2024-03-04 15:00:00', NULL, NULL)`)
	require.NoError(t, err)

	events, err := repo.FetchEvents(ctx, "123456", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, attendance.KindEntry, events[0].Kind)
	assert.Equal(t, attendance.KindExit, events[1].Kind)
	assert.Nil(t, events[0].Latitude)
}

func TestEventRepository_MalformedTimestamp(t *testing.T) {
	ctx := context.Background()
	db, repo := newTestRepo(t)

	_, err := db.Exec(`INSERT INTO presenze (user_id, nome, azione, timestamp) VALUES ('42', 'Mario', 'ENTRATA', '04/03/2024 07:00')`)
	require.NoError(t, err)

	_, err = repo.FetchEvents(ctx, "42", time.Time{}, time.Time{})
	require.Error(t, err)
	assert.ErrorIs(t, err, attendance.ErrMalformedEvent)

	var malformed *attendance.MalformedEventError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "timestamp", malformed.Field)
	assert.Equal(t, "1", malformed.EventID)
}

func TestEventRepository_MalformedKind(t *testing.T) {
	ctx := context.Background()
	db, repo := newTestRepo(t)

	_, err := db.Exec(`INSERT INTO presenze (user_id, nome, azione, timestamp) VALUES ('42', 'Mario', 'PAUSA', '2024-03-04 07:00:00')`)
	require.NoError(t, err)

	_, err = repo.FetchAll(ctx)
	var malformed *attendance.MalformedEventError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "kind", malformed.Field)
}

func TestEventRepository_AppendUnknownKind(t *testing.T) {
	_, repo := newTestRepo(t)

	_, err := repo.Append(context.Background(), attendance.Event{PersonID: "42", Kind: "BREAK", Timestamp: time.Now()})
	assert.Error(t, err)
}
