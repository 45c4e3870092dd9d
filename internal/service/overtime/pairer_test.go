package overtime

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/overtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLoc = time.FixedZone("CET", 3600)

func ts(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.ParseInLocation("2006-01-02 15:04:05", s, testLoc)
	require.NoError(t, err)
	return v
}

func entry(t *testing.T, s string) attendance.Event {
	return attendance.Event{PersonID: "p1", Kind: attendance.KindEntry, Timestamp: ts(t, s)}
}

func exit(t *testing.T, s string) attendance.Event {
	return attendance.Event{PersonID: "p1", Kind: attendance.KindExit, Timestamp: ts(t, s)}
}

func TestPair_SimpleSession(t *testing.T) {
	sessions := Pair([]attendance.Event{
		entry(t, "2024-03-04 06:30:00"),
		exit(t, "2024-03-04 17:00:00"),
	})

	require.Len(t, sessions, 1)
	assert.Equal(t, "p1", sessions[0].PersonID)
	assert.Equal(t, ts(t, "2024-03-04 06:30:00"), sessions[0].Start)
	assert.Equal(t, ts(t, "2024-03-04 17:00:00"), sessions[0].End)
	assert.Equal(t, int64(37800), sessions[0].Seconds())
}

func TestPair_DuplicateEntryReplacesOpenEntry(t *testing.T) {
	var discarded []DiscardReason
	sessions := PairWithObserver([]attendance.Event{
		entry(t, "2024-03-04 09:00:00"),
		entry(t, "2024-03-04 10:00:00"),
		exit(t, "2024-03-04 11:00:00"),
	}, func(ev attendance.Event, reason DiscardReason) {
		discarded = append(discarded, reason)
	})

	require.Len(t, sessions, 1)
	assert.Equal(t, ts(t, "2024-03-04 10:00:00"), sessions[0].Start)
	assert.Equal(t, ts(t, "2024-03-04 11:00:00"), sessions[0].End)
	assert.Equal(t, []DiscardReason{ReasonReplacedEntry}, discarded)
}

func TestPair_OrphanExit(t *testing.T) {
	var discarded []DiscardReason
	sessions := PairWithObserver([]attendance.Event{
		exit(t, "2024-03-04 09:00:00"),
	}, func(ev attendance.Event, reason DiscardReason) {
		discarded = append(discarded, reason)
	})

	assert.Empty(t, sessions)
	assert.Equal(t, []DiscardReason{ReasonOrphanExit}, discarded)
}

func TestPair_CrossMidnightDiscarded(t *testing.T) {
	var discarded []DiscardReason
	sessions := PairWithObserver([]attendance.Event{
		entry(t, "2024-03-04 23:00:00"),
		exit(t, "2024-03-05 01:00:00"),
	}, func(ev attendance.Event, reason DiscardReason) {
		discarded = append(discarded, reason)
	})

	assert.Empty(t, sessions)
	assert.Equal(t, []DiscardReason{ReasonCrossMidnight}, discarded)
}

func TestPair_CrossMidnightClearsOpenEntry(t *testing.T) {
	sessions := Pair([]attendance.Event{
		entry(t, "2024-03-04 23:00:00"),
		exit(t, "2024-03-05 01:00:00"),
		exit(t, "2024-03-05 02:00:00"),
	})

	assert.Empty(t, sessions)
}

func TestPair_NonPositiveDurationDiscarded(t *testing.T) {
	var discarded []DiscardReason
	sessions := PairWithObserver([]attendance.Event{
		entry(t, "2024-03-04 09:00:00"),
		exit(t, "2024-03-04 09:00:00"),
		exit(t, "2024-03-04 10:00:00"),
	}, func(ev attendance.Event, reason DiscardReason) {
		discarded = append(discarded, reason)
	})

	assert.Empty(t, sessions)
	assert.Equal(t, []DiscardReason{ReasonNonPositive, ReasonOrphanExit}, discarded)
}

func TestPair_UnmatchedEntryAtEnd(t *testing.T) {
	var discarded []DiscardReason
	sessions := PairWithObserver([]attendance.Event{
		entry(t, "2024-03-04 08:00:00"),
		exit(t, "2024-03-04 12:00:00"),
		entry(t, "2024-03-04 13:00:00"),
	}, func(ev attendance.Event, reason DiscardReason) {
		discarded = append(discarded, reason)
	})

	require.Len(t, sessions, 1)
	assert.Equal(t, []DiscardReason{ReasonUnmatchedEntry}, discarded)
}

func TestPair_UnknownKindIgnored(t *testing.T) {
	sessions := Pair([]attendance.Event{
		entry(t, "2024-03-04 08:00:00"),
		{PersonID: "p1", Kind: attendance.Kind("BREAK"), Timestamp: ts(t, "2024-03-04 10:00:00")},
		exit(t, "2024-03-04 12:00:00"),
	})

	require.Len(t, sessions, 1)
	assert.Equal(t, int64(4*3600), sessions[0].Seconds())
}

func TestPair_TruncatesSubSecondPrecision(t *testing.T) {
	start := ts(t, "2024-03-04 08:00:00").Add(700 * time.Millisecond)
	end := ts(t, "2024-03-04 09:00:00").Add(200 * time.Millisecond)
	sessions := Pair([]attendance.Event{
		{PersonID: "p1", Kind: attendance.KindEntry, Timestamp: start},
		{PersonID: "p1", Kind: attendance.KindExit, Timestamp: end},
	})

	require.Len(t, sessions, 1)
	assert.Equal(t, 0, sessions[0].Start.Nanosecond())
	assert.Equal(t, int64(3600), sessions[0].Seconds())
}

func TestPair_SubSecondPairIsNonPositive(t *testing.T) {
	start := ts(t, "2024-03-04 08:00:00").Add(100 * time.Millisecond)
	end := ts(t, "2024-03-04 08:00:00").Add(900 * time.Millisecond)
	sessions := Pair([]attendance.Event{
		{PersonID: "p1", Kind: attendance.KindEntry, Timestamp: start},
		{PersonID: "p1", Kind: attendance.KindExit, Timestamp: end},
	})

	assert.Empty(t, sessions)
}

func TestPair_TiesKeepLogOrder(t *testing.T) {
	// EXIT logged before a simultaneous ENTRY closes the earlier session
	sessions := Pair([]attendance.Event{
		entry(t, "2024-03-04 08:00:00"),
		exit(t, "2024-03-04 12:00:00"),
		entry(t, "2024-03-04 12:00:00"),
		exit(t, "2024-03-04 13:00:00"),
	})

	require.Len(t, sessions, 2)
	assert.Equal(t, int64(4*3600), sessions[0].Seconds())
	assert.Equal(t, int64(3600), sessions[1].Seconds())
}

func TestPair_TiesFollowSeqNotSliceOrder(t *testing.T) {
	withSeq := func(ev attendance.Event, seq int64) attendance.Event {
		ev.Seq = seq
		return ev
	}

	// the 12:00 EXIT was logged before the 12:00 ENTRY even though the slice has them swapped
	sessions := Pair([]attendance.Event{
		withSeq(entry(t, "2024-03-04 08:00:00"), 1),
		withSeq(entry(t, "2024-03-04 12:00:00"), 3),
		withSeq(exit(t, "2024-03-04 12:00:00"), 2),
		withSeq(exit(t, "2024-03-04 13:00:00"), 4),
	})

	require.Len(t, sessions, 2)
	assert.Equal(t, int64(4*3600), sessions[0].Seconds())
	assert.Equal(t, int64(3600), sessions[1].Seconds())
}

func TestPair_UnsortedInputIsOrderedFirst(t *testing.T) {
	sessions := Pair([]attendance.Event{
		exit(t, "2024-03-04 12:00:00"),
		entry(t, "2024-03-04 08:00:00"),
	})

	require.Len(t, sessions, 1)
	assert.Equal(t, int64(4*3600), sessions[0].Seconds())
}

func TestPair_DoesNotMutateInput(t *testing.T) {
	events := []attendance.Event{
		exit(t, "2024-03-04 12:00:00"),
		entry(t, "2024-03-04 08:00:00"),
	}
	_ = Pair(events)

	assert.Equal(t, attendance.KindExit, events[0].Kind)
	assert.Equal(t, attendance.KindEntry, events[1].Kind)
}

func TestPair_SessionsAreWithinDayAndPositive(t *testing.T) {
	events := []attendance.Event{
		exit(t, "2024-03-03 07:00:00"),
		entry(t, "2024-03-04 06:00:00"),
		entry(t, "2024-03-04 07:00:00"),
		exit(t, "2024-03-04 12:00:00"),
		exit(t, "2024-03-04 12:30:00"),
		entry(t, "2024-03-04 13:00:00"),
		exit(t, "2024-03-04 18:00:00"),
		entry(t, "2024-03-04 22:00:00"),
		exit(t, "2024-03-05 02:00:00"),
		entry(t, "2024-03-05 08:00:00"),
		exit(t, "2024-03-05 08:00:00"),
		entry(t, "2024-03-06 09:00:00"),
		exit(t, "2024-03-06 17:00:00"),
		entry(t, "2024-03-07 09:00:00"),
	}

	sessions := Pair(events)
	require.Len(t, sessions, 3)

	var prevEnd time.Time
	for _, s := range sessions {
		assert.True(t, s.End.After(s.Start), "session must have positive duration")
		assert.Equal(t, overtime.DateOf(s.Start), overtime.DateOf(s.End), "session must not cross midnight")
		assert.False(t, s.Start.Before(prevEnd), "sessions must not overlap")
		prevEnd = s.End
	}
}

func TestPair_Empty(t *testing.T) {
	assert.Empty(t, Pair(nil))
}
