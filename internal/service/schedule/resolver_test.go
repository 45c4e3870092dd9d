package schedule

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/overtime"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultResolver(t *testing.T) {
	r := NewDefaultResolver()

	cases := []struct {
		date  string
		ok    bool
		start string
		end   string
	}{
		{"2024-03-04", true, "07:00", "16:30"}, // Monday
		{"2024-03-08", true, "07:00", "16:30"}, // Friday
		{"2024-03-09", true, "07:30", "13:00"}, // Saturday
		{"2024-03-10", false, "", ""},          // Sunday
	}

	for _, c := range cases {
		t.Run(c.date, func(t *testing.T) {
			d, err := overtime.ParseDate(c.date)
			require.NoError(t, err)

			w, ok := r.StandardWindow(d)
			assert.Equal(t, c.ok, ok)
			if c.ok {
				assert.Equal(t, c.start, w.Start.String())
				assert.Equal(t, c.end, w.End.String())
			}
		})
	}
}

func TestNewResolver_CopiesPolicy(t *testing.T) {
	policy := schedule.DefaultPolicy()
	r := NewResolver(policy)
	delete(policy, time.Monday)

	_, ok := r.StandardWindow(overtime.Date{Year: 2024, Month: time.March, Day: 4})
	assert.True(t, ok)

	copied := r.Policy()
	delete(copied, time.Tuesday)
	_, ok = r.StandardWindow(overtime.Date{Year: 2024, Month: time.March, Day: 5})
	assert.True(t, ok)
}

func TestParsePolicy(t *testing.T) {
	policy, err := ParsePolicy([]byte(`
windows:
  Monday: {start: "08:00", end: "17:00"}
  sunday: {start: "09:00", end: "12:30"}
`))
	require.NoError(t, err)
	require.Len(t, policy, 2)
	assert.Equal(t, schedule.Window{Start: schedule.At(8, 0), End: schedule.At(17, 0)}, policy[time.Monday])
	assert.Equal(t, schedule.Window{Start: schedule.At(9, 0), End: schedule.At(12, 30)}, policy[time.Sunday])

	r := NewResolver(policy)
	_, ok := r.StandardWindow(overtime.Date{Year: 2024, Month: time.March, Day: 9})
	assert.False(t, ok, "saturday left out of the file has no window")
}

func TestParsePolicy_Errors(t *testing.T) {
	cases := map[string]struct {
		doc  string
		want error
	}{
		"unknown weekday": {"windows:\n  funday: {start: \"08:00\", end: \"17:00\"}\n", schedule.ErrUnknownWeekday},
		"bad time":        {"windows:\n  monday: {start: \"8am\", end: \"17:00\"}\n", schedule.ErrInvalidTimeOfDay},
		"empty window":    {"windows:\n  monday: {start: \"17:00\", end: \"08:00\"}\n", schedule.ErrEmptyWindow},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParsePolicy([]byte(c.doc))
			assert.ErrorIs(t, err, c.want)
		})
	}

	_, err := ParsePolicy([]byte("windows: [1, 2"))
	assert.Error(t, err)
}

func TestLoadPolicy(t *testing.T) {
	policy, err := LoadPolicy("")
	require.NoError(t, err)
	assert.Equal(t, schedule.DefaultPolicy(), policy)

	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("windows:\n  friday: {start: \"07:00\", end: \"13:00\"}\n"), 0o644))

	policy, err = LoadPolicy(path)
	require.NoError(t, err)
	assert.Len(t, policy, 1)

	_, err = LoadPolicy(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseWeekday(t *testing.T) {
	day, err := ParseWeekday(" Sunday ")
	require.NoError(t, err)
	assert.Equal(t, time.Sunday, day)

	_, err = ParseWeekday("lunedi")
	assert.ErrorIs(t, err, schedule.ErrUnknownWeekday)
}

func TestTimeOfDay(t *testing.T) {
	tod, err := schedule.ParseTimeOfDay("07:30:15")
	require.NoError(t, err)
	assert.Equal(t, schedule.TimeOfDay(7*3600+30*60+15), tod)
	assert.Equal(t, "07:30:15", tod.String())
	assert.Equal(t, "16:30", schedule.At(16, 30).String())
}
