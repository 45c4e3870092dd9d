package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/overtime"
)

const timestampLayout = "2006-01-02 15:04:05"

// PersonPeriod is one person's aggregate over a date range.
type PersonPeriod struct {
	Person attendance.Person
	Period overtime.RangeTotal
}

// EventsCSV writes the raw event log, one row per event in the given order.
func EventsCSV(w io.Writer, events []attendance.Event) error {
	cw := csv.NewWriter(w)

	// Header
	if err := cw.Write([]string{"ID", "Person ID", "Name", "Kind", "Timestamp", "Latitude", "Longitude"}); err != nil {
		return err
	}

	for _, e := range events {
		row := []string{
			e.ID,
			e.PersonID,
			e.PersonName,
			string(e.Kind),
			e.Timestamp.Format(timestampLayout),
			formatCoord(e.Latitude),
			formatCoord(e.Longitude),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// PeriodsCSV writes one row per person and worked day, followed by a TOTAL
// row for each person.
func PeriodsCSV(w io.Writer, periods []PersonPeriod) error {
	cw := csv.NewWriter(w)

	header := []string{"Person ID", "Name", "Date", "Day", "Sessions", "Normal (s)", "Overtime (s)", "Normal", "Overtime"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, p := range periods {
		for _, day := range p.Period.SortedDays() {
			row := splitRow(p.Person, day.Date.String(), day.Date.Weekday().String(), day.Sessions, day.Split)
			if err := cw.Write(row); err != nil {
				return err
			}
		}

		sessions := 0
		for _, day := range p.Period.Days {
			sessions += day.Sessions
		}
		total := splitRow(p.Person, "TOTAL", fmt.Sprintf("%s..%s", p.Period.From, p.Period.To), sessions, p.Period.Total)
		if err := cw.Write(total); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func splitRow(person attendance.Person, date, day string, sessions int, s overtime.Split) []string {
	return []string{
		person.ID,
		person.Name,
		date,
		day,
		strconv.Itoa(sessions),
		strconv.FormatInt(s.NormalSeconds, 10),
		strconv.FormatInt(s.OvertimeSeconds, 10),
		overtime.FormatHM(s.NormalSeconds),
		overtime.FormatHM(s.OvertimeSeconds),
	}
}

func formatCoord(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
