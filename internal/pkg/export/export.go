package export

import (
	"fmt"
	"io"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
)

// Supported export formats
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

var Formats = []string{FormatCSV, FormatJSON}

// ContentType returns the MIME type served for format.
func ContentType(format string) string {
	if format == FormatJSON {
		return "application/json"
	}
	return "text/csv"
}

// Events writes events in the requested format.
func Events(w io.Writer, format string, events []attendance.Event, exportedAt time.Time) error {
	switch format {
	case FormatCSV:
		return EventsCSV(w, events)
	case FormatJSON:
		return EventsJSON(w, events, exportedAt)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// Periods writes per-person aggregates in the requested format.
func Periods(w io.Writer, format string, periods []PersonPeriod, exportedAt time.Time) error {
	switch format {
	case FormatCSV:
		return PeriodsCSV(w, periods)
	case FormatJSON:
		return PeriodsJSON(w, periods, exportedAt)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}
