package report

import (
	"context"
	"io"

	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/storage"
)

// Storage directories of the generated files
const (
	DirEvents   = "events"
	DirTeamWeek = "team-week"
)

// ReportService defines multi-person summaries and file exports
type ReportService interface {
	// TeamWeek summarizes every known person over the week containing the requested date
	TeamWeek(ctx context.Context, req TeamWeekRequest) (TeamReport, error)

	// TeamMonth summarizes every known person over a calendar month
	TeamMonth(ctx context.Context, req TeamMonthRequest) (TeamReport, error)

	// ExportEvents dumps the raw event log to storage
	ExportEvents(ctx context.Context, req ExportRequest) (ExportResponse, error)

	// ExportTeamWeek writes the TeamWeek report to storage
	ExportTeamWeek(ctx context.Context, req ExportRequest) (ExportResponse, error)

	// ListExports returns stored export files, newest first
	ListExports(ctx context.Context) ([]storage.FileInfo, error)

	// OpenExport opens a stored export file
	OpenExport(ctx context.Context, path string) (io.ReadCloser, error)
}
