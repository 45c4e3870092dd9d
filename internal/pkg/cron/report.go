package cron

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/overtime"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/export"
)

// ReportJobs writes periodic report exports
type ReportJobs struct {
	reportService report.ReportService
	loc           *time.Location
	weekStart     time.Weekday
	now           func() time.Time

	mu           sync.Mutex
	lastExported overtime.Date
}

func NewReportJobs(reportService report.ReportService, loc *time.Location, weekStart time.Weekday) *ReportJobs {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportJobs{
		reportService: reportService,
		loc:           loc,
		weekStart:     weekStart,
		now:           time.Now,
	}
}

// RegisterJobs registers all report cron jobs
func (j *ReportJobs) RegisterJobs(scheduler *Scheduler) {
	// Export last week's team report once the new week has begun (check every hour)
	scheduler.AddJob("weekly_team_export", 1*time.Hour, j.WeeklyTeamExport)
}

// WeeklyTeamExport exports the previous week's team report on the first tick
// of each week. A failed export is retried on the next tick, and a week that
// already has a file in storage is not exported again.
func (j *ReportJobs) WeeklyTeamExport(ctx context.Context) error {
	now := j.now().In(j.loc)
	week := overtime.DateOf(now).WeekStart(j.weekStart)

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.lastExported == week {
		return nil
	}

	previous := week.AddDays(-7).String()

	files, err := j.reportService.ListExports(ctx)
	if err != nil {
		return fmt.Errorf("failed to list exports: %w", err)
	}
	prefix := path.Join(report.DirTeamWeek, previous) + "-"
	for _, f := range files {
		if strings.HasPrefix(f.Path, prefix) {
			j.lastExported = week
			slog.Debug("Cron: Weekly team export already present", "path", f.Path)
			return nil
		}
	}

	slog.Info("Cron: Starting weekly team export job", "week", previous)

	resp, err := j.reportService.ExportTeamWeek(ctx, report.ExportRequest{
		Format: export.FormatCSV,
		Date:   &previous,
	})
	if err != nil {
		return fmt.Errorf("failed to export team week: %w", err)
	}
	j.lastExported = week

	slog.Info("Cron: Weekly team export written", "path", resp.Path, "people", resp.Rows)
	return nil
}
