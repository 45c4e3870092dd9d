package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	domainOvertime "github.com/cmlabs-hris/presence-backend-go/internal/domain/overtime"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/export"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/storage"
	attendanceService "github.com/cmlabs-hris/presence-backend-go/internal/service/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/service/overtime"
	"github.com/google/uuid"
)

type ReportServiceImpl struct {
	events  attendance.EventRepository
	engine  *overtime.Engine
	storage storage.FileStorage
	loc     *time.Location
	now     func() time.Time
}

func NewReportService(
	events attendance.EventRepository,
	engine *overtime.Engine,
	fileStorage storage.FileStorage,
	loc *time.Location,
) report.ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportServiceImpl{
		events:  events,
		engine:  engine,
		storage: fileStorage,
		loc:     loc,
		now:     time.Now,
	}
}

// TeamWeek implements report.ReportService.
func (s *ReportServiceImpl) TeamWeek(ctx context.Context, req report.TeamWeekRequest) (report.TeamReport, error) {
	if err := req.Validate(); err != nil {
		return report.TeamReport{}, err
	}

	from, to, err := s.weekOf(req.Date)
	if err != nil {
		return report.TeamReport{}, err
	}

	periods, err := s.teamPeriods(ctx, from, to)
	if err != nil {
		return report.TeamReport{}, err
	}

	return s.toTeamReport(from, to, periods), nil
}

// TeamMonth implements report.ReportService.
func (s *ReportServiceImpl) TeamMonth(ctx context.Context, req report.TeamMonthRequest) (report.TeamReport, error) {
	if err := req.Validate(); err != nil {
		return report.TeamReport{}, err
	}

	from, to := overtime.MonthOf(time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, s.loc))

	periods, err := s.teamPeriods(ctx, from, to)
	if err != nil {
		return report.TeamReport{}, err
	}

	return s.toTeamReport(from, to, periods), nil
}

// ExportEvents implements report.ReportService.
func (s *ReportServiceImpl) ExportEvents(ctx context.Context, req report.ExportRequest) (report.ExportResponse, error) {
	if err := req.Validate(); err != nil {
		return report.ExportResponse{}, err
	}

	events, err := s.events.FetchAll(ctx)
	if err != nil {
		return report.ExportResponse{}, fmt.Errorf("failed to fetch events: %w", err)
	}

	now := s.now().In(s.loc)
	var buf bytes.Buffer
	if err := export.Events(&buf, req.Format, events, now); err != nil {
		return report.ExportResponse{}, fmt.Errorf("failed to encode events: %w", err)
	}

	name := fmt.Sprintf("%s-%s.%s", now.Format("2006-01-02"), uuid.NewString(), req.Format)
	return s.save(ctx, &buf, path.Join(report.DirEvents, name), req.Format, len(events), now)
}

// ExportTeamWeek implements report.ReportService.
func (s *ReportServiceImpl) ExportTeamWeek(ctx context.Context, req report.ExportRequest) (report.ExportResponse, error) {
	if err := req.Validate(); err != nil {
		return report.ExportResponse{}, err
	}

	from, to, err := s.weekOf(req.Date)
	if err != nil {
		return report.ExportResponse{}, err
	}

	periods, err := s.teamPeriods(ctx, from, to)
	if err != nil {
		return report.ExportResponse{}, err
	}

	now := s.now().In(s.loc)
	var buf bytes.Buffer
	if err := export.Periods(&buf, req.Format, periods, now); err != nil {
		return report.ExportResponse{}, fmt.Errorf("failed to encode team report: %w", err)
	}

	name := fmt.Sprintf("%s-%s.%s", from, uuid.NewString(), req.Format)
	return s.save(ctx, &buf, path.Join(report.DirTeamWeek, name), req.Format, len(periods), now)
}

// ListExports implements report.ReportService.
func (s *ReportServiceImpl) ListExports(ctx context.Context) ([]storage.FileInfo, error) {
	files, err := s.storage.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list exports: %w", err)
	}
	return files, nil
}

// OpenExport implements report.ReportService.
func (s *ReportServiceImpl) OpenExport(ctx context.Context, p string) (io.ReadCloser, error) {
	rc, err := s.storage.Open(ctx, p)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) || errors.Is(err, storage.ErrInvalidPath) {
			return nil, report.ErrExportNotFound
		}
		return nil, fmt.Errorf("failed to open export: %w", err)
	}
	return rc, nil
}

func (s *ReportServiceImpl) save(ctx context.Context, r io.Reader, p, format string, rows int, now time.Time) (report.ExportResponse, error) {
	stored, err := s.storage.Save(ctx, r, p)
	if err != nil {
		return report.ExportResponse{}, fmt.Errorf("%w: %v", report.ErrExportWriteFailed, err)
	}

	slog.Info("export written", "path", stored, "format", format, "rows", rows)

	return report.ExportResponse{
		Path:        stored,
		URL:         s.storage.URL(stored),
		Format:      format,
		Rows:        rows,
		GeneratedAt: now.Format(time.RFC3339),
	}, nil
}

// weekOf resolves the optional YYYY-MM-DD date to its week, defaulting to today.
func (s *ReportServiceImpl) weekOf(date *string) (domainOvertime.Date, domainOvertime.Date, error) {
	day := domainOvertime.DateOf(s.now().In(s.loc))
	if date != nil && *date != "" {
		parsed, err := domainOvertime.ParseDate(*date)
		if err != nil {
			return domainOvertime.Date{}, domainOvertime.Date{}, fmt.Errorf("invalid date %q: %w", *date, err)
		}
		day = parsed
	}

	from, to := overtime.WeekOf(day.Midnight(s.loc), s.engine.WeekStart())
	return from, to, nil
}

// teamPeriods computes every known person's aggregate over [from, to).
func (s *ReportServiceImpl) teamPeriods(ctx context.Context, from, to domainOvertime.Date) ([]export.PersonPeriod, error) {
	people, err := s.events.FetchPeople(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch people: %w", err)
	}

	// sessions never cross midnight, so pairing only [from, to) gives the same result as the whole log
	byPerson := make(map[string][]attendance.Event, len(people))
	for _, p := range people {
		events, err := s.events.FetchEvents(ctx, p.ID, from.Midnight(s.loc), to.Midnight(s.loc))
		if err != nil {
			return nil, fmt.Errorf("failed to fetch events of %s: %w", p.ID, err)
		}
		byPerson[p.ID] = events
	}
	computed := s.engine.ComputeAll(byPerson)

	periods := make([]export.PersonPeriod, 0, len(people))
	for _, p := range people {
		periods = append(periods, export.PersonPeriod{
			Person: p,
			Period: overtime.ByRange(computed[p.ID], from, to),
		})
	}
	return periods, nil
}

func (s *ReportServiceImpl) toTeamReport(from, to domainOvertime.Date, periods []export.PersonPeriod) report.TeamReport {
	var total domainOvertime.Split
	people := make([]report.PersonSummary, 0, len(periods))
	for _, p := range periods {
		period := attendanceService.MapPeriod(p.Person.ID, p.Period)
		people = append(people, report.PersonSummary{
			PersonID: p.Person.ID,
			Name:     p.Person.Name,
			Days:     period.Days,
			Total:    period.Total,
		})
		total = total.Add(p.Period.Total)
	}

	return report.TeamReport{
		StartDate:   from.String(),
		EndDate:     to.String(),
		GeneratedAt: s.now().In(s.loc).Format(time.RFC3339),
		People:      people,
		Total:       attendanceService.MapSplit(total),
	}
}
