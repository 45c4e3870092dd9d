// Package app wires the storage, engine and services shared by the API
// server and the presencectl CLI.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/cmlabs-hris/presence-backend-go/internal/config"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/presence-backend-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/presence-backend-go/internal/repository/sqlite"
	attendanceService "github.com/cmlabs-hris/presence-backend-go/internal/service/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/service/overtime"
	reportService "github.com/cmlabs-hris/presence-backend-go/internal/service/report"
	scheduleService "github.com/cmlabs-hris/presence-backend-go/internal/service/schedule"
	"github.com/go-chi/httplog/v3"
)

const version = "v1.0.0"

type App struct {
	Config *config.Config
	Logger *slog.Logger

	Events  attendance.EventRepository
	Engine  *overtime.Engine
	Storage *storage.LocalStorage
	JWT     jwt.Service

	Attendance attendance.AttendanceService
	Reports    report.ReportService

	closers []func()
}

// NewLogger builds the JSON logger with ECS field names used by request logs.
func NewLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	level, _ := cfg.App.SlogLevel()
	logFormat := httplog.SchemaECS.Concise(false)
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "presence"),
		slog.String("version", version),
		slog.String("env", cfg.App.Env),
	)
}

// New opens the configured event store and builds the services. hub may be
// nil when nobody streams clock events.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, hub *sse.Hub) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	events, err := a.openEvents(ctx)
	if err != nil {
		return nil, err
	}
	a.Events = events

	policy, err := scheduleService.LoadPolicy(cfg.Schedule.PolicyPath)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Engine = overtime.NewEngine(
		scheduleService.NewResolver(policy),
		overtime.WithWeekStart(cfg.Schedule.WeekStart),
		overtime.WithObserver(overtime.LogDiscards(logger)),
	)

	a.Storage, err = storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize local storage: %w", err)
	}

	a.JWT, err = jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		a.Close()
		return nil, err
	}

	office := attendanceService.Geofence{
		Enabled:      cfg.Office.GeofenceEnabled,
		Latitude:     cfg.Office.Latitude,
		Longitude:    cfg.Office.Longitude,
		RadiusMeters: cfg.Office.RadiusMeters,
	}
	a.Attendance = attendanceService.NewAttendanceService(a.Events, a.Engine, cfg.App.Location, office, hub)
	a.Reports = reportService.NewReportService(a.Events, a.Engine, a.Storage, cfg.App.Location)

	return a, nil
}

func (a *App) openEvents(ctx context.Context) (attendance.EventRepository, error) {
	cfg := a.Config
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		if err := db.MigratePostgreSQL(ctx); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		a.Logger.Info("event store ready", "driver", cfg.Database.Driver, "host", cfg.Database.Host, "database", cfg.Database.Name)
		return postgresql.NewEventRepository(db, cfg.App.Location), nil

	case config.DriverSQLite:
		db, err := database.NewSQLiteDB(cfg.Database.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		a.closers = append(a.closers, func() { _ = db.Close() })
		a.Logger.Info("event store ready", "driver", cfg.Database.Driver, "path", cfg.Database.SQLitePath)
		return sqlite.NewEventRepository(db, cfg.App.Location), nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
}

// Close releases the event store.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
