package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/presence-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/presence-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	Logger         *slog.Logger
	LogLevel       slog.Level
	AllowedOrigins []string
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, attendanceHandler AttendanceHandler, reportHandler ReportHandler) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Route("/api/v1", func(r chi.Router) {

		// EventSource cannot send headers; the stream authenticates with a query token
		r.Get("/attendance/stream", attendanceHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/attendance", func(r chi.Router) {
				r.With(chiMiddleware.AllowContentType("application/json")).Post("/clock-in", attendanceHandler.ClockIn)
				r.With(chiMiddleware.AllowContentType("application/json")).Post("/clock-out", attendanceHandler.ClockOut)
				r.Get("/hours", attendanceHandler.Hours)
				r.Get("/week", attendanceHandler.Week)
				r.Get("/range", attendanceHandler.Range)
				r.Get("/stream/token", attendanceHandler.GetStreamToken)
			})

			// Manager only
			r.Route("/reports", func(r chi.Router) {
				r.Use(middleware.RequireManager)

				r.Get("/team-week", reportHandler.TeamWeek)
				r.Get("/team-month", reportHandler.TeamMonth)

				r.Route("/export", func(r chi.Router) {
					r.Post("/events", reportHandler.ExportEvents)
					r.Post("/team-week", reportHandler.ExportTeamWeek)
				})

				r.Get("/exports", reportHandler.ListExports)
				r.Get("/exports/*", reportHandler.DownloadExport)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})

	return r
}
