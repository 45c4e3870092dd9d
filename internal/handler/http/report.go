package http

import (
	"io"
	"log/slog"
	"net/http"
	"path"
	"strconv"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/presence-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/export"
	"github.com/go-chi/chi/v5"
)

type ReportHandler interface {
	// Team summaries
	TeamWeek(w http.ResponseWriter, r *http.Request)
	TeamMonth(w http.ResponseWriter, r *http.Request)

	// Exports
	ExportEvents(w http.ResponseWriter, r *http.Request)
	ExportTeamWeek(w http.ResponseWriter, r *http.Request)
	ListExports(w http.ResponseWriter, r *http.Request)
	DownloadExport(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// TeamWeek handles GET /reports/team-week
func (h *reportHandlerImpl) TeamWeek(w http.ResponseWriter, r *http.Request) {
	var req report.TeamWeekRequest
	if date := r.URL.Query().Get("date"); date != "" {
		req.Date = &date
	}

	result, err := h.reportService.TeamWeek(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// TeamMonth handles GET /reports/team-month
func (h *reportHandlerImpl) TeamMonth(w http.ResponseWriter, r *http.Request) {
	monthStr := r.URL.Query().Get("month")
	yearStr := r.URL.Query().Get("year")

	month, err := strconv.Atoi(monthStr)
	if err != nil {
		response.BadRequest(w, "invalid month parameter", nil)
		return
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil {
		response.BadRequest(w, "invalid year parameter", nil)
		return
	}

	result, err := h.reportService.TeamMonth(r.Context(), report.TeamMonthRequest{
		Month: month,
		Year:  year,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ExportEvents handles POST /reports/export/events
func (h *reportHandlerImpl) ExportEvents(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.ExportEvents(r.Context(), exportRequestFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Export created", result)
}

// ExportTeamWeek handles POST /reports/export/team-week
func (h *reportHandlerImpl) ExportTeamWeek(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.ExportTeamWeek(r.Context(), exportRequestFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Export created", result)
}

func exportRequestFromQuery(r *http.Request) report.ExportRequest {
	query := r.URL.Query()
	req := report.ExportRequest{Format: query.Get("format")}
	if date := query.Get("date"); date != "" {
		req.Date = &date
	}
	return req
}

// ListExports handles GET /reports/exports
func (h *reportHandlerImpl) ListExports(w http.ResponseWriter, r *http.Request) {
	files, err := h.reportService.ListExports(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, files, &response.Meta{TotalItems: int64(len(files))})
}

// DownloadExport handles GET /reports/exports/*
func (h *reportHandlerImpl) DownloadExport(w http.ResponseWriter, r *http.Request) {
	p := chi.URLParam(r, "*")

	rc, err := h.reportService.OpenExport(r.Context(), p)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	defer rc.Close()

	format := export.FormatCSV
	if path.Ext(p) == "."+export.FormatJSON {
		format = export.FormatJSON
	}

	w.Header().Set("Content-Type", export.ContentType(format))
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(path.Base(p)))
	if _, err := io.Copy(w, rc); err != nil {
		slog.Error("Failed to stream export", "path", p, "error", err)
	}
}
