package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/export"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
)

// ========================================
// TEAM REPORTS
// ========================================

type TeamWeekRequest struct {
	Date *string `json:"date,omitempty"` // YYYY-MM-DD, defaults to today
}

func (r *TeamWeekRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Date != nil && *r.Date != "" {
		if _, valid := validator.IsValidDate(*r.Date); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TeamMonthRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (r *TeamMonthRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	currentYear := time.Now().Year()
	if r.Year < 2020 || r.Year > currentYear+1 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: fmt.Sprintf("year must be between 2020 and %d", currentYear+1),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TeamReport struct {
	StartDate   string                   `json:"start_date"`
	EndDate     string                   `json:"end_date"` // exclusive
	GeneratedAt string                   `json:"generated_at"`
	People      []PersonSummary          `json:"people"`
	Total       attendance.SplitResponse `json:"total"`
}

type PersonSummary struct {
	PersonID string                   `json:"person_id"`
	Name     string                   `json:"name"`
	Days     []attendance.DayResponse `json:"days"`
	Total    attendance.SplitResponse `json:"total"`
}

// ========================================
// EXPORTS
// ========================================

type ExportRequest struct {
	Format string  `json:"format"`         // csv (default) or json
	Date   *string `json:"date,omitempty"` // team-week exports only
}

func (r *ExportRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Format = strings.ToLower(strings.TrimSpace(r.Format))
	if r.Format == "" {
		r.Format = export.FormatCSV
	}
	if !validator.IsInSlice(r.Format, export.Formats) {
		errs = append(errs, validator.ValidationError{
			Field:   "format",
			Message: "format must be one of: " + strings.Join(export.Formats, ", "),
		})
	}

	if r.Date != nil && *r.Date != "" {
		if _, valid := validator.IsValidDate(*r.Date); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ExportResponse struct {
	Path        string `json:"path"`
	URL         string `json:"url"`
	Format      string `json:"format"`
	Rows        int    `json:"rows"`
	GeneratedAt string `json:"generated_at"`
}
