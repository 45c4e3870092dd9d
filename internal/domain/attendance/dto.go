package attendance

import (
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
)

// ========================================
// CLOCK DTOs
// ========================================

type ClockRequest struct {
	PersonID   string  `json:"-"`
	PersonName string  `json:"-"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

func (r *ClockRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.PersonID) {
		errs = append(errs, validator.ValidationError{
			Field:   "person_id",
			Message: "person_id is required",
		})
	}

	if !validator.IsValidLatitude(r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if !validator.IsValidLongitude(r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type EventResponse struct {
	ID             string   `json:"id"`
	PersonID       string   `json:"person_id"`
	PersonName     string   `json:"person_name"`
	Kind           string   `json:"kind"`
	Timestamp      string   `json:"timestamp"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	DistanceMeters *float64 `json:"distance_meters,omitempty"`
}

// ========================================
// HOURS DTOs
// ========================================

type SplitResponse struct {
	NormalSeconds   int64  `json:"normal_seconds"`
	OvertimeSeconds int64  `json:"overtime_seconds"`
	Normal          string `json:"normal"`   // H:MM
	Overtime        string `json:"overtime"` // H:MM
}

type DayResponse struct {
	Date      string `json:"date"`
	DayOfWeek string `json:"day_of_week"`
	Sessions  int    `json:"sessions"`
	SplitResponse
}

type PeriodResponse struct {
	PersonID  string        `json:"person_id,omitempty"`
	StartDate string        `json:"start_date"`
	EndDate   string        `json:"end_date"` // exclusive
	Days      []DayResponse `json:"days"`
	Total     SplitResponse `json:"total"`
}

type HoursResponse struct {
	PersonID    string         `json:"person_id"`
	AllTime     SplitResponse  `json:"all_time"`
	CurrentWeek PeriodResponse `json:"current_week"`
	TwoMonths   PeriodResponse `json:"two_months"`
}

type WeekRequest struct {
	PersonID string  `json:"-"`
	Date     *string `json:"date,omitempty"` // YYYY-MM-DD, defaults to today
}

func (r *WeekRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.PersonID) {
		errs = append(errs, validator.ValidationError{
			Field:   "person_id",
			Message: "person_id is required",
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

type RangeRequest struct {
	PersonID  string `json:"-"`
	StartDate string `json:"start_date"` // YYYY-MM-DD, inclusive
	EndDate   string `json:"end_date"`   // YYYY-MM-DD, exclusive
}

func (r *RangeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.PersonID) {
		errs = append(errs, validator.ValidationError{
			Field:   "person_id",
			Message: "person_id is required",
		})
	}

	start, startValid := validator.IsValidDate(r.StartDate)
	if !startValid {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	end, endValid := validator.IsValidDate(r.EndDate)
	if !endValid {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if startValid && endValid && !end.After(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be after start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
