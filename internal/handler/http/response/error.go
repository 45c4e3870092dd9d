package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Clock errors
	case errors.Is(err, attendance.ErrOutsideAllowedRadius):
		Error(w, http.StatusForbidden, "OUTSIDE_ALLOWED_RADIUS", radiusMessage(err), nil)
	case errors.Is(err, attendance.ErrPersonRequired):
		BadRequest(w, "Person id is required", nil)

	// Query errors
	case errors.Is(err, attendance.ErrInvalidRange):
		BadRequest(w, "End date must be after start date", nil)
	case errors.Is(err, attendance.ErrPersonNotFound):
		NotFound(w, "Person not found")

	// Access errors
	case errors.Is(err, attendance.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, attendance.ErrManagerAccessRequired):
		Forbidden(w, "Manager access required")

	// Event log errors
	case errors.Is(err, attendance.ErrMalformedEvent):
		slog.Error("event log contains a malformed row", "error", err)
		Error(w, http.StatusInternalServerError, "MALFORMED_EVENT_LOG", "The attendance log contains an unreadable event", nil)

	// Report errors
	case errors.Is(err, report.ErrExportNotFound):
		NotFound(w, "Export not found")
	case errors.Is(err, report.ErrExportWriteFailed):
		slog.Error("export failed", "error", err)
		InternalServerError(w, "Failed to write export")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}

// radiusMessage reports the distance without the wrapping added by the service.
func radiusMessage(err error) string {
	var radiusErr *attendance.RadiusError
	if errors.As(err, &radiusErr) {
		return radiusErr.Error()
	}
	return attendance.ErrOutsideAllowedRadius.Error()
}
