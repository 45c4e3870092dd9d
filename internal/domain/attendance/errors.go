package attendance

import (
	"errors"
	"fmt"
)

// Attendance domain errors
var (
	// Clock errors
	ErrOutsideAllowedRadius = errors.New("you are outside the allowed radius")
	ErrPersonRequired       = errors.New("person id is required")

	// Query errors
	ErrInvalidRange   = errors.New("end date must be after start date")
	ErrPersonNotFound = errors.New("person not found")

	// Event log errors
	ErrMalformedEvent = errors.New("malformed event in event log")

	// Access errors
	ErrInvalidToken          = errors.New("invalid or expired token")
	ErrManagerAccessRequired = errors.New("manager access required")
)

// MalformedEventError reports an event log row that could not be decoded.
type MalformedEventError struct {
	EventID string
	Field   string
	Value   string
	Err     error
}

func (e *MalformedEventError) Error() string {
	return fmt.Sprintf("malformed event %s: invalid %s %q: %v", e.EventID, e.Field, e.Value, e.Err)
}

func (e *MalformedEventError) Unwrap() error {
	return e.Err
}

func (e *MalformedEventError) Is(target error) bool {
	return target == ErrMalformedEvent
}

// RadiusError carries the measured distance of a rejected clock event.
type RadiusError struct {
	DistanceMeters float64
	RadiusMeters   float64
}

func (e *RadiusError) Error() string {
	return fmt.Sprintf("too far from the office: %d meters (allowed %d)", int(e.DistanceMeters), int(e.RadiusMeters))
}

func (e *RadiusError) Unwrap() error {
	return ErrOutsideAllowedRadius
}
