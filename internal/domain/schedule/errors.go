package schedule

import "errors"

var (
	ErrInvalidTimeOfDay = errors.New("invalid time of day, use HH:MM")
	ErrEmptyWindow      = errors.New("standard window must end after it starts")
	ErrWindowOutOfDay   = errors.New("standard window must stay within one day")
	ErrUnknownWeekday   = errors.New("unknown weekday")
)
