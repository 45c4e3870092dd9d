package overtime

import (
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/overtime"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/schedule"
)

// WindowResolver returns the standard window of a date, if it has one.
type WindowResolver interface {
	StandardWindow(date overtime.Date) (schedule.Window, bool)
}

// SplitSession divides a session into time inside the standard window and
// time outside it. With no window the whole session is overtime.
func SplitSession(s overtime.Session, w schedule.Window, hasWindow bool) overtime.Split {
	start, end := s.Start.Unix(), s.End.Unix()
	if end <= start {
		return overtime.Split{}
	}
	if !hasWindow {
		return overtime.Split{OvertimeSeconds: end - start}
	}

	day := s.Date()
	loc := s.Start.Location()
	windowStart := day.At(int64(w.Start), loc).Unix()
	windowEnd := day.At(int64(w.End), loc).Unix()

	normal := max(0, min(end, windowEnd)-max(start, windowStart))
	// before and after are clamped to the session so a session lying wholly
	// outside the window counts its duration once
	before := max(0, min(end, windowStart)-start)
	after := max(0, end-max(start, windowEnd))

	return overtime.Split{
		NormalSeconds:   normal,
		OvertimeSeconds: before + after,
	}
}

// Account splits every session against the window of its own date.
func Account(sessions []overtime.Session, resolver WindowResolver) []overtime.Accounted {
	out := make([]overtime.Accounted, 0, len(sessions))
	for _, s := range sessions {
		w, ok := resolver.StandardWindow(s.Date())
		out = append(out, overtime.Accounted{
			Session: s,
			Split:   SplitSession(s, w, ok),
		})
	}
	return out
}
