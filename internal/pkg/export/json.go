package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
)

type jsonEvents struct {
	ExportedAt string      `json:"exported_at"`
	Count      int         `json:"count"`
	Events     []jsonEvent `json:"events"`
}

type jsonEvent struct {
	ID         string   `json:"id"`
	PersonID   string   `json:"person_id"`
	PersonName string   `json:"person_name"`
	Kind       string   `json:"kind"`
	Timestamp  string   `json:"timestamp"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
}

type jsonPeriods struct {
	ExportedAt string       `json:"exported_at"`
	People     []jsonPeriod `json:"people"`
}

type jsonPeriod struct {
	PersonID        string    `json:"person_id"`
	Name            string    `json:"name"`
	From            string    `json:"from"`
	To              string    `json:"to"`
	NormalSeconds   int64     `json:"normal_seconds"`
	OvertimeSeconds int64     `json:"overtime_seconds"`
	Days            []jsonDay `json:"days"`
}

type jsonDay struct {
	Date            string `json:"date"`
	Sessions        int    `json:"sessions"`
	NormalSeconds   int64  `json:"normal_seconds"`
	OvertimeSeconds int64  `json:"overtime_seconds"`
}

// EventsJSON writes the raw event log as an indented JSON document.
func EventsJSON(w io.Writer, events []attendance.Event, exportedAt time.Time) error {
	doc := jsonEvents{
		ExportedAt: exportedAt.Format(time.RFC3339),
		Count:      len(events),
		Events:     make([]jsonEvent, 0, len(events)),
	}
	for _, e := range events {
		doc.Events = append(doc.Events, jsonEvent{
			ID:         e.ID,
			PersonID:   e.PersonID,
			PersonName: e.PersonName,
			Kind:       string(e.Kind),
			Timestamp:  e.Timestamp.Format(timestampLayout),
			Latitude:   e.Latitude,
			Longitude:  e.Longitude,
		})
	}
	return writeJSON(w, doc)
}

// PeriodsJSON writes per-person aggregates as an indented JSON document.
func PeriodsJSON(w io.Writer, periods []PersonPeriod, exportedAt time.Time) error {
	doc := jsonPeriods{
		ExportedAt: exportedAt.Format(time.RFC3339),
		People:     make([]jsonPeriod, 0, len(periods)),
	}
	for _, p := range periods {
		doc.People = append(doc.People, toJSONPeriod(p))
	}
	return writeJSON(w, doc)
}

func toJSONPeriod(p PersonPeriod) jsonPeriod {
	days := make([]jsonDay, 0, len(p.Period.Days))
	for _, d := range p.Period.SortedDays() {
		days = append(days, jsonDay{
			Date:            d.Date.String(),
			Sessions:        d.Sessions,
			NormalSeconds:   d.NormalSeconds,
			OvertimeSeconds: d.OvertimeSeconds,
		})
	}
	return jsonPeriod{
		PersonID:        p.Person.ID,
		Name:            p.Person.Name,
		From:            p.Period.From.String(),
		To:              p.Period.To.String(),
		NormalSeconds:   p.Period.Total.NormalSeconds,
		OvertimeSeconds: p.Period.Total.OvertimeSeconds,
		Days:            days,
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	return nil
}
