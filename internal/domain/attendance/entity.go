package attendance

import (
	"time"
)

// Kind is the direction of a clock event.
type Kind string

const (
	KindEntry Kind = "ENTRY"
	KindExit  Kind = "EXIT"
)

var KindValues = []string{
	string(KindEntry),
	string(KindExit),
}

// ParseKind accepts the stored kind values, including the legacy
// ENTRATA/USCITA spelling written by the first version of the bot.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "ENTRY", "ENTRATA":
		return KindEntry, true
	case "EXIT", "USCITA":
		return KindExit, true
	}
	return "", false
}

// Event is one immutable row of the event log.
type Event struct {
	ID         string
	PersonID   string
	PersonName string
	Kind       Kind
	Timestamp  time.Time
	Latitude   *float64
	Longitude  *float64

	// Seq preserves log order between events sharing a timestamp
	Seq int64
}

type Person struct {
	ID   string
	Name string
}

// Role controls access to team-wide reports.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
)

var RoleValues = []string{
	string(RoleEmployee),
	string(RoleManager),
}
