package models

import (
	"fmt"
	"time"
)

// Unit numbers valid in the building.
const (
	MinUnit = 1
	MaxUnit = 120
)

// DateLayout is the wire format for reservation dates.
const DateLayout = "2006-01-02"

// Reservation is a committed booking of the grill. Rows are immutable
// after creation; the only mutation is deletion by the owner.
type Reservation struct {
	ID        int64     `json:"id"`
	Unit      int       `json:"unit"`
	Owner     int64     `json:"owner"`
	Date      string    `json:"date"`       // YYYY-MM-DD
	StartTime string    `json:"start_time"` // HH:MM
	EndTime   string    `json:"end_time"`   // HH:MM
	CreatedAt time.Time `json:"created_at"`
}

func (r Reservation) String() string {
	return fmt.Sprintf("#%d unit %d %s %s-%s", r.ID, r.Unit, r.Date, r.StartTime, r.EndTime)
}

// ValidUnit reports whether n is a unit number that exists in the building.
func ValidUnit(n int) bool {
	return n >= MinUnit && n <= MaxUnit
}
