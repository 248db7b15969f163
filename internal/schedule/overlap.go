package schedule

import (
	"fmt"

	"github.com/AndriiKibish/BBQ-reserve/internal/models"
)

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) share at least one instant. Touching endpoints do not
// conflict: a booking ending at 20:00 and one starting at 20:00 coexist.
func Overlaps(aStart, aEnd, bStart, bEnd TimeOfDay) bool {
	return aStart < bEnd && aEnd > bStart
}

// Conflicts returns every reservation in existing whose interval overlaps
// the candidate [start, end). The caller supplies rows already filtered
// to the candidate's date; this function is the single source of truth
// for "occupied".
func Conflicts(start, end TimeOfDay, existing []models.Reservation) ([]models.Reservation, error) {
	var conflicting []models.Reservation
	for _, r := range existing {
		exStart, err := ParseTimeOfDay(r.StartTime)
		if err != nil {
			return nil, fmt.Errorf("schedule: reservation %d has bad start time: %w", r.ID, err)
		}
		exEnd, err := ParseTimeOfDay(r.EndTime)
		if err != nil {
			return nil, fmt.Errorf("schedule: reservation %d has bad end time: %w", r.ID, err)
		}
		if Overlaps(start, end, exStart, exEnd) {
			conflicting = append(conflicting, r)
		}
	}
	return conflicting, nil
}
