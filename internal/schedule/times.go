// Package schedule holds the pure time-range parsing and overlap
// detection logic. Nothing here touches storage or the transport.
package schedule

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

var (
	// ErrFormat is returned when a time-range string does not match
	// "HH:MM HH:MM".
	ErrFormat = errors.New("schedule: time range must look like HH:MM HH:MM")

	// ErrOrder is returned when the start of a range is not strictly
	// before its end.
	ErrOrder = errors.New("schedule: start time must be before end time")
)

// timeRangePattern mirrors the historical accepted input exactly: two
// HH:MM tokens separated by a single space, hours 00-23, minutes 00-59.
var timeRangePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9]) ([01][0-9]|2[0-3]):([0-5][0-9])$`)

// TimeOfDay is a clock time expressed as minutes since midnight.
type TimeOfDay int

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// ParseTimeOfDay parses a single "HH:MM" token.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("schedule: parse %q: %w", s, ErrFormat)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

// ParseTimeRange validates a raw "HH:MM HH:MM" string and splits it into
// start and end times. It deliberately does not check ordering; callers
// gate on ValidateRange before running the overlap check.
func ParseTimeRange(s string) (start, end TimeOfDay, err error) {
	m := timeRangePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, ErrFormat
	}
	start = TimeOfDay(atoi2(m[1])*60 + atoi2(m[2]))
	end = TimeOfDay(atoi2(m[3])*60 + atoi2(m[4]))
	return start, end, nil
}

// ValidateRange enforces a strictly increasing same-day interval. An
// inverted or empty interval would vacuously pass the overlap test, so
// every caller must reject it here first.
func ValidateRange(start, end TimeOfDay) error {
	if start >= end {
		return ErrOrder
	}
	return nil
}

// atoi2 converts a two-digit string already vetted by the regexp.
func atoi2(s string) int {
	return int(s[0]-'0')*10 + int(s[1]-'0')
}
