package schedule

import (
	"errors"
	"testing"
)

func TestParseTimeRange(t *testing.T) {
	tests := []struct {
		name  string
		input string
		start string
		end   string
		err   error
	}{
		{name: "valid evening range", input: "18:00 20:00", start: "18:00", end: "20:00"},
		{name: "midnight start", input: "00:00 01:30", start: "00:00", end: "01:30"},
		{name: "latest valid times", input: "23:59 23:59", start: "23:59", end: "23:59"},
		{name: "hour out of range", input: "24:00 25:00", err: ErrFormat},
		{name: "minute out of range", input: "18:60 19:00", err: ErrFormat},
		{name: "missing leading zero", input: "8:00 9:00", err: ErrFormat},
		{name: "wrong separator", input: "18:00-20:00", err: ErrFormat},
		{name: "double space", input: "18:00  20:00", err: ErrFormat},
		{name: "trailing garbage", input: "18:00 20:00 extra", err: ErrFormat},
		{name: "empty", input: "", err: ErrFormat},
		{name: "plain text", input: "tomorrow evening", err: ErrFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := ParseTimeRange(tt.input)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("ParseTimeRange(%q) err = %v, want %v", tt.input, err, tt.err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTimeRange(%q) unexpected error: %v", tt.input, err)
			}
			if start.String() != tt.start || end.String() != tt.end {
				t.Errorf("ParseTimeRange(%q) = %s %s, want %s %s",
					tt.input, start, end, tt.start, tt.end)
			}
		})
	}
}

func TestParseTimeRangeDoesNotOrderCheck(t *testing.T) {
	// Ordering is the caller's job via ValidateRange; the parser accepts
	// an inverted range as long as the format matches.
	start, end, err := ParseTimeRange("20:00 18:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateRange(start, end); !errors.Is(err, ErrOrder) {
		t.Errorf("ValidateRange(20:00, 18:00) err = %v, want ErrOrder", err)
	}
}

func TestValidateRange(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		err        error
	}{
		{name: "ordered", start: "18:00", end: "20:00"},
		{name: "equal", start: "18:00", end: "18:00", err: ErrOrder},
		{name: "inverted", start: "20:00", end: "18:00", err: ErrOrder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := mustTime(t, tt.start)
			end := mustTime(t, tt.end)
			if err := ValidateRange(start, end); !errors.Is(err, tt.err) {
				t.Errorf("ValidateRange(%s, %s) = %v, want %v", tt.start, tt.end, err, tt.err)
			}
		})
	}
}

func TestParseTimeOfDay(t *testing.T) {
	if _, err := ParseTimeOfDay("25:00"); err == nil {
		t.Error("ParseTimeOfDay(25:00) accepted an invalid hour")
	}
	got, err := ParseTimeOfDay("07:45")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != TimeOfDay(7*60+45) {
		t.Errorf("ParseTimeOfDay(07:45) = %d minutes, want %d", got, 7*60+45)
	}
	if got.String() != "07:45" {
		t.Errorf("String() = %q, want 07:45", got.String())
	}
}

func mustTime(t *testing.T, s string) TimeOfDay {
	t.Helper()
	tod, err := ParseTimeOfDay(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return tod
}
