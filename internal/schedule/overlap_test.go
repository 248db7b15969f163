package schedule

import (
	"testing"

	"github.com/AndriiKibish/BBQ-reserve/internal/models"
)

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                   string
		aStart, aEnd           string
		bStart, bEnd           string
		want                   bool
	}{
		{name: "identical", aStart: "18:00", aEnd: "20:00", bStart: "18:00", bEnd: "20:00", want: true},
		{name: "candidate inside existing", aStart: "18:30", aEnd: "19:30", bStart: "18:00", bEnd: "20:00", want: true},
		{name: "existing inside candidate", aStart: "17:00", aEnd: "21:00", bStart: "18:00", bEnd: "20:00", want: true},
		{name: "overlap at front", aStart: "17:00", aEnd: "18:30", bStart: "18:00", bEnd: "20:00", want: true},
		{name: "overlap at back", aStart: "19:00", aEnd: "21:00", bStart: "18:00", bEnd: "20:00", want: true},
		{name: "adjacent after", aStart: "20:00", aEnd: "22:00", bStart: "18:00", bEnd: "20:00", want: false},
		{name: "adjacent before", aStart: "16:00", aEnd: "18:00", bStart: "18:00", bEnd: "20:00", want: false},
		{name: "disjoint", aStart: "08:00", aEnd: "09:00", bStart: "18:00", bEnd: "20:00", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlaps(
				mustTime(t, tt.aStart), mustTime(t, tt.aEnd),
				mustTime(t, tt.bStart), mustTime(t, tt.bEnd),
			)
			if got != tt.want {
				t.Errorf("Overlaps(%s-%s, %s-%s) = %v, want %v",
					tt.aStart, tt.aEnd, tt.bStart, tt.bEnd, got, tt.want)
			}
			// Overlap is symmetric.
			mirror := Overlaps(
				mustTime(t, tt.bStart), mustTime(t, tt.bEnd),
				mustTime(t, tt.aStart), mustTime(t, tt.aEnd),
			)
			if mirror != got {
				t.Errorf("Overlaps is not symmetric for %s-%s vs %s-%s",
					tt.aStart, tt.aEnd, tt.bStart, tt.bEnd)
			}
		})
	}
}

func TestConflicts(t *testing.T) {
	existing := []models.Reservation{
		{ID: 1, Date: "2024-06-01", StartTime: "10:00", EndTime: "12:00"},
		{ID: 2, Date: "2024-06-01", StartTime: "18:00", EndTime: "20:00"},
		{ID: 3, Date: "2024-06-01", StartTime: "20:00", EndTime: "22:00"},
	}

	t.Run("reports every overlapping row", func(t *testing.T) {
		got, err := Conflicts(mustTime(t, "19:00"), mustTime(t, "21:00"), existing)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 2 || got[0].ID != 2 || got[1].ID != 3 {
			t.Errorf("Conflicts(19:00-21:00) = %v, want rows 2 and 3", got)
		}
	})

	t.Run("adjacent slot is free", func(t *testing.T) {
		got, err := Conflicts(mustTime(t, "12:00"), mustTime(t, "14:00"), existing)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("Conflicts(12:00-14:00) = %v, want none", got)
		}
	})

	t.Run("corrupt stored row surfaces an error", func(t *testing.T) {
		bad := []models.Reservation{{ID: 9, StartTime: "oops", EndTime: "20:00"}}
		if _, err := Conflicts(mustTime(t, "18:00"), mustTime(t, "19:00"), bad); err == nil {
			t.Error("expected an error for an unparsable stored time")
		}
	})
}
