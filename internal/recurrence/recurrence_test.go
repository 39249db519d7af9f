package recurrence

import (
	"testing"
	"time"

	"nalia-backend/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestNextOccurrenceWeekly(t *testing.T) {
	// 2025-06-11 is a Wednesday
	wednesday := time.Date(2025, time.June, 11, 14, 30, 0, 0, time.Local)

	tests := []struct {
		name      string
		now       time.Time
		dayOfWeek int
		want      time.Time
	}{
		{"future weekday", wednesday, 5, date(2025, time.June, 13)},
		{"past weekday wraps", wednesday, 1, date(2025, time.June, 16)},
		{"same weekday rolls a full week", wednesday, 3, date(2025, time.June, 18)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextOccurrence(Rule{Type: models.RecurrenceWeekly, DayOfWeek: tt.dayOfWeek}, tt.now)
			if !got.Equal(tt.want) {
				t.Errorf("NextOccurrence() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextOccurrenceMonthly(t *testing.T) {
	tests := []struct {
		name        string
		now         time.Time
		dayOfWeek   int
		weekOfMonth int
		want        time.Time
	}{
		// June 2025 has five Mondays (2, 9, 16, 23, 30)
		{"last of five mondays stays in month", date(2025, time.June, 1), 1, 4, date(2025, time.June, 30)},
		// June 2025 has four Fridays (6, 13, 20, 27); index 4 clamps to the last
		{"fifth slot clamps to last occurrence", date(2025, time.June, 1), 5, 4, date(2025, time.June, 27)},
		{"passed slot falls to next month", date(2025, time.June, 20), 1, 0, date(2025, time.July, 7)},
		{"same-day slot falls to next month", date(2025, time.June, 30), 1, 4, date(2025, time.July, 28)},
		{"negative index clamps to first", date(2025, time.June, 1), 1, -3, date(2025, time.June, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := Rule{Type: models.RecurrenceMonthly, DayOfWeek: tt.dayOfWeek, WeekOfMonth: tt.weekOfMonth}
			got := NextOccurrence(rule, tt.now)
			if !got.Equal(tt.want) {
				t.Errorf("NextOccurrence() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExpired(t *testing.T) {
	eventDate := date(2025, time.June, 11)

	tests := []struct {
		name        string
		now         time.Time
		isRecurring bool
		want        bool
	}{
		{"before cutoff", time.Date(2025, time.June, 11, 15, 59, 0, 0, time.Local), false, false},
		{"after cutoff", time.Date(2025, time.June, 11, 16, 1, 0, 0, time.Local), false, true},
		{"recurring never expires", time.Date(2025, time.July, 11, 16, 1, 0, 0, time.Local), true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Expired(eventDate, "10:00", tt.isRecurring, tt.now); got != tt.want {
				t.Errorf("Expired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStartTimeBadInput(t *testing.T) {
	got := StartTime(date(2025, time.June, 11), "not-a-time")
	want := date(2025, time.June, 11)
	if !got.Equal(want) {
		t.Errorf("StartTime() = %v, want midnight %v", got, want)
	}
}
