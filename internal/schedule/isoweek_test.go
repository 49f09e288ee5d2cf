package schedule

import (
	"testing"
	"time"
)

func TestISOWeekNumber(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{"2024-01-01", 1},  // Monday, week 1 of 2024
		{"2024-01-08", 2},  // Monday, week 2
		{"2024-12-30", 1},  // Monday, belongs to 2025 week 1
		{"2024-12-29", 52}, // Sunday, still week 52 of 2024
		{"2016-01-01", 53}, // Friday, belongs to 2015 week 53
		{"2016-01-04", 1},  // first Monday of 2016
		{"2021-01-01", 53}, // Friday, belongs to 2020 week 53 (long year)
		{"2015-12-28", 53}, // Monday of an ISO long year's last week
		{"2024-07-18", 29},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			d, err := time.ParseInLocation("2006-01-02", tt.date, time.UTC)
			if err != nil {
				t.Fatalf("bad test date: %v", err)
			}
			if got := ISOWeekNumber(d); got != tt.want {
				t.Errorf("ISOWeekNumber(%s) = %d, want %d", tt.date, got, tt.want)
			}
		})
	}
}

func TestISOWeekNumberMatchesStdlib(t *testing.T) {
	// Walk three years of days; the stdlib implements the same standard.
	d := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	for d.Year() < 2026 {
		_, want := d.ISOWeek()
		if got := ISOWeekNumber(d); got != want {
			t.Fatalf("ISOWeekNumber(%s) = %d, stdlib says %d", d.Format("2006-01-02"), got, want)
		}
		d = d.AddDate(0, 0, 1)
	}
}
