package timeutil

import (
	"testing"
	"time"
)

func TestDaysElapsed(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		now  time.Time
		want int
	}{
		{
			name: "same calendar day",
			at:   time.Date(2024, 3, 11, 8, 0, 0, 0, DisplayZone),
			now:  time.Date(2024, 3, 11, 23, 30, 0, 0, DisplayZone),
			want: 0,
		},
		{
			name: "two minutes across midnight",
			at:   time.Date(2024, 3, 11, 23, 59, 0, 0, DisplayZone),
			now:  time.Date(2024, 3, 12, 0, 1, 0, 0, DisplayZone),
			want: 1,
		},
		{
			name: "three full days",
			at:   time.Date(2024, 3, 8, 12, 0, 0, 0, DisplayZone),
			now:  time.Date(2024, 3, 11, 6, 0, 0, 0, DisplayZone),
			want: 3,
		},
		{
			name: "future reference counts the same",
			at:   time.Date(2024, 3, 12, 1, 0, 0, 0, DisplayZone),
			now:  time.Date(2024, 3, 11, 23, 0, 0, 0, DisplayZone),
			want: 1,
		},
		{
			name: "zero time",
			at:   time.Time{},
			now:  time.Date(2024, 3, 11, 12, 0, 0, 0, DisplayZone),
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysElapsed(tt.at, tt.now); got != tt.want {
				t.Fatalf("DaysElapsed() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDaysElapsedUsesDisplayZone(t *testing.T) {
	// 2024-03-11 17:00 UTC is already 2024-03-12 01:00 in the display zone.
	at := time.Date(2024, 3, 11, 10, 0, 0, 0, time.UTC)
	now := time.Date(2024, 3, 11, 17, 0, 0, 0, time.UTC)
	if got := DaysElapsed(at, now); got != 1 {
		t.Fatalf("DaysElapsed() = %d, want 1", got)
	}
}

func TestTodayUsesDisplayZone(t *testing.T) {
	now := time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC)
	if got := Today(now); got != "2024-03-11" {
		t.Fatalf("Today() = %q, want 2024-03-11", got)
	}
}

func TestNextDay(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2024-03-11", "2024-03-12"},
		{"2024-02-28", "2024-02-29"},
		{"2024-12-31", "2025-01-01"},
	}
	for _, tt := range tests {
		got, err := NextDay(tt.date)
		if err != nil {
			t.Fatalf("NextDay(%q) error: %v", tt.date, err)
		}
		if got != tt.want {
			t.Fatalf("NextDay(%q) = %q, want %q", tt.date, got, tt.want)
		}
	}

	if _, err := NextDay("not-a-date"); err == nil {
		t.Fatal("NextDay accepted a malformed date")
	}
}

func TestISOWeekNumber(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{"2024-01-04", 1},
		{"2024-03-11", 11},
		{"2021-01-01", 53},
	}
	for _, tt := range tests {
		parsed, err := ParseDate(tt.date)
		if err != nil {
			t.Fatalf("ParseDate(%q) error: %v", tt.date, err)
		}
		if got := ISOWeekNumber(parsed); got != tt.want {
			t.Fatalf("ISOWeekNumber(%s) = %d, want %d", tt.date, got, tt.want)
		}
	}
}

func TestFullDateString(t *testing.T) {
	if got := FullDateString("2024-03-11"); got != "2024/03/11, Monday" {
		t.Fatalf("FullDateString() = %q", got)
	}
	if got := FullDateString("garbage"); got != "" {
		t.Fatalf("FullDateString(garbage) = %q, want empty", got)
	}
}

func TestFormatLongDate(t *testing.T) {
	// 18:04 UTC is 02:04 the next morning in the display zone.
	at := time.Date(2024, 3, 11, 18, 4, 5, 0, time.UTC)
	if got := FormatLongDate(at); got != "3/12/2024, 2:04:05 AM" {
		t.Fatalf("FormatLongDate() = %q, want 3/12/2024, 2:04:05 AM", got)
	}

	afternoon := time.Date(2024, 3, 11, 15, 4, 5, 0, DisplayZone)
	if got := FormatLongDate(afternoon); got != "3/11/2024, 3:04:05 PM" {
		t.Fatalf("FormatLongDate() = %q, want 3/11/2024, 3:04:05 PM", got)
	}

	if got := FormatLongDate(time.Time{}); got != "" {
		t.Fatalf("FormatLongDate(zero) = %q, want empty", got)
	}
}

func TestFormatShortDate(t *testing.T) {
	at := time.Date(2024, 3, 11, 18, 0, 0, 0, time.UTC)
	if got := FormatShortDate(at); got != "2024/03/12" {
		t.Fatalf("FormatShortDate() = %q, want 2024/03/12", got)
	}
	if got := FormatShortDate(time.Time{}); got != "" {
		t.Fatalf("FormatShortDate(zero) = %q, want empty", got)
	}
}
