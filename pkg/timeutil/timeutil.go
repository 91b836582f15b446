package timeutil

import (
	"time"
)

// DisplayZone is the fixed UTC+8 offset used for every user-facing date and
// day-count computation, regardless of where the server or viewer runs.
var DisplayZone = time.FixedZone("UTC+8", 8*60*60)

const dateKeyLayout = "2006-01-02"

// ToDisplay converts an instant to its wall-clock representation in the
// display timezone.
func ToDisplay(t time.Time) time.Time {
	return t.In(DisplayZone)
}

// DaysElapsed returns the number of whole calendar days between t and now in
// the display timezone. Both instants are truncated to display-zone midnight
// before taking the absolute difference, which is rounded up to full days: an
// instant earlier the same calendar day yields 0, any instant on a previous
// calendar day yields at least 1. A zero t yields 0.
func DaysElapsed(t, now time.Time) int {
	if t.IsZero() {
		return 0
	}
	const day = 24 * time.Hour
	diff := midnight(now).Sub(midnight(t))
	if diff < 0 {
		diff = -diff
	}
	return int((diff + day - 1) / day)
}

func midnight(t time.Time) time.Time {
	d := t.In(DisplayZone)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, DisplayZone)
}

// FormatShortDate renders an instant as YYYY/MM/DD in the display timezone.
func FormatShortDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(DisplayZone).Format("2006/01/02")
}

// FormatLongDate renders an instant as a full date-time string in the display
// timezone, used for tooltips.
func FormatLongDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(DisplayZone).Format("1/2/2006, 3:04:05 PM")
}

// ISOWeekNumber returns the ISO-8601 week number of the instant's calendar
// date in the display timezone.
func ISOWeekNumber(t time.Time) int {
	_, week := t.In(DisplayZone).ISOWeek()
	return week
}

// ParseDate parses a YYYY-MM-DD entry key. The result carries the display
// timezone so derived values (weekday, week number) stay consistent.
func ParseDate(date string) (time.Time, error) {
	return time.ParseInLocation(dateKeyLayout, date, DisplayZone)
}

// FullDateString derives the display string stored alongside an entry:
// the formatted date followed by the weekday name. Returns "" for a
// malformed date.
func FullDateString(date string) string {
	t, err := ParseDate(date)
	if err != nil {
		return ""
	}
	return t.Format("2006/01/02") + ", " + t.Weekday().String()
}

// Today returns the current calendar date in the display timezone as a
// YYYY-MM-DD entry key.
func Today(now time.Time) string {
	return now.In(DisplayZone).Format(dateKeyLayout)
}

// NextDay returns the YYYY-MM-DD key one calendar day after date.
func NextDay(date string) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, 1).Format(dateKeyLayout), nil
}
