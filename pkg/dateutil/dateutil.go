package dateutil

import (
	"fmt"
	"strings"
	"time"
)

// ISODate is the date layout used throughout the tool, including the
// persisted data file.
const ISODate = "2006-01-02"

// StartOfDay returns the start of the day (00:00:00) for the given date
func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// WeekStartOn returns the first day of the week containing date, for a
// week that begins on the given weekday.
func WeekStartOn(date time.Time, weekStart time.Weekday) time.Time {
	offset := (int(date.Weekday()) - int(weekStart) + 7) % 7
	return StartOfDay(date.AddDate(0, 0, -offset))
}

// WeekEndOn returns the last day (start of day) of the week containing
// date, for a week that begins on the given weekday.
func WeekEndOn(date time.Time, weekStart time.Weekday) time.Time {
	return WeekStartOn(date, weekStart).AddDate(0, 0, 6)
}

// IsSameDay returns true if two dates are on the same day
func IsSameDay(date1, date2 time.Time) bool {
	return date1.Year() == date2.Year() &&
		date1.Month() == date2.Month() &&
		date1.Day() == date2.Day()
}

// FormatDate formats a date as YYYY-MM-DD
func FormatDate(date time.Time) string {
	return date.Format(ISODate)
}

// ParseDate parses a YYYY-MM-DD date string
func ParseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse(ISODate, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", dateStr, err)
	}
	return t, nil
}

// ParseWeekday parses a weekday name ("monday", "Tue", ...)
func ParseWeekday(name string) (time.Weekday, error) {
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		full := wd.String()
		if strings.EqualFold(name, full) || strings.EqualFold(name, full[:3]) {
			return wd, nil
		}
	}
	return time.Sunday, fmt.Errorf("invalid weekday %q", name)
}

// Today returns today's date (start of day)
func Today() time.Time {
	return StartOfDay(time.Now())
}
