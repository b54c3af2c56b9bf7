package calendar

import (
	"fmt"
	"time"
)

// DaysInMonth returns the number of days in t's month.
func DaysInMonth(t time.Time) int {
	// day 0 of the next month is the last day of this one
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// FirstWeekdayOffset returns the weekday (0=Sunday) of the first day of t's month.
func FirstWeekdayOffset(t time.Time) int {
	return int(time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).Weekday())
}

// CanonicalDate formats t as YYYY-MM-DD using t's own location.
func CanonicalDate(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a YYYY-MM-DD date at midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, loc)
}

// StartOfDay truncates t to midnight in its location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns the Sunday starting t's week, at midnight.
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// AddMonths moves t by n months onto day-of-month `day`,
// clamped to the last day of the target month.
func AddMonths(t time.Time, n, day int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if dim := DaysInMonth(first); day > dim {
		day = dim
	}
	if day < 1 {
		day = 1
	}
	return first.AddDate(0, 0, day-1)
}
