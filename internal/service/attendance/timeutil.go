package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
)

// StartOfDay returns local midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	l := t.In(loc)
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, loc)
}

// LocalNoon returns 12:00 of t's calendar day in loc.
func LocalNoon(t time.Time, loc *time.Location) time.Time {
	l := t.In(loc)
	return time.Date(l.Year(), l.Month(), l.Day(), 12, 0, 0, 0, loc)
}

// DayRange is the [midnight, next midnight) range of day in loc. It uses
// calendar arithmetic so DST days are 23 or 25 hours long.
func DayRange(day time.Time, loc *time.Location) attendance.DateRange {
	start := StartOfDay(day, loc)
	return attendance.DateRange{From: start, To: start.AddDate(0, 0, 1)}
}

// MonthRange is the range covering the whole month in loc.
func MonthRange(month, year int, loc *time.Location) attendance.DateRange {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	return attendance.DateRange{From: start, To: start.AddDate(0, 1, 0)}
}

// DaysIn returns the number of days in the month.
func DaysIn(month, year int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// ParseLocalDate parses YYYY-MM-DD as local midnight in loc.
func ParseLocalDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, loc)
}
