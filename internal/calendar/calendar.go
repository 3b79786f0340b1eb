// Package calendar computes the day-by-month grid layout for the hangar view:
// zero-based day indexes within a year, case ranges clipped to the year
// boundary, deterministic case colors and weekend/today marking.
package calendar

import "time"

const dayMillis = 24 * 60 * 60 * 1000

// Palette holds the case bar colors. Assignment is a stable hash of the case
// id, so a case keeps its color across renders and reloads.
var Palette = []string{
	"#0ea5e9",
	"#6366f1",
	"#22c55e",
	"#f97316",
	"#ef4444",
	"#8b5cf6",
	"#06b6d4",
	"#84cc16",
}

// DayRange is a case's inclusive day-index span within one year.
type DayRange struct {
	StartIndex int `json:"startIndex"`
	EndIndex   int `json:"endIndex"`
}

// Month describes one column group of the grid.
type Month struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Days  int    `json:"days"`
}

// StartOfDay truncates the time-of-day. Callers must truncate before index
// arithmetic to avoid off-by-one from partial days.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DayIndexInYear returns the offset in whole days of date's calendar day from
// January 1 of year. The difference is taken in elapsed milliseconds over
// day-truncated UTC instants rather than by calendar-field subtraction, which
// keeps it exact across leap years.
func DayIndexInYear(date time.Time, year int) int {
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	diff := StartOfDay(date).Sub(yearStart).Milliseconds()
	return int(floorDiv(diff, dayMillis))
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// ClampRangeToYear clips a (possibly multi-year) start/end span to the given
// year. It returns nil when the span does not intersect the year at all;
// otherwise both endpoints are clamped into [Jan 1, Dec 31] and converted to
// day indexes. Malformed spans (start after end) are the caller's concern.
func ClampRangeToYear(start, end time.Time, year int) *DayRange {
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	startDay := StartOfDay(start)
	endDay := StartOfDay(end)

	if endDay.Before(yearStart) || startDay.After(yearEnd) {
		return nil
	}

	effectiveStart := startDay
	if effectiveStart.Before(yearStart) {
		effectiveStart = yearStart
	}
	effectiveEnd := endDay
	if effectiveEnd.After(yearEnd) {
		effectiveEnd = yearEnd
	}

	return &DayRange{
		StartIndex: DayIndexInYear(effectiveStart, year),
		EndIndex:   DayIndexInYear(effectiveEnd, year),
	}
}

// ColorForID hashes an id onto the palette: rolling 31x multiply-add over the
// id's bytes with 32-bit signed overflow, then abs modulo the palette size.
// Stable and order-independent, not collision-free.
func ColorForID(id string) string {
	var hash int32
	for i := 0; i < len(id); i++ {
		hash = hash<<5 - hash + int32(id[i])
	}
	idx := int64(hash)
	if idx < 0 {
		idx = -idx
	}
	return Palette[idx%int64(len(Palette))]
}

// IsWeekend reports whether the date falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// BuildMonths returns the twelve month descriptors for a year.
func BuildMonths(year int) []Month {
	months := make([]Month, 0, 12)
	for m := time.January; m <= time.December; m++ {
		// Day 0 of the following month is this month's last day.
		last := time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC)
		months = append(months, Month{
			Index: int(m) - 1,
			Name:  m.String(),
			Days:  last.Day(),
		})
	}
	return months
}

// DaysInYear returns 365, or 366 in leap years.
func DaysInYear(year int) int {
	return DayIndexInYear(time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC), year) + 1
}
