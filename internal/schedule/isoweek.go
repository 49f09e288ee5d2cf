// Package schedule implements the week schedule resolution engine: ISO week
// classification, rule-based week template selection, per-day merging of
// template items with date-scoped overrides, and the override application
// transaction.
package schedule

import "time"

// ISOWeekNumber returns the ISO-8601 week number (1-53) of the given date.
// The week number is the ordinal week of the Thursday belonging to the
// date's Monday-starting week; week 1 is the week containing the year's
// first Thursday. Template selection keys off the even/odd parity of this
// value, so it has to match ISO-8601 exactly.
func ISOWeekNumber(date time.Time) int {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	// Shift to the Thursday of this Monday-starting week.
	weekday := (int(d.Weekday()) + 6) % 7 // 0=Monday..6=Sunday
	thursday := d.AddDate(0, 0, 3-weekday)

	return (thursday.YearDay()-1)/7 + 1
}
