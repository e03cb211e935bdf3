// Package isoweek computes ISO-8601 week numbers and year-spanning week
// grids. Weeks start on Monday and week 1 is the week containing January 4th
// (equivalently, the year's first Thursday), so a date near a year boundary
// may belong to week 1 of the following year or week 52/53 of the previous.
package isoweek

import (
	"fmt"
	"time"

	"piksel-orders/pkg/models"
)

// Number returns the ISO week number of t (1..53).
func Number(t time.Time) int {
	_, week := t.ISOWeek()
	return week
}

// WeekYear returns the ISO week-numbering year of t, which differs from the
// calendar year for dates that fall in the first or last ISO week.
func WeekYear(t time.Time) int {
	year, _ := t.ISOWeek()
	return year
}

// Label formats the week number of a stored date string as "W37" for display
// next to an order's date fields. Unparsable input yields the empty string.
func Label(date string) string {
	t, err := time.ParseInLocation("2006-01-02", trimClock(date), time.UTC)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("W%d", Number(t))
}

// WeekStart returns the Monday on or before t, at midnight in t's location.
func WeekStart(t time.Time) time.Time {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7 // ISO counts Sunday as 7
	}
	monday := t.AddDate(0, 0, -(wd - 1))
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
}

// Grid generates the ordered week sequence covering the calendar year:
// starting from the Monday on or before January 1st, one entry per week,
// until the week's start passes December 31st. The first entry may start in
// the prior calendar year and the last may run into the next one.
//
// The current-week flag compares against the ISO week-year of now, not its
// calendar year, so the highlight stays correct during boundary weeks.
func Grid(year int, now time.Time) []models.Week {
	nowWeek := Number(now)
	nowWeekYear := WeekYear(now)

	start := WeekStart(time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC))
	dec31 := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	var weeks []models.Week
	for ; !start.After(dec31); start = start.AddDate(0, 0, 7) {
		num := Number(start)
		weeks = append(weeks, models.Week{
			Number:    num,
			Start:     start,
			End:       start.AddDate(0, 0, 6),
			IsCurrent: num == nowWeek && year == nowWeekYear,
		})
	}
	return weeks
}

func trimClock(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' {
			return s[:i]
		}
	}
	return s
}
