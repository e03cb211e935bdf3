// Package revenue apportions an order's final price across the calendar
// months its date range touches, proportionally to the day count each month
// contributes. The accounting team uses the split to recognise campaign
// revenue per month.
package revenue

import (
	"strings"
	"time"

	"piksel-orders/pkg/models"
)

// monthNames holds the Lithuanian month names, indexed by month-1.
var monthNames = [12]string{
	"sausis", "vasaris", "kovas", "balandis", "gegužė", "birželis",
	"liepa", "rugpjūtis", "rugsėjis", "spalis", "lapkritis", "gruodis",
}

// MonthlyDistribution splits totalPrice across the months of the inclusive
// [from, to] range. Dates are "yyyy-MM-dd" strings as stored by the record
// API; a trailing time component is tolerated and ignored. The result is in
// chronological order, one entry per touched month.
//
// The function never fails: an unparsable date or a non-positive price yields
// an empty slice. Amounts are plain float64 with no rounding; their sum equals
// totalPrice up to floating-point error, and the day counts sum to the
// inclusive length of the range.
func MonthlyDistribution(from, to string, totalPrice float64) []models.MonthDistribution {
	start, ok := parseDay(from)
	if !ok {
		return nil
	}
	end, ok := parseDay(to)
	if !ok {
		return nil
	}
	if totalPrice == 0 || end.Before(start) {
		return nil
	}

	totalDays := int(end.Sub(start).Hours()/24) + 1

	var dist []models.MonthDistribution
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		y, m := d.Year(), int(d.Month())
		if n := len(dist); n > 0 && dist[n-1].Year == y && dist[n-1].Month == m {
			dist[n-1].Days++
			continue
		}
		dist = append(dist, models.MonthDistribution{
			Month:     m,
			Year:      y,
			MonthName: monthNames[m-1],
		})
		dist[len(dist)-1].Days++
	}

	for i := range dist {
		dist[i].Amount = float64(dist[i].Days) / float64(totalDays) * totalPrice
	}
	return dist
}

// InclusiveDays returns the inclusive day count between two stored date
// strings, or 0 when either fails to parse. A one-day order counts as 1.
func InclusiveDays(from, to string) int {
	start, ok := parseDay(from)
	if !ok {
		return 0
	}
	end, ok := parseDay(to)
	if !ok || end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// parseDay reads a stored date, truncating any time-of-day component.
// UTC keeps the day arithmetic free of DST surprises.
func parseDay(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ' '); i >= 0 {
		s = s[:i]
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
