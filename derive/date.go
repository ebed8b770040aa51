package derive

import "time"

// DateOf truncates t to a calendar date (UTC midnight). All calculators
// compare dates on this normalized form so wall-clock zones and DST cannot
// shift day arithmetic.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from a to b
// (negative when b is before a).
func DaysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)).Hours() / 24)
}
