package derive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestDateOf_StripsClockAndZone(t *testing.T) {
	kst := time.FixedZone("KST", 9*3600)
	in := time.Date(2025, 3, 14, 23, 59, 58, 0, kst)
	assert.Equal(t, d(2025, 3, 14), DateOf(in))
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 0, DaysBetween(d(2025, 1, 1), d(2025, 1, 1)))
	assert.Equal(t, 1, DaysBetween(d(2025, 1, 1), d(2025, 1, 2)))
	assert.Equal(t, -1, DaysBetween(d(2025, 1, 2), d(2025, 1, 1)))
	assert.Equal(t, 31, DaysBetween(d(2025, 1, 1), d(2025, 2, 1)))
	// Leap day.
	assert.Equal(t, 29, DaysBetween(d(2024, 2, 1), d(2024, 3, 1)))
}

func TestDaysBetween_IgnoresTimeOfDay(t *testing.T) {
	a := time.Date(2025, 1, 1, 23, 0, 0, 0, time.UTC)
	b := time.Date(2025, 1, 2, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, DaysBetween(a, b))
}
