package derive

import (
	"fmt"
	"time"
)

// PlaytimeDays returns how many days the game has been played, counting the
// start date itself as day 1. Seeding guarantees start <= today, so the
// result is always >= 1 for valid data; it is clamped at 0 defensively for
// rows written with a future start date.
func PlaytimeDays(start, today time.Time) int {
	days := DaysBetween(start, today) + 1
	if days < 0 {
		return 0
	}
	return days
}

// PlaytimeLabel formats the playtime counter for display ("N일째", day N).
func PlaytimeLabel(start, today time.Time) string {
	return fmt.Sprintf("%d일째", PlaytimeDays(start, today))
}
