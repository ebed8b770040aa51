package derive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPlaytimeDays_StartDayIsDayOne(t *testing.T) {
	start := d(2025, 6, 1)
	assert.Equal(t, 1, PlaytimeDays(start, start))
	assert.Equal(t, 2, PlaytimeDays(start, d(2025, 6, 2)))
	assert.Equal(t, 31, PlaytimeDays(start, d(2025, 7, 1)))
}

func TestPlaytimeDays_FutureStartClampsToZero(t *testing.T) {
	assert.Equal(t, 0, PlaytimeDays(d(2025, 6, 10), d(2025, 6, 1)))
}

func TestPlaytimeDays_Monotonic(t *testing.T) {
	start := d(2024, 1, 1)
	prev := 0
	for i := 0; i < 400; i++ {
		got := PlaytimeDays(start, start.AddDate(0, 0, i))
		assert.Equal(t, prev+1, got)
		prev = got
	}
}

func TestPlaytimeLabel(t *testing.T) {
	start := d(2025, 6, 1)
	assert.Equal(t, "1일째", PlaytimeLabel(start, start))
	assert.Equal(t, "100일째", PlaytimeLabel(start, start.AddDate(0, 0, 99)))
}

func TestPlaytimeDays_DifferentZonesAgree(t *testing.T) {
	kst := time.FixedZone("KST", 9*3600)
	start := d(2025, 6, 1)
	utcToday := time.Date(2025, 6, 3, 1, 0, 0, 0, time.UTC)
	kstToday := time.Date(2025, 6, 3, 23, 0, 0, 0, kst)
	assert.Equal(t, PlaytimeDays(start, utcToday), PlaytimeDays(start, kstToday))
}
