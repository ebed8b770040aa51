package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yunae/gamedash/clock"
	"github.com/yunae/gamedash/model"
	"github.com/yunae/gamedash/testutil"
	"gorm.io/gorm"
)

func observe(t *testing.T, db *gorm.DB, currencyID int64, ts time.Time, count int64) {
	t.Helper()
	require.NoError(t, db.Create(&model.CurrencyObservation{
		CurrencyID: currencyID,
		Count:      count,
		Timestamp:  ts,
	}).Error)
}

func counts(s *Series) []*int64 {
	out := make([]*int64, len(s.Buckets))
	for i := range s.Buckets {
		out[i] = s.Buckets[i].Count
	}
	return out
}

func TestSeriesOptions_Normalize(t *testing.T) {
	assert.Equal(t, 7, SeriesOptions{}.normalize().Days)
	assert.Equal(t, 30, SeriesOptions{Days: 90}.normalize().Days)
	assert.Equal(t, 1, SeriesOptions{Days: 1}.normalize().Days)
	assert.Equal(t, 8, SeriesOptions{Weekly: true}.normalize().Weeks)
	assert.Equal(t, 26, SeriesOptions{Weekly: true, Weeks: 52}.normalize().Weeks)
}

func TestBucketRanges_Daily(t *testing.T) {
	ranges := bucketRanges(d(2025, 6, 10), SeriesOptions{Days: 7}.normalize())
	require.Len(t, ranges, 7)
	assert.Equal(t, d(2025, 6, 4), ranges[0].label)
	assert.Equal(t, d(2025, 6, 10), ranges[6].label)
	for _, r := range ranges {
		assert.Equal(t, r.start, r.end)
	}
}

func TestBucketRanges_WeeklySundayStart(t *testing.T) {
	// 2025-06-11 is a Wednesday; its week started Sunday 2025-06-08.
	ranges := bucketRanges(d(2025, 6, 11), SeriesOptions{Weekly: true, Weeks: 3}.normalize())
	require.Len(t, ranges, 3)

	last := ranges[2]
	assert.Equal(t, d(2025, 6, 8), last.start)
	assert.Equal(t, d(2025, 6, 14), last.end)
	// Labeled by week-end date.
	assert.Equal(t, last.end, last.label)

	assert.Equal(t, d(2025, 6, 1), ranges[1].start)
	assert.Equal(t, d(2025, 5, 25), ranges[0].start)
}

func TestTimeSeries_MaxThenCarryForward(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewService(db, clock.At(d(2025, 6, 5)), nopLogger())
	cur := seedCurrency(t, db)

	// Day 1: two observations, max wins. Days 2-3: gap, carry forward.
	// Day 4: new observation. Day 5: gap again.
	observe(t, db, cur.ID, d(2025, 6, 1), 3)
	observe(t, db, cur.ID, d(2025, 6, 1), 5)
	observe(t, db, cur.ID, d(2025, 6, 4), 9)

	series, err := svc.TimeSeries(context.Background(), cur.ID, SeriesOptions{Days: 5})
	require.NoError(t, err)
	require.Len(t, series.Buckets, 5)

	want := []int64{5, 5, 5, 9, 9}
	for i, c := range counts(series) {
		require.NotNil(t, c, "bucket %d", i)
		assert.Equal(t, want[i], *c, "bucket %d", i)
	}
}

func TestTimeSeries_LeadingBucketsNull(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewService(db, clock.At(d(2025, 6, 5)), nopLogger())
	cur := seedCurrency(t, db)

	observe(t, db, cur.ID, d(2025, 6, 3), 7)

	series, err := svc.TimeSeries(context.Background(), cur.ID, SeriesOptions{Days: 5})
	require.NoError(t, err)

	got := counts(series)
	assert.Nil(t, got[0])
	assert.Nil(t, got[1])
	require.NotNil(t, got[2])
	assert.Equal(t, int64(7), *got[2])
	require.NotNil(t, got[4])
	assert.Equal(t, int64(7), *got[4])
}

func TestTimeSeries_CarrySeededFromBeforeWindow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewService(db, clock.At(d(2025, 6, 10)), nopLogger())
	cur := seedCurrency(t, db)

	// Only observation predates the 3-day window entirely.
	observe(t, db, cur.ID, d(2025, 5, 1), 11)

	series, err := svc.TimeSeries(context.Background(), cur.ID, SeriesOptions{Days: 3})
	require.NoError(t, err)
	for i, c := range counts(series) {
		require.NotNil(t, c, "bucket %d", i)
		assert.Equal(t, int64(11), *c)
	}
}

func TestTimeSeries_WeeklyMaxPerWeek(t *testing.T) {
	db := testutil.SetupTestDB(t)
	// Wednesday 2025-06-11.
	svc := NewService(db, clock.At(d(2025, 6, 11)), nopLogger())
	cur := seedCurrency(t, db)

	// Previous week (Jun 1-7): values 4 then 6.
	observe(t, db, cur.ID, d(2025, 6, 2), 4)
	observe(t, db, cur.ID, d(2025, 6, 6), 6)
	// Current week: nothing, carries 6.

	series, err := svc.TimeSeries(context.Background(), cur.ID, SeriesOptions{Weekly: true, Weeks: 2})
	require.NoError(t, err)
	require.Len(t, series.Buckets, 2)

	require.NotNil(t, series.Buckets[0].Count)
	assert.Equal(t, int64(6), *series.Buckets[0].Count)
	require.NotNil(t, series.Buckets[1].Count)
	assert.Equal(t, int64(6), *series.Buckets[1].Count)
	assert.Equal(t, d(2025, 6, 14), series.Buckets[1].Date)
}

func TestTimeSeriesAll_IndependentPerCurrency(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewService(db, clock.At(d(2025, 6, 5)), nopLogger())
	game := &model.Game{Title: "G", StartDate: d(2025, 1, 1)}
	require.NoError(t, db.Create(game).Error)

	gem := &model.Currency{GameID: game.ID, Title: "젬"}
	gold := &model.Currency{GameID: game.ID, Title: "골드"}
	require.NoError(t, db.Create(gem).Error)
	require.NoError(t, db.Create(gold).Error)
	observe(t, db, gem.ID, d(2025, 6, 4), 100)

	all, err := svc.TimeSeriesAll(context.Background(), game.ID, SeriesOptions{Days: 3})
	require.NoError(t, err)
	require.Len(t, all, 2)

	// Title order: 골드 first.
	assert.Equal(t, "골드", all[0].Title)
	for _, c := range counts(&all[0]) {
		assert.Nil(t, c)
	}
	assert.Equal(t, "젬", all[1].Title)
	require.NotNil(t, all[1].Buckets[1].Count)
	assert.Equal(t, int64(100), *all[1].Buckets[1].Count)
}
