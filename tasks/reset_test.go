package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yunae/gamedash/testutil"
)

func at(y int, m time.Month, day, hh, mm int) time.Time {
	return time.Date(y, m, day, hh, mm, 0, 0, time.UTC)
}

func TestParseClockTime(t *testing.T) {
	hh, mm, err := parseClockTime("06:30")
	require.NoError(t, err)
	assert.Equal(t, 6, hh)
	assert.Equal(t, 30, mm)

	_, _, err = parseClockTime("25:00")
	assert.Error(t, err)
	_, _, err = parseClockTime("bogus")
	assert.Error(t, err)
}

func TestDailyBoundary(t *testing.T) {
	// After today's refresh instant: boundary is today.
	assert.Equal(t, at(2025, 6, 10, 6, 0), dailyBoundary(at(2025, 6, 10, 7, 0), 6, 0))
	// Before it: boundary is yesterday.
	assert.Equal(t, at(2025, 6, 9, 6, 0), dailyBoundary(at(2025, 6, 10, 5, 0), 6, 0))
}

func TestWeeklyBoundary(t *testing.T) {
	// 2025-06-11 is a Wednesday (4 on the 1..7 scale).
	wed := 4
	assert.Equal(t, at(2025, 6, 11, 6, 0), weeklyBoundary(at(2025, 6, 11, 7, 0), &wed, 6, 0))
	// Before the refresh instant on the refresh day: previous week.
	assert.Equal(t, at(2025, 6, 4, 6, 0), weeklyBoundary(at(2025, 6, 11, 5, 0), &wed, 6, 0))
	// No refresh day configured: Sunday fallback (2025-06-08).
	assert.Equal(t, at(2025, 6, 8, 6, 0), weeklyBoundary(at(2025, 6, 11, 7, 0), nil, 6, 0))
}

func TestMonthlyBoundary(t *testing.T) {
	assert.Equal(t, at(2025, 6, 1, 6, 0), monthlyBoundary(at(2025, 6, 10, 12, 0), 6, 0))
	// First of month before the refresh instant: previous month.
	assert.Equal(t, at(2025, 5, 1, 6, 0), monthlyBoundary(at(2025, 6, 1, 5, 0), 6, 0))
}

func TestApplyDueResets_DailyCrossedBoundary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	game := seedGame(t, db)
	ctx := context.Background()

	configured := newTestService(t, db, at(2025, 6, 1, 10, 0))
	view, err := configured.Configure(ctx, game.ID, ConfigureInput{
		Daily: &PeriodConfig{Tasks: []string{"a", "b"}},
	})
	require.NoError(t, err)
	state := []bool{true, true}
	_, err = configured.UpdateState(ctx, view.ID, StateInput{Daily: &state})
	require.NoError(t, err)

	// Next morning after the 06:00 refresh.
	sweeper := newTestService(t, db, at(2025, 6, 2, 7, 0))
	n, err := sweeper.ApplyDueResets(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	after, err := sweeper.GetByID(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, []bool{false, false}, after.Daily.State)
}

func TestApplyDueResets_BeforeBoundaryKeepsState(t *testing.T) {
	db := testutil.SetupTestDB(t)
	game := seedGame(t, db)
	ctx := context.Background()

	configured := newTestService(t, db, at(2025, 6, 1, 10, 0))
	view, err := configured.Configure(ctx, game.ID, ConfigureInput{
		Daily: &PeriodConfig{Tasks: []string{"a"}},
	})
	require.NoError(t, err)
	state := []bool{true}
	_, err = configured.UpdateState(ctx, view.ID, StateInput{Daily: &state})
	require.NoError(t, err)

	// Still the same refresh window: 05:00 next day is before 06:00.
	sweeper := newTestService(t, db, at(2025, 6, 2, 5, 0))
	n, err := sweeper.ApplyDueResets(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	after, err := sweeper.GetByID(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, []bool{true}, after.Daily.State)
}

func TestApplyDueResets_WeeklyOnlyAfterRefreshDay(t *testing.T) {
	db := testutil.SetupTestDB(t)
	game := seedGame(t, db)
	wed := 4
	game.RefreshDay = &wed
	require.NoError(t, db.Save(game).Error)
	ctx := context.Background()

	// Configure on Monday 2025-06-09.
	configured := newTestService(t, db, at(2025, 6, 9, 10, 0))
	view, err := configured.Configure(ctx, game.ID, ConfigureInput{
		Weekly: &PeriodConfig{Tasks: []string{"주간보스"}},
	})
	require.NoError(t, err)
	state := []bool{true}
	_, err = configured.UpdateState(ctx, view.ID, StateInput{Weekly: &state})
	require.NoError(t, err)

	// Tuesday: no weekly boundary crossed yet.
	tues := newTestService(t, db, at(2025, 6, 10, 12, 0))
	n, err := tues.ApplyDueResets(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	// Wednesday after 06:00: weekly state resets.
	wedSweep := newTestService(t, db, at(2025, 6, 11, 7, 0))
	n, err = wedSweep.ApplyDueResets(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	after, err := wedSweep.GetByID(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, []bool{false}, after.Weekly.State)
}

func TestApplyDueResets_MonthlyOnFirstOfMonth(t *testing.T) {
	db := testutil.SetupTestDB(t)
	game := seedGame(t, db)
	ctx := context.Background()

	configured := newTestService(t, db, at(2025, 5, 20, 10, 0))
	view, err := configured.Configure(ctx, game.ID, ConfigureInput{
		Monthly: &PeriodConfig{Tasks: []string{"월정액수령"}},
	})
	require.NoError(t, err)
	state := []bool{true}
	_, err = configured.UpdateState(ctx, view.ID, StateInput{Monthly: &state})
	require.NoError(t, err)

	// Late May: nothing due.
	may := newTestService(t, db, at(2025, 5, 31, 23, 0))
	n, err := may.ApplyDueResets(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	// June 1st after the refresh time: monthly resets.
	june := newTestService(t, db, at(2025, 6, 1, 7, 0))
	n, err = june.ApplyDueResets(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	after, err := june.GetByID(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, []bool{false}, after.Monthly.State)
}

func TestApplyDueResets_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	game := seedGame(t, db)
	ctx := context.Background()

	configured := newTestService(t, db, at(2025, 6, 1, 10, 0))
	_, err := configured.Configure(ctx, game.ID, ConfigureInput{
		Daily: &PeriodConfig{Tasks: []string{"a"}},
	})
	require.NoError(t, err)

	sweeper := newTestService(t, db, at(2025, 6, 2, 7, 0))
	n, err := sweeper.ApplyDueResets(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Second sweep at the same instant: nothing left to do.
	n, err = sweeper.ApplyDueResets(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
