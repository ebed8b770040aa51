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
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func nopLogger() *zap.Logger { l, _ := zap.NewDevelopment(); return l }

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func seedCurrency(t *testing.T, db *gorm.DB) *model.Currency {
	t.Helper()
	game := &model.Game{Title: "TestGame", StartDate: d(2025, 1, 1)}
	require.NoError(t, db.Create(game).Error)
	cur := &model.Currency{GameID: game.ID, Title: "젬"}
	require.NoError(t, db.Create(cur).Error)
	return cur
}

func TestAdjust_AppendsExactlyOneRow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewService(db, clock.At(d(2025, 6, 1)), nopLogger())
	cur := seedCurrency(t, db)
	ctx := context.Background()

	_, err := svc.Adjust(ctx, cur.ID, 100)
	require.NoError(t, err)
	_, err = svc.Adjust(ctx, cur.ID, 80)
	require.NoError(t, err)

	n, err := svc.CountRows(ctx, cur.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestAdjust_UnknownCurrency(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewService(db, clock.At(d(2025, 6, 1)), nopLogger())

	_, err := svc.Adjust(context.Background(), 9999, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCurrent_LatestTimestampWins(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cur := seedCurrency(t, db)
	ctx := context.Background()

	svcEarly := NewService(db, clock.At(d(2025, 6, 1)), nopLogger())
	svcLate := NewService(db, clock.At(d(2025, 6, 5)), nopLogger())

	_, err := svcLate.Adjust(ctx, cur.ID, 500)
	require.NoError(t, err)
	_, err = svcEarly.Adjust(ctx, cur.ID, 100)
	require.NoError(t, err)

	obs, err := svcLate.Current(ctx, cur.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(500), obs.Count)
}

func TestCurrent_TiedTimestampHigherIDWins(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewService(db, clock.At(d(2025, 6, 1)), nopLogger())
	cur := seedCurrency(t, db)
	ctx := context.Background()

	_, err := svc.Adjust(ctx, cur.ID, 10)
	require.NoError(t, err)
	_, err = svc.Adjust(ctx, cur.ID, 20)
	require.NoError(t, err)

	obs, err := svc.Current(ctx, cur.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(20), obs.Count)
}

func TestCurrent_NoHistoryReportsZero(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewService(db, clock.At(d(2025, 6, 1)), nopLogger())
	cur := seedCurrency(t, db)

	obs, err := svc.Current(context.Background(), cur.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), obs.Count)
}

func TestCurrent_IsIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewService(db, clock.At(d(2025, 6, 1)), nopLogger())
	cur := seedCurrency(t, db)
	ctx := context.Background()

	_, err := svc.Adjust(ctx, cur.ID, 42)
	require.NoError(t, err)

	before, err := svc.CountRows(ctx, cur.ID)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		obs, err := svc.Current(ctx, cur.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(42), obs.Count)
	}
	after, err := svc.CountRows(ctx, cur.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after, "reads must not write")
}

func TestCurrentByGame_OrderedByTitle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewService(db, clock.At(d(2025, 6, 1)), nopLogger())
	game := &model.Game{Title: "G", StartDate: d(2025, 1, 1)}
	require.NoError(t, db.Create(game).Error)
	for _, title := range []string{"젬", "골드", "스태미나"} {
		require.NoError(t, db.Create(&model.Currency{GameID: game.ID, Title: title}).Error)
	}

	values, err := svc.CurrentByGame(context.Background(), game.ID)
	require.NoError(t, err)
	require.Len(t, values, 3)
	assert.Equal(t, "골드", values[0].Currency.Title)
	assert.Equal(t, "스태미나", values[1].Currency.Title)
	assert.Equal(t, "젬", values[2].Currency.Title)
}
