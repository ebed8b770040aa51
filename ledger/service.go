package ledger

import (
	"context"
	"errors"

	"github.com/yunae/gamedash/clock"
	"github.com/yunae/gamedash/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a currency id does not exist.
var ErrNotFound = errors.New("ledger: currency not found")

// Service manages the append-only currency observation ledger.
type Service struct {
	db     *gorm.DB
	clk    clock.Clock
	logger *zap.Logger
}

// NewService creates a ledger Service.
func NewService(db *gorm.DB, clk clock.Clock, logger *zap.Logger) *Service {
	return &Service{db: db, clk: clk, logger: logger}
}

// Adjust records a new absolute count for the currency. It always appends a
// new observation row; prior rows are never touched. Concurrent adjusts are
// safe without locking: both rows land and Current resolves to the later
// timestamp (id breaks ties).
func (s *Service) Adjust(ctx context.Context, currencyID int64, count int64) (*model.CurrencyObservation, error) {
	var cur model.Currency
	if err := s.db.WithContext(ctx).First(&cur, currencyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	obs := &model.CurrencyObservation{
		CurrencyID: currencyID,
		Count:      count,
		Timestamp:  s.clk.Now(),
	}
	if err := s.db.WithContext(ctx).Create(obs).Error; err != nil {
		return nil, err
	}
	s.logger.Info("currency adjusted",
		zap.Int64("currency_id", currencyID),
		zap.String("title", cur.Title),
		zap.Int64("count", count),
	)
	return obs, nil
}

// Current returns the latest observation for the currency, or ErrNotFound if
// the currency does not exist. A currency with no observations yet reports a
// zero count.
func (s *Service) Current(ctx context.Context, currencyID int64) (*model.CurrencyObservation, error) {
	var cur model.Currency
	if err := s.db.WithContext(ctx).First(&cur, currencyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var obs model.CurrencyObservation
	err := s.db.WithContext(ctx).
		Where("currency_id = ?", currencyID).
		Order("timestamp DESC, id DESC").
		First(&obs).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &model.CurrencyObservation{CurrencyID: currencyID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &obs, nil
}

// Value pairs a currency with its current observation for list views.
type Value struct {
	Currency    model.Currency
	Observation model.CurrencyObservation
}

// CurrentByGame returns every currency of the game with its latest
// observation, ordered by title.
func (s *Service) CurrentByGame(ctx context.Context, gameID int64) ([]Value, error) {
	var currencies []model.Currency
	if err := s.db.WithContext(ctx).
		Where("game_id = ?", gameID).
		Order("title ASC").
		Find(&currencies).Error; err != nil {
		return nil, err
	}

	values := make([]Value, 0, len(currencies))
	for _, cur := range currencies {
		obs, err := s.Current(ctx, cur.ID)
		if err != nil {
			return nil, err
		}
		values = append(values, Value{Currency: cur, Observation: *obs})
	}
	return values, nil
}

// CountRows returns the number of ledger rows for a currency.
func (s *Service) CountRows(ctx context.Context, currencyID int64) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.CurrencyObservation{}).
		Where("currency_id = ?", currencyID).Count(&n).Error
	return n, err
}
