package ledger

import (
	"context"
	"time"

	"github.com/yunae/gamedash/derive"
	"github.com/yunae/gamedash/model"
)

// SeriesOptions selects the bucketing of a time series.
type SeriesOptions struct {
	Weekly bool
	Days   int // daily mode window, clamped 1..30, default 7
	Weeks  int // weekly mode window, clamped 1..26, default 8
}

func (o SeriesOptions) normalize() SeriesOptions {
	if o.Weekly {
		if o.Weeks <= 0 {
			o.Weeks = 8
		}
		if o.Weeks > 26 {
			o.Weeks = 26
		}
	} else {
		if o.Days <= 0 {
			o.Days = 7
		}
		if o.Days > 30 {
			o.Days = 30
		}
	}
	return o
}

// Bucket is one point of a time series. Count is nil only for leading
// buckets with no observation and no prior value to carry forward.
type Bucket struct {
	Date  time.Time `json:"date"`
	Count *int64    `json:"count"`
}

// Series is the bucketed history of one currency.
type Series struct {
	CurrencyID int64     `json:"currency_id"`
	Title      string    `json:"title"`
	FromDate   time.Time `json:"from_date"`
	ToDate     time.Time `json:"to_date"`
	Buckets    []Bucket  `json:"buckets"`
}

type bucketRange struct {
	label      time.Time // bucket date reported to the caller
	start, end time.Time // inclusive date range
}

// bucketRanges builds the ascending bucket windows ending at today.
// Daily buckets cover one date each; weekly buckets run Sunday..Saturday and
// are labeled with the week's end date.
func bucketRanges(today time.Time, opts SeriesOptions) []bucketRange {
	d := derive.DateOf(today)
	if !opts.Weekly {
		ranges := make([]bucketRange, 0, opts.Days)
		start := d.AddDate(0, 0, -(opts.Days - 1))
		for i := 0; i < opts.Days; i++ {
			day := start.AddDate(0, 0, i)
			ranges = append(ranges, bucketRange{label: day, start: day, end: day})
		}
		return ranges
	}

	// Days since last Sunday.
	delta := int(d.Weekday())
	currentWeekStart := d.AddDate(0, 0, -delta)
	ranges := make([]bucketRange, 0, opts.Weeks)
	for i := opts.Weeks - 1; i >= 0; i-- {
		ws := currentWeekStart.AddDate(0, 0, -7*i)
		we := ws.AddDate(0, 0, 6)
		ranges = append(ranges, bucketRange{label: we, start: ws, end: we})
	}
	return ranges
}

// buildSeries applies the bucket rule to a currency's ordered observations:
// the bucket value is the maximum count observed inside the bucket; a bucket
// with no observation carries the last known value forward. The carry is
// seeded from the latest observation before the window, so only windows that
// predate the currency's whole history start with null buckets.
func buildSeries(cur model.Currency, obs []model.CurrencyObservation, today time.Time, opts SeriesOptions) Series {
	ranges := bucketRanges(today, opts)

	var carry *int64
	for i := range obs {
		if derive.DateOf(obs[i].Timestamp).Before(ranges[0].start) {
			c := obs[i].Count
			carry = &c
		}
	}

	buckets := make([]Bucket, 0, len(ranges))
	for _, r := range ranges {
		var max *int64
		for i := range obs {
			d := derive.DateOf(obs[i].Timestamp)
			if d.Before(r.start) || d.After(r.end) {
				continue
			}
			if max == nil || obs[i].Count > *max {
				c := obs[i].Count
				max = &c
			}
		}
		if max != nil {
			carry = max
		}
		if carry != nil {
			c := *carry
			buckets = append(buckets, Bucket{Date: r.label, Count: &c})
		} else {
			buckets = append(buckets, Bucket{Date: r.label, Count: nil})
		}
	}

	return Series{
		CurrencyID: cur.ID,
		Title:      cur.Title,
		FromDate:   ranges[0].label,
		ToDate:     ranges[len(ranges)-1].label,
		Buckets:    buckets,
	}
}

// TimeSeries returns the bucketed history of one currency.
func (s *Service) TimeSeries(ctx context.Context, currencyID int64, opts SeriesOptions) (*Series, error) {
	opts = opts.normalize()

	var cur model.Currency
	if err := s.db.WithContext(ctx).First(&cur, currencyID).Error; err != nil {
		return nil, ErrNotFound
	}
	obs, err := s.orderedObservations(ctx, cur.ID)
	if err != nil {
		return nil, err
	}
	series := buildSeries(cur, obs, s.clk.Now(), opts)
	return &series, nil
}

// TimeSeriesAll runs the single-currency algorithm independently for every
// currency of the game and returns parallel series over the same bucket
// timeline. No cross-currency aggregation happens server-side.
func (s *Service) TimeSeriesAll(ctx context.Context, gameID int64, opts SeriesOptions) ([]Series, error) {
	opts = opts.normalize()

	var currencies []model.Currency
	if err := s.db.WithContext(ctx).
		Where("game_id = ?", gameID).
		Order("title ASC").
		Find(&currencies).Error; err != nil {
		return nil, err
	}

	now := s.clk.Now()
	out := make([]Series, 0, len(currencies))
	for _, cur := range currencies {
		obs, err := s.orderedObservations(ctx, cur.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, buildSeries(cur, obs, now, opts))
	}
	return out, nil
}

func (s *Service) orderedObservations(ctx context.Context, currencyID int64) ([]model.CurrencyObservation, error) {
	var obs []model.CurrencyObservation
	err := s.db.WithContext(ctx).
		Where("currency_id = ?", currencyID).
		Order("timestamp ASC, id ASC").
		Find(&obs).Error
	return obs, err
}
