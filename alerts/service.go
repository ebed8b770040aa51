package alerts

import (
	"context"
	"time"

	"github.com/yunae/gamedash/clock"
	"github.com/yunae/gamedash/derive"
	"github.com/yunae/gamedash/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EventAlert is one ongoing event in the dashboard summary.
type EventAlert struct {
	EventID   int64      `json:"event_id"`
	GameID    int64      `json:"game_id"`
	GameTitle string     `json:"game_title"`
	Title     string     `json:"title"`
	Type      string     `json:"type"`
	Priority  string     `json:"priority"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

// SpendingAlert is one payment needing attention in the dashboard summary.
type SpendingAlert struct {
	SpendingID     int64     `json:"spending_id"`
	GameID         int64     `json:"game_id"`
	GameTitle      string    `json:"game_title"`
	Title          string    `json:"title"`
	Paying         string    `json:"paying"`
	NextPayingDate time.Time `json:"next_paying_date"`
	RemainDate     int       `json:"remain_date"`
	IsRepaying     string    `json:"is_repaying"`
}

// Summary is today's actionable rollup across all non-stopped games. It is
// recomputed from entity state on every call; nothing here is persisted.
type Summary struct {
	OngoingCount     int              `json:"ongoing_count"`
	OngoingEvents    []EventAlert     `json:"ongoing_events"`
	SpendingDueCount int              `json:"spending_due_count"`
	SpendingDue      []SpendingAlert  `json:"spending_due"`
	RefreshByDay     map[int][]string `json:"refresh_by_day"`
	TomorrowWeekday  int              `json:"tomorrow_weekday"`
	TomorrowRefresh  []string         `json:"tomorrow_refresh"`
}

// Service aggregates dashboard alerts.
type Service struct {
	db     *gorm.DB
	clk    clock.Clock
	logger *zap.Logger
}

// NewService creates an alerts Service.
func NewService(db *gorm.DB, clk clock.Clock, logger *zap.Logger) *Service {
	return &Service{db: db, clk: clk, logger: logger}
}

// Summary scans events, spendings and refresh schedules of all non-stopped
// games. A single now sample drives every derived field so the summary
// agrees with per-entity reads taken at the same instant.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	now := s.clk.Now()

	var games []model.Game
	if err := s.db.WithContext(ctx).Where("stop_play = ?", false).Find(&games).Error; err != nil {
		return nil, err
	}
	titles := make(map[int64]string, len(games))
	ids := make([]int64, 0, len(games))
	for _, g := range games {
		titles[g.ID] = g.Title
		ids = append(ids, g.ID)
	}

	out := &Summary{
		OngoingEvents:   []EventAlert{},
		SpendingDue:     []SpendingAlert{},
		RefreshByDay:    make(map[int][]string, 7),
		TomorrowWeekday: derive.TomorrowWeekday(now),
		TomorrowRefresh: []string{},
	}
	for d := 1; d <= 7; d++ {
		out.RefreshByDay[d] = []string{}
	}
	if len(ids) == 0 {
		return out, nil
	}

	var events []model.GameEvent
	if err := s.db.WithContext(ctx).
		Where("game_id IN ?", ids).
		Order("start_date ASC, id ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	for _, e := range events {
		if derive.EventState(e.StartDate, e.EndDate, now) != derive.EventOngoing {
			continue
		}
		out.OngoingEvents = append(out.OngoingEvents, EventAlert{
			EventID:   e.ID,
			GameID:    e.GameID,
			GameTitle: titles[e.GameID],
			Title:     e.Title,
			Type:      e.Type,
			Priority:  e.Priority,
			StartDate: e.StartDate,
			EndDate:   e.EndDate,
		})
	}
	out.OngoingCount = len(out.OngoingEvents)

	var spendings []model.Spending
	if err := s.db.WithContext(ctx).Where("game_id IN ?", ids).Find(&spendings).Error; err != nil {
		return nil, err
	}
	for _, sp := range spendings {
		if sp.RewardMode == model.RewardModeDisabled {
			continue
		}
		remain := derive.RemainDays(sp.PayingDate, sp.ExpirationDays, now)
		if remain > derive.AlertRemainDays {
			continue
		}
		out.SpendingDue = append(out.SpendingDue, SpendingAlert{
			SpendingID:     sp.ID,
			GameID:         sp.GameID,
			GameTitle:      titles[sp.GameID],
			Title:          sp.Title,
			Paying:         sp.Paying,
			NextPayingDate: derive.NextPayingDate(sp.PayingDate, sp.ExpirationDays),
			RemainDate:     remain,
			IsRepaying:     derive.UrgencyTier(remain),
		})
	}
	out.SpendingDueCount = len(out.SpendingDue)

	for _, g := range games {
		if g.RefreshDay == nil {
			continue
		}
		d := *g.RefreshDay
		if d < 1 || d > 7 {
			continue
		}
		out.RefreshByDay[d] = append(out.RefreshByDay[d], g.Title)
		if d == out.TomorrowWeekday {
			out.TomorrowRefresh = append(out.TomorrowRefresh, g.Title)
		}
	}

	return out, nil
}
