package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/yunae/gamedash/derive"
	"github.com/yunae/gamedash/model"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// ApplyDueResets clears completion state for every period whose refresh
// boundary has passed since its last reset. Designed to run from a periodic
// scheduler tick; the temporal calculators never reset state themselves, they
// assume this job has already been applied to stored rows. It returns the
// number of task sets that were reset.
func (s *Service) ApplyDueResets(ctx context.Context) (int, error) {
	var sets []model.TaskSet
	if err := s.db.WithContext(ctx).Find(&sets).Error; err != nil {
		return 0, err
	}
	reset := 0

	now := s.clk.Now()
	for i := range sets {
		set := &sets[i]
		var game model.Game
		if err := s.db.WithContext(ctx).First(&game, set.GameID).Error; err != nil {
			continue
		}

		refresh := game.RefreshTime
		if refresh == "" {
			refresh = s.defaultRefreshTime
		}
		hh, mm, err := parseClockTime(refresh)
		if err != nil {
			hh, mm = 0, 0
		}

		// Periods with no tasks are skipped entirely; Configure stamps
		// their reset time when tasks first appear.
		changed := false
		if b := dailyBoundary(now, hh, mm); len(decodeStrings(set.DailyTasks)) > 0 && set.DailyResetAt.Before(b) {
			set.DailyState = resetStates(set.DailyTasks)
			set.DailyResetAt = now
			changed = true
		}
		if b := weeklyBoundary(now, game.RefreshDay, hh, mm); len(decodeStrings(set.WeeklyTasks)) > 0 && set.WeeklyResetAt.Before(b) {
			set.WeeklyState = resetStates(set.WeeklyTasks)
			set.WeeklyResetAt = now
			changed = true
		}
		if b := monthlyBoundary(now, hh, mm); len(decodeStrings(set.MonthlyTasks)) > 0 && set.MonthlyResetAt.Before(b) {
			set.MonthlyState = resetStates(set.MonthlyTasks)
			set.MonthlyResetAt = now
			changed = true
		}

		if changed {
			if err := s.db.WithContext(ctx).Save(set).Error; err != nil {
				return reset, err
			}
			reset++
			s.logger.Info("task state reset", zap.Int64("game_id", set.GameID))
		}
	}
	return reset, nil
}

func resetStates(tasksCol datatypes.JSON) datatypes.JSON {
	return mustJSON(make([]bool, len(decodeStrings(tasksCol))))
}

func parseClockTime(s string) (hh, mm int, err error) {
	if _, err = fmt.Sscanf(s, "%d:%d", &hh, &mm); err != nil {
		return 0, 0, err
	}
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return 0, 0, fmt.Errorf("tasks: bad refresh time %q", s)
	}
	return hh, mm, nil
}

// dailyBoundary is the most recent daily refresh instant at or before now.
func dailyBoundary(now time.Time, hh, mm int) time.Time {
	b := time.Date(now.Year(), now.Month(), now.Day(), hh, mm, 0, 0, now.Location())
	if b.After(now) {
		b = b.AddDate(0, 0, -1)
	}
	return b
}

// weeklyBoundary is the most recent refresh-day instant at or before now.
// Games without a configured refresh day fall back to Sunday, matching the
// week-start used by the time-series buckets.
func weeklyBoundary(now time.Time, refreshDay *int, hh, mm int) time.Time {
	day := 1 // Sunday on the 1..7 scale
	if refreshDay != nil && *refreshDay >= 1 && *refreshDay <= 7 {
		day = *refreshDay
	}
	b := time.Date(now.Year(), now.Month(), now.Day(), hh, mm, 0, 0, now.Location())
	back := (derive.Weekday1to7(now) - day + 7) % 7
	b = b.AddDate(0, 0, -back)
	if b.After(now) {
		b = b.AddDate(0, 0, -7)
	}
	return b
}

// monthlyBoundary is the first of the current month at the refresh time, or
// of the previous month when that instant is still ahead.
func monthlyBoundary(now time.Time, hh, mm int) time.Time {
	b := time.Date(now.Year(), now.Month(), 1, hh, mm, 0, 0, now.Location())
	if b.After(now) {
		b = b.AddDate(0, -1, 0)
	}
	return b
}
