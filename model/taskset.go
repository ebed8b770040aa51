package model

import (
	"time"

	"gorm.io/datatypes"
)

// TaskSet holds a game's daily/weekly/monthly checklists. Each period stores
// three parallel JSON arrays: task labels ([]string), completion state
// ([]bool) and per-item rewards ([][]RewardEntry). The three arrays of a
// period always have the same length after any write.
type TaskSet struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	GameID int64 `gorm:"uniqueIndex:idx_taskset_game;not null" json:"game_id"`

	DailyTasks   datatypes.JSON `json:"daily_tasks"`
	DailyState   datatypes.JSON `json:"daily_state"`
	DailyRewards datatypes.JSON `json:"daily_rewards"`

	WeeklyTasks   datatypes.JSON `json:"weekly_tasks"`
	WeeklyState   datatypes.JSON `json:"weekly_state"`
	WeeklyRewards datatypes.JSON `json:"weekly_rewards"`

	MonthlyTasks   datatypes.JSON `json:"monthly_tasks"`
	MonthlyState   datatypes.JSON `json:"monthly_state"`
	MonthlyRewards datatypes.JSON `json:"monthly_rewards"`

	// Last time each period's state was reset by the refresh job.
	DailyResetAt   time.Time `json:"daily_reset_at"`
	WeeklyResetAt  time.Time `json:"weekly_reset_at"`
	MonthlyResetAt time.Time `json:"monthly_reset_at"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
