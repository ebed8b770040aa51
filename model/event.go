package model

import "time"

// GameEvent is a timed in-game event. Its lifecycle state (scheduled /
// ongoing / ended) is derived from the dates at read time and never stored.
type GameEvent struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	GameID    int64      `gorm:"index:idx_event_game;not null" json:"game_id"`
	Title     string     `gorm:"size:128;not null" json:"title"`
	Type      string     `gorm:"size:64;not null" json:"type"`
	StartDate time.Time  `gorm:"type:date;not null" json:"start_date"`
	EndDate   *time.Time `gorm:"type:date" json:"end_date"`
	Priority  string     `gorm:"size:32;not null" json:"priority"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
