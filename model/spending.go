package model

import (
	"time"

	"gorm.io/datatypes"
)

// RewardMode classifies how a recurring payment delivers its benefit.
const (
	RewardModeDaily    = "DAILY"    // repeating daily reward while active
	RewardModeOnce     = "ONCE"     // one-time reward (battle-pass style)
	RewardModeDisabled = "DISABLED" // inactive; excluded from urgency and alerts
)

// RewardEntry is one currency reward granted by a spending or task.
type RewardEntry struct {
	CurrencyTitle string `json:"currency_title"`
	Count         int64  `json:"count"`
}

// Spending is a recurring payment (monthly pass, subscription, battle pass).
// next_paying_date, remain_date and the urgency tier are derived at read time.
type Spending struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	GameID         int64     `gorm:"index:idx_spending_game;not null" json:"game_id"`
	Title          string    `gorm:"size:128;not null" json:"title"`
	Type           string    `gorm:"size:64;not null" json:"type"`
	Paying         string    `gorm:"size:64;not null" json:"paying"` // plan/price label
	PayingDate     time.Time `gorm:"type:date;not null" json:"paying_date"`
	RewardMode     string    `gorm:"size:16;default:DAILY;not null" json:"reward_mode"`
	ExpirationDays int       `gorm:"default:0;not null" json:"expiration_days"`
	// Rewards is a JSON list of RewardEntry.
	Rewards          datatypes.JSON `json:"rewards"`
	PassCurrentLevel *int           `json:"pass_current_level"` // ONCE mode only
	PassMaxLevel     *int           `json:"pass_max_level"`     // ONCE mode only
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}
