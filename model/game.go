package model

import "time"

// Game represents one tracked mobile-game account.
type Game struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string     `gorm:"uniqueIndex;size:128;not null" json:"title"`
	StartDate time.Time  `gorm:"type:date;not null" json:"start_date"`
	EndDate   *time.Time `gorm:"type:date" json:"end_date"`
	StopPlay  bool       `gorm:"default:false;not null" json:"stop_play"`
	UID       string     `gorm:"size:64" json:"uid"`
	CouponURL string     `gorm:"size:255" json:"coupon_url"`
	Memo      string     `gorm:"type:text" json:"memo"`
	// RefreshDay is the weekly reset weekday, 1=Sunday .. 7=Saturday.
	RefreshDay *int `json:"refresh_day"`
	// RefreshTime is the daily reset time of day, "HH:MM".
	RefreshTime      string `gorm:"size:5" json:"refresh_time"`
	GachaPullMessage string `gorm:"size:255" json:"gacha_pull_message"`
	// HasEconomyTracking gates the currency/spending sections in the UI.
	HasEconomyTracking bool      `gorm:"default:true;not null" json:"has_economy_tracking"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// DuringPlay reports whether the game is still being played.
func (g *Game) DuringPlay() bool { return g.EndDate == nil }
