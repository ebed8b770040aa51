package model

import "time"

// Item is a tracked gift-code / redeemable entry.
type Item struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Label     string    `gorm:"size:128;not null" json:"label"`
	GiftCode  string    `gorm:"size:64" json:"gift_code"`
	State     string    `gorm:"size:32;default:pending;not null" json:"state"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// ClickEvent records one action taken on an item (state transition, code
// update). Backs the weekly activity metric.
type ClickEvent struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ItemID      int64     `gorm:"index:idx_click_item;not null" json:"item_id"`
	Action      string    `gorm:"size:64;not null" json:"action"`
	BeforeState string    `gorm:"size:32" json:"before_state"`
	AfterState  string    `gorm:"size:32" json:"after_state"`
	GiftCode    string    `gorm:"size:64" json:"gift_code"`
	CreatedAt   time.Time `gorm:"index:idx_click_created;autoCreateTime" json:"created_at"`
}
