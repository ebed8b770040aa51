package model

import "time"

// Character is an owned (or wished-for) character within a game.
// Title and game linkage are immutable after seeding.
type Character struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	GameID int64 `gorm:"index:idx_char_game;not null" json:"game_id"`
	Title  string `gorm:"size:128;not null" json:"title"`
	Level  int    `gorm:"default:0" json:"level"`
	// Grade is free-form; it may embed a digit rank or star runes ("★★★").
	Grade     string    `gorm:"size:32" json:"grade"`
	Overpower int       `gorm:"default:0" json:"overpower"` // 0..10
	Position  string    `gorm:"size:64" json:"position"`
	Memo      string    `gorm:"size:255" json:"memo"`
	IsHave    bool      `gorm:"default:true;not null" json:"is_have"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
