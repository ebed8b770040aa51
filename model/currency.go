package model

import "time"

// Currency is an in-game currency of a game. It carries no mutable count of
// its own; the current value is derived from its observation ledger.
type Currency struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	GameID    int64     `gorm:"index:idx_currency_game;not null" json:"game_id"`
	Title     string    `gorm:"size:64;not null" json:"title"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// CurrencyObservation is one immutable timestamped snapshot of a currency's
// count. Rows are only ever appended, never updated or deleted; the current
// count is the row with the maximum (timestamp, id).
type CurrencyObservation struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CurrencyID int64     `gorm:"index:idx_obs_currency;not null" json:"currency_id"`
	Count      int64     `gorm:"not null" json:"count"` // absolute snapshot, not a delta
	Timestamp  time.Time `gorm:"index:idx_obs_ts;not null" json:"timestamp"`
}
