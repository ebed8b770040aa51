package model

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog records write actions against dashboard entities.
type AuditLog struct {
	ID         int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	TraceID    string         `gorm:"index:idx_audit_trace;size:36;not null" json:"trace_id"`
	Action     string         `gorm:"size:64;not null" json:"action"`
	Entity     string         `gorm:"size:32" json:"entity"`
	EntityID   int64          `json:"entity_id"`
	Request    datatypes.JSON `json:"request"`
	Error      string         `gorm:"type:text" json:"error"`
	IP         string         `gorm:"size:45" json:"ip"`
	DurationMs int            `json:"duration_ms"`
	CreatedAt  time.Time      `gorm:"index:idx_audit_created;autoCreateTime:milli" json:"created_at"`
}
