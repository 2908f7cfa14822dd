package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Kind classifies what a sync log entry produced.
type Kind string

const (
	KindOrder Kind = "order"
	KindVisit Kind = "visit"
)

// SyncLog maps a client-generated local_id to the server entity it produced.
// local_id is globally unique across kinds; server_id is write-once.
type SyncLog struct {
	LocalID   string        `json:"local_id" gorm:"column:local_id;primaryKey;type:text"`
	Kind      Kind          `json:"kind" gorm:"type:text;not null"`
	VendorID  snowflake.ID  `json:"vendor_id" gorm:"not null;index"`
	ServerID  *snowflake.ID `json:"server_id,omitempty"`
	CreatedAt time.Time     `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (SyncLog) TableName() string { return "sync_logs" }

// Committed reports whether the entry already carries its terminal server ID.
func (l *SyncLog) Committed() bool {
	return l != nil && l.ServerID != nil && *l.ServerID != 0
}
