package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository is the idempotency ledger. All methods are safe to call inside
// the enclosing item transaction; Reserve must never surface a duplicate-key
// violation as an error.
type Repository interface {
	// Find returns the ledger entry for key, or nil when unseen.
	Find(ctx context.Context, db *gorm.DB, key string) (*SyncLog, error)
	// Reserve inserts the ledger row for key. When another caller already
	// holds the key, the existing row is re-read and returned with
	// created=false; exactly one concurrent caller observes created=true.
	Reserve(ctx context.Context, db *gorm.DB, key string, kind Kind, vendorID snowflake.ID) (entry *SyncLog, created bool, err error)
	// Record sets the terminal server ID for key. The write only lands while
	// server_id is still NULL, so replaying Record is a no-op.
	Record(ctx context.Context, db *gorm.DB, key string, serverID snowflake.ID) error
}
