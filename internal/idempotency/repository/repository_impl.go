package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallretail/fieldsync/internal/idempotency/domain"
	pkgdb "github.com/smallretail/fieldsync/pkg/db"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Find(ctx context.Context, db *gorm.DB, key string) (*domain.SyncLog, error) {
	var entry domain.SyncLog
	err := db.WithContext(ctx).Raw(
		`SELECT local_id, kind, vendor_id, server_id, created_at
		 FROM sync_logs WHERE local_id = ?`,
		key,
	).Scan(&entry).Error
	if err != nil {
		return nil, err
	}
	if entry.LocalID == "" {
		return nil, nil
	}
	return &entry, nil
}

func (r *repo) Reserve(ctx context.Context, db *gorm.DB, key string, kind domain.Kind, vendorID snowflake.ID) (*domain.SyncLog, bool, error) {
	entry := domain.SyncLog{
		LocalID:   key,
		Kind:      kind,
		VendorID:  vendorID,
		CreatedAt: time.Now().UTC(),
	}

	err := db.WithContext(ctx).Exec(
		`INSERT INTO sync_logs (local_id, kind, vendor_id, server_id, created_at)
		 VALUES (?, ?, ?, NULL, ?)`,
		entry.LocalID,
		entry.Kind,
		entry.VendorID,
		entry.CreatedAt,
	).Error
	if err == nil {
		return &entry, true, nil
	}

	// A unique violation means another caller reserved the key first.
	if !pkgdb.IsDuplicateKeyErr(err) {
		return nil, false, err
	}

	existing, findErr := r.Find(ctx, db, key)
	if findErr != nil {
		return nil, false, findErr
	}
	return existing, false, nil
}

func (r *repo) Record(ctx context.Context, db *gorm.DB, key string, serverID snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`UPDATE sync_logs SET server_id = ?
		 WHERE local_id = ? AND server_id IS NULL`,
		serverID,
		key,
	).Error
}
