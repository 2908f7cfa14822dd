package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	vendordomain "github.com/smallretail/fieldsync/internal/vendors/domain"
)

const (
	defaultVendorCode = "main"
	defaultVendorName = "Main"
)

// EnsureDefaultVendor seeds a vendor on startup so a fresh install can
// accept batches without a manual enrollment step.
func EnsureDefaultVendor(db *gorm.DB, code string) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	code = strings.TrimSpace(code)
	if code == "" {
		code = defaultVendorCode
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing vendordomain.Vendor
		if err := tx.WithContext(ctx).Where("code = ?", code).Limit(1).Find(&existing).Error; err != nil {
			return err
		}
		if existing.ID != 0 {
			return nil
		}

		now := time.Now().UTC()
		return tx.WithContext(ctx).Create(&vendordomain.Vendor{
			ID:        node.Generate(),
			Code:      code,
			Name:      defaultVendorName,
			Active:    true,
			CreatedAt: now,
			UpdatedAt: now,
		}).Error
	})
}
