package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallretail/fieldsync/internal/vendors/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, vendor *domain.Vendor) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO vendors (id, code, name, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		vendor.ID,
		vendor.Code,
		vendor.Name,
		vendor.Active,
		vendor.CreatedAt,
		vendor.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Vendor, error) {
	var v domain.Vendor
	err := db.WithContext(ctx).Raw(
		`SELECT id, code, name, active, created_at, updated_at
		 FROM vendors WHERE id = ?`,
		id,
	).Scan(&v).Error
	if err != nil {
		return nil, err
	}
	if v.ID == 0 {
		return nil, nil
	}
	return &v, nil
}

func (r *repo) FindByCode(ctx context.Context, db *gorm.DB, code string) (*domain.Vendor, error) {
	var v domain.Vendor
	err := db.WithContext(ctx).Raw(
		`SELECT id, code, name, active, created_at, updated_at
		 FROM vendors WHERE code = ?`,
		code,
	).Scan(&v).Error
	if err != nil {
		return nil, err
	}
	if v.ID == 0 {
		return nil, nil
	}
	return &v, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.Vendor, error) {
	var items []domain.Vendor
	err := db.WithContext(ctx).Raw(
		`SELECT id, code, name, active, created_at, updated_at
		 FROM vendors ORDER BY created_at ASC`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
