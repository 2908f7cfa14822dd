package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallretail/fieldsync/internal/customer/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO customers (id, name, email, phone, address, metadata, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		customer.ID,
		customer.Name,
		customer.Email,
		customer.Phone,
		customer.Address,
		customer.Metadata,
		customer.CreatedAt,
		customer.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Customer, error) {
	var c domain.Customer
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, email, phone, address, metadata, created_at, updated_at
		 FROM customers WHERE id = ?`,
		id,
	).Scan(&c).Error
	if err != nil {
		return nil, err
	}
	if c.ID == 0 {
		return nil, nil
	}
	return &c, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListRequest) ([]domain.Customer, error) {
	var items []domain.Customer
	stmt := db.WithContext(ctx).Model(&domain.Customer{})

	if filter.Name != "" {
		stmt = stmt.Where("name = ?", filter.Name)
	}

	if err := stmt.Order("created_at ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindUpdatedAfter(ctx context.Context, db *gorm.DB, since time.Time) ([]domain.Customer, error) {
	var items []domain.Customer
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, email, phone, address, metadata, created_at, updated_at
		 FROM customers WHERE updated_at > ? ORDER BY updated_at ASC`,
		since,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
