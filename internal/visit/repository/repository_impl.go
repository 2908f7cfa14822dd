package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallretail/fieldsync/internal/visit/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, visit *domain.VisitResult) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO visit_results (
			id, vendor_id, customer_id, customer_name, interest, probability,
			notes, potential, follow_up_at, visited_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		visit.ID,
		visit.VendorID,
		visit.CustomerID,
		visit.CustomerName,
		visit.Interest,
		visit.Probability,
		visit.Notes,
		visit.Potential,
		visit.FollowUpAt,
		visit.VisitedAt,
		visit.CreatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.VisitResult, error) {
	var v domain.VisitResult
	err := db.WithContext(ctx).Raw(
		`SELECT id, vendor_id, customer_id, customer_name, interest, probability,
		        notes, potential, follow_up_at, visited_at, created_at
		 FROM visit_results WHERE id = ?`,
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

func (r *repo) List(ctx context.Context, db *gorm.DB, vendorID snowflake.ID) ([]domain.VisitResult, error) {
	var items []domain.VisitResult
	err := db.WithContext(ctx).Raw(
		`SELECT id, vendor_id, customer_id, customer_name, interest, probability,
		        notes, potential, follow_up_at, visited_at, created_at
		 FROM visit_results WHERE vendor_id = ? ORDER BY visited_at ASC`,
		vendorID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
