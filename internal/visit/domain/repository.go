package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, visit *VisitResult) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*VisitResult, error)
	List(ctx context.Context, db *gorm.DB, vendorID snowflake.ID) ([]VisitResult, error)
}
