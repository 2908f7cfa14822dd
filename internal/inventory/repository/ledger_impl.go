package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallretail/fieldsync/internal/inventory/domain"
	productdomain "github.com/smallretail/fieldsync/internal/product/domain"
	pkgdb "github.com/smallretail/fieldsync/pkg/db"
	"gorm.io/gorm"
)

type ledger struct{}

func Provide() domain.Ledger {
	return &ledger{}
}

func (l *ledger) LockAndDecrement(ctx context.Context, tx *gorm.DB, productID snowflake.ID, qty decimal.Decimal, allowNegative bool) (decimal.Decimal, error) {
	var row productdomain.Product
	err := pkgdb.WithRowLock(tx.WithContext(ctx)).
		Select("id", "stock_qty").
		Where("id = ?", productID).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	if row.ID == 0 {
		return decimal.Zero, domain.ErrProductNotFound
	}

	newQty := row.StockQty.Sub(qty)
	if newQty.IsNegative() && !allowNegative {
		return decimal.Zero, domain.ErrInsufficientStock
	}

	err = tx.WithContext(ctx).Exec(
		`UPDATE products SET stock_qty = ?, updated_at = ? WHERE id = ?`,
		newQty,
		time.Now().UTC(),
		productID,
	).Error
	if err != nil {
		return decimal.Zero, err
	}
	return newQty, nil
}
