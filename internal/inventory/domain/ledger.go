package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Ledger mutates product stock counts under row-level locking. It is only
// meaningful inside an enclosing transaction: the row lock is held until that
// transaction ends, so two orders touching the same product serialize.
type Ledger interface {
	// LockAndDecrement locks the product row, subtracts qty and returns the
	// new quantity. ErrProductNotFound when the product does not exist;
	// ErrInsufficientStock when allowNegative is false and the decrement
	// would take stock below zero.
	LockAndDecrement(ctx context.Context, tx *gorm.DB, productID snowflake.ID, qty decimal.Decimal, allowNegative bool) (decimal.Decimal, error)
}

var (
	ErrProductNotFound   = errors.New("product_not_found")
	ErrInsufficientStock = errors.New("insufficient_stock")
)
