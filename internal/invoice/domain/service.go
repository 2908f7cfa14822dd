package domain

import (
	"context"
	"errors"
)

type Service interface {
	List(ctx context.Context, vendorID string) ([]Invoice, error)
	Get(ctx context.Context, id string) (*Invoice, []InvoiceItem, error)
}

var (
	ErrNotFound        = errors.New("not_found")
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidVendorID = errors.New("invalid_vendor_id")
)
