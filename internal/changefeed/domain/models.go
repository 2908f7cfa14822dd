package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	customerdomain "github.com/smallretail/fieldsync/internal/customer/domain"
	invoicedomain "github.com/smallretail/fieldsync/internal/invoice/domain"
	productdomain "github.com/smallretail/fieldsync/internal/product/domain"
)

// Changes is the "what changed since you last synced" delta. Each slice is
// ordered ascending by updated_at so callers can resume from the last row
// they applied. A failed sub-query leaves its slice empty and adds a warning
// instead of failing the whole delta.
type Changes struct {
	Products  []productdomain.Product   `json:"products"`
	Customers []customerdomain.Customer `json:"customers"`
	Invoices  []invoicedomain.Invoice   `json:"invoices"`
	Warnings  []string                  `json:"warnings,omitempty"`
}

// Provider computes the delta feed. Invoices are vendor-scoped and omitted
// when vendorID is zero.
type Provider interface {
	Delta(ctx context.Context, since time.Time, vendorID snowflake.ID) Changes
}
