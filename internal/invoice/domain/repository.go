package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	InsertItem(ctx context.Context, db *gorm.DB, item *InvoiceItem) error
	// NextInvoiceNumber returns MAX(invoice_number)+1 for the vendor. Called
	// inside the item transaction; the unique (vendor_id, invoice_number)
	// index catches the losing side of a race.
	NextInvoiceNumber(ctx context.Context, db *gorm.DB, vendorID snowflake.ID) (int64, error)
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Invoice, error)
	FindItems(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]InvoiceItem, error)
	List(ctx context.Context, db *gorm.DB, vendorID snowflake.ID) ([]Invoice, error)
	FindUpdatedAfter(ctx context.Context, db *gorm.DB, vendorID snowflake.ID, since time.Time) ([]Invoice, error)
}
