package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Invoice is the durable record of one field sale. Rows are created once by
// the sync path and never mutated afterwards.
type Invoice struct {
	ID            snowflake.ID    `json:"id" gorm:"primaryKey"`
	InvoiceNumber int64           `json:"invoice_number" gorm:"not null;uniqueIndex:ux_invoices_vendor_number,priority:2"`
	VendorID      snowflake.ID    `json:"vendor_id" gorm:"not null;uniqueIndex:ux_invoices_vendor_number,priority:1"`
	CustomerID    *snowflake.ID   `json:"customer_id,omitempty"`
	CustomerName  string          `json:"customer_name" gorm:"type:text"`
	IssuedAt      time.Time       `json:"issued_at" gorm:"not null"`
	Total         decimal.Decimal `json:"total" gorm:"type:numeric(14,2);not null"`
	Cash          decimal.Decimal `json:"cash" gorm:"type:numeric(14,2);not null"`
	Change        decimal.Decimal `json:"change" gorm:"type:numeric(14,2);not null"`
	CreatedAt     time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time       `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP;index"`
}

func (Invoice) TableName() string { return "invoices" }

// InvoiceItem is one product line within an invoice. product_name is a
// point-of-sale snapshot, not a live reference.
type InvoiceItem struct {
	ID          snowflake.ID    `json:"id" gorm:"primaryKey"`
	InvoiceID   snowflake.ID    `json:"invoice_id" gorm:"not null;index"`
	ProductID   snowflake.ID    `json:"product_id" gorm:"not null"`
	ProductName string          `json:"product_name" gorm:"type:text"`
	Qty         decimal.Decimal `json:"qty" gorm:"type:numeric(14,3);not null"`
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"type:numeric(14,2);not null"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:numeric(14,2);not null"`
	CreatedAt   time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (InvoiceItem) TableName() string { return "invoice_items" }
