package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallretail/fieldsync/internal/invoice/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, invoice *domain.Invoice) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO invoices (
			id, invoice_number, vendor_id, customer_id, customer_name,
			issued_at, total, cash, change, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		invoice.ID,
		invoice.InvoiceNumber,
		invoice.VendorID,
		invoice.CustomerID,
		invoice.CustomerName,
		invoice.IssuedAt,
		invoice.Total,
		invoice.Cash,
		invoice.Change,
		invoice.CreatedAt,
		invoice.UpdatedAt,
	).Error
}

func (r *repo) InsertItem(ctx context.Context, db *gorm.DB, item *domain.InvoiceItem) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO invoice_items (
			id, invoice_id, product_id, product_name, qty, unit_price, amount, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID,
		item.InvoiceID,
		item.ProductID,
		item.ProductName,
		item.Qty,
		item.UnitPrice,
		item.Amount,
		item.CreatedAt,
	).Error
}

func (r *repo) NextInvoiceNumber(ctx context.Context, db *gorm.DB, vendorID snowflake.ID) (int64, error) {
	var next int64
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(MAX(invoice_number), 0) + 1
		 FROM invoices
		 WHERE vendor_id = ?`,
		vendorID,
	).Scan(&next).Error
	if err != nil {
		return 0, err
	}
	return next, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := db.WithContext(ctx).Raw(
		`SELECT id, invoice_number, vendor_id, customer_id, customer_name,
		        issued_at, total, cash, change, created_at, updated_at
		 FROM invoices WHERE id = ?`,
		id,
	).Scan(&inv).Error
	if err != nil {
		return nil, err
	}
	if inv.ID == 0 {
		return nil, nil
	}
	return &inv, nil
}

func (r *repo) FindItems(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]domain.InvoiceItem, error) {
	var items []domain.InvoiceItem
	err := db.WithContext(ctx).Raw(
		`SELECT id, invoice_id, product_id, product_name, qty, unit_price, amount, created_at
		 FROM invoice_items WHERE invoice_id = ? ORDER BY created_at ASC, id ASC`,
		invoiceID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, vendorID snowflake.ID) ([]domain.Invoice, error) {
	var items []domain.Invoice
	err := db.WithContext(ctx).Raw(
		`SELECT id, invoice_number, vendor_id, customer_id, customer_name,
		        issued_at, total, cash, change, created_at, updated_at
		 FROM invoices WHERE vendor_id = ? ORDER BY created_at ASC`,
		vendorID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindUpdatedAfter(ctx context.Context, db *gorm.DB, vendorID snowflake.ID, since time.Time) ([]domain.Invoice, error) {
	var items []domain.Invoice
	err := db.WithContext(ctx).Raw(
		`SELECT id, invoice_number, vendor_id, customer_id, customer_name,
		        issued_at, total, cash, change, created_at, updated_at
		 FROM invoices WHERE vendor_id = ? AND updated_at > ? ORDER BY updated_at ASC`,
		vendorID,
		since,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
