package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smallretail/fieldsync/internal/changefeed/domain"
	customerdomain "github.com/smallretail/fieldsync/internal/customer/domain"
	customerrepo "github.com/smallretail/fieldsync/internal/customer/repository"
	invoicedomain "github.com/smallretail/fieldsync/internal/invoice/domain"
	invoicerepo "github.com/smallretail/fieldsync/internal/invoice/repository"
	productdomain "github.com/smallretail/fieldsync/internal/product/domain"
	productrepo "github.com/smallretail/fieldsync/internal/product/repository"
	pkgdb "github.com/smallretail/fieldsync/pkg/db"
)

func newTestProvider(t *testing.T) (domain.Provider, *gorm.DB, *snowflake.Node) {
	t.Helper()

	conn, err := pkgdb.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&productdomain.Product{},
		&customerdomain.Customer{},
		&invoicedomain.Invoice{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	provider := New(Params{
		DB:           conn,
		Log:          zap.NewNop(),
		ProductRepo:  productrepo.Provide(),
		CustomerRepo: customerrepo.Provide(),
		InvoiceRepo:  invoicerepo.Provide(),
	})
	return provider, conn, node
}

func seedProductAt(t *testing.T, conn *gorm.DB, node *snowflake.Node, code string, updatedAt time.Time) productdomain.Product {
	t.Helper()

	p := productdomain.Product{
		ID:        node.Generate(),
		Code:      code,
		Name:      "Product " + code,
		UnitPrice: decimal.NewFromInt(1),
		StockQty:  decimal.NewFromInt(10),
		Active:    true,
		CreatedAt: updatedAt,
		UpdatedAt: updatedAt,
	}
	require.NoError(t, conn.Create(&p).Error)
	return p
}

func TestDeltaOrderedByUpdatedAt(t *testing.T) {
	provider, conn, node := newTestProvider(t)
	since := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	newer := seedProductAt(t, conn, node, "P2", since.Add(2*time.Hour))
	older := seedProductAt(t, conn, node, "P1", since.Add(time.Hour))
	seedProductAt(t, conn, node, "P0", since.Add(-time.Hour))

	changes := provider.Delta(context.Background(), since, 0)
	require.Len(t, changes.Products, 2)
	require.Equal(t, older.ID, changes.Products[0].ID)
	require.Equal(t, newer.ID, changes.Products[1].ID)
	require.Empty(t, changes.Warnings)
}

func TestDeltaScopesInvoicesToVendor(t *testing.T) {
	provider, conn, node := newTestProvider(t)
	since := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	vendorID := node.Generate()
	otherVendor := node.Generate()
	for i, vid := range []snowflake.ID{vendorID, otherVendor} {
		require.NoError(t, conn.Create(&invoicedomain.Invoice{
			ID:            node.Generate(),
			InvoiceNumber: int64(i + 1),
			VendorID:      vid,
			IssuedAt:      since.Add(time.Hour),
			Total:         decimal.NewFromInt(5),
			Cash:          decimal.NewFromInt(5),
			Change:        decimal.Zero,
			CreatedAt:     since.Add(time.Hour),
			UpdatedAt:     since.Add(time.Hour),
		}).Error)
	}

	changes := provider.Delta(context.Background(), since, vendorID)
	require.Len(t, changes.Invoices, 1)
	require.Equal(t, vendorID, changes.Invoices[0].VendorID)

	// Without a vendor the invoice portion is omitted entirely, not warned.
	anonymous := provider.Delta(context.Background(), since, 0)
	require.Empty(t, anonymous.Invoices)
	require.Empty(t, anonymous.Warnings)
}

func TestDeltaSurfacesSubQueryFailure(t *testing.T) {
	provider, conn, node := newTestProvider(t)
	since := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, conn.Create(&customerdomain.Customer{
		ID:        node.Generate(),
		Name:      "Corner Shop",
		CreatedAt: since.Add(time.Hour),
		UpdatedAt: since.Add(time.Hour),
	}).Error)

	// A missing table makes the product sub-query fail while the rest of the
	// delta still comes back.
	require.NoError(t, conn.Migrator().DropTable(&productdomain.Product{}))

	changes := provider.Delta(context.Background(), since, 0)
	require.Empty(t, changes.Products)
	require.Len(t, changes.Customers, 1)
	require.Equal(t, []string{"products: delta query failed"}, changes.Warnings)
}
