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

	changefeedservice "github.com/smallretail/fieldsync/internal/changefeed/service"
	"github.com/smallretail/fieldsync/internal/clock"
	"github.com/smallretail/fieldsync/internal/config"
	customerdomain "github.com/smallretail/fieldsync/internal/customer/domain"
	customerrepo "github.com/smallretail/fieldsync/internal/customer/repository"
	idempotencydomain "github.com/smallretail/fieldsync/internal/idempotency/domain"
	idempotencyrepo "github.com/smallretail/fieldsync/internal/idempotency/repository"
	inventoryrepo "github.com/smallretail/fieldsync/internal/inventory/repository"
	invoicedomain "github.com/smallretail/fieldsync/internal/invoice/domain"
	invoicerepo "github.com/smallretail/fieldsync/internal/invoice/repository"
	productdomain "github.com/smallretail/fieldsync/internal/product/domain"
	productrepo "github.com/smallretail/fieldsync/internal/product/repository"
	"github.com/smallretail/fieldsync/internal/syncer/domain"
	vendordomain "github.com/smallretail/fieldsync/internal/vendors/domain"
	visitdomain "github.com/smallretail/fieldsync/internal/visit/domain"
	visitrepo "github.com/smallretail/fieldsync/internal/visit/repository"
	pkgdb "github.com/smallretail/fieldsync/pkg/db"
)

type testEnv struct {
	svc  domain.Service
	db   *gorm.DB
	clk  *clock.FakeClock
	node *snowflake.Node
}

func defaultSyncCfg() config.SyncConfig {
	return config.SyncConfig{
		ItemTimeout:          5 * time.Second,
		AllowNegativeStock:   true,
		InvoiceNumberRetries: 3,
	}
}

func newTestEnv(t *testing.T, syncCfg config.SyncConfig) *testEnv {
	t.Helper()

	conn, err := pkgdb.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&productdomain.Product{},
		&customerdomain.Customer{},
		&vendordomain.Vendor{},
		&idempotencydomain.SyncLog{},
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceItem{},
		&visitdomain.VisitResult{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	invoices := invoicerepo.Provide()
	feed := changefeedservice.New(changefeedservice.Params{
		DB:           conn,
		Log:          zap.NewNop(),
		ProductRepo:  productrepo.Provide(),
		CustomerRepo: customerrepo.Provide(),
		InvoiceRepo:  invoices,
	})

	clk := clock.NewFakeClock(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	svc := New(Params{
		DB:        conn,
		Log:       zap.NewNop(),
		Cfg:       config.Config{Sync: syncCfg},
		GenID:     node,
		Clock:     clk,
		Ledger:    idempotencyrepo.Provide(),
		Inventory: inventoryrepo.Provide(),
		Invoices:  invoices,
		Visits:    visitrepo.Provide(),
		Feed:      feed,
	})

	return &testEnv{svc: svc, db: conn, clk: clk, node: node}
}

func (e *testEnv) seedProduct(t *testing.T, code, stock, price string) productdomain.Product {
	t.Helper()

	now := e.clk.Now()
	p := productdomain.Product{
		ID:        e.node.Generate(),
		Code:      code,
		Name:      "Product " + code,
		UnitPrice: decimal.RequireFromString(price),
		StockQty:  decimal.RequireFromString(stock),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, e.db.Create(&p).Error)
	return p
}

func (e *testEnv) stockOf(t *testing.T, id snowflake.ID) decimal.Decimal {
	t.Helper()

	var p productdomain.Product
	require.NoError(t, e.db.Where("id = ?", id).First(&p).Error)
	return p.StockQty
}

func (e *testEnv) count(t *testing.T, model any) int64 {
	t.Helper()

	var n int64
	require.NoError(t, e.db.Model(model).Count(&n).Error)
	return n
}

func orderFor(localID string, p productdomain.Product, qty string) domain.OrderSubmission {
	q := decimal.RequireFromString(qty)
	return domain.OrderSubmission{
		LocalID:      localID,
		CustomerName: "Walk-in",
		Total:        q.Mul(p.UnitPrice),
		Cash:         q.Mul(p.UnitPrice),
		Change:       decimal.Zero,
		Items: []domain.LineItem{{
			ProductID:   p.ID.String(),
			ProductName: p.Name,
			Qty:         q,
			UnitPrice:   p.UnitPrice,
		}},
	}
}

func TestOrderCommitDecrementsStock(t *testing.T) {
	env := newTestEnv(t, defaultSyncCfg())
	vendorID := env.node.Generate()
	p := env.seedProduct(t, "P1", "10", "2.50")

	res, err := env.svc.Process(context.Background(), domain.Batch{
		VendorID: vendorID,
		Orders:   []domain.OrderSubmission{orderFor("order-1", p, "3")},
	})
	require.NoError(t, err)
	require.Len(t, res.Results, 1)

	item := res.Results[0]
	require.True(t, item.OK, "item error: %s", item.Error)
	require.Equal(t, "order", item.Type)
	require.Equal(t, "order-1", item.LocalID)
	require.NotEmpty(t, item.ServerID)
	require.Equal(t, int64(1), item.InvoiceNumber)

	require.True(t, env.stockOf(t, p.ID).Equal(decimal.RequireFromString("7")))
	require.Equal(t, int64(1), env.count(t, &invoicedomain.Invoice{}))
	require.Equal(t, int64(1), env.count(t, &invoicedomain.InvoiceItem{}))

	var entry idempotencydomain.SyncLog
	require.NoError(t, env.db.Where("local_id = ?", "order-1").First(&entry).Error)
	require.True(t, entry.Committed())
	require.Equal(t, item.ServerID, entry.ServerID.String())
}

func TestOrderReplayIsIdempotent(t *testing.T) {
	env := newTestEnv(t, defaultSyncCfg())
	vendorID := env.node.Generate()
	p := env.seedProduct(t, "P1", "10", "2.50")

	batch := domain.Batch{
		VendorID: vendorID,
		Orders:   []domain.OrderSubmission{orderFor("order-1", p, "3")},
	}

	first, err := env.svc.Process(context.Background(), batch)
	require.NoError(t, err)
	second, err := env.svc.Process(context.Background(), batch)
	require.NoError(t, err)

	require.True(t, second.Results[0].OK)
	require.Equal(t, first.Results[0].ServerID, second.Results[0].ServerID)
	require.Equal(t, first.Results[0].InvoiceNumber, second.Results[0].InvoiceNumber)

	// The replay must not touch stock or create a second invoice.
	require.True(t, env.stockOf(t, p.ID).Equal(decimal.RequireFromString("7")))
	require.Equal(t, int64(1), env.count(t, &invoicedomain.Invoice{}))
	require.Equal(t, int64(1), env.count(t, &invoicedomain.InvoiceItem{}))
}

func TestOrderUnknownProductRollsBack(t *testing.T) {
	env := newTestEnv(t, defaultSyncCfg())
	vendorID := env.node.Generate()
	p := env.seedProduct(t, "P1", "10", "2.50")

	order := orderFor("order-1", p, "3")
	order.Items = append(order.Items, domain.LineItem{
		ProductID: env.node.Generate().String(),
		Qty:       decimal.NewFromInt(1),
		UnitPrice: decimal.NewFromInt(1),
	})

	res, err := env.svc.Process(context.Background(), domain.Batch{
		VendorID: vendorID,
		Orders:   []domain.OrderSubmission{order},
	})
	require.NoError(t, err)
	require.False(t, res.Results[0].OK)
	require.Equal(t, "product_not_found", res.Results[0].Error)

	// Nothing from the failed item may remain visible.
	require.True(t, env.stockOf(t, p.ID).Equal(decimal.RequireFromString("10")))
	require.Equal(t, int64(0), env.count(t, &invoicedomain.Invoice{}))
	require.Equal(t, int64(0), env.count(t, &invoicedomain.InvoiceItem{}))
	require.Equal(t, int64(0), env.count(t, &idempotencydomain.SyncLog{}))
}

func TestBatchPartialFailure(t *testing.T) {
	env := newTestEnv(t, defaultSyncCfg())
	vendorID := env.node.Generate()
	p := env.seedProduct(t, "P1", "10", "2.50")

	bad := orderFor("order-bad", p, "3")
	bad.Items[0].ProductID = "not-a-product"

	res, err := env.svc.Process(context.Background(), domain.Batch{
		VendorID: vendorID,
		Orders: []domain.OrderSubmission{
			orderFor("order-1", p, "2"),
			bad,
			orderFor("order-2", p, "1"),
		},
	})
	require.NoError(t, err)
	require.Len(t, res.Results, 3)

	require.True(t, res.Results[0].OK)
	require.False(t, res.Results[1].OK)
	require.Equal(t, "invalid_product_id", res.Results[1].Error)
	require.True(t, res.Results[2].OK)

	require.True(t, env.stockOf(t, p.ID).Equal(decimal.RequireFromString("7")))
	require.Equal(t, int64(2), env.count(t, &invoicedomain.Invoice{}))
}

func TestMissingLocalIDFailsWithoutSideEffects(t *testing.T) {
	env := newTestEnv(t, defaultSyncCfg())
	vendorID := env.node.Generate()
	p := env.seedProduct(t, "P1", "10", "2.50")

	res, err := env.svc.Process(context.Background(), domain.Batch{
		VendorID: vendorID,
		Orders:   []domain.OrderSubmission{orderFor("   ", p, "3")},
		Visits:   []domain.VisitSubmission{{CustomerName: "Shop"}},
	})
	require.NoError(t, err)
	require.Len(t, res.Results, 2)
	for _, item := range res.Results {
		require.False(t, item.OK)
		require.Equal(t, "missing_local_id", item.Error)
	}

	require.Equal(t, int64(0), env.count(t, &idempotencydomain.SyncLog{}))
	require.True(t, env.stockOf(t, p.ID).Equal(decimal.RequireFromString("10")))
}

func TestNegativeStockPolicy(t *testing.T) {
	t.Run("rejected when disallowed", func(t *testing.T) {
		cfg := defaultSyncCfg()
		cfg.AllowNegativeStock = false
		env := newTestEnv(t, cfg)
		p := env.seedProduct(t, "P1", "2", "1.00")

		res, err := env.svc.Process(context.Background(), domain.Batch{
			VendorID: env.node.Generate(),
			Orders:   []domain.OrderSubmission{orderFor("order-1", p, "5")},
		})
		require.NoError(t, err)
		require.False(t, res.Results[0].OK)
		require.Equal(t, "insufficient_stock", res.Results[0].Error)
		require.True(t, env.stockOf(t, p.ID).Equal(decimal.RequireFromString("2")))
		require.Equal(t, int64(0), env.count(t, &invoicedomain.Invoice{}))
	})

	t.Run("backorder when allowed", func(t *testing.T) {
		env := newTestEnv(t, defaultSyncCfg())
		p := env.seedProduct(t, "P1", "2", "1.00")

		res, err := env.svc.Process(context.Background(), domain.Batch{
			VendorID: env.node.Generate(),
			Orders:   []domain.OrderSubmission{orderFor("order-1", p, "5")},
		})
		require.NoError(t, err)
		require.True(t, res.Results[0].OK)
		require.True(t, env.stockOf(t, p.ID).Equal(decimal.RequireFromString("-3")))
	})
}

func TestInvoiceNumbersAreSequentialPerVendor(t *testing.T) {
	env := newTestEnv(t, defaultSyncCfg())
	vendorID := env.node.Generate()
	otherVendor := env.node.Generate()
	p := env.seedProduct(t, "P1", "100", "1.00")

	clientNumbered := orderFor("order-2", p, "1")
	clientNumbered.InvoiceNumber = 77

	res, err := env.svc.Process(context.Background(), domain.Batch{
		VendorID: vendorID,
		Orders: []domain.OrderSubmission{
			orderFor("order-1", p, "1"),
			clientNumbered,
			orderFor("order-3", p, "1"),
		},
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), res.Results[0].InvoiceNumber)
	require.Equal(t, int64(77), res.Results[1].InvoiceNumber)
	// Generated numbers continue after the highest committed number.
	require.Equal(t, int64(78), res.Results[2].InvoiceNumber)

	other, err := env.svc.Process(context.Background(), domain.Batch{
		VendorID: otherVendor,
		Orders:   []domain.OrderSubmission{orderFor("order-other", p, "1")},
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), other.Results[0].InvoiceNumber)
}

func TestVisitCommitAndReplay(t *testing.T) {
	env := newTestEnv(t, defaultSyncCfg())
	vendorID := env.node.Generate()

	batch := domain.Batch{
		VendorID: vendorID,
		Visits: []domain.VisitSubmission{{
			LocalID:      "visit-1",
			CustomerName: "Corner Shop",
			Interest:     "high",
			Probability:  "hot",
			Potential:    decimal.RequireFromString("150.00"),
			VisitedAt:    time.Date(2026, 3, 13, 16, 30, 0, 0, time.UTC),
		}},
	}

	first, err := env.svc.Process(context.Background(), batch)
	require.NoError(t, err)
	require.True(t, first.Results[0].OK)
	require.Equal(t, "visit", first.Results[0].Type)
	require.NotEmpty(t, first.Results[0].ServerID)

	second, err := env.svc.Process(context.Background(), batch)
	require.NoError(t, err)
	require.Equal(t, first.Results[0].ServerID, second.Results[0].ServerID)
	require.Equal(t, int64(1), env.count(t, &visitdomain.VisitResult{}))
}

func TestCommittedReservationReplaysWithoutNewEntity(t *testing.T) {
	env := newTestEnv(t, defaultSyncCfg())
	vendorID := env.node.Generate()
	p := env.seedProduct(t, "P1", "10", "2.50")

	// First commit establishes the ledger entry another device would race on.
	first, err := env.svc.Process(context.Background(), domain.Batch{
		VendorID: vendorID,
		Orders:   []domain.OrderSubmission{orderFor("order-1", p, "3")},
	})
	require.NoError(t, err)
	require.True(t, first.Results[0].OK)

	// A later submission with the same local id but different payload still
	// converges on the committed entity.
	altered := orderFor("order-1", p, "9")
	res, err := env.svc.Process(context.Background(), domain.Batch{
		VendorID: vendorID,
		Orders:   []domain.OrderSubmission{altered},
	})
	require.NoError(t, err)
	require.True(t, res.Results[0].OK)
	require.Equal(t, first.Results[0].ServerID, res.Results[0].ServerID)
	require.True(t, env.stockOf(t, p.ID).Equal(decimal.RequireFromString("7")))
	require.Equal(t, int64(1), env.count(t, &invoicedomain.Invoice{}))
}

func TestProcessRequiresVendor(t *testing.T) {
	env := newTestEnv(t, defaultSyncCfg())

	_, err := env.svc.Process(context.Background(), domain.Batch{})
	require.ErrorIs(t, err, domain.ErrInvalidVendor)
}

func TestResultCarriesDeltaAndServerTime(t *testing.T) {
	env := newTestEnv(t, defaultSyncCfg())
	vendorID := env.node.Generate()
	p := env.seedProduct(t, "P1", "10", "2.50")

	since := env.clk.Now().Add(-time.Hour)
	res, err := env.svc.Process(context.Background(), domain.Batch{
		VendorID:   vendorID,
		LastSyncAt: since,
		Orders:     []domain.OrderSubmission{orderFor("order-1", p, "3")},
	})
	require.NoError(t, err)

	require.Equal(t, env.clk.Now(), res.ServerTime)
	require.Len(t, res.Changes.Products, 1)
	require.Equal(t, p.ID, res.Changes.Products[0].ID)
	require.Len(t, res.Changes.Invoices, 1)
	require.Empty(t, res.Changes.Warnings)
}
