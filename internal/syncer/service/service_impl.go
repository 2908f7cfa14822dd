package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	changefeeddomain "github.com/smallretail/fieldsync/internal/changefeed/domain"
	"github.com/smallretail/fieldsync/internal/clock"
	"github.com/smallretail/fieldsync/internal/config"
	idempotencydomain "github.com/smallretail/fieldsync/internal/idempotency/domain"
	inventorydomain "github.com/smallretail/fieldsync/internal/inventory/domain"
	invoicedomain "github.com/smallretail/fieldsync/internal/invoice/domain"
	obsmetrics "github.com/smallretail/fieldsync/internal/observability/metrics"
	"github.com/smallretail/fieldsync/internal/syncer/domain"
	"github.com/smallretail/fieldsync/internal/vendorctx"
	visitdomain "github.com/smallretail/fieldsync/internal/visit/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	outcomeCommitted = "committed"
	outcomeReplayed  = "replayed"
	outcomeFailed    = "failed"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Cfg       config.Config
	GenID     *snowflake.Node
	Clock     clock.Clock
	Ledger    idempotencydomain.Repository
	Inventory inventorydomain.Ledger
	Invoices  invoicedomain.Repository
	Visits    visitdomain.Repository
	Feed      changefeeddomain.Provider
	Metrics   *obsmetrics.SyncMetrics `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	ledger    idempotencydomain.Repository
	inventory inventorydomain.Ledger
	invoices  invoicedomain.Repository
	visits    visitdomain.Repository
	feed      changefeeddomain.Provider
	metrics   *obsmetrics.SyncMetrics

	itemTimeout        time.Duration
	allowNegativeStock bool
	invoiceRetries     int
}

func New(p Params) domain.Service {
	retries := p.Cfg.Sync.InvoiceNumberRetries
	if retries < 1 {
		retries = 1
	}
	return &Service{
		db:                 p.DB,
		log:                p.Log.Named("sync.service"),
		genID:              p.GenID,
		clock:              p.Clock,
		ledger:             p.Ledger,
		inventory:          p.Inventory,
		invoices:           p.Invoices,
		visits:             p.Visits,
		feed:               p.Feed,
		metrics:            p.Metrics,
		itemTimeout:        p.Cfg.Sync.ItemTimeout,
		allowNegativeStock: p.Cfg.Sync.AllowNegativeStock,
		invoiceRetries:     retries,
	}
}

// Process applies every batch item under its own transaction, in submission
// order, then appends the delta feed. There is no batch-wide transaction: a
// failed item rolls back alone and the rest of the batch proceeds.
func (s *Service) Process(ctx context.Context, batch domain.Batch) (*domain.Result, error) {
	start := time.Now()

	vendorID := batch.VendorID
	if id, ok := vendorctx.VendorIDFromContext(ctx); ok && id != 0 {
		vendorID = id
	}
	if vendorID == 0 {
		return nil, domain.ErrInvalidVendor
	}

	results := make([]domain.ItemResult, 0, len(batch.Orders)+len(batch.Visits))
	for _, order := range batch.Orders {
		res, outcome := s.processOrder(ctx, order, vendorID)
		s.observeItem("order", outcome)
		results = append(results, res)
	}
	for _, visit := range batch.Visits {
		res, outcome := s.processVisit(ctx, visit, vendorID)
		s.observeItem("visit", outcome)
		results = append(results, res)
	}

	changes := s.feed.Delta(ctx, batch.LastSyncAt, vendorID)

	if s.metrics != nil {
		s.metrics.ObserveBatch(vendorID.String(), len(results), time.Since(start))
	}

	s.log.Info("batch processed",
		zap.String("vendor_id", vendorID.String()),
		zap.Int("orders", len(batch.Orders)),
		zap.Int("visits", len(batch.Visits)),
		zap.Int("feed_warnings", len(changes.Warnings)),
		zap.Duration("took", time.Since(start)),
	)

	return &domain.Result{
		ServerTime: s.clock.Now().UTC(),
		Results:    results,
		Changes:    changes,
	}, nil
}

func (s *Service) observeItem(kind, outcome string) {
	if s.metrics == nil {
		return
	}
	s.metrics.IncItem(kind, outcome)
}

// itemContext bounds one item's transaction so a slow item cannot hold up
// the rest of the batch.
func (s *Service) itemContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.itemTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.itemTimeout)
}
