package service

import (
	"context"
	"sort"
	"strings"

	"github.com/bwmarrin/snowflake"
	idempotencydomain "github.com/smallretail/fieldsync/internal/idempotency/domain"
	invoicedomain "github.com/smallretail/fieldsync/internal/invoice/domain"
	"github.com/smallretail/fieldsync/internal/syncer/domain"
	pkgdb "github.com/smallretail/fieldsync/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type orderOutcome struct {
	serverID      snowflake.ID
	invoiceNumber int64
	replayed      bool
}

type orderLine struct {
	productID snowflake.ID
	line      domain.LineItem
}

// processOrder runs one order submission to a terminal item result. The
// retry loop only re-enters when a generated invoice number lost a race on
// the (vendor_id, invoice_number) unique index; client-supplied numbers are
// never retried.
func (s *Service) processOrder(ctx context.Context, order domain.OrderSubmission, vendorID snowflake.ID) (domain.ItemResult, string) {
	res := domain.ItemResult{Type: "order", LocalID: strings.TrimSpace(order.LocalID)}
	if res.LocalID == "" {
		res.Error = domain.ErrMissingLocalID.Error()
		return res, outcomeFailed
	}

	var (
		out orderOutcome
		err error
	)
	for attempt := 0; attempt < s.invoiceRetries; attempt++ {
		out, err = s.ingestOrder(ctx, order, vendorID)
		if err == nil {
			break
		}
		if order.InvoiceNumber == 0 && pkgdb.IsDuplicateKeyErr(err) {
			continue
		}
		break
	}
	if err != nil {
		s.log.Warn("order ingestion failed",
			zap.String("local_id", res.LocalID),
			zap.String("vendor_id", vendorID.String()),
			zap.Error(err),
		)
		res.Error = err.Error()
		return res, outcomeFailed
	}

	res.OK = true
	res.ServerID = out.serverID.String()
	res.InvoiceNumber = out.invoiceNumber
	if out.replayed {
		return res, outcomeReplayed
	}
	return res, outcomeCommitted
}

// ingestOrder turns one submission into invoice + line items + stock
// decrements, atomically. The idempotency check runs twice: before the
// reservation and on the reserved row, so concurrent duplicates converge on
// the first committed entity.
func (s *Service) ingestOrder(ctx context.Context, order domain.OrderSubmission, vendorID snowflake.ID) (orderOutcome, error) {
	ctx, cancel := s.itemContext(ctx)
	defer cancel()

	lines, err := parseOrderLines(order.Items)
	if err != nil {
		return orderOutcome{}, err
	}

	var out orderOutcome
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.ledger.Find(ctx, tx, order.LocalID)
		if err != nil {
			return err
		}
		if existing.Committed() {
			return s.replayOrder(ctx, tx, existing, &out)
		}

		entry, _, err := s.ledger.Reserve(ctx, tx, order.LocalID, idempotencydomain.KindOrder, vendorID)
		if err != nil {
			return err
		}
		if entry.Committed() {
			return s.replayOrder(ctx, tx, entry, &out)
		}

		number := order.InvoiceNumber
		if number == 0 {
			number, err = s.invoices.NextInvoiceNumber(ctx, tx, vendorID)
			if err != nil {
				return err
			}
		}

		now := s.clock.Now().UTC()
		issuedAt := order.IssuedAt
		if issuedAt.IsZero() {
			issuedAt = now
		}

		invoiceID := s.genID.Generate()
		invoice := &invoicedomain.Invoice{
			ID:            invoiceID,
			InvoiceNumber: number,
			VendorID:      vendorID,
			CustomerID:    parseOptionalID(order.CustomerID),
			CustomerName:  strings.TrimSpace(order.CustomerName),
			IssuedAt:      issuedAt,
			Total:         order.Total,
			Cash:          order.Cash,
			Change:        order.Change,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.invoices.Insert(ctx, tx, invoice); err != nil {
			return err
		}

		// Line items keep their submitted order in the table.
		for _, l := range lines {
			amount := l.line.Qty.Mul(l.line.UnitPrice).Round(2)
			if err := s.invoices.InsertItem(ctx, tx, &invoicedomain.InvoiceItem{
				ID:          s.genID.Generate(),
				InvoiceID:   invoiceID,
				ProductID:   l.productID,
				ProductName: strings.TrimSpace(l.line.ProductName),
				Qty:         l.line.Qty,
				UnitPrice:   l.line.UnitPrice,
				Amount:      amount,
				CreatedAt:   now,
			}); err != nil {
				return err
			}
		}

		// Stock locks are taken in ascending product ID order so two orders
		// touching the same set of products cannot deadlock.
		locked := make([]orderLine, len(lines))
		copy(locked, lines)
		sort.Slice(locked, func(i, j int) bool { return locked[i].productID < locked[j].productID })
		for _, l := range locked {
			if _, err := s.inventory.LockAndDecrement(ctx, tx, l.productID, l.line.Qty, s.allowNegativeStock); err != nil {
				return err
			}
		}

		if err := s.ledger.Record(ctx, tx, order.LocalID, invoiceID); err != nil {
			return err
		}

		out = orderOutcome{serverID: invoiceID, invoiceNumber: number}
		return nil
	})
	return out, err
}

// replayOrder resolves the prior commit's invoice number read-only.
func (s *Service) replayOrder(ctx context.Context, tx *gorm.DB, entry *idempotencydomain.SyncLog, out *orderOutcome) error {
	out.serverID = *entry.ServerID
	out.replayed = true

	inv, err := s.invoices.FindByID(ctx, tx, *entry.ServerID)
	if err != nil {
		return err
	}
	if inv != nil {
		out.invoiceNumber = inv.InvoiceNumber
	}
	return nil
}

func parseOrderLines(items []domain.LineItem) ([]orderLine, error) {
	lines := make([]orderLine, 0, len(items))
	for _, item := range items {
		productID, err := snowflake.ParseString(strings.TrimSpace(item.ProductID))
		if err != nil || productID == 0 {
			return nil, domain.ErrInvalidProductID
		}
		if !item.Qty.IsPositive() {
			return nil, domain.ErrInvalidQty
		}
		lines = append(lines, orderLine{productID: productID, line: item})
	}
	return lines, nil
}

func parseOptionalID(value string) *snowflake.ID {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return nil
	}
	return &id
}
