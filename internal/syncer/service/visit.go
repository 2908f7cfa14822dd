package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	idempotencydomain "github.com/smallretail/fieldsync/internal/idempotency/domain"
	"github.com/smallretail/fieldsync/internal/syncer/domain"
	visitdomain "github.com/smallretail/fieldsync/internal/visit/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// processVisit mirrors the order path's idempotency dance without any
// inventory effects.
func (s *Service) processVisit(ctx context.Context, visit domain.VisitSubmission, vendorID snowflake.ID) (domain.ItemResult, string) {
	res := domain.ItemResult{Type: "visit", LocalID: strings.TrimSpace(visit.LocalID)}
	if res.LocalID == "" {
		res.Error = domain.ErrMissingLocalID.Error()
		return res, outcomeFailed
	}

	serverID, replayed, err := s.ingestVisit(ctx, visit, vendorID)
	if err != nil {
		s.log.Warn("visit ingestion failed",
			zap.String("local_id", res.LocalID),
			zap.String("vendor_id", vendorID.String()),
			zap.Error(err),
		)
		res.Error = err.Error()
		return res, outcomeFailed
	}

	res.OK = true
	res.ServerID = serverID.String()
	if replayed {
		return res, outcomeReplayed
	}
	return res, outcomeCommitted
}

func (s *Service) ingestVisit(ctx context.Context, visit domain.VisitSubmission, vendorID snowflake.ID) (snowflake.ID, bool, error) {
	ctx, cancel := s.itemContext(ctx)
	defer cancel()

	var (
		serverID snowflake.ID
		replayed bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.ledger.Find(ctx, tx, visit.LocalID)
		if err != nil {
			return err
		}
		if existing.Committed() {
			serverID = *existing.ServerID
			replayed = true
			return nil
		}

		entry, _, err := s.ledger.Reserve(ctx, tx, visit.LocalID, idempotencydomain.KindVisit, vendorID)
		if err != nil {
			return err
		}
		if entry.Committed() {
			serverID = *entry.ServerID
			replayed = true
			return nil
		}

		now := s.clock.Now().UTC()
		visitedAt := visit.VisitedAt
		if visitedAt.IsZero() {
			visitedAt = now
		}

		visitID := s.genID.Generate()
		if err := s.visits.Insert(ctx, tx, &visitdomain.VisitResult{
			ID:           visitID,
			VendorID:     vendorID,
			CustomerID:   parseOptionalID(visit.CustomerID),
			CustomerName: strings.TrimSpace(visit.CustomerName),
			Interest:     strings.TrimSpace(visit.Interest),
			Probability:  strings.TrimSpace(visit.Probability),
			Notes:        visit.Notes,
			Potential:    visit.Potential,
			FollowUpAt:   visit.FollowUpAt,
			VisitedAt:    visitedAt,
			CreatedAt:    now,
		}); err != nil {
			return err
		}

		if err := s.ledger.Record(ctx, tx, visit.LocalID, visitID); err != nil {
			return err
		}

		serverID = visitID
		return nil
	})
	return serverID, replayed, err
}
