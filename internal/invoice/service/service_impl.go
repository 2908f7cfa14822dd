package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallretail/fieldsync/internal/invoice/domain"
	"github.com/smallretail/fieldsync/internal/vendorctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("invoice.service"),
		repo: p.Repo,
	}
}

func (s *Service) List(ctx context.Context, vendorID string) ([]domain.Invoice, error) {
	id, ok := vendorctx.VendorIDFromContext(ctx)
	if !ok || id == 0 {
		parsed, err := snowflake.ParseString(strings.TrimSpace(vendorID))
		if err != nil || parsed == 0 {
			return nil, domain.ErrInvalidVendorID
		}
		id = parsed
	}
	return s.repo.List(ctx, s.db, id)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Invoice, []domain.InvoiceItem, error) {
	invoiceID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, nil, domain.ErrInvalidID
	}

	inv, err := s.repo.FindByID(ctx, s.db, invoiceID)
	if err != nil {
		return nil, nil, err
	}
	if inv == nil {
		return nil, nil, domain.ErrNotFound
	}

	items, err := s.repo.FindItems(ctx, s.db, invoiceID)
	if err != nil {
		return nil, nil, err
	}
	return inv, items, nil
}
