package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallretail/fieldsync/internal/changefeed/domain"
	customerdomain "github.com/smallretail/fieldsync/internal/customer/domain"
	invoicedomain "github.com/smallretail/fieldsync/internal/invoice/domain"
	productdomain "github.com/smallretail/fieldsync/internal/product/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	ProductRepo  productdomain.Repository
	CustomerRepo customerdomain.Repository
	InvoiceRepo  invoicedomain.Repository
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	productRepo  productdomain.Repository
	customerRepo customerdomain.Repository
	invoiceRepo  invoicedomain.Repository
}

func New(p Params) domain.Provider {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("changefeed.service"),
		productRepo:  p.ProductRepo,
		customerRepo: p.CustomerRepo,
		invoiceRepo:  p.InvoiceRepo,
	}
}

// Delta runs the three sub-queries independently: one failing portion yields
// an empty slice plus a warning, never an aborted response.
func (s *Service) Delta(ctx context.Context, since time.Time, vendorID snowflake.ID) domain.Changes {
	changes := domain.Changes{
		Products:  []productdomain.Product{},
		Customers: []customerdomain.Customer{},
		Invoices:  []invoicedomain.Invoice{},
	}

	products, err := s.productRepo.FindUpdatedAfter(ctx, s.db, since)
	if err != nil {
		s.log.Warn("product delta query failed", zap.Error(err))
		changes.Warnings = append(changes.Warnings, "products: delta query failed")
	} else {
		changes.Products = products
	}

	customers, err := s.customerRepo.FindUpdatedAfter(ctx, s.db, since)
	if err != nil {
		s.log.Warn("customer delta query failed", zap.Error(err))
		changes.Warnings = append(changes.Warnings, "customers: delta query failed")
	} else {
		changes.Customers = customers
	}

	if vendorID != 0 {
		invoices, err := s.invoiceRepo.FindUpdatedAfter(ctx, s.db, vendorID, since)
		if err != nil {
			s.log.Warn("invoice delta query failed",
				zap.String("vendor_id", vendorID.String()),
				zap.Error(err),
			)
			changes.Warnings = append(changes.Warnings, "invoices: delta query failed")
		} else {
			changes.Invoices = invoices
		}
	}

	return changes
}
