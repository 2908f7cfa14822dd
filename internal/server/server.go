package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smallretail/fieldsync/internal/changefeed"
	"github.com/smallretail/fieldsync/internal/config"
	"github.com/smallretail/fieldsync/internal/customer"
	customerdomain "github.com/smallretail/fieldsync/internal/customer/domain"
	"github.com/smallretail/fieldsync/internal/idempotency"
	"github.com/smallretail/fieldsync/internal/inventory"
	"github.com/smallretail/fieldsync/internal/invoice"
	invoicedomain "github.com/smallretail/fieldsync/internal/invoice/domain"
	obsmiddleware "github.com/smallretail/fieldsync/internal/observability/logger"
	obsmetrics "github.com/smallretail/fieldsync/internal/observability/metrics"
	"github.com/smallretail/fieldsync/internal/product"
	productdomain "github.com/smallretail/fieldsync/internal/product/domain"
	"github.com/smallretail/fieldsync/internal/ratelimit"
	"github.com/smallretail/fieldsync/internal/syncer"
	syncerdomain "github.com/smallretail/fieldsync/internal/syncer/domain"
	"github.com/smallretail/fieldsync/internal/vendors"
	vendordomain "github.com/smallretail/fieldsync/internal/vendors/domain"
	"github.com/smallretail/fieldsync/internal/visit"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	customer.Module,
	product.Module,
	vendor.Module,
	invoice.Module,
	visit.Module,
	idempotency.Module,
	inventory.Module,
	changefeed.Module,
	ratelimit.Module,
	syncer.Module,
	fx.Invoke(NewServer),
	fx.Invoke(RunHTTP),
)

func NewEngine(log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(log.Named("http")))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(log, httpMetrics)
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	db          *gorm.DB
	syncSvc     syncerdomain.Service
	productSvc  productdomain.Service
	customerSvc customerdomain.Service
	vendorSvc   vendordomain.Service
	invoiceSvc  invoicedomain.Service
	syncLimiter *ratelimit.SyncIngestLimiter
	log         *zap.Logger
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	DB          *gorm.DB
	Log         *zap.Logger
	SyncSvc     syncerdomain.Service
	ProductSvc  productdomain.Service
	CustomerSvc customerdomain.Service
	VendorSvc   vendordomain.Service
	InvoiceSvc  invoicedomain.Service
	SyncLimiter *ratelimit.SyncIngestLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		db:          p.DB,
		syncSvc:     p.SyncSvc,
		productSvc:  p.ProductSvc,
		customerSvc: p.CustomerSvc,
		vendorSvc:   p.VendorSvc,
		invoiceSvc:  p.InvoiceSvc,
		syncLimiter: p.SyncLimiter,
		log:         p.Log.Named("http.server"),
	}

	svc.RegisterAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) RegisterAPIRoutes() {
	api := s.engine.Group("/api")

	api.POST("/sync", s.VendorIdentity(), s.SyncRateLimit(), s.Sync)

	api.GET("/products", s.ListProducts)
	api.POST("/products", s.CreateProduct)
	api.GET("/products/:id", s.GetProductByID)
	api.PATCH("/products/:id", s.UpdateProduct)

	api.GET("/customers", s.ListCustomers)
	api.POST("/customers", s.CreateCustomer)
	api.GET("/customers/:id", s.GetCustomerByID)

	api.GET("/vendors", s.ListVendors)
	api.POST("/vendors", s.CreateVendor)
	api.GET("/vendors/:id", s.GetVendorByID)

	api.GET("/invoices", s.VendorIdentity(), s.ListInvoices)
	api.GET("/invoices/:id", s.GetInvoiceByID)
}

func RunHTTP(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
