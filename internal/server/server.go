// Package server exposes the billing API over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	auditdomain "github.com/smallbiznis/cablebill/internal/audit/domain"
	billdomain "github.com/smallbiznis/cablebill/internal/bill/domain"
	billrender "github.com/smallbiznis/cablebill/internal/bill/render"
	boxdomain "github.com/smallbiznis/cablebill/internal/boxaction/domain"
	"github.com/smallbiznis/cablebill/internal/config"
	customerdomain "github.com/smallbiznis/cablebill/internal/customer/domain"
	ledgerdomain "github.com/smallbiznis/cablebill/internal/ledger/domain"
	"github.com/smallbiznis/cablebill/internal/observability/logger"
	"github.com/smallbiznis/cablebill/internal/observability/metrics"
	paymentdomain "github.com/smallbiznis/cablebill/internal/payment/domain"
	plandomain "github.com/smallbiznis/cablebill/internal/plan/domain"
	settlementdomain "github.com/smallbiznis/cablebill/internal/settlement/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Config        config.Config
	DB            *gorm.DB
	Log           *zap.Logger
	CustomerSvc   customerdomain.Service
	PlanSvc       plandomain.Service
	BillSvc       billdomain.Service
	PaymentSvc    paymentdomain.Service
	SettlementSvc settlementdomain.Service
	BoxSvc        boxdomain.Service
	LedgerSvc     ledgerdomain.Service
	BillRenderer  billrender.Renderer
	AuditSvc      auditdomain.Service  `optional:"true"`
	HTTPMetrics   *metrics.HTTPMetrics `optional:"true"`
}

// Server holds the HTTP handlers and their dependencies.
type Server struct {
	cfg           config.Config
	db            *gorm.DB
	log           *zap.Logger
	customerSvc   customerdomain.Service
	planSvc       plandomain.Service
	billSvc       billdomain.Service
	paymentSvc    paymentdomain.Service
	settlementSvc settlementdomain.Service
	boxSvc        boxdomain.Service
	ledgerSvc     ledgerdomain.Service
	billRenderer  billrender.Renderer
	auditSvc      auditdomain.Service
	httpMetrics   *metrics.HTTPMetrics
}

func NewServer(p Params) *Server {
	return &Server{
		cfg:           p.Config,
		db:            p.DB,
		log:           p.Log.Named("server"),
		customerSvc:   p.CustomerSvc,
		planSvc:       p.PlanSvc,
		billSvc:       p.BillSvc,
		paymentSvc:    p.PaymentSvc,
		settlementSvc: p.SettlementSvc,
		boxSvc:        p.BoxSvc,
		ledgerSvc:     p.LedgerSvc,
		billRenderer:  p.BillRenderer,
		auditSvc:      p.AuditSvc,
		httpMetrics:   p.HTTPMetrics,
	}
}

// NewEngine builds the gin engine with the shared middleware stack.
func NewEngine(cfg config.Config, s *Server) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(logger.GinMiddleware(logger.MiddlewareConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	engine.Use(auditMiddleware())
	if s.httpMetrics != nil {
		engine.Use(metrics.GinMiddleware(s.httpMetrics))
	}

	engine.GET("/healthz", s.Healthz)
	if cfg.MetricsEnabled {
		engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	s.RegisterAPIRoutes(engine)
	return engine
}

// RegisterAPIRoutes mounts the versioned API surface.
func (s *Server) RegisterAPIRoutes(engine *gin.Engine) {
	v1 := engine.Group("/v1")

	customers := v1.Group("/customers")
	customers.POST("", s.CreateCustomer)
	customers.GET("", s.ListCustomers)
	customers.GET("/:id", s.GetCustomerByID)
	customers.PATCH("/:id", s.UpdateCustomer)
	customers.GET("/:id/bills", s.ListCustomerBills)
	customers.GET("/:id/payments", s.ListCustomerPayments)
	customers.GET("/:id/transactions", s.ListCustomerTransactions)
	customers.GET("/:id/box-actions", s.ListCustomerBoxActions)
	customers.POST("/:id/box-actions", s.ApplyBoxAction)

	plans := v1.Group("/plans")
	plans.GET("", s.ListPlans)
	plans.GET("/:id", s.GetPlanByID)

	bills := v1.Group("/bills")
	bills.POST("", s.CreateBill)
	bills.GET("/:id", s.GetBillByID)
	bills.POST("/:id/physical", s.MarkBillPhysicalGenerated)
	bills.GET("/:id/document", s.GetBillDocument)
	bills.GET("/:id/settlements", s.ListBillSettlements)

	payments := v1.Group("/payments")
	payments.POST("", s.CreatePayment)
	payments.GET("/:id", s.GetPaymentByID)

	settlements := v1.Group("/settlements")
	settlements.POST("", s.CreateDueSettlement)
	settlements.GET("/:id", s.GetDueSettlementByID)

	transactions := v1.Group("/transactions")
	transactions.GET("/:id", s.GetTransactionByID)
}

// Healthz reports process liveness and database reachability.
func (s *Server) Healthz(c *gin.Context) {
	sqlDB, err := s.db.DB()
	if err != nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RunHTTP binds the engine to the configured address under the fx
// lifecycle.
func RunHTTP(lc fx.Lifecycle, cfg config.Config, engine *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
