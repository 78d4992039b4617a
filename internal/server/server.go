package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Vignesh4110/finance-modernization/internal/aging"
	agingdomain "github.com/Vignesh4110/finance-modernization/internal/aging/domain"
	"github.com/Vignesh4110/finance-modernization/internal/config"
	"github.com/Vignesh4110/finance-modernization/internal/customer"
	customerdomain "github.com/Vignesh4110/finance-modernization/internal/customer/domain"
	"github.com/Vignesh4110/finance-modernization/internal/invoice"
	invoicedomain "github.com/Vignesh4110/finance-modernization/internal/invoice/domain"
	"github.com/Vignesh4110/finance-modernization/internal/observability"
	obsmiddleware "github.com/Vignesh4110/finance-modernization/internal/observability/logger"
	obsmetrics "github.com/Vignesh4110/finance-modernization/internal/observability/metrics"
	obstracing "github.com/Vignesh4110/finance-modernization/internal/observability/tracing"
	"github.com/Vignesh4110/finance-modernization/internal/payment"
	paymentdomain "github.com/Vignesh4110/finance-modernization/internal/payment/domain"
	"github.com/Vignesh4110/finance-modernization/internal/seed"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	customer.Module,
	invoice.Module,
	payment.Module,
	aging.Module,
	seed.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
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

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	log         *zap.Logger
	db          *gorm.DB
	customerSvc customerdomain.Service
	invoiceSvc  invoicedomain.Service
	paymentSvc  paymentdomain.Service
	agingSvc    agingdomain.Service
	seeder      *seed.Seeder
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	Log         *zap.Logger
	DB          *gorm.DB
	CustomerSvc customerdomain.Service
	InvoiceSvc  invoicedomain.Service
	PaymentSvc  paymentdomain.Service
	AgingSvc    agingdomain.Service
	Seeder      *seed.Seeder `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		log:         p.Log.Named("server"),
		db:          p.DB,
		customerSvc: p.CustomerSvc,
		invoiceSvc:  p.InvoiceSvc,
		paymentSvc:  p.PaymentSvc,
		agingSvc:    p.AgingSvc,
		seeder:      p.Seeder,
	}

	svc.registerAPIRoutes()
	svc.registerDevRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	v1 := s.engine.Group("/v1")

	customers := v1.Group("/customers")
	{
		customers.POST("", s.CreateCustomer)
		customers.GET("", s.ListCustomers)
		customers.GET("/:customerNo", s.GetCustomer)
	}

	invoices := v1.Group("/invoices")
	{
		invoices.POST("", s.CreateInvoice)
		invoices.GET("", s.ListInvoices)
		invoices.GET("/:invoiceNo", s.GetInvoice)
	}

	payments := v1.Group("/payments")
	{
		payments.POST("", s.CreatePayment)
		payments.GET("", s.ListPayments)
		payments.GET("/:paymentNo", s.GetPayment)
	}

	ar := v1.Group("/aging")
	{
		ar.GET("/invoices", s.InvoiceAging)
		ar.GET("/customers", s.CustomerRisk)
		ar.GET("/summary", s.ARSummary)
		ar.POST("/run", s.RunSnapshot)
	}
}

// registerDevRoutes exposes destructive helpers that never ship to production.
func (s *Server) registerDevRoutes() {
	if !s.cfg.IsDevelopment() || s.seeder == nil {
		return
	}

	dev := s.engine.Group("/v1/dev")
	dev.POST("/seed", s.ReseedSampleData)
}
