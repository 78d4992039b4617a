package service

import (
	"context"
	"time"

	"github.com/Vignesh4110/finance-modernization/internal/aging/domain"
	"github.com/Vignesh4110/finance-modernization/internal/aging/engine"
	"github.com/Vignesh4110/finance-modernization/internal/clock"
	"github.com/Vignesh4110/finance-modernization/internal/config"
	customerdomain "github.com/Vignesh4110/finance-modernization/internal/customer/domain"
	invoicedomain "github.com/Vignesh4110/finance-modernization/internal/invoice/domain"
	"github.com/Vignesh4110/finance-modernization/internal/observability/metrics"
	paymentdomain "github.com/Vignesh4110/finance-modernization/internal/payment/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Clock     clock.Clock
	Rules     *config.AgingConfigHolder
	Customers customerdomain.Repository
	Invoices  invoicedomain.Repository
	Payments  paymentdomain.Repository
	Snapshots domain.SnapshotRepository
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	clock     clock.Clock
	rules     *config.AgingConfigHolder
	customers customerdomain.Repository
	invoices  invoicedomain.Repository
	payments  paymentdomain.Repository
	snapshots domain.SnapshotRepository
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("aging.service"),
		clock:     p.Clock,
		rules:     p.Rules,
		customers: p.Customers,
		invoices:  p.Invoices,
		payments:  p.Payments,
		snapshots: p.Snapshots,
	}
}

type inputs struct {
	customers []customerdomain.Customer
	invoices  []invoicedomain.Invoice
	payments  []paymentdomain.Payment
}

func (s *Service) InvoiceAging(ctx context.Context, req domain.RunRequest) (domain.InvoiceAgingResponse, error) {
	asOf := s.normalizeAsOf(req.AsOf)

	start := time.Now()
	in, err := s.load(ctx)
	if err != nil {
		metrics.Engine().ObserveRun(trigger(req), time.Since(start), err)
		return domain.InvoiceAgingResponse{}, err
	}

	rows, report := engine.BuildInvoiceAging(in.customers, in.invoices, asOf, s.rules.Get())
	s.recordRun(trigger(req), start, rows, report, nil)

	return domain.InvoiceAgingResponse{
		AsOfDate: asOf,
		Invoices: rows,
		Report:   report,
	}, nil
}

func (s *Service) CustomerRisk(ctx context.Context, req domain.RunRequest) (domain.CustomerRiskResponse, error) {
	asOf := s.normalizeAsOf(req.AsOf)

	start := time.Now()
	in, err := s.load(ctx)
	if err != nil {
		metrics.Engine().ObserveRun(trigger(req), time.Since(start), err)
		return domain.CustomerRiskResponse{}, err
	}

	cfg := s.rules.Get()
	rows, report := engine.BuildInvoiceAging(in.customers, in.invoices, asOf, cfg)
	risks := engine.BuildCustomerRisk(in.customers, rows, in.invoices, in.payments, asOf, cfg)
	s.recordRun(trigger(req), start, rows, report, nil)

	return domain.CustomerRiskResponse{
		AsOfDate:  asOf,
		Customers: risks,
	}, nil
}

func (s *Service) Summary(ctx context.Context, req domain.RunRequest) (domain.SummaryResponse, error) {
	asOf := s.normalizeAsOf(req.AsOf)

	if !req.Recompute {
		cached, err := s.snapshots.FindByDate(ctx, s.db, asOf)
		if err != nil {
			return domain.SummaryResponse{}, err
		}
		if cached != nil {
			return domain.SummaryResponse{Summary: *cached}, nil
		}
	}

	summary, err := s.RunSnapshot(ctx, domain.RunRequest{AsOf: asOf, Trigger: req.Trigger})
	if err != nil {
		return domain.SummaryResponse{}, err
	}
	return domain.SummaryResponse{Summary: summary}, nil
}

// RunSnapshot recomputes the portfolio summary for the as-of date and
// replaces any snapshot already stored for it, so reruns are idempotent.
func (s *Service) RunSnapshot(ctx context.Context, req domain.RunRequest) (domain.ARSummary, error) {
	asOf := s.normalizeAsOf(req.AsOf)

	start := time.Now()
	in, err := s.load(ctx)
	if err != nil {
		metrics.Engine().ObserveRun(trigger(req), time.Since(start), err)
		return domain.ARSummary{}, err
	}

	rows, report := engine.BuildInvoiceAging(in.customers, in.invoices, asOf, s.rules.Get())
	summary := engine.Summarize(rows, in.invoices, in.payments, report, asOf)

	if err := s.snapshots.Upsert(ctx, s.db, summary); err != nil {
		s.recordRun(trigger(req), start, rows, report, err)
		return domain.ARSummary{}, err
	}
	metrics.Engine().IncSnapshotUpsert()
	metrics.Engine().AddUnappliedPayments(summary.UnappliedPaymentCount)
	s.recordRun(trigger(req), start, rows, report, nil)

	s.log.Info("summary snapshot written",
		zap.Time("as_of_date", asOf),
		zap.String("total_ar", summary.TotalAR.String()),
		zap.Int("invoice_count", summary.InvoiceCount),
		zap.Int("excluded_count", summary.ExcludedCount),
	)

	return summary, nil
}

func (s *Service) load(ctx context.Context) (inputs, error) {
	customers, err := s.customers.ListAll(ctx, s.db)
	if err != nil {
		return inputs{}, err
	}
	invoices, err := s.invoices.ListAll(ctx, s.db)
	if err != nil {
		return inputs{}, err
	}
	payments, err := s.payments.ListAll(ctx, s.db)
	if err != nil {
		return inputs{}, err
	}

	in := inputs{
		customers: make([]customerdomain.Customer, 0, len(customers)),
		invoices:  make([]invoicedomain.Invoice, 0, len(invoices)),
		payments:  make([]paymentdomain.Payment, 0, len(payments)),
	}
	for _, c := range customers {
		if c != nil {
			in.customers = append(in.customers, *c)
		}
	}
	for _, i := range invoices {
		if i != nil {
			in.invoices = append(in.invoices, *i)
		}
	}
	for _, p := range payments {
		if p != nil {
			in.payments = append(in.payments, *p)
		}
	}
	return in, nil
}

// normalizeAsOf truncates to a UTC calendar date, defaulting to today.
// Snapshots key on the date, so intraday reruns land on the same row.
func (s *Service) normalizeAsOf(asOf time.Time) time.Time {
	if asOf.IsZero() {
		asOf = s.clock.Now()
	}
	asOf = asOf.UTC()
	return time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *Service) recordRun(trigger string, start time.Time, rows []domain.InvoiceAging, report domain.Report, err error) {
	m := metrics.Engine()
	m.ObserveRun(trigger, time.Since(start), err)
	m.AddInvoicesScored(len(rows))
	for reason, count := range report.ReasonCounts {
		m.AddExcluded(reason, count)
	}
}

func trigger(req domain.RunRequest) string {
	if req.Trigger == "" {
		return metrics.RunTriggerAPI
	}
	return req.Trigger
}
