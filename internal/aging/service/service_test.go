package service

import (
	"context"
	"testing"
	"time"

	agingdomain "github.com/Vignesh4110/finance-modernization/internal/aging/domain"
	agingrepo "github.com/Vignesh4110/finance-modernization/internal/aging/repository"
	"github.com/Vignesh4110/finance-modernization/internal/clock"
	"github.com/Vignesh4110/finance-modernization/internal/config"
	customerdomain "github.com/Vignesh4110/finance-modernization/internal/customer/domain"
	customerrepo "github.com/Vignesh4110/finance-modernization/internal/customer/repository"
	invoicedomain "github.com/Vignesh4110/finance-modernization/internal/invoice/domain"
	invoicerepo "github.com/Vignesh4110/finance-modernization/internal/invoice/repository"
	paymentdomain "github.com/Vignesh4110/finance-modernization/internal/payment/domain"
	paymentrepo "github.com/Vignesh4110/finance-modernization/internal/payment/repository"
	"github.com/Vignesh4110/finance-modernization/pkg/db"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var testAsOf = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

func setupAgingDB(t *testing.T) (*gorm.DB, *snowflake.Node) {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("new test db: %v", err)
	}
	if err := dbConn.AutoMigrate(
		&customerdomain.Customer{},
		&invoicedomain.Invoice{},
		&paymentdomain.Payment{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	if err := dbConn.Exec(
		`CREATE TABLE ar_summary_snapshots (
			as_of_date datetime NOT NULL UNIQUE,
			total_ar numeric NOT NULL,
			current_amount numeric NOT NULL,
			current_pct numeric NOT NULL,
			buckets text,
			disputed_amount numeric NOT NULL,
			disputed_count integer NOT NULL,
			dso_days numeric,
			unapplied_payment_count integer NOT NULL,
			unapplied_payment_amount numeric NOT NULL,
			open_customer_count integer NOT NULL,
			open_invoice_count integer NOT NULL DEFAULT 0,
			invoice_count integer NOT NULL,
			excluded_count integer NOT NULL,
			created_at datetime NOT NULL,
			updated_at datetime NOT NULL
		)`,
	).Error; err != nil {
		t.Fatalf("create snapshot table: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new snowflake node: %v", err)
	}

	return dbConn, node
}

func newAgingService(dbConn *gorm.DB) *Service {
	svc := New(Params{
		DB:        dbConn,
		Log:       zap.NewNop(),
		Clock:     clock.NewFakeClock(testAsOf),
		Rules:     config.StaticAgingConfig(config.DefaultAgingConfig()),
		Customers: customerrepo.Provide(),
		Invoices:  invoicerepo.Provide(),
		Payments:  paymentrepo.Provide(),
		Snapshots: agingrepo.ProvideSnapshots(),
	})
	return svc.(*Service)
}

func seedAgingData(t *testing.T, dbConn *gorm.DB, node *snowflake.Node) {
	t.Helper()

	now := testAsOf.AddDate(0, -6, 0)
	customers := []customerdomain.Customer{
		{ID: node.Generate(), CustomerNo: 1, Name: "Acme Manufacturing", Segment: customerdomain.SegmentEnterprise,
			Region: "NE", Industry: "MFG", CreditLimit: decimal.NewFromInt(250000), TermsDays: 45,
			Metadata: datatypes.JSONMap{}, CreatedAt: now, UpdatedAt: now},
		{ID: node.Generate(), CustomerNo: 2, Name: "Beta Retail", Segment: customerdomain.SegmentSmall,
			Region: "SE", Industry: "RET", CreditLimit: decimal.NewFromInt(10000), TermsDays: 30,
			Metadata: datatypes.JSONMap{}, CreatedAt: now, UpdatedAt: now},
	}
	for i := range customers {
		if err := dbConn.Create(&customers[i]).Error; err != nil {
			t.Fatalf("seed customer: %v", err)
		}
	}

	due95 := testAsOf.AddDate(0, 0, -95)
	due10 := testAsOf.AddDate(0, 0, -10)
	invoices := []invoicedomain.Invoice{
		{ID: node.Generate(), InvoiceNo: 100, CustomerNo: 1, InvoiceDate: due95.AddDate(0, 0, -45), DueDate: &due95,
			TermsDays: 45, InvoiceAmount: decimal.NewFromInt(14000), TaxAmount: decimal.NewFromInt(1120),
			GrossAmount: decimal.NewFromInt(15120), BalanceDue: decimal.NewFromInt(15000),
			Status: invoicedomain.StatusOpen, CreatedAt: now, UpdatedAt: now},
		{ID: node.Generate(), InvoiceNo: 101, CustomerNo: 2, InvoiceDate: due10.AddDate(0, 0, -30), DueDate: &due10,
			TermsDays: 30, InvoiceAmount: decimal.NewFromInt(500), TaxAmount: decimal.NewFromInt(40),
			GrossAmount: decimal.NewFromInt(540), BalanceDue: decimal.NewFromInt(540),
			Status: invoicedomain.StatusOpen, CreatedAt: now, UpdatedAt: now},
		// Missing due date: excluded by validation, never fatal.
		{ID: node.Generate(), InvoiceNo: 102, CustomerNo: 2, InvoiceDate: now,
			TermsDays: 30, InvoiceAmount: decimal.NewFromInt(100), TaxAmount: decimal.NewFromInt(8),
			GrossAmount: decimal.NewFromInt(108), BalanceDue: decimal.NewFromInt(108),
			Status: invoicedomain.StatusOpen, CreatedAt: now, UpdatedAt: now},
	}
	for i := range invoices {
		if err := dbConn.Create(&invoices[i]).Error; err != nil {
			t.Fatalf("seed invoice: %v", err)
		}
	}

	payment := paymentdomain.Payment{
		ID: node.Generate(), PaymentNo: 200, CustomerNo: 1, InvoiceRef: 0,
		PaymentDate: testAsOf.AddDate(0, 0, -3), Amount: decimal.NewFromInt(120),
		Method: paymentdomain.MethodACH, CreatedAt: now, UpdatedAt: now,
	}
	if err := dbConn.Create(&payment).Error; err != nil {
		t.Fatalf("seed payment: %v", err)
	}
}

func TestInvoiceAgingEndToEnd(t *testing.T) {
	dbConn, node := setupAgingDB(t)
	seedAgingData(t, dbConn, node)
	svc := newAgingService(dbConn)

	resp, err := svc.InvoiceAging(context.Background(), agingdomain.RunRequest{AsOf: testAsOf})
	if err != nil {
		t.Fatalf("invoice aging: %v", err)
	}

	if len(resp.Invoices) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(resp.Invoices))
	}
	if resp.Report.ReasonCounts["missing_due_date"] != 1 {
		t.Fatalf("expected 1 missing due date exclusion, got %v", resp.Report.ReasonCounts)
	}

	// Large enterprise invoice 95 days late outranks the small fresh one.
	first := resp.Invoices[0]
	if first.InvoiceNo != 100 {
		t.Fatalf("expected invoice 100 first, got %d", first.InvoiceNo)
	}
	if first.Bucket != agingdomain.Bucket90Plus || first.DaysPastDue != 95 {
		t.Fatalf("expected 90+ at 95 dpd, got %q at %d", first.Bucket, first.DaysPastDue)
	}
	if first.PriorityScore != 130 {
		t.Fatalf("expected score 130, got %d", first.PriorityScore)
	}
	if first.CustomerName != "Acme Manufacturing" {
		t.Fatalf("expected enrichment from master, got %q", first.CustomerName)
	}
}

func TestCustomerRiskEndToEnd(t *testing.T) {
	dbConn, node := setupAgingDB(t)
	seedAgingData(t, dbConn, node)
	svc := newAgingService(dbConn)

	resp, err := svc.CustomerRisk(context.Background(), agingdomain.RunRequest{AsOf: testAsOf})
	if err != nil {
		t.Fatalf("customer risk: %v", err)
	}
	if len(resp.Customers) != 2 {
		t.Fatalf("expected 2 customers, got %d", len(resp.Customers))
	}

	byNo := map[int64]agingdomain.CustomerRisk{}
	for _, risk := range resp.Customers {
		byNo[risk.CustomerNo] = risk
	}
	if byNo[1].Risk != agingdomain.RiskHigh {
		t.Fatalf("expected High for over-90 exposure, got %q", byNo[1].Risk)
	}
	if byNo[1].DaysSinceLastPayment == nil || *byNo[1].DaysSinceLastPayment != 3 {
		t.Fatalf("expected 3 days since last payment, got %v", byNo[1].DaysSinceLastPayment)
	}
	if byNo[2].Risk != agingdomain.RiskLow {
		t.Fatalf("expected Low, got %q", byNo[2].Risk)
	}
}

func TestSummarySnapshotIdempotent(t *testing.T) {
	dbConn, node := setupAgingDB(t)
	seedAgingData(t, dbConn, node)
	svc := newAgingService(dbConn)
	ctx := context.Background()

	first, err := svc.Summary(ctx, agingdomain.RunRequest{AsOf: testAsOf})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if !first.Summary.TotalAR.Equal(decimal.NewFromInt(15540)) {
		t.Fatalf("expected total AR 15540, got %s", first.Summary.TotalAR)
	}
	if first.Summary.UnappliedPaymentCount != 1 {
		t.Fatalf("expected 1 unapplied payment, got %d", first.Summary.UnappliedPaymentCount)
	}
	if first.Summary.OpenInvoiceCount != 2 {
		t.Fatalf("expected 2 open invoices, got %d", first.Summary.OpenInvoiceCount)
	}

	// New data lands in the tables, but the stored snapshot answers
	// until a recompute is requested.
	due := testAsOf.AddDate(0, 0, -5)
	extra := invoicedomain.Invoice{
		ID: node.Generate(), InvoiceNo: 103, CustomerNo: 2, InvoiceDate: due.AddDate(0, 0, -30), DueDate: &due,
		TermsDays: 30, InvoiceAmount: decimal.NewFromInt(1000), TaxAmount: decimal.NewFromInt(80),
		GrossAmount: decimal.NewFromInt(1080), BalanceDue: decimal.NewFromInt(1080),
		Status: invoicedomain.StatusOpen, CreatedAt: testAsOf, UpdatedAt: testAsOf,
	}
	if err := dbConn.Create(&extra).Error; err != nil {
		t.Fatalf("seed extra invoice: %v", err)
	}

	cached, err := svc.Summary(ctx, agingdomain.RunRequest{AsOf: testAsOf})
	if err != nil {
		t.Fatalf("summary cached: %v", err)
	}
	if !cached.Summary.TotalAR.Equal(first.Summary.TotalAR) {
		t.Fatalf("expected cached snapshot %s, got %s", first.Summary.TotalAR, cached.Summary.TotalAR)
	}
	if cached.Summary.OpenInvoiceCount != first.Summary.OpenInvoiceCount {
		t.Fatalf("expected cached open invoice count %d, got %d", first.Summary.OpenInvoiceCount, cached.Summary.OpenInvoiceCount)
	}

	recomputed, err := svc.Summary(ctx, agingdomain.RunRequest{AsOf: testAsOf, Recompute: true})
	if err != nil {
		t.Fatalf("summary recompute: %v", err)
	}
	if !recomputed.Summary.TotalAR.Equal(decimal.NewFromInt(16620)) {
		t.Fatalf("expected recomputed total AR 16620, got %s", recomputed.Summary.TotalAR)
	}

	// One row per as-of date, replaced in place.
	var count int64
	if err := dbConn.Raw(`SELECT COUNT(*) FROM ar_summary_snapshots`).Scan(&count).Error; err != nil {
		t.Fatalf("count snapshots: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 snapshot row, got %d", count)
	}
}

func TestSummaryDefaultsAsOfToClock(t *testing.T) {
	dbConn, node := setupAgingDB(t)
	seedAgingData(t, dbConn, node)
	svc := newAgingService(dbConn)

	resp, err := svc.Summary(context.Background(), agingdomain.RunRequest{})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if !resp.Summary.AsOfDate.Equal(testAsOf) {
		t.Fatalf("expected as-of %s, got %s", testAsOf, resp.Summary.AsOfDate)
	}
}
