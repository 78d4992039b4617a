package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bucket is the aging classification of a single invoice.
type Bucket string

const (
	BucketPaid    Bucket = "Paid"
	BucketCurrent Bucket = "Current"
	Bucket1To30   Bucket = "1-30 Days"
	Bucket31To60  Bucket = "31-60 Days"
	Bucket61To90  Bucket = "61-90 Days"
	Bucket90Plus  Bucket = "90+ Days"
)

// OverdueBuckets lists the past-due buckets in ascending severity.
// Summary reports iterate this order so columns stay stable.
var OverdueBuckets = []Bucket{Bucket1To30, Bucket31To60, Bucket61To90, Bucket90Plus}

// RiskCategory is the customer-level collection risk rating.
type RiskCategory string

const (
	RiskHigh   RiskCategory = "High Risk"
	RiskMedium RiskCategory = "Medium Risk"
	RiskLow    RiskCategory = "Low Risk"
)

// InvoiceAging is one classified and scored invoice in the collection queue.
type InvoiceAging struct {
	InvoiceNo     int64           `json:"invoice_no"`
	CustomerNo    int64           `json:"customer_no"`
	CustomerName  string          `json:"customer_name"`
	Segment       string          `json:"segment"`
	Region        string          `json:"region"`
	InvoiceDate   time.Time       `json:"invoice_date"`
	DueDate       *time.Time      `json:"due_date,omitempty"`
	BalanceDue    decimal.Decimal `json:"balance_due"`
	Disputed      bool            `json:"disputed"`
	Bucket        Bucket          `json:"aging_bucket"`
	DaysPastDue   int             `json:"days_past_due"`
	PriorityScore int             `json:"priority_score"`
	Orphaned      bool            `json:"orphaned,omitempty"`
}

// CustomerRisk is the per-customer exposure and payment-behavior rollup.
type CustomerRisk struct {
	CustomerNo           int64           `json:"customer_no"`
	Name                 string          `json:"name"`
	Segment              string          `json:"segment"`
	Region               string          `json:"region"`
	CreditLimit          decimal.Decimal `json:"credit_limit"`
	TotalInvoices        int             `json:"total_invoices"`
	OpenInvoices         int             `json:"open_invoices"`
	TotalAR              decimal.Decimal `json:"total_ar"`
	Over90Balance        decimal.Decimal `json:"over_90_balance"`
	DisputedBalance      decimal.Decimal `json:"disputed_balance"`
	TotalInvoiced        decimal.Decimal `json:"total_invoiced"`
	FirstInvoiceDate     *time.Time      `json:"first_invoice_date,omitempty"`
	LastInvoiceDate      *time.Time      `json:"last_invoice_date,omitempty"`
	PaymentCount         int             `json:"payment_count"`
	TotalPayments        decimal.Decimal `json:"total_payments"`
	AvgPaymentAmount     decimal.Decimal `json:"avg_payment_amount"`
	PaymentRatePct       decimal.Decimal `json:"payment_rate_pct"`
	CreditUtilization    decimal.Decimal `json:"credit_utilization"`
	OverCreditLimit      bool            `json:"over_credit_limit"`
	LastPaymentDate      *time.Time      `json:"last_payment_date,omitempty"`
	DaysSinceLastPayment *int            `json:"days_since_last_payment,omitempty"`
	Risk                 RiskCategory    `json:"risk_category"`
}

// BucketTotal is one aging column of the portfolio summary.
type BucketTotal struct {
	Bucket Bucket          `json:"bucket"`
	Amount decimal.Decimal `json:"amount"`
	Pct    decimal.Decimal `json:"pct_of_total"`
}

// ARSummary is the portfolio-level receivables snapshot for one as-of date.
type ARSummary struct {
	AsOfDate               time.Time        `json:"as_of_date"`
	TotalAR                decimal.Decimal  `json:"total_ar"`
	CurrentAmount          decimal.Decimal  `json:"current_amount"`
	CurrentPct             decimal.Decimal  `json:"current_pct"`
	Buckets                []BucketTotal    `json:"buckets"`
	DisputedAmount         decimal.Decimal  `json:"disputed_amount"`
	DisputedCount          int              `json:"disputed_count"`
	DSODays                *decimal.Decimal `json:"dso_days,omitempty"`
	UnappliedPaymentCount  int              `json:"unapplied_payment_count"`
	UnappliedPaymentAmount decimal.Decimal  `json:"unapplied_payment_amount"`
	OpenCustomerCount      int              `json:"open_customer_count"`
	OpenInvoiceCount       int              `json:"open_invoice_count"`
	InvoiceCount           int              `json:"invoice_count"`
	ExcludedCount          int              `json:"excluded_count"`
}
