// Package engine holds the pure aging, scoring and rollup rules. Every
// function takes an explicit as-of date and touches no storage, so the
// same inputs always produce the same outputs.
package engine

import (
	"sort"
	"time"

	agingdomain "github.com/Vignesh4110/finance-modernization/internal/aging/domain"
	"github.com/Vignesh4110/finance-modernization/internal/config"
	customerdomain "github.com/Vignesh4110/finance-modernization/internal/customer/domain"
	invoicedomain "github.com/Vignesh4110/finance-modernization/internal/invoice/domain"
	paymentdomain "github.com/Vignesh4110/finance-modernization/internal/payment/domain"
	"github.com/shopspring/decimal"
)

// Exclusion reasons reported for rows dropped by validation.
const (
	ReasonMissingInvoiceNo  = "missing_invoice_no"
	ReasonMissingCustomerNo = "missing_customer_no"
	ReasonMissingDueDate    = "missing_due_date"
	ReasonBalanceOverGross  = "balance_over_gross"
)

var (
	hundred    = decimal.NewFromInt(100)
	daysInYear = decimal.NewFromInt(365)
)

// Classify assigns an invoice to an aging bucket for the given as-of date.
// Settled balances win over dates: a zero or credit balance is Paid no
// matter how old the due date is. Invoices not yet due are Current with
// zero days past due.
func Classify(invoice invoicedomain.Invoice, asOf time.Time) (agingdomain.Bucket, int) {
	if !invoice.BalanceDue.IsPositive() {
		return agingdomain.BucketPaid, 0
	}
	if invoice.DueDate == nil {
		// Callers validate due dates before classifying; treat a stray
		// nil as not yet due rather than guessing an age.
		return agingdomain.BucketCurrent, 0
	}

	dpd := daysBetween(*invoice.DueDate, asOf)
	if dpd <= 0 {
		return agingdomain.BucketCurrent, 0
	}

	switch {
	case dpd <= 30:
		return agingdomain.Bucket1To30, dpd
	case dpd <= 60:
		return agingdomain.Bucket31To60, dpd
	case dpd <= 90:
		return agingdomain.Bucket61To90, dpd
	default:
		return agingdomain.Bucket90Plus, dpd
	}
}

// PriorityScore computes the additive collection score for one invoice.
// The score is unbounded in both directions; a disputed current invoice
// goes negative and sinks to the bottom of the queue.
func PriorityScore(bucket agingdomain.Bucket, balance decimal.Decimal, disputed bool, segment string, cfg config.ScoreConfig) int {
	score := 0
	switch bucket {
	case agingdomain.Bucket90Plus:
		score = cfg.Base90Plus
	case agingdomain.Bucket61To90:
		score = cfg.Base61To90
	case agingdomain.Bucket31To60:
		score = cfg.Base31To60
	case agingdomain.Bucket1To30:
		score = cfg.Base1To30
	}

	if balance.GreaterThan(decimal.NewFromFloat(cfg.LargeBalanceFloor)) {
		score += cfg.LargeBonus
	}
	if disputed {
		score -= cfg.DisputeCut
	}
	if segment == customerdomain.SegmentEnterprise {
		score += cfg.SegmentBump
	}

	return score
}

// BuildInvoiceAging classifies and scores every valid invoice, ordered by
// priority score descending then balance descending. Rows failing
// validation are excluded and reported, never fatal. Rows whose customer
// is missing from the master keep their numeric key with blank enrichment.
func BuildInvoiceAging(
	customers []customerdomain.Customer,
	invoices []invoicedomain.Invoice,
	asOf time.Time,
	cfg config.AgingConfig,
) ([]agingdomain.InvoiceAging, agingdomain.Report) {
	byCustomerNo := indexCustomers(customers)

	report := agingdomain.Report{
		ReasonCounts: map[string]int{},
	}

	rows := make([]agingdomain.InvoiceAging, 0, len(invoices))
	for _, invoice := range invoices {
		if reason, ok := validateInvoice(invoice); !ok {
			report.Excluded = append(report.Excluded, agingdomain.ExcludedRow{
				InvoiceNo:  invoice.InvoiceNo,
				CustomerNo: invoice.CustomerNo,
				Reason:     reason,
			})
			report.ReasonCounts[reason]++
			continue
		}

		bucket, dpd := Classify(invoice, asOf)

		row := agingdomain.InvoiceAging{
			InvoiceNo:   invoice.InvoiceNo,
			CustomerNo:  invoice.CustomerNo,
			InvoiceDate: invoice.InvoiceDate,
			DueDate:     invoice.DueDate,
			BalanceDue:  invoice.BalanceDue,
			Disputed:    invoice.Disputed(),
			Bucket:      bucket,
			DaysPastDue: dpd,
		}

		if master, ok := byCustomerNo[invoice.CustomerNo]; ok {
			row.CustomerName = master.Name
			row.Segment = master.Segment
			row.Region = master.Region
		} else {
			row.Orphaned = true
			report.OrphanedRows++
		}

		row.PriorityScore = PriorityScore(bucket, row.BalanceDue, row.Disputed, row.Segment, cfg.Score)
		rows = append(rows, row)
	}
	report.ProcessedRows = len(rows)

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].PriorityScore != rows[j].PriorityScore {
			return rows[i].PriorityScore > rows[j].PriorityScore
		}
		if !rows[i].BalanceDue.Equal(rows[j].BalanceDue) {
			return rows[i].BalanceDue.GreaterThan(rows[j].BalanceDue)
		}
		return rows[i].InvoiceNo < rows[j].InvoiceNo
	})

	return rows, report
}

// BuildCustomerRisk rolls classified invoices and payments up to one row
// per master customer. Customers with no invoices still appear, rated Low.
// An over-90 balance always wins over the utilization check.
func BuildCustomerRisk(
	customers []customerdomain.Customer,
	rows []agingdomain.InvoiceAging,
	invoices []invoicedomain.Invoice,
	payments []paymentdomain.Payment,
	asOf time.Time,
	cfg config.AgingConfig,
) []agingdomain.CustomerRisk {
	type rollup struct {
		invoiceCount    int
		openInvoices    int
		totalAR         decimal.Decimal
		over90          decimal.Decimal
		disputed        decimal.Decimal
		totalInvoiced   decimal.Decimal
		firstInvoice    *time.Time
		lastInvoice     *time.Time
		paymentCount    int
		totalPayments   decimal.Decimal
		lastPaymentDate *time.Time
	}

	rollups := map[int64]*rollup{}
	get := func(customerNo int64) *rollup {
		r, ok := rollups[customerNo]
		if !ok {
			r = &rollup{}
			rollups[customerNo] = r
		}
		return r
	}

	excluded := excludedInvoiceSet(invoices)

	for _, row := range rows {
		r := get(row.CustomerNo)
		if row.BalanceDue.IsPositive() {
			r.openInvoices++
			r.totalAR = r.totalAR.Add(row.BalanceDue)
		}
		if row.Bucket == agingdomain.Bucket90Plus {
			r.over90 = r.over90.Add(row.BalanceDue)
		}
		if row.Disputed && row.BalanceDue.IsPositive() {
			r.disputed = r.disputed.Add(row.BalanceDue)
		}
	}

	for _, invoice := range invoices {
		if excluded[invoice.InvoiceNo] {
			continue
		}
		r := get(invoice.CustomerNo)
		r.invoiceCount++
		r.totalInvoiced = r.totalInvoiced.Add(invoice.InvoiceAmount)
		issued := invoice.InvoiceDate
		if r.firstInvoice == nil || issued.Before(*r.firstInvoice) {
			r.firstInvoice = &issued
		}
		if r.lastInvoice == nil || issued.After(*r.lastInvoice) {
			r.lastInvoice = &issued
		}
	}

	for _, payment := range payments {
		if payment.PaymentDate.After(asOf) {
			continue
		}
		r := get(payment.CustomerNo)
		r.paymentCount++
		r.totalPayments = r.totalPayments.Add(payment.Amount)
		if r.lastPaymentDate == nil || payment.PaymentDate.After(*r.lastPaymentDate) {
			paid := payment.PaymentDate
			r.lastPaymentDate = &paid
		}
	}

	out := make([]agingdomain.CustomerRisk, 0, len(customers))
	for _, customer := range customers {
		r := rollups[customer.CustomerNo]
		if r == nil {
			r = &rollup{}
		}

		risk := agingdomain.CustomerRisk{
			CustomerNo:       customer.CustomerNo,
			Name:             customer.Name,
			Segment:          customer.Segment,
			Region:           customer.Region,
			CreditLimit:      customer.CreditLimit,
			TotalInvoices:    r.invoiceCount,
			OpenInvoices:     r.openInvoices,
			TotalAR:          r.totalAR,
			Over90Balance:    r.over90,
			DisputedBalance:  r.disputed,
			TotalInvoiced:    r.totalInvoiced,
			FirstInvoiceDate: r.firstInvoice,
			LastInvoiceDate:  r.lastInvoice,
			PaymentCount:     r.paymentCount,
			TotalPayments:    r.totalPayments,
			AvgPaymentAmount: avgPayment(r.totalPayments, r.paymentCount),
			LastPaymentDate:  r.lastPaymentDate,
			PaymentRatePct:   safeDiv(r.totalPayments, r.totalInvoiced).Mul(hundred).RoundBank(2),
			OverCreditLimit:  r.totalAR.GreaterThan(customer.CreditLimit),
			Risk:             rateRisk(r.totalAR, r.over90, customer.CreditLimit, cfg.Risk),
		}

		risk.CreditUtilization = creditUtilization(r.totalAR, customer.CreditLimit)
		if r.lastPaymentDate != nil {
			days := daysBetween(*r.lastPaymentDate, asOf)
			if days < 0 {
				days = 0
			}
			risk.DaysSinceLastPayment = &days
		}

		out = append(out, risk)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CustomerNo < out[j].CustomerNo
	})

	return out
}

// Summarize builds the portfolio-level snapshot from classified rows.
// The DSO denominator is trailing-365-day invoiced revenue across the
// whole portfolio, kept from the legacy report even though it understates
// DSO for customers onboarded mid-year.
func Summarize(
	rows []agingdomain.InvoiceAging,
	invoices []invoicedomain.Invoice,
	payments []paymentdomain.Payment,
	report agingdomain.Report,
	asOf time.Time,
) agingdomain.ARSummary {
	summary := agingdomain.ARSummary{
		AsOfDate:      asOf,
		InvoiceCount:  len(rows),
		ExcludedCount: len(report.Excluded),
	}

	bucketAmounts := map[agingdomain.Bucket]decimal.Decimal{}
	openCustomers := map[int64]struct{}{}

	for _, row := range rows {
		if !row.BalanceDue.IsPositive() {
			continue
		}
		summary.OpenInvoiceCount++
		summary.TotalAR = summary.TotalAR.Add(row.BalanceDue)
		bucketAmounts[row.Bucket] = bucketAmounts[row.Bucket].Add(row.BalanceDue)
		openCustomers[row.CustomerNo] = struct{}{}
		if row.Disputed {
			summary.DisputedAmount = summary.DisputedAmount.Add(row.BalanceDue)
			summary.DisputedCount++
		}
	}
	summary.OpenCustomerCount = len(openCustomers)

	summary.CurrentAmount = bucketAmounts[agingdomain.BucketCurrent]
	summary.CurrentPct = safeDiv(summary.CurrentAmount, summary.TotalAR).Mul(hundred).RoundBank(2)

	summary.Buckets = make([]agingdomain.BucketTotal, 0, len(agingdomain.OverdueBuckets))
	for _, bucket := range agingdomain.OverdueBuckets {
		amount := bucketAmounts[bucket]
		summary.Buckets = append(summary.Buckets, agingdomain.BucketTotal{
			Bucket: bucket,
			Amount: amount,
			Pct:    safeDiv(amount, summary.TotalAR).Mul(hundred).RoundBank(2),
		})
	}

	excluded := excludedInvoiceSet(invoices)
	windowStart := asOf.AddDate(-1, 0, 0)
	trailingInvoiced := decimal.Zero
	for _, invoice := range invoices {
		if excluded[invoice.InvoiceNo] {
			continue
		}
		if invoice.InvoiceDate.After(asOf) || !invoice.InvoiceDate.After(windowStart) {
			continue
		}
		trailingInvoiced = trailingInvoiced.Add(invoice.InvoiceAmount)
	}
	if trailingInvoiced.IsPositive() {
		dso := summary.TotalAR.Div(trailingInvoiced.Div(daysInYear)).RoundBank(2)
		summary.DSODays = &dso
	}

	for _, payment := range payments {
		if payment.PaymentDate.After(asOf) || payment.Applied() {
			continue
		}
		summary.UnappliedPaymentCount++
		summary.UnappliedPaymentAmount = summary.UnappliedPaymentAmount.Add(payment.Amount)
	}

	return summary
}

// safeDiv divides and returns zero on a zero denominator, so ratio math
// never brings a run down the way the legacy job used to.
func safeDiv(numerator, denominator decimal.Decimal) decimal.Decimal {
	if denominator.IsZero() {
		return decimal.Zero
	}
	return numerator.Div(denominator)
}

func avgPayment(total decimal.Decimal, count int) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(count))).RoundBank(2)
}

func rateRisk(totalAR, over90, creditLimit decimal.Decimal, cfg config.RiskConfig) agingdomain.RiskCategory {
	if over90.IsPositive() {
		return agingdomain.RiskHigh
	}
	threshold := creditLimit.Mul(decimal.NewFromFloat(cfg.MediumUtilization))
	if totalAR.GreaterThan(threshold) {
		return agingdomain.RiskMedium
	}
	return agingdomain.RiskLow
}

func creditUtilization(totalAR, creditLimit decimal.Decimal) decimal.Decimal {
	utilization := safeDiv(totalAR, creditLimit).RoundBank(4)
	ceiling := decimal.NewFromInt(2)
	if utilization.GreaterThan(ceiling) {
		return ceiling
	}
	return utilization
}

func validateInvoice(invoice invoicedomain.Invoice) (string, bool) {
	switch {
	case invoice.InvoiceNo <= 0:
		return ReasonMissingInvoiceNo, false
	case invoice.CustomerNo <= 0:
		return ReasonMissingCustomerNo, false
	case invoice.DueDate == nil || invoice.DueDate.IsZero():
		return ReasonMissingDueDate, false
	case invoice.BalanceDue.GreaterThan(invoice.GrossAmount):
		return ReasonBalanceOverGross, false
	default:
		return "", true
	}
}

func excludedInvoiceSet(invoices []invoicedomain.Invoice) map[int64]bool {
	excluded := map[int64]bool{}
	for _, invoice := range invoices {
		if _, ok := validateInvoice(invoice); !ok {
			excluded[invoice.InvoiceNo] = true
		}
	}
	return excluded
}

func indexCustomers(customers []customerdomain.Customer) map[int64]customerdomain.Customer {
	byNo := make(map[int64]customerdomain.Customer, len(customers))
	for _, customer := range customers {
		byNo[customer.CustomerNo] = customer
	}
	return byNo
}

// daysBetween counts whole calendar days from a to b in UTC.
func daysBetween(a, b time.Time) int {
	a = truncateToDay(a)
	b = truncateToDay(b)
	return int(b.Sub(a).Hours() / 24)
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
