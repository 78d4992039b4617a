package seed

import (
	"testing"
	"time"

	customerdomain "github.com/Vignesh4110/finance-modernization/internal/customer/domain"
	invoicedomain "github.com/Vignesh4110/finance-modernization/internal/invoice/domain"
	"github.com/bwmarrin/snowflake"
)

var seedAsOf = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

func newTestGenerator(t *testing.T) *Generator {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new snowflake node: %v", err)
	}
	return NewGenerator(42, node, seedAsOf)
}

func TestGeneratorDeterministic(t *testing.T) {
	first := newTestGenerator(t).Generate(50, 200)
	second := newTestGenerator(t).Generate(50, 200)

	if len(first.Customers) != len(second.Customers) {
		t.Fatalf("customer counts diverged: %d vs %d", len(first.Customers), len(second.Customers))
	}
	if len(first.Payments) != len(second.Payments) {
		t.Fatalf("payment counts diverged: %d vs %d", len(first.Payments), len(second.Payments))
	}
	for i := range first.Customers {
		a, b := first.Customers[i], second.Customers[i]
		if a.CustomerNo != b.CustomerNo || a.Name != b.Name || a.Segment != b.Segment || !a.CreditLimit.Equal(b.CreditLimit) {
			t.Fatalf("customer %d diverged: %+v vs %+v", i, a, b)
		}
	}
	for i := range first.Invoices {
		a, b := first.Invoices[i], second.Invoices[i]
		if a.InvoiceNo != b.InvoiceNo || a.Status != b.Status || !a.BalanceDue.Equal(b.BalanceDue) {
			t.Fatalf("invoice %d diverged", i)
		}
	}
}

func TestGeneratorSegmentConstraints(t *testing.T) {
	dataset := newTestGenerator(t).Generate(DefaultCustomers, 0)

	for _, customer := range dataset.Customers {
		if !customerdomain.ValidSegment(customer.Segment) {
			t.Fatalf("invalid segment %q", customer.Segment)
		}
		if !customerdomain.ValidCreditStatus(customer.CreditStatus) || !customerdomain.ValidAccountStatus(customer.AccountStatus) {
			t.Fatalf("invalid status codes %q/%q", customer.CreditStatus, customer.AccountStatus)
		}
		if customer.CreditUsed.IsNegative() || customer.CreditUsed.GreaterThan(customer.CreditLimit) {
			t.Fatalf("credit used %s outside limit %s", customer.CreditUsed, customer.CreditLimit)
		}
		limit := customer.CreditLimit.IntPart()
		switch customer.Segment {
		case customerdomain.SegmentEnterprise:
			if limit < 100000 || limit > 500000 {
				t.Fatalf("enterprise limit %d out of range", limit)
			}
		case customerdomain.SegmentMidMarket:
			if limit < 25000 || limit > 100000 {
				t.Fatalf("mid-market limit %d out of range", limit)
			}
		case customerdomain.SegmentSmall:
			if limit < 5000 || limit > 25000 {
				t.Fatalf("small limit %d out of range", limit)
			}
		default:
			if limit < 1000 || limit > 10000 {
				t.Fatalf("startup limit %d out of range", limit)
			}
		}
	}
}

func TestGeneratorInvoiceInvariants(t *testing.T) {
	dataset := newTestGenerator(t).Generate(100, 1000)

	for _, invoice := range dataset.Invoices {
		if !invoicedomain.ValidStatus(invoice.Status) {
			t.Fatalf("invalid status %q", invoice.Status)
		}
		if invoice.DueDate == nil {
			t.Fatalf("generated invoice %d missing due date", invoice.InvoiceNo)
		}
		if invoice.BalanceDue.GreaterThan(invoice.GrossAmount) {
			t.Fatalf("invoice %d balance %s exceeds gross %s", invoice.InvoiceNo, invoice.BalanceDue, invoice.GrossAmount)
		}
		expectedGross := invoice.InvoiceAmount.Add(invoice.TaxAmount).Add(invoice.FreightAmount)
		if !invoice.GrossAmount.Equal(expectedGross) {
			t.Fatalf("invoice %d gross mismatch", invoice.InvoiceNo)
		}
		if !invoice.AmountPaid.Add(invoice.BalanceDue).Equal(invoice.GrossAmount) &&
			invoice.Status != invoicedomain.StatusWrittenOff {
			t.Fatalf("invoice %d paid/balance split broken", invoice.InvoiceNo)
		}
		switch invoice.Status {
		case invoicedomain.StatusPaid, invoicedomain.StatusWrittenOff:
			if !invoice.BalanceDue.IsZero() {
				t.Fatalf("settled invoice %d carries balance %s", invoice.InvoiceNo, invoice.BalanceDue)
			}
		case invoicedomain.StatusDisputed:
			if invoice.DisputeReason == "" {
				t.Fatalf("disputed invoice %d missing reason", invoice.InvoiceNo)
			}
		}
	}
}

func TestGeneratorPayments(t *testing.T) {
	dataset := newTestGenerator(t).Generate(100, 1000)

	settled := map[int64]bool{}
	for _, invoice := range dataset.Invoices {
		if invoice.Status == invoicedomain.StatusPaid || invoice.Status == invoicedomain.StatusPartial {
			settled[invoice.InvoiceNo] = true
		}
	}

	unapplied := 0
	for _, payment := range dataset.Payments {
		if !payment.Amount.IsPositive() {
			t.Fatalf("payment %d not positive", payment.PaymentNo)
		}
		if payment.PaymentDate.After(seedAsOf) {
			t.Fatalf("payment %d dated after as-of", payment.PaymentNo)
		}
		if !payment.AppliedAmount.Add(payment.UnappliedAmount).Equal(payment.Amount) {
			t.Fatalf("payment %d applied split broken", payment.PaymentNo)
		}
		if payment.InvoiceRef == 0 {
			if payment.Applied() {
				t.Fatalf("payment %d applied without a reference", payment.PaymentNo)
			}
			unapplied++
		} else if !settled[payment.InvoiceRef] {
			t.Fatalf("payment %d references unsettled invoice %d", payment.PaymentNo, payment.InvoiceRef)
		}
	}
	if len(dataset.Payments) == 0 {
		t.Fatalf("expected payments for paid invoices")
	}
	if unapplied == 0 {
		t.Fatalf("expected some unapplied remittances")
	}

	// Roughly a fifth of remittances lose their reference.
	share := float64(unapplied) / float64(len(dataset.Payments))
	if share < 0.10 || share > 0.35 {
		t.Fatalf("unapplied share %.2f outside expected band", share)
	}
}
