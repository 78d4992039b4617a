package seed

import (
	"fmt"
	"math/rand"
	"time"

	customerdomain "github.com/Vignesh4110/finance-modernization/internal/customer/domain"
	invoicedomain "github.com/Vignesh4110/finance-modernization/internal/invoice/domain"
	paymentdomain "github.com/Vignesh4110/finance-modernization/internal/payment/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Dataset sizes matching the legacy extract used for parity testing.
const (
	DefaultCustomers = 500
	DefaultInvoices  = 5000
)

const (
	customerNoBase = 100000
	invoiceNoBase  = 1000000
	paymentNoBase  = 500000
)

var (
	regions    = []string{"NE", "SE", "MW", "SW", "WE"}
	industries = []string{"MFG", "HLT", "TEC", "RET", "CON"}

	segments       = []string{"E", "M", "S", "T"}
	segmentWeights = []float64{0.10, 0.30, 0.45, 0.15}

	methods       = []string{"CK", "AC", "WR", "CC"}
	methodWeights = []float64{0.35, 0.40, 0.15, 0.10}

	creditStatuses      = []string{"A", "H", "S"}
	creditStatusWeights = []float64{0.92, 0.05, 0.03}

	accountStatuses      = []string{"A", "I", "C"}
	accountStatusWeights = []float64{0.95, 0.04, 0.01}

	disputeReasons = []string{
		invoicedomain.DisputeReasonPricing,
		invoicedomain.DisputeReasonDamaged,
		invoicedomain.DisputeReasonNotReceived,
	}

	partialFractions = []float64{0.25, 0.50, 0.75}

	companyFirst = []string{
		"Apex", "Summit", "Harbor", "Pioneer", "Cascade", "Granite", "Sterling",
		"Lakeside", "Crestview", "Ironwood", "Beacon", "Redstone", "Northgate",
		"Meridian", "Bluewater", "Stonebridge", "Fairfield", "Oakline", "Vista",
		"Keystone",
	}
	companySecond = []string{
		"Manufacturing", "Logistics", "Industries", "Supply", "Holdings",
		"Distribution", "Systems", "Fabrication", "Services", "Materials",
	}
	companySuffix = []string{"Inc", "LLC", "Corp", "Co"}
)

// Dataset is one deterministic batch of master and transaction rows.
type Dataset struct {
	Customers []customerdomain.Customer
	Invoices  []invoicedomain.Invoice
	Payments  []paymentdomain.Payment
}

// Generator produces repeatable sample data: the same seed and as-of date
// always yield the same dataset, so parity checks against the legacy
// extract stay meaningful.
type Generator struct {
	rng  *rand.Rand
	node *snowflake.Node
	asOf time.Time
}

func NewGenerator(seedValue int64, node *snowflake.Node, asOf time.Time) *Generator {
	asOf = asOf.UTC()
	asOf = time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)
	return &Generator{
		rng:  rand.New(rand.NewSource(seedValue)),
		node: node,
		asOf: asOf,
	}
}

// Generate builds the full dataset in one pass so the random stream stays
// stable across the three record types.
func (g *Generator) Generate(numCustomers, numInvoices int) Dataset {
	customers := g.customers(numCustomers)
	invoices, paidAmounts := g.invoices(customers, numInvoices)
	payments := g.payments(customers, invoices, paidAmounts)
	return Dataset{
		Customers: customers,
		Invoices:  invoices,
		Payments:  payments,
	}
}

func (g *Generator) customers(n int) []customerdomain.Customer {
	customers := make([]customerdomain.Customer, 0, n)
	for i := 0; i < n; i++ {
		segment := g.weighted(segments, segmentWeights)

		var creditLimit int
		var terms int
		switch segment {
		case customerdomain.SegmentEnterprise:
			creditLimit = g.intBetween(100000, 500000)
			terms = g.pickInt(30, 45, 60)
		case customerdomain.SegmentMidMarket:
			creditLimit = g.intBetween(25000, 100000)
			terms = g.pickInt(30, 45)
		case customerdomain.SegmentSmall:
			creditLimit = g.intBetween(5000, 25000)
			terms = g.pickInt(15, 30)
		default:
			creditLimit = g.intBetween(1000, 10000)
			terms = g.pickInt(15, 30)
		}

		created := g.dateBetween(g.asOf.AddDate(-6, 0, 0), g.asOf.AddDate(-3, 0, 0))

		limit := decimal.NewFromInt(int64(creditLimit))
		used := limit.Mul(decimal.NewFromFloat(g.floatBetween(0, 0.9))).Round(2)

		customers = append(customers, customerdomain.Customer{
			ID:            g.node.Generate(),
			CustomerNo:    int64(customerNoBase + i),
			Name:          g.companyName(),
			Segment:       segment,
			Region:        g.pick(regions),
			Industry:      g.pick(industries),
			CreditLimit:   limit,
			CreditUsed:    used,
			CreditStatus:  g.weighted(creditStatuses, creditStatusWeights),
			AccountStatus: g.weighted(accountStatuses, accountStatusWeights),
			TermsDays:     terms,
			Metadata:      datatypes.JSONMap{},
			CreatedAt:     created,
			UpdatedAt:     created,
		})
	}
	return customers
}

func (g *Generator) invoices(customers []customerdomain.Customer, n int) ([]invoicedomain.Invoice, map[int64]decimal.Decimal) {
	invoices := make([]invoicedomain.Invoice, 0, n)
	paidAmounts := make(map[int64]decimal.Decimal)

	for i := 0; i < n; i++ {
		customer := customers[g.rng.Intn(len(customers))]

		invoiceDate := g.dateBetween(g.asOf.AddDate(-2, 0, 0), g.asOf)
		dueDate := invoiceDate.AddDate(0, 0, customer.TermsDays)

		var amount float64
		switch customer.Segment {
		case customerdomain.SegmentEnterprise:
			amount = g.floatBetween(5000, 50000)
		case customerdomain.SegmentMidMarket:
			amount = g.floatBetween(1000, 10000)
		case customerdomain.SegmentSmall:
			amount = g.floatBetween(200, 2000)
		default:
			amount = g.floatBetween(100, 1000)
		}

		invoiceAmount := decimal.NewFromFloat(amount).Round(2)
		tax := invoiceAmount.Mul(decimal.NewFromFloat(0.08)).Round(2)

		// Roughly a third of shipments bill freight; early-pay discounts
		// are recorded but never folded into the gross.
		freight := decimal.Zero
		if g.rng.Float64() < 0.35 {
			freight = decimal.NewFromFloat(g.floatBetween(10, 250)).Round(2)
		}
		discount := decimal.Zero
		if g.rng.Float64() < 0.15 {
			discount = invoiceAmount.Mul(decimal.NewFromFloat(0.02)).Round(2)
		}
		total := invoiceAmount.Add(tax).Add(freight)

		invoiceNo := int64(invoiceNoBase + i)
		invoice := invoicedomain.Invoice{
			ID:             g.node.Generate(),
			InvoiceNo:      invoiceNo,
			CustomerNo:     customer.CustomerNo,
			InvoiceDate:    invoiceDate,
			DueDate:        &dueDate,
			TermsDays:      customer.TermsDays,
			InvoiceAmount:  invoiceAmount,
			TaxAmount:      tax,
			FreightAmount:  freight,
			DiscountAmount: discount,
			GrossAmount:    total,
			CreatedAt:      invoiceDate,
			UpdatedAt:      invoiceDate,
		}

		// Status mix from the legacy extract: not-yet-due invoices are
		// open; past-due ones split 60/15/10/7/8 across paid, partial,
		// late-open, disputed and written-off.
		roll := g.rng.Float64()
		switch {
		case dueDate.After(g.asOf) || dueDate.Equal(g.asOf):
			invoice.Status = invoicedomain.StatusOpen
			invoice.BalanceDue = total
		case roll < 0.60:
			invoice.Status = invoicedomain.StatusPaid
			invoice.BalanceDue = decimal.Zero
			invoice.AmountPaid = total
			paidAmounts[invoiceNo] = total
		case roll < 0.75:
			invoice.Status = invoicedomain.StatusPartial
			paid := total.Mul(decimal.NewFromFloat(g.pickFloat(partialFractions...))).Round(2)
			invoice.BalanceDue = total.Sub(paid)
			invoice.AmountPaid = paid
			paidAmounts[invoiceNo] = paid
		case roll < 0.85:
			invoice.Status = invoicedomain.StatusOpen
			invoice.BalanceDue = total
		case roll < 0.92:
			invoice.Status = invoicedomain.StatusDisputed
			invoice.BalanceDue = total
			invoice.DisputeFlag = true
			invoice.DisputeReason = g.pick(disputeReasons)
		default:
			invoice.Status = invoicedomain.StatusWrittenOff
			invoice.BalanceDue = decimal.Zero
		}

		invoices = append(invoices, invoice)
	}

	return invoices, paidAmounts
}

func (g *Generator) payments(
	customers []customerdomain.Customer,
	invoices []invoicedomain.Invoice,
	paidAmounts map[int64]decimal.Decimal,
) []paymentdomain.Payment {
	byCustomerNo := make(map[int64]customerdomain.Customer, len(customers))
	for _, customer := range customers {
		byCustomerNo[customer.CustomerNo] = customer
	}

	payments := make([]paymentdomain.Payment, 0, len(paidAmounts))
	seq := 0
	for _, invoice := range invoices {
		paid, ok := paidAmounts[invoice.InvoiceNo]
		if !ok || !paid.IsPositive() {
			continue
		}
		if _, ok := byCustomerNo[invoice.CustomerNo]; !ok {
			continue
		}

		payDate := invoice.InvoiceDate.AddDate(0, 0, g.intBetween(5, 60))
		if payDate.After(g.asOf) {
			payDate = g.asOf
		}

		// A fifth of remittances arrive without an invoice reference
		// and sit unapplied until cash application picks them up.
		invoiceRef := invoice.InvoiceNo
		if g.rng.Float64() <= 0.20 {
			invoiceRef = 0
		}

		applied := decimal.Zero
		if invoiceRef > 0 {
			applied = paid
		}

		payments = append(payments, paymentdomain.Payment{
			ID:              g.node.Generate(),
			PaymentNo:       int64(paymentNoBase + seq),
			CustomerNo:      invoice.CustomerNo,
			InvoiceRef:      invoiceRef,
			PaymentDate:     payDate,
			Amount:          paid,
			AppliedFlag:     invoiceRef > 0,
			AppliedAmount:   applied,
			UnappliedAmount: paid.Sub(applied),
			Method:          g.weighted(methods, methodWeights),
			CreatedAt:       payDate,
			UpdatedAt:       payDate,
		})
		seq++
	}

	return payments
}

func (g *Generator) companyName() string {
	return fmt.Sprintf("%s %s %s",
		g.pick(companyFirst),
		g.pick(companySecond),
		g.pick(companySuffix),
	)
}

func (g *Generator) pick(values []string) string {
	return values[g.rng.Intn(len(values))]
}

func (g *Generator) pickInt(values ...int) int {
	return values[g.rng.Intn(len(values))]
}

func (g *Generator) pickFloat(values ...float64) float64 {
	return values[g.rng.Intn(len(values))]
}

func (g *Generator) weighted(values []string, weights []float64) string {
	roll := g.rng.Float64()
	cumulative := 0.0
	for i, weight := range weights {
		cumulative += weight
		if roll < cumulative {
			return values[i]
		}
	}
	return values[len(values)-1]
}

func (g *Generator) intBetween(low, high int) int {
	return low + g.rng.Intn(high-low+1)
}

func (g *Generator) floatBetween(low, high float64) float64 {
	return low + g.rng.Float64()*(high-low)
}

func (g *Generator) dateBetween(start, end time.Time) time.Time {
	days := int(end.Sub(start).Hours() / 24)
	if days <= 0 {
		return start
	}
	return start.AddDate(0, 0, g.rng.Intn(days))
}
