package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Status codes carried over from the legacy billing extract.
const (
	StatusOpen       = "OP"
	StatusPaid       = "PD"
	StatusPartial    = "PP"
	StatusDisputed   = "DP"
	StatusWrittenOff = "WO"
)

// Dispute reason codes from the legacy extract.
const (
	DisputeReasonPricing     = "PRC"
	DisputeReasonDamaged     = "DMG"
	DisputeReasonNotReceived = "NRC"
)

type Invoice struct {
	ID             snowflake.ID    `gorm:"primaryKey" json:"id"`
	InvoiceNo      int64           `gorm:"column:invoice_no;not null;uniqueIndex" json:"invoice_no"`
	CustomerNo     int64           `gorm:"column:customer_no;not null;index" json:"customer_no"`
	InvoiceDate    time.Time       `gorm:"not null" json:"invoice_date"`
	DueDate        *time.Time      `gorm:"index" json:"due_date,omitempty"`
	TermsDays      int             `gorm:"column:terms_days;not null" json:"terms_days"`
	InvoiceAmount  decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"invoice_amount"`
	TaxAmount      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"tax_amount"`
	FreightAmount  decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"freight_amount"`
	DiscountAmount decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"discount_amount"`
	GrossAmount    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"gross_amount"`
	AmountPaid     decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount_paid"`
	BalanceDue     decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"balance_due"`
	Status         string          `gorm:"not null" json:"status"`
	HoldFlag       bool            `gorm:"not null;default:false" json:"hold_flag"`
	DisputeFlag    bool            `gorm:"not null;default:false" json:"dispute_flag"`
	DisputeReason  string          `json:"dispute_reason,omitempty"`
	CreatedAt      time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Disputed reports whether the invoice is under dispute. The legacy
// extract carried both a flag and a status code, not always in sync.
func (i Invoice) Disputed() bool {
	return i.DisputeFlag || i.Status == StatusDisputed
}

// Open reports whether any balance remains.
func (i Invoice) Open() bool {
	return i.BalanceDue.IsPositive()
}

// ValidStatus reports whether the status code is one the engine understands.
func ValidStatus(status string) bool {
	switch status {
	case StatusOpen, StatusPaid, StatusPartial, StatusDisputed, StatusWrittenOff:
		return true
	default:
		return false
	}
}
