package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Method codes carried over from the legacy remittance extract.
const (
	MethodCheck = "CK"
	MethodACH   = "AC"
	MethodWire  = "WR"
	MethodCard  = "CC"
)

type Payment struct {
	ID              snowflake.ID    `gorm:"primaryKey" json:"id"`
	PaymentNo       int64           `gorm:"column:payment_no;not null;uniqueIndex" json:"payment_no"`
	CustomerNo      int64           `gorm:"column:customer_no;not null;index" json:"customer_no"`
	InvoiceRef      int64           `gorm:"column:invoice_ref;not null;default:0;index" json:"invoice_ref"`
	PaymentDate     time.Time       `gorm:"not null" json:"payment_date"`
	Amount          decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	AppliedFlag     bool            `gorm:"column:applied_flag;not null;default:false" json:"applied_flag"`
	AppliedAmount   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"applied_amount"`
	UnappliedAmount decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"unapplied_amount"`
	Method          string          `gorm:"not null" json:"method"`
	CreatedAt       time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Applied reports whether the remittance has been matched to an invoice.
// AppliedAmount plus UnappliedAmount always equals Amount.
func (p Payment) Applied() bool {
	return p.AppliedFlag
}

// ValidMethod reports whether the method code is a known remittance channel.
func ValidMethod(method string) bool {
	switch method {
	case MethodCheck, MethodACH, MethodWire, MethodCard:
		return true
	default:
		return false
	}
}
