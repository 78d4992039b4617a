package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Segment codes carried over from the legacy master file.
const (
	SegmentEnterprise = "E"
	SegmentMidMarket  = "M"
	SegmentSmall      = "S"
	SegmentStartup    = "T"
)

// Credit status codes from the legacy master file.
const (
	CreditStatusActive    = "A"
	CreditStatusHold      = "H"
	CreditStatusSuspended = "S"
)

// Account status codes from the legacy master file.
const (
	AccountStatusActive   = "A"
	AccountStatusInactive = "I"
	AccountStatusClosed   = "C"
)

type Customer struct {
	ID            snowflake.ID      `gorm:"primaryKey" json:"id"`
	CustomerNo    int64             `gorm:"column:customer_no;not null;uniqueIndex" json:"customer_no"`
	Name          string            `gorm:"not null" json:"name"`
	Segment       string            `gorm:"not null" json:"segment"`
	Region        string            `json:"region,omitempty"`
	Industry      string            `json:"industry,omitempty"`
	CreditLimit   decimal.Decimal   `gorm:"type:numeric(14,2);not null" json:"credit_limit"`
	CreditUsed    decimal.Decimal   `gorm:"type:numeric(14,2);not null" json:"credit_used"`
	CreditStatus  string            `gorm:"type:varchar(1);not null;default:'A'" json:"credit_status"`
	AccountStatus string            `gorm:"type:varchar(1);not null;default:'A'" json:"account_status"`
	TermsDays     int               `gorm:"column:terms_days;not null" json:"terms_days"`
	Metadata      datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// CreditAvailable returns credit_limit minus credit_used. Over-limit
// customers come back negative.
func (c Customer) CreditAvailable() decimal.Decimal {
	return c.CreditLimit.Sub(c.CreditUsed)
}

// Active reports whether the account is open for new business.
func (c Customer) Active() bool {
	return c.AccountStatus == AccountStatusActive
}

// CreditActive reports whether new credit may be extended.
func (c Customer) CreditActive() bool {
	return c.CreditStatus == CreditStatusActive
}

// ValidSegment reports whether the segment code is one the scorer understands.
func ValidSegment(segment string) bool {
	switch segment {
	case SegmentEnterprise, SegmentMidMarket, SegmentSmall, SegmentStartup:
		return true
	default:
		return false
	}
}

func ValidCreditStatus(status string) bool {
	switch status {
	case CreditStatusActive, CreditStatusHold, CreditStatusSuspended:
		return true
	default:
		return false
	}
}

func ValidAccountStatus(status string) bool {
	switch status {
	case AccountStatusActive, AccountStatusInactive, AccountStatusClosed:
		return true
	default:
		return false
	}
}
