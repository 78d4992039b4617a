package domain

import (
	"context"
	"errors"
	"time"

	"github.com/Vignesh4110/finance-modernization/pkg/db/pagination"
	"github.com/shopspring/decimal"
)

type ListInvoiceRequest struct {
	PageToken  string
	PageSize   int32
	CustomerNo int64
	Status     string
	DueFrom    *time.Time
	DueTo      *time.Time
}

type ListInvoiceFilter struct {
	CustomerNo int64
	Status     string
	DueFrom    *time.Time
	DueTo      *time.Time
}

type ListInvoiceResponse struct {
	pagination.PageInfo
	Invoices []Invoice `json:"invoices"`
}

type CreateInvoiceRequest struct {
	InvoiceNo      int64           `json:"invoice_no"`
	CustomerNo     int64           `json:"customer_no"`
	InvoiceDate    time.Time       `json:"invoice_date"`
	DueDate        *time.Time      `json:"due_date"`
	TermsDays      int             `json:"terms_days"`
	InvoiceAmount  decimal.Decimal `json:"invoice_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	FreightAmount  decimal.Decimal `json:"freight_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	AmountPaid     decimal.Decimal `json:"amount_paid"`
	BalanceDue     decimal.Decimal `json:"balance_due"`
	Status         string          `json:"status"`
	HoldFlag       bool            `json:"hold_flag"`
	DisputeFlag    bool            `json:"dispute_flag"`
	DisputeReason  string          `json:"dispute_reason"`
}

type GetInvoiceRequest struct {
	InvoiceNo int64
}

type Service interface {
	Create(context.Context, CreateInvoiceRequest) (Invoice, error)
	List(context.Context, ListInvoiceRequest) (ListInvoiceResponse, error)
	GetByInvoiceNo(context.Context, GetInvoiceRequest) (Invoice, error)
}

var (
	ErrInvalidInvoiceNo    = errors.New("invalid_invoice_no")
	ErrInvalidCustomerNo   = errors.New("invalid_customer_no")
	ErrInvalidInvoiceDate  = errors.New("invalid_invoice_date")
	ErrMissingDueDate      = errors.New("missing_due_date")
	ErrInvalidStatus       = errors.New("invalid_status")
	ErrBalanceExceedsGross = errors.New("balance_exceeds_gross")
	ErrDuplicateInvoice    = errors.New("duplicate_invoice")
	ErrNotFound            = errors.New("not_found")
)
