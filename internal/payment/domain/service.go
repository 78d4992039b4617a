package domain

import (
	"context"
	"errors"
	"time"

	"github.com/Vignesh4110/finance-modernization/pkg/db/pagination"
	"github.com/shopspring/decimal"
)

type ListPaymentRequest struct {
	PageToken  string
	PageSize   int32
	CustomerNo int64
	InvoiceRef int64
	Method     string
	PaidFrom   *time.Time
	PaidTo     *time.Time
}

type ListPaymentFilter struct {
	CustomerNo int64
	InvoiceRef int64
	Method     string
	PaidFrom   *time.Time
	PaidTo     *time.Time
}

type ListPaymentResponse struct {
	pagination.PageInfo
	Payments []Payment `json:"payments"`
}

type CreatePaymentRequest struct {
	PaymentNo   int64           `json:"payment_no"`
	CustomerNo  int64           `json:"customer_no"`
	InvoiceRef  int64           `json:"invoice_ref"`
	PaymentDate time.Time       `json:"payment_date"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method"`
}

type GetPaymentRequest struct {
	PaymentNo int64
}

type Service interface {
	Create(context.Context, CreatePaymentRequest) (Payment, error)
	List(context.Context, ListPaymentRequest) (ListPaymentResponse, error)
	GetByPaymentNo(context.Context, GetPaymentRequest) (Payment, error)
}

var (
	ErrInvalidPaymentNo   = errors.New("invalid_payment_no")
	ErrInvalidCustomerNo  = errors.New("invalid_customer_no")
	ErrInvalidPaymentDate = errors.New("invalid_payment_date")
	ErrInvalidAmount      = errors.New("invalid_amount")
	ErrInvalidMethod      = errors.New("invalid_method")
	ErrDuplicatePayment   = errors.New("duplicate_payment")
	ErrNotFound           = errors.New("not_found")
)
