package domain

import (
	"context"
	"errors"

	"github.com/Vignesh4110/finance-modernization/pkg/db/pagination"
	"github.com/shopspring/decimal"
)

type ListCustomerRequest struct {
	PageToken string
	PageSize  int32
	Segment   string
	Region    string
	Industry  string
}

type ListCustomerFilter struct {
	Segment  string
	Region   string
	Industry string
}

type ListCustomerResponse struct {
	pagination.PageInfo
	Customers []Customer `json:"customers"`
}

type CreateCustomerRequest struct {
	CustomerNo    int64           `json:"customer_no"`
	Name          string          `json:"name"`
	Segment       string          `json:"segment"`
	Region        string          `json:"region"`
	Industry      string          `json:"industry"`
	CreditLimit   decimal.Decimal `json:"credit_limit"`
	CreditUsed    decimal.Decimal `json:"credit_used"`
	CreditStatus  string          `json:"credit_status"`
	AccountStatus string          `json:"account_status"`
	TermsDays     int             `json:"terms_days"`
}

type GetCustomerRequest struct {
	CustomerNo int64
}

type Service interface {
	Create(context.Context, CreateCustomerRequest) (Customer, error)
	List(context.Context, ListCustomerRequest) (ListCustomerResponse, error)
	GetByCustomerNo(context.Context, GetCustomerRequest) (Customer, error)
}

var (
	ErrInvalidCustomerNo    = errors.New("invalid_customer_no")
	ErrInvalidName          = errors.New("invalid_name")
	ErrInvalidSegment       = errors.New("invalid_segment")
	ErrInvalidCreditLimit   = errors.New("invalid_credit_limit")
	ErrInvalidCreditUsed    = errors.New("invalid_credit_used")
	ErrInvalidCreditStatus  = errors.New("invalid_credit_status")
	ErrInvalidAccountStatus = errors.New("invalid_account_status")
	ErrDuplicateCustomer    = errors.New("duplicate_customer")
	ErrNotFound             = errors.New("not_found")
)
