package server

import (
	"net/http"
	"strings"
	"time"

	invoicedomain "github.com/Vignesh4110/finance-modernization/internal/invoice/domain"
	"github.com/Vignesh4110/finance-modernization/pkg/db/pagination"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type createInvoiceRequest struct {
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

func (s *Server) CreateInvoice(c *gin.Context) {
	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.Create(c.Request.Context(), invoicedomain.CreateInvoiceRequest{
		InvoiceNo:      req.InvoiceNo,
		CustomerNo:     req.CustomerNo,
		InvoiceDate:    req.InvoiceDate,
		DueDate:        req.DueDate,
		TermsDays:      req.TermsDays,
		InvoiceAmount:  req.InvoiceAmount,
		TaxAmount:      req.TaxAmount,
		FreightAmount:  req.FreightAmount,
		DiscountAmount: req.DiscountAmount,
		AmountPaid:     req.AmountPaid,
		BalanceDue:     req.BalanceDue,
		Status:         strings.TrimSpace(req.Status),
		HoldFlag:       req.HoldFlag,
		DisputeFlag:    req.DisputeFlag,
		DisputeReason:  strings.TrimSpace(req.DisputeReason),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListInvoices(c *gin.Context) {
	var query struct {
		pagination.Pagination
		CustomerNo string `form:"customer_no"`
		Status     string `form:"status"`
		DueFrom    string `form:"due_from"`
		DueTo      string `form:"due_to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	customerNo, err := parseOptionalInt64(query.CustomerNo)
	if err != nil {
		AbortWithError(c, newValidationError("customer_no", "invalid_customer_no", "invalid customer_no"))
		return
	}

	dueFrom, err := parseOptionalTime(query.DueFrom, false)
	if err != nil {
		AbortWithError(c, newValidationError("due_from", "invalid_due_from", "invalid due_from"))
		return
	}

	dueTo, err := parseOptionalTime(query.DueTo, true)
	if err != nil {
		AbortWithError(c, newValidationError("due_to", "invalid_due_to", "invalid due_to"))
		return
	}

	resp, err := s.invoiceSvc.List(c.Request.Context(), invoicedomain.ListInvoiceRequest{
		PageToken:  query.PageToken,
		PageSize:   int32(query.PageSize),
		CustomerNo: customerNo,
		Status:     strings.TrimSpace(query.Status),
		DueFrom:    dueFrom,
		DueTo:      dueTo,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetInvoice(c *gin.Context) {
	invoiceNo, err := parsePathInt64(c.Param("invoiceNo"))
	if err != nil {
		AbortWithError(c, newValidationError("invoice_no", "invalid_invoice_no", "invalid invoice_no"))
		return
	}

	resp, err := s.invoiceSvc.GetByInvoiceNo(c.Request.Context(), invoicedomain.GetInvoiceRequest{
		InvoiceNo: invoiceNo,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isInvoiceValidationError(err error) bool {
	switch err {
	case invoicedomain.ErrInvalidInvoiceNo,
		invoicedomain.ErrInvalidCustomerNo,
		invoicedomain.ErrInvalidInvoiceDate,
		invoicedomain.ErrMissingDueDate,
		invoicedomain.ErrInvalidStatus,
		invoicedomain.ErrBalanceExceedsGross:
		return true
	default:
		return false
	}
}
