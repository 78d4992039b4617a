package server

import (
	"net/http"
	"strings"
	"time"

	paymentdomain "github.com/Vignesh4110/finance-modernization/internal/payment/domain"
	"github.com/Vignesh4110/finance-modernization/pkg/db/pagination"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type createPaymentRequest struct {
	PaymentNo   int64           `json:"payment_no"`
	CustomerNo  int64           `json:"customer_no"`
	InvoiceRef  int64           `json:"invoice_ref"`
	PaymentDate time.Time       `json:"payment_date"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method"`
}

func (s *Server) CreatePayment(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.paymentSvc.Create(c.Request.Context(), paymentdomain.CreatePaymentRequest{
		PaymentNo:   req.PaymentNo,
		CustomerNo:  req.CustomerNo,
		InvoiceRef:  req.InvoiceRef,
		PaymentDate: req.PaymentDate,
		Amount:      req.Amount,
		Method:      strings.TrimSpace(req.Method),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListPayments(c *gin.Context) {
	var query struct {
		pagination.Pagination
		CustomerNo string `form:"customer_no"`
		InvoiceRef string `form:"invoice_ref"`
		Method     string `form:"method"`
		PaidFrom   string `form:"paid_from"`
		PaidTo     string `form:"paid_to"`
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

	invoiceRef, err := parseOptionalInt64(query.InvoiceRef)
	if err != nil {
		AbortWithError(c, newValidationError("invoice_ref", "invalid_invoice_ref", "invalid invoice_ref"))
		return
	}

	paidFrom, err := parseOptionalTime(query.PaidFrom, false)
	if err != nil {
		AbortWithError(c, newValidationError("paid_from", "invalid_paid_from", "invalid paid_from"))
		return
	}

	paidTo, err := parseOptionalTime(query.PaidTo, true)
	if err != nil {
		AbortWithError(c, newValidationError("paid_to", "invalid_paid_to", "invalid paid_to"))
		return
	}

	resp, err := s.paymentSvc.List(c.Request.Context(), paymentdomain.ListPaymentRequest{
		PageToken:  query.PageToken,
		PageSize:   int32(query.PageSize),
		CustomerNo: customerNo,
		InvoiceRef: invoiceRef,
		Method:     strings.TrimSpace(query.Method),
		PaidFrom:   paidFrom,
		PaidTo:     paidTo,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetPayment(c *gin.Context) {
	paymentNo, err := parsePathInt64(c.Param("paymentNo"))
	if err != nil {
		AbortWithError(c, newValidationError("payment_no", "invalid_payment_no", "invalid payment_no"))
		return
	}

	resp, err := s.paymentSvc.GetByPaymentNo(c.Request.Context(), paymentdomain.GetPaymentRequest{
		PaymentNo: paymentNo,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isPaymentValidationError(err error) bool {
	switch err {
	case paymentdomain.ErrInvalidPaymentNo,
		paymentdomain.ErrInvalidCustomerNo,
		paymentdomain.ErrInvalidPaymentDate,
		paymentdomain.ErrInvalidAmount,
		paymentdomain.ErrInvalidMethod:
		return true
	default:
		return false
	}
}
