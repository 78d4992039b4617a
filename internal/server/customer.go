package server

import (
	"net/http"
	"strings"

	customerdomain "github.com/Vignesh4110/finance-modernization/internal/customer/domain"
	"github.com/Vignesh4110/finance-modernization/pkg/db/pagination"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type createCustomerRequest struct {
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

func (s *Server) CreateCustomer(c *gin.Context) {
	var req createCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.customerSvc.Create(c.Request.Context(), customerdomain.CreateCustomerRequest{
		CustomerNo:    req.CustomerNo,
		Name:          strings.TrimSpace(req.Name),
		Segment:       strings.TrimSpace(req.Segment),
		Region:        strings.TrimSpace(req.Region),
		Industry:      strings.TrimSpace(req.Industry),
		CreditLimit:   req.CreditLimit,
		CreditUsed:    req.CreditUsed,
		CreditStatus:  strings.TrimSpace(req.CreditStatus),
		AccountStatus: strings.TrimSpace(req.AccountStatus),
		TermsDays:     req.TermsDays,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListCustomers(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Segment  string `form:"segment"`
		Region   string `form:"region"`
		Industry string `form:"industry"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.customerSvc.List(c.Request.Context(), customerdomain.ListCustomerRequest{
		PageToken: query.PageToken,
		PageSize:  int32(query.PageSize),
		Segment:   strings.TrimSpace(query.Segment),
		Region:    strings.TrimSpace(query.Region),
		Industry:  strings.TrimSpace(query.Industry),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetCustomer(c *gin.Context) {
	customerNo, err := parsePathInt64(c.Param("customerNo"))
	if err != nil {
		AbortWithError(c, newValidationError("customer_no", "invalid_customer_no", "invalid customer_no"))
		return
	}

	resp, err := s.customerSvc.GetByCustomerNo(c.Request.Context(), customerdomain.GetCustomerRequest{
		CustomerNo: customerNo,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isCustomerValidationError(err error) bool {
	switch err {
	case customerdomain.ErrInvalidCustomerNo,
		customerdomain.ErrInvalidName,
		customerdomain.ErrInvalidSegment,
		customerdomain.ErrInvalidCreditLimit,
		customerdomain.ErrInvalidCreditUsed,
		customerdomain.ErrInvalidCreditStatus,
		customerdomain.ErrInvalidAccountStatus:
		return true
	default:
		return false
	}
}
