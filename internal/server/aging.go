package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	agingdomain "github.com/Vignesh4110/finance-modernization/internal/aging/domain"
	obsmetrics "github.com/Vignesh4110/finance-modernization/internal/observability/metrics"
	"github.com/gin-gonic/gin"
)

// asOfDateKey feeds the request logger so aging queries can be correlated
// with the business date they were computed for.
const asOfDateKey = "as_of_date"

func (s *Server) bindRunRequest(c *gin.Context) (agingdomain.RunRequest, bool) {
	asOf, err := parseAsOf(c.Query("as_of"))
	if err != nil {
		AbortWithError(c, newValidationError("as_of", "invalid_as_of", "expected YYYY-MM-DD"))
		return agingdomain.RunRequest{}, false
	}
	if !asOf.IsZero() {
		c.Set(asOfDateKey, asOf.Format(dateOnlyLayout))
	}

	recompute := false
	if v := strings.TrimSpace(c.Query("recompute")); v != "" {
		recompute, err = strconv.ParseBool(v)
		if err != nil {
			AbortWithError(c, newValidationError("recompute", "invalid_recompute", "expected true or false"))
			return agingdomain.RunRequest{}, false
		}
	}

	return agingdomain.RunRequest{
		AsOf:      asOf,
		Recompute: recompute,
		Trigger:   obsmetrics.RunTriggerAPI,
	}, true
}

func (s *Server) InvoiceAging(c *gin.Context) {
	req, ok := s.bindRunRequest(c)
	if !ok {
		return
	}

	resp, err := s.agingSvc.InvoiceAging(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CustomerRisk(c *gin.Context) {
	req, ok := s.bindRunRequest(c)
	if !ok {
		return
	}

	resp, err := s.agingSvc.CustomerRisk(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ARSummary(c *gin.Context) {
	req, ok := s.bindRunRequest(c)
	if !ok {
		return
	}

	resp, err := s.agingSvc.Summary(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type runSnapshotRequest struct {
	AsOf string `json:"as_of"`
}

// RunSnapshot forces a fresh snapshot for the requested date and stores it,
// replacing any snapshot already persisted for that date.
func (s *Server) RunSnapshot(c *gin.Context) {
	var req runSnapshotRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
	}

	var asOf time.Time
	if strings.TrimSpace(req.AsOf) != "" {
		parsed, err := parseAsOf(req.AsOf)
		if err != nil {
			AbortWithError(c, newValidationError("as_of", "invalid_as_of", "expected YYYY-MM-DD"))
			return
		}
		asOf = parsed
		c.Set(asOfDateKey, asOf.Format(dateOnlyLayout))
	}

	summary, err := s.agingSvc.RunSnapshot(c.Request.Context(), agingdomain.RunRequest{
		AsOf:      asOf,
		Recompute: true,
		Trigger:   obsmetrics.RunTriggerAPI,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": summary})
}
