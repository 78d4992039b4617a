package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReseedSampleData wipes the working set and reloads the deterministic
// sample dataset. Registered only outside production.
func (s *Server) ReseedSampleData(c *gin.Context) {
	if err := s.seeder.Reseed(c.Request.Context()); err != nil {
		s.log.Error("reseed failed", zap.Error(err))
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "reseeded"})
}
