package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

// healthz reports whether the database answers a ping.
func (s *Server) healthz(c *gin.Context) {
	if s.services.DB == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	if err := s.services.DB.PingContext(c.Request.Context()); err != nil {
		s.logger.Warn(c.Request.Context(), "database ping failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}
