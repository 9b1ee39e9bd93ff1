package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// proxyRefresh forwards the request to the backend's daily-refresh endpoint
// and relays its JSON answer. The backend scrape can run for minutes, so
// the forward carries the unattended timeout; any failure is flattened into
// a {"success": false, "error": ...} body with a 500. The endpoint keeps no
// state of its own. Non-POST methods get a 405 from the router.
func (s *Server) proxyRefresh(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.config.AutoRefreshTimeout)
	defer cancel()

	s.logger.Info("proxying refresh request to backend")

	result, err := s.client.DailyRefresh(ctx)
	if err != nil {
		s.logger.Error("proxied refresh failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}
