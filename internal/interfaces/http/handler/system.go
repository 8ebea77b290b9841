package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

const healthTimeout = 2 * time.Second

// SystemHandler serves the service banner and health endpoints
type SystemHandler struct {
	BaseHandler
	serviceName string
	db          Pinger
}

// NewSystemHandler creates a SystemHandler. db may be nil.
func NewSystemHandler(serviceName string, db Pinger) *SystemHandler {
	return &SystemHandler{serviceName: serviceName, db: db}
}

// Root handles GET /
func (h *SystemHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"service": h.serviceName, "status": "ok"})
}

// Health handles GET /health. It fails with 503 when the database is unreachable.
func (h *SystemHandler) Health(c *gin.Context) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		if err := h.db.Ping(ctx); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"service":  h.serviceName,
				"status":   "unavailable",
				"database": "down",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"service":  h.serviceName,
		"status":   "ok",
		"database": "up",
	})
}
