package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Sweeper triggers one eviction pass on demand.
type Sweeper interface {
	Sweep(ctx context.Context) error
}

// RegisterDebugRoutes wires debug-only endpoints.
func RegisterDebugRoutes(router *gin.Engine, sweeper Sweeper, enabled bool) {
	if !enabled {
		return
	}

	router.POST("/debug/sweep", func(c *gin.Context) {
		if sweeper == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "sweeper not configured"})
			return
		}
		if err := sweeper.Sweep(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
