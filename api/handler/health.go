package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/ragforge/models"
)

// Health returns a handler for GET /api/v1/health.
func Health(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.HealthResponse{
			Status:  "healthy",
			Uptime:  time.Since(d.StartTime).Round(time.Second).String(),
			Version: "0.1.0",
		})
	}
}
