package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

var startedAt = time.Now()

// Health reports liveness. Kept dependency-free so load balancers get an
// answer even when the database is down.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"uptime_seconds": int(time.Since(startedAt).Seconds()),
		"time":           time.Now().UTC().Format(time.RFC3339),
	})
}
