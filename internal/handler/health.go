package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	version string
	dbPing  func() error
}

// NewHealthHandler creates a HealthHandler that reports the given version and
// probes the database with dbPing.
func NewHealthHandler(version string, dbPing func() error) *HealthHandler {
	return &HealthHandler{version: version, dbPing: dbPing}
}

// HealthCheck returns service health status including database reachability.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	status := http.StatusOK
	dbStatus := "ok"

	if h.dbPing != nil {
		if err := h.dbPing(); err != nil {
			status = http.StatusServiceUnavailable
			dbStatus = "unreachable"
		}
	}

	c.JSON(status, gin.H{
		"status":    healthWord(status),
		"version":   h.version,
		"database":  dbStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func healthWord(status int) string {
	if status == http.StatusOK {
		return "healthy"
	}
	return "degraded"
}
