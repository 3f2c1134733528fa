package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kosarica/basket-service/internal/database"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status          string     `json:"status"`
	Catalog         string     `json:"catalog"`
	CatalogLoadedAt *time.Time `json:"catalogLoadedAt,omitempty"`
	Database        string     `json:"database"`
}

// HealthCheck handles the health check endpoint
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func HealthCheck(c *gin.Context) {
	response := HealthResponse{Status: "ok"}
	status := http.StatusOK

	switch {
	case catalogSource == nil:
		response.Catalog = "not configured"
	case !catalogSource.IsHealthy():
		response.Catalog = "unavailable"
		status = http.StatusServiceUnavailable
	case catalogSource.IsStale():
		response.Catalog = "stale"
	default:
		response.Catalog = "loaded"
	}
	if catalogSource != nil {
		if t := catalogSource.LoadedAt(); !t.IsZero() {
			response.CatalogLoadedAt = &t
		}
	}

	if database.Pool() != nil {
		if err := database.Status(c.Request.Context()); err != nil {
			response.Database = "disconnected"
			status = http.StatusServiceUnavailable
		} else {
			response.Database = "connected"
		}
	} else {
		response.Database = "not configured"
	}

	if status != http.StatusOK {
		response.Status = "degraded"
	}
	c.JSON(status, response)
}
