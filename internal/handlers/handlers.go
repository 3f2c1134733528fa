// Package handlers exposes catalog reads, basket pricing and basket storage
// over HTTP.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/kosarica/basket-service/internal/basket"
	"github.com/kosarica/basket-service/internal/catalog"
	"github.com/kosarica/basket-service/internal/optimizer"
	"github.com/kosarica/basket-service/internal/recognition"
)

// CatalogSource hands out the current catalog snapshot. *catalog.Provider
// satisfies it.
type CatalogSource interface {
	Snapshot() (*catalog.Snapshot, error)
	IsHealthy() bool
	IsStale() bool
	LoadedAt() time.Time
}

var _ CatalogSource = (*catalog.Provider)(nil)

// Global dependencies (initialized by the application)
var (
	catalogSource CatalogSource
	pricingEngine *optimizer.Engine
	pricingConfig *optimizer.Config
	basketRepo    *basket.Repository
	recognizer    recognition.Recognizer
)

// InitPricing sets the catalog and pricing engine used by catalog and
// pricing endpoints. A nil config uses optimizer defaults.
func InitPricing(source CatalogSource, config *optimizer.Config) {
	if config == nil {
		config = optimizer.Defaults()
	}
	catalogSource = source
	pricingConfig = config
	pricingEngine = optimizer.NewEngine(config)
}

// InitBaskets sets the basket repository.
func InitBaskets(repo *basket.Repository) {
	basketRepo = repo
}

// InitRecognition sets the recognizer used by the scan endpoint.
func InitRecognition(r recognition.Recognizer) {
	recognizer = r
}

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// snapshot returns the current catalog or writes a 503.
func snapshot(c *gin.Context) (*catalog.Snapshot, bool) {
	if catalogSource == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Catalog not initialized"})
		return nil, false
	}
	snap, err := catalogSource.Snapshot()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Catalog unavailable"})
		return nil, false
	}
	return snap, true
}

func writeError(c *gin.Context, err error) {
	var invalid optimizer.ErrInvalidRequest
	var vehicle optimizer.ErrUnknownVehicle
	switch {
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: invalid.Error(), Field: invalid.Field})
	case errors.As(err, &vehicle):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: vehicle.Error(), Field: "vehicle"})
	case errors.Is(err, basket.ErrInvalidQuantity), errors.Is(err, basket.ErrEmptyProductID):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Field: "lines"})
	case errors.Is(err, basket.ErrNotFound), errors.Is(err, basket.ErrLineNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, recognition.ErrNotRecognized):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, recognition.ErrAmbiguous):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, recognition.ErrEmptyInput):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, catalog.ErrNotLoaded):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Catalog unavailable"})
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal error"})
	}
}
