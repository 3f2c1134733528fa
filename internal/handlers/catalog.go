package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kosarica/basket-service/internal/catalog"
)

// StoresResponse lists stores in catalog order
type StoresResponse struct {
	Stores []catalog.Store `json:"stores"`
	Total  int             `json:"total"`
}

// ProductsResponse lists products
type ProductsResponse struct {
	Products []catalog.Product `json:"products"`
	Total    int               `json:"total"`
	Category string            `json:"category,omitempty"`
}

// ProductPricesResponse lists one product's prices in store order
type ProductPricesResponse struct {
	Product catalog.Product      `json:"product"`
	Prices  []catalog.PriceEntry `json:"prices"`
}

// CatalogStatsResponse describes the loaded snapshot
type CatalogStatsResponse struct {
	catalog.Stats
	Categories []string `json:"categories"`
	Stale      bool     `json:"stale"`
}

// ListStores returns every store
// @Summary List stores
// @Tags catalog
// @Produce json
// @Success 200 {object} StoresResponse
// @Failure 503 {object} ErrorResponse
// @Router /catalog/stores [get]
func ListStores(c *gin.Context) {
	snap, ok := snapshot(c)
	if !ok {
		return
	}
	stores := snap.ListStores()
	c.JSON(http.StatusOK, StoresResponse{Stores: stores, Total: len(stores)})
}

// ListProducts returns products, optionally filtered by category
// @Summary List products
// @Tags catalog
// @Produce json
// @Param category query string false "Category filter"
// @Success 200 {object} ProductsResponse
// @Failure 503 {object} ErrorResponse
// @Router /catalog/products [get]
func ListProducts(c *gin.Context) {
	snap, ok := snapshot(c)
	if !ok {
		return
	}
	category := c.Query("category")
	products := snap.ListProducts(category)
	c.JSON(http.StatusOK, ProductsResponse{Products: products, Total: len(products), Category: category})
}

// GetProductPrices returns a product's price entries
// @Summary Product prices
// @Tags catalog
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} ProductPricesResponse
// @Failure 404 {object} ErrorResponse
// @Router /catalog/products/{id}/prices [get]
func GetProductPrices(c *gin.Context) {
	snap, ok := snapshot(c)
	if !ok {
		return
	}
	p, found := snap.Product(c.Param("id"))
	if !found {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Product not found"})
		return
	}
	c.JSON(http.StatusOK, ProductPricesResponse{Product: p, Prices: snap.GetPriceEntries(p.ID)})
}

// GetCatalogStats returns snapshot counts and freshness
// @Summary Catalog statistics
// @Tags catalog
// @Produce json
// @Success 200 {object} CatalogStatsResponse
// @Router /catalog/stats [get]
func GetCatalogStats(c *gin.Context) {
	snap, ok := snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, CatalogStatsResponse{
		Stats:      snap.Stats(),
		Categories: snap.Categories(),
		Stale:      catalogSource.IsStale(),
	})
}
