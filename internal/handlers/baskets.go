package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kosarica/basket-service/internal/basket"
)

// BasketRequest replaces a basket's lines. Duplicate products are merged.
type BasketRequest struct {
	Lines []basket.Line `json:"lines"`
}

// LineRequest adds to or sets one line
type LineRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// BasketListResponse lists stored basket IDs
type BasketListResponse struct {
	IDs   []string `json:"ids"`
	Total int      `json:"total"`
}

// CompareSavedRequest prices a stored basket
type CompareSavedRequest struct {
	Origin   *OriginRequest `json:"origin,omitempty"`
	StoreIDs []string       `json:"storeIds,omitempty"`
}

func baskets(c *gin.Context) (*basket.Repository, bool) {
	if basketRepo == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Basket storage not configured"})
		return nil, false
	}
	return basketRepo, true
}

// CreateBasket stores a new basket
// @Summary Create a basket
// @Tags baskets
// @Accept json
// @Produce json
// @Param request body BasketRequest true "Lines"
// @Success 201 {object} basket.Basket
// @Failure 400 {object} ErrorResponse
// @Router /baskets [post]
func CreateBasket(c *gin.Context) {
	repo, ok := baskets(c)
	if !ok {
		return
	}
	var body BasketRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	b, err := basket.FromLines("", body.Lines)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := repo.Save(c.Request.Context(), b); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// ListBaskets returns the IDs of stored baskets
// @Summary List baskets
// @Tags baskets
// @Produce json
// @Success 200 {object} BasketListResponse
// @Router /baskets [get]
func ListBaskets(c *gin.Context) {
	repo, ok := baskets(c)
	if !ok {
		return
	}
	ids, err := repo.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, BasketListResponse{IDs: ids, Total: len(ids)})
}

// GetBasket returns a stored basket
// @Summary Get a basket
// @Tags baskets
// @Produce json
// @Param id path string true "Basket ID"
// @Success 200 {object} basket.Basket
// @Failure 404 {object} ErrorResponse
// @Router /baskets/{id} [get]
func GetBasket(c *gin.Context) {
	repo, ok := baskets(c)
	if !ok {
		return
	}
	b, err := repo.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// ReplaceBasket overwrites a basket's lines
// @Summary Replace a basket
// @Tags baskets
// @Accept json
// @Produce json
// @Param id path string true "Basket ID"
// @Param request body BasketRequest true "Lines"
// @Success 200 {object} basket.Basket
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /baskets/{id} [put]
func ReplaceBasket(c *gin.Context) {
	repo, ok := baskets(c)
	if !ok {
		return
	}
	var body BasketRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	b, err := repo.Update(c.Request.Context(), c.Param("id"), func(b *basket.Basket) error {
		fresh, err := basket.FromLines(b.ID, body.Lines)
		if err != nil {
			return err
		}
		*b = *fresh
		return nil
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// AddBasketLine adds a quantity of a product, merging with an existing line
// @Summary Add to a basket
// @Tags baskets
// @Accept json
// @Produce json
// @Param id path string true "Basket ID"
// @Param request body LineRequest true "Line"
// @Success 200 {object} basket.Basket
// @Router /baskets/{id}/lines [post]
func AddBasketLine(c *gin.Context) {
	updateLine(c, func(b *basket.Basket, l LineRequest) error {
		return b.Add(l.ProductID, l.Quantity)
	})
}

// SetBasketLine sets a product's quantity; zero removes the line
// @Summary Set a basket line
// @Tags baskets
// @Accept json
// @Produce json
// @Param id path string true "Basket ID"
// @Param request body LineRequest true "Line"
// @Success 200 {object} basket.Basket
// @Router /baskets/{id}/lines [put]
func SetBasketLine(c *gin.Context) {
	updateLine(c, func(b *basket.Basket, l LineRequest) error {
		return b.SetQuantity(l.ProductID, l.Quantity)
	})
}

// RemoveBasketLine removes a product from a basket
// @Summary Remove a basket line
// @Tags baskets
// @Produce json
// @Param id path string true "Basket ID"
// @Param productId path string true "Product ID"
// @Success 200 {object} basket.Basket
// @Router /baskets/{id}/lines/{productId} [delete]
func RemoveBasketLine(c *gin.Context) {
	repo, ok := baskets(c)
	if !ok {
		return
	}
	productID := c.Param("productId")
	b, err := repo.Update(c.Request.Context(), c.Param("id"), func(b *basket.Basket) error {
		return b.Remove(productID)
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func updateLine(c *gin.Context, apply func(*basket.Basket, LineRequest) error) {
	repo, ok := baskets(c)
	if !ok {
		return
	}
	var body LineRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	b, err := repo.Update(c.Request.Context(), c.Param("id"), func(b *basket.Basket) error {
		return apply(b, body)
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// DeleteBasket removes a stored basket
// @Summary Delete a basket
// @Tags baskets
// @Param id path string true "Basket ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /baskets/{id} [delete]
func DeleteBasket(c *gin.Context) {
	repo, ok := baskets(c)
	if !ok {
		return
	}
	if err := repo.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CompareSavedBasket runs the comparison on a stored basket
// @Summary Compare a stored basket
// @Tags baskets
// @Accept json
// @Produce json
// @Param id path string true "Basket ID"
// @Param request body CompareSavedRequest false "Origin and stores"
// @Success 200 {object} optimizer.Comparison
// @Router /baskets/{id}/compare [post]
func CompareSavedBasket(c *gin.Context) {
	repo, ok := baskets(c)
	if !ok {
		return
	}
	var body CompareSavedRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
	}
	b, err := repo.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	compare(c, PricingRequest{Lines: b.Snapshot(), Origin: body.Origin, StoreIDs: body.StoreIDs})
}
