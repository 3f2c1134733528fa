package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kosarica/basket-service/internal/recognition"
)

// RecognizeProduct identifies a product from a barcode or label text
// @Summary Recognize a scanned product
// @Tags recognition
// @Accept json
// @Produce json
// @Param request body recognition.Input true "Barcode and/or label text"
// @Success 200 {object} recognition.Result
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /recognize [post]
func RecognizeProduct(c *gin.Context) {
	if recognizer == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Recognition not configured"})
		return
	}
	var in recognition.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	res, err := recognizer.Recognize(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
