package handlers

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts every API endpoint on r.
func RegisterRoutes(r gin.IRouter) {
	r.GET("/health", HealthCheck)

	cat := r.Group("/catalog")
	{
		cat.GET("/stores", ListStores)
		cat.GET("/products", ListProducts)
		cat.GET("/products/:id/prices", GetProductPrices)
		cat.GET("/stats", GetCatalogStats)
	}

	r.GET("/stores/:id/distance", GetStoreDistance)
	r.POST("/delivery/quote", QuoteDelivery)

	pricing := r.Group("/basket")
	{
		pricing.POST("/quote", QuoteBasket)
		pricing.POST("/rank", RankStores)
		pricing.POST("/optimal", OptimalAllocation)
		pricing.POST("/compare", CompareBasket)
	}

	saved := r.Group("/baskets")
	{
		saved.POST("", CreateBasket)
		saved.GET("", ListBaskets)
		saved.GET("/:id", GetBasket)
		saved.PUT("/:id", ReplaceBasket)
		saved.DELETE("/:id", DeleteBasket)
		saved.POST("/:id/lines", AddBasketLine)
		saved.PUT("/:id/lines", SetBasketLine)
		saved.DELETE("/:id/lines/:productId", RemoveBasketLine)
		saved.POST("/:id/compare", CompareSavedBasket)
	}

	r.POST("/recognize", RecognizeProduct)
}
