package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// APIKeyHeader carries the shared service key.
const APIKeyHeader = "X-Internal-API-Key"

// APIKeyAuth validates service-to-service authentication using the
// X-Internal-API-Key header. An empty key disables the check, which is only
// meant for local development.
func APIKeyAuth(apiKey string) gin.HandlerFunc {
	if apiKey == "" {
		log.Warn().Msg("No API key configured, internal endpoints are unauthenticated")
		return func(c *gin.Context) { c.Next() }
	}
	apiKeyBytes := []byte(apiKey)

	return func(c *gin.Context) {
		key := c.GetHeader(APIKeyHeader)
		if subtle.ConstantTimeCompare([]byte(key), apiKeyBytes) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "unauthorized",
			})
			return
		}
		c.Next()
	}
}
