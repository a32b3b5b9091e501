package middleware

import "github.com/gin-gonic/gin"

// CacheControlMiddleware sets browser caching for the static catalog
// endpoints.
func CacheControlMiddleware(value string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", value)
		c.Next()
	}
}
