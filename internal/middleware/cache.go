package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// CacheControl sets the Cache-Control header for responses. Files served
// behind authentication should use private so shared caches skip them.
func CacheControl(private bool, maxAgeSeconds int) gin.HandlerFunc {
	scope := "public"
	if private {
		scope = "private"
	}
	value := fmt.Sprintf("%s, max-age=%d", scope, maxAgeSeconds)
	return func(c *gin.Context) {
		c.Header("Cache-Control", value)
		c.Next()
	}
}

// NoStore marks responses as uncacheable.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
