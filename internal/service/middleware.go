package service

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// APIKeyMiddleware creates a middleware that validates API keys.
// excludedPaths: paths that don't require API key validation.
func APIKeyMiddleware(excludedPaths ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		currentPath := c.Request.URL.Path
		for _, excludedPath := range excludedPaths {
			// Exact matches and prefix matches (for wildcard paths)
			if currentPath == excludedPath || strings.HasPrefix(currentPath, excludedPath) {
				c.Next()
				return
			}
		}

		expectedAPIKey := os.Getenv("MOODMIX_API_KEY")

		if expectedAPIKey == "" {
			logger.Error("API key not configured in environment")
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "API key validation is not properly configured",
				"status":  "error",
				"message": "Server configuration error",
			})
			c.Abort()
			return
		}

		// Header first, query parameter second
		apiKey := c.GetHeader("X-API-Key")
		if apiKey == "" {
			apiKey = c.Query("api_key")
		}

		if apiKey == "" {
			logger.Warn("API key missing",
				zap.String("path", currentPath),
				zap.String("method", c.Request.Method),
				zap.String("ip", c.ClientIP()),
			)
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "API key required",
				"status":  "error",
				"message": "Please provide a valid API key in X-API-Key header or api_key query parameter",
			})
			c.Abort()
			return
		}

		if apiKey != expectedAPIKey {
			logger.Warn("Invalid API key provided",
				zap.String("path", currentPath),
				zap.String("method", c.Request.Method),
				zap.String("ip", c.ClientIP()),
				zap.String("providedKey", apiKey[:min(len(apiKey), 8)]+"..."),
			)
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid API key",
				"status":  "error",
				"message": "The provided API key is not valid",
			})
			c.Abort()
			return
		}

		logger.Debug("API key validated successfully",
			zap.String("path", currentPath),
			zap.String("method", c.Request.Method),
			zap.String("ip", c.ClientIP()),
		)
		c.Next()
	}
}

// RequireAPIKey is a convenience function for protecting specific route groups.
func RequireAPIKey() gin.HandlerFunc {
	return APIKeyMiddleware()
}

// RequestIDMiddleware tags every request with an id for log
// correlation, honoring one supplied by the caller.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("requestId", id)
		c.Header("X-Request-Id", id)
		c.Next()
	}
}
