package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/sercha-manuals/internal/logger"
)

// requestLogger logs one debug line per request.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debugw("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
