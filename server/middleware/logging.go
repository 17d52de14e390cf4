package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gastoncarriquiry/menu-maker/logger"
)

// RequestLogger returns a middleware that logs every request with method,
// path, status code, and duration. Health-check paths are silently skipped.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	reqLog := log.WithComponent("http")
	return func(c *gin.Context) {
		if isHealthEndpoint(c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		duration := time.Since(start)

		status := c.Writer.Status()
		fields := map[string]interface{}{
			"method":             c.Request.Method,
			"path":               c.Request.URL.Path,
			logger.FieldStatus:   status,
			logger.FieldDuration: duration.Milliseconds(),
		}
		if id := c.GetString(logger.FieldRequestID); id != "" {
			fields[logger.FieldRequestID] = id
		}

		switch {
		case status >= 500:
			reqLog.Error("request failed", fields)
		case status >= 400:
			reqLog.Warn("request rejected", fields)
		default:
			reqLog.Info("request completed", fields)
		}
	}
}

func isHealthEndpoint(path string) bool {
	return strings.HasPrefix(path, "/health")
}
