package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gastoncarriquiry/menu-maker/logger"
)

// RequestIDHeader carries the correlation id between client and server.
const RequestIDHeader = "X-Request-Id"

// RequestID tags each request with a correlation id. An inbound
// X-Request-Id is trusted and kept; otherwise a fresh UUID is assigned.
// The id is echoed on the response and stored under logger.FieldRequestID
// for the request logger to pick up.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(logger.FieldRequestID, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
