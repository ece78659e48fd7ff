package middleware

import (
	"github.com/amirhossein-jamali/cashely/internal/infrastructure/adapter/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request id in and out
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// RequestID keeps the caller's X-Request-ID or assigns one, and passes it to
// downstream loggers through the request context
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}

		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(logger.ContextWithRequestID(c.Request.Context(), id))

		c.Next()
	}
}

// RequestIDFrom returns the id assigned by RequestID
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
