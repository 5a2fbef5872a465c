package middleware

import (
	"github.com/cadence-tools/cadenced/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	RequestIDKey    = "request_id"
	LoggerKey       = "logger"
	requestIDHeader = "X-Request-ID"
)

// RequestIDMiddleware tags every request with an ID (honoring one the
// client already sent) and binds a request-scoped zap logger into the
// gin context for handlers to pull out via LoggerKey.
func RequestIDMiddleware(baseLogger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = uuid.New().String()
		}
		c.Set(RequestIDKey, reqID)
		c.Writer.Header().Set(requestIDHeader, reqID)
		c.Set(LoggerKey, logging.WithRequestID(baseLogger, reqID))

		c.Next()
	}
}
