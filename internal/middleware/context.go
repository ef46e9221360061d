package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/phishguard/backend/internal/constants"
	ctxutil "github.com/phishguard/backend/pkg/context"
)

// RequestContextMiddleware attaches a request ID and timing information
// to the request context and echoes the ID back in the response.
func RequestContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := c.Request.Context()
		ctx = context.WithValue(ctx, ctxutil.RequestIDKey, requestID)
		ctx = context.WithValue(ctx, ctxutil.StartTimeKey, time.Now())
		ctx = context.WithValue(ctx, ctxutil.ClientIPKey, c.ClientIP())
		ctx = context.WithValue(ctx, ctxutil.UserAgentKey, c.GetHeader("User-Agent"))

		c.Header(constants.HeaderXRequestID, requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequestTimeoutMiddleware bounds each request's context lifetime.
func RequestTimeoutMiddleware(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
