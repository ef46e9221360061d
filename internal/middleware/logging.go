package middleware

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	ctxutil "github.com/phishguard/backend/pkg/context"
	"github.com/phishguard/backend/pkg/logger"
)

// LoggingMiddleware logs HTTP requests and responses
func LoggingMiddleware() gin.HandlerFunc {
	return gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			logger.LogRequest(
				param.Method,
				param.Path,
				param.StatusCode,
				param.Latency.Milliseconds(),
				param.ClientIP,
				param.Request.UserAgent(),
			)

			if param.ErrorMessage != "" {
				logger.GetLogger().Error("Request error",
					zap.String("request_id", ctxutil.GetRequestID(param.Request.Context())),
					zap.String("error", param.ErrorMessage),
					zap.String("method", param.Method),
					zap.String("path", param.Path),
					zap.String("client_ip", param.ClientIP),
					zap.Int("status_code", param.StatusCode),
					zap.Duration("latency", param.Latency),
				)
			}

			if param.Latency > time.Second*2 {
				logger.GetLogger().Warn("Slow request detected",
					zap.String("request_id", ctxutil.GetRequestID(param.Request.Context())),
					zap.String("method", param.Method),
					zap.String("path", param.Path),
					zap.Duration("latency", param.Latency),
					zap.String("client_ip", param.ClientIP),
				)
			}

			return ""
		},
		Output: io.Discard,
	})
}

// RecoveryMiddleware converts panics into 500 responses with a log entry
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.GetLogger().Error("Panic recovered",
			zap.Any("panic", recovered),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("client_ip", c.ClientIP()),
		)
		c.AbortWithStatusJSON(500, gin.H{
			"success": false,
			"message": "internal server error",
		})
	})
}
