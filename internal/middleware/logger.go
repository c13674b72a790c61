package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"terminal-terrace/library/internal/dto"
	"terminal-terrace/library/packages/response"
)

// RequestLogger 记录每个请求
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if id, ok := c.Get(ctxUserIDKey); ok {
			fields = append(fields, zap.Any("user_id", id))
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			zap.L().Error("request", fields...)
		case status >= http.StatusBadRequest:
			zap.L().Warn("request", fields...)
		default:
			zap.L().Info("request", fields...)
		}
	}
}

// Recovery turns a panic into a 500 envelope.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		zap.L().Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.Stack("stack"),
		)
		dto.AbortWithError(c, response.NewBusinessError(
			response.WithErrorMessage("Unexpected server error."),
		))
	})
}
