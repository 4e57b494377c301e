package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nomadecampers/nomade-api/pkg/logger"
)

// RequestLogger logs every request through slog, leveled by status code.
// Health-check hits are skipped; the deploy platform polls them constantly.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		if path == "/api/v1/health" {
			return
		}

		if raw := c.Request.URL.RawQuery; raw != "" {
			path += "?" + raw
		}
		status := c.Writer.Status()

		attrs := []any{
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.Int("status", status),
			slog.String("ip", c.ClientIP()),
			slog.Duration("latency", time.Since(start)),
			slog.String("user_agent", c.Request.UserAgent()),
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate).String(); errs != "" {
			attrs = append(attrs, slog.String("error", errs))
		}
		if userID := GetUserID(c); userID != 0 {
			attrs = append(attrs, slog.Uint64("user_id", uint64(userID)))
		}

		switch {
		case status >= 500:
			logger.Log.Error("request", attrs...)
		case status >= 400:
			logger.Log.Warn("request", attrs...)
		default:
			logger.Log.Info("request", attrs...)
		}
	}
}
