package logger

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GinConfig tunes the request logging middleware
type GinConfig struct {
	// SkipPaths are not logged when the response succeeds
	SkipPaths []string
}

// GinMiddleware logs one line per request through the request-scoped
// logger. It attaches base to the request context, so it must run before
// middleware that enriches the context logger.
func GinMiddleware(base *zap.Logger) gin.HandlerFunc {
	return GinMiddlewareWithConfig(base, GinConfig{SkipPaths: []string{"/health"}})
}

// GinMiddlewareWithConfig is GinMiddleware with explicit settings
func GinMiddlewareWithConfig(base *zap.Logger, cfg GinConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		ctx := c.Request.Context()
		if _, ok := ctx.Value(LoggerKey).(*zap.Logger); !ok {
			ctx = WithContext(ctx, base)
			c.Request = c.Request.WithContext(ctx)
		}

		c.Next()

		status := c.Writer.Status()
		if _, ok := skip[path]; ok && status < http.StatusBadRequest {
			return
		}

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("body_size", c.Writer.Size()),
		}
		if q := c.Request.URL.RawQuery; q != "" {
			fields = append(fields, zap.String("query", q))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", strings.Join(c.Errors.Errors(), "; ")))
		}

		l := WithTraceContext(c.Request.Context(), FromContext(c.Request.Context()))
		switch {
		case status >= http.StatusInternalServerError:
			l.Error("http request", fields...)
		case status >= http.StatusBadRequest:
			l.Warn("http request", fields...)
		default:
			l.Info("http request", fields...)
		}
	}
}

// Recovery turns a panic into a 500 and logs it with the stack
func Recovery(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				l, ok := c.Request.Context().Value(LoggerKey).(*zap.Logger)
				if !ok {
					l = base
				}
				l.Error("panic recovered",
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Any("panic", rec),
					zap.Stack("stacktrace"),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error": gin.H{
						"code":       "ERR_INTERNAL",
						"message":    "An unexpected error occurred",
						"request_id": c.GetString("request_id"),
						"timestamp":  time.Now(),
					},
				})
			}
		}()
		c.Next()
	}
}
