package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/locvowork/empcrud/internal/logger"
)

// RequestID tags each request with the incoming X-Request-ID or a fresh UUID.
func RequestID() echo.MiddlewareFunc {
	return echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	})
}

// RequestLogger puts a request-scoped logger into the request context and
// logs one line per request once the handler returns. Register it after RequestID.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			ctx := logger.WithLogger(req.Context(), map[string]interface{}{
				"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
				"method":     req.Method,
				"path":       req.URL.Path,
			})
			c.SetRequest(req.WithContext(ctx))

			err := next(c)
			if err != nil {
				// let the error handler write the response so the status below is final
				c.Error(err)
			}

			status := c.Response().Status
			latency := time.Since(start)
			if status >= 500 {
				logger.ErrorLog(ctx, "request completed status=%d latency=%s", status, latency)
			} else {
				logger.InfoLog(ctx, "request completed status=%d latency=%s", status, latency)
			}
			return nil
		}
	}
}
