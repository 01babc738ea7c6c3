package logger

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// ZapEchoMiddleware creates request-logging middleware for Echo
func ZapEchoMiddleware(logger *ZapLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// New Relic transaction is created by the New Relic middleware
			txn := newrelic.FromContext(c.Request().Context())

			start := time.Now()
			path := c.Request().URL.Path
			raw := c.Request().URL.RawQuery

			err := next(c)

			latency := time.Since(start)
			statusCode := c.Response().Status
			clientIP := c.RealIP()
			method := c.Request().Method

			if raw != "" {
				path = path + "?" + raw
			}

			requestID := c.Response().Header().Get("X-Request-ID")

			if txn != nil {
				txn.AddAttribute("request_id", requestID)
				txn.AddAttribute("response_time_ms", latency.Milliseconds())
				if err != nil {
					txn.NoticeError(err)
				}
			}

			logger.LogHTTPRequest(txn, method, path, clientIP, requestID, statusCode, latency, err)

			return err
		}
	}
}
