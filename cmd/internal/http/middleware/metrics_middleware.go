package middleware

import (
	"errors"
	"net/http"
	"time"

	"bizdirectory/cmd/internal/metrics"

	"github.com/labstack/echo/v4"
)

// NewMetricsMiddleware records request counts and latencies per route.
func NewMetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			metrics.RequestStarted()
			start := time.Now()

			err := next(c)

			status := c.Response().Status
			var herr *echo.HTTPError
			if errors.As(err, &herr) {
				status = herr.Code
			} else if err != nil {
				status = http.StatusInternalServerError
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			metrics.RequestFinished(c.Request().Method, path, status, time.Since(start))
			return err
		}
	}
}
