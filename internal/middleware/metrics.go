package middleware

import (
	"time"

	"catalog-console/prometheus"

	"github.com/labstack/echo/v4"
)

// MetricsMiddleware records prometheus metrics for each HTTP request
func MetricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		status := c.Response().Status
		if he, ok := err.(*echo.HTTPError); ok && !c.Response().Committed {
			status = he.Code
		}
		prometheus.RecordHTTPRequest(c.Request().Method, c.Path(), status, time.Since(start))

		return err
	}
}
