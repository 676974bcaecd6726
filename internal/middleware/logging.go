package middleware

import (
	"time"

	"catalog-console/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestLogMiddleware logs one line per request once it has been served
func RequestLogMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			// let echo write the error response so the logged status is final
			c.Error(err)
		}

		res := c.Response()
		fields := []zap.Field{
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.String("uri", c.Request().RequestURI),
			zap.Int("status", res.Status),
			zap.Int64("bytes", res.Size),
			zap.Duration("latency", time.Since(start)),
		}

		log := logger.FromEcho(c)
		switch {
		case res.Status >= 500:
			log.Error("Request failed", append(fields, zap.Error(err))...)
		case res.Status >= 400:
			log.Warn("Request rejected", fields...)
		default:
			log.Info("Request served", fields...)
		}
		return nil
	}
}
