package middleware

import (
	"catalog-console/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HeaderRequestID carries the request id in both directions
const HeaderRequestID = "X-Request-ID"

// RequestIDMiddleware adds a unique request ID to each request and stores a
// logger tagged with it in the echo context.
func RequestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
			c.Request().Header.Set(HeaderRequestID, requestID)
		}
		c.Response().Header().Set(HeaderRequestID, requestID)

		ctxLogger := logger.GetLogger().With(zap.String("request_id", requestID))
		c.Set(logger.EchoKey, ctxLogger)
		req := c.Request()
		c.SetRequest(req.WithContext(logger.WithContext(req.Context(), ctxLogger)))

		return next(c)
	}
}
