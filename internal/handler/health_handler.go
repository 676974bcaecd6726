package handler

import (
	"net/http"
	"time"

	"catalog-console/pkg/catalog"
	"catalog-console/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HealthCheck handles the health check endpoint. With ?check=catalog it also
// verifies the remote catalog answers.
func (h *Handler) HealthCheck(c echo.Context) error {
	log := logger.FromEcho(c)
	log.Debug("Health check requested")

	response := map[string]interface{}{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	}

	if c.QueryParam("check") == "catalog" {
		if _, err := h.catalog.ListCategories(c.Request().Context()); err != nil {
			log.Error("Catalog health check failed", zap.Error(err))
			response["status"] = "error"
			response["catalog_status"] = "error"
			response["catalog_error"] = catalog.Detail(err)
			return c.JSON(http.StatusServiceUnavailable, response)
		}
		response["catalog_status"] = "ok"
	}

	return c.JSON(http.StatusOK, response)
}
