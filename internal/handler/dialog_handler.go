package handler

import (
	"net/http"

	"catalog-console/internal/screen"

	"github.com/labstack/echo/v4"
)

// OpenImageUpload opens the image upload dialog
func (h *Handler) OpenImageUpload(c echo.Context) error {
	h.screen.OpenImageUpload()
	return back(c)
}

// CloseDialog closes the dialog named by the kind path parameter
func (h *Handler) CloseDialog(c echo.Context) error {
	kind, err := screen.ParseDialogKind(c.Param("kind"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	h.screen.Close(kind)
	return back(c)
}

// OpenViewer shows the posted image url enlarged
func (h *Handler) OpenViewer(c echo.Context) error {
	url := c.FormValue("url")
	if url == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "url is required")
	}
	h.screen.OpenImageViewer(url)
	return back(c)
}
