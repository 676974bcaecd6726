package handler

import (
	"net/http"
	"strconv"

	"catalog-console/internal/screen"
	"catalog-console/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func slotParam(c echo.Context) (int, error) {
	slot, err := strconv.Atoi(c.Param("slot"))
	if err != nil || slot < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid image slot")
	}
	return slot, nil
}

// AddImage appends an empty image slot to the draft
func (h *Handler) AddImage(c echo.Context) error {
	// the screen warns the operator when the limit is reached
	_ = h.screen.AddImageSlot()
	return back(c)
}

// UploadImage replaces the file in one image slot
func (h *Handler) UploadImage(c echo.Context) error {
	log := logger.FromEcho(c)
	slot, err := slotParam(c)
	if err != nil {
		return err
	}

	form, err := h.multipartForm(c)
	if err != nil {
		log.Warn("Invalid image upload", zap.Error(err))
		h.notify(screen.SeverityError, "The image could not be read.")
		return back(c)
	}
	f, err := readUpload(form, "images")
	if err != nil {
		log.Warn("Invalid image upload", zap.Error(err))
		h.notify(screen.SeverityError, "The image could not be read.")
		return back(c)
	}
	if f == nil {
		h.notify(screen.SeverityWarning, "Choose an image to upload.")
		return back(c)
	}

	err = h.screen.Change(screen.Change{Name: "images", Kind: screen.InputFile, Slot: slot, Files: []screen.File{*f}})
	if err != nil {
		log.Warn("Image not stored", zap.Int("slot", slot), zap.Error(err))
		h.notify(screen.SeverityWarning, "That image slot does not exist.")
	}
	return back(c)
}

// SelectMainImage marks one slot as the main image, or clears the main image
// when checked is "false"
func (h *Handler) SelectMainImage(c echo.Context) error {
	log := logger.FromEcho(c)
	slot, err := slotParam(c)
	if err != nil {
		return err
	}
	checked, err := strconv.ParseBool(c.FormValue("checked"))
	if err != nil {
		checked = true
	}

	if err := h.screen.SelectMainImage(slot, checked); err != nil {
		log.Warn("Main image not changed", zap.Int("slot", slot), zap.Error(err))
		h.notify(screen.SeverityWarning, "Upload an image to this slot before making it the main image.")
	}
	return back(c)
}

// Preview serves a locally chosen file from the preview registry
func (h *Handler) Preview(c echo.Context) error {
	f, ok := h.previews.Lookup(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "preview not found")
	}
	c.Response().Header().Set("Cache-Control", "private, no-store")
	return c.Blob(http.StatusOK, f.ContentType, f.Data)
}
