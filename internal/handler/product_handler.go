package handler

import (
	"errors"
	"net/http"

	"catalog-console/internal/screen"
	"catalog-console/internal/view"
	"catalog-console/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Index renders the product table with any open dialogs
func (h *Handler) Index(c echo.Context) error {
	page := view.NewProducts(h.screen.Snapshot(), h.notices.Drain())
	return c.Render(http.StatusOK, view.ProductsPage, page)
}

// Reload fetches categories and products again
func (h *Handler) Reload(c echo.Context) error {
	log := logger.FromEcho(c)
	if err := h.screen.Load(c.Request().Context()); err != nil {
		log.Warn("Catalog reload incomplete", zap.Error(err))
	}
	return back(c)
}

// NewProduct opens the form with an empty draft
func (h *Handler) NewProduct(c echo.Context) error {
	h.screen.OpenCreate()
	return back(c)
}

// EditProduct opens the form populated from an existing product
func (h *Handler) EditProduct(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	if err := h.screen.OpenEdit(id); err != nil {
		log.Warn("Cannot edit product", zap.String("product_id", id), zap.Error(err))
		h.notify(screen.SeverityError, "Product not found.")
	}
	return back(c)
}

// applyForm copies the posted product form fields and PDF into the draft. It
// reports false after notifying the operator when the body cannot be read.
func (h *Handler) applyForm(c echo.Context) bool {
	log := logger.FromEcho(c)

	form, err := h.multipartForm(c)
	if err != nil {
		log.Warn("Invalid product form", zap.Error(err))
		h.notify(screen.SeverityError, "Error saving product: the form could not be read.")
		return false
	}

	for _, name := range screen.ScalarFields {
		if name == "promotion" {
			// unchecked boxes are not posted
			_, checked := form.Value[name]
			_ = h.screen.Change(screen.Change{Name: name, Kind: screen.InputCheckbox, Checked: checked})
			continue
		}
		values, ok := form.Value[name]
		if !ok || len(values) == 0 {
			continue
		}
		if err := h.screen.Change(screen.Change{Name: name, Value: values[0]}); err != nil {
			log.Warn("Ignoring form field", zap.String("field", name), zap.Error(err))
		}
	}

	pdf, err := readUpload(form, "pdf")
	if err != nil {
		log.Warn("Invalid PDF upload", zap.Error(err))
		h.notify(screen.SeverityError, "Error saving product: the PDF could not be read.")
		return false
	}
	if pdf != nil {
		_ = h.screen.Change(screen.Change{Name: "pdf", Kind: screen.InputFile, Files: []screen.File{*pdf}})
	}
	return true
}

// SaveDraft keeps what has been typed in the product form and opens the image
// upload dialog over it
func (h *Handler) SaveDraft(c echo.Context) error {
	if h.applyForm(c) {
		h.screen.OpenImageUpload()
	}
	return back(c)
}

// SubmitForm applies the posted form fields to the draft and saves it
func (h *Handler) SubmitForm(c echo.Context) error {
	log := logger.FromEcho(c)
	if !h.applyForm(c) {
		return back(c)
	}

	err := h.screen.Submit(c.Request().Context())
	switch {
	case err == nil:
	case errors.Is(err, screen.ErrInFlight):
		h.notify(screen.SeverityWarning, "The product is already being saved.")
	case errors.Is(err, screen.ErrNoEditTarget):
		log.Error("Edit mode without a product", zap.Error(err))
		h.notify(screen.SeverityError, "Error saving product: no product selected.")
	default:
		// validation and remote failures were already reported by the screen
		log.Debug("Product not saved", zap.Error(err))
	}
	return back(c)
}

// ConfirmDelete renders the delete confirmation prompt
func (h *Handler) ConfirmDelete(c echo.Context) error {
	id := c.Param("id")
	p, ok := h.screen.Product(id)
	if !ok {
		h.notify(screen.SeverityError, "Product not found.")
		return back(c)
	}
	return c.Render(http.StatusOK, view.ConfirmDeletePage, view.ConfirmDelete{
		Title:   "Delete product",
		Notices: h.notices.Drain(),
		Prompt:  screen.DeletePrompt,
		Product: p,
	})
}

// DeleteProduct deletes the product when the operator answered the prompt with yes
func (h *Handler) DeleteProduct(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")
	confirmed := c.FormValue("confirm") == "yes"

	err := h.screen.Delete(c.Request().Context(), id, screen.ConfirmFunc(func(string) bool {
		return confirmed
	}))
	if errors.Is(err, screen.ErrInFlight) {
		h.notify(screen.SeverityWarning, "The product is already being deleted.")
	} else if err != nil {
		log.Debug("Product not deleted", zap.String("product_id", id), zap.Error(err))
	}
	return back(c)
}
