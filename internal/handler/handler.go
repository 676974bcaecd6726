package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"catalog-console/internal/screen"

	"github.com/labstack/echo/v4"
)

// Handler binds the console routes to the product screen
type Handler struct {
	screen      *screen.Screen
	notices     *screen.NoticeBoard
	previews    *screen.Previews
	catalog     screen.Catalog
	previewPath string
	maxBytes    int64
}

// New creates a Handler. previewPath is the route prefix the preview registry
// issues its URLs under; maxBytes caps each upload request body.
func New(s *screen.Screen, notices *screen.NoticeBoard, previews *screen.Previews, c screen.Catalog, previewPath string, maxBytes int64) *Handler {
	return &Handler{
		screen:      s,
		notices:     notices,
		previews:    previews,
		catalog:     c,
		previewPath: "/" + strings.Trim(previewPath, "/"),
		maxBytes:    maxBytes,
	}
}

// Register mounts every console route on e
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/health", h.HealthCheck)

	e.GET("/", h.Index)
	e.POST("/reload", h.Reload)

	e.POST("/products/new", h.NewProduct)
	e.POST("/products/:id/edit", h.EditProduct)
	e.GET("/products/:id/delete", h.ConfirmDelete)
	e.POST("/products/:id/delete", h.DeleteProduct)
	e.POST("/form/submit", h.SubmitForm)
	e.POST("/form/draft", h.SaveDraft)

	e.POST("/dialogs/images/open", h.OpenImageUpload)
	e.POST("/dialogs/:kind/close", h.CloseDialog)

	e.POST("/images/add", h.AddImage)
	e.POST("/images/:slot", h.UploadImage)
	e.POST("/images/:slot/main", h.SelectMainImage)
	e.POST("/viewer/open", h.OpenViewer)

	e.GET(h.previewPath+"/:id", h.Preview)
}

func (h *Handler) notify(severity screen.Severity, msg string) {
	h.notices.Notify(screen.Notice{Severity: severity, Message: msg})
}

// back returns the operator to the product page
func back(c echo.Context) error {
	return c.Redirect(http.StatusSeeOther, "/")
}

// multipartForm parses the request body as multipart/form-data, capped at maxBytes
func (h *Handler) multipartForm(c echo.Context) (*multipart.Form, error) {
	req := c.Request()
	req.Body = http.MaxBytesReader(c.Response(), req.Body, h.maxBytes)
	return c.MultipartForm()
}

// readUpload returns the first non-empty file sent under field, or nil
func readUpload(form *multipart.Form, field string) (*screen.File, error) {
	for _, fh := range form.File[field] {
		if fh.Filename == "" || fh.Size == 0 {
			continue
		}
		src, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", field, err)
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", field, err)
		}
		f := screen.NewFile(fh.Filename, data)
		return &f, nil
	}
	return nil, nil
}
