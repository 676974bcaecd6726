// Package view renders the console pages with html/template.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"catalog-console/internal/model"
	"catalog-console/internal/screen"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Template names
const (
	ProductsPage      = "products.html"
	ConfirmDeletePage = "confirm_delete.html"
)

// Products is the data for the product management page
type Products struct {
	Title      string
	View       screen.View
	Notices    []screen.Notice
	MaxImages  int
	ImageCount int
}

// NewProducts builds the product page data from a snapshot
func NewProducts(v screen.View, notices []screen.Notice) Products {
	return Products{
		Title:      "Products",
		View:       v,
		Notices:    notices,
		MaxImages:  screen.MaxImages,
		ImageCount: len(v.Draft.AllImages()),
	}
}

// ConfirmDelete is the data for the delete confirmation page
type ConfirmDelete struct {
	Title   string
	Notices []screen.Notice
	Prompt  string
	Product model.Product
}

// Renderer implements echo.Renderer over the embedded templates
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every page together with the shared partials
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, name := range []string{ProductsPage, ConfirmDeletePage} {
		t, err := template.New(name).ParseFS(templatesFS, "templates/partials.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render executes the page called name
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}
	return t.ExecuteTemplate(w, name, data)
}
