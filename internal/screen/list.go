package screen

import (
	"strconv"

	"catalog-console/internal/model"
)

const descriptionLimit = 30

// Row is one rendered line of the product table
type Row struct {
	ID          string
	Name        string
	Thumbnail   string
	PDF         string
	Description string
	Price       string
}

// Rows builds the table rows for products. resolve turns stored file
// references into absolute URLs.
func Rows(products []model.Product, resolve func(string) string) []Row {
	rows := make([]Row, 0, len(products))
	for _, p := range products {
		row := Row{
			ID:          p.ID,
			Name:        p.Name,
			Description: TruncateDescription(p.Description),
			Price:       FormatPrice(p.Price),
		}
		if ref := thumbnailRef(p); ref != "" {
			row.Thumbnail = resolve(ref)
		}
		if p.ProductInfoPDF != "" {
			row.PDF = resolve(p.ProductInfoPDF)
		}
		rows = append(rows, row)
	}
	return rows
}

// thumbnailRef prefers the main image and falls back to the first gallery image
func thumbnailRef(p model.Product) string {
	if len(p.Image.MainImages) > 0 && p.Image.MainImages[0] != "" {
		return p.Image.MainImages[0]
	}
	if len(p.Image.AllImages) > 0 {
		return p.Image.AllImages[0]
	}
	return ""
}

// TruncateDescription shortens s to 30 characters followed by an ellipsis
func TruncateDescription(s string) string {
	if s == "" {
		return "No description available"
	}
	r := []rune(s)
	if len(r) <= descriptionLimit {
		return s
	}
	return string(r[:descriptionLimit]) + "..."
}

// FormatPrice renders a price for the table
func FormatPrice(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', -1, 64)
}
