package model

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// ImageRefs is an ordered list of server-relative image paths.
// The catalog service returns either a single string or an array; both decode to a list.
type ImageRefs []string

// UnmarshalJSON accepts null, a string or an array of strings
func (r *ImageRefs) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*r = nil
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*r = nil
			return nil
		}
		*r = ImageRefs{s}
		return nil
	case len(data) > 0 && data[0] == '[':
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*r = list
		return nil
	default:
		return fmt.Errorf("image refs: unexpected JSON %s", data)
	}
}

// ProductImages groups the gallery and the image flagged for prominent display
type ProductImages struct {
	MainImages ImageRefs `json:"main_images"`
	AllImages  ImageRefs `json:"all_images"`
}

// Product represents a catalog product as served by the remote catalog service
type Product struct {
	ID             string        `json:"_id"`
	Name           string        `json:"name"`
	Description    string        `json:"description"`
	Price          float64       `json:"price"`
	DiscountPrice  float64       `json:"discount_price"`
	Rating         float64       `json:"rating"`
	Stock          int           `json:"stock"`
	Volume         string        `json:"volume"`
	Ruler          string        `json:"ruler"`
	OilsType       string        `json:"oils_type"`
	Category       string        `json:"category"`
	Promotion      bool          `json:"promotion"`
	Feedback       string        `json:"fidbek,omitempty"`
	Image          ProductImages `json:"image"`
	ProductInfoPDF string        `json:"product_info_pdf,omitempty"`
}

// Category represents a product category
type Category struct {
	ID   string `json:"_id"`
	Name string `json:"category_name"`
}
