package screen

import (
	"errors"
	"fmt"
	"strconv"

	"catalog-console/internal/model"
)

// MaxImages is the number of image slots a draft may hold
const MaxImages = 6

var (
	ErrTooManyImages  = errors.New("cannot upload more than 6 images")
	ErrSlotOutOfRange = errors.New("image slot out of range")
	ErrEmptySlot      = errors.New("image slot has no image")
	ErrUnknownField   = errors.New("unknown form field")
)

// ImageSlot is one entry of the draft's image gallery. A slot holds either a
// reference to an image already stored by the catalog service or a newly
// chosen file.
type ImageSlot struct {
	Ref        string
	File       *File
	PreviewURL string
	IsMain     bool
}

// Filled reports whether the slot holds an image
func (s ImageSlot) Filled() bool {
	return s.File != nil || s.Ref != ""
}

// Draft is the not-yet-submitted state of the product form
type Draft struct {
	Name          string
	Description   string
	Price         string
	Category      string
	Stock         string
	Rating        string
	Volume        string
	DiscountPrice string
	Promotion     bool
	Ruler         string
	OilsType      string
	Feedback      string

	Images []ImageSlot
	// MainRefs are the stored main image references of the product being
	// edited. They are resent until a slot is picked as main.
	MainRefs []string
	PDF      *File
}

// ScalarFields lists the form field names of the draft's scalar values in submission order
var ScalarFields = []string{
	"name",
	"description",
	"price",
	"category",
	"stock",
	"rating",
	"volume",
	"discount_price",
	"promotion",
	"ruler",
	"oils_type",
	"fidbek",
}

// InputKind is the kind of form control a change originates from
type InputKind int

const (
	InputText InputKind = iota
	InputCheckbox
	InputFile
)

// Change describes one edit of a form control
type Change struct {
	Name    string
	Value   string
	Checked bool
	Kind    InputKind
	Files   []File
	// Slot is the image slot for file inputs named "images"
	Slot int
}

func (d *Draft) text(name string) *string {
	switch name {
	case "name":
		return &d.Name
	case "description":
		return &d.Description
	case "price":
		return &d.Price
	case "category":
		return &d.Category
	case "stock":
		return &d.Stock
	case "rating":
		return &d.Rating
	case "volume":
		return &d.Volume
	case "discount_price":
		return &d.DiscountPrice
	case "ruler":
		return &d.Ruler
	case "oils_type":
		return &d.OilsType
	case "fidbek":
		return &d.Feedback
	}
	return nil
}

// Value returns the submitted text of a scalar field
func (d *Draft) Value(name string) (string, bool) {
	if name == "promotion" {
		return strconv.FormatBool(d.Promotion), true
	}
	if p := d.text(name); p != nil {
		return *p, true
	}
	return "", false
}

// MainImages returns the filled slots flagged as main image
func (d *Draft) MainImages() []ImageSlot {
	var out []ImageSlot
	for _, s := range d.Images {
		if s.IsMain && s.Filled() {
			out = append(out, s)
		}
	}
	return out
}

// AllImages returns the filled slots in order
func (d *Draft) AllImages() []ImageSlot {
	var out []ImageSlot
	for _, s := range d.Images {
		if s.Filled() {
			out = append(out, s)
		}
	}
	return out
}

// MainSlot returns the index of the main image slot, or -1
func (d *Draft) MainSlot() int {
	for i, s := range d.Images {
		if s.IsMain {
			return i
		}
	}
	return -1
}

func (d *Draft) apply(ev Change, previews *Previews) error {
	switch ev.Kind {
	case InputFile:
		if len(ev.Files) == 0 {
			return nil
		}
		f := ev.Files[0]
		switch ev.Name {
		case "pdf":
			d.PDF = &f
			return nil
		case "images":
			return d.setImage(ev.Slot, f, previews)
		}
	case InputCheckbox:
		if ev.Name == "promotion" {
			d.Promotion = ev.Checked
			return nil
		}
	default:
		if ev.Name == "promotion" {
			v, err := strconv.ParseBool(ev.Value)
			if err != nil {
				v = ev.Value == "on"
			}
			d.Promotion = v
			return nil
		}
		if p := d.text(ev.Name); p != nil {
			*p = ev.Value
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownField, ev.Name)
}

func (d *Draft) setImage(slot int, f File, previews *Previews) error {
	if slot < 0 || slot >= len(d.Images) {
		return fmt.Errorf("%w: %d", ErrSlotOutOfRange, slot)
	}
	s := &d.Images[slot]
	if s.File != nil {
		previews.Release(s.PreviewURL)
	}
	s.Ref = ""
	s.File = &f
	s.PreviewURL = previews.Acquire(f)
	return nil
}

func (d *Draft) addSlot() error {
	if len(d.Images) >= MaxImages {
		return ErrTooManyImages
	}
	d.Images = append(d.Images, ImageSlot{})
	return nil
}

func (d *Draft) selectMain(slot int, checked bool) error {
	if slot < 0 || slot >= len(d.Images) {
		return fmt.Errorf("%w: %d", ErrSlotOutOfRange, slot)
	}
	if checked && !d.Images[slot].Filled() {
		return fmt.Errorf("%w: %d", ErrEmptySlot, slot)
	}
	for i := range d.Images {
		d.Images[i].IsMain = checked && i == slot
	}
	d.MainRefs = nil
	return nil
}

// discard releases the draft's previews and resets it to empty
func (d *Draft) discard(previews *Previews) {
	for _, s := range d.Images {
		if s.File != nil {
			previews.Release(s.PreviewURL)
		}
	}
	*d = Draft{}
}

// clone copies the draft so it can be rendered outside the screen lock
func (d *Draft) clone() Draft {
	out := *d
	out.Images = append([]ImageSlot(nil), d.Images...)
	out.MainRefs = append([]string(nil), d.MainRefs...)
	return out
}

// draftFromProduct copies p into a new draft for editing
func draftFromProduct(p model.Product, resolve func(string) string) Draft {
	d := Draft{
		Name:          p.Name,
		Description:   p.Description,
		Price:         formatNumber(p.Price),
		Category:      p.Category,
		Stock:         strconv.Itoa(p.Stock),
		Rating:        formatNumber(p.Rating),
		Volume:        p.Volume,
		DiscountPrice: formatNumber(p.DiscountPrice),
		Promotion:     p.Promotion,
		Ruler:         p.Ruler,
		OilsType:      p.OilsType,
		Feedback:      p.Feedback,
	}

	main := ""
	if len(p.Image.MainImages) > 0 {
		main = p.Image.MainImages[0]
		d.MainRefs = append([]string(nil), p.Image.MainImages...)
	}
	for _, ref := range p.Image.AllImages {
		d.Images = append(d.Images, ImageSlot{
			Ref:        ref,
			PreviewURL: resolve(ref),
			IsMain:     main != "" && ref == main,
		})
	}
	// only one slot may be main when the gallery repeats the main image
	seen := false
	for i := range d.Images {
		if d.Images[i].IsMain {
			d.Images[i].IsMain = !seen
			seen = true
		}
	}
	return d
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
