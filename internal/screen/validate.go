package screen

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError maps form field names to messages
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return strings.Join(parts, "; ")
}

// draftInput mirrors the constraints the product form declares on its inputs
type draftInput struct {
	Name          string `form:"name" validate:"required"`
	Description   string `form:"description" validate:"required"`
	Price         string `form:"price" validate:"required,numeric,nummin=0"`
	Stock         string `form:"stock" validate:"required,number"`
	Rating        string `form:"rating" validate:"required,numeric,nummin=0,nummax=5"`
	Volume        string `form:"volume" validate:"required"`
	Ruler         string `form:"ruler" validate:"required"`
	DiscountPrice string `form:"discount_price" validate:"omitempty,numeric,nummin=0"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return strings.ToLower(f.Name)
		}
		return name
	})
	mustRegister(v, "nummin", func(value, bound float64) bool { return value >= bound })
	mustRegister(v, "nummax", func(value, bound float64) bool { return value <= bound })
	return v
}

func mustRegister(v *validator.Validate, tag string, cmp func(value, bound float64) bool) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		value, err := strconv.ParseFloat(fl.Field().String(), 64)
		if err != nil {
			return false
		}
		bound, err := strconv.ParseFloat(fl.Param(), 64)
		if err != nil {
			return false
		}
		return cmp(value, bound)
	})
	if err != nil {
		panic(err)
	}
}

// validateDraft checks d before submission. Creating a product additionally
// requires a PDF and at least one image; edits may omit both.
func validateDraft(d *Draft, create bool) error {
	in := draftInput{
		Name:          d.Name,
		Description:   d.Description,
		Price:         d.Price,
		Stock:         d.Stock,
		Rating:        d.Rating,
		Volume:        d.Volume,
		Ruler:         d.Ruler,
		DiscountPrice: d.DiscountPrice,
	}

	fields := map[string]string{}
	if err := validate.Struct(in); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return err
		}
		for _, fe := range ve {
			if _, seen := fields[fe.Field()]; !seen {
				fields[fe.Field()] = messageForTag(fe.Tag(), fe.Param())
			}
		}
	}
	if create {
		if d.PDF == nil {
			fields[FieldPDF] = "a PDF is required"
		}
		if len(d.AllImages()) == 0 {
			fields[FieldAllImages] = "at least one image is required"
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func messageForTag(tag, param string) string {
	switch tag {
	case "required":
		return "is required"
	case "numeric":
		return "must be a number"
	case "number":
		return "must be a whole number of 0 or more"
	case "nummin":
		return fmt.Sprintf("must be at least %s", param)
	case "nummax":
		return fmt.Sprintf("must be at most %s", param)
	default:
		return "is invalid"
	}
}
