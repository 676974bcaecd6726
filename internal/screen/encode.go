package screen

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"

	"catalog-console/pkg/catalog"
)

// Multipart field names expected by the catalog service
const (
	FieldMainImages = "main_images"
	FieldAllImages  = "all_images"
	FieldPDF        = "product_info_pdf"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// EncodeDraft serializes d into the multipart body sent on create and update.
// Scalar fields become text parts; images already stored remotely are sent as
// their reference text, new files as file parts. Preview URLs are never sent.
func EncodeDraft(d *Draft) (catalog.Multipart, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, name := range ScalarFields {
		v, _ := d.Value(name)
		if err := w.WriteField(name, v); err != nil {
			return catalog.Multipart{}, fmt.Errorf("encode %s: %w", name, err)
		}
	}
	main := d.MainImages()
	for _, s := range main {
		if err := writeImage(w, FieldMainImages, s); err != nil {
			return catalog.Multipart{}, err
		}
	}
	if len(main) == 0 {
		for _, ref := range d.MainRefs {
			if err := w.WriteField(FieldMainImages, ref); err != nil {
				return catalog.Multipart{}, fmt.Errorf("encode %s: %w", FieldMainImages, err)
			}
		}
	}
	for _, s := range d.AllImages() {
		if err := writeImage(w, FieldAllImages, s); err != nil {
			return catalog.Multipart{}, err
		}
	}
	if d.PDF != nil {
		if err := writeFile(w, FieldPDF, *d.PDF); err != nil {
			return catalog.Multipart{}, err
		}
	}
	if err := w.Close(); err != nil {
		return catalog.Multipart{}, fmt.Errorf("encode draft: %w", err)
	}

	return catalog.Multipart{
		ContentType: w.FormDataContentType(),
		Body:        buf.Bytes(),
	}, nil
}

func writeImage(w *multipart.Writer, field string, s ImageSlot) error {
	if s.File != nil {
		return writeFile(w, field, *s.File)
	}
	if err := w.WriteField(field, s.Ref); err != nil {
		return fmt.Errorf("encode %s: %w", field, err)
	}
	return nil
}

func writeFile(w *multipart.Writer, field string, f File) error {
	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(f.Name)))
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("encode %s: %w", field, err)
	}
	if _, err := part.Write(f.Data); err != nil {
		return fmt.Errorf("encode %s: %w", field, err)
	}
	return nil
}
