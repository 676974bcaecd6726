package screen

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gosimple/slug"
)

// File is an upload held in memory until the draft is submitted
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// NewFile builds a File from an uploaded name and its content. The content type
// is sniffed from the data and the name is normalised so it is safe to place in
// a multipart header.
func NewFile(name string, data []byte) File {
	mt := mimetype.Detect(data)

	base := filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	ext := filepath.Ext(base)
	stem := slug.Make(strings.TrimSuffix(base, ext))
	if stem == "" {
		stem = "file"
	}

	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext = slug.Make(ext); ext != "" {
		ext = "." + ext
	} else {
		ext = mt.Extension()
	}

	return File{
		Name:        stem + ext,
		ContentType: mt.String(),
		Data:        data,
	}
}
