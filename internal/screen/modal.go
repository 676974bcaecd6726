package screen

import "fmt"

// DialogKind names one of the screen's dialog surfaces
type DialogKind string

const (
	DialogForm        DialogKind = "form"
	DialogImageUpload DialogKind = "images"
	DialogImageViewer DialogKind = "viewer"
)

// ParseDialogKind validates a dialog name taken from a request
func ParseDialogKind(s string) (DialogKind, error) {
	switch k := DialogKind(s); k {
	case DialogForm, DialogImageUpload, DialogImageViewer:
		return k, nil
	}
	return "", fmt.Errorf("unknown dialog %q", s)
}

// Dialog is the visibility state of one dialog surface
type Dialog struct {
	open bool
}

func (d *Dialog) Open()        { d.open = true }
func (d *Dialog) Close()       { d.open = false }
func (d *Dialog) IsOpen() bool { return d.open }

// Modals holds the three independent dialog surfaces
type Modals struct {
	Form        Dialog
	ImageUpload Dialog
	ImageViewer Dialog
}

func (m *Modals) dialog(kind DialogKind) *Dialog {
	switch kind {
	case DialogForm:
		return &m.Form
	case DialogImageUpload:
		return &m.ImageUpload
	case DialogImageViewer:
		return &m.ImageViewer
	}
	return nil
}
