package screen

import (
	"bytes"
	"context"
	"io"
	"mime"
	"mime/multipart"
	"sync"
	"testing"

	"catalog-console/internal/model"
	"catalog-console/pkg/catalog"

	"go.uber.org/zap/zaptest"
)

const testHost = "https://catalog.test"

type call struct {
	Method string
	ID     string
	Form   catalog.Multipart
}

// fakeCatalog records calls and answers from its fields
type fakeCatalog struct {
	mu         sync.Mutex
	calls      []call
	products   []model.Product
	categories []model.Category
	listErr    error
	saveErr    error
	deleteErr  error
	saved      model.Product
	// block, when set, holds mutating calls until it is closed
	block chan struct{}
}

func (f *fakeCatalog) record(c call) {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()
}

func (f *fakeCatalog) Calls() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

func (f *fakeCatalog) wait() {
	if f.block != nil {
		<-f.block
	}
}

func (f *fakeCatalog) ListCategories(ctx context.Context) ([]model.Category, error) {
	f.record(call{Method: "ListCategories"})
	return f.categories, f.listErr
}

func (f *fakeCatalog) ListProducts(ctx context.Context) ([]model.Product, error) {
	f.record(call{Method: "ListProducts"})
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.products, nil
}

func (f *fakeCatalog) CreateProduct(ctx context.Context, form catalog.Multipart) (model.Product, error) {
	f.record(call{Method: "CreateProduct", Form: form})
	f.wait()
	return f.saved, f.saveErr
}

func (f *fakeCatalog) UpdateProduct(ctx context.Context, id string, form catalog.Multipart) (model.Product, error) {
	f.record(call{Method: "UpdateProduct", ID: id, Form: form})
	f.wait()
	return f.saved, f.saveErr
}

func (f *fakeCatalog) DeleteProduct(ctx context.Context, id string) error {
	f.record(call{Method: "DeleteProduct", ID: id})
	f.wait()
	return f.deleteErr
}

func (f *fakeCatalog) ResolveURL(ref string) string {
	return testHost + "/" + ref
}

func newTestScreen(t *testing.T, fc *fakeCatalog) (*Screen, *NoticeBoard, *Previews) {
	t.Helper()
	board := &NoticeBoard{}
	previews := NewPreviews("/previews")
	s := New(fc, previews, board, zaptest.NewLogger(t))
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return s, board, previews
}

// parts decodes a multipart body into field name -> part values
type part struct {
	FileName string
	Value    string
}

func decodeParts(t *testing.T, form catalog.Multipart) map[string][]part {
	t.Helper()
	_, params, err := mime.ParseMediaType(form.ContentType)
	if err != nil {
		t.Fatalf("content type: %v", err)
	}
	r := multipart.NewReader(bytes.NewReader(form.Body), params["boundary"])
	out := map[string][]part{}
	for {
		p, err := r.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("next part: %v", err)
		}
		data, err := io.ReadAll(p)
		if err != nil {
			t.Fatalf("read part: %v", err)
		}
		out[p.FormName()] = append(out[p.FormName()], part{FileName: p.FileName(), Value: string(data)})
	}
	return out
}

func pngFile(name string) File {
	data := []byte("\x89PNG\r\n\x1a\n" + name)
	return NewFile(name, data)
}

func pdfFile(name string) File {
	return NewFile(name, []byte("%PDF-1.4\n"+name))
}
