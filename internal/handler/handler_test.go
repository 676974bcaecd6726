package handler

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"catalog-console/internal/model"
	"catalog-console/internal/screen"
	"catalog-console/internal/view"
	"catalog-console/pkg/catalog"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap/zaptest"
)

type stubCatalog struct {
	mu       sync.Mutex
	products []model.Product
	listErr  error
	created  []catalog.Multipart
	deleted  []string
}

func (s *stubCatalog) ListCategories(ctx context.Context) ([]model.Category, error) {
	return []model.Category{{ID: "c1", Name: "Oils"}}, s.listErr
}

func (s *stubCatalog) ListProducts(ctx context.Context) ([]model.Product, error) {
	return s.products, s.listErr
}

func (s *stubCatalog) CreateProduct(ctx context.Context, form catalog.Multipart) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, form)
	return model.Product{ID: "new", Name: "Rose oil", Price: 10}, nil
}

func (s *stubCatalog) UpdateProduct(ctx context.Context, id string, form catalog.Multipart) (model.Product, error) {
	return model.Product{ID: id}, nil
}

func (s *stubCatalog) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubCatalog) ResolveURL(ref string) string {
	if ref == "" {
		return ""
	}
	return "https://catalog.test/" + ref
}

type fixture struct {
	e       *echo.Echo
	h       *Handler
	catalog *stubCatalog
}

func newFixture(t *testing.T, sc *stubCatalog) *fixture {
	t.Helper()
	board := &screen.NoticeBoard{}
	previews := screen.NewPreviews("/previews")
	s := screen.New(sc, previews, board, zaptest.NewLogger(t))
	_ = s.Load(context.Background())

	r, err := view.NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	e := echo.New()
	e.Renderer = r
	h := New(s, board, previews, sc, "/previews", 1<<20)
	h.Register(e)
	return &fixture{e: e, h: h, catalog: sc}
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) post(path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return f.do(req)
}

func (f *fixture) page(t *testing.T) string {
	t.Helper()
	rec := f.do(httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET / = %d", rec.Code)
	}
	return rec.Body.String()
}

type upload struct {
	field, name string
	data        []byte
}

func multipartRequest(t *testing.T, path string, fields map[string]string, files ...upload) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	for _, u := range files {
		fw, err := w.CreateFormFile(u.field, u.name)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(u.data)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

var (
	pngData = []byte("\x89PNG\r\n\x1a\nimage")
	pdfData = []byte("%PDF-1.4\ninfo")
)

func TestIndexRendersProducts(t *testing.T) {
	f := newFixture(t, &stubCatalog{products: []model.Product{{ID: "p1", Name: "Rose oil", Price: 10}}})

	body := f.page(t)
	if !strings.Contains(body, "Rose oil") || !strings.Contains(body, "$10") {
		t.Fatalf("page does not list the product:\n%s", body)
	}
}

func TestIndexShowsLoadFailure(t *testing.T) {
	f := newFixture(t, &stubCatalog{listErr: errors.New("connection refused")})

	body := f.page(t)
	if !strings.Contains(body, "Failed to load the catalog") {
		t.Fatalf("load failure not shown:\n%s", body)
	}
	if strings.Contains(f.page(t), "Failed to load the catalog") {
		t.Error("notice shown twice")
	}
}

func TestEditOpensForm(t *testing.T) {
	f := newFixture(t, &stubCatalog{products: []model.Product{{ID: "p1", Name: "Rose oil", Price: 10}}})

	rec := f.post("/products/p1/edit", nil)
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/" {
		t.Fatalf("edit = %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
	body := f.page(t)
	if !strings.Contains(body, "Edit Product") || !strings.Contains(body, `value="Rose oil"`) {
		t.Fatalf("edit form not rendered:\n%s", body)
	}

	f.post("/products/missing/edit", nil)
	if !strings.Contains(f.page(t), "Product not found.") {
		t.Error("unknown product not reported")
	}
}

func TestCreateFlow(t *testing.T) {
	sc := &stubCatalog{}
	f := newFixture(t, sc)

	f.post("/products/new", nil)
	f.post("/dialogs/images/open", nil)
	f.post("/images/add", nil)
	rec := f.do(multipartRequest(t, "/images/0", nil, upload{"images", "rose.png", pngData}))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("upload = %d", rec.Code)
	}
	f.post("/images/0/main", url.Values{"checked": {"true"}})

	previewURL := f.h.screen.Snapshot().Draft.Images[0].PreviewURL
	rec = f.do(httptest.NewRequest(http.MethodGet, previewURL, nil))
	if rec.Code != http.StatusOK || rec.Header().Get(echo.HeaderContentType) != "image/png" {
		t.Fatalf("preview = %d %q", rec.Code, rec.Header().Get(echo.HeaderContentType))
	}

	fields := map[string]string{
		"name":        "Rose oil",
		"description": "Cold pressed",
		"price":       "10",
		"stock":       "3",
		"rating":      "4",
		"volume":      "50ml",
		"ruler":       "classic",
		"promotion":   "on",
	}
	rec = f.do(multipartRequest(t, "/form/submit", fields, upload{"pdf", "info.pdf", pdfData}))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("submit = %d", rec.Code)
	}

	if len(sc.created) != 1 {
		t.Fatalf("create requests = %d, want 1", len(sc.created))
	}
	v := f.h.screen.Snapshot()
	if v.FormOpen || len(v.Products) != 1 || v.Products[0].ID != "new" {
		t.Fatalf("state after create = %+v", v)
	}

	rec = f.do(httptest.NewRequest(http.MethodGet, previewURL, nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("preview still served after submit: %d", rec.Code)
	}
}

func TestSubmitInvalidFormKeepsDialog(t *testing.T) {
	sc := &stubCatalog{}
	f := newFixture(t, sc)
	f.post("/products/new", nil)

	f.do(multipartRequest(t, "/form/submit", map[string]string{"name": "Rose oil", "rating": "9"}))

	if len(sc.created) != 0 {
		t.Fatal("invalid draft was sent")
	}
	body := f.page(t)
	if !strings.Contains(body, `id="product-form"`) || !strings.Contains(body, "Error saving product") {
		t.Fatalf("form or notice missing:\n%s", body)
	}
}

func TestImageLimitWarning(t *testing.T) {
	f := newFixture(t, &stubCatalog{})
	f.post("/products/new", nil)
	for i := 0; i < screen.MaxImages+1; i++ {
		f.post("/images/add", nil)
	}

	if n := len(f.h.screen.Snapshot().Draft.Images); n != screen.MaxImages {
		t.Fatalf("slots = %d", n)
	}
	if !strings.Contains(f.page(t), "Cannot upload more than 6 images.") {
		t.Error("limit warning not shown")
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	sc := &stubCatalog{products: []model.Product{{ID: "p1", Name: "Rose oil"}, {ID: "p2", Name: "Argan oil"}}}
	f := newFixture(t, sc)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/products/p1/delete", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), screen.DeletePrompt) {
		t.Fatalf("confirm page = %d", rec.Code)
	}

	f.post("/products/p1/delete", nil)
	if len(sc.deleted) != 0 {
		t.Fatal("deleted without confirmation")
	}

	f.post("/products/p1/delete", url.Values{"confirm": {"yes"}})
	if len(sc.deleted) != 1 || sc.deleted[0] != "p1" {
		t.Fatalf("deleted = %v", sc.deleted)
	}
	if v := f.h.screen.Snapshot(); len(v.Products) != 1 || v.Products[0].ID != "p2" {
		t.Fatalf("products = %+v", v.Products)
	}
}

func TestViewerAndDialogs(t *testing.T) {
	f := newFixture(t, &stubCatalog{})

	f.post("/viewer/open", url.Values{"url": {"https://catalog.test/a.png"}})
	if v := f.h.screen.Snapshot(); !v.ImageViewerOpen || v.SelectedImage != "https://catalog.test/a.png" {
		t.Fatalf("viewer = %v %q", v.ImageViewerOpen, v.SelectedImage)
	}
	f.post("/dialogs/viewer/close", nil)
	if f.h.screen.Snapshot().ImageViewerOpen {
		t.Error("viewer still open")
	}

	if rec := f.post("/dialogs/bogus/close", nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown dialog = %d", rec.Code)
	}
	if rec := f.post("/viewer/open", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("viewer without url = %d", rec.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	sc := &stubCatalog{}
	f := newFixture(t, sc)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("health = %d %s", rec.Code, rec.Body.String())
	}

	sc.listErr = errors.New("connection refused")
	rec = f.do(httptest.NewRequest(http.MethodGet, "/health?check=catalog", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("catalog health = %d", rec.Code)
	}
}

func TestDraftKeptWhenOpeningImages(t *testing.T) {
	f := newFixture(t, &stubCatalog{})
	f.post("/products/new", nil)

	fields := map[string]string{"name": "Rose oil", "price": "12", "promotion": "on"}
	rec := f.do(multipartRequest(t, "/form/draft", fields, upload{"pdf", "info.pdf", pdfData}))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("draft = %d", rec.Code)
	}
	if !f.h.screen.Snapshot().ImageUploadOpen {
		t.Fatal("image dialog not opened")
	}

	f.post("/images/add", nil)
	f.do(multipartRequest(t, "/images/0", nil, upload{"images", "rose.png", pngData}))

	v := f.h.screen.Snapshot()
	if v.Draft.Name != "Rose oil" || v.Draft.Price != "12" || !v.Draft.Promotion || v.Draft.PDF == nil {
		t.Fatalf("draft lost typed input: %+v", v.Draft)
	}
	if len(v.Draft.Images) != 1 || v.Draft.Images[0].File == nil {
		t.Fatalf("images = %+v", v.Draft.Images)
	}
	if body := f.page(t); !strings.Contains(body, `value="Rose oil"`) {
		t.Error("typed name not rendered back into the form")
	}
}
