package screen

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"catalog-console/internal/model"
	"catalog-console/pkg/catalog"
	"catalog-console/prometheus"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DeletePrompt is the confirmation question asked before a product is deleted
const DeletePrompt = "Are you sure you want to delete this product?"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInFlight        = errors.New("request already in progress")
	ErrNoEditTarget    = errors.New("edit mode without a product id")
)

const submitKey = "submit"

// Catalog is the remote product/category service used by the screen
type Catalog interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	CreateProduct(ctx context.Context, form catalog.Multipart) (model.Product, error)
	UpdateProduct(ctx context.Context, id string, form catalog.Multipart) (model.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ResolveURL(ref string) string
}

// Screen is the state of the product management screen: the fetched lists,
// the form draft and the dialogs. It is safe for concurrent use.
type Screen struct {
	catalog  Catalog
	previews *Previews
	notifier Notifier
	log      *zap.Logger

	mu            sync.Mutex
	products      []model.Product
	categories    []model.Category
	loading       bool
	draft         Draft
	modals        Modals
	editMode      bool
	editProductID string
	selectedImage string
	inflight      map[string]struct{}
	// session changes whenever the form is opened or closed
	session uint64
}

// View is a point-in-time copy of the screen for rendering
type View struct {
	Loading         bool
	Products        []model.Product
	Rows            []Row
	Categories      []model.Category
	Draft           Draft
	FormOpen        bool
	ImageUploadOpen bool
	ImageViewerOpen bool
	EditMode        bool
	EditProductID   string
	SelectedImage   string
	CanAddImage     bool
	Submitting      bool
}

// New creates a screen in the loading state
func New(c Catalog, previews *Previews, notifier Notifier, log *zap.Logger) *Screen {
	return &Screen{
		catalog:  c,
		previews: previews,
		notifier: notifier,
		log:      log,
		loading:  true,
		inflight: make(map[string]struct{}),
	}
}

// Load fetches categories and products concurrently. Each list is replaced
// only when its own fetch succeeds.
func (s *Screen) Load(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	var categoriesErr, productsErr error
	var g errgroup.Group
	g.Go(func() error {
		categories, err := s.catalog.ListCategories(ctx)
		if err != nil {
			s.log.Error("Error fetching categories", zap.Error(err))
			categoriesErr = fmt.Errorf("fetch categories: %w", err)
			return nil
		}
		s.mu.Lock()
		s.categories = categories
		s.mu.Unlock()
		return nil
	})
	g.Go(func() error {
		products, err := s.catalog.ListProducts(ctx)
		if err != nil {
			s.log.Error("Error fetching products", zap.Error(err))
			productsErr = fmt.Errorf("fetch products: %w", err)
			return nil
		}
		s.mu.Lock()
		s.products = products
		s.mu.Unlock()
		return nil
	})
	_ = g.Wait()

	s.mu.Lock()
	s.loading = false
	nProducts, nCategories := len(s.products), len(s.categories)
	s.mu.Unlock()

	if err := multierr.Combine(categoriesErr, productsErr); err != nil {
		s.notify(SeverityError, "Failed to load the catalog: "+catalog.Detail(err))
		return err
	}
	s.log.Info("Catalog loaded",
		zap.Int("products", nProducts),
		zap.Int("categories", nCategories))
	return nil
}

// Snapshot copies the current state for rendering
func (s *Screen) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, submitting := s.inflight[submitKey]
	return View{
		Loading:         s.loading,
		Products:        append([]model.Product(nil), s.products...),
		Rows:            Rows(s.products, s.catalog.ResolveURL),
		Categories:      append([]model.Category(nil), s.categories...),
		Draft:           s.draft.clone(),
		FormOpen:        s.modals.Form.IsOpen(),
		ImageUploadOpen: s.modals.ImageUpload.IsOpen(),
		ImageViewerOpen: s.modals.ImageViewer.IsOpen(),
		EditMode:        s.editMode,
		EditProductID:   s.editProductID,
		SelectedImage:   s.selectedImage,
		CanAddImage:     len(s.draft.Images) < MaxImages,
		Submitting:      submitting,
	}
}

// Change applies one form control edit to the draft
func (s *Screen) Change(ev Change) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.apply(ev, s.previews)
}

// AddImageSlot adds an empty image slot to the draft. At MaxImages slots the
// operator is warned and nothing changes.
func (s *Screen) AddImageSlot() error {
	s.mu.Lock()
	err := s.draft.addSlot()
	s.mu.Unlock()

	if errors.Is(err, ErrTooManyImages) {
		s.notify(SeverityWarning, "Cannot upload more than 6 images.")
	}
	return err
}

// SelectMainImage flags slot as the only main image, or clears the main image
// when checked is false.
func (s *Screen) SelectMainImage(slot int, checked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.selectMain(slot, checked)
}

// OpenCreate opens the product form with an empty draft
func (s *Screen) OpenCreate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.draft.discard(s.previews)
	s.editMode = false
	s.editProductID = ""
	s.session++
	s.modals.Form.Open()
}

// OpenEdit opens the product form with a draft copied from the product with id
func (s *Screen) OpenEdit(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.findLocked(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	s.draft.discard(s.previews)
	s.draft = draftFromProduct(p, s.catalog.ResolveURL)
	s.editMode = true
	s.editProductID = id
	s.session++
	s.modals.Form.Open()
	return nil
}

// OpenImageUpload opens the image upload dialog
func (s *Screen) OpenImageUpload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modals.ImageUpload.Open()
}

// OpenImageViewer shows url enlarged
func (s *Screen) OpenImageViewer(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedImage = url
	s.modals.ImageViewer.Open()
}

// Close closes a dialog. Closing the form discards the draft and returns the
// screen to create mode; closing the viewer clears the selected image.
func (s *Screen) Close(kind DialogKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked(kind)
}

func (s *Screen) closeLocked(kind DialogKind) {
	d := s.modals.dialog(kind)
	if d == nil {
		return
	}
	d.Close()

	switch kind {
	case DialogForm:
		s.session++
		s.draft.discard(s.previews)
		s.selectedImage = ""
		s.editMode = false
		s.editProductID = ""
	case DialogImageViewer:
		s.selectedImage = ""
		// an edit in progress keeps its target
		if !s.modals.Form.IsOpen() {
			s.editMode = false
			s.editProductID = ""
		}
	}
}

// Submit validates the draft and creates or updates the product. On success
// the product list is patched from the response and the form is closed; on
// failure the operator is notified and nothing changes.
func (s *Screen) Submit(ctx context.Context) error {
	s.mu.Lock()
	if !s.beginLocked(submitKey) {
		s.mu.Unlock()
		return ErrInFlight
	}
	editMode, id, session := s.editMode, s.editProductID, s.session
	if editMode && id == "" {
		s.endLocked(submitKey)
		s.mu.Unlock()
		return ErrNoEditTarget
	}
	if err := validateDraft(&s.draft, !editMode); err != nil {
		s.endLocked(submitKey)
		s.mu.Unlock()
		s.notify(SeverityError, "Error saving product: "+err.Error())
		return err
	}
	form, err := EncodeDraft(&s.draft)
	s.mu.Unlock()
	defer s.end(submitKey)
	if err != nil {
		s.notify(SeverityError, "Error saving product: "+err.Error())
		return err
	}

	op := "create"
	var saved model.Product
	if editMode {
		op = "update"
		saved, err = s.catalog.UpdateProduct(ctx, id, form)
	} else {
		saved, err = s.catalog.CreateProduct(ctx, form)
	}
	if err != nil {
		prometheus.RecordProductOperation(op, "failure")
		s.log.Error("Error saving product",
			zap.String("operation", op),
			zap.String("product_id", id),
			zap.Error(err))
		s.notify(SeverityError, "Error saving product: "+catalog.Detail(err))
		return fmt.Errorf("%s product: %w", op, err)
	}

	s.mu.Lock()
	if editMode {
		for i := range s.products {
			if s.products[i].ID == id {
				s.products[i] = saved
			}
		}
	} else {
		s.products = append(s.products, saved)
	}
	// leave a form that was reopened while the request was outstanding
	if s.session == session {
		s.closeLocked(DialogForm)
	}
	s.mu.Unlock()

	prometheus.RecordProductOperation(op, "success")
	s.log.Info("Product saved",
		zap.String("operation", op),
		zap.String("product_id", saved.ID),
		zap.String("name", saved.Name))
	return nil
}

// Delete removes the product with id after the operator confirms. Without
// confirmation no request is made.
func (s *Screen) Delete(ctx context.Context, id string, confirm Confirmer) error {
	if confirm == nil || !confirm.Confirm(DeletePrompt) {
		s.log.Debug("Delete not confirmed", zap.String("product_id", id))
		return nil
	}

	key := "delete:" + id
	s.mu.Lock()
	ok := s.beginLocked(key)
	s.mu.Unlock()
	if !ok {
		return ErrInFlight
	}
	defer s.end(key)

	if err := s.catalog.DeleteProduct(ctx, id); err != nil {
		prometheus.RecordProductOperation("delete", "failure")
		s.log.Error("Error deleting product",
			zap.String("product_id", id),
			zap.Error(err))
		s.notify(SeverityError, "Failed to delete product.")
		return fmt.Errorf("delete product %s: %w", id, err)
	}

	s.mu.Lock()
	kept := s.products[:0:0]
	for _, p := range s.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.products = kept
	s.mu.Unlock()

	prometheus.RecordProductOperation("delete", "success")
	s.log.Info("Product deleted", zap.String("product_id", id))
	return nil
}

// Product returns the loaded product with id
func (s *Screen) Product(id string) (model.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findLocked(id)
}

// Deleting reports whether a delete request for id is outstanding
func (s *Screen) Deleting(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.inflight["delete:"+id]
	return ok
}

func (s *Screen) findLocked(id string) (model.Product, bool) {
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return model.Product{}, false
}

func (s *Screen) beginLocked(key string) bool {
	if _, busy := s.inflight[key]; busy {
		return false
	}
	s.inflight[key] = struct{}{}
	return true
}

func (s *Screen) endLocked(key string) {
	delete(s.inflight, key)
}

func (s *Screen) end(key string) {
	s.mu.Lock()
	s.endLocked(key)
	s.mu.Unlock()
}

func (s *Screen) notify(severity Severity, msg string) {
	if s.notifier != nil {
		s.notifier.Notify(Notice{Severity: severity, Message: msg})
	}
}
