package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"catalog-console/internal/model"
	"catalog-console/pkg/logger"
	"catalog-console/prometheus"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// ErrMalformedResponse is wrapped by every error caused by an undecodable response body
var ErrMalformedResponse = errors.New("malformed response from catalog service")

// HTTPError is returned when the catalog service answers with a non-2xx status
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("API request failed: %s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Detail returns the operator-facing part of an error: the response text for
// HTTP errors, the error message otherwise.
func Detail(err error) string {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		if body := strings.TrimSpace(httpErr.Body); body != "" {
			return body
		}
		return fmt.Sprintf("%d %s", httpErr.StatusCode, http.StatusText(httpErr.StatusCode))
	}
	return err.Error()
}

// Multipart is an encoded multipart/form-data request body
type Multipart struct {
	ContentType string
	Body        []byte
}

// productEnvelope is the create/update response shape
type productEnvelope struct {
	Product *model.Product `json:"product"`
}

// Client talks to the remote product/category service
type Client struct {
	BaseURL string
	Logger  *zap.Logger
	http    *resty.Client
}

// NewClient creates a new catalog client instance
func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetLogger(log.Sugar())

	return &Client{
		BaseURL: baseURL,
		Logger:  log,
		http:    rc,
	}
}

// ResolveURL turns a server-relative file reference into an absolute URL
func (c *Client) ResolveURL(ref string) string {
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return c.BaseURL + "/" + strings.TrimLeft(ref, "/")
}

// ListCategories retrieves all product categories
func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	body, err := c.do(ctx, "list_categories", http.MethodGet, "/api/v1/categories", nil)
	if err != nil {
		return nil, err
	}

	var categories []model.Category
	if err := json.Unmarshal(body, &categories); err != nil {
		c.Logger.Error("Failed to parse categories response", zap.Error(err))
		return nil, fmt.Errorf("list_categories: %w: %v", ErrMalformedResponse, err)
	}
	return categories, nil
}

// ListProducts retrieves all products
func (c *Client) ListProducts(ctx context.Context) ([]model.Product, error) {
	body, err := c.do(ctx, "list_products", http.MethodGet, "/api/v1/products", nil)
	if err != nil {
		return nil, err
	}

	var products []model.Product
	if err := json.Unmarshal(body, &products); err != nil {
		c.Logger.Error("Failed to parse products response", zap.Error(err))
		return nil, fmt.Errorf("list_products: %w: %v", ErrMalformedResponse, err)
	}
	return products, nil
}

// CreateProduct submits a new product
func (c *Client) CreateProduct(ctx context.Context, form Multipart) (model.Product, error) {
	body, err := c.do(ctx, "create_product", http.MethodPost, "/api/v1/products/create", &form)
	if err != nil {
		return model.Product{}, err
	}
	return c.decodeProduct("create_product", body)
}

// UpdateProduct replaces the editable fields of an existing product
func (c *Client) UpdateProduct(ctx context.Context, id string, form Multipart) (model.Product, error) {
	body, err := c.do(ctx, "update_product", http.MethodPut, productPath(id), &form)
	if err != nil {
		return model.Product{}, err
	}
	return c.decodeProduct("update_product", body)
}

// DeleteProduct removes a product. The response body is ignored.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	_, err := c.do(ctx, "delete_product", http.MethodDelete, productPath(id), nil)
	return err
}

func productPath(id string) string {
	return "/api/v1/products/" + url.PathEscape(id)
}

func (c *Client) decodeProduct(op string, body []byte) (model.Product, error) {
	var env productEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		c.Logger.Error("Failed to parse product response", zap.String("operation", op), zap.Error(err))
		return model.Product{}, fmt.Errorf("%s: %w: %v", op, ErrMalformedResponse, err)
	}
	if env.Product == nil || env.Product.ID == "" {
		c.Logger.Error("Product response without product", zap.String("operation", op))
		return model.Product{}, fmt.Errorf("%s: %w: missing product", op, ErrMalformedResponse)
	}
	return *env.Product, nil
}

// do performs one request and returns the body of a 2xx response
func (c *Client) do(ctx context.Context, op, method, path string, form *Multipart) ([]byte, error) {
	log := c.Logger
	if l, ok := logger.Lookup(ctx); ok {
		log = l.Named("catalog")
	}
	log.Info("Calling catalog service",
		zap.String("operation", op),
		zap.String("method", method),
		zap.String("path", path))

	req := c.http.R().SetContext(ctx)
	if form != nil {
		req.SetHeader("Content-Type", form.ContentType).SetBody(form.Body)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	if err != nil {
		prometheus.RecordRemoteCall(op, 0, time.Since(start))
		log.Error("Catalog request failed",
			zap.String("operation", op),
			zap.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	prometheus.RecordRemoteCall(op, resp.StatusCode(), resp.Time())

	if !resp.IsSuccess() {
		log.Error("Catalog request returned error status",
			zap.String("operation", op),
			zap.Int("status", resp.StatusCode()),
			zap.String("response", resp.String()))
		return nil, &HTTPError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode(),
			Body:       resp.String(),
		}
	}

	log.Info("Catalog call successful",
		zap.String("operation", op),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("latency", resp.Time()))
	return resp.Body(), nil
}
