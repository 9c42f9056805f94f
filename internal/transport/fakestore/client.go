// Package fakestore reads the product catalog from a FakeStore-compatible HTTP API.
package fakestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/catalogsearch/internal/domain"
	"github.com/kailas-cloud/catalogsearch/internal/domain/product"
	"github.com/kailas-cloud/catalogsearch/internal/metrics"
	"github.com/kailas-cloud/catalogsearch/internal/version"
)

// DefaultBaseURL is the public FakeStore API.
const DefaultBaseURL = "https://fakestoreapi.com"

const maxBodyBytes = 8 << 20

// Config holds the catalog source settings.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client fetches products and categories.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a catalog client.
func New(cfg Config) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{baseURL: base, http: hc}
}

// Products returns the full catalog.
func (c *Client) Products(ctx context.Context) ([]product.Product, error) {
	var dtos []productDTO
	if err := c.get(ctx, "products", "/products", &dtos); err != nil {
		return nil, err
	}
	items := make([]product.Product, 0, len(dtos))
	for i := range dtos {
		items = append(items, dtos[i].toDomain())
	}
	return items, nil
}

// Product returns one product. The upstream answers an unknown id with an
// empty body, which maps to domain.ErrNotFound.
func (c *Client) Product(ctx context.Context, id string) (product.Product, error) {
	var dto *productDTO
	if err := c.get(ctx, "product", "/products/"+url.PathEscape(id), &dto); err != nil {
		return product.Product{}, err
	}
	if dto == nil || dto.ID == "" {
		return product.Product{}, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}
	return dto.toDomain(), nil
}

// Categories returns the distinct category labels.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var cats []string
	if err := c.get(ctx, "categories", "/products/categories", &cats); err != nil {
		return nil, err
	}
	if cats == nil {
		cats = []string{}
	}
	return cats, nil
}

// get decodes the JSON body of baseURL+path into out. An empty body leaves
// out untouched.
func (c *Client) get(ctx context.Context, op, path string, out any) (err error) {
	start := time.Now()
	status := "error"
	defer func() {
		metrics.CatalogRequestsTotal.WithLabelValues(op, status).Inc()
		metrics.CatalogRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	status = strconv.Itoa(resp.StatusCode)
	if resp.StatusCode == http.StatusNotFound && op == "product" {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.NewUpstreamError(op, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read %s: %w: %w", op, domain.ErrCatalogUnavailable, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w: %w", op, domain.ErrCatalogUnavailable, err)
	}
	return nil
}
