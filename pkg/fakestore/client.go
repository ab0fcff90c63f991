package fakestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopsmart/shopsmart-backend/internal/catalog"
	"github.com/shopsmart/shopsmart-backend/pkg/config"
	pkgerrors "github.com/shopsmart/shopsmart-backend/pkg/errors"
	"github.com/shopsmart/shopsmart-backend/pkg/logger"
	"github.com/shopsmart/shopsmart-backend/pkg/metrics"
)

var (
	errBaseURLRequired = errors.New("catalog base url is required")
	errLoggerRequired  = errors.New("catalog logger is required")
)

// Client reads the public catalog API. It implements catalog.Provider
// with centralized error mapping, logging, and metrics.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	logger     *logger.Logger
	metrics    *metrics.CatalogClientMetrics
}

// NewClient validates the configuration and builds the catalog client.
// The metrics recorder may be nil.
func NewClient(cfg config.CatalogConfig, logg *logger.Logger, m *metrics.CatalogClientMetrics) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, errBaseURLRequired
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog base url: %w", err)
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    base,
		logger:     logg,
		metrics:    m,
	}, nil
}

// ListProducts fetches the full catalog.
func (c *Client) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := c.get(ctx, "list_products", "/products", &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct fetches one product by id. The upstream API answers
// unknown ids with an empty body rather than a 404; both map to
// not-found here.
func (c *Client) GetProduct(ctx context.Context, id int) (catalog.Product, error) {
	var product *catalog.Product
	if err := c.get(ctx, "get_product", "/products/"+strconv.Itoa(id), &product); err != nil {
		return catalog.Product{}, err
	}
	if product == nil || product.ID == 0 {
		return catalog.Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return *product, nil
}

// Ping verifies the catalog API is reachable; used by the readiness
// probe.
func (c *Client) Ping(ctx context.Context) error {
	var probe []catalog.Product
	return c.get(ctx, "ping", "/products?limit=1", &probe)
}

func (c *Client) get(ctx context.Context, operation, path string, dest any) error {
	start := time.Now()
	err := c.doGet(ctx, path, dest)
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	c.metrics.ObserveRequest(operation, outcome, time.Since(start))
	if err != nil {
		lctx := c.logger.WithFields(ctx, map[string]any{
			"operation": operation,
			"path":      path,
		})
		c.logger.Error(lctx, "catalog request failed", err)
	}
	return err
}

func (c *Client) doGet(ctx context.Context, path string, dest any) error {
	ref, err := url.Parse(path)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build catalog url")
	}
	target := c.baseURL.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build catalog request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog request")
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("catalog responded with status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read catalog response")
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		// The upstream API returns an empty 200 for unknown ids.
		return nil
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode catalog response")
	}
	return nil
}
