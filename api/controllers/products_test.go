package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/shopsmart/shopsmart-backend/internal/catalog"
	pkgerrors "github.com/shopsmart/shopsmart-backend/pkg/errors"
	"github.com/shopsmart/shopsmart-backend/pkg/logger"
	"github.com/shopsmart/shopsmart-backend/pkg/types"
)

type stubProvider struct {
	products []catalog.Product
	listErr  error
	getErr   error
}

func (s *stubProvider) ListProducts(_ context.Context) ([]catalog.Product, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.products, nil
}

func (s *stubProvider) GetProduct(_ context.Context, id int) (catalog.Product, error) {
	if s.getErr != nil {
		return catalog.Product{}, s.getErr
	}
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return catalog.Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func testProducts() []catalog.Product {
	return []catalog.Product{
		{ID: 1, Title: "Monitor", Category: "electronics", Price: decimal.RequireFromString("129.90"), Image: "i1"},
		{ID: 2, Title: "Keyboard", Category: "electronics", Price: decimal.RequireFromString("49.00"), Image: "i2"},
		{ID: 3, Title: "Mug", Category: "kitchen", Price: decimal.RequireFromString("9.99"), Image: "i3"},
	}
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test"})
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, rec.Body.String())
	}
	if err := json.Unmarshal(envelope.Data, dest); err != nil {
		t.Fatalf("decode data: %v (body %s)", err, rec.Body.String())
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) types.APIError {
	t.Helper()
	var envelope types.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error envelope: %v (body %s)", err, rec.Body.String())
	}
	return envelope.Error
}

func productsRouter(provider catalog.Provider) http.Handler {
	r := chi.NewRouter()
	r.Get("/products", ListProducts(provider, testLogger()))
	r.Get("/products/{productId}", GetProduct(provider, testLogger()))
	return r
}

type productListPayload struct {
	Products []catalog.Product `json:"products"`
	Count    int               `json:"count"`
	Cats     []string          `json:"categories"`
	Bounds   catalog.Bounds    `json:"price_bounds"`
	Criteria catalog.Criteria  `json:"criteria"`
}

func TestListProductsDefaults(t *testing.T) {
	router := productsRouter(&stubProvider{products: testProducts()})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload productListPayload
	decodeData(t, rec, &payload)

	if payload.Count != 3 || len(payload.Products) != 3 {
		t.Fatalf("expected full catalog, got %+v", payload)
	}
	if len(payload.Cats) != 3 || payload.Cats[0] != catalog.CategoryAll {
		t.Fatalf("expected wildcard-first categories, got %v", payload.Cats)
	}
	if !payload.Bounds.Min.Equal(decimal.NewFromInt(9)) || !payload.Bounds.Max.Equal(decimal.NewFromInt(130)) {
		t.Fatalf("expected floored/ceiled bounds, got %+v", payload.Bounds)
	}
}

func TestListProductsAppliesQuery(t *testing.T) {
	router := productsRouter(&stubProvider{products: testProducts()})

	rec := httptest.NewRecorder()
	target := "/products?category=electronics&sort=price-low-high"
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var payload productListPayload
	decodeData(t, rec, &payload)

	if payload.Count != 2 {
		t.Fatalf("expected 2 electronics products, got %d", payload.Count)
	}
	if payload.Products[0].ID != 2 || payload.Products[1].ID != 1 {
		t.Fatalf("expected price-ascending order, got %+v", payload.Products)
	}
	if payload.Criteria.Sort != catalog.SortPriceLowHigh {
		t.Fatalf("expected echoed criteria, got %+v", payload.Criteria)
	}
}

func TestListProductsPriceWindow(t *testing.T) {
	router := productsRouter(&stubProvider{products: testProducts()})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products?price_max=50", nil))

	var payload productListPayload
	decodeData(t, rec, &payload)

	if payload.Count != 2 {
		t.Fatalf("expected 2 products under 50, got %+v", payload)
	}
	if !payload.Criteria.PriceMin.Equal(payload.Bounds.Min) {
		t.Fatalf("expected missing min filled from bounds, got %+v", payload.Criteria)
	}
}

func TestListProductsBadPriceParam(t *testing.T) {
	router := productsRouter(&stubProvider{products: testProducts()})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products?price_min=cheap", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if apiErr := decodeError(t, rec); apiErr.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("expected validation code, got %+v", apiErr)
	}
}

func TestListProductsFetchFailure(t *testing.T) {
	router := productsRouter(&stubProvider{listErr: pkgerrors.New(pkgerrors.CodeDependency, "catalog down")})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestGetProduct(t *testing.T) {
	router := productsRouter(&stubProvider{products: testProducts()})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/2", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var product catalog.Product
	decodeData(t, rec, &product)
	if product.ID != 2 || product.Title != "Keyboard" {
		t.Fatalf("expected keyboard, got %+v", product)
	}
}

func TestGetProductInvalidID(t *testing.T) {
	router := productsRouter(&stubProvider{products: testProducts()})

	for _, raw := range []string{"abc", "0", "-3"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/"+raw, nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("id %q: expected 400, got %d", raw, rec.Code)
		}
	}
}

func TestGetProductNotFound(t *testing.T) {
	router := productsRouter(&stubProvider{products: testProducts()})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/404", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
