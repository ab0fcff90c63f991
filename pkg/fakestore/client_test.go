package fakestore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopsmart/shopsmart-backend/pkg/config"
	pkgerrors "github.com/shopsmart/shopsmart-backend/pkg/errors"
	"github.com/shopsmart/shopsmart-backend/pkg/logger"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(config.CatalogConfig{
		BaseURL:        server.URL,
		RequestTimeout: 2 * time.Second,
	}, logger.New(logger.Options{ServiceName: "test"}), nil)
	require.NoError(t, err)
	return client, server
}

func TestNewClientValidation(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test"})

	_, err := NewClient(config.CatalogConfig{BaseURL: "https://example.com"}, nil, nil)
	require.Error(t, err)

	_, err = NewClient(config.CatalogConfig{BaseURL: "  "}, logg, nil)
	require.Error(t, err)
}

func TestListProducts(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/products", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":1,"title":"Monitor","price":129.90,"category":"electronics","image":"i1","description":"d1","rating":{"rate":4.5,"count":12}},
			{"id":2,"title":"Keyboard","price":49,"category":"electronics","image":"i2","description":"d2"}
		]`))
	}))

	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, 1, products[0].ID)
	assert.True(t, products[0].Price.Equal(decimal.RequireFromString("129.90")),
		"expected exact decimal price, got %s", products[0].Price)
	require.NotNil(t, products[0].Rating)
	assert.Equal(t, 12, products[0].Rating.Count)
	assert.Nil(t, products[1].Rating)
}

func TestGetProduct(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/products/2", r.URL.Path)
		w.Write([]byte(`{"id":2,"title":"Keyboard","price":49.00,"category":"electronics"}`))
	}))

	product, err := client.GetProduct(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, product.ID)
	assert.Equal(t, "Keyboard", product.Title)
}

func TestGetProductEmptyBodyMapsToNotFound(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The upstream answers unknown ids with an empty 200.
		w.WriteHeader(http.StatusOK)
	}))

	_, err := client.GetProduct(context.Background(), 999)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestGetProductStatusNotFound(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.GetProduct(context.Background(), 1)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestServerErrorMapsToDependency(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := client.ListProducts(context.Background())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
}

func TestMalformedBodyMapsToDependency(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))

	_, err := client.ListProducts(context.Background())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
}

func TestUnreachableHostMapsToDependency(t *testing.T) {
	client, server := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := client.ListProducts(context.Background())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
}

func TestPing(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/products", r.URL.Path)
		require.Equal(t, "1", r.URL.Query().Get("limit"))
		w.Write([]byte(`[{"id":1,"title":"Monitor","price":129.90}]`))
	}))

	require.NoError(t, client.Ping(context.Background()))
}
