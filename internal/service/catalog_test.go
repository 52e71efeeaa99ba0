package service_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/agentic-grocery/backend/internal/service"
)

// fakeCatalogServer mimics the retail provider's token and product search
// endpoints and counts calls to each.
type fakeCatalogServer struct {
	*httptest.Server
	tokenCalls  int64
	searchCalls int64

	expiresIn   int
	tokenStatus int
	products    []map[string]interface{}
}

func newFakeCatalogServer() *fakeCatalogServer {
	f := &fakeCatalogServer{
		expiresIn:   1800,
		tokenStatus: http.StatusOK,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/connect/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&f.tokenCalls, 1)
		if f.tokenStatus != http.StatusOK {
			w.WriteHeader(f.tokenStatus)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "test-token",
			"expires_in":   f.expiresIn,
		})
	})
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&f.searchCalls, 1)
		json.NewEncoder(w).Encode(map[string]interface{}{"data": f.products})
	})

	f.Server = httptest.NewServer(mux)
	return f
}

func (f *fakeCatalogServer) withProduct(id, description, brand string, price float64) {
	f.products = []map[string]interface{}{
		{
			"productId":   id,
			"description": description,
			"brand":       brand,
			"items": []map[string]interface{}{
				{"price": map[string]float64{"regular": price}},
			},
		},
	}
}

func TestCatalogTokenNotConfigured(t *testing.T) {
	client := service.NewCatalogClient("", "", "https://example.invalid/v1")

	_, err := client.Token(context.Background())
	assert.ErrorIs(t, err, service.ErrNotConfigured)
}

func TestCatalogTokenReusedWhileFresh(t *testing.T) {
	srv := newFakeCatalogServer()
	defer srv.Close()
	srv.expiresIn = 1800

	client := service.NewCatalogClient("id", "secret", srv.URL)

	first, err := client.Token(context.Background())
	require.NoError(t, err)
	second, err := client.Token(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, atomic.LoadInt64(&srv.tokenCalls))
}

func TestCatalogTokenRefreshedNearExpiry(t *testing.T) {
	srv := newFakeCatalogServer()
	defer srv.Close()
	// 30s lifetime is inside the 60s safety buffer, so every call refreshes.
	srv.expiresIn = 30

	client := service.NewCatalogClient("id", "secret", srv.URL)

	_, err := client.Token(context.Background())
	require.NoError(t, err)
	_, err = client.Token(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 2, atomic.LoadInt64(&srv.tokenCalls))
}

func TestCatalogTokenRefreshFailureSurfaces(t *testing.T) {
	srv := newFakeCatalogServer()
	defer srv.Close()
	srv.tokenStatus = http.StatusUnauthorized

	client := service.NewCatalogClient("id", "secret", srv.URL)

	_, err := client.Token(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, service.ErrNotConfigured)
}

func TestCatalogSearchReturnsFirstProduct(t *testing.T) {
	srv := newFakeCatalogServer()
	defer srv.Close()
	srv.withProduct("0001111041700", "Kroger Traditional Paneer", "Kroger", 4.49)

	client := service.NewCatalogClient("id", "secret", srv.URL)

	product, err := client.Search(context.Background(), "paneer")
	require.NoError(t, err)
	assert.Equal(t, "0001111041700", product.ProductID)
	assert.Equal(t, "Kroger Traditional Paneer", product.Description)
	assert.Equal(t, "Kroger", product.Brand)
	assert.Equal(t, 4.49, product.Price)
}

func TestCatalogSearchNoMatch(t *testing.T) {
	srv := newFakeCatalogServer()
	defer srv.Close()
	srv.products = nil

	client := service.NewCatalogClient("id", "secret", srv.URL)

	_, err := client.Search(context.Background(), "quinoa")
	assert.ErrorIs(t, err, service.ErrNoMatch)
}

func TestCatalogSequentialSearchesShareToken(t *testing.T) {
	srv := newFakeCatalogServer()
	defer srv.Close()
	srv.expiresIn = 1800
	srv.withProduct("123", "Organic Quinoa", "Simple Truth", 3.29)

	client := service.NewCatalogClient("id", "secret", srv.URL)

	_, err := client.Search(context.Background(), "quinoa")
	require.NoError(t, err)
	_, err = client.Search(context.Background(), "quinoa")
	require.NoError(t, err)

	assert.EqualValues(t, 1, atomic.LoadInt64(&srv.tokenCalls))
	assert.EqualValues(t, 2, atomic.LoadInt64(&srv.searchCalls))
}
