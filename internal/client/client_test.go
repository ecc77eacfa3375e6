package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/checkout-demo/internal/catalog"
	"github.com/noah-isme/checkout-demo/internal/checkout"
	"github.com/noah-isme/checkout-demo/internal/client"
	"github.com/noah-isme/checkout-demo/internal/common"
)

func TestProducts(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/products", r.URL.Path)
		common.JSON(w, http.StatusOK, []catalog.Product{
			{ID: "product_1", Name: "Premium Coffee Beans", Price: 1500},
		})
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	products, err := c.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Equal(t, int64(1500), products[0].Price)
}

func TestFetchConfig(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/config", r.URL.Path)
		common.JSON(w, http.StatusOK, map[string]string{"publishableKey": "pk_test_abc", "currency": "usd"})
	}))
	defer srv.Close()

	cfg, err := client.New(srv.URL).Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, "pk_test_abc", cfg.PublishableKey)
	require.Equal(t, "usd", cfg.Currency)
}

func TestCreateCheckoutSession(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/create-checkout-session", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		common.JSON(w, http.StatusOK, checkout.Output{ID: "cs_test_123"})
	}))
	defer srv.Close()

	out, err := client.New(srv.URL).CreateCheckoutSession(context.Background(), []checkout.LineItem{
		{Name: "Premium Coffee Beans", Price: 1500, Quantity: 2},
	})
	require.NoError(t, err)
	require.Equal(t, "cs_test_123", out.ID)
}

func TestServerErrorSurfacesEnvelope(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		common.JSONError(w, http.StatusBadRequest, "INVALID_REQUEST", "items must be a non-empty array", nil)
	}))
	defer srv.Close()

	_, err := client.New(srv.URL).CreateCheckoutSession(context.Background(), nil)

	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "INVALID_REQUEST", appErr.Code)
	require.Equal(t, "items must be a non-empty array", appErr.Message)
	require.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
}

func TestUnreachableBackendIsNetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := client.New(srv.URL)
	c.HTTP.MaxAttempts = 1

	_, err := c.Products(context.Background())
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "NETWORK_ERROR", appErr.Code)
}
