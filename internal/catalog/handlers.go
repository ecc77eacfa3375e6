package catalog

import (
	"net/http"

	"github.com/noah-isme/checkout-demo/internal/common"
)

// Handler exposes public catalog endpoints.
type Handler struct {
	Service *Service

	// PublishableKey and Currency are surfaced to the browser client via
	// the config endpoint so nothing client-facing is hard-coded.
	PublishableKey string
	Currency       string
}

// Products handles GET /api/products.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	common.JSON(w, http.StatusOK, h.Service.List(r.Context()))
}

// Config handles GET /api/config, exposing the publishable client key and
// the fixed checkout currency.
func (h *Handler) Config(w http.ResponseWriter, _ *http.Request) {
	common.JSON(w, http.StatusOK, map[string]string{
		"publishableKey": h.PublishableKey,
		"currency":       h.Currency,
	})
}
