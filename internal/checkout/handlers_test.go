package checkout_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/checkout-demo/internal/checkout"
	"github.com/noah-isme/checkout-demo/internal/common"
	"github.com/noah-isme/checkout-demo/internal/payment"
)

type fakeProvider struct {
	calls   int
	lastReq payment.SessionRequest
	session payment.Session
	err     error
}

func (f *fakeProvider) CreateCheckoutSession(_ context.Context, req payment.SessionRequest) (payment.Session, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return payment.Session{}, f.err
	}
	return f.session, nil
}

func newService(p payment.Provider) *checkout.Service {
	return &checkout.Service{
		Provider:          p,
		Currency:          "usd",
		SuccessURL:        "http://localhost:3000/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:         "http://localhost:3000/checkout/cancel",
		Validate:          validator.New(),
		NewIdempotencyKey: func() string { return "idem-test" },
	}
}

func TestCreateTranslatesCartLines(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{session: payment.Session{ID: "cs_test_123", URL: "https://checkout.example/cs_test_123"}}
	svc := newService(provider)

	out, err := svc.Create(context.Background(), checkout.Input{Items: []checkout.LineItem{
		{ID: "product_1", Name: "Premium Coffee Beans", Price: 1500, Quantity: 2},
		{ID: "product_2", Name: "Organic Green Tea", Price: 1200, Quantity: 1},
	}})
	require.NoError(t, err)
	require.Equal(t, "cs_test_123", out.ID)

	require.Equal(t, 1, provider.calls)
	req := provider.lastReq
	require.Equal(t, "usd", req.Currency)
	require.Equal(t, "idem-test", req.IdempotencyKey)
	require.Contains(t, req.SuccessURL, "{CHECKOUT_SESSION_ID}")
	require.Len(t, req.LineItems, 2)
	require.Equal(t, payment.SessionLineItem{Name: "Premium Coffee Beans", UnitAmount: 1500, Quantity: 2}, req.LineItems[0])
}

func TestCreateEmptyItemsNeverReachesProvider(t *testing.T) {
	t.Parallel()

	for name, in := range map[string]checkout.Input{
		"empty slice": {Items: []checkout.LineItem{}},
		"nil slice":   {},
	} {
		t.Run(name, func(t *testing.T) {
			provider := &fakeProvider{}
			_, err := newService(provider).Create(context.Background(), in)

			var appErr *common.AppError
			require.ErrorAs(t, err, &appErr)
			require.Equal(t, "INVALID_REQUEST", appErr.Code)
			require.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
			require.Zero(t, provider.calls)
		})
	}
}

func TestCreateRejectsInvalidQuantity(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{}
	_, err := newService(provider).Create(context.Background(), checkout.Input{Items: []checkout.LineItem{
		{Name: "Premium Coffee Beans", Price: 1500, Quantity: 0},
	}})

	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "INVALID_REQUEST", appErr.Code)
	require.Zero(t, provider.calls)
}

func TestCreateUpstreamFailure(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{err: errors.New("stripe: api unreachable")}
	_, err := newService(provider).Create(context.Background(), checkout.Input{Items: []checkout.LineItem{
		{Name: "Premium Coffee Beans", Price: 1500, Quantity: 1},
	}})

	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "UPSTREAM_ERROR", appErr.Code)
	require.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus)
	require.Contains(t, appErr.Message, "api unreachable")
}

func TestCreateSessionHandler(t *testing.T) {
	t.Parallel()

	t.Run("success returns session id", func(t *testing.T) {
		provider := &fakeProvider{session: payment.Session{ID: "cs_test_123"}}
		handler := &checkout.Handler{Svc: newService(provider)}

		body := `{"items":[{"id":"product_1","name":"Premium Coffee Beans","price":1500,"quantity":2}]}`
		req := httptest.NewRequest(http.MethodPost, "/api/create-checkout-session", strings.NewReader(body))
		rec := httptest.NewRecorder()
		handler.CreateSession(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var out checkout.Output
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		require.Equal(t, "cs_test_123", out.ID)
	})

	t.Run("malformed body is a 400", func(t *testing.T) {
		provider := &fakeProvider{}
		handler := &checkout.Handler{Svc: newService(provider)}

		req := httptest.NewRequest(http.MethodPost, "/api/create-checkout-session", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()
		handler.CreateSession(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Zero(t, provider.calls)
		requireErrorCode(t, rec, "INVALID_REQUEST")
	})

	t.Run("empty items is a 400", func(t *testing.T) {
		provider := &fakeProvider{}
		handler := &checkout.Handler{Svc: newService(provider)}

		req := httptest.NewRequest(http.MethodPost, "/api/create-checkout-session", strings.NewReader(`{"items":[]}`))
		rec := httptest.NewRecorder()
		handler.CreateSession(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Zero(t, provider.calls)
		requireErrorCode(t, rec, "INVALID_REQUEST")
	})

	t.Run("provider failure is a 500", func(t *testing.T) {
		provider := &fakeProvider{err: errors.New("stripe: boom")}
		handler := &checkout.Handler{Svc: newService(provider)}

		body := `{"items":[{"name":"Premium Coffee Beans","price":1500,"quantity":1}]}`
		req := httptest.NewRequest(http.MethodPost, "/api/create-checkout-session", strings.NewReader(body))
		rec := httptest.NewRecorder()
		handler.CreateSession(rec, req)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		requireErrorCode(t, rec, "UPSTREAM_ERROR")
	})
}

func requireErrorCode(t *testing.T, rec *httptest.ResponseRecorder, code string) {
	t.Helper()
	var envelope struct {
		Error common.ErrorBody `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Equal(t, code, envelope.Error.Code)
	require.NotEmpty(t, envelope.Error.Message)
}
