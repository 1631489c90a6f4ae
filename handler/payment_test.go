package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VietOpenCPS/payment/connector"
	"github.com/VietOpenCPS/payment/connector/dummy"
)

func newPaymentRouter(t *testing.T) *chi.Mux {
	t.Helper()

	registry := connector.NewRegistry()
	registry.Register("dummy", func() connector.Connector { return dummy.New() })

	svc := connector.NewServiceWith(registry, nil)
	require.NoError(t, svc.AddConnector("dummy", nil))

	h := NewPaymentHandler(svc, validator.New())

	router := chi.NewRouter()
	router.Post("/v1/payments/{connector}/{operation}", h.Execute)
	router.HandleFunc("/v1/callback/{connector}", h.HandleCallback)
	router.Post("/v1/webhooks/{connector}", h.HandleWebhook)
	return router
}

func postJSON(t *testing.T, router *chi.Mux, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) (bool, PaymentResult) {
	t.Helper()
	var body struct {
		Success bool          `json:"success"`
		Data    PaymentResult `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Success, body.Data
}

func TestExecutePurchaseApproved(t *testing.T) {
	router := newPaymentRouter(t)

	rec := postJSON(t, router, "/v1/payments/dummy/purchase", `{
		"amount": "10.00",
		"currency": "USD",
		"card": {"number": "4242424242424242", "expiryMonth": "6", "expiryYear": "2040", "cvv": "123"}
	}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	ok, result := decodeResult(t, rec)
	assert.True(t, ok)
	assert.True(t, result.Successful)
	assert.Equal(t, "00", result.Code)
	assert.NotEmpty(t, result.TransactionID)
	assert.NotEmpty(t, result.TransactionReference)
}

func TestExecutePurchaseDeclined(t *testing.T) {
	router := newPaymentRouter(t)

	rec := postJSON(t, router, "/v1/payments/dummy/purchase", `{
		"amount": "10.00",
		"currency": "USD",
		"card": {"number": "4111111111111111", "expiryMonth": "6", "expiryYear": "2040", "cvv": "123"}
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	_, result := decodeResult(t, rec)
	assert.False(t, result.Successful)
	assert.Equal(t, "Card declined", result.Message)
	assert.Equal(t, "05", result.Code)
}

func TestExecuteRedirectFlow(t *testing.T) {
	router := newPaymentRouter(t)

	body := `{
		"amount": "10.00",
		"currency": "USD",
		"returnUrl": "https://merchant.test/return",
		"card": {"number": "4242424242424242", "expiryMonth": "6", "expiryYear": "2040", "cvv": "123"},
		"extra": {"use3D": "true"}
	}`

	t.Run("json view", func(t *testing.T) {
		rec := postJSON(t, router, "/v1/payments/dummy/purchase", body)
		require.Equal(t, http.StatusOK, rec.Code)
		_, result := decodeResult(t, rec)
		assert.True(t, result.Redirect)
		assert.Equal(t, "https://pay.dummy.test/3ds", result.RedirectURL)
		assert.Equal(t, "POST", result.RedirectMethod)
		assert.Equal(t, "https://merchant.test/return", result.RedirectData["returnUrl"])
	})

	t.Run("browser redirect", func(t *testing.T) {
		rec := postJSON(t, router, "/v1/payments/dummy/purchase?redirect=true", body)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, rec.Body.String(), `action="https://pay.dummy.test/3ds"`)
	})
}

func TestExecuteUnknownOperation(t *testing.T) {
	router := newPaymentRouter(t)

	rec := postJSON(t, router, "/v1/payments/dummy/teleport", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExecuteUnsupportedOperation(t *testing.T) {
	router := newPaymentRouter(t)

	rec := postJSON(t, router, "/v1/payments/dummy/createCard", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExecuteUnconfiguredConnector(t *testing.T) {
	router := newPaymentRouter(t)

	rec := postJSON(t, router, "/v1/payments/stripe/purchase", `{"amount": "10.00", "currency": "USD"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExecuteInvalidBody(t *testing.T) {
	router := newPaymentRouter(t)

	rec := postJSON(t, router, "/v1/payments/dummy/purchase", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExecuteValidationError(t *testing.T) {
	router := newPaymentRouter(t)

	rec := postJSON(t, router, "/v1/payments/dummy/purchase", `{"amount": "10.00", "currency": "DOLLARS"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCallbackCompletesPurchase(t *testing.T) {
	router := newPaymentRouter(t)

	req := httptest.NewRequest("GET", "/v1/callback/dummy?transactionId=tx-9&transactionReference=ref-9", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	ok, result := decodeResult(t, rec)
	assert.True(t, ok)
	assert.True(t, result.Successful)
	assert.Equal(t, "ref-9", result.TransactionReference)
}

func TestCallbackRedirectsToSuccessURL(t *testing.T) {
	router := newPaymentRouter(t)

	req := httptest.NewRequest("GET", "/v1/callback/dummy?transactionId=tx-9&successUrl=https%3A%2F%2Fmerchant.test%2Fok", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	location := rec.Header().Get("Location")
	assert.True(t, strings.HasPrefix(location, "https://merchant.test/ok?"), location)
	assert.Contains(t, location, "success=true")
	assert.Contains(t, location, "transactionId=tx-9")
}

func TestCallbackCancelledRedirectsToErrorURL(t *testing.T) {
	router := newPaymentRouter(t)

	req := httptest.NewRequest("GET", "/v1/callback/dummy?transactionId=tx-9&status=cancelled&errorUrl=https%3A%2F%2Fmerchant.test%2Ffail", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	location := rec.Header().Get("Location")
	assert.True(t, strings.HasPrefix(location, "https://merchant.test/fail?"), location)
	assert.Contains(t, location, "success=false")
}

func TestWebhookUnsupportedByDummy(t *testing.T) {
	router := newPaymentRouter(t)

	rec := postJSON(t, router, "/v1/webhooks/dummy", `{"status": "success"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
