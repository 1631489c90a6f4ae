package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/VietOpenCPS/payment/connector"
	"github.com/VietOpenCPS/payment/infra/middle"
	"github.com/VietOpenCPS/payment/infra/response"
)

// PaymentService is the surface the payment handlers need from the
// connector service.
type PaymentService interface {
	ExecuteWithCard(ctx context.Context, name string, op connector.Operation, params, card *connector.Params) (connector.Response, error)
	ConnectorNames() []string
}

// PaymentHandler exposes gateway operations over HTTP
type PaymentHandler struct {
	service  PaymentService
	validate *validator.Validate
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(service PaymentService, validate *validator.Validate) *PaymentHandler {
	return &PaymentHandler{
		service:  service,
		validate: validate,
	}
}

// PaymentPayload is the JSON body accepted by the operation endpoint.
// The well-known fields map onto the gateway request; Card carries raw
// card fields and Extra any connector-specific parameters.
type PaymentPayload struct {
	Amount               string            `json:"amount" validate:"omitempty,numeric"`
	Currency             string            `json:"currency" validate:"omitempty,alpha,len=3"`
	Description          string            `json:"description"`
	TransactionID        string            `json:"transactionId"`
	TransactionReference string            `json:"transactionReference"`
	ReturnURL            string            `json:"returnUrl" validate:"omitempty,url"`
	CancelURL            string            `json:"cancelUrl" validate:"omitempty,url"`
	NotifyURL            string            `json:"notifyUrl" validate:"omitempty,url"`
	Issuer               string            `json:"issuer"`
	PaymentMethod        string            `json:"paymentMethod"`
	Token                string            `json:"token"`
	CardReference        string            `json:"cardReference"`
	TestMode             *bool             `json:"testMode"`
	Card                 map[string]string `json:"card"`
	Extra                map[string]string `json:"extra"`
}

func (p *PaymentPayload) params() *connector.Params {
	params := connector.NewParams()

	set := func(key, value string) {
		if value != "" {
			params.Set(key, value)
		}
	}
	set("amount", p.Amount)
	set("currency", p.Currency)
	set("description", p.Description)
	set("transactionId", p.TransactionID)
	set("transactionReference", p.TransactionReference)
	set("returnUrl", p.ReturnURL)
	set("cancelUrl", p.CancelURL)
	set("notifyUrl", p.NotifyURL)
	set("issuer", p.Issuer)
	set("paymentMethod", p.PaymentMethod)
	set("token", p.Token)
	set("cardReference", p.CardReference)
	if p.TestMode != nil {
		params.Set("testMode", strconv.FormatBool(*p.TestMode))
	}
	for key, value := range p.Extra {
		params.Set(key, value)
	}
	return params
}

func (p *PaymentPayload) cardParams() *connector.Params {
	if len(p.Card) == 0 {
		return nil
	}
	return connector.ParamsFrom(p.Card)
}

// PaymentResult is the JSON view of a gateway response.
type PaymentResult struct {
	Successful           bool              `json:"successful"`
	Pending              bool              `json:"pending"`
	Redirect             bool              `json:"redirect"`
	Cancelled            bool              `json:"cancelled"`
	Message              string            `json:"message,omitempty"`
	Code                 string            `json:"code,omitempty"`
	TransactionID        string            `json:"transactionId,omitempty"`
	TransactionReference string            `json:"transactionReference,omitempty"`
	RedirectURL          string            `json:"redirectUrl,omitempty"`
	RedirectMethod       string            `json:"redirectMethod,omitempty"`
	RedirectData         map[string]string `json:"redirectData,omitempty"`
}

// NewPaymentResult converts a gateway response into its JSON view.
func NewPaymentResult(resp connector.Response) PaymentResult {
	result := PaymentResult{
		Successful:           resp.IsSuccessful(),
		Pending:              resp.IsPending(),
		Redirect:             resp.IsRedirect(),
		Cancelled:            resp.IsCancelled(),
		Message:              resp.Message(),
		Code:                 resp.Code(),
		TransactionReference: resp.TransactionReference(),
	}
	if req := resp.Request(); req != nil {
		result.TransactionID = req.TransactionID()
	}
	if redirector, ok := resp.(connector.Redirector); ok && resp.IsRedirect() {
		result.RedirectURL = redirector.RedirectURL()
		result.RedirectMethod = redirector.RedirectMethod()
		if data := redirector.RedirectData(); data != nil && data.Len() > 0 {
			result.RedirectData = data.Map()
		}
	}
	return result
}

// Execute handles POST /v1/payments/{connector}/{operation}. With
// ?redirect=true a redirect response is answered as the browser-facing
// 302 or auto-submitting form instead of JSON.
func (h *PaymentHandler) Execute(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	connectorName := chi.URLParam(r, "connector")
	opName := chi.URLParam(r, "operation")

	op, ok := connector.ParseOperation(opName)
	if !ok {
		response.Error(w, http.StatusBadRequest, fmt.Sprintf("Unknown operation: %s", opName), nil)
		return
	}

	var payload PaymentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		response.Error(w, http.StatusBadRequest, "Validation error", err)
		return
	}

	params := payload.params()
	params.Set("clientIp", middle.GetClientIP(r))

	resp, err := h.service.ExecuteWithCard(ctx, connectorName, op, params, payload.cardParams())
	if err != nil {
		writeOperationError(w, err)
		return
	}

	if resp.IsRedirect() && r.URL.Query().Get("redirect") == "true" {
		if redirector, ok := resp.(connector.Redirector); ok {
			if err := connector.WriteRedirect(redirector, w); err == nil {
				return
			}
		}
	}

	response.Success(w, http.StatusOK, "Operation processed", NewPaymentResult(resp))
}

// HandleCallback handles the return leg of a redirect flow. The gateway
// sends the customer back here; form and query parameters feed the
// completePurchase operation. When the caller supplied successUrl or
// errorUrl the browser is forwarded there with the outcome.
func (h *PaymentHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	connectorName := chi.URLParam(r, "connector")
	if connectorName == "" {
		response.Error(w, http.StatusBadRequest, "Connector parameter is required", nil)
		return
	}

	if err := r.ParseForm(); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid form data", err)
		return
	}

	successURL := r.Form.Get("successUrl")
	errorURL := r.Form.Get("errorUrl")

	params := connector.NewParams()
	for key, values := range r.Form {
		if key == "successUrl" || key == "errorUrl" {
			continue
		}
		if len(values) > 0 {
			params.Set(key, values[0])
		}
	}

	resp, err := h.service.ExecuteWithCard(ctx, connectorName, connector.OpCompletePurchase, params, nil)
	if err != nil {
		if errorURL != "" {
			redirectWith(w, r, errorURL, url.Values{"success": {"false"}, "error": {err.Error()}})
			return
		}
		writeOperationError(w, err)
		return
	}

	result := NewPaymentResult(resp)

	if resp.IsSuccessful() && successURL != "" {
		redirectWith(w, r, successURL, url.Values{
			"success":              {"true"},
			"transactionId":        {result.TransactionID},
			"transactionReference": {result.TransactionReference},
		})
		return
	}
	if !resp.IsSuccessful() && errorURL != "" {
		redirectWith(w, r, errorURL, url.Values{
			"success":       {"false"},
			"error":         {result.Message},
			"errorCode":     {result.Code},
			"transactionId": {result.TransactionID},
		})
		return
	}

	response.Success(w, http.StatusOK, "Payment completed", result)
}

// HandleWebhook handles POST /v1/webhooks/{connector}: gateway
// server-to-server notifications fed into acceptNotification.
func (h *PaymentHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	connectorName := chi.URLParam(r, "connector")
	if connectorName == "" {
		response.Error(w, http.StatusBadRequest, "Connector parameter is required", nil)
		return
	}

	params := connector.NewParams()

	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid form data", err)
			return
		}
		for key, values := range r.Form {
			if len(values) > 0 {
				params.Set(key, values[0])
			}
		}
	} else {
		var data map[string]string
		if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid JSON webhook data", err)
			return
		}
		for key, value := range data {
			params.Set(key, value)
		}
	}

	resp, err := h.service.ExecuteWithCard(ctx, connectorName, connector.OpAcceptNotification, params, nil)
	if err != nil {
		writeOperationError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Webhook processed", NewPaymentResult(resp))
}

func redirectWith(w http.ResponseWriter, r *http.Request, target string, values url.Values) {
	separator := "?"
	if strings.Contains(target, "?") {
		separator = "&"
	}
	http.Redirect(w, r, target+separator+values.Encode(), http.StatusFound)
}

func writeOperationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, connector.ErrOperationNotSupported):
		response.Error(w, http.StatusBadRequest, "Operation not supported", err)
	case strings.Contains(err.Error(), "is not configured"):
		response.Error(w, http.StatusNotFound, "Connector not configured", err)
	default:
		response.Error(w, http.StatusInternalServerError, "Operation failed", err)
	}
}
