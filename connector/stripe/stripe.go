// Package stripe implements the connector contract on top of the
// official Stripe SDK. Purchases and authorizations run through
// PaymentIntents; a payment method id can be supplied as the request
// token, or raw card data is exchanged for one first.
package stripe

import (
	"net/http"

	stripeapi "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"github.com/VietOpenCPS/payment/connector"
)

// Connector is the Stripe gateway.
type Connector struct {
	*connector.Base

	api *client.API
}

// New creates a Stripe connector without transport handles.
func New() *Connector {
	return NewWithTransport(nil, nil)
}

// NewWithTransport creates a Stripe connector bound to the hosting
// environment's transport handles.
func NewWithTransport(w http.ResponseWriter, r *http.Request) *Connector {
	c := &Connector{Base: connector.NewBase(w, r)}
	c.SetCapabilities(
		connector.OpAuthorize,
		connector.OpPurchase,
		connector.OpCompletePurchase,
		connector.OpRefund,
		connector.OpRevert,
	)
	return c
}

// Name returns the connector display name.
func (c *Connector) Name() string { return "Stripe" }

// ShortName returns the registry alias.
func (c *Connector) ShortName() string { return "stripe" }

// Initialize merges params and rebuilds the SDK client when the secret
// key changed.
func (c *Connector) Initialize(params *connector.Params) error {
	if err := c.Base.Initialize(params); err != nil {
		return err
	}
	if key := c.Parameter("secretKey"); key != "" {
		api := &client.API{}
		api.Init(key, nil)
		c.api = api
	}
	return nil
}

// API returns the SDK client. Tests may replace it.
func (c *Connector) API() *client.API { return c.api }

// SetAPI replaces the SDK client.
func (c *Connector) SetAPI(api *client.API) { c.api = api }

// Authorize places a hold without capturing.
func (c *Connector) Authorize(params *connector.Params) (*connector.Request, error) {
	return c.CreateRequest(c, &intentSender{connector: c, capture: false}, params)
}

// Purchase authorizes and captures in one step.
func (c *Connector) Purchase(params *connector.Params) (*connector.Request, error) {
	return c.CreateRequest(c, &intentSender{connector: c, capture: true}, params)
}

// CompletePurchase confirms an intent after the customer returned from
// 3-D Secure.
func (c *Connector) CompletePurchase(params *connector.Params) (*connector.Request, error) {
	return c.CreateRequest(c, &confirmSender{connector: c}, params)
}

// Refund returns funds for a captured intent.
func (c *Connector) Refund(params *connector.Params) (*connector.Request, error) {
	return c.CreateRequest(c, &refundSender{connector: c}, params)
}

// Revert cancels an uncaptured intent.
func (c *Connector) Revert(params *connector.Params) (*connector.Request, error) {
	return c.CreateRequest(c, &cancelSender{connector: c}, params)
}

// CompleteAuthorize is not supported.
func (c *Connector) CompleteAuthorize(*connector.Params) (*connector.Request, error) {
	return nil, connector.ErrOperationNotSupported
}

// Capture is not supported.
func (c *Connector) Capture(*connector.Params) (*connector.Request, error) {
	return nil, connector.ErrOperationNotSupported
}

// AcceptNotification is not supported.
func (c *Connector) AcceptNotification(*connector.Params) (*connector.Request, error) {
	return nil, connector.ErrOperationNotSupported
}

// CreateCard is not supported.
func (c *Connector) CreateCard(*connector.Params) (*connector.Request, error) {
	return nil, connector.ErrOperationNotSupported
}

// UpdateCard is not supported.
func (c *Connector) UpdateCard(*connector.Params) (*connector.Request, error) {
	return nil, connector.ErrOperationNotSupported
}

// DeleteCard is not supported.
func (c *Connector) DeleteCard(*connector.Params) (*connector.Request, error) {
	return nil, connector.ErrOperationNotSupported
}

// paymentMethodID resolves the payment method for a request: the token
// wins, otherwise raw card data is exchanged with Stripe.
func (c *Connector) paymentMethodID(req *connector.Request) (string, error) {
	if token := req.Token(); token != "" {
		return token, nil
	}
	card := req.Card()
	if card == nil {
		return "", &connector.InvalidCardError{Reason: "Card number is required"}
	}
	if err := card.Validate(); err != nil {
		return "", err
	}
	pm, err := c.api.PaymentMethods.New(&stripeapi.PaymentMethodParams{
		Type: stripeapi.String("card"),
		Card: &stripeapi.PaymentMethodCardParams{
			Number:   stripeapi.String(card.Number()),
			ExpMonth: stripeapi.Int64(int64(card.ExpiryMonth())),
			ExpYear:  stripeapi.Int64(int64(card.ExpiryYear())),
			CVC:      stripeapi.String(card.Cvv()),
		},
	})
	if err != nil {
		return "", err
	}
	return pm.ID, nil
}

// intentSender drives authorize and purchase through PaymentIntents.
type intentSender struct {
	connector *Connector
	capture   bool
}

func (s *intentSender) Data(req *connector.Request) (*connector.Params, error) {
	amount, err := req.Amount()
	if err != nil {
		return nil, err
	}
	minor, err := req.AmountInteger()
	if err != nil {
		return nil, err
	}

	data := connector.NewParams()
	data.Set("amount", amount)
	data.Set("amountMinor", connector.FormatNumber(float64(minor), 0))
	data.Set("currency", req.Currency())
	data.Set("description", req.Description())
	data.Set("returnUrl", req.ReturnURL())
	return data, nil
}

func (s *intentSender) Send(req *connector.Request, data *connector.Params) (connector.Response, error) {
	pmID, err := s.connector.paymentMethodID(req)
	if err != nil {
		return nil, err
	}
	minor, err := req.AmountInteger()
	if err != nil {
		return nil, err
	}

	params := &stripeapi.PaymentIntentParams{
		Amount:        stripeapi.Int64(minor),
		Currency:      stripeapi.String(req.Currency()),
		PaymentMethod: stripeapi.String(pmID),
		Confirm:       stripeapi.Bool(true),
	}
	if !s.capture {
		params.CaptureMethod = stripeapi.String(string(stripeapi.PaymentIntentCaptureMethodManual))
	}
	if desc := req.Description(); desc != "" {
		params.Description = stripeapi.String(desc)
	}
	if returnURL := req.ReturnURL(); returnURL != "" {
		params.ReturnURL = stripeapi.String(returnURL)
	}

	intent, err := s.connector.api.PaymentIntents.New(params)
	if err != nil {
		return newErrorResponse(req, data, err), nil
	}
	return newIntentResponse(req, data, intent), nil
}

// confirmSender completes a 3-D Secure flow.
type confirmSender struct {
	connector *Connector
}

func (s *confirmSender) Data(req *connector.Request) (*connector.Params, error) {
	if req.TransactionReference() == "" {
		return nil, &connector.InvalidRequestError{Reason: "A transaction reference is required."}
	}
	data := connector.NewParams()
	data.Set("transactionReference", req.TransactionReference())
	return data, nil
}

func (s *confirmSender) Send(req *connector.Request, data *connector.Params) (connector.Response, error) {
	intent, err := s.connector.api.PaymentIntents.Confirm(data.Get("transactionReference"), &stripeapi.PaymentIntentConfirmParams{})
	if err != nil {
		return newErrorResponse(req, data, err), nil
	}
	return newIntentResponse(req, data, intent), nil
}

// refundSender refunds a captured intent.
type refundSender struct {
	connector *Connector
}

func (s *refundSender) Data(req *connector.Request) (*connector.Params, error) {
	if req.TransactionReference() == "" {
		return nil, &connector.InvalidRequestError{Reason: "A transaction reference is required."}
	}
	data := connector.NewParams()
	data.Set("transactionReference", req.TransactionReference())
	if amount, err := req.Amount(); err != nil {
		return nil, err
	} else if amount != "" {
		data.Set("amount", amount)
	}
	return data, nil
}

func (s *refundSender) Send(req *connector.Request, data *connector.Params) (connector.Response, error) {
	params := &stripeapi.RefundParams{
		PaymentIntent: stripeapi.String(data.Get("transactionReference")),
	}
	if data.Has("amount") {
		minor, err := req.AmountInteger()
		if err != nil {
			return nil, err
		}
		params.Amount = stripeapi.Int64(minor)
	}

	ref, err := s.connector.api.Refunds.New(params)
	if err != nil {
		return newErrorResponse(req, data, err), nil
	}
	return newRefundResponse(req, data, ref), nil
}

// cancelSender voids an uncaptured intent.
type cancelSender struct {
	connector *Connector
}

func (s *cancelSender) Data(req *connector.Request) (*connector.Params, error) {
	if req.TransactionReference() == "" {
		return nil, &connector.InvalidRequestError{Reason: "A transaction reference is required."}
	}
	data := connector.NewParams()
	data.Set("transactionReference", req.TransactionReference())
	return data, nil
}

func (s *cancelSender) Send(req *connector.Request, data *connector.Params) (connector.Response, error) {
	intent, err := s.connector.api.PaymentIntents.Cancel(data.Get("transactionReference"), &stripeapi.PaymentIntentCancelParams{})
	if err != nil {
		return newErrorResponse(req, data, err), nil
	}
	return newIntentResponse(req, data, intent), nil
}

func init() {
	connector.Register("stripe", func() connector.Connector { return New() })
}
