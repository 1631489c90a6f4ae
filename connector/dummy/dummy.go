// Package dummy implements an offline test gateway. No network calls are
// made: a card number whose last digit is even is approved, an odd last
// digit is declined. Setting the use3D parameter simulates a hosted
// 3-D Secure page through a POST redirect, completed via
// CompletePurchase.
package dummy

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/VietOpenCPS/payment/connector"
)

const defaultHostedPageURL = "https://pay.dummy.test/3ds"

// Connector is the dummy gateway.
type Connector struct {
	*connector.Base
}

// New creates a dummy connector without transport handles.
func New() *Connector {
	return NewWithTransport(nil, nil)
}

// NewWithTransport creates a dummy connector bound to the hosting
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
func (c *Connector) Name() string { return "Dummy" }

// ShortName returns the registry alias.
func (c *Connector) ShortName() string { return "dummy" }

func (c *Connector) hostedPageURL() string {
	if url := c.Parameter("hostedPageUrl"); url != "" {
		return url
	}
	return defaultHostedPageURL
}

// Authorize reserves an amount on the card.
func (c *Connector) Authorize(params *connector.Params) (*connector.Request, error) {
	return c.CreateRequest(c, &paymentSender{connector: c}, params)
}

// Purchase authorizes and captures in one step.
func (c *Connector) Purchase(params *connector.Params) (*connector.Request, error) {
	return c.CreateRequest(c, &paymentSender{connector: c}, params)
}

// CompletePurchase finishes a purchase that went through the simulated
// hosted page.
func (c *Connector) CompletePurchase(params *connector.Params) (*connector.Request, error) {
	return c.CreateRequest(c, &completeSender{}, params)
}

// Refund returns funds for an earlier transaction.
func (c *Connector) Refund(params *connector.Params) (*connector.Request, error) {
	return c.CreateRequest(c, &refundSender{}, params)
}

// Revert voids an earlier transaction.
func (c *Connector) Revert(params *connector.Params) (*connector.Request, error) {
	return c.CreateRequest(c, &refundSender{}, params)
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

// paymentSender drives authorize and purchase.
type paymentSender struct {
	connector *Connector
}

func (s *paymentSender) Data(req *connector.Request) (*connector.Params, error) {
	amount, err := req.Amount()
	if err != nil {
		return nil, err
	}
	card := req.Card()
	if card == nil {
		return nil, &connector.InvalidCardError{Reason: "Card number is required"}
	}
	if err := card.Validate(); err != nil {
		return nil, err
	}

	data := connector.NewParams()
	data.Set("amount", amount)
	data.Set("currency", req.Currency())
	data.Set("transactionId", req.TransactionID())
	data.Set("description", req.Description())
	return data, nil
}

func (s *paymentSender) Send(req *connector.Request, data *connector.Params) (connector.Response, error) {
	if req.Extra().GetBool("use3D") {
		redirectData := connector.NewParams()
		redirectData.Set("transactionId", data.Get("transactionId"))
		redirectData.Set("amount", data.Get("amount"))
		redirectData.Set("currency", data.Get("currency"))
		redirectData.Set("returnUrl", req.ReturnURL())
		return NewRedirectResponse(req, data, s.connector.hostedPageURL(), redirectData), nil
	}

	number := req.Card().Number()
	reference := uuid.New().String()
	if approved(number) {
		return NewResponse(req, data, true, "Transaction approved", "00", reference), nil
	}
	return NewResponse(req, data, false, "Card declined", "05", reference), nil
}

// approved decides the simulated outcome: even last digit passes.
func approved(number string) bool {
	if number == "" {
		return false
	}
	return (number[len(number)-1]-'0')%2 == 0
}

// completeSender finishes the simulated hosted-page flow.
type completeSender struct{}

func (s *completeSender) Data(req *connector.Request) (*connector.Params, error) {
	data := req.Extra()
	data.Set("transactionId", req.TransactionID())
	if ref := req.TransactionReference(); ref != "" {
		data.Set("transactionReference", ref)
	}
	return data, nil
}

func (s *completeSender) Send(req *connector.Request, data *connector.Params) (connector.Response, error) {
	if data.Get("status") == "cancelled" {
		return NewCancelledResponse(req, data), nil
	}
	reference := data.Get("transactionReference")
	if reference == "" {
		reference = uuid.New().String()
	}
	return NewResponse(req, data, true, "Transaction approved", "00", reference), nil
}

// refundSender drives refund and revert.
type refundSender struct{}

func (s *refundSender) Data(req *connector.Request) (*connector.Params, error) {
	if req.TransactionReference() == "" {
		return nil, &connector.InvalidRequestError{Reason: "A transaction reference is required."}
	}
	if err := req.AllowNegativeAmount(true); err != nil {
		return nil, err
	}
	amount, err := req.Amount()
	if err != nil {
		return nil, err
	}

	data := connector.NewParams()
	data.Set("amount", amount)
	data.Set("transactionReference", req.TransactionReference())
	return data, nil
}

func (s *refundSender) Send(req *connector.Request, data *connector.Params) (connector.Response, error) {
	return NewResponse(req, data, true, "Refund accepted", "00", data.Get("transactionReference")), nil
}

func init() {
	connector.Register("dummy", func() connector.Connector { return New() })
}
