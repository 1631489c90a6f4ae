package stripe

import (
	"errors"

	stripeapi "github.com/stripe/stripe-go/v82"

	"github.com/VietOpenCPS/payment/connector"
)

// Response wraps a PaymentIntent or Refund outcome.
type Response struct {
	connector.ResponseBase

	successful bool
	pending    bool
	message    string
	code       string
	reference  string

	redirectURL string
}

func newIntentResponse(req *connector.Request, data *connector.Params, intent *stripeapi.PaymentIntent) *Response {
	resp := &Response{
		ResponseBase: connector.NewResponseBase(req, data),
		reference:    intent.ID,
		message:      string(intent.Status),
	}
	switch intent.Status {
	case stripeapi.PaymentIntentStatusSucceeded, stripeapi.PaymentIntentStatusRequiresCapture:
		resp.successful = true
	case stripeapi.PaymentIntentStatusProcessing:
		resp.pending = true
	case stripeapi.PaymentIntentStatusRequiresAction:
		if intent.NextAction != nil && intent.NextAction.RedirectToURL != nil {
			resp.redirectURL = intent.NextAction.RedirectToURL.URL
		}
	}
	return resp
}

func newRefundResponse(req *connector.Request, data *connector.Params, ref *stripeapi.Refund) *Response {
	resp := &Response{
		ResponseBase: connector.NewResponseBase(req, data),
		reference:    ref.ID,
		message:      string(ref.Status),
	}
	switch ref.Status {
	case stripeapi.RefundStatusSucceeded:
		resp.successful = true
	case stripeapi.RefundStatusPending:
		resp.pending = true
	}
	return resp
}

// newErrorResponse maps an SDK error to a declined response so callers
// always get the response contract, not a transport error.
func newErrorResponse(req *connector.Request, data *connector.Params, err error) *Response {
	resp := &Response{
		ResponseBase: connector.NewResponseBase(req, data),
		message:      err.Error(),
	}
	var stripeErr *stripeapi.Error
	if errors.As(err, &stripeErr) {
		resp.message = stripeErr.Msg
		resp.code = string(stripeErr.Code)
		if stripeErr.PaymentIntent != nil {
			resp.reference = stripeErr.PaymentIntent.ID
		}
	}
	return resp
}

func (r *Response) IsSuccessful() bool { return r.successful }

func (r *Response) IsPending() bool { return r.pending }

func (r *Response) IsRedirect() bool { return r.redirectURL != "" }

func (r *Response) Message() string { return r.message }

func (r *Response) Code() string { return r.code }

func (r *Response) TransactionReference() string { return r.reference }

// RedirectURL returns the 3-D Secure page when the intent requires
// customer action.
func (r *Response) RedirectURL() string { return r.redirectURL }

// RedirectMethod is always GET for Stripe hosted actions.
func (r *Response) RedirectMethod() string { return "GET" }

// RedirectData is empty; the URL carries everything.
func (r *Response) RedirectData() *connector.Params { return connector.NewParams() }

// Redirect writes the redirect to the hosting response writer.
func (r *Response) Redirect() error {
	req := r.Request()
	if req == nil || req.Connector() == nil || req.Connector().ResponseWriter() == nil {
		return &connector.RedirectError{Reason: "No response writer is available for redirection."}
	}
	return connector.WriteRedirect(r, req.Connector().ResponseWriter())
}
