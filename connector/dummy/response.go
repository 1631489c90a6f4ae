package dummy

import (
	"github.com/VietOpenCPS/payment/connector"
)

// Response is the direct outcome of a dummy transaction.
type Response struct {
	connector.ResponseBase

	successful bool
	cancelled  bool
	message    string
	code       string
	reference  string
}

// NewResponse creates a settled dummy response.
func NewResponse(req *connector.Request, data *connector.Params, successful bool, message, code, reference string) *Response {
	return &Response{
		ResponseBase: connector.NewResponseBase(req, data),
		successful:   successful,
		message:      message,
		code:         code,
		reference:    reference,
	}
}

// NewCancelledResponse creates a response for a customer that aborted on
// the hosted page.
func NewCancelledResponse(req *connector.Request, data *connector.Params) *Response {
	return &Response{
		ResponseBase: connector.NewResponseBase(req, data),
		cancelled:    true,
		message:      "Transaction cancelled by customer",
		code:         "17",
	}
}

// IsSuccessful reports whether the transaction was approved.
func (r *Response) IsSuccessful() bool { return r.successful }

// IsCancelled reports whether the customer aborted the transaction.
func (r *Response) IsCancelled() bool { return r.cancelled }

// Message returns the gateway message.
func (r *Response) Message() string { return r.message }

// Code returns the gateway result code.
func (r *Response) Code() string { return r.code }

// TransactionReference returns the simulated gateway reference.
func (r *Response) TransactionReference() string { return r.reference }

// RedirectResponse simulates the hosted 3-D Secure page hop.
type RedirectResponse struct {
	connector.RedirectResponseBase
}

// NewRedirectResponse creates the hosted-page redirect for a 3-D Secure
// purchase.
func NewRedirectResponse(req *connector.Request, data *connector.Params, pageURL string, redirectData *connector.Params) *RedirectResponse {
	return &RedirectResponse{
		RedirectResponseBase: connector.NewRedirectResponseBase(req, data, pageURL, "POST", redirectData),
	}
}

// IsSuccessful is false while the customer is on the hosted page.
func (r *RedirectResponse) IsSuccessful() bool { return false }

// Message describes the pending redirect.
func (r *RedirectResponse) Message() string { return "Redirecting to 3-D Secure page" }

// Code is empty while the transaction is in flight.
func (r *RedirectResponse) Code() string { return "" }

// TransactionReference is empty until the flow completes.
func (r *RedirectResponse) TransactionReference() string { return "" }
