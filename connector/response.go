package connector

// Response is the immutable outcome record produced by sending a
// Request. The base flags (pending, redirect, transparent redirect,
// cancelled) default to false; the outcome itself (IsSuccessful, Message,
// Code, TransactionReference) has no generic default and is always
// defined by the concrete gateway response.
type Response interface {
	// Request returns the request that produced this response.
	Request() *Request

	// Data returns the raw gateway reply data.
	Data() *Params

	IsSuccessful() bool
	IsPending() bool
	IsRedirect() bool
	IsTransparentRedirect() bool
	IsCancelled() bool

	// Message returns the human-readable gateway message.
	Message() string

	// Code returns the gateway result code.
	Code() string

	// TransactionReference returns the gateway-generated transaction
	// identifier.
	TransactionReference() string
}

// ResponseBase supplies the request back-reference, the raw reply data
// and the false defaults for the secondary outcome flags. Concrete
// gateway responses embed it and define the primary outcome.
type ResponseBase struct {
	request *Request
	data    *Params
}

// NewResponseBase creates the shared part of a gateway response.
func NewResponseBase(request *Request, data *Params) ResponseBase {
	if data == nil {
		data = NewParams()
	}
	return ResponseBase{request: request, data: data}
}

// Request returns the request that produced this response.
func (r *ResponseBase) Request() *Request { return r.request }

// Data returns the raw gateway reply data.
func (r *ResponseBase) Data() *Params { return r.data }

// IsPending reports whether the transaction is still in flight.
func (r *ResponseBase) IsPending() bool { return false }

// IsRedirect reports whether the customer must be redirected.
func (r *ResponseBase) IsRedirect() bool { return false }

// IsTransparentRedirect reports whether the redirect posts directly from
// the merchant page.
func (r *ResponseBase) IsTransparentRedirect() bool { return false }

// IsCancelled reports whether the customer cancelled at the gateway.
func (r *ResponseBase) IsCancelled() bool { return false }
