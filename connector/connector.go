package connector

import (
	"net/http"
	"strings"
)

// Operation enumerates the gateway operations a connector may support.
type Operation int

const (
	OpAuthorize Operation = iota
	OpCompleteAuthorize
	OpCapture
	OpPurchase
	OpCompletePurchase
	OpRefund
	OpRevert
	OpAcceptNotification
	OpCreateCard
	OpUpdateCard
	OpDeleteCard
)

var operationNames = map[Operation]string{
	OpAuthorize:          "authorize",
	OpCompleteAuthorize:  "completeAuthorize",
	OpCapture:            "capture",
	OpPurchase:           "purchase",
	OpCompletePurchase:   "completePurchase",
	OpRefund:             "refund",
	OpRevert:             "revert",
	OpAcceptNotification: "acceptNotification",
	OpCreateCard:         "createCard",
	OpUpdateCard:         "updateCard",
	OpDeleteCard:         "deleteCard",
}

func (op Operation) String() string {
	if name, ok := operationNames[op]; ok {
		return name
	}
	return "unknown"
}

// ParseOperation resolves an operation by its wire name.
func ParseOperation(name string) (Operation, bool) {
	for op, n := range operationNames {
		if n == name {
			return op, true
		}
	}
	return 0, false
}

// Connector is the contract every payment gateway implementation must
// satisfy. A connector declares which operations it supports, carries its
// own parameter store (test mode, currency, gateway credentials) and acts
// as a factory for Requests bound to itself. Operations the gateway does
// not implement return ErrOperationNotSupported.
type Connector interface {
	// Name returns the connector display name.
	Name() string

	// ShortName returns the registry alias of the connector.
	ShortName() string

	// Initialize merges the given parameters into the connector's own
	// store. Existing keys are overwritten, other keys are kept.
	Initialize(params *Params) error

	// Parameters returns the connector parameter store.
	Parameters() *Params

	// Supports reports whether the connector implements op.
	Supports(op Operation) bool

	// HTTPRequest returns the hosting environment's incoming request
	// handle, if any.
	HTTPRequest() *http.Request

	// ResponseWriter returns the hosting environment's outgoing
	// response handle, if any.
	ResponseWriter() http.ResponseWriter

	Authorize(params *Params) (*Request, error)
	CompleteAuthorize(params *Params) (*Request, error)
	Capture(params *Params) (*Request, error)
	Purchase(params *Params) (*Request, error)
	CompletePurchase(params *Params) (*Request, error)
	Refund(params *Params) (*Request, error)
	Revert(params *Params) (*Request, error)
	AcceptNotification(params *Params) (*Request, error)
	CreateCard(params *Params) (*Request, error)
	UpdateCard(params *Params) (*Request, error)
	DeleteCard(params *Params) (*Request, error)
}

// Base carries the plumbing shared by all connectors: the parameter
// store, the hosting environment's transport handles and the HTTP client
// used to reach the gateway. Concrete connectors embed it and add the
// operations they support.
type Base struct {
	params       *Params
	caps         map[Operation]bool
	client       *HTTPClient
	httpRequest  *http.Request
	httpResponse http.ResponseWriter
}

// NewBase creates connector plumbing bound to the hosting environment's
// transport handles. Both handles may be nil for connectors driven
// outside an HTTP server.
func NewBase(w http.ResponseWriter, r *http.Request) *Base {
	return &Base{
		params:       NewParams(),
		caps:         make(map[Operation]bool),
		client:       NewHTTPClient(&HTTPClientConfig{}),
		httpRequest:  r,
		httpResponse: w,
	}
}

// Initialize merges params into the connector store.
func (b *Base) Initialize(params *Params) error {
	if b.params == nil {
		b.params = NewParams()
	}
	b.params.Merge(params)
	return nil
}

// Parameters returns the connector parameter store.
func (b *Base) Parameters() *Params {
	if b.params == nil {
		b.params = NewParams()
	}
	return b.params
}

// Parameter returns a single connector parameter.
func (b *Base) Parameter(key string) string {
	return b.Parameters().Get(key)
}

// SetParameter stores a single connector parameter.
func (b *Base) SetParameter(key, value string) {
	b.Parameters().Set(key, value)
}

// TestMode reports whether the connector runs against the gateway's test
// environment. Unparseable values read as false.
func (b *Base) TestMode() bool {
	return b.Parameters().GetBool("testMode")
}

// SetTestMode switches the connector between live and test environments.
func (b *Base) SetTestMode(value bool) {
	if value {
		b.SetParameter("testMode", "true")
	} else {
		b.SetParameter("testMode", "false")
	}
}

// Currency returns the connector default currency, uppercased.
func (b *Base) Currency() string {
	return strings.ToUpper(b.Parameter("currency"))
}

// SetCurrency sets the connector default currency.
func (b *Base) SetCurrency(value string) {
	b.SetParameter("currency", value)
}

// SetCapabilities declares the operations the connector supports.
func (b *Base) SetCapabilities(ops ...Operation) {
	b.caps = make(map[Operation]bool, len(ops))
	for _, op := range ops {
		b.caps[op] = true
	}
}

// Supports reports whether op was declared via SetCapabilities.
func (b *Base) Supports(op Operation) bool {
	return b.caps[op]
}

// HTTPRequest returns the incoming request handle.
func (b *Base) HTTPRequest() *http.Request {
	return b.httpRequest
}

// ResponseWriter returns the outgoing response handle.
func (b *Base) ResponseWriter() http.ResponseWriter {
	return b.httpResponse
}

// Client returns the HTTP client connectors use against the gateway.
func (b *Base) Client() *HTTPClient {
	return b.client
}

// SetClient replaces the gateway HTTP client.
func (b *Base) SetClient(client *HTTPClient) {
	b.client = client
}

// CreateRequest builds a Request bound to conn, driven by sender, and
// initializes it with params. A failure here means the connector is
// wired wrong and is reported as a ConfigurationError.
func (b *Base) CreateRequest(conn Connector, sender Sender, params *Params) (*Request, error) {
	req := NewRequest(conn, sender)
	if err := req.Initialize(params); err != nil {
		return nil, &ConfigurationError{Connector: conn.ShortName(), Err: err}
	}
	return req, nil
}
