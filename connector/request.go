package connector

import (
	"math"
	"strconv"
	"strings"
)

// Sender is the per-gateway strategy behind Request.Send: Data converts
// the assembled request into the gateway wire payload, Send performs the
// exchange and interprets the reply.
type Sender interface {
	Data(req *Request) (*Params, error)
	Send(req *Request, data *Params) (Response, error)
}

// Request is a mutable-until-sent bundle of transaction parameters for a
// single transaction attempt. Requests are created by a connector factory
// method, populated by the caller and sent exactly once: producing a
// Response freezes the request, and every later mutation (or a second
// Send) fails with ErrRequestSent.
type Request struct {
	connector Connector
	sender    Sender

	amount               string
	amountSet            bool
	currency             string
	description          string
	transactionID        string
	transactionReference string
	clientIP             string
	returnURL            string
	cancelURL            string
	notifyURL            string
	issuer               string
	paymentMethod        string
	token                string
	cardReference        string
	testMode             bool

	card  *CreditCard
	items []Item
	extra *Params

	response Response

	zeroAmountAllowed     bool
	negativeAmountAllowed bool
}

// NewRequest creates an open request bound to its owning connector and
// send strategy. Zero amounts are allowed by default, negative amounts
// are not.
func NewRequest(conn Connector, sender Sender) *Request {
	return &Request{
		connector:         conn,
		sender:            sender,
		extra:             NewParams(),
		zeroAmountAllowed: true,
	}
}

// Connector returns the connector this request belongs to.
func (r *Request) Connector() Connector {
	return r.connector
}

func (r *Request) mutable() error {
	if r.response != nil {
		return ErrRequestSent
	}
	return nil
}

// Initialize merges a raw parameter store into the request. Well-known
// keys feed the typed fields, anything else lands in the extras store.
// Initializing a sent request fails with ErrRequestSent.
func (r *Request) Initialize(params *Params) error {
	if err := r.mutable(); err != nil {
		return err
	}
	if params == nil {
		return nil
	}
	for _, key := range params.Keys() {
		value := params.Get(key)
		switch key {
		case "amount":
			r.amount = value
			r.amountSet = true
		case "currency":
			r.currency = strings.ToUpper(value)
		case "description":
			r.description = value
		case "transactionId":
			r.transactionID = value
		case "transactionReference":
			r.transactionReference = value
		case "clientIp":
			r.clientIP = value
		case "returnUrl":
			r.returnURL = value
		case "cancelUrl":
			r.cancelURL = value
		case "notifyUrl":
			r.notifyURL = value
		case "issuer":
			r.issuer = value
		case "paymentMethod":
			r.paymentMethod = value
		case "token":
			r.token = value
		case "cardReference":
			r.cardReference = value
		case "testMode":
			b, err := strconv.ParseBool(value)
			r.testMode = err == nil && b
		case "card":
			// Accepted only through SetCard; kept as an extra here.
			r.extra.Set(key, value)
		default:
			r.extra.Set(key, value)
		}
	}
	return nil
}

// Parameters returns the request parameters as a flat store: typed fields
// first, extras after.
func (r *Request) Parameters() *Params {
	p := NewParams()
	if r.amountSet {
		p.Set("amount", r.amount)
	}
	set := func(key, value string) {
		if value != "" {
			p.Set(key, value)
		}
	}
	set("currency", r.currency)
	set("description", r.description)
	set("transactionId", r.transactionID)
	set("transactionReference", r.transactionReference)
	set("clientIp", r.clientIP)
	set("returnUrl", r.returnURL)
	set("cancelUrl", r.cancelURL)
	set("notifyUrl", r.notifyURL)
	set("issuer", r.issuer)
	set("paymentMethod", r.paymentMethod)
	set("token", r.token)
	set("cardReference", r.cardReference)
	if r.testMode {
		p.Set("testMode", "true")
	}
	p.Merge(r.extra)
	return p
}

// Extra returns a copy of the gateway-specific extra parameters.
func (r *Request) Extra() *Params {
	return r.extra.Copy()
}

// SetExtra stores a gateway-specific parameter with no typed field.
func (r *Request) SetExtra(key, value string) error {
	if err := r.mutable(); err != nil {
		return err
	}
	r.extra.Set(key, value)
	return nil
}

// AllowZeroAmount controls whether a zero amount passes validation.
func (r *Request) AllowZeroAmount(allowed bool) error {
	if err := r.mutable(); err != nil {
		return err
	}
	r.zeroAmountAllowed = allowed
	return nil
}

// AllowNegativeAmount controls whether a negative amount passes
// validation. Refund-style gateways may enable this.
func (r *Request) AllowNegativeAmount(allowed bool) error {
	if err := r.mutable(); err != nil {
		return err
	}
	r.negativeAmountAllowed = allowed
	return nil
}

// TestMode reports whether the request targets the gateway test
// environment.
func (r *Request) TestMode() bool { return r.testMode }

// SetTestMode switches the request between live and test environments.
func (r *Request) SetTestMode(value bool) error {
	if err := r.mutable(); err != nil {
		return err
	}
	r.testMode = value
	return nil
}

// Card returns the attached credit card, or nil.
func (r *Request) Card() *CreditCard { return r.card }

// SetCard attaches a credit card to the request.
func (r *Request) SetCard(card *CreditCard) error {
	if err := r.mutable(); err != nil {
		return err
	}
	r.card = card
	return nil
}

// SetCardParams attaches a credit card built from raw parameters.
func (r *Request) SetCardParams(params *Params) error {
	if err := r.mutable(); err != nil {
		return err
	}
	r.card = NewCreditCardFromParams(params)
	return nil
}

// Token returns the card token.
func (r *Request) Token() string { return r.token }

// SetToken sets the card token.
func (r *Request) SetToken(value string) error {
	if err := r.mutable(); err != nil {
		return err
	}
	r.token = value
	return nil
}

// CardReference returns the gateway's stored card reference.
func (r *Request) CardReference() string { return r.cardReference }

// SetCardReference sets the gateway's stored card reference.
func (r *Request) SetCardReference(value string) error {
	if err := r.mutable(); err != nil {
		return err
	}
	r.cardReference = value
	return nil
}

// SetAmount stores the amount string verbatim. No validation happens at
// set time; Amount re-validates on every read.
func (r *Request) SetAmount(value string) error {
	if err := r.mutable(); err != nil {
		return err
	}
	r.amount = value
	r.amountSet = true
	return nil
}

// SetAmountFloat stores a numeric amount formatted for the request
// currency's decimal places.
func (r *Request) SetAmountFloat(value float64) error {
	return r.SetAmount(FormatNumber(value, r.CurrencyDecimalPlaces()))
}

// Amount validates and returns the stored amount string unchanged. The
// checks run lazily on every read:
//
//  1. a currency with decimal places rejects plain integer strings,
//  2. negative amounts fail unless explicitly allowed,
//  3. zero amounts fail when disallowed for this request,
//  4. more fractional digits than the currency carries fail.
//
// A missing amount is not an error and returns the empty string.
func (r *Request) Amount() (string, error) {
	if !r.amountSet {
		return "", nil
	}
	amount := r.amount
	if r.CurrencyDecimalPlaces() > 0 && IsInteger(amount) {
		return "", &InvalidRequestError{Reason: "Please specify amount as a float string, with decimal places (e.g. '10.00' to represent $10.00)."}
	}
	value := ToFloat(amount)
	if !r.negativeAmountAllowed && value < 0 {
		return "", &InvalidRequestError{Reason: "A negative amount is not allowed."}
	}
	if !r.zeroAmountAllowed && value == 0 {
		return "", &InvalidRequestError{Reason: "A zero amount is not allowed."}
	}
	if DecimalCount(amount) > r.CurrencyDecimalPlaces() {
		return "", &InvalidRequestError{Reason: "Amount precision is too high for currency."}
	}
	return amount, nil
}

// AmountInteger returns the amount in the currency's minor units, the
// integer representation gateways typically require.
func (r *Request) AmountInteger() (int64, error) {
	amount, err := r.Amount()
	if err != nil {
		return 0, err
	}
	factor := math.Pow10(r.CurrencyDecimalPlaces())
	return int64(math.Round(ToFloat(amount) * factor)), nil
}

// Currency returns the payment currency code, uppercased.
func (r *Request) Currency() string { return r.currency }

// SetCurrency sets the payment currency code, stored uppercased.
func (r *Request) SetCurrency(value string) error {
	if err := r.mutable(); err != nil {
		return err
	}
	r.currency = strings.ToUpper(value)
	return nil
}

// CurrencyNumeric returns the ISO numeric code of the payment currency,
// or the empty string for unknown currencies.
func (r *Request) CurrencyNumeric() string {
	if c, ok := FindCurrency(r.currency); ok {
		return c.Numeric()
	}
	return ""
}

// CurrencyDecimalPlaces returns the decimal places of the payment
// currency, defaulting to 2 when the currency is absent or unknown.
func (r *Request) CurrencyDecimalPlaces() int {
	if r.currency != "" {
		if c, ok := FindCurrency(r.currency); ok {
			return c.Decimals()
		}
	}
	return 2
}

// Description returns the transaction description.
func (r *Request) Description() string { return r.description }

// SetDescription sets the transaction description.
func (r *Request) SetDescription(value string) error {
	if err := r.mutable(); err != nil {
		return err
	}
	r.description = value
	return nil
}

// TransactionID returns the merchant-generated transaction identifier.
func (r *Request) TransactionID() string { return r.transactionID }

// SetTransactionID sets the merchant-generated transaction identifier.
func (r *Request) SetTransactionID(value string) error {
	if err := r.mutable(); err != nil {
		return err
	}
	r.transactionID = value
	return nil
}

// TransactionReference returns the gateway-generated transaction
// identifier.
func (r *Request) TransactionReference() string { return r.transactionReference }

// SetTransactionReference sets the gateway-generated transaction
// identifier.
func (r *Request) SetTransactionReference(value string) error {
	if err := r.mutable(); err != nil {
		return err
	}
	r.transactionReference = value
	return nil
}

// Items returns the cart lines of the request.
func (r *Request) Items() []Item { return r.items }

// SetItems replaces the cart lines of the request.
func (r *Request) SetItems(items []Item) error {
	if err := r.mutable(); err != nil {
		return err
	}
	r.items = items
	return nil
}

// AddItem appends a cart line to the request.
func (r *Request) AddItem(item Item) error {
	if err := r.mutable(); err != nil {
		return err
	}
	r.items = append(r.items, item)
	return nil
}

// ClientIP returns the customer's IP address.
func (r *Request) ClientIP() string { return r.clientIP }

// SetClientIP sets the customer's IP address.
func (r *Request) SetClientIP(value string) error {
	if err := r.mutable(); err != nil {
		return err
	}
	r.clientIP = value
	return nil
}

// ReturnURL returns the URL the customer lands on after gateway
// approval.
func (r *Request) ReturnURL() string { return r.returnURL }

// SetReturnURL sets the URL the customer lands on after gateway
// approval.
func (r *Request) SetReturnURL(value string) error {
	if err := r.mutable(); err != nil {
		return err
	}
	r.returnURL = value
	return nil
}

// CancelURL returns the URL the customer lands on after aborting at the
// gateway.
func (r *Request) CancelURL() string { return r.cancelURL }

// SetCancelURL sets the URL the customer lands on after aborting at the
// gateway.
func (r *Request) SetCancelURL(value string) error {
	if err := r.mutable(); err != nil {
		return err
	}
	r.cancelURL = value
	return nil
}

// NotifyURL returns the server-to-server notification URL.
func (r *Request) NotifyURL() string { return r.notifyURL }

// SetNotifyURL sets the server-to-server notification URL.
func (r *Request) SetNotifyURL(value string) error {
	if err := r.mutable(); err != nil {
		return err
	}
	r.notifyURL = value
	return nil
}

// Issuer returns the selected card issuer.
func (r *Request) Issuer() string { return r.issuer }

// SetIssuer sets the selected card issuer.
func (r *Request) SetIssuer(value string) error {
	if err := r.mutable(); err != nil {
		return err
	}
	r.issuer = value
	return nil
}

// PaymentMethod returns the selected payment method.
func (r *Request) PaymentMethod() string { return r.paymentMethod }

// SetPaymentMethod sets the selected payment method.
func (r *Request) SetPaymentMethod(value string) error {
	if err := r.mutable(); err != nil {
		return err
	}
	r.paymentMethod = value
	return nil
}

// Send produces the gateway payload through the request's Sender and
// performs the exchange. The resulting Response is cached; sending an
// already-sent request fails with ErrRequestSent, mirroring the mutator
// freeze.
func (r *Request) Send() (Response, error) {
	if r.response != nil {
		return nil, ErrRequestSent
	}
	data, err := r.sender.Data(r)
	if err != nil {
		return nil, err
	}
	return r.SendData(data)
}

// SendData performs the exchange with an explicit, gateway-specific
// payload, bypassing the Sender's Data hook.
func (r *Request) SendData(data *Params) (Response, error) {
	if r.response != nil {
		return nil, ErrRequestSent
	}
	resp, err := r.sender.Send(r, data)
	if err != nil {
		return nil, err
	}
	r.response = resp
	return resp, nil
}

// Response returns the Response produced by Send. Reading it before the
// request was sent fails with ErrResponseNotReady.
func (r *Request) Response() (Response, error) {
	if r.response == nil {
		return nil, ErrResponseNotReady
	}
	return r.response, nil
}
