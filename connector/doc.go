// Package connector is the gateway-agnostic payment core: it defines how
// a transaction request is assembled, validated, frozen on send and
// turned into a gateway payload, together with the credit card model and
// the response contract gateway implementations must satisfy.
//
// A Connector is created per transaction-initiating call, initialized
// with merchant parameters and used as a factory for Requests. The
// caller populates the Request (amount, currency, card, items, URLs) and
// calls Send; the connector's Sender strategy converts it to the wire
// payload and interprets the reply into a Response. Once a Response
// exists the Request is frozen: every further mutation fails with
// ErrRequestSent.
//
// Numeric reads across the package follow a soft-read convention: values
// that do not parse yield a zero value (or ok=false) instead of an
// error. Validation, by contrast, is strict and fails with typed errors
// carrying fixed literal messages.
package connector
