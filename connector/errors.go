package connector

import (
	"errors"
	"fmt"
)

// Sentinel errors for lifecycle violations. Both guard the one-way
// Open -> Sent transition of a Request.
var (
	// ErrRequestSent is returned by every Request mutator once a
	// Response has been produced.
	ErrRequestSent = errors.New("request cannot be modified after it has been sent")

	// ErrResponseNotReady is returned by Request.Response before Send
	// has produced a Response.
	ErrResponseNotReady = errors.New("you must call Send() before accessing the Response")

	// ErrOperationNotSupported is returned by a connector for an
	// operation it does not implement.
	ErrOperationNotSupported = errors.New("operation is not supported by this connector")
)

// InvalidCardError reports a credit card that failed validation. The
// message is one of a fixed set of literal reasons; callers branch on it.
type InvalidCardError struct {
	Reason string
}

func (e *InvalidCardError) Error() string {
	return e.Reason
}

// InvalidRequestError reports a request that failed amount or currency
// validation.
type InvalidRequestError struct {
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return e.Reason
}

// RedirectError reports a redirect that cannot be performed, either
// because the response is not a redirect or because the redirect method
// is unknown.
type RedirectError struct {
	Reason string
}

func (e *RedirectError) Error() string {
	return e.Reason
}

// ConfigurationError wraps a failure to build a Request inside a
// connector factory method. A connector that cannot construct its own
// requests is misconfigured; this is a programmer error, not a
// recoverable condition.
type ConfigurationError struct {
	Connector string
	Err       error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("connector %s failed to create request: %v", e.Connector, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
