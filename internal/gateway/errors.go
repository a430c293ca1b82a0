package gateway

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedGateway is returned by the dispatcher for provider
	// names it does not recognize.
	ErrUnsupportedGateway = errors.New("unsupported payment gateway")

	// ErrVerificationFailed is returned when a provider does not confirm
	// a payment as successful, or does not know the reference.
	ErrVerificationFailed = errors.New("payment verification failed")

	// ErrCheckoutSettled is returned when a checkout session is settled
	// a second time.
	ErrCheckoutSettled = errors.New("checkout session already settled")
)

// GatewayError normalizes provider and network failures into one shape.
// The message is safe to show to a user; the underlying error is kept for
// logging only.
type GatewayError struct {
	Provider string
	Op       string
	Message  string
	Err      error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Provider, e.Op, e.Message)
}

func (e *GatewayError) Unwrap() error { return e.Err }

func newGatewayError(provider, op, message string, err error) *GatewayError {
	if message == "" {
		message = "payment service is unavailable, please retry"
	}
	return &GatewayError{Provider: provider, Op: op, Message: message, Err: err}
}
