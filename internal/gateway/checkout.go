package gateway

import (
	"context"
	"sync"
)

// CheckoutOutcome is the single settled result of an interactive checkout:
// either the provider's raw success payload, or a cancellation.
type CheckoutOutcome struct {
	Completed bool           `json:"completed"`
	Payload   map[string]any `json:"payload,omitempty"`
}

// CheckoutSession represents one interactive checkout in flight. The flow
// suspends on user interaction: the caller redirects the payer to
// AuthorizationURL and later settles the session from the provider's
// callback. A session settles exactly once — success or cancellation,
// never both, never twice.
type CheckoutSession struct {
	Provider         string `json:"provider"`
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorization_url"`

	mu      sync.Mutex
	settled bool
	done    chan CheckoutOutcome
}

func newCheckoutSession(provider, reference, authorizationURL string) *CheckoutSession {
	return &CheckoutSession{
		Provider:         provider,
		Reference:        reference,
		AuthorizationURL: authorizationURL,
		done:             make(chan CheckoutOutcome, 1),
	}
}

// Succeed settles the session with the provider's raw success payload.
// Returns ErrCheckoutSettled if the session has already settled.
func (s *CheckoutSession) Succeed(payload map[string]any) error {
	return s.settle(CheckoutOutcome{Completed: true, Payload: payload})
}

// Close settles the session as cancelled by the payer.
func (s *CheckoutSession) Close() error {
	return s.settle(CheckoutOutcome{Completed: false})
}

func (s *CheckoutSession) settle(outcome CheckoutOutcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settled {
		return ErrCheckoutSettled
	}
	s.settled = true
	s.done <- outcome
	close(s.done)
	return nil
}

// Wait blocks until the session settles or the context is cancelled.
func (s *CheckoutSession) Wait(ctx context.Context) (CheckoutOutcome, error) {
	select {
	case outcome := <-s.done:
		return outcome, nil
	case <-ctx.Done():
		return CheckoutOutcome{}, ctx.Err()
	}
}
