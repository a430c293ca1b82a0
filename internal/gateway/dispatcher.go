package gateway

import (
	"context"
	"fmt"
)

// Dispatcher routes every gateway operation to a concrete provider by
// name. Callers that do not care which provider handles a payment pass an
// empty name and get the configured default. This is the seam that keeps
// the rest of the system gateway-agnostic.
type Dispatcher struct {
	providers       map[string]Gateway
	defaultProvider string
}

func NewDispatcher(defaultProvider string, providers ...Gateway) *Dispatcher {
	byName := make(map[string]Gateway, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	if defaultProvider == "" {
		defaultProvider = ProviderPaystack
	}
	return &Dispatcher{providers: byName, defaultProvider: defaultProvider}
}

// DefaultProvider returns the configured default provider name.
func (d *Dispatcher) DefaultProvider() string { return d.defaultProvider }

// Provider resolves a provider by name, falling back to the default for
// an empty name.
func (d *Dispatcher) Provider(name string) (Gateway, error) {
	if name == "" {
		name = d.defaultProvider
	}
	p, ok := d.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedGateway, name)
	}
	return p, nil
}

func (d *Dispatcher) InitializePayment(ctx context.Context, provider string, req InitializeRequest) (*InitializeResult, error) {
	p, err := d.Provider(provider)
	if err != nil {
		return nil, err
	}
	return p.InitializePayment(ctx, req)
}

func (d *Dispatcher) VerifyPayment(ctx context.Context, provider, reference string) (*VerifyResult, error) {
	p, err := d.Provider(provider)
	if err != nil {
		return nil, err
	}
	return p.VerifyPayment(ctx, reference)
}

func (d *Dispatcher) OpenCheckout(ctx context.Context, provider string, req InitializeRequest) (*CheckoutSession, error) {
	p, err := d.Provider(provider)
	if err != nil {
		return nil, err
	}
	return p.OpenCheckout(ctx, req)
}

func (d *Dispatcher) ListBanks(ctx context.Context, provider string) ([]Bank, error) {
	p, err := d.Provider(provider)
	if err != nil {
		return nil, err
	}
	return p.ListBanks(ctx)
}

func (d *Dispatcher) VerifyAccountNumber(ctx context.Context, provider, accountNumber, bankCode string) (*AccountDetails, error) {
	p, err := d.Provider(provider)
	if err != nil {
		return nil, err
	}
	return p.VerifyAccountNumber(ctx, accountNumber, bankCode)
}

func (d *Dispatcher) CreateVirtualAccount(ctx context.Context, provider string, customer CustomerInfo) (*VirtualAccount, error) {
	p, err := d.Provider(provider)
	if err != nil {
		return nil, err
	}
	return p.CreateVirtualAccount(ctx, customer)
}

func (d *Dispatcher) InitiateTransfer(ctx context.Context, provider string, req TransferRequest) (*TransferResult, error) {
	p, err := d.Provider(provider)
	if err != nil {
		return nil, err
	}
	return p.InitiateTransfer(ctx, req)
}
