// Package gateway abstracts the payment providers (Paystack, Flutterwave)
// behind one interface. Callers always pass and receive amounts in base
// currency units (naira); each provider converts to its own smallest-unit
// representation on the wire where required.
package gateway

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
)

// Provider names accepted by the dispatcher.
const (
	ProviderPaystack    = "paystack"
	ProviderFlutterwave = "flutterwave"
)

// PayerContact identifies the paying customer to the provider.
type PayerContact struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// InitializeRequest starts a hosted payment.
type InitializeRequest struct {
	Payer       PayerContact
	Amount      decimal.Decimal
	Reference   string
	Metadata    map[string]any
	CallbackURL string
}

// InitializeResult is the provider's hosted-payment handle. Paystack
// returns an authorization URL plus access code; Flutterwave returns a
// payment link. Both are exposed as AuthorizationURL.
type InitializeResult struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code,omitempty"`
	Reference        string `json:"reference"`
}

// VerifyResult is a provider verification normalized to base currency
// units.
type VerifyResult struct {
	AmountPaid decimal.Decimal `json:"amount_paid"`
	Status     string          `json:"status"`
	Reference  string          `json:"reference"`
	PaidAt     *time.Time      `json:"paid_at,omitempty"`
	Metadata   map[string]any  `json:"metadata,omitempty"`
}

// Bank is one entry of a provider's bank directory.
type Bank struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// AccountDetails is the result of resolving an account number.
type AccountDetails struct {
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
}

// CustomerInfo is the KYC payload for virtual-account creation.
type CustomerInfo struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	BVN       string `json:"bvn,omitempty"`
}

// VirtualAccount is a dedicated bank account generated for bank-transfer
// funding.
type VirtualAccount struct {
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
	BankName      string `json:"bank_name"`
	BankCode      string `json:"bank_code,omitempty"`
}

// TransferRequest moves funds out to a bank account (escrow release or
// refund).
type TransferRequest struct {
	Amount           decimal.Decimal
	RecipientAccount string
	RecipientBank    string // bank code
	RecipientName    string
	Reference        string
	Narration        string
}

// TransferResult is the provider's acknowledgement of a transfer.
type TransferResult struct {
	TransferID string `json:"transfer_id"`
	Reference  string `json:"reference"`
	Status     string `json:"status"`
}

// Gateway is the uniform provider contract. Implementations never leak raw
// provider errors: every failure is a *GatewayError.
type Gateway interface {
	Name() string
	InitializePayment(ctx context.Context, req InitializeRequest) (*InitializeResult, error)
	VerifyPayment(ctx context.Context, reference string) (*VerifyResult, error)
	OpenCheckout(ctx context.Context, req InitializeRequest) (*CheckoutSession, error)
	ListBanks(ctx context.Context) ([]Bank, error)
	VerifyAccountNumber(ctx context.Context, accountNumber, bankCode string) (*AccountDetails, error)
	CreateVirtualAccount(ctx context.Context, customer CustomerInfo) (*VirtualAccount, error)
	InitiateTransfer(ctx context.Context, req TransferRequest) (*TransferResult, error)
}

// GenerateReference builds a payment reference of the form
// {prefix}_{timestamp-ms}_{random}. The algorithm is provider-agnostic:
// the same reference works with whichever provider is later used.
func GenerateReference(prefix string) string {
	if prefix == "" {
		prefix = "PAY"
	}
	return fmt.Sprintf("%s_%d_%d", prefix, time.Now().UnixMilli(), rand.Intn(1000000))
}
