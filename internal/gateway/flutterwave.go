package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const flutterwaveDefaultBaseURL = "https://api.flutterwave.com/v3"

// FlutterwaveConfig carries the keys at construction time.
type FlutterwaveConfig struct {
	SecretKey string
	PublicKey string
	BaseURL   string
}

// Flutterwave is the Flutterwave implementation of Gateway. Unlike
// Paystack, Flutterwave amounts are plain naira on the wire.
type Flutterwave struct {
	cfg        FlutterwaveConfig
	httpClient *http.Client
	log        *zap.Logger
}

func NewFlutterwave(cfg FlutterwaveConfig, log *zap.Logger) *Flutterwave {
	if cfg.BaseURL == "" {
		cfg.BaseURL = flutterwaveDefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Flutterwave{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		log:        log,
	}
}

func (f *Flutterwave) Name() string { return ProviderFlutterwave }

type flutterwaveEnvelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (f *Flutterwave) call(ctx context.Context, op, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return newGatewayError(ProviderFlutterwave, op, "", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, f.cfg.BaseURL+path, reader)
	if err != nil {
		return newGatewayError(ProviderFlutterwave, op, "", err)
	}
	req.Header.Set("Authorization", "Bearer "+f.cfg.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		f.log.Warn("flutterwave request failed", zap.String("op", op), zap.Error(err))
		return newGatewayError(ProviderFlutterwave, op, "", err)
	}
	defer resp.Body.Close()

	var envelope flutterwaveEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return newGatewayError(ProviderFlutterwave, op, "", err)
	}
	if envelope.Status != "success" {
		return newGatewayError(ProviderFlutterwave, op, envelope.Message, nil)
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return newGatewayError(ProviderFlutterwave, op, "", err)
		}
	}
	return nil
}

func (f *Flutterwave) InitializePayment(ctx context.Context, req InitializeRequest) (*InitializeResult, error) {
	payload := map[string]any{
		"tx_ref":          req.Reference,
		"amount":          req.Amount.String(),
		"currency":        "NGN",
		"payment_options": "card,banktransfer,ussd,account",
		"customer": map[string]any{
			"email":       req.Payer.Email,
			"name":        req.Payer.Name,
			"phonenumber": req.Payer.Phone,
		},
		"meta": req.Metadata,
	}
	if req.CallbackURL != "" {
		payload["redirect_url"] = req.CallbackURL
	}

	var data struct {
		Link string `json:"link"`
	}
	if err := f.call(ctx, "initialize", http.MethodPost, "/payments", payload, &data); err != nil {
		return nil, err
	}
	return &InitializeResult{AuthorizationURL: data.Link, Reference: req.Reference}, nil
}

func (f *Flutterwave) VerifyPayment(ctx context.Context, reference string) (*VerifyResult, error) {
	var data struct {
		Amount    json.Number    `json:"amount"`
		Status    string         `json:"status"`
		TxRef     string         `json:"tx_ref"`
		CreatedAt string         `json:"created_at"`
		Meta      map[string]any `json:"meta"`
	}
	path := "/transactions/" + url.PathEscape(reference) + "/verify"
	if err := f.call(ctx, "verify", http.MethodGet, path, nil, &data); err != nil {
		return nil, err
	}
	if data.Status != "successful" {
		return nil, &GatewayError{
			Provider: ProviderFlutterwave,
			Op:       "verify",
			Message:  fmt.Sprintf("payment %s is not successful (status %s)", reference, data.Status),
			Err:      ErrVerificationFailed,
		}
	}

	amount, err := decimal.NewFromString(data.Amount.String())
	if err != nil {
		return nil, newGatewayError(ProviderFlutterwave, "verify", "", err)
	}

	result := &VerifyResult{
		AmountPaid: amount,
		Status:     data.Status,
		Reference:  data.TxRef,
		Metadata:   data.Meta,
	}
	if data.CreatedAt != "" {
		if paidAt, err := time.Parse(time.RFC3339, data.CreatedAt); err == nil {
			result.PaidAt = &paidAt
		}
	}
	return result, nil
}

func (f *Flutterwave) OpenCheckout(ctx context.Context, req InitializeRequest) (*CheckoutSession, error) {
	init, err := f.InitializePayment(ctx, req)
	if err != nil {
		return nil, err
	}
	return newCheckoutSession(ProviderFlutterwave, init.Reference, init.AuthorizationURL), nil
}

func (f *Flutterwave) ListBanks(ctx context.Context) ([]Bank, error) {
	var data []struct {
		Name string `json:"name"`
		Code string `json:"code"`
	}
	if err := f.call(ctx, "list_banks", http.MethodGet, "/banks/NG", nil, &data); err != nil {
		return nil, err
	}
	banks := make([]Bank, 0, len(data))
	for _, b := range data {
		banks = append(banks, Bank{Name: b.Name, Code: b.Code})
	}
	return banks, nil
}

func (f *Flutterwave) VerifyAccountNumber(ctx context.Context, accountNumber, bankCode string) (*AccountDetails, error) {
	payload := map[string]any{
		"account_number": accountNumber,
		"account_bank":   bankCode,
	}

	var data struct {
		AccountName   string `json:"account_name"`
		AccountNumber string `json:"account_number"`
	}
	if err := f.call(ctx, "resolve_account", http.MethodPost, "/accounts/resolve", payload, &data); err != nil {
		return nil, err
	}
	return &AccountDetails{AccountName: data.AccountName, AccountNumber: data.AccountNumber}, nil
}

func (f *Flutterwave) CreateVirtualAccount(ctx context.Context, customer CustomerInfo) (*VirtualAccount, error) {
	payload := map[string]any{
		"email":        customer.Email,
		"is_permanent": true,
		"bvn":          customer.BVN,
		"tx_ref":       GenerateReference("VA"),
		"firstname":    customer.FirstName,
		"lastname":     customer.LastName,
		"phonenumber":  customer.Phone,
		"narration":    fmt.Sprintf("JustCars - %s %s", customer.FirstName, customer.LastName),
	}

	var data struct {
		AccountNumber string `json:"account_number"`
		BankName      string `json:"bank_name"`
	}
	if err := f.call(ctx, "create_virtual_account", http.MethodPost, "/virtual-account-numbers", payload, &data); err != nil {
		return nil, err
	}
	return &VirtualAccount{
		AccountNumber: data.AccountNumber,
		AccountName:   customer.FirstName + " " + customer.LastName,
		BankName:      data.BankName,
	}, nil
}

func (f *Flutterwave) InitiateTransfer(ctx context.Context, req TransferRequest) (*TransferResult, error) {
	payload := map[string]any{
		"account_bank":   req.RecipientBank,
		"account_number": req.RecipientAccount,
		"amount":         req.Amount.String(),
		"narration":      req.Narration,
		"currency":       "NGN",
		"reference":      req.Reference,
		"debit_currency": "NGN",
	}

	var data struct {
		ID        json.Number `json:"id"`
		Reference string      `json:"reference"`
		Status    string      `json:"status"`
	}
	if err := f.call(ctx, "transfer", http.MethodPost, "/transfers", payload, &data); err != nil {
		return nil, err
	}
	return &TransferResult{TransferID: data.ID.String(), Reference: data.Reference, Status: data.Status}, nil
}
