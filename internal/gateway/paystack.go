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

const paystackDefaultBaseURL = "https://api.paystack.co"

// Paystack amounts travel in kobo (naira x100).
var koboPerNaira = decimal.NewFromInt(100)

// PaystackConfig carries the keys at construction time; the client holds
// no other mutable state.
type PaystackConfig struct {
	SecretKey string
	PublicKey string
	BaseURL   string
}

// Paystack is the Paystack implementation of Gateway.
type Paystack struct {
	cfg        PaystackConfig
	httpClient *http.Client
	log        *zap.Logger
}

func NewPaystack(cfg PaystackConfig, log *zap.Logger) *Paystack {
	if cfg.BaseURL == "" {
		cfg.BaseURL = paystackDefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Paystack{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		log:        log,
	}
}

func (p *Paystack) Name() string { return ProviderPaystack }

// paystackEnvelope is the common Paystack response wrapper.
type paystackEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (p *Paystack) call(ctx context.Context, op, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return newGatewayError(ProviderPaystack, op, "", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.cfg.BaseURL+path, reader)
	if err != nil {
		return newGatewayError(ProviderPaystack, op, "", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.cfg.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.log.Warn("paystack request failed", zap.String("op", op), zap.Error(err))
		return newGatewayError(ProviderPaystack, op, "", err)
	}
	defer resp.Body.Close()

	var envelope paystackEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return newGatewayError(ProviderPaystack, op, "", err)
	}
	if !envelope.Status {
		return newGatewayError(ProviderPaystack, op, envelope.Message, nil)
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return newGatewayError(ProviderPaystack, op, "", err)
		}
	}
	return nil
}

func (p *Paystack) InitializePayment(ctx context.Context, req InitializeRequest) (*InitializeResult, error) {
	payload := map[string]any{
		"email":     req.Payer.Email,
		"amount":    req.Amount.Mul(koboPerNaira).Round(0).IntPart(),
		"reference": req.Reference,
		"metadata":  req.Metadata,
	}
	if req.CallbackURL != "" {
		payload["callback_url"] = req.CallbackURL
	}

	var data struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	}
	if err := p.call(ctx, "initialize", http.MethodPost, "/transaction/initialize", payload, &data); err != nil {
		return nil, err
	}
	return &InitializeResult{
		AuthorizationURL: data.AuthorizationURL,
		AccessCode:       data.AccessCode,
		Reference:        data.Reference,
	}, nil
}

func (p *Paystack) VerifyPayment(ctx context.Context, reference string) (*VerifyResult, error) {
	var data struct {
		Amount    int64          `json:"amount"` // kobo
		Status    string         `json:"status"`
		Reference string         `json:"reference"`
		PaidAt    string         `json:"paid_at"`
		Metadata  map[string]any `json:"metadata"`
	}
	path := "/transaction/verify/" + url.PathEscape(reference)
	if err := p.call(ctx, "verify", http.MethodGet, path, nil, &data); err != nil {
		return nil, err
	}
	if data.Status != "success" {
		return nil, &GatewayError{
			Provider: ProviderPaystack,
			Op:       "verify",
			Message:  fmt.Sprintf("payment %s is not successful (status %s)", reference, data.Status),
			Err:      ErrVerificationFailed,
		}
	}

	result := &VerifyResult{
		AmountPaid: decimal.NewFromInt(data.Amount).Div(koboPerNaira),
		Status:     data.Status,
		Reference:  data.Reference,
		Metadata:   data.Metadata,
	}
	if data.PaidAt != "" {
		if paidAt, err := time.Parse(time.RFC3339, data.PaidAt); err == nil {
			result.PaidAt = &paidAt
		}
	}
	return result, nil
}

func (p *Paystack) OpenCheckout(ctx context.Context, req InitializeRequest) (*CheckoutSession, error) {
	init, err := p.InitializePayment(ctx, req)
	if err != nil {
		return nil, err
	}
	return newCheckoutSession(ProviderPaystack, init.Reference, init.AuthorizationURL), nil
}

func (p *Paystack) ListBanks(ctx context.Context) ([]Bank, error) {
	var data []struct {
		Name string `json:"name"`
		Code string `json:"code"`
	}
	if err := p.call(ctx, "list_banks", http.MethodGet, "/bank?country=nigeria", nil, &data); err != nil {
		return nil, err
	}
	banks := make([]Bank, 0, len(data))
	for _, b := range data {
		banks = append(banks, Bank{Name: b.Name, Code: b.Code})
	}
	return banks, nil
}

func (p *Paystack) VerifyAccountNumber(ctx context.Context, accountNumber, bankCode string) (*AccountDetails, error) {
	var data struct {
		AccountName   string `json:"account_name"`
		AccountNumber string `json:"account_number"`
	}
	path := fmt.Sprintf("/bank/resolve?account_number=%s&bank_code=%s",
		url.QueryEscape(accountNumber), url.QueryEscape(bankCode))
	if err := p.call(ctx, "resolve_account", http.MethodGet, path, nil, &data); err != nil {
		return nil, err
	}
	return &AccountDetails{AccountName: data.AccountName, AccountNumber: data.AccountNumber}, nil
}

func (p *Paystack) CreateVirtualAccount(ctx context.Context, customer CustomerInfo) (*VirtualAccount, error) {
	payload := map[string]any{
		"email":          customer.Email,
		"first_name":     customer.FirstName,
		"last_name":      customer.LastName,
		"phone":          customer.Phone,
		"preferred_bank": "wema-bank",
	}

	var data struct {
		AccountNumber string `json:"account_number"`
		AccountName   string `json:"account_name"`
		Bank          struct {
			Name string `json:"name"`
			Code string `json:"code"`
		} `json:"bank"`
	}
	if err := p.call(ctx, "create_virtual_account", http.MethodPost, "/dedicated_account", payload, &data); err != nil {
		return nil, err
	}
	return &VirtualAccount{
		AccountNumber: data.AccountNumber,
		AccountName:   data.AccountName,
		BankName:      data.Bank.Name,
		BankCode:      data.Bank.Code,
	}, nil
}

func (p *Paystack) InitiateTransfer(ctx context.Context, req TransferRequest) (*TransferResult, error) {
	// Paystack transfers go to a pre-created recipient code.
	recipient, err := p.createTransferRecipient(ctx, req.RecipientName, req.RecipientAccount, req.RecipientBank)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{
		"source":    "balance",
		"amount":    req.Amount.Mul(koboPerNaira).Round(0).IntPart(),
		"recipient": recipient,
		"reference": req.Reference,
		"reason":    req.Narration,
	}

	var data struct {
		TransferCode string `json:"transfer_code"`
		Reference    string `json:"reference"`
		Status       string `json:"status"`
	}
	if err := p.call(ctx, "transfer", http.MethodPost, "/transfer", payload, &data); err != nil {
		return nil, err
	}
	return &TransferResult{TransferID: data.TransferCode, Reference: data.Reference, Status: data.Status}, nil
}

func (p *Paystack) createTransferRecipient(ctx context.Context, name, accountNumber, bankCode string) (string, error) {
	payload := map[string]any{
		"type":           "nuban",
		"name":           name,
		"account_number": accountNumber,
		"bank_code":      bankCode,
		"currency":       "NGN",
	}

	var data struct {
		RecipientCode string `json:"recipient_code"`
	}
	if err := p.call(ctx, "create_recipient", http.MethodPost, "/transferrecipient", payload, &data); err != nil {
		return "", err
	}
	return data.RecipientCode, nil
}
