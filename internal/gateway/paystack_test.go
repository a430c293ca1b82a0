package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestPaystack(t *testing.T) *Paystack {
	t.Helper()
	p := NewPaystack(PaystackConfig{SecretKey: "sk_test_xxx"}, zap.NewNop())
	httpmock.ActivateNonDefault(p.httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)
	return p
}

func TestPaystackInitializePaymentConvertsToKobo(t *testing.T) {
	p := newTestPaystack(t)

	var sentAmount int64
	httpmock.RegisterResponder(http.MethodPost, "https://api.paystack.co/transaction/initialize",
		func(req *http.Request) (*http.Response, error) {
			var body map[string]any
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				return nil, err
			}
			sentAmount = int64(body["amount"].(float64))
			assert.Equal(t, "Bearer sk_test_xxx", req.Header.Get("Authorization"))
			return httpmock.NewJsonResponse(200, map[string]any{
				"status":  true,
				"message": "Authorization URL created",
				"data": map[string]any{
					"authorization_url": "https://checkout.paystack.com/abc123",
					"access_code":       "abc123",
					"reference":         "ESC_1700000000000_42",
				},
			})
		})

	result, err := p.InitializePayment(context.Background(), InitializeRequest{
		Payer:     PayerContact{Email: "buyer@example.com"},
		Amount:    decimal.RequireFromString("20300000"),
		Reference: "ESC_1700000000000_42",
	})
	require.NoError(t, err)

	// 20,300,000 naira is 2,030,000,000 kobo on the wire.
	assert.Equal(t, int64(2030000000), sentAmount)
	assert.Equal(t, "https://checkout.paystack.com/abc123", result.AuthorizationURL)
	assert.Equal(t, "abc123", result.AccessCode)
	assert.Equal(t, "ESC_1700000000000_42", result.Reference)
}

func TestPaystackVerifyPaymentConvertsFromKobo(t *testing.T) {
	p := newTestPaystack(t)

	httpmock.RegisterResponder(http.MethodGet, "https://api.paystack.co/transaction/verify/ESC_1_2",
		httpmock.NewJsonResponderOrPanic(200, map[string]any{
			"status":  true,
			"message": "Verification successful",
			"data": map[string]any{
				"amount":    2030000000,
				"status":    "success",
				"reference": "ESC_1_2",
				"paid_at":   "2026-08-28T10:15:00Z",
			},
		}))

	result, err := p.VerifyPayment(context.Background(), "ESC_1_2")
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("20300000").Equal(result.AmountPaid))
	assert.Equal(t, "success", result.Status)
	require.NotNil(t, result.PaidAt)
}

func TestPaystackVerifyPaymentNotSuccessful(t *testing.T) {
	p := newTestPaystack(t)

	httpmock.RegisterResponder(http.MethodGet, "https://api.paystack.co/transaction/verify/ESC_1_3",
		httpmock.NewJsonResponderOrPanic(200, map[string]any{
			"status":  true,
			"message": "Verification successful",
			"data": map[string]any{
				"amount":    100,
				"status":    "abandoned",
				"reference": "ESC_1_3",
			},
		}))

	_, err := p.VerifyPayment(context.Background(), "ESC_1_3")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrVerificationFailed)

	var gwErr *GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, ProviderPaystack, gwErr.Provider)
}

func TestPaystackErrorsAreNormalized(t *testing.T) {
	p := newTestPaystack(t)

	httpmock.RegisterResponder(http.MethodGet, "https://api.paystack.co/transaction/verify/missing",
		httpmock.NewJsonResponderOrPanic(404, map[string]any{
			"status":  false,
			"message": "Transaction reference not found",
		}))

	_, err := p.VerifyPayment(context.Background(), "missing")
	require.Error(t, err)

	var gwErr *GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, "Transaction reference not found", gwErr.Message)
	assert.Equal(t, "verify", gwErr.Op)
}

func TestPaystackNetworkFailureHidesDetail(t *testing.T) {
	p := newTestPaystack(t)

	httpmock.RegisterResponder(http.MethodGet, "https://api.paystack.co/bank",
		httpmock.NewErrorResponder(errors.New("connection refused")))

	_, err := p.ListBanks(context.Background())
	require.Error(t, err)

	var gwErr *GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, "payment service is unavailable, please retry", gwErr.Message)
}

func TestPaystackListBanks(t *testing.T) {
	p := newTestPaystack(t)

	httpmock.RegisterResponder(http.MethodGet, "https://api.paystack.co/bank",
		httpmock.NewJsonResponderOrPanic(200, map[string]any{
			"status":  true,
			"message": "Banks retrieved",
			"data": []map[string]any{
				{"name": "Access Bank", "code": "044"},
				{"name": "GTBank", "code": "058"},
			},
		}))

	banks, err := p.ListBanks(context.Background())
	require.NoError(t, err)
	require.Len(t, banks, 2)
	assert.Equal(t, Bank{Name: "Access Bank", Code: "044"}, banks[0])
}

func TestPaystackInitiateTransferCreatesRecipientFirst(t *testing.T) {
	p := newTestPaystack(t)

	httpmock.RegisterResponder(http.MethodPost, "https://api.paystack.co/transferrecipient",
		httpmock.NewJsonResponderOrPanic(200, map[string]any{
			"status":  true,
			"message": "Transfer recipient created",
			"data":    map[string]any{"recipient_code": "RCP_abc"},
		}))

	var transferPayload map[string]any
	httpmock.RegisterResponder(http.MethodPost, "https://api.paystack.co/transfer",
		func(req *http.Request) (*http.Response, error) {
			if err := json.NewDecoder(req.Body).Decode(&transferPayload); err != nil {
				return nil, err
			}
			return httpmock.NewJsonResponse(200, map[string]any{
				"status":  true,
				"message": "Transfer queued",
				"data": map[string]any{
					"transfer_code": "TRF_xyz",
					"reference":     "TRF_1_1",
					"status":        "pending",
				},
			})
		})

	result, err := p.InitiateTransfer(context.Background(), TransferRequest{
		Amount:           decimal.RequireFromString("18500000"),
		RecipientAccount: "0123456789",
		RecipientBank:    "058",
		RecipientName:    "Dealer Motors Ltd",
		Reference:        "TRF_1_1",
		Narration:        "Escrow release",
	})
	require.NoError(t, err)

	assert.Equal(t, "RCP_abc", transferPayload["recipient"])
	assert.Equal(t, float64(1850000000), transferPayload["amount"])
	assert.Equal(t, "TRF_xyz", result.TransferID)
	assert.Equal(t, "pending", result.Status)
}
