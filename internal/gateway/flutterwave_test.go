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

func newTestFlutterwave(t *testing.T) *Flutterwave {
	t.Helper()
	f := NewFlutterwave(FlutterwaveConfig{SecretKey: "FLWSECK_TEST-xxx"}, zap.NewNop())
	httpmock.ActivateNonDefault(f.httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)
	return f
}

func TestFlutterwaveInitializePaymentSendsPlainNaira(t *testing.T) {
	f := newTestFlutterwave(t)

	var payload map[string]any
	httpmock.RegisterResponder(http.MethodPost, "https://api.flutterwave.com/v3/payments",
		func(req *http.Request) (*http.Response, error) {
			if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
				return nil, err
			}
			return httpmock.NewJsonResponse(200, map[string]any{
				"status":  "success",
				"message": "Hosted link",
				"data":    map[string]any{"link": "https://checkout.flutterwave.com/pay/xyz"},
			})
		})

	result, err := f.InitializePayment(context.Background(), InitializeRequest{
		Payer:     PayerContact{Email: "buyer@example.com", Name: "Ada Buyer", Phone: "08012345678"},
		Amount:    decimal.RequireFromString("20300000"),
		Reference: "ESC_1700000000000_7",
	})
	require.NoError(t, err)

	// No kobo conversion for Flutterwave.
	assert.Equal(t, "20300000", payload["amount"])
	assert.Equal(t, "ESC_1700000000000_7", payload["tx_ref"])
	customer := payload["customer"].(map[string]any)
	assert.Equal(t, "buyer@example.com", customer["email"])
	assert.Equal(t, "https://checkout.flutterwave.com/pay/xyz", result.AuthorizationURL)
	assert.Equal(t, "ESC_1700000000000_7", result.Reference)
}

func TestFlutterwaveVerifyPayment(t *testing.T) {
	f := newTestFlutterwave(t)

	httpmock.RegisterResponder(http.MethodGet, "https://api.flutterwave.com/v3/transactions/ESC_1_9/verify",
		httpmock.NewJsonResponderOrPanic(200, map[string]any{
			"status":  "success",
			"message": "Transaction fetched",
			"data": map[string]any{
				"amount":     20300000,
				"status":     "successful",
				"tx_ref":     "ESC_1_9",
				"created_at": "2026-08-28T10:15:00Z",
			},
		}))

	result, err := f.VerifyPayment(context.Background(), "ESC_1_9")
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("20300000").Equal(result.AmountPaid))
	assert.Equal(t, "ESC_1_9", result.Reference)
	require.NotNil(t, result.PaidAt)
}

func TestFlutterwaveVerifyPaymentNotSuccessful(t *testing.T) {
	f := newTestFlutterwave(t)

	httpmock.RegisterResponder(http.MethodGet, "https://api.flutterwave.com/v3/transactions/ESC_1_10/verify",
		httpmock.NewJsonResponderOrPanic(200, map[string]any{
			"status":  "success",
			"message": "Transaction fetched",
			"data": map[string]any{
				"amount": 100,
				"status": "failed",
				"tx_ref": "ESC_1_10",
			},
		}))

	_, err := f.VerifyPayment(context.Background(), "ESC_1_10")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrVerificationFailed)
}

func TestFlutterwaveErrorsAreNormalized(t *testing.T) {
	f := newTestFlutterwave(t)

	httpmock.RegisterResponder(http.MethodPost, "https://api.flutterwave.com/v3/payments",
		httpmock.NewJsonResponderOrPanic(400, map[string]any{
			"status":  "error",
			"message": "Invalid currency passed",
		}))

	_, err := f.InitializePayment(context.Background(), InitializeRequest{
		Amount:    decimal.RequireFromString("100"),
		Reference: "ESC_1_11",
	})
	require.Error(t, err)

	var gwErr *GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, ProviderFlutterwave, gwErr.Provider)
	assert.Equal(t, "Invalid currency passed", gwErr.Message)
}

func TestFlutterwaveNetworkFailureHidesDetail(t *testing.T) {
	f := newTestFlutterwave(t)

	httpmock.RegisterResponder(http.MethodGet, "https://api.flutterwave.com/v3/banks/NG",
		httpmock.NewErrorResponder(errors.New("dial tcp: timeout")))

	_, err := f.ListBanks(context.Background())
	require.Error(t, err)

	var gwErr *GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, "payment service is unavailable, please retry", gwErr.Message)
}

func TestFlutterwaveInitiateTransfer(t *testing.T) {
	f := newTestFlutterwave(t)

	httpmock.RegisterResponder(http.MethodPost, "https://api.flutterwave.com/v3/transfers",
		httpmock.NewJsonResponderOrPanic(200, map[string]any{
			"status":  "success",
			"message": "Transfer queued",
			"data": map[string]any{
				"id":        984321,
				"reference": "TRF_2_2",
				"status":    "NEW",
			},
		}))

	result, err := f.InitiateTransfer(context.Background(), TransferRequest{
		Amount:           decimal.RequireFromString("18500000"),
		RecipientAccount: "0123456789",
		RecipientBank:    "058",
		Reference:        "TRF_2_2",
		Narration:        "Escrow refund",
	})
	require.NoError(t, err)

	assert.Equal(t, "984321", result.TransferID)
	assert.Equal(t, "NEW", result.Status)
}
