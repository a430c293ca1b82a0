package gateway

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutSessionSucceedThenWait(t *testing.T) {
	s := newCheckoutSession(ProviderPaystack, "ESC_1_1", "https://checkout.paystack.com/x")

	require.NoError(t, s.Succeed(map[string]any{"reference": "ESC_1_1"}))

	outcome, err := s.Wait(context.Background())
	require.NoError(t, err)
	assert.True(t, outcome.Completed)
	assert.Equal(t, "ESC_1_1", outcome.Payload["reference"])
}

func TestCheckoutSessionSettlesExactlyOnce(t *testing.T) {
	s := newCheckoutSession(ProviderPaystack, "ESC_1_2", "https://checkout.paystack.com/x")

	require.NoError(t, s.Succeed(nil))
	assert.ErrorIs(t, s.Succeed(nil), ErrCheckoutSettled)
	assert.ErrorIs(t, s.Close(), ErrCheckoutSettled)
}

func TestCheckoutSessionCloseBeforeSucceed(t *testing.T) {
	s := newCheckoutSession(ProviderFlutterwave, "ESC_1_3", "https://checkout.flutterwave.com/x")

	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Succeed(map[string]any{}), ErrCheckoutSettled)

	outcome, err := s.Wait(context.Background())
	require.NoError(t, err)
	assert.False(t, outcome.Completed)
}

func TestCheckoutSessionConcurrentSettlement(t *testing.T) {
	s := newCheckoutSession(ProviderPaystack, "ESC_1_4", "https://checkout.paystack.com/x")

	var wg sync.WaitGroup
	results := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if n%2 == 0 {
				results <- s.Succeed(nil)
			} else {
				results <- s.Close()
			}
		}(i)
	}
	wg.Wait()
	close(results)

	settled := 0
	for err := range results {
		if err == nil {
			settled++
		} else {
			assert.ErrorIs(t, err, ErrCheckoutSettled)
		}
	}
	assert.Equal(t, 1, settled)
}

func TestCheckoutSessionWaitRespectsContext(t *testing.T) {
	s := newCheckoutSession(ProviderPaystack, "ESC_1_5", "https://checkout.paystack.com/x")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := s.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
