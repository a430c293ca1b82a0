package events

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestPublishSubscribeRoundTrip(t *testing.T) {
	client := newTestRedis(t)
	log := zap.NewNop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan Event, 1)
	sub := NewRedisSubscriber(client, log)
	require.NoError(t, sub.Subscribe(ctx, ChannelEscrow, func(e Event) {
		received <- e
	}))

	// Give the subscriber goroutine a moment to attach.
	time.Sleep(50 * time.Millisecond)

	pub := NewRedisPublisher(client, log)
	require.NoError(t, pub.Publish(ctx, ChannelEscrow, Event{
		Type:    EventEscrowStatusChanged,
		Payload: map[string]any{"escrow_id": "abc", "old_status": "initiated", "new_status": "funded"},
	}))

	select {
	case e := <-received:
		assert.Equal(t, EventEscrowStatusChanged, e.Type)
		assert.Equal(t, "funded", e.Payload["new_status"])
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestSubscribeStopsOnContextCancel(t *testing.T) {
	client := newTestRedis(t)
	log := zap.NewNop()

	ctx, cancel := context.WithCancel(context.Background())

	received := make(chan Event, 1)
	sub := NewRedisSubscriber(client, log)
	require.NoError(t, sub.Subscribe(ctx, ChannelPayments, func(e Event) {
		received <- e
	}))

	time.Sleep(50 * time.Millisecond)
	cancel()
	time.Sleep(50 * time.Millisecond)

	pub := NewRedisPublisher(client, log)
	_ = pub.Publish(context.Background(), ChannelPayments, Event{Type: EventPaymentReceived})

	select {
	case <-received:
		t.Fatal("handler ran after cancellation")
	case <-time.After(200 * time.Millisecond):
	}
}
