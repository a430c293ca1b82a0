package events

import "context"

// Event types
const (
	EventEscrowStatusChanged = "escrow_status_changed"
	EventPaymentReceived     = "payment_received"
	EventInspectionUpdated   = "inspection_updated"
	EventTransferInitiated   = "transfer_initiated"
)

// Channels
const (
	ChannelEscrow      = "events:escrow"
	ChannelPayments    = "events:payments"
	ChannelInspections = "events:inspections"
)

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, channel string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, channel string, handler func(Event)) error
}
