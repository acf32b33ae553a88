package events

import "context"

// Stream carrying all transfer outcomes, consumed by the WS hub.
const StreamTransfers = "events:transfers"

// Event types
const (
	EventTransferSubmitted = "transfer_submitted"
	EventTransferFailed    = "transfer_failed"
	EventFaucetClaimed     = "faucet_claimed"
)

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, stream string, handler func(Event)) error
}
