package domain

import (
	"context"
	"time"
)

type Message struct {
	Key   []byte
	Value []byte
}

type PublisherPort interface {
	Publish(ctx context.Context, topic string, msgs ...Message) error
}

type SubscriberPort interface {
	Subscribe(ctx context.Context, topic, groupID string) (<-chan Message, error)
}

type CheckoutEventType string

const (
	EventChargeCreated CheckoutEventType = "CHARGE_CREATED"
	EventChargeClosed  CheckoutEventType = "CHARGE_CLOSED"
	EventSalePaid      CheckoutEventType = "SALE_PAID"
)

type CheckoutEvent struct {
	Type          CheckoutEventType `json:"type"`
	SellerID      string            `json:"seller_id"`
	TransactionID string            `json:"transaction_id"`
	SaleID        string            `json:"sale_id,omitempty"`
	Status        TransactionStatus `json:"status"`
	AmountInCents int64             `json:"amount_in_cents"`
	IsUpsell      bool              `json:"is_upsell"`
	OccurredAt    time.Time         `json:"occurred_at"`
}

// EventPublisher emits checkout events to the stream; failures are for logging only.
type EventPublisher interface {
	PublishCheckoutEvent(ctx context.Context, event CheckoutEvent) error
}
