package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/LavaJover/shvark-checkout-service/internal/domain"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublishCheckoutEvent(t *testing.T) {
	w := &fakeWriter{}
	p := &DefaultKafkaPublisher{writer: w, eventsTopic: "checkout-events"}

	event := domain.CheckoutEvent{
		Type:          domain.EventSalePaid,
		SellerID:      "seller-1",
		TransactionID: "tx-1",
		SaleID:        "sale_seller-1_tx-1",
		Status:        domain.StatusPaid,
		AmountInCents: 4990,
		OccurredAt:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p.PublishCheckoutEvent(context.Background(), event))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "checkout-events", w.msgs[0].Topic)
	assert.Equal(t, []byte("tx-1"), w.msgs[0].Key)

	var decoded domain.CheckoutEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
	assert.Equal(t, event, decoded)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublishPropagatesWriterError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := &DefaultKafkaPublisher{writer: w, eventsTopic: "checkout-events"}

	err := p.Publish(context.Background(), "pix-webhooks", domain.Message{Key: []byte("k"), Value: []byte("v")})
	assert.EqualError(t, err, "broker down")
}
