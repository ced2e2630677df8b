package tracking

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/LavaJover/shvark-checkout-service/internal/domain"
	"github.com/LavaJover/shvark-checkout-service/internal/infrastructure/memory"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	mu       sync.Mutex
	payloads []*domain.TrackingPayload
	tokens   []string
	err      error
	panicMsg string
	started  chan struct{}
	release  chan struct{}
}

func (c *fakeClient) SendOrderEvent(_ context.Context, payload *domain.TrackingPayload, token string) error {
	if c.started != nil {
		c.started <- struct{}{}
	}
	if c.release != nil {
		<-c.release
	}
	if c.panicMsg != "" {
		panic(c.panicMsg)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.payloads = append(c.payloads, payload)
	c.tokens = append(c.tokens, token)
	return c.err
}

func (c *fakeClient) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.payloads)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func sampleSale() *domain.Sale {
	created := time.Date(2024, 5, 1, 15, 0, 0, 0, time.UTC)
	paid := created.Add(2 * time.Minute)
	return &domain.Sale{
		ID:            domain.SaleID("seller-1", "tx-1"),
		SellerID:      "seller-1",
		TransactionID: "tx-1",
		Customer:      domain.CustomerInfo{Name: " Ana ", Email: "ana@example.com", WhatsApp: ""},
		Items: []domain.LineItem{
			{ProductID: "p-1", Name: "Course", PriceInCents: 10000},
			{ProductID: "p-2", Name: "Bump", PriceInCents: 1990, Quantity: 2, IsOrderBump: true},
		},
		Status:    domain.StatusPaid,
		CreatedAt: created,
		PaidAt:    &paid,
		Tracking:  domain.TrackingParameters{UtmSource: "  google ", UtmMedium: "   "},
		Commission: domain.Commission{
			TotalPriceInCents:     10000,
			GatewayFeeInCents:     200,
			PlatformFeeInCents:    200,
			UserCommissionInCents: 9600,
		},
	}
}

func TestBuildPayloadFromPaidSale(t *testing.T) {
	payload, err := BuildPayload(SaleSource(sampleSale()), domain.StatusPaid, "Checkout")
	require.NoError(t, err)

	assert.Equal(t, "tx-1", payload.OrderID)
	assert.Equal(t, "Checkout", payload.Platform)
	assert.Equal(t, "pix", payload.PaymentMethod)
	assert.Equal(t, "paid", payload.Status)
	assert.Equal(t, "2024-05-01T12:00:00-03:00", payload.CreatedAt)
	require.NotNil(t, payload.ApprovedDate)
	assert.Equal(t, "2024-05-01T12:02:00-03:00", *payload.ApprovedDate)
	assert.Nil(t, payload.RefundedAt)

	assert.Equal(t, "Ana", payload.Customer.Name)
	assert.Nil(t, payload.Customer.Phone)
	assert.Equal(t, "BR", payload.Customer.Country)

	require.Len(t, payload.Products, 2)
	assert.Equal(t, 1, payload.Products[0].Quantity)
	assert.Equal(t, 2, payload.Products[1].Quantity)

	require.NotNil(t, payload.TrackingParameters.UtmSource)
	assert.Equal(t, "google", *payload.TrackingParameters.UtmSource)
	assert.Nil(t, payload.TrackingParameters.UtmMedium)
	assert.Nil(t, payload.TrackingParameters.Src)

	assert.Equal(t, int64(9600), payload.Commission.UserCommissionInCents)
}

func TestBuildPayloadFromWaitingTransaction(t *testing.T) {
	tx := &domain.PixTransaction{
		ID:        "tx-9",
		SellerID:  "seller-1",
		Status:    domain.StatusWaitingPayment,
		CreatedAt: time.Date(2024, 1, 1, 2, 30, 0, 0, time.UTC),
		Customer:  domain.CustomerInfo{Name: "Bia", Email: "bia@example.com", WhatsApp: " 5511999 "},
		Items:     []domain.LineItem{{ProductID: "p-1", Name: "Course", PriceInCents: 5000, Quantity: 1}},
	}
	commission := domain.Commission{TotalPriceInCents: 5000, GatewayFeeInCents: 150, UserCommissionInCents: 4850}

	payload, err := BuildPayload(TransactionSource(tx, commission), domain.StatusWaitingPayment, "Checkout")
	require.NoError(t, err)

	assert.Equal(t, "tx-9", payload.OrderID)
	assert.Equal(t, "waiting_payment", payload.Status)
	assert.Equal(t, "2023-12-31T23:30:00-03:00", payload.CreatedAt)
	assert.Nil(t, payload.ApprovedDate)
	require.NotNil(t, payload.Customer.Phone)
	assert.Equal(t, "5511999", *payload.Customer.Phone)
	assert.Equal(t, int64(150), payload.Commission.GatewayFeeInCents)
}

func TestBuildPayloadRejectsEmptySource(t *testing.T) {
	_, err := BuildPayload(OrderEventSource{}, domain.StatusPaid, "Checkout")
	assert.Error(t, err)
}

func newTestDispatcher(t *testing.T, client domain.TrackingClient, cfg Config, apps ...domain.AppSettings) *Dispatcher {
	t.Helper()
	store := memory.NewStore()
	for i := range apps {
		require.NoError(t, store.SaveAppSettings(context.Background(), &apps[i]))
	}
	cfg.Platform = "Checkout"
	return NewDispatcher(store, client, cfg, quietLogger(), nil)
}

func enabledTracking(sellerID string) domain.AppSettings {
	return domain.AppSettings{SellerID: sellerID, UtmifyEnabled: true, UtmifyToken: "utm-token"}
}

func TestDispatchSendsWhenTrackingEnabled(t *testing.T) {
	client := &fakeClient{}
	d := newTestDispatcher(t, client, Config{Workers: 2, QueueSize: 10}, enabledTracking("seller-1"))

	d.Dispatch(SaleSource(sampleSale()), domain.StatusPaid)
	d.Close()

	require.Equal(t, 1, client.calls())
	assert.Equal(t, "utm-token", client.tokens[0])
	assert.Equal(t, "tx-1", client.payloads[0].OrderID)
}

func TestDispatchSkipsWhenTrackingDisabled(t *testing.T) {
	cases := []struct {
		name string
		apps []domain.AppSettings
	}{
		{name: "no settings"},
		{name: "disabled", apps: []domain.AppSettings{{SellerID: "seller-1", UtmifyToken: "utm-token"}}},
		{name: "empty token", apps: []domain.AppSettings{{SellerID: "seller-1", UtmifyEnabled: true}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := &fakeClient{}
			d := newTestDispatcher(t, client, Config{}, tc.apps...)

			d.Dispatch(SaleSource(sampleSale()), domain.StatusPaid)
			d.Close()

			assert.Equal(t, 0, client.calls())
		})
	}
}

func TestDispatchSurvivesClientFailures(t *testing.T) {
	failing := &fakeClient{err: errors.New("utmify down")}
	d := newTestDispatcher(t, failing, Config{}, enabledTracking("seller-1"))
	assert.NotPanics(t, func() {
		d.Dispatch(SaleSource(sampleSale()), domain.StatusPaid)
		d.Close()
	})
	assert.Equal(t, 1, failing.calls())

	panicking := &fakeClient{panicMsg: "boom"}
	d = newTestDispatcher(t, panicking, Config{}, enabledTracking("seller-1"))
	assert.NotPanics(t, func() {
		d.Dispatch(SaleSource(sampleSale()), domain.StatusPaid)
		d.Close()
	})
}

func TestDispatchDropsWhenQueueFull(t *testing.T) {
	client := &fakeClient{started: make(chan struct{}, 3), release: make(chan struct{})}
	d := newTestDispatcher(t, client, Config{Workers: 1, QueueSize: 1}, enabledTracking("seller-1"))

	d.Dispatch(SaleSource(sampleSale()), domain.StatusPaid)
	<-client.started

	d.Dispatch(SaleSource(sampleSale()), domain.StatusPaid)
	d.Dispatch(SaleSource(sampleSale()), domain.StatusPaid)

	close(client.release)
	d.Close()

	assert.Equal(t, 2, client.calls())
}

func TestDispatchAfterCloseIsDropped(t *testing.T) {
	client := &fakeClient{}
	d := newTestDispatcher(t, client, Config{}, enabledTracking("seller-1"))
	d.Close()

	assert.NotPanics(t, func() {
		d.Dispatch(SaleSource(sampleSale()), domain.StatusPaid)
	})
	assert.Equal(t, 0, client.calls())
}
