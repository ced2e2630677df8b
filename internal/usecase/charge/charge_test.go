package charge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/LavaJover/shvark-checkout-service/internal/domain"
	"github.com/LavaJover/shvark-checkout-service/internal/infrastructure/memory"
	chargedto "github.com/LavaJover/shvark-checkout-service/internal/usecase/dto/charge"
	"github.com/LavaJover/shvark-checkout-service/internal/usecase/settlement"
	"github.com/LavaJover/shvark-checkout-service/internal/usecase/tracking"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	mu          sync.Mutex
	seq         int
	createCalls int
	lastCreds   domain.GatewayCredentials
	lastSplit   domain.PlatformSplit
	createErr   error
	statuses    map[string]domain.TransactionStatus
	values      map[string]int64
}

func (g *fakeGateway) CreateCharge(_ context.Context, req *domain.ChargeRequest, creds domain.GatewayCredentials, split domain.PlatformSplit) (*domain.GatewayCharge, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.createCalls++
	g.lastCreds = creds
	g.lastSplit = split
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.seq++
	return &domain.GatewayCharge{
		ID:           fmt.Sprintf("charge-%d", g.seq),
		QRCode:       "00020126pix",
		QRCodeBase64: "aW1hZ2U=",
		Status:       domain.StatusWaitingPayment,
		ValueInCents: req.ValueInCents,
	}, nil
}

func (g *fakeGateway) GetStatus(_ context.Context, chargeID string, _ domain.GatewayCredentials) (*domain.GatewayChargeStatus, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	status, ok := g.statuses[chargeID]
	if !ok {
		status = domain.StatusWaitingPayment
	}
	return &domain.GatewayChargeStatus{ID: chargeID, Status: status, ValueInCents: g.values[chargeID]}, nil
}

func (g *fakeGateway) setStatus(id string, status domain.TransactionStatus) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.statuses == nil {
		g.statuses = make(map[string]domain.TransactionStatus)
	}
	g.statuses[id] = status
}

func (g *fakeGateway) setValue(id string, value int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.values == nil {
		g.values = make(map[string]int64)
	}
	g.values[id] = value
}

type fakeTracker struct {
	mu       sync.Mutex
	statuses []string
	err      error
}

func (f *fakeTracker) SendOrderEvent(_ context.Context, payload *domain.TrackingPayload, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = append(f.statuses, payload.Status)
	return f.err
}

type fixture struct {
	store      *memory.Store
	gateway    *fakeGateway
	tracker    *fakeTracker
	dispatcher *tracking.Dispatcher
	uc         *DefaultChargeUsecase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := memory.NewStore()
	require.NoError(t, store.CreateProduct(ctx, &domain.Product{ID: "p-1", SellerID: "seller-1", Name: "Course", PriceInCents: 10000}))
	require.NoError(t, store.CreateProduct(ctx, &domain.Product{ID: "orphan", Name: "Orphan", PriceInCents: 100}))
	require.NoError(t, store.SavePlatformSettings(ctx, &domain.PlatformSettings{
		CommissionPercentage: 0.01,
		FixedFeeInCents:      100,
		GatewayAccountID:     "platform-acc",
	}))
	require.NoError(t, store.SaveAppSettings(ctx, &domain.AppSettings{
		SellerID:         "seller-1",
		PushInPayToken:   "pip-token",
		PushInPayEnabled: true,
		UtmifyToken:      "utm-token",
		UtmifyEnabled:    true,
	}))

	gateway := &fakeGateway{}
	tracker := &fakeTracker{}
	dispatcher := tracking.NewDispatcher(store, tracker, tracking.Config{Platform: "Checkout"}, logger, nil)
	t.Cleanup(dispatcher.Close)

	ledger := store.Ledger()
	settler := settlement.NewDefaultSettlementUsecase(ledger, dispatcher, nil, nil, logger)

	return &fixture{
		store:      store,
		gateway:    gateway,
		tracker:    tracker,
		dispatcher: dispatcher,
		uc:         NewDefaultChargeUsecase(ledger, gateway, settler, dispatcher, nil, nil, logger),
	}
}

func chargeInput(productID string) *chargedto.GenerateChargeInput {
	return &chargedto.GenerateChargeInput{
		Items: []chargedto.LineItemInput{
			{ProductID: productID, Name: "Course", PriceInCents: 10000, Quantity: 1},
		},
		Customer:     chargedto.CustomerInput{Name: "Ana", Email: "ana@example.com", WhatsApp: "5511999990000"},
		ValueInCents: 10000,
		Tracking:     domain.TrackingParameters{UtmSource: "instagram"},
	}
}

func TestGenerateChargeStoresWaitingTransaction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	charge, err := f.uc.GenerateCharge(ctx, chargeInput("p-1"))
	require.NoError(t, err)
	assert.Equal(t, "charge-1", charge.ID)
	assert.Equal(t, "00020126pix", charge.QRCode)
	assert.Equal(t, domain.StatusWaitingPayment, charge.Status)

	assert.Equal(t, domain.GatewayCredentials{Token: "pip-token", Enabled: true}, f.gateway.lastCreds)
	assert.Equal(t, domain.PlatformSplit{Percentage: 0.01, FixedFeeInCents: 100, AccountID: "platform-acc"}, f.gateway.lastSplit)

	tx, err := f.store.GetTransactionByID(ctx, "charge-1")
	require.NoError(t, err)
	assert.Equal(t, "seller-1", tx.SellerID)
	assert.Equal(t, domain.StatusWaitingPayment, tx.Status)
	assert.Equal(t, "aW1hZ2U=", tx.QRCodeBase64)
	assert.Equal(t, int64(10000), tx.OriginalValueInCents)
	assert.Equal(t, "instagram", tx.Tracking.UtmSource)
	assert.Nil(t, tx.PaidAt)

	f.dispatcher.Close()
	assert.Equal(t, []string{"waiting_payment"}, f.tracker.statuses)
}

func TestGenerateChargeOwnerNotFound(t *testing.T) {
	for _, productID := range []string{"missing", "orphan"} {
		t.Run(productID, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.uc.GenerateCharge(context.Background(), chargeInput(productID))
			require.ErrorIs(t, err, domain.ErrOwnerNotFound)
			assert.Equal(t, domain.KindOwnerNotFound, domain.KindOf(err))
			assert.Zero(t, f.gateway.createCalls)

			pending, err := f.store.FindPendingTransactions(context.Background(), time.Now().Add(time.Hour), 0)
			require.NoError(t, err)
			assert.Empty(t, pending)
		})
	}
}

func TestGenerateChargeGatewayNotConfigured(t *testing.T) {
	cases := []struct {
		name     string
		settings *domain.AppSettings
	}{
		{name: "missing settings"},
		{name: "disabled", settings: &domain.AppSettings{SellerID: "seller-2", PushInPayToken: "tok"}},
		{name: "empty token", settings: &domain.AppSettings{SellerID: "seller-2", PushInPayEnabled: true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			require.NoError(t, f.store.CreateProduct(ctx, &domain.Product{ID: "p-2", SellerID: "seller-2"}))
			if tc.settings != nil {
				require.NoError(t, f.store.SaveAppSettings(ctx, tc.settings))
			}

			_, err := f.uc.GenerateCharge(ctx, chargeInput("p-2"))
			require.ErrorIs(t, err, domain.ErrGatewayNotConfigured)
			assert.Equal(t, domain.KindGatewayNotConfigured, domain.KindOf(err))
			assert.Zero(t, f.gateway.createCalls)
		})
	}
}

func TestGenerateChargeValidatesInput(t *testing.T) {
	f := newFixture(t)

	in := chargeInput("p-1")
	in.Customer.Email = "not-an-email"
	_, err := f.uc.GenerateCharge(context.Background(), in)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	in = chargeInput("p-1")
	in.Items = nil
	_, err = f.uc.GenerateCharge(context.Background(), in)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	in = chargeInput("p-1")
	in.IsUpsell = true
	_, err = f.uc.GenerateCharge(context.Background(), in)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Zero(t, f.gateway.createCalls)
}

func TestGenerateChargeGatewayRejection(t *testing.T) {
	f := newFixture(t)
	f.gateway.createErr = fmt.Errorf("%w: value below minimum", domain.ErrGatewayRejected)

	_, err := f.uc.GenerateCharge(context.Background(), chargeInput("p-1"))
	require.ErrorIs(t, err, domain.ErrGatewayRejected)

	pending, err := f.store.FindPendingTransactions(context.Background(), time.Now().Add(time.Hour), 0)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestGenerateChargeIgnoresTrackingFailure(t *testing.T) {
	f := newFixture(t)
	f.tracker.err = errors.New("tracking down")

	charge, err := f.uc.GenerateCharge(context.Background(), chargeInput("p-1"))
	require.NoError(t, err)
	assert.Equal(t, "charge-1", charge.ID)
}

func TestCheckStatusPaidSettlesTransaction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.GenerateCharge(ctx, chargeInput("p-1"))
	require.NoError(t, err)
	f.gateway.setStatus("charge-1", domain.StatusPaid)

	out, err := f.uc.CheckStatus(ctx, "charge-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, out.Status)
	assert.Equal(t, "00020126pix", out.QRCode)
	assert.Equal(t, "sale_seller-1_charge-1", out.SaleID)
	assert.NotNil(t, out.PaidAt)

	sale, err := f.store.GetSaleByID(ctx, out.SaleID)
	require.NoError(t, err)
	assert.Equal(t, int64(9600), sale.Commission.UserCommissionInCents)

	again, err := f.uc.CheckStatus(ctx, "charge-1")
	require.NoError(t, err)
	assert.Equal(t, out.SaleID, again.SaleID)
}

func TestCheckStatusExpiredClosesTransaction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.GenerateCharge(ctx, chargeInput("p-1"))
	require.NoError(t, err)
	f.gateway.setStatus("charge-1", domain.StatusExpired)

	out, err := f.uc.CheckStatus(ctx, "charge-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusExpired, out.Status)

	tx, err := f.store.GetTransactionByID(ctx, "charge-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusExpired, tx.Status)

	_, err = f.store.GetSaleByID(ctx, "sale_seller-1_charge-1")
	assert.ErrorIs(t, err, domain.ErrSaleNotFound)
}

func TestCheckStatusWithDisabledGateway(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.GenerateCharge(ctx, chargeInput("p-1"))
	require.NoError(t, err)
	require.NoError(t, f.store.SaveAppSettings(ctx, &domain.AppSettings{SellerID: "seller-1"}))

	out, err := f.uc.CheckStatus(ctx, "charge-1")
	require.ErrorIs(t, err, domain.ErrGatewayNotConfigured)
	require.NotNil(t, out)
	assert.Equal(t, domain.StatusFailed, out.Status)
	assert.Equal(t, "charge-1", out.TransactionID)
	assert.Equal(t, "00020126pix", out.QRCode)

	tx, err := f.store.GetTransactionByID(ctx, "charge-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusWaitingPayment, tx.Status)
}

func TestCheckStatusUnknownTransaction(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.CheckStatus(context.Background(), "nope")
	require.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestHandleNotificationFollowsGateway(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.GenerateCharge(ctx, chargeInput("p-1"))
	require.NoError(t, err)
	f.gateway.setStatus("charge-1", domain.StatusPaid)

	out, err := f.uc.HandleNotification(ctx, domain.GatewayNotification{ID: "charge-1", Status: "paid"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, out.Status)
	assert.Equal(t, "sale_seller-1_charge-1", out.SaleID)

	tx, err := f.store.GetTransactionByID(ctx, "charge-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, tx.Status)
	assert.NotNil(t, tx.PaidAt)

	repeat, err := f.uc.HandleNotification(ctx, domain.GatewayNotification{ID: "charge-1", Status: "paid"})
	require.NoError(t, err)
	assert.Equal(t, out.SaleID, repeat.SaleID)

	late, err := f.uc.HandleNotification(ctx, domain.GatewayNotification{ID: "charge-1", Status: "expired"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, late.Status)

	_, err = f.uc.HandleNotification(ctx, domain.GatewayNotification{Status: "paid"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.HandleNotification(ctx, domain.GatewayNotification{ID: "nope", Status: "paid"})
	require.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestHandleNotificationIgnoresUnconfirmedPaidClaim(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.GenerateCharge(ctx, chargeInput("p-1"))
	require.NoError(t, err)

	out, err := f.uc.HandleNotification(ctx, domain.GatewayNotification{ID: "charge-1", Status: "paid"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusWaitingPayment, out.Status)
	assert.Empty(t, out.SaleID)

	tx, err := f.store.GetTransactionByID(ctx, "charge-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusWaitingPayment, tx.Status)
	assert.Nil(t, tx.PaidAt)

	_, err = f.store.GetSaleByID(ctx, "sale_seller-1_charge-1")
	assert.ErrorIs(t, err, domain.ErrSaleNotFound)
	_, err = f.store.GetCustomer(ctx, "seller-1", "ana@example.com")
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestCheckStatusLogsValueMismatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	logger, hook := logtest.NewNullLogger()
	f.uc.Logger = logger

	_, err := f.uc.GenerateCharge(ctx, chargeInput("p-1"))
	require.NoError(t, err)
	f.gateway.setStatus("charge-1", domain.StatusPaid)
	f.gateway.setValue("charge-1", 100)

	out, err := f.uc.CheckStatus(ctx, "charge-1")
	require.NoError(t, err)
	assert.Equal(t, int64(10000), out.ValueInCents)

	var mismatch *logrus.Entry
	for _, entry := range hook.AllEntries() {
		if entry.Message == "gateway reports a different charge value" {
			mismatch = entry
		}
	}
	require.NotNil(t, mismatch)
	assert.Equal(t, logrus.WarnLevel, mismatch.Level)
	assert.Equal(t, int64(10000), mismatch.Data["stored_value"])
	assert.Equal(t, int64(100), mismatch.Data["gateway_value"])
}

func TestSweepPendingChecksOldCharges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.GenerateCharge(ctx, chargeInput("p-1"))
	require.NoError(t, err)
	_, err = f.uc.GenerateCharge(ctx, chargeInput("p-1"))
	require.NoError(t, err)
	f.gateway.setStatus("charge-1", domain.StatusPaid)
	f.gateway.setStatus("charge-2", domain.StatusCancelled)

	f.uc.now = func() time.Time { return time.Now().Add(time.Hour) }
	checked, err := f.uc.SweepPending(ctx, 30*time.Minute, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, checked)

	tx1, err := f.store.GetTransactionByID(ctx, "charge-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, tx1.Status)
	tx2, err := f.store.GetTransactionByID(ctx, "charge-2")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, tx2.Status)
}
