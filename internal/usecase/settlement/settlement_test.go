package settlement

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/LavaJover/shvark-checkout-service/internal/domain"
	"github.com/LavaJover/shvark-checkout-service/internal/infrastructure/memory"
	"github.com/LavaJover/shvark-checkout-service/internal/usecase/tracking"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTracker struct {
	mu       sync.Mutex
	payloads []*domain.TrackingPayload
	err      error
}

func (r *recordingTracker) SendOrderEvent(_ context.Context, payload *domain.TrackingPayload, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payloads = append(r.payloads, payload)
	return r.err
}

type failingCustomers struct {
	domain.CustomerRepository
}

func (failingCustomers) SaveCustomer(context.Context, *domain.Customer) error {
	return errors.New("disk full")
}

type fixture struct {
	store      *memory.Store
	tracker    *recordingTracker
	dispatcher *tracking.Dispatcher
	uc         *DefaultSettlementUsecase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := memory.NewStore()
	require.NoError(t, store.CreateProduct(ctx, &domain.Product{ID: "p-1", SellerID: "seller-1", Name: "Course", PriceInCents: 10000}))
	require.NoError(t, store.CreateProduct(ctx, &domain.Product{ID: "p-2", SellerID: "seller-1", Name: "Ebook", PriceInCents: 5000}))
	require.NoError(t, store.SavePlatformSettings(ctx, &domain.PlatformSettings{CommissionPercentage: 0.01, FixedFeeInCents: 100}))
	require.NoError(t, store.SaveAppSettings(ctx, &domain.AppSettings{SellerID: "seller-1", UtmifyEnabled: true, UtmifyToken: "utm"}))

	tracker := &recordingTracker{}
	dispatcher := tracking.NewDispatcher(store, tracker, tracking.Config{Platform: "Checkout"}, logger, nil)
	t.Cleanup(dispatcher.Close)

	return &fixture{
		store:      store,
		tracker:    tracker,
		dispatcher: dispatcher,
		uc:         NewDefaultSettlementUsecase(store.Ledger(), dispatcher, nil, nil, logger),
	}
}

func (f *fixture) addTransaction(t *testing.T, tx domain.PixTransaction) {
	t.Helper()
	if tx.SellerID == "" {
		tx.SellerID = "seller-1"
	}
	if tx.Status == "" {
		tx.Status = domain.StatusWaitingPayment
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().Add(-time.Minute)
	}
	if tx.Customer.Email == "" {
		tx.Customer = domain.CustomerInfo{Name: "Ana", Email: "ana@example.com", WhatsApp: "5511999990000"}
	}
	require.NoError(t, f.store.CreateTransaction(context.Background(), &tx))
}

func courseTx(id string, value int64) domain.PixTransaction {
	return domain.PixTransaction{
		ID:           id,
		ValueInCents: value,
		Items:        []domain.LineItem{{ProductID: "p-1", Name: "Course", PriceInCents: value, Quantity: 1}},
	}
}

func TestConfirmPaymentCreatesSale(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addTransaction(t, courseTx("tx-1", 10000))
	paidAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	res, err := f.uc.ConfirmPayment(ctx, "tx-1", &paidAt)
	require.NoError(t, err)
	assert.Equal(t, "sale_seller-1_tx-1", res.SaleID)
	assert.False(t, res.AlreadyPaid)

	tx, err := f.store.GetTransactionByID(ctx, "tx-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, tx.Status)
	require.NotNil(t, tx.PaidAt)
	assert.True(t, paidAt.Equal(*tx.PaidAt))

	sale, err := f.store.GetSaleByID(ctx, res.SaleID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, sale.Status)
	assert.Equal(t, domain.PaymentMethodPix, sale.PaymentMethod)
	assert.Equal(t, domain.Commission{
		TotalPriceInCents:     10000,
		GatewayFeeInCents:     200,
		PlatformFeeInCents:    200,
		UserCommissionInCents: 9600,
	}, sale.Commission)
	assert.Equal(t, int64(200), sale.PlatformCommissionInCents)
	assert.True(t, sale.Commission.Balanced())

	product, err := f.store.GetProductByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 1, product.TotalSales)

	customer, err := f.store.GetCustomer(ctx, "seller-1", "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, customer.TotalOrders)
	assert.Equal(t, int64(10000), customer.TotalSpentInCents)
	assert.Equal(t, domain.FunnelCustomer, customer.FunnelStage)
	assert.Equal(t, []string{res.SaleID}, customer.SaleIDs)

	f.dispatcher.Close()
	require.Len(t, f.tracker.payloads, 1)
	assert.Equal(t, "paid", f.tracker.payloads[0].Status)
	assert.NotNil(t, f.tracker.payloads[0].ApprovedDate)
}

func TestConfirmPaymentIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addTransaction(t, courseTx("tx-1", 10000))
	require.NoError(t, f.store.CreateCart(ctx, &domain.AbandonedCart{
		ID: "cart-1", SellerID: "seller-1", ProductID: "p-1",
		Customer:  domain.CustomerInfo{Email: "ana@example.com"},
		CreatedAt: time.Now().Add(-time.Hour), Status: domain.CartNotContacted,
	}))

	first, err := f.uc.ConfirmPayment(ctx, "tx-1", nil)
	require.NoError(t, err)
	customerAfterFirst, err := f.store.GetCustomer(ctx, "seller-1", "ana@example.com")
	require.NoError(t, err)
	cartAfterFirst, err := f.store.GetCartByID(ctx, "cart-1")
	require.NoError(t, err)

	second, err := f.uc.ConfirmPayment(ctx, "tx-1", nil)
	require.NoError(t, err)
	assert.Equal(t, first.SaleID, second.SaleID)
	assert.True(t, second.AlreadyPaid)

	customer, err := f.store.GetCustomer(ctx, "seller-1", "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, customerAfterFirst, customer)

	product, err := f.store.GetProductByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 1, product.TotalSales)

	cart, err := f.store.GetCartByID(ctx, "cart-1")
	require.NoError(t, err)
	assert.Equal(t, cartAfterFirst, cart)

	f.dispatcher.Close()
	assert.Len(t, f.tracker.payloads, 1)
}

func TestConfirmPaymentConcurrentCallsSettleOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addTransaction(t, courseTx("tx-1", 10000))

	var wg sync.WaitGroup
	ids := make([]string, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := f.uc.ConfirmPayment(ctx, "tx-1", nil)
			if assert.NoError(t, err) {
				ids[i] = res.SaleID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, "sale_seller-1_tx-1", id)
	}
	customer, err := f.store.GetCustomer(ctx, "seller-1", "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, customer.TotalOrders)
	product, err := f.store.GetProductByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 1, product.TotalSales)
}

func TestConfirmPaymentUnknownTransaction(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.ConfirmPayment(context.Background(), "missing", nil)
	require.ErrorIs(t, err, domain.ErrTransactionNotFound)
	assert.Equal(t, domain.KindTransactionNotFound, domain.KindOf(err))
}

func TestConfirmPaymentRejectsClosedTransaction(t *testing.T) {
	f := newFixture(t)
	tx := courseTx("tx-1", 10000)
	tx.Status = domain.StatusExpired
	f.addTransaction(t, tx)

	_, err := f.uc.ConfirmPayment(context.Background(), "tx-1", nil)
	require.ErrorIs(t, err, domain.ErrTransactionClosed)

	_, err = f.store.GetSaleByID(context.Background(), "sale_seller-1_tx-1")
	assert.ErrorIs(t, err, domain.ErrSaleNotFound)
}

func TestConfirmPaymentReusesExistingSale(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addTransaction(t, courseTx("tx-1", 10000))
	require.NoError(t, f.store.SaveSale(ctx, &domain.Sale{
		ID: "sale_seller-1_tx-1", SellerID: "seller-1", TransactionID: "tx-1",
		Status:     domain.StatusWaitingPayment,
		Commission: domain.Commission{TotalPriceInCents: 10000, GatewayFeeInCents: 200, UserCommissionInCents: 9800},
	}))

	res, err := f.uc.ConfirmPayment(ctx, "tx-1", nil)
	require.NoError(t, err)

	sale, err := f.store.GetSaleByID(ctx, res.SaleID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, sale.Status)
	assert.NotNil(t, sale.PaidAt)
	assert.Equal(t, int64(9800), sale.Commission.UserCommissionInCents)

	product, err := f.store.GetProductByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 0, product.TotalSales)
}

func TestConfirmPaymentWithoutPlatformSettings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store = memory.NewStore()
	f.uc.Ledger = f.store.Ledger()
	f.addTransaction(t, courseTx("tx-1", 5000))

	res, err := f.uc.ConfirmPayment(ctx, "tx-1", nil)
	require.NoError(t, err)

	sale, err := f.store.GetSaleByID(ctx, res.SaleID)
	require.NoError(t, err)
	assert.Equal(t, int64(150), sale.Commission.GatewayFeeInCents)
	assert.Equal(t, int64(0), sale.Commission.PlatformFeeInCents)
	assert.Equal(t, int64(4850), sale.Commission.UserCommissionInCents)
}

func TestConfirmUpsellLinksIntoOriginalSale(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addTransaction(t, courseTx("tx-1", 10000))
	first, err := f.uc.ConfirmPayment(ctx, "tx-1", nil)
	require.NoError(t, err)

	f.addTransaction(t, domain.PixTransaction{
		ID:             "tx-up",
		ValueInCents:   4700,
		IsUpsell:       true,
		OriginalSaleID: first.SaleID,
		Items:          []domain.LineItem{{ProductID: "p-2", Name: "Ebook", PriceInCents: 4700, Quantity: 1, IsUpsell: true}},
	})

	res, err := f.uc.ConfirmPayment(ctx, "tx-up", nil)
	require.NoError(t, err)
	assert.Equal(t, first.SaleID, res.SaleID)

	sale, err := f.store.GetSaleByID(ctx, first.SaleID)
	require.NoError(t, err)
	require.Len(t, sale.Items, 2)
	assert.Equal(t, "p-2", sale.Items[1].ProductID)
	assert.True(t, sale.Items[1].IsUpsell)
	assert.Equal(t, "tx-up", sale.UpsellTransactionID)
	assert.Equal(t, domain.StatusPaid, sale.UpsellStatus)
	assert.Equal(t, int64(4700), sale.UpsellAmountInCents)

	sales, err := f.store.ListSalesBySeller(ctx, "seller-1")
	require.NoError(t, err)
	assert.Len(t, sales, 1)

	customer, err := f.store.GetCustomer(ctx, "seller-1", "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, customer.TotalOrders)
	assert.Equal(t, int64(14700), customer.TotalSpentInCents)
	assert.ElementsMatch(t, []string{"p-1", "p-2"}, customer.ProductsPurchased)

	again, err := f.uc.ConfirmPayment(ctx, "tx-up", nil)
	require.NoError(t, err)
	assert.True(t, again.AlreadyPaid)
	sale, err = f.store.GetSaleByID(ctx, first.SaleID)
	require.NoError(t, err)
	assert.Len(t, sale.Items, 2)
}

func TestConfirmUpsellWithMissingOriginalSale(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addTransaction(t, domain.PixTransaction{
		ID:             "tx-up",
		ValueInCents:   4700,
		IsUpsell:       true,
		OriginalSaleID: "sale_seller-1_gone",
		Items:          []domain.LineItem{{ProductID: "p-2", PriceInCents: 4700, IsUpsell: true}},
	})

	res, err := f.uc.ConfirmPayment(ctx, "tx-up", nil)
	require.NoError(t, err)
	assert.Equal(t, "sale_seller-1_gone", res.SaleID)

	sales, err := f.store.ListSalesBySeller(ctx, "seller-1")
	require.NoError(t, err)
	assert.Empty(t, sales)

	tx, err := f.store.GetTransactionByID(ctx, "tx-up")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, tx.Status)

	customer, err := f.store.GetCustomer(ctx, "seller-1", "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, 0, customer.TotalOrders)
	assert.Equal(t, int64(4700), customer.TotalSpentInCents)
	assert.Empty(t, customer.SaleIDs)
	assert.Equal(t, []string{"p-2"}, customer.ProductsPurchased)
}

func TestRetriedChargesRecoverCartOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addTransaction(t, courseTx("tx-a", 10000))
	f.addTransaction(t, courseTx("tx-b", 10000))
	require.NoError(t, f.store.CreateCart(ctx, &domain.AbandonedCart{
		ID: "cart-1", SellerID: "seller-1", ProductID: "p-1",
		Customer:  domain.CustomerInfo{Email: "ana@example.com"},
		CreatedAt: time.Now().Add(-time.Hour), Status: domain.CartEmailSent,
	}))

	_, err := f.uc.ConfirmPayment(ctx, "tx-b", nil)
	require.NoError(t, err)
	cart, err := f.store.GetCartByID(ctx, "cart-1")
	require.NoError(t, err)
	assert.Equal(t, domain.CartRecovered, cart.Status)
	recoveredAt := cart.LastInteractionAt

	_, err = f.uc.ConfirmPayment(ctx, "tx-a", nil)
	require.NoError(t, err)
	cart, err = f.store.GetCartByID(ctx, "cart-1")
	require.NoError(t, err)
	assert.Equal(t, domain.CartRecovered, cart.Status)
	assert.Equal(t, recoveredAt, cart.LastInteractionAt)
}

func TestCustomerAggregatesAcrossSales(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addTransaction(t, courseTx("tx-1", 10000))
	f.addTransaction(t, domain.PixTransaction{
		ID:           "tx-2",
		ValueInCents: 6990,
		Items: []domain.LineItem{
			{ProductID: "p-2", Name: "Ebook", PriceInCents: 5000},
			{ProductID: "p-1", Name: "Course", PriceInCents: 1990, IsOrderBump: true},
		},
	})

	_, err := f.uc.ConfirmPayment(ctx, "tx-1", nil)
	require.NoError(t, err)
	_, err = f.uc.ConfirmPayment(ctx, "tx-2", nil)
	require.NoError(t, err)

	customer, err := f.store.GetCustomer(ctx, "seller-1", "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, 2, customer.TotalOrders)
	assert.Equal(t, int64(16990), customer.TotalSpentInCents)
	assert.Equal(t, []string{"p-1", "p-2"}, customer.ProductsPurchased)
	assert.Len(t, customer.SaleIDs, 2)
	require.NotNil(t, customer.FirstPurchaseAt)
	require.NotNil(t, customer.LastPurchaseAt)
	assert.False(t, customer.LastPurchaseAt.Before(*customer.FirstPurchaseAt))
}

func TestTrackingFailureDoesNotAffectConfirmation(t *testing.T) {
	f := newFixture(t)
	f.tracker.err = errors.New("utmify unavailable")
	f.addTransaction(t, courseTx("tx-1", 10000))

	res, err := f.uc.ConfirmPayment(context.Background(), "tx-1", nil)
	require.NoError(t, err)
	assert.Equal(t, "sale_seller-1_tx-1", res.SaleID)

	f.dispatcher.Close()
	assert.Len(t, f.tracker.payloads, 1)
}

func TestConfirmPaymentRollsBackOnStoreFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addTransaction(t, courseTx("tx-1", 10000))
	f.uc.Ledger.Customers = failingCustomers{f.store}

	_, err := f.uc.ConfirmPayment(ctx, "tx-1", nil)
	require.Error(t, err)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))

	tx, err := f.store.GetTransactionByID(ctx, "tx-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusWaitingPayment, tx.Status)
	_, err = f.store.GetSaleByID(ctx, "sale_seller-1_tx-1")
	assert.ErrorIs(t, err, domain.ErrSaleNotFound)
	product, err := f.store.GetProductByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 0, product.TotalSales)
}
