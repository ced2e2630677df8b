// Package settlement turns a confirmed PIX payment into a durable Sale and reconciles the
// customer and abandoned-cart records that depend on it.
package settlement

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-checkout-service/internal/domain"
	"github.com/LavaJover/shvark-checkout-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-checkout-service/internal/usecase/tracking"
	"github.com/sirupsen/logrus"
)

type SettlementUsecase interface {
	ConfirmPayment(ctx context.Context, transactionID string, paidAt *time.Time) (*ConfirmResult, error)

	GetSale(ctx context.Context, saleID string) (*domain.Sale, error)
	ListSales(ctx context.Context, sellerID string) ([]*domain.Sale, error)
	GetCustomer(ctx context.Context, sellerID, email string) (*domain.Customer, error)
}

type ConfirmResult struct {
	SaleID        string
	TransactionID string
	// AlreadyPaid is set when the call was a repeated confirmation and nothing changed.
	AlreadyPaid bool
}

type DefaultSettlementUsecase struct {
	Ledger    *domain.Ledger
	Tracker   *tracking.Dispatcher
	Publisher domain.EventPublisher
	Metrics   *metrics.CheckoutMetrics
	Logger    logrus.FieldLogger

	locks *keyedMutex
	now   func() time.Time
}

func NewDefaultSettlementUsecase(
	ledger *domain.Ledger,
	tracker *tracking.Dispatcher,
	publisher domain.EventPublisher,
	checkoutMetrics *metrics.CheckoutMetrics,
	logger logrus.FieldLogger,
) *DefaultSettlementUsecase {
	return &DefaultSettlementUsecase{
		Ledger:    ledger,
		Tracker:   tracker,
		Publisher: publisher,
		Metrics:   checkoutMetrics,
		Logger:    logger,
		locks:     newKeyedMutex(),
		now:       time.Now,
	}
}
