// Package charge issues PIX charges and follows them until they are paid or closed.
package charge

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-checkout-service/internal/domain"
	"github.com/LavaJover/shvark-checkout-service/internal/infrastructure/metrics"
	chargedto "github.com/LavaJover/shvark-checkout-service/internal/usecase/dto/charge"
	"github.com/LavaJover/shvark-checkout-service/internal/usecase/settlement"
	"github.com/LavaJover/shvark-checkout-service/internal/usecase/tracking"
	"github.com/sirupsen/logrus"
)

type ChargeUsecase interface {
	GenerateCharge(ctx context.Context, input *chargedto.GenerateChargeInput) (*domain.GatewayCharge, error)
	CheckStatus(ctx context.Context, transactionID string) (*chargedto.StatusOutput, error)
	HandleNotification(ctx context.Context, n domain.GatewayNotification) (*chargedto.StatusOutput, error)
	SweepPending(ctx context.Context, minAge time.Duration, limit int) (int, error)
}

// PaymentConfirmer is the part of settlement a charge hands paid transactions to.
type PaymentConfirmer interface {
	ConfirmPayment(ctx context.Context, transactionID string, paidAt *time.Time) (*settlement.ConfirmResult, error)
}

type DefaultChargeUsecase struct {
	Ledger     *domain.Ledger
	Gateway    domain.PaymentGateway
	Settlement PaymentConfirmer
	Tracker    *tracking.Dispatcher
	Publisher  domain.EventPublisher
	Metrics    *metrics.CheckoutMetrics
	Logger     logrus.FieldLogger

	now func() time.Time
}

func NewDefaultChargeUsecase(
	ledger *domain.Ledger,
	gateway domain.PaymentGateway,
	confirmer PaymentConfirmer,
	tracker *tracking.Dispatcher,
	publisher domain.EventPublisher,
	checkoutMetrics *metrics.CheckoutMetrics,
	logger logrus.FieldLogger,
) *DefaultChargeUsecase {
	return &DefaultChargeUsecase{
		Ledger:     ledger,
		Gateway:    gateway,
		Settlement: confirmer,
		Tracker:    tracker,
		Publisher:  publisher,
		Metrics:    checkoutMetrics,
		Logger:     logger,
		now:        time.Now,
	}
}

func (uc *DefaultChargeUsecase) publish(event domain.CheckoutEvent) {
	if uc.Publisher == nil {
		return
	}
	go func(event domain.CheckoutEvent) {
		if err := uc.Publisher.PublishCheckoutEvent(context.Background(), event); err != nil {
			uc.Logger.WithError(err).WithFields(logrus.Fields{
				"transaction_id": event.TransactionID,
				"type":           event.Type,
			}).Error("failed to publish checkout event")
		}
	}(event)
}
