package charge

import (
	"context"
	"errors"
	"fmt"

	"github.com/LavaJover/shvark-checkout-service/internal/domain"
	"github.com/LavaJover/shvark-checkout-service/internal/usecase/commission"
	"github.com/LavaJover/shvark-checkout-service/internal/usecase/dto"
	chargedto "github.com/LavaJover/shvark-checkout-service/internal/usecase/dto/charge"
	"github.com/LavaJover/shvark-checkout-service/internal/usecase/tracking"
	"github.com/sirupsen/logrus"
)

// GenerateCharge asks the seller's gateway account for a PIX charge and records it as a new
// WAITING_PAYMENT transaction. The gateway response is returned as is.
func (uc *DefaultChargeUsecase) GenerateCharge(ctx context.Context, input *chargedto.GenerateChargeInput) (*domain.GatewayCharge, error) {
	if err := dto.Validate(input); err != nil {
		uc.recordFailure("generate", err)
		return nil, err
	}
	req := input.ToChargeRequest()

	sellerID, err := uc.resolveOwner(ctx, req.Items[0].ProductID)
	if err != nil {
		uc.recordFailure("generate", err)
		return nil, err
	}

	creds, err := uc.gatewayCredentials(ctx, sellerID)
	if err != nil {
		uc.recordFailure("generate", err)
		return nil, err
	}

	platform := uc.platformSettings(ctx)
	split := domain.PlatformSplit{}
	if platform != nil {
		split = domain.PlatformSplit{
			Percentage:      platform.CommissionPercentage,
			FixedFeeInCents: platform.FixedFeeInCents,
			AccountID:       platform.GatewayAccountID,
		}
	}

	log := uc.Logger.WithFields(logrus.Fields{
		"seller_id": sellerID,
		"value":     req.ValueInCents,
		"upsell":    req.IsUpsell,
	})

	charge, err := uc.Gateway.CreateCharge(ctx, req, creds, split)
	if err != nil {
		log.WithError(err).Error("gateway refused to create charge")
		uc.recordFailure("generate", err)
		return nil, fmt.Errorf("create charge: %w", err)
	}

	status := charge.Status
	if status == "" {
		status = domain.StatusWaitingPayment
	}
	tx := &domain.PixTransaction{
		ID:                   charge.ID,
		SellerID:             sellerID,
		ValueInCents:         req.ValueInCents,
		OriginalValueInCents: req.OriginalValueInCents,
		CouponCode:           req.CouponCode,
		DiscountInCents:      req.DiscountInCents,
		QRCode:               charge.QRCode,
		QRCodeBase64:         charge.QRCodeBase64,
		Status:               status,
		CreatedAt:            uc.now(),
		WebhookURL:           req.WebhookURL,
		Customer:             req.Customer,
		Items:                req.Items,
		Tracking:             req.Tracking,
		IsUpsell:             req.IsUpsell,
		OriginalSaleID:       req.OriginalSaleID,
	}
	if err := uc.Ledger.Transactions.CreateTransaction(ctx, tx); err != nil {
		log.WithError(err).WithField("transaction_id", tx.ID).Error("failed to store transaction")
		uc.recordFailure("generate", err)
		return nil, fmt.Errorf("store transaction: %w", err)
	}

	log.WithField("transaction_id", tx.ID).Info("charge created")
	uc.recordCreated(tx)

	if uc.Tracker != nil {
		uc.Tracker.Dispatch(
			tracking.TransactionSource(tx, commission.ForSettings(tx.ValueInCents, platform)),
			domain.StatusWaitingPayment,
		)
	}
	uc.publish(domain.CheckoutEvent{
		Type:          domain.EventChargeCreated,
		SellerID:      tx.SellerID,
		TransactionID: tx.ID,
		Status:        tx.Status,
		AmountInCents: tx.ValueInCents,
		IsUpsell:      tx.IsUpsell,
		OccurredAt:    tx.CreatedAt,
	})

	return charge, nil
}

func (uc *DefaultChargeUsecase) resolveOwner(ctx context.Context, productID string) (string, error) {
	product, err := uc.Ledger.Products.GetProductByID(ctx, productID)
	if errors.Is(err, domain.ErrProductNotFound) {
		return "", fmt.Errorf("%w: product %s", domain.ErrOwnerNotFound, productID)
	}
	if err != nil {
		return "", err
	}
	if product.SellerID == "" {
		return "", fmt.Errorf("%w: product %s has no seller", domain.ErrOwnerNotFound, productID)
	}
	return product.SellerID, nil
}

func (uc *DefaultChargeUsecase) gatewayCredentials(ctx context.Context, sellerID string) (domain.GatewayCredentials, error) {
	settings, err := uc.Ledger.Settings.GetAppSettings(ctx, sellerID)
	if err != nil && !errors.Is(err, domain.ErrAppSettingsNotFound) {
		return domain.GatewayCredentials{}, err
	}
	if !settings.GatewayReady() {
		return domain.GatewayCredentials{}, fmt.Errorf("%w: seller %s", domain.ErrGatewayNotConfigured, sellerID)
	}
	return domain.GatewayCredentials{Token: settings.PushInPayToken, Enabled: settings.PushInPayEnabled}, nil
}

func (uc *DefaultChargeUsecase) platformSettings(ctx context.Context) *domain.PlatformSettings {
	settings, err := uc.Ledger.Settings.GetPlatformSettings(ctx)
	if err != nil {
		uc.Logger.WithError(err).Warn("platform settings unavailable, charging without platform split")
		return nil
	}
	return settings
}
