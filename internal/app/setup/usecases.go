package setup

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-checkout-service/internal/usecase/admin"
	"github.com/LavaJover/shvark-checkout-service/internal/usecase/audit"
	"github.com/LavaJover/shvark-checkout-service/internal/usecase/cart"
	"github.com/LavaJover/shvark-checkout-service/internal/usecase/charge"
	settingsdto "github.com/LavaJover/shvark-checkout-service/internal/usecase/dto/settings"
	"github.com/LavaJover/shvark-checkout-service/internal/usecase/product"
	"github.com/LavaJover/shvark-checkout-service/internal/usecase/settings"
	"github.com/LavaJover/shvark-checkout-service/internal/usecase/settlement"
	"github.com/LavaJover/shvark-checkout-service/internal/usecase/tracking"
)

type UseCases struct {
	ChargeUsecase     charge.ChargeUsecase
	SettlementUsecase settlement.SettlementUsecase
	ProductUsecase    product.ProductUsecase
	CartUsecase       cart.CartUsecase
	SettingsUsecase   settings.SettingsUsecase
	AdminUsecase      admin.AdminUsecase

	Tracker *tracking.Dispatcher
}

func InitializeUseCases(ctx context.Context, deps *Dependencies) (*UseCases, error) {
	cfg := deps.Config
	ledger := deps.Ledger

	tracker := tracking.NewDispatcher(
		ledger.Settings,
		deps.Tracking,
		tracking.Config{
			Platform:    cfg.Tracking.Platform,
			Workers:     cfg.Tracking.Workers,
			QueueSize:   cfg.Tracking.QueueSize,
			SendTimeout: cfg.Utmify.Timeout,
		},
		deps.Logger.WithField("component", "tracking"),
		deps.Metrics,
	)

	settlementUsecase := settlement.NewDefaultSettlementUsecase(
		ledger,
		tracker,
		deps.Publisher,
		deps.Metrics,
		deps.Logger.WithField("component", "settlement"),
	)

	chargeUsecase := charge.NewDefaultChargeUsecase(
		ledger,
		deps.Gateway,
		settlementUsecase,
		tracker,
		deps.Publisher,
		deps.Metrics,
		deps.Logger.WithField("component", "charge"),
	)

	slugs, err := product.NewSlugGenerator(cfg.Products.SlugAlphabet, cfg.Products.SlugLength, cfg.Products.SlugMaxAttempts)
	if err != nil {
		return nil, fmt.Errorf("slug generator: %w", err)
	}
	productUsecase := product.NewDefaultProductUsecase(ledger.Products, slugs, deps.Logger.WithField("component", "product"))

	cartUsecase := cart.NewDefaultCartUsecase(ledger, deps.Logger.WithField("component", "cart"))

	settingsUsecase := settings.NewDefaultSettingsUsecase(ledger.Settings, deps.Logger.WithField("component", "settings"))
	if _, err := settingsUsecase.EnsurePlatformSettings(ctx, settingsdto.PlatformSettingsInput{
		CommissionPercentage: cfg.Platform.CommissionPercentage,
		FixedFeeInCents:      cfg.Platform.FixedFeeInCents,
		GatewayAccountID:     cfg.Platform.GatewayAccountID,
	}); err != nil {
		return nil, fmt.Errorf("platform settings: %w", err)
	}

	recorder := audit.NewRecorder(ledger.Transactor, ledger.AuditLog, cfg.Audit.Capacity, deps.Logger.WithField("component", "audit"))
	adminUsecase := admin.NewDefaultAdminUsecase(ledger, recorder, deps.Logger.WithField("component", "admin"))

	return &UseCases{
		ChargeUsecase:     chargeUsecase,
		SettlementUsecase: settlementUsecase,
		ProductUsecase:    productUsecase,
		CartUsecase:       cartUsecase,
		SettingsUsecase:   settingsUsecase,
		AdminUsecase:      adminUsecase,
		Tracker:           tracker,
	}, nil
}
