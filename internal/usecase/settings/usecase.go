// Package settings reads and writes platform and per-seller integration settings.
package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-checkout-service/internal/domain"
	"github.com/LavaJover/shvark-checkout-service/internal/usecase/dto"
	settingsdto "github.com/LavaJover/shvark-checkout-service/internal/usecase/dto/settings"
	"github.com/sirupsen/logrus"
)

type SettingsUsecase interface {
	GetAppSettings(ctx context.Context, sellerID string) (*domain.AppSettings, error)
	SaveAppSettings(ctx context.Context, sellerID string, patch *settingsdto.IntegrationsPatch) (*domain.AppSettings, error)
	GetPlatformSettings(ctx context.Context) (*domain.PlatformSettings, error)
	EnsurePlatformSettings(ctx context.Context, defaults settingsdto.PlatformSettingsInput) (*domain.PlatformSettings, error)
}

type DefaultSettingsUsecase struct {
	Settings domain.SettingsRepository
	Logger   logrus.FieldLogger
}

func NewDefaultSettingsUsecase(repo domain.SettingsRepository, logger logrus.FieldLogger) *DefaultSettingsUsecase {
	return &DefaultSettingsUsecase{Settings: repo, Logger: logger}
}

func (uc *DefaultSettingsUsecase) GetAppSettings(ctx context.Context, sellerID string) (*domain.AppSettings, error) {
	return uc.Settings.GetAppSettings(ctx, sellerID)
}

// SaveAppSettings is the seller's own edit of their integrations.
func (uc *DefaultSettingsUsecase) SaveAppSettings(ctx context.Context, sellerID string, patch *settingsdto.IntegrationsPatch) (*domain.AppSettings, error) {
	if sellerID == "" {
		return nil, fmt.Errorf("%w: seller id is required", domain.ErrInvalidInput)
	}
	if err := dto.Validate(patch); err != nil {
		return nil, err
	}

	current, err := uc.Settings.GetAppSettings(ctx, sellerID)
	if err != nil && !errors.Is(err, domain.ErrAppSettingsNotFound) {
		return nil, err
	}
	updated := ApplyIntegrationsPatch(current, sellerID, patch)
	if err := uc.Settings.SaveAppSettings(ctx, updated); err != nil {
		return nil, fmt.Errorf("save app settings: %w", err)
	}

	uc.Logger.WithField("seller_id", sellerID).Info("seller integrations updated")
	return updated, nil
}

func (uc *DefaultSettingsUsecase) GetPlatformSettings(ctx context.Context) (*domain.PlatformSettings, error) {
	return uc.Settings.GetPlatformSettings(ctx)
}

// EnsurePlatformSettings seeds the singleton from defaults when it does not exist yet.
func (uc *DefaultSettingsUsecase) EnsurePlatformSettings(ctx context.Context, defaults settingsdto.PlatformSettingsInput) (*domain.PlatformSettings, error) {
	existing, err := uc.Settings.GetPlatformSettings(ctx)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrPlatformSettingsNotFound) {
		return nil, err
	}
	if err := dto.Validate(&defaults); err != nil {
		return nil, err
	}

	seeded := &domain.PlatformSettings{
		ID:                   domain.PlatformSettingsID,
		CommissionPercentage: defaults.CommissionPercentage,
		FixedFeeInCents:      defaults.FixedFeeInCents,
		GatewayAccountID:     defaults.GatewayAccountID,
		UpdatedAt:            time.Now(),
	}
	if err := uc.Settings.SavePlatformSettings(ctx, seeded); err != nil {
		return nil, fmt.Errorf("seed platform settings: %w", err)
	}
	uc.Logger.WithFields(logrus.Fields{
		"commission_percentage": seeded.CommissionPercentage,
		"fixed_fee":             seeded.FixedFeeInCents,
	}).Info("platform settings seeded")
	return seeded, nil
}

// ApplyIntegrationsPatch returns a copy of current with the set fields of patch applied.
func ApplyIntegrationsPatch(current *domain.AppSettings, sellerID string, patch *settingsdto.IntegrationsPatch) *domain.AppSettings {
	updated := domain.AppSettings{SellerID: sellerID}
	if current != nil {
		updated = *current
	}
	if patch.PushInPayToken != nil {
		updated.PushInPayToken = *patch.PushInPayToken
	}
	if patch.PushInPayEnabled != nil {
		updated.PushInPayEnabled = *patch.PushInPayEnabled
	}
	if patch.UtmifyToken != nil {
		updated.UtmifyToken = *patch.UtmifyToken
	}
	if patch.UtmifyEnabled != nil {
		updated.UtmifyEnabled = *patch.UtmifyEnabled
	}
	if patch.CompanyName != nil {
		updated.CompanyName = *patch.CompanyName
	}
	if patch.CustomDomain != nil {
		updated.CustomDomain = *patch.CustomDomain
	}
	updated.UpdatedAt = time.Now()
	return &updated
}
