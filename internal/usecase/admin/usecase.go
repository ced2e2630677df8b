// Package admin holds privileged writes. Every change is audited before the call returns.
package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-checkout-service/internal/domain"
	"github.com/LavaJover/shvark-checkout-service/internal/usecase/audit"
	"github.com/LavaJover/shvark-checkout-service/internal/usecase/dto"
	settingsdto "github.com/LavaJover/shvark-checkout-service/internal/usecase/dto/settings"
	"github.com/LavaJover/shvark-checkout-service/internal/usecase/settings"
	"github.com/sirupsen/logrus"
)

type AdminUsecase interface {
	UpdatePlatformSettings(ctx context.Context, actor domain.Actor, input *settingsdto.PlatformSettingsInput) (*domain.PlatformSettings, error)
	UpdateSellerIntegrations(ctx context.Context, actor domain.Actor, sellerID string, patch *settingsdto.IntegrationsPatch) (*domain.AppSettings, error)
	ListAuditLog(ctx context.Context, limit int) ([]*domain.AuditLogEntry, error)
}

type DefaultAdminUsecase struct {
	Ledger   *domain.Ledger
	Recorder *audit.Recorder
	Logger   logrus.FieldLogger
}

func NewDefaultAdminUsecase(ledger *domain.Ledger, recorder *audit.Recorder, logger logrus.FieldLogger) *DefaultAdminUsecase {
	return &DefaultAdminUsecase{Ledger: ledger, Recorder: recorder, Logger: logger}
}

func (uc *DefaultAdminUsecase) UpdatePlatformSettings(ctx context.Context, actor domain.Actor, input *settingsdto.PlatformSettingsInput) (*domain.PlatformSettings, error) {
	if err := dto.Validate(input); err != nil {
		return nil, err
	}

	updated := &domain.PlatformSettings{
		ID:                   domain.PlatformSettingsID,
		CommissionPercentage: input.CommissionPercentage,
		FixedFeeInCents:      input.FixedFeeInCents,
		GatewayAccountID:     input.GatewayAccountID,
		UpdatedAt:            time.Now(),
	}

	err := uc.Ledger.Transactor.WithinTx(ctx, func(ctx context.Context) error {
		before, err := uc.Ledger.Settings.GetPlatformSettings(ctx)
		if err != nil && !errors.Is(err, domain.ErrPlatformSettingsNotFound) {
			return err
		}
		if err := uc.Ledger.Settings.SavePlatformSettings(ctx, updated); err != nil {
			return fmt.Errorf("save platform settings: %w", err)
		}
		_, err = uc.Recorder.Record(ctx, domain.AuditLogEntry{
			ActorID:     actor.ID,
			ActorEmail:  actor.Email,
			Action:      domain.AuditPlatformSettingsUpdate,
			TargetType:  "platform_settings",
			TargetID:    domain.PlatformSettingsID,
			Description: fmt.Sprintf("platform commission set to %.4f + %d", updated.CommissionPercentage, updated.FixedFeeInCents),
			Details: domain.AuditDetails{
				Before: platformDetails(before),
				After:  platformDetails(updated),
			},
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (uc *DefaultAdminUsecase) UpdateSellerIntegrations(ctx context.Context, actor domain.Actor, sellerID string, patch *settingsdto.IntegrationsPatch) (*domain.AppSettings, error) {
	if sellerID == "" {
		return nil, fmt.Errorf("%w: seller id is required", domain.ErrInvalidInput)
	}
	if err := dto.Validate(patch); err != nil {
		return nil, err
	}

	var updated *domain.AppSettings
	err := uc.Ledger.Transactor.WithinTx(ctx, func(ctx context.Context) error {
		before, err := uc.Ledger.Settings.GetAppSettings(ctx, sellerID)
		if err != nil && !errors.Is(err, domain.ErrAppSettingsNotFound) {
			return err
		}
		updated = settings.ApplyIntegrationsPatch(before, sellerID, patch)
		if err := uc.Ledger.Settings.SaveAppSettings(ctx, updated); err != nil {
			return fmt.Errorf("save app settings: %w", err)
		}
		_, err = uc.Recorder.Record(ctx, domain.AuditLogEntry{
			ActorID:     actor.ID,
			ActorEmail:  actor.Email,
			Action:      domain.AuditSellerIntegrationsUpdate,
			TargetType:  "seller",
			TargetID:    sellerID,
			Description: "seller integrations edited by admin",
			Details: domain.AuditDetails{
				Before: integrationDetails(before),
				After:  integrationDetails(updated),
			},
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (uc *DefaultAdminUsecase) ListAuditLog(ctx context.Context, limit int) ([]*domain.AuditLogEntry, error) {
	return uc.Recorder.List(ctx, limit)
}

func platformDetails(s *domain.PlatformSettings) map[string]any {
	if s == nil {
		return nil
	}
	return map[string]any{
		"commissionPercentage": s.CommissionPercentage,
		"fixedFeeInCents":      s.FixedFeeInCents,
		"gatewayAccountId":     s.GatewayAccountID,
	}
}

func integrationDetails(s *domain.AppSettings) map[string]any {
	if s == nil {
		return nil
	}
	return map[string]any{
		"pushInPayToken":   maskToken(s.PushInPayToken),
		"pushInPayEnabled": s.PushInPayEnabled,
		"utmifyToken":      maskToken(s.UtmifyToken),
		"utmifyEnabled":    s.UtmifyEnabled,
		"companyName":      s.CompanyName,
		"customDomain":     s.CustomDomain,
	}
}

// maskToken keeps the last four characters.
func maskToken(token string) string {
	if len(token) <= 4 {
		if token == "" {
			return ""
		}
		return "****"
	}
	return "****" + token[len(token)-4:]
}
