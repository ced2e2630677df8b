package repository

import (
	"context"

	"github.com/LavaJover/shvark-checkout-service/internal/domain"
	"github.com/LavaJover/shvark-checkout-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-checkout-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultSettingsRepository struct {
	DB *gorm.DB
}

func NewDefaultSettingsRepository(db *gorm.DB) *DefaultSettingsRepository {
	return &DefaultSettingsRepository{DB: db}
}

func (r *DefaultSettingsRepository) GetPlatformSettings(ctx context.Context) (*domain.PlatformSettings, error) {
	var model models.PlatformSettingsModel
	if err := conn(ctx, r.DB).First(&model, "id = ?", domain.PlatformSettingsID).Error; err != nil {
		return nil, notFound(err, domain.ErrPlatformSettingsNotFound, domain.PlatformSettingsID)
	}
	return mappers.ToDomainPlatformSettings(&model), nil
}

func (r *DefaultSettingsRepository) SavePlatformSettings(ctx context.Context, settings *domain.PlatformSettings) error {
	return conn(ctx, r.DB).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(mappers.ToGORMPlatformSettings(settings)).Error
}

func (r *DefaultSettingsRepository) GetAppSettings(ctx context.Context, sellerID string) (*domain.AppSettings, error) {
	var model models.AppSettingsModel
	if err := conn(ctx, r.DB).First(&model, "seller_id = ?", sellerID).Error; err != nil {
		return nil, notFound(err, domain.ErrAppSettingsNotFound, sellerID)
	}
	return mappers.ToDomainAppSettings(&model), nil
}

func (r *DefaultSettingsRepository) SaveAppSettings(ctx context.Context, settings *domain.AppSettings) error {
	return conn(ctx, r.DB).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(mappers.ToGORMAppSettings(settings)).Error
}
