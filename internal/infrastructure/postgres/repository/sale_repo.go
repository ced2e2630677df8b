package repository

import (
	"context"

	"github.com/LavaJover/shvark-checkout-service/internal/domain"
	"github.com/LavaJover/shvark-checkout-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-checkout-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultSaleRepository struct {
	DB *gorm.DB
}

func NewDefaultSaleRepository(db *gorm.DB) *DefaultSaleRepository {
	return &DefaultSaleRepository{DB: db}
}

func (r *DefaultSaleRepository) GetSaleByID(ctx context.Context, saleID string) (*domain.Sale, error) {
	var model models.SaleModel
	if err := conn(ctx, r.DB).First(&model, "id = ?", saleID).Error; err != nil {
		return nil, notFound(err, domain.ErrSaleNotFound, saleID)
	}
	return mappers.ToDomainSale(&model), nil
}

func (r *DefaultSaleRepository) SaveSale(ctx context.Context, sale *domain.Sale) error {
	return conn(ctx, r.DB).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(mappers.ToGORMSale(sale)).Error
}

func (r *DefaultSaleRepository) ListSalesBySeller(ctx context.Context, sellerID string) ([]*domain.Sale, error) {
	var rows []models.SaleModel
	if err := conn(ctx, r.DB).Where("seller_id = ?", sellerID).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Sale, 0, len(rows))
	for i := range rows {
		out = append(out, mappers.ToDomainSale(&rows[i]))
	}
	return out, nil
}
