package repository

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-checkout-service/internal/domain"
	"github.com/LavaJover/shvark-checkout-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-checkout-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultProductRepository struct {
	DB *gorm.DB
}

func NewDefaultProductRepository(db *gorm.DB) *DefaultProductRepository {
	return &DefaultProductRepository{DB: db}
}

func (r *DefaultProductRepository) CreateProduct(ctx context.Context, product *domain.Product) error {
	return conn(ctx, r.DB).Create(mappers.ToGORMProduct(product)).Error
}

func (r *DefaultProductRepository) GetProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	var model models.ProductModel
	if err := conn(ctx, r.DB).First(&model, "id = ?", productID).Error; err != nil {
		return nil, notFound(err, domain.ErrProductNotFound, productID)
	}
	return mappers.ToDomainProduct(&model), nil
}

func (r *DefaultProductRepository) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	var model models.ProductModel
	if err := conn(ctx, r.DB).First(&model, "slug = ?", slug).Error; err != nil {
		return nil, notFound(err, domain.ErrProductNotFound, "slug "+slug)
	}
	return mappers.ToDomainProduct(&model), nil
}

func (r *DefaultProductRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := conn(ctx, r.DB).Model(&models.ProductModel{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *DefaultProductRepository) IncrementTotalSales(ctx context.Context, productID string, delta int) error {
	res := conn(ctx, r.DB).Model(&models.ProductModel{}).
		Where("id = ?", productID).
		UpdateColumns(map[string]any{
			"total_sales": gorm.Expr("total_sales + ?", delta),
			"updated_at":  time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, domain.ErrProductNotFound, productID)
	}
	return nil
}
