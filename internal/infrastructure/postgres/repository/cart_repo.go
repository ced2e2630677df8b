package repository

import (
	"context"

	"github.com/LavaJover/shvark-checkout-service/internal/domain"
	"github.com/LavaJover/shvark-checkout-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-checkout-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultAbandonedCartRepository struct {
	DB *gorm.DB
}

func NewDefaultAbandonedCartRepository(db *gorm.DB) *DefaultAbandonedCartRepository {
	return &DefaultAbandonedCartRepository{DB: db}
}

func (r *DefaultAbandonedCartRepository) CreateCart(ctx context.Context, cart *domain.AbandonedCart) error {
	return conn(ctx, r.DB).Create(mappers.ToGORMAbandonedCart(cart)).Error
}

func (r *DefaultAbandonedCartRepository) GetCartByID(ctx context.Context, cartID string) (*domain.AbandonedCart, error) {
	var model models.AbandonedCartModel
	if err := conn(ctx, r.DB).First(&model, "id = ?", cartID).Error; err != nil {
		return nil, notFound(err, domain.ErrCartNotFound, cartID)
	}
	return mappers.ToDomainAbandonedCart(&model), nil
}

func (r *DefaultAbandonedCartRepository) FindLatestOpenCart(ctx context.Context, sellerID, email, productID string) (*domain.AbandonedCart, error) {
	var model models.AbandonedCartModel
	err := conn(ctx, r.DB).
		Where("seller_id = ? AND customer_email = ? AND product_id = ?", sellerID, email, productID).
		Where("status <> ?", domain.CartRecovered).
		Order("created_at DESC").
		First(&model).Error
	if err != nil {
		return nil, notFound(err, domain.ErrCartNotFound, sellerID+"/"+email+"/"+productID)
	}
	return mappers.ToDomainAbandonedCart(&model), nil
}

func (r *DefaultAbandonedCartRepository) UpdateCart(ctx context.Context, cart *domain.AbandonedCart) error {
	model := mappers.ToGORMAbandonedCart(cart)
	res := conn(ctx, r.DB).Model(&models.AbandonedCartModel{}).Where("id = ?", cart.ID).Updates(map[string]any{
		"customer_name":            model.CustomerName,
		"customer_email":           model.CustomerEmail,
		"customer_whatsapp":        model.CustomerWhatsApp,
		"product_name":             model.ProductName,
		"potential_value_in_cents": model.PotentialValueInCents,
		"last_interaction_at":      model.LastInteractionAt,
		"status":                   model.Status,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, domain.ErrCartNotFound, cart.ID)
	}
	return nil
}

func (r *DefaultAbandonedCartRepository) ListCartsBySeller(ctx context.Context, sellerID string) ([]*domain.AbandonedCart, error) {
	var rows []models.AbandonedCartModel
	if err := conn(ctx, r.DB).Where("seller_id = ?", sellerID).Order("last_interaction_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.AbandonedCart, 0, len(rows))
	for i := range rows {
		out = append(out, mappers.ToDomainAbandonedCart(&rows[i]))
	}
	return out, nil
}
