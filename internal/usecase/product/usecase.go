// Package product registers sellers' products and resolves them by id or slug.
package product

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/LavaJover/shvark-checkout-service/internal/domain"
	"github.com/LavaJover/shvark-checkout-service/internal/usecase/dto"
	productdto "github.com/LavaJover/shvark-checkout-service/internal/usecase/dto/product"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ProductUsecase interface {
	CreateProduct(ctx context.Context, input *productdto.CreateProductInput) (*domain.Product, error)
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error)
}

type DefaultProductUsecase struct {
	Products domain.ProductRepository
	Slugs    *SlugGenerator
	Logger   logrus.FieldLogger
}

func NewDefaultProductUsecase(products domain.ProductRepository, slugs *SlugGenerator, logger logrus.FieldLogger) *DefaultProductUsecase {
	return &DefaultProductUsecase{
		Products: products,
		Slugs:    slugs,
		Logger:   logger,
	}
}

func (uc *DefaultProductUsecase) CreateProduct(ctx context.Context, input *productdto.CreateProductInput) (*domain.Product, error) {
	if err := dto.Validate(input); err != nil {
		return nil, err
	}

	slug, err := uc.Slugs.Generate(ctx, uc.Products.SlugExists)
	if err != nil {
		return nil, err
	}

	coupons := make([]domain.Coupon, 0, len(input.Coupons))
	for _, c := range input.Coupons {
		coupons = append(coupons, domain.Coupon{
			Code:               strings.ToUpper(c.Code),
			DiscountPercentage: c.DiscountPercentage,
			Active:             c.Active,
		})
	}

	now := time.Now()
	product := &domain.Product{
		ID:           uuid.NewString(),
		SellerID:     input.SellerID,
		Name:         strings.TrimSpace(input.Name),
		Description:  input.Description,
		Slug:         slug,
		PriceInCents: input.PriceInCents,
		OrderBump:    input.OrderBump,
		Upsell:       input.Upsell,
		Coupons:      coupons,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.Products.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	uc.Logger.WithFields(logrus.Fields{
		"product_id": product.ID,
		"seller_id":  product.SellerID,
		"slug":       product.Slug,
	}).Info("product created")
	return product, nil
}

func (uc *DefaultProductUsecase) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	return uc.Products.GetProductByID(ctx, productID)
}

func (uc *DefaultProductUsecase) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return uc.Products.GetProductBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
}
