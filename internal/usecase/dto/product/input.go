package productdto

import "github.com/LavaJover/shvark-checkout-service/internal/domain"

type CreateProductInput struct {
	SellerID     string        `json:"sellerId" validate:"required"`
	Name         string        `json:"name" validate:"required,max=200"`
	Description  string        `json:"description" validate:"max=5000"`
	PriceInCents int64         `json:"priceInCents" validate:"gt=0"`
	OrderBump    *domain.Offer `json:"orderBump"`
	Upsell       *domain.Offer `json:"upsell"`
	Coupons      []CouponInput `json:"coupons" validate:"dive"`
}

type CouponInput struct {
	Code               string  `json:"code" validate:"required,alphanum,max=64"`
	DiscountPercentage float64 `json:"discountPercentage" validate:"gt=0,lte=100"`
	Active             bool    `json:"active"`
}
