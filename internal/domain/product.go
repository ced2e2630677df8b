package domain

import "time"

// Offer points at another product sold as an order bump or post-purchase upsell.
type Offer struct {
	ProductID          string `json:"productId"`
	CustomPriceInCents *int64 `json:"customPriceInCents,omitempty"`
	Name               string `json:"name,omitempty"`
	Description        string `json:"description,omitempty"`
	ImageURL           string `json:"imageUrl,omitempty"`
}

type Coupon struct {
	Code               string  `json:"code"`
	DiscountPercentage float64 `json:"discountPercentage"`
	Active             bool    `json:"active"`
}

type Product struct {
	ID           string
	SellerID     string
	Name         string
	Description  string
	Slug         string
	PriceInCents int64
	OrderBump    *Offer
	Upsell       *Offer
	Coupons      []Coupon
	TotalSales   int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
