package chargedto

import "github.com/LavaJover/shvark-checkout-service/internal/domain"

type GenerateChargeInput struct {
	Items                []LineItemInput           `json:"items" validate:"required,min=1,dive"`
	Customer             CustomerInput             `json:"customer"`
	ValueInCents         int64                     `json:"valueInCents" validate:"gt=0"`
	OriginalValueInCents int64                     `json:"originalValueInCents" validate:"gte=0"`
	CouponCode           string                    `json:"couponCode" validate:"max=64"`
	DiscountInCents      int64                     `json:"discountInCents" validate:"gte=0"`
	WebhookURL           string                    `json:"webhookUrl" validate:"omitempty,url"`
	Tracking             domain.TrackingParameters `json:"trackingParameters"`
	IsUpsell             bool                      `json:"isUpsell"`
	OriginalSaleID       string                    `json:"originalSaleId" validate:"required_if=IsUpsell true"`
}

type LineItemInput struct {
	ProductID    string `json:"productId" validate:"required"`
	Name         string `json:"name"`
	PriceInCents int64  `json:"priceInCents" validate:"gte=0"`
	Quantity     int    `json:"quantity" validate:"gte=0"`
	IsOrderBump  bool   `json:"isOrderBump"`
	IsUpsell     bool   `json:"isUpsell"`
}

type CustomerInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	WhatsApp string `json:"whatsapp"`
}

func (in *GenerateChargeInput) ToChargeRequest() *domain.ChargeRequest {
	items := make([]domain.LineItem, 0, len(in.Items))
	for _, item := range in.Items {
		items = append(items, domain.LineItem{
			ProductID:    item.ProductID,
			Name:         item.Name,
			PriceInCents: item.PriceInCents,
			Quantity:     item.Quantity,
			IsOrderBump:  item.IsOrderBump,
			IsUpsell:     item.IsUpsell || in.IsUpsell,
		})
	}

	original := in.OriginalValueInCents
	if original == 0 {
		original = in.ValueInCents + in.DiscountInCents
	}

	return &domain.ChargeRequest{
		Items: items,
		Customer: domain.CustomerInfo{
			Name:     in.Customer.Name,
			Email:    in.Customer.Email,
			WhatsApp: in.Customer.WhatsApp,
		},
		ValueInCents:         in.ValueInCents,
		OriginalValueInCents: original,
		CouponCode:           in.CouponCode,
		DiscountInCents:      in.DiscountInCents,
		WebhookURL:           in.WebhookURL,
		Tracking:             in.Tracking,
		IsUpsell:             in.IsUpsell,
		OriginalSaleID:       in.OriginalSaleID,
	}
}
