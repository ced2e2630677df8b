package domain

import "context"

type TrackingCustomer struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Phone    *string `json:"phone"`
	Document *string `json:"document"`
	Country  string  `json:"country"`
}

type TrackingProduct struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	PlanID       *string `json:"planId"`
	PlanName     *string `json:"planName"`
	Quantity     int     `json:"quantity"`
	PriceInCents int64   `json:"priceInCents"`
}

type TrackingUTM struct {
	Src         *string `json:"src"`
	Sck         *string `json:"sck"`
	UtmSource   *string `json:"utm_source"`
	UtmCampaign *string `json:"utm_campaign"`
	UtmMedium   *string `json:"utm_medium"`
	UtmContent  *string `json:"utm_content"`
	UtmTerm     *string `json:"utm_term"`
}

type TrackingCommission struct {
	TotalPriceInCents     int64 `json:"totalPriceInCents"`
	GatewayFeeInCents     int64 `json:"gatewayFeeInCents"`
	UserCommissionInCents int64 `json:"userCommissionInCents"`
}

// TrackingPayload is the normalized order event sent to the attribution service.
type TrackingPayload struct {
	OrderID            string             `json:"orderId"`
	Platform           string             `json:"platform"`
	PaymentMethod      string             `json:"paymentMethod"`
	Status             string             `json:"status"`
	CreatedAt          string             `json:"createdAt"`
	ApprovedDate       *string            `json:"approvedDate"`
	RefundedAt         *string            `json:"refundedAt"`
	Customer           TrackingCustomer   `json:"customer"`
	Products           []TrackingProduct  `json:"products"`
	TrackingParameters TrackingUTM        `json:"trackingParameters"`
	Commission         TrackingCommission `json:"commission"`
	IsTest             bool               `json:"isTest"`
}

type TrackingClient interface {
	SendOrderEvent(ctx context.Context, payload *TrackingPayload, token string) error
}
