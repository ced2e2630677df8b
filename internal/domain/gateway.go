package domain

import (
	"context"
	"time"
)

// ChargeRequest is what the checkout page submits for one charge attempt.
type ChargeRequest struct {
	Items                []LineItem
	Customer             CustomerInfo
	ValueInCents         int64
	OriginalValueInCents int64
	CouponCode           string
	DiscountInCents      int64
	WebhookURL           string
	Tracking             TrackingParameters
	IsUpsell             bool
	OriginalSaleID       string
}

type GatewayCredentials struct {
	Token   string
	Enabled bool
}

// PlatformSplit routes the platform's cut to its own gateway account.
type PlatformSplit struct {
	Percentage      float64
	FixedFeeInCents int64
	AccountID       string
}

type GatewayCharge struct {
	ID           string            `json:"id"`
	QRCode       string            `json:"qrCode"`
	QRCodeBase64 string            `json:"qrCodeBase64"`
	Status       TransactionStatus `json:"status"`
	ValueInCents int64             `json:"value"`
}

type GatewayChargeStatus struct {
	ID           string            `json:"id"`
	Status       TransactionStatus `json:"status"`
	ValueInCents int64             `json:"value"`
	PaidAt       *time.Time        `json:"paidAt,omitempty"`
}

// PaymentGateway is the PIX cash-in capability. A rejected request is reported as an error
// wrapping ErrGatewayRejected with the gateway's message.
type PaymentGateway interface {
	CreateCharge(ctx context.Context, req *ChargeRequest, creds GatewayCredentials, split PlatformSplit) (*GatewayCharge, error)
	GetStatus(ctx context.Context, chargeID string, creds GatewayCredentials) (*GatewayChargeStatus, error)
}

// GatewayNotification is a status push received from the gateway (HTTP webhook or queue).
type GatewayNotification struct {
	ID     string     `json:"id"`
	Status string     `json:"status"`
	Value  int64      `json:"value"`
	PaidAt *time.Time `json:"paid_at,omitempty"`
}
