package domain

import (
	"fmt"
	"time"
)

const PaymentMethodPix = "pix"

// Commission is the split of one charge value. The parts always sum to TotalPriceInCents;
// UserCommissionInCents may be negative for tiny charges.
type Commission struct {
	TotalPriceInCents     int64 `json:"totalPriceInCents"`
	GatewayFeeInCents     int64 `json:"gatewayFeeInCents"`
	PlatformFeeInCents    int64 `json:"platformFeeInCents"`
	UserCommissionInCents int64 `json:"userCommissionInCents"`
}

func (c Commission) Balanced() bool {
	return c.GatewayFeeInCents+c.PlatformFeeInCents+c.UserCommissionInCents == c.TotalPriceInCents
}

type Sale struct {
	ID                        string
	SellerID                  string
	TransactionID             string
	Customer                  CustomerInfo
	Items                     []LineItem
	PaymentMethod             string
	Status                    TransactionStatus
	TotalAmountInCents        int64
	OriginalAmountInCents     int64
	DiscountInCents           int64
	CouponCode                string
	CreatedAt                 time.Time
	PaidAt                    *time.Time
	Tracking                  TrackingParameters
	Commission                Commission
	PlatformCommissionInCents int64

	UpsellTransactionID string
	UpsellStatus        TransactionStatus
	UpsellAmountInCents int64
}

// SaleID derives the sale id from seller and transaction so repeated confirmations collide.
func SaleID(sellerID, transactionID string) string {
	return fmt.Sprintf("sale_%s_%s", sellerID, transactionID)
}

func (s *Sale) Clone() *Sale {
	if s == nil {
		return nil
	}
	c := *s
	c.Items = append([]LineItem(nil), s.Items...)
	if s.PaidAt != nil {
		paidAt := *s.PaidAt
		c.PaidAt = &paidAt
	}
	return &c
}
