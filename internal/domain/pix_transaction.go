package domain

import (
	"strings"
	"time"
)

type TransactionStatus string

const (
	StatusWaitingPayment TransactionStatus = "WAITING_PAYMENT"
	StatusPaid           TransactionStatus = "PAID"
	StatusExpired        TransactionStatus = "EXPIRED"
	StatusCancelled      TransactionStatus = "CANCELLED"
	StatusFailed         TransactionStatus = "FAILED"
)

// IsTerminal reports whether no further transition is allowed from s.
func (s TransactionStatus) IsTerminal() bool {
	switch s {
	case StatusPaid, StatusExpired, StatusCancelled, StatusFailed:
		return true
	}
	return false
}

// CanTransitionTo keeps the status monotonic: only WAITING_PAYMENT moves forward.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	if s != StatusWaitingPayment {
		return false
	}
	return next.IsTerminal()
}

// ParseGatewayStatus maps the gateway's lowercase vocabulary onto TransactionStatus.
func ParseGatewayStatus(raw string) TransactionStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "paid", "approved", "completed":
		return StatusPaid
	case "expired":
		return StatusExpired
	case "canceled", "cancelled":
		return StatusCancelled
	case "failed", "refused", "error":
		return StatusFailed
	default:
		return StatusWaitingPayment
	}
}

type CustomerInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	WhatsApp string `json:"whatsapp"`
}

type LineItem struct {
	ProductID    string `json:"productId"`
	Name         string `json:"name"`
	PriceInCents int64  `json:"priceInCents"`
	Quantity     int    `json:"quantity"`
	IsOrderBump  bool   `json:"isOrderBump,omitempty"`
	IsUpsell     bool   `json:"isUpsell,omitempty"`
}

type TrackingParameters struct {
	Src         string `json:"src,omitempty"`
	Sck         string `json:"sck,omitempty"`
	UtmSource   string `json:"utm_source,omitempty"`
	UtmCampaign string `json:"utm_campaign,omitempty"`
	UtmMedium   string `json:"utm_medium,omitempty"`
	UtmContent  string `json:"utm_content,omitempty"`
	UtmTerm     string `json:"utm_term,omitempty"`
}

// PixTransaction is one charge attempt. Its ID is the gateway's charge reference.
type PixTransaction struct {
	ID                   string
	SellerID             string
	ValueInCents         int64
	OriginalValueInCents int64
	CouponCode           string
	DiscountInCents      int64
	QRCode               string
	QRCodeBase64         string
	Status               TransactionStatus
	CreatedAt            time.Time
	PaidAt               *time.Time
	WebhookURL           string
	Customer             CustomerInfo
	Items                []LineItem
	Tracking             TrackingParameters
	IsUpsell             bool
	OriginalSaleID       string
}

// PrimaryItem returns the first item that is neither an order bump nor an upsell.
func (t *PixTransaction) PrimaryItem() (LineItem, bool) {
	return PrimaryLineItem(t.Items)
}

func PrimaryLineItem(items []LineItem) (LineItem, bool) {
	for _, item := range items {
		if !item.IsOrderBump && !item.IsUpsell {
			return item, true
		}
	}
	return LineItem{}, false
}

func (t *PixTransaction) Clone() *PixTransaction {
	if t == nil {
		return nil
	}
	c := *t
	c.Items = append([]LineItem(nil), t.Items...)
	if t.PaidAt != nil {
		paidAt := *t.PaidAt
		c.PaidAt = &paidAt
	}
	return &c
}
