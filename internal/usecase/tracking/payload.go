package tracking

import (
	"errors"
	"strings"
	"time"

	"github.com/LavaJover/shvark-checkout-service/internal/domain"
)

// brazilTime is the fixed UTC-3 offset the attribution service expects.
var brazilTime = time.FixedZone("UTC-3", -3*60*60)

const defaultCountry = "BR"

var errEmptySource = errors.New("order event source has neither sale nor transaction")

// OrderEventSource is either a settled Sale or a bare charge attempt with its commission preview.
type OrderEventSource struct {
	Sale        *domain.Sale
	Transaction *domain.PixTransaction
	Commission  domain.Commission
}

func SaleSource(sale *domain.Sale) OrderEventSource {
	return OrderEventSource{Sale: sale}
}

func TransactionSource(tx *domain.PixTransaction, commission domain.Commission) OrderEventSource {
	return OrderEventSource{Transaction: tx, Commission: commission}
}

func (s OrderEventSource) SellerID() string {
	switch {
	case s.Sale != nil:
		return s.Sale.SellerID
	case s.Transaction != nil:
		return s.Transaction.SellerID
	}
	return ""
}

// OrderID is the charge id in both cases, so the attribution service sees one order per charge.
func (s OrderEventSource) OrderID() string {
	switch {
	case s.Sale != nil:
		return s.Sale.TransactionID
	case s.Transaction != nil:
		return s.Transaction.ID
	}
	return ""
}

type snapshot struct {
	createdAt  time.Time
	paidAt     *time.Time
	customer   domain.CustomerInfo
	items      []domain.LineItem
	tracking   domain.TrackingParameters
	commission domain.Commission
}

func (s OrderEventSource) snapshot() (snapshot, error) {
	switch {
	case s.Sale != nil:
		return snapshot{
			createdAt:  s.Sale.CreatedAt,
			paidAt:     s.Sale.PaidAt,
			customer:   s.Sale.Customer,
			items:      s.Sale.Items,
			tracking:   s.Sale.Tracking,
			commission: s.Sale.Commission,
		}, nil
	case s.Transaction != nil:
		return snapshot{
			createdAt:  s.Transaction.CreatedAt,
			paidAt:     s.Transaction.PaidAt,
			customer:   s.Transaction.Customer,
			items:      s.Transaction.Items,
			tracking:   s.Transaction.Tracking,
			commission: s.Commission,
		}, nil
	}
	return snapshot{}, errEmptySource
}

// BuildPayload normalizes src into the attribution service's order format.
func BuildPayload(src OrderEventSource, status domain.TransactionStatus, platform string) (*domain.TrackingPayload, error) {
	snap, err := src.snapshot()
	if err != nil {
		return nil, err
	}

	payload := &domain.TrackingPayload{
		OrderID:       src.OrderID(),
		Platform:      platform,
		PaymentMethod: domain.PaymentMethodPix,
		Status:        strings.ToLower(string(status)),
		CreatedAt:     formatTime(snap.createdAt),
		Customer: domain.TrackingCustomer{
			Name:    strings.TrimSpace(snap.customer.Name),
			Email:   strings.TrimSpace(snap.customer.Email),
			Phone:   nullable(snap.customer.WhatsApp),
			Country: defaultCountry,
		},
		Products:           make([]domain.TrackingProduct, 0, len(snap.items)),
		TrackingParameters: normalizeUTM(snap.tracking),
		Commission: domain.TrackingCommission{
			TotalPriceInCents:     snap.commission.TotalPriceInCents,
			GatewayFeeInCents:     snap.commission.GatewayFeeInCents,
			UserCommissionInCents: snap.commission.UserCommissionInCents,
		},
	}

	if status == domain.StatusPaid {
		approved := snap.createdAt
		if snap.paidAt != nil {
			approved = *snap.paidAt
		}
		formatted := formatTime(approved)
		payload.ApprovedDate = &formatted
	}

	for _, item := range snap.items {
		quantity := item.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		payload.Products = append(payload.Products, domain.TrackingProduct{
			ID:           item.ProductID,
			Name:         item.Name,
			Quantity:     quantity,
			PriceInCents: item.PriceInCents,
		})
	}

	return payload, nil
}

func formatTime(t time.Time) string {
	return t.In(brazilTime).Format(time.RFC3339)
}

// nullable trims v and maps blank values to nil.
func nullable(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func normalizeUTM(p domain.TrackingParameters) domain.TrackingUTM {
	return domain.TrackingUTM{
		Src:         nullable(p.Src),
		Sck:         nullable(p.Sck),
		UtmSource:   nullable(p.UtmSource),
		UtmCampaign: nullable(p.UtmCampaign),
		UtmMedium:   nullable(p.UtmMedium),
		UtmContent:  nullable(p.UtmContent),
		UtmTerm:     nullable(p.UtmTerm),
	}
}
