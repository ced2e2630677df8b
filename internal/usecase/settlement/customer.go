package settlement

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/LavaJover/shvark-checkout-service/internal/domain"
)

type purchase struct {
	sellerID string
	customer domain.CustomerInfo
	items    []domain.LineItem
	amount   int64
	saleID   string
	at       time.Time
	upsell   bool
}

// upsertCustomer folds one paid purchase into the seller's customer record. A primary sale
// already present in SaleIDs is not counted twice; an upsell adds spend and products but no order.
// An empty saleID leaves SaleIDs untouched.
func (uc *DefaultSettlementUsecase) upsertCustomer(ctx context.Context, p purchase) error {
	email := strings.ToLower(strings.TrimSpace(p.customer.Email))
	if email == "" {
		uc.Logger.WithField("sale_id", p.saleID).Warn("paid transaction has no customer e-mail, customer not updated")
		return nil
	}

	productIDs := make([]string, 0, len(p.items))
	for _, item := range p.items {
		productIDs = append(productIDs, item.ProductID)
	}

	existing, err := uc.Ledger.Customers.GetCustomer(ctx, p.sellerID, email)
	if errors.Is(err, domain.ErrCustomerNotFound) {
		orders := 1
		if p.upsell {
			orders = 0
		}
		at := p.at
		customer := &domain.Customer{
			ID:                email,
			SellerID:          p.sellerID,
			Name:              p.customer.Name,
			Email:             email,
			WhatsApp:          p.customer.WhatsApp,
			ProductsPurchased: domain.MergeUnique(nil, productIDs...),
			FunnelStage:       domain.FunnelCustomer,
			FirstPurchaseAt:   &at,
			LastPurchaseAt:    &at,
			TotalOrders:       orders,
			TotalSpentInCents: p.amount,
			SaleIDs:           domain.MergeUnique(nil, p.saleID),
			CreatedAt:         uc.now(),
			UpdatedAt:         uc.now(),
		}
		if err := uc.Ledger.Customers.SaveCustomer(ctx, customer); err != nil {
			return fmt.Errorf("create customer: %w", err)
		}
		return nil
	}
	if err != nil {
		return err
	}

	if !p.upsell && p.saleID != "" && existing.HasSale(p.saleID) {
		return nil
	}

	if p.customer.Name != "" {
		existing.Name = p.customer.Name
	}
	if p.customer.WhatsApp != "" {
		existing.WhatsApp = p.customer.WhatsApp
	}
	existing.ProductsPurchased = domain.MergeUnique(existing.ProductsPurchased, productIDs...)
	existing.FunnelStage = domain.FunnelCustomer
	at := p.at
	if existing.FirstPurchaseAt == nil {
		existing.FirstPurchaseAt = &at
	}
	if existing.LastPurchaseAt == nil || at.After(*existing.LastPurchaseAt) {
		existing.LastPurchaseAt = &at
	}
	if !p.upsell {
		existing.TotalOrders++
	}
	existing.TotalSpentInCents += p.amount
	existing.SaleIDs = domain.MergeUnique(existing.SaleIDs, p.saleID)
	existing.UpdatedAt = uc.now()

	if err := uc.Ledger.Customers.SaveCustomer(ctx, existing); err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}
