// Package cart captures checkout leads that have not paid yet.
package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/LavaJover/shvark-checkout-service/internal/domain"
	"github.com/LavaJover/shvark-checkout-service/internal/usecase/dto"
	cartdto "github.com/LavaJover/shvark-checkout-service/internal/usecase/dto/cart"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type CartUsecase interface {
	RecordAbandonedCart(ctx context.Context, input *cartdto.RecordCartInput) (*domain.AbandonedCart, error)
	UpdateCartStatus(ctx context.Context, input *cartdto.UpdateCartStatusInput) (*domain.AbandonedCart, error)
	ListCarts(ctx context.Context, sellerID string) ([]*domain.AbandonedCart, error)
}

type DefaultCartUsecase struct {
	Ledger *domain.Ledger
	Logger logrus.FieldLogger

	now func() time.Time
}

func NewDefaultCartUsecase(ledger *domain.Ledger, logger logrus.FieldLogger) *DefaultCartUsecase {
	return &DefaultCartUsecase{Ledger: ledger, Logger: logger, now: time.Now}
}

// RecordAbandonedCart touches the open cart for seller, e-mail and product, or opens a new one.
func (uc *DefaultCartUsecase) RecordAbandonedCart(ctx context.Context, input *cartdto.RecordCartInput) (*domain.AbandonedCart, error) {
	if err := dto.Validate(input); err != nil {
		return nil, err
	}

	var cart *domain.AbandonedCart
	err := uc.Ledger.Transactor.WithinTx(ctx, func(ctx context.Context) error {
		product, err := uc.Ledger.Products.GetProductByID(ctx, input.ProductID)
		if err != nil {
			return err
		}

		value := input.ValueInCents
		if value == 0 {
			value = product.PriceInCents
		}
		email := strings.ToLower(strings.TrimSpace(input.Email))
		now := uc.now()

		existing, err := uc.Ledger.Carts.FindLatestOpenCart(ctx, product.SellerID, email, product.ID)
		switch {
		case err == nil:
			if input.Name != "" {
				existing.Customer.Name = input.Name
			}
			if input.WhatsApp != "" {
				existing.Customer.WhatsApp = input.WhatsApp
			}
			existing.PotentialValueInCents = value
			existing.LastInteractionAt = now
			cart = existing
			return uc.Ledger.Carts.UpdateCart(ctx, existing)
		case !errors.Is(err, domain.ErrCartNotFound):
			return err
		}

		cart = &domain.AbandonedCart{
			ID:       uuid.NewString(),
			SellerID: product.SellerID,
			Customer: domain.CustomerInfo{
				Name:     input.Name,
				Email:    email,
				WhatsApp: input.WhatsApp,
			},
			ProductID:             product.ID,
			ProductName:           product.Name,
			PotentialValueInCents: value,
			CreatedAt:             now,
			LastInteractionAt:     now,
			Status:                domain.CartNotContacted,
		}
		return uc.Ledger.Carts.CreateCart(ctx, cart)
	})
	if err != nil {
		return nil, fmt.Errorf("record cart: %w", err)
	}

	uc.Logger.WithFields(logrus.Fields{
		"cart_id":    cart.ID,
		"seller_id":  cart.SellerID,
		"product_id": cart.ProductID,
	}).Debug("abandoned cart recorded")
	return cart, nil
}

// UpdateCartStatus applies a manual follow-up status. RECOVERED carts are owned by settlement.
func (uc *DefaultCartUsecase) UpdateCartStatus(ctx context.Context, input *cartdto.UpdateCartStatusInput) (*domain.AbandonedCart, error) {
	if err := dto.Validate(input); err != nil {
		return nil, err
	}

	var cart *domain.AbandonedCart
	err := uc.Ledger.Transactor.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		cart, err = uc.Ledger.Carts.GetCartByID(ctx, input.CartID)
		if err != nil {
			return err
		}
		if cart.Status == domain.CartRecovered {
			return fmt.Errorf("%w: cart %s is already recovered", domain.ErrInvalidCartStatus, cart.ID)
		}
		cart.Status = domain.CartStatus(input.Status)
		cart.LastInteractionAt = uc.now()
		return uc.Ledger.Carts.UpdateCart(ctx, cart)
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (uc *DefaultCartUsecase) ListCarts(ctx context.Context, sellerID string) ([]*domain.AbandonedCart, error) {
	return uc.Ledger.Carts.ListCartsBySeller(ctx, sellerID)
}
