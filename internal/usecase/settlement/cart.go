package settlement

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/LavaJover/shvark-checkout-service/internal/domain"
)

// reconcileCart marks the latest open cart for the triple as RECOVERED.
func (uc *DefaultSettlementUsecase) reconcileCart(ctx context.Context, sellerID, email, productID string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || productID == "" {
		return false, nil
	}

	cart, err := uc.Ledger.Carts.FindLatestOpenCart(ctx, sellerID, email, productID)
	if errors.Is(err, domain.ErrCartNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	cart.Status = domain.CartRecovered
	cart.LastInteractionAt = uc.now()
	if err := uc.Ledger.Carts.UpdateCart(ctx, cart); err != nil {
		return false, fmt.Errorf("recover cart %s: %w", cart.ID, err)
	}
	return true, nil
}
