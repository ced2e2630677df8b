package settlement

import (
	"context"
	"strings"

	"github.com/LavaJover/shvark-checkout-service/internal/domain"
)

func (uc *DefaultSettlementUsecase) GetSale(ctx context.Context, saleID string) (*domain.Sale, error) {
	return uc.Ledger.Sales.GetSaleByID(ctx, saleID)
}

func (uc *DefaultSettlementUsecase) ListSales(ctx context.Context, sellerID string) ([]*domain.Sale, error) {
	return uc.Ledger.Sales.ListSalesBySeller(ctx, sellerID)
}

func (uc *DefaultSettlementUsecase) GetCustomer(ctx context.Context, sellerID, email string) (*domain.Customer, error) {
	return uc.Ledger.Customers.GetCustomer(ctx, sellerID, strings.ToLower(strings.TrimSpace(email)))
}
