package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-checkout-service/internal/domain"
	"github.com/LavaJover/shvark-checkout-service/internal/usecase/commission"
	"github.com/LavaJover/shvark-checkout-service/internal/usecase/tracking"
	"github.com/sirupsen/logrus"
)

// settled carries what the post-commit side effects need.
type settled struct {
	tx         *domain.PixTransaction
	sale       *domain.Sale
	commission domain.Commission
	// linked is set once an upsell was folded into its original sale.
	linked     bool
}

// ConfirmPayment marks the transaction PAID and settles it. Repeated calls for a paid
// transaction return the same sale id without touching anything.
func (uc *DefaultSettlementUsecase) ConfirmPayment(ctx context.Context, transactionID string, paidAt *time.Time) (*ConfirmResult, error) {
	unlock := uc.locks.Lock(transactionID)
	defer unlock()

	start := uc.now()
	result := &ConfirmResult{TransactionID: transactionID}
	var out settled

	err := uc.Ledger.Transactor.WithinTx(ctx, func(ctx context.Context) error {
		tx, err := uc.Ledger.Transactions.LockTransaction(ctx, transactionID)
		if err != nil {
			return err
		}

		if tx.Status == domain.StatusPaid {
			result.SaleID = resolvedSaleID(tx)
			result.AlreadyPaid = true
			return nil
		}
		if !tx.Status.CanTransitionTo(domain.StatusPaid) {
			return fmt.Errorf("%w: %s is %s", domain.ErrTransactionClosed, tx.ID, tx.Status)
		}

		paid := uc.now()
		if paidAt != nil {
			paid = *paidAt
		}
		if err := uc.Ledger.Transactions.UpdateTransactionStatus(ctx, tx.ID, domain.StatusPaid, &paid); err != nil {
			return fmt.Errorf("mark transaction paid: %w", err)
		}
		tx.Status = domain.StatusPaid
		tx.PaidAt = &paid

		if tx.IsUpsell {
			out, err = uc.settleUpsell(ctx, tx)
		} else {
			out, err = uc.settlePrimary(ctx, tx)
		}
		if err != nil {
			return err
		}
		result.SaleID = resolvedSaleID(tx)
		customerSaleID := result.SaleID
		if tx.IsUpsell && !out.linked {
			customerSaleID = ""
		}

		if err := uc.upsertCustomer(ctx, purchase{
			sellerID: tx.SellerID,
			customer: tx.Customer,
			items:    tx.Items,
			amount:   tx.ValueInCents,
			saleID:   customerSaleID,
			at:       paid,
			upsell:   tx.IsUpsell,
		}); err != nil {
			return err
		}

		if primary, ok := tx.PrimaryItem(); ok {
			recovered, err := uc.reconcileCart(ctx, tx.SellerID, tx.Customer.Email, primary.ProductID)
			if err != nil {
				return err
			}
			if recovered {
				uc.recordCartRecovered(tx.SellerID)
			}
		}
		return nil
	})
	if err != nil {
		uc.recordConfirmFailure(err)
		return nil, err
	}

	if result.AlreadyPaid {
		uc.Logger.WithFields(logrus.Fields{
			"transaction_id": transactionID,
			"sale_id":        result.SaleID,
		}).Info("transaction already paid, confirmation ignored")
		uc.recordDuplicate()
		return result, nil
	}

	uc.Logger.WithFields(logrus.Fields{
		"transaction_id": transactionID,
		"sale_id":        result.SaleID,
		"seller_id":      out.tx.SellerID,
		"upsell":         out.tx.IsUpsell,
		"amount":         out.tx.ValueInCents,
	}).Info("payment confirmed")

	uc.recordSettled(out, uc.now().Sub(start))
	uc.dispatchPaid(out)
	uc.publishPaid(out, result.SaleID)

	return result, nil
}

func resolvedSaleID(tx *domain.PixTransaction) string {
	if tx.IsUpsell {
		return tx.OriginalSaleID
	}
	return domain.SaleID(tx.SellerID, tx.ID)
}

func (uc *DefaultSettlementUsecase) settlePrimary(ctx context.Context, tx *domain.PixTransaction) (settled, error) {
	saleID := domain.SaleID(tx.SellerID, tx.ID)

	existing, err := uc.Ledger.Sales.GetSaleByID(ctx, saleID)
	switch {
	case err == nil:
		existing.Status = domain.StatusPaid
		existing.PaidAt = tx.PaidAt
		if err := uc.Ledger.Sales.SaveSale(ctx, existing); err != nil {
			return settled{}, fmt.Errorf("update sale %s: %w", saleID, err)
		}
		return settled{tx: tx, sale: existing, commission: existing.Commission}, nil
	case !errors.Is(err, domain.ErrSaleNotFound):
		return settled{}, err
	}

	split := commission.ForSettings(tx.ValueInCents, uc.platformSettings(ctx))
	sale := &domain.Sale{
		ID:                        saleID,
		SellerID:                  tx.SellerID,
		TransactionID:             tx.ID,
		Customer:                  tx.Customer,
		Items:                     append([]domain.LineItem(nil), tx.Items...),
		PaymentMethod:             domain.PaymentMethodPix,
		Status:                    domain.StatusPaid,
		TotalAmountInCents:        tx.ValueInCents,
		OriginalAmountInCents:     tx.OriginalValueInCents,
		DiscountInCents:           tx.DiscountInCents,
		CouponCode:                tx.CouponCode,
		CreatedAt:                 uc.now(),
		PaidAt:                    tx.PaidAt,
		Tracking:                  tx.Tracking,
		Commission:                split,
		PlatformCommissionInCents: split.PlatformFeeInCents,
	}
	if err := uc.Ledger.Sales.SaveSale(ctx, sale); err != nil {
		return settled{}, fmt.Errorf("save sale %s: %w", saleID, err)
	}

	if primary, ok := tx.PrimaryItem(); ok {
		err := uc.Ledger.Products.IncrementTotalSales(ctx, primary.ProductID, 1)
		switch {
		case errors.Is(err, domain.ErrProductNotFound):
			uc.Logger.WithField("product_id", primary.ProductID).Warn("sold product no longer exists, sales counter not updated")
		case err != nil:
			return settled{}, fmt.Errorf("increment product sales: %w", err)
		}
	}

	return settled{tx: tx, sale: sale, commission: split}, nil
}

// settleUpsell links the upsell proceeds into the original sale. A missing original sale is
// logged and settlement goes on without the link.
func (uc *DefaultSettlementUsecase) settleUpsell(ctx context.Context, tx *domain.PixTransaction) (settled, error) {
	split := commission.ForSettings(tx.ValueInCents, uc.platformSettings(ctx))
	out := settled{tx: tx, commission: split}

	log := uc.Logger.WithFields(logrus.Fields{
		"transaction_id":   tx.ID,
		"original_sale_id": tx.OriginalSaleID,
	})
	if tx.OriginalSaleID == "" {
		log.Warn("upsell transaction has no original sale")
		return out, nil
	}

	sale, err := uc.Ledger.Sales.GetSaleByID(ctx, tx.OriginalSaleID)
	if errors.Is(err, domain.ErrSaleNotFound) {
		log.Warn("original sale for upsell not found, proceeds not linked")
		return out, nil
	}
	if err != nil {
		return settled{}, err
	}

	item, ok := upsellItem(tx.Items)
	if ok {
		sale.Items = append(sale.Items, item)
	}
	sale.UpsellTransactionID = tx.ID
	sale.UpsellStatus = domain.StatusPaid
	sale.UpsellAmountInCents = tx.ValueInCents

	if err := uc.Ledger.Sales.SaveSale(ctx, sale); err != nil {
		return settled{}, fmt.Errorf("link upsell into sale %s: %w", sale.ID, err)
	}
	out.linked = true
	return out, nil
}

// upsellItem picks the item flagged as upsell, falling back to the first one.
func upsellItem(items []domain.LineItem) (domain.LineItem, bool) {
	for _, item := range items {
		if item.IsUpsell {
			return item, true
		}
	}
	if len(items) == 0 {
		return domain.LineItem{}, false
	}
	item := items[0]
	item.IsUpsell = true
	return item, true
}

// platformSettings returns nil when the singleton is missing, which yields a zero platform cut.
func (uc *DefaultSettlementUsecase) platformSettings(ctx context.Context) *domain.PlatformSettings {
	settings, err := uc.Ledger.Settings.GetPlatformSettings(ctx)
	if err != nil {
		uc.Logger.WithError(err).Warn("platform settings unavailable, settling without platform fee")
		return nil
	}
	return settings
}

func (uc *DefaultSettlementUsecase) dispatchPaid(out settled) {
	if uc.Tracker == nil {
		return
	}
	if out.sale != nil && !out.tx.IsUpsell {
		uc.Tracker.Dispatch(tracking.SaleSource(out.sale), domain.StatusPaid)
		return
	}
	uc.Tracker.Dispatch(tracking.TransactionSource(out.tx, out.commission), domain.StatusPaid)
}

func (uc *DefaultSettlementUsecase) publishPaid(out settled, saleID string) {
	if uc.Publisher == nil {
		return
	}
	go func(event domain.CheckoutEvent) {
		if err := uc.Publisher.PublishCheckoutEvent(context.Background(), event); err != nil {
			uc.Logger.WithError(err).WithField("transaction_id", event.TransactionID).Error("failed to publish checkout event")
		}
	}(domain.CheckoutEvent{
		Type:          domain.EventSalePaid,
		SellerID:      out.tx.SellerID,
		TransactionID: out.tx.ID,
		SaleID:        saleID,
		Status:        domain.StatusPaid,
		AmountInCents: out.tx.ValueInCents,
		IsUpsell:      out.tx.IsUpsell,
		OccurredAt:    *out.tx.PaidAt,
	})
}
