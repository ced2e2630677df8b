package settlement

import (
	"time"

	"github.com/LavaJover/shvark-checkout-service/internal/domain"
)

func (uc *DefaultSettlementUsecase) recordSettled(out settled, elapsed time.Duration) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordPaymentConfirmed(out.tx.SellerID, out.tx.ValueInCents, out.tx.IsUpsell)
	uc.Metrics.RecordCommission(out.tx.SellerID, out.commission)
	uc.Metrics.ObserveSettlementDuration(elapsed.Seconds())
}

func (uc *DefaultSettlementUsecase) recordDuplicate() {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordDuplicateConfirmation()
}

func (uc *DefaultSettlementUsecase) recordCartRecovered(sellerID string) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordCartRecovered(sellerID)
}

func (uc *DefaultSettlementUsecase) recordConfirmFailure(err error) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordChargeFailure("confirm", domain.KindOf(err))
}
