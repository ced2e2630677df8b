package charge

import "github.com/LavaJover/shvark-checkout-service/internal/domain"

func (uc *DefaultChargeUsecase) recordCreated(tx *domain.PixTransaction) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordChargeCreated(tx.SellerID, tx.ValueInCents, tx.IsUpsell)
}

func (uc *DefaultChargeUsecase) recordFailure(operation string, err error) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordChargeFailure(operation, domain.KindOf(err))
}

func (uc *DefaultChargeUsecase) recordTransition(status domain.TransactionStatus) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordStatusTransition(status)
}
