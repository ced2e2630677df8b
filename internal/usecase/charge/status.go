package charge

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/LavaJover/shvark-checkout-service/internal/domain"
	chargedto "github.com/LavaJover/shvark-checkout-service/internal/usecase/dto/charge"
	"github.com/sirupsen/logrus"
)

// CheckStatus polls the gateway for a stored transaction. With the seller's gateway disabled it
// returns a FAILED payload together with an ErrGatewayNotConfigured error.
func (uc *DefaultChargeUsecase) CheckStatus(ctx context.Context, transactionID string) (*chargedto.StatusOutput, error) {
	tx, err := uc.Ledger.Transactions.GetTransactionByID(ctx, transactionID)
	if err != nil {
		uc.recordFailure("status", err)
		return nil, err
	}
	if tx.SellerID == "" {
		err := fmt.Errorf("%w: transaction %s", domain.ErrOwnerNotFound, tx.ID)
		uc.recordFailure("status", err)
		return nil, err
	}

	creds, err := uc.gatewayCredentials(ctx, tx.SellerID)
	if err != nil {
		uc.recordFailure("status", err)
		failed := chargedto.StatusFromTransaction(tx)
		failed.Status = domain.StatusFailed
		return failed, err
	}

	if tx.Status.IsTerminal() {
		return uc.withSaleID(chargedto.StatusFromTransaction(tx), tx), nil
	}

	remote, err := uc.Gateway.GetStatus(ctx, tx.ID, creds)
	if err != nil {
		uc.recordFailure("status", err)
		return nil, fmt.Errorf("get charge status: %w", err)
	}

	out := chargedto.StatusFromTransaction(tx)
	out.Status = remote.Status
	if remote.ValueInCents > 0 && remote.ValueInCents != tx.ValueInCents {
		uc.Logger.WithFields(logrus.Fields{
			"transaction_id": tx.ID,
			"seller_id":      tx.SellerID,
			"stored_value":   tx.ValueInCents,
			"gateway_value":  remote.ValueInCents,
			"gateway_status": remote.Status,
		}).Warn("gateway reports a different charge value")
	}
	if remote.PaidAt != nil {
		out.PaidAt = remote.PaidAt
	}

	if err := uc.applyStatus(ctx, tx, remote.Status, remote.PaidAt, out); err != nil {
		return nil, err
	}
	return out, nil
}

// HandleNotification treats a gateway push as a hint only. The transaction is re-checked with the
// gateway and the gateway's answer is applied; the status carried by the push is never trusted.
func (uc *DefaultChargeUsecase) HandleNotification(ctx context.Context, n domain.GatewayNotification) (*chargedto.StatusOutput, error) {
	id := strings.TrimSpace(n.ID)
	if id == "" {
		return nil, fmt.Errorf("%w: notification without transaction id", domain.ErrInvalidInput)
	}

	uc.Logger.WithFields(logrus.Fields{
		"transaction_id": id,
		"raw_status":     n.Status,
	}).Info("gateway notification received, re-checking with gateway")

	out, err := uc.CheckStatus(ctx, id)
	if err != nil {
		return out, err
	}
	if claimed := domain.ParseGatewayStatus(n.Status); claimed != out.Status {
		uc.Logger.WithFields(logrus.Fields{
			"transaction_id": id,
			"claimed":        claimed,
			"gateway":        out.Status,
		}).Warn("notification status disagrees with gateway")
	}
	return out, nil
}

// applyStatus moves the stored transaction after the gateway's view and fills out accordingly.
func (uc *DefaultChargeUsecase) applyStatus(
	ctx context.Context,
	tx *domain.PixTransaction,
	status domain.TransactionStatus,
	paidAt *time.Time,
	out *chargedto.StatusOutput,
) error {
	switch status {
	case domain.StatusPaid:
		res, err := uc.Settlement.ConfirmPayment(ctx, tx.ID, paidAt)
		if err != nil {
			return fmt.Errorf("confirm payment: %w", err)
		}
		out.SaleID = res.SaleID
		if out.PaidAt == nil {
			if stored, err := uc.Ledger.Transactions.GetTransactionByID(ctx, tx.ID); err == nil {
				out.PaidAt = stored.PaidAt
			}
		}
	case domain.StatusExpired, domain.StatusCancelled, domain.StatusFailed:
		current, err := uc.closeTransaction(ctx, tx.ID, status)
		if err != nil {
			return err
		}
		out.Status = current
	}
	return nil
}

// closeTransaction moves a WAITING_PAYMENT transaction to a terminal failure status and returns
// the status the transaction ends up with.
func (uc *DefaultChargeUsecase) closeTransaction(ctx context.Context, transactionID string, status domain.TransactionStatus) (domain.TransactionStatus, error) {
	var (
		closed  *domain.PixTransaction
		current domain.TransactionStatus
	)
	err := uc.Ledger.Transactor.WithinTx(ctx, func(ctx context.Context) error {
		tx, err := uc.Ledger.Transactions.LockTransaction(ctx, transactionID)
		if err != nil {
			return err
		}
		current = tx.Status
		if !tx.Status.CanTransitionTo(status) {
			return nil
		}
		if err := uc.Ledger.Transactions.UpdateTransactionStatus(ctx, tx.ID, status, nil); err != nil {
			return fmt.Errorf("close transaction: %w", err)
		}
		tx.Status = status
		current = status
		closed = tx
		return nil
	})
	if err != nil {
		return "", err
	}
	if closed == nil {
		return current, nil
	}

	uc.Logger.WithFields(logrus.Fields{
		"transaction_id": closed.ID,
		"seller_id":      closed.SellerID,
		"status":         status,
	}).Info("charge closed")
	uc.recordTransition(status)
	uc.publish(domain.CheckoutEvent{
		Type:          domain.EventChargeClosed,
		SellerID:      closed.SellerID,
		TransactionID: closed.ID,
		Status:        status,
		AmountInCents: closed.ValueInCents,
		IsUpsell:      closed.IsUpsell,
		OccurredAt:    uc.now(),
	})
	return status, nil
}

func (uc *DefaultChargeUsecase) withSaleID(out *chargedto.StatusOutput, tx *domain.PixTransaction) *chargedto.StatusOutput {
	if tx.Status != domain.StatusPaid {
		return out
	}
	if tx.IsUpsell {
		out.SaleID = tx.OriginalSaleID
	} else {
		out.SaleID = domain.SaleID(tx.SellerID, tx.ID)
	}
	return out
}

// SweepPending re-checks WAITING_PAYMENT transactions older than minAge. Failures are logged
// per transaction; the count of checked transactions is returned.
func (uc *DefaultChargeUsecase) SweepPending(ctx context.Context, minAge time.Duration, limit int) (int, error) {
	pending, err := uc.Ledger.Transactions.FindPendingTransactions(ctx, uc.now().Add(-minAge), limit)
	if err != nil {
		return 0, fmt.Errorf("find pending transactions: %w", err)
	}

	checked := 0
	for _, tx := range pending {
		if ctx.Err() != nil {
			return checked, ctx.Err()
		}
		if _, err := uc.CheckStatus(ctx, tx.ID); err != nil {
			uc.Logger.WithError(err).WithField("transaction_id", tx.ID).Warn("pending charge check failed")
			continue
		}
		checked++
	}
	return checked, nil
}
