package chargedto

import (
	"time"

	"github.com/LavaJover/shvark-checkout-service/internal/domain"
)

// StatusOutput is the gateway status mapped onto the stored QR payload.
type StatusOutput struct {
	TransactionID string                   `json:"id"`
	Status        domain.TransactionStatus `json:"status"`
	ValueInCents  int64                    `json:"value"`
	QRCode        string                   `json:"qrCode"`
	QRCodeBase64  string                   `json:"qrCodeBase64"`
	PaidAt        *time.Time               `json:"paidAt,omitempty"`
	SaleID        string                   `json:"saleId,omitempty"`
}

func StatusFromTransaction(tx *domain.PixTransaction) *StatusOutput {
	return &StatusOutput{
		TransactionID: tx.ID,
		Status:        tx.Status,
		ValueInCents:  tx.ValueInCents,
		QRCode:        tx.QRCode,
		QRCodeBase64:  tx.QRCodeBase64,
		PaidAt:        tx.PaidAt,
	}
}
