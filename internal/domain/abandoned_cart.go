package domain

import "time"

type CartStatus string

const (
	CartNotContacted CartStatus = "NOT_CONTACTED"
	CartEmailSent    CartStatus = "EMAIL_SENT"
	CartRecovered    CartStatus = "RECOVERED"
	CartIgnored      CartStatus = "IGNORED"
)

type AbandonedCart struct {
	ID                    string
	SellerID              string
	Customer              CustomerInfo
	ProductID             string
	ProductName           string
	PotentialValueInCents int64
	CreatedAt             time.Time
	LastInteractionAt     time.Time
	Status                CartStatus
}

func (c *AbandonedCart) Clone() *AbandonedCart {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}
