package domain

import "time"

type FunnelStage string

const (
	FunnelLead     FunnelStage = "LEAD"
	FunnelProspect FunnelStage = "PROSPECT"
	FunnelCustomer FunnelStage = "CUSTOMER"
)

// Customer is keyed by (SellerID, Email); ID equals the e-mail address.
type Customer struct {
	ID                string
	SellerID          string
	Name              string
	Email             string
	WhatsApp          string
	ProductsPurchased []string
	FunnelStage       FunnelStage
	FirstPurchaseAt   *time.Time
	LastPurchaseAt    *time.Time
	TotalOrders       int
	TotalSpentInCents int64
	SaleIDs           []string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (c *Customer) HasSale(saleID string) bool {
	for _, id := range c.SaleIDs {
		if id == saleID {
			return true
		}
	}
	return false
}

func (c *Customer) Clone() *Customer {
	if c == nil {
		return nil
	}
	cp := *c
	cp.ProductsPurchased = append([]string(nil), c.ProductsPurchased...)
	cp.SaleIDs = append([]string(nil), c.SaleIDs...)
	if c.FirstPurchaseAt != nil {
		t := *c.FirstPurchaseAt
		cp.FirstPurchaseAt = &t
	}
	if c.LastPurchaseAt != nil {
		t := *c.LastPurchaseAt
		cp.LastPurchaseAt = &t
	}
	return &cp
}

// MergeUnique appends the values of add missing from base, keeping order.
func MergeUnique(base []string, add ...string) []string {
	seen := make(map[string]struct{}, len(base)+len(add))
	out := make([]string, 0, len(base)+len(add))
	for _, v := range base {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	for _, v := range add {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
