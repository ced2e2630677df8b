package response

import (
	"time"

	"github.com/LavaJover/shvark-checkout-service/internal/domain"
)

type ErrorResponse struct {
	Error string             `json:"error"`
	Kind  domain.FailureKind `json:"kind"`
}

type CommissionResponse struct {
	TotalPriceInCents     int64 `json:"totalPriceInCents"`
	GatewayFeeInCents     int64 `json:"gatewayFeeInCents"`
	PlatformFeeInCents    int64 `json:"platformFeeInCents"`
	UserCommissionInCents int64 `json:"userCommissionInCents"`
}

type SaleResponse struct {
	ID                        string                    `json:"id"`
	SellerID                  string                    `json:"sellerId"`
	TransactionID             string                    `json:"transactionId"`
	Customer                  domain.CustomerInfo       `json:"customer"`
	Items                     []domain.LineItem         `json:"items"`
	PaymentMethod             string                    `json:"paymentMethod"`
	Status                    domain.TransactionStatus  `json:"status"`
	TotalAmountInCents        int64                     `json:"totalAmountInCents"`
	OriginalAmountInCents     int64                     `json:"originalAmountInCents"`
	DiscountInCents           int64                     `json:"discountInCents"`
	CouponCode                string                    `json:"couponCode,omitempty"`
	CreatedAt                 time.Time                 `json:"createdAt"`
	PaidAt                    *time.Time                `json:"paidAt,omitempty"`
	TrackingParameters        domain.TrackingParameters `json:"trackingParameters"`
	Commission                CommissionResponse        `json:"commission"`
	PlatformCommissionInCents int64                     `json:"platformCommissionInCents"`
	UpsellTransactionID       string                    `json:"upsellTransactionId,omitempty"`
	UpsellStatus              domain.TransactionStatus  `json:"upsellStatus,omitempty"`
	UpsellAmountInCents       int64                     `json:"upsellAmountInCents,omitempty"`
}

func FromSale(s *domain.Sale) SaleResponse {
	return SaleResponse{
		ID:                    s.ID,
		SellerID:              s.SellerID,
		TransactionID:         s.TransactionID,
		Customer:              s.Customer,
		Items:                 s.Items,
		PaymentMethod:         s.PaymentMethod,
		Status:                s.Status,
		TotalAmountInCents:    s.TotalAmountInCents,
		OriginalAmountInCents: s.OriginalAmountInCents,
		DiscountInCents:       s.DiscountInCents,
		CouponCode:            s.CouponCode,
		CreatedAt:             s.CreatedAt,
		PaidAt:                s.PaidAt,
		TrackingParameters:    s.Tracking,
		Commission: CommissionResponse{
			TotalPriceInCents:     s.Commission.TotalPriceInCents,
			GatewayFeeInCents:     s.Commission.GatewayFeeInCents,
			PlatformFeeInCents:    s.Commission.PlatformFeeInCents,
			UserCommissionInCents: s.Commission.UserCommissionInCents,
		},
		PlatformCommissionInCents: s.PlatformCommissionInCents,
		UpsellTransactionID:       s.UpsellTransactionID,
		UpsellStatus:              s.UpsellStatus,
		UpsellAmountInCents:       s.UpsellAmountInCents,
	}
}

func FromSales(sales []*domain.Sale) []SaleResponse {
	out := make([]SaleResponse, 0, len(sales))
	for _, s := range sales {
		out = append(out, FromSale(s))
	}
	return out
}

type ProductResponse struct {
	ID           string          `json:"id"`
	SellerID     string          `json:"sellerId"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Slug         string          `json:"slug"`
	PriceInCents int64           `json:"priceInCents"`
	OrderBump    *domain.Offer   `json:"orderBump,omitempty"`
	Upsell       *domain.Offer   `json:"upsell,omitempty"`
	Coupons      []domain.Coupon `json:"coupons"`
	TotalSales   int             `json:"totalSales"`
	CreatedAt    time.Time       `json:"createdAt"`
}

func FromProduct(p *domain.Product) ProductResponse {
	coupons := p.Coupons
	if coupons == nil {
		coupons = []domain.Coupon{}
	}
	return ProductResponse{
		ID:           p.ID,
		SellerID:     p.SellerID,
		Name:         p.Name,
		Description:  p.Description,
		Slug:         p.Slug,
		PriceInCents: p.PriceInCents,
		OrderBump:    p.OrderBump,
		Upsell:       p.Upsell,
		Coupons:      coupons,
		TotalSales:   p.TotalSales,
		CreatedAt:    p.CreatedAt,
	}
}

type CartResponse struct {
	ID                    string              `json:"id"`
	SellerID              string              `json:"sellerId"`
	Customer              domain.CustomerInfo `json:"customer"`
	ProductID             string              `json:"productId"`
	ProductName           string              `json:"productName"`
	PotentialValueInCents int64               `json:"potentialValueInCents"`
	CreatedAt             time.Time           `json:"createdAt"`
	LastInteractionAt     time.Time           `json:"lastInteractionAt"`
	Status                domain.CartStatus   `json:"status"`
}

func FromCart(c *domain.AbandonedCart) CartResponse {
	return CartResponse{
		ID:                    c.ID,
		SellerID:              c.SellerID,
		Customer:              c.Customer,
		ProductID:             c.ProductID,
		ProductName:           c.ProductName,
		PotentialValueInCents: c.PotentialValueInCents,
		CreatedAt:             c.CreatedAt,
		LastInteractionAt:     c.LastInteractionAt,
		Status:                c.Status,
	}
}

func FromCarts(carts []*domain.AbandonedCart) []CartResponse {
	out := make([]CartResponse, 0, len(carts))
	for _, c := range carts {
		out = append(out, FromCart(c))
	}
	return out
}

type CustomerResponse struct {
	SellerID          string             `json:"sellerId"`
	Name              string             `json:"name"`
	Email             string             `json:"email"`
	WhatsApp          string             `json:"whatsapp,omitempty"`
	ProductsPurchased []string           `json:"productsPurchased"`
	FunnelStage       domain.FunnelStage `json:"funnelStage"`
	FirstPurchaseAt   *time.Time         `json:"firstPurchaseAt,omitempty"`
	LastPurchaseAt    *time.Time         `json:"lastPurchaseAt,omitempty"`
	TotalOrders       int                `json:"totalOrders"`
	TotalSpentInCents int64              `json:"totalSpentInCents"`
	SaleIDs           []string           `json:"saleIds"`
}

func FromCustomer(c *domain.Customer) CustomerResponse {
	return CustomerResponse{
		SellerID:          c.SellerID,
		Name:              c.Name,
		Email:             c.Email,
		WhatsApp:          c.WhatsApp,
		ProductsPurchased: c.ProductsPurchased,
		FunnelStage:       c.FunnelStage,
		FirstPurchaseAt:   c.FirstPurchaseAt,
		LastPurchaseAt:    c.LastPurchaseAt,
		TotalOrders:       c.TotalOrders,
		TotalSpentInCents: c.TotalSpentInCents,
		SaleIDs:           c.SaleIDs,
	}
}

// AppSettingsResponse never echoes full tokens.
type AppSettingsResponse struct {
	SellerID         string    `json:"sellerId"`
	PushInPayToken   string    `json:"pushinpayToken,omitempty"`
	PushInPayEnabled bool      `json:"pushinpayEnabled"`
	UtmifyToken      string    `json:"utmifyToken,omitempty"`
	UtmifyEnabled    bool      `json:"utmifyEnabled"`
	CompanyName      string    `json:"companyName,omitempty"`
	CustomDomain     string    `json:"customDomain,omitempty"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func FromAppSettings(s *domain.AppSettings) AppSettingsResponse {
	return AppSettingsResponse{
		SellerID:         s.SellerID,
		PushInPayToken:   MaskToken(s.PushInPayToken),
		PushInPayEnabled: s.PushInPayEnabled,
		UtmifyToken:      MaskToken(s.UtmifyToken),
		UtmifyEnabled:    s.UtmifyEnabled,
		CompanyName:      s.CompanyName,
		CustomDomain:     s.CustomDomain,
		UpdatedAt:        s.UpdatedAt,
	}
}

func MaskToken(token string) string {
	switch {
	case token == "":
		return ""
	case len(token) <= 4:
		return "****"
	default:
		return "****" + token[len(token)-4:]
	}
}

type PlatformSettingsResponse struct {
	CommissionPercentage float64   `json:"commissionPercentage"`
	FixedFeeInCents      int64     `json:"fixedFeeInCents"`
	GatewayAccountID     string    `json:"gatewayAccountId"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

func FromPlatformSettings(s *domain.PlatformSettings) PlatformSettingsResponse {
	return PlatformSettingsResponse{
		CommissionPercentage: s.CommissionPercentage,
		FixedFeeInCents:      s.FixedFeeInCents,
		GatewayAccountID:     s.GatewayAccountID,
		UpdatedAt:            s.UpdatedAt,
	}
}

type AuditEntryResponse struct {
	ID          string              `json:"id"`
	Timestamp   time.Time           `json:"timestamp"`
	ActorID     string              `json:"actorId"`
	ActorEmail  string              `json:"actorEmail"`
	Action      domain.AuditAction  `json:"action"`
	TargetType  string              `json:"targetType"`
	TargetID    string              `json:"targetId"`
	Description string              `json:"description"`
	Details     domain.AuditDetails `json:"details"`
}

func FromAuditEntries(entries []*domain.AuditLogEntry) []AuditEntryResponse {
	out := make([]AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, AuditEntryResponse{
			ID:          e.ID,
			Timestamp:   e.Timestamp,
			ActorID:     e.ActorID,
			ActorEmail:  e.ActorEmail,
			Action:      e.Action,
			TargetType:  e.TargetType,
			TargetID:    e.TargetID,
			Description: e.Description,
			Details:     e.Details,
		})
	}
	return out
}

type ConfirmResponse struct {
	SaleID        string `json:"saleId"`
	TransactionID string `json:"transactionId"`
	AlreadyPaid   bool   `json:"alreadyPaid"`
}
