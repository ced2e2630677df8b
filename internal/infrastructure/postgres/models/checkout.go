package models

import (
	"time"

	"github.com/LavaJover/shvark-checkout-service/internal/domain"
	"gorm.io/datatypes"
)

type ProductModel struct {
	ID           string `gorm:"primaryKey;type:varchar(64)"`
	SellerID     string `gorm:"index;not null"`
	Name         string `gorm:"not null"`
	Description  string
	Slug         string `gorm:"uniqueIndex;not null"`
	PriceInCents int64  `gorm:"not null"`
	OrderBump    datatypes.JSONType[*domain.Offer]
	Upsell       datatypes.JSONType[*domain.Offer]
	Coupons      datatypes.JSONType[[]domain.Coupon]
	TotalSales   int `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (ProductModel) TableName() string { return "products" }

type PixTransactionModel struct {
	ID                   string `gorm:"primaryKey;type:varchar(128)"`
	SellerID             string `gorm:"index;not null"`
	ValueInCents         int64  `gorm:"not null"`
	OriginalValueInCents int64
	CouponCode           string
	DiscountInCents      int64
	QRCode               string                   `gorm:"column:qr_code;type:text"`
	QRCodeBase64         string                   `gorm:"column:qr_code_base64;type:text"`
	Status               domain.TransactionStatus `gorm:"index:idx_pix_status_created;not null"`
	CreatedAt            time.Time                `gorm:"index:idx_pix_status_created"`
	PaidAt               *time.Time
	WebhookURL           string
	Customer             datatypes.JSONType[domain.CustomerInfo]
	Items                datatypes.JSONType[[]domain.LineItem]
	Tracking             datatypes.JSONType[domain.TrackingParameters]
	IsUpsell             bool
	OriginalSaleID       string
}

func (PixTransactionModel) TableName() string { return "pix_transactions" }

type CommissionColumns struct {
	TotalPriceInCents     int64
	GatewayFeeInCents     int64
	PlatformFeeInCents    int64
	UserCommissionInCents int64
}

type SaleModel struct {
	ID                        string `gorm:"primaryKey;type:varchar(255)"`
	SellerID                  string `gorm:"index;not null"`
	TransactionID             string `gorm:"uniqueIndex;not null"`
	Customer                  datatypes.JSONType[domain.CustomerInfo]
	Items                     datatypes.JSONType[[]domain.LineItem]
	PaymentMethod             string
	Status                    domain.TransactionStatus
	TotalAmountInCents        int64
	OriginalAmountInCents     int64
	DiscountInCents           int64
	CouponCode                string
	CreatedAt                 time.Time `gorm:"index"`
	PaidAt                    *time.Time
	Tracking                  datatypes.JSONType[domain.TrackingParameters]
	Commission                CommissionColumns `gorm:"embedded;embeddedPrefix:commission_"`
	PlatformCommissionInCents int64
	UpsellTransactionID       string
	UpsellStatus              domain.TransactionStatus
	UpsellAmountInCents       int64
}

func (SaleModel) TableName() string { return "sales" }

type CustomerModel struct {
	SellerID          string `gorm:"primaryKey;type:varchar(64)"`
	Email             string `gorm:"primaryKey;type:varchar(320)"`
	Name              string
	WhatsApp          string `gorm:"column:whatsapp"`
	ProductsPurchased datatypes.JSONType[[]string]
	FunnelStage       domain.FunnelStage
	FirstPurchaseAt   *time.Time
	LastPurchaseAt    *time.Time
	TotalOrders       int
	TotalSpentInCents int64
	SaleIDs           datatypes.JSONType[[]string] `gorm:"column:sale_ids"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (CustomerModel) TableName() string { return "customers" }

type AbandonedCartModel struct {
	ID                    string `gorm:"primaryKey;type:varchar(64)"`
	SellerID              string `gorm:"index:idx_cart_lookup;not null"`
	CustomerName          string
	CustomerEmail         string `gorm:"index:idx_cart_lookup;not null"`
	CustomerWhatsApp      string `gorm:"column:customer_whatsapp"`
	ProductID             string `gorm:"index:idx_cart_lookup;not null"`
	ProductName           string
	PotentialValueInCents int64
	CreatedAt             time.Time
	LastInteractionAt     time.Time
	Status                domain.CartStatus `gorm:"not null"`
}

func (AbandonedCartModel) TableName() string { return "abandoned_carts" }

type PlatformSettingsModel struct {
	ID                   string `gorm:"primaryKey;type:varchar(32)"`
	CommissionPercentage float64
	FixedFeeInCents      int64
	GatewayAccountID     string
	UpdatedAt            time.Time
}

func (PlatformSettingsModel) TableName() string { return "platform_settings" }

type AppSettingsModel struct {
	SellerID         string `gorm:"primaryKey;type:varchar(64)"`
	PushInPayToken   string `gorm:"column:pushinpay_token"`
	PushInPayEnabled bool   `gorm:"column:pushinpay_enabled"`
	UtmifyToken      string
	UtmifyEnabled    bool
	CompanyName      string
	CustomDomain     string
	UpdatedAt        time.Time
}

func (AppSettingsModel) TableName() string { return "app_settings" }

// AuditLogModel orders entries by Seq; ID is the public identifier.
type AuditLogModel struct {
	Seq         uint64 `gorm:"primaryKey;autoIncrement"`
	ID          string `gorm:"uniqueIndex;not null"`
	Timestamp   time.Time
	ActorID     string
	ActorEmail  string
	Action      domain.AuditAction
	TargetType  string
	TargetID    string
	Description string
	Details     datatypes.JSONType[domain.AuditDetails]
}

func (AuditLogModel) TableName() string { return "audit_log_entries" }

// All lists every model for AutoMigrate.
func All() []any {
	return []any{
		&ProductModel{},
		&PixTransactionModel{},
		&SaleModel{},
		&CustomerModel{},
		&AbandonedCartModel{},
		&PlatformSettingsModel{},
		&AppSettingsModel{},
		&AuditLogModel{},
	}
}
