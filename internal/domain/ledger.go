package domain

import (
	"context"
	"time"
)

// Transactor scopes the writes of one operation; a failing fn leaves no partial writes behind.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *Product) error
	GetProductByID(ctx context.Context, productID string) (*Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*Product, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	IncrementTotalSales(ctx context.Context, productID string, delta int) error
}

type PixTransactionRepository interface {
	CreateTransaction(ctx context.Context, tx *PixTransaction) error
	GetTransactionByID(ctx context.Context, transactionID string) (*PixTransaction, error)
	// LockTransaction reads the row for update inside the current Transactor scope.
	LockTransaction(ctx context.Context, transactionID string) (*PixTransaction, error)
	UpdateTransactionStatus(ctx context.Context, transactionID string, status TransactionStatus, paidAt *time.Time) error
	FindPendingTransactions(ctx context.Context, createdBefore time.Time, limit int) ([]*PixTransaction, error)
}

type SaleRepository interface {
	GetSaleByID(ctx context.Context, saleID string) (*Sale, error)
	SaveSale(ctx context.Context, sale *Sale) error
	ListSalesBySeller(ctx context.Context, sellerID string) ([]*Sale, error)
}

type CustomerRepository interface {
	GetCustomer(ctx context.Context, sellerID, email string) (*Customer, error)
	SaveCustomer(ctx context.Context, customer *Customer) error
}

type AbandonedCartRepository interface {
	CreateCart(ctx context.Context, cart *AbandonedCart) error
	GetCartByID(ctx context.Context, cartID string) (*AbandonedCart, error)
	// FindLatestOpenCart returns the most recent cart for the triple whose status is not RECOVERED.
	FindLatestOpenCart(ctx context.Context, sellerID, email, productID string) (*AbandonedCart, error)
	UpdateCart(ctx context.Context, cart *AbandonedCart) error
	ListCartsBySeller(ctx context.Context, sellerID string) ([]*AbandonedCart, error)
}

type SettingsRepository interface {
	GetPlatformSettings(ctx context.Context) (*PlatformSettings, error)
	SavePlatformSettings(ctx context.Context, settings *PlatformSettings) error
	GetAppSettings(ctx context.Context, sellerID string) (*AppSettings, error)
	SaveAppSettings(ctx context.Context, settings *AppSettings) error
}

type AuditLogRepository interface {
	AppendEntry(ctx context.Context, entry *AuditLogEntry) error
	// TrimEntries keeps only the most recent keep entries.
	TrimEntries(ctx context.Context, keep int) error
	// ListEntries returns entries newest first.
	ListEntries(ctx context.Context, limit int) ([]*AuditLogEntry, error)
}

// Ledger bundles every repository the engine writes through.
type Ledger struct {
	Transactor   Transactor
	Products     ProductRepository
	Transactions PixTransactionRepository
	Sales        SaleRepository
	Customers    CustomerRepository
	Carts        AbandonedCartRepository
	Settings     SettingsRepository
	AuditLog     AuditLogRepository
}
