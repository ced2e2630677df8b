package repository

import (
	"github.com/LavaJover/shvark-checkout-service/internal/domain"
	"gorm.io/gorm"
)

// NewLedger wires every gorm repository over one connection pool.
func NewLedger(db *gorm.DB) *domain.Ledger {
	return &domain.Ledger{
		Transactor:   NewGormTransactor(db),
		Products:     NewDefaultProductRepository(db),
		Transactions: NewDefaultPixTransactionRepository(db),
		Sales:        NewDefaultSaleRepository(db),
		Customers:    NewDefaultCustomerRepository(db),
		Carts:        NewDefaultAbandonedCartRepository(db),
		Settings:     NewDefaultSettingsRepository(db),
		AuditLog:     NewDefaultAuditLogRepository(db),
	}
}
