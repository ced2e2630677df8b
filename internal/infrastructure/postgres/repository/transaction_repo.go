package repository

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-checkout-service/internal/domain"
	"github.com/LavaJover/shvark-checkout-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-checkout-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultPixTransactionRepository struct {
	DB *gorm.DB
}

func NewDefaultPixTransactionRepository(db *gorm.DB) *DefaultPixTransactionRepository {
	return &DefaultPixTransactionRepository{DB: db}
}

func (r *DefaultPixTransactionRepository) CreateTransaction(ctx context.Context, tx *domain.PixTransaction) error {
	return conn(ctx, r.DB).Create(mappers.ToGORMPixTransaction(tx)).Error
}

func (r *DefaultPixTransactionRepository) GetTransactionByID(ctx context.Context, transactionID string) (*domain.PixTransaction, error) {
	var model models.PixTransactionModel
	if err := conn(ctx, r.DB).First(&model, "id = ?", transactionID).Error; err != nil {
		return nil, notFound(err, domain.ErrTransactionNotFound, transactionID)
	}
	return mappers.ToDomainPixTransaction(&model), nil
}

func (r *DefaultPixTransactionRepository) LockTransaction(ctx context.Context, transactionID string) (*domain.PixTransaction, error) {
	var model models.PixTransactionModel
	err := conn(ctx, r.DB).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", transactionID).Error
	if err != nil {
		return nil, notFound(err, domain.ErrTransactionNotFound, transactionID)
	}
	return mappers.ToDomainPixTransaction(&model), nil
}

func (r *DefaultPixTransactionRepository) UpdateTransactionStatus(ctx context.Context, transactionID string, status domain.TransactionStatus, paidAt *time.Time) error {
	updates := map[string]any{"status": status}
	if paidAt != nil {
		updates["paid_at"] = *paidAt
	}
	res := conn(ctx, r.DB).Model(&models.PixTransactionModel{}).Where("id = ?", transactionID).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, domain.ErrTransactionNotFound, transactionID)
	}
	return nil
}

func (r *DefaultPixTransactionRepository) FindPendingTransactions(ctx context.Context, createdBefore time.Time, limit int) ([]*domain.PixTransaction, error) {
	var rows []models.PixTransactionModel
	query := conn(ctx, r.DB).
		Where("status = ? AND created_at < ?", domain.StatusWaitingPayment, createdBefore).
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.PixTransaction, 0, len(rows))
	for i := range rows {
		out = append(out, mappers.ToDomainPixTransaction(&rows[i]))
	}
	return out, nil
}
