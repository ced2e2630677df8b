package repository

import (
	"context"

	"github.com/LavaJover/shvark-checkout-service/internal/domain"
	"github.com/LavaJover/shvark-checkout-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-checkout-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultAuditLogRepository struct {
	DB *gorm.DB
}

func NewDefaultAuditLogRepository(db *gorm.DB) *DefaultAuditLogRepository {
	return &DefaultAuditLogRepository{DB: db}
}

func (r *DefaultAuditLogRepository) AppendEntry(ctx context.Context, entry *domain.AuditLogEntry) error {
	return conn(ctx, r.DB).Create(mappers.ToGORMAuditLogEntry(entry)).Error
}

func (r *DefaultAuditLogRepository) TrimEntries(ctx context.Context, keep int) error {
	if keep < 0 {
		return nil
	}
	db := conn(ctx, r.DB)
	var cutoff []uint64
	err := db.Model(&models.AuditLogModel{}).
		Order("seq DESC").
		Offset(keep).
		Limit(1).
		Pluck("seq", &cutoff).Error
	if err != nil {
		return err
	}
	if len(cutoff) == 0 {
		return nil
	}
	return db.Where("seq <= ?", cutoff[0]).Delete(&models.AuditLogModel{}).Error
}

func (r *DefaultAuditLogRepository) ListEntries(ctx context.Context, limit int) ([]*domain.AuditLogEntry, error) {
	var rows []models.AuditLogModel
	query := conn(ctx, r.DB).Order("seq DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.AuditLogEntry, 0, len(rows))
	for i := range rows {
		out = append(out, mappers.ToDomainAuditLogEntry(&rows[i]))
	}
	return out, nil
}
