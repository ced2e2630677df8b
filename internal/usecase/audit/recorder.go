// Package audit keeps the capped log of privileged state changes.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-checkout-service/internal/domain"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Recorder struct {
	Transactor domain.Transactor
	Repo       domain.AuditLogRepository
	Capacity   int
	Logger     logrus.FieldLogger

	now func() time.Time
}

func NewRecorder(transactor domain.Transactor, repo domain.AuditLogRepository, capacity int, logger logrus.FieldLogger) *Recorder {
	if capacity <= 0 {
		capacity = domain.DefaultAuditLogCapacity
	}
	return &Recorder{
		Transactor: transactor,
		Repo:       repo,
		Capacity:   capacity,
		Logger:     logger,
		now:        time.Now,
	}
}

// Record stamps the entry with an id and the current time, pushes it to the front of the log
// and drops everything past Capacity.
func (r *Recorder) Record(ctx context.Context, entry domain.AuditLogEntry) (*domain.AuditLogEntry, error) {
	entry.ID = uuid.NewString()
	entry.Timestamp = r.now()

	err := r.Transactor.WithinTx(ctx, func(ctx context.Context) error {
		if err := r.Repo.AppendEntry(ctx, &entry); err != nil {
			return fmt.Errorf("append audit entry: %w", err)
		}
		if err := r.Repo.TrimEntries(ctx, r.Capacity); err != nil {
			return fmt.Errorf("trim audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.Logger.WithFields(logrus.Fields{
		"audit_id":  entry.ID,
		"action":    entry.Action,
		"actor_id":  entry.ActorID,
		"target_id": entry.TargetID,
	}).Info("audit entry recorded")

	return &entry, nil
}

func (r *Recorder) List(ctx context.Context, limit int) ([]*domain.AuditLogEntry, error) {
	if limit <= 0 || limit > r.Capacity {
		limit = r.Capacity
	}
	return r.Repo.ListEntries(ctx, limit)
}
