package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MokokAf/amm-saas/pkg/model"
)

// ActionLogRepository only inserts and reads; the audit trail is never
// updated or deleted by application code.
type ActionLogRepository struct {
	db *gorm.DB
}

func NewActionLogRepository(db *gorm.DB) *ActionLogRepository {
	return &ActionLogRepository{db: db}
}

func (r *ActionLogRepository) Append(ctx context.Context, entry *model.ActionLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *ActionLogRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]model.ActionLog, int64, error) {
	var entries []model.ActionLog
	var total int64

	query := r.db.WithContext(ctx).Model(&model.ActionLog{}).Where("tenant_id = ?", tenantID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error

	return entries, total, err
}
