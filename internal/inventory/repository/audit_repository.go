package repository

import (
	"context"

	"github.com/MerlinStacks/woodash-dashboard-sub005/internal/inventory/entity"
	"gorm.io/gorm"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create 写入审计记录
func (r *AuditRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// ListByEntity 按实体查询审计记录
func (r *AuditRepository) ListByEntity(ctx context.Context, entityType, entityID string, limit int) ([]entity.AuditLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var logs []entity.AuditLog
	err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
