package service

import (
	"context"
	"strings"

	"github.com/MerlinStacks/woodash-dashboard-sub005/internal/inventory/entity"
	"github.com/MerlinStacks/woodash-dashboard-sub005/internal/inventory/repository"
)

// AuditService 审计日志查询服务
type AuditService struct {
	auditRepo *repository.AuditRepository
}

func NewAuditService(auditRepo *repository.AuditRepository) *AuditService {
	return &AuditService{auditRepo: auditRepo}
}

// ListByEntity 按实体类型和ID查询审计记录,按时间倒序
func (s *AuditService) ListByEntity(ctx context.Context, entityType, entityID string, limit int) ([]entity.AuditLog, error) {
	entityType = strings.ToUpper(entityType)
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.auditRepo.ListByEntity(ctx, entityType, entityID, limit)
}
