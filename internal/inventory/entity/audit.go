package entity

import (
	"time"
)

// AuditLog 操作审计记录
type AuditLog struct {
	ID         string    `json:"id" gorm:"primaryKey;size:32"`
	EntityType string    `json:"entity_type" gorm:"size:32;not null;index:idx_audit_entity"`
	EntityID   string    `json:"entity_id" gorm:"size:64;not null;index:idx_audit_entity"`
	Action     string    `json:"action" gorm:"size:32;not null"` // bom_save/stock_push/...
	Detail     JSONB     `json:"detail" gorm:"type:jsonb"`
	ActorID    string    `json:"actor_id" gorm:"size:32"`
	CreatedAt  time.Time `json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// 审计实体类型
const (
	AuditEntityProduct = "PRODUCT"
	AuditEntityBOM     = "BOM"
)
