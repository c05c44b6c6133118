package repository

import (
	"errors"

	"gorm.io/gorm"
)

// 错误定义
var (
	ErrNotFound = errors.New("record not found")
)

// Repositories 仓库集合
type Repositories struct {
	Product  *ProductRepository
	Supplier *SupplierRepository
	BOM      *BOMRepository
	Audit    *AuditRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Product:  NewProductRepository(db),
		Supplier: NewSupplierRepository(db),
		BOM:      NewBOMRepository(db),
		Audit:    NewAuditRepository(db),
	}
}
