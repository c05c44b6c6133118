package repository

import (
	"context"

	"github.com/MerlinStacks/woodash-dashboard-sub005/internal/inventory/entity"
	"gorm.io/gorm"
)

type BOMRepository struct {
	db *gorm.DB
}

func NewBOMRepository(db *gorm.DB) *BOMRepository {
	return &BOMRepository{db: db}
}

func (r *BOMRepository) DB() *gorm.DB {
	return r.db
}

// LoadLines 读取scope的全部组件行（按position排序）
func (r *BOMRepository) LoadLines(ctx context.Context, scope entity.BOMScope) ([]entity.BOMLine, error) {
	var lines []entity.BOMLine
	err := r.db.WithContext(ctx).
		Preload("SupplierItem").
		Where("owner_product_id = ? AND owner_variant_id = ?", scope.ProductID, scope.VariantID).
		Order("position ASC").
		Find(&lines).Error
	return lines, err
}

// ReplaceLines 以事务整体替换scope的组件行：要么全部生效，要么原状不变
func (r *BOMRepository) ReplaceLines(ctx context.Context, scope entity.BOMScope, lines []entity.BOMLine) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entity.BOMLine{},
			"owner_product_id = ? AND owner_variant_id = ?", scope.ProductID, scope.VariantID).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}
		return tx.Create(&lines).Error
	})
}

// OwnsLines 点查询：指定scope是否拥有任何组件行
// 组合只允许一层，嵌套校验靠这个查询而不是图遍历
func (r *BOMRepository) OwnsLines(ctx context.Context, scope entity.BOMScope) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.BOMLine{}).
		Where("owner_product_id = ? AND owner_variant_id = ?", scope.ProductID, scope.VariantID).
		Count(&count).Error
	return count > 0, err
}

// DeleteByOwnerProduct 级联删除商品（含全部变体scope）的BOM行
func (r *BOMRepository) DeleteByOwnerProduct(ctx context.Context, productID int64) error {
	return r.db.WithContext(ctx).Delete(&entity.BOMLine{}, "owner_product_id = ?", productID).Error
}

// ListOwnerScopes 列出拥有组件行的scope（选择器过滤用）
func (r *BOMRepository) ListOwnerScopes(ctx context.Context) ([]entity.BOMScope, error) {
	var scopes []entity.BOMScope
	err := r.db.WithContext(ctx).Model(&entity.BOMLine{}).
		Select("owner_product_id AS product_id, owner_variant_id AS variant_id").
		Group("owner_product_id, owner_variant_id").
		Scan(&scopes).Error
	return scopes, err
}
