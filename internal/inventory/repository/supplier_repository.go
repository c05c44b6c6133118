package repository

import (
	"context"
	"errors"

	"github.com/MerlinStacks/woodash-dashboard-sub005/internal/inventory/entity"
	"gorm.io/gorm"
)

type SupplierRepository struct {
	db *gorm.DB
}

func NewSupplierRepository(db *gorm.DB) *SupplierRepository {
	return &SupplierRepository{db: db}
}

// Create 创建供应商
func (r *SupplierRepository) Create(ctx context.Context, supplier *entity.Supplier) error {
	return r.db.WithContext(ctx).Create(supplier).Error
}

// FindByID 根据ID查找供应商（含条目）
func (r *SupplierRepository) FindByID(ctx context.Context, id string) (*entity.Supplier, error) {
	var supplier entity.Supplier
	err := r.db.WithContext(ctx).Preload("Items").First(&supplier, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

// List 供应商列表
func (r *SupplierRepository) List(ctx context.Context) ([]entity.Supplier, error) {
	var suppliers []entity.Supplier
	err := r.db.WithContext(ctx).Order("name ASC").Find(&suppliers).Error
	return suppliers, err
}

// Update 更新供应商
func (r *SupplierRepository) Update(ctx context.Context, supplier *entity.Supplier) error {
	return r.db.WithContext(ctx).Save(supplier).Error
}

// Delete 删除供应商及其条目
func (r *SupplierRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entity.SupplierItem{}, "supplier_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Supplier{}, "id = ?", id).Error
	})
}

// CreateItem 创建供应商条目
func (r *SupplierRepository) CreateItem(ctx context.Context, item *entity.SupplierItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// FindItemByID 根据ID查找供应商条目
func (r *SupplierRepository) FindItemByID(ctx context.Context, id string) (*entity.SupplierItem, error) {
	var item entity.SupplierItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItem 更新供应商条目
func (r *SupplierRepository) UpdateItem(ctx context.Context, item *entity.SupplierItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// DeleteItem 删除供应商条目
func (r *SupplierRepository) DeleteItem(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entity.SupplierItem{}, "id = ?", id).Error
}

// SearchItems 按名称/SKU搜索供应商条目（组件选择器用）
func (r *SupplierRepository) SearchItems(ctx context.Context, keyword string, limit int) ([]entity.SupplierItem, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	like := "%" + keyword + "%"
	var items []entity.SupplierItem
	err := r.db.WithContext(ctx).
		Where("name ILIKE ? OR sku ILIKE ?", like, like).
		Order("name ASC").
		Limit(limit).
		Find(&items).Error
	return items, err
}
