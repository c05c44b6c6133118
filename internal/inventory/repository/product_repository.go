package repository

import (
	"context"
	"errors"

	"github.com/MerlinStacks/woodash-dashboard-sub005/internal/inventory/entity"
	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) DB() *gorm.DB {
	return r.db
}

// FindByID 根据ID查找商品（含变体）
func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).Preload("Variants").First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindVariantByID 根据变体ID查找变体
func (r *ProductRepository) FindVariantByID(ctx context.Context, productID, variantID int64) (*entity.ProductVariant, error) {
	var variant entity.ProductVariant
	err := r.db.WithContext(ctx).First(&variant, "id = ? AND product_id = ?", variantID, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

// List 商品列表
func (r *ProductRepository) List(ctx context.Context, keyword string, page, pageSize int) ([]entity.Product, int64, error) {
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	if page <= 0 {
		page = 1
	}
	query := r.db.WithContext(ctx).Model(&entity.Product{})
	if keyword != "" {
		like := "%" + keyword + "%"
		query = query.Where("name ILIKE ? OR sku ILIKE ?", like, like)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var products []entity.Product
	err := query.Order("updated_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&products).Error
	return products, total, err
}

// Upsert 创建或更新商品镜像
func (r *ProductRepository) Upsert(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// Update 更新商品
func (r *ProductRepository) Update(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// UpdateVariant 更新变体
func (r *ProductRepository) UpdateVariant(ctx context.Context, variant *entity.ProductVariant) error {
	return r.db.WithContext(ctx).Save(variant).Error
}

// ListVariantIDs 获取商品全部变体ID
func (r *ProductRepository) ListVariantIDs(ctx context.Context, productID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&entity.ProductVariant{}).
		Where("product_id = ?", productID).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}

// Delete 删除商品及其变体，并级联删除所有归属scope的BOM行
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entity.BOMLine{}, "owner_product_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&entity.ProductVariant{}, "product_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Product{}, "id = ?", id).Error
	})
}

// SearchComponents 组件选择器搜索：按名称/SKU模糊匹配商品与变体
// 结果在handler层再过滤掉已拥有BOM的条目（仅为前端便利，权威校验在BOM保存时）
func (r *ProductRepository) SearchComponents(ctx context.Context, keyword string, limit int) ([]entity.Product, []entity.ProductVariant, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	like := "%" + keyword + "%"

	var products []entity.Product
	if err := r.db.WithContext(ctx).
		Where("name ILIKE ? OR sku ILIKE ?", like, like).
		Order("name ASC").
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, nil, err
	}

	var variants []entity.ProductVariant
	if err := r.db.WithContext(ctx).
		Where("sku ILIKE ?", like).
		Order("id ASC").
		Limit(limit).
		Find(&variants).Error; err != nil {
		return nil, nil, err
	}

	return products, variants, nil
}
