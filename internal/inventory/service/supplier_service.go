package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MerlinStacks/woodash-dashboard-sub005/internal/inventory/entity"
	"github.com/MerlinStacks/woodash-dashboard-sub005/internal/inventory/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SupplierService 供应商目录服务
type SupplierService struct {
	supplierRepo *repository.SupplierRepository
}

func NewSupplierService(supplierRepo *repository.SupplierRepository) *SupplierService {
	return &SupplierService{supplierRepo: supplierRepo}
}

// SupplierInput 供应商创建/更新请求
type SupplierInput struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Website string `json:"website"`
	Notes   string `json:"notes"`
}

// Create 创建供应商
func (s *SupplierService) Create(ctx context.Context, input *SupplierInput) (*entity.Supplier, error) {
	supplier := &entity.Supplier{
		ID:        uuid.New().String()[:32],
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Website:   input.Website,
		Notes:     input.Notes,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, fmt.Errorf("create supplier: %w", err)
	}
	return supplier, nil
}

// Get 供应商详情（含条目）
func (s *SupplierService) Get(ctx context.Context, id string) (*entity.Supplier, error) {
	return s.supplierRepo.FindByID(ctx, id)
}

// List 供应商列表
func (s *SupplierService) List(ctx context.Context) ([]entity.Supplier, error) {
	return s.supplierRepo.List(ctx)
}

// Update 更新供应商
func (s *SupplierService) Update(ctx context.Context, id string, input *SupplierInput) (*entity.Supplier, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("supplier not found: %w", err)
	}
	supplier.Name = input.Name
	supplier.Email = input.Email
	supplier.Phone = input.Phone
	supplier.Website = input.Website
	supplier.Notes = input.Notes
	supplier.UpdatedAt = time.Now()

	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, fmt.Errorf("update supplier: %w", err)
	}
	return supplier, nil
}

// Delete 删除供应商
func (s *SupplierService) Delete(ctx context.Context, id string) error {
	return s.supplierRepo.Delete(ctx, id)
}

// SupplierItemInput 供应商条目创建/更新请求
type SupplierItemInput struct {
	Name         string          `json:"name" binding:"required"`
	SKU          string          `json:"sku"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	LeadTimeDays *int            `json:"lead_time_days"`
	MOQ          *int            `json:"moq"`
}

// CreateItem 创建供应商条目
func (s *SupplierService) CreateItem(ctx context.Context, supplierID string, input *SupplierItemInput) (*entity.SupplierItem, error) {
	if _, err := s.supplierRepo.FindByID(ctx, supplierID); err != nil {
		return nil, fmt.Errorf("supplier not found: %w", err)
	}
	item := &entity.SupplierItem{
		ID:           uuid.New().String()[:32],
		SupplierID:   supplierID,
		Name:         input.Name,
		SKU:          input.SKU,
		UnitCost:     input.UnitCost,
		LeadTimeDays: input.LeadTimeDays,
		MOQ:          input.MOQ,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := s.supplierRepo.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("create supplier item: %w", err)
	}
	return item, nil
}

// UpdateItem 更新供应商条目
func (s *SupplierService) UpdateItem(ctx context.Context, itemID string, input *SupplierItemInput) (*entity.SupplierItem, error) {
	item, err := s.supplierRepo.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("supplier item not found: %w", err)
	}
	item.Name = input.Name
	item.SKU = input.SKU
	item.UnitCost = input.UnitCost
	item.LeadTimeDays = input.LeadTimeDays
	item.MOQ = input.MOQ
	item.UpdatedAt = time.Now()

	if err := s.supplierRepo.UpdateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("update supplier item: %w", err)
	}
	return item, nil
}

// DeleteItem 删除供应商条目
func (s *SupplierService) DeleteItem(ctx context.Context, itemID string) error {
	return s.supplierRepo.DeleteItem(ctx, itemID)
}

// SearchItems 供应商条目搜索（组件选择器）
func (s *SupplierService) SearchItems(ctx context.Context, keyword string, limit int) ([]entity.SupplierItem, error) {
	return s.supplierRepo.SearchItems(ctx, keyword, limit)
}
