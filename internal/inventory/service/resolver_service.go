package service

import (
	"errors"
	"fmt"

	"context"

	"github.com/MerlinStacks/woodash-dashboard-sub005/internal/inventory/entity"
	"github.com/MerlinStacks/woodash-dashboard-sub005/internal/inventory/repository"
	"github.com/shopspring/decimal"
)

// ResolvedComponent 组件的当前单位成本与可用库存
// Stock为nil表示Unbounded：该组件不约束可组装数量
type ResolvedComponent struct {
	UnitCost decimal.Decimal `json:"unit_cost"`
	Stock    *int64          `json:"stock"`
}

// ResolverService 组件解析器：纯查询，不做任何推导
type ResolverService struct {
	productRepo  *repository.ProductRepository
	supplierRepo *repository.SupplierRepository
}

func NewResolverService(productRepo *repository.ProductRepository, supplierRepo *repository.SupplierRepository) *ResolverService {
	return &ResolverService{
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
	}
}

// Resolve 解析组件引用的成本与库存
// 成本优先级：变体覆盖成本 → 商品成本 → 0；未开启库存管理视为Unbounded
// 引用失效返回ErrComponentNotFound
func (s *ResolverService) Resolve(ctx context.Context, ref entity.ComponentRef) (*ResolvedComponent, error) {
	switch ref.Kind {
	case entity.ComponentKindProduct:
		product, err := s.productRepo.FindByID(ctx, ref.ProductID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrComponentNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("resolve product %d: %w", ref.ProductID, err)
		}
		resolved := &ResolvedComponent{UnitCost: decimal.Zero}
		if product.Cost != nil {
			resolved.UnitCost = *product.Cost
		}
		if product.ManageStock {
			stock := product.StockQuantity
			resolved.Stock = &stock
		}
		return resolved, nil

	case entity.ComponentKindVariant:
		variant, err := s.productRepo.FindVariantByID(ctx, ref.ProductID, ref.VariantID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrComponentNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("resolve variant %d/%d: %w", ref.ProductID, ref.VariantID, err)
		}
		resolved := &ResolvedComponent{UnitCost: decimal.Zero}
		if variant.CostOverride != nil {
			resolved.UnitCost = *variant.CostOverride
		} else {
			// 变体没有覆盖成本时回退到商品成本；商品不存在视为无成本，
			// 其余错误（如连接失败）必须上抛，不能降级成0成本
			product, err := s.productRepo.FindByID(ctx, ref.ProductID)
			switch {
			case err == nil:
				if product.Cost != nil {
					resolved.UnitCost = *product.Cost
				}
			case !errors.Is(err, repository.ErrNotFound):
				return nil, fmt.Errorf("resolve variant %d/%d parent cost: %w", ref.ProductID, ref.VariantID, err)
			}
		}
		if variant.ManageStock {
			stock := variant.StockQuantity
			resolved.Stock = &stock
		}
		return resolved, nil

	case entity.ComponentKindSupplier:
		item, err := s.supplierRepo.FindItemByID(ctx, ref.SupplierItemID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrComponentNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("resolve supplier item %s: %w", ref.SupplierItemID, err)
		}
		// 供应商条目只提供成本，永远不约束库存
		return &ResolvedComponent{UnitCost: item.UnitCost}, nil

	default:
		return nil, fmt.Errorf("unknown component kind %q", ref.Kind)
	}
}
