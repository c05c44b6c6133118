package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/MerlinStacks/woodash-dashboard-sub005/internal/inventory/entity"
	"github.com/MerlinStacks/woodash-dashboard-sub005/internal/inventory/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductService 商品目录服务
type ProductService struct {
	productRepo *repository.ProductRepository
	bomRepo     *repository.BOMRepository
	auditRepo   *repository.AuditRepository
}

func NewProductService(productRepo *repository.ProductRepository, bomRepo *repository.BOMRepository, auditRepo *repository.AuditRepository) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		bomRepo:     bomRepo,
		auditRepo:   auditRepo,
	}
}

// Get 商品详情
func (s *ProductService) Get(ctx context.Context, id int64) (*entity.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

// List 商品列表
func (s *ProductService) List(ctx context.Context, keyword string, page, pageSize int) ([]entity.Product, int64, error) {
	return s.productRepo.List(ctx, keyword, page, pageSize)
}

// UpdateProductInput 商品更新请求
type UpdateProductInput struct {
	Name      *string            `json:"name"`
	Price     *decimal.Decimal   `json:"price"`
	SalePrice *decimal.Decimal   `json:"sale_price"`
	Cost      *decimal.Decimal   `json:"cost"`
	MiscCosts *entity.JSONBArray `json:"misc_costs"`
}

// Update 更新商品本地字段（价格/成本/杂项成本）
func (s *ProductService) Update(ctx context.Context, id int64, input *UpdateProductInput, actorID string) (*entity.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("product not found: %w", err)
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Price != nil {
		product.Price = input.Price
	}
	if input.SalePrice != nil {
		product.SalePrice = input.SalePrice
	}
	if input.Cost != nil {
		product.Cost = input.Cost
	}
	if input.MiscCosts != nil {
		product.MiscCosts = *input.MiscCosts
	}
	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	if s.auditRepo != nil {
		_ = s.auditRepo.Create(ctx, &entity.AuditLog{
			ID:         uuid.New().String()[:32],
			EntityType: entity.AuditEntityProduct,
			EntityID:   strconv.FormatInt(id, 10),
			Action:     "product_update",
			ActorID:    actorID,
			CreatedAt:  time.Now(),
		})
	}
	return product, nil
}

// Delete 删除商品，连带删除变体与所有归属scope的BOM行
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return fmt.Errorf("product not found: %w", err)
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// ComponentCandidate 组件选择器候选项
type ComponentCandidate struct {
	Ref   entity.ComponentRef `json:"ref"`
	Label string              `json:"label"`
	SKU   string              `json:"sku,omitempty"`
}

// SearchComponents 组件选择器数据源
// 过滤掉自己拥有BOM的候选（前端便利；权威校验仍在保存时）
func (s *ProductService) SearchComponents(ctx context.Context, keyword string, limit int) ([]ComponentCandidate, error) {
	products, variants, err := s.productRepo.SearchComponents(ctx, keyword, limit)
	if err != nil {
		return nil, fmt.Errorf("search components: %w", err)
	}

	ownerScopes, err := s.bomRepo.ListOwnerScopes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bom owners: %w", err)
	}
	owners := make(map[entity.BOMScope]bool, len(ownerScopes))
	for _, scope := range ownerScopes {
		owners[scope] = true
	}

	var candidates []ComponentCandidate
	for _, p := range products {
		if owners[entity.BOMScope{ProductID: p.ID}] {
			continue
		}
		candidates = append(candidates, ComponentCandidate{
			Ref:   entity.ComponentRef{Kind: entity.ComponentKindProduct, ProductID: p.ID},
			Label: p.Name,
			SKU:   p.SKU,
		})
	}
	for _, v := range variants {
		if owners[entity.BOMScope{ProductID: v.ProductID, VariantID: v.ID}] {
			continue
		}
		candidates = append(candidates, ComponentCandidate{
			Ref:   entity.ComponentRef{Kind: entity.ComponentKindVariant, ProductID: v.ProductID, VariantID: v.ID},
			Label: fmt.Sprintf("variant %d/%d", v.ProductID, v.ID),
			SKU:   v.SKU,
		})
	}
	return candidates, nil
}
