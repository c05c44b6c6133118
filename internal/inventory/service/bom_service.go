package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/MerlinStacks/woodash-dashboard-sub005/internal/inventory/entity"
	"github.com/MerlinStacks/woodash-dashboard-sub005/internal/inventory/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// BOMService BOM存取与推导
type BOMService struct {
	bomRepo   *repository.BOMRepository
	auditRepo *repository.AuditRepository
	resolver  *ResolverService
}

func NewBOMService(bomRepo *repository.BOMRepository, auditRepo *repository.AuditRepository, resolver *ResolverService) *BOMService {
	return &BOMService{
		bomRepo:   bomRepo,
		auditRepo: auditRepo,
		resolver:  resolver,
	}
}

// ---- Input DTOs ----

// LineInput 提交的BOM行
type LineInput struct {
	Kind            string  `json:"kind" binding:"required"`
	ProductID       int64   `json:"product_id"`
	VariantID       int64   `json:"variant_id"`
	SupplierItemID  string  `json:"supplier_item_id"`
	QuantityPerUnit float64 `json:"quantity_per_unit"`
	WasteFactor     float64 `json:"waste_factor"`
}

// Component 组件引用
func (in LineInput) Component() entity.ComponentRef {
	return entity.ComponentRef{
		Kind:           in.Kind,
		ProductID:      in.ProductID,
		VariantID:      in.VariantID,
		SupplierItemID: in.SupplierItemID,
	}
}

// ScopeSave 一个scope的整单保存请求
type ScopeSave struct {
	Scope entity.BOMScope `json:"scope"`
	Lines []LineInput     `json:"lines"`
}

// ---- View DTOs ----

// BOMLineView 带解析结果的BOM行
type BOMLineView struct {
	entity.BOMLine
	UnitCost decimal.Decimal `json:"unit_cost"`
	Stock    *int64          `json:"stock"`
	LineCost decimal.Decimal `json:"line_cost"`
	Missing  bool            `json:"missing"`
}

// BOMView scope的BOM快照：行 + 两个推导值
// EffectiveStock为nil表示Unbounded（没有任何库存约束）
type BOMView struct {
	Scope          entity.BOMScope `json:"scope"`
	Lines          []BOMLineView   `json:"lines"`
	Cost           decimal.Decimal `json:"cost"`
	EffectiveStock *int64          `json:"effective_stock"`
}

// ---- 读取与推导 ----

// Resolve 加载scope的行并逐行解析，失效组件降级为Missing标记
func (s *BOMService) Resolve(ctx context.Context, scope entity.BOMScope) ([]ResolvedLine, error) {
	lines, err := s.bomRepo.LoadLines(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("load bom lines: %w", err)
	}

	resolved := make([]ResolvedLine, 0, len(lines))
	for _, line := range lines {
		component, err := s.resolver.Resolve(ctx, line.Component())
		if errors.Is(err, ErrComponentNotFound) {
			resolved = append(resolved, ResolvedLine{Line: line, Missing: true})
			continue
		}
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, ResolvedLine{Line: line, Component: component})
	}
	return resolved, nil
}

// Get scope的BOM视图，成本与有效库存每次读取都重新计算，从不落库
func (s *BOMService) Get(ctx context.Context, scope entity.BOMScope) (*BOMView, error) {
	resolved, err := s.Resolve(ctx, scope)
	if err != nil {
		return nil, err
	}

	view := &BOMView{
		Scope:          scope,
		Lines:          make([]BOMLineView, 0, len(resolved)),
		Cost:           RollupCost(resolved),
		EffectiveStock: RollupStock(resolved),
	}
	for _, rl := range resolved {
		lv := BOMLineView{
			BOMLine:  rl.Line,
			LineCost: LineCost(rl),
			Missing:  rl.Missing,
		}
		if rl.Component != nil {
			lv.UnitCost = rl.Component.UnitCost
			lv.Stock = rl.Component.Stock
		}
		view.Lines = append(view.Lines, lv)
	}
	return view, nil
}

// ---- 保存 ----

// Save 整单替换scope的组件行
// 先对提交的完整行集校验全部不变量，任何一条违反则整单拒绝，库内状态保持不变
func (s *BOMService) Save(ctx context.Context, scope entity.BOMScope, inputs []LineInput, actorID string) error {
	if err := s.validate(ctx, scope, inputs); err != nil {
		return err
	}

	now := time.Now()
	lines := make([]entity.BOMLine, 0, len(inputs))
	for i, in := range inputs {
		line := entity.BOMLine{
			ID:              uuid.New().String()[:32],
			OwnerProductID:  scope.ProductID,
			OwnerVariantID:  scope.VariantID,
			ComponentKind:   in.Kind,
			ProductID:       in.ProductID,
			VariantID:       in.VariantID,
			QuantityPerUnit: in.QuantityPerUnit,
			WasteFactor:     in.WasteFactor,
			Position:        i + 1,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if in.Kind == entity.ComponentKindSupplier {
			supplierItemID := in.SupplierItemID
			line.SupplierItemID = &supplierItemID
		}
		lines = append(lines, line)
	}

	if err := s.bomRepo.ReplaceLines(ctx, scope, lines); err != nil {
		return fmt.Errorf("replace bom lines: %w", err)
	}

	s.audit(ctx, scope, "bom_save", actorID, map[string]interface{}{
		"line_count": len(lines),
	})
	return nil
}

// validate 校验提交的完整行集
// 规则依次：数量合法 → 不自引用 → 组件不得自己拥有BOM（组合只允许一层）→ 组件不重复
func (s *BOMService) validate(ctx context.Context, scope entity.BOMScope, inputs []LineInput) error {
	for i, in := range inputs {
		ref := in.Component()

		if in.QuantityPerUnit <= 0 {
			return &ValidationError{
				Rule:    RuleBadQuantity,
				Message: fmt.Sprintf("line %d: quantity per unit must be positive", i+1),
			}
		}
		if in.WasteFactor < 0 {
			return &ValidationError{
				Rule:    RuleBadQuantity,
				Message: fmt.Sprintf("line %d: waste factor must not be negative", i+1),
			}
		}

		if refersToScope(ref, scope) {
			return &ValidationError{
				Rule:    RuleSelfReference,
				Message: fmt.Sprintf("line %d: component refers to the BOM owner itself", i+1),
			}
		}

		if componentScope, ok := componentOwnerScope(ref); ok {
			owns, err := s.bomRepo.OwnsLines(ctx, componentScope)
			if err != nil {
				return fmt.Errorf("check nested bom: %w", err)
			}
			if owns {
				return &ValidationError{
					Rule:    RuleNestedBOM,
					Message: fmt.Sprintf("line %d: component %s owns a BOM of its own, nested composition is not allowed", i+1, componentScope),
				}
			}
		}

		for j := 0; j < i; j++ {
			if inputs[j].Component().Equal(ref) {
				return &ValidationError{
					Rule:    RuleDuplicateComponent,
					Message: fmt.Sprintf("line %d duplicates line %d", i+1, j+1),
				}
			}
		}
	}
	return nil
}

// refersToScope 组件引用是否就是归属scope自身
func refersToScope(ref entity.ComponentRef, scope entity.BOMScope) bool {
	switch ref.Kind {
	case entity.ComponentKindProduct:
		return scope.VariantID == 0 && ref.ProductID == scope.ProductID
	case entity.ComponentKindVariant:
		return ref.ProductID == scope.ProductID && ref.VariantID == scope.VariantID
	default:
		return false
	}
}

// componentOwnerScope 组件作为BOM归属方时对应的scope
// 供应商条目不可能拥有BOM，返回ok=false
func componentOwnerScope(ref entity.ComponentRef) (entity.BOMScope, bool) {
	switch ref.Kind {
	case entity.ComponentKindProduct:
		return entity.BOMScope{ProductID: ref.ProductID, VariantID: 0}, true
	case entity.ComponentKindVariant:
		return entity.BOMScope{ProductID: ref.ProductID, VariantID: ref.VariantID}, true
	default:
		return entity.BOMScope{}, false
	}
}

// ---- 批量保存 ----

// ScopeError 批量保存中单个scope的失败
type ScopeError struct {
	Scope entity.BOMScope `json:"scope"`
	Error string          `json:"error"`
	Rule  string          `json:"rule,omitempty"`
}

// BatchResult 批量保存结果，部分失败不是错误
type BatchResult struct {
	Succeeded []entity.BOMScope `json:"succeeded"`
	Failed    []ScopeError      `json:"failed"`
}

// SaveAll 并发保存多个scope（主商品+全部变体一次提交）
// 各scope是互相独立的事务：单个失败不阻塞、不回滚其他scope
func (s *BOMService) SaveAll(ctx context.Context, saves []ScopeSave, actorID string) *BatchResult {
	errs := make([]error, len(saves))

	var g errgroup.Group
	g.SetLimit(8)
	for i := range saves {
		i := i
		g.Go(func() error {
			errs[i] = s.Save(ctx, saves[i].Scope, saves[i].Lines, actorID)
			return nil
		})
	}
	g.Wait()

	result := &BatchResult{
		Succeeded: []entity.BOMScope{},
		Failed:    []ScopeError{},
	}
	for i, err := range errs {
		if err == nil {
			result.Succeeded = append(result.Succeeded, saves[i].Scope)
			continue
		}
		scopeErr := ScopeError{Scope: saves[i].Scope, Error: err.Error()}
		var ve *ValidationError
		if errors.As(err, &ve) {
			scopeErr.Rule = ve.Rule
		}
		result.Failed = append(result.Failed, scopeErr)
	}

	// 固定输出顺序，便于前端展示
	sort.Slice(result.Succeeded, func(a, b int) bool {
		if result.Succeeded[a].ProductID != result.Succeeded[b].ProductID {
			return result.Succeeded[a].ProductID < result.Succeeded[b].ProductID
		}
		return result.Succeeded[a].VariantID < result.Succeeded[b].VariantID
	})
	return result
}

// audit 尽力写审计，不影响主流程
func (s *BOMService) audit(ctx context.Context, scope entity.BOMScope, action, actorID string, detail map[string]interface{}) {
	if s.auditRepo == nil {
		return
	}
	detail["scope"] = scope.String()
	_ = s.auditRepo.Create(ctx, &entity.AuditLog{
		ID:         uuid.New().String()[:32],
		EntityType: entity.AuditEntityProduct,
		EntityID:   strconv.FormatInt(scope.ProductID, 10),
		Action:     action,
		Detail:     entity.JSONB(detail),
		ActorID:    actorID,
		CreatedAt:  time.Now(),
	})
}
